// Package exclude classifies raw --exclude patterns and decides whether a
// planning candidate is excluded, resolving the Open Question in spec.md
// §9 the way original_source/src/main.rs's collect_files does: a single
// flat pattern list, disambiguated by prefix.
//
//	/name     exact directory-name exclusion
//	~/pattern wildcard directory-name pattern
//	~pattern  wildcard file-name pattern (not "~/...")
//	name      exact file-name exclusion (no prefix)
package exclude

import (
	"strings"

	"github.com/kosmokopy/kosmokopy/pkg/kosmo"
	"github.com/kosmokopy/kosmokopy/pkg/pattern"
)

// Set is a classified view of a raw pattern list, ready for repeated
// lookups during planning.
type Set struct {
	exactDirs     map[string]struct{}
	exactFiles    map[string]struct{}
	wildcardDirs  []string
	wildcardFiles []string
}

// Build classifies raw into a Set.
func Build(raw []string) *Set {
	s := &Set{
		exactDirs:  make(map[string]struct{}),
		exactFiles: make(map[string]struct{}),
	}
	for _, p := range raw {
		switch {
		case strings.HasPrefix(p, "/"):
			s.exactDirs[strings.TrimPrefix(p, "/")] = struct{}{}
		case strings.HasPrefix(p, "~/"):
			s.wildcardDirs = append(s.wildcardDirs, p[2:])
		case strings.HasPrefix(p, "~"):
			s.wildcardFiles = append(s.wildcardFiles, p[1:])
		default:
			s.exactFiles[p] = struct{}{}
		}
	}
	return s
}

// DirExcluded implements §4.2 steps 1–2 for a single directory name
// (not a path — the caller walks the chain component by component).
func (s *Set) DirExcluded(name string) (bool, kosmo.ExcludeReason, string) {
	if _, ok := s.exactDirs[name]; ok {
		return true, kosmo.InExcludedDir, name
	}
	for _, p := range s.wildcardDirs {
		if pattern.Matches(p, name) {
			return true, kosmo.MatchedPattern, p
		}
	}
	return false, "", ""
}

// FileExcluded implements §4.2 steps 3–4 for a file basename.
func (s *Set) FileExcluded(name string) (bool, kosmo.ExcludeReason, string) {
	if _, ok := s.exactFiles[name]; ok {
		return true, kosmo.MatchedPattern, name
	}
	for _, p := range s.wildcardFiles {
		if pattern.Matches(p, name) {
			return true, kosmo.MatchedPattern, p
		}
	}
	return false, "", ""
}
