// Package plan implements the path planner of spec.md §4.2: enumerating
// candidate source files, applying exclusions in the specified order, and
// computing each survivor's destination-relative path.
package plan

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/kosmokopy/kosmokopy/pkg/endpoint"
	"github.com/kosmokopy/kosmokopy/pkg/exclude"
	"github.com/kosmokopy/kosmokopy/pkg/kosmo"
	"github.com/kosmokopy/kosmokopy/pkg/sshexec"
)

// Planner builds a Plan from a TransferRequest.
type Planner struct {
	Layout      kosmo.Layout
	StripSpaces bool
	Excludes    *exclude.Set
}

// New constructs a Planner from a request's layout, strip-spaces flag,
// and classified exclusion patterns.
func New(req *kosmo.TransferRequest) *Planner {
	return &Planner{
		Layout:      req.Layout,
		StripSpaces: req.StripSpaces,
		Excludes:    exclude.Build(req.Excludes),
	}
}

// Plan enumerates source against src and builds the filtered plan.
//
// Explicit file selections bypass exclusion filtering entirely — a user
// who names individual files has already made the selection decision,
// matching original_source/src/main.rs's SourceSelection::Files branch
// of collect_files, which returns its input list untouched.
func (p *Planner) Plan(ctx context.Context, src endpoint.Endpoint, sourceFiles []string, sshMgr *sshexec.Manager) (*kosmo.Plan, error) {
	if len(sourceFiles) > 0 {
		return p.planExplicitFiles(sourceFiles), nil
	}
	if src.IsLocal() {
		return p.planLocalDirectory(src)
	}
	return p.planRemoteDirectory(ctx, src, sshMgr)
}

func (p *Planner) planExplicitFiles(files []string) *kosmo.Plan {
	result := &kosmo.Plan{}
	for _, f := range files {
		base := filepath.Base(f)
		dest := base
		if p.StripSpaces {
			dest = stripSpacesComponent(dest)
		}
		result.Files = append(result.Files, kosmo.PlannedFile{
			SourcePath:  f,
			DestRelPath: dest,
		})
	}
	return result
}

func (p *Planner) planLocalDirectory(src endpoint.Endpoint) (*kosmo.Plan, error) {
	root := src.AbsPath("")
	result := &kosmo.Plan{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", path, err)
		}
		if path == root {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			name := d.Name()
			if excluded, reason, matched := p.Excludes.DirExcluded(name); excluded {
				result.Excluded = append(result.Excluded, kosmo.ExcludedEntry{
					Path: rel, Reason: reason, Pattern: matched, IsDir: true,
				})
				return filepath.SkipDir
			}
			return nil
		}

		base := d.Name()
		if excluded, reason, matched := p.Excludes.FileExcluded(base); excluded {
			result.Excluded = append(result.Excluded, kosmo.ExcludedEntry{
				Path: rel, Reason: reason, Pattern: matched, IsDir: false,
			})
			return nil
		}

		result.Files = append(result.Files, kosmo.PlannedFile{
			SourcePath:  rel,
			DestRelPath: p.destRelPath(rel, base),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate source: %w", err)
	}
	return result, nil
}

func (p *Planner) planRemoteDirectory(ctx context.Context, src endpoint.Endpoint, sshMgr *sshexec.Manager) (*kosmo.Plan, error) {
	out, err := sshexec.RunRemote(ctx, sshMgr, src.Host(), sshexec.RemoteFindFiles(src.Root()))
	if err != nil {
		return nil, fmt.Errorf("list remote source: %w", err)
	}

	result := &kosmo.Plan{}
	seenExcludedDirs := make(map[string]bool)

	root := src.Root()
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rel := strings.TrimPrefix(line, root)
		rel = strings.TrimPrefix(rel, "/")
		if rel == "" {
			continue
		}

		dir := ""
		if idx := strings.LastIndex(rel, "/"); idx >= 0 {
			dir = rel[:idx]
		}
		base := filepath.Base(rel)

		if excludedDir, dirPath, reason, matched := excludedByChain(p.Excludes, dir); excludedDir {
			if !seenExcludedDirs[dirPath] {
				result.Excluded = append(result.Excluded, kosmo.ExcludedEntry{
					Path: dirPath, Reason: reason, Pattern: matched, IsDir: true,
				})
				seenExcludedDirs[dirPath] = true
			}
			continue
		}

		if excluded, reason, matched := p.Excludes.FileExcluded(base); excluded {
			result.Excluded = append(result.Excluded, kosmo.ExcludedEntry{
				Path: rel, Reason: reason, Pattern: matched, IsDir: false,
			})
			continue
		}

		result.Files = append(result.Files, kosmo.PlannedFile{
			SourcePath:  rel,
			DestRelPath: p.destRelPath(rel, base),
		})
	}
	return result, nil
}

// excludedByChain walks dir's components from the root down, returning the
// first component that matches an exact or wildcard directory exclusion.
// Used for remote enumeration, where a single find call already lists
// every file and per-directory pruning during listing isn't possible.
func excludedByChain(excl *exclude.Set, dir string) (bool, string, kosmo.ExcludeReason, string) {
	if dir == "" {
		return false, "", "", ""
	}
	components := strings.Split(dir, "/")
	built := ""
	for _, c := range components {
		if built == "" {
			built = c
		} else {
			built = built + "/" + c
		}
		if excluded, reason, matched := excl.DirExcluded(c); excluded {
			return true, built, reason, matched
		}
	}
	return false, "", "", ""
}

func (p *Planner) destRelPath(rel, base string) string {
	if p.Layout == kosmo.FilesOnly {
		if p.StripSpaces {
			return stripSpacesComponent(base)
		}
		return base
	}
	if p.StripSpaces {
		return stripSpacesPath(rel)
	}
	return rel
}

func stripSpacesComponent(s string) string {
	return strings.ReplaceAll(s, " ", "_")
}

func stripSpacesPath(rel string) string {
	parts := strings.Split(rel, "/")
	for i, part := range parts {
		parts[i] = stripSpacesComponent(part)
	}
	return strings.Join(parts, "/")
}
