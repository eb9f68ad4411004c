package exclude

import (
	"testing"

	"github.com/kosmokopy/kosmokopy/pkg/kosmo"
)

func TestBuildClassifiesPrefixes(t *testing.T) {
	s := Build([]string{"/node_modules", "~/build*", "~*.tmp", "Thumbs.db"})

	if excluded, reason, _ := s.DirExcluded("node_modules"); !excluded || reason != kosmo.InExcludedDir {
		t.Fatalf("expected exact dir exclusion, got excluded=%v reason=%v", excluded, reason)
	}
	if excluded, _, _ := s.DirExcluded("other"); excluded {
		t.Fatalf("did not expect exclusion for unrelated dir")
	}
	if excluded, reason, _ := s.DirExcluded("build-output"); !excluded || reason != kosmo.MatchedPattern {
		t.Fatalf("expected wildcard dir exclusion, got excluded=%v reason=%v", excluded, reason)
	}
	if excluded, reason, _ := s.FileExcluded("cache.tmp"); !excluded || reason != kosmo.MatchedPattern {
		t.Fatalf("expected wildcard file exclusion, got excluded=%v reason=%v", excluded, reason)
	}
	if excluded, reason, _ := s.FileExcluded("Thumbs.db"); !excluded || reason != kosmo.MatchedPattern {
		t.Fatalf("expected exact file exclusion, got excluded=%v reason=%v", excluded, reason)
	}
	if excluded, _, _ := s.FileExcluded("keep.txt"); excluded {
		t.Fatalf("did not expect exclusion for unrelated file")
	}
}

func TestFileExcludedCaseFold(t *testing.T) {
	s := Build([]string{"~*.log"})
	if excluded, _, _ := s.FileExcluded("A.LOG"); !excluded {
		t.Fatalf("expected case-insensitive match")
	}
}
