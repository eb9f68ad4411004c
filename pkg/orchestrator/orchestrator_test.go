package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kosmokopy/kosmokopy/pkg/kosmo"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

// Scenario 1 (spec.md §8): files-only flatten, policy skip, copy.
func TestRunFilesOnlyFlattenSkipsSecondArrivalAsAlreadyExists(t *testing.T) {
	srcRoot, dstRoot := t.TempDir(), t.TempDir()
	write(t, filepath.Join(srcRoot, "a", "x.txt"), "A")
	write(t, filepath.Join(srcRoot, "a", "b", "x.txt"), "B")

	req := &kosmo.TransferRequest{
		Source:      kosmo.Location{Path: srcRoot},
		Destination: kosmo.Location{Path: dstRoot},
		Op:          kosmo.Copy,
		Layout:      kosmo.FilesOnly,
		Method:      kosmo.Standard,
		Policy:      kosmo.Skip,
	}

	summary, err := New(nil).Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Copied != 1 {
		t.Errorf("copied = %d, want 1", summary.Copied)
	}
	if len(summary.Skipped) != 1 || summary.Skipped[0].SkipReason != kosmo.AlreadyExists {
		t.Fatalf("skipped = %+v, want one AlreadyExists", summary.Skipped)
	}
	// filepath.WalkDir visits directory entries in lexical order, so
	// within a/ the subdirectory "b" sorts before the file "x.txt" and is
	// descended into first: a/b/x.txt ("B") is enumerated before a/x.txt
	// ("A"), and so claims the flattened destination path first.
	if got := readFile(t, filepath.Join(dstRoot, "x.txt")); got != "B" {
		t.Errorf("dest content = %q, want B (first arrival by lexical walk order wins)", got)
	}
}

// Scenario 2: rename auto-numbering against a pre-existing destination.
func TestRunRenamePolicyAutoNumbers(t *testing.T) {
	srcRoot, dstRoot := t.TempDir(), t.TempDir()
	write(t, filepath.Join(dstRoot, "file.txt"), "old")
	write(t, filepath.Join(srcRoot, "file.txt"), "new")

	req := &kosmo.TransferRequest{
		Source:      kosmo.Location{Path: srcRoot},
		Destination: kosmo.Location{Path: dstRoot},
		Op:          kosmo.Copy,
		Layout:      kosmo.FilesOnly,
		Method:      kosmo.Standard,
		Policy:      kosmo.Rename,
	}

	summary, err := New(nil).Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Copied != 1 {
		t.Errorf("copied = %d, want 1", summary.Copied)
	}
	if got := readFile(t, filepath.Join(dstRoot, "file.txt")); got != "old" {
		t.Errorf("original destination should be untouched, got %q", got)
	}
	if got := readFile(t, filepath.Join(dstRoot, "file (1).txt")); got != "new" {
		t.Errorf("renamed destination = %q, want new", got)
	}
}

// Scenario 3: move against an already-identical destination still deletes
// the source and reports Moved, but the JSON-facing count lands in
// skipped/identical rather than copied.
func TestRunMoveWithIdenticalDestinationDeletesSourceButDoesNotCountAsCopied(t *testing.T) {
	srcRoot, dstRoot := t.TempDir(), t.TempDir()
	write(t, filepath.Join(srcRoot, "data.bin"), "same-bytes")
	write(t, filepath.Join(dstRoot, "data.bin"), "same-bytes")

	req := &kosmo.TransferRequest{
		Source:      kosmo.Location{Path: srcRoot},
		Destination: kosmo.Location{Path: dstRoot},
		Op:          kosmo.Move,
		Layout:      kosmo.FilesOnly,
		Method:      kosmo.Standard,
		Policy:      kosmo.Skip,
	}

	summary, err := New(nil).Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Copied != 0 {
		t.Errorf("copied = %d, want 0", summary.Copied)
	}
	if len(summary.Skipped) != 1 || summary.Skipped[0].SkipReason != kosmo.Identical || summary.Skipped[0].Kind != kosmo.OutcomeMoved {
		t.Fatalf("skipped = %+v, want one Moved/Identical", summary.Skipped)
	}
	if _, err := os.Stat(filepath.Join(srcRoot, "data.bin")); !os.IsNotExist(err) {
		t.Errorf("source should be gone, stat err = %v", err)
	}
	if got := readFile(t, filepath.Join(dstRoot, "data.bin")); got != "same-bytes" {
		t.Errorf("destination should be untouched, got %q", got)
	}
}

// Scenario 5: case-folded pattern exclusion.
func TestRunPatternExclusionIsCaseFolded(t *testing.T) {
	srcRoot, dstRoot := t.TempDir(), t.TempDir()
	write(t, filepath.Join(srcRoot, "a.log"), "1")
	write(t, filepath.Join(srcRoot, "A.LOG"), "2")
	write(t, filepath.Join(srcRoot, "b.txt"), "3")

	req := &kosmo.TransferRequest{
		Source:      kosmo.Location{Path: srcRoot},
		Destination: kosmo.Location{Path: dstRoot},
		Op:          kosmo.Copy,
		Layout:      kosmo.FilesOnly,
		Method:      kosmo.Standard,
		Policy:      kosmo.Skip,
		Excludes:    []string{"~*.log"},
	}

	summary, err := New(nil).Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Copied != 1 {
		t.Errorf("copied = %d, want 1", summary.Copied)
	}
	if summary.ExcludedFiles != 2 {
		t.Errorf("excluded_files = %d, want 2", summary.ExcludedFiles)
	}
	if _, err := os.Stat(filepath.Join(dstRoot, "b.txt")); err != nil {
		t.Errorf("b.txt should have been copied: %v", err)
	}
}

func TestRunCancellationStopsBetweenFilesNotMidFile(t *testing.T) {
	srcRoot, dstRoot := t.TempDir(), t.TempDir()
	write(t, filepath.Join(srcRoot, "a.txt"), "1")
	write(t, filepath.Join(srcRoot, "b.txt"), "2")

	req := &kosmo.TransferRequest{
		Source:      kosmo.Location{Path: srcRoot},
		Destination: kosmo.Location{Path: dstRoot},
		Op:          kosmo.Copy,
		Layout:      kosmo.FilesOnly,
		Method:      kosmo.Standard,
		Policy:      kosmo.Skip,
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	time.Sleep(time.Millisecond)

	summary, err := New(nil).Run(ctx, req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Status != kosmo.StatusCancelled {
		t.Errorf("status = %q, want cancelled", summary.Status)
	}
	if summary.Copied != 0 {
		t.Errorf("a pre-cancelled context should transfer nothing, got copied=%d", summary.Copied)
	}
}
