package plan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kosmokopy/kosmokopy/pkg/endpoint"
	"github.com/kosmokopy/kosmokopy/pkg/kosmo"
)

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestPlanFilesOnlyFlattensAndCollides(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "a", "x.txt"), "A")
	mustWrite(t, filepath.Join(root, "a", "b", "x.txt"), "B")

	req := &kosmo.TransferRequest{Layout: kosmo.FilesOnly}
	p := New(req)

	result, err := p.Plan(context.Background(), endpoint.Local(root), nil, nil)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(result.Files) != 2 {
		t.Fatalf("expected 2 planned files, got %d", len(result.Files))
	}
	for _, f := range result.Files {
		if f.DestRelPath != "x.txt" {
			t.Errorf("expected flattened dest path x.txt, got %q", f.DestRelPath)
		}
	}
}

func TestPlanPreserveFoldersKeepsSubpath(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "a", "b", "x.txt"), "B")

	req := &kosmo.TransferRequest{Layout: kosmo.PreserveFolders}
	p := New(req)

	result, err := p.Plan(context.Background(), endpoint.Local(root), nil, nil)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(result.Files) != 1 || result.Files[0].DestRelPath != "a/b/x.txt" {
		t.Fatalf("got %+v", result.Files)
	}
}

func TestPlanExclusionPruning(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "a.log"), "1")
	mustWrite(t, filepath.Join(root, "b.txt"), "2")
	mustWrite(t, filepath.Join(root, "node_modules", "dep.txt"), "3")

	req := &kosmo.TransferRequest{
		Layout:   kosmo.FilesOnly,
		Excludes: []string{"~*.log", "/node_modules"},
	}
	p := New(req)

	result, err := p.Plan(context.Background(), endpoint.Local(root), nil, nil)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(result.Files) != 1 || result.Files[0].DestRelPath != "b.txt" {
		t.Fatalf("expected only b.txt to survive, got %+v", result.Files)
	}
	if result.ExcludedFileCount() != 1 {
		t.Errorf("expected 1 excluded file, got %d", result.ExcludedFileCount())
	}
	if result.ExcludedDirCount() != 1 {
		t.Errorf("expected 1 excluded dir, got %d", result.ExcludedDirCount())
	}
}

func TestPlanStripSpaces(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "my dir", "my file.txt"), "x")

	req := &kosmo.TransferRequest{Layout: kosmo.PreserveFolders, StripSpaces: true}
	p := New(req)

	result, err := p.Plan(context.Background(), endpoint.Local(root), nil, nil)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(result.Files) != 1 || result.Files[0].DestRelPath != "my_dir/my_file.txt" {
		t.Fatalf("got %+v", result.Files)
	}
}

func TestPlanExplicitFilesBypassExclusions(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "a.log"), "1")

	req := &kosmo.TransferRequest{Layout: kosmo.FilesOnly, Excludes: []string{"~*.log"}}
	p := New(req)

	result, err := p.Plan(context.Background(), endpoint.Local(root), []string{filepath.Join(root, "a.log")}, nil)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(result.Files) != 1 || result.Files[0].DestRelPath != "a.log" {
		t.Fatalf("expected explicit selection to bypass exclusions, got %+v", result.Files)
	}
}
