package transport

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kosmokopy/kosmokopy/pkg/endpoint"
	"github.com/kosmokopy/kosmokopy/pkg/kosmo"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestLocalTransferCopyVerifies(t *testing.T) {
	srcRoot, dstRoot := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(srcRoot, "a.txt"), "hello")

	src, dst := endpoint.Local(srcRoot), endpoint.Local(dstRoot)
	res, err := Transfer(context.Background(), Options{
		Source: src, Dest: dst, SourceRel: "a.txt", DestRel: "a.txt",
		Method: kosmo.Standard, Move: false,
	})
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if res.SourceHandled {
		t.Errorf("copy should not report SourceHandled")
	}
	got, err := os.ReadFile(filepath.Join(dstRoot, "a.txt"))
	if err != nil || string(got) != "hello" {
		t.Fatalf("dest content = %q, %v", got, err)
	}
	if _, err := os.Stat(filepath.Join(srcRoot, "a.txt")); err != nil {
		t.Errorf("source should survive a copy: %v", err)
	}
}

func TestLocalTransferMoveSameDeviceUsesRename(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "a.txt"), "hello")
	dstDir := filepath.Join(root, "dst")
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		t.Fatal(err)
	}

	src, dst := endpoint.Local(filepath.Join(root, "src")), endpoint.Local(dstDir)
	res, err := Transfer(context.Background(), Options{
		Source: src, Dest: dst, SourceRel: "a.txt", DestRel: "a.txt",
		Method: kosmo.Standard, Move: true,
	})
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if !res.SourceHandled {
		t.Errorf("same-device move should report SourceHandled (rename already consumed source)")
	}
	if _, err := os.Stat(filepath.Join(root, "src", "a.txt")); !os.IsNotExist(err) {
		t.Errorf("source should be gone after rename, stat err = %v", err)
	}
}

func TestLocalTransferMoveWithoutRenameOptimizationStreamsAndVerifies(t *testing.T) {
	srcRoot, dstRoot := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(srcRoot, "a.txt"), "hello")

	src, dst := endpoint.Local(srcRoot), endpoint.Local(dstRoot)
	_, err := streamAndVerify(context.Background(), Options{
		Source: src, Dest: dst, SourceRel: "a.txt", DestRel: "a.txt",
		Method: kosmo.Standard, Move: true,
	})
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dstRoot, "a.txt")); err != nil {
		t.Errorf("destination should exist: %v", err)
	}
	if _, err := os.Stat(filepath.Join(srcRoot, "a.txt")); err != nil {
		t.Errorf("stream-and-verify path never deletes the source itself; that's the orchestrator's job: %v", err)
	}
}
