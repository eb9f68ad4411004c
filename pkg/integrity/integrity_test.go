package integrity

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kosmokopy/kosmokopy/pkg/endpoint"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writeFile: %v", err)
	}
}

func TestBytesEqualIdentical(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeFile(t, dirA, "f.txt", "hello world")
	writeFile(t, dirB, "f.txt", "hello world")

	a := endpoint.Local(dirA)
	b := endpoint.Local(dirB)

	eq, err := BytesEqual(context.Background(), a, b, "f.txt", "f.txt")
	if err != nil {
		t.Fatalf("BytesEqual: %v", err)
	}
	if !eq {
		t.Fatalf("expected files to compare equal")
	}
}

func TestBytesEqualDifferentContentSameSize(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeFile(t, dirA, "f.txt", "aaaaa")
	writeFile(t, dirB, "f.txt", "bbbbb")

	eq, err := BytesEqual(context.Background(), endpoint.Local(dirA), endpoint.Local(dirB), "f.txt", "f.txt")
	if err != nil {
		t.Fatalf("BytesEqual: %v", err)
	}
	if eq {
		t.Fatalf("expected files to differ")
	}
}

func TestBytesEqualDifferentSize(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeFile(t, dirA, "f.txt", "short")
	writeFile(t, dirB, "f.txt", "a much longer string")

	eq, err := BytesEqual(context.Background(), endpoint.Local(dirA), endpoint.Local(dirB), "f.txt", "f.txt")
	if err != nil {
		t.Fatalf("BytesEqual: %v", err)
	}
	if eq {
		t.Fatalf("expected files of different size to differ")
	}
}

func TestBytesEqualEmptyFiles(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeFile(t, dirA, "f.txt", "")
	writeFile(t, dirB, "f.txt", "")

	eq, err := BytesEqual(context.Background(), endpoint.Local(dirA), endpoint.Local(dirB), "f.txt", "f.txt")
	if err != nil {
		t.Fatalf("BytesEqual: %v", err)
	}
	if !eq {
		t.Fatalf("expected two zero-byte files to compare equal")
	}
}
