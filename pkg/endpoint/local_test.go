package endpoint

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestListNamesReturnsRelativePathsRecursively(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		abs := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	write("a.txt", "a")
	write("sub/b.txt", "b")
	write("sub/deeper/c.txt", "c")

	names, err := Local(root).ListNames(context.Background(), "")
	if err != nil {
		t.Fatalf("ListNames: %v", err)
	}
	sort.Strings(names)

	want := []string{"a.txt", "sub/b.txt", "sub/deeper/c.txt"}
	sort.Strings(want)
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("got %v, want %v", names, want)
			break
		}
	}
}

func TestListNamesOnMissingDirReturnsEmpty(t *testing.T) {
	root := t.TempDir()
	names, err := Local(filepath.Join(root, "does-not-exist")).ListNames(context.Background(), "")
	if err != nil {
		t.Fatalf("ListNames: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("got %v, want empty", names)
	}
}
