package watch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"zajal/internal/reload"
)

func write(t *testing.T, path, text string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFirstCheckReportsInitialContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sketch.zj")
	write(t, path, "circle 1, 1, 1")

	w := New(path)
	changes, err := w.Check()
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(changes) != 1 || changes[0].Text != "circle 1, 1, 1" {
		t.Fatalf("changes = %+v", changes)
	}

	// без правок второй проход молчит
	changes, err = w.Check()
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(changes) != 0 {
		t.Fatalf("unchanged file reported: %+v", changes)
	}
}

func TestCheckSeesNewMtime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sketch.zj")
	write(t, path, "old")
	w := New(path)
	if _, err := w.Check(); err != nil {
		t.Fatal(err)
	}

	write(t, path, "new")
	// mtime-гранулярность файловых систем бывает секундной
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	changes, err := w.Check()
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(changes) != 1 || changes[0].Text != "new" {
		t.Fatalf("changes = %+v", changes)
	}
}

func TestMissingFileIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sketch.zj")
	write(t, path, "x = 1")
	w := New(path)
	if _, err := w.Check(); err != nil {
		t.Fatal(err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	_, err := w.Check()
	var fatal *reload.FatalError
	if !errors.As(err, &fatal) {
		t.Fatalf("want *reload.FatalError, got %T (%v)", err, err)
	}
	if fatal.Path != path {
		t.Fatalf("fatal path = %q, want %q", fatal.Path, path)
	}
}
