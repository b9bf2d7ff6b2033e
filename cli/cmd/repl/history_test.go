package repl

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHistory_WriteAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)

	for _, w := range []struct {
		line string
		mode inputMode
	}{
		{"mean", modeEval},
		{"columns", modeCtrl},
		{"stat.sd(_)", modeEval},
	} {
		if err := h.Write(w.line, w.mode); err != nil {
			t.Fatalf("Write(%q) error: %v", w.line, err)
		}
	}

	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}

	// A fresh instance must observe the same entries from disk.
	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	entries := reloaded.Entries()
	if len(entries) != 3 {
		t.Fatalf("reloaded Len() = %d, want 3", len(entries))
	}

	if entries[0].Line != "mean" || entries[0].Mode != modeEval {
		t.Errorf("entries[0] = %+v, want {mean eval}", entries[0])
	}

	if entries[1].Line != "columns" || entries[1].Mode != modeCtrl {
		t.Errorf("entries[1] = %+v, want {columns ctrl}", entries[1])
	}
}

func TestHistory_DuplicateMovesToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)

	for _, line := range []string{"mean", "sum(_)", "mean"} {
		if err := h.Write(line, modeEval); err != nil {
			t.Fatalf("Write(%q) error: %v", line, err)
		}
	}

	if h.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (duplicate removed)", h.Len())
	}

	last, err := h.Get(h.Len() - 1)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}

	if last.Line != "mean" {
		t.Errorf("last entry = %q, want %q", last.Line, "mean")
	}

	// The rewritten file must match the in-memory order.
	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if reloaded.Len() != 2 {
		t.Errorf("reloaded Len() = %d, want 2", reloaded.Len())
	}
}

func TestHistory_SameLineDifferentModes(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)

	if err := h.Write("clear", modeEval); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	if err := h.Write("clear", modeCtrl); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	// Same text in different modes are distinct entries.
	if h.Len() != 2 {
		t.Errorf("Len() = %d, want 2", h.Len())
	}
}

func TestHistory_BlankAndWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)

	if err := h.Write("", modeEval); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	if err := h.Write("   ", modeEval); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

func TestHistory_MissingFile(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "absent"))

	if err := h.Load(); err != nil {
		t.Errorf("Load() on missing file error: %v", err)
	}

	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

func TestHistory_LegacyLinesWithoutPrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	err := os.WriteFile(path, []byte("mean\nC:quit\n"), 0o600)
	if err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	first, err := h.Get(0)
	if err != nil {
		t.Fatalf("Get(0) error: %v", err)
	}

	if first.Mode != modeEval {
		t.Errorf("unprefixed line mode = %v, want eval", first.Mode)
	}

	second, err := h.Get(1)
	if err != nil {
		t.Fatalf("Get(1) error: %v", err)
	}

	if second.Mode != modeCtrl || second.Line != "quit" {
		t.Errorf("second entry = %+v, want {quit ctrl}", second)
	}
}

func TestHistory_GetOutOfBounds(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	if _, err := h.Get(0); err != ErrOutOfBounds {
		t.Errorf("Get(0) error = %v, want %v", err, ErrOutOfBounds)
	}

	if _, err := h.Get(-1); err != ErrOutOfBounds {
		t.Errorf("Get(-1) error = %v, want %v", err, ErrOutOfBounds)
	}
}
