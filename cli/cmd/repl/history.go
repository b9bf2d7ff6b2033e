package repl

import (
	"bufio"
	"os"
	"strings"
	"sync"
)

const baseHistory = "history.utf8"

// Entry is a single history line tagged with the mode it was entered in.
type Entry struct {
	Line string
	Mode inputMode
}

// History manages prompt history with file persistence. Entries from both
// input modes share one file; a one-character prefix records the mode.
type History struct {
	path    string
	entries []Entry
	mu      sync.RWMutex
}

// NewHistory creates a History backed by the file at path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load reads history entries from the backing file.
// A missing file is not an error.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}
	defer file.Close()

	h.entries = nil

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		// Mode prefix: "E:" for eval, "C:" for ctrl.
		// Lines without a prefix are treated as eval entries.
		mode := modeEval

		if s, ok := strings.CutPrefix(line, "E:"); ok {
			line = s
		} else if s, ok := strings.CutPrefix(line, "C:"); ok {
			mode = modeCtrl
			line = s
		}

		h.entries = append(h.entries, Entry{Line: line, Mode: mode})
	}

	return scanner.Err()
}

// Write appends a new entry, dropping any earlier duplicate so each
// distinct line appears once, most recent last.
func (h *History) Write(entry string, mode inputMode) error {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	rewrite := false

	for i, e := range h.entries {
		if e.Line == entry && e.Mode == mode {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			rewrite = true

			break
		}
	}

	h.entries = append(h.entries, Entry{Line: entry, Mode: mode})

	if rewrite {
		return h.rewriteFile()
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(modePrefix(mode) + entry + "\n")

	return err
}

// Get retrieves an entry by index. Index 0 is the oldest entry.
func (h *History) Get(i int) (Entry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return Entry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of history entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all history entries.
func (h *History) Entries() []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make([]Entry, len(h.entries))
	copy(result, h.entries)

	return result
}

func modePrefix(mode inputMode) string {
	if mode == modeCtrl {
		return "C:"
	}

	return "E:"
}

// rewriteFile rewrites the entire history file with current entries.
// Must be called with h.mu held.
func (h *History) rewriteFile() error {
	file, err := os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	for _, entry := range h.entries {
		_, err := file.WriteString(modePrefix(entry.Mode) + entry.Line + "\n")
		if err != nil {
			return err
		}
	}

	return nil
}
