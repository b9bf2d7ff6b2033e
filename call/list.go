package call

import "iter"

// List is an ordered, named sequence of deferred calls. Order is
// semantically meaningful: downstream consumers generate output columns
// in entry order. Lists are immutable after construction.
type List struct {
	entries  []*Deferred
	haveName bool
}

// ListOf builds a list directly from deferred entries. The name flag is
// set when any entry carries an explicit name.
func ListOf(entries ...*Deferred) *List {
	haveName := false

	for _, d := range entries {
		if d.named {
			haveName = true

			break
		}
	}

	list := &List{
		entries:  entries,
		haveName: haveName,
	}

	synthesizeNames(list)

	return list
}

// Len returns the number of entries.
func (l *List) Len() int {
	if l == nil {
		return 0
	}

	return len(l.entries)
}

// Index returns the entry at position i.
func (l *List) Index(i int) *Deferred {
	return l.entries[i]
}

// HaveName reports whether any entry was named explicitly by the caller.
// The flag survives [List.Slice].
func (l *List) HaveName() bool {
	if l == nil {
		return false
	}

	return l.haveName
}

// Names returns the display names of all entries in order.
func (l *List) Names() []string {
	if l == nil {
		return nil
	}

	names := make([]string, len(l.entries))
	for i, d := range l.entries {
		names[i] = d.name
	}

	return names
}

// Slice returns a sub-list of entries in [lo, hi), preserving the
// collection-level name flag.
func (l *List) Slice(lo, hi int) *List {
	return &List{
		entries:  l.entries[lo:hi],
		haveName: l.haveName,
	}
}

// All returns an iterator over (name, entry) pairs in order.
func (l *List) All() iter.Seq2[string, *Deferred] {
	return func(yield func(string, *Deferred) bool) {
		if l == nil {
			return
		}

		for _, d := range l.entries {
			if !yield(d.name, d) {
				return
			}
		}
	}
}
