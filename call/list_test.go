package call

import (
	"testing"
)

// List Tests
// ============================================================================

// TestListOf verifies direct list construction with name synthesis.
func TestListOf(t *testing.T) {
	t.Parallel()

	lo, err := Defer("min")
	if err != nil {
		t.Fatalf("defer error: %v", err)
	}

	hi, err := Defer("max")
	if err != nil {
		t.Fatalf("defer error: %v", err)
	}

	list := ListOf(lo, hi)

	want := []string{"min", "max"}
	for i, name := range want {
		if got := list.Index(i).Name(); got != name {
			t.Errorf("name[%d] = %q, want %q", i, got, name)
		}
	}

	if list.HaveName() {
		t.Error("synthesized names must not set the explicit-name flag")
	}
}

// TestListOf_ExplicitName verifies the name flag follows explicit naming.
func TestListOf_ExplicitName(t *testing.T) {
	t.Parallel()

	d, err := Defer("min")
	if err != nil {
		t.Fatalf("defer error: %v", err)
	}

	if !ListOf(d.As("lo")).HaveName() {
		t.Error("explicit name must set the name flag")
	}
}

// TestList_Slice verifies sub-lists preserve entry order and the name flag.
func TestList_Slice(t *testing.T) {
	t.Parallel()

	list, err := Normalize([]Spec{
		Name("min").As("lo"),
		Name("max"),
		Name("mean"),
	})
	if err != nil {
		t.Fatalf("normalize error: %v", err)
	}

	sub := list.Slice(1, 3)

	if sub.Len() != 2 {
		t.Fatalf("sub length = %d, want 2", sub.Len())
	}

	want := []string{"max", "mean"}
	for i, name := range want {
		if got := sub.Index(i).Name(); got != name {
			t.Errorf("name[%d] = %q, want %q", i, got, name)
		}
	}

	if !sub.HaveName() {
		t.Error("Slice must preserve the collection-level name flag")
	}
}

// TestList_All verifies ordered iteration over (name, entry) pairs.
func TestList_All(t *testing.T) {
	t.Parallel()

	list, err := Normalize([]Spec{Name("min"), Name("max"), Name("sum")})
	if err != nil {
		t.Fatalf("normalize error: %v", err)
	}

	var names []string
	for name, d := range list.All() {
		if d == nil {
			t.Fatal("nil entry during iteration")
		}

		names = append(names, name)
	}

	want := []string{"min", "max", "sum"}
	if len(names) != len(want) {
		t.Fatalf("iterated %d entries, want %d", len(names), len(want))
	}

	for i, name := range want {
		if names[i] != name {
			t.Errorf("name[%d] = %q, want %q", i, names[i], name)
		}
	}

	// Early termination.
	count := 0
	for range list.All() {
		count++

		break
	}

	if count != 1 {
		t.Errorf("early break iterated %d entries, want 1", count)
	}
}

// TestList_ZeroValue verifies nil-safety of list accessors.
func TestList_ZeroValue(t *testing.T) {
	t.Parallel()

	var list *List

	if list.Len() != 0 {
		t.Error("nil list length must be 0")
	}

	if list.HaveName() {
		t.Error("nil list must report no names")
	}

	if list.Names() != nil {
		t.Error("nil list names must be nil")
	}

	for range list.All() {
		t.Fatal("nil list must not iterate")
	}
}
