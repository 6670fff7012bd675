package objtable

import "testing"

func TestNewHasDisplayEntry(t *testing.T) {
	tbl := New()
	iface, ok := tbl.Lookup(DisplayObjectID)
	if !ok || iface != DisplayInterface {
		t.Fatalf("Lookup(1) = %q, %v; want %q, true", iface, ok, DisplayInterface)
	}
	if tbl.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tbl.Len())
	}
}

func TestBindAndLookup(t *testing.T) {
	tbl := New()
	tbl.Bind(2, "wl_registry")
	iface, ok := tbl.Lookup(2)
	if !ok || iface != "wl_registry" {
		t.Fatalf("Lookup(2) = %q, %v; want wl_registry, true", iface, ok)
	}

	// Idempotent overwrite is acceptable.
	tbl.Bind(2, "wl_callback")
	iface, _ = tbl.Lookup(2)
	if iface != "wl_callback" {
		t.Fatalf("Lookup(2) after rebind = %q, want wl_callback", iface)
	}
}

func TestLookupMissing(t *testing.T) {
	tbl := New()
	if _, ok := tbl.Lookup(999); ok {
		t.Fatalf("Lookup(999) ok = true, want false")
	}
}

func TestNextSeedsAtTwo(t *testing.T) {
	tbl := New()
	if got := tbl.Next(); got != 2 {
		t.Fatalf("Next() = %d, want 2", got)
	}
	if got := tbl.Next(); got != 3 {
		t.Fatalf("Next() = %d, want 3", got)
	}
}
