package registry

import "testing"

func TestNewCanonicalOrder(t *testing.T) {
	globals := New(nil)
	want := []struct {
		iface   string
		version uint32
	}{
		{"wl_compositor", 5},
		{"wl_subcompositor", 1},
		{"wl_shm", 1},
		{"wl_output", 4},
		{"wl_seat", 8},
		{"wl_data_device_manager", 3},
		{"xdg_wm_base", 5},
		{"wp_viewporter", 1},
		{"zwp_linux_dmabuf_v1", 4},
	}

	if len(globals) != len(want) {
		t.Fatalf("got %d globals, want %d", len(globals), len(want))
	}
	for i, w := range want {
		g := globals[i]
		if g.Name != uint32(i+1) || g.Interface != w.iface || g.Version != w.version {
			t.Fatalf("global %d = %+v, want name=%d iface=%s version=%d", i, g, i+1, w.iface, w.version)
		}
	}
}

func TestNewVersionOverride(t *testing.T) {
	globals := New(map[string]uint32{"xdg_wm_base": 6})
	g, ok := Find(globals, 7) // xdg_wm_base is name 7 in canonical order
	if !ok || g.Interface != "xdg_wm_base" {
		t.Fatalf("Find(7) = %+v, %v; want xdg_wm_base", g, ok)
	}
	if g.Version != 6 {
		t.Fatalf("overridden version = %d, want 6", g.Version)
	}

	// Unrelated globals are unaffected.
	g2, _ := Find(globals, 1)
	if g2.Version != 5 {
		t.Fatalf("wl_compositor version = %d, want unchanged 5", g2.Version)
	}
}

func TestFindMissing(t *testing.T) {
	globals := New(nil)
	if _, ok := Find(globals, 999); ok {
		t.Fatalf("Find(999) ok = true, want false")
	}
}
