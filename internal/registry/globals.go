// Package registry holds the fixed, ordered list of globals advertised to
// every connection (spec.md §3). The server builds the list once at
// startup and every connection reads it; it is never mutated, so sharing
// it needs no synchronization.
package registry

// Global is one advertised service interface, as sent in a
// wl_registry.global event.
type Global struct {
	Name      uint32
	Interface string
	Version   uint32
}

// defaultVersions is the canonical (interface, version) list and order
// from spec.md §3. Config.Load (internal/config) may override individual
// versions; the order and interface set are fixed.
var defaultVersions = []struct {
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

// New builds the canonical global list, assigning names 1..N in order.
// versionOverrides, if non-nil, replaces the advertised version for any
// interface it names; interfaces it does not name keep their default
// version. The interface set and ordering are never affected by overrides.
func New(versionOverrides map[string]uint32) []Global {
	globals := make([]Global, 0, len(defaultVersions))
	for i, dv := range defaultVersions {
		version := dv.version
		if versionOverrides != nil {
			if v, ok := versionOverrides[dv.iface]; ok {
				version = v
			}
		}
		globals = append(globals, Global{
			Name:      uint32(i + 1),
			Interface: dv.iface,
			Version:   version,
		})
	}
	return globals
}

// Find returns the global with the given name, if any.
func Find(globals []Global, name uint32) (Global, bool) {
	for _, g := range globals {
		if g.Name == name {
			return g, true
		}
	}
	return Global{}, false
}
