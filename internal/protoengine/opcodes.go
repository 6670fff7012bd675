package protoengine

// Named opcode constants for every interface winpipe's wire format can
// carry. Most of these are never dispatched by Engine.Handle — spec.md §9
// documents destroy-opcode reclamation and the ping/pong keepalive as
// deliberate simplifications the core does not implement — but naming them
// here keeps the dispatch table's (interface, opcode) keys self-describing
// instead of magic numbers.
const (
	opDisplayError     uint16 = 0 // wl_display event, unused (never emitted)
	opDisplayDeleteID  uint16 = 1 // wl_display event, unused (no reclamation)
	OpDisplaySync      uint16 = 0 // wl_display request, handled
	OpDisplayGetRegistry uint16 = 1 // wl_display request, handled
)

const (
	OpRegistryGlobal       uint16 = 0 // wl_registry event
	opRegistryGlobalRemove uint16 = 1 // wl_registry event, unused (no removal)
	OpRegistryBind         uint16 = 0 // wl_registry request, handled
)

const (
	OpCallbackDone uint16 = 0 // wl_callback event, handled
)

const (
	OpCompositorCreateSurface uint16 = 0 // wl_compositor request, handled
)

const (
	OpShmFormat     uint16 = 0 // wl_shm event, handled
	OpShmCreatePool uint16 = 0 // wl_shm request, handled
)

const (
	opShmPoolCreateBuffer uint16 = 0 // wl_shm_pool request, unused
	opShmPoolDestroy      uint16 = 1 // wl_shm_pool request, unused
	opShmPoolResize       uint16 = 2 // wl_shm_pool request, unused
)

const (
	OpOutputGeometry uint16 = 0 // wl_output event, handled
	OpOutputMode     uint16 = 1 // wl_output event, handled
	OpOutputDone     uint16 = 2 // wl_output event, handled
	OpOutputScale    uint16 = 3 // wl_output event, handled
)

const (
	opSurfaceDestroy          uint16 = 0 // wl_surface request, unused
	opSurfaceAttach           uint16 = 1 // wl_surface request, unused
	opSurfaceDamage           uint16 = 2 // wl_surface request, unused
	opSurfaceFrame            uint16 = 3 // wl_surface request, unused
	opSurfaceSetOpaqueRegion  uint16 = 4 // wl_surface request, unused
	opSurfaceSetInputRegion   uint16 = 5 // wl_surface request, unused
	OpSurfaceCommit           uint16 = 6 // wl_surface request, handled (no-op)
	opSurfaceSetBufferTransform uint16 = 7 // wl_surface request, unused
	opSurfaceSetBufferScale   uint16 = 8 // wl_surface request, unused
	opSurfaceDamageBuffer     uint16 = 9 // wl_surface request, unused
)

const (
	opXdgWmBasePing            uint16 = 0 // xdg_wm_base event, unused (never sent)
	opXdgWmBaseDestroy         uint16 = 0 // xdg_wm_base request, unused
	opXdgWmBaseCreatePositioner uint16 = 1 // xdg_wm_base request, unused
	OpXdgWmBaseGetXdgSurface   uint16 = 2 // xdg_wm_base request, handled
	opXdgWmBasePong            uint16 = 3 // xdg_wm_base request, unused (no pings sent)
)

const (
	OpXdgSurfaceConfigure   uint16 = 0 // xdg_surface event, handled
	opXdgSurfaceDestroy     uint16 = 0 // xdg_surface request, unused
	OpXdgSurfaceGetToplevel uint16 = 1 // xdg_surface request, handled
	opXdgSurfaceGetPopup    uint16 = 2 // xdg_surface request, unused
	opXdgSurfaceSetWindowGeometry uint16 = 3 // xdg_surface request, unused
	OpXdgSurfaceAckConfigure uint16 = 4 // xdg_surface request, handled (no-op)
)

const (
	OpXdgToplevelConfigure uint16 = 0 // xdg_toplevel event, handled
	opXdgToplevelClose     uint16 = 1 // xdg_toplevel event, unused
)
