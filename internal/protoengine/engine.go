// Package protoengine implements the protocol engine described in
// spec.md §4.3: given a decoded request record it dispatches on
// (interface, opcode), mutates the connection-local object table, and
// returns the ordered sequence of reply records a conformant client
// expects. Dispatch is a Go switch over small, explicit per-route
// handlers rather than a registered-handler-function table — the
// dispatch surface here is fixed and small enough that the switch
// stays the clearer read.
package protoengine

import (
	"github.com/winpipe-go/winpipe/internal/objtable"
	"github.com/winpipe-go/winpipe/internal/registry"
	"github.com/winpipe-go/winpipe/internal/wire"
)

// Interface name constants, to avoid repeating string literals across
// the dispatch table and the object-table binds they drive.
const (
	ifaceDisplay     = "wl_display"
	ifaceRegistry    = "wl_registry"
	ifaceCallback    = "wl_callback"
	ifaceCompositor  = "wl_compositor"
	ifaceSurface     = "wl_surface"
	ifaceShm         = "wl_shm"
	ifaceShmPool     = "wl_shm_pool"
	ifaceOutput      = "wl_output"
	ifaceXdgWmBase   = "xdg_wm_base"
	ifaceXdgSurface  = "xdg_surface"
	ifaceXdgToplevel = "xdg_toplevel"
)

// Engine owns one connection's object table and its immutable list of
// advertised globals. It is not safe for concurrent use; spec.md §5
// assigns one Engine (and the connection task that drives it) per
// accepted connection.
type Engine struct {
	table   *objtable.Table
	globals []registry.Global
}

// New returns an Engine with a fresh object table and the given global
// list (normally built once via registry.New and shared read-only
// across the connections of one server instance).
func New(globals []registry.Global) *Engine {
	return &Engine{
		table:   objtable.New(),
		globals: globals,
	}
}

// Table exposes the connection's object table for introspection
// (e.g. reporting bound-object counts on a metrics endpoint).
func (e *Engine) Table() *objtable.Table {
	return e.table
}

// Handle dispatches req and returns the ordered reply records, per
// spec.md §4.3. Unknown (interface, opcode) pairs, and requests
// targeting an unbound object_id, produce zero replies — this is a
// diagnostic best-effort server, not a conformance checker.
func (e *Engine) Handle(req wire.Record) []wire.Record {
	iface, ok := e.table.Lookup(req.ObjectID)
	if !ok {
		return nil
	}

	switch iface {
	case ifaceDisplay:
		return e.handleDisplay(req)
	case ifaceRegistry:
		return e.handleRegistry(req)
	case ifaceCompositor:
		return e.handleCompositor(req)
	case ifaceShm:
		return e.handleShm(req)
	case ifaceXdgWmBase:
		return e.handleXdgWmBase(req)
	case ifaceXdgSurface:
		return e.handleXdgSurface(req)
	case ifaceSurface:
		return e.handleSurface(req)
	default:
		return nil
	}
}

func (e *Engine) handleDisplay(req wire.Record) []wire.Record {
	switch req.Opcode {
	case OpDisplaySync:
		callbackID, ok := readU32(req.Payload, 0)
		if !ok {
			return nil
		}
		e.table.Bind(callbackID, ifaceCallback)
		return []wire.Record{
			{ObjectID: callbackID, Opcode: OpCallbackDone, Payload: putU32(nil, 1)},
		}

	case OpDisplayGetRegistry:
		registryID, ok := readU32(req.Payload, 0)
		if !ok {
			return nil
		}
		e.table.Bind(registryID, ifaceRegistry)
		replies := make([]wire.Record, 0, len(e.globals))
		for _, g := range e.globals {
			var payload []byte
			payload = putU32(payload, g.Name)
			payload = putString(payload, g.Interface)
			payload = putU32(payload, g.Version)
			replies = append(replies, wire.Record{
				ObjectID: registryID,
				Opcode:   OpRegistryGlobal,
				Payload:  payload,
			})
		}
		return replies

	default:
		return nil
	}
}

func (e *Engine) handleRegistry(req wire.Record) []wire.Record {
	if req.Opcode != OpRegistryBind {
		return nil
	}
	name, ok := readU32(req.Payload, 0)
	if !ok {
		return nil
	}
	newID, ok := readU32Last(req.Payload)
	if !ok {
		return nil
	}
	global, ok := registry.Find(e.globals, name)
	if !ok {
		return nil
	}
	e.table.Bind(newID, global.Interface)
	if global.Interface == ifaceOutput {
		return outputInfoSequence(newID)
	}
	return nil
}

// outputInfoSequence builds the four-record geometry/mode/scale/done
// sequence emitted immediately after a wl_output bind, per spec.md
// §4.3's "Output-info sequence".
func outputInfoSequence(outputID uint32) []wire.Record {
	geometry := putI32(nil, 0)
	geometry = putI32(geometry, 0)
	geometry = putI32(geometry, 1920)
	geometry = putI32(geometry, 1080)
	geometry = putI32(geometry, 0)
	geometry = putString(geometry, "Winpipe")
	geometry = putString(geometry, "Virtual Display")
	geometry = putI32(geometry, 0)

	mode := putU32(nil, 3)
	mode = putI32(mode, 1920)
	mode = putI32(mode, 1080)
	mode = putI32(mode, 60000)

	scale := putI32(nil, 1)

	return []wire.Record{
		{ObjectID: outputID, Opcode: OpOutputGeometry, Payload: geometry},
		{ObjectID: outputID, Opcode: OpOutputMode, Payload: mode},
		{ObjectID: outputID, Opcode: OpOutputScale, Payload: scale},
		{ObjectID: outputID, Opcode: OpOutputDone, Payload: nil},
	}
}

func (e *Engine) handleCompositor(req wire.Record) []wire.Record {
	if req.Opcode != OpCompositorCreateSurface {
		return nil
	}
	surfaceID, ok := readU32(req.Payload, 0)
	if !ok {
		return nil
	}
	e.table.Bind(surfaceID, ifaceSurface)
	return nil
}

func (e *Engine) handleShm(req wire.Record) []wire.Record {
	if req.Opcode != OpShmCreatePool {
		return nil
	}
	poolID, ok := readU32(req.Payload, 0)
	if !ok {
		return nil
	}
	e.table.Bind(poolID, ifaceShmPool)
	// Formats are announced on the receiving wl_shm object, per
	// spec.md §9's note on this event-placement choice.
	return []wire.Record{
		{ObjectID: req.ObjectID, Opcode: OpShmFormat, Payload: putU32(nil, 0)},
		{ObjectID: req.ObjectID, Opcode: OpShmFormat, Payload: putU32(nil, 1)},
	}
}

func (e *Engine) handleXdgWmBase(req wire.Record) []wire.Record {
	if req.Opcode != OpXdgWmBaseGetXdgSurface {
		return nil
	}
	xdgSurfaceID, ok := readU32(req.Payload, 0)
	if !ok {
		return nil
	}
	e.table.Bind(xdgSurfaceID, ifaceXdgSurface)
	return nil
}

func (e *Engine) handleXdgSurface(req wire.Record) []wire.Record {
	switch req.Opcode {
	case OpXdgSurfaceGetToplevel:
		toplevelID, ok := readU32(req.Payload, 0)
		if !ok {
			return nil
		}
		e.table.Bind(toplevelID, ifaceXdgToplevel)

		configure := putI32(nil, 1920)
		configure = putI32(configure, 1080)
		configure = putU32(configure, 0)

		return []wire.Record{
			{ObjectID: toplevelID, Opcode: OpXdgToplevelConfigure, Payload: configure},
			{ObjectID: req.ObjectID, Opcode: OpXdgSurfaceConfigure, Payload: putU32(nil, 1)},
		}

	case OpXdgSurfaceAckConfigure:
		return nil

	default:
		return nil
	}
}

func (e *Engine) handleSurface(req wire.Record) []wire.Record {
	if req.Opcode != OpSurfaceCommit {
		return nil
	}
	return nil
}
