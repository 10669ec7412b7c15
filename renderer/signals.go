package renderer

import (
	"context"

	"github.com/zoobzio/capitan"
)

// Signals emitted when lifecycle events are enabled with WithLifecycleEvents.
var (
	// ComponentLifecycle fires on every instance phase change.
	ComponentLifecycle = capitan.NewSignal(
		"vdomparty.component.lifecycle",
		"Component instance changed phase",
	)

	// AsyncStateChanged fires when an async component settles or fails.
	AsyncStateChanged = capitan.NewSignal(
		"vdomparty.async.state_changed",
		"Async component changed loading state",
	)
)

var (
	KeyComponent = capitan.NewStringKey("component")
	KeyInstance  = capitan.NewStringKey("instance")
	KeyPhase     = capitan.NewStringKey("phase")
	KeyState     = capitan.NewStringKey("state")
	KeyError     = capitan.NewStringKey("error")
	KeyAttempts  = capitan.NewIntKey("attempts")
)

func (r *Renderer) emitLifecycle(inst *Instance) {
	if !r.events {
		return
	}
	capitan.Emit(context.Background(), ComponentLifecycle,
		KeyComponent.Field(inst.Name()),
		KeyInstance.Field(inst.UID.String()),
		KeyPhase.Field(inst.phase.String()),
	)
}

func (r *Renderer) emitAsyncState(name string, state asyncState, attempts int, err error) {
	if !r.events {
		return
	}
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	capitan.Emit(context.Background(), AsyncStateChanged,
		KeyComponent.Field(name),
		KeyState.Field(state.String()),
		KeyAttempts.Field(attempts),
		KeyError.Field(msg),
	)
}
