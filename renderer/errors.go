package renderer

import "errors"

var (
	ErrUnknownProperty = errors.New("renderer: property not found on state, props or setup state")
	ErrPropMutation    = errors.New("renderer: props are readonly")
	ErrRenderConflict  = errors.New("renderer: setup returned a render function but Render is also set")
	ErrMissingRender   = errors.New("renderer: component has no render function")
	ErrMissingHandler  = errors.New("renderer: no handler for emitted event")
	ErrRenderPanic     = errors.New("renderer: render function panicked")
	ErrHookPanic       = errors.New("renderer: lifecycle hook panicked")
	ErrAsyncTimeout    = errors.New("renderer: async component timed out")
	ErrAsyncLoad       = errors.New("renderer: async component failed to load")
	ErrTeleportTarget  = errors.New("renderer: teleport target not found")
)
