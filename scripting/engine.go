// Package scripting hosts planner scripts in a JavaScript runtime and
// exposes the pdf global through which scripts create pages, push objects,
// load fonts and register per-page hooks.
package scripting

import "context"

// Engine runs script source to completion.
type Engine interface {
	// Execute runs src, labeled name in stack traces. Cancelling ctx
	// interrupts the script.
	Execute(ctx context.Context, name, src string) (any, error)
}
