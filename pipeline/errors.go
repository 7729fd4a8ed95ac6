package pipeline

import (
	"errors"
	"fmt"

	"github.com/chipsenkbeil/makepdf-sub000/fonts"
)

var (
	ErrScriptLoad    = errors.New("load script")
	ErrScriptExec    = errors.New("execute script")
	ErrConfigExtract = errors.New("read back config")
	// ErrConsumed is returned when a phase is advanced a second time.
	ErrConsumed = errors.New("pipeline phase already consumed")
)

// FontAttachError reports a loaded font that could not be embedded into the
// output document.
type FontAttachError struct {
	ID  fonts.FontID
	Err error
}

func (e *FontAttachError) Error() string { return fmt.Sprintf("attach font %d: %v", e.ID, e.Err) }
func (e *FontAttachError) Unwrap() error { return e.Err }
