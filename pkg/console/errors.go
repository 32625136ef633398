package console

import (
	"errors"
	"fmt"

	"github.com/carina-io/nasconsole"
	"github.com/carina-io/nasconsole/pkg/menu"
	"github.com/carina-io/nasconsole/pkg/netconfig"
	"github.com/carina-io/nasconsole/utils/exec"
)

const confirmPrompt = nasconsole.ConfirmPrompt

// ErrDeclined the operator did not confirm, nothing was changed
var ErrDeclined = errors.New(nasconsole.CancelledMessage)

// MissingToolError a host tool the command needs is not installed
type MissingToolError struct {
	Tool string
}

func (e *MissingToolError) Error() string {
	return fmt.Sprintf("missing dependency: %s", e.Tool)
}

// UnrecognizedError verb not in the active mode's table
type UnrecognizedError struct {
	Mode  menu.Mode
	Token string
}

func (e *UnrecognizedError) Error() string {
	return menu.UnknownMessage(e.Mode, e.Token)
}

// UsageError missing or unknown sub-verb, bad arguments
type UsageError struct {
	Usage  string
	Reason string
}

func (e *UsageError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s (usage: %s)", e.Reason, e.Usage)
	}
	return fmt.Sprintf("usage: %s", e.Usage)
}

// message one-line diagnostic for the operator. Tool failures are shown with
// the tool's own output.
func message(err error) string {
	var missing *MissingToolError
	var notFound *exec.NotFoundError
	var cmdErr *exec.CommandError
	var unrecognized *UnrecognizedError
	var usage *UsageError
	switch {
	case errors.As(err, &unrecognized):
		return unrecognized.Error()
	case errors.As(err, &usage):
		return usage.Error()
	case errors.Is(err, ErrDeclined):
		return nasconsole.CancelledMessage
	case errors.As(err, &missing):
		return missing.Error()
	case errors.As(err, &notFound):
		return (&MissingToolError{Tool: notFound.Command}).Error()
	case errors.Is(err, netconfig.ErrIncomplete):
		return "Aborted: " + err.Error() + ", nothing was changed."
	case errors.As(err, &cmdErr):
		return cmdErr.Error()
	}
	return "Error: " + err.Error()
}
