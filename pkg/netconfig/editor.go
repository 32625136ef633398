package netconfig

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/carina-io/nasconsole"
	"github.com/carina-io/nasconsole/utils"
	"github.com/carina-io/nasconsole/utils/exec"
	"github.com/carina-io/nasconsole/utils/log"
	"github.com/carina-io/nasconsole/utils/mutx"
)

// ErrIncomplete address or netmask is still empty after merging the current entry
var ErrIncomplete = errors.New("address and netmask are required")

// Confirmer asks the operator, a nil error means go ahead
type Confirmer interface {
	Confirm(message string) error
}

type Editor struct {
	// Path of the interfaces document
	Path string
	// Service systemd unit reloaded after a write
	Service  string
	Executor exec.Executor
	Timeout  time.Duration
	// Out receives the rendered stanza
	Out io.Writer
	Now func() time.Time
}

// Result write and reload are reported separately, a write can succeed while
// the reload fails
type Result struct {
	Entry      *Entry
	BackupPath string
	// Superseded number of blocks commented out
	Superseded int
	ReloadErr  error
}

func (ed *Editor) load() (*Document, os.FileMode, error) {
	info, err := os.Stat(ed.Path)
	if err != nil {
		return nil, 0, err
	}
	data, err := os.ReadFile(ed.Path)
	if err != nil {
		return nil, 0, err
	}
	return Parse(data), info.Mode().Perm(), nil
}

// Current the active entry of an interface, nil if it has none
func (ed *Editor) Current(name string) (*Entry, error) {
	doc, _, err := ed.load()
	if err != nil {
		return nil, err
	}
	e, ok := doc.Entry(name)
	if !ok {
		return nil, nil
	}
	return e, nil
}

// Apply makes req the only active configuration of its interface. Empty fields
// of req are taken from the current entry, ClearValue drops an optional one.
func (ed *Editor) Apply(ctx context.Context, req Entry, confirm Confirmer) (*Result, error) {
	lock, err := mutx.TryLock(ed.Path)
	if err != nil {
		if errors.Is(err, mutx.ErrLocked) {
			return nil, fmt.Errorf("%s is being edited by another session", ed.Path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", ed.Path, err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			log.Warnf("%s", err.Error())
		}
	}()

	doc, perm, err := ed.load()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ed.Path, err)
	}

	entry := req
	current, _ := doc.Entry(req.Interface)
	entry.Merge(current)
	if entry.Address == "" || entry.Netmask == "" {
		return nil, ErrIncomplete
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if ed.Out != nil {
		fmt.Fprintf(ed.Out, "The following configuration will be written to %s:\n\n%s\n", ed.Path, entry.Render())
	}
	if err := confirm.Confirm(nasconsole.ConfirmPrompt); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Entry: &entry}
	res.BackupPath = ed.Path + nasconsole.BackupSuffix + ed.now().Format(nasconsole.BackupTimeLayout)
	if utils.FileExists(res.BackupPath) {
		return nil, fmt.Errorf("backup %s already exists, nothing was changed, retry in a second", res.BackupPath)
	}
	if err := utils.CopyFile(ed.Path, res.BackupPath); err != nil {
		return nil, fmt.Errorf("failed to back up %s: %w", ed.Path, err)
	}
	log.Infof("backed up %s to %s", ed.Path, res.BackupPath)

	res.Superseded = doc.Deactivate(entry.Interface)
	doc.Append(&entry)
	if n := len(doc.ActiveIfaces(entry.Interface)); n != 1 {
		return res, fmt.Errorf("refusing to write %s: %d active stanzas for %s", ed.Path, n, entry.Interface)
	}

	if err := os.WriteFile(ed.Path, doc.Bytes(), perm); err != nil {
		return res, fmt.Errorf("failed to write %s, restore it from %s: %w", ed.Path, res.BackupPath, err)
	}
	log.Infof("configured %s: address %s netmask %s gateway %q", entry.Interface, entry.Address, entry.Netmask, entry.Gateway)

	if _, err := ed.Executor.ExecuteCommandWithTimeout(ed.Timeout, "systemctl", "restart", ed.Service); err != nil {
		log.Warnf("reload of %s failed: %s", ed.Service, err.Error())
		res.ReloadErr = err
	}
	return res, nil
}

func (ed *Editor) now() time.Time {
	if ed.Now != nil {
		return ed.Now()
	}
	return time.Now()
}
