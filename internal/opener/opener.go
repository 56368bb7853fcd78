// Package opener hands item links to a desktop application.
package opener

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/pders01/rssview/internal/config"
)

var ErrNoOpener = errors.New("no application found to open URL")

type Opener struct {
	command string
	args    []string
	start   func(*exec.Cmd) error
}

// New resolves the configured opener, falling back to the platform default
// when the configured command is not on PATH.
func New(cfg *config.Config) *Opener {
	fields := strings.Fields(cfg.UI.Opener)

	o := &Opener{start: startDetached}
	if len(fields) > 0 && findCommand(fields[0]) != "" {
		o.command, o.args = fields[0], fields[1:]
		return o
	}

	o.command, o.args = platformDefault(runtime.GOOS)
	return o
}

func platformDefault(goos string) (string, []string) {
	switch goos {
	case "darwin":
		return findCommand("open"), nil
	case "windows":
		// start is a cmd builtin; the empty argument is the window title.
		return findCommand("cmd"), []string{"/c", "start", ""}
	default:
		return findCommand("xdg-open", "open", "sensible-browser"), nil
	}
}

// Command builds the process that would open url.
func (o *Opener) Command(url string) (*exec.Cmd, error) {
	if o.command == "" {
		return nil, ErrNoOpener
	}
	if url == "" {
		return nil, fmt.Errorf("nothing to open")
	}

	args := append(append([]string{}, o.args...), url)
	return exec.Command(o.command, args...), nil
}

func (o *Opener) Open(url string) error {
	cmd, err := o.Command(url)
	if err != nil {
		return err
	}
	if err := o.start(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", o.command, err)
	}
	return nil
}

// startDetached starts GUI applications without waiting on them.
func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}

	go func() {
		_ = cmd.Wait()
	}()

	return nil
}

func findCommand(commands ...string) string {
	for _, cmd := range commands {
		if _, err := exec.LookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
}
