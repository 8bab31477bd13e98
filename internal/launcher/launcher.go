package launcher

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Norgate-AV/openit/internal/finder"
)

// TerminalScheme is the MIME key users associate their preferred terminal with.
const TerminalScheme = "x-scheme-handler/terminal"

// Commander interface for testing
type Commander interface {
	Start() error
}

// Launcher starts applications for a target
type Launcher struct {
	execCommand func(name string, args ...string) Commander
	prefix      []string
	logger      *log.Logger
}

// New creates a launcher. prefix is prepended to every command, for
// wrappers such as "uwsm app --" or "systemd-run --user".
func New(prefix []string, logger *log.Logger) *Launcher {
	if logger == nil {
		logger = log.Default()
	}

	return &Launcher{
		execCommand: func(name string, args ...string) Commander {
			cmd := exec.Command(name, args...)
			detach(cmd)
			return cmd
		},
		prefix: prefix,
		logger: logger,
	}
}

// Command builds the full argument vector for app. terminal, when not
// empty, is the terminal emulator command the application runs inside.
func (l *Launcher) Command(app finder.ApplicationEntry, target string, terminal []string) ([]string, error) {
	args, err := Prepare(app, target)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare command for %s: %w", app.Name, err)
	}

	if app.RequiresTerminal && len(terminal) > 0 {
		args = append(append([]string{}, terminal...), args...)
	}

	if len(l.prefix) > 0 {
		args = append(append([]string{}, l.prefix...), args...)
	}

	return args, nil
}

// Launch starts app for target in a new session with its standard streams
// closed, and returns without waiting for it.
func (l *Launcher) Launch(app finder.ApplicationEntry, target string, terminal []string) error {
	args, err := l.Command(app, target, terminal)
	if err != nil {
		return err
	}

	l.logger.Info("launching", "app", app.Name, "command", strings.Join(args, " "))

	c := l.execCommand(args[0], args[1:]...)
	if err := c.Start(); err != nil {
		return fmt.Errorf("%w %s: %w", ErrLaunch, args[0], err)
	}

	if cmd, ok := c.(*exec.Cmd); ok && cmd.Process != nil {
		_ = cmd.Process.Release()
	}

	return nil
}

// ResolveTerminal picks the terminal emulator used for applications that
// need one. The x-scheme-handler/terminal association wins, then any
// installed emulator; an emulator that does not itself need a terminal is
// preferred. execArgs (usually "-e") are appended to its command.
func ResolveTerminal(f *finder.Finder, execArgs string) ([]string, error) {
	candidates := f.FindForMime(TerminalScheme, false)
	if len(candidates) == 0 {
		candidates = f.FindTerminalEmulators()
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("no terminal emulator found, install one or associate it with %s", TerminalScheme)
	}

	chosen := candidates[0]
	for _, c := range candidates {
		if !c.RequiresTerminal {
			chosen = c
			break
		}
	}

	args, err := BaseCommand(chosen.Exec)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare terminal command from %q: %w", chosen.Exec, err)
	}

	if strings.TrimSpace(execArgs) != "" {
		extra, err := Split(execArgs)
		if err != nil {
			return nil, err
		}

		args = append(args, extra...)
	}

	return args, nil
}
