package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Norgate-AV/openit/internal/finder"
	"github.com/Norgate-AV/openit/internal/handlers"
	"github.com/Norgate-AV/openit/internal/launcher"
	"github.com/Norgate-AV/openit/internal/selector"
	"github.com/Norgate-AV/openit/internal/target"
)

// appLauncher starts a chosen candidate
type appLauncher interface {
	Launch(app finder.ApplicationEntry, target string, terminal []string) error
}

// appSelector asks the user to pick a candidate
type appSelector interface {
	Select(ctx context.Context, entries []finder.ApplicationEntry, opts selector.Options) (int, bool, error)
}

var newLauncher = func(prefix []string, logger *log.Logger) appLauncher {
	return launcher.New(prefix, logger)
}

var newSelector = func(logger *log.Logger) appSelector {
	return selector.New(logger)
}

func newOpenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open <file-or-uri>",
		Short: "Open a file or URI with a matching application",
		Long: `Resolve the MIME type of a file or URI, collect the applications that can
handle it and launch one. With the selector enabled the candidates are piped
through the configured picker.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpen(cmd, args[0])
		},
	}

	addOpenFlags(cmd)

	return cmd
}

func addOpenFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("actions", "a", false, "Include desktop actions as separate candidates")
	cmd.Flags().BoolP("json", "j", false, "Print the candidates as JSON instead of launching")
	cmd.Flags().Bool("selector", false, "Pick the application with the selector")
	cmd.Flags().Bool("no-selector", false, "Launch the first application without asking")
	cmd.Flags().String("selector-command", "", "Selector command line, run through sh -c")
	cmd.Flags().String("term-exec-args", "", "Arguments passed to the terminal emulator before the command")
	cmd.MarkFlagsMutuallyExclusive("selector", "no-selector")
}

// launchContext is the resolved target and its ordered candidates
type launchContext struct {
	Target       target.Target
	MimeType     string
	Associations []string
	Applications []finder.ApplicationEntry
}

type openOutput struct {
	Target          string                    `json:"target"`
	TargetKind      string                    `json:"target_kind"`
	MimeType        string                    `json:"mimetype"`
	XDGAssociations []string                  `json:"xdg_associations"`
	Applications    []finder.ApplicationEntry `json:"applications"`
}

func runOpen(cmd *cobra.Command, raw string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	actions, _ := cmd.Flags().GetBool("actions")

	f, err := a.finder()
	if err != nil {
		return err
	}

	lc, err := a.prepareLaunch(f, raw, actions)
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON || (a.cfg.EnableSelector && !stdoutIsTerminal()) {
		return a.printJSON(lc.output())
	}

	chosen := lc.Applications[0]

	switch {
	case !a.cfg.EnableSelector:
		a.logger.Info("selector disabled, launching first candidate", "app", chosen.Name, "source", chosen.Source)
	case len(lc.Applications) == 1:
		a.logger.Info("launching the only candidate", "app", chosen.Name)
	default:
		idx, ok, err := newSelector(a.logger).Select(cmd.Context(), lc.Applications, selector.Options{
			Command:        a.cfg.Selector,
			Markers:        a.cfg.Markers,
			PromptTemplate: a.cfg.PromptTemplate,
			HeaderTemplate: a.cfg.HeaderTemplate,
			File:           lc.Target.DisplayName(),
		})
		if err != nil {
			return err
		}

		if !ok {
			a.logger.Info("no application selected")
			return nil
		}

		chosen = lc.Applications[idx]
	}

	return a.launch(f, chosen, lc.Target)
}

// prepareLaunch resolves raw and builds the candidate list. A matching regex
// handler is placed first.
func (a *app) prepareLaunch(f *finder.Finder, raw string, actions bool) (*launchContext, error) {
	t, err := target.Parse(raw)
	if err != nil {
		return nil, err
	}

	mime := t.MimeType()
	a.logger.Debug("resolved target", "target", t.Argument(), "mime", mime)

	apps := f.FindForMime(mime, actions)

	store, err := handlers.Load(handlers.DefaultPath(a.dirs))
	if err != nil {
		return nil, err
	}

	if h, ok := store.FindHandler(t.Argument()); ok {
		a.logger.Info("matched regex handler", "priority", h.Priority, "exec", h.Exec)
		apps = append([]finder.ApplicationEntry{finder.FromRegexHandler(h)}, apps...)
	}

	a.logger.Debug("found candidates", "count", len(apps), "regex_handlers", store.Len())

	if len(apps) == 0 {
		return nil, fmt.Errorf("%w for MIME type %s", finder.ErrNoApplications, mime)
	}

	return &launchContext{
		Target:       t,
		MimeType:     mime,
		Associations: f.Associations(mime),
		Applications: apps,
	}, nil
}

func (a *app) launch(f *finder.Finder, chosen finder.ApplicationEntry, t target.Target) error {
	var terminal []string
	if chosen.RequiresTerminal {
		var err error
		terminal, err = launcher.ResolveTerminal(f, a.cfg.TermExecArgs)
		if err != nil {
			return err
		}
	}

	var prefix []string
	if a.cfg.AppLaunchPrefix != "" {
		var err error
		prefix, err = launcher.Split(a.cfg.AppLaunchPrefix)
		if err != nil {
			return fmt.Errorf("invalid app_launch_prefix: %w", err)
		}
	}

	return newLauncher(prefix, a.logger).Launch(chosen, t.Argument(), terminal)
}

func (lc *launchContext) output() openOutput {
	kind := "file"
	if lc.Target.Kind == target.URI {
		kind = "uri"
	}

	return openOutput{
		Target:          lc.Target.Argument(),
		TargetKind:      kind,
		MimeType:        lc.MimeType,
		XDGAssociations: nonNil(lc.Associations),
		Applications:    lc.Applications,
	}
}
