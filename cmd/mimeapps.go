package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/openit/internal/mimeapps"
	"github.com/Norgate-AV/openit/internal/mimetype"
)

func addExpandFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("expand-wildcards", false, "Apply a wildcard pattern to every matching MIME type already in mimeapps.list")
}

func newSetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <mime-or-extension> <handler.desktop>",
		Short: "Set the default handler for a MIME type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editMimeApps(cmd, args[0], args[1], true, true, func(m *mimeapps.MimeApps, mime, handler string, expand bool) string {
				m.SetHandler(mime, []string{handler}, expand)
				return fmt.Sprintf("Set default handler for %s -> %s", mime, handler)
			})
		},
	}

	addExpandFlag(cmd)

	return cmd
}

func newAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <mime-or-extension> <handler.desktop>",
		Short: "Append a handler to a MIME type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editMimeApps(cmd, args[0], args[1], true, true, func(m *mimeapps.MimeApps, mime, handler string, expand bool) string {
				m.AddHandler(mime, handler, expand)
				return fmt.Sprintf("Added handler %s to %s", handler, mime)
			})
		},
	}

	addExpandFlag(cmd)

	return cmd
}

func newRemoveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <mime-or-extension> <handler.desktop>",
		Short: "Remove a handler from a MIME type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editMimeApps(cmd, args[0], args[1], true, false, func(m *mimeapps.MimeApps, mime, handler string, expand bool) string {
				m.RemoveHandler(mime, handler, expand)
				return fmt.Sprintf("Removed handler %s from %s", handler, mime)
			})
		},
	}

	addExpandFlag(cmd)

	return cmd
}

func newUnsetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unset <mime-or-extension>",
		Short: "Remove every default handler for a MIME type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editMimeApps(cmd, args[0], "", false, false, func(m *mimeapps.MimeApps, mime, _ string, expand bool) string {
				m.RemoveHandler(mime, "", expand)
				return fmt.Sprintf("Unset handlers for %s", mime)
			})
		},
	}

	addExpandFlag(cmd)

	return cmd
}

// editMimeApps normalises the MIME input, rejects a blank handler unless
// requireHandler is unset, optionally checks the handler is installed, then
// applies edit to the user's mimeapps.list and saves it.
func editMimeApps(cmd *cobra.Command, input, handler string, requireHandler, validate bool, edit func(m *mimeapps.MimeApps, mime, handler string, expand bool) string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	mime, err := mimetype.Normalize(input)
	if err != nil {
		return err
	}

	if requireHandler && strings.TrimSpace(handler) == "" {
		return fmt.Errorf("%w for %s", mimeapps.ErrEmptyHandler, mime)
	}

	if validate {
		if err := a.ensureHandlerExists(handler); err != nil {
			return err
		}
	}

	m, err := a.loadMimeApps()
	if err != nil {
		return err
	}

	msg := edit(m, mime, handler, a.cfg.ExpandWildcards)

	if err := a.saveMimeApps(m); err != nil {
		return err
	}

	fmt.Fprintln(a.out, SuccessStyle.Render(msg))

	return nil
}

type mimeMapping struct {
	Mime     string   `json:"mime"`
	Handlers []string `json:"handlers"`
}

type listOutput struct {
	DefaultApps       []mimeMapping `json:"default_apps"`
	AddedAssociations []mimeMapping `json:"added_associations"`
}

func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the handlers configured in the user mimeapps.list",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}

	cmd.Flags().BoolP("json", "j", false, "Print the mappings as JSON")

	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	m, err := a.loadMimeApps()
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		return a.printJSON(listOutput{
			DefaultApps:       mappings(m.DefaultApps()),
			AddedAssociations: mappings(m.AddedAssociations()),
		})
	}

	defaults := mappings(m.DefaultApps())
	if len(defaults) == 0 {
		fmt.Fprintln(a.out, SubtitleStyle.Render("No default handlers in "+a.mimeappsPath()))
		return nil
	}

	for _, mm := range defaults {
		fmt.Fprintf(a.out, "%s: %s\n", HandlerStyle.Render(mm.Mime), strings.Join(mm.Handlers, "; "))
	}

	return nil
}

func mappings(section map[string]mimeapps.HandlerList) []mimeMapping {
	out := make([]mimeMapping, 0, len(section))
	for _, mime := range slices.Sorted(maps.Keys(section)) {
		out = append(out, mimeMapping{Mime: mime, Handlers: slices.Clone(section[mime])})
	}

	return out
}
