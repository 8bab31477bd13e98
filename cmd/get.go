package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/openit/internal/finder"
	"github.com/Norgate-AV/openit/internal/mimematch"
	"github.com/Norgate-AV/openit/internal/mimetype"
)

func newGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <mime-or-pattern>",
		Short: "Show the applications that handle a MIME type",
		Long: `Show the candidates for a MIME type in launch order. A pattern such as
'image/*' is expanded against every MIME type declared by installed
applications.`,
		Args: cobra.ExactArgs(1),
		RunE: runGet,
	}

	cmd.Flags().BoolP("json", "j", false, "Print the result as JSON")
	cmd.Flags().BoolP("actions", "a", false, "Include desktop actions")

	return cmd
}

type getOutput struct {
	MimeType        string                    `json:"mimetype"`
	XDGAssociations []string                  `json:"xdg_associations"`
	Applications    []finder.ApplicationEntry `json:"applications"`
}

type getPatternOutput struct {
	Pattern       string                               `json:"pattern"`
	MatchingMimes []string                             `json:"matching_mimes"`
	Results       map[string][]finder.ApplicationEntry `json:"results"`
}

func runGet(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	mime, err := mimetype.Normalize(args[0])
	if err != nil {
		return err
	}

	f, err := a.finder()
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	actions, _ := cmd.Flags().GetBool("actions")

	if mimematch.IsPattern(mime) {
		return a.getPattern(f, mime, actions, asJSON)
	}

	apps := f.FindForMime(mime, actions)
	if asJSON {
		return a.printJSON(getOutput{
			MimeType:        mime,
			XDGAssociations: nonNil(f.Associations(mime)),
			Applications:    nonNil(apps),
		})
	}

	fmt.Fprintf(a.out, "%s %s\n", TitleStyle.Render("MIME type:"), mime)
	if len(apps) == 0 {
		fmt.Fprintln(a.out, WarningStyle.Render("No applications found for this MIME type."))
		return nil
	}

	fmt.Fprintf(a.out, "\nAvailable applications (%d):\n", len(apps))
	for i, app := range apps {
		fmt.Fprintln(a.out, entryLine(app))
		if app.Comment != "" {
			fmt.Fprintf(a.out, "    %s\n", app.Comment)
		}

		fmt.Fprintf(a.out, "    Exec: %s\n", app.Exec)
		fmt.Fprintf(a.out, "    Desktop file: %s\n", app.DesktopFile)

		if i < len(apps)-1 {
			fmt.Fprintln(a.out)
		}
	}

	fmt.Fprintln(a.out, "\n"+SubtitleStyle.Render(legend))

	return nil
}

func (a *app) getPattern(f *finder.Finder, pattern string, actions, asJSON bool) error {
	matching := nonNil(mimematch.Filter(pattern, f.AllMimeTypes()))

	results := make(map[string][]finder.ApplicationEntry)
	for _, mime := range matching {
		if apps := f.FindForMime(mime, actions); len(apps) > 0 {
			results[mime] = apps
		}
	}

	if asJSON {
		return a.printJSON(getPatternOutput{
			Pattern:       pattern,
			MatchingMimes: matching,
			Results:       results,
		})
	}

	fmt.Fprintf(a.out, "%s %s\n", TitleStyle.Render("Pattern:"), pattern)
	fmt.Fprintf(a.out, "Matching MIME types: %d\n", len(matching))

	if len(matching) == 0 {
		fmt.Fprintln(a.out, WarningStyle.Render("No MIME types match this pattern."))
		return nil
	}

	for _, mime := range matching {
		apps, ok := results[mime]
		if !ok {
			continue
		}

		fmt.Fprintf(a.out, "\n%s (%d applications):\n", HandlerStyle.Render(mime), len(apps))
		for _, app := range apps {
			fmt.Fprintln(a.out, "  "+entryLine(app))
		}
	}

	fmt.Fprintln(a.out, "\n"+SubtitleStyle.Render(legend))

	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}
