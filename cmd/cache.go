package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/openit/internal/cache"
)

func newCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the desktop file cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete the persisted desktop file cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			return a.clearCache()
		},
	})

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Show where the cache lives and what it holds",
		Args:  cobra.NoArgs,
		RunE:  runCacheInfo,
	}
	infoCmd.Flags().BoolP("json", "j", false, "Print the cache details as JSON")
	cmd.AddCommand(infoCmd)

	return cmd
}

func (a *app) clearCache() error {
	path := a.cachePath()

	removed, err := cache.Delete(path)
	if err != nil {
		return err
	}

	if removed {
		fmt.Fprintln(a.out, SuccessStyle.Render("Removed desktop cache "+path))
	} else {
		fmt.Fprintln(a.out, SubtitleStyle.Render("No desktop cache at "+path))
	}

	return nil
}

type cacheInfo struct {
	Backend   string `json:"backend"`
	Path      string `json:"path"`
	Exists    bool   `json:"exists"`
	SizeBytes int64  `json:"size_bytes"`
	Entries   int    `json:"entries"`
	MaxAge    string `json:"max_age"`
}

func runCacheInfo(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	info := cacheInfo{
		Backend: a.cfg.Cache.Backend,
		Path:    a.cachePath(),
		MaxAge:  a.cfg.Cache.MaxAge.String(),
	}

	if a.cfg.Cache.Backend == cache.BackendMemory {
		info.Path = ""
	} else if st, err := os.Stat(info.Path); err == nil {
		info.Exists = true
		info.SizeBytes = st.Size()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat cache file: %w", err)
	}

	if info.Exists {
		c, err := cache.New(a.cfg.Cache.Backend, info.Path, cache.WithMaxAge(a.cfg.Cache.MaxAge))
		if err != nil {
			return err
		}

		if err := c.Load(); err != nil {
			return fmt.Errorf("failed to load desktop cache: %w", err)
		}

		info.Entries = c.Len()
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		return a.printJSON(info)
	}

	fmt.Fprintf(a.out, "%s %s\n", TitleStyle.Render("Backend:"), info.Backend)
	if info.Path == "" {
		fmt.Fprintln(a.out, SubtitleStyle.Render("The memory backend keeps nothing on disk."))
		return nil
	}

	fmt.Fprintf(a.out, "%s %s\n", TitleStyle.Render("Path:"), info.Path)
	if !info.Exists {
		fmt.Fprintln(a.out, SubtitleStyle.Render("Not built yet."))
		return nil
	}

	fmt.Fprintf(a.out, "%s %d\n", TitleStyle.Render("Entries:"), info.Entries)
	fmt.Fprintf(a.out, "%s %d bytes\n", TitleStyle.Render("Size:"), info.SizeBytes)
	fmt.Fprintf(a.out, "%s %s\n", TitleStyle.Render("Max age:"), info.MaxAge)

	return nil
}
