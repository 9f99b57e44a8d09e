package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewRebuildCmd returns `luma rebuild`: force a full scan and persist
// the fresh index.
func NewRebuildCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "rescan the content tree and persist a fresh index",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := deps.Engine(cmd.Context())
			if err != nil {
				return err
			}
			ix, err := engine.Rebuild(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"index v%d: %d galleries, %d photos, %d posts, %d pages\n",
				ix.Version, ix.Stats.Galleries, ix.Stats.Photos,
				ix.Stats.Posts, ix.Stats.Pages)
			for _, w := range ix.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", w.Path, w.Message)
			}
			return nil
		},
	}
}

// NewInvalidateCmd returns `luma invalidate`: mark the persisted index
// stale so the next read rebuilds.
func NewInvalidateCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "invalidate",
		Short: "mark the persisted index stale",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := deps.Engine(cmd.Context())
			if err != nil {
				return err
			}
			if err := engine.Invalidate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "index invalidated")
			return nil
		},
	}
}

// NewStatsCmd returns `luma stats`: print index totals, optionally as
// JSON.
func NewStatsCmd(deps *Deps) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "show content totals from the current index",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := deps.Engine(cmd.Context())
			if err != nil {
				return err
			}
			ix, err := engine.GetIndex(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"version":   ix.Version,
					"updatedAt": ix.UpdatedAt,
					"stats":     ix.Stats,
					"tags":      ix.Tags,
					"warnings":  len(ix.Warnings),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "index version: %d\n", ix.Version)
			fmt.Fprintf(out, "updated at:    %s\n", ix.UpdatedAt.Format("2006-01-02 15:04:05 MST"))
			fmt.Fprintf(out, "galleries:     %d\n", ix.Stats.Galleries)
			fmt.Fprintf(out, "photos:        %d\n", ix.Stats.Photos)
			fmt.Fprintf(out, "posts:         %d\n", ix.Stats.Posts)
			fmt.Fprintf(out, "pages:         %d\n", ix.Stats.Pages)
			fmt.Fprintf(out, "tags:          %d\n", len(ix.Tags))
			if n := len(ix.Warnings); n > 0 {
				fmt.Fprintf(out, "warnings:      %d (run rebuild for details)\n", n)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
