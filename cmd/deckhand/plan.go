package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/mohammad-safakhou/deckhand/internal/deck"
	"github.com/mohammad-safakhou/deckhand/mcp"
)

// planCMD previews the raster size export_slide_as_image would use.
func planCMD(opts *rootOptions) *cobra.Command {
	var slideW, slideH float64
	var width, height int
	var plan = &cobra.Command{
		Use:   "plan",
		Short: "Compute export dimensions for a slide size",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			p := deck.NewPlanner(cfg.Export.Dir, cfg.Export.DefaultWidth)
			w, h, err := p.Size(slideW, slideH, width, height)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			return enc.Encode(map[string]int{"width": w, "height": h})
		},
	}
	plan.Flags().Float64Var(&slideW, "slide-width", 960, "slide width in points")
	plan.Flags().Float64Var(&slideH, "slide-height", 540, "slide height in points")
	plan.Flags().IntVar(&width, "width", 0, "requested width in pixels (0 = derive)")
	plan.Flags().IntVar(&height, "height", 0, "requested height in pixels (0 = derive)")
	return plan
}

func toolsCMD() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the MCP tool catalogue as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := mcp.NewServer(nil, nil, mcp.Options{Version: version})
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(srv.Tools())
		},
	}
}
