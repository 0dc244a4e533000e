package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"aiblog/internal/build"
)

func newBuildCmd(e *env) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Export the site as static HTML",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out != "" {
				e.cfg.Build.PublicDir = out
			}
			b := &build.Builder{Cfg: e.cfg, Store: newStore(e, false), Logger: e.log}
			res, err := b.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "built %d pages from %d posts into %s\n", res.Pages, res.Posts, e.cfg.Build.PublicDir)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output directory (default build.public_dir)")
	return cmd
}
