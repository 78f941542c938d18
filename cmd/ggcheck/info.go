package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/seabedqa/ggcheck/pkg/plugin"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <grid-file>",
		Short: "Show band names and dimensions of a raster grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := plugin.New(logrus.StandardLogger())
			details, err := p.FileDetails(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), details)
			return nil
		},
	}
}

func newChecksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checks",
		Short: "List the checks this plugin implements",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := plugin.GGOutlierReference()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (version %s)\n", ref.Name, ref.Version)
			fmt.Fprintf(out, "  id:         %s\n", ref.ID)
			fmt.Fprintf(out, "  data level: %s\n", ref.DataLevel)
			for _, p := range ref.DefaultParams {
				if len(p.Options) > 0 {
					fmt.Fprintf(out, "  param:      %s = %v (options: %v)\n", p.Name, p.Value, p.Options)
				} else {
					fmt.Fprintf(out, "  param:      %s = %v\n", p.Name, p.Value)
				}
			}
			return nil
		},
	}
}
