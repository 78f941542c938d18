package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/seabedqa/ggcheck/pkg/check"
	"github.com/seabedqa/ggcheck/pkg/config"
	"github.com/seabedqa/ggcheck/pkg/ggoutlier"
	"github.com/seabedqa/ggcheck/pkg/plugin"
)

func newRunCmd() *cobra.Command {
	var (
		configFile  string
		gridFile    string
		standard    string
		near        int
		verbose     bool
		exportDir   string
		maxFeatures int
		engineBin   string
		outFile     string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the GGOutlier check over an input grid",
		Long: `Run the GGOutlier check over an input grid and write the result
record as JSON. Exits 1 when the check fails its specification and 2
when the run itself could not complete.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configFile != "" {
				loaded, err := config.Load(configFile)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			flags := cmd.Flags()
			if flags.Changed("grid") {
				cfg.GridFile = gridFile
			}
			if flags.Changed("standard") {
				cfg.Standard = standard
			}
			if flags.Changed("near") {
				cfg.Near = near
			}
			if flags.Changed("verbose") {
				cfg.Verbose = verbose
			}
			if flags.Changed("export-dir") {
				cfg.ExportDir = exportDir
			}
			if flags.Changed("max-features") {
				cfg.MaxFeatures = maxFeatures
			}
			if flags.Changed("engine") {
				cfg.EngineBinary = engineBin
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			registry := check.NewRegistry()
			if err := registry.Register(ggoutlier.TypeName, ggoutlier.Factory); err != nil {
				return err
			}
			chk, err := registry.Create(ggoutlier.TypeName, map[string]any{
				"grid_file":     cfg.GridFile,
				"standard":      cfg.Standard,
				"near":          cfg.Near,
				"verbose":       cfg.Verbose,
				"export_dir":    cfg.ExportDir,
				"max_features":  cfg.MaxFeatures,
				"engine_binary": cfg.EngineBinary,
			})
			if err != nil {
				return err
			}

			res := chk.Run(cmd.Context())
			outputs := plugin.BuildOutputs(res)

			if err := writeOutputs(outputs, outFile); err != nil {
				return err
			}

			if res.Execution.Status != check.StatusCompleted {
				return fmt.Errorf("check %s: %s", res.Execution.Status, res.Execution.Error)
			}
			if res.State == check.StateFail {
				logrus.Infof("GGOutlier check failed")
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML check configuration file")
	cmd.Flags().StringVarP(&gridFile, "grid", "i", "", "input grid file")
	cmd.Flags().StringVar(&standard, "standard", config.DefaultStandard, "survey accuracy standard")
	cmd.Flags().IntVar(&near, "near", config.DefaultNear, "near-neighbour search radius")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "request verbose engine output")
	cmd.Flags().StringVar(&exportDir, "export-dir", "", "persist engine outputs under this directory")
	cmd.Flags().IntVar(&maxFeatures, "max-features", 0, "cap on embedded outlier features (0 = default)")
	cmd.Flags().StringVar(&engineBin, "engine", "", "engine executable (default: ggoutlier on PATH)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "write the result record to this file instead of stdout")
	return cmd
}

func writeOutputs(outputs plugin.Outputs, outFile string) error {
	data, err := json.MarshalIndent(outputs, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result record: %w", err)
	}
	data = append(data, '\n')

	if outFile == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(outFile, data, 0644)
}
