package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "expansionsim",
		Short: "Market expansion simulator for Chinese vehicle manufacturers",
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(summarizeCmd())
	rootCmd.AddCommand(scenariosCmd())
	rootCmd.AddCommand(registryCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var opts runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate market share evolution and export the results",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulation(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVar(&opts.startYear, "start", 2025, "first simulated year")
	cmd.Flags().IntVar(&opts.endYear, "end", 2040, "last simulated year")
	cmd.Flags().StringSliceVar(&opts.regions, "regions", nil, "regions to simulate (default all)")
	cmd.Flags().StringSliceVar(&opts.segments, "segments", nil, "segments to simulate (default all)")
	cmd.Flags().StringSliceVar(&opts.manufacturers, "manufacturers", nil, "manufacturers to simulate (default all)")
	cmd.Flags().StringVar(&opts.scenario, "scenario", "", "scenario outlook: base, optimistic or pessimistic")
	cmd.Flags().StringVar(&opts.registryPath, "registry", "", "YAML registry file (default built-in)")
	cmd.Flags().StringVar(&opts.outDir, "out", "", "output directory (default from EXPANSIONSIM_OUT_DIR)")
	cmd.Flags().StringVar(&opts.format, "format", "csv", "output format: csv, xlsx or both")
	cmd.Flags().BoolVar(&opts.archive, "archive", false, "archive the run in the results database")

	return cmd
}

func summarizeCmd() *cobra.Command {
	var (
		runID   string
		latest  bool
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize an archived simulation run",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSummarize(cmd.Context(), runID, latest, outPath)
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "archived run id to summarize")
	cmd.Flags().BoolVar(&latest, "latest", false, "summarize the most recent archived run")
	cmd.Flags().StringVar(&outPath, "out", "", "also write the summary as CSV to this path")
	return cmd
}

func scenariosCmd() *cobra.Command {
	var (
		base  float64
		start int
	)

	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Show scenario parameters and market size sensitivity",
		RunE: func(*cobra.Command, []string) error {
			return runScenarios(base, start)
		},
	}

	cmd.Flags().Float64Var(&base, "base", 100, "base market size for the sensitivity projection")
	cmd.Flags().IntVar(&start, "start", 2025, "first projected year")
	return cmd
}

func registryCmd() *cobra.Command {
	var (
		registryPath string
		scenarioName string
	)

	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Show the market registry and attractiveness ranking",
		RunE: func(*cobra.Command, []string) error {
			return runRegistry(registryPath, scenarioName)
		},
	}

	cmd.Flags().StringVar(&registryPath, "registry", "", "YAML registry file (default built-in)")
	cmd.Flags().StringVar(&scenarioName, "scenario", "", "apply a scenario outlook before printing")
	return cmd
}

func serveCmd() *cobra.Command {
	var (
		port         int
		registryPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(*cobra.Command, []string) error {
			return runServe(port, registryPath)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (default from EXPANSIONSIM_LISTEN_ADDR)")
	cmd.Flags().StringVar(&registryPath, "registry", "", "YAML registry file (default built-in)")
	return cmd
}
