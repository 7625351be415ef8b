// Command fplximport derives FamPlex "isa" relations from the HGNC
// gene-family hierarchy and appends the non-redundant results to the
// FamPlex resource store.
package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"fplximport/internal/famplex"
	"fplximport/internal/hgnc"
	"fplximport/internal/names"
	"fplximport/internal/resource"
)

var (
	Quiet   bool
	Verbose bool
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&Quiet, "quiet", "q", false, "Activate quiet log output")
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "Activate verbose log output")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(overlapsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fplximport",
	Short: "HGNC gene-family to FamPlex import tool",
	Long:  "fplximport flattens HGNC gene-family hierarchies into FamPlex isa relations, skipping pseudogenes and families redundant with already accepted relations.",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		initLogging()
	},
}

var importCmd = &cobra.Command{
	Use:   "import <root-family-id> [root-family-id ...]",
	Short: "Run the full pipeline and append results to the resource store",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := runPipeline(cmd, args, false)
		if err != nil {
			return err
		}
		printReport(report, "appended")
		return nil
	},
}

var overlapsCmd = &cobra.Command{
	Use:   "overlaps <root-family-id> [root-family-id ...]",
	Short: "Compute relations and report redundancy without writing anything",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := runPipeline(cmd, args, true)
		if err != nil {
			return err
		}
		printReport(report, "computed")
		return nil
	},
}

func runPipeline(cmd *cobra.Command, rootIDs []string, dryRun bool) (famplex.Report, error) {
	ctx := cmd.Context()

	source, err := hgnc.OpenTableSource(ctx)
	if err != nil {
		return famplex.Report{}, err
	}
	log.WithField("driver", source.Driver()).Debug("table source opened")

	catalog, err := hgnc.LoadCatalog(ctx, source)
	if err != nil {
		return famplex.Report{}, err
	}
	log.WithField("families", catalog.Len()).Debug("catalog loaded")

	resolver, err := names.OpenResolver(ctx)
	if err != nil {
		return famplex.Report{}, err
	}
	store, err := resource.OpenStore(ctx)
	if err != nil {
		return famplex.Report{}, err
	}

	pipeline := &famplex.Pipeline{
		Catalog:  catalog,
		Resolver: resolver,
		Store:    store,
		Log:      log.StandardLogger(),
		Metrics:  famplex.NewExpvarMetricsRecorder("fplximport_pipeline"),
		DryRun:   dryRun,
	}
	return pipeline.Run(ctx, rootIDs)
}

func printReport(report famplex.Report, verb string) {
	fmt.Printf("relations %s:    %d\n", verb, report.Relations)
	fmt.Printf("entities %s:     %d\n", verb, report.Entities)
	fmt.Printf("equivalences %s: %d\n", verb, report.Equivalences)
	fmt.Printf("pseudogenes skipped:   %d\n", report.SkippedPseudogenes)
	fmt.Printf("unresolved genes:      %d\n", report.UnresolvedGenes)
	if len(report.RedundantFamilies) > 0 {
		fmt.Printf("redundant families:    %v\n", report.RedundantFamilies)
	}
}

func initLogging() {
	level := log.InfoLevel
	if Verbose {
		level = log.DebugLevel
	}
	if Quiet {
		level = log.WarnLevel
	}
	log.SetLevel(level)
}
