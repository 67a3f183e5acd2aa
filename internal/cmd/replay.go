package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/strrl/agentsim/internal/aggregator"
	"github.com/strrl/agentsim/internal/output"
	"github.com/strrl/agentsim/internal/parser"
	"github.com/strrl/agentsim/internal/pipeline"
	"github.com/strrl/agentsim/internal/simulator"
)

var (
	replayFile        string
	replayFormat      string
	replayOutput      string
	replayColumn      string
	replayConcurrency int
	replayNoDelay     bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a script of prompts through the simulator",
	Long: `Read prompts from a JSONL, JSON or CSV file, answer each one with the
simulator, and write a transcript with a per-category summary. Rows whose
prompt is not a string are reported as rejected.`,
	Args: cobra.NoArgs,
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVar(&replayFile, "file", "", "Path to the prompt script (.jsonl, .json or .csv)")
	replayCmd.Flags().StringVarP(&replayFormat, "format", "f", "markdown", "Transcript format: markdown or html")
	replayCmd.Flags().StringVarP(&replayOutput, "output", "o", "", "Write the transcript to a file instead of stdout")
	replayCmd.Flags().StringVar(&replayColumn, "column", "", "Field holding the prompt (default from config)")
	replayCmd.Flags().IntVar(&replayConcurrency, "concurrency", 0, "Prompts answered in parallel (default from config)")
	replayCmd.Flags().BoolVar(&replayNoDelay, "no-delay", false, "Skip the simulated processing delay")
	_ = replayCmd.MarkFlagRequired("file")
}

func runReplay(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(replayFormat)
	if err != nil {
		return err
	}

	column := cfg.Replay.Column
	if replayColumn != "" {
		column = replayColumn
	}
	concurrency := cfg.Replay.Concurrency
	if replayConcurrency > 0 {
		concurrency = replayConcurrency
	}
	if replayNoDelay {
		cfg.DisableDelays()
	}

	progress := cmd.ErrOrStderr()
	fmt.Fprintf(progress, "Replaying prompts from: %s\n", replayFile)

	p, err := parser.NewParser()
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	count, err := p.CountPrompts(replayFile)
	if err != nil {
		return fmt.Errorf("failed to get prompt stats: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("no prompts found in: %s", replayFile)
	}

	fmt.Fprintf(progress, "Found %d rows in %s\n", count, replayFile)

	prompts, err := p.FetchPrompts(replayFile, column)
	if err != nil {
		return fmt.Errorf("failed to fetch prompts: %w", err)
	}
	if len(prompts) == 0 {
		return fmt.Errorf("no prompts found in: %s", replayFile)
	}

	fmt.Fprintf(progress, "Fetched %d prompts from column %q\n", len(prompts), column)

	simCfg := cfg.SimulatorConfig()
	simCfg.Logger = logger
	sim := simulator.New(simCfg)

	pl := pipeline.New(sim, pipeline.Config{
		Concurrency: concurrency,
		Logger:      logger,
	})

	exchanges, stats, err := pl.Process(cmd.Context(), prompts)
	if err != nil {
		return fmt.Errorf("failed to replay prompts: %w", err)
	}

	fmt.Fprintf(progress, "Answered %d prompts (%d rejected, %d code blocks)\n",
		stats.Responded, stats.Rejected, stats.CodeBlocks)

	agg := aggregator.NewAggregator(aggregator.DefaultConfig())
	summary := agg.Aggregate(exchanges)

	fmt.Fprintf(progress, "Aggregated into summary with:\n")
	for _, c := range summary.Categories {
		fmt.Fprintf(progress, "  - %d %s\n", c.Count, c.Category)
	}

	var w io.Writer = cmd.OutOrStdout()
	if replayOutput != "" {
		f, err := os.Create(replayOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := output.NewGenerator(w, format).Generate(exchanges, summary); err != nil {
		return fmt.Errorf("failed to generate transcript: %w", err)
	}

	if replayOutput != "" {
		fmt.Fprintf(progress, "Wrote %s transcript to %s\n", format, replayOutput)
	}
	logger.Info("replay finished",
		zap.String("file", replayFile),
		zap.Int("prompts", stats.TotalPrompts),
		zap.String("dominant", summary.Dominant.String()),
	)

	return nil
}
