package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/zen-systems/ratewatch/pkg/analysis"
	"github.com/zen-systems/ratewatch/pkg/archive"
	"github.com/zen-systems/ratewatch/pkg/config"
	"github.com/zen-systems/ratewatch/pkg/history"
	"github.com/zen-systems/ratewatch/pkg/llm"
	"github.com/zen-systems/ratewatch/pkg/notify"
	"github.com/zen-systems/ratewatch/pkg/pipeline"
	"github.com/zen-systems/ratewatch/pkg/quote"
	"github.com/zen-systems/ratewatch/pkg/render"
	"github.com/zen-systems/ratewatch/pkg/report"
	"github.com/zen-systems/ratewatch/pkg/runlog"
)

var (
	adapterFlag string
	modelFlag   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ratewatch",
		Short: "USD exchange-rate collection and analysis pipeline",
		Long: `Ratewatch collects USD exchange quotes for Argentina from DolarAPI,
derives an analytical report with model-written commentary, and renders
it into a PDF with charts. Each run produces a structured execution log.`,
	}

	rootCmd.PersistentFlags().StringVar(&adapterFlag, "adapter", "", "narrative provider (google, openai, anthropic, deepseek)")
	rootCmd.PersistentFlags().StringVar(&modelFlag, "model", "", "narrative model override")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(quotesCmd())
	rootCmd.AddCommand(lastCmd())
	rootCmd.AddCommand(modelsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var mockFlag bool
	var skipPublish bool
	var sourceFlag string
	var outFlag string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the analysis pipeline",
		Long: `Runs the collect, analyze and render stages in order, honoring gating
semantics: a collect or analyze failure aborts the run, a failure in the
final stage is recorded but aborts nothing. With archive storage
configured, render is followed by a publish stage that uploads the
artifacts.

Use --mock to substitute a deterministic narrative provider, for dry
runs without API keys.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if sourceFlag != "" {
				cfg.SourceURL = sourceFlag
			}
			if outFlag != "" {
				cfg.ArtifactsDir = outFlag
			}

			adapter, err := createAdapter(cfg, mockFlag)
			if err != nil {
				return err
			}

			collab := analysis.Collaborators{
				Source:   quote.NewClient(cfg.SourceURL),
				Builder:  report.NewBuilder(adapter, modelOrDefault(cfg), cfg.ReportsDir),
				Renderer: render.NewRenderer(cfg.ArtifactsDir),
				DataDir:  cfg.DataDir,
				Logf:     log.Printf,
			}

			ctx := context.Background()

			if cfg.Archive.Endpoint != "" && !skipPublish {
				store, err := archive.NewStore(cfg.Archive.Endpoint, cfg.Archive.AccessKey, cfg.Archive.SecretKey, cfg.Archive.Bucket, cfg.Archive.UseSSL)
				if err != nil {
					return fmt.Errorf("failed to create archive store: %w", err)
				}
				if err := store.EnsureBucket(ctx); err != nil {
					return fmt.Errorf("failed to prepare archive bucket: %w", err)
				}
				collab.Publisher = store
			}

			if cfg.History.DSN != "" {
				store, err := history.NewStore(ctx, cfg.History.DSN)
				if err != nil {
					return fmt.Errorf("failed to connect quote history: %w", err)
				}
				defer store.Close()
				collab.History = store
			}

			opts := []pipeline.Option{pipeline.WithLogger(log.Printf)}
			if cfg.Notify.Broker != "" {
				publisher := notify.NewStepPublisher(cfg.Notify.Broker, cfg.Notify.Topic)
				defer publisher.Close()
				opts = append(opts, pipeline.WithObserver(publisher))
			}

			writer, err := runlog.NewWriter(cfg.RunsDir, time.Now())
			if err != nil {
				return fmt.Errorf("failed to create run log: %w", err)
			}
			collab.RunID = writer.RunID()

			o, err := pipeline.New(analysis.Stages(collab), opts...)
			if err != nil {
				return err
			}

			result := o.Run(ctx)

			if err := writer.Write(result); err != nil {
				return fmt.Errorf("failed to write run log: %w", err)
			}

			printSummary(result, writer.RunDir())

			if result.Status == pipeline.StatusFailed {
				return fmt.Errorf("run %s failed", writer.RunID())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&mockFlag, "mock", false, "use a deterministic narrative provider")
	cmd.Flags().BoolVar(&skipPublish, "skip-publish", false, "skip the publish stage even when archive storage is configured")
	cmd.Flags().StringVar(&sourceFlag, "source", "", "quote source URL override")
	cmd.Flags().StringVar(&outFlag, "out", "", "artifact output directory override")

	return cmd
}

func quotesCmd() *cobra.Command {
	var sourceFlag string

	cmd := &cobra.Command{
		Use:   "quotes",
		Short: "Fetch and print the current quotes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if sourceFlag != "" {
				cfg.SourceURL = sourceFlag
			}

			quotes, err := quote.NewClient(cfg.SourceURL).Fetch(context.Background())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "HOUSE\tBUY\tSELL\tSPREAD\tUPDATED")
			for _, q := range quotes {
				fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%s\n",
					q.Name, q.Buy, q.Sell, q.Spread(), q.UpdatedAt.Format("15:04"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&sourceFlag, "source", "", "quote source URL override")
	return cmd
}

func lastCmd() *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "last",
		Short: "Show the most recent run's execution log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			result, runDir, err := runlog.Latest(cfg.RunsDir)
			if err != nil {
				return err
			}
			if result == nil {
				fmt.Println("no runs recorded yet")
				return nil
			}

			if jsonFlag {
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			printSummary(result, runDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "print the raw run log")
	return cmd
}

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List available narrative providers and models",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ADAPTER\tCONFIGURED\tMODELS")
			for _, name := range []string{"google", "openai", "anthropic", "deepseek"} {
				configured := "no"
				models := "-"
				if cfg.HasAdapter(name) {
					configured = "yes"
					adapter, err := newAdapter(name, cfg.APIKey(name))
					if err != nil {
						return err
					}
					models = ""
					for i, m := range adapter.Models() {
						if i > 0 {
							models += ", "
						}
						models += m
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, configured, models)
			}
			return w.Flush()
		},
	}
}

func createAdapter(cfg *config.Config, mock bool) (llm.Adapter, error) {
	if mock {
		return llm.NewMockAdapter(), nil
	}

	name := cfg.Adapter
	if adapterFlag != "" {
		name = adapterFlag
	}
	if !cfg.HasAdapter(name) {
		return nil, fmt.Errorf("adapter %q has no API key configured (use --mock for a dry run)", name)
	}
	return newAdapter(name, cfg.APIKey(name))
}

func newAdapter(name, apiKey string) (llm.Adapter, error) {
	switch name {
	case "google":
		return llm.NewGoogleAdapter(apiKey)
	case "openai":
		return llm.NewOpenAIAdapter(apiKey)
	case "anthropic":
		return llm.NewAnthropicAdapter(apiKey)
	case "deepseek":
		return llm.NewDeepSeekAdapter(apiKey)
	default:
		return nil, fmt.Errorf("unknown adapter %q", name)
	}
}

func modelOrDefault(cfg *config.Config) string {
	if modelFlag != "" {
		return modelFlag
	}
	return cfg.Model
}

func printSummary(result *pipeline.Result, runDir string) {
	fmt.Printf("\nStatus: %s (%.2fs)\n", result.Status, result.Duration().Seconds())
	for _, step := range result.Steps {
		if step.Status == pipeline.StepSuccess {
			fmt.Printf("  OK  %s: %s\n", step.Name, step.Output)
		} else {
			fmt.Printf("  ERR %s: %s\n", step.Name, step.Error)
		}
	}
	if len(result.Errors) > 0 {
		fmt.Printf("Errors (%d):\n", len(result.Errors))
		for _, msg := range result.Errors {
			fmt.Printf("  - %s\n", msg)
		}
	}
	fmt.Printf("Run log: %s\n", runDir)
}
