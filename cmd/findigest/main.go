// findigest is a scheduled A-share financial news digest.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/seenimoa/findigest/internal/config"
	"github.com/seenimoa/findigest/internal/digest"
	"github.com/seenimoa/findigest/internal/llm"
	"github.com/seenimoa/findigest/internal/quote"
	"github.com/seenimoa/findigest/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "findigest",
	Short: "findigest — A-share financial news digest generator",
	Long: `findigest polls financial RSS feeds, synthesizes a trading-oriented
summary with an LLM, validates every mentioned ticker against live
quotes, and pushes the assembled digest through ServerChan.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("findigest %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Run Command ---

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate today's digest and push it",
	Long: `Collect the configured feeds, synthesize and validate the analysis,
and deliver the digest to every configured ServerChan key.

With --dry-run the report is printed to stdout instead of pushed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		if !dryRun {
			if err := cfg.ValidateForRun(); err != nil {
				return fmt.Errorf("configuration incomplete: %w", err)
			}
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		pipeline := digest.New(cfg)
		if dryRun {
			title, body, _ := pipeline.Generate(ctx)
			fmt.Println(title)
			fmt.Println()
			fmt.Println(body)
			return nil
		}
		return pipeline.Run(ctx)
	},
}

func init() {
	runCmd.Flags().Bool("dry-run", false, "print the digest instead of pushing it")
	runCmd.Flags().Duration("timeout", 15*time.Minute, "overall run timeout")
}

// --- Quote Command ---

var quoteCmd = &cobra.Command{
	Use:   "quote [code]",
	Short: "Look up a live quote by 6-digit code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code := args[0]
		if !utils.IsTickerCode(code) {
			return fmt.Errorf("%q is not a 6-digit stock code", code)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		client := quote.New(cfg.Quote)
		q, err := client.GetQuote(ctx, code)
		if err != nil {
			return fmt.Errorf("no data for %s: %w", code, err)
		}

		fmt.Printf("%s %s\n", q.Symbol, q.Name)
		fmt.Printf("  现价:   ¥%.2f (%+.2f%%)\n", q.Price, q.ChangePct)
		fmt.Printf("  今开:   ¥%.2f  昨收: ¥%.2f\n", q.Open, q.PrevClose)
		fmt.Printf("  最高:   ¥%.2f  最低: ¥%.2f\n", q.High, q.Low)
		fmt.Printf("  成交量: %d\n", q.Volume)
		fmt.Printf("  总市值: ¥%.0f\n", q.MarketCap)
		fmt.Printf("  市盈率: %s\n", q.PEDisplay())
		fmt.Printf("  状态:   %s\n", utils.MarketStatus())
		return nil
	},
}

// --- Check Command ---

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify connectivity to upstream services",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		ok := true

		fmt.Print("  Quote API:  ")
		client := quote.New(cfg.Quote)
		if _, err := client.GetQuote(ctx, "000001"); err != nil {
			ok = false
			fmt.Printf("❌ %v\n", err)
		} else {
			fmt.Println("✅ reachable")
		}

		fmt.Print("  LLM API:    ")
		if llmClient, err := llm.FromConfig(cfg.LLM); err != nil {
			fmt.Printf("⚠️  skipped (%v)\n", err)
		} else if err := llmClient.Ping(ctx); err != nil {
			ok = false
			fmt.Printf("❌ %v\n", err)
		} else {
			fmt.Println("✅ reachable")
		}

		fmt.Print("  Push keys:  ")
		if n := len(cfg.Push.KeyList()); n == 0 {
			fmt.Println("⚠️  none configured")
		} else {
			fmt.Printf("✅ %d configured\n", n)
		}

		if !ok {
			return fmt.Errorf("one or more upstream checks failed")
		}
		return nil
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  findigest — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Printf("  Market Status: %s\n", utils.MarketStatus())
		fmt.Printf("  Time (CST):    %s\n", utils.FormatDateTimeCST(utils.NowCST()))
		fmt.Println()

		// Config summary
		fmt.Println("  Configuration:")
		fmt.Printf("    LLM:        %s (%s)\n", cfg.LLM.BaseURL, cfg.LLM.Model)
		fmt.Printf("    Quote API:  %s\n", cfg.Quote.BaseURL)
		fmt.Printf("    Push keys:  %d configured\n", len(cfg.Push.KeyList()))
		fmt.Printf("    Cap ceiling: ¥%.0f\n", cfg.Validator.MarketCapCeiling)
		fmt.Println()

		// API keys status
		fmt.Println("  API Keys:")
		keys := config.CheckAPIKeys(cfg)
		for _, k := range keys {
			status := "❌ not set"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("    %-25s %s\n", k.Name+":", status)
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}
