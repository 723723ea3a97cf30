package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/whitmore/dripline/internal/analyze"
	"github.com/whitmore/dripline/internal/logger"
)

var (
	analyzeTicker   string
	analyzeAmount   float64
	analyzeFreq     string
	analyzeTimeline int
	analyzeTrailing float64
	analyzeInsight  bool
	analyzeJSON     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare investment strategies for a ticker",
	Long:  "Run DCA, buy-the-dip and lump-sum simulations over historical prices and print the comparison",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeTicker, "ticker", "", "Ticker symbol (required)")
	analyzeCmd.Flags().Float64Var(&analyzeAmount, "amount", 100, "Investment amount per period")
	analyzeCmd.Flags().StringVar(&analyzeFreq, "frequency", "Monthly", "Investment frequency (Daily, Weekly, Bi-Weekly, Monthly, Annual)")
	analyzeCmd.Flags().IntVar(&analyzeTimeline, "timeline", 60, "Timeline in months")
	analyzeCmd.Flags().Float64Var(&analyzeTrailing, "trailing", 10, "Trailing decline percentage that triggers a dip buy")
	analyzeCmd.Flags().BoolVar(&analyzeInsight, "insight", false, "Generate an LLM narrative summary")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the full result as JSON")

	analyzeCmd.MarkFlagRequired("ticker")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	p, err := buildProvider(cfg, log)
	if err != nil {
		return err
	}

	analyzer := analyze.New(p, log)

	if analyzeInsight {
		gen, err := buildInsight(cfg, log)
		if err != nil {
			return err
		}
		if gen == nil {
			return fmt.Errorf("--insight requires an insight provider in config")
		}
		analyzer.SetInsight(gen)
	}

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.RequestTimeout)*time.Second)
	defer cancel()

	result, err := analyzer.Run(ctx, analyze.Request{
		Ticker:         analyzeTicker,
		Amount:         analyzeAmount,
		Frequency:      analyzeFreq,
		TimelineMonths: analyzeTimeline,
		TrailingPct:    analyzeTrailing,
		IncludeInsight: analyzeInsight,
	})
	if err != nil {
		return err
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	s := result.Summary
	fmt.Println("=== dripline strategy comparison ===")
	fmt.Printf("Ticker:            %s\n", analyzeTicker)
	fmt.Printf("Period:            %s to %s (%d purchases of $%.2f, %s)\n",
		s.Lifetime.StartDate, s.Lifetime.EndDate,
		len(result.Transactions.DCA), analyzeAmount, analyzeFreq)
	fmt.Printf("Total investment:  $%.2f\n", s.TotalInvestment)
	fmt.Println()
	fmt.Printf("DCA value:         $%.2f (%+.2f%%)\n", s.DCAValue, s.DCAPctIncrease)
	fmt.Printf("Buy the Dip value: $%.2f (%+.2f%%)\n", s.TrailingValue, s.TrailingPctIncrease)
	fmt.Printf("Buy and Hold:      $%.2f (%+.2f%%)\n", s.LumpValue, s.LumpPctIncrease)
	fmt.Printf("DCA vs Dip:        %+.2f%%\n", s.DCAVsTrailing)

	if len(s.RollingReturns) > 0 {
		fmt.Println()
		fmt.Println("Rolling returns:")
		data, _ := json.MarshalIndent(s.RollingReturns, "  ", "  ")
		fmt.Printf("  %s\n", data)
	}

	if result.Insight != "" {
		fmt.Println()
		fmt.Println(result.Insight)
	}

	return nil
}
