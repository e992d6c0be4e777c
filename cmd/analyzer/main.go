// Command analyzer is the terminal frontend for the CSE fee and break-even
// arithmetic. It prints tabular breakdowns for a single trade without
// needing the HTTP server.
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/lankastocks/cse-analyzer/internal/config"
	"github.com/lankastocks/cse-analyzer/internal/modules/breakeven"
	"github.com/lankastocks/cse-analyzer/internal/modules/fees"
)

const usage = `Usage: analyzer <command> [flags]

Commands:
  fees       buy and sell fee breakdown for a transaction value
  breakeven  break-even sale price for a position
  target     sale price needed for a target profit percentage
  profit     profit or loss when selling at a given price
  summary    the configured CSE fee structure

Run 'analyzer <command> -h' for command flags.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.LoadAnalysis(os.Getenv("ANALYSIS_CONFIG"))
	if err != nil {
		fatal(err)
	}

	switch os.Args[1] {
	case "fees":
		runFees(cfg, os.Args[2:])
	case "breakeven":
		runBreakeven(cfg, os.Args[2:])
	case "target":
		runTarget(cfg, os.Args[2:])
	case "profit":
		runProfit(cfg, os.Args[2:])
	case "summary":
		runSummary(cfg)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
}

func runFees(cfg *config.Analysis, args []string) {
	fs := flag.NewFlagSet("fees", flag.ExitOnError)
	value := fs.Float64("value", 0, "transaction value in LKR")
	fs.Parse(args)

	calc := fees.New(cfg)

	buy, err := calc.CalculateBuyFees(*value)
	if err != nil {
		fatal(err)
	}
	sell, err := calc.CalculateSellFees(*value)
	if err != nil {
		fatal(err)
	}

	w := newTable()
	fmt.Fprintf(w, "Transaction value\tLKR %.2f\t(%s)\n", buy.TransactionValue, buy.Tier)
	fmt.Fprintf(w, "\t\t\n")
	fmt.Fprintf(w, "BUY\t\t\n")
	fmt.Fprintf(w, "  Broker commission\tLKR %.2f\t\n", buy.BrokerCommission)
	fmt.Fprintf(w, "  SEC fee\tLKR %.2f\t\n", buy.SECFee)
	fmt.Fprintf(w, "  CSE fee\tLKR %.2f\t\n", buy.CSEFee)
	fmt.Fprintf(w, "  CDS fee\tLKR %.2f\t\n", buy.CDSFee)
	fmt.Fprintf(w, "  Total fees\tLKR %.2f\t(%.3f%%)\n", buy.TotalFees, buy.EffectiveRate*100)
	fmt.Fprintf(w, "  Total cost\tLKR %.2f\t\n", buy.TotalCost)
	fmt.Fprintf(w, "\t\t\n")
	fmt.Fprintf(w, "SELL\t\t\n")
	fmt.Fprintf(w, "  Broker commission\tLKR %.2f\t\n", sell.BrokerCommission)
	fmt.Fprintf(w, "  SEC fee\tLKR %.2f\t\n", sell.SECFee)
	fmt.Fprintf(w, "  CSE fee\tLKR %.2f\t\n", sell.CSEFee)
	fmt.Fprintf(w, "  CDS fee\tLKR %.2f\t\n", sell.CDSFee)
	fmt.Fprintf(w, "  STL tax\tLKR %.2f\t\n", sell.STLTax)
	fmt.Fprintf(w, "  Total fees\tLKR %.2f\t(%.3f%%)\n", sell.TotalFees, sell.EffectiveRate*100)
	fmt.Fprintf(w, "  Net proceeds\tLKR %.2f\t\n", sell.NetProceeds)
	w.Flush()
}

func runBreakeven(cfg *config.Analysis, args []string) {
	fs := flag.NewFlagSet("breakeven", flag.ExitOnError)
	buyPrice := fs.Float64("buy", 0, "buy price per share in LKR")
	quantity := fs.Float64("qty", 0, "number of shares")
	withTax := fs.Bool("tax", true, "include capital gains tax")
	fs.Parse(args)

	result, err := breakeven.New(cfg).BreakevenPrice(*buyPrice, *quantity, *withTax)
	if err != nil {
		fatal(err)
	}

	w := newTable()
	fmt.Fprintf(w, "Buy price\tLKR %.2f\t\n", result.BuyPrice)
	fmt.Fprintf(w, "Quantity\t%.0f\t\n", result.Quantity)
	fmt.Fprintf(w, "Total investment\tLKR %.2f\t(incl. LKR %.2f fees)\n", result.TotalInvestment, result.BuyFeesPaid)
	fmt.Fprintf(w, "Break-even price\tLKR %.2f\t(+%.2f%%)\n", result.BreakevenPrice, result.PriceIncreasePercentage*100)
	fmt.Fprintf(w, "Sell fees at break-even\tLKR %.2f\t\n", result.SellFeesAtBreakeven)
	if result.IncludesCapitalGainsTax {
		fmt.Fprintf(w, "Capital gains tax\tLKR %.2f\t\n", result.CapitalGainsTax)
	}
	fmt.Fprintf(w, "Net proceeds\tLKR %.2f\t\n", result.NetProceeds)
	w.Flush()
}

func runTarget(cfg *config.Analysis, args []string) {
	fs := flag.NewFlagSet("target", flag.ExitOnError)
	buyPrice := fs.Float64("buy", 0, "buy price per share in LKR")
	quantity := fs.Float64("qty", 0, "number of shares")
	profitPct := fs.Float64("pct", 10, "target profit percentage")
	withTax := fs.Bool("tax", true, "include capital gains tax")
	fs.Parse(args)

	result, err := breakeven.New(cfg).TargetPrice(*buyPrice, *quantity, *profitPct, *withTax)
	if err != nil {
		fatal(err)
	}

	w := newTable()
	fmt.Fprintf(w, "Buy price\tLKR %.2f\t\n", result.BuyPrice)
	fmt.Fprintf(w, "Total investment\tLKR %.2f\t\n", result.TotalInvestment)
	fmt.Fprintf(w, "Target profit\t%.1f%%\t(LKR %.2f)\n", result.TargetProfitPercentage, result.TargetProfitAmount)
	fmt.Fprintf(w, "Target sell price\tLKR %.2f\t(+%.2f%%)\n", result.TargetSellPrice, result.PriceIncreasePercentage*100)
	fmt.Fprintf(w, "Break-even price\tLKR %.2f\t\n", result.BreakevenPrice)
	fmt.Fprintf(w, "Sell fees\tLKR %.2f\t\n", result.SellFees)
	if result.IncludesCapitalGainsTax {
		fmt.Fprintf(w, "Capital gains tax\tLKR %.2f\t\n", result.CapitalGainsTax)
	}
	fmt.Fprintf(w, "Net profit\tLKR %.2f\t(%.2f%%)\n", result.NetProfit, result.ActualProfitPercentage)
	w.Flush()
}

func runProfit(cfg *config.Analysis, args []string) {
	fs := flag.NewFlagSet("profit", flag.ExitOnError)
	buyPrice := fs.Float64("buy", 0, "buy price per share in LKR")
	sellPrice := fs.Float64("sell", 0, "sell price per share in LKR")
	quantity := fs.Float64("qty", 0, "number of shares")
	withTax := fs.Bool("tax", true, "include capital gains tax")
	fs.Parse(args)

	result, err := breakeven.New(cfg).ProfitAtPrice(*buyPrice, *sellPrice, *quantity, *withTax)
	if err != nil {
		fatal(err)
	}

	status := "LOSS"
	if result.NetProfit >= 0 {
		status = "PROFIT"
	}

	w := newTable()
	fmt.Fprintf(w, "Buy price\tLKR %.2f\t\n", result.BuyPrice)
	fmt.Fprintf(w, "Sell price\tLKR %.2f\t\n", result.SellPrice)
	fmt.Fprintf(w, "Total investment\tLKR %.2f\t\n", result.TotalInvestment)
	fmt.Fprintf(w, "Total fees\tLKR %.2f\t\n", result.TotalFees)
	if result.IncludesCapitalGainsTax {
		fmt.Fprintf(w, "Capital gains tax\tLKR %.2f\t\n", result.CapitalGainsTax)
	}
	fmt.Fprintf(w, "Net %s\tLKR %.2f\t(%.2f%%)\n", status, result.NetProfit, result.ProfitPercentage*100)
	fmt.Fprintf(w, "Break-even price\tLKR %.2f\t(%+.2f vs sell)\n", result.BreakevenPrice, result.PriceVsBreakeven)
	w.Flush()
}

func runSummary(cfg *config.Analysis) {
	summary := fees.New(cfg).FeeSummary()

	w := newTable()
	fmt.Fprintf(w, "Tier 1 (up to %s)\tbrokerage %s\ttotal %s\n", summary.Tier1Max, summary.Tier1Brokerage, summary.Tier1Total)
	fmt.Fprintf(w, "Tier 2 (%s)\tbrokerage %s\ttotal %s\n", summary.Tier2Min, summary.Tier2Brokerage, summary.Tier2Total)
	fmt.Fprintf(w, "Share transaction levy\t%s\t\n", summary.STLTax)
	fmt.Fprintf(w, "Capital gains tax\t%s\t\n", summary.CapitalGainsTax)
	fmt.Fprintf(w, "Minimum commission\t%s\t\n", summary.MinimumCommission)
	w.Flush()
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
