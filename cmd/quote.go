package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"dexswap/pkg/amount"
	"dexswap/pkg/parser"
	"dexswap/pkg/swap"
	"dexswap/pkg/types"
)

var (
	watchQuote    bool
	quoteInterval int
)

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> <source-token> to <dest-token>",
	Short: "Quote a swap without executing it",
	Long: `Ask the router what a swap would currently return. Read-only; nothing is
signed or submitted.

In watch mode the quote is refreshed continuously. Responses are ordered:
a slow, stale response never overwrites a fresher one.

Examples:
  dexswap quote 1 ETH to USDC
  dexswap quote 100 USDC to DAI --watch
  dexswap quote 100 USDC to DAI --watch --interval 10`,
	Args: cobra.MinimumNArgs(1),
	Run:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().BoolVarP(&watchQuote, "watch", "w", false, "Refresh the quote continuously")
	quoteCmd.Flags().IntVar(&quoteInterval, "interval", 5, "Refresh interval in seconds (when watching)")
}

func runQuote(cmd *cobra.Command, args []string) {
	commandStr := strings.Join(args, " ")
	swapReq, err := parser.ParseSwapCommand(commandStr)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if err := parser.ValidateSwapRequest(swapReq); err != nil {
		printError(err)
		os.Exit(1)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	log := appLogger(verbose)

	ctx := context.Background()
	a, err := connectApp(ctx, log)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer a.close()

	intent, err := buildIntent(a, swapReq)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if watchQuote {
		if jsonOutput {
			fmt.Println(`{"error": "watch mode not supported with JSON output"}`)
			os.Exit(1)
		}
		watchQuotes(ctx, a, intent)
		return
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching quote..."
		s.Start()
	}

	route, quoted, err := quoteIntent(ctx, a, intent)
	gas := ""
	if err == nil {
		gas = estimateSwapGas(ctx, a, intent, route, quoted)
	}
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	display := buildQuoteDisplay(intent, quoted, gas)
	if jsonOutput {
		printQuoteJSON(display, "quote_only")
	} else {
		displaySwapQuote(display)
	}
}

// watchQuotes refreshes the quote on a ticker. Each refresh runs in its own
// goroutine so a stalled endpoint never blocks the loop; the tracker drops
// results that arrive after a newer one was already printed.
func watchQuotes(ctx context.Context, a *app, intent types.SwapIntent) {
	amountIn := amount.FromBaseUnit(intent.AmountIn, intent.FromToken.Decimals)
	fmt.Printf("\nWatching quote for %s %s to %s\n",
		color.YellowString(amountIn), intent.FromToken.Symbol, intent.ToToken.Symbol)
	fmt.Printf("Refreshing every %d seconds. Press Ctrl+C to stop.\n\n", quoteInterval)

	tracker := &swap.Tracker{}
	interval := time.Duration(quoteInterval) * time.Second

	refresh := func() {
		seq := tracker.Begin()
		go func() {
			callCtx, cancel := context.WithTimeout(ctx, interval)
			defer cancel()

			_, quoted, err := quoteIntent(callCtx, a, intent)
			if !tracker.Apply(seq) {
				// A fresher response already landed.
				return
			}
			stamp := time.Now().Format("15:04:05")
			if err != nil {
				color.Red("  [%s] quote unavailable: %v", stamp, err)
				return
			}
			amountOut := amount.FromBaseUnit(quoted, intent.ToToken.Decimals)
			fmt.Printf("  [%s] %s %s = %s %s  (1 %s = %s %s)\n",
				stamp, amountIn, intent.FromToken.Symbol,
				color.GreenString(amountOut), intent.ToToken.Symbol,
				intent.FromToken.Symbol, displayRate(amountIn, amountOut), intent.ToToken.Symbol)
		}()
	}

	refresh()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		refresh()
	}
}
