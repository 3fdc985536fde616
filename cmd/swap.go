package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"dexswap/pkg/amount"
	"dexswap/pkg/parser"
	"dexswap/pkg/router"
	"dexswap/pkg/swap"
	"dexswap/pkg/types"
)

var (
	recipientAddr   string
	slippageBps     int64
	deadlineMinutes int64
	noConfirm       bool
)

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <source-token> to <dest-token>",
	Short: "Swap tokens through the router",
	Long: `Swap an exact input amount for as much of the destination token as the
pools give, protected by a slippage floor on the output.

A token input is approved for exactly the swap amount before the swap is
submitted. Native input needs no approval; the amount travels as transaction
value.

Examples:
  # Native coin in
  dexswap swap 1 ETH to USDC

  # Token in (approval submitted first if the allowance is short)
  dexswap swap 100 USDC to DAI

  # Send the output to another address, with a tighter slippage tolerance
  dexswap swap 0.5 ETH to DAI --recipient 0x123... --slippage 30

  # Skip the confirmation prompt
  dexswap swap 1 ETH to USDC --yes`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().StringVar(&recipientAddr, "recipient", "", "Recipient address (defaults to the connected account)")
	swapCmd.Flags().Int64Var(&slippageBps, "slippage", 0, "Slippage tolerance in basis points (default from config)")
	swapCmd.Flags().Int64Var(&deadlineMinutes, "deadline", 0, "Transaction deadline in minutes (default from config)")
	swapCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
}

func runSwap(cmd *cobra.Command, args []string) {
	// Parse the command
	commandStr := strings.Join(args, " ")
	swapReq, err := parser.ParseSwapCommand(commandStr)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if recipientAddr != "" {
		swapReq.Recipient = recipientAddr
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

	// Get quote with spinner
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
		printQuoteJSON(display, "quote_generated")
	} else {
		displaySwapQuote(display)
	}

	// Ask for confirmation
	if !noConfirm && !jsonOutput {
		if !confirmSwap() {
			fmt.Println("\nSwap cancelled.")
			os.Exit(0)
		}
	}

	result, err := executeSwap(ctx, a, intent, jsonOutput)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		output := map[string]interface{}{
			"tx_hash":        result.TxHash.Hex(),
			"amount_in":      amount.FromBaseUnit(result.AmountIn, intent.FromToken.Decimals),
			"source_token":   intent.FromToken.Symbol,
			"quoted_out":     amount.FromBaseUnit(result.QuotedOut, intent.ToToken.Decimals),
			"amount_out_min": amount.FromBaseUnit(result.AmountOutMin, intent.ToToken.Decimals),
			"dest_token":     intent.ToToken.Symbol,
			"gas_used":       result.Receipt.GasUsed,
			"block":          result.Receipt.BlockNumber.Uint64(),
			"status":         "confirmed",
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	printSuccess(color.GreenString("Swap confirmed!"))
	fmt.Printf("  Transaction:  %s\n", color.CyanString(result.TxHash.Hex()))
	fmt.Printf("  Block:        %d\n", result.Receipt.BlockNumber.Uint64())
	fmt.Printf("  Gas Used:     %d\n", result.Receipt.GasUsed)
	fmt.Printf("  Minimum Out:  %s %s\n",
		amount.FromBaseUnit(result.AmountOutMin, intent.ToToken.Decimals),
		intent.ToToken.Symbol)
	fmt.Println("\nInspect the transaction with:")
	color.Cyan("  dexswap status %s\n", result.TxHash.Hex())
}

// buildIntent resolves symbols against the registry and converts the display
// amount to base units.
func buildIntent(a *app, req *types.SwapRequest) (types.SwapIntent, error) {
	fromToken, ok := a.registry.Lookup(req.FromSymbol)
	if !ok {
		return types.SwapIntent{}, fmt.Errorf("unknown token %s (known: %s)", req.FromSymbol, strings.Join(a.registry.Symbols(), ", "))
	}
	toToken, ok := a.registry.Lookup(req.ToSymbol)
	if !ok {
		return types.SwapIntent{}, fmt.Errorf("unknown token %s (known: %s)", req.ToSymbol, strings.Join(a.registry.Symbols(), ", "))
	}

	amountIn := amount.ToBaseUnit(req.Amount, fromToken.Decimals)
	if amountIn.Sign() <= 0 {
		return types.SwapIntent{}, fmt.Errorf("amount %q is zero or invalid", req.Amount)
	}

	bps := slippageBps
	if bps == 0 {
		bps = a.cfg.SlippageBps
	}

	intent := types.SwapIntent{
		FromToken:   fromToken,
		ToToken:     toToken,
		AmountIn:    amountIn,
		SlippageBps: bps,
	}
	if deadlineMinutes > 0 {
		intent.Deadline = time.Now().Add(time.Duration(deadlineMinutes) * time.Minute).Unix()
	}
	if req.Recipient != "" {
		if !common.IsHexAddress(req.Recipient) {
			return types.SwapIntent{}, fmt.Errorf("invalid recipient address %q", req.Recipient)
		}
		intent.Recipient = common.HexToAddress(req.Recipient)
	}
	return intent, nil
}

func quoteIntent(ctx context.Context, a *app, intent types.SwapIntent) ([]common.Address, *big.Int, error) {
	weth, err := a.router.WETH(ctx)
	if err != nil {
		return nil, nil, err
	}
	route, err := swap.ResolvePath(intent.FromToken, intent.ToToken, weth)
	if err != nil {
		return nil, nil, err
	}
	quoted, err := swap.NewQuoteService(a.router, a.log).Quote(ctx, intent.AmountIn, route)
	if err != nil {
		return nil, nil, err
	}
	return route, quoted, nil
}

// estimateSwapGas runs the strategy chain against the intended call. An empty
// result means no strategy could estimate; the quote renders it as N/A.
func estimateSwapGas(ctx context.Context, a *app, intent types.SwapIntent, route []common.Address, quoted *big.Int) string {
	minOut := swap.ApplySlippage(quoted, intent.SlippageBps)
	deadline := big.NewInt(time.Now().Add(swap.DefaultDeadline).Unix())
	session := a.wallet.Session()

	to := intent.Recipient
	if to == (common.Address{}) {
		to = session.Account
	}

	var (
		call router.SwapCall
		err  error
	)
	if intent.FromToken.IsNative() {
		call, err = a.router.BuildSwapExactETHForTokens(intent.AmountIn, minOut, route, to, deadline)
	} else {
		call, err = a.router.BuildSwapExactTokensForTokens(intent.AmountIn, minOut, route, to, deadline)
	}
	if err != nil {
		return ""
	}

	estimator := swap.NewEstimator(a.log, swap.DefaultStrategies(session, a.wallet.Client(), a.wallet.Provider())...)
	gas, err := estimator.Estimate(ctx, swap.SwapCallMsg(session.Account, a.router.Address(), call.Value, call.Data))
	if err != nil {
		a.log.Debug().Err(err).Msg("gas estimate unavailable")
		return ""
	}
	return fmt.Sprintf("%d", gas)
}

// executeSwap runs the executor with a spinner tracking the approval and
// submission phases.
func executeSwap(ctx context.Context, a *app, intent types.SwapIntent, jsonOutput bool) (*swap.Result, error) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Executing swap..."
		s.Start()
		defer s.Stop()
	}

	approvals := swap.NewApprovalManager(a.router, a.log, func(state swap.ApprovalState) {
		if jsonOutput {
			return
		}
		switch state {
		case swap.ApprovalPending:
			s.Suffix = fmt.Sprintf(" Approving %s...", intent.FromToken.Symbol)
		case swap.ApprovalGranted:
			s.Suffix = " Submitting swap..."
		}
	})

	executor := swap.NewExecutor(
		a.router,
		swap.NewQuoteService(a.router, a.log),
		approvals,
		time.Duration(a.cfg.DeadlineMinutes)*time.Minute,
		a.log,
	)
	return executor.Swap(ctx, a.wallet.Session(), intent)
}

func buildQuoteDisplay(intent types.SwapIntent, quoted *big.Int, gas string) types.QuoteDisplay {
	amountIn := amount.FromBaseUnit(intent.AmountIn, intent.FromToken.Decimals)
	amountOut := amount.FromBaseUnit(quoted, intent.ToToken.Decimals)
	if gas == "" {
		gas = "N/A"
	}
	return types.QuoteDisplay{
		AmountIn:    amountIn,
		FromSymbol:  intent.FromToken.Symbol,
		AmountOut:   amountOut,
		ToSymbol:    intent.ToToken.Symbol,
		Rate:        displayRate(amountIn, amountOut),
		GasEstimate: gas,
	}
}

// displayRate renders the output per one unit of input.
func displayRate(amountIn, amountOut string) string {
	in, errIn := decimal.NewFromString(amountIn)
	out, errOut := decimal.NewFromString(amountOut)
	if errIn != nil || errOut != nil || in.IsZero() {
		return "N/A"
	}
	return out.Div(in).Round(6).String()
}

func printQuoteJSON(q types.QuoteDisplay, status string) {
	output := map[string]interface{}{
		"amount_in":    q.AmountIn,
		"source_token": q.FromSymbol,
		"amount_out":   q.AmountOut,
		"dest_token":   q.ToSymbol,
		"rate":         q.Rate,
		"gas_estimate": q.GasEstimate,
		"status":       status,
	}
	jsonData, _ := json.MarshalIndent(output, "", "  ")
	fmt.Println(string(jsonData))
}

func displaySwapQuote(q types.QuoteDisplay) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                     SWAP QUOTE")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  From:          %s %s\n", q.AmountIn, color.YellowString(q.FromSymbol))
	fmt.Printf("  To:            ~%s %s\n", q.AmountOut, color.YellowString(q.ToSymbol))
	fmt.Printf("  Rate:          1 %s = %s %s\n", q.FromSymbol, q.Rate, q.ToSymbol)
	fmt.Printf("  Gas Estimate:  %s\n", q.GasEstimate)

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}

func confirmSwap() bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("\nProceed with swap? (y/N): ")

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
