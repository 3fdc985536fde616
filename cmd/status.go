package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"dexswap/pkg/router"
)

var (
	watchStatus   bool
	watchInterval int
)

var statusCmd = &cobra.Command{
	Use:   "status <tx-hash>",
	Short: "Check the status of a submitted transaction",
	Long: `Look up a transaction by hash and report whether it is pending, confirmed
or reverted.

Examples:
  dexswap status 0x1234...abcd
  dexswap status 0x1234...abcd --watch
  dexswap status 0x1234...abcd --watch --interval 10`,
	Args: cobra.ExactArgs(1),
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVarP(&watchStatus, "watch", "w", false, "Watch status updates continuously")
	statusCmd.Flags().IntVar(&watchInterval, "interval", 5, "Polling interval in seconds (when watching)")
}

func runStatus(cmd *cobra.Command, args []string) {
	raw := args[0]
	if !strings.HasPrefix(raw, "0x") || len(raw) != 66 {
		printError(fmt.Errorf("invalid transaction hash %q", raw))
		os.Exit(1)
	}
	hash := common.HexToHash(raw)

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

	if watchStatus {
		watchTxStatus(ctx, a, hash, jsonOutput)
	} else {
		checkTxStatus(ctx, a, hash, jsonOutput)
	}
}

func checkTxStatus(ctx context.Context, a *app, hash common.Hash, jsonOutput bool) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Checking transaction status..."
		s.Start()
	}

	info, err := a.router.TransactionInfo(ctx, hash)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		output := map[string]interface{}{
			"hash":   info.Hash.Hex(),
			"nonce":  info.Nonce,
			"status": txStatusLabel(info),
		}
		if info.To != nil {
			output["to"] = info.To.Hex()
		}
		if info.Mined {
			output["block"] = info.BlockNumber
			output["gas_used"] = info.GasUsed
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayTxStatus(info)
	}
}

// watchTxStatus polls until the transaction is mined.
func watchTxStatus(ctx context.Context, a *app, hash common.Hash, jsonOutput bool) {
	if jsonOutput {
		fmt.Println(`{"error": "watch mode not supported with JSON output"}`)
		os.Exit(1)
	}

	fmt.Printf("\nWatching transaction %s\n", color.CyanString(hash.Hex()))
	fmt.Printf("Checking every %d seconds. Press Ctrl+C to stop.\n", watchInterval)

	ticker := time.NewTicker(time.Duration(watchInterval) * time.Second)
	defer ticker.Stop()

	for {
		info, err := a.router.TransactionInfo(ctx, hash)
		if err != nil {
			color.Red("Error: %v", err)
		} else {
			displayTxStatus(info)
			if info.Mined {
				return
			}
		}
		<-ticker.C
	}
}

func displayTxStatus(info *router.TxInfo) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                     TRANSACTION STATUS")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Hash:       %s\n", color.CyanString(info.Hash.Hex()))
	fmt.Printf("  Status:     %s\n", coloredTxStatus(info))
	fmt.Printf("  Nonce:      %d\n", info.Nonce)
	if info.To != nil {
		fmt.Printf("  To:         %s\n", color.HiBlackString(info.To.Hex()))
	}
	fmt.Printf("  Value:      %s wei\n", info.Value)
	fmt.Printf("  Gas Limit:  %d\n", info.GasLimit)

	if info.Mined {
		fmt.Printf("  Block:      %d\n", info.BlockNumber)
		fmt.Printf("  Gas Used:   %d\n", info.GasUsed)
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func txStatusLabel(info *router.TxInfo) string {
	switch {
	case info.Pending:
		return "PENDING"
	case info.Mined && info.Succeeded:
		return "CONFIRMED"
	case info.Mined:
		return "REVERTED"
	default:
		return "UNKNOWN"
	}
}

func coloredTxStatus(info *router.TxInfo) string {
	label := txStatusLabel(info)
	switch label {
	case "CONFIRMED":
		return color.GreenString(label)
	case "PENDING":
		return color.YellowString(label)
	case "REVERTED":
		return color.RedString(label)
	default:
		return label
	}
}
