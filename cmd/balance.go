package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"dexswap/pkg/amount"
)

var balanceCmd = &cobra.Command{
	Use:   "balance <token> [address]",
	Short: "Show a token or native-coin balance",
	Long: `Read the balance of a listed token, or the native coin, for the connected
account or an explicit address.

Examples:
  dexswap balance ETH
  dexswap balance USDC
  dexswap balance DAI 0x123...`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runBalance,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func runBalance(cmd *cobra.Command, args []string) {
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

	token, ok := a.registry.Lookup(args[0])
	if !ok {
		printError(fmt.Errorf("unknown token %s", args[0]))
		os.Exit(1)
	}

	account := a.wallet.Session().Account
	if len(args) == 2 {
		if !common.IsHexAddress(args[1]) {
			printError(fmt.Errorf("invalid address %q", args[1]))
			os.Exit(1)
		}
		account = common.HexToAddress(args[1])
	}
	if account == (common.Address{}) {
		// No local key: fall back to the endpoint's unlocked accounts.
		accounts, err := a.wallet.Accounts(ctx)
		if err != nil || len(accounts) == 0 {
			printError(fmt.Errorf("no account: pass an address or configure a private key"))
			os.Exit(1)
		}
		account = accounts[0]
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Reading balance..."
		s.Start()
	}

	var balance *big.Int
	if token.IsNative() {
		balance, err = a.router.NativeBalance(ctx, account)
	} else {
		balance, err = a.router.BalanceOf(ctx, token.Address, account)
	}
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	formatted := amount.FromBaseUnit(balance, token.Decimals)

	if jsonOutput {
		output := map[string]interface{}{
			"account":    account.Hex(),
			"token":      token.Symbol,
			"balance":    formatted,
			"base_units": balance.String(),
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Printf("\n  Account:  %s\n", color.CyanString(account.Hex()))
	fmt.Printf("  Balance:  %s %s\n\n", color.GreenString(formatted), color.YellowString(token.Symbol))
}
