package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"dexswap/config"
	"dexswap/pkg/types"
)

var filterSymbol string

var tokensCmd = &cobra.Command{
	Use:     "list-tokens",
	Aliases: []string{"tokens", "ls"},
	Short:   "List all swappable tokens",
	Long: `List the tokens the client can swap between. The list is fixed at startup,
from the built-in registry or the tokens section of the config file.

Examples:
  dexswap list-tokens
  dexswap list-tokens --symbol USD`,
	Run: runListTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().StringVar(&filterSymbol, "symbol", "", "Filter by token symbol")
}

func runListTokens(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	// Load configuration; the registry needs no connection.
	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	registry, err := cfg.Registry()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	// Apply filters
	filtered := registry.List()
	if filterSymbol != "" {
		var temp []types.Token
		for _, token := range filtered {
			if strings.Contains(strings.ToUpper(token.Symbol), strings.ToUpper(filterSymbol)) {
				temp = append(temp, token)
			}
		}
		filtered = temp
	}

	// Output
	if jsonOutput {
		type tokenOut struct {
			Symbol   string `json:"symbol"`
			Address  string `json:"address"`
			Decimals uint8  `json:"decimals"`
			Native   bool   `json:"native"`
		}
		out := make([]tokenOut, 0, len(filtered))
		for _, token := range filtered {
			out = append(out, tokenOut{
				Symbol:   token.Symbol,
				Address:  token.Address.Hex(),
				Decimals: token.Decimals,
				Native:   token.IsNative(),
			})
		}
		jsonData, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayTokens(filtered)
	}
}

func displayTokens(tokens []types.Token) {
	if len(tokens) == 0 {
		fmt.Println("\nNo tokens found matching the criteria.")
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                      SWAPPABLE TOKENS")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println()

	for _, token := range tokens {
		address := token.Address.Hex()
		if token.IsNative() {
			address = "native coin"
		}
		fmt.Printf("  %-8s  %2d decimals  %s\n",
			color.YellowString(token.Symbol),
			token.Decimals,
			color.HiBlackString(address))
	}

	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Printf("\nTotal: %d tokens\n\n", len(tokens))
}
