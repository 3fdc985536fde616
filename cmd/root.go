package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dexswap",
	Short: "A CLI for token swaps on Uniswap V2-compatible routers",
	Long: `dexswap is a command-line tool for swapping tokens through a Uniswap
V2-compatible router contract. Quote, approve and swap in one command, with
slippage protection applied to every trade.

Examples:
  dexswap swap 1 ETH to USDC
  dexswap quote 100 USDC to DAI
  dexswap list-tokens
  dexswap balance ETH
  dexswap status <tx-hash>`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

// appLogger builds the logger the long-lived components share. Verbose mode
// lowers the level to debug; output always goes to stderr so it never mixes
// with JSON on stdout.
func appLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}

func printSuccess(message string) {
	fmt.Printf("\n%s\n\n", message)
}
