package types

import "errors"

// Error taxonomy for the swap pipeline. Quoting and gas-estimation failures
// are absorbed by callers and rendered as "unknown"; approval and swap
// failures surface to the user with the underlying message attached.
var (
	// ErrWalletUnavailable means no wallet provider could be reached.
	ErrWalletUnavailable = errors.New("wallet unavailable")

	// ErrSignerUnavailable means an action that requires signing was
	// attempted without a connected signer.
	ErrSignerUnavailable = errors.New("signer unavailable")

	// ErrQuoteUnavailable means the router's amounts-out view call failed or
	// reverted. Callers must treat the expected output as unknown, not zero.
	ErrQuoteUnavailable = errors.New("quote unavailable")

	// ErrGasEstimateUnavailable means every estimation strategy in the
	// fallback chain failed.
	ErrGasEstimateUnavailable = errors.New("gas estimate unavailable")

	// ErrNoRoute means no hop path exists between the two assets
	// (native-to-native identity).
	ErrNoRoute = errors.New("no route between tokens")

	// ErrApprovalFailed covers allowance reads and approval transactions
	// that did not settle.
	ErrApprovalFailed = errors.New("approval failed")

	// ErrSwapFailed covers signer rejection, reverted simulation, on-chain
	// revert and expired deadline.
	ErrSwapFailed = errors.New("swap failed")
)
