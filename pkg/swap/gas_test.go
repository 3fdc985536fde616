package swap

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/rs/zerolog"

	"dexswap/pkg/types"
)

func stubStrategy(name string, gas uint64, err error, calls *[]string) Strategy {
	return Strategy{
		Name: name,
		Estimate: func(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
			*calls = append(*calls, name)
			return gas, err
		},
	}
}

func TestEstimatorFirstSuccessWins(t *testing.T) {
	var calls []string
	e := NewEstimator(zerolog.Nop(),
		stubStrategy("signer", 21000, nil, &calls),
		stubStrategy("node", 99999, nil, &calls),
	)

	gas, err := e.Estimate(context.Background(), ethereum.CallMsg{})
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if gas != 21000 {
		t.Errorf("gas = %d, want 21000", gas)
	}
	if len(calls) != 1 || calls[0] != "signer" {
		t.Errorf("later strategies must not run after a success, calls = %v", calls)
	}
}

func TestEstimatorFallsThroughChain(t *testing.T) {
	var calls []string
	e := NewEstimator(zerolog.Nop(),
		stubStrategy("signer", 0, types.ErrSignerUnavailable, &calls),
		stubStrategy("node", 0, fmt.Errorf("node overloaded"), &calls),
		stubStrategy("raw", 150000, nil, &calls),
	)

	gas, err := e.Estimate(context.Background(), ethereum.CallMsg{})
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if gas != 150000 {
		t.Errorf("gas = %d, want 150000", gas)
	}
	want := []string{"signer", "node", "raw"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", calls, want)
		}
	}
}

func TestEstimatorAllFailIsUnavailable(t *testing.T) {
	var calls []string
	e := NewEstimator(zerolog.Nop(),
		stubStrategy("signer", 0, fmt.Errorf("rejected"), &calls),
		stubStrategy("node", 0, fmt.Errorf("rejected"), &calls),
		stubStrategy("raw", 0, fmt.Errorf("rejected"), &calls),
	)

	_, err := e.Estimate(context.Background(), ethereum.CallMsg{})
	if !errors.Is(err, types.ErrGasEstimateUnavailable) {
		t.Fatalf("got %v, want ErrGasEstimateUnavailable", err)
	}
	if len(calls) != 3 {
		t.Errorf("all strategies should have been attempted, calls = %v", calls)
	}
}

func TestEstimatorEmptyChain(t *testing.T) {
	e := NewEstimator(zerolog.Nop())
	if _, err := e.Estimate(context.Background(), ethereum.CallMsg{}); !errors.Is(err, types.ErrGasEstimateUnavailable) {
		t.Fatalf("got %v, want ErrGasEstimateUnavailable", err)
	}
}
