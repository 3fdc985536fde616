package wallet

import (
	"errors"
	"math/big"
	"testing"

	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"dexswap/pkg/types"
)

func TestEventBusDeliversToAllSubscribers(t *testing.T) {
	bus := newEventBus()

	ch1, unsub1 := bus.subscribe(1)
	ch2, unsub2 := bus.subscribe(1)
	defer unsub1()
	defer unsub2()

	bus.publish(Event{Kind: ChainChanged, ChainID: big.NewInt(5)})

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			if ev.Kind != ChainChanged || ev.ChainID.Int64() != 5 {
				t.Errorf("subscriber %d got %+v", i, ev)
			}
		default:
			t.Errorf("subscriber %d got nothing", i)
		}
	}
}

func TestEventBusDropsWhenSaturated(t *testing.T) {
	bus := newEventBus()
	ch, unsub := bus.subscribe(1)
	defer unsub()

	bus.publish(Event{Kind: ChainChanged, ChainID: big.NewInt(1)})
	// Second publish must not block even though nobody drained the first.
	bus.publish(Event{Kind: ChainChanged, ChainID: big.NewInt(2)})

	ev := <-ch
	if ev.ChainID.Int64() != 1 {
		t.Errorf("expected first event to survive, got chain %s", ev.ChainID)
	}
	select {
	case ev := <-ch:
		t.Errorf("expected second event dropped, got %+v", ev)
	default:
	}
}

func TestEventBusUnsubscribeCloses(t *testing.T) {
	bus := newEventBus()
	ch, unsub := bus.subscribe(1)
	unsub()

	if _, open := <-ch; open {
		t.Error("channel should be closed after unsubscribe")
	}
	// Publishing after unsubscribe must not panic.
	bus.publish(Event{Kind: AccountsChanged})
	// Double unsubscribe is a no-op.
	unsub()
}

func TestSessionWithoutSigner(t *testing.T) {
	s := Session{ChainID: big.NewInt(1)}
	if s.HasSigner() {
		t.Fatal("empty session should have no signer")
	}

	tx := gethtypes.NewTx(&gethtypes.LegacyTx{})
	if _, err := s.SignTx(tx); !errors.Is(err, types.ErrSignerUnavailable) {
		t.Errorf("SignTx without key: got %v, want ErrSignerUnavailable", err)
	}
}
