package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"dexswap/config"
	"dexswap/pkg/router"
	"dexswap/pkg/tokens"
	"dexswap/pkg/wallet"
)

// app bundles the connected stack a command operates on: configuration,
// wallet session, router binding and the token registry.
type app struct {
	cfg      *config.Config
	registry *tokens.Registry
	wallet   *wallet.Wallet
	router   *router.Client
	log      zerolog.Logger

	unsubscribe func()
}

// connectApp loads configuration, dials the endpoint and binds the router.
// A chain-changed notification from the wallet invalidates the router's
// cached chain state.
func connectApp(ctx context.Context, log zerolog.Logger) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	registry, err := cfg.Registry()
	if err != nil {
		return nil, err
	}

	w, err := wallet.Connect(ctx, wallet.Options{
		RPCURL:     cfg.RPCURL,
		PrivateKey: cfg.PrivateKey,
		Logger:     log,
	})
	if err != nil {
		return nil, err
	}

	if cfg.ChainID != 0 {
		if got := w.Session().ChainID; got == nil || got.Int64() != cfg.ChainID {
			w.Close()
			return nil, fmt.Errorf("endpoint is on chain %v, config expects %d", got, cfg.ChainID)
		}
	}

	r, err := router.NewClient(w.Client(), w.Provider(), cfg.Router(), log)
	if err != nil {
		w.Close()
		return nil, err
	}

	events, unsubscribe := w.Subscribe(4)
	go func() {
		for ev := range events {
			if ev.Kind == wallet.ChainChanged {
				log.Debug().Msg("chain changed, invalidating router cache")
				r.Invalidate()
			}
		}
	}()

	return &app{
		cfg:         cfg,
		registry:    registry,
		wallet:      w,
		router:      r,
		log:         log,
		unsubscribe: unsubscribe,
	}, nil
}

func (a *app) close() {
	a.unsubscribe()
	a.wallet.Close()
}
