package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"giwa/sdk-probe/internal/backend"
	"giwa/sdk-probe/internal/config"
	"giwa/sdk-probe/internal/i18n"
	"giwa/sdk-probe/internal/plan"
	"giwa/sdk-probe/internal/sdk"
	"giwa/sdk-probe/internal/sdk/memory"
	"giwa/sdk-probe/internal/service"
)

const (
	heartbeatInterval = 30 * time.Second
	dryRunFaucetURL   = "https://faucet.giwa.io/"
)

// newSDKClient returns the configured SDK driver. The gateway client is
// returned separately so callers can heartbeat it; it is nil for the
// in-process driver.
func newSDKClient(cfg *config.Config) (sdk.Client, *backend.Client, error) {
	switch cfg.SDK.Driver {
	case config.DriverGateway:
		gw, err := backend.NewClient(cfg.SDK.URL, cfg.Agent.Name, cfg.SDK.Token, cfg.GetSDKTimeout())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize sdk gateway client: %w", err)
		}
		return gw, gw, nil
	default:
		return memory.New(memory.Options{
			Network:   memory.DefaultNetwork(),
			FaucetURL: dryRunFaucetURL,
		}), nil, nil
	}
}

func serviceConfig(cfg *config.Config, variantOverride string) (service.Config, error) {
	variantName := cfg.Plan.Variant
	if variantOverride != "" {
		variantName = variantOverride
	}
	variant, err := plan.ParseVariant(variantName)
	if err != nil {
		return service.Config{}, err
	}

	return service.Config{
		AgentID:      cfg.Agent.Name,
		PollInterval: cfg.GetPollInterval(),
		ProbeTimeout: cfg.GetProbeTimeout(),
		Plan: plan.Options{
			Variant:         variant,
			FlashblocksWait: cfg.GetFlashblocksWait(),
		},
	}, nil
}

// openPreferences opens the language store. A store that cannot be opened
// is logged and runs fall back to the configured or default language.
func openPreferences(cfg *config.Config, log *slog.Logger) *i18n.Preferences {
	prefs, err := i18n.OpenPreferences(cfg.Storage.Path, log)
	if err != nil {
		log.Warn("language preferences unavailable", slog.String("error", err.Error()))
		return nil
	}

	if cfg.Language != "" {
		lang, err := i18n.ParseLanguage(cfg.Language)
		if err != nil {
			log.Warn("ignoring configured language", slog.String("error", err.Error()))
		} else if lang != prefs.Language() {
			if err := prefs.SetLanguage(lang); err != nil {
				log.Warn("failed to store configured language", slog.String("error", err.Error()))
			}
		}
	}
	return prefs
}

// heartbeat keeps the gateway informed that the agent is alive and remembers
// the last result for the readiness endpoint.
type heartbeat struct {
	client *backend.Client
	log    *slog.Logger

	mu      sync.RWMutex
	lastErr error
	lastAt  time.Time
}

func newHeartbeat(client *backend.Client, log *slog.Logger) *heartbeat {
	return &heartbeat{
		client:  client,
		log:     log,
		lastErr: fmt.Errorf("no heartbeat sent yet"),
	}
}

func (h *heartbeat) Ready(context.Context) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.lastErr != nil {
		return fmt.Errorf("sdk gateway unreachable: %w", h.lastErr)
	}
	return nil
}

func (h *heartbeat) send(ctx context.Context) {
	hbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := h.client.Heartbeat(hbCtx)

	h.mu.Lock()
	h.lastErr = err
	if err == nil {
		h.lastAt = time.Now()
	}
	h.mu.Unlock()

	if err != nil {
		h.log.Error("heartbeat failed", slog.String("error", err.Error()))
		return
	}
	h.log.Debug("heartbeat sent")
}

func (h *heartbeat) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = heartbeatInterval
	}

	h.send(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.send(ctx)
		case <-ctx.Done():
			h.log.Debug("heartbeat loop stopped")
			return nil
		}
	}
}
