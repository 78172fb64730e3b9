package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giwa/sdk-probe/internal/backend"
	"giwa/sdk-probe/internal/config"
	"giwa/sdk-probe/internal/i18n"
	"giwa/sdk-probe/internal/plan"
	"giwa/sdk-probe/internal/sdk/memory"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewSDKClient(t *testing.T) {
	cfg := &config.Config{SDK: config.SDKConfig{Driver: config.DriverMemory}}
	client, gw, err := newSDKClient(cfg)
	require.NoError(t, err)
	assert.Nil(t, gw)
	assert.IsType(t, &memory.SDK{}, client)

	cfg = &config.Config{
		Agent: config.AgentConfig{Name: "probe-1"},
		SDK:   config.SDKConfig{Driver: config.DriverGateway, URL: "http://gateway:9000"},
	}
	_, _, err = newSDKClient(cfg)
	assert.ErrorContains(t, err, "token")

	cfg.SDK.Token = "s3cret"
	client, gw, err = newSDKClient(cfg)
	require.NoError(t, err)
	require.NotNil(t, gw)
	assert.Same(t, gw, client)
}

func TestServiceConfig(t *testing.T) {
	cfg := &config.Config{
		Agent:  config.AgentConfig{Name: "probe-1", PollInterval: 5},
		Plan:   config.PlanConfig{Variant: "standard", FlashblocksWait: 250},
		Runner: config.RunnerConfig{ProbeTimeout: 20},
	}

	svcCfg, err := serviceConfig(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, "probe-1", svcCfg.AgentID)
	assert.Equal(t, 5*time.Second, svcCfg.PollInterval)
	assert.Equal(t, 20*time.Second, svcCfg.ProbeTimeout)
	assert.Equal(t, plan.VariantStandard, svcCfg.Plan.Variant)
	assert.Equal(t, 250*time.Millisecond, svcCfg.Plan.FlashblocksWait)

	svcCfg, err = serviceConfig(cfg, "extended")
	require.NoError(t, err)
	assert.Equal(t, plan.VariantExtended, svcCfg.Plan.Variant)

	_, err = serviceConfig(cfg, "nightly")
	assert.Error(t, err)
}

func TestOpenPreferencesAppliesConfiguredLanguage(t *testing.T) {
	cfg := &config.Config{
		Language: "en",
		Storage:  config.StorageConfig{Path: filepath.Join(t.TempDir(), "prefs")},
	}
	prefs := openPreferences(cfg, discard())
	require.NotNil(t, prefs)
	defer prefs.Close()
	assert.Equal(t, i18n.English, prefs.Language())

	assert.Nil(t, openPreferences(&config.Config{}, discard()))
}

func TestHeartbeatReadiness(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/agents/heartbeat" || !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	gw, err := backend.NewClient(srv.URL, "probe-1", "s3cret", time.Second)
	require.NoError(t, err)

	hb := newHeartbeat(gw, discard())
	assert.Error(t, hb.Ready(context.Background()))

	hb.send(context.Background())
	assert.NoError(t, hb.Ready(context.Background()))

	healthy.Store(false)
	hb.send(context.Background())
	assert.ErrorContains(t, hb.Ready(context.Background()), "unreachable")
}
