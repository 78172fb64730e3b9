// Package plan defines the ordered probe sequence for one SDK test run.
//
// Probes run strictly one after another: wallet-dependent probes read the
// state left behind by earlier ones (a wallet created by the create probe is
// what lets the export probes run rather than skip). Each probe receives an
// Env captured immediately before it starts, and its skip condition is
// evaluated against that same Env.
package plan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"giwa/sdk-probe/internal/domain"
	"giwa/sdk-probe/internal/i18n"
	"giwa/sdk-probe/internal/runner"
	"giwa/sdk-probe/internal/sdk"
)

type Variant string

const (
	// VariantStandard is the settings-screen plan.
	VariantStandard Variant = "standard"
	// VariantExtended adds the token manager probe.
	VariantExtended Variant = "extended"
)

const DefaultFlashblocksWait = 100 * time.Millisecond

// ParseVariant maps a config value to a Variant. Empty means standard.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case "", VariantStandard:
		return VariantStandard, nil
	case VariantExtended:
		return VariantExtended, nil
	}
	return "", fmt.Errorf("unknown plan variant %q", s)
}

// Env is the read-only view a probe sees.
type Env struct {
	// Network is nil when the SDK has no network config.
	Network *domain.Network
	Wallet  domain.WalletState
	SDK     sdk.Client
	Strings i18n.Strings

	// NetworkErr and WalletErr hold read failures other than a missing
	// network config. Probes that depend on the failed read report it.
	NetworkErr error
	WalletErr  error
}

// Feature reports whether f is available on the snapshot's network.
func (e Env) Feature(f domain.Feature) bool {
	if e.Network == nil {
		return false
	}
	return e.Network.Features.Available(f)
}

// Probe is one step of the plan.
type Probe struct {
	Name string
	// Skip is evaluated right before the probe; nil means never skipped.
	Skip  func(Env) (bool, string)
	Check func(ctx context.Context, env Env) (string, error)
}

type Options struct {
	Variant         Variant
	FlashblocksWait time.Duration
}

type Plan struct {
	client  sdk.Client
	strings i18n.Strings
	log     *slog.Logger
	probes  []Probe
}

// New builds the plan for one run. Plans are not reused across runs.
func New(client sdk.Client, strings i18n.Strings, log *slog.Logger, opts Options) *Plan {
	if log == nil {
		log = slog.Default()
	}
	if opts.FlashblocksWait <= 0 {
		opts.FlashblocksWait = DefaultFlashblocksWait
	}
	p := &Plan{client: client, strings: strings, log: log}
	p.probes = p.build(opts)
	return p
}

// Probes returns the probe descriptors in execution order.
func (p *Plan) Probes() []Probe {
	out := make([]Probe, len(p.probes))
	copy(out, p.probes)
	return out
}

// Execute runs every probe through r in order and clears r's current
// pointer when done.
func (p *Plan) Execute(ctx context.Context, r *runner.Runner) {
	defer r.Done()

	for _, probe := range p.probes {
		env := p.Snapshot(ctx)

		skip, reason := false, ""
		if probe.Skip != nil {
			skip, reason = probe.Skip(env)
		}

		check := probe.Check
		r.Run(ctx, probe.Name, func(ctx context.Context) (string, error) {
			return check(ctx, env)
		}, skip, reason)
	}
}

// Snapshot reads the current network and wallet state from the SDK.
func (p *Plan) Snapshot(ctx context.Context) Env {
	env := Env{SDK: p.client, Strings: p.strings}

	network, err := p.client.Network(ctx)
	switch {
	case err == nil:
		env.Network = network
	case errors.Is(err, sdk.ErrNetworkUnavailable):
	default:
		p.log.Warn("network snapshot failed", "error", err)
		env.NetworkErr = err
	}

	wallet, err := p.client.Wallet(ctx)
	if err != nil {
		p.log.Warn("wallet snapshot failed", "error", err)
		env.WalletErr = err
	} else {
		env.Wallet = wallet
	}

	return env
}
