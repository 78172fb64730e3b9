package plan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"giwa/sdk-probe/internal/domain"
)

func (p *Plan) build(opts Options) []Probe {
	s := p.strings

	probes := []Probe{
		{Name: s.TestNetworkInfo, Check: checkNetworkInfo},
		{Name: s.TestWalletCreate, Check: checkWalletCreate},
		{Name: s.TestExportMnemonic, Skip: needsWallet, Check: withWallet(checkExportMnemonic)},
		{Name: s.TestExportPrivateKey, Skip: needsWallet, Check: withWallet(checkExportPrivateKey)},
		{Name: s.TestBalanceQuery, Skip: needsWallet, Check: withWallet(checkBalance)},
	}

	if opts.Variant == VariantExtended {
		probes = append(probes, Probe{
			Name:  s.TestTokenManager,
			Check: featureCheck(domain.FeatureTokens, func(e Env) string { return e.Strings.TokenManagerReady }),
		})
	}

	probes = append(probes,
		Probe{Name: s.TestBridgeAvailable, Check: featureCheck(domain.FeatureBridge, func(e Env) string { return e.Strings.Bridge })},
		Probe{Name: s.TestFlashblocks, Check: flashblocksCheck(opts.FlashblocksWait)},
		Probe{Name: s.TestGiwaIDAvailable, Check: featureCheck(domain.FeatureGiwaID, func(e Env) string { return e.Strings.GiwaID })},
		Probe{Name: s.TestDojangAvailable, Check: featureCheck(domain.FeatureDojang, func(e Env) string { return e.Strings.Dojang })},
		Probe{Name: s.TestFaucetAvailable, Check: checkFaucet},
		Probe{Name: s.TestFeatureSummary, Check: checkFeatureSummary},
	)

	return probes
}

// needsWallet skips when the SDK reports no wallet. An unreadable wallet
// state is not a skip; the check runs and reports the read error.
func needsWallet(env Env) (bool, string) {
	if env.Wallet.HasWallet || env.WalletErr != nil {
		return false, ""
	}
	return true, env.Strings.NoWallet
}

type checkFunc func(context.Context, Env) (string, error)

func withWallet(next checkFunc) checkFunc {
	return func(ctx context.Context, env Env) (string, error) {
		if env.WalletErr != nil {
			return "", env.WalletErr
		}
		return next(ctx, env)
	}
}

func withNetwork(next checkFunc) checkFunc {
	return func(ctx context.Context, env Env) (string, error) {
		if env.NetworkErr != nil {
			return "", env.NetworkErr
		}
		return next(ctx, env)
	}
}

func checkNetworkInfo(ctx context.Context, env Env) (string, error) {
	if env.NetworkErr != nil {
		return "", env.NetworkErr
	}
	if env.Network == nil {
		return "", errors.New(env.Strings.NetworkConfigUnavailable)
	}
	return fmt.Sprintf("%s (%s: %d)", env.Network.Name, env.Strings.ChainID, env.Network.ChainID), nil
}

func checkWalletCreate(ctx context.Context, env Env) (string, error) {
	if env.WalletErr != nil {
		return "", env.WalletErr
	}
	if env.Wallet.HasWallet {
		return env.Strings.WalletExists, nil
	}

	created, err := env.SDK.CreateWallet(ctx)
	if err != nil {
		return "", err
	}
	if created.Address == "" {
		return "", errors.New(env.Strings.NoAddress)
	}
	return fmt.Sprintf("%s: %s...", env.Strings.Created, head(created.Address, 10)), nil
}

func checkExportMnemonic(ctx context.Context, env Env) (string, error) {
	mnemonic, err := env.SDK.ExportMnemonic(ctx)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(mnemonic) == "" {
		return env.Strings.NoMnemonic, nil
	}
	return fmt.Sprintf("%d%s", len(strings.Fields(mnemonic)), env.Strings.Words), nil
}

func checkExportPrivateKey(ctx context.Context, env Env) (string, error) {
	pk, err := env.SDK.ExportPrivateKey(ctx)
	if err != nil {
		return "", err
	}
	if pk == "" {
		return "", errors.New(env.Strings.ExportFailed)
	}
	return fmt.Sprintf("%s...%s", head(pk, 10), tail(pk, 6)), nil
}

func checkBalance(ctx context.Context, env Env) (string, error) {
	if err := env.SDK.RefetchBalance(ctx); err != nil {
		return "", err
	}
	balance, err := env.SDK.FormattedBalance(ctx)
	if err != nil {
		return "", err
	}
	if balance == "" {
		balance = "0"
	}
	return balance + " ETH", nil
}

// featureCheck passes with the not-available message when f is off.
func featureCheck(f domain.Feature, available func(Env) string) checkFunc {
	return withNetwork(func(ctx context.Context, env Env) (string, error) {
		if !env.Feature(f) {
			return env.Strings.NotAvailableOnNetwork, nil
		}
		return available(env), nil
	})
}

func flashblocksCheck(wait time.Duration) checkFunc {
	return withNetwork(func(ctx context.Context, env Env) (string, error) {
		if !env.Feature(domain.FeatureFlashblocks) {
			return env.Strings.NotAvailableOnNetwork, nil
		}

		if err := env.SDK.SetFlashblocksEnabled(ctx, true); err != nil {
			return "", fmt.Errorf("enable flashblocks: %w", err)
		}

		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			_ = env.SDK.SetFlashblocksEnabled(context.WithoutCancel(ctx), false)
			return "", ctx.Err()
		}

		if err := env.SDK.SetFlashblocksEnabled(ctx, false); err != nil {
			return "", fmt.Errorf("disable flashblocks: %w", err)
		}
		return env.Strings.ToggleWorking, nil
	})
}

func checkFaucet(ctx context.Context, env Env) (string, error) {
	if env.NetworkErr != nil {
		return "", env.NetworkErr
	}
	if env.Network != nil && !env.Network.Testnet {
		return env.Strings.MainnetFaucetUnavailable, nil
	}
	if !env.Feature(domain.FeatureFaucet) {
		return env.Strings.NotAvailableOnNetwork, nil
	}

	url, err := env.SDK.FaucetURL(ctx)
	if err != nil {
		return "", err
	}
	if url == "" {
		return "", errors.New(env.Strings.FaucetURLUnavailable)
	}
	return fmt.Sprintf("URL: %s...", head(url, 30)), nil
}

func checkFeatureSummary(ctx context.Context, env Env) (string, error) {
	if env.NetworkErr != nil {
		return "", env.NetworkErr
	}
	features := domain.AllFeatures()
	available := 0
	if env.Network != nil {
		available = env.Network.Features.CountAvailable(features...)
	}
	return fmt.Sprintf("%d/%d%s", available, len(features), env.Strings.FeaturesAvailable), nil
}

func head(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func tail(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
