// Package sdk defines the wallet SDK capabilities the probe plan relies on.
// Implementations live in internal/backend (HTTP gateway) and
// internal/sdk/memory (in-process simulator).
package sdk

import (
	"context"
	"errors"

	"giwa/sdk-probe/internal/domain"
)

// ErrNetworkUnavailable is returned when the SDK has no network config.
var ErrNetworkUnavailable = errors.New("network config not available")

// Client is the whole SDK surface used by the probes.
type Client interface {
	Network(ctx context.Context) (*domain.Network, error)
	Wallet(ctx context.Context) (domain.WalletState, error)
	CreateWallet(ctx context.Context) (domain.CreatedWallet, error)
	// ExportMnemonic returns "" for wallets imported by private key.
	ExportMnemonic(ctx context.Context) (string, error)
	ExportPrivateKey(ctx context.Context) (string, error)
	RefetchBalance(ctx context.Context) error
	FormattedBalance(ctx context.Context) (string, error)
	SetFlashblocksEnabled(ctx context.Context, enabled bool) error
	FaucetURL(ctx context.Context) (string, error)
}
