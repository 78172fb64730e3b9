// Package memory is an in-process wallet SDK used for dry runs and tests.
// It holds no real keys; addresses and secrets are random hex.
package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"sync"

	"giwa/sdk-probe/internal/domain"
	"giwa/sdk-probe/internal/sdk"
)

var wordlist = []string{
	"abandon", "ability", "able", "about", "above", "absent",
	"absorb", "abstract", "absurd", "abuse", "access", "accident",
	"account", "accuse", "achieve", "acid", "acoustic", "acquire",
}

// Options seeds the simulator state.
type Options struct {
	// Network is nil to simulate a missing network config.
	Network *domain.Network
	// Address pre-creates a wallet.
	Address string
	// Mnemonic of the pre-created wallet; empty means imported by key.
	Mnemonic   string
	PrivateKey string
	Balance    string
	FaucetURL  string
}

// DefaultNetwork is the GIWA Sepolia profile.
func DefaultNetwork() *domain.Network {
	return &domain.Network{
		Name:    "testnet",
		ChainID: 91342,
		Testnet: true,
		Ready:   true,
		Features: domain.Features{
			domain.FeatureBridge:      true,
			domain.FeatureFlashblocks: true,
			domain.FeatureGiwaID:      false,
			domain.FeatureDojang:      true,
			domain.FeatureFaucet:      true,
			domain.FeatureTokens:      true,
		},
	}
}

// SDK is safe for concurrent use.
type SDK struct {
	mu sync.Mutex

	network    *domain.Network
	address    string
	mnemonic   string
	privateKey string
	balance    string
	pending    string
	faucetURL  string

	flashblocks bool
	toggles     []bool
	refetches   int
}

var _ sdk.Client = (*SDK)(nil)

func New(opts Options) *SDK {
	s := &SDK{
		network:    opts.Network,
		address:    opts.Address,
		mnemonic:   opts.Mnemonic,
		privateKey: opts.PrivateKey,
		pending:    opts.Balance,
		faucetURL:  opts.FaucetURL,
	}
	if s.address != "" && s.privateKey == "" {
		s.privateKey = randomHex(32)
	}
	return s
}

func (s *SDK) Network(ctx context.Context) (*domain.Network, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.network == nil {
		return nil, sdk.ErrNetworkUnavailable
	}
	n := *s.network
	n.Features = make(domain.Features, len(s.network.Features))
	for f, ok := range s.network.Features {
		n.Features[f] = ok
	}
	return &n, nil
}

func (s *SDK) Wallet(ctx context.Context) (domain.WalletState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.WalletState{HasWallet: s.address != "", Address: s.address}, nil
}

func (s *SDK) CreateWallet(ctx context.Context) (domain.CreatedWallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	words := make([]string, 12)
	for i := range words {
		b := make([]byte, 1)
		_, _ = rand.Read(b)
		words[i] = wordlist[int(b[0])%len(wordlist)]
	}
	s.address = randomHex(20)
	s.mnemonic = strings.Join(words, " ")
	s.privateKey = randomHex(32)
	if s.pending == "" {
		s.pending = "0.0"
	}

	return domain.CreatedWallet{Address: s.address, Mnemonic: s.mnemonic}, nil
}

func (s *SDK) ExportMnemonic(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mnemonic, nil
}

func (s *SDK) ExportPrivateKey(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.privateKey, nil
}

// RefetchBalance publishes the pending balance, the way a refetch replaces
// the cached formatted value.
func (s *SDK) RefetchBalance(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refetches++
	s.balance = s.pending
	return nil
}

func (s *SDK) FormattedBalance(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance, nil
}

func (s *SDK) SetFlashblocksEnabled(ctx context.Context, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flashblocks = enabled
	s.toggles = append(s.toggles, enabled)
	return nil
}

func (s *SDK) FaucetURL(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faucetURL, nil
}

// FlashblocksToggles returns every value passed to SetFlashblocksEnabled.
func (s *SDK) FlashblocksToggles() []bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]bool, len(s.toggles))
	copy(out, s.toggles)
	return out
}

func (s *SDK) Refetches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refetches
}

// SetPendingBalance changes the value the next refetch will expose.
func (s *SDK) SetPendingBalance(balance string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = balance
}

func randomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return "0x" + hex.EncodeToString(b)
}
