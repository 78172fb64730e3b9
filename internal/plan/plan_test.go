package plan

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giwa/sdk-probe/internal/domain"
	"giwa/sdk-probe/internal/i18n"
	"giwa/sdk-probe/internal/ledger"
	"giwa/sdk-probe/internal/runner"
	"giwa/sdk-probe/internal/sdk"
	"giwa/sdk-probe/internal/sdk/memory"
)

var en = i18n.For(i18n.English)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func execute(t *testing.T, client sdk.Client, strs i18n.Strings, opts Options) (*Plan, *ledger.Ledger) {
	t.Helper()
	l := ledger.New()
	r := runner.New(l, quietLogger(), runner.Config{SkipReason: strs.Skip})
	p := New(client, strs, quietLogger(), opts)
	p.Execute(context.Background(), r)
	assert.Empty(t, r.Current())
	return p, l
}

func outcome(t *testing.T, l *ledger.Ledger, name string) domain.Outcome {
	t.Helper()
	o, ok := l.Get(name)
	require.Truef(t, ok, "no outcome for %q", name)
	return o
}

func networkWith(enabled ...domain.Feature) *domain.Network {
	n := &domain.Network{Name: "testnet", ChainID: 91342, Testnet: true, Ready: true, Features: domain.Features{}}
	for _, f := range domain.AllFeatures() {
		n.Features[f] = false
	}
	for _, f := range enabled {
		n.Features[f] = true
	}
	return n
}

// emptyKeySDK returns an empty private key export.
type emptyKeySDK struct{ *memory.SDK }

func (emptyKeySDK) ExportPrivateKey(context.Context) (string, error) { return "", nil }

// failingCreateSDK cannot create wallets.
type failingCreateSDK struct{ *memory.SDK }

func (failingCreateSDK) CreateWallet(context.Context) (domain.CreatedWallet, error) {
	return domain.CreatedWallet{}, errors.New("keystore locked")
}

func TestFullRunFromEmptyWallet(t *testing.T) {
	client := memory.New(memory.Options{
		Network:   memory.DefaultNetwork(),
		Balance:   "1.25",
		FaucetURL: "https://faucet.giwa.io/?address=0x1234567890",
	})
	p, l := execute(t, client, en, Options{})

	got := l.Outcomes()
	probes := p.Probes()
	require.Len(t, got, len(probes))
	require.Len(t, got, 11)
	for i, probe := range probes {
		assert.Equal(t, probe.Name, got[i].Name)
		assert.True(t, got[i].Status.Settled(), got[i].Name)
	}

	assert.Equal(t, "testnet (Chain ID: 91342)", outcome(t, l, en.TestNetworkInfo).Message)

	create := outcome(t, l, en.TestWalletCreate)
	assert.Equal(t, domain.StatusPass, create.Status)
	assert.True(t, strings.HasPrefix(create.Message, "Created: 0x"), create.Message)
	assert.True(t, strings.HasSuffix(create.Message, "..."))

	mnemonic := outcome(t, l, en.TestExportMnemonic)
	assert.Equal(t, domain.StatusPass, mnemonic.Status)
	assert.Equal(t, "12 words", mnemonic.Message)

	pk := outcome(t, l, en.TestExportPrivateKey)
	assert.Equal(t, domain.StatusPass, pk.Status)
	assert.Len(t, pk.Message, 10+3+6)

	balance := outcome(t, l, en.TestBalanceQuery)
	assert.Equal(t, "1.25 ETH", balance.Message)
	assert.Equal(t, 1, client.Refetches())

	assert.Equal(t, "Bridge available", outcome(t, l, en.TestBridgeAvailable).Message)
	assert.Equal(t, "Toggle working", outcome(t, l, en.TestFlashblocks).Message)
	assert.Equal(t, []bool{true, false}, client.FlashblocksToggles())
	assert.Equal(t, en.NotAvailableOnNetwork, outcome(t, l, en.TestGiwaIDAvailable).Message)
	assert.Equal(t, "URL: https://faucet.giwa.io/?addres...", outcome(t, l, en.TestFaucetAvailable).Message)
	assert.Equal(t, "5/6 features available", outcome(t, l, en.TestFeatureSummary).Message)

	assert.Equal(t, domain.Counts{Pass: 11, Total: 11}, l.Counts())
}

func TestFlashblocksTakesAtLeastTheWait(t *testing.T) {
	client := memory.New(memory.Options{Network: networkWith(domain.FeatureFlashblocks)})
	_, l := execute(t, client, en, Options{})

	elapsed, ok := outcome(t, l, en.TestFlashblocks).Elapsed()
	require.True(t, ok)
	assert.GreaterOrEqual(t, elapsed, DefaultFlashblocksWait)
}

func TestUnavailableFeaturesPass(t *testing.T) {
	client := memory.New(memory.Options{Network: networkWith()})
	_, l := execute(t, client, en, Options{Variant: VariantExtended})

	for _, name := range []string{
		en.TestBridgeAvailable,
		en.TestFlashblocks,
		en.TestGiwaIDAvailable,
		en.TestDojangAvailable,
		en.TestFaucetAvailable,
		en.TestTokenManager,
	} {
		o := outcome(t, l, name)
		assert.Equal(t, domain.StatusPass, o.Status, name)
		assert.Equal(t, "Not available on this network", o.Message, name)
	}
	assert.Empty(t, client.FlashblocksToggles())
}

func TestFeatureSummaryCountsAvailable(t *testing.T) {
	client := memory.New(memory.Options{
		Network: networkWith(domain.FeatureBridge, domain.FeatureDojang, domain.FeatureTokens),
	})
	_, l := execute(t, client, en, Options{})

	assert.Equal(t, "3/6 features available", outcome(t, l, en.TestFeatureSummary).Message)
}

func TestEmptyPrivateKeyFails(t *testing.T) {
	client := emptyKeySDK{memory.New(memory.Options{Network: networkWith(), Address: "0xabc", Mnemonic: "a b c"})}
	_, l := execute(t, client, en, Options{})

	o := outcome(t, l, en.TestExportPrivateKey)
	assert.Equal(t, domain.StatusFail, o.Status)
	assert.Equal(t, "Failed to export", o.Message)
	assert.NotNil(t, o.Duration)
}

func TestExistingImportedWallet(t *testing.T) {
	client := memory.New(memory.Options{Network: networkWith(), Address: "0x00000000000000000000000000000000000000aa"})
	_, l := execute(t, client, en, Options{})

	assert.Equal(t, "Wallet already exists", outcome(t, l, en.TestWalletCreate).Message)
	mnemonic := outcome(t, l, en.TestExportMnemonic)
	assert.Equal(t, domain.StatusPass, mnemonic.Status)
	assert.Equal(t, en.NoMnemonic, mnemonic.Message)
	assert.Equal(t, "0 ETH", outcome(t, l, en.TestBalanceQuery).Message)
}

func TestWalletProbesSkipWithoutWallet(t *testing.T) {
	client := failingCreateSDK{memory.New(memory.Options{Network: networkWith()})}
	p, l := execute(t, client, en, Options{})

	create := outcome(t, l, en.TestWalletCreate)
	assert.Equal(t, domain.StatusFail, create.Status)
	assert.Equal(t, "keystore locked", create.Message)

	for _, name := range []string{en.TestExportMnemonic, en.TestExportPrivateKey, en.TestBalanceQuery} {
		o := outcome(t, l, name)
		assert.Equal(t, domain.StatusSkip, o.Status, name)
		assert.Equal(t, "No wallet", o.Message, name)
		assert.Nil(t, o.Duration, name)
	}
	assert.Equal(t, len(p.Probes()), l.Len())
}

func TestMissingNetworkConfig(t *testing.T) {
	client := memory.New(memory.Options{})
	_, l := execute(t, client, en, Options{})

	network := outcome(t, l, en.TestNetworkInfo)
	assert.Equal(t, domain.StatusFail, network.Status)
	assert.Equal(t, "Network config not available", network.Message)
	faucet := outcome(t, l, en.TestFaucetAvailable)
	assert.Equal(t, domain.StatusPass, faucet.Status)
	assert.Equal(t, en.NotAvailableOnNetwork, faucet.Message)
	assert.Equal(t, "0/6 features available", outcome(t, l, en.TestFeatureSummary).Message)
}

func TestMainnetFaucet(t *testing.T) {
	n := networkWith(domain.FeatureFaucet)
	n.Name, n.Testnet = "mainnet", false
	_, l := execute(t, memory.New(memory.Options{Network: n}), en, Options{})

	assert.Equal(t, "Mainnet - faucet not available", outcome(t, l, en.TestFaucetAvailable).Message)
}

func TestTestnetFaucetWithoutURLFails(t *testing.T) {
	_, l := execute(t, memory.New(memory.Options{Network: networkWith(domain.FeatureFaucet)}), en, Options{})

	o := outcome(t, l, en.TestFaucetAvailable)
	assert.Equal(t, domain.StatusFail, o.Status)
	assert.Equal(t, en.FaucetURLUnavailable, o.Message)
}

func TestExtendedVariantOrder(t *testing.T) {
	p := New(memory.New(memory.Options{}), en, quietLogger(), Options{Variant: VariantExtended})

	var names []string
	for _, probe := range p.Probes() {
		names = append(names, probe.Name)
	}
	assert.Equal(t, []string{
		"Network Info",
		"Wallet Create",
		"Export Mnemonic",
		"Export Private Key",
		"Balance Query",
		"Token Manager",
		"Bridge Available",
		"Flashblocks",
		"GIWA ID Available",
		"Dojang Available",
		"Faucet Available",
		"Feature Summary",
	}, names)
}

func TestKoreanMessages(t *testing.T) {
	ko := i18n.For(i18n.Korean)
	client := memory.New(memory.Options{Network: networkWith(domain.FeatureBridge)})
	_, l := execute(t, client, ko, Options{})

	assert.Equal(t, "1/6개 기능 사용 가능", outcome(t, l, ko.TestFeatureSummary).Message)
	assert.Equal(t, "12개 단어", outcome(t, l, ko.TestExportMnemonic).Message)
}

func TestRepeatedExecuteKeepsOneOutcomePerProbe(t *testing.T) {
	client := memory.New(memory.Options{Network: networkWith()})
	l := ledger.New()
	r := runner.New(l, quietLogger(), runner.Config{})
	p := New(client, en, quietLogger(), Options{})

	p.Execute(context.Background(), r)
	p.Execute(context.Background(), r)

	assert.Equal(t, len(p.Probes()), l.Len())
	assert.Equal(t, "Wallet already exists", outcome(t, l, en.TestWalletCreate).Message)
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("")
	require.NoError(t, err)
	assert.Equal(t, VariantStandard, v)

	v, err = ParseVariant("extended")
	require.NoError(t, err)
	assert.Equal(t, VariantExtended, v)

	_, err = ParseVariant("full")
	assert.Error(t, err)
}

// unreachableSDK fails every read the way a gateway that refuses
// connections does.
type unreachableSDK struct{ *memory.SDK }

var errRefused = errors.New("dial tcp 127.0.0.1:8545: connect: connection refused")

func (unreachableSDK) Network(context.Context) (*domain.Network, error) { return nil, errRefused }

func (unreachableSDK) Wallet(context.Context) (domain.WalletState, error) {
	return domain.WalletState{}, errRefused
}

func (unreachableSDK) CreateWallet(context.Context) (domain.CreatedWallet, error) {
	return domain.CreatedWallet{}, errRefused
}

func (unreachableSDK) FaucetURL(context.Context) (string, error) { return "", errRefused }

func TestUnreachableSDKFailsEveryDependentCheck(t *testing.T) {
	client := unreachableSDK{memory.New(memory.Options{Network: memory.DefaultNetwork(), Address: "0xabc"})}
	p, l := execute(t, client, en, Options{Variant: VariantExtended})

	for _, o := range l.Outcomes() {
		assert.Equalf(t, domain.StatusFail, o.Status, "%s: %s", o.Name, o.Message)
		assert.Equalf(t, errRefused.Error(), o.Message, "%s", o.Name)
	}
	assert.Equal(t, len(p.Probes()), l.Len())
	assert.Zero(t, l.Counts().Pass)
	assert.Zero(t, l.Counts().Skip)
}

// flakyWalletSDK reads the network fine but cannot read wallet state.
type flakyWalletSDK struct{ *memory.SDK }

func (flakyWalletSDK) Wallet(context.Context) (domain.WalletState, error) {
	return domain.WalletState{}, errRefused
}

func TestWalletReadFailureIsNotASkip(t *testing.T) {
	client := flakyWalletSDK{memory.New(memory.Options{Network: memory.DefaultNetwork(), FaucetURL: "https://faucet.giwa.io/"})}
	_, l := execute(t, client, en, Options{})

	for _, name := range []string{en.TestWalletCreate, en.TestExportMnemonic, en.TestExportPrivateKey, en.TestBalanceQuery} {
		o := outcome(t, l, name)
		assert.Equal(t, domain.StatusFail, o.Status, name)
		assert.Equal(t, errRefused.Error(), o.Message, name)
	}
	assert.Equal(t, domain.StatusPass, outcome(t, l, en.TestNetworkInfo).Status)
	assert.Equal(t, domain.StatusPass, outcome(t, l, en.TestBridgeAvailable).Status)
	assert.Equal(t, "5/6 features available", outcome(t, l, en.TestFeatureSummary).Message)
}
