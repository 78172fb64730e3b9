package memory

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giwa/sdk-probe/internal/domain"
	"giwa/sdk-probe/internal/sdk"
)

func TestNetworkMissing(t *testing.T) {
	s := New(Options{})
	_, err := s.Network(context.Background())
	assert.True(t, errors.Is(err, sdk.ErrNetworkUnavailable))
}

func TestNetworkReturnsCopy(t *testing.T) {
	s := New(Options{Network: DefaultNetwork()})
	n, err := s.Network(context.Background())
	require.NoError(t, err)
	n.Features[domain.FeatureGiwaID] = true

	again, err := s.Network(context.Background())
	require.NoError(t, err)
	assert.False(t, again.Features.Available(domain.FeatureGiwaID))
}

func TestCreateWalletPopulatesSecrets(t *testing.T) {
	ctx := context.Background()
	s := New(Options{Network: DefaultNetwork()})

	state, err := s.Wallet(ctx)
	require.NoError(t, err)
	assert.False(t, state.HasWallet)

	created, err := s.CreateWallet(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.Address, "0x"))
	assert.Len(t, created.Address, 42)
	assert.Len(t, strings.Fields(created.Mnemonic), 12)

	state, err = s.Wallet(ctx)
	require.NoError(t, err)
	assert.True(t, state.HasWallet)
	assert.Equal(t, created.Address, state.Address)

	pk, err := s.ExportPrivateKey(ctx)
	require.NoError(t, err)
	assert.Len(t, pk, 66)
}

func TestImportedWalletHasNoMnemonic(t *testing.T) {
	s := New(Options{Address: "0xabc"})
	m, err := s.ExportMnemonic(context.Background())
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestRefetchPublishesPendingBalance(t *testing.T) {
	ctx := context.Background()
	s := New(Options{Address: "0xabc", Balance: "1.5"})

	b, _ := s.FormattedBalance(ctx)
	assert.Empty(t, b)

	require.NoError(t, s.RefetchBalance(ctx))
	b, _ = s.FormattedBalance(ctx)
	assert.Equal(t, "1.5", b)
	assert.Equal(t, 1, s.Refetches())
}
