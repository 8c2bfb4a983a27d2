package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trovashop/storeapi/internal/domain"
)

func TestWalletCredit_BalanceChain(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	amounts := []float64{100, 250.50, 75}
	for _, amount := range amounts {
		_, err := env.svcs.Wallet.Credit(ctx, env.user.ID, nil, domain.WalletEntryAdded, amount)
		require.NoError(t, err)
	}

	details, err := env.svcs.Wallet.Details(ctx, env.user.ID)
	require.NoError(t, err)
	require.Equal(t, 3, details.TotalTransactions)
	assert.Equal(t, 425.50, details.CurrentBalance)

	// newest first; each balance is the previous balance plus the amount
	assert.Equal(t, 425.50, details.Transactions[0].Balance)
	assert.Equal(t, 350.50, details.Transactions[1].Balance)
	assert.Equal(t, 100.0, details.Transactions[2].Balance)
	assert.Equal(t, details.Transactions[2].Amount, details.Transactions[2].Balance)
}

func TestWalletCredit_ConcurrentWritesKeepChainIntact(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := env.svcs.Wallet.Credit(ctx, env.user.ID, nil, domain.WalletEntryAdded, 10)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	details, err := env.svcs.Wallet.Details(ctx, env.user.ID)
	require.NoError(t, err)
	require.Equal(t, workers, details.TotalTransactions)
	assert.Equal(t, float64(workers*10), details.CurrentBalance)

	// walk oldest to newest and re-derive every balance
	prior := 0.0
	for i := len(details.Transactions) - 1; i >= 0; i-- {
		e := details.Transactions[i]
		assert.Equal(t, prior+e.Amount, e.Balance)
		prior = e.Balance
	}
}

func TestWalletDetails_EmptyWallet(t *testing.T) {
	env := newTestEnv(t)

	details, err := env.svcs.Wallet.Details(context.Background(), env.user.ID)
	require.NoError(t, err)
	assert.Zero(t, details.CurrentBalance)
	assert.Empty(t, details.Transactions)
}

func TestWalletCredit_IndependentUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	other := env.store.AddUser(domain.User{FirstName: "Ravi", Email: "ravi@example.com"})

	_, err := env.svcs.Wallet.Credit(ctx, env.user.ID, nil, domain.WalletEntryAdded, 100)
	require.NoError(t, err)
	_, err = env.svcs.Wallet.Credit(ctx, other.ID, nil, domain.WalletEntryAdded, 40)
	require.NoError(t, err)

	mine, err := env.svcs.Wallet.Details(ctx, env.user.ID)
	require.NoError(t, err)
	theirs, err := env.svcs.Wallet.Details(ctx, other.ID)
	require.NoError(t, err)

	assert.Equal(t, 100.0, mine.CurrentBalance)
	assert.Equal(t, 40.0, theirs.CurrentBalance)
}
