package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trovashop/storeapi/internal/domain"
	"github.com/trovashop/storeapi/internal/repository"
	"github.com/trovashop/storeapi/pkg/money"
)

// WalletService maintains the append-only balance ledger. Writes for the
// same user are serialized with a per-user mutex so concurrent credits
// (a cancel racing a return approval) cannot both read the same prior
// balance and lose an update.
type WalletService struct {
	repos  *repository.Repositories
	logger *zap.Logger

	mu    sync.Mutex
	users map[uuid.UUID]*sync.Mutex
}

// NewWalletService creates the wallet ledger service
func NewWalletService(repos *repository.Repositories, logger *zap.Logger) *WalletService {
	return &WalletService{
		repos:  repos,
		logger: logger,
		users:  make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *WalletService) userLock(userID uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.users[userID]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.users[userID] = l
	return l
}

// Credit appends a ledger entry for the user. The new entry's balance is
// the latest entry's balance plus amount, or amount itself for a first
// entry. Amount is always additive; no flow in this system debits.
func (s *WalletService) Credit(ctx context.Context, userID uuid.UUID, orderID *uuid.UUID, entryType domain.WalletEntryType, amount float64) (*domain.WalletEntry, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	latest, err := s.repos.Wallet.LatestByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var prior float64
	if latest != nil {
		prior = latest.Balance
	}

	entry := &domain.WalletEntry{
		ID:        uuid.New(),
		UserID:    userID,
		OrderID:   orderID,
		Type:      entryType,
		Amount:    amount,
		Balance:   money.Round2(prior + amount),
		CreatedAt: time.Now(),
	}
	if err := s.repos.Wallet.Append(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("Wallet credited",
		zap.String("user_id", userID.String()),
		zap.String("type", string(entryType)),
		zap.Float64("amount", amount),
		zap.Float64("balance", entry.Balance),
	)
	return entry, nil
}

// Details returns the user's current balance and full history, newest
// first. A user with no entries has balance 0, not an error.
func (s *WalletService) Details(ctx context.Context, userID uuid.UUID) (*WalletDetails, error) {
	entries, err := s.repos.Wallet.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	details := &WalletDetails{
		Transactions:      make([]WalletEntry, 0, len(entries)),
		TotalTransactions: len(entries),
	}
	if len(entries) > 0 {
		details.CurrentBalance = entries[0].Balance
	}
	for _, e := range entries {
		details.Transactions = append(details.Transactions, WalletEntry{
			ID:        e.ID,
			Type:      string(e.Type),
			Amount:    e.Amount,
			Balance:   e.Balance,
			OrderID:   e.OrderID,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		})
	}
	return details, nil
}
