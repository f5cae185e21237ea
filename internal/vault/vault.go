package vault

import (
	"context"
	"errors"
	"strconv"

	"mastermind-arena/internal/store"
)

var (
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrInsufficientFunds = store.ErrInsufficientFunds
)

// Vault is the escrow ledger: every mutation goes through the store so
// it lands with an audit entry. Pool transfers are only reachable from
// the game coordinator, never from the facade directly.
type Vault struct {
	Store store.Store
}

func New(st store.Store) *Vault {
	return &Vault{Store: st}
}

func (v *Vault) Deposit(ctx context.Context, addr string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return v.Store.Credit(ctx, addr, amount, "deposit", "vault", "")
}

func (v *Vault) Withdraw(ctx context.Context, addr string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return v.Store.Debit(ctx, addr, amount, "withdraw", "vault", "")
}

// Balance treats an address that never deposited as holding zero.
func (v *Vault) Balance(ctx context.Context, addr string) (int64, error) {
	bal, err := v.Store.VaultBalance(ctx, addr)
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	return bal, err
}

func (v *Vault) TransferToPool(ctx context.Context, addr string, gameID uint64, amount int64) (int64, error) {
	if amount == 0 {
		return v.Balance(ctx, addr)
	}
	return v.Store.Debit(ctx, addr, amount, "join_debit", "game", gameRef(gameID))
}

func (v *Vault) RefundFromPool(ctx context.Context, addr string, gameID uint64, amount int64) (int64, error) {
	if amount == 0 {
		return v.Balance(ctx, addr)
	}
	return v.Store.Credit(ctx, addr, amount, "refund_credit", "game", gameRef(gameID))
}

func (v *Vault) CreditFromPool(ctx context.Context, addr string, gameID uint64, amount int64) (int64, error) {
	if amount == 0 {
		return v.Balance(ctx, addr)
	}
	return v.Store.Credit(ctx, addr, amount, "payout_credit", "game", gameRef(gameID))
}

// CreditRake books the platform fee into the operator's vault.
func (v *Vault) CreditRake(ctx context.Context, operator string, gameID uint64, amount int64) (int64, error) {
	if amount == 0 {
		return v.Balance(ctx, operator)
	}
	return v.Store.Credit(ctx, operator, amount, "rake", "game", gameRef(gameID))
}

func gameRef(id uint64) string {
	return strconv.FormatUint(id, 10)
}
