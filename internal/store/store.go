package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("not_found")
	ErrInsufficientFunds = errors.New("insufficient_funds")
	ErrAlreadyReferred   = errors.New("already_referred")
)

type LedgerFilter struct {
	Address string
	RefID   string
	From    *time.Time
	To      *time.Time
}

// Store is the persistence boundary for everything the engine keeps
// durable: vault balances with their audit trail, game records, the
// known-player registry, the referral/medal economy, social links and
// the chain-stats cache. Round-in-progress state (commitments, reveals,
// deadlines) lives in the coordinator and is intentionally not here.
//
// Mutating methods are atomic with respect to each other; multi-row
// operations (Debit, AddReferral, ClaimPendingMedals) either fully
// apply or leave no trace.
type Store interface {
	EnsureVault(ctx context.Context, addr string) error
	VaultBalance(ctx context.Context, addr string) (int64, error)
	Credit(ctx context.Context, addr string, amount int64, entryType, refType, refID string) (int64, error)
	Debit(ctx context.Context, addr string, amount int64, entryType, refType, refID string) (int64, error)
	ListLedgerEntries(ctx context.Context, f LedgerFilter, limit, offset int) ([]LedgerEntry, error)

	UpsertGame(ctx context.Context, g GameRecord) error
	GetGame(ctx context.Context, id uint64) (*GameRecord, error)
	ListGames(ctx context.Context, limit, offset int) ([]GameRecord, error)

	RegisterPlayer(ctx context.Context, addr string) error
	ListPlayers(ctx context.Context) ([]string, error)
	PlayerStats(ctx context.Context, addr string) (PlayerStats, error)
	BumpGamesPlayed(ctx context.Context, addr string) error
	BumpGamesWon(ctx context.Context, addr string) error

	SetReferralCode(ctx context.Context, addr, code string) (string, error)
	GetReferral(ctx context.Context, addr string) (ReferralRecord, error)
	FindReferrerByCode(ctx context.Context, code string) (string, error)
	AddReferral(ctx context.Context, referrer, referee string, referrerBonus, refereeBonus int64) error
	CreditPendingMedals(ctx context.Context, addr string, amount int64) error
	ClaimPendingMedals(ctx context.Context, addr string) (int64, error)

	Socials(ctx context.Context, addr string) (SocialLinks, error)
	SetSocial(ctx context.Context, addr, provider string, linked bool) (SocialLinks, error)

	PutChainStats(ctx context.Context, cs ChainStats) error
	ChainStats(ctx context.Context, addr string) (*ChainStats, error)

	Ping(ctx context.Context) error
	Close() error
}

// New picks the backing from the DSN: Postgres when one is given,
// otherwise the in-memory store.
func New(dsn string) (Store, error) {
	if dsn == "" {
		return NewMemory(), nil
	}
	return NewPostgres(dsn)
}
