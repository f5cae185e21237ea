package chain

import (
	"context"
	"errors"
)

// ErrUnavailable marks any failure to reach the chain. Callers treat
// it as "no on-chain data right now" rather than a hard error.
var ErrUnavailable = errors.New("chain_unavailable")

// GameView is the on-chain shape of a tournament, read back for
// reconciliation against the engine's own records.
type GameView struct {
	ID           uint64
	EntryFee     int64
	MaxPlayers   int
	Status       uint8
	CurrentRound uint8
	PlayersCount int
	Pool         int64
}

// PlayerView is a player's on-chain lifetime counters.
type PlayerView struct {
	GamesPlayed int64
	GamesWon    int64
}

// Reader is the read-only view of the tournament contract. The engine
// never writes to the chain; it only reads medals and stats that
// settled there.
type Reader interface {
	LatestGameID(ctx context.Context) (uint64, error)
	GameSnapshot(ctx context.Context, id uint64) (GameView, error)
	PlayerStats(ctx context.Context, addr string) (PlayerView, error)
	MedalBalance(ctx context.Context, addr string) (int64, error)
}
