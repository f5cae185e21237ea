package arena

import (
	"sync"
	"time"

	"mastermind-arena/internal/game"
	"mastermind-arena/internal/store"
)

const (
	phaseNone          = ""
	phaseCommitOpen    = "commit_open"
	phaseRevealOpen    = "reveal_open"
	phaseAwaitFinalize = "await_finalize"
)

// gameRuntime holds the live state of one tournament. Everything in it
// is guarded by its own mutex; window deadlines are plain fields swept
// by the janitor, and cancelling a window means zeroing its deadline
// under the lock.
type gameRuntime struct {
	mu sync.Mutex

	id         uint64
	entryFee   int64
	maxPlayers int

	status           string
	phase            string
	currentRound     uint8
	pool             int64
	prizeDistributed bool

	players []string // join order
	active  map[string]bool
	commits map[string]string    // current round only
	reveals map[string]game.Move // current round only

	commitDeadline   time.Time
	revealDeadline   time.Time
	finalizeDeadline time.Time
}

func (rt *gameRuntime) activePlayersLocked() []string {
	out := make([]string, 0, len(rt.players))
	for _, p := range rt.players {
		if rt.active[p] {
			out = append(out, p)
		}
	}
	return out
}

func (rt *gameRuntime) recordLocked() store.GameRecord {
	return store.GameRecord{
		ID:               rt.id,
		EntryFee:         rt.entryFee,
		MaxPlayers:       rt.maxPlayers,
		Status:           rt.status,
		CurrentRound:     int(rt.currentRound),
		PlayersCount:     len(rt.players),
		Pool:             rt.pool,
		PrizeDistributed: rt.prizeDistributed,
		Players:          append([]string(nil), rt.players...),
	}
}

// GameSnapshot is the read-only view handed to the facade.
type GameSnapshot struct {
	ID               uint64   `json:"game_id"`
	EntryFee         int64    `json:"entry_fee"`
	MaxPlayers       int      `json:"max_players"`
	Status           string   `json:"status"`
	Phase            string   `json:"phase,omitempty"`
	CurrentRound     uint8    `json:"current_round"`
	PlayersCount     int      `json:"players_count"`
	Pool             int64    `json:"pool"`
	PrizeDistributed bool     `json:"prize_distributed"`
	Players          []string `json:"players"`
	ActivePlayers    []string `json:"active_players"`
	CommittedCount   int      `json:"committed_count"`
	RevealedCount    int      `json:"revealed_count"`
	CommitDeadline   int64    `json:"commit_deadline_ts,omitempty"`
	RevealDeadline   int64    `json:"reveal_deadline_ts,omitempty"`
}

func (rt *gameRuntime) snapshotLocked() GameSnapshot {
	snap := GameSnapshot{
		ID:               rt.id,
		EntryFee:         rt.entryFee,
		MaxPlayers:       rt.maxPlayers,
		Status:           rt.status,
		Phase:            rt.phase,
		CurrentRound:     rt.currentRound,
		PlayersCount:     len(rt.players),
		Pool:             rt.pool,
		PrizeDistributed: rt.prizeDistributed,
		Players:          append([]string(nil), rt.players...),
		ActivePlayers:    rt.activePlayersLocked(),
		CommittedCount:   len(rt.commits),
		RevealedCount:    len(rt.reveals),
	}
	if !rt.commitDeadline.IsZero() {
		snap.CommitDeadline = rt.commitDeadline.UnixMilli()
	}
	if !rt.revealDeadline.IsZero() {
		snap.RevealDeadline = rt.revealDeadline.UnixMilli()
	}
	return snap
}
