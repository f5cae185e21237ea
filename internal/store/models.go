package store

import "time"

const (
	GameStatusPending   = "pending"
	GameStatusOngoing   = "ongoing"
	GameStatusFinished  = "finished"
	GameStatusCancelled = "cancelled"
)

type VaultAccount struct {
	Address   string    `json:"address"`
	Balance   int64     `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LedgerEntry struct {
	ID        string    `json:"id"`
	Address   string    `json:"address"`
	Type      string    `json:"type"`
	Amount    int64     `json:"amount"`
	RefType   string    `json:"ref_type"`
	RefID     string    `json:"ref_id"`
	CreatedAt time.Time `json:"created_at"`
}

// GameRecord is the durable mirror of a game's lifecycle. The live
// round protocol runs in memory; the record is updated on every
// transition so restarts and reporting see the last committed shape.
type GameRecord struct {
	ID               uint64    `json:"game_id"`
	EntryFee         int64     `json:"entry_fee"`
	MaxPlayers       int       `json:"max_players"`
	Status           string    `json:"status"`
	CurrentRound     int       `json:"current_round"`
	PlayersCount     int       `json:"players_count"`
	Pool             int64     `json:"pool"`
	PrizeDistributed bool      `json:"prize_distributed"`
	Players          []string  `json:"players"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type PlayerStats struct {
	Address     string `json:"address"`
	GamesPlayed int64  `json:"games_played"`
	GamesWon    int64  `json:"games_won"`
}

type ReferralRecord struct {
	Address       string   `json:"address"`
	Code          string   `json:"code"`
	Referred      []string `json:"referred"`
	PendingMedals int64    `json:"pending_medals"`
}

type SocialLinks struct {
	Gmail   bool `json:"gmail"`
	X       bool `json:"x"`
	Discord bool `json:"discord"`
}

// Count of linked providers, one input of the activity score.
func (s SocialLinks) Count() int {
	n := 0
	if s.Gmail {
		n++
	}
	if s.X {
		n++
	}
	if s.Discord {
		n++
	}
	return n
}

// ChainStats is the cached read-only snapshot of a player's on-chain
// record, refreshed by the sync worker.
type ChainStats struct {
	Address     string    `json:"address"`
	GamesPlayed int64     `json:"games_played"`
	GamesWon    int64     `json:"games_won"`
	Medals      int64     `json:"medals"`
	SyncedAt    time.Time `json:"synced_at"`
}
