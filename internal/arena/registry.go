package arena

import (
	"context"
	"time"

	"mastermind-arena/internal/game"
	"mastermind-arena/internal/store"

	"github.com/rs/zerolog/log"
)

// CreateGame registers a new pending tournament. Admin only.
func (c *Coordinator) CreateGame(ctx context.Context, adminToken string, entryFee int64, maxPlayers int) (GameSnapshot, error) {
	if err := c.checkAdmin(adminToken); err != nil {
		return GameSnapshot{}, err
	}
	if entryFee < 0 || maxPlayers < 2 {
		return GameSnapshot{}, ErrInvalidRequest
	}

	c.mu.Lock()
	id := c.nextID
	c.nextID++
	rt := &gameRuntime{
		id:         id,
		entryFee:   entryFee,
		maxPlayers: maxPlayers,
		status:     store.GameStatusPending,
		active:     map[string]bool{},
		commits:    map[string]string{},
		reveals:    map[string]game.Move{},
	}
	c.games[id] = rt
	c.mu.Unlock()

	rt.mu.Lock()
	rec := rt.recordLocked()
	snap := rt.snapshotLocked()
	rt.mu.Unlock()

	log.Info().Uint64("game_id", id).Int64("entry_fee", entryFee).Int("max_players", maxPlayers).Msg("game created")
	c.persist(ctx, rec)
	return snap, nil
}

// JoinGame debits the entry fee into the pool and seats the player.
// When the table fills, round one's commit window opens immediately.
func (c *Coordinator) JoinGame(ctx context.Context, gameID uint64, addr string) (GameSnapshot, error) {
	addr, err := normalizeAddress(addr)
	if err != nil {
		return GameSnapshot{}, err
	}
	rt, err := c.runtime(gameID)
	if err != nil {
		return GameSnapshot{}, err
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.status != store.GameStatusPending {
		return GameSnapshot{}, ErrGameNotJoinable
	}
	if len(rt.players) >= rt.maxPlayers {
		return GameSnapshot{}, ErrGameFull
	}
	if rt.active[addr] {
		return GameSnapshot{}, ErrAlreadyJoined
	}

	// Debit under the game lock so a full table can never overshoot.
	if rt.entryFee > 0 {
		if _, err := c.vault.TransferToPool(ctx, addr, rt.id, rt.entryFee); err != nil {
			return GameSnapshot{}, err
		}
	}

	rt.players = append(rt.players, addr)
	rt.active[addr] = true
	rt.pool += rt.entryFee

	if err := c.store.RegisterPlayer(ctx, addr); err != nil {
		log.Error().Err(err).Str("address", addr).Msg("register player failed")
	}
	if err := c.store.BumpGamesPlayed(ctx, addr); err != nil {
		log.Error().Err(err).Str("address", addr).Msg("bump games played failed")
	}

	if len(rt.players) == rt.maxPlayers {
		rt.status = store.GameStatusOngoing
		rt.currentRound = 1
		rt.phase = phaseCommitOpen
		rt.commitDeadline = time.Now().Add(c.cfg.CommitWindow)
		log.Info().Uint64("game_id", rt.id).Int("players", len(rt.players)).Msg("game full, round 1 commit window open")
	}

	c.persist(ctx, rt.recordLocked())
	return rt.snapshotLocked(), nil
}

// CancelGame refunds every seated player and closes a pending game.
// Admin only; games past the pending state cannot be cancelled.
func (c *Coordinator) CancelGame(ctx context.Context, adminToken string, gameID uint64) (GameSnapshot, error) {
	if err := c.checkAdmin(adminToken); err != nil {
		return GameSnapshot{}, err
	}
	rt, err := c.runtime(gameID)
	if err != nil {
		return GameSnapshot{}, err
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.status != store.GameStatusPending {
		return GameSnapshot{}, ErrGameNotCancellable
	}
	if rt.entryFee > 0 {
		for _, addr := range rt.players {
			if _, err := c.vault.RefundFromPool(ctx, addr, rt.id, rt.entryFee); err != nil {
				log.Error().Err(err).Uint64("game_id", rt.id).Str("address", addr).Msg("refund failed")
			}
		}
	}
	rt.pool = 0
	rt.status = store.GameStatusCancelled
	rt.phase = phaseNone

	log.Info().Uint64("game_id", rt.id).Int("refunded", len(rt.players)).Msg("game cancelled")
	c.persist(ctx, rt.recordLocked())
	return rt.snapshotLocked(), nil
}

// Game returns a snapshot of one game. Falls back to the persisted
// record for games that predate this process.
func (c *Coordinator) Game(ctx context.Context, gameID uint64) (GameSnapshot, error) {
	rt, err := c.runtime(gameID)
	if err == nil {
		rt.mu.Lock()
		defer rt.mu.Unlock()
		return rt.snapshotLocked(), nil
	}
	rec, serr := c.store.GetGame(ctx, gameID)
	if serr != nil {
		return GameSnapshot{}, ErrGameNotFound
	}
	return snapshotFromRecord(*rec), nil
}

// Games lists snapshots newest-first, merging live runtimes over
// persisted records.
func (c *Coordinator) Games(ctx context.Context, limit, offset int) ([]GameSnapshot, error) {
	recs, err := c.store.ListGames(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]GameSnapshot, 0, len(recs))
	for _, rec := range recs {
		if rt, err := c.runtime(rec.ID); err == nil {
			rt.mu.Lock()
			out = append(out, rt.snapshotLocked())
			rt.mu.Unlock()
			continue
		}
		out = append(out, snapshotFromRecord(rec))
	}
	return out, nil
}

func snapshotFromRecord(rec store.GameRecord) GameSnapshot {
	return GameSnapshot{
		ID:               rec.ID,
		EntryFee:         rec.EntryFee,
		MaxPlayers:       rec.MaxPlayers,
		Status:           rec.Status,
		CurrentRound:     uint8(rec.CurrentRound),
		PlayersCount:     rec.PlayersCount,
		Pool:             rec.Pool,
		PrizeDistributed: rec.PrizeDistributed,
		Players:          append([]string(nil), rec.Players...),
		ActivePlayers:    []string{},
	}
}
