package arena

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"math/big"
	"strings"
	"sync"
	"time"

	"mastermind-arena/internal/game"
	"mastermind-arena/internal/store"
	"mastermind-arena/internal/vault"

	"github.com/rs/zerolog/log"
)

const defaultSweepInterval = 500 * time.Millisecond

type Config struct {
	AdminKey        string
	OperatorAddress string
	PlatformFeeBps  int
	CommitWindow    time.Duration
	RevealWindow    time.Duration
	FinalizeGrace   time.Duration
}

func (c Config) withDefaults() Config {
	if c.CommitWindow <= 0 {
		c.CommitWindow = 15 * time.Second
	}
	if c.RevealWindow <= 0 {
		c.RevealWindow = 15 * time.Second
	}
	if c.FinalizeGrace <= 0 {
		c.FinalizeGrace = 30 * time.Second
	}
	if c.PlatformFeeBps < 0 {
		c.PlatformFeeBps = 0
	}
	return c
}

// Coordinator runs the tournament engine: the game registry, the
// commit-reveal round machine, elimination and prize distribution.
// Games live in memory while in flight; every lifecycle transition is
// mirrored to the store's game record.
type Coordinator struct {
	store store.Store
	vault *vault.Vault
	cfg   Config

	mu     sync.Mutex
	games  map[uint64]*gameRuntime
	nextID uint64
}

func NewCoordinator(st store.Store, v *vault.Vault, cfg Config) *Coordinator {
	return &Coordinator{
		store: st,
		vault: v,
		cfg:   cfg.withDefaults(),
		games: map[uint64]*gameRuntime{},
	}
}

// Restore advances the id sequence past any persisted games so a
// restarted process never reissues an id. In-flight round state is not
// recovered; unfinished games stay as their last persisted record.
func (c *Coordinator) Restore(ctx context.Context) error {
	recs, err := c.store.ListGames(ctx, 1, 0)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range recs {
		if r.ID >= c.nextID {
			c.nextID = r.ID + 1
		}
	}
	return nil
}

// StartJanitor sweeps window deadlines until ctx is cancelled. Expiry
// work happens on the sweep goroutine; operations racing an expiry are
// serialized by the per-game lock.
func (c *Coordinator) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				c.sweepRoundTransitions(ctx, now)
			}
		}
	}()
}

func (c *Coordinator) sweepRoundTransitions(ctx context.Context, now time.Time) {
	c.mu.Lock()
	games := make([]*gameRuntime, 0, len(c.games))
	for _, rt := range c.games {
		games = append(games, rt)
	}
	c.mu.Unlock()

	for _, rt := range games {
		rt.mu.Lock()
		commitExpired := rt.phase == phaseCommitOpen && !rt.commitDeadline.IsZero() && now.After(rt.commitDeadline)
		revealExpired := rt.phase == phaseRevealOpen && !rt.revealDeadline.IsZero() && now.After(rt.revealDeadline)
		finalizeExpired := rt.phase == phaseAwaitFinalize && !rt.finalizeDeadline.IsZero() && now.After(rt.finalizeDeadline)
		rt.mu.Unlock()

		switch {
		case commitExpired:
			c.closeCommitWindow(ctx, rt)
		case revealExpired:
			c.closeRevealWindow(ctx, rt)
		case finalizeExpired:
			c.adjudicateOverdueRound(ctx, rt)
		}
	}
}

func (c *Coordinator) closeCommitWindow(ctx context.Context, rt *gameRuntime) {
	rt.mu.Lock()
	if rt.phase != phaseCommitOpen {
		rt.mu.Unlock()
		return
	}
	rt.phase = phaseRevealOpen
	rt.commitDeadline = time.Time{}
	rt.revealDeadline = time.Now().Add(c.cfg.RevealWindow)
	id, round := rt.id, rt.currentRound
	committed := len(rt.commits)
	rt.mu.Unlock()

	log.Info().Uint64("game_id", id).Uint8("round", round).Int("committed", committed).Msg("commit window closed")
}

// closeRevealWindow substitutes a uniformly random move for every
// player who committed but never revealed, then arms the finalize
// grace window.
func (c *Coordinator) closeRevealWindow(ctx context.Context, rt *gameRuntime) {
	rt.mu.Lock()
	if rt.phase != phaseRevealOpen {
		rt.mu.Unlock()
		return
	}
	autoRevealed := 0
	for addr := range rt.commits {
		if _, ok := rt.reveals[addr]; ok {
			continue
		}
		rt.reveals[addr] = randomMove()
		autoRevealed++
	}
	rt.phase = phaseAwaitFinalize
	rt.revealDeadline = time.Time{}
	rt.finalizeDeadline = time.Now().Add(c.cfg.FinalizeGrace)
	id, round := rt.id, rt.currentRound
	rt.mu.Unlock()

	if autoRevealed > 0 {
		log.Info().Uint64("game_id", id).Uint8("round", round).Int("auto_revealed", autoRevealed).Msg("reveal window closed with substitutions")
	}
}

// adjudicateOverdueRound self-finalizes a round whose adjudicator never
// showed up, pairing the active players over the revealed moves.
func (c *Coordinator) adjudicateOverdueRound(ctx context.Context, rt *gameRuntime) {
	rt.mu.Lock()
	if rt.phase != phaseAwaitFinalize {
		rt.mu.Unlock()
		return
	}
	active := rt.activePlayersLocked()
	lucky := ""
	if len(active)%2 == 1 {
		lucky = pickLucky(active)
	}
	outcome := game.AdjudicateRound(active, rt.reveals, lucky)
	rec := c.applyOutcomeLocked(rt, outcome)
	id, round := rt.id, rt.currentRound
	rt.mu.Unlock()

	log.Info().Uint64("game_id", id).Uint8("round", round).Int("eliminated", len(outcome.Eliminated)).Msg("round self-adjudicated after finalize grace")
	c.persist(ctx, rec)
}

// applyOutcomeLocked flips eliminated players inactive and either ends
// the game or opens the next round's commit window. A zero-survivor
// outcome replays with everyone still active rather than finishing a
// game nobody won.
func (c *Coordinator) applyOutcomeLocked(rt *gameRuntime, outcome game.RoundOutcome) store.GameRecord {
	if len(outcome.Survivors) > 0 {
		for _, addr := range outcome.Eliminated {
			rt.active[addr] = false
		}
	}
	rt.commits = map[string]string{}
	rt.reveals = map[string]game.Move{}
	rt.commitDeadline = time.Time{}
	rt.revealDeadline = time.Time{}
	rt.finalizeDeadline = time.Time{}

	if remaining := rt.activePlayersLocked(); len(remaining) == 1 {
		rt.status = store.GameStatusFinished
		rt.phase = phaseNone
	} else {
		rt.currentRound++
		rt.phase = phaseCommitOpen
		rt.commitDeadline = time.Now().Add(c.cfg.CommitWindow)
	}
	return rt.recordLocked()
}

func (c *Coordinator) persist(ctx context.Context, rec store.GameRecord) {
	if err := c.store.UpsertGame(ctx, rec); err != nil {
		log.Error().Err(err).Uint64("game_id", rec.ID).Msg("persist game record failed")
	}
}

func (c *Coordinator) checkAdmin(token string) error {
	if c.cfg.AdminKey == "" {
		return ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(c.cfg.AdminKey)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

func (c *Coordinator) runtime(id uint64) (*gameRuntime, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rt := c.games[id]
	if rt == nil {
		return nil, ErrGameNotFound
	}
	return rt, nil
}

func normalizeAddress(addr string) (string, error) {
	addr = strings.ToLower(strings.TrimSpace(addr))
	if addr == "" {
		return "", ErrInvalidRequest
	}
	return addr, nil
}

// randomMove draws uniformly from the three moves, seeded by the OS
// and independent of any player input.
func randomMove() game.Move {
	n, err := rand.Int(rand.Reader, big.NewInt(3))
	if err != nil {
		return game.MoveRock
	}
	return game.Move(n.Int64() + 1)
}

// pickLucky selects the bye for an odd round, uniformly at random.
func pickLucky(active []string) string {
	if len(active) == 0 {
		return ""
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(active))))
	if err != nil {
		return active[0]
	}
	return active[n.Int64()]
}
