package arena

import (
	"context"
	"errors"
	"testing"
	"time"

	"mastermind-arena/internal/game"
	"mastermind-arena/internal/store"
	"mastermind-arena/internal/vault"
)

const (
	testAdminKey = "test-admin-key"
	testOperator = "0x00000000000000000000000000000000000000fe"
	alice        = "0xaaaa000000000000000000000000000000000001"
	bob          = "0xbbbb000000000000000000000000000000000002"
	carol        = "0xcccc000000000000000000000000000000000003"
	dave         = "0xdddd000000000000000000000000000000000004"
)

func newTestCoordinator(t *testing.T) (*Coordinator, *store.Memory, *vault.Vault) {
	t.Helper()
	st := store.NewMemory()
	v := vault.New(st)
	c := NewCoordinator(st, v, Config{
		AdminKey:        testAdminKey,
		OperatorAddress: testOperator,
		PlatformFeeBps:  500,
	})
	return c, st, v
}

func fund(t *testing.T, v *vault.Vault, addrs ...string) {
	t.Helper()
	for _, a := range addrs {
		if _, err := v.Deposit(context.Background(), a, 1000); err != nil {
			t.Fatalf("deposit %s: %v", a, err)
		}
	}
}

func mustCreate(t *testing.T, c *Coordinator, entryFee int64, maxPlayers int) uint64 {
	t.Helper()
	snap, err := c.CreateGame(context.Background(), testAdminKey, entryFee, maxPlayers)
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	return snap.ID
}

func mustJoin(t *testing.T, c *Coordinator, id uint64, addrs ...string) {
	t.Helper()
	for _, a := range addrs {
		if _, err := c.JoinGame(context.Background(), id, a); err != nil {
			t.Fatalf("join %s: %v", a, err)
		}
	}
}

func TestFullTwoPlayerTournament(t *testing.T) {
	ctx := context.Background()
	c, _, v := newTestCoordinator(t)
	fund(t, v, alice, bob)

	id := mustCreate(t, c, 10, 2)
	if id != 0 {
		t.Fatalf("first game id = %d, want 0", id)
	}
	mustJoin(t, c, id, alice, bob)

	snap, err := c.Game(ctx, id)
	if err != nil {
		t.Fatalf("game: %v", err)
	}
	if snap.Status != store.GameStatusOngoing || snap.CurrentRound != 1 || snap.Phase != phaseCommitOpen {
		t.Fatalf("after fill: status=%s round=%d phase=%s", snap.Status, snap.CurrentRound, snap.Phase)
	}
	if snap.Pool != 20 {
		t.Fatalf("pool = %d, want 20", snap.Pool)
	}
	if bal, _ := v.Balance(ctx, alice); bal != 990 {
		t.Fatalf("alice balance after join = %d, want 990", bal)
	}

	// alice plays paper, bob plays rock
	ca := game.CommitmentHash(game.MovePaper, "salt-a", id, 1)
	cb := game.CommitmentHash(game.MoveRock, "salt-b", id, 1)
	if _, err := c.CommitMove(ctx, id, alice, ca); err != nil {
		t.Fatalf("alice commit: %v", err)
	}
	snap, err = c.CommitMove(ctx, id, bob, cb)
	if err != nil {
		t.Fatalf("bob commit: %v", err)
	}
	if snap.Phase != phaseRevealOpen {
		t.Fatalf("after all commits phase = %s, want %s", snap.Phase, phaseRevealOpen)
	}

	if _, err := c.RevealMove(ctx, id, alice, uint8(game.MovePaper), "salt-a"); err != nil {
		t.Fatalf("alice reveal: %v", err)
	}
	snap, err = c.RevealMove(ctx, id, bob, uint8(game.MoveRock), "salt-b")
	if err != nil {
		t.Fatalf("bob reveal: %v", err)
	}
	if snap.Phase != phaseAwaitFinalize {
		t.Fatalf("after all reveals phase = %s, want %s", snap.Phase, phaseAwaitFinalize)
	}

	snap, err = c.FinalizeRound(ctx, testAdminKey, id, []string{alice}, nil, "")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if snap.Status != store.GameStatusFinished {
		t.Fatalf("status after finalize = %s, want finished", snap.Status)
	}

	snap, err = c.DistributePrize(ctx, testAdminKey, id, []string{alice})
	if err != nil {
		t.Fatalf("distribute: %v", err)
	}
	if !snap.PrizeDistributed || snap.Pool != 0 {
		t.Fatalf("after distribute: distributed=%v pool=%d", snap.PrizeDistributed, snap.Pool)
	}
	// 5% fee on 20 is 1, single winner takes the rest
	if bal, _ := v.Balance(ctx, alice); bal != 990+19 {
		t.Fatalf("alice balance after payout = %d, want 1009", bal)
	}
	if bal, _ := v.Balance(ctx, testOperator); bal != 1 {
		t.Fatalf("operator rake = %d, want 1", bal)
	}

	ref, err := c.store.GetReferral(ctx, alice)
	if err != nil {
		t.Fatalf("referral record: %v", err)
	}
	if ref.PendingMedals != 100 {
		t.Fatalf("winner pending medals = %d, want 100", ref.PendingMedals)
	}
	stats, err := c.store.PlayerStats(ctx, alice)
	if err != nil {
		t.Fatalf("player stats: %v", err)
	}
	if stats.GamesPlayed != 1 || stats.GamesWon != 1 {
		t.Fatalf("alice stats = %+v, want played 1 won 1", stats)
	}

	if _, err := c.DistributePrize(ctx, testAdminKey, id, []string{alice}); !errors.Is(err, ErrAlreadyDistributed) {
		t.Fatalf("second distribute err = %v, want ErrAlreadyDistributed", err)
	}
}

func TestJoinValidation(t *testing.T) {
	ctx := context.Background()
	c, _, v := newTestCoordinator(t)
	fund(t, v, alice, bob, carol)

	id := mustCreate(t, c, 10, 2)

	// broke player is rejected and not seated
	if _, err := c.JoinGame(ctx, id, dave); !errors.Is(err, store.ErrInsufficientFunds) {
		t.Fatalf("broke join err = %v, want insufficient funds", err)
	}
	snap, _ := c.Game(ctx, id)
	if snap.PlayersCount != 0 {
		t.Fatalf("players after failed join = %d, want 0", snap.PlayersCount)
	}

	mustJoin(t, c, id, alice)
	if _, err := c.JoinGame(ctx, id, alice); !errors.Is(err, ErrAlreadyJoined) {
		t.Fatalf("rejoin err = %v, want ErrAlreadyJoined", err)
	}
	mustJoin(t, c, id, bob)
	if _, err := c.JoinGame(ctx, id, carol); !errors.Is(err, ErrGameNotJoinable) {
		t.Fatalf("join full/ongoing err = %v, want ErrGameNotJoinable", err)
	}
	if _, err := c.JoinGame(ctx, 999, carol); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("join missing game err = %v, want ErrGameNotFound", err)
	}
}

func TestCommitAndRevealRejections(t *testing.T) {
	ctx := context.Background()
	c, _, v := newTestCoordinator(t)
	fund(t, v, alice, bob)

	id := mustCreate(t, c, 5, 2)

	ca := game.CommitmentHash(game.MoveRock, "s", id, 1)
	if _, err := c.CommitMove(ctx, id, alice, ca); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("commit before start err = %v, want ErrWrongPhase", err)
	}

	mustJoin(t, c, id, alice, bob)

	if _, err := c.CommitMove(ctx, id, carol, ca); !errors.Is(err, ErrNotActivePlayer) {
		t.Fatalf("outsider commit err = %v, want ErrNotActivePlayer", err)
	}
	if _, err := c.CommitMove(ctx, id, alice, "nothex"); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("malformed commitment err = %v, want ErrInvalidRequest", err)
	}
	if _, err := c.CommitMove(ctx, id, alice, ca); err != nil {
		t.Fatalf("alice commit: %v", err)
	}
	if _, err := c.CommitMove(ctx, id, alice, ca); !errors.Is(err, ErrAlreadyCommitted) {
		t.Fatalf("double commit err = %v, want ErrAlreadyCommitted", err)
	}
	if _, err := c.RevealMove(ctx, id, alice, uint8(game.MoveRock), "s"); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("reveal in commit phase err = %v, want ErrWrongPhase", err)
	}

	cb := game.CommitmentHash(game.MoveScissors, "t", id, 1)
	if _, err := c.CommitMove(ctx, id, bob, cb); err != nil {
		t.Fatalf("bob commit: %v", err)
	}

	if _, err := c.RevealMove(ctx, id, alice, uint8(game.MovePaper), "s"); !errors.Is(err, ErrInvalidReveal) {
		t.Fatalf("wrong move reveal err = %v, want ErrInvalidReveal", err)
	}
	if _, err := c.RevealMove(ctx, id, alice, uint8(game.MoveRock), "wrong-salt"); !errors.Is(err, ErrInvalidReveal) {
		t.Fatalf("wrong salt reveal err = %v, want ErrInvalidReveal", err)
	}
	if _, err := c.RevealMove(ctx, id, alice, 9, "s"); !errors.Is(err, ErrInvalidReveal) {
		t.Fatalf("bad move value err = %v, want ErrInvalidReveal", err)
	}
	if _, err := c.RevealMove(ctx, id, alice, uint8(game.MoveRock), "s"); err != nil {
		t.Fatalf("alice reveal: %v", err)
	}
	if _, err := c.RevealMove(ctx, id, alice, uint8(game.MoveRock), "s"); !errors.Is(err, ErrAlreadyRevealed) {
		t.Fatalf("double reveal err = %v, want ErrAlreadyRevealed", err)
	}
}

func TestWindowExpirySweeps(t *testing.T) {
	ctx := context.Background()
	c, _, v := newTestCoordinator(t)
	fund(t, v, alice, bob)

	id := mustCreate(t, c, 0, 2)
	mustJoin(t, c, id, alice, bob)

	// only alice commits; bob lets the window lapse
	ca := game.CommitmentHash(game.MoveRock, "s", id, 1)
	if _, err := c.CommitMove(ctx, id, alice, ca); err != nil {
		t.Fatalf("commit: %v", err)
	}

	c.sweepRoundTransitions(ctx, time.Now().Add(time.Hour))
	snap, _ := c.Game(ctx, id)
	if snap.Phase != phaseRevealOpen {
		t.Fatalf("after commit expiry phase = %s, want %s", snap.Phase, phaseRevealOpen)
	}

	// alice never reveals either; the sweep substitutes a random move
	// for her commitment, bob has nothing to substitute
	c.sweepRoundTransitions(ctx, time.Now().Add(2*time.Hour))
	snap, _ = c.Game(ctx, id)
	if snap.Phase != phaseAwaitFinalize {
		t.Fatalf("after reveal expiry phase = %s, want %s", snap.Phase, phaseAwaitFinalize)
	}
	if snap.RevealedCount != 1 {
		t.Fatalf("revealed after substitution = %d, want 1", snap.RevealedCount)
	}

	// nobody finalizes; self-adjudication runs. A revealed move beats
	// an unrevealed one, so alice takes the game.
	c.sweepRoundTransitions(ctx, time.Now().Add(3*time.Hour))
	snap, _ = c.Game(ctx, id)
	if snap.Status != store.GameStatusFinished {
		t.Fatalf("after self-adjudication status = %s, want finished", snap.Status)
	}
	if len(snap.ActivePlayers) != 1 || snap.ActivePlayers[0] != alice {
		t.Fatalf("survivor = %v, want [alice]", snap.ActivePlayers)
	}
}

func TestFourPlayerEliminationAndSplit(t *testing.T) {
	ctx := context.Background()
	c, _, v := newTestCoordinator(t)
	fund(t, v, alice, bob, carol, dave)

	id := mustCreate(t, c, 25, 4)
	mustJoin(t, c, id, alice, bob, carol, dave)

	snap, _ := c.Game(ctx, id)
	if snap.Pool != 100 {
		t.Fatalf("pool = %d, want 100", snap.Pool)
	}

	playRound := func(round uint8, moves map[string]game.Move) {
		t.Helper()
		for addr, m := range moves {
			h := game.CommitmentHash(m, "salt-"+addr, id, round)
			if _, err := c.CommitMove(ctx, id, addr, h); err != nil {
				t.Fatalf("round %d commit %s: %v", round, addr, err)
			}
		}
		for addr, m := range moves {
			if _, err := c.RevealMove(ctx, id, addr, uint8(m), "salt-"+addr); err != nil {
				t.Fatalf("round %d reveal %s: %v", round, addr, err)
			}
		}
	}

	// round 1: alice and carol advance
	playRound(1, map[string]game.Move{
		alice: game.MovePaper, bob: game.MoveRock,
		carol: game.MoveScissors, dave: game.MovePaper,
	})
	snap, err := c.FinalizeRound(ctx, testAdminKey, id, []string{alice}, []string{carol}, "")
	if err != nil {
		t.Fatalf("finalize round 1: %v", err)
	}
	if snap.Status != store.GameStatusOngoing || snap.CurrentRound != 2 {
		t.Fatalf("after round 1: status=%s round=%d", snap.Status, snap.CurrentRound)
	}
	if len(snap.ActivePlayers) != 2 {
		t.Fatalf("active after round 1 = %v, want 2 players", snap.ActivePlayers)
	}

	// naming an eliminated player as survivor is rejected
	playRound(2, map[string]game.Move{alice: game.MoveRock, carol: game.MoveScissors})
	if _, err := c.FinalizeRound(ctx, testAdminKey, id, []string{bob}, nil, ""); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("finalize with eliminated survivor err = %v, want ErrInvalidRequest", err)
	}

	snap, err = c.FinalizeRound(ctx, testAdminKey, id, []string{alice}, nil, "")
	if err != nil {
		t.Fatalf("finalize round 2: %v", err)
	}
	if snap.Status != store.GameStatusFinished {
		t.Fatalf("status = %s, want finished", snap.Status)
	}

	// ranked split over 100: fee 5, then 50/25/15 weights over three
	// placed winners normalized to the 95 remainder
	if _, err := c.DistributePrize(ctx, testAdminKey, id, []string{alice, carol, bob}); err != nil {
		t.Fatalf("distribute: %v", err)
	}
	balA, _ := v.Balance(ctx, alice)
	balC, _ := v.Balance(ctx, carol)
	balB, _ := v.Balance(ctx, bob)
	paidA, paidC, paidB := balA-975, balC-975, balB-975
	if paidA <= paidC || paidC <= paidB || paidB <= 0 {
		t.Fatalf("payouts not descending: %d %d %d", paidA, paidC, paidB)
	}
	rake, _ := v.Balance(ctx, testOperator)
	if paidA+paidC+paidB+rake != 100 {
		t.Fatalf("pool leak: %d+%d+%d+%d != 100", paidA, paidC, paidB, rake)
	}
}

func TestTieReplaysRound(t *testing.T) {
	ctx := context.Background()
	c, _, v := newTestCoordinator(t)
	fund(t, v, alice, bob)

	id := mustCreate(t, c, 0, 2)
	mustJoin(t, c, id, alice, bob)

	for _, p := range []struct{ addr, salt string }{{alice, "a"}, {bob, "b"}} {
		h := game.CommitmentHash(game.MoveRock, p.salt, id, 1)
		if _, err := c.CommitMove(ctx, id, p.addr, h); err != nil {
			t.Fatalf("commit %s: %v", p.addr, err)
		}
	}
	for _, p := range []struct{ addr, salt string }{{alice, "a"}, {bob, "b"}} {
		if _, err := c.RevealMove(ctx, id, p.addr, uint8(game.MoveRock), p.salt); err != nil {
			t.Fatalf("reveal %s: %v", p.addr, err)
		}
	}

	snap, err := c.FinalizeRound(ctx, testAdminKey, id, []string{alice, bob}, nil, "")
	if err != nil {
		t.Fatalf("finalize tie: %v", err)
	}
	if snap.Status != store.GameStatusOngoing || snap.CurrentRound != 2 || snap.Phase != phaseCommitOpen {
		t.Fatalf("tie replay: status=%s round=%d phase=%s", snap.Status, snap.CurrentRound, snap.Phase)
	}
	if snap.CommittedCount != 0 || snap.RevealedCount != 0 {
		t.Fatalf("round state not reset: commits=%d reveals=%d", snap.CommittedCount, snap.RevealedCount)
	}

	// a round-1 commitment cannot be replayed into round 2
	h1 := game.CommitmentHash(game.MoveRock, "a", id, 1)
	if _, err := c.CommitMove(ctx, id, alice, h1); err != nil {
		t.Fatalf("commit stale hash: %v", err)
	}
	if _, err := c.CommitMove(ctx, id, bob, game.CommitmentHash(game.MoveRock, "b", id, 2)); err != nil {
		t.Fatalf("bob round 2 commit: %v", err)
	}
	if _, err := c.RevealMove(ctx, id, alice, uint8(game.MoveRock), "a"); !errors.Is(err, ErrInvalidReveal) {
		t.Fatalf("stale commitment reveal err = %v, want ErrInvalidReveal", err)
	}
}

func TestCancelRefundsPendingGame(t *testing.T) {
	ctx := context.Background()
	c, _, v := newTestCoordinator(t)
	fund(t, v, alice, bob)

	id := mustCreate(t, c, 40, 3)
	mustJoin(t, c, id, alice, bob)

	snap, err := c.CancelGame(ctx, testAdminKey, id)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if snap.Status != store.GameStatusCancelled || snap.Pool != 0 {
		t.Fatalf("after cancel: status=%s pool=%d", snap.Status, snap.Pool)
	}
	for _, a := range []string{alice, bob} {
		if bal, _ := v.Balance(ctx, a); bal != 1000 {
			t.Fatalf("%s balance after refund = %d, want 1000", a, bal)
		}
	}
	if _, err := c.JoinGame(ctx, id, carol); !errors.Is(err, ErrGameNotJoinable) {
		t.Fatalf("join cancelled err = %v, want ErrGameNotJoinable", err)
	}
	if _, err := c.CancelGame(ctx, testAdminKey, id); !errors.Is(err, ErrGameNotCancellable) {
		t.Fatalf("cancel twice err = %v, want ErrGameNotCancellable", err)
	}
}

func TestAdminTokenRequired(t *testing.T) {
	ctx := context.Background()
	c, _, v := newTestCoordinator(t)
	fund(t, v, alice, bob)

	if _, err := c.CreateGame(ctx, "wrong", 10, 2); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("create err = %v, want ErrUnauthorized", err)
	}
	id := mustCreate(t, c, 10, 2)
	if _, err := c.CancelGame(ctx, "", id); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("cancel err = %v, want ErrUnauthorized", err)
	}
	if _, err := c.FinalizeRound(ctx, "wrong", id, []string{alice}, nil, ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("finalize err = %v, want ErrUnauthorized", err)
	}
	if _, err := c.DistributePrize(ctx, "wrong", id, []string{alice}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("distribute err = %v, want ErrUnauthorized", err)
	}
}

func TestDistributeValidation(t *testing.T) {
	ctx := context.Background()
	c, _, v := newTestCoordinator(t)
	fund(t, v, alice, bob)

	id := mustCreate(t, c, 10, 2)
	mustJoin(t, c, id, alice, bob)

	if _, err := c.DistributePrize(ctx, testAdminKey, id, []string{alice}); !errors.Is(err, ErrGameNotFinished) {
		t.Fatalf("distribute ongoing err = %v, want ErrGameNotFinished", err)
	}

	h := game.CommitmentHash(game.MovePaper, "a", id, 1)
	if _, err := c.CommitMove(ctx, id, alice, h); err != nil {
		t.Fatalf("commit: %v", err)
	}
	hb := game.CommitmentHash(game.MoveRock, "b", id, 1)
	if _, err := c.CommitMove(ctx, id, bob, hb); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if _, err := c.RevealMove(ctx, id, alice, uint8(game.MovePaper), "a"); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if _, err := c.RevealMove(ctx, id, bob, uint8(game.MoveRock), "b"); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if _, err := c.FinalizeRound(ctx, testAdminKey, id, []string{alice}, nil, ""); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if _, err := c.DistributePrize(ctx, testAdminKey, id, []string{carol}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("non-player winner err = %v, want ErrInvalidRequest", err)
	}
	if _, err := c.DistributePrize(ctx, testAdminKey, id, []string{alice, alice}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("duplicate winner err = %v, want ErrInvalidRequest", err)
	}
	if _, err := c.DistributePrize(ctx, testAdminKey, id, nil); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("empty winners err = %v, want ErrInvalidRequest", err)
	}
}

func TestRestoreAdvancesIDSequence(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	v := vault.New(st)
	if err := st.UpsertGame(ctx, store.GameRecord{ID: 7, Status: store.GameStatusFinished, MaxPlayers: 2}); err != nil {
		t.Fatalf("seed game: %v", err)
	}

	c := NewCoordinator(st, v, Config{AdminKey: testAdminKey})
	if err := c.Restore(ctx); err != nil {
		t.Fatalf("restore: %v", err)
	}
	snap, err := c.CreateGame(ctx, testAdminKey, 0, 2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if snap.ID != 8 {
		t.Fatalf("next id after restore = %d, want 8", snap.ID)
	}
}
