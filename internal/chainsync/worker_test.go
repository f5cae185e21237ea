package chainsync

import (
	"context"
	"testing"

	"mastermind-arena/internal/chain"
	"mastermind-arena/internal/store"
)

type fakeReader struct {
	medals map[string]int64
	stats  map[string]chain.PlayerView
	fail   map[string]bool
}

func (f *fakeReader) LatestGameID(context.Context) (uint64, error) { return 0, chain.ErrUnavailable }

func (f *fakeReader) GameSnapshot(context.Context, uint64) (chain.GameView, error) {
	return chain.GameView{}, chain.ErrUnavailable
}

func (f *fakeReader) PlayerStats(_ context.Context, addr string) (chain.PlayerView, error) {
	if f.fail[addr] {
		return chain.PlayerView{}, chain.ErrUnavailable
	}
	return f.stats[addr], nil
}

func (f *fakeReader) MedalBalance(_ context.Context, addr string) (int64, error) {
	if f.fail[addr] {
		return 0, chain.ErrUnavailable
	}
	return f.medals[addr], nil
}

func TestSyncOnceCachesPerPlayer(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	for _, a := range []string{"0xaa", "0xbb"} {
		if err := st.RegisterPlayer(ctx, a); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	reader := &fakeReader{
		medals: map[string]int64{"0xaa": 350, "0xbb": 20},
		stats: map[string]chain.PlayerView{
			"0xaa": {GamesPlayed: 12, GamesWon: 4},
			"0xbb": {GamesPlayed: 2},
		},
	}

	NewWorker(reader, st).SyncOnce(ctx)

	got, err := st.ChainStats(ctx, "0xaa")
	if err != nil {
		t.Fatalf("chain stats: %v", err)
	}
	if got.Medals != 350 || got.GamesPlayed != 12 || got.GamesWon != 4 {
		t.Fatalf("cached stats = %+v", got)
	}
	if got.SyncedAt.IsZero() {
		t.Fatal("synced_at not set")
	}
}

func TestSyncOnceSkipsFailingPlayer(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	for _, a := range []string{"0xaa", "0xbb"} {
		if err := st.RegisterPlayer(ctx, a); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	reader := &fakeReader{
		medals: map[string]int64{"0xbb": 50},
		stats:  map[string]chain.PlayerView{"0xbb": {GamesPlayed: 1}},
		fail:   map[string]bool{"0xaa": true},
	}

	NewWorker(reader, st).SyncOnce(ctx)

	if _, err := st.ChainStats(ctx, "0xaa"); err == nil {
		t.Fatal("failing player should have no cached row")
	}
	got, err := st.ChainStats(ctx, "0xbb")
	if err != nil {
		t.Fatalf("chain stats: %v", err)
	}
	if got.Medals != 50 {
		t.Fatalf("medals = %d, want 50", got.Medals)
	}
}
