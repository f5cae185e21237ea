package store

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryDebitInsufficient(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, err := m.Credit(ctx, "0xaa", 100, "deposit", "vault", ""); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if _, err := m.Debit(ctx, "0xaa", 150, "withdraw", "vault", ""); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	bal, err := m.VaultBalance(ctx, "0xaa")
	if err != nil || bal != 100 {
		t.Fatalf("balance = %d err=%v, want 100", bal, err)
	}
	if _, err := m.Debit(ctx, "0xmissing", 1, "withdraw", "vault", ""); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("debit on unknown vault: got %v", err)
	}
}

func TestMemoryLedgerFilterAndOrder(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, _ = m.Credit(ctx, "0xaa", 10, "deposit", "vault", "")
	_, _ = m.Debit(ctx, "0xaa", 5, "join_debit", "game", "0")
	_, _ = m.Credit(ctx, "0xbb", 7, "deposit", "vault", "")

	all, err := m.ListLedgerEntries(ctx, LedgerFilter{}, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("entries = %d, want 3", len(all))
	}
	if all[0].Address != "0xbb" {
		t.Fatalf("expected newest first, got %+v", all[0])
	}

	mine, err := m.ListLedgerEntries(ctx, LedgerFilter{Address: "0xaa", RefID: "0"}, 10, 0)
	if err != nil || len(mine) != 1 || mine[0].Amount != -5 {
		t.Fatalf("filtered entries = %+v err=%v", mine, err)
	}
}

func TestMemoryAddReferralOncePerReferrer(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.AddReferral(ctx, "0xref", "0xnew", 20, 10); err != nil {
		t.Fatalf("first referral: %v", err)
	}
	if err := m.AddReferral(ctx, "0xref", "0xnew", 20, 10); !errors.Is(err, ErrAlreadyReferred) {
		t.Fatalf("expected ErrAlreadyReferred, got %v", err)
	}
	// a different referrer may still refer the same address
	if err := m.AddReferral(ctx, "0xother", "0xnew", 20, 10); err != nil {
		t.Fatalf("second referrer: %v", err)
	}

	rec, err := m.GetReferral(ctx, "0xref")
	if err != nil {
		t.Fatalf("get referral: %v", err)
	}
	if rec.PendingMedals != 20 || len(rec.Referred) != 1 {
		t.Fatalf("referrer record = %+v", rec)
	}
	newRec, _ := m.GetReferral(ctx, "0xnew")
	if newRec.PendingMedals != 20 {
		t.Fatalf("referee pending = %d, want 20 after two referrals", newRec.PendingMedals)
	}
}

func TestMemoryClaimPendingMedalsResets(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_ = m.CreditPendingMedals(ctx, "0xaa", 30)
	got, err := m.ClaimPendingMedals(ctx, "0xaa")
	if err != nil || got != 30 {
		t.Fatalf("claim = %d err=%v, want 30", got, err)
	}
	again, err := m.ClaimPendingMedals(ctx, "0xaa")
	if err != nil || again != 0 {
		t.Fatalf("second claim = %d err=%v, want 0", again, err)
	}
}

func TestMemorySetSocialTogglesAndRegistersPlayer(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	s, err := m.SetSocial(ctx, "0xaa", "discord", true)
	if err != nil || !s.Discord {
		t.Fatalf("link discord: %+v err=%v", s, err)
	}
	s, err = m.SetSocial(ctx, "0xaa", "discord", false)
	if err != nil || s.Discord {
		t.Fatalf("unlink discord: %+v err=%v", s, err)
	}
	if _, err := m.SetSocial(ctx, "0xaa", "myspace", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown provider: got %v", err)
	}
	players, _ := m.ListPlayers(ctx)
	if len(players) != 1 || players[0] != "0xaa" {
		t.Fatalf("players = %v", players)
	}
}

func TestMemoryGameRecordRoundtrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	rec := GameRecord{ID: 0, EntryFee: 10, MaxPlayers: 4, Status: GameStatusPending, Players: []string{"0xaa"}}
	if err := m.UpsertGame(ctx, rec); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	rec.Status = GameStatusOngoing
	rec.CurrentRound = 1
	if err := m.UpsertGame(ctx, rec); err != nil {
		t.Fatalf("upsert update: %v", err)
	}
	got, err := m.GetGame(ctx, 0)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != GameStatusOngoing || got.CurrentRound != 1 {
		t.Fatalf("game = %+v", got)
	}
	if _, err := m.GetGame(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing game: got %v", err)
	}
}
