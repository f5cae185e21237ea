package game

import "testing"

func TestAdjudicateSimplePair(t *testing.T) {
	out := AdjudicateRound([]string{"a", "b"}, map[string]Move{"a": MovePaper, "b": MoveRock}, "")
	if len(out.Survivors) != 1 || out.Survivors[0] != "a" {
		t.Fatalf("survivors = %v, want [a]", out.Survivors)
	}
	if len(out.Eliminated) != 1 || out.Eliminated[0] != "b" {
		t.Fatalf("eliminated = %v, want [b]", out.Eliminated)
	}
}

func TestAdjudicateTieAdvancesBoth(t *testing.T) {
	out := AdjudicateRound([]string{"a", "b"}, map[string]Move{"a": MoveRock, "b": MoveRock}, "")
	if len(out.Survivors) != 2 || len(out.Eliminated) != 0 {
		t.Fatalf("tie outcome = %+v, want both advancing", out)
	}
}

func TestAdjudicateForfeitLosesToRevealedMove(t *testing.T) {
	out := AdjudicateRound([]string{"a", "b"}, map[string]Move{"a": MoveScissors}, "")
	if len(out.Survivors) != 1 || out.Survivors[0] != "a" {
		t.Fatalf("survivors = %v, want [a]", out.Survivors)
	}
}

func TestAdjudicateNeitherRevealedEliminatesBoth(t *testing.T) {
	out := AdjudicateRound([]string{"a", "b"}, map[string]Move{}, "")
	if len(out.Survivors) != 0 || len(out.Eliminated) != 2 {
		t.Fatalf("outcome = %+v, want both eliminated", out)
	}
}

func TestAdjudicateLuckyByeSitsOut(t *testing.T) {
	moves := map[string]Move{"a": MoveRock, "b": MovePaper, "c": MoveScissors}
	out := AdjudicateRound([]string{"a", "b", "c"}, moves, "b")
	if out.Lucky != "b" {
		t.Fatalf("lucky = %q, want b", out.Lucky)
	}
	// b advances untouched; a vs c resolves rock beats scissors
	if len(out.Survivors) != 2 || out.Survivors[0] != "b" || out.Survivors[1] != "a" {
		t.Fatalf("survivors = %v, want [b a]", out.Survivors)
	}
	if len(out.Eliminated) != 1 || out.Eliminated[0] != "c" {
		t.Fatalf("eliminated = %v, want [c]", out.Eliminated)
	}
}

func TestAdjudicateOddPoolWithoutLuckyAdvancesLeftover(t *testing.T) {
	moves := map[string]Move{"a": MoveRock, "b": MovePaper, "c": MoveScissors}
	out := AdjudicateRound([]string{"a", "b", "c"}, moves, "")
	if out.Lucky != "c" {
		t.Fatalf("lucky = %q, want leftover c", out.Lucky)
	}
	if len(out.Survivors) != 2 {
		t.Fatalf("survivors = %v", out.Survivors)
	}
}
