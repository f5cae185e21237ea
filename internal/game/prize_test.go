package game

import "testing"

func TestComputePayoutsDrainsPoolExactly(t *testing.T) {
	for _, pool := range []int64{1, 7, 20, 100, 999, 1000000007} {
		for n := 1; n <= MaxWinners; n++ {
			fee, shares := ComputePayouts(pool, n, 500)
			if len(shares) != n {
				t.Fatalf("pool=%d n=%d: %d shares", pool, n, len(shares))
			}
			sum := fee
			for _, s := range shares {
				if s < 0 {
					t.Fatalf("pool=%d n=%d: negative share %d", pool, n, s)
				}
				sum += s
			}
			if sum != pool {
				t.Fatalf("pool=%d n=%d: fee+shares = %d", pool, n, sum)
			}
		}
	}
}

func TestComputePayoutsTopWinnerGetsMost(t *testing.T) {
	_, shares := ComputePayouts(10000, 4, 500)
	for i := 1; i < len(shares); i++ {
		if shares[i] > shares[i-1] {
			t.Fatalf("shares not descending: %v", shares)
		}
	}
	fee, _ := ComputePayouts(10000, 4, 500)
	if fee != 500 {
		t.Fatalf("fee = %d, want 500", fee)
	}
}

func TestComputePayoutsSingleWinnerTakesRemainder(t *testing.T) {
	fee, shares := ComputePayouts(20, 1, 500)
	if fee != 1 {
		t.Fatalf("fee = %d, want 1", fee)
	}
	if len(shares) != 1 || shares[0] != 19 {
		t.Fatalf("shares = %v, want [19]", shares)
	}
}

func TestComputePayoutsNoWinnersFeeTakesPool(t *testing.T) {
	fee, shares := ComputePayouts(20, 0, 500)
	if fee != 20 || shares != nil {
		t.Fatalf("fee=%d shares=%v, want pool to fee", fee, shares)
	}
}

func TestComputePayoutsClampsWinnerCount(t *testing.T) {
	_, shares := ComputePayouts(1000, 9, 0)
	if len(shares) != MaxWinners {
		t.Fatalf("shares = %d, want %d", len(shares), MaxWinners)
	}
}
