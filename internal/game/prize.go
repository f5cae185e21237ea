package game

// Ranked payout weights for up to four winner slots, normalized over
// the slots actually filled.
var prizeWeights = [4]int64{50, 25, 15, 5}

const MaxWinners = len(prizeWeights)

// ComputePayouts splits a finished game's pool: feeBps basis points go
// to the platform, the remainder is divided across the ranked winners
// by weight. Integer dust is assigned to the top winner so that
// fee + sum(shares) == pool exactly and the pool drains to zero.
// With no winners the whole pool falls to the fee.
func ComputePayouts(pool int64, numWinners int, feeBps int) (fee int64, shares []int64) {
	if pool <= 0 {
		return 0, nil
	}
	if feeBps < 0 {
		feeBps = 0
	}
	if feeBps > 10000 {
		feeBps = 10000
	}
	fee = pool * int64(feeBps) / 10000
	if numWinners <= 0 {
		return pool, nil
	}
	if numWinners > MaxWinners {
		numWinners = MaxWinners
	}

	remainder := pool - fee
	var totalWeight int64
	for _, w := range prizeWeights[:numWinners] {
		totalWeight += w
	}
	shares = make([]int64, numWinners)
	var paid int64
	for i := range shares {
		shares[i] = remainder * prizeWeights[i] / totalWeight
		paid += shares[i]
	}
	shares[0] += remainder - paid
	return fee, shares
}
