package activity

// Tier labels, coarsest ranking derived from the activity score.
const (
	TierBronze  = "Bronze"
	TierSilver  = "Silver"
	TierGold    = "Gold"
	TierDiamond = "Diamond"
)

// Score weighs medals, games, referrals and linked socials with caps
// per input. Callers pass totalMedals = on-chain medals + pending.
// Monotonic non-decreasing in every input.
func Score(totalMedals, gamesPlayed, referredCount, linkedSocials int64) int64 {
	return capped(totalMedals/50, 40) +
		capped(gamesPlayed*2, 30) +
		capped(referredCount*5, 20) +
		linkedSocials*3
}

// TierFor maps a score to its tier label.
func TierFor(score int64) string {
	switch {
	case score >= 70:
		return TierDiamond
	case score >= 45:
		return TierGold
	case score >= 20:
		return TierSilver
	default:
		return TierBronze
	}
}

// Tier is the composed convenience used by the leaderboard and profile
// views.
func Tier(totalMedals, gamesPlayed, referredCount, linkedSocials int64) string {
	return TierFor(Score(totalMedals, gamesPlayed, referredCount, linkedSocials))
}

func capped(v, limit int64) int64 {
	if v > limit {
		return limit
	}
	return v
}
