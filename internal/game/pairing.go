package game

// RoundOutcome is the adjudicated result of one round: who advances,
// who is out, and which player (if any) advanced on a bye.
type RoundOutcome struct {
	Survivors  []string
	Eliminated []string
	Lucky      string
}

// AdjudicateRound pairs the active players in join order and resolves
// each match from the revealed moves. A player named lucky sits the
// round out and advances. Rules per match:
//
//   - winner by the beats-relation advances, loser is eliminated
//   - equal revealed moves: both advance (tie replays next round at
//     tournament scale instead of stalling this one)
//   - a player with no revealed move forfeits to an opponent who has one
//   - neither revealed: both eliminated
//
// A leftover unpaired player (odd pool with no lucky given) advances.
func AdjudicateRound(active []string, moves map[string]Move, lucky string) RoundOutcome {
	out := RoundOutcome{}
	pool := make([]string, 0, len(active))
	for _, addr := range active {
		if lucky != "" && addr == lucky {
			out.Lucky = addr
			out.Survivors = append(out.Survivors, addr)
			continue
		}
		pool = append(pool, addr)
	}

	for i := 0; i+1 < len(pool); i += 2 {
		a, b := pool[i], pool[i+1]
		ma, mb := moves[a], moves[b]
		switch {
		case ma.Beats(mb):
			out.Survivors = append(out.Survivors, a)
			out.Eliminated = append(out.Eliminated, b)
		case mb.Beats(ma):
			out.Survivors = append(out.Survivors, b)
			out.Eliminated = append(out.Eliminated, a)
		case ma.Valid() && mb.Valid(): // tie
			out.Survivors = append(out.Survivors, a, b)
		case ma.Valid():
			out.Survivors = append(out.Survivors, a)
			out.Eliminated = append(out.Eliminated, b)
		case mb.Valid():
			out.Survivors = append(out.Survivors, b)
			out.Eliminated = append(out.Eliminated, a)
		default:
			out.Eliminated = append(out.Eliminated, a, b)
		}
	}
	if len(pool)%2 == 1 {
		leftover := pool[len(pool)-1]
		out.Survivors = append(out.Survivors, leftover)
		if out.Lucky == "" {
			out.Lucky = leftover
		}
	}
	return out
}
