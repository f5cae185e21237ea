package game

import "errors"

// Move encoding follows the contract: 1=rock, 2=paper, 3=scissors.
// Zero means "no move" (never committed or never revealed).
type Move uint8

const (
	MoveNone     Move = 0
	MoveRock     Move = 1
	MovePaper    Move = 2
	MoveScissors Move = 3
)

var ErrInvalidMove = errors.New("invalid_move")

func ParseMove(v uint8) (Move, error) {
	m := Move(v)
	if m < MoveRock || m > MoveScissors {
		return MoveNone, ErrInvalidMove
	}
	return m, nil
}

func (m Move) Valid() bool {
	return m >= MoveRock && m <= MoveScissors
}

func (m Move) String() string {
	switch m {
	case MoveRock:
		return "rock"
	case MovePaper:
		return "paper"
	case MoveScissors:
		return "scissors"
	default:
		return "none"
	}
}

// Beats reports whether m wins against other under the three-way
// relation: rock beats scissors, scissors beats paper, paper beats rock.
func (m Move) Beats(other Move) bool {
	switch {
	case m == MoveRock && other == MoveScissors:
		return true
	case m == MoveScissors && other == MovePaper:
		return true
	case m == MovePaper && other == MoveRock:
		return true
	default:
		return false
	}
}
