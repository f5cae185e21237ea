package game

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// CommitmentHash binds a move, a caller-chosen salt, the game id, and
// the round number into one digest, so a commitment cannot be replayed
// for a different round or game. Hex-encoded sha256.
func CommitmentHash(move Move, salt string, gameID uint64, round uint8) string {
	h := sha256.New()
	var buf [9]byte
	buf[0] = byte(move)
	binary.BigEndian.PutUint64(buf[1:], gameID)
	h.Write(buf[:])
	h.Write([]byte{round})
	h.Write([]byte(salt))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyCommitment recomputes the hash for a claimed (move, salt) pair
// and compares it to the stored commitment.
func VerifyCommitment(commitment string, move Move, salt string, gameID uint64, round uint8) bool {
	if !move.Valid() || commitment == "" {
		return false
	}
	return CommitmentHash(move, salt, gameID, round) == commitment
}
