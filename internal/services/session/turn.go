package session

// TurnOwner returns the roster index of the player who answers the question at
// index. Turns rotate round-robin regardless of score. It returns -1 when there
// is no valid owner.
func TurnOwner(index, numPlayers int) int {
	if index < 0 || numPlayers <= 0 {
		return -1
	}
	return index % numPlayers
}
