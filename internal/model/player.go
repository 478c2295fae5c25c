package model

import "fmt"

// Player is a participant in the current session
type Player struct {
	Name     string
	AvatarID string
	Score    int
}

// PlayerSetup is the roster entry supplied at game start
type PlayerSetup struct {
	Name     string
	AvatarID string
}

// Avatars are the selectable player avatars
var Avatars = []string{"👽", "🤖", "👾", "🚀", "🌟", "🧠", "💡", "🎮", "👑", "🧙", "🧑‍🚀", "🦄"}

// DefaultAvatar is used when a roster entry has no avatar
var DefaultAvatar = Avatars[0]

// DefaultPlayerNamePrefix is used for generated player names ("Player 1", "Player 2", ...)
const DefaultPlayerNamePrefix = "Player"

// DefaultRoster generates n players with default names and cycling avatars
func DefaultRoster(n int) []PlayerSetup {
	if n <= 0 {
		return nil
	}
	roster := make([]PlayerSetup, n)
	for i := range roster {
		roster[i] = PlayerSetup{
			Name:     fmt.Sprintf("%s %d", DefaultPlayerNamePrefix, i+1),
			AvatarID: Avatars[i%len(Avatars)],
		}
	}
	return roster
}

// NewPlayers creates zero-score players from a roster
func NewPlayers(roster []PlayerSetup) []Player {
	players := make([]Player, len(roster))
	for i, p := range roster {
		avatar := p.AvatarID
		if avatar == "" {
			avatar = DefaultAvatar
		}
		players[i] = Player{Name: p.Name, AvatarID: avatar}
	}
	return players
}
