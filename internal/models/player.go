package models

import "github.com/google/uuid"

// Player is one member of a room. The player id is the connection id that
// joined; all mutation happens under the owning room's mutex.
type Player struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Score           int       `json:"score"`
	CurrentResponse string    `json:"-"`
	HasSubmitted    bool      `json:"hasSubmitted"`
}

func NewPlayer(id uuid.UUID, name string) *Player {
	return &Player{
		ID:   id,
		Name: name,
	}
}

// Snapshot returns a read-only copy safe to hand to the broadcast layer.
func (p *Player) Snapshot() PlayerSnapshot {
	return PlayerSnapshot{
		ID:           p.ID,
		Name:         p.Name,
		Score:        p.Score,
		HasSubmitted: p.HasSubmitted,
	}
}
