package models

import "github.com/google/uuid"

// Phase identifies which stage of a round a room is in. Exactly one phase
// is active per room at any time.
type Phase string

const (
	PhaseLobby   Phase = "lobby"
	PhasePlaying Phase = "playing"
	PhaseVoting  Phase = "voting"
	PhaseResults Phase = "results"
)

// PlayerSnapshot is the broadcastable view of a player.
type PlayerSnapshot struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Score        int       `json:"score"`
	HasSubmitted bool      `json:"has_submitted"`
}

// RoomSnapshot is a read-only copy of room state taken for broadcast,
// decoupled from the live mutable room. Players appear in join order.
type RoomSnapshot struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Players     []PlayerSnapshot `json:"players"`
	PlayerCount int              `json:"player_count"`
	MaxPlayers  int              `json:"max_players"`
	Phase       Phase            `json:"phase"`
	IsActive    bool             `json:"is_active"`
}

// ResponseEntry is one votable response shown during the voting phase.
type ResponseEntry struct {
	PlayerID   uuid.UUID `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Response   string    `json:"response"`
}

// RankedResult is one row of the end-of-round standings.
type RankedResult struct {
	PlayerID   uuid.UUID `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Response   string    `json:"response"`
	Score      int       `json:"score"`
}
