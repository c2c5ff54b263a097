package game

import (
	"github.com/promptfall/promptfall/internal/models"
)

// EventType is an enum-like type for server-pushed events.
type EventType string

const (
	EventConnected         EventType = "connected"
	EventRoomJoined        EventType = "room_joined"
	EventPlayerJoined      EventType = "player_joined"
	EventPlayerLeft        EventType = "player_left"
	EventRoundStarted      EventType = "round_started"
	EventResponseSubmitted EventType = "response_submitted"
	EventTimerTick         EventType = "timer_tick"
	EventVotingStarted     EventType = "voting_started"
	EventVoteAccepted      EventType = "vote_accepted"
	EventRoundEnded        EventType = "round_ended"
	EventReturnedToLobby   EventType = "returned_to_lobby"
	EventRoomList          EventType = "room_list"
	EventAssistResult      EventType = "assist_result"
	EventError             EventType = "error"
	EventPong              EventType = "pong"
)

// Event is the single outbound message shape. Fields are populated per
// event type; everything else is omitted on the wire.
type Event struct {
	Type EventType `json:"type"`

	ConnectionID string                  `json:"connection_id,omitempty"`
	PlayerID     string                  `json:"player_id,omitempty"`
	Player       *models.PlayerSnapshot  `json:"player,omitempty"`
	Room         *models.RoomSnapshot    `json:"room,omitempty"`
	Rooms        []models.RoomSnapshot   `json:"rooms,omitempty"`
	Challenge    *models.Challenge       `json:"challenge,omitempty"`
	Responses    []models.ResponseEntry  `json:"responses,omitempty"`
	Results      []models.RankedResult   `json:"results,omitempty"`
	Phase        models.Phase            `json:"phase,omitempty"`
	SecondsLeft  int                     `json:"seconds_remaining,omitempty"`
	VotingTime   int                     `json:"voting_time,omitempty"`
	TargetID     string                  `json:"target_id,omitempty"`
	Text         string                  `json:"text,omitempty"`
	Code         string                  `json:"code,omitempty"`
	Message      string                  `json:"message,omitempty"`
}

// ErrorEvent builds the wire form of a rejected request.
func ErrorEvent(err error) Event {
	if ge, ok := err.(*Error); ok {
		return Event{Type: EventError, Code: ge.Code, Message: ge.Message}
	}
	return Event{Type: EventError, Code: ErrBadRequest.Code, Message: err.Error()}
}
