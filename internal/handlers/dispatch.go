package handlers

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/promptfall/promptfall/internal/game"
)

// Message is the envelope for inbound client messages. Type selects the
// operation; the remaining fields are populated per type.
type Message struct {
	Type        string `json:"type"`
	Name        string `json:"name,omitempty"`         // create_room
	RoomID      string `json:"room_id,omitempty"`      // join_room
	DisplayName string `json:"display_name,omitempty"` // create_room, join_room
	Text        string `json:"text,omitempty"`         // submit_response
	TargetID    string `json:"target_id,omitempty"`    // cast_vote
}

// Dispatch validates and routes one inbound message. Every failure is a
// single private error event; no failure mutates state.
func (s *Server) Dispatch(ctx context.Context, client *Client, data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		client.Send(game.ErrorEvent(game.ErrBadRequest))
		return
	}

	switch msg.Type {
	case "create_room":
		s.handleCreateRoom(client, msg)
	case "join_room":
		s.handleJoinRoom(client, msg)
	case "leave_room":
		s.Rooms.LeaveRoom(client.ID)
	case "start_game":
		s.withRoom(client, func(r *game.Room) error { return r.StartRound() })
	case "submit_response":
		s.withRoom(client, func(r *game.Room) error { return r.SubmitResponse(client.ID, msg.Text) })
	case "cast_vote":
		s.handleCastVote(client, msg)
	case "next_round":
		s.withRoom(client, func(r *game.Room) error { return r.NextRound() })
	case "return_to_lobby":
		s.withRoom(client, func(r *game.Room) error { return r.ReturnToLobby() })
	case "list_rooms":
		client.Send(game.Event{Type: game.EventRoomList, Rooms: s.Rooms.ListRooms()})
	case "ai_assist":
		s.handleAssist(ctx, client)
	case "ping":
		client.Send(game.Event{Type: game.EventPong})
	default:
		client.Send(game.ErrorEvent(&game.Error{
			Code:    game.ErrBadRequest.Code,
			Message: "Unknown message type: " + msg.Type,
		}))
	}
}

// withRoom resolves the sender's room and applies op, reporting any
// rejection back to the sender only.
func (s *Server) withRoom(client *Client, op func(*game.Room) error) {
	room, ok := s.Rooms.RoomByPlayer(client.ID)
	if !ok {
		client.Send(game.ErrorEvent(game.ErrNotInRoom))
		return
	}
	if err := op(room); err != nil {
		client.Send(game.ErrorEvent(err))
	}
}

func (s *Server) handleCreateRoom(client *Client, msg Message) {
	name := msg.Name
	if name == "" {
		name = "New Room"
	}
	displayName := msg.DisplayName
	if displayName == "" {
		displayName = "Host"
	}
	snap, err := s.Rooms.CreateRoom(client.ID, name, displayName)
	if err != nil {
		client.Send(game.ErrorEvent(err))
		return
	}
	client.Send(game.Event{Type: game.EventRoomJoined, Room: &snap})
}

func (s *Server) handleJoinRoom(client *Client, msg Message) {
	roomID, err := uuid.Parse(msg.RoomID)
	if err != nil {
		client.Send(game.ErrorEvent(game.ErrBadRequest))
		return
	}
	displayName := msg.DisplayName
	if displayName == "" {
		displayName = "Player"
	}
	snap, err := s.Rooms.JoinRoom(client.ID, roomID, displayName)
	if err != nil {
		client.Send(game.ErrorEvent(err))
		return
	}
	client.Send(game.Event{Type: game.EventRoomJoined, Room: &snap})
}

func (s *Server) handleCastVote(client *Client, msg Message) {
	targetID, err := uuid.Parse(msg.TargetID)
	if err != nil {
		client.Send(game.ErrorEvent(game.ErrBadRequest))
		return
	}
	s.withRoom(client, func(r *game.Room) error { return r.CastVote(client.ID, targetID) })
}

// handleAssist returns a generated suggestion for the current challenge,
// privately to the asker. Provider failures degrade to a canned line.
func (s *Server) handleAssist(ctx context.Context, client *Client) {
	room, ok := s.Rooms.RoomByPlayer(client.ID)
	if !ok {
		client.Send(game.ErrorEvent(game.ErrNotInRoom))
		return
	}
	prompt, ok := room.CurrentPrompt()
	if !ok {
		client.Send(game.ErrorEvent(game.ErrInvalidPhase))
		return
	}
	text := game.SafeAssist(ctx, s.assist, prompt)
	client.Send(game.Event{Type: game.EventAssistResult, Text: text})
}
