package game

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/promptfall/promptfall/internal/models"
)

const (
	DefaultMaxMembers    = 4
	DefaultVotingSeconds = 20
)

// RoomStoreConfig configures room defaults and wiring hooks.
type RoomStoreConfig struct {
	MaxMembers    int
	VotingSeconds int
	Challenges    ChallengeProvider

	// OnRoomCreated runs before a new room becomes reachable; it is where
	// the owner installs SendFn and RecordFn.
	OnRoomCreated func(*Room)
}

// RoomStore owns every active room plus the player->room index that
// enforces at-most-one-room membership. Rooms are only reachable through
// the store, so destroying one is a single map removal. Lock order is
// always store then room, never the reverse.
type RoomStore struct {
	mu         sync.Mutex
	rooms      map[uuid.UUID]*Room
	playerRoom map[uuid.UUID]uuid.UUID

	maxMembers    int
	votingSeconds int
	challenges    ChallengeProvider
	onRoomCreated func(*Room)
}

func NewRoomStore(cfg RoomStoreConfig) *RoomStore {
	if cfg.MaxMembers <= 0 {
		cfg.MaxMembers = DefaultMaxMembers
	}
	if cfg.VotingSeconds <= 0 {
		cfg.VotingSeconds = DefaultVotingSeconds
	}
	if cfg.Challenges == nil {
		cfg.Challenges = NewStaticChallengeProvider()
	}
	return &RoomStore{
		rooms:         make(map[uuid.UUID]*Room),
		playerRoom:    make(map[uuid.UUID]uuid.UUID),
		maxMembers:    cfg.MaxMembers,
		votingSeconds: cfg.VotingSeconds,
		challenges:    cfg.Challenges,
		onRoomCreated: cfg.OnRoomCreated,
	}
}

// CreateRoom allocates a lobby room with the requester as first member.
// A requester already in another room leaves it first (auto-leave), so
// the single-room invariant is kept without a round trip.
func (s *RoomStore) CreateRoom(connID uuid.UUID, name, displayName string) (models.RoomSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.playerRoom[connID]; ok {
		s.leaveLocked(connID, prev)
	}

	room := newRoom(name, s.maxMembers, s.votingSeconds, s.challenges)
	if s.onRoomCreated != nil {
		s.onRoomCreated(room)
	}
	s.rooms[room.ID] = room

	snap, err := room.TryAddMember(models.NewPlayer(connID, displayName))
	if err != nil {
		// A freshly created lobby room cannot reject its first member.
		delete(s.rooms, room.ID)
		return models.RoomSnapshot{}, err
	}
	s.playerRoom[connID] = room.ID
	return snap, nil
}

// JoinRoom adds the connection to an existing room. Validation happens
// before any mutation: a rejected join leaves both the target room and
// the requester's current room untouched. On success the requester's
// previous room, if any, is left (auto-leave).
func (s *RoomStore) JoinRoom(connID, roomID uuid.UUID, displayName string) (models.RoomSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return models.RoomSnapshot{}, ErrRoomNotFound
	}
	if s.playerRoom[connID] == roomID {
		// Rejoining the same room is a no-op; hand back the snapshot.
		return room.Snapshot(), nil
	}

	snap, err := room.TryAddMember(models.NewPlayer(connID, displayName))
	if err != nil {
		return models.RoomSnapshot{}, err
	}

	if prev, ok := s.playerRoom[connID]; ok {
		s.leaveLocked(connID, prev)
	}
	s.playerRoom[connID] = roomID
	return snap, nil
}

// LeaveRoom removes the connection from whichever room it occupies. Not
// being in a room is a no-op, not an error.
func (s *RoomStore) LeaveRoom(connID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roomID, ok := s.playerRoom[connID]
	if !ok {
		return
	}
	s.leaveLocked(connID, roomID)
}

// leaveLocked assumes the store lock is held. An emptied room is
// destroyed on the spot, countdown included.
func (s *RoomStore) leaveLocked(connID, roomID uuid.UUID) {
	delete(s.playerRoom, connID)
	room, ok := s.rooms[roomID]
	if !ok {
		return
	}
	if room.RemoveMember(connID) {
		delete(s.rooms, roomID)
	}
}

// RoomByPlayer resolves the room a connection currently occupies.
func (s *RoomStore) RoomByPlayer(connID uuid.UUID) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roomID, ok := s.playerRoom[connID]
	if !ok {
		return nil, false
	}
	room, ok := s.rooms[roomID]
	return room, ok
}

// GetRoom retrieves a room by id.
func (s *RoomStore) GetRoom(roomID uuid.UUID) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	return room, ok
}

// ListRooms snapshots the rooms that can still be joined: lobby phase
// with a free seat. Output is sorted by name for a stable listing.
func (s *RoomStore) ListRooms() []models.RoomSnapshot {
	s.mu.Lock()
	rooms := make([]*Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room)
	}
	s.mu.Unlock()

	list := make([]models.RoomSnapshot, 0, len(rooms))
	for _, room := range rooms {
		snap := room.Snapshot()
		if snap.Phase == models.PhaseLobby && snap.PlayerCount < snap.MaxPlayers {
			list = append(list, snap)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID.String() < list[j].ID.String()
	})
	return list
}

// Len reports the number of active rooms.
func (s *RoomStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// CloseAll tears down every room: countdowns cancelled, members dropped.
// Part of server shutdown.
func (s *RoomStore) CloseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, room := range s.rooms {
		room.Close()
		delete(s.rooms, id)
	}
	s.playerRoom = make(map[uuid.UUID]uuid.UUID)
}
