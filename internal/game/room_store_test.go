// internal/game/room_store_test.go
package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptfall/promptfall/internal/models"
)

func newTestStore(t *testing.T) (*RoomStore, *mockSender) {
	t.Helper()
	ms := newMockSender()
	store := NewRoomStore(RoomStoreConfig{
		MaxMembers:    2,
		VotingSeconds: 1000,
		Challenges:    &fixedProvider{ch: models.Challenge{Prompt: "p", Category: "c", TimeLimitSeconds: 1000}},
		OnRoomCreated: func(r *Room) { r.SendFn = ms.sendFn },
	})
	return store, ms
}

func TestCreateRoomSeatsCreator(t *testing.T) {
	store, _ := newTestStore(t)
	creator := uuid.New()

	snap, err := store.CreateRoom(creator, "Alpha", "Anna")
	require.NoError(t, err)
	assert.Equal(t, 1, snap.PlayerCount)
	assert.Equal(t, "Anna", snap.Players[0].Name)

	room, ok := store.RoomByPlayer(creator)
	require.True(t, ok)
	assert.Equal(t, snap.ID, room.ID)
}

func TestSingleRoomMembership(t *testing.T) {
	store, _ := newTestStore(t)
	player := uuid.New()

	first, err := store.CreateRoom(player, "First", "P")
	require.NoError(t, err)
	second, err := store.CreateRoom(player, "Second", "P")
	require.NoError(t, err)

	room, ok := store.RoomByPlayer(player)
	require.True(t, ok)
	assert.Equal(t, second.ID, room.ID)

	_, ok = store.GetRoom(first.ID)
	assert.False(t, ok, "the abandoned room emptied out and must be destroyed")
	assert.Equal(t, 1, store.Len())
}

func TestJoinMovesPlayerBetweenRooms(t *testing.T) {
	store, _ := newTestStore(t)
	host := uuid.New()
	mover := uuid.New()

	target, err := store.CreateRoom(host, "Target", "Host")
	require.NoError(t, err)
	_, err = store.CreateRoom(mover, "Old", "Mover")
	require.NoError(t, err)

	snap, err := store.JoinRoom(mover, target.ID, "Mover")
	require.NoError(t, err)
	assert.Equal(t, 2, snap.PlayerCount)

	room, ok := store.RoomByPlayer(mover)
	require.True(t, ok)
	assert.Equal(t, target.ID, room.ID)
	assert.Equal(t, 1, store.Len(), "the vacated room is gone")
}

func TestFailedJoinLeavesEverythingIntact(t *testing.T) {
	store, _ := newTestStore(t)
	host := uuid.New()
	guest := uuid.New()
	late := uuid.New()

	target, err := store.CreateRoom(host, "Full", "Host")
	require.NoError(t, err)
	_, err = store.JoinRoom(guest, target.ID, "Guest")
	require.NoError(t, err)

	home, err := store.CreateRoom(late, "Home", "Late")
	require.NoError(t, err)

	_, err = store.JoinRoom(late, target.ID, "Late")
	assert.ErrorIs(t, err, ErrRoomFull)

	// The rejected mover stays exactly where they were.
	room, ok := store.RoomByPlayer(late)
	require.True(t, ok)
	assert.Equal(t, home.ID, room.ID)
}

func TestJoinUnknownRoom(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.JoinRoom(uuid.New(), uuid.New(), "Nobody")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRejoinSameRoomIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	player := uuid.New()

	snap, err := store.CreateRoom(player, "Alpha", "P")
	require.NoError(t, err)

	again, err := store.JoinRoom(player, snap.ID, "P")
	require.NoError(t, err)
	assert.Equal(t, 1, again.PlayerCount, "rejoining must not duplicate the member")
}

func TestLeaveWithoutRoomIsNoop(t *testing.T) {
	store, _ := newTestStore(t)
	store.LeaveRoom(uuid.New())
	assert.Zero(t, store.Len())
}

func TestEmptyRoomDestroyed(t *testing.T) {
	store, _ := newTestStore(t)
	player := uuid.New()

	snap, err := store.CreateRoom(player, "Alpha", "P")
	require.NoError(t, err)
	store.LeaveRoom(player)

	_, ok := store.GetRoom(snap.ID)
	assert.False(t, ok)
	assert.Zero(t, store.Len())
}

func TestListRoomsFiltersJoinable(t *testing.T) {
	store, _ := newTestStore(t)

	a := uuid.New()
	b := uuid.New()
	_, err := store.CreateRoom(a, "Busy", "A")
	require.NoError(t, err)
	busy, _ := store.RoomByPlayer(a)
	_, err = store.JoinRoom(b, busy.ID, "B")
	require.NoError(t, err)
	require.NoError(t, busy.StartRound())

	_, err = store.CreateRoom(uuid.New(), "Open", "C")
	require.NoError(t, err)

	full1, full2 := uuid.New(), uuid.New()
	_, err = store.CreateRoom(full1, "Packed", "D")
	require.NoError(t, err)
	packed, _ := store.RoomByPlayer(full1)
	_, err = store.JoinRoom(full2, packed.ID, "E")
	require.NoError(t, err)

	list := store.ListRooms()
	require.Len(t, list, 1, "in-game and full rooms are not joinable")
	assert.Equal(t, "Open", list[0].Name)
}

func TestCloseAllTearsDownRooms(t *testing.T) {
	store, _ := newTestStore(t)
	p := uuid.New()
	_, err := store.CreateRoom(p, "Alpha", "P")
	require.NoError(t, err)

	store.CloseAll()
	assert.Zero(t, store.Len())
	_, ok := store.RoomByPlayer(p)
	assert.False(t, ok)
}
