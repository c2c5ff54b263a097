package game

// Error is a rejected request. Code is a stable machine-readable string
// that maps directly onto the wire error event; Message is the user-facing
// text. A returned Error guarantees no room state was mutated.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	// Validation
	ErrBadRequest    = &Error{Code: "bad_request", Message: "Malformed request"}
	ErrInvalidPhase  = &Error{Code: "invalid_phase", Message: "Action not allowed in the current phase"}
	ErrEmptyResponse = &Error{Code: "empty_response", Message: "Response cannot be empty"}
	ErrNotInRoom     = &Error{Code: "not_in_room", Message: "You are not in a room"}

	// Capacity
	ErrRoomFull            = &Error{Code: "room_full", Message: "Room is full"}
	ErrInsufficientPlayers = &Error{Code: "insufficient_players", Message: "Need at least 2 players to start"}

	// Not found
	ErrRoomNotFound  = &Error{Code: "room_not_found", Message: "Room not found"}
	ErrUnknownTarget = &Error{Code: "unknown_target", Message: "That player has no response this round"}

	// State conflict
	ErrAlreadyVoted    = &Error{Code: "already_voted", Message: "You have already voted this round"}
	ErrSelfVote        = &Error{Code: "self_vote", Message: "You cannot vote for your own response"}
	ErrRoomNotJoinable = &Error{Code: "room_not_joinable", Message: "Room is not accepting players right now"}

	// ErrAlreadyInRoom never reaches the wire while joins auto-leave the
	// previous room, but the condition stays named for callers that want
	// a stricter policy.
	ErrAlreadyInRoom = &Error{Code: "already_in_room", Message: "You are already in a room"}
)
