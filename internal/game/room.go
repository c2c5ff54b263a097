package game

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/promptfall/promptfall/internal/models"
)

// noExclude is passed to broadcastLocked when every member should
// receive the event.
var noExclude = uuid.Nil

// RoundRecord summarizes a finished round for external sinks (the round
// journal). It is handed off asynchronously and never blocks the room.
type RoundRecord struct {
	RoomID   uuid.UUID             `json:"room_id"`
	RoomName string                `json:"room_name"`
	Prompt   string                `json:"prompt"`
	Category string                `json:"category"`
	Results  []models.RankedResult `json:"results"`
	Deltas   map[uuid.UUID]int     `json:"deltas"`
	EndedAt  time.Time             `json:"ended_at"`
}

// Room is a single game session: its membership, phase, challenge, votes
// and countdown. Every mutation is serialized by mu; two rooms never
// share state and advance fully independently.
type Room struct {
	ID         uuid.UUID
	Name       string
	MaxMembers int

	Phase            models.Phase
	CurrentChallenge *models.Challenge
	Members          []*models.Player // join order = display order

	// votes maps voter id to target id for the current round. A voter
	// appears at most once; entries are immutable once recorded.
	votes map[uuid.UUID]uuid.UUID

	votingSeconds int
	challenges    ChallengeProvider

	timer      *countdown
	timerEpoch uint64
	tickEvery  time.Duration

	// SendFn delivers an event to a single player, non-blocking. The room
	// fans room-wide events out member by member through it. Set once at
	// creation, before the first member joins.
	SendFn func(playerID uuid.UUID, ev Event)

	// RecordFn, if set, receives the record of every finished round.
	RecordFn func(rec RoundRecord)

	mu sync.Mutex
}

func newRoom(name string, maxMembers, votingSeconds int, challenges ChallengeProvider) *Room {
	id, _ := uuid.NewRandom()
	return &Room{
		ID:            id,
		Name:          name,
		MaxMembers:    maxMembers,
		Phase:         models.PhaseLobby,
		votes:         make(map[uuid.UUID]uuid.UUID),
		votingSeconds: votingSeconds,
		challenges:    challenges,
		tickEvery:     time.Second,
	}
}

// Snapshot returns a read-only copy of the room for broadcast.
func (r *Room) Snapshot() models.RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Room) snapshotLocked() models.RoomSnapshot {
	players := make([]models.PlayerSnapshot, 0, len(r.Members))
	for _, p := range r.Members {
		players = append(players, p.Snapshot())
	}
	return models.RoomSnapshot{
		ID:          r.ID,
		Name:        r.Name,
		Players:     players,
		PlayerCount: len(players),
		MaxPlayers:  r.MaxMembers,
		Phase:       r.Phase,
		IsActive:    r.Phase == models.PhasePlaying || r.Phase == models.PhaseVoting,
	}
}

// CurrentPrompt returns the active challenge prompt, valid only while a
// round is being played.
func (r *Room) CurrentPrompt() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Phase != models.PhasePlaying || r.CurrentChallenge == nil {
		return "", false
	}
	return r.CurrentChallenge.Prompt, true
}

// TryAddMember validates and appends a new player in one step. On success
// the join is announced to the existing members and a snapshot including
// the new player is returned; on failure nothing is mutated.
func (r *Room) TryAddMember(p *models.Player) (models.RoomSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Phase != models.PhaseLobby {
		return models.RoomSnapshot{}, ErrRoomNotJoinable
	}
	if len(r.Members) >= r.MaxMembers {
		return models.RoomSnapshot{}, ErrRoomFull
	}

	r.Members = append(r.Members, p)
	snap := r.snapshotLocked()
	player := p.Snapshot()
	r.broadcastLocked(Event{
		Type:   EventPlayerJoined,
		Player: &player,
		Room:   &snap,
	}, p.ID)
	return snap, nil
}

// RemoveMember drops a player from the room, announces the departure and
// re-checks the early-advance conditions (a departure can complete
// "everyone submitted" or "everyone voted"). Returns true when the room
// is now empty; the caller destroys it. A removal never fails.
func (r *Room) RemoveMember(playerID uuid.UUID) (empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, p := range r.Members {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return len(r.Members) == 0
	}
	r.Members = append(r.Members[:idx], r.Members[idx+1:]...)

	if len(r.Members) == 0 {
		r.cancelCountdownLocked()
		return true
	}

	snap := r.snapshotLocked()
	r.broadcastLocked(Event{
		Type:     EventPlayerLeft,
		PlayerID: playerID.String(),
		Room:     &snap,
	}, noExclude)

	switch r.Phase {
	case models.PhasePlaying:
		if r.allSubmittedLocked() {
			r.beginVotingLocked()
		}
	case models.PhaseVoting:
		if r.allVotedLocked() {
			r.endRoundLocked()
		}
	}
	return false
}

// StartRound begins a round from the lobby: picks a challenge, resets
// per-round player state and arms the submission countdown.
func (r *Room) StartRound() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Phase != models.PhaseLobby {
		return ErrInvalidPhase
	}
	if len(r.Members) < 2 {
		return ErrInsufficientPlayers
	}
	r.startRoundLocked()
	return nil
}

// NextRound begins another round from the results screen. Cumulative
// scores carry over; only per-round fields are reset.
func (r *Room) NextRound() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Phase != models.PhaseResults {
		return ErrInvalidPhase
	}
	if len(r.Members) < 2 {
		return ErrInsufficientPlayers
	}
	r.startRoundLocked()
	return nil
}

// ReturnToLobby leaves the results screen without starting a new round.
func (r *Room) ReturnToLobby() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Phase != models.PhaseResults {
		return ErrInvalidPhase
	}
	r.Phase = models.PhaseLobby
	r.CurrentChallenge = nil
	snap := r.snapshotLocked()
	r.broadcastLocked(Event{Type: EventReturnedToLobby, Room: &snap}, noExclude)
	return nil
}

func (r *Room) startRoundLocked() {
	ch := nextChallenge(r.challenges)
	r.CurrentChallenge = &ch

	for _, p := range r.Members {
		p.CurrentResponse = ""
		p.HasSubmitted = false
	}
	r.votes = make(map[uuid.UUID]uuid.UUID)
	r.Phase = models.PhasePlaying

	snap := r.snapshotLocked()
	r.broadcastLocked(Event{
		Type:      EventRoundStarted,
		Challenge: &ch,
		Room:      &snap,
	}, noExclude)
	r.startCountdownLocked(ch.TimeLimitSeconds)
}

// SubmitResponse records a player's response. Resubmitting while the
// round is still open overwrites the previous text. When the last member
// submits, the room advances to voting without waiting out the timer.
func (r *Room) SubmitResponse(playerID uuid.UUID, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.memberLocked(playerID)
	if p == nil {
		return ErrNotInRoom
	}
	if r.Phase != models.PhasePlaying {
		return ErrInvalidPhase
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyResponse
	}

	p.CurrentResponse = text
	p.HasSubmitted = true

	// Other members learn that this player is done, not what they wrote.
	r.broadcastLocked(Event{
		Type:     EventResponseSubmitted,
		PlayerID: playerID.String(),
	}, playerID)

	if r.allSubmittedLocked() {
		r.beginVotingLocked()
	}
	return nil
}

// CastVote records one immutable vote and bumps the target's score. When
// every member who submitted has voted, the round ends immediately.
func (r *Room) CastVote(voterID, targetID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.memberLocked(voterID) == nil {
		return ErrNotInRoom
	}
	if r.Phase != models.PhaseVoting {
		return ErrInvalidPhase
	}
	if voterID == targetID {
		return ErrSelfVote
	}
	if _, voted := r.votes[voterID]; voted {
		return ErrAlreadyVoted
	}
	target := r.memberLocked(targetID)
	if target == nil || !target.HasSubmitted {
		return ErrUnknownTarget
	}

	r.votes[voterID] = targetID
	target.Score++

	// Vote choices stay private to avoid bandwagoning.
	r.sendToLocked(voterID, Event{
		Type:     EventVoteAccepted,
		TargetID: targetID.String(),
	})

	if r.allVotedLocked() {
		r.endRoundLocked()
	}
	return nil
}

// beginVotingLocked transitions Playing -> Voting with whatever responses
// exist. A round in which nobody submitted has nothing to vote on and
// falls through to results.
func (r *Room) beginVotingLocked() {
	r.cancelCountdownLocked()

	responses := make([]models.ResponseEntry, 0, len(r.Members))
	for _, p := range r.Members {
		if p.HasSubmitted {
			responses = append(responses, models.ResponseEntry{
				PlayerID:   p.ID,
				PlayerName: p.Name,
				Response:   p.CurrentResponse,
			})
		}
	}

	r.Phase = models.PhaseVoting
	if len(responses) == 0 {
		r.endRoundLocked()
		return
	}

	r.broadcastLocked(Event{
		Type:       EventVotingStarted,
		Responses:  responses,
		VotingTime: r.votingSeconds,
	}, noExclude)
	r.startCountdownLocked(r.votingSeconds)
}

// endRoundLocked transitions to Results, publishes the standings and
// hands the round record to the journal hook.
func (r *Room) endRoundLocked() {
	r.cancelCountdownLocked()
	r.Phase = models.PhaseResults

	results := Rank(r.Members)
	snap := r.snapshotLocked()
	r.broadcastLocked(Event{
		Type:    EventRoundEnded,
		Results: results,
		Room:    &snap,
	}, noExclude)

	if r.RecordFn != nil {
		rec := RoundRecord{
			RoomID:   r.ID,
			RoomName: r.Name,
			Results:  results,
			Deltas:   ScoreDeltas(r.votes),
			EndedAt:  time.Now(),
		}
		if r.CurrentChallenge != nil {
			rec.Prompt = r.CurrentChallenge.Prompt
			rec.Category = r.CurrentChallenge.Category
		}
		go r.RecordFn(rec)
	}
}

// Close cancels the room's countdown and drops its members. Used on
// server teardown; individual departures go through RemoveMember.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelCountdownLocked()
	r.Members = nil
}

func (r *Room) memberLocked(playerID uuid.UUID) *models.Player {
	for _, p := range r.Members {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

func (r *Room) allSubmittedLocked() bool {
	for _, p := range r.Members {
		if !p.HasSubmitted {
			return false
		}
	}
	return len(r.Members) > 0
}

// allVotedLocked reports whether every member who submitted a response
// this round has also cast a vote. Members who never submitted are not
// waited on.
func (r *Room) allVotedLocked() bool {
	for _, p := range r.Members {
		if !p.HasSubmitted {
			continue
		}
		if _, voted := r.votes[p.ID]; !voted {
			return false
		}
	}
	return true
}

func (r *Room) broadcastLocked(ev Event, exclude uuid.UUID) {
	if r.SendFn == nil {
		return
	}
	for _, p := range r.Members {
		if p.ID == exclude {
			continue
		}
		r.SendFn(p.ID, ev)
	}
}

func (r *Room) sendToLocked(playerID uuid.UUID, ev Event) {
	if r.SendFn == nil {
		return
	}
	r.SendFn(playerID, ev)
}
