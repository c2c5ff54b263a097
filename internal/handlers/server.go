package handlers

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/promptfall/promptfall/internal/game"
	"github.com/promptfall/promptfall/internal/journal"
)

// Options configures a Server. Zero values fall back to sensible
// defaults; Journal and Assist are optional collaborators.
type Options struct {
	MaxRoomSize   int
	VotingSeconds int
	Challenges    game.ChallengeProvider
	Assist        game.AssistProvider
	Journal       *journal.Journal
}

// Server owns all process-wide state: the connection registry, the room
// store and the optional round journal. It is constructed explicitly in
// main and torn down with Shutdown; there are no package-level globals.
type Server struct {
	Registry *Registry
	Rooms    *game.RoomStore

	assist  game.AssistProvider
	journal *journal.Journal
	logger  *logrus.Logger
	closing atomic.Bool
}

func NewServer(logger *logrus.Logger, opts Options) *Server {
	s := &Server{
		Registry: NewRegistry(),
		assist:   opts.Assist,
		journal:  opts.Journal,
		logger:   logger,
	}
	s.Rooms = game.NewRoomStore(game.RoomStoreConfig{
		MaxMembers:    opts.MaxRoomSize,
		VotingSeconds: opts.VotingSeconds,
		Challenges:    opts.Challenges,
		OnRoomCreated: func(r *game.Room) {
			r.SendFn = s.Registry.Send
			if s.journal != nil {
				r.RecordFn = s.recordRound
			}
		},
	})
	return s
}

// recordRound pushes a finished round to the journal. Failures are
// logged and swallowed; the journal is telemetry, not game state.
func (s *Server) recordRound(rec game.RoundRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.journal.PublishRound(ctx, rec); err != nil {
		s.logger.Warnf("round journal publish failed for room %s: %v", rec.RoomID, err)
	}
}

// Closing reports whether Shutdown has begun; connection handlers use it
// to pick the close code they send.
func (s *Server) Closing() bool {
	return s.closing.Load()
}

// Shutdown cancels every room countdown and disconnects every client.
func (s *Server) Shutdown() {
	s.closing.Store(true)
	s.Rooms.CloseAll()
	s.Registry.CloseAll()
	if s.journal != nil {
		if err := s.journal.Close(); err != nil {
			s.logger.Warnf("closing round journal: %v", err)
		}
	}
}
