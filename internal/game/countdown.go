package game

import (
	"sync"
	"time"

	"github.com/promptfall/promptfall/internal/models"
)

// countdown is a cancellable once-per-second ticker owned by a Room. A
// room never has more than one live countdown: starting a new one bumps
// the room's timer epoch and stops the previous goroutine. Tick and
// expiry delivery re-acquire the room mutex and compare epochs, so a
// cancellation requested before the expiry is observed always wins.
type countdown struct {
	stopCh chan struct{}
	once   sync.Once
}

func newCountdown() *countdown {
	return &countdown{stopCh: make(chan struct{})}
}

func (c *countdown) stop() {
	c.once.Do(func() { close(c.stopCh) })
}

// startCountdownLocked arms a countdown for the room's current phase.
// Caller holds r.mu.
func (r *Room) startCountdownLocked(seconds int) {
	r.timerEpoch++
	if r.timer != nil {
		r.timer.stop()
	}
	cd := newCountdown()
	r.timer = cd
	go r.runCountdown(cd, r.timerEpoch, r.Phase, seconds)
}

// cancelCountdownLocked stops any outstanding countdown and invalidates
// in-flight tick/expiry deliveries. Caller holds r.mu.
func (r *Room) cancelCountdownLocked() {
	r.timerEpoch++
	if r.timer != nil {
		r.timer.stop()
		r.timer = nil
	}
}

func (r *Room) runCountdown(cd *countdown, epoch uint64, phase models.Phase, seconds int) {
	ticker := time.NewTicker(r.tickEvery)
	defer ticker.Stop()

	remaining := seconds
	for {
		select {
		case <-cd.stopCh:
			return
		case <-ticker.C:
			remaining--
			if remaining > 0 {
				if !r.deliverTick(epoch, phase, remaining) {
					return
				}
				continue
			}
			r.deliverExpiry(epoch, phase)
			return
		}
	}
}

// deliverTick broadcasts remaining time to the room. Returns false when
// the countdown has been superseded and the goroutine should exit.
func (r *Room) deliverTick(epoch uint64, phase models.Phase, remaining int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if epoch != r.timerEpoch {
		return false
	}
	r.broadcastLocked(Event{
		Type:        EventTimerTick,
		Phase:       phase,
		SecondsLeft: remaining,
	}, noExclude)
	return true
}

// deliverExpiry forces the phase transition for an expired countdown.
// Timer-driven transitions are authoritative: once the epoch check
// passes they always succeed.
func (r *Room) deliverExpiry(epoch uint64, phase models.Phase) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if epoch != r.timerEpoch {
		return
	}
	switch phase {
	case models.PhasePlaying:
		r.beginVotingLocked()
	case models.PhaseVoting:
		r.endRoundLocked()
	}
}
