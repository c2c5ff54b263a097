package game

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// AssistProvider generates a suggested response for a player who asks for
// help with the current challenge. Implementations may call an external
// text-generation service.
type AssistProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var cannedAssists = []string{
	"In a world where creativity meets technology, the impossible becomes possible through the power of imagination.",
	"Like a symphony of ideas dancing in digital harmony, this concept transforms the ordinary into extraordinary.",
	"Through the lens of innovation, we discover that every challenge is merely an opportunity wearing a clever disguise.",
	"In the grand theater of possibility, even the most mundane topics can steal the spotlight with the right perspective.",
	"Where logic meets whimsy, brilliant solutions emerge from the beautiful chaos of human creativity.",
}

// CannedAssistProvider serves pre-written suggestions. It is both the
// default provider and the fallback when a real provider errors.
type CannedAssistProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewCannedAssistProvider() *CannedAssistProvider {
	return &CannedAssistProvider{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (p *CannedAssistProvider) Generate(ctx context.Context, prompt string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cannedAssists[p.rng.Intn(len(cannedAssists))], nil
}

var fallbackAssist = NewCannedAssistProvider()

// SafeAssist resolves a provider into a suggestion string. Provider
// failures never propagate: a canned line is returned instead.
func SafeAssist(ctx context.Context, p AssistProvider, prompt string) string {
	if p == nil {
		p = fallbackAssist
	}
	out, err := p.Generate(ctx, prompt)
	if err != nil || strings.TrimSpace(out) == "" {
		out, _ = fallbackAssist.Generate(ctx, prompt)
	}
	return out
}
