package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/promptfall/promptfall/internal/models"
)

// ChallengeProvider supplies the prompt for a new round. Implementations
// may delegate to an external text-generation service; callers always fall
// back to FallbackChallenge when a provider fails.
type ChallengeProvider interface {
	Next() (models.Challenge, error)
}

// FallbackChallenge is used whenever a provider fails or returns an
// unusable challenge.
var FallbackChallenge = models.Challenge{
	Prompt:           "Write a creative story about a robot learning to love",
	Category:         "Creative",
	TimeLimitSeconds: 30,
}

var defaultChallenges = []models.Challenge{
	{Prompt: "Write a creative story about a robot learning to love", Category: "Creative", TimeLimitSeconds: 45},
	{Prompt: "Explain quantum physics using only food metaphors", Category: "Educational", TimeLimitSeconds: 30},
	{Prompt: "Create a product pitch for an impossible invention", Category: "Business", TimeLimitSeconds: 35},
	{Prompt: "Write a poem about debugging code at 3 AM", Category: "Programming", TimeLimitSeconds: 25},
	{Prompt: "Describe your morning routine as an epic fantasy adventure", Category: "Humor", TimeLimitSeconds: 30},
	{Prompt: "Explain social media to a medieval knight", Category: "Historical", TimeLimitSeconds: 35},
	{Prompt: "Write a motivational speech for vegetables", Category: "Comedy", TimeLimitSeconds: 25},
	{Prompt: "Create a conspiracy theory about why socks disappear", Category: "Creative", TimeLimitSeconds: 30},
	{Prompt: "Describe a day in the life of your phone's battery", Category: "Perspective", TimeLimitSeconds: 35},
	{Prompt: "Write assembly instructions for making friends", Category: "Social", TimeLimitSeconds: 30},
}

// StaticChallengeProvider draws uniformly from a fixed table of prompts.
type StaticChallengeProvider struct {
	mu   sync.Mutex
	rng  *rand.Rand
	pool []models.Challenge
}

func NewStaticChallengeProvider() *StaticChallengeProvider {
	return &StaticChallengeProvider{
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
		pool: defaultChallenges,
	}
}

func (p *StaticChallengeProvider) Next() (models.Challenge, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pool[p.rng.Intn(len(p.pool))], nil
}

// nextChallenge resolves a provider into a usable challenge, applying the
// fail-soft fallback policy.
func nextChallenge(p ChallengeProvider) models.Challenge {
	if p == nil {
		return FallbackChallenge
	}
	ch, err := p.Next()
	if err != nil || ch.Prompt == "" {
		return FallbackChallenge
	}
	if ch.TimeLimitSeconds <= 0 {
		ch.TimeLimitSeconds = FallbackChallenge.TimeLimitSeconds
	}
	return ch
}
