package game

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/promptfall/promptfall/internal/models"
)

// NoResponsePlaceholder is shown in results for members who never
// submitted this round.
const NoResponsePlaceholder = "no response"

// ScoreDeltas reduces one round's votes to per-target score increments.
// Each recorded vote is worth exactly +1; self-votes never reach this
// function because they are rejected at cast time.
func ScoreDeltas(votes map[uuid.UUID]uuid.UUID) map[uuid.UUID]int {
	deltas := make(map[uuid.UUID]int, len(votes))
	for _, target := range votes {
		deltas[target]++
	}
	return deltas
}

// Rank produces the standings for a round: cumulative score descending,
// ties broken by join order. members must already be in join order; the
// stable sort preserves it.
func Rank(members []*models.Player) []models.RankedResult {
	results := make([]models.RankedResult, 0, len(members))
	for _, p := range members {
		response := p.CurrentResponse
		if !p.HasSubmitted || strings.TrimSpace(response) == "" {
			response = NoResponsePlaceholder
		}
		results = append(results, models.RankedResult{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Response:   response,
			Score:      p.Score,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}
