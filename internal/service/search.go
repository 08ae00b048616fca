package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/tdorado/ligabot/internal/account"
	"github.com/tdorado/ligabot/internal/league"
	"github.com/tdorado/ligabot/internal/models"
)

const matchThreshold = 0.7

// resolvePlayer finds a player in the unified tournament view, first by exact
// name, then by closest fuzzy match above the similarity threshold.
func resolvePlayer(t *league.Tournament, name string) (*league.Player, error) {
	unified := t.UnifiedPlayers()
	if p, ok := unified[name]; ok {
		return p, nil
	}
	if p := closestMatch(unified, name); p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrPlayerNotFound, name)
}

func closestMatch(unified map[string]*league.Player, name string) *league.Player {
	names := make([]string, 0, len(unified))
	for n := range unified {
		names = append(names, n)
	}
	sort.Strings(names)

	var best *league.Player
	bestSimilarity := matchThreshold
	for _, candidate := range names {
		distance := fuzzy.LevenshteinDistance(strings.ToLower(name), strings.ToLower(candidate))
		maxLen := len(name)
		if len(candidate) > maxLen {
			maxLen = len(candidate)
		}
		if maxLen == 0 {
			continue
		}
		similarity := 1 - float64(distance)/float64(maxLen)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			best = unified[candidate]
		}
	}
	return best
}

// teamOf names the team holding this exact player instance. Shadowed
// same-name players on other teams are skipped by the identity check.
func teamOf(t *league.Tournament, p *league.Player) string {
	for _, team := range t.Teams() {
		if member, ok := team.FindPlayer(p.Name()); ok && member == p {
			return team.Name()
		}
	}
	return ""
}

// searchPlayer resolves a player and collects the enrolled users holding them.
func searchPlayer(admin *account.Administrator, t *league.Tournament, name string) models.WhoHasResult {
	p, err := resolvePlayer(t, name)
	if err != nil {
		return models.WhoHasResult{}
	}

	result := models.WhoHasResult{
		Found:      true,
		PlayerName: p.Name(),
		Points:     p.Points(),
		Price:      p.Price(),
	}
	result.TeamName = teamOf(t, p)
	for _, u := range admin.Users(t.ID()) {
		if u.Owns(t.ID(), p.Name()) {
			result.Owners = append(result.Owners, u.Name())
		}
	}
	sort.Strings(result.Owners)
	return result
}
