package utils

import (
	"regexp"
	"strings"

	"geoQuestAPI/internal/types/challenge"
)

const RecommendedSuffix = " (Recommended)"

var boldTitle = regexp.MustCompile(`\*\*(.*?)\*\*`)

// ExtractBoldTitles returns every **bold** span of an LLM answer, in order.
func ExtractBoldTitles(text string) []string {
	matches := boldTitle.FindAllStringSubmatch(text, -1)
	titles := make([]string, 0, len(matches))
	for _, m := range matches {
		titles = append(titles, m[1])
	}
	return titles
}

// MarkRecommended returns copies of the challenges, suffixing the title of every
// challenge whose title case-insensitively equals one of titles.
func MarkRecommended(challenges []*challenge.Challenge, titles []string) []*challenge.Challenge {
	out := make([]*challenge.Challenge, 0, len(challenges))
	for _, c := range challenges {
		cp := *c
		for _, title := range titles {
			if strings.EqualFold(c.Title, title) {
				cp.Title = c.Title + RecommendedSuffix
				break
			}
		}
		out = append(out, &cp)
	}
	return out
}

// ParseRankedIDs splits a comma separated id list, dropping blanks.
func ParseRankedIDs(text string) []string {
	parts := strings.Split(text, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if id := strings.TrimSpace(p); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// RankByIDs orders challenges by rankedIDs. Ids that match nothing are ignored and
// challenges missing from rankedIDs keep their relative order at the end.
func RankByIDs(challenges []*challenge.Challenge, rankedIDs []string) []*challenge.Challenge {
	byID := make(map[string]*challenge.Challenge, len(challenges))
	for _, c := range challenges {
		byID[c.ID] = c
	}

	ranked := make([]*challenge.Challenge, 0, len(challenges))
	seen := make(map[string]bool, len(challenges))
	for _, id := range rankedIDs {
		if c, ok := byID[id]; ok && !seen[id] {
			ranked = append(ranked, c)
			seen[id] = true
		}
	}

	for _, c := range challenges {
		if !seen[c.ID] {
			ranked = append(ranked, c)
		}
	}

	return ranked
}
