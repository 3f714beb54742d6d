package taste

import (
	"regexp"
	"strings"

	"github.com/hoanghai1803/tastemap/internal/models"
)

var tagRe = regexp.MustCompile(`<.*?>`)

// StripTags removes every "<...>" substring from s and leaves the rest
// untouched. Entities are not decoded.
func StripTags(s string) string {
	if s == "" {
		return s
	}
	return tagRe.ReplaceAllString(s, "")
}

var newlineReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// NormalizeNewlines rewrites "\r\n" and lone "\r" as "\n". CSV readers
// return "\n" for both, so text stored this way survives an export round trip.
func NormalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	return newlineReplacer.Replace(s)
}

func normalizeText(s string) string {
	return NormalizeNewlines(StripTags(s))
}

// NormalizePlace strips markup from the text fields of a place record and
// unifies their line endings. Link, telephone, rating and coordinates pass
// through unchanged.
func NormalizePlace(p models.PlaceResult) models.PlaceResult {
	p.Title = normalizeText(p.Title)
	p.Address = normalizeText(p.Address)
	p.RoadAddress = normalizeText(p.RoadAddress)
	p.Category = normalizeText(p.Category)
	p.Description = normalizeText(p.Description)
	return p
}

// NormalizeProfile unifies line endings in the free-text profile fields.
// Browsers submit textarea content with "\r\n".
func NormalizeProfile(p models.PreferenceProfile) models.PreferenceProfile {
	p.DislikedFoods = NormalizeNewlines(p.DislikedFoods)
	p.AdditionalPreferences = NormalizeNewlines(p.AdditionalPreferences)
	return p
}

// NormalizePlaces returns a normalized copy of places in the same order.
func NormalizePlaces(places []models.PlaceResult) []models.PlaceResult {
	out := make([]models.PlaceResult, len(places))
	for i, p := range places {
		out[i] = NormalizePlace(p)
	}
	return out
}
