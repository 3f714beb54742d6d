// Package taste turns a preference profile into a place-search query and
// cleans the records that come back.
package taste

import (
	"strings"

	"github.com/hoanghai1803/tastemap/internal/models"
)

// SpiceDescriptor is the qualitative bucket for a spicy level.
type SpiceDescriptor int

const (
	SpiceMild SpiceDescriptor = iota
	SpiceMedium
	SpiceSpicy
)

const (
	mildMaxLevel  = 3
	spicyMinLevel = 7
)

// SpiceDescriptorFor maps a 0..10 spicy level to its descriptor: 3 or below
// is mild, 7 or above is spicy, anything in between is medium.
func SpiceDescriptorFor(level int) SpiceDescriptor {
	switch {
	case level <= mildMaxLevel:
		return SpiceMild
	case level >= spicyMinLevel:
		return SpiceSpicy
	default:
		return SpiceMedium
	}
}

// Locale selects the language of descriptor and cuisine labels.
type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleKorean  Locale = "ko"
)

var spiceLabels = map[Locale][3]string{
	LocaleEnglish: {"mild", "medium", "spicy"},
	LocaleKorean:  {"맵지 않은", "적당한 매운맛", "매운"},
}

var cuisineLabels = map[Locale]map[models.Cuisine]string{
	LocaleEnglish: {
		models.CuisineKorean:         "Korean",
		models.CuisineChinese:        "Chinese",
		models.CuisineJapanese:       "Japanese",
		models.CuisineWestern:        "Western",
		models.CuisineSoutheastAsian: "Southeast Asian",
		models.CuisineIndian:         "Indian",
	},
	LocaleKorean: {
		models.CuisineKorean:         "한식",
		models.CuisineChinese:        "중식",
		models.CuisineJapanese:       "일식",
		models.CuisineWestern:        "양식",
		models.CuisineSoutheastAsian: "동남아 음식",
		models.CuisineIndian:         "인도 음식",
	},
}

var queryKeywords = map[Locale]string{
	LocaleEnglish: "restaurant",
	LocaleKorean:  "맛집",
}

// DefaultCuisine is used when a profile has no cuisine selected.
const DefaultCuisine = models.CuisineKorean

func normalizeLocale(l Locale) Locale {
	if _, ok := spiceLabels[l]; ok {
		return l
	}
	return LocaleEnglish
}

// Label returns the descriptor text for the locale. Unknown locales fall
// back to English.
func (d SpiceDescriptor) Label(l Locale) string {
	labels := spiceLabels[normalizeLocale(l)]
	if d < SpiceMild || d > SpiceSpicy {
		d = SpiceMedium
	}
	return labels[d]
}

func (d SpiceDescriptor) String() string {
	return d.Label(LocaleEnglish)
}

// CuisineLabel joins the display names of the selected cuisines. An empty
// selection yields the default cuisine. Unknown values are used verbatim.
func CuisineLabel(cuisines []models.Cuisine, l Locale) string {
	labels := cuisineLabels[normalizeLocale(l)]
	if len(cuisines) == 0 {
		return labels[DefaultCuisine]
	}
	parts := make([]string, 0, len(cuisines))
	for _, c := range cuisines {
		if label, ok := labels[c]; ok {
			parts = append(parts, label)
			continue
		}
		if s := strings.TrimSpace(string(c)); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return labels[DefaultCuisine]
	}
	return strings.Join(parts, " ")
}

// QueryOrder decides where the address goes in the query.
type QueryOrder string

const (
	// OrderAddressFirst yields "<address> <descriptor> <cuisine>".
	OrderAddressFirst QueryOrder = "address_first"
	// OrderTasteFirst yields "<descriptor> <cuisine> <address>".
	OrderTasteFirst QueryOrder = "taste_first"
)

// QueryOptions tunes BuildQuery. The zero value builds an address-first
// English query with no trailing keyword.
type QueryOptions struct {
	Order   QueryOrder
	Locale  Locale
	Keyword bool
}

// BuildQuery derives the free-text place-search query for a profile and
// address. Empty parts are dropped and whitespace is collapsed, so the result
// is never empty while the address is not.
func BuildQuery(profile models.PreferenceProfile, address string, opts QueryOptions) string {
	locale := normalizeLocale(opts.Locale)
	taste := []string{
		SpiceDescriptorFor(profile.SpicyLevel).Label(locale),
		CuisineLabel(profile.Cuisines, locale),
	}

	var parts []string
	switch opts.Order {
	case OrderTasteFirst:
		parts = append(taste, address)
	default:
		parts = append([]string{address}, taste...)
	}
	if opts.Keyword {
		parts = append(parts, queryKeywords[locale])
	}

	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// Summary renders a saved profile as "<title>: <descriptor> <cuisine>".
func Summary(title string, profile models.PreferenceProfile, l Locale) string {
	desc := SpiceDescriptorFor(profile.SpicyLevel).Label(l)
	return strings.TrimSpace(title) + ": " + desc + " " + CuisineLabel(profile.Cuisines, l)
}
