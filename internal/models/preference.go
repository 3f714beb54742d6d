package models

import "time"

// Cuisine is one of the fixed cuisine styles a profile can select.
type Cuisine string

const (
	CuisineKorean         Cuisine = "korean"
	CuisineChinese        Cuisine = "chinese"
	CuisineJapanese       Cuisine = "japanese"
	CuisineWestern        Cuisine = "western"
	CuisineSoutheastAsian Cuisine = "southeast_asian"
	CuisineIndian         Cuisine = "indian"
)

// AllCuisines lists every cuisine in form display order.
var AllCuisines = []Cuisine{
	CuisineKorean,
	CuisineChinese,
	CuisineJapanese,
	CuisineWestern,
	CuisineSoutheastAsian,
	CuisineIndian,
}

// SpiceIntensity describes how strongly seasoned the user likes food.
type SpiceIntensity string

const (
	SpiceIntensityMild   SpiceIntensity = "mild"
	SpiceIntensityMedium SpiceIntensity = "medium"
	SpiceIntensityStrong SpiceIntensity = "strong"
)

// DietPreference is the user's main diet type.
type DietPreference string

const (
	DietMeat       DietPreference = "meat"
	DietVegetarian DietPreference = "vegetarian"
	DietVegan      DietPreference = "vegan"
)

// DefaultSpicyLevel is the slider position of a fresh profile.
const DefaultSpicyLevel = 5

// PreferenceProfile holds one session's taste preferences. It is passed by
// value from the form handlers to the query builder.
type PreferenceProfile struct {
	SpicyLevel            int            `json:"spicy_level" validate:"min=0,max=10"`
	Cuisines              []Cuisine      `json:"cuisine_preferences" validate:"max=6,dive,oneof=korean chinese japanese western southeast_asian indian"`
	SpiceIntensity        SpiceIntensity `json:"spice_intensity" validate:"omitempty,oneof=mild medium strong"`
	DietPreference        DietPreference `json:"diet_preference" validate:"omitempty,oneof=meat vegetarian vegan"`
	DislikedFoods         string         `json:"disliked_foods" validate:"max=1000"`
	AdditionalPreferences string         `json:"additional_preferences" validate:"max=1000"`
}

// DefaultProfile returns the profile a new session starts with.
func DefaultProfile() PreferenceProfile {
	return PreferenceProfile{
		SpicyLevel:     DefaultSpicyLevel,
		SpiceIntensity: SpiceIntensityMedium,
		DietPreference: DietMeat,
	}
}

// NamedProfile is a profile saved under a user-chosen title.
type NamedProfile struct {
	Title     string            `json:"title" validate:"required,max=100"`
	Profile   PreferenceProfile `json:"profile"`
	Summary   string            `json:"summary"`
	UpdatedAt time.Time         `json:"updated_at"`
}
