package taste

import (
	"errors"
	"strings"
	"testing"

	"github.com/hoanghai1803/tastemap/internal/models"
)

func TestValidate_DefaultProfile(t *testing.T) {
	p := models.DefaultProfile()
	if err := Validate(&p); err != nil {
		t.Fatalf("Validate(default) error: %v", err)
	}
}

func TestValidate_Profile(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(p *models.PreferenceProfile)
		wantField string
	}{
		{name: "level too low", mutate: func(p *models.PreferenceProfile) { p.SpicyLevel = -1 }, wantField: "spicy_level"},
		{name: "level too high", mutate: func(p *models.PreferenceProfile) { p.SpicyLevel = 11 }, wantField: "spicy_level"},
		{
			name:      "unknown cuisine",
			mutate:    func(p *models.PreferenceProfile) { p.Cuisines = []models.Cuisine{"martian"} },
			wantField: "cuisine_preferences[0]",
		},
		{name: "bad intensity", mutate: func(p *models.PreferenceProfile) { p.SpiceIntensity = "nuclear" }, wantField: "spice_intensity"},
		{name: "bad diet", mutate: func(p *models.PreferenceProfile) { p.DietPreference = "carnivore" }, wantField: "diet_preference"},
		{
			name:      "dislikes too long",
			mutate:    func(p *models.PreferenceProfile) { p.DislikedFoods = strings.Repeat("x", 1001) },
			wantField: "disliked_foods",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := models.DefaultProfile()
			tt.mutate(&p)

			err := Validate(&p)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if len(verr.Fields) != 1 || verr.Fields[0].Field != tt.wantField {
				t.Errorf("fields = %+v, want single %q", verr.Fields, tt.wantField)
			}
		})
	}
}

func TestValidate_AllCuisinesAccepted(t *testing.T) {
	p := models.DefaultProfile()
	p.Cuisines = models.AllCuisines
	if err := Validate(&p); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
}

func TestValidate_NamedProfileRequiresTitle(t *testing.T) {
	np := models.NamedProfile{Profile: models.DefaultProfile()}
	err := Validate(&np)
	if err == nil || !strings.Contains(err.Error(), "title is required") {
		t.Errorf("Validate() error = %v, want title is required", err)
	}
}
