package taste

import (
	"testing"

	"github.com/hoanghai1803/tastemap/internal/models"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain", in: "강남 떡볶이", want: "강남 떡볶이"},
		{name: "bold", in: "<b>강남</b> 떡볶이", want: "강남 떡볶이"},
		{name: "attributes", in: `<span class="x">Kimchi</span> House`, want: "Kimchi House"},
		{name: "self closing", in: "a<br/>b", want: "ab"},
		{name: "preserves spacing", in: "  <i>x</i>  y ", want: "  x  y "},
		{name: "entities untouched", in: "Tom &amp; <b>Jerry</b>", want: "Tom &amp; Jerry"},
		{name: "lone angle brackets", in: "3 > 2 and 1 <", want: "3 > 2 and 1 <"},
		{name: "nested open", in: "a<<b>c", want: "ac"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripTags(tt.in); got != tt.want {
				t.Errorf("StripTags(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStripTags_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"<b>bold</b>",
		"a<<b>>c",
		"<<x>y>",
		"x<a\n<b>c>",
		"<\n>",
		"<b>서울</b> <b>강남</b>구",
		"unterminated <b",
	}

	for _, in := range inputs {
		once := StripTags(in)
		twice := StripTags(once)
		if once != twice {
			t.Errorf("StripTags not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

func TestNormalizePlace(t *testing.T) {
	in := models.PlaceResult{
		Title:       "<b>Gangnam</b> Tteokbokki",
		Address:     "서울 <b>강남구</b> 역삼동",
		RoadAddress: "서울 <b>강남구</b> 테헤란로 1",
		Link:        "https://example.com/?q=<b>",
		Telephone:   "02-123-4567",
		Category:    "<em>분식</em>",
		Description: "<p>hot</p>",
		Rating:      "4.5",
		Longitude:   127.0276,
		Latitude:    37.4979,
	}

	got := NormalizePlace(in)

	want := models.PlaceResult{
		Title:       "Gangnam Tteokbokki",
		Address:     "서울 강남구 역삼동",
		RoadAddress: "서울 강남구 테헤란로 1",
		Link:        "https://example.com/?q=<b>",
		Telephone:   "02-123-4567",
		Category:    "분식",
		Description: "hot",
		Rating:      "4.5",
		Longitude:   127.0276,
		Latitude:    37.4979,
	}
	if got != want {
		t.Errorf("NormalizePlace() =\n%+v\nwant\n%+v", got, want)
	}
}

func TestNormalizeNewlines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "unix", in: "a\nb", want: "a\nb"},
		{name: "windows", in: "a\r\nb\r\n", want: "a\nb\n"},
		{name: "old mac", in: "a\rb", want: "a\nb"},
		{name: "mixed", in: "a\r\n\rb\n", want: "a\n\nb\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeNewlines(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeNewlines(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := NormalizeNewlines(got); again != got {
				t.Errorf("NormalizeNewlines not idempotent for %q: %q", tt.in, again)
			}
		})
	}
}

func TestNormalizePlace_LineEndings(t *testing.T) {
	in := models.PlaceResult{
		Title:       "<b>강남</b>\r\n떡볶이",
		Description: "<p>hot\r\n</p>sweet\r",
	}

	once := NormalizePlace(in)
	if once.Title != "강남\n떡볶이" {
		t.Errorf("Title = %q, want %q", once.Title, "강남\n떡볶이")
	}
	if once.Description != "hot\nsweet\n" {
		t.Errorf("Description = %q, want %q", once.Description, "hot\nsweet\n")
	}
	if twice := NormalizePlace(once); twice != once {
		t.Errorf("NormalizePlace not idempotent:\nonce  %+v\ntwice %+v", once, twice)
	}
}

func TestNormalizeProfile(t *testing.T) {
	in := models.PreferenceProfile{
		SpicyLevel:            3,
		DislikedFoods:         "새우\r\n굴",
		AdditionalPreferences: "건강식\r\n다이어트",
	}

	got := NormalizeProfile(in)
	if got.DislikedFoods != "새우\n굴" || got.AdditionalPreferences != "건강식\n다이어트" {
		t.Errorf("NormalizeProfile() = %+v", got)
	}
	if got.SpicyLevel != 3 {
		t.Errorf("SpicyLevel = %d, want 3", got.SpicyLevel)
	}
}

func TestNormalizePlaces_DoesNotMutateInput(t *testing.T) {
	in := []models.PlaceResult{{Title: "<b>a</b>"}, {Title: "b"}}
	out := NormalizePlaces(in)

	if in[0].Title != "<b>a</b>" {
		t.Errorf("input mutated: %q", in[0].Title)
	}
	if len(out) != 2 || out[0].Title != "a" || out[1].Title != "b" {
		t.Errorf("NormalizePlaces() = %+v", out)
	}
}
