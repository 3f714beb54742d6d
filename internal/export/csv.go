// Package export writes place records and taste profiles as CSV.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hoanghai1803/tastemap/internal/models"
)

// Default file names for exports saved to disk.
const (
	PlacesFileName  = "recommended_places.csv"
	ProfileFileName = "user_taste_preferences.csv"
)

// PlaceHeader is the header row of a places export. Column names match the
// JSON field names of models.PlaceResult.
var PlaceHeader = []string{
	"title", "address", "road_address", "link", "telephone",
	"category", "description", "rating", "longitude", "latitude",
}

// ProfileHeader is the header row of a profile export.
var ProfileHeader = []string{
	"spicy_level", "cuisine_preferences", "spice_intensity",
	"diet_preference", "disliked_foods", "additional_preferences",
}

const cuisineSeparator = ";"

// ErrBadHeader is returned when a CSV does not start with the expected
// header row.
var ErrBadHeader = errors.New("unexpected CSV header")

// WritePlaces writes places as CSV with PlaceHeader as the first row.
func WritePlaces(w io.Writer, places []models.PlaceResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(PlaceHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, p := range places {
		if err := cw.Write(placeRow(p)); err != nil {
			return fmt.Errorf("writing place %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}

func placeRow(p models.PlaceResult) []string {
	return []string{
		p.Title, p.Address, p.RoadAddress, p.Link, p.Telephone,
		p.Category, p.Description, p.Rating,
		formatCoord(p.Longitude), formatCoord(p.Latitude),
	}
}

func formatCoord(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func parseCoord(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// ReadPlaces parses a CSV produced by WritePlaces.
func ReadPlaces(r io.Reader) ([]models.PlaceResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(PlaceHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if !equalHeader(header, PlaceHeader) {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, header)
	}

	var places []models.PlaceResult
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", line, err)
		}

		lng, err := parseCoord(rec[8])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing longitude: %w", line, err)
		}
		lat, err := parseCoord(rec[9])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing latitude: %w", line, err)
		}

		places = append(places, models.PlaceResult{
			Title:       rec[0],
			Address:     rec[1],
			RoadAddress: rec[2],
			Link:        rec[3],
			Telephone:   rec[4],
			Category:    rec[5],
			Description: rec[6],
			Rating:      rec[7],
			Longitude:   lng,
			Latitude:    lat,
		})
	}
	return places, nil
}

// WriteProfile writes a single-row CSV of the profile. Multiple cuisines are
// joined with ";".
func WriteProfile(w io.Writer, p models.PreferenceProfile) error {
	cuisines := make([]string, len(p.Cuisines))
	for i, c := range p.Cuisines {
		cuisines[i] = string(c)
	}

	cw := csv.NewWriter(w)
	rows := [][]string{
		ProfileHeader,
		{
			strconv.Itoa(p.SpicyLevel),
			strings.Join(cuisines, cuisineSeparator),
			string(p.SpiceIntensity),
			string(p.DietPreference),
			p.DislikedFoods,
			p.AdditionalPreferences,
		},
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing profile CSV: %w", err)
	}
	return nil
}

// ReadProfile parses a CSV produced by WriteProfile.
func ReadProfile(r io.Reader) (models.PreferenceProfile, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(ProfileHeader)

	rows, err := cr.ReadAll()
	if err != nil {
		return models.PreferenceProfile{}, fmt.Errorf("reading profile CSV: %w", err)
	}
	if len(rows) != 2 {
		return models.PreferenceProfile{}, fmt.Errorf("reading profile CSV: got %d rows, want 2", len(rows))
	}
	if !equalHeader(rows[0], ProfileHeader) {
		return models.PreferenceProfile{}, fmt.Errorf("%w: %v", ErrBadHeader, rows[0])
	}

	rec := rows[1]
	level, err := strconv.Atoi(rec[0])
	if err != nil {
		return models.PreferenceProfile{}, fmt.Errorf("parsing spicy_level %q: %w", rec[0], err)
	}

	var cuisines []models.Cuisine
	if rec[1] != "" {
		for _, c := range strings.Split(rec[1], cuisineSeparator) {
			cuisines = append(cuisines, models.Cuisine(c))
		}
	}

	return models.PreferenceProfile{
		SpicyLevel:            level,
		Cuisines:              cuisines,
		SpiceIntensity:        models.SpiceIntensity(rec[2]),
		DietPreference:        models.DietPreference(rec[3]),
		DislikedFoods:         rec[4],
		AdditionalPreferences: rec[5],
	}, nil
}

func equalHeader(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		// Spreadsheet tools like to prepend a UTF-8 BOM.
		if strings.TrimPrefix(got[i], "\ufeff") != want[i] {
			return false
		}
	}
	return true
}

// SaveFile writes an export to dir/name through a temp file so a failed
// write never leaves a truncated CSV behind. It returns the final path.
func SaveFile(dir, name string, write func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after successful rename

	if err := write(tmp); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("renaming export to %q: %w", path, err)
	}
	return path, nil
}
