package configs

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"find-a-house/internal/core/domain"
	"find-a-house/internal/core/port"
)

type discardLogger struct{ warnings *int }

func (l discardLogger) Info(string, port.Fields)        {}
func (l discardLogger) Warn(string, port.Fields)        { *l.warnings++ }
func (l discardLogger) Error(string, error, port.Fields) {}
func (l discardLogger) Debug(string, port.Fields)       {}
func (l discardLogger) WithFields(port.Fields) port.LoggerPort {
	return l
}

const profilesJSON = `{"profiles": [
  {"name": "city", "max_price": 2200, "min_bedrooms": 1, "areas": ["Dublin 2", "Dublin 8"],
   "exclude": ["house share"], "nice_to_have": ["balcony"]},
  {"name": "broken-range", "min_price": 3000, "max_price": 1000},
  {"name": "typo", "max_prise": 1000},
  {"max_price": 1000},
  {"name": "paused", "active": false},
  {"name": "city"}
]}`

func TestParseProfilesSkipsInvalidEntries(t *testing.T) {
	warnings := 0
	got, err := ParseProfiles([]byte(profilesJSON), discardLogger{&warnings})
	if err != nil {
		t.Fatalf("ParseProfiles: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d profiles; want city and paused", len(got))
	}
	if warnings != 4 {
		t.Errorf("warnings = %d; want 4 (range, unknown key, missing name, duplicate)", warnings)
	}

	city := got[0]
	if city.Name != "city" || !city.Active || city.MaxPrice != 2200 || city.MinBedrooms != 1 {
		t.Errorf("city = %+v", city)
	}
	if city.MaxBedrooms != math.MaxInt {
		t.Errorf("max bedrooms default = %d; want no limit", city.MaxBedrooms)
	}
	if !reflect.DeepEqual(city.Areas, []string{"Dublin 2", "Dublin 8"}) {
		t.Errorf("areas = %v", city.Areas)
	}
	if got[1].Active {
		t.Error("paused profile must stay inactive")
	}
}

func TestParseProfilesRejectsMalformedFile(t *testing.T) {
	warnings := 0
	if _, err := ParseProfiles([]byte(`{"profiles": [`), discardLogger{&warnings}); err == nil {
		t.Error("expected error for truncated file")
	}
}

func TestLoadProfilesMissingFile(t *testing.T) {
	warnings := 0
	_, err := LoadProfiles(filepath.Join(t.TempDir(), "absent.json"), discardLogger{&warnings})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v; want not-exist", err)
	}
}

func TestProfileFromSearch(t *testing.T) {
	c := domain.NewSearchCriteria()
	c.Areas = []string{"Ranelagh"}
	c.MaxPrice = 2000
	c.MinBeds = 0

	p := ProfileFromSearch("default", c)
	if p.MaxPrice != 2000 || p.MinBedrooms != 0 || p.MaxBedrooms != math.MaxInt || p.Areas[0] != "Ranelagh" {
		t.Errorf("profile = %+v", p)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("profile from search hints must be valid: %v", err)
	}
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("RABBITMQ_ENABLED", "false")
	t.Setenv("SCHEDULE_INTERVAL_MINUTES", "15")
	t.Setenv("SOURCE_TIMEOUT_SECONDS", "30")
	t.Setenv("QUIET_HOURS_ENABLED", "true")
	t.Setenv("QUIET_HOURS_START", "22:30")
	t.Setenv("QUIET_HOURS_END", "06:00")
	t.Setenv("DAFT_ENABLED", "false")
	t.Setenv("RENTIE_INCLUDE_ROOMS", "true")
	t.Setenv("SEARCH_AREAS", "Dublin 8, ,Harold's Cross")
	t.Setenv("SEARCH_MAX_PRICE", "2400")
	t.Setenv("SEARCH_MIN_BEDS", "not-a-number")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Schedule.IntervalMinutes != 15 || cfg.Schedule.SourceTimeout != 30*time.Second {
		t.Errorf("schedule = %+v", cfg.Schedule)
	}
	if !cfg.Schedule.QuietHours.Enabled || cfg.Schedule.QuietHours.Start != 22*time.Hour+30*time.Minute {
		t.Errorf("quiet hours = %+v", cfg.Schedule.QuietHours)
	}
	if cfg.Daft.Enabled || !cfg.MyHome.Enabled || !cfg.RentIE.IncludeRooms {
		t.Errorf("sources = %+v / %+v / %+v", cfg.Daft, cfg.MyHome, cfg.RentIE)
	}
	if !reflect.DeepEqual(cfg.Search.Areas, []string{"Dublin 8", "Harold's Cross"}) {
		t.Errorf("areas = %v", cfg.Search.Areas)
	}
	if cfg.Search.MaxPrice != 2400 || cfg.Search.MinBeds != domain.NoBedroomLimit {
		t.Errorf("search = %+v", cfg.Search)
	}
}

func TestLoadConfigRejectsBadQuietHours(t *testing.T) {
	t.Setenv("QUIET_HOURS_ENABLED", "true")
	t.Setenv("QUIET_HOURS_START", "late")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("expected error for invalid quiet hours")
	}
}
