package configs

import (
	"encoding/json"
	"find-a-house/internal/core/domain"
	"find-a-house/internal/core/port"
	"find-a-house/schemas"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const profileSchemaURL = "https://find-a-house.local/schemas/profiles/v1.json"

// profilesFile - файл профилей: {"profiles": [ ... ]}
type profilesFile struct {
	Profiles []json.RawMessage `json:"profiles"`
}

type profileDTO struct {
	Name          string   `json:"name"`
	Active        *bool    `json:"active"`
	MinPrice      int      `json:"min_price"`
	MaxPrice      *int     `json:"max_price"`
	MinBedrooms   int      `json:"min_bedrooms"`
	MaxBedrooms   *int     `json:"max_bedrooms"`
	Areas         []string `json:"areas"`
	PropertyTypes []string `json:"property_types"`
	MustHave      []string `json:"must_have"`
	NiceToHave    []string `json:"nice_to_have"`
	Exclude       []string `json:"exclude"`
}

func (d profileDTO) toDomain() domain.SearchProfile {
	p := domain.NewSearchProfile(d.Name)
	if d.Active != nil {
		p.Active = *d.Active
	}
	p.MinPrice = d.MinPrice
	if d.MaxPrice != nil {
		p.MaxPrice = *d.MaxPrice
	}
	p.MinBedrooms = d.MinBedrooms
	if d.MaxBedrooms != nil {
		p.MaxBedrooms = *d.MaxBedrooms
	}
	p.Areas = d.Areas
	p.PropertyTypes = d.PropertyTypes
	p.MustHave = d.MustHave
	p.NiceToHave = d.NiceToHave
	p.Exclude = d.Exclude
	return p
}

// compileProfileSchema компилирует встроенную схему профиля
func compileProfileSchema() (*jsonschema.Schema, error) {
	f, err := schemas.FS.Open(schemas.ProfileSchemaV1)
	if err != nil {
		return nil, fmt.Errorf("failed to open schema %s: %w", schemas.ProfileSchemaV1, err)
	}
	defer f.Close()

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(profileSchemaURL, f); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	schema, err := compiler.Compile(profileSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", schemas.ProfileSchemaV1, err)
	}
	return schema, nil
}

// LoadProfiles читает профили поиска из JSON-файла
func LoadProfiles(path string, logger port.LoggerPort) ([]domain.SearchProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read profiles file %s: %w", path, err)
	}
	return ParseProfiles(data, logger)
}

// ParseProfiles проверяет каждый профиль по схеме, затем диапазоны.
// Некорректный профиль пропускается с предупреждением, остальные загружаются.
// Ошибка возвращается, только если сам файл не разбирается.
func ParseProfiles(data []byte, logger port.LoggerPort) ([]domain.SearchProfile, error) {
	schema, err := compileProfileSchema()
	if err != nil {
		return nil, err
	}

	var file profilesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("profiles file is not a valid JSON: %w", err)
	}

	profiles := make([]domain.SearchProfile, 0, len(file.Profiles))
	names := make(map[string]bool)
	for i, raw := range file.Profiles {
		profileLogger := logger.WithFields(port.Fields{"profile_index": i})

		// распарсить JSON в универсальный тип interface{}, затем валидировать по схеме
		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil {
			profileLogger.Warn("Profile is not a valid JSON, skipped", port.Fields{"error": err.Error()})
			continue
		}
		if err := schema.Validate(v); err != nil {
			profileLogger.Warn("Profile failed JSON schema validation, skipped", port.Fields{"error": err.Error()})
			continue
		}

		var dto profileDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			profileLogger.Warn("Profile could not be decoded, skipped", port.Fields{"error": err.Error()})
			continue
		}
		profile := dto.toDomain()
		if err := profile.Validate(); err != nil {
			profileLogger.Warn("Profile is inconsistent, skipped", port.Fields{"error": err.Error()})
			continue
		}
		if names[profile.Name] {
			profileLogger.Warn("Duplicate profile name, skipped", port.Fields{"profile": profile.Name})
			continue
		}
		names[profile.Name] = true
		profiles = append(profiles, profile)
	}

	return profiles, nil
}

// ProfileFromSearch строит профиль из общих подсказок поиска.
// Используется, когда файла профилей нет.
func ProfileFromSearch(name string, criteria domain.SearchCriteria) domain.SearchProfile {
	p := domain.NewSearchProfile(name)
	p.Areas = criteria.Areas
	p.MinPrice = criteria.MinPrice
	if criteria.MaxPrice > 0 {
		p.MaxPrice = criteria.MaxPrice
	}
	if criteria.HasMinBeds() {
		p.MinBedrooms = criteria.MinBeds
	}
	if criteria.HasMaxBeds() {
		p.MaxBedrooms = criteria.MaxBeds
	}
	return p
}
