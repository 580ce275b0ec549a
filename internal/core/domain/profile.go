package domain

import (
	"fmt"
	"math"
)

// SearchProfile - именованный набор критериев поиска.
// Внутри профиля критерии объединяются через И, между профилями - через ИЛИ.
type SearchProfile struct {
	Name          string
	Active        bool
	MinPrice      int
	MaxPrice      int
	MinBedrooms   int
	MaxBedrooms   int
	Areas         []string
	PropertyTypes []string
	MustHave      []string
	NiceToHave    []string
	Exclude       []string
}

// NewSearchProfile возвращает активный профиль без ограничений по цене и спальням
func NewSearchProfile(name string) SearchProfile {
	return SearchProfile{
		Name:        name,
		Active:      true,
		MaxPrice:    math.MaxInt,
		MaxBedrooms: math.MaxInt,
	}
}

// Validate проверяет согласованность диапазонов
func (p SearchProfile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	if p.MinPrice < 0 || p.MinBedrooms < 0 {
		return fmt.Errorf("profile %q: negative lower bound", p.Name)
	}
	if p.MinPrice > p.MaxPrice {
		return fmt.Errorf("profile %q: min price %d is greater than max price %d", p.Name, p.MinPrice, p.MaxPrice)
	}
	if p.MinBedrooms > p.MaxBedrooms {
		return fmt.Errorf("profile %q: min bedrooms %d is greater than max bedrooms %d", p.Name, p.MinBedrooms, p.MaxBedrooms)
	}
	return nil
}
