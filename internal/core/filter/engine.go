package filter

import (
	"find-a-house/internal/core/domain"
	"fmt"
	"strings"
)

// Engine хранит активные профили поиска и таблицу синонимов районов.
// После создания не изменяется, поэтому безопасен для конкурентного использования.
type Engine struct {
	profiles   []domain.SearchProfile
	aliases    AliasTable
	niceToHave []string
}

// NewEngine оставляет только активные профили и собирает объединение желательных слов
func NewEngine(profiles []domain.SearchProfile, aliases AliasTable) *Engine {
	e := &Engine{aliases: aliases}
	seen := make(map[string]struct{})
	for _, p := range profiles {
		if !p.Active {
			continue
		}
		e.profiles = append(e.profiles, p)
		for _, kw := range p.NiceToHave {
			k := strings.ToLower(strings.TrimSpace(kw))
			if k == "" {
				continue
			}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			e.niceToHave = append(e.niceToHave, k)
		}
	}
	return e
}

// ActiveProfileNames - имена активных профилей в порядке конфигурации
func (e *Engine) ActiveProfileNames() []string {
	names := make([]string, 0, len(e.profiles))
	for _, p := range e.profiles {
		names = append(names, p.Name)
	}
	return names
}

// Match возвращает имя первого подошедшего профиля.
// Если не подошел ни один, возвращается причина отказа первого профиля.
// Без активных профилей подходит любое объявление.
func (e *Engine) Match(listing domain.Listing) (profile string, ok bool, reason string) {
	if len(e.profiles) == 0 {
		return "", true, "no active profiles"
	}

	var firstReason string
	for i, p := range e.profiles {
		res := MatchProfile(listing, p, e.aliases)
		if res.Matched {
			return p.Name, true, ""
		}
		if i == 0 {
			firstReason = fmt.Sprintf("%s: %s", p.Name, res.Reason)
		}
	}
	return "", false, firstReason
}

// MatchesAny - подходит ли объявление хотя бы под один активный профиль
func (e *Engine) MatchesAny(listing domain.Listing) (bool, string) {
	_, ok, reason := e.Match(listing)
	return ok, reason
}

// NiceToHaveScore считает, сколько желательных слов (по всем профилям) есть в объявлении
func (e *Engine) NiceToHaveScore(listing domain.Listing) int {
	text := strings.ToLower(listing.FeatureText())
	score := 0
	for _, kw := range e.niceToHave {
		if strings.Contains(text, kw) {
			score++
		}
	}
	return score
}
