package domain

// NoBedroomLimit - граница по спальням не задана
const NoBedroomLimit = -1

// SearchCriteria - подсказки для серверного поиска источника.
// Сужают выдачу на стороне сайта, окончательное решение принимает движок фильтрации.
type SearchCriteria struct {
	Areas    []string
	MinPrice int // 0 - без ограничения
	MaxPrice int // 0 - без ограничения
	// 0 - студия, NoBedroomLimit - без ограничения
	MinBeds int
	MaxBeds int

	// Пагинация
	Page int
}

// NewSearchCriteria возвращает критерии без ограничений
func NewSearchCriteria() SearchCriteria {
	return SearchCriteria{MinBeds: NoBedroomLimit, MaxBeds: NoBedroomLimit, Page: 1}
}

// WithPage возвращает копию критериев для указанной страницы
func (c SearchCriteria) WithPage(page int) SearchCriteria {
	c.Page = page
	return c
}

func (c SearchCriteria) HasMinBeds() bool { return c.MinBeds >= 0 }
func (c SearchCriteria) HasMaxBeds() bool { return c.MaxBeds >= 0 }
