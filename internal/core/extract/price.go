package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	digitRunRe = regexp.MustCompile(`\d+`)
	weeklyRe   = regexp.MustCompile(`(?i)week|\bp\.?\s?/?\s?w\b`)
)

// maxPriceDigits - суммы длиннее семи цифр считаются мусором, цена неизвестна
const maxPriceDigits = 7

// maxPrice - самая большая сумма из семи цифр
const maxPrice = 9999999

// ParsePrice достает месячную цену в евро из свободного текста.
// Возвращает 0, если в тексте нет цифр или сумма неправдоподобно велика.
func ParsePrice(text string) int {
	cleaned := strings.ReplaceAll(text, ",", "")
	runs := digitRunRe.FindAllString(cleaned, -1)
	if len(runs) == 0 || len(runs[0]) > maxPriceDigits {
		return 0
	}

	amount, err := strconv.Atoi(runs[0])
	if err != nil {
		return 0
	}

	// "1 800" или "1.800": разделитель тысяч разбил число на две группы
	if amount < 100 && len(runs) > 1 && len(runs[0])+len(runs[1]) <= maxPriceDigits {
		if joined, err := strconv.Atoi(runs[0] + runs[1]); err == nil {
			amount = joined
		}
	}

	if IsWeekly(text) {
		amount = ToMonthly(amount)
	}
	return amount
}

// IsWeekly сообщает, указан ли в тексте недельный период оплаты
func IsWeekly(text string) bool {
	return weeklyRe.MatchString(text)
}

// ToMonthly переводит недельную сумму в месячную: x4.33 в целых сотых,
// результат округляется до евро половиной вверх (450/нед -> 1949).
// Отрицательная или переполняющая сумма дает 0.
func ToMonthly(weekly int) int {
	if weekly <= 0 || weekly > (math.MaxInt-50)/433 {
		return 0
	}
	return (weekly*433 + 50) / 100
}
