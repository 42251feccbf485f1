// Package plan описывает тарифы подписок и расчёт дат продления.
//
// Тариф — закрытый список значений. Неизвестный тариф — ошибка валидации,
// а не тихий откат к месячному: в этом расходились две версии исходных
// обработчиков, каноничным выбран строгий вариант.
package plan

import (
	"errors"
	"time"
)

// Plan код тарифа подписки, определяющий длину продления.
type Plan string

const (
	// Weekly недельный тариф, +7 дней.
	Weekly Plan = "weekly"
	// Monthly месячный тариф, +1 календарный месяц.
	Monthly Plan = "monthly"
	// Yearly годовой тариф, +12 календарных месяцев.
	Yearly Plan = "yearly"
)

// ErrUnknownPlan возвращается для значения вне закрытого списка тарифов.
var ErrUnknownPlan = errors.New("unknown plan")

// Parse проверяет сырое значение тарифа по закрытому списку.
func Parse(raw string) (Plan, error) {
	switch p := Plan(raw); p {
	case Weekly, Monthly, Yearly:
		return p, nil
	default:
		return "", ErrUnknownPlan
	}
}

// Extend возвращает дату окончания периода, отсчитанную от anchor.
//
// Месяцы добавляются по правилам time.AddDate с нормализацией переполнения:
// 31 января + 1 месяц даёт 2 или 3 марта. Это принятое и проверенное тестами
// поведение, а не скрытая особенность календаря.
func (p Plan) Extend(anchor time.Time) time.Time {
	switch p {
	case Weekly:
		return anchor.AddDate(0, 0, 7)
	case Yearly:
		return anchor.AddDate(0, 12, 0)
	default:
		return anchor.AddDate(0, 1, 0)
	}
}

// Anchor возвращает точку отсчёта продления: конец текущего периода, если он
// строго в будущем, иначе текущий момент. Продление никогда не укорачивает
// действующий период.
func Anchor(now, currentPeriodEnd time.Time) time.Time {
	if currentPeriodEnd.After(now) {
		return currentPeriodEnd
	}
	return now
}
