// Package stats содержит чистые функции агрегации для страниц аналитики:
// подсчёт и сортировка меток, возрастные корзины и ключевые показатели
// подписок. Функции не ходят в хранилище и не имеют состояния — на вход
// приходят строки, на выход уходят готовые точки для графиков.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/magabrotheeeer/admin-dashboard/internal/lib/labels"
	"github.com/magabrotheeeer/admin-dashboard/internal/models"
)

// topLabelsLimit максимальное число меток в усечённых разбивках.
const topLabelsLimit = 8

// ageBucketNames фиксированный порядок возрастных корзин.
var ageBucketNames = []string{"<18", "18-24", "25-34", "35-44", "45-54", "55+", labels.Unknown}

// CountByLabel считает вхождения уже нормализованных меток и возвращает их
// по убыванию количества. При равенстве счётчиков сохраняется порядок
// первого появления метки: правило не специфицировано строже, важна лишь
// стабильность на одинаковом входе.
func CountByLabel(labelList []string) []models.MetricPoint {
	counts := make(map[string]int, len(labelList))
	var order []string
	for _, l := range labelList {
		if _, seen := counts[l]; !seen {
			order = append(order, l)
		}
		counts[l]++
	}

	points := make([]models.MetricPoint, 0, len(order))
	for _, l := range order {
		points = append(points, models.MetricPoint{Label: l, Count: counts[l]})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Count > points[j].Count
	})
	return points
}

// SourceStats нормализует источник привлечения каждого профиля и возвращает
// разбивку по источникам, отсортированную по убыванию.
func SourceStats(profiles []*models.Profile) []models.SourcePoint {
	labelList := make([]string, 0, len(profiles))
	for _, p := range profiles {
		labelList = append(labelList, labels.Source(labels.FromPtr(p.HearUs)))
	}

	counted := CountByLabel(labelList)
	points := make([]models.SourcePoint, 0, len(counted))
	for _, mp := range counted {
		points = append(points, models.SourcePoint{Source: mp.Label, Count: mp.Count})
	}
	return points
}

// AgeBucketStats раскладывает возрасты по фиксированным корзинам
// <18, 18-24, 25-34, 35-44, 45-54, 55+ и Unknown. Интервалы полуоткрытые
// по целому возрасту, отсутствующий возраст попадает в Unknown.
// Всегда возвращаются все 7 корзин в фиксированном порядке.
func AgeBucketStats(profiles []*models.Profile) []models.MetricPoint {
	points := make([]models.MetricPoint, len(ageBucketNames))
	for i, name := range ageBucketNames {
		points[i] = models.MetricPoint{Label: name}
	}

	for _, p := range profiles {
		points[ageBucketIndex(p.Age)].Count++
	}
	return points
}

func ageBucketIndex(age *int) int {
	if age == nil {
		return len(ageBucketNames) - 1
	}
	switch a := *age; {
	case a < 18:
		return 0
	case a < 25:
		return 1
	case a < 35:
		return 2
	case a < 45:
		return 3
	case a < 55:
		return 4
	default:
		return 5
	}
}

// GoalStats возвращает разбивку по целям: нормализация, сортировка по
// убыванию, корзина Unknown отбрасывается целиком, остаётся не больше
// восьми меток.
func GoalStats(profiles []*models.Profile) []models.MetricPoint {
	labelList := make([]string, 0, len(profiles))
	for _, p := range profiles {
		labelList = append(labelList, labels.Generic(labels.FromPtr(p.Goal)))
	}
	return topKnown(CountByLabel(labelList))
}

// EventTypeStats возвращает разбивку по типам событий подписок по тем же
// правилам, что и GoalStats.
func EventTypeStats(events []*models.SubscriptionEvent) []models.MetricPoint {
	labelList := make([]string, 0, len(events))
	for _, e := range events {
		labelList = append(labelList, labels.Generic(e.EventType))
	}
	return topKnown(CountByLabel(labelList))
}

// topKnown отбрасывает Unknown и усекает разбивку до topLabelsLimit меток.
func topKnown(points []models.MetricPoint) []models.MetricPoint {
	filtered := make([]models.MetricPoint, 0, len(points))
	for _, p := range points {
		if p.Label == labels.Unknown {
			continue
		}
		filtered = append(filtered, p)
	}
	if len(filtered) > topLabelsLimit {
		filtered = filtered[:topLabelsLimit]
	}
	return filtered
}

// SubscriptionKPIs считает ключевые показатели по набору подписок.
// Активной считается подписка с нормализованным статусом Active, новой за
// сегодня — созданная в [начало сегодняшнего дня, начало завтрашнего).
// Конверсия — доля активных подписок от общего числа пользователей в
// процентах с одним знаком после запятой; при нуле пользователей — 0.
func SubscriptionKPIs(subs []*models.Subscription, totalUsers int, now time.Time) models.SubscriptionKPIs {
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrowStart := todayStart.AddDate(0, 0, 1)

	kpis := models.SubscriptionKPIs{Total: len(subs)}
	for _, s := range subs {
		if labels.Generic(s.Status) == "Active" {
			kpis.Active++
		}
		if !s.CreatedAt.Before(todayStart) && s.CreatedAt.Before(tomorrowStart) {
			kpis.TodayNew++
		}
	}

	if totalUsers > 0 {
		rate := float64(kpis.Active) / float64(totalUsers) * 100
		kpis.ConversionRate = math.Round(rate*10) / 10
	}
	return kpis
}
