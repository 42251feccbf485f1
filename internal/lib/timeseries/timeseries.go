// Package timeseries строит временные ряды фиксированного размера из списка
// временных меток. Корзины всегда создаются заранее и заполняются нулями,
// порядок — от старых к новым.
package timeseries

import (
	"strconv"
	"time"

	"github.com/magabrotheeeer/admin-dashboard/internal/models"
)

const dayKeyFormat = "2006-01-02"

// dayStart обрезает момент времени до начала локального дня.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// RollingDays строит days дневных корзин за период [now-(days-1) .. now]
// включительно. Ключ корзины — локальная дата YYYY-MM-DD, подпись — короткая
// форма "Jan 2". Метки вне окна и нулевые значения времени не учитываются:
// они не прибавляются к крайним корзинам, а просто пропускаются.
func RollingDays(now time.Time, days int, timestamps []time.Time) []models.GrowthPoint {
	today := dayStart(now)
	points := make([]models.GrowthPoint, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		d := today.AddDate(0, 0, i-(days-1))
		index[d.Format(dayKeyFormat)] = i
		points[i] = models.GrowthPoint{Label: d.Format("Jan 2")}
	}

	for _, ts := range timestamps {
		if ts.IsZero() {
			continue
		}
		key := ts.In(now.Location()).Format(dayKeyFormat)
		if i, ok := index[key]; ok {
			points[i].Count++
		}
	}
	return points
}

// Yearly строит по одной корзине на каждый год от минимального года среди
// валидных меток до текущего года включительно. Если валидных меток нет,
// остаётся одна корзина текущего года. Метки будущих лет пропускаются.
func Yearly(now time.Time, timestamps []time.Time) []models.GrowthPoint {
	currentYear := now.Year()
	minYear := currentYear
	for _, ts := range timestamps {
		if ts.IsZero() {
			continue
		}
		if y := ts.Year(); y < minYear {
			minYear = y
		}
	}

	points := make([]models.GrowthPoint, 0, currentYear-minYear+1)
	for y := minYear; y <= currentYear; y++ {
		points = append(points, models.GrowthPoint{Label: strconv.Itoa(y)})
	}
	for _, ts := range timestamps {
		if ts.IsZero() {
			continue
		}
		if y := ts.Year(); y <= currentYear {
			points[y-minYear].Count++
		}
	}
	return points
}
