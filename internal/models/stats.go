package models

import "time"

// MetricPoint пара «метка — количество» для группировок и графиков.
type MetricPoint struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// SourcePoint пара «источник привлечения — количество».
type SourcePoint struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// GrowthPoint точка временного ряда регистраций.
type GrowthPoint struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// SubscriptionKPIs ключевые показатели по подпискам.
type SubscriptionKPIs struct {
	Total          int     `json:"total"`           // Всего подписок
	Active         int     `json:"active"`          // Активных подписок
	TodayNew       int     `json:"today_new"`       // Создано сегодня
	ConversionRate float64 `json:"conversion_rate"` // Активные / всего пользователей, %
}

// DashboardStats данные главной страницы дашборда.
type DashboardStats struct {
	TodayCount  int           `json:"today_count"`
	TotalUsers  int           `json:"total_users"`
	SourceStats []SourcePoint `json:"source_stats"`
	DailyStats  []GrowthPoint `json:"daily_stats"`
}

// AnalyticsStats данные страницы аналитики: производные агрегаты,
// собираемые заново на каждый запрос и нигде не сохраняемые.
type AnalyticsStats struct {
	Sources       []SourcePoint    `json:"sources"`
	AgeBuckets    []MetricPoint    `json:"age_buckets"`
	Goals         []MetricPoint    `json:"goals"`
	EventTypes    []MetricPoint    `json:"event_types"`
	Genders       []MetricPoint    `json:"genders"`
	Platforms     []MetricPoint    `json:"platforms"`
	Statuses      []MetricPoint    `json:"statuses"`
	SignupsDaily  []GrowthPoint    `json:"signups_daily"`
	SignupsYearly []GrowthPoint    `json:"signups_yearly"`
	KPIs          SubscriptionKPIs `json:"kpis"`
}

// AuditEvent запись о действии администратора, публикуемая в очередь аудита.
type AuditEvent struct {
	Action     string    `json:"action"`      // Название действия
	ActorEmail string    `json:"actor_email"` // Почта администратора
	SubjectID  string    `json:"subject_id"`  // Идентификатор затронутой записи
	OccurredAt time.Time `json:"occurred_at"` // Момент действия
}
