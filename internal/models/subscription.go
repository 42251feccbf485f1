package models

import "time"

// Subscription представляет запись подписки пользователя.
// Статус хранится открытой строкой, в этом слое используются значения
// active и expired. Продление никогда не укорачивает действующий период:
// новая дата окончания считается от max(now, CurrentPeriodEnd).
type Subscription struct {
	ID                 string    // Уникальный идентификатор подписки
	UserID             string    // Идентификатор профиля владельца
	ProductID          string    // Код тарифа: weekly, monthly, yearly
	Platform           string    // Платформа оформления, свободный текст
	Status             string    // Статус: active или expired
	Provider           string    // Источник подписки, manual для ручных
	AutoRenew          bool      // Автопродление
	CurrentPeriodStart time.Time // Начало текущего периода
	CurrentPeriodEnd   time.Time // Окончание текущего периода
	CreatedAt          time.Time // Дата создания записи
}

// SubscriptionRow строка списка подписок вместе с данными владельца,
// результат соединения с таблицей профилей.
type SubscriptionRow struct {
	Subscription
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// SubscriptionEvent событие жизненного цикла подписки. Журнал событий
// пополняется внешней системой, этот слой его только читает.
type SubscriptionEvent struct {
	EventType string    // Тип события, свободный текст
	CreatedAt time.Time // Момент события
}

// DummySubscriptionCreate используется для приёма данных формы создания
// подписки. Тариф проверяется по закрытому списку значений.
type DummySubscriptionCreate struct {
	Email    string `json:"email" validate:"required,email"`                      // Почта владельца
	Plan     string `json:"plan" validate:"required,oneof=weekly monthly yearly"` // Тариф
	Platform string `json:"platform" validate:"required"`                         // Платформа
}

// DummySubscriptionUpdate используется для приёма данных формы изменения
// подписки: тариф и платформа перезаписываются безусловно.
type DummySubscriptionUpdate struct {
	Plan     string `json:"plan" validate:"required,oneof=weekly monthly yearly"` // Тариф
	Platform string `json:"platform" validate:"required"`                         // Платформа
}
