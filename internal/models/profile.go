// Package models содержит доменные структуры админ-панели: профили
// пользователей, подписки, события подписок и производные точки метрик,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Profile представляет профиль пользователя приложения.
// Поля Age, Gender, Goal и HearUs могут отсутствовать — это свободный ввод
// при регистрации. Email используется как внешний ключ для связи с подписками.
type Profile struct {
	ID        string    // Уникальный идентификатор профиля
	Name      string    // Имя пользователя
	Email     string    // Электронная почта
	Age       *int      // Возраст, может отсутствовать
	Gender    *string   // Пол, свободный текст
	Goal      *string   // Цель использования приложения
	HearUs    *string   // Источник привлечения ("откуда узнали")
	IsSpecial bool      // Отметка особого пользователя
	Role      string    // Роль, admin или user
	CreatedAt time.Time // Дата регистрации
}

// ProfilePage страница списка профилей с пагинацией и поиском.
type ProfilePage struct {
	Profiles []*Profile `json:"profiles"`
	Count    int        `json:"count"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
	Search   string     `json:"search"`
}

// DummyProfileEdit используется для приёма данных формы редактирования профиля,
// прежде чем записать их в хранилище.
type DummyProfileEdit struct {
	Name      string  `json:"name" validate:"required"`                 // Имя пользователя
	Email     string  `json:"email" validate:"required,email"`          // Электронная почта
	Age       *int    `json:"age,omitempty" validate:"omitempty,gte=0"` // Возраст
	Gender    *string `json:"gender,omitempty"`                         // Пол
	Goal      *string `json:"goal,omitempty"`                           // Цель
	IsSpecial bool    `json:"is_special"`                               // Отметка особого пользователя
}

// SessionProfile данные профиля текущей сессии для отображения в шапке.
type SessionProfile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
