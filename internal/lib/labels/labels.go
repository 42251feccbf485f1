// Package labels приводит свободный текст из анкет пользователей
// к каноническим меткам для группировки на дашборде.
//
// Все функции сначала нормализуют вход: обрезают пробелы по краям,
// схлопывают внутренние пробелы и приводят к нижнему регистру. Пустое
// или отсутствующее значение всегда даёт метку Unknown.
package labels

import (
	"strings"
	"unicode"
)

// Unknown метка для пустых и отсутствующих значений.
const Unknown = "Unknown"

// sourceSynonyms таблица синонимов источников привлечения.
// Ключи — нормализованные варианты написания.
var sourceSynonyms = map[string]string{
	"tiktok":        "TikTok",
	"tik tok":       "TikTok",
	"x":             "X",
	"twitter":       "X",
	"instagram":     "Instagram",
	"insta":         "Instagram",
	"ig":            "Instagram",
	"facebook":      "Facebook",
	"fb":            "Facebook",
	"youtube":       "YouTube",
	"you tube":      "YouTube",
	"yt":            "YouTube",
	"google":        "Google",
	"app store":     "App Store",
	"friend":        "Friends",
	"friends":       "Friends",
	"word of mouth": "Word of Mouth",
}

// genderSynonyms таблица канонических значений пола.
var genderSynonyms = map[string]string{
	"m":          "Male",
	"male":       "Male",
	"f":          "Female",
	"female":     "Female",
	"other":      "Other",
	"non binary": "Other",
	"non-binary": "Other",
}

// canonical обрезает и схлопывает пробелы, приводит к нижнему регистру.
func canonical(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(raw), " "))
}

// titleCase поднимает первую букву каждого слова, остальные символы
// не трогает. Полноценный Unicode title-case здесь намеренно не нужен.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// Source возвращает каноническую метку источника привлечения.
// Известные варианты написания берутся из таблицы синонимов,
// остальные получают title-case по словам.
func Source(raw string) string {
	c := canonical(raw)
	if c == "" {
		return Unknown
	}
	if mapped, ok := sourceSynonyms[c]; ok {
		return mapped
	}
	return titleCase(c)
}

// Gender возвращает каноническую метку пола: Male, Female или Other.
// Нераспознанные значения получают title-case по словам.
func Gender(raw string) string {
	c := canonical(raw)
	if c == "" {
		return Unknown
	}
	if mapped, ok := genderSynonyms[c]; ok {
		return mapped
	}
	return titleCase(c)
}

// Generic возвращает метку для прочих полей: цель, статус, платформа,
// тип события. Таблицы синонимов нет, только title-case.
func Generic(raw string) string {
	c := canonical(raw)
	if c == "" {
		return Unknown
	}
	return titleCase(c)
}

// FromPtr разворачивает опциональное строковое поле анкеты.
func FromPtr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
