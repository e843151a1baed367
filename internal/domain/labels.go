package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Labels - упорядоченный список свободных меток для широких выборок
// ("pirate", "military"...). В файле хранится одной строкой через запятую.
type Labels []string

// NormalizeLabel приводит метку к каноническому виду: без крайних пробелов,
// внутренние пробелы схлопнуты, нижний регистр.
func NormalizeLabel(label string) string {
	return cases.Lower(language.Und).String(strings.Join(strings.Fields(label), " "))
}

// ParseLabels разбирает строку "a, B ,c" в ["a", "b", "c"]. Дубликаты отбрасываются.
func ParseLabels(raw string) Labels {
	var out Labels
	for _, part := range strings.Split(raw, ",") {
		out = out.Add(part)
	}
	return out
}

// Has проверяет наличие метки.
func (l Labels) Has(label string) bool {
	label = NormalizeLabel(label)
	for _, v := range l {
		if v == label {
			return true
		}
	}
	return false
}

// Add возвращает список с добавленной меткой. Пустые и повторные метки пропускаются.
func (l Labels) Add(label string) Labels {
	label = NormalizeLabel(label)
	if label == "" || l.Has(label) {
		return l
	}
	return append(l, label)
}

// String склеивает метки через запятую.
func (l Labels) String() string {
	return strings.Join(l, ",")
}

// MarshalText реализует encoding.TextMarshaler.
func (l Labels) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText реализует encoding.TextUnmarshaler.
func (l *Labels) UnmarshalText(text []byte) error {
	*l = ParseLabels(string(text))
	return nil
}
