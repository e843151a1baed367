package domain

import (
	"reflect"
	"strings"

	"github.com/atiaxi/kuiper-sub000/pkg/logger"
)

var log = logger.Component("domain")

// Разделители составного тега "база:номер" или "база/номер".
const (
	DefaultSeparator  = ":"
	DefaultSeparators = ":/"
)

// Object - любой объект игровой модели (корабль, миссия, сектор, условие...).
//
// Конкретные типы встраивают Base (или другой тип каталога) и объявляют
// атрибуты тегами `kui`. Core дает доступ к общей части объекта.
type Object interface {
	Core() *Base
	Playable() bool
}

// PostLoader - необязательный хук, вызывается ровно один раз после полной загрузки.
type PostLoader interface {
	PostLoad()
}

// Copier - необязательный хук глубокого копирования.
// Вызывается на свежем клоне: тип заменяет собственные дочерние объекты копиями
// (корабли флота, груз корабля). Ссылки (владелец, чертеж) остаются общими.
type Copier interface {
	CopyOwned(r *Registry)
}

// Base - общая часть всех объектов: тег и метки.
type Base struct {
	Labels Labels `kui:"labels,size=1x40"`

	tag    string
	loaded bool
}

// Core реализует Object.
func (b *Base) Core() *Base { return b }

// Tag возвращает глобальный тег. Пустая строка - анонимный объект.
func (b *Base) Tag() string { return b.tag }

// HasTag сообщает, зарегистрирован ли объект под тегом.
func (b *Base) HasTag() bool { return b.tag != "" }

// BaseTag возвращает часть тега до первого разделителя.
func (b *Base) BaseTag() string { return BaseTag(b.tag, DefaultSeparators) }

// Playable - базовая проверка полноты: у объекта должен быть тег.
// Типы расширяют ее, вызывая встроенную версию первой.
func (b *Base) Playable() bool { return b.tag != "" }

// HasLabel проверяет наличие метки (без учета регистра и пробелов).
func (b *Base) HasLabel(label string) bool { return b.Labels.Has(label) }

// AddLabel добавляет метку, если ее еще нет.
func (b *Base) AddLabel(label string) { b.Labels = b.Labels.Add(label) }

// SetLabels разбирает строку меток через запятую.
func (b *Base) SetLabels(raw string) { b.Labels = ParseLabels(raw) }

// BaseTag возвращает подстроку tag до первого вхождения любого из разделителей.
func BaseTag(tag, separators string) string {
	if separators == "" {
		separators = DefaultSeparators
	}
	if i := strings.IndexAny(tag, separators); i >= 0 {
		return tag[:i]
	}
	return tag
}

// TagOf безопасно возвращает тег (nil -> "").
func TagOf(o Object) string {
	if IsNil(o) {
		return ""
	}
	return o.Core().tag
}

// IsNil: nil интерфейс или интерфейс с nil указателем внутри ((*Mission)(nil)).
func IsNil(o Object) bool {
	if o == nil {
		return true
	}
	v := reflect.ValueOf(o)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// SetTag регистрирует объект в активном реестре под новым тегом.
func SetTag(o Object, tag string) {
	Active().SetTag(o, tag)
}

// Copy копирует объект через активный реестр.
func Copy(o Object) Object {
	return Active().Copy(o)
}

// As приводит объект к конкретному типу каталога (nil, если не подходит).
func As[T Object](o Object) T {
	v, _ := o.(T)
	return v
}

// AllOf отбирает из списка объекты конкретного типа.
func AllOf[T Object](list []Object) []T {
	out := make([]T, 0, len(list))
	for _, o := range list {
		if v, ok := o.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
