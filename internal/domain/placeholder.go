package domain

import (
	"fmt"
	"strings"

	"github.com/atiaxi/kuiper-sub000/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Slot - место, где лежит заглушка: объект-владелец, имя атрибута и индекс (-1 - одиночный слот).
type Slot struct {
	Owner Object
	Attr  string
	Index int
}

func (s Slot) String() string {
	owner := TagOf(s.Owner)
	if owner == "" {
		owner = "<" + TypeNameOf(s.Owner) + ">"
	}
	if s.Index < 0 {
		return fmt.Sprintf("%s.%s", owner, s.Attr)
	}
	return fmt.Sprintf("%s.%s[%d]", owner, s.Attr, s.Index)
}

// Placeholder - заглушка для ссылки вперед: объект с этим тегом еще не встречался.
// Заглушка не попадает в основную карту реестра.
type Placeholder struct {
	Base

	slots []Slot
}

// NewPlaceholder создает заглушку для тега.
func NewPlaceholder(tag string) *Placeholder {
	p := &Placeholder{}
	p.tag = tag
	return p
}

// Playable - заглушка никогда не играбельна.
func (p *Placeholder) Playable() bool { return false }

// Attach запоминает слот, в котором лежит заглушка (для диагностики).
func (p *Placeholder) Attach(owner Object, attr string, index int) {
	p.slots = append(p.slots, Slot{Owner: owner, Attr: attr, Index: index})
}

// Slots возвращает известные слоты заглушки.
func (p *Placeholder) Slots() []Slot { return p.slots }

// IsPlaceholder проверяет, является ли объект заглушкой.
func IsPlaceholder(o Object) bool {
	_, ok := o.(*Placeholder)
	return ok
}

// AddPlaceholder регистрирует заглушку до вызова ResolvePlaceholders.
func (r *Registry) AddPlaceholder(p *Placeholder) {
	r.placeholders[p.tag] = p
}

// Placeholder возвращает неразрешенную заглушку для тега, если она есть.
func (r *Registry) Placeholder(tag string) *Placeholder {
	return r.placeholders[tag]
}

// Placeholders возвращает все неразрешенные заглушки.
func (r *Registry) Placeholders() []*Placeholder {
	out := make([]*Placeholder, 0, len(r.placeholders))
	for _, p := range r.placeholders {
		out = append(out, p)
	}
	return out
}

// ResolvePlaceholders подменяет заглушки настоящими объектами во всех слотах
// всех зарегистрированных объектов (и анонимных объектов внутри них), затем
// вызывает PostLoad у каждого зарегистрированного объекта ровно один раз.
//
// Неразрешимый тег пишется в лог как fatal, но загрузка продолжается:
// слот остается с заглушкой. Возвращает число неразрешенных тегов.
func (r *Registry) ResolvePlaceholders() int {
	unresolved := make(map[string]*Placeholder)
	visited := make(map[Object]bool)
	resolved := 0

	var walk func(o Object)
	walk = func(o Object) {
		if o == nil || visited[o] {
			return
		}
		visited[o] = true
		eachChild(o, func(attr *Attr, index int, child Object) {
			if p, ok := child.(*Placeholder); ok {
				real := r.Lookup(p.tag)
				if real == nil {
					unresolved[p.tag] = p
					return
				}
				replaceChild(o, attr, index, real)
				resolved++
				return
			}
			// Помеченные тегом объекты обходятся сами, анонимные - только через владельца.
			if !child.Core().HasTag() {
				walk(child)
			}
		})
	}

	roots := r.Everything()
	if r.root != nil {
		roots = append([]Object{r.root}, roots...)
	}
	for _, o := range roots {
		walk(o)
	}

	for tag, p := range unresolved {
		slots := make([]string, 0, len(p.slots))
		for _, s := range p.slots {
			slots = append(slots, s.String())
		}
		logger.Fatal(r.log.WithFields(logrus.Fields{
			"tag":   tag,
			"slots": strings.Join(slots, ","),
		}), "Unresolved reference left in place")
	}
	r.placeholders = unresolved

	r.log.WithFields(logrus.Fields{
		"resolved":   resolved,
		"unresolved": len(unresolved),
	}).Debug("Placeholders resolved")

	for _, o := range roots {
		b := o.Core()
		if b.loaded {
			continue
		}
		b.loaded = true
		if pl, ok := o.(PostLoader); ok {
			pl.PostLoad()
		}
	}
	return len(unresolved)
}
