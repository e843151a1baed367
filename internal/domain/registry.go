package domain

import (
	"strconv"
	"strings"

	"github.com/atiaxi/kuiper-sub000/pkg/utils"
	"github.com/sirupsen/logrus"
)

const (
	// tagSuffixRange - диапазон случайного номера в теге "база:номер".
	tagSuffixRange = 10000
	// maxRandomAttempts - после стольких неудачных случайных попыток
	// EnsureUniqueTag переходит на последовательный перебор.
	maxRandomAttempts = 1000
)

// Registry - глобальная карта тег -> объект текущей сессии.
//
// Реестр - единственный владелец помеченных тегом объектов; перекрестные
// ссылки между объектами - это не владение. Доступ однопоточный.
type Registry struct {
	everything   map[string]Object
	order        []string
	reserved     map[string]struct{}
	placeholders map[string]*Placeholder
	root         Object

	rng utils.Source
	log *logrus.Entry
}

// NewRegistry создает пустой реестр. rng == nil - генератор по времени.
func NewRegistry(rng utils.Source) *Registry {
	if rng == nil {
		rng = utils.NewSource(0)
	}
	return &Registry{
		everything:   make(map[string]Object),
		reserved:     make(map[string]struct{}),
		placeholders: make(map[string]*Placeholder),
		rng:          rng,
		log:          log.WithField("subsystem", "registry"),
	}
}

var active = NewRegistry(nil)

// Active возвращает активный реестр процесса.
func Active() *Registry { return active }

// SetActive делает реестр активным и возвращает прежний (удобно для тестов).
func SetActive(r *Registry) *Registry {
	prev := active
	active = r
	return prev
}

// Register вставляет объект под тегом. Повторная регистрация перезаписывает запись.
func (r *Registry) Register(tag string, o Object) {
	if tag == "" || o == nil {
		return
	}
	if prev, exists := r.everything[tag]; exists {
		if prev != o {
			r.log.WithFields(logrus.Fields{
				"tag":  tag,
				"old":  TypeNameOf(prev),
				"new":  TypeNameOf(o),
				"hint": "last write wins",
			}).Debug("Tag registered twice")
		}
	} else {
		r.order = append(r.order, tag)
	}
	r.everything[tag] = o
	delete(r.reserved, tag)
}

// Unregister удаляет запись (например, уничтоженный корабль из порожденного флота).
func (r *Registry) Unregister(tag string) {
	if _, ok := r.everything[tag]; !ok {
		return
	}
	delete(r.everything, tag)
	for i, t := range r.order {
		if t == tag {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Lookup ищет объект по тегу. Заглушки не возвращаются.
func (r *Registry) Lookup(tag string) Object {
	return r.everything[tag]
}

// SetTag присваивает объекту тег и регистрирует его.
// Неизмененный тег - ничего не делает. Старая запись при смене тега не удаляется.
func (r *Registry) SetTag(o Object, tag string) {
	b := o.Core()
	if b.tag == tag && (tag == "" || r.everything[tag] == o) {
		return
	}
	b.tag = tag
	r.Register(tag, o)
}

func (r *Registry) taken(tag string) bool {
	if _, ok := r.everything[tag]; ok {
		return true
	}
	if _, ok := r.reserved[tag]; ok {
		return true
	}
	_, ok := r.placeholders[tag]
	return ok
}

// EnsureUniqueTag возвращает свободный тег на основе base.
//
// Свободный base возвращается как есть. Иначе отрезается старый суффикс после
// разделителя и добавляется sep + случайное число [0, 9999]. Возвращенный тег
// резервируется до регистрации, поэтому повторные вызовы не совпадают.
// Резерв снимает Register под этим тегом; если тег так и не понадобился,
// вызывающий обязан вернуть его через ReleaseTag.
func (r *Registry) EnsureUniqueTag(base, sep string) string {
	if base == "" {
		return ""
	}
	if sep == "" {
		sep = DefaultSeparator
	}
	if !r.taken(base) {
		r.reserved[base] = struct{}{}
		return base
	}

	stem, _, _ := strings.Cut(base, sep)
	for i := 0; i < maxRandomAttempts; i++ {
		candidate := stem + sep + strconv.Itoa(utils.RandomInt(r.rng, tagSuffixRange))
		if !r.taken(candidate) {
			r.reserved[candidate] = struct{}{}
			return candidate
		}
	}
	// Случайный диапазон почти исчерпан: перебираем по порядку, реестр конечен.
	for n := 0; ; n++ {
		candidate := stem + sep + strconv.Itoa(n)
		if !r.taken(candidate) {
			r.reserved[candidate] = struct{}{}
			return candidate
		}
	}
}

// ReleaseTag снимает резерв с тега, выданного EnsureUniqueTag, но не
// зарегистрированного. Для занятого тега ничего не делает.
func (r *Registry) ReleaseTag(tag string) {
	delete(r.reserved, tag)
}

// Everything возвращает все объекты в порядке регистрации.
func (r *Registry) Everything() []Object {
	out := make([]Object, 0, len(r.order))
	for _, tag := range r.order {
		out = append(out, r.everything[tag])
	}
	return out
}

// Len - количество зарегистрированных тегов.
func (r *Registry) Len() int { return len(r.everything) }

// EverythingOfType возвращает объекты ровно указанных типов.
// Подтипы не учитываются: запрос "addon" не вернет "weapon".
func (r *Registry) EverythingOfType(names ...string) []Object {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[normalizeTypeName(n)] = true
	}
	var out []Object
	for _, o := range r.Everything() {
		if want[normalizeTypeName(TypeNameOf(o))] {
			out = append(out, o)
		}
	}
	return out
}

// EverythingWithLabel возвращает объекты с указанной меткой.
func (r *Registry) EverythingWithLabel(label string) []Object {
	return r.EverythingWithLabels(label)
}

// EverythingWithLabels возвращает объекты, у которых есть все указанные метки.
func (r *Registry) EverythingWithLabels(labels ...string) []Object {
	var out []Object
	for _, o := range r.Everything() {
		ok := true
		for _, l := range labels {
			if !o.Core().HasLabel(l) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, o)
		}
	}
	return out
}

// EverythingWithAnyLabel возвращает объекты, чьи метки пересекаются с указанными.
func (r *Registry) EverythingWithAnyLabel(labels ...string) []Object {
	var out []Object
	for _, o := range r.Everything() {
		for _, l := range labels {
			if o.Core().HasLabel(l) {
				out = append(out, o)
				break
			}
		}
	}
	return out
}

// Root возвращает корневой объект (вселенную).
func (r *Registry) Root() Object { return r.root }

// SetRoot задает корневой объект.
func (r *Registry) SetRoot(o Object) { r.root = o }

// Rand возвращает источник случайных чисел реестра.
func (r *Registry) Rand() utils.Source { return r.rng }
