package codec

import (
	"github.com/atiaxi/kuiper-sub000/internal/domain"
	"github.com/atiaxi/kuiper-sub000/internal/version"
	"github.com/sirupsen/logrus"
)

// Имена служебных элементов формата.
const (
	FieldsElement   = "fields"
	ChildrenElement = "children"
	RefElement      = "ref"
	TagAttr         = "tag"
)

// Encoder - одна сессия кодирования.
//
// Помеченный объект выводится целиком только при первой встрече,
// дальше - как <ref tag="...">. Сессия живет, пока живет Encoder.
type Encoder struct {
	emitted map[domain.Object]bool
	active  map[domain.Object]bool
}

// NewEncoder начинает новую сессию кодирования.
func NewEncoder() *Encoder {
	return &Encoder{
		emitted: make(map[domain.Object]bool),
		active:  make(map[domain.Object]bool),
	}
}

// ToXML кодирует объект в отдельной сессии: результат самодостаточен.
func ToXML(o domain.Object) *Element {
	return NewEncoder().Encode(o)
}

// Encode кодирует объект в рамках текущей сессии. nil -> nil.
func (enc *Encoder) Encode(o domain.Object) *Element {
	if o == nil {
		return nil
	}
	tag := domain.TagOf(o)
	if p, ok := o.(*domain.Placeholder); ok {
		return refElement(p.Tag())
	}
	if tag != "" && enc.emitted[o] {
		return refElement(tag)
	}
	if enc.active[o] {
		// Анонимный объект ссылается сам на себя - сослаться не на что.
		log.WithField("type", domain.TypeNameOf(o)).Warn("Skipping cyclic anonymous object")
		return nil
	}

	el := NewElement(domain.TypeNameOf(o))
	if tag != "" {
		el.SetAttr(TagAttr, tag)
		enc.emitted[o] = true
	}
	enc.active[o] = true
	defer delete(enc.active, o)

	fields := el.Add(NewElement(FieldsElement))
	children := el.Add(NewElement(ChildrenElement))

	for _, attr := range domain.SchemaOf(o).Attrs() {
		if attr.Kind != domain.KindChild {
			value, _ := domain.GetField(o, attr.Name)
			f := NewElement(attr.Name)
			f.Text = value
			fields.Add(f)
			continue
		}

		slot := children.Add(NewElement(attr.Name))
		if !attr.List {
			if child := enc.Encode(domain.Child(o, attr.Name)); child != nil {
				slot.Add(child)
			}
			continue
		}
		for _, member := range domain.ChildList(o, attr.Name) {
			if child := enc.Encode(member); child != nil {
				slot.Add(child)
			}
		}
	}
	return el
}

// EncodeRegistry выгружает весь реестр в обертке <kuiper>: сначала корень,
// затем все помеченные объекты, еще не выведенные внутри корня.
// Одна сессия на весь дамп, поэтому каждый объект выводится целиком ровно один раз.
func EncodeRegistry(reg *domain.Registry) *Element {
	doc := NewElement(version.DocumentElement)
	for name, value := range version.Current.Attrs() {
		doc.SetAttr(name, value)
	}
	// Порядок атрибутов стабилен для сравнения файлов.
	doc.Attrs = sortedAttrs(doc.Attrs, "major", "minor", "bug")

	enc := NewEncoder()
	if root := reg.Root(); root != nil {
		doc.Add(enc.Encode(root))
	}
	written := 0
	for _, o := range reg.Everything() {
		if enc.emitted[o] {
			continue
		}
		if el := enc.Encode(o); el != nil {
			doc.Add(el)
			written++
		}
	}

	log.WithFields(logrus.Fields{
		"objects":  reg.Len(),
		"detached": written,
		"format":   version.Current.String(),
	}).Debug("Registry encoded")
	return doc
}

func refElement(tag string) *Element {
	ref := NewElement(RefElement)
	ref.SetAttr(TagAttr, tag)
	return ref
}
