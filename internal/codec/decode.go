package codec

import (
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/atiaxi/kuiper-sub000/internal/domain"
	"github.com/atiaxi/kuiper-sub000/pkg/logger"
	"github.com/sirupsen/logrus"
)

var log = logger.Component("codec")

// suggestThreshold - минимальное сходство для подсказки "возможно, имелось в виду".
const suggestThreshold = 0.5

// Decoder восстанавливает объекты из дерева Element в указанный реестр.
//
// Разбор терпимый: неизвестные типы, атрибуты и дочерние элементы пишутся
// в лог как предупреждения и пропускаются.
type Decoder struct {
	reg *domain.Registry
	log *logrus.Entry
}

// NewDecoder создает декодер, регистрирующий объекты в reg.
func NewDecoder(reg *domain.Registry) *Decoder {
	return &Decoder{
		reg: reg,
		log: log.WithField("subsystem", "decoder"),
	}
}

// Decode разбирает один элемент. nil - элемент пропущен.
func (d *Decoder) Decode(el *Element) domain.Object {
	if el == nil {
		return nil
	}
	if el.Name() == RefElement {
		return d.ref(el.Attr(TagAttr))
	}

	info, ok := domain.LookupType(el.Name())
	if !ok {
		d.warnUnknown("type", el.Name(), "", domain.TypeNames())
		return nil
	}
	o := info.New()

	// 1. XML атрибуты - вызовы сеттеров. Тег регистрирует объект до разбора детей,
	// чтобы циклические ссылки внутри находили его.
	for _, a := range el.Attrs {
		if a.Name.Local == TagAttr {
			d.reg.SetTag(o, a.Value)
			continue
		}
		d.setField(o, a.Name.Local, a.Value)
	}

	// 2. Тело: блоки fields и children. Старые файлы кладут атрибуты прямо в тело.
	for _, child := range el.Children {
		switch child.Name() {
		case FieldsElement:
			for _, f := range child.Children {
				d.setField(o, f.Name(), f.Text)
			}
		case ChildrenElement:
			for _, slot := range child.Children {
				d.fillChild(o, slot)
			}
		default:
			d.loose(o, child)
		}
	}
	return o
}

// ref возвращает зарегистрированный объект или заглушку для ссылки вперед.
func (d *Decoder) ref(tag string) domain.Object {
	if tag == "" {
		d.log.Warn("Reference without tag skipped")
		return nil
	}
	if o := d.reg.Lookup(tag); o != nil {
		return o
	}
	if p := d.reg.Placeholder(tag); p != nil {
		return p
	}
	p := domain.NewPlaceholder(tag)
	d.reg.AddPlaceholder(p)
	d.log.WithField("tag", tag).Debug("Forward reference, placeholder created")
	return p
}

func (d *Decoder) setField(o domain.Object, name, text string) {
	schema := domain.SchemaOf(o)
	attr, ok := schema.Attr(name)
	if !ok {
		d.warnUnknown("attribute", name, domain.TypeNameOf(o), schema.Names())
		return
	}
	if attr.Kind == domain.KindChild {
		d.log.WithFields(logrus.Fields{
			"type": domain.TypeNameOf(o),
			"attr": name,
		}).Warn("Child given as a field value, skipped")
		return
	}
	if err := domain.SetField(o, name, text); err != nil {
		d.log.WithFields(logrus.Fields{
			"type":  domain.TypeNameOf(o),
			"tag":   domain.TagOf(o),
			"attr":  name,
			"value": text,
		}).WithError(err).Warn("Field value skipped")
	}
}

// fillChild разбирает один слот блока children: вложенные объекты или ссылки.
// Список дополняется, одиночный слот перезаписывается.
func (d *Decoder) fillChild(o domain.Object, slot *Element) {
	schema := domain.SchemaOf(o)
	attr, ok := schema.Attr(slot.Name())
	if !ok || attr.Kind != domain.KindChild {
		d.warnUnknown("child", slot.Name(), domain.TypeNameOf(o), schema.Children())
		return
	}

	for _, nested := range slot.Children {
		child := d.Decode(nested)
		if child == nil {
			continue
		}
		var err error
		index := -1
		if attr.List {
			index = len(domain.ChildList(o, attr.Name))
			err = domain.AppendChild(o, attr.Name, child)
		} else {
			err = domain.SetChild(o, attr.Name, child)
		}
		if err != nil {
			d.log.WithError(err).Warn("Child value skipped")
			continue
		}
		if p, ok := child.(*domain.Placeholder); ok {
			p.Attach(o, attr.Name, index)
		}
	}
}

// loose обрабатывает элемент тела вне блоков fields/children по виду атрибута схемы.
func (d *Decoder) loose(o domain.Object, el *Element) {
	attr, ok := domain.SchemaOf(o).Attr(el.Name())
	if !ok {
		d.warnUnknown("element", el.Name(), domain.TypeNameOf(o), domain.SchemaOf(o).Names())
		return
	}
	if attr.Kind == domain.KindChild {
		d.fillChild(o, el)
		return
	}
	d.setField(o, el.Name(), el.Text)
}

func (d *Decoder) warnUnknown(what, name, owner string, known []string) {
	entry := d.log.WithFields(logrus.Fields{
		"kind": what,
		"name": name,
	})
	if owner != "" {
		entry = entry.WithField("type", owner)
	}
	if guess := closest(name, known); guess != "" {
		entry = entry.WithField("suggestion", guess)
	}
	entry.Warn("Unknown name in document, skipped")
}

// closest возвращает наиболее похожее известное имя или "".
func closest(name string, known []string) string {
	metric := metrics.NewLevenshtein()
	best, bestScore := "", suggestThreshold
	for _, k := range known {
		if score := strutil.Similarity(name, k, metric); score >= bestScore {
			best, bestScore = k, score
		}
	}
	return best
}
