package codec

import "encoding/xml"

// Element - универсальный узел XML документа.
// Кодек строит и разбирает дерево Element, а encoding/xml отвечает только за текст.
type Element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []*Element `xml:",any"`
	Text     string     `xml:",chardata"`
}

// NewElement создает элемент с именем.
func NewElement(name string) *Element {
	return &Element{XMLName: xml.Name{Local: name}}
}

// Name возвращает локальное имя элемента.
func (e *Element) Name() string { return e.XMLName.Local }

// Attr возвращает значение атрибута ("" если его нет).
func (e *Element) Attr(name string) string {
	v, _ := e.LookupAttr(name)
	return v
}

// LookupAttr ищет атрибут по локальному имени.
func (e *Element) LookupAttr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr задает или заменяет атрибут.
func (e *Element) SetAttr(name, value string) {
	for i := range e.Attrs {
		if e.Attrs[i].Name.Local == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

// Add добавляет дочерний элемент и возвращает его.
func (e *Element) Add(child *Element) *Element {
	e.Children = append(e.Children, child)
	return child
}

// Child возвращает первый дочерний элемент с именем или nil.
func (e *Element) Child(name string) *Element {
	for _, c := range e.Children {
		if c.Name() == name {
			return c
		}
	}
	return nil
}
