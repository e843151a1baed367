package domain

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/sirupsen/logrus"
)

// Kind - вид атрибута схемы.
type Kind uint8

const (
	KindField Kind = iota
	KindBool
	KindEnum
	KindChild
)

var kindToString = map[Kind]string{
	KindField: "field",
	KindBool:  "boolean",
	KindEnum:  "enumeration",
	KindChild: "child",
}

// String возвращает строковое представление (для логов и дебага)
func (k Kind) String() string {
	if val, ok := kindToString[k]; ok {
		return val
	}
	return "unknown"
}

// Размер отображения по умолчанию, если тип его не объявил.
const (
	DefaultRows = 1
	DefaultCols = 30
)

// Attr описывает один объявленный атрибут типа.
type Attr struct {
	Name    string
	Kind    Kind
	List    bool     // Только для KindChild: список подобъектов вместо одиночного слота
	Allowed []string // Только для KindEnum
	Rows    int
	Cols    int

	index []int // Путь до поля структуры для reflect.Value.FieldByIndex
}

// Visible сообщает, показывает ли редактор этот атрибут.
// Размер (0,0) скрывает атрибут, но он все равно сериализуется.
func (a *Attr) Visible() bool {
	return a.Rows != 0 || a.Cols != 0
}

// Allows проверяет значение перечисления.
func (a *Attr) Allows(value string) bool {
	for _, v := range a.Allowed {
		if v == value {
			return true
		}
	}
	return false
}

// Schema - декларативные метаданные одного конкретного типа.
//
// Схема замкнута относительно наследования: встроенные (embedded) структуры
// являются предками, их атрибуты идут первыми, затем собственные.
// Потомок может переопределить атрибут предка с тем же именем, но не удалить его.
type Schema struct {
	Type string

	goType reflect.Type
	attrs  []*Attr
	byName map[string]*Attr
}

var (
	objectType      = reflect.TypeOf((*Object)(nil)).Elem()
	objectSliceType = reflect.SliceOf(objectType)
)

func newSchema(name string, t reflect.Type) *Schema {
	s := &Schema{
		Type:   name,
		goType: t,
		byName: make(map[string]*Attr),
	}
	s.collect(t, nil)
	return s
}

// collect обходит поля структуры. Встроенные структуры без тега kui
// раскрываются рекурсивно - так схема наследует атрибуты предков.
func (s *Schema) collect(t reflect.Type, index []int) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		idx := make([]int, len(index)+1)
		copy(idx, index)
		idx[len(index)] = i

		tag, tagged := f.Tag.Lookup("kui")
		if f.Anonymous && !tagged {
			if f.Type.Kind() == reflect.Struct {
				s.collect(f.Type, idx)
			}
			continue
		}
		if !tagged || tag == "-" || !f.IsExported() {
			continue
		}
		s.declare(f, idx, tag)
	}
}

func (s *Schema) declare(f reflect.StructField, idx []int, tag string) {
	parts := strings.Split(tag, ",")
	name := strings.TrimSpace(parts[0])
	if name == "" {
		name = strcase.ToSnake(f.Name)
	}

	attr := &Attr{
		Name:  name,
		Kind:  KindField,
		Rows:  DefaultRows,
		Cols:  DefaultCols,
		index: idx,
	}

	switch {
	case f.Type == objectType:
		attr.Kind = KindChild
	case f.Type == objectSliceType:
		attr.Kind = KindChild
		attr.List = true
	case f.Type.Kind() == reflect.Bool:
		attr.Kind = KindBool
	}

	for _, opt := range parts[1:] {
		key, value, _ := strings.Cut(strings.TrimSpace(opt), "=")
		switch key {
		case "enum":
			attr.Kind = KindEnum
			attr.Allowed = strings.Split(value, "|")
		case "size":
			r, c, _ := strings.Cut(value, "x")
			attr.Rows, _ = strconv.Atoi(r)
			attr.Cols, _ = strconv.Atoi(c)
		}
	}

	if prev, ok := s.byName[name]; ok {
		*prev = *attr
		return
	}
	s.attrs = append(s.attrs, attr)
	s.byName[name] = attr
}

// DeclareEnum превращает строковый атрибут в перечисление с заданным набором значений.
// Повторный вызов заменяет набор.
func (s *Schema) DeclareEnum(name string, allowed ...string) {
	attr, ok := s.byName[name]
	if !ok || attr.Kind == KindChild || attr.Kind == KindBool {
		log.WithFields(logrus.Fields{
			"type": s.Type,
			"attr": name,
		}).Warn("Cannot declare enumeration on this attribute")
		return
	}
	attr.Kind = KindEnum
	attr.Allowed = append([]string(nil), allowed...)
}

// SetDisplaySize задает подсказку для редактора. (0,0) скрывает атрибут.
func (s *Schema) SetDisplaySize(name string, rows, cols int) {
	if attr, ok := s.byName[name]; ok {
		attr.Rows = rows
		attr.Cols = cols
	}
}

// Attr ищет атрибут по имени.
func (s *Schema) Attr(name string) (*Attr, bool) {
	attr, ok := s.byName[name]
	return attr, ok
}

// Attrs возвращает все атрибуты в порядке объявления (предки первыми).
func (s *Schema) Attrs() []*Attr {
	return s.attrs
}

// Names возвращает имена всех атрибутов.
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.attrs))
	for _, a := range s.attrs {
		names = append(names, a.Name)
	}
	return names
}

func (s *Schema) namesOf(kind Kind) []string {
	var names []string
	for _, a := range s.attrs {
		if a.Kind == kind {
			names = append(names, a.Name)
		}
	}
	return names
}

// Fields возвращает скалярные атрибуты.
func (s *Schema) Fields() []string { return s.namesOf(KindField) }

// Booleans возвращает булевы атрибуты.
func (s *Schema) Booleans() []string { return s.namesOf(KindBool) }

// Children возвращает атрибуты-подобъекты.
func (s *Schema) Children() []string { return s.namesOf(KindChild) }

// Enumerations возвращает перечисления вместе с допустимыми значениями.
func (s *Schema) Enumerations() map[string][]string {
	out := make(map[string][]string)
	for _, a := range s.attrs {
		if a.Kind == KindEnum {
			out[a.Name] = append([]string(nil), a.Allowed...)
		}
	}
	return out
}

// DisplaySize возвращает подсказку (rows, cols) для редактора.
func (s *Schema) DisplaySize(name string) (int, int) {
	if attr, ok := s.byName[name]; ok {
		return attr.Rows, attr.Cols
	}
	return 0, 0
}
