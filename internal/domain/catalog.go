package domain

import (
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"
)

// Factory создает экземпляр типа со значениями по умолчанию.
type Factory func() Object

// TypeInfo - запись каталога: имя типа, конструктор и схема.
type TypeInfo struct {
	Name   string
	New    Factory
	Schema *Schema

	goType reflect.Type
	setup  []func(*Schema)
}

// Каталог типов заполняется явно при старте (init() пакетов с сущностями),
// а не через неявные хуки наследования.
var (
	typesByName = make(map[string]*TypeInfo)
	typesByGo   = make(map[reflect.Type]*TypeInfo)
	typeNames   []string

	// Схемы для незарегистрированных типов (служебные, тестовые).
	adhocSchemas = make(map[reflect.Type]*Schema)
)

// Register добавляет тип в каталог.
// name - имя XML элемента (нижний регистр, без доменного префикса).
// setup дополняет схему программно (DeclareEnum, SetDisplaySize);
// setup предков применяется к потомкам автоматически.
func Register(name string, factory Factory, setup ...func(*Schema)) *TypeInfo {
	sample := factory()
	t := reflect.TypeOf(sample).Elem()

	info := &TypeInfo{
		Name:   name,
		New:    factory,
		goType: t,
		setup:  setup,
	}
	info.Schema = newSchema(name, t)
	for _, anc := range ancestorsOf(t) {
		for _, fn := range anc.setup {
			fn(info.Schema)
		}
	}
	for _, fn := range setup {
		fn(info.Schema)
	}

	key := normalizeTypeName(name)
	if _, exists := typesByName[key]; !exists {
		typeNames = append(typeNames, name)
	}
	typesByName[key] = info
	typesByGo[t] = info
	return info
}

// ancestorsOf возвращает зарегистрированные встроенные типы, от дальних к ближним.
func ancestorsOf(t reflect.Type) []*TypeInfo {
	var out []*TypeInfo
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous || f.Type.Kind() != reflect.Struct {
			continue
		}
		out = append(out, ancestorsOf(f.Type)...)
		if info, ok := typesByGo[f.Type]; ok {
			out = append(out, info)
		}
	}
	return out
}

// normalizeTypeName: "KuiFlagCondition", "flag_condition", "flagcondition" -> "flagcondition".
func normalizeTypeName(name string) string {
	key := strings.ToLower(strcase.ToCamel(name))
	return strings.TrimPrefix(key, "kui")
}

// LookupType ищет тип по имени элемента без учета регистра и доменного префикса.
func LookupType(name string) (*TypeInfo, bool) {
	info, ok := typesByName[normalizeTypeName(name)]
	return info, ok
}

// TypeNames возвращает имена всех зарегистрированных типов в порядке регистрации.
func TypeNames() []string {
	return append([]string(nil), typeNames...)
}

// TypeNameOf возвращает имя типа объекта в каталоге.
// Для незарегистрированных типов - имя Go типа в нижнем регистре.
func TypeNameOf(o Object) string {
	if o == nil {
		return ""
	}
	t := reflect.TypeOf(o).Elem()
	if info, ok := typesByGo[t]; ok {
		return info.Name
	}
	return strings.ToLower(t.Name())
}

// SchemaOf возвращает схему объекта.
func SchemaOf(o Object) *Schema {
	t := reflect.TypeOf(o).Elem()
	if info, ok := typesByGo[t]; ok {
		return info.Schema
	}
	if s, ok := adhocSchemas[t]; ok {
		return s
	}
	s := newSchema(strings.ToLower(t.Name()), t)
	adhocSchemas[t] = s
	return s
}
