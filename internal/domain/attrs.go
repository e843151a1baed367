package domain

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	// ErrUnknownAttribute - у типа нет атрибута с таким именем.
	ErrUnknownAttribute = errors.New("unknown attribute")
	// ErrWrongKind - атрибут есть, но другого вида (например, child вместо field).
	ErrWrongKind = errors.New("wrong attribute kind")
)

var (
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

func fieldValue(o Object, attr *Attr) reflect.Value {
	return reflect.ValueOf(o).Elem().FieldByIndex(attr.index)
}

func lookupAttr(o Object, name string) (*Attr, error) {
	attr, ok := SchemaOf(o).Attr(name)
	if !ok {
		return nil, fmt.Errorf("%w %q on %s", ErrUnknownAttribute, name, TypeNameOf(o))
	}
	return attr, nil
}

// GetField возвращает строковое представление скалярного, булева или enum атрибута.
func GetField(o Object, name string) (string, bool) {
	attr, err := lookupAttr(o, name)
	if err != nil || attr.Kind == KindChild {
		return "", false
	}
	return formatValue(fieldValue(o, attr)), true
}

// SetField применяет текстовое значение к атрибуту.
//
// Недопустимое значение перечисления не является ошибкой: пишется предупреждение,
// а атрибут остается прежним. Так старые сохранения с удаленными значениями
// продолжают загружаться.
func SetField(o Object, name, text string) error {
	attr, err := lookupAttr(o, name)
	if err != nil {
		return err
	}
	if attr.Kind == KindChild {
		return fmt.Errorf("%w: %q is a child of %s", ErrWrongKind, name, TypeNameOf(o))
	}
	if attr.Kind == KindEnum && !attr.Allows(text) {
		log.WithFields(logrus.Fields{
			"type":    TypeNameOf(o),
			"tag":     TagOf(o),
			"attr":    name,
			"value":   text,
			"allowed": strings.Join(attr.Allowed, "|"),
		}).Warn("Rejected enumeration value")
		return nil
	}
	if err := parseValue(fieldValue(o, attr), text); err != nil {
		return fmt.Errorf("attribute %q of %s: %w", name, TypeNameOf(o), err)
	}
	return nil
}

// SetEnum - типизированная обертка над SetField для перечислений.
// Возвращает false, если значение отклонено.
func SetEnum(o Object, name, value string) bool {
	attr, err := lookupAttr(o, name)
	if err != nil || attr.Kind != KindEnum {
		return false
	}
	if !attr.Allows(value) {
		_ = SetField(o, name, value) // только предупреждение в лог
		return false
	}
	return SetField(o, name, value) == nil
}

// Child возвращает значение одиночного дочернего слота.
func Child(o Object, name string) Object {
	attr, err := lookupAttr(o, name)
	if err != nil || attr.Kind != KindChild || attr.List {
		return nil
	}
	v := fieldValue(o, attr)
	if v.IsNil() {
		return nil
	}
	return v.Interface().(Object)
}

// ChildList возвращает дочерний список (сам слайс, не копию).
func ChildList(o Object, name string) []Object {
	attr, err := lookupAttr(o, name)
	if err != nil || attr.Kind != KindChild || !attr.List {
		return nil
	}
	return fieldValue(o, attr).Interface().([]Object)
}

// SetChild присваивает одиночный дочерний слот (перезаписывая прежнее значение).
func SetChild(o Object, name string, child Object) error {
	attr, err := lookupAttr(o, name)
	if err != nil {
		return err
	}
	if attr.Kind != KindChild || attr.List {
		return fmt.Errorf("%w: %q is not a single child of %s", ErrWrongKind, name, TypeNameOf(o))
	}
	setSlot(fieldValue(o, attr), child)
	return nil
}

// AppendChild добавляет элемент в дочерний список.
func AppendChild(o Object, name string, child Object) error {
	attr, err := lookupAttr(o, name)
	if err != nil {
		return err
	}
	if attr.Kind != KindChild || !attr.List {
		return fmt.Errorf("%w: %q is not a child list of %s", ErrWrongKind, name, TypeNameOf(o))
	}
	v := fieldValue(o, attr)
	v.Set(reflect.Append(v, reflect.ValueOf(&child).Elem()))
	return nil
}

func setSlot(v reflect.Value, child Object) {
	if child == nil {
		v.Set(reflect.Zero(v.Type()))
		return
	}
	v.Set(reflect.ValueOf(child))
}

// eachChild обходит все дочерние слоты объекта. index = -1 для одиночного слота.
func eachChild(o Object, fn func(attr *Attr, index int, child Object)) {
	for _, attr := range SchemaOf(o).Attrs() {
		if attr.Kind != KindChild {
			continue
		}
		v := fieldValue(o, attr)
		if !attr.List {
			if !v.IsNil() {
				fn(attr, -1, v.Interface().(Object))
			}
			continue
		}
		for i := 0; i < v.Len(); i++ {
			elem := v.Index(i)
			if elem.IsNil() {
				continue
			}
			fn(attr, i, elem.Interface().(Object))
		}
	}
}

// replaceChild подменяет значение в слоте: index = -1 - одиночный слот.
func replaceChild(o Object, attr *Attr, index int, child Object) {
	v := fieldValue(o, attr)
	if index >= 0 {
		v = v.Index(index)
	}
	setSlot(v, child)
}

// --- Преобразование значений ---

func formatValue(v reflect.Value) string {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if v.Type().Implements(textMarshalerType) {
		b, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return ""
		}
		return string(b)
	}
	if v.CanAddr() && v.Addr().Type().Implements(textMarshalerType) {
		b, err := v.Addr().Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return ""
		}
		return string(b)
	}

	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, v.Type().Bits())
	}
	return fmt.Sprint(v.Interface())
}

func parseValue(v reflect.Value, text string) error {
	if v.Kind() == reflect.Pointer {
		if text == "" {
			v.Set(reflect.Zero(v.Type()))
			return nil
		}
		elem := reflect.New(v.Type().Elem())
		if err := parseValue(elem.Elem(), text); err != nil {
			return err
		}
		v.Set(elem)
		return nil
	}
	if v.CanAddr() && v.Addr().Type().Implements(textUnmarshalerType) {
		return v.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text))
	}

	trimmed := strings.TrimSpace(text)
	switch v.Kind() {
	case reflect.String:
		v.SetString(text)
	case reflect.Bool:
		if trimmed == "" {
			v.SetBool(false)
			return nil
		}
		b, err := strconv.ParseBool(trimmed)
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if trimmed == "" {
			v.SetInt(0)
			return nil
		}
		n, err := strconv.ParseInt(trimmed, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if trimmed == "" {
			v.SetUint(0)
			return nil
		}
		n, err := strconv.ParseUint(trimmed, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		if trimmed == "" {
			v.SetFloat(0)
			return nil
		}
		f, err := strconv.ParseFloat(trimmed, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetFloat(f)
	default:
		return fmt.Errorf("unsupported value type %s", v.Type())
	}
	return nil
}
