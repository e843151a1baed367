package domain

import "reflect"

// Clone делает структурную копию без регистрации: тег сохраняется, но копия
// не попадает в реестр. Дочерние списки - новые слайсы с теми же элементами.
// Используется для рабочих копий условий и действий.
func Clone(o Object) Object {
	if o == nil {
		return nil
	}
	src := reflect.ValueOf(o)
	dst := reflect.New(src.Elem().Type())
	dst.Elem().Set(src.Elem())
	clone := dst.Interface().(Object)

	for _, attr := range SchemaOf(clone).Attrs() {
		if attr.Kind != KindChild || !attr.List {
			continue
		}
		v := fieldValue(clone, attr)
		if v.IsNil() {
			continue
		}
		fresh := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		reflect.Copy(fresh, v)
		v.Set(fresh)
	}

	b := clone.Core()
	b.Labels = append(Labels(nil), b.Labels...)
	b.loaded = false
	return clone
}

// Copy создает дубликат объекта со свежим уникальным тегом, производным от
// базового тега оригинала. Типы, реализующие Copier, глубоко копируют свои
// дочерние объекты; ссылки на общие объекты остаются общими.
func (r *Registry) Copy(o Object) Object {
	if o == nil {
		return nil
	}
	clone := Clone(o)
	if tag := o.Core().tag; tag != "" {
		clone.Core().tag = ""
		r.SetTag(clone, r.EnsureUniqueTag(tag, DefaultSeparator))
	}
	if c, ok := clone.(Copier); ok {
		c.CopyOwned(r)
	}
	return clone
}

// CopyList копирует каждый элемент списка через Copy.
func (r *Registry) CopyList(list []Object) []Object {
	if list == nil {
		return nil
	}
	out := make([]Object, len(list))
	for i, o := range list {
		out[i] = r.Copy(o)
	}
	return out
}
