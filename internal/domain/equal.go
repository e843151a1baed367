package domain

// IdentityEquals: два объекта равны, если совпадают их теги.
// Анонимные объекты равны только сами себе.
func IdentityEquals(a, b Object) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := TagOf(a), TagOf(b)
	if ta == "" || tb == "" {
		return a == b
	}
	return ta == tb
}

// PrototypeEquals: объекты "одного рода", если совпадают базовые теги.
// Так порожденная копия флота узнается как экземпляр шаблона.
func PrototypeEquals(a, b Object) bool {
	if a == nil || b == nil {
		return false
	}
	ba := BaseTag(TagOf(a), DefaultSeparators)
	bb := BaseTag(TagOf(b), DefaultSeparators)
	if ba == "" || bb == "" {
		return a == b
	}
	return ba == bb
}

type comparedPair struct {
	a, b Object
}

// DeepEquals сравнивает объекты по всем атрибутам схемы рекурсивно.
// Только для тестов и диагностики: циклы обрываются множеством уже сравненных пар.
func DeepEquals(a, b Object) bool {
	return deepEquals(a, b, make(map[comparedPair]bool))
}

func deepEquals(a, b Object, seen map[comparedPair]bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if TypeNameOf(a) != TypeNameOf(b) || TagOf(a) != TagOf(b) {
		return false
	}
	pair := comparedPair{a, b}
	if seen[pair] {
		return true
	}
	seen[pair] = true

	for _, attr := range SchemaOf(a).Attrs() {
		if attr.Kind != KindChild {
			va, _ := GetField(a, attr.Name)
			vb, _ := GetField(b, attr.Name)
			if va != vb {
				return false
			}
			continue
		}
		if !attr.List {
			if !deepEquals(Child(a, attr.Name), Child(b, attr.Name), seen) {
				return false
			}
			continue
		}
		la, lb := ChildList(a, attr.Name), ChildList(b, attr.Name)
		if len(la) != len(lb) {
			return false
		}
		for i := range la {
			if !deepEquals(la[i], lb[i], seen) {
				return false
			}
		}
	}
	return true
}
