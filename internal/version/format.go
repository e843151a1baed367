package version

import (
	"fmt"
	"strconv"
)

// DocumentElement - имя корневого элемента-обертки для полного дампа реестра.
const DocumentElement = "kuiper"

// Format - версия формата файлов сценариев и сохранений (major.minor.bug).
type Format struct {
	Major int
	Minor int
	Bug   int
}

// Current - формат, который пишет эта сборка.
var Current = Format{Major: 0, Minor: 1, Bug: 0}

func (f Format) String() string {
	return fmt.Sprintf("%d.%d.%d", f.Major, f.Minor, f.Bug)
}

// Compatible: файлы с тем же major читаются без предупреждений.
func (f Format) Compatible(other Format) bool {
	return f.Major == other.Major
}

// Legacy сообщает, что документ записан старым промежуточным форматом 0.0.N.
func (f Format) Legacy() bool {
	return f.Major == 0 && f.Minor == 0
}

// Attrs возвращает значения для атрибутов major/minor/bug.
func (f Format) Attrs() map[string]string {
	return map[string]string{
		"major": strconv.Itoa(f.Major),
		"minor": strconv.Itoa(f.Minor),
		"bug":   strconv.Itoa(f.Bug),
	}
}

// ParseFormat собирает версию из атрибутов. Отсутствующие или битые значения
// считаются нулем: старые файлы не всегда несут полную версию.
func ParseFormat(get func(name string) string) Format {
	num := func(name string) int {
		n, err := strconv.Atoi(get(name))
		if err != nil {
			return 0
		}
		return n
	}
	return Format{Major: num("major"), Minor: num("minor"), Bug: num("bug")}
}
