package utils

import (
	"math/rand"
	"time"
)

// Source - минимальный источник случайных чисел, который нужен ядру.
// *rand.Rand реализует его, тесты подставляют детерминированные версии.
type Source interface {
	Intn(n int) int
}

// NewSource создает детерминированный генератор. Seed 0 означает "по времени".
func NewSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// RandomInt возвращает число из [0, n). Для n <= 0 возвращает 0.
func RandomInt(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	return src.Intn(n)
}

// Choice выбирает случайный элемент слайса.
func Choice[T any](src Source, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[RandomInt(src, len(items))], true
}

// Percent возвращает true с вероятностью chance/100.
func Percent(src Source, chance int) bool {
	if chance <= 0 {
		return false
	}
	if chance >= 100 {
		return true
	}
	return RandomInt(src, 100) < chance
}
