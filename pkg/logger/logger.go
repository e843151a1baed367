package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего приложения.
// Создается сразу, чтобы пакеты и тесты могли писать в него до вызова Init.
var Log = logrus.New()

// Component возвращает логгер с полем component - так помечаем подсистему.
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}

// Init настраивает глобальный логгер.
// Эта функция должна быть вызвана один раз при старте приложения в main.go.
// Log не пересоздается: записи, полученные пакетами через Component, остаются рабочими.
func Init(level, format string) {
	// 1. Уровень логирования. По умолчанию - "info". Для отладки можно выставить "debug".
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// 2. Форматтер.
	// "json" - для сбора логов.
	// "text" - для удобной разработки.
	if strings.ToLower(format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	// 3. Куда писать логи. Stdout остается за выводом CLI.
	Log.SetOutput(os.Stderr)
}

// Fatal пишет сообщение уровня "fatal" без завершения процесса.
// logrus.Fatal вызывает os.Exit, а ядро обязано продолжать работу
// (например, при неразрешенной ссылке в файле сохранения).
func Fatal(entry *logrus.Entry, msg string) {
	entry.WithField("severity", "fatal").Error(msg)
}
