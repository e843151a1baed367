package version

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Метаданные сборки. Заполняются через -ldflags при сборке cmd/kuiper:
//
//	-X github.com/atiaxi/kuiper-sub000/internal/version.BuildDate=2026-01-02
var (
	BuildDate   string // ГГГГ-ММ-ДД, UTC
	BuildCommit string
	BuildBranch string
	BuildCI     string
)

// buildEpoch - день с номером сборки 0.
var buildEpoch = time.Date(2025, time.December, 4, 0, 0, 0, 0, time.UTC)

// BuildInfo - сведения о сборке и формате документов, который она пишет.
type BuildInfo struct {
	Number int // дней от buildEpoch; -1, если дата сборки неизвестна
	Date   string
	Commit string
	Branch string
	CI     string
	Format Format
	Err    error
}

// buildID переводит дату сборки в номер: сколько дней прошло от buildEpoch.
func buildID(date string) (int, error) {
	if date == "" {
		return 0, fmt.Errorf("build date is not set")
	}
	day, err := time.ParseInLocation(time.DateOnly, date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("build date %q: %w", date, err)
	}
	if day.Before(buildEpoch) {
		return 0, fmt.Errorf("build date %s precedes %s", date, buildEpoch.Format(time.DateOnly))
	}
	// Обе даты в UTC - сутки всегда 24 часа.
	return int(day.Sub(buildEpoch).Hours() / 24), nil
}

// Info собирает сведения о текущей сборке.
func Info() BuildInfo {
	info := BuildInfo{
		Number: -1,
		Date:   BuildDate,
		Commit: orDefault(BuildCommit, "unknown"),
		Branch: orDefault(BuildBranch, "unknown"),
		CI:     orDefault(BuildCI, "local"),
		Format: Current,
	}
	if n, err := buildID(BuildDate); err != nil {
		info.Err = err
	} else {
		info.Number = n
	}
	return info
}

// Fields - сведения о сборке для структурного лога.
func (b BuildInfo) Fields() logrus.Fields {
	fields := logrus.Fields{
		"commit": b.Commit,
		"branch": b.Branch,
		"ci":     b.CI,
		"format": b.Format.String(),
	}
	if b.Err != nil {
		fields["build"] = "unknown"
		return fields
	}
	fields["build"] = b.Number
	fields["date"] = b.Date
	return fields
}

func (b BuildInfo) String() string {
	if b.Err != nil {
		return fmt.Sprintf("Kuiper build unknown (%v), format %s", b.Err, b.Format)
	}
	return fmt.Sprintf("Kuiper build %d (%s) commit[%s] branch[%s] ci[%s], format %s",
		b.Number, b.Date, b.Commit, b.Branch, b.CI, b.Format)
}

// String - однострочное описание сборки.
func String() string { return Info().String() }

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
