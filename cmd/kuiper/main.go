package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/atiaxi/kuiper-sub000/internal/config"
	"github.com/atiaxi/kuiper-sub000/internal/domain"
	"github.com/atiaxi/kuiper-sub000/internal/engine"
	"github.com/atiaxi/kuiper-sub000/internal/infrastructure/storage"
	"github.com/atiaxi/kuiper-sub000/internal/kuiper"
	"github.com/atiaxi/kuiper-sub000/internal/version"
	"github.com/atiaxi/kuiper-sub000/pkg/logger"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// maxAnswers ограничивает автоответы в одном цикле проверок.
const maxAnswers = 1000

type options struct {
	scenario string
	load     string
	slot     string
	out      string
	saveSlot string
	seed     int64
	check    bool
	run      bool
}

func main() {
	// 1. Конфигурация: окружение, затем флаги.
	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to read configuration")
	}

	var opts options
	flag.StringVar(&opts.scenario, "scenario", "", "Path to .kui scenario to load")
	flag.StringVar(&opts.load, "load", "", "Path to .ksg saved game to load")
	flag.StringVar(&opts.slot, "slot", "", "Name of save slot to load (needs KUIPER_SAVE_DB)")
	flag.StringVar(&opts.out, "out", "", "Write the loaded registry to .kui or .ksg file")
	flag.StringVar(&opts.saveSlot, "save-slot", "", "Write the loaded registry to save slot")
	flag.Int64Var(&opts.seed, "seed", cfg.Seed, "Random seed (0 for time based)")
	flag.BoolVar(&opts.check, "check", false, "Report unplayable objects and mission offers")
	flag.BoolVar(&opts.run, "run", false, "Run one mission check cycle answering yes to every prompt")
	flag.Parse()
	cfg.Seed = opts.seed

	logger.Init(cfg.LogLevel, cfg.LogFormat)
	logger.Log.WithFields(version.Info().Fields()).Info("Starting Kuiper")

	// 2. Прерывание по сигналу: операции со слотами принимают контекст.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts, os.Stdout); err != nil {
		logger.Log.WithError(err).Fatal("Kuiper failed")
	}
}

func run(ctx context.Context, cfg config.Config, opts options, stdout io.Writer) error {
	reg := domain.NewRegistry(cfg.Rand())
	domain.SetActive(reg)

	files, err := storage.NewFileStore(cfg.SaveDir)
	if err != nil {
		return err
	}

	var slots *storage.SlotStore
	if opts.slot != "" || opts.saveSlot != "" {
		if cfg.SaveDB == "" {
			return errors.New("save slots need KUIPER_SAVE_DB")
		}
		if slots, err = storage.OpenSlotStore(cfg.SaveDB); err != nil {
			return err
		}
		defer slots.Close()
	}

	// 1. Загрузка
	switch {
	case opts.scenario != "":
		_, err = files.LoadFile(opts.scenario, reg)
	case opts.load != "":
		_, err = files.LoadFile(opts.load, reg)
	case opts.slot != "":
		_, err = slots.Load(ctx, opts.slot, reg)
	default:
		return errors.New("nothing to load: use -scenario, -load or -slot")
	}
	if err != nil {
		return err
	}

	// 2. Сводка и, по желанию, цикл проверок миссий.
	rep := newReport(reg, opts.check)
	if universe := domain.As[*kuiper.Universe](reg.Root()); universe != nil {
		eng := engine.New(reg, universe, nil)
		if opts.run {
			answered := checkCycle(eng)
			logger.Log.WithField("answers", answered).Info("Mission checks finished")
			rep = newReport(reg, opts.check)
		}
		if opts.check {
			rep.addOffers(eng)
		}
	} else if opts.run || opts.check {
		logger.Log.WithField("root", describe(reg.Root())).Warn("Root is not a universe, missions skipped")
	}
	if _, err := rep.WriteTo(stdout); err != nil {
		return errors.Wrap(err, "write report")
	}

	// 3. Сохранение
	if opts.out != "" {
		if err := files.Export(opts.out, reg); err != nil {
			return err
		}
	}
	if opts.saveSlot != "" {
		if err := slots.Save(ctx, opts.saveSlot, reg); err != nil {
			return err
		}
	}
	return nil
}

// checkCycle проверяет все активные миссии, отвечая "да" на каждый вопрос.
// Возвращает число данных ответов.
func checkCycle(eng *engine.Engine) int {
	answered := 0
	for _, r := range eng.CheckAll() {
		for !r.Done() && answered < maxAnswers {
			logger.Log.WithFields(logrus.Fields{
				"mission": r.Mission.Tag(),
				"prompt":  r.Prompt(),
			}).Info("Auto answering prompt")
			r.Resume(true)
			answered++
		}
	}
	return answered
}
