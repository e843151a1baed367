// Package engine проводит миссии по жизненному циклу: предложение (worthy),
// выдача (setup), проверки (checks) и завершение.
//
// Вычисление однопоточное и кооперативное: шаг, которому нужен ответ
// пользователя, приостанавливает серию, а вызывающий получает Run с
// ожидающим шагом и продолжает его через Resume.
package engine

import (
	"github.com/atiaxi/kuiper-sub000/internal/domain"
	"github.com/atiaxi/kuiper-sub000/internal/kuiper"
	"github.com/atiaxi/kuiper-sub000/pkg/logger"
	"github.com/atiaxi/kuiper-sub000/pkg/utils"
	"github.com/sirupsen/logrus"
)

var log = logger.Component("engine")

// Engine - движок миссий над загруженной вселенной.
type Engine struct {
	Registry *domain.Registry
	Universe *kuiper.Universe
	Rand     utils.Source

	log *logrus.Entry
}

// New создает движок. rng == nil - генератор реестра.
func New(reg *domain.Registry, universe *kuiper.Universe, rng utils.Source) *Engine {
	if rng == nil {
		rng = reg.Rand()
	}
	return &Engine{
		Registry: reg,
		Universe: universe,
		Rand:     rng,
		log:      log.WithField("universe", domain.TagOf(universe)),
	}
}

// Env собирает контекст вычисления шагов.
func (e *Engine) Env() *kuiper.Env {
	return &kuiper.Env{
		Registry: e.Registry,
		Universe: e.Universe,
		Rand:     e.Rand,
		Award:    e.awardImmediately,
	}
}

// Player возвращает игрока вселенной или nil.
func (e *Engine) Player() *kuiper.Player {
	return e.Env().Player()
}

// Awardable: можно ли предложить миссию игроку.
// Уже выданная уникальная миссия и завершенная глобально уникальная - нельзя,
// иначе решают условия worthy (возможно, с вопросом игроку).
func (e *Engine) Awardable(m *kuiper.Mission) *Run {
	p := e.Player()
	if p == nil || m == nil {
		return finished(m, kuiper.False)
	}
	if p.HasMission(m) && (m.Unique || m.GloballyUnique) {
		return finished(m, kuiper.False)
	}
	if m.GloballyUnique && p.HasCompleted(m) {
		return finished(m, kuiper.False)
	}
	return start(m, &seriesProcess{series: NewSeries(m.Worthy, m, e.Env())})
}

// Award выполняет setup миссии; при успехе миссия становится активной.
func (e *Engine) Award(m *kuiper.Mission) *Run {
	p := e.Player()
	if p == nil || m == nil {
		return finished(m, kuiper.False)
	}
	return start(m, &seriesProcess{
		series: NewSeries(m.Setup, m, e.Env()),
		onTrue: func() {
			p.AddMission(m)
			e.log.WithFields(logrus.Fields{
				"mission": m.Tag(),
				"name":    m.Name,
			}).Info("Mission awarded")
		},
	})
}

// Check выполняет проверки одной активной миссии.
// True - сработала хотя бы одна проверка, Pending - ждем ответа пользователя.
func (e *Engine) Check(m *kuiper.Mission) *Run {
	p := e.Player()
	if p == nil || m == nil || !p.HasMission(m) {
		return finished(m, kuiper.False)
	}
	return start(m, &checkProcess{
		env:    e.Env(),
		player: p,
		m:      m,
		checks: m.IfThens(),
	})
}

// CheckAll проверяет все активные миссии. Ожидание в одной миссии
// не мешает проверке остальных. Возвращает приостановленные Run.
func (e *Engine) CheckAll() []*Run {
	p := e.Player()
	if p == nil {
		return nil
	}
	var pending []*Run
	fired := 0
	// Список активных меняется по ходу (EndAction), поэтому обходим снимок.
	for _, m := range p.ActiveMissions() {
		run := e.Check(m)
		switch run.Outcome() {
		case kuiper.Pending:
			pending = append(pending, run)
		case kuiper.True:
			fired++
		}
	}
	e.log.WithFields(logrus.Fields{
		"active":  len(p.Missions),
		"fired":   fired,
		"pending": len(pending),
	}).Debug("Check cycle done")
	return pending
}

// RemoveMission снимает миссию с игрока с кодом завершения.
func (e *Engine) RemoveMission(m *kuiper.Mission, exitCode int) bool {
	p := e.Player()
	if p == nil || m == nil {
		return false
	}
	return p.RemoveMission(m, exitCode)
}

// Offer - миссия на доске планеты и ее проверка worthy.
type Offer struct {
	Mission *kuiper.Mission
	Run     *Run
}

// Offers возвращает миссии планеты, которые можно предложить игроку:
// worthy выполнены или ждут ответа пользователя.
func (e *Engine) Offers(planet *kuiper.Planet) []Offer {
	if planet == nil {
		return nil
	}
	var offers []Offer
	for _, m := range planet.OfferedMissions() {
		run := e.Awardable(m)
		if run.Outcome() == kuiper.False {
			continue
		}
		offers = append(offers, Offer{Mission: m, Run: run})
	}
	return offers
}

// awardImmediately - хук для AwardAction: выдача без участия пользователя.
// Миссия, которой нужен вопрос или сообщение, из действия не выдается.
// Setup с вопросами отклоняется до выполнения первого шага.
func (e *Engine) awardImmediately(m *kuiper.Mission) kuiper.Outcome {
	if run := e.Awardable(m); run.Outcome() != kuiper.True {
		e.log.WithFields(logrus.Fields{
			"mission": m.Tag(),
			"outcome": run.Outcome().String(),
		}).Debug("Chained mission not awardable")
		return kuiper.False
	}
	if hasPrompts(m.Setup) {
		e.log.WithField("mission", m.Tag()).Warn("Chained mission setup needs a prompt, not awarded")
		return kuiper.False
	}
	run := e.Award(m)
	if !run.Done() {
		e.log.WithField("mission", m.Tag()).Warn("Chained mission setup needs a prompt, not awarded")
		return kuiper.False
	}
	return run.Outcome()
}

// hasPrompts сообщает, есть ли среди шагов ожидающие ответа пользователя.
func hasPrompts(steps []domain.Object) bool {
	for _, step := range steps {
		if _, ok := step.(kuiper.Prompter); ok {
			return true
		}
	}
	return false
}
