package engine

import (
	"github.com/atiaxi/kuiper-sub000/internal/domain"
	"github.com/atiaxi/kuiper-sub000/internal/kuiper"
	"github.com/sirupsen/logrus"
)

// Series - возобновляемое вычисление списка шагов с семантикой "И".
//
// Каждый шаг вычисляется на рабочей копии, привязанной к миссии. Если шаг
// вернул Pending, курсор и рабочая копия сохраняются: после Resolve тот же
// шаг вычисляется заново, затем вычисление идет дальше по списку.
// Первый False прерывает серию.
type Series struct {
	steps   []domain.Object
	mission *kuiper.Mission
	env     *kuiper.Env

	pos     int
	current kuiper.Step
	outcome kuiper.Outcome
	done    bool
}

// NewSeries готовит серию. Ничего не вычисляется до вызова Run.
func NewSeries(steps []domain.Object, m *kuiper.Mission, env *kuiper.Env) *Series {
	return &Series{
		steps:   steps,
		mission: m,
		env:     env,
	}
}

// Run продолжает вычисление с курсора.
// Возвращает Pending (ждем ответа на Pending()) или итог серии.
func (s *Series) Run() kuiper.Outcome {
	if s.done {
		return s.outcome
	}
	for s.pos < len(s.steps) {
		if s.current == nil {
			step, ok := s.steps[s.pos].(kuiper.Step)
			if !ok {
				log.WithFields(logrus.Fields{
					"mission": domain.TagOf(s.mission),
					"index":   s.pos,
					"type":    domain.TypeNameOf(s.steps[s.pos]),
				}).Warn("Not a condition or action, series fails")
				return s.finish(kuiper.False)
			}
			work := domain.Clone(step).(kuiper.Step)
			work.Bind(s.mission)
			s.current = work
		}

		switch kuiper.Evaluate(s.current, s.env) {
		case kuiper.Pending:
			return kuiper.Pending
		case kuiper.False:
			return s.finish(kuiper.False)
		}
		s.current = nil
		s.pos++
	}
	return s.finish(kuiper.True)
}

// Pending возвращает рабочую копию шага, ожидающего ответа (nil, если ждать нечего).
func (s *Series) Pending() kuiper.Step {
	if s.done {
		return nil
	}
	return s.current
}

// Resolve передает ответ пользователя шагу под курсором.
func (s *Series) Resolve(answer bool) {
	if p, ok := s.Pending().(kuiper.Prompter); ok {
		p.Resolve(answer)
	}
}

// Done сообщает, что серия вычислена до конца.
func (s *Series) Done() bool { return s.done }

func (s *Series) finish(o kuiper.Outcome) kuiper.Outcome {
	s.outcome = o
	s.done = true
	s.current = nil
	return o
}
