// Package kuiper - каталог сущностей игры: вселенная, корабли, организации,
// игрок, миссии и шаги миссий (условия и действия).
//
// Все типы регистрируются в каталоге domain при инициализации пакета
// (см. register.go), поэтому кодек находит их по имени XML элемента.
package kuiper

import (
	"github.com/atiaxi/kuiper-sub000/internal/domain"
	"github.com/atiaxi/kuiper-sub000/pkg/logger"
	"github.com/atiaxi/kuiper-sub000/pkg/utils"
	"github.com/sirupsen/logrus"
)

var log = logger.Component("kuiper")

// Outcome - результат условия или действия.
// Pending - не ошибка и не "ложь": шаг ждет ответа пользователя.
type Outcome uint8

const (
	False Outcome = iota
	True
	Pending
)

var outcomeToString = map[Outcome]string{
	False:   "false",
	True:    "true",
	Pending: "pending",
}

// String возвращает строковое представление (для логов и дебага)
func (o Outcome) String() string {
	if val, ok := outcomeToString[o]; ok {
		return val
	}
	return "unknown"
}

// OutcomeOf переводит bool в Outcome.
func OutcomeOf(ok bool) Outcome {
	if ok {
		return True
	}
	return False
}

// Env - состояние игры, над которым работают условия и действия.
type Env struct {
	Registry *domain.Registry
	Universe *Universe
	Rand     utils.Source

	// Award - хук движка для AwardAction. nil - награждение из действий недоступно.
	Award func(m *Mission) Outcome
}

// Player возвращает игрока вселенной или nil.
func (e *Env) Player() *Player {
	if e == nil || e.Universe == nil {
		return nil
	}
	return domain.As[*Player](e.Universe.Player)
}

func (e *Env) rand() utils.Source {
	if e.Rand != nil {
		return e.Rand
	}
	if e.Registry != nil {
		return e.Registry.Rand()
	}
	return utils.NewSource(0)
}

// Step - общий контракт условий и действий: шаг привязывается к миссии перед вычислением.
type Step interface {
	domain.Object
	Bind(m *Mission)
	Mission() *Mission
}

// Condition - предикат без побочных эффектов.
type Condition interface {
	Step
	Value(env *Env) Outcome
}

// Action - шаг, меняющий состояние игры.
type Action interface {
	Step
	Perform(env *Env) Outcome
}

// Prompter - шаг, который ждет ответа пользователя (вопрос да/нет, сообщение).
type Prompter interface {
	Prompt() string
	Resolve(answer bool)
}

// StepBase встраивается во все условия и действия.
// Шаги обычно анонимны (живут внутри миссии), поэтому тег не обязателен.
type StepBase struct {
	domain.Base

	mission *Mission
}

func (s *StepBase) Bind(m *Mission)   { s.mission = m }
func (s *StepBase) Mission() *Mission { return s.mission }
func (s *StepBase) Playable() bool    { return true }

// Evaluate вызывает Value для условия или Perform для действия.
func Evaluate(step Step, env *Env) Outcome {
	switch s := step.(type) {
	case Condition:
		return s.Value(env)
	case Action:
		return s.Perform(env)
	}
	log.WithFields(logrus.Fields{
		"type": domain.TypeNameOf(step),
		"tag":  domain.TagOf(step),
	}).Warn("Step is neither condition nor action")
	return False
}

// playableAll - все объекты списка не nil, не заглушки и играбельны.
func playableAll(list []domain.Object) bool {
	for _, o := range list {
		if !playableRef(o) {
			return false
		}
	}
	return true
}

func playableRef(o domain.Object) bool {
	return o != nil && !domain.IsPlaceholder(o) && o.Playable()
}

// linkedRef - ссылка на зарегистрированный объект. Для ссылок, которые могут
// замыкаться в цикл (организации друг на друга, миссия на миссию), играбельность
// цели не проверяется.
func linkedRef(o domain.Object) bool {
	return o != nil && !domain.IsPlaceholder(o) && o.Core().HasTag()
}
