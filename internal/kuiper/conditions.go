package kuiper

import (
	"github.com/atiaxi/kuiper-sub000/internal/domain"
	"github.com/atiaxi/kuiper-sub000/pkg/utils"
)

// FlagCondition проверяет флаг сюжета игрока.
// IsNotSet инвертирует смысл: истинно, только если флаг не установлен.
// Необязательные границы NumberIs/AtLeast/AtMost сравниваются со значением флага.
type FlagCondition struct {
	StepBase
	Flag     string `kui:"flag"`
	IsNotSet bool   `kui:"is_not_set"`
	NumberIs *int   `kui:"number_is"`
	AtLeast  *int   `kui:"at_least"`
	AtMost   *int   `kui:"at_most"`
}

func (c *FlagCondition) Playable() bool { return c.Flag != "" }

func (c *FlagCondition) Value(env *Env) Outcome {
	p := env.Player()
	if p == nil {
		return False
	}
	n, set := p.Flag(c.Flag)
	if c.IsNotSet {
		return OutcomeOf(!set)
	}
	if !set {
		return False
	}
	switch {
	case c.NumberIs != nil && n != *c.NumberIs:
		return False
	case c.AtLeast != nil && n < *c.AtLeast:
		return False
	case c.AtMost != nil && n > *c.AtMost:
		return False
	}
	return True
}

// YesNoCondition задает игроку вопрос. Пока ответа нет - Pending.
type YesNoCondition struct {
	StepBase
	Question string `kui:"prompt,size=4x40"`

	answer *bool
}

func (c *YesNoCondition) Playable() bool { return c.Question != "" }
func (c *YesNoCondition) Prompt() string { return c.Question }

func (c *YesNoCondition) Resolve(answer bool) { c.answer = &answer }

func (c *YesNoCondition) Value(*Env) Outcome {
	if c.answer == nil {
		return Pending
	}
	return OutcomeOf(*c.answer)
}

// RandomCondition истинно с вероятностью Chance процентов.
type RandomCondition struct {
	StepBase
	Chance int `kui:"chance"`
}

func (c *RandomCondition) Playable() bool { return c.Chance >= 0 && c.Chance <= 100 }

func (c *RandomCondition) Value(env *Env) Outcome {
	return OutcomeOf(utils.Percent(env.rand(), c.Chance))
}

// CreditsCondition - у игрока не меньше AtLeast кредитов.
type CreditsCondition struct {
	StepBase
	AtLeast int `kui:"at_least"`
}

func (c *CreditsCondition) Value(env *Env) Outcome {
	p := env.Player()
	return OutcomeOf(p != nil && p.Credits >= c.AtLeast)
}

// Состояния миссии для MissionCondition.
const (
	MissionActive    = "active"
	MissionCompleted = "completed"
	MissionAbsent    = "absent"
)

var missionStates = []string{MissionActive, MissionCompleted, MissionAbsent}

// MissionCondition проверяет состояние миссии у игрока.
// Пустой слот mission означает миссию, к которой привязан шаг.
type MissionCondition struct {
	StepBase
	State    string        `kui:"state"`
	ExitCode *int          `kui:"exit_code"`
	Target   domain.Object `kui:"mission"`
}

func (c *MissionCondition) target() *Mission {
	if c.Target != nil {
		return domain.As[*Mission](c.Target)
	}
	return c.Mission()
}

func (c *MissionCondition) Value(env *Env) Outcome {
	p, m := env.Player(), c.target()
	if p == nil || m == nil {
		return False
	}
	switch c.State {
	case MissionCompleted:
		rec := p.CompletedRecord(m)
		return OutcomeOf(rec != nil && (c.ExitCode == nil || rec.ExitCode == *c.ExitCode))
	case MissionAbsent:
		return OutcomeOf(!p.HasMission(m) && !p.HasCompleted(m))
	default:
		return OutcomeOf(p.HasMission(m))
	}
}

// CargoCondition - в трюме игрока не меньше AtLeast единиц товара.
type CargoCondition struct {
	StepBase
	AtLeast   int           `kui:"at_least"`
	Commodity domain.Object `kui:"commodity"`
}

func (c *CargoCondition) Playable() bool { return playableRef(c.Commodity) }

func (c *CargoCondition) Value(env *Env) Outcome {
	p := env.Player()
	return OutcomeOf(p != nil && p.CargoAmount(c.Commodity) >= c.AtLeast)
}

// LabelCondition - корабль игрока несет метку.
type LabelCondition struct {
	StepBase
	Label string `kui:"label"`
}

func (c *LabelCondition) Playable() bool { return domain.NormalizeLabel(c.Label) != "" }

func (c *LabelCondition) Value(env *Env) Outcome {
	p := env.Player()
	if p == nil {
		return False
	}
	s := p.CurrentShip()
	return OutcomeOf(s != nil && s.HasLabel(c.Label))
}
