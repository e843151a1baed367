package kuiper

import (
	"github.com/atiaxi/kuiper-sub000/internal/domain"
	"github.com/atiaxi/kuiper-sub000/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Режимы FlagAction.
const (
	FlagModeSet   = "set"
	FlagModeAdd   = "add"
	FlagModeUnset = "unset"
)

var flagModes = []string{FlagModeSet, FlagModeAdd, FlagModeUnset}

// FlagAction меняет флаг сюжета игрока.
type FlagAction struct {
	StepBase
	Flag      string `kui:"flag"`
	NewNumber int    `kui:"new_number"`
	Mode      string `kui:"mode"`
}

func (a *FlagAction) Playable() bool { return a.Flag != "" }

func (a *FlagAction) Perform(env *Env) Outcome {
	p := env.Player()
	if p == nil {
		return False
	}
	switch a.Mode {
	case FlagModeAdd:
		p.AddFlag(a.Flag, a.NewNumber)
	case FlagModeUnset:
		p.UnsetFlag(a.Flag)
	default:
		p.SetFlag(a.Flag, a.NewNumber)
	}
	return True
}

// InfoAction показывает сообщение и ждет подтверждения.
type InfoAction struct {
	StepBase
	Text string `kui:"text,size=6x40"`

	acknowledged bool
}

func (a *InfoAction) Playable() bool { return a.Text != "" }
func (a *InfoAction) Prompt() string { return a.Text }

// Resolve: любой ответ считается подтверждением.
func (a *InfoAction) Resolve(bool) { a.acknowledged = true }

func (a *InfoAction) Perform(*Env) Outcome {
	if !a.acknowledged {
		return Pending
	}
	return True
}

// EndAction завершает миссию, к которой привязан шаг, с кодом ExitCode.
type EndAction struct {
	StepBase
	ExitCode int `kui:"exit_code"`
}

func (a *EndAction) Perform(env *Env) Outcome {
	p, m := env.Player(), a.Mission()
	if p == nil || m == nil {
		return False
	}
	p.RemoveMission(m, a.ExitCode)
	return True
}

// CreditsAction начисляет (или списывает при отрицательном Amount) кредиты.
// Списание больше баланса не выполняется.
type CreditsAction struct {
	StepBase
	Amount int `kui:"amount"`
}

func (a *CreditsAction) Perform(env *Env) Outcome {
	p := env.Player()
	if p == nil || p.Credits+a.Amount < 0 {
		return False
	}
	p.Credits += a.Amount
	return True
}

// CargoAction добавляет (или забирает) товар в трюм игрока.
type CargoAction struct {
	StepBase
	Amount    int           `kui:"amount"`
	Commodity domain.Object `kui:"commodity"`
}

func (a *CargoAction) Playable() bool { return playableRef(a.Commodity) }

func (a *CargoAction) Perform(env *Env) Outcome {
	p := env.Player()
	return OutcomeOf(p != nil && p.AddCargo(a.Commodity, a.Amount))
}

// SpawnAction размещает в секторе копию шаблонного флота.
// Без сектора флот появляется в случайном секторе карты.
type SpawnAction struct {
	StepBase
	Fleet  domain.Object `kui:"fleet"`
	Sector domain.Object `kui:"sector"`
}

func (a *SpawnAction) Playable() bool {
	return playableRef(a.Fleet) && (a.Sector == nil || playableRef(a.Sector))
}

func (a *SpawnAction) Perform(env *Env) Outcome {
	fleet := domain.As[*Fleet](a.Fleet)
	sector := domain.As[*Sector](a.Sector)
	if a.Sector == nil && env.Universe != nil {
		sector, _ = utils.Choice(env.rand(), env.Universe.Sectors())
	}
	if fleet == nil || sector == nil || env.Registry == nil {
		return False
	}
	spawned := env.Registry.Copy(fleet).(*Fleet)
	for _, s := range domain.AllOf[*Ship](spawned.Ships) {
		s.Sector = sector
	}
	sector.Fleets = append(sector.Fleets, spawned)

	log.WithFields(logrus.Fields{
		"template": fleet.Tag(),
		"fleet":    spawned.Tag(),
		"sector":   sector.Tag(),
		"ships":    len(spawned.Ships),
	}).Info("Fleet spawned")
	return True
}

// AwardAction выдает игроку другую миссию через движок.
type AwardAction struct {
	StepBase
	Target domain.Object `kui:"mission"`
}

func (a *AwardAction) Playable() bool { return linkedRef(a.Target) }

func (a *AwardAction) Perform(env *Env) Outcome {
	m := domain.As[*Mission](a.Target)
	if m == nil || env.Award == nil {
		return False
	}
	return env.Award(m)
}
