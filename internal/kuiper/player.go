package kuiper

import (
	"github.com/atiaxi/kuiper-sub000/internal/domain"
	"github.com/sirupsen/logrus"
)

// Player - игрок: кошелек, корабль, активные и завершенные миссии, флаги сюжета.
type Player struct {
	domain.Base
	Name      string          `kui:"name"`
	Credits   int             `kui:"credits"`
	Ship      domain.Object   `kui:"ship"`
	Missions  []domain.Object `kui:"missions"`
	Completed []domain.Object `kui:"completed"`
	Flags     []domain.Object `kui:"flags"`
}

func (p *Player) Playable() bool {
	return p.Base.Playable() && p.Name != "" && playableRef(p.Ship)
}

// CurrentShip возвращает корабль игрока или nil.
func (p *Player) CurrentShip() *Ship {
	return domain.As[*Ship](p.Ship)
}

// --- Флаги ---

// Flag возвращает значение флага и признак того, что он установлен.
func (p *Player) Flag(name string) (int, bool) {
	if f := p.flag(name); f != nil {
		return f.Number, true
	}
	return 0, false
}

// SetFlag устанавливает флаг в значение.
func (p *Player) SetFlag(name string, number int) {
	if f := p.flag(name); f != nil {
		f.Number = number
		return
	}
	p.Flags = append(p.Flags, &Flag{Name: name, Number: number})
}

// AddFlag прибавляет delta к флагу (неустановленный считается нулем).
func (p *Player) AddFlag(name string, delta int) {
	n, _ := p.Flag(name)
	p.SetFlag(name, n+delta)
}

// UnsetFlag снимает флаг.
func (p *Player) UnsetFlag(name string) {
	for i, f := range p.Flags {
		if flag, ok := f.(*Flag); ok && flag.Name == name {
			p.Flags = append(p.Flags[:i], p.Flags[i+1:]...)
			return
		}
	}
}

func (p *Player) flag(name string) *Flag {
	for _, f := range domain.AllOf[*Flag](p.Flags) {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// --- Миссии ---

// ActiveMissions возвращает активные миссии.
func (p *Player) ActiveMissions() []*Mission {
	return domain.AllOf[*Mission](p.Missions)
}

// HasMission: среди активных есть миссия того же рода (по базовому тегу).
func (p *Player) HasMission(m *Mission) bool {
	for _, held := range p.Missions {
		if domain.PrototypeEquals(held, m) {
			return true
		}
	}
	return false
}

// AddMission добавляет миссию в активные.
func (p *Player) AddMission(m *Mission) {
	p.Missions = append(p.Missions, m)
}

// RemoveMission убирает миссию из активных. Ненулевой код завершения
// (или глобально уникальная миссия) записывается в историю, заменяя
// прежнюю запись о миссии того же рода. Возвращает false, если миссия не была активна.
func (p *Player) RemoveMission(m *Mission, exitCode int) bool {
	found := false
	for i, held := range p.Missions {
		if held == domain.Object(m) || domain.IdentityEquals(held, m) {
			p.Missions = append(p.Missions[:i], p.Missions[i+1:]...)
			found = true
			break
		}
	}

	if exitCode != 0 || m.GloballyUnique {
		if rec := p.CompletedRecord(m); rec != nil {
			rec.Mission = m
			rec.ExitCode = exitCode
		} else {
			p.Completed = append(p.Completed, &MissionRecord{ExitCode: exitCode, Mission: m})
		}
	}

	log.WithFields(logrus.Fields{
		"mission":   m.Tag(),
		"exit_code": exitCode,
		"active":    found,
	}).Info("Mission removed")
	return found
}

// CompletedRecord возвращает запись истории о миссии того же рода или nil.
func (p *Player) CompletedRecord(m *Mission) *MissionRecord {
	for _, rec := range domain.AllOf[*MissionRecord](p.Completed) {
		if domain.PrototypeEquals(rec.Mission, m) {
			return rec
		}
	}
	return nil
}

// HasCompleted сообщает, есть ли миссия в истории.
func (p *Player) HasCompleted(m *Mission) bool {
	return p.CompletedRecord(m) != nil
}

// --- Груз ---

// CargoAmount - количество товара в трюме корабля игрока.
func (p *Player) CargoAmount(commodity domain.Object) int {
	if s := p.CurrentShip(); s != nil {
		return s.CargoAmount(commodity)
	}
	return 0
}

// AddCargo меняет груз корабля игрока. false - нет корабля или операция невозможна.
func (p *Player) AddCargo(commodity domain.Object, delta int) bool {
	s := p.CurrentShip()
	if s == nil {
		return false
	}
	return s.AddCargo(commodity, delta)
}

// MissionRecord - анонимная запись истории: миссия и код завершения.
type MissionRecord struct {
	domain.Base
	ExitCode int           `kui:"exit_code"`
	Mission  domain.Object `kui:"mission"`
}

func (r *MissionRecord) Playable() bool { return linkedRef(r.Mission) }

// Flag - именованный числовой флаг сюжета.
type Flag struct {
	domain.Base
	Name   string `kui:"name"`
	Number int    `kui:"number"`
}

func (f *Flag) Playable() bool { return f.Name != "" }
