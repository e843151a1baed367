package kuiper

import "github.com/atiaxi/kuiper-sub000/internal/domain"

// Mission - задание: условия выдачи (worthy), действия при выдаче (setup)
// и проверки (checks), выполняемые на каждом цикле.
type Mission struct {
	domain.Base
	Name           string          `kui:"name"`
	Description    string          `kui:"description,size=5x40"`
	Unique         bool            `kui:"unique"`
	GloballyUnique bool            `kui:"globally_unique"`
	Worthy         []domain.Object `kui:"worthy"`
	Setup          []domain.Object `kui:"setup"`
	Checks         []domain.Object `kui:"checks"`
}

// Playable: имя, играбельные шаги и хотя бы одно EndAction в проверках,
// иначе миссию невозможно завершить.
func (m *Mission) Playable() bool {
	if !m.Base.Playable() || m.Name == "" {
		return false
	}
	if !playableAll(m.Worthy) || !playableAll(m.Setup) || !playableAll(m.Checks) {
		return false
	}
	for _, it := range m.IfThens() {
		for _, a := range it.Thens {
			if _, ok := a.(*EndAction); ok {
				return true
			}
		}
	}
	return false
}

// IfThens возвращает проверки миссии.
func (m *Mission) IfThens() []*IfThen {
	return domain.AllOf[*IfThen](m.Checks)
}

// IfThen - пара "все условия ifs выполнены -> выполнить все действия thens".
type IfThen struct {
	domain.Base
	Ifs   []domain.Object `kui:"ifs"`
	Thens []domain.Object `kui:"thens"`
}

func (it *IfThen) Playable() bool {
	for _, o := range it.Ifs {
		if _, ok := o.(Condition); !ok {
			return false
		}
	}
	for _, o := range it.Thens {
		if _, ok := o.(Action); !ok {
			return false
		}
	}
	return len(it.Thens) > 0 && playableAll(it.Ifs) && playableAll(it.Thens)
}
