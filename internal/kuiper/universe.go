package kuiper

import "github.com/atiaxi/kuiper-sub000/internal/domain"

// Universe - корень сценария: карта, игрок и шаблоны миссий.
type Universe struct {
	domain.Base
	Name        string          `kui:"name"`
	Description string          `kui:"description,size=5x40"`
	Map         domain.Object   `kui:"map"`
	Player      domain.Object   `kui:"player"`
	Missions    []domain.Object `kui:"missions"`
	Commodities []domain.Object `kui:"commodities"`
}

func (u *Universe) Playable() bool {
	return u.Base.Playable() && u.Name != "" &&
		playableRef(u.Map) && playableRef(u.Player)
}

// Sectors возвращает все секторы карты вселенной.
func (u *Universe) Sectors() []*Sector {
	m := domain.As[*Map](u.Map)
	if m == nil {
		return nil
	}
	return domain.AllOf[*Sector](m.Sectors)
}

// Map - набор секторов.
type Map struct {
	domain.Base
	Name    string          `kui:"name"`
	Sectors []domain.Object `kui:"sectors"`
}

func (m *Map) Playable() bool {
	return m.Base.Playable() && len(m.Sectors) > 0 && playableAll(m.Sectors)
}

// Sector - звездная система: планеты, гиперпереходы и флоты.
type Sector struct {
	domain.Base
	Name     string          `kui:"name"`
	Position Vector          `kui:"position"`
	Planets  []domain.Object `kui:"planets"`
	Links    []domain.Object `kui:"links"`
	Fleets   []domain.Object `kui:"fleets"`
}

func (s *Sector) Playable() bool {
	return s.Base.Playable() && s.Name != "" && playableAll(s.Planets)
}

// LinkedTo проверяет наличие прямого перехода в другой сектор.
func (s *Sector) LinkedTo(other *Sector) bool {
	for _, l := range s.Links {
		if domain.IdentityEquals(l, other) {
			return true
		}
	}
	return false
}

// Planet - место стыковки: рынок, верфь и доска миссий.
type Planet struct {
	domain.Base
	Name        string          `kui:"name"`
	Description string          `kui:"description,size=5x40"`
	Owner       domain.Object   `kui:"owner"`
	Missions    []domain.Object `kui:"missions"`
	Blueprints  []domain.Object `kui:"blueprints"`
	Addons      []domain.Object `kui:"addons"`
	Market      []domain.Object `kui:"market"`
}

func (p *Planet) Playable() bool {
	if !p.Base.Playable() || p.Name == "" {
		return false
	}
	if p.Owner != nil && !playableRef(p.Owner) {
		return false
	}
	return playableAll(p.Blueprints) && playableAll(p.Addons) && playableAll(p.Market)
}

// OfferedMissions - миссии, которые планета предлагает игроку.
func (p *Planet) OfferedMissions() []*Mission {
	return domain.AllOf[*Mission](p.Missions)
}
