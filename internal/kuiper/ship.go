package kuiper

import (
	"strconv"

	"github.com/atiaxi/kuiper-sub000/internal/domain"
)

// Size - размерный класс корпуса.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

var sizes = []string{string(SizeSmall), string(SizeMedium), string(SizeLarge)}

// Projectile - тип снаряда оружия.
type Projectile string

const (
	ProjectileBullet  Projectile = "bullet"
	ProjectileMissile Projectile = "missile"
	ProjectileBeam    Projectile = "beam"
)

var projectiles = []string{string(ProjectileBullet), string(ProjectileMissile), string(ProjectileBeam)}

// Blueprint - чертеж корпуса: базовые характеристики корабля.
type Blueprint struct {
	domain.Base
	Name          string  `kui:"name"`
	Description   string  `kui:"description,size=5x40"`
	MaxSpeed      float64 `kui:"max_speed"`
	Accel         float64 `kui:"accel"`
	Rotation      float64 `kui:"rotation"`
	Hull          float64 `kui:"hull"`
	Mass          float64 `kui:"mass"`
	CargoCapacity float64 `kui:"cargo_capacity"`
	AddonCapacity int     `kui:"addon_capacity"`
	Price         int     `kui:"price"`
	Size          string  `kui:"size"`
	Sellable      bool    `kui:"sellable"`
}

func (b *Blueprint) Playable() bool {
	return b.Base.Playable() && b.Name != "" && b.MaxSpeed > 0 && b.Hull > 0
}

// Addon - модуль корабля. Числовые характеристики - прибавки к чертежу.
type Addon struct {
	Blueprint
	Stackable bool `kui:"stackable"`
}

func (a *Addon) Playable() bool {
	return a.Base.Playable() && a.Name != ""
}

// Weapon - модуль-оружие.
type Weapon struct {
	Addon
	Damage     float64 `kui:"damage"`
	Range      float64 `kui:"range"`
	Refire     float64 `kui:"refire"`
	Projectile string  `kui:"projectile"`
}

func (w *Weapon) Playable() bool {
	return w.Addon.Playable() && w.Damage > 0 && w.Projectile != ""
}

// Ship - конкретный корабль: чертеж плюс установленные модули и груз.
type Ship struct {
	domain.Base
	Name       string          `kui:"name"`
	HullDamage float64         `kui:"hull_damage"`
	Position   Vector          `kui:"position"`
	Velocity   Vector          `kui:"velocity"`
	Facing     float64         `kui:"facing"`
	Blueprint  domain.Object   `kui:"blueprint"`
	Owner      domain.Object   `kui:"owner"`
	Addons     []domain.Object `kui:"addons"`
	AntiAddons []domain.Object `kui:"anti_addons"`
	Cargo      []domain.Object `kui:"cargo"`
	Sector     domain.Object   `kui:"sector"`
}

// Playable: у корабля есть имя и играбельный чертеж, все модули играбельны
// и их не больше, чем допускает чертеж.
func (s *Ship) Playable() bool {
	if !s.Base.Playable() || s.Name == "" || !playableRef(s.Blueprint) {
		return false
	}
	if !playableAll(s.Addons) || !playableAll(s.AntiAddons) {
		return false
	}
	bp := domain.As[*Blueprint](s.Blueprint)
	return bp == nil || len(s.Addons) <= bp.AddonCapacity
}

// CopyOwned: груз у копии свой, чертеж и владелец общие.
func (s *Ship) CopyOwned(r *domain.Registry) {
	s.Cargo = r.CopyList(s.Cargo)
}

// ResolveNumericStat возвращает итоговую характеристику:
// значение чертежа + сумма модулей - сумма анти-модулей.
// false - у чертежа нет такой числовой характеристики.
func (s *Ship) ResolveNumericStat(name string) (float64, bool) {
	if s.Blueprint == nil || domain.IsPlaceholder(s.Blueprint) {
		return 0, false
	}
	total, ok := numericStat(s.Blueprint, name)
	if !ok {
		return 0, false
	}
	for _, a := range s.Addons {
		if v, ok := numericStat(a, name); ok {
			total += v
		}
	}
	for _, a := range s.AntiAddons {
		if v, ok := numericStat(a, name); ok {
			total -= v
		}
	}
	return total, true
}

// Stat - ResolveNumericStat без флага наличия.
func (s *Ship) Stat(name string) float64 {
	v, _ := s.ResolveNumericStat(name)
	return v
}

// HullRemaining - прочность корпуса с учетом повреждений.
func (s *Ship) HullRemaining() float64 {
	return s.Stat("hull") - s.HullDamage
}

// Destroyed сообщает, что корпус исчерпан.
func (s *Ship) Destroyed() bool {
	return s.HullRemaining() <= 0
}

// CargoTotal - суммарное количество груза в трюме.
func (s *Ship) CargoTotal() int {
	total := 0
	for _, c := range domain.AllOf[*Cargo](s.Cargo) {
		total += c.Amount
	}
	return total
}

// CargoAmount - количество конкретного товара в трюме.
func (s *Ship) CargoAmount(commodity domain.Object) int {
	if c := findCargo(s.Cargo, commodity); c != nil {
		return c.Amount
	}
	return 0
}

// AddCargo меняет количество товара на delta.
// false - если товара не хватает или трюм переполнится; трюм тогда не меняется.
func (s *Ship) AddCargo(commodity domain.Object, delta int) bool {
	if commodity == nil {
		return false
	}
	c := findCargo(s.Cargo, commodity)
	have := 0
	if c != nil {
		have = c.Amount
	}
	if have+delta < 0 {
		return false
	}
	if delta > 0 {
		if capacity, ok := s.ResolveNumericStat("cargo_capacity"); ok && float64(s.CargoTotal()+delta) > capacity {
			return false
		}
	}
	if c == nil {
		s.Cargo = append(s.Cargo, &Cargo{Amount: delta, Commodity: commodity})
		return true
	}
	c.Amount += delta
	return true
}

func numericStat(o domain.Object, name string) (float64, bool) {
	text, ok := domain.GetField(o, name)
	if !ok || text == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Fleet - группа кораблей. Копия флота получает собственные корабли,
// поэтому уничтожение порожденного флота не трогает шаблон.
type Fleet struct {
	domain.Base
	Name  string          `kui:"name"`
	Owner domain.Object   `kui:"owner"`
	Ships []domain.Object `kui:"ships"`
}

func (f *Fleet) Playable() bool {
	return f.Base.Playable() && len(f.Ships) > 0 && playableAll(f.Ships)
}

func (f *Fleet) CopyOwned(r *domain.Registry) {
	f.Ships = r.CopyList(f.Ships)
}

// RemoveDestroyed убирает уничтоженные корабли из флота и реестра.
// Возвращает число убранных кораблей.
func (f *Fleet) RemoveDestroyed(r *domain.Registry) int {
	kept := f.Ships[:0]
	removed := 0
	for _, o := range f.Ships {
		if s, ok := o.(*Ship); ok && s.Destroyed() {
			r.Unregister(s.Tag())
			removed++
			continue
		}
		kept = append(kept, o)
	}
	f.Ships = kept
	return removed
}
