package kuiper

import "github.com/atiaxi/kuiper-sub000/internal/domain"

// Attitude - отношение организации к другой организации.
type Attitude string

const (
	AttitudeHostile  Attitude = "hostile"
	AttitudeNeutral  Attitude = "neutral"
	AttitudeFriendly Attitude = "friendly"
)

// Пороги по умолчанию для новой организации.
const (
	DefaultHostileThreshold  = -10
	DefaultFriendlyThreshold = 10
)

// Org - фракция. Отношения к другим фракциям хранятся списком Relation.
type Org struct {
	domain.Base
	Name              string          `kui:"name"`
	Description       string          `kui:"description,size=5x40"`
	HostileThreshold  int             `kui:"hostile_threshold"`
	FriendlyThreshold int             `kui:"friendly_threshold"`
	Relations         []domain.Object `kui:"relations"`
}

func NewOrg() *Org {
	return &Org{
		HostileThreshold:  DefaultHostileThreshold,
		FriendlyThreshold: DefaultFriendlyThreshold,
	}
}

// Playable: порог вражды строго ниже порога дружбы, отношения заполнены.
func (o *Org) Playable() bool {
	return o.Base.Playable() && o.Name != "" &&
		o.HostileThreshold < o.FriendlyThreshold && playableAll(o.Relations)
}

// Standing возвращает числовое отношение к другой организации (0, если не задано).
func (o *Org) Standing(other *Org) int {
	if r := o.relationTo(other); r != nil {
		return r.Value
	}
	return 0
}

// SetStanding задает отношение, добавляя Relation при необходимости.
func (o *Org) SetStanding(other *Org, value int) {
	if r := o.relationTo(other); r != nil {
		r.Value = value
		return
	}
	o.Relations = append(o.Relations, &Relation{Value: value, Org: other})
}

// Attitude переводит отношение в категорию по порогам.
func (o *Org) Attitude(other *Org) Attitude {
	switch v := o.Standing(other); {
	case v <= o.HostileThreshold:
		return AttitudeHostile
	case v >= o.FriendlyThreshold:
		return AttitudeFriendly
	default:
		return AttitudeNeutral
	}
}

func (o *Org) relationTo(other *Org) *Relation {
	for _, r := range domain.AllOf[*Relation](o.Relations) {
		if domain.IdentityEquals(r.Org, other) {
			return r
		}
	}
	return nil
}

// Relation - анонимная запись "отношение к организации".
type Relation struct {
	domain.Base
	Value int           `kui:"value"`
	Org   domain.Object `kui:"org"`
}

func (r *Relation) Playable() bool { return linkedRef(r.Org) }
