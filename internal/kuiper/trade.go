package kuiper

import "github.com/atiaxi/kuiper-sub000/internal/domain"

// Commodity - товар.
type Commodity struct {
	domain.Base
	Name      string `kui:"name"`
	BasePrice int    `kui:"base_price"`
}

func (c *Commodity) Playable() bool {
	return c.Base.Playable() && c.Name != "" && c.BasePrice >= 0
}

// Cargo - анонимная пара "товар, количество" (трюм корабля, рынок планеты).
type Cargo struct {
	domain.Base
	Amount    int           `kui:"amount"`
	Commodity domain.Object `kui:"commodity"`
}

func (c *Cargo) Playable() bool {
	return c.Amount >= 0 && playableRef(c.Commodity)
}

// findCargo ищет запись о товаре в списке Cargo.
func findCargo(list []domain.Object, commodity domain.Object) *Cargo {
	for _, c := range domain.AllOf[*Cargo](list) {
		if domain.IdentityEquals(c.Commodity, commodity) {
			return c
		}
	}
	return nil
}
