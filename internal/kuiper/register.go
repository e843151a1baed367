package kuiper

import "github.com/atiaxi/kuiper-sub000/internal/domain"

// Каталог сущностей. Порядок важен: предки регистрируются раньше потомков,
// чтобы их настройки схемы (перечисления, размеры) наследовались.
func init() {
	domain.Register("universe", func() domain.Object { return &Universe{} })
	domain.Register("map", func() domain.Object { return &Map{} })
	domain.Register("sector", func() domain.Object { return &Sector{} })
	domain.Register("planet", func() domain.Object { return &Planet{} })
	domain.Register("org", func() domain.Object { return NewOrg() })
	domain.Register("relation", func() domain.Object { return &Relation{} })
	domain.Register("commodity", func() domain.Object { return &Commodity{} })
	domain.Register("cargo", func() domain.Object { return &Cargo{} })

	domain.Register("blueprint", func() domain.Object { return &Blueprint{Size: string(SizeSmall)} }, func(s *domain.Schema) {
		s.DeclareEnum("size", sizes...)
	})
	domain.Register("addon", func() domain.Object { return &Addon{Blueprint: Blueprint{Size: string(SizeSmall)}} })
	domain.Register("weapon", func() domain.Object {
		w := &Weapon{Projectile: string(ProjectileBullet)}
		w.Size = string(SizeSmall)
		return w
	}, func(s *domain.Schema) {
		s.DeclareEnum("projectile", projectiles...)
	})
	domain.Register("ship", func() domain.Object { return &Ship{} })
	domain.Register("fleet", func() domain.Object { return &Fleet{} })

	domain.Register("player", func() domain.Object { return &Player{} })
	domain.Register("missionrecord", func() domain.Object { return &MissionRecord{} })
	domain.Register("flag", func() domain.Object { return &Flag{} }, func(s *domain.Schema) {
		s.SetDisplaySize("number", 1, 6)
	})
	domain.Register("mission", func() domain.Object { return &Mission{} })
	domain.Register("ifthen", func() domain.Object { return &IfThen{} })

	// Условия
	domain.Register("flagcondition", func() domain.Object { return &FlagCondition{} })
	domain.Register("yesnocondition", func() domain.Object { return &YesNoCondition{} })
	domain.Register("randomcondition", func() domain.Object { return &RandomCondition{Chance: 50} })
	domain.Register("creditscondition", func() domain.Object { return &CreditsCondition{} })
	domain.Register("missioncondition", func() domain.Object { return &MissionCondition{State: MissionActive} }, func(s *domain.Schema) {
		s.DeclareEnum("state", missionStates...)
	})
	domain.Register("cargocondition", func() domain.Object { return &CargoCondition{} })
	domain.Register("labelcondition", func() domain.Object { return &LabelCondition{} })

	// Действия
	domain.Register("flagaction", func() domain.Object { return &FlagAction{Mode: FlagModeSet} }, func(s *domain.Schema) {
		s.DeclareEnum("mode", flagModes...)
	})
	domain.Register("infoaction", func() domain.Object { return &InfoAction{} })
	domain.Register("endaction", func() domain.Object { return &EndAction{} })
	domain.Register("creditsaction", func() domain.Object { return &CreditsAction{} })
	domain.Register("cargoaction", func() domain.Object { return &CargoAction{} })
	domain.Register("spawnaction", func() domain.Object { return &SpawnAction{} })
	domain.Register("awardaction", func() domain.Object { return &AwardAction{} })
}
