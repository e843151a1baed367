package kuiper

import (
	"testing"

	"github.com/atiaxi/kuiper-sub000/internal/domain"
	"github.com/atiaxi/kuiper-sub000/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(n int) *int { return &n }

type fixedRand int

func (f fixedRand) Intn(int) int { return int(f) }

func newEnv(t *testing.T) (*Env, *Player) {
	t.Helper()
	reg := domain.NewRegistry(utils.NewSource(3))
	prev := domain.SetActive(reg)
	t.Cleanup(func() { domain.SetActive(prev) })

	p := &Player{Name: "Ace"}
	reg.SetTag(p, "player")
	u := &Universe{Name: "Test", Player: p}
	reg.SetTag(u, "universe")
	reg.SetRoot(u)
	return &Env{Registry: reg, Universe: u}, p
}

func TestFlag_FixtureScenario(t *testing.T) {
	env, _ := newEnv(t)

	set := &FlagAction{Flag: "fixture", NewNumber: 10}
	is10 := &FlagCondition{Flag: "fixture", NumberIs: intp(10)}
	notSet := &FlagCondition{Flag: "fixture", IsNotSet: true}

	assert.Equal(t, True, notSet.Value(env))
	assert.Equal(t, False, is10.Value(env))

	assert.Equal(t, True, set.Perform(env))
	assert.Equal(t, True, is10.Value(env))
	assert.Equal(t, False, notSet.Value(env))
}

func TestFlagAction_Modes(t *testing.T) {
	env, p := newEnv(t)

	(&FlagAction{Flag: "rep", NewNumber: 3, Mode: FlagModeSet}).Perform(env)
	(&FlagAction{Flag: "rep", NewNumber: 4, Mode: FlagModeAdd}).Perform(env)
	n, ok := p.Flag("rep")
	require.True(t, ok)
	assert.Equal(t, 7, n)

	assert.Equal(t, True, (&FlagCondition{Flag: "rep", AtLeast: intp(5), AtMost: intp(7)}).Value(env))
	assert.Equal(t, False, (&FlagCondition{Flag: "rep", AtMost: intp(6)}).Value(env))

	(&FlagAction{Flag: "rep", Mode: FlagModeUnset}).Perform(env)
	_, ok = p.Flag("rep")
	assert.False(t, ok)
}

func TestFlagAction_ModeIsEnumeration(t *testing.T) {
	a := &FlagAction{Mode: FlagModeSet}
	require.NoError(t, domain.SetField(a, "mode", "multiply"))
	assert.Equal(t, FlagModeSet, a.Mode)
	require.NoError(t, domain.SetField(a, "mode", FlagModeAdd))
	assert.Equal(t, FlagModeAdd, a.Mode)
}

func TestConditions_NoPlayer(t *testing.T) {
	env := &Env{}
	assert.Equal(t, False, (&FlagCondition{Flag: "x"}).Value(env))
	assert.Equal(t, False, (&CreditsCondition{}).Value(env))
	assert.Equal(t, False, (&LabelCondition{Label: "x"}).Value(env))
	assert.Equal(t, False, (&FlagAction{Flag: "x"}).Perform(env))
	assert.Equal(t, False, (&EndAction{}).Perform(env))
}

func TestRandomCondition_Bounds(t *testing.T) {
	env, _ := newEnv(t)
	for i := 0; i < 20; i++ {
		assert.Equal(t, True, (&RandomCondition{Chance: 100}).Value(env))
		assert.Equal(t, False, (&RandomCondition{Chance: 0}).Value(env))
	}
	assert.False(t, (&RandomCondition{Chance: 101}).Playable())
}

func TestCreditsAction_NeverNegative(t *testing.T) {
	env, p := newEnv(t)
	p.Credits = 30

	assert.Equal(t, False, (&CreditsAction{Amount: -31}).Perform(env))
	assert.Equal(t, 30, p.Credits)
	assert.Equal(t, True, (&CreditsAction{Amount: -30}).Perform(env))
	assert.Equal(t, 0, p.Credits)
	assert.Equal(t, True, (&CreditsCondition{AtLeast: 0}).Value(env))
}

func TestMissionCondition_States(t *testing.T) {
	env, p := newEnv(t)
	m := &Mission{Name: "Smuggle"}
	env.Registry.SetTag(m, "smuggle")

	absent := &MissionCondition{State: MissionAbsent, Target: m}
	active := &MissionCondition{State: MissionActive, Target: m}
	done := &MissionCondition{State: MissionCompleted, Target: m, ExitCode: intp(2)}

	assert.Equal(t, True, absent.Value(env))
	p.AddMission(m)
	assert.Equal(t, True, active.Value(env))
	assert.Equal(t, False, absent.Value(env))

	p.RemoveMission(m, 1)
	assert.Equal(t, False, done.Value(env))
	assert.Equal(t, True, (&MissionCondition{State: MissionCompleted, Target: m}).Value(env))

	// Без явной цели - миссия, к которой привязан шаг.
	self := &MissionCondition{State: MissionCompleted}
	self.Bind(m)
	assert.Equal(t, True, self.Value(env))
}

func TestYesNoAndInfo_Prompts(t *testing.T) {
	q := &YesNoCondition{Question: "Dock?"}
	assert.Equal(t, Pending, q.Value(nil))
	q.Resolve(false)
	assert.Equal(t, False, q.Value(nil))

	info := &InfoAction{Text: "Welcome aboard."}
	var prompter Prompter = info
	assert.Equal(t, "Welcome aboard.", prompter.Prompt())
	assert.Equal(t, Pending, info.Perform(nil))
	info.Resolve(false)
	assert.Equal(t, True, info.Perform(nil))
}

func TestEvaluate_Dispatch(t *testing.T) {
	env, _ := newEnv(t)
	assert.Equal(t, True, Evaluate(&FlagCondition{Flag: "x", IsNotSet: true}, env))
	assert.Equal(t, True, Evaluate(&FlagAction{Flag: "x"}, env))
	assert.Equal(t, False, Evaluate(&StepBase{}, env))
}

func newShip(reg *domain.Registry) (*Ship, *Blueprint) {
	bp := &Blueprint{Name: "Hauler", MaxSpeed: 100, Hull: 50, CargoCapacity: 20, AddonCapacity: 2}
	reg.SetTag(bp, "hauler")
	s := &Ship{Name: "Mule", Blueprint: bp}
	reg.SetTag(s, "mule")
	return s, bp
}

func TestShip_ResolveNumericStat(t *testing.T) {
	env, _ := newEnv(t)
	s, _ := newShip(env.Registry)

	engine := &Addon{Blueprint: Blueprint{Name: "Booster", MaxSpeed: 25}}
	env.Registry.SetTag(engine, "booster")
	gun := &Weapon{Addon: Addon{Blueprint: Blueprint{Name: "Laser", Mass: 2}}, Damage: 5, Projectile: string(ProjectileBeam)}
	env.Registry.SetTag(gun, "laser")
	drag := &Addon{Blueprint: Blueprint{Name: "Damaged thruster", MaxSpeed: 10}}
	env.Registry.SetTag(drag, "drag")

	s.Addons = []domain.Object{engine, gun}
	s.AntiAddons = []domain.Object{drag}

	speed, ok := s.ResolveNumericStat("max_speed")
	require.True(t, ok)
	assert.Equal(t, 115.0, speed)
	assert.Equal(t, 2.0, s.Stat("mass"))
	assert.Equal(t, 0.0, s.Stat("damage"), "blueprints carry no weapon stats")

	_, ok = s.ResolveNumericStat("name")
	assert.False(t, ok)
	_, ok = (&Ship{}).ResolveNumericStat("hull")
	assert.False(t, ok)
}

func TestShip_Playable(t *testing.T) {
	env, _ := newEnv(t)
	s, bp := newShip(env.Registry)
	assert.True(t, s.Playable())

	a1 := &Addon{Blueprint: Blueprint{Name: "A"}}
	env.Registry.SetTag(a1, "a1")
	s.Addons = []domain.Object{a1, a1, a1}
	assert.False(t, s.Playable(), "addon count over capacity")

	bp.AddonCapacity = 3
	assert.True(t, s.Playable())

	s.Addons = append(s.Addons, &Addon{})
	bp.AddonCapacity = 4
	assert.False(t, s.Playable(), "untagged addon")

	s.Blueprint = domain.NewPlaceholder("missing")
	s.Addons = nil
	assert.False(t, s.Playable())
}

func TestShip_Cargo(t *testing.T) {
	env, p := newEnv(t)
	s, _ := newShip(env.Registry)
	p.Ship = s
	ore := &Commodity{Name: "Ore", BasePrice: 5}
	env.Registry.SetTag(ore, "ore")

	assert.Equal(t, True, (&CargoAction{Commodity: ore, Amount: 15}).Perform(env))
	assert.Equal(t, False, (&CargoAction{Commodity: ore, Amount: 6}).Perform(env), "over capacity")
	assert.Equal(t, False, (&CargoAction{Commodity: ore, Amount: -16}).Perform(env))
	assert.Equal(t, 15, p.CargoAmount(ore))

	assert.Equal(t, True, (&CargoCondition{Commodity: ore, AtLeast: 15}).Value(env))
	assert.Equal(t, True, (&CargoAction{Commodity: ore, Amount: -5}).Perform(env))
	assert.Equal(t, False, (&CargoCondition{Commodity: ore, AtLeast: 15}).Value(env))
	assert.Equal(t, 10, s.CargoTotal())
}

func TestShip_CopyOwnsCargo(t *testing.T) {
	env, _ := newEnv(t)
	s, bp := newShip(env.Registry)
	ore := &Commodity{Name: "Ore"}
	env.Registry.SetTag(ore, "ore")
	s.AddCargo(ore, 3)
	s.Velocity = Vector{1, 2}

	c := env.Registry.Copy(s).(*Ship)
	c.AddCargo(ore, 4)
	c.Velocity = c.Velocity.Scale(2)

	assert.Equal(t, 3, s.CargoAmount(ore))
	assert.Equal(t, 7, c.CargoAmount(ore))
	assert.Equal(t, Vector{1, 2}, s.Velocity)
	assert.Same(t, bp, c.Blueprint)
	assert.True(t, domain.PrototypeEquals(s, c))
}

func TestSpawnAction_CopiesFleet(t *testing.T) {
	env, _ := newEnv(t)
	s, _ := newShip(env.Registry)
	template := &Fleet{Name: "Pirates", Ships: []domain.Object{s}}
	env.Registry.SetTag(template, "pirates")
	sector := &Sector{Name: "Sol"}
	env.Registry.SetTag(sector, "sol")

	spawn := &SpawnAction{Fleet: template, Sector: sector}
	require.Equal(t, True, spawn.Perform(env))
	require.Equal(t, True, spawn.Perform(env))

	require.Len(t, sector.Fleets, 2)
	first := sector.Fleets[0].(*Fleet)
	second := sector.Fleets[1].(*Fleet)
	assert.NotEqual(t, first.Tag(), second.Tag())
	assert.True(t, domain.PrototypeEquals(template, first))
	assert.NotSame(t, s, first.Ships[0])
	assert.True(t, domain.PrototypeEquals(s, first.Ships[0]))
	assert.Same(t, sector, first.Ships[0].(*Ship).Sector)
	assert.Nil(t, s.Sector)

	// Уничтожение порожденного корабля не трогает шаблон.
	spawnedShip := first.Ships[0].(*Ship)
	spawnedShip.HullDamage = 1000
	assert.Equal(t, 1, first.RemoveDestroyed(env.Registry))
	assert.Empty(t, first.Ships)
	assert.Nil(t, env.Registry.Lookup(spawnedShip.Tag()))
	assert.Len(t, template.Ships, 1)
	assert.Same(t, s, env.Registry.Lookup("mule"))
}

func TestSpawnAction_RandomSector(t *testing.T) {
	env, _ := newEnv(t)
	s, _ := newShip(env.Registry)
	template := &Fleet{Name: "Pirates", Ships: []domain.Object{s}}
	env.Registry.SetTag(template, "pirates")

	spawn := &SpawnAction{Fleet: template}
	assert.True(t, spawn.Playable())
	// Карты нет - некуда.
	assert.Equal(t, False, spawn.Perform(env))

	sol, vega := &Sector{Name: "Sol"}, &Sector{Name: "Vega"}
	env.Universe.Map = &Map{Name: "m", Sectors: []domain.Object{sol, vega}}
	env.Rand = fixedRand(1)

	require.Equal(t, True, spawn.Perform(env))
	assert.Empty(t, sol.Fleets)
	require.Len(t, vega.Fleets, 1)
	assert.Same(t, vega, vega.Fleets[0].(*Fleet).Ships[0].(*Ship).Sector)
}

func TestOrg_Attitude(t *testing.T) {
	env, _ := newEnv(t)
	police := NewOrg()
	police.Name = "Police"
	env.Registry.SetTag(police, "police")
	pirates := NewOrg()
	pirates.Name = "Pirates"
	env.Registry.SetTag(pirates, "pirates")
	traders := NewOrg()
	traders.Name = "Traders"
	env.Registry.SetTag(traders, "traders")

	police.SetStanding(pirates, -50)
	police.SetStanding(traders, 10)
	pirates.SetStanding(police, -50)

	assert.Equal(t, AttitudeHostile, police.Attitude(pirates))
	assert.Equal(t, AttitudeFriendly, police.Attitude(traders))
	assert.Equal(t, AttitudeNeutral, pirates.Attitude(traders))

	police.SetStanding(pirates, 0)
	assert.Equal(t, 0, police.Standing(pirates))
	assert.Len(t, police.Relations, 2)

	assert.True(t, police.Playable())
	police.HostileThreshold = police.FriendlyThreshold
	assert.False(t, police.Playable())
}

func TestMission_Playable(t *testing.T) {
	env, _ := newEnv(t)
	m := &Mission{Name: "Deliver"}
	env.Registry.SetTag(m, "deliver")
	assert.False(t, m.Playable(), "no end action")

	m.Checks = []domain.Object{&IfThen{
		Ifs:   []domain.Object{&CreditsCondition{AtLeast: 1}},
		Thens: []domain.Object{&EndAction{ExitCode: 1}},
	}}
	assert.True(t, m.Playable())

	m.Checks = append(m.Checks, &IfThen{Ifs: []domain.Object{&EndAction{}}, Thens: []domain.Object{&EndAction{}}})
	assert.False(t, m.Playable(), "action in ifs")
}

func TestCatalog_Schemas(t *testing.T) {
	weapon, ok := domain.LookupType("KuiWeapon")
	require.True(t, ok)
	enums := weapon.Schema.Enumerations()
	assert.Equal(t, sizes, enums["size"])
	assert.Equal(t, projectiles, enums["projectile"])
	assert.Contains(t, weapon.Schema.Booleans(), "stackable")
	assert.Contains(t, weapon.Schema.Booleans(), "sellable")
	assert.Contains(t, weapon.Schema.Fields(), "max_speed")

	ship, _ := domain.LookupType("ship")
	assert.Equal(t, []string{"blueprint", "owner", "addons", "anti_addons", "cargo", "sector"}, ship.Schema.Children())

	cond, _ := domain.LookupType("flag_condition")
	assert.Equal(t, []string{"labels", "flag", "number_is", "at_least", "at_most"}, cond.Schema.Fields())

	for _, name := range domain.TypeNames() {
		info, _ := domain.LookupType(name)
		assert.Equal(t, name, domain.TypeNameOf(info.New()))
	}
}

func TestVector(t *testing.T) {
	v := Vector{3, 4}
	assert.Equal(t, 5.0, v.Length())
	assert.Equal(t, Vector{4, 6}, v.Add(Vector{1, 2}))

	r := Vector{1, 0}.Rotate(90)
	assert.InDelta(t, 0, r.X, 1e-9)
	assert.InDelta(t, 1, r.Y, 1e-9)
	assert.InDelta(t, 1, Heading(45).Length(), 1e-9)
	assert.InDelta(t, 45, Heading(45).Angle(), 1e-9)
	assert.InDelta(t, 270, Vector{0, -2}.Angle(), 1e-9)

	text, err := Vector{1.5, -2}.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1.5,-2", string(text))

	var back Vector
	require.NoError(t, back.UnmarshalText([]byte(" 1.5 , -2 ")))
	assert.Equal(t, Vector{1.5, -2}, back)
	assert.Error(t, back.UnmarshalText([]byte("nope")))
	require.NoError(t, back.UnmarshalText(nil))
	assert.Equal(t, Vector{}, back)

	s := &Ship{}
	require.NoError(t, domain.SetField(s, "position", "10,20"))
	assert.Equal(t, Vector{10, 20}, s.Position)
	got, _ := domain.GetField(s, "position")
	assert.Equal(t, "10,20", got)
}
