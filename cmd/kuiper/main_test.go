package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/atiaxi/kuiper-sub000/internal/config"
	"github.com/atiaxi/kuiper-sub000/internal/domain"
	"github.com/atiaxi/kuiper-sub000/internal/infrastructure/storage"
	"github.com/atiaxi/kuiper-sub000/internal/kuiper"
	"github.com/atiaxi/kuiper-sub000/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario сохраняет маленькую вселенную с одной активной миссией.
func writeScenario(t *testing.T, dir string) string {
	t.Helper()
	reg := domain.NewRegistry(utils.NewSource(1))
	prev := domain.SetActive(reg)
	defer domain.SetActive(prev)

	courier := &kuiper.Mission{
		Name: "Courier",
		Checks: []domain.Object{&kuiper.IfThen{
			Ifs:   []domain.Object{&kuiper.YesNoCondition{Question: "Deliver the package?"}},
			Thens: []domain.Object{&kuiper.EndAction{ExitCode: 1}},
		}},
	}
	reg.SetTag(courier, "courier")

	earth := &kuiper.Planet{Name: "Earth"}
	reg.SetTag(earth, "earth")
	sol := &kuiper.Sector{Name: "Sol", Planets: []domain.Object{earth}}
	reg.SetTag(sol, "sol")
	m := &kuiper.Map{Name: "Known space", Sectors: []domain.Object{sol}}
	reg.SetTag(m, "map")
	p := &kuiper.Player{Name: "Ace", Missions: []domain.Object{courier}}
	reg.SetTag(p, "player")
	u := &kuiper.Universe{Name: "Test", Map: m, Player: p}
	reg.SetTag(u, "universe")
	reg.SetRoot(u)

	store, err := storage.NewFileStore(dir)
	require.NoError(t, err)
	path := filepath.Join(dir, "test.kui")
	require.NoError(t, store.SaveScenario(path, u))
	return path
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	prev := domain.Active()
	t.Cleanup(func() { domain.SetActive(prev) })
	return config.Config{Seed: 9, SaveDir: filepath.Join(t.TempDir(), "saves")}
}

func TestRun_ReportAndExport(t *testing.T) {
	dir := t.TempDir()
	scenario := writeScenario(t, dir)
	cfg := testConfig(t)
	out := filepath.Join(dir, "after.ksg")

	var stdout bytes.Buffer
	err := run(context.Background(), cfg, options{scenario: scenario, check: true, run: true, out: out}, &stdout)
	require.NoError(t, err)

	report := stdout.String()
	assert.Contains(t, report, "root: universe universe")
	assert.Contains(t, report, "mission")
	assert.NotContains(t, report, "unresolved")

	// После автоответа "да" миссия завершена с кодом 1.
	reg := domain.NewRegistry(nil)
	prev := domain.SetActive(reg)
	defer domain.SetActive(prev)
	store, err := storage.NewFileStore(cfg.SaveDir)
	require.NoError(t, err)
	root, err := store.LoadFile(out, reg)
	require.NoError(t, err)

	p := domain.As[*kuiper.Player](root.(*kuiper.Universe).Player)
	require.NotNil(t, p)
	assert.Empty(t, p.ActiveMissions())
	courier := domain.As[*kuiper.Mission](reg.Lookup("courier"))
	require.NotNil(t, courier)
	rec := p.CompletedRecord(courier)
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.ExitCode)
}

func TestRun_Slots(t *testing.T) {
	dir := t.TempDir()
	scenario := writeScenario(t, dir)
	cfg := testConfig(t)
	cfg.SaveDB = filepath.Join(dir, "slots.db")

	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, options{scenario: scenario, saveSlot: "quick"}, &stdout))

	stdout.Reset()
	require.NoError(t, run(context.Background(), cfg, options{slot: "quick"}, &stdout))
	assert.Contains(t, stdout.String(), "root: universe universe")
}

func TestRun_Errors(t *testing.T) {
	cfg := testConfig(t)
	var stdout bytes.Buffer

	err := run(context.Background(), cfg, options{}, &stdout)
	assert.ErrorContains(t, err, "nothing to load")

	err = run(context.Background(), cfg, options{slot: "quick"}, &stdout)
	assert.ErrorContains(t, err, "KUIPER_SAVE_DB")

	err = run(context.Background(), cfg, options{scenario: filepath.Join(t.TempDir(), "x.txt")}, &stdout)
	assert.ErrorIs(t, err, storage.ErrUnsupportedExtension)
}
