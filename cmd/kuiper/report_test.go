package main

import (
	"strings"
	"testing"

	"github.com/atiaxi/kuiper-sub000/internal/domain"
	"github.com/atiaxi/kuiper-sub000/internal/kuiper"
	"github.com/stretchr/testify/assert"
)

func TestReport(t *testing.T) {
	reg := domain.NewRegistry(nil)
	reg.SetTag(&kuiper.Player{Name: "Ace"}, "player")
	reg.SetTag(&kuiper.Commodity{Name: "Ore"}, "ore")
	reg.SetTag(&kuiper.Commodity{Name: "Gold"}, "gold")
	p := domain.NewPlaceholder("ghost")
	p.Attach(reg.Lookup("player"), "ship", -1)
	reg.AddPlaceholder(p)

	rep := newReport(reg, true)
	assert.Equal(t, "<none>", rep.Root)
	assert.Equal(t, map[string]int{"player": 1, "commodity": 2}, rep.Counts)
	assert.Equal(t, []string{"ghost (player.ship)"}, rep.Placeholders)
	// У игрока нет корабля.
	assert.Contains(t, rep.Unplayable, "player player")

	var b strings.Builder
	_, err := rep.WriteTo(&b)
	assert.NoError(t, err)
	assert.Contains(t, b.String(), "unresolved (1):\n  ghost (player.ship)\n")
	assert.True(t, strings.Index(b.String(), "commodity") < strings.Index(b.String(), "player"))
}
