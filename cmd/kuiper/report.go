package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/atiaxi/kuiper-sub000/internal/domain"
	"github.com/atiaxi/kuiper-sub000/internal/engine"
	"github.com/atiaxi/kuiper-sub000/internal/kuiper"
)

// report - сводка по загруженному реестру.
type report struct {
	Root         string
	Counts       map[string]int
	Placeholders []string
	Unplayable   []string
	Offers       map[string][]string
}

func newReport(reg *domain.Registry, check bool) *report {
	r := &report{
		Root:   describe(reg.Root()),
		Counts: make(map[string]int),
	}
	for _, o := range reg.Everything() {
		r.Counts[domain.TypeNameOf(o)]++
	}

	for _, p := range reg.Placeholders() {
		slots := make([]string, 0, len(p.Slots()))
		for _, s := range p.Slots() {
			slots = append(slots, s.String())
		}
		r.Placeholders = append(r.Placeholders, fmt.Sprintf("%s (%s)", p.Tag(), strings.Join(slots, ", ")))
	}
	sort.Strings(r.Placeholders)

	if check {
		for _, o := range reg.Everything() {
			if !o.Playable() {
				r.Unplayable = append(r.Unplayable, describe(o))
			}
		}
	}
	return r
}

// addOffers запоминает миссии, которые планеты готовы предложить игроку.
func (r *report) addOffers(eng *engine.Engine) {
	r.Offers = make(map[string][]string)
	for _, sector := range eng.Universe.Sectors() {
		for _, planet := range domain.AllOf[*kuiper.Planet](sector.Planets) {
			var names []string
			for _, offer := range eng.Offers(planet) {
				names = append(names, offer.Mission.Name)
			}
			if len(names) > 0 {
				r.Offers[planet.Name] = names
			}
		}
	}
}

func (r *report) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "root: %s\n", r.Root)

	types := make([]string, 0, len(r.Counts))
	for name := range r.Counts {
		types = append(types, name)
	}
	sort.Strings(types)
	b.WriteString("objects:\n")
	for _, name := range types {
		fmt.Fprintf(&b, "  %-16s %d\n", name, r.Counts[name])
	}

	writeList(&b, "unresolved", r.Placeholders)
	writeList(&b, "unplayable", r.Unplayable)

	planets := make([]string, 0, len(r.Offers))
	for name := range r.Offers {
		planets = append(planets, name)
	}
	sort.Strings(planets)
	for _, name := range planets {
		fmt.Fprintf(&b, "offers at %s: %s\n", name, strings.Join(r.Offers[name], ", "))
	}

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s (%d):\n", title, len(items))
	for _, item := range items {
		fmt.Fprintf(b, "  %s\n", item)
	}
}

func describe(o domain.Object) string {
	if o == nil {
		return "<none>"
	}
	if tag := domain.TagOf(o); tag != "" {
		return domain.TypeNameOf(o) + " " + tag
	}
	return "<" + domain.TypeNameOf(o) + ">"
}
