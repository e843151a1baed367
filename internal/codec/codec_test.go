package codec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/atiaxi/kuiper-sub000/internal/domain"
	"github.com/atiaxi/kuiper-sub000/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPort struct {
	domain.Base
	Name       string          `kui:"name"`
	Tariff     float64         `kui:"tariff"`
	Docked     bool            `kui:"docked"`
	Kind       string          `kui:"kind,enum=station|outpost"`
	Notes      string          `kui:"notes,size=0x0"`
	Owner      domain.Object   `kui:"owner"`
	Neighbours []domain.Object `kui:"neighbours"`
}

func init() {
	domain.Register("testport", func() domain.Object { return &testPort{Kind: "station"} })
}

func roundTrip(t *testing.T, el *Element) (*domain.Registry, []domain.Object) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, el))

	doc, err := Read(&buf)
	require.NoError(t, err)

	reg := domain.NewRegistry(nil)
	objects, err := DecodeDocument(reg, doc)
	require.NoError(t, err)
	return reg, objects
}

func TestRoundTrip_PreservesStructure(t *testing.T) {
	src := domain.NewRegistry(nil)
	hub := &testPort{Name: "Hub", Tariff: 1.25, Docked: true, Kind: "outpost", Notes: "line one\nline two"}
	hub.SetLabels("Core, trade")
	src.SetTag(hub, "hub")
	rim := &testPort{Name: "Rim <edge> & co", Kind: "station", Owner: hub}
	src.SetTag(rim, "rim")
	hub.Neighbours = []domain.Object{rim, &testPort{Name: "anonymous", Kind: "station"}}
	hub.Owner = hub

	reg, objects := roundTrip(t, ToXML(hub))

	require.Len(t, objects, 1)
	got := objects[0].(*testPort)
	assert.Equal(t, "hub", got.Tag())
	assert.True(t, domain.DeepEquals(hub, got))
	assert.Same(t, got, got.Owner)
	assert.Same(t, reg.Lookup("rim"), got.Neighbours[0])
	assert.Same(t, got, got.Neighbours[0].(*testPort).Owner)
	assert.Equal(t, domain.Labels{"core", "trade"}, got.Labels)
	assert.Same(t, got, reg.Root())
}

func TestEncode_SessionEmitsTaggedObjectOnce(t *testing.T) {
	reg := domain.NewRegistry(nil)
	shared := &testPort{Name: "shared"}
	reg.SetTag(shared, "shared")
	a := &testPort{Owner: shared, Neighbours: []domain.Object{shared}}
	reg.SetTag(a, "a")

	el := ToXML(a)
	owner := el.Child(ChildrenElement).Child("owner").Children[0]
	neighbour := el.Child(ChildrenElement).Child("neighbours").Children[0]
	assert.Equal(t, "testport", owner.Name())
	assert.Equal(t, RefElement, neighbour.Name())
	assert.Equal(t, "shared", neighbour.Attr(TagAttr))

	// Новая сессия - снова полный вывод.
	again := ToXML(shared)
	assert.Equal(t, "testport", again.Name())
	assert.NotNil(t, again.Child(FieldsElement))
}

func TestEncodeRegistry_WholeDump(t *testing.T) {
	reg := domain.NewRegistry(nil)
	root := &testPort{Name: "root"}
	reg.SetTag(root, "root")
	child := &testPort{Name: "child"}
	reg.SetTag(child, "child")
	loose := &testPort{Name: "loose", Owner: child}
	reg.SetTag(loose, "loose")
	root.Neighbours = []domain.Object{child}
	reg.SetRoot(root)

	doc := EncodeRegistry(reg)
	assert.Equal(t, "kuiper", doc.Name())
	assert.Equal(t, "0", doc.Attr("major"))
	assert.Equal(t, "major", doc.Attrs[0].Name.Local)
	require.Len(t, doc.Children, 2)
	assert.Equal(t, "root", doc.Children[0].Attr(TagAttr))
	assert.Equal(t, "loose", doc.Children[1].Attr(TagAttr))

	loaded, objects := roundTrip(t, doc)
	assert.Len(t, objects, 2)
	assert.Equal(t, 3, loaded.Len())
	assert.Equal(t, "root", domain.TagOf(loaded.Root()))
	assert.Same(t, loaded.Lookup("child"), loaded.Lookup("loose").(*testPort).Owner)
	assert.Empty(t, loaded.Placeholders())
}

func TestDecode_ReferenceBeforeDefinition(t *testing.T) {
	const doc = `<kuiper major="0" minor="1" bug="0">
  <testport tag="a">
    <fields><name>A</name></fields>
    <children>
      <owner><ref tag="b"/></owner>
      <neighbours><ref tag="b"/><ref tag="b"/></neighbours>
    </children>
  </testport>
  <testport tag="b"><fields><name>B</name></fields></testport>
</kuiper>`

	el, err := Read(strings.NewReader(doc))
	require.NoError(t, err)
	reg := domain.NewRegistry(nil)
	_, err = DecodeDocument(reg, el)
	require.NoError(t, err)

	a := reg.Lookup("a").(*testPort)
	b := reg.Lookup("b")
	assert.Same(t, b, a.Owner)
	require.Len(t, a.Neighbours, 2)
	assert.Same(t, b, a.Neighbours[0])
	assert.Same(t, b, a.Neighbours[1])
	assert.Empty(t, reg.Placeholders())
}

func TestDecode_UnresolvedReferenceStaysPlaceholder(t *testing.T) {
	const doc = `<testport tag="lonely"><children><owner><ref tag="nowhere"/></owner></children></testport>`

	el, err := Read(strings.NewReader(doc))
	require.NoError(t, err)
	reg := domain.NewRegistry(nil)
	_, err = DecodeDocument(reg, el)
	require.NoError(t, err)

	p := reg.Lookup("lonely").(*testPort)
	assert.True(t, domain.IsPlaceholder(p.Owner))
	require.Len(t, reg.Placeholders(), 1)
	slots := reg.Placeholders()[0].Slots()
	require.Len(t, slots, 1)
	assert.Equal(t, "lonely.owner", slots[0].String())
}

func TestDecode_TolerantOfUnknownNames(t *testing.T) {
	hook := test.NewLocal(logger.Log)
	defer logger.Log.ReplaceHooks(make(logrus.LevelHooks))

	const doc = `<kuiper major="0" minor="0" bug="3">
  <testport tag="x" warp="9" tariff="2.5">
    <fields>
      <nmae>typo</nmae>
      <name>Zed</name>
      <kind>battlestation</kind>
      <docked>true</docked>
    </fields>
    <children><ownr><ref tag="x"/></ownr></children>
    <notes>inline body value</notes>
  </testport>
  <starbase tag="y"/>
</kuiper>`

	el, err := Read(strings.NewReader(doc))
	require.NoError(t, err)
	reg := domain.NewRegistry(nil)
	objects, err := DecodeDocument(reg, el)
	require.NoError(t, err)
	require.Len(t, objects, 1)

	x := objects[0].(*testPort)
	assert.Equal(t, "Zed", x.Name)
	assert.Equal(t, 2.5, x.Tariff)
	assert.Equal(t, "station", x.Kind)
	assert.True(t, x.Docked)
	assert.Equal(t, "inline body value", x.Notes)
	assert.Nil(t, x.Owner)
	assert.Nil(t, reg.Lookup("y"))

	suggestions := map[string]string{}
	for _, e := range hook.AllEntries() {
		if e.Level != logrus.WarnLevel {
			continue
		}
		if s, ok := e.Data["suggestion"].(string); ok {
			suggestions[e.Data["name"].(string)] = s
		}
	}
	assert.Equal(t, "name", suggestions["nmae"])
	assert.Equal(t, "owner", suggestions["ownr"])
}

func TestRead_Errors(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNotADocument)

	_, err = Read(strings.NewReader("<testport><fields>"))
	assert.Error(t, err)

	_, err = DecodeDocument(domain.NewRegistry(nil), NewElement("kuiper"))
	assert.ErrorIs(t, err, ErrNotADocument)
}
