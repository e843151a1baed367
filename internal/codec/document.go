package codec

import (
	"encoding/xml"
	"io"
	"sort"

	"github.com/atiaxi/kuiper-sub000/internal/domain"
	"github.com/atiaxi/kuiper-sub000/internal/version"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// RootType - тип объекта, который становится корнем реестра после загрузки.
const RootType = "universe"

// ErrNotADocument - в потоке нет корневого элемента.
var ErrNotADocument = errors.New("not a kuiper document")

// Read разбирает XML поток в дерево Element.
func Read(r io.Reader) (*Element, error) {
	var root Element
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNotADocument
		}
		return nil, errors.Wrap(err, "parse xml")
	}
	return &root, nil
}

// Write пишет дерево Element с заголовком и отступами.
func Write(w io.Writer, el *Element) error {
	if el == nil {
		return ErrNotADocument
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return errors.Wrap(err, "write header")
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(el); err != nil {
		return errors.Wrap(err, "encode xml")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "flush xml")
	}
	_, err := io.WriteString(w, "\n")
	return errors.Wrap(err, "write trailer")
}

// DecodeDocument загружает документ в реестр: корень предметного типа
// (<universe>...) или обертку <kuiper> с версией формата. После разбора
// разрешает заглушки и назначает корень реестра. Возвращает все объекты
// верхнего уровня.
func DecodeDocument(reg *domain.Registry, doc *Element) ([]domain.Object, error) {
	if doc == nil {
		return nil, ErrNotADocument
	}

	// 1. Обертка: проверка версии и разбор всех объектов верхнего уровня.
	tops := []*Element{doc}
	if doc.Name() == version.DocumentElement {
		checkFormat(doc)
		tops = doc.Children
	}

	// 2. Разбор
	dec := NewDecoder(reg)
	var objects []domain.Object
	for _, el := range tops {
		if o := dec.Decode(el); o != nil {
			objects = append(objects, o)
		}
	}
	if len(objects) == 0 {
		return nil, errors.Wrapf(ErrNotADocument, "no objects in <%s>", doc.Name())
	}

	// 3. Корень: первая вселенная, иначе первый объект документа.
	root := objects[0]
	for _, o := range objects {
		if domain.TypeNameOf(o) == RootType {
			root = o
			break
		}
	}
	reg.SetRoot(root)

	// 4. Ссылки вперед и PostLoad.
	unresolved := reg.ResolvePlaceholders()

	log.WithFields(logrus.Fields{
		"root":       domain.TypeNameOf(root),
		"objects":    len(objects),
		"registered": reg.Len(),
		"unresolved": unresolved,
	}).Info("Document decoded")
	return objects, nil
}

// Load читает и разбирает документ целиком. Дерево Element не переживает вызов.
func Load(r io.Reader, reg *domain.Registry) (domain.Object, error) {
	doc, err := Read(r)
	if err != nil {
		return nil, err
	}
	if _, err := DecodeDocument(reg, doc); err != nil {
		return nil, err
	}
	return reg.Root(), nil
}

func checkFormat(doc *Element) {
	format := version.ParseFormat(doc.Attr)
	entry := log.WithFields(logrus.Fields{
		"file":    format.String(),
		"current": version.Current.String(),
	})
	switch {
	case format.Legacy():
		entry.Info("Reading intermediate format document")
	case !version.Current.Compatible(format):
		entry.Warn("Document major version differs, loading anyway")
	}
}

// sortedAttrs упорядочивает атрибуты по списку имен, остальные - по алфавиту в конце.
func sortedAttrs(attrs []xml.Attr, order ...string) []xml.Attr {
	rank := make(map[string]int, len(order))
	for i, name := range order {
		rank[name] = i
	}
	pos := func(a xml.Attr) int {
		if r, ok := rank[a.Name.Local]; ok {
			return r
		}
		return len(order)
	}
	sort.SliceStable(attrs, func(i, j int) bool {
		pi, pj := pos(attrs[i]), pos(attrs[j])
		if pi != pj {
			return pi < pj
		}
		return attrs[i].Name.Local < attrs[j].Name.Local
	})
	return attrs
}
