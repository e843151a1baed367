package storage

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/atiaxi/kuiper-sub000/internal/codec"
	"github.com/atiaxi/kuiper-sub000/internal/domain"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// LoadFile загружает сценарий (.kui) или сохранение (.ksg) в реестр
// и возвращает корень. Файл закрывается до возврата.
func (s *FileStore) LoadFile(path string, reg *domain.Registry) (domain.Object, error) {
	switch filepath.Ext(path) {
	case ScenarioExt, SaveExt:
	default:
		return nil, errors.Wrapf(ErrUnsupportedExtension, "load %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	root, err := codec.Load(bufio.NewReader(f), reg)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}

	log.WithFields(logrus.Fields{
		"path":         path,
		"objects":      reg.Len(),
		"placeholders": len(reg.Placeholders()),
	}).Info("Document loaded")
	return root, nil
}

// LoadGame загружает сохранение по имени слота в папке сохранений.
func (s *FileStore) LoadGame(name string, reg *domain.Registry) (domain.Object, error) {
	return s.LoadFile(s.SavePath(name), reg)
}

// ListGames возвращает имена сохранений в папке (без расширения).
func (s *FileStore) ListGames() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.SaveDir, "*"+SaveExt))
	if err != nil {
		return nil, errors.Wrap(err, "list saves")
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		base := filepath.Base(m)
		names = append(names, base[:len(base)-len(SaveExt)])
	}
	return names, nil
}
