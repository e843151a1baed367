package storage

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/atiaxi/kuiper-sub000/internal/codec"
	"github.com/atiaxi/kuiper-sub000/internal/domain"
	"github.com/atiaxi/kuiper-sub000/pkg/logger"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logger.Component("storage")

// Расширения файлов.
const (
	ScenarioExt = ".kui" // описание вселенной
	SaveExt     = ".ksg" // сохраненная игра
)

// ErrUnsupportedExtension - файл не похож ни на сценарий, ни на сохранение.
var ErrUnsupportedExtension = errors.New("unsupported file extension")

// FileStore читает и пишет сценарии и сохранения в файловой системе.
type FileStore struct {
	SaveDir string
}

// NewFileStore создает хранилище. Папка сохранений создается при необходимости.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create save dir %s", dir)
	}
	return &FileStore{SaveDir: dir}, nil
}

// SavePath возвращает путь файла сохранения по имени.
func (s *FileStore) SavePath(name string) string {
	if !strings.HasSuffix(name, SaveExt) {
		name += SaveExt
	}
	return filepath.Join(s.SaveDir, name)
}

// SaveScenario пишет вселенную (и все, что в ней достижимо) в файл .kui.
func (s *FileStore) SaveScenario(path string, universe domain.Object) error {
	if filepath.Ext(path) != ScenarioExt {
		return errors.Wrapf(ErrUnsupportedExtension, "scenario %s", path)
	}
	return writeFile(path, codec.ToXML(universe))
}

// SaveGame выгружает весь реестр в <SaveDir>/<name>.ksg. Возвращает путь файла.
func (s *FileStore) SaveGame(name string, reg *domain.Registry) (string, error) {
	path := s.SavePath(name)
	if err := writeFile(path, codec.EncodeRegistry(reg)); err != nil {
		return "", err
	}
	return path, nil
}

// Export пишет реестр в произвольный путь: сценарий для .kui, полный дамп для .ksg.
func (s *FileStore) Export(path string, reg *domain.Registry) error {
	switch filepath.Ext(path) {
	case ScenarioExt:
		return s.SaveScenario(path, reg.Root())
	case SaveExt:
		return writeFile(path, codec.EncodeRegistry(reg))
	}
	return errors.Wrapf(ErrUnsupportedExtension, "export %s", path)
}

func writeFile(path string, el *codec.Element) error {
	// 1. Пишем во временный файл рядом, чтобы не оставить обрезанный документ.
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrapf(err, "create %s", tmp)
	}

	w := bufio.NewWriter(f)
	if err := codec.Write(w, el); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "write %s", path)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "flush %s", path)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "close %s", path)
	}

	// 2. Подменяем файл целиком.
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "rename %s", tmp)
	}

	log.WithFields(logrus.Fields{
		"path": path,
		"root": el.Name(),
	}).Info("Document written")
	return nil
}
