package storage

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"time"

	"github.com/atiaxi/kuiper-sub000/internal/codec"
	"github.com/atiaxi/kuiper-sub000/internal/domain"
	"github.com/atiaxi/kuiper-sub000/internal/version"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// ErrSlotNotFound - слота с таким именем нет.
var ErrSlotNotFound = errors.New("save slot not found")

const createSlots = `CREATE TABLE IF NOT EXISTS save_slots (
	name     TEXT PRIMARY KEY,
	saved_at INTEGER NOT NULL,
	format   TEXT NOT NULL,
	body     BLOB NOT NULL
)`

// Slot - описание сохранения без тела документа.
type Slot struct {
	Name    string
	SavedAt time.Time
	Format  string
}

// SlotStore хранит сохранения игры в одной базе SQLite.
// Тело слота - тот же XML документ, что пишет SaveGame.
type SlotStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSlotStore открывает (или создает) базу слотов.
func OpenSlotStore(path string) (*SlotStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("slot database path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite db")
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping sqlite db")
	}
	if _, err := db.Exec(createSlots); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create save_slots")
	}
	return &SlotStore{db: db, now: time.Now}, nil
}

// Close закрывает базу.
func (s *SlotStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save пишет весь реестр в слот. Существующий слот перезаписывается.
func (s *SlotStore) Save(ctx context.Context, name string, reg *domain.Registry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("slot name is required")
	}

	var body bytes.Buffer
	if err := codec.Write(&body, codec.EncodeRegistry(reg)); err != nil {
		return errors.Wrapf(err, "encode slot %s", name)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO save_slots (name, saved_at, format, body) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET saved_at = excluded.saved_at,
		   format = excluded.format, body = excluded.body`,
		name, s.now().UTC().UnixMilli(), version.Current.String(), body.Bytes(),
	)
	if err != nil {
		return errors.Wrapf(err, "save slot %s", name)
	}

	log.WithFields(logrus.Fields{
		"slot":    name,
		"objects": reg.Len(),
		"bytes":   body.Len(),
	}).Info("Slot saved")
	return nil
}

// Load загружает слот в реестр и возвращает корень.
func (s *SlotStore) Load(ctx context.Context, name string, reg *domain.Registry) (domain.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var body []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM save_slots WHERE name = ?`, name,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrSlotNotFound, "load %s", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load slot %s", name)
	}

	root, err := codec.Load(bytes.NewReader(body), reg)
	if err != nil {
		return nil, errors.Wrapf(err, "decode slot %s", name)
	}
	return root, nil
}

// List возвращает слоты, новые первыми.
func (s *SlotStore) List(ctx context.Context) ([]Slot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, saved_at, format FROM save_slots ORDER BY saved_at DESC, name`)
	if err != nil {
		return nil, errors.Wrap(err, "list slots")
	}
	defer rows.Close()

	var slots []Slot
	for rows.Next() {
		var (
			slot  Slot
			saved int64
		)
		if err := rows.Scan(&slot.Name, &saved, &slot.Format); err != nil {
			return nil, errors.Wrap(err, "scan slot")
		}
		slot.SavedAt = time.UnixMilli(saved).UTC()
		slots = append(slots, slot)
	}
	return slots, errors.Wrap(rows.Err(), "iterate slots")
}

// Delete удаляет слот.
func (s *SlotStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM save_slots WHERE name = ?`, name)
	if err != nil {
		return errors.Wrapf(err, "delete slot %s", name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "delete slot %s", name)
	}
	if n == 0 {
		return errors.Wrapf(ErrSlotNotFound, "delete %s", name)
	}
	return nil
}
