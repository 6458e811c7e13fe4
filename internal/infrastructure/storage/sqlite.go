package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/plomlompom/plomrogue-sub000/internal/domain"
	"github.com/plomlompom/plomrogue-sub000/pkg/logger"
	"github.com/sirupsen/logrus"
)

var ErrNoMemory = errors.New("no stored memory for thing")

// MemoryStore хранит карты памяти сущностей в SQLite, по записи на сущность.
type MemoryStore struct {
	conn *sqlx.DB
}

type memoryRow struct {
	ThingID    int64  `db:"thing_id"`
	Tick       int    `db:"tick"`
	Length     int    `db:"length"`
	Cells      []byte `db:"cells"`
	ThingsJSON string `db:"things_json"`
}

// OpenMemoryStore открывает (или создает) базу SQLite по пути path и создает таблицу памяти.
func OpenMemoryStore(path string) (*MemoryStore, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &MemoryStore{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close закрывает соединение с базой.
func (s *MemoryStore) Close() error {
	return s.conn.Close()
}

func (s *MemoryStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS memories (
		thing_id INTEGER PRIMARY KEY,
		tick INTEGER NOT NULL,
		length INTEGER NOT NULL,
		cells BLOB NOT NULL,
		things_json TEXT NOT NULL
	);`
	_, err := s.conn.Exec(schema)
	return err
}

// SaveMemory пишет память одной сущности (заменяя прошлую запись).
func (s *MemoryStore) SaveMemory(ctx context.Context, id domain.ThingID, tick int, mem *domain.MemoryComponent) error {
	row, err := toRow(id, tick, mem)
	if err != nil {
		return err
	}
	_, err = s.conn.NamedExecContext(ctx, `INSERT OR REPLACE INTO memories
		(thing_id, tick, length, cells, things_json)
		VALUES (:thing_id, :tick, :length, :cells, :things_json)`, row)
	return err
}

// SaveAll пишет память всех сущностей, у которых она есть, одной транзакцией.
func (s *MemoryStore) SaveAll(ctx context.Context, tick int, things []*domain.Thing) error {
	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx, `INSERT OR REPLACE INTO memories
		(thing_id, tick, length, cells, things_json)
		VALUES (:thing_id, :tick, :length, :cells, :things_json)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	saved := 0
	for _, t := range things {
		if t.Memory == nil || t.Memory.Map == nil {
			continue
		}
		row, err := toRow(t.ID, tick, t.Memory)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, row); err != nil {
			return fmt.Errorf("save memory of %s: %w", t.ID, err)
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	logger.Log.WithFields(logrus.Fields{
		"component": "memory_store",
		"tick":      tick,
		"saved":     saved,
	}).Info("Memory maps saved")
	return nil
}

// LoadMemory читает память сущности и тик, на котором она сохранена.
func (s *MemoryStore) LoadMemory(ctx context.Context, id domain.ThingID) (*domain.MemoryComponent, int, error) {
	var row memoryRow
	err := s.conn.GetContext(ctx, &row,
		"SELECT thing_id, tick, length, cells, things_json FROM memories WHERE thing_id = ?", int64(id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, fmt.Errorf("%w: %s", ErrNoMemory, id)
	}
	if err != nil {
		return nil, 0, err
	}

	if len(row.Cells) != row.Length*row.Length {
		return nil, 0, fmt.Errorf("memory of %s: %d cells for length %d", id, len(row.Cells), row.Length)
	}
	memMap, err := domain.NewGrid(row.Length, domain.MemUnknown)
	if err != nil {
		return nil, 0, err
	}
	copy(memMap.Cells, row.Cells)

	var things []domain.ThingMemory
	if err := json.Unmarshal([]byte(row.ThingsJSON), &things); err != nil {
		return nil, 0, fmt.Errorf("memory of %s: things: %w", id, err)
	}
	return &domain.MemoryComponent{Map: memMap, Things: things}, row.Tick, nil
}

func toRow(id domain.ThingID, tick int, mem *domain.MemoryComponent) (memoryRow, error) {
	if mem == nil || mem.Map == nil {
		return memoryRow{}, fmt.Errorf("thing %s has no memory to save", id)
	}
	things := mem.Things
	if things == nil {
		things = []domain.ThingMemory{}
	}
	thingsJSON, err := json.Marshal(things)
	if err != nil {
		return memoryRow{}, err
	}
	return memoryRow{
		ThingID:    int64(id),
		Tick:       tick,
		Length:     mem.Map.Length,
		Cells:      mem.Map.Cells,
		ThingsJSON: string(thingsJSON),
	}, nil
}
