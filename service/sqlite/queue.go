package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/imagvfx/renderq/service"
)

// CreateQueueTable creates queue table to a database if not exists.
// It is ok to call it multiple times.
func CreateQueueTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS queue (
			ord INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			scene TEXT NOT NULL,
			start_frame INTEGER NOT NULL,
			end_frame INTEGER NOT NULL,
			output_dir TEXT NOT NULL,
			render_layer TEXT NOT NULL,
			resolution INTEGER NOT NULL,
			mode INTEGER NOT NULL
		);
	`)
	return err
}

// QueueService interacts with a database for renderq queue.
type QueueService struct {
	db *sql.DB
}

// NewQueueService creates a new QueueService.
func NewQueueService(db *sql.DB) *QueueService {
	return &QueueService{db: db}
}

// AddQueueItem adds an item at the back of the queue.
func (s *QueueService) AddQueueItem(it *service.QueueItem) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return -1, err
	}
	defer tx.Rollback()
	ord, err := addQueueItem(tx, it)
	if err != nil {
		return -1, err
	}
	err = tx.Commit()
	if err != nil {
		return -1, err
	}
	return ord, nil
}

// addQueueItem adds an item into a database.
func addQueueItem(tx *sql.Tx, it *service.QueueItem) (int, error) {
	// Don't insert the item's order number, it will be generated from db.
	result, err := tx.Exec(`
		INSERT INTO queue (
			id,
			scene,
			start_frame,
			end_frame,
			output_dir,
			render_layer,
			resolution,
			mode
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		it.ID,
		it.Scene,
		it.Start,
		it.End,
		it.OutputDir,
		it.Layer,
		it.Resolution,
		it.Mode,
	)
	if err != nil {
		return -1, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return -1, err
	}
	return int(id), nil
}

// FindQueueItems returns all queue items in their order.
func (s *QueueService) FindQueueItems() ([]*service.QueueItem, error) {
	rows, err := s.db.Query(`
		SELECT
			ord,
			id,
			scene,
			start_frame,
			end_frame,
			output_dir,
			render_layer,
			resolution,
			mode
		FROM queue
		ORDER BY ord
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]*service.QueueItem, 0)
	for rows.Next() {
		it := &service.QueueItem{}
		err := rows.Scan(
			&it.Order,
			&it.ID,
			&it.Scene,
			&it.Start,
			&it.End,
			&it.OutputDir,
			&it.Layer,
			&it.Resolution,
			&it.Mode,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// RemoveQueueItem removes the item having the id.
func (s *QueueService) RemoveQueueItem(id string) error {
	result, err := s.db.Exec(`DELETE FROM queue WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("queue item not found: %v", id)
	}
	return nil
}

// ClearQueue removes the items having the ids.
// Ids those aren't in the queue are ignored.
func (s *QueueService) ClearQueue(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	marks := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err = tx.Exec(`DELETE FROM queue WHERE id IN (`+marks+`)`, args...)
	if err != nil {
		return err
	}
	return tx.Commit()
}
