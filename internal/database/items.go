package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shareit/internal/models"
)

const itemColumns = `id, owner_id, name, description, is_available, request_id`

func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	query := `INSERT INTO items (owner_id, name, description, is_available, request_id)
              VALUES (?, ?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		item.OwnerID,
		item.Name,
		item.Description,
		item.Available,
		nullableID(item.RequestID),
	)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	item.ID = id
	return nil
}

func (db *DB) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = ?`
	item, err := db.scanItemRow(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFound("item %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

func (db *DB) UpdateItem(ctx context.Context, item *models.Item) error {
	query := `UPDATE items SET owner_id = ?, name = ?, description = ?, is_available = ?, request_id = ? WHERE id = ?`
	_, err := db.ExecContext(ctx, query,
		item.OwnerID,
		item.Name,
		item.Description,
		item.Available,
		nullableID(item.RequestID),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return nil
}

func (db *DB) GetItemOwnerID(ctx context.Context, itemID int64) (int64, error) {
	var ownerID int64
	query := `SELECT owner_id FROM items WHERE id = ?`
	err := db.QueryRowContext(ctx, query, itemID).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, models.NotFound("item %d not found", itemID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get item owner: %w", err)
	}
	return ownerID, nil
}

func (db *DB) ListItemsByOwner(ctx context.Context, ownerID int64) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE owner_id = ? ORDER BY id`
	return db.queryItems(ctx, query, ownerID)
}

func (db *DB) ListItemIDsByOwner(ctx context.Context, ownerID int64) ([]int64, error) {
	query := `SELECT id FROM items WHERE owner_id = ? ORDER BY id`
	rows, err := db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query item ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan item id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (db *DB) ListItemsByIDs(ctx context.Context, ids []int64) ([]models.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM items WHERE id IN (%s)`, itemColumns, placeholders(len(ids)))
	return db.queryItems(ctx, query, int64Args(ids)...)
}

func (db *DB) ListItemsByRequestIDs(ctx context.Context, requestIDs []int64) ([]models.Item, error) {
	if len(requestIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM items WHERE request_id IN (%s)`, itemColumns, placeholders(len(requestIDs)))
	return db.queryItems(ctx, query, int64Args(requestIDs)...)
}

// SearchItems matches the text case-insensitively against name and
// description, returning only available items.
func (db *DB) SearchItems(ctx context.Context, text string) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items
              WHERE is_available = 1
              AND (instr(lower(name), lower(?)) > 0 OR instr(lower(description), lower(?)) > 0)
              ORDER BY id`
	return db.queryItems(ctx, query, text, text)
}

func (db *DB) queryItems(ctx context.Context, query string, args ...any) ([]models.Item, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		var requestID sql.NullInt64
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.Name, &item.Description, &item.Available, &requestID); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		if requestID.Valid {
			item.RequestID = &requestID.Int64
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (db *DB) scanItemRow(row rowScanner) (*models.Item, error) {
	var item models.Item
	var requestID sql.NullInt64
	if err := row.Scan(&item.ID, &item.OwnerID, &item.Name, &item.Description, &item.Available, &requestID); err != nil {
		return nil, err
	}
	if requestID.Valid {
		item.RequestID = &requestID.Int64
	}
	return &item, nil
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
