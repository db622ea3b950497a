package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"log/slog"

	"github.com/garnizeh/portfolio/pkg/models"
	"github.com/garnizeh/portfolio/pkg/repository"
	"github.com/google/uuid"
)

func (r *SQLiteRepo) List(ctx context.Context, collection string) ([]models.Document, error) {
	if !models.IsCollection(collection) {
		return nil, repository.ErrUnknownCollection
	}

	rows, err := r.conn.QueryRows(ctx, `SELECT id, fields, created, updated FROM documents WHERE collection = ? ORDER BY created, rowid`, collection)
	if err != nil {
		return nil, storeErr("list", collection, err)
	}
	defer rows.Close()

	out := []models.Document{}
	for rows.Next() {
		var d models.Document
		var raw string
		if err := rows.Scan(&d.ID, &raw, &d.Created, &d.Updated); err != nil {
			return nil, storeErr("list", collection, err)
		}
		if d.Fields, err = decodeFields(raw); err != nil {
			// a single corrupt record must not hide the rest of the collection
			r.logger.Error("skipping undecodable document", slog.String("collection", collection), slog.String("id", d.ID), slog.Any("err", err))
			continue
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list", collection, err)
	}

	return out, nil
}

func (r *SQLiteRepo) Get(ctx context.Context, collection, id string) (*models.Document, error) {
	if !models.IsCollection(collection) {
		return nil, repository.ErrUnknownCollection
	}

	row := r.conn.QueryRow(ctx, `SELECT id, fields, created, updated FROM documents WHERE collection = ? AND id = ?`, collection, id)
	var d models.Document
	var raw string
	if err := row.Scan(&d.ID, &raw, &d.Created, &d.Updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}

		return nil, storeErr("get", collection, err)
	}

	fields, err := decodeFields(raw)
	if err != nil {
		return nil, storeErr("get", collection, err)
	}
	d.Fields = fields

	return &d, nil
}

func (r *SQLiteRepo) Create(ctx context.Context, collection string, fields models.Fields) (string, error) {
	if !models.IsCollection(collection) {
		return "", repository.ErrUnknownCollection
	}

	raw, err := encodeFields(fields)
	if err != nil {
		return "", storeErr("create", collection, err)
	}

	id := uuid.NewString()
	ts := now()
	if _, err := r.conn.Exec(ctx, `INSERT INTO documents (collection, id, fields, created, updated) VALUES (?, ?, ?, ?, ?)`, collection, id, raw, ts, ts); err != nil {
		return "", storeErr("create", collection, err)
	}

	return id, nil
}

func (r *SQLiteRepo) Update(ctx context.Context, collection, id string, fields models.Fields) error {
	if !models.IsCollection(collection) {
		return repository.ErrUnknownCollection
	}

	raw, err := encodeFields(fields)
	if err != nil {
		return storeErr("update", collection, err)
	}

	res, err := r.conn.Exec(ctx, `UPDATE documents SET fields = ?, updated = ? WHERE collection = ? AND id = ?`, raw, now(), collection, id)
	if err != nil {
		return storeErr("update", collection, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("update", collection, err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *SQLiteRepo) Delete(ctx context.Context, collection, id string) error {
	if !models.IsCollection(collection) {
		return repository.ErrUnknownCollection
	}

	if _, err := r.conn.Exec(ctx, `DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id); err != nil {
		return storeErr("delete", collection, err)
	}

	return nil
}

// SetSingleton writes the document at a fixed key, creating it when absent.
func (r *SQLiteRepo) SetSingleton(ctx context.Context, collection, key string, fields models.Fields) error {
	if !models.IsCollection(collection) {
		return repository.ErrUnknownCollection
	}

	raw, err := encodeFields(fields)
	if err != nil {
		return storeErr("set", collection, err)
	}

	ts := now()
	_, err = r.conn.Exec(ctx, `INSERT INTO documents (collection, id, fields, created, updated) VALUES (?, ?, ?, ?, ?) ON CONFLICT(collection, id) DO UPDATE SET fields=excluded.fields, updated=excluded.updated`, collection, key, raw, ts, ts)
	if err != nil {
		return storeErr("set", collection, err)
	}

	return nil
}

func storeErr(op, collection string, err error) error {
	return &repository.StoreError{Op: op, Collection: collection, Err: err}
}

func encodeFields(fields models.Fields) (string, error) {
	if fields == nil {
		fields = models.Fields{}
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encode fields: %w", err)
	}
	return string(b), nil
}

// decodeFields restores list values as []string so callers never see []any.
func decodeFields(raw string) (models.Fields, error) {
	var decoded map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	fields := make(models.Fields, len(decoded))
	for k, v := range decoded {
		if list, ok := v.([]any); ok {
			fields[k] = models.Fields{k: list}.List(k)
			continue
		}
		fields[k] = v
	}
	return fields, nil
}
