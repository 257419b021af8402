package requests

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/desabantuin/internal/client/models"
	"github.com/dmitrijs2005/desabantuin/internal/dbx"
)

const timeLayout = time.RFC3339

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectRequest = `select id, reference, title, document_type, kind, description, status, created_at, updated_at from requests`

type scanner interface {
	Scan(dest ...any) error
}

func scanRequest(s scanner) (models.Request, error) {
	var (
		r         models.Request
		createdAt string
		updatedAt sql.NullString
	)
	if err := s.Scan(&r.ID, &r.Reference, &r.Title, &r.DocumentType, &r.Kind,
		&r.Description, &r.Status, &createdAt, &updatedAt); err != nil {
		return r, err
	}

	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return r, fmt.Errorf("request %d: bad created_at %q: %w", r.ID, createdAt, err)
	}
	r.CreatedAt = t

	if updatedAt.Valid {
		u, err := time.Parse(timeLayout, updatedAt.String)
		if err != nil {
			return r, fmt.Errorf("request %d: bad updated_at %q: %w", r.ID, updatedAt.String, err)
		}
		r.UpdatedAt = &u
	}
	return r, nil
}

// List returns all requests ordered by creation time, newest first.
func (r *SQLiteRepository) List(ctx context.Context) ([]models.Request, error) {
	rows, err := r.db.QueryContext(ctx, selectRequest+` order by created_at desc, id desc`)
	if err != nil {
		return nil, fmt.Errorf("failed to select requests: %w", err)
	}
	defer rows.Close()

	var result []models.Request
	index := map[int64]int{}
	for rows.Next() {
		item, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		index[item.ID] = len(result)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	atts, err := r.attachments(ctx, `select request_id, filename, url from request_attachments order by id`)
	if err != nil {
		return nil, err
	}
	for id, list := range atts {
		if i, ok := index[id]; ok {
			result[i].Attachments = list
		}
	}
	return result, nil
}

// GetByID returns a single request with its attachments.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Request, error) {
	row := r.db.QueryRowContext(ctx, selectRequest+` where id=?`, id)
	item, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request %d: %w", id, err)
	}

	atts, err := r.attachments(ctx, `select request_id, filename, url from request_attachments where request_id=? order by id`, id)
	if err != nil {
		return nil, err
	}
	item.Attachments = atts[id]
	return &item, nil
}

func (r *SQLiteRepository) attachments(ctx context.Context, query string, args ...any) (map[int64][]models.Attachment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select attachments: %w", err)
	}
	defer rows.Close()

	result := map[int64][]models.Attachment{}
	for rows.Next() {
		var (
			id int64
			a  models.Attachment
		)
		if err := rows.Scan(&id, &a.Filename, &a.URL); err != nil {
			return nil, err
		}
		result[id] = append(result[id], a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Create inserts the request and its attachments in one transaction. When
// the repository is already bound to a transaction, that one is used.
func (r *SQLiteRepository) Create(ctx context.Context, req *models.Request) error {
	if db, ok := r.db.(*sql.DB); ok {
		return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			return NewSQLiteRepository(tx).insert(ctx, req)
		})
	}
	return r.insert(ctx, req)
}

func (r *SQLiteRepository) insert(ctx context.Context, req *models.Request) error {
	var updatedAt any
	if req.UpdatedAt != nil {
		updatedAt = req.UpdatedAt.UTC().Format(timeLayout)
	}

	res, err := r.db.ExecContext(ctx,
		`insert into requests (reference, title, document_type, kind, description, status, created_at, updated_at)
		values (?, ?, ?, ?, ?, ?, ?, ?)`,
		req.Reference, req.Title, req.DocumentType, req.Kind, req.Description, req.Status,
		req.CreatedAt.UTC().Format(timeLayout), updatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert request: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get request id: %w", err)
	}

	for _, a := range req.Attachments {
		if _, err := r.db.ExecContext(ctx,
			`insert into request_attachments (request_id, filename, url) values (?, ?, ?)`,
			id, a.Filename, a.URL); err != nil {
			return fmt.Errorf("failed to insert attachment %s: %w", a.Filename, err)
		}
	}

	req.ID = id
	return nil
}
