package requests

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/desabantuin/internal/client/models"
	"github.com/dmitrijs2005/desabantuin/internal/client/storage/sqlite"
	"github.com/dmitrijs2005/desabantuin/internal/dbx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Repository = (*SQLiteRepository)(nil)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newRequest(ref string, created time.Time) *models.Request {
	return &models.Request{
		Reference:    ref,
		Title:        "KTP baru",
		DocumentType: "KTP",
		Kind:         models.KindRequest,
		Description:  "Permintaan pembuatan KTP",
		Status:       models.StatusPending,
		CreatedAt:    created,
		Attachments: []models.Attachment{
			{Filename: "ktp.jpg", URL: "https://example.org/ktp.jpg"},
		},
	}
}

func TestList_Seeded(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	list, err := r.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 10)

	assert.Equal(t, int64(1), list[0].ID)
	assert.Equal(t, int64(10), list[9].ID)
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].CreatedAt.After(list[i-1].CreatedAt), "not newest first at %d", i)
	}

	assert.Len(t, list[0].Attachments, 2)
	assert.Equal(t, "ktp_scan.jpg", list[0].Attachments[0].Filename)
	assert.Len(t, list[1].Attachments, 1)
	assert.Empty(t, list[2].Attachments)
}

func TestGetByID(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	got, err := r.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Akta Lahir", got.DocumentType)
	assert.Equal(t, models.StatusRejected, got.Status)
	assert.Equal(t, models.KindRequest, got.Kind)
	assert.Equal(t, time.Date(2024, 1, 13, 9, 15, 0, 0, time.UTC), got.CreatedAt)
	require.NotNil(t, got.UpdatedAt)
	assert.Equal(t, time.Date(2024, 1, 14, 16, 30, 0, 0, time.UTC), *got.UpdatedAt)

	got, err = r.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got.UpdatedAt)
	assert.Len(t, got.Attachments, 2)

	_, err = r.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreate_RoundTrip(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	req := newRequest("ref-new", time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, r.Create(ctx, req))
	assert.Equal(t, int64(11), req.ID)

	got, err := r.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, req, got)

	list, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, req.ID, list[0].ID)
}

func TestCreate_DuplicateReferenceRollsBack(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, newRequest("dup", time.Now())))
	err := r.Create(ctx, newRequest("dup", time.Now()))
	require.Error(t, err)

	var n int
	require.NoError(t, db.QueryRow(`select count(*) from request_attachments`).Scan(&n))
	assert.Equal(t, 3+1, n, "attachments of the failed insert must not remain")
}

func TestCreate_InsideOuterTx(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := NewSQLiteRepository(tx).Create(ctx, newRequest("outer", time.Now())); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, db.QueryRow(`select count(*) from requests where reference='outer'`).Scan(&n))
	assert.Zero(t, n)
}

func TestCreate_AttachmentFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`insert into requests`).WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec(`insert into request_attachments`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	req := newRequest("ref", time.Now())
	err = NewSQLiteRepository(db).Create(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ktp.jpg")
	assert.Zero(t, req.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`select id, reference`).WillReturnError(errors.New("no such table"))

	_, err = NewSQLiteRepository(db).List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to select requests")
	require.NoError(t, mock.ExpectationsWereMet())
}
