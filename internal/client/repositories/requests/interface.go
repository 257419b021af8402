package requests

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/desabantuin/internal/client/models"
)

var ErrNotFound = errors.New("request not found")

// Repository stores requests with their attachments.
type Repository interface {
	// List returns every request, newest first.
	List(ctx context.Context) ([]models.Request, error)

	// GetByID returns one request or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*models.Request, error)

	// Create inserts req and its attachments and sets req.ID.
	Create(ctx context.Context, req *models.Request) error
}
