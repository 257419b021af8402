package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/desabantuin/internal/client/models"
	"github.com/dmitrijs2005/desabantuin/internal/client/repositories/requests"
	"github.com/dmitrijs2005/desabantuin/internal/logging"
	"github.com/google/uuid"
)

const (
	msgRequestMissing   = "Mohon lengkapi semua field yang diperlukan"
	msgUnknownDocType   = "Jenis dokumen tidak dikenal"
	msgUnknownKind      = "Jenis pengajuan tidak dikenal"
	msgUnknownStatus    = "Status tidak dikenal"
	msgUnknownSortOrder = "Urutan tidak dikenal"
	msgAttachmentName   = "Nama file lampiran wajib diisi"
)

// CreateRequestForm is the create-request sheet input.
type CreateRequestForm struct {
	Title        string
	Description  string
	DocumentType string
	Kind         string
	Attachments  []models.Attachment
}

// RequestService backs the home, history and create-request screens.
type RequestService interface {
	DocumentTypes() []string
	Statistics(ctx context.Context) (models.Statistics, error)
	Recent(ctx context.Context, n int) ([]models.Request, error)
	History(ctx context.Context, f models.HistoryFilter) ([]models.Request, error)
	Get(ctx context.Context, id int64) (*models.Request, error)
	Create(ctx context.Context, f CreateRequestForm) (*models.Request, error)
}

type requestService struct {
	repo   requests.Repository
	log    logging.Logger
	now    func() time.Time
	newRef func() string
}

func NewRequestService(repo requests.Repository, log logging.Logger) RequestService {
	if log == nil {
		log = logging.Nop()
	}
	return &requestService{
		repo:   repo,
		log:    log.With("component", "requests"),
		now:    time.Now,
		newRef: func() string { return uuid.NewString() },
	}
}

func (s *requestService) DocumentTypes() []string {
	return slices.Clone(models.DocumentTypes)
}

func (s *requestService) Statistics(ctx context.Context) (models.Statistics, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return models.Statistics{}, fmt.Errorf("load requests: %w", err)
	}

	st := models.Statistics{Total: len(list)}
	for _, r := range list {
		switch r.Status {
		case models.StatusPending:
			st.Pending++
		case models.StatusApproved:
			st.Approved++
		case models.StatusRejected:
			st.Rejected++
		}
	}
	return st, nil
}

// Recent returns at most n requests, newest first.
func (s *requestService) Recent(ctx context.Context, n int) ([]models.Request, error) {
	list, err := s.History(ctx, models.HistoryFilter{Sort: models.SortNewest})
	if err != nil {
		return nil, err
	}
	if n >= 0 && len(list) > n {
		list = list[:n]
	}
	return list, nil
}

func active(v string) bool {
	return v != "" && v != models.FilterAll
}

func (s *requestService) History(ctx context.Context, f models.HistoryFilter) ([]models.Request, error) {
	var status models.Status
	if active(f.Status) {
		st, err := models.ParseStatus(f.Status)
		if err != nil {
			return nil, &ValidationError{Message: msgUnknownStatus, Err: err}
		}
		status = st
	}
	if active(f.DocumentType) && !models.ValidDocumentType(f.DocumentType) {
		return nil, &ValidationError{Message: msgUnknownDocType, Err: models.ErrUnknownDocumentType}
	}
	order, err := models.ParseSortOrder(string(f.Sort))
	if err != nil {
		return nil, &ValidationError{Message: msgUnknownSortOrder, Err: err}
	}

	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load requests: %w", err)
	}

	out := list[:0]
	for _, r := range list {
		if status != "" && r.Status != status {
			continue
		}
		if active(f.DocumentType) && r.DocumentType != f.DocumentType {
			continue
		}
		out = append(out, r)
	}

	slices.SortStableFunc(out, func(a, b models.Request) int {
		if order == models.SortOldest {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (s *requestService) Get(ctx context.Context, id int64) (*models.Request, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *requestService) Create(ctx context.Context, f CreateRequestForm) (*models.Request, error) {
	title := strings.TrimSpace(f.Title)
	desc := strings.TrimSpace(f.Description)
	if title == "" || desc == "" || strings.TrimSpace(f.DocumentType) == "" {
		return nil, &ValidationError{Message: msgRequestMissing}
	}
	if !models.ValidDocumentType(f.DocumentType) {
		return nil, &ValidationError{Message: msgUnknownDocType, Err: models.ErrUnknownDocumentType}
	}
	kind, err := models.ParseKind(f.Kind)
	if err != nil {
		return nil, &ValidationError{Message: msgUnknownKind, Err: err}
	}
	for _, a := range f.Attachments {
		if strings.TrimSpace(a.Filename) == "" {
			return nil, &ValidationError{Message: msgAttachmentName}
		}
	}

	req := &models.Request{
		Reference:    s.newRef(),
		Title:        title,
		DocumentType: f.DocumentType,
		Kind:         kind,
		Description:  desc,
		Status:       models.StatusPending,
		CreatedAt:    s.now().UTC().Truncate(time.Second),
		Attachments:  slices.Clone(f.Attachments),
	}
	if err := s.repo.Create(ctx, req); err != nil {
		s.log.Error(ctx, "request not saved", "error", err)
		return nil, fmt.Errorf("save request: %w", err)
	}

	s.log.Info(ctx, "request created", "id", req.ID, "reference", req.Reference)
	return req, nil
}

// IsNotFound reports whether err means the request does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, requests.ErrNotFound)
}
