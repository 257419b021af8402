package models

import (
	"errors"
	"time"
)

// Status is the processing state of a request at the village office.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Label returns the Indonesian label shown to villagers.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusApproved:
		return "Disetujui"
	case StatusRejected:
		return "Ditolak"
	default:
		return string(s)
	}
}

// Kind distinguishes a request for a document from a report.
type Kind string

const (
	KindRequest Kind = "permintaan"
	KindReport  Kind = "pelaporan"
)

var (
	ErrUnknownDocumentType = errors.New("unknown document type")
	ErrUnknownKind         = errors.New("unknown request kind")
	ErrUnknownStatus       = errors.New("unknown status")
	ErrUnknownSortOrder    = errors.New("unknown sort order")
)

// DocumentTypes lists the documents the office issues, in display order.
var DocumentTypes = []string{
	"KTP",
	"KK",
	"Buku Nikah",
	"Akta Nikah",
	"Akta Lahir",
	"Surat Kematian",
	"KIA (Kartu identitas anak)",
	"KIS (Kartu Indonesia Sehat)",
}

func ValidDocumentType(t string) bool {
	for _, dt := range DocumentTypes {
		if dt == t {
			return true
		}
	}
	return false
}

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "":
		return KindRequest, nil
	case KindRequest, KindReport:
		return Kind(s), nil
	default:
		return "", ErrUnknownKind
	}
}

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return Status(s), nil
	default:
		return "", ErrUnknownStatus
	}
}

// Attachment is a file reference shown with a request. Attachments are
// display-only; nothing is uploaded.
type Attachment struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// Request is a document request (or report) filed by a villager.
type Request struct {
	ID           int64        `json:"id"`
	Reference    string       `json:"reference"`
	Title        string       `json:"title"`
	DocumentType string       `json:"laporan_type"`
	Kind         Kind         `json:"type"`
	Description  string       `json:"description"`
	Status       Status       `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    *time.Time   `json:"updated_at,omitempty"`
	Attachments  []Attachment `json:"attachments,omitempty"`
}

// Statistics summarises requests by status for the home screen.
type Statistics struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// SortOrder orders history by creation time.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// ParseSortOrder maps "" to SortNewest.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case "":
		return SortNewest, nil
	case SortNewest, SortOldest:
		return SortOrder(s), nil
	default:
		return "", ErrUnknownSortOrder
	}
}

// FilterAll disables a history filter.
const FilterAll = "all"

// HistoryFilter selects and orders requests on the history screen. Empty
// or FilterAll values disable the corresponding filter.
type HistoryFilter struct {
	Status       string
	DocumentType string
	Sort         SortOrder
}
