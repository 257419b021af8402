package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_Complete(t *testing.T) {
	full := User{ID: 1, Name: "Ana", Email: "a@x.com", PhoneNumber: "0811", Role: "citizen"}
	assert.True(t, full.Complete())

	for name, u := range map[string]User{
		"no id":    {Name: "Ana", Email: "a@x.com", PhoneNumber: "0811", Role: "citizen"},
		"no name":  {ID: 1, Name: "  ", Email: "a@x.com", PhoneNumber: "0811", Role: "citizen"},
		"no email": {ID: 1, Name: "Ana", PhoneNumber: "0811", Role: "citizen"},
		"no phone": {ID: 1, Name: "Ana", Email: "a@x.com", Role: "citizen"},
		"no role":  {ID: 1, Name: "Ana", Email: "a@x.com", PhoneNumber: "0811"},
	} {
		assert.False(t, u.Complete(), name)
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, KindRequest, k)

	k, err = ParseKind("pelaporan")
	require.NoError(t, err)
	assert.Equal(t, KindReport, k)

	_, err = ParseKind("keluhan")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("approved")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, s)

	_, err = ParseStatus("all")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestStatus_Label(t *testing.T) {
	assert.Equal(t, "Pending", StatusPending.Label())
	assert.Equal(t, "Disetujui", StatusApproved.Label())
	assert.Equal(t, "Ditolak", StatusRejected.Label())
	assert.Equal(t, "archived", Status("archived").Label())
}

func TestValidDocumentType(t *testing.T) {
	assert.True(t, ValidDocumentType("KTP"))
	assert.True(t, ValidDocumentType("KIS (Kartu Indonesia Sehat)"))
	assert.False(t, ValidDocumentType("ktp"))
	assert.False(t, ValidDocumentType("Paspor"))
}

func TestParseSortOrder(t *testing.T) {
	s, err := ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, SortNewest, s)

	s, err = ParseSortOrder("oldest")
	require.NoError(t, err)
	assert.Equal(t, SortOldest, s)

	_, err = ParseSortOrder("alphabetical")
	assert.ErrorIs(t, err, ErrUnknownSortOrder)
}
