package cli

import (
	"bufio"
	"context"
	"io"
	"testing"
	"time"

	"github.com/dmitrijs2005/desabantuin/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRequests() []models.Request {
	upd := time.Date(2024, 1, 16, 9, 15, 0, 0, time.UTC)
	return []models.Request{
		{ID: 1, Reference: "r1", Title: "KTP baru", DocumentType: "KTP", Kind: models.KindRequest, Description: "Pindah domisili",
			Status: models.StatusPending, CreatedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
			Attachments: []models.Attachment{{Filename: "ktp_scan.jpg", URL: "https://x/ktp.jpg"}}},
		{ID: 2, Reference: "r2", Title: "Kartu Keluarga baru", DocumentType: "KK", Kind: models.KindRequest, Description: "KK",
			Status: models.StatusApproved, CreatedAt: time.Date(2024, 1, 14, 14, 20, 0, 0, time.UTC), UpdatedAt: &upd},
		{ID: 3, Reference: "r3", Title: "Akta kelahiran anak", DocumentType: "Akta Lahir", Kind: models.KindRequest, Description: "Akta",
			Status: models.StatusRejected, CreatedAt: time.Date(2024, 1, 13, 9, 15, 0, 0, time.UTC)},
	}
}

func TestHome(t *testing.T) {
	a, out := newTestApp(t, &fakeAuth{}, seedRequests()...)
	signIn(t, a)

	require.NoError(t, a.Home(context.Background()))

	s := out.String()
	assert.Contains(t, s, "Halo, Ana")
	assert.Contains(t, s, "Total: 3  Pending: 1  Disetujui: 1  Ditolak: 1")
	assert.Contains(t, s, "KTP baru")
	assert.Contains(t, s, "Disetujui")
}

func TestHistory(t *testing.T) {
	a, out := newTestApp(t, &fakeAuth{}, seedRequests()...)

	require.NoError(t, a.History(context.Background(), []string{"type=Akta_Lahir"}))
	assert.Contains(t, out.String(), "Akta kelahiran anak")
	assert.NotContains(t, out.String(), "KTP baru")

	out.Reset()
	require.NoError(t, a.History(context.Background(), []string{"type=2", "status=approved"}))
	assert.Contains(t, out.String(), "Kartu Keluarga baru")

	out.Reset()
	require.NoError(t, a.History(context.Background(), []string{"status=pending", "type=KK"}))
	assert.Contains(t, out.String(), "Belum ada permintaan")
}

func TestHistory_BadArgs(t *testing.T) {
	a, out := newTestApp(t, &fakeAuth{}, seedRequests()...)

	require.Error(t, a.History(context.Background(), []string{"pending"}))
	assert.Contains(t, out.String(), "Usage: history")

	out.Reset()
	require.Error(t, a.History(context.Background(), []string{"status=done"}))
	assert.Contains(t, out.String(), "Status tidak dikenal")
}

func TestShow(t *testing.T) {
	a, out := newTestApp(t, &fakeAuth{}, seedRequests()...)

	require.NoError(t, a.Show(context.Background(), []string{"1"}))
	s := out.String()
	assert.Contains(t, s, "#1  KTP baru")
	assert.Contains(t, s, "Status:    Pending")
	assert.Contains(t, s, "ktp_scan.jpg")
	assert.NotContains(t, s, "Diperbarui")

	out.Reset()
	stubInputs(t, []string{"2"})
	require.NoError(t, a.Show(context.Background(), nil))
	assert.Contains(t, out.String(), "Diperbarui")

	out.Reset()
	require.Error(t, a.Show(context.Background(), []string{"42"}))
	assert.Contains(t, out.String(), "Request 42 not found")

	out.Reset()
	require.Error(t, a.Show(context.Background(), []string{"abc"}))
	assert.Contains(t, out.String(), "Usage: show <id>")
}

func stubForm(t *testing.T, lines []string, description string, atts []models.Attachment) {
	t.Helper()
	stubInputs(t, lines)
	origML, origAT := getMultiline, getAttachments
	getMultiline = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return description, nil }
	getAttachments = func(_ *bufio.Reader, _ io.Writer) ([]models.Attachment, error) { return atts, nil }
	t.Cleanup(func() {
		getMultiline = origML
		getAttachments = origAT
	})
}

func TestCreate(t *testing.T) {
	a, out := newTestApp(t, &fakeAuth{}, seedRequests()...)
	stubForm(t, []string{"KIS keluarga", "8", ""}, "Permintaan KIS", []models.Attachment{{Filename: "kk.pdf", URL: "u"}})

	require.NoError(t, a.Create(context.Background()))
	assert.Contains(t, out.String(), "Permintaan berhasil dibuat (#4")

	got, err := a.requestService.Get(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "KIS (Kartu Indonesia Sehat)", got.DocumentType)
	assert.Equal(t, models.KindRequest, got.Kind)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Len(t, got.Attachments, 1)
}

func TestCreate_ValidationError(t *testing.T) {
	a, out := newTestApp(t, &fakeAuth{})
	stubForm(t, []string{"", "KTP", ""}, "", nil)

	require.Error(t, a.Create(context.Background()))
	assert.Contains(t, out.String(), "Mohon lengkapi semua field yang diperlukan")
}

func TestTypes(t *testing.T) {
	a, out := newTestApp(t, &fakeAuth{})
	require.NoError(t, a.Types(context.Background()))
	assert.Contains(t, out.String(), " 1. KTP")
	assert.Contains(t, out.String(), " 8. KIS (Kartu Indonesia Sehat)")
}
