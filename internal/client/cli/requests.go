package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/desabantuin/internal/client/models"
	"github.com/dmitrijs2005/desabantuin/internal/client/services"
)

const (
	dateLayout  = "02 Jan 2006 15:04"
	recentLimit = 5
)

var getMultiline = GetMultiline
var getAttachments = GetAttachments

// Home prints the greeting, request statistics and the latest requests.
func (a *App) Home(ctx context.Context) error {
	if u := a.store.Current().User; u != nil {
		fmt.Fprintf(a.out, "Halo, %s\n\n", u.Name)
	}

	st, err := a.requestService.Statistics(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Gagal memuat data statistik")
		return err
	}
	fmt.Fprintf(a.out, "Total: %d  Pending: %d  Disetujui: %d  Ditolak: %d\n\n",
		st.Total, st.Pending, st.Approved, st.Rejected)

	recent, err := a.requestService.Recent(ctx, recentLimit)
	if err != nil {
		fmt.Fprintln(a.out, "Gagal memuat data statistik")
		return err
	}
	fmt.Fprintln(a.out, "Permintaan terbaru:")
	printRequests(a.out, recent)
	return nil
}

// History prints the filtered request list. Arguments are key=value pairs:
// status=<pending|approved|rejected|all>, type=<name or number from
// 'types'>, sort=<newest|oldest>. Underscores in type stand for spaces.
func (a *App) History(ctx context.Context, args []string) error {
	f, err := parseHistoryArgs(args, a.requestService.DocumentTypes())
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		fmt.Fprintln(a.out, "Usage: history [status=..] [type=..] [sort=newest|oldest]")
		return err
	}

	list, err := a.requestService.History(ctx, f)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", services.UserMessage(err))
		return err
	}
	printRequests(a.out, list)
	return nil
}

func parseHistoryArgs(args []string, types []string) (models.HistoryFilter, error) {
	var f models.HistoryFilter
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			return f, fmt.Errorf("expected key=value, got %q", arg)
		}
		switch k {
		case "status":
			f.Status = v
		case "type":
			f.DocumentType = resolveDocumentType(v, types)
		case "sort":
			f.Sort = models.SortOrder(v)
		default:
			return f, fmt.Errorf("unknown filter %q", k)
		}
	}
	return f, nil
}

// resolveDocumentType accepts a 1-based index into types or a name.
func resolveDocumentType(v string, types []string) string {
	if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= len(types) {
		return types[n-1]
	}
	return strings.ReplaceAll(v, "_", " ")
}

// Show prints one request. The id comes from args or is prompted for.
func (a *App) Show(ctx context.Context, args []string) error {
	raw := ""
	if len(args) > 0 {
		raw = args[0]
	} else {
		var err error
		if raw, err = getSimpleText(a.reader, "Request ID", a.out); err != nil {
			return err
		}
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Fprintln(a.out, "Usage: show <id>")
		return err
	}

	r, err := a.requestService.Get(ctx, id)
	if err != nil {
		if services.IsNotFound(err) {
			fmt.Fprintf(a.out, "Request %d not found\n", id)
		} else {
			fmt.Fprintln(a.out, "Error:", err)
		}
		return err
	}

	fmt.Fprintf(a.out, "#%d  %s\n", r.ID, r.Title)
	fmt.Fprintf(a.out, "Referensi: %s\n", r.Reference)
	fmt.Fprintf(a.out, "Jenis:     %s (%s)\n", r.DocumentType, r.Kind)
	fmt.Fprintf(a.out, "Status:    %s\n", r.Status.Label())
	fmt.Fprintf(a.out, "Dibuat:    %s\n", r.CreatedAt.Local().Format(dateLayout))
	if r.UpdatedAt != nil {
		fmt.Fprintf(a.out, "Diperbarui: %s\n", r.UpdatedAt.Local().Format(dateLayout))
	}
	fmt.Fprintf(a.out, "\n%s\n", r.Description)
	if len(r.Attachments) > 0 {
		fmt.Fprintln(a.out, "\nLampiran:")
		for _, att := range r.Attachments {
			fmt.Fprintf(a.out, "  - %s %s\n", att.Filename, att.URL)
		}
	}
	return nil
}

// Create walks the user through the create-request form.
func (a *App) Create(ctx context.Context) error {
	types := a.requestService.DocumentTypes()
	var f services.CreateRequestForm
	var err error

	if f.Title, err = getSimpleText(a.reader, "Judul", a.out); err != nil {
		return err
	}

	printTypes(a.out, types)
	dt, err := getSimpleText(a.reader, "Jenis dokumen (nomor atau nama)", a.out)
	if err != nil {
		return err
	}
	f.DocumentType = resolveDocumentType(dt, types)

	if f.Kind, err = getSimpleText(a.reader, "Tipe: permintaan atau pelaporan (default permintaan)", a.out); err != nil {
		return err
	}
	if f.Description, err = getMultiline(a.reader, "Deskripsi", a.out); err != nil {
		return err
	}
	if f.Attachments, err = getAttachments(a.reader, a.out); err != nil {
		return err
	}

	r, err := a.requestService.Create(ctx, f)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", services.UserMessage(err))
		return err
	}

	fmt.Fprintf(a.out, "Permintaan berhasil dibuat (#%d, ref %s)\n", r.ID, r.Reference)
	return nil
}

// Types lists the document types with the numbers accepted by create and history.
func (a *App) Types(ctx context.Context) error {
	printTypes(a.out, a.requestService.DocumentTypes())
	return nil
}

func printTypes(w io.Writer, types []string) {
	for i, t := range types {
		fmt.Fprintf(w, "%2d. %s\n", i+1, t)
	}
}

func printRequests(w io.Writer, list []models.Request) {
	if len(list) == 0 {
		fmt.Fprintln(w, "Belum ada permintaan")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tJUDUL\tJENIS\tSTATUS\tTANGGAL")
	for _, r := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			r.ID, r.Title, r.DocumentType, r.Status.Label(), r.CreatedAt.Local().Format(dateLayout))
	}
	_ = tw.Flush()
}
