// internal/adapters/output/pdf.go
package output

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"dossier/internal/core/domain"
	"dossier/internal/core/ports"
	"dossier/internal/platform/errors"
	"dossier/internal/platform/logx"
)

func init() {
	// pdfcpu no debe crear su directorio de configuración en el home del usuario
	model.ConfigPath = "disable"
}

const (
	reportTitle  = "Automated Reconnaissance Report"
	reportAuthor = "dossier"

	// Fuentes TrueType embebidas: el texto va en UTF-8 sin pasar por cp1252
	fontFamily = "Go"
	monoFamily = "GoMono"
	margin     = 12.7 // media pulgada
	lineHeight = 5.0
	bullet     = "\u2022"

	timeLayout = "2006-01-02 15:04:05 UTC"
)

var _ ports.ReportWriter = (*PDFWriter)(nil)

// PDFWriter renderiza un ReconRecord como informe PDF. La salida es
// determinista: el mismo registro produce siempre los mismos bytes.
type PDFWriter struct {
	logger logx.Logger
}

// NewPDFWriter crea un nuevo writer de informes PDF.
func NewPDFWriter(logger logx.Logger) *PDFWriter {
	if logger == nil {
		logger = logx.New()
	}
	return &PDFWriter{logger: logger.With("component", "pdf")}
}

// DefaultReportPath genera la ruta del informe: <dir>/<dominio>_<unix>.pdf
func DefaultReportPath(dir string, target domain.Target, now time.Time) string {
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%d.pdf", target.FileStem(), now.Unix()))
}

// Render escribe el informe completo en w.
func (w *PDFWriter) Render(record *domain.ReconRecord, out io.Writer) error {
	if record == nil {
		return domain.ErrNilRecord
	}

	pdf := newDocument(record)
	r := &renderer{pdf: pdf}

	r.titlePage(record)
	for _, res := range record.Results() {
		r.section(res)
	}

	if err := pdf.Output(out); err != nil {
		return errors.Wrap(err, "failed to render PDF")
	}
	return nil
}

// WriteFile renderiza en memoria, valida el resultado con pdfcpu y lo
// escribe de una sola vez. Nunca deja un fichero parcial en path.
func (w *PDFWriter) WriteFile(record *domain.ReconRecord, path string) error {
	if strings.TrimSpace(path) == "" {
		return domain.ErrInvalidOutputPath
	}

	var buf bytes.Buffer
	if err := w.Render(record, &buf); err != nil {
		return err
	}

	pages, err := ValidatePDF(buf.Bytes())
	if err != nil {
		return err
	}

	if err := writeAtomic(path, buf.Bytes()); err != nil {
		return err
	}

	w.logger.Info("report written",
		"path", path,
		"pages", pages,
		"bytes", buf.Len(),
	)
	return nil
}

// ValidatePDF comprueba la estructura del documento y retorna su número
// de páginas.
func ValidatePDF(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return 0, errors.Wrapf(domain.ErrInvalidReport, "read failed: %v", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return 0, errors.Wrapf(domain.ErrInvalidReport, "validation failed: %v", err)
	}
	if ctx.PageCount < 1 {
		return 0, errors.Wrap(domain.ErrInvalidReport, "document has no pages")
	}
	return ctx.PageCount, nil
}

// writeAtomic escribe en un temporal del mismo directorio y lo renombra.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}

	tmp, err := os.CreateTemp(dir, ".dossier-*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create output file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "failed to write output file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "failed to close output file")
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "failed to set output file mode")
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "failed to move output file into place")
	}
	return nil
}

// newDocument configura el documento con fechas fijas y catálogo ordenado.
func newDocument(record *domain.ReconRecord) *fpdf.Fpdf {
	pinned := record.FinishedAt().UTC()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(pinned)
	pdf.SetModificationDate(pinned)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(reportTitle+": "+record.Target().Domain, true)
	pdf.SetAuthor(reportAuthor, true)
	pdf.SetCreator(reportAuthor, true)
	pdf.AddUTF8FontFromBytes(fontFamily, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", gobold.TTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "I", goitalic.TTF)
	pdf.AddUTF8FontFromBytes(monoFamily, "", gomono.TTF)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin+5)
	pdf.AliasNbPages("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-margin)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})
	return pdf
}

// renderer agrupa el estado de un único render.
type renderer struct {
	pdf *fpdf.Fpdf
}

// text normaliza saltos de línea y tabuladores. Los caracteres sin glifo
// en las fuentes Go (CJK, emoji) salen como el glifo .notdef.
func (r *renderer) text(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.ReplaceAll(s, "\t", "    ")
}

func (r *renderer) titlePage(record *domain.ReconRecord) {
	pdf := r.pdf
	target := record.Target()

	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", 22)
	pdf.Ln(20)
	pdf.MultiCell(0, 10, r.text(reportTitle), "", "C", false)
	pdf.Ln(8)

	pdf.SetFont(fontFamily, "B", 14)
	pdf.MultiCell(0, 8, r.text("Target: "+target.Domain), "", "C", false)
	pdf.SetFont(fontFamily, "", 10)
	if target.Input != "" && target.Input != target.Domain {
		pdf.MultiCell(0, lineHeight, r.text("Input: "+target.Input), "", "C", false)
	}
	pdf.MultiCell(0, lineHeight, r.text("Generated: "+record.FinishedAt().UTC().Format(timeLayout)), "", "C", false)
	pdf.MultiCell(0, lineHeight, r.text("Duration: "+record.Duration().Round(time.Millisecond).String()), "", "C", false)
	pdf.Ln(12)

	r.summaryTable(record)
}

func (r *renderer) summaryTable(record *domain.ReconRecord) {
	pdf := r.pdf
	const (
		sectionWidth = 100.0
		statusWidth  = 45.0
		timeWidth    = 35.0
		rowHeight    = 7.0
	)
	left := (210 - sectionWidth - statusWidth - timeWidth) / 2

	pdf.SetFont(fontFamily, "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.SetX(left)
	pdf.CellFormat(sectionWidth, rowHeight, "Section", "1", 0, "L", true, 0, "")
	pdf.CellFormat(statusWidth, rowHeight, "Status", "1", 0, "C", true, 0, "")
	pdf.CellFormat(timeWidth, rowHeight, "Time", "1", 1, "R", true, 0, "")

	pdf.SetFont(fontFamily, "", 10)
	for _, res := range record.Results() {
		pdf.SetX(left)
		pdf.CellFormat(sectionWidth, rowHeight, r.text(res.Category.Title()), "1", 0, "L", false, 0, "")
		if !res.OK() {
			pdf.SetTextColor(180, 30, 30)
		}
		pdf.CellFormat(statusWidth, rowHeight, res.Status(), "1", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(timeWidth, rowHeight, res.Duration.Round(time.Millisecond).String(), "1", 1, "R", false, 0, "")
	}
}

func (r *renderer) section(res domain.LookupResult) {
	pdf := r.pdf

	if res.Category == domain.Categories()[0] {
		pdf.AddPage()
	} else {
		pdf.Ln(6)
	}

	pdf.SetFont(fontFamily, "B", 16)
	pdf.MultiCell(0, 9, r.text(res.Category.Title()), "B", "L", false)
	pdf.Ln(2)

	if !res.OK() {
		pdf.SetFont(fontFamily, "B", 10)
		pdf.SetTextColor(180, 30, 30)
		pdf.MultiCell(0, lineHeight, "Not available", "", "L", false)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont(fontFamily, "", 10)
		pdf.MultiCell(0, lineHeight, r.text("Reason: "+res.Failure), "", "L", false)
		return
	}

	fields := res.Payload.Fields()
	if len(fields) == 0 {
		pdf.SetFont(fontFamily, "I", 10)
		pdf.MultiCell(0, lineHeight, "No data returned.", "", "L", false)
		return
	}

	for _, f := range fields {
		if f.IsList {
			r.listField(f)
			continue
		}
		r.scalarField(f)
	}
}

func (r *renderer) scalarField(f domain.Field) {
	pdf := r.pdf
	name := r.text(f.Name + ": ")

	// Los valores multilínea (robots.txt) van en su propio bloque
	if strings.Contains(f.Value, "\n") {
		pdf.SetFont(fontFamily, "B", 10)
		pdf.MultiCell(0, lineHeight, name, "", "L", false)
		pdf.SetFont(monoFamily, "", 8)
		pdf.MultiCell(0, 4, r.text(f.Value), "", "L", false)
		pdf.Ln(1)
		return
	}

	pdf.SetFont(fontFamily, "B", 10)
	width := pdf.GetStringWidth(name) + 1
	avail := 210 - 2*margin
	if width > avail/2 {
		pdf.MultiCell(0, lineHeight, name, "", "L", false)
		pdf.SetFont(fontFamily, "", 10)
		pdf.MultiCell(0, lineHeight, r.text(f.Value), "", "L", false)
		return
	}

	pdf.CellFormat(width, lineHeight, name, "", 0, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
	pdf.MultiCell(0, lineHeight, r.text(f.Value), "", "L", false)
}

func (r *renderer) listField(f domain.Field) {
	pdf := r.pdf

	pdf.SetFont(fontFamily, "B", 10)
	pdf.MultiCell(0, lineHeight, r.text(f.Name+":"), "", "L", false)
	pdf.SetFont(fontFamily, "", 10)

	if len(f.Values) == 0 {
		pdf.SetX(margin + 4)
		pdf.MultiCell(0, lineHeight, "(none)", "", "L", false)
		return
	}

	for _, v := range f.Values {
		pdf.SetX(margin + 4)
		pdf.CellFormat(4, lineHeight, bullet, "", 0, "L", false, 0, "")
		pdf.MultiCell(0, lineHeight, r.text(v), "", "L", false)
	}
}
