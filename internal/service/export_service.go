package service

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/signintech/gopdf"
	"github.com/xuri/excelize/v2"

	"github.com/oikos/disc-backend/internal/metrics"
	"github.com/oikos/disc-backend/internal/model"
)

// Export file names.
const (
	ResultPDFFilename       = "DISC_Test_Results.pdf"
	ResultsWorkbookFilename = "DISC_Results.xlsx"
)

// ErrExportFailed is returned when a document cannot be produced.
var ErrExportFailed = errors.New("export failed")

const (
	pdfFontFamily = "disc"
	pdfMargin     = 48.0
	pdfBarWidth   = 360.0
	pdfBarHeight  = 18.0
	pdfLineHeight = 15.0
	resultsSheet  = "Results"
)

// ExportService renders result documents.
type ExportService struct {
	fontPath string
	metrics  *metrics.Metrics
	log      zerolog.Logger
	now      func() time.Time
}

// NewExportService creates a new ExportService. fontPath must point at a TTF
// font covering Hangul.
func NewExportService(fontPath string, m *metrics.Metrics, log zerolog.Logger) *ExportService {
	return &ExportService{
		fontPath: fontPath,
		metrics:  m,
		log:      log.With().Str("component", "export_service").Logger(),
		now:      time.Now,
	}
}

// ResultPDF renders a single A4 page with the profile, score bars and the
// top-2 dimension descriptions. The document is built in memory so a failure
// never yields a partial file.
func (s *ExportService) ResultPDF(user model.UserInfo, r *ResultView) ([]byte, error) {
	out, err := s.resultPDF(user, r)
	if err != nil {
		s.metrics.Export("pdf", metrics.OutcomeFailed)
		s.log.Error().Err(err).Str("email", user.Email).Msg("PDF export failed")
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	s.metrics.Export("pdf", metrics.OutcomeOK)
	return out, nil
}

func (s *ExportService) resultPDF(user model.UserInfo, r *ResultView) ([]byte, error) {
	if r == nil {
		return nil, ErrNoResult
	}

	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	if err := pdf.AddTTFFont(pdfFontFamily, s.fontPath); err != nil {
		return nil, fmt.Errorf("load font %s: %w", s.fontPath, err)
	}

	pageWidth := gopdf.PageSizeA4.W - 2*pdfMargin
	bottom := gopdf.PageSizeA4.H - pdfMargin
	y := pdfMargin

	text := func(size float64, x float64, value string) error {
		if err := pdf.SetFont(pdfFontFamily, "", size); err != nil {
			return err
		}
		pdf.SetXY(x, y)
		return pdf.Cell(nil, value)
	}

	pdf.SetTextColor(17, 24, 39)
	if err := text(20, pdfMargin, "DISC 행동유형 검사 결과"); err != nil {
		return nil, err
	}
	y += 30
	pdf.SetTextColor(107, 114, 128)
	if err := text(10, pdfMargin, fmt.Sprintf("%s (%s) · %s", user.Name, user.Email, s.now().Format("2006-01-02"))); err != nil {
		return nil, err
	}

	y += 36
	pdf.SetTextColor(17, 24, 39)
	if err := text(16, pdfMargin, "당신의 행동유형: "+r.Profile); err != nil {
		return nil, err
	}

	y += 36
	for _, bar := range r.Chart {
		pdf.SetTextColor(55, 65, 81)
		if err := text(11, pdfMargin, fmt.Sprintf("%s %s", bar.Dimension, bar.Label)); err != nil {
			return nil, err
		}

		x := pdfMargin + 90
		pdf.SetFillColor(229, 231, 235)
		pdf.RectFromUpperLeftWithStyle(x, y, pdfBarWidth, pdfBarHeight, "F")
		if r.MaxScore > 0 && bar.Score > 0 {
			cr, cg, cb := hexColor(bar.Color)
			pdf.SetFillColor(cr, cg, cb)
			w := pdfBarWidth * float64(bar.Score) / float64(r.MaxScore)
			if w > pdfBarWidth {
				w = pdfBarWidth
			}
			pdf.RectFromUpperLeftWithStyle(x, y, w, pdfBarHeight, "F")
		}
		if err := text(11, x+pdfBarWidth+10, strconv.Itoa(bar.Score)); err != nil {
			return nil, err
		}
		y += pdfBarHeight + 12
	}

	// The document is a single page: highlight text that does not fit above
	// the bottom margin is dropped.
	y += 16
highlights:
	for _, h := range r.Highlights {
		if linesThatFit(y, 22, bottom, 1) == 0 {
			break
		}
		cr, cg, cb := hexColor(h.Color)
		pdf.SetTextColor(cr, cg, cb)
		if err := text(13, pdfMargin, fmt.Sprintf("%s (%s) %s", h.Label, h.Dimension, h.Title)); err != nil {
			return nil, err
		}
		y += 22

		pdf.SetTextColor(55, 65, 81)
		if err := pdf.SetFont(pdfFontFamily, "", 10); err != nil {
			return nil, err
		}
		for _, point := range h.Points {
			lines, err := pdf.SplitText("• "+point, pageWidth-12)
			if err != nil {
				return nil, err
			}
			fit := linesThatFit(y, pdfLineHeight, bottom, len(lines))
			for _, line := range lines[:fit] {
				pdf.SetXY(pdfMargin+12, y)
				if err := pdf.Cell(nil, line); err != nil {
					return nil, err
				}
				y += pdfLineHeight
			}
			if fit < len(lines) {
				break highlights
			}
		}
		y += 14
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// linesThatFit returns how many of n lines of lineHeight, starting at y, end
// at or above bottom.
func linesThatFit(y, lineHeight, bottom float64, n int) int {
	if lineHeight <= 0 || y+lineHeight > bottom {
		return 0
	}
	fit := int((bottom - y) / lineHeight)
	if fit > n {
		return n
	}
	return fit
}

// ResultsWorkbook renders results as an XLSX sheet, one row per result.
func (s *ExportService) ResultsWorkbook(results []model.TestResult) ([]byte, error) {
	out, err := s.resultsWorkbook(results)
	if err != nil {
		s.metrics.Export("xlsx", metrics.OutcomeFailed)
		s.log.Error().Err(err).Int("rows", len(results)).Msg("XLSX export failed")
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	s.metrics.Export("xlsx", metrics.OutcomeOK)
	return out, nil
}

func (s *ExportService) resultsWorkbook(results []model.TestResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return nil, err
	}

	header := []interface{}{"이름", "이메일", "D", "I", "S", "C", "행동유형", "검사일시"}
	if err := f.SetSheetRow(resultsSheet, "A1", &header); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(resultsSheet, "A1", "H1", bold); err != nil {
		return nil, err
	}

	for i, r := range results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			r.Name, r.Email,
			r.Scores.D, r.Scores.I, r.Scores.S, r.Scores.C,
			r.ProfileName, r.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(resultsSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(resultsSheet, "A", "B", 24); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(resultsSheet, "G", "H", 22); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// hexColor parses #rrggbb, falling back to gray.
func hexColor(hex string) (uint8, uint8, uint8) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 107, 114, 128
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 107, 114, 128
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}
