package deck

import (
	"fmt"
	"io"
	"strings"
	"time"

	"cassandra/internal/domain/slide"

	"github.com/jung-kurt/gofpdf"
)

const handoutMargin = 36.0

// HandoutOptions tunes the PDF handout.
type HandoutOptions struct {
	Topic     string
	CreatedAt time.Time
}

// WriteHandout renders a text-only PDF with one 16:9 page per slide in the
// same order and with the same inclusion rules as Assemble.
func WriteHandout(w io.Writer, plans []slide.Plan, opts HandoutOptions) error {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size: gofpdf.SizeType{
			Wd: float64(defaultSlideCX) / emuPerPt,
			Ht: float64(defaultSlideCY) / emuPerPt,
		},
	})
	pdf.SetMargins(handoutMargin, handoutMargin, handoutMargin)
	pdf.SetAutoPageBreak(true, handoutMargin)
	if opts.Topic != "" {
		pdf.SetTitle(opts.Topic, true)
	}
	pdf.SetCreator("cassandra", true)
	if !opts.CreatedAt.IsZero() {
		pdf.SetCreationDate(opts.CreatedAt)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	width, _ := pdf.GetPageSize()
	textWidth := width - 2*handoutMargin

	for _, plan := range plans {
		style := plan.Style
		if style == "" {
			style = slide.InferStyle(plan.Title)
		}
		if style == slide.StyleNone || len([]rune(strings.TrimSpace(plan.Content))) < minContentRunes {
			continue
		}

		pdf.AddPage()
		pdf.SetFont("Times", "B", titleSizePt)
		pdf.MultiCell(textWidth, titleSizePt*1.2, tr(strings.ToUpper(plan.Title)), "", "C", false)
		pdf.Ln(bodySizePt)

		pdf.SetFont("Times", "", bodySizePt-4)
		lineHeight := float64(bodySizePt-4) * 1.3
		if style == slide.StyleBullet {
			for _, point := range ExtractBulletPoints(plan.Content) {
				pdf.MultiCell(textWidth, lineHeight, tr("• "+point), "", "L", false)
				pdf.Ln(4)
			}
		} else {
			pdf.MultiCell(textWidth, lineHeight, tr(CleanForSlide(plan.Content)), "", "J", false)
		}
	}

	pdf.AddPage()
	pdf.SetFont("Times", "B", closingSizePt)
	_, height := pdf.GetPageSize()
	pdf.SetY(height/2 - closingSizePt)
	pdf.MultiCell(textWidth, closingSizePt*1.2, "THANK YOU", "", "C", false)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render handout: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write handout: %w", err)
	}
	return nil
}
