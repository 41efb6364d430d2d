package export

import (
	"fmt"
	"image/color"
	"io"

	"github.com/jung-kurt/gofpdf"

	"CurveBoard/internal/curve"
	"CurveBoard/internal/state"
)

// PDFOptions control the page layout of an exported scene. Sizes are in
// millimetres.
type PDFOptions struct {
	// Side is the edge length of the square the unit square is mapped onto.
	Side   float64
	Margin float64
	// PointRadius is the radius of the control point dots.
	PointRadius float64
	LineWidth   float64
	CurveColor  [3]int
}

func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		Side:        180,
		Margin:      15,
		PointRadius: 1.2,
		LineWidth:   0.3,
	}
}

var polylineColor = [3]int{255, 0, 204}

// RGB converts c to the 8-bit components gofpdf expects.
func RGB(c color.Color) [3]int {
	r, g, b, _ := c.RGBA()
	return [3]int{int(r >> 8), int(g >> 8), int(b >> 8)}
}

// WritePDF renders s onto a single A4 page and writes the document to w.
// The control polygon is dashed, control points are filled dots, and the
// curve is a solid line strip.
func WritePDF(w io.Writer, s state.Scene, opts PDFOptions) error {
	pdf := newPage(s, opts)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// ExportPDF is WritePDF to a file.
func ExportPDF(path string, s state.Scene, opts PDFOptions) error {
	pdf := newPage(s, opts)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("export pdf %s: %w", path, err)
	}
	return nil
}

func newPage(s state.Scene, opts PDFOptions) *gofpdf.Fpdf {
	p := gofpdf.New("P", "mm", "A4", "")
	p.SetTitle("CurveBoard", true)
	p.AddPage()

	// Normalized y grows upwards, page y grows downwards.
	at := func(pt curve.Point3) (float64, float64) {
		return opts.Margin + pt.X*opts.Side, opts.Margin + (1-pt.Y)*opts.Side
	}
	strip := func(pts []curve.Point3) {
		for i := 1; i < len(pts); i++ {
			x1, y1 := at(pts[i-1])
			x2, y2 := at(pts[i])
			p.Line(x1, y1, x2, y2)
		}
	}

	p.SetLineWidth(opts.LineWidth)
	p.SetDrawColor(200, 200, 200)
	p.Rect(opts.Margin, opts.Margin, opts.Side, opts.Side, "D")

	if s.HasPolyline() {
		p.SetDrawColor(polylineColor[0], polylineColor[1], polylineColor[2])
		p.SetDashPattern([]float64{2, 2}, 0)
		strip(s.Points)
		p.SetDashPattern([]float64{}, 0)
	}

	p.SetFillColor(0, 0, 0)
	for _, pt := range s.Points {
		x, y := at(pt)
		p.Circle(x, y, opts.PointRadius, "F")
	}

	if s.HasCurve() {
		c := opts.CurveColor
		p.SetDrawColor(c[0], c[1], c[2])
		strip(s.Curve)
	}
	return p
}
