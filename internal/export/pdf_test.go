package export

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CurveBoard/internal/curve"
	"CurveBoard/internal/state"
)

func scene(t *testing.T) state.Scene {
	t.Helper()
	pts := []curve.Point3{curve.Pt(0, 0), curve.Pt(1, 0), curve.Pt(1, 1)}
	c, err := curve.SampleCurve(pts, 10)
	require.NoError(t, err)
	return state.Scene{Points: pts, Curve: c}
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, scene(t), DefaultPDFOptions()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWritePDFEmptyScene(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, state.Scene{}, DefaultPDFOptions()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestExportPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curve.pdf")
	require.NoError(t, ExportPDF(path, scene(t), DefaultPDFOptions()))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestExportPDFBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "curve.pdf")
	assert.Error(t, ExportPDF(path, scene(t), DefaultPDFOptions()))
}

func TestRGB(t *testing.T) {
	assert.Equal(t, [3]int{0, 0, 0}, RGB(color.Black))
	assert.Equal(t, [3]int{255, 0, 204}, RGB(color.NRGBA{R: 255, B: 204, A: 255}))
}
