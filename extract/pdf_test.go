package extract

import (
	"testing"

	"github.com/ledongthuc/pdf"
)

func TestChooseText(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		threshold  float64
		want       string
	}{
		{
			name:       "first candidate below threshold wins",
			candidates: []string{"а б в г д", "аб вг д", "абвгд"},
			threshold:  0.4,
			want:       "аб вг д",
		},
		{
			name:       "best of failing candidates",
			candidates: []string{"а б в г", "аб в г"},
			threshold:  0.1,
			want:       "аб в г",
		},
		{
			name:       "all fully shredded keeps first",
			candidates: []string{"а б", "в г"},
			threshold:  0.1,
			want:       "а б",
		},
		{
			name:       "empty candidates ignored",
			candidates: []string{"", "балык"},
			threshold:  0.4,
			want:       "балык",
		},
		{
			name:       "nothing usable",
			candidates: []string{"", ""},
			threshold:  0.4,
			want:       "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := chooseText(tt.candidates, tt.threshold); got != tt.want {
				t.Errorf("chooseText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAssemblePage(t *testing.T) {
	// Two words on one line two points apart, a second line below.
	texts := []pdf.Text{
		{X: 10, Y: 100, W: 10, S: "ба"},
		{X: 22, Y: 100, W: 10, S: "лык"},
		{X: 10, Y: 80, W: 15, S: "уу"},
	}

	if got, want := assemblePage(texts, 1, 1), "ба лык\nуу"; got != want {
		t.Errorf("assemblePage(tol 1) = %q, want %q", got, want)
	}

	// A wider x tolerance glues the two-point gap shut.
	if got, want := assemblePage(texts, 3, 1), "балык\nуу"; got != want {
		t.Errorf("assemblePage(tol 3) = %q, want %q", got, want)
	}
}

func TestAssemblePage_RowGrouping(t *testing.T) {
	// Elements arrive out of order and the second row sits half a point
	// off its neighbors, within the y tolerance.
	texts := []pdf.Text{
		{X: 10, Y: 80, W: 15, S: "уу"},
		{X: 22, Y: 100, W: 10, S: "лык"},
		{X: 40, Y: 99.5, W: 5, S: "!"},
		{X: 10, Y: 100, W: 10, S: "ба"},
	}

	if got, want := assemblePage(texts, 1, 1), "ба лык !\nуу"; got != want {
		t.Errorf("assemblePage() = %q, want %q", got, want)
	}
}

func TestAssemblePage_Empty(t *testing.T) {
	if got := assemblePage(nil, 1, 1); got != "" {
		t.Errorf("assemblePage(nil) = %q, want empty", got)
	}
}

func TestPDFExtractor_CanExtract(t *testing.T) {
	pe := &PDFExtractor{}
	if !pe.CanExtract("application/pdf", "x") {
		t.Error("CanExtract(application/pdf) = false, want true")
	}
	if !pe.CanExtract("", "Book.PDF") {
		t.Error("CanExtract(.PDF) = false, want true")
	}
	if pe.CanExtract("text/html", "page.html") {
		t.Error("CanExtract(html) = true, want false")
	}
}

func TestPDFExtractor_Threshold(t *testing.T) {
	pe := &PDFExtractor{}
	if got := pe.threshold(); got != DefaultBadnessThreshold {
		t.Errorf("threshold() = %v, want %v", got, DefaultBadnessThreshold)
	}
	pe.BadnessThreshold = 0.2
	if got := pe.threshold(); got != 0.2 {
		t.Errorf("threshold() = %v, want 0.2", got)
	}
}
