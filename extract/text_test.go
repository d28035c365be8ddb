package extract

import "testing"

func TestTextExtractor_Extract(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    string
	}{
		{
			name:    "plain utf8",
			content: []byte("саха тыла"),
			want:    "саха тыла",
		},
		{
			name:    "bom stripped",
			content: append([]byte{0xEF, 0xBB, 0xBF}, []byte("балык")...),
			want:    "балык",
		},
		{
			// U+0435 followed by a combining diaeresis composes to ё
			// under NFC.
			name:    "nfc composition",
			content: []byte("ё"),
			want:    "ё",
		},
		{
			name:    "invalid byte replaced",
			content: []byte{0xD0},
			want:    "�",
		},
		{
			name:    "empty",
			content: []byte{},
			want:    "",
		},
	}

	te := &TextExtractor{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := te.Extract("input.txt", "", tt.content)
			if err != nil {
				t.Fatalf("Extract() error: %v", err)
			}
			if doc.Text != tt.want {
				t.Errorf("Text = %q, want %q", doc.Text, tt.want)
			}
			if doc.Format != FormatText {
				t.Errorf("Format = %q, want %q", doc.Format, FormatText)
			}
		})
	}
}

func TestTextExtractor_CanExtract(t *testing.T) {
	te := &TextExtractor{}
	if !te.CanExtract("text/plain; charset=utf-8", "anything") {
		t.Error("CanExtract(text/plain) = false, want true")
	}
	if !te.CanExtract("application/octet-stream", "dump.TXT") {
		t.Error("CanExtract(.TXT) = false, want true")
	}
	if te.CanExtract("application/pdf", "book.pdf") {
		t.Error("CanExtract(pdf) = true, want false")
	}
}
