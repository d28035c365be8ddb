package extract

import "testing"

func TestHTMLExtractor_Extract(t *testing.T) {
	page := `<html>
<head><title>Кинигэ</title><style>p { color: red }</style></head>
<body>
<nav><a href="/">аан сирэй</a></nav>
<h1>Баһа</h1>
<p>Бастакы   абзац
тиэкиһэ</p>
<ul><li><p>биир</p></li></ul>
<script>var x = 1;</script>
</body>
</html>`

	he := &HTMLExtractor{}
	doc, err := he.Extract("page.html", "", []byte(page))
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	want := "Баһа\n\nБастакы абзац тиэкиһэ\n\nбиир"
	if doc.Text != want {
		t.Errorf("Text = %q, want %q", doc.Text, want)
	}
	if doc.Format != FormatHTML {
		t.Errorf("Format = %q, want %q", doc.Format, FormatHTML)
	}
	if title, _ := doc.Metadata["title"].(string); title != "Кинигэ" {
		t.Errorf("Metadata[title] = %q, want %q", title, "Кинигэ")
	}
}

func TestHTMLExtractor_FallbackText(t *testing.T) {
	he := &HTMLExtractor{}
	doc, err := he.Extract("bare.html", "", []byte("<html><body>сорох тиэкис</body></html>"))
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if doc.Text != "сорох тиэкис" {
		t.Errorf("Text = %q, want %q", doc.Text, "сорох тиэкис")
	}
}

func TestHTMLExtractor_CanExtract(t *testing.T) {
	he := &HTMLExtractor{}
	if !he.CanExtract("text/html; charset=utf-8", "x") {
		t.Error("CanExtract(text/html) = false, want true")
	}
	if !he.CanExtract("", "index.htm") {
		t.Error("CanExtract(.htm) = false, want true")
	}
	if he.CanExtract("text/plain", "notes.txt") {
		t.Error("CanExtract(text/plain) = true, want false")
	}
}
