package ingest

import (
	"strings"
	"testing"
)

func TestExtractText_PlainText(t *testing.T) {
	got, err := ExtractText("notes.txt", []byte("plain text content"))
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}
	if got != "plain text content" {
		t.Errorf("ExtractText() = %q", got)
	}
}

func TestExtractText_UnknownExtensionTreatedAsPlain(t *testing.T) {
	got, err := ExtractText("data.csv", []byte("a,b,c"))
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}
	if got != "a,b,c" {
		t.Errorf("ExtractText() = %q", got)
	}
}

func TestExtractText_Markdown(t *testing.T) {
	md := `# Photosynthesis

Plants convert **light** into chemical energy.

- chlorophyll
- sunlight

| stage | input |
|-------|-------|
| light | photons |
`
	got, err := ExtractText("bio.md", []byte(md))
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}

	for _, want := range []string{"Photosynthesis", "Plants convert", "light", "chemical energy", "chlorophyll", "photons"} {
		if !strings.Contains(got, want) {
			t.Errorf("extracted text missing %q: %q", want, got)
		}
	}
	for _, unwanted := range []string{"#", "**", "|"} {
		if strings.Contains(got, unwanted) {
			t.Errorf("extracted text kept markup %q: %q", unwanted, got)
		}
	}
}

func TestExtractText_MarkdownSoftBreaksKeepWordBoundaries(t *testing.T) {
	md := "first line\nsecond line"
	got, err := ExtractText("note.md", []byte(md))
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}
	if strings.Contains(got, "linesecond") {
		t.Errorf("soft line break lost a word boundary: %q", got)
	}
}

func TestExtractText_InvalidPDF(t *testing.T) {
	_, err := ExtractText("broken.pdf", []byte("not a pdf"))
	if err == nil {
		t.Error("expected error for invalid PDF content")
	}
}
