package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tcpagent/internal"
)

func TestExtractSourcesPlainBody(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "sample_charter.eml"))
	if err != nil {
		t.Fatal(err)
	}

	sources, subject, text, attachments, err := ExtractSourcesFromEmailRaw(raw)
	if err != nil {
		t.Fatal(err)
	}
	if subject != "Time Charter Party - M/V Northern Star" {
		t.Fatalf("subject=%q", subject)
	}
	if len(attachments) != 0 {
		t.Fatalf("attachments=%v", attachments)
	}
	if len(sources) != 1 {
		t.Fatalf("sources=%d", len(sources))
	}
	if sources[0].Kind != internal.SourceEmailText {
		t.Fatalf("kind=%s", sources[0].Kind)
	}
	if !strings.Contains(sources[0].Text, "northern star") {
		t.Fatalf("vessel missing from source text")
	}
	if !strings.Contains(text, "Daily hire") {
		t.Fatalf("body text missing hire clause")
	}
}

func TestExtractSourcesHTMLBody(t *testing.T) {
	raw := []byte("From: a@example.com\r\n" +
		"To: b@example.com\r\n" +
		"Subject: Charter fixture\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" +
		"<html><body><p>Vessel: M/V PACIFIC DAWN</p><p>Hire rate: USD 21,000</p></body></html>\r\n")

	sources, _, _, _, err := ExtractSourcesFromEmailRaw(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 1 {
		t.Fatalf("sources=%d", len(sources))
	}
	if sources[0].Kind != internal.SourceEmailHTML {
		t.Fatalf("kind=%s", sources[0].Kind)
	}
	if !strings.Contains(sources[0].Text, "M/V PACIFIC DAWN") {
		t.Fatalf("text=%q", sources[0].Text)
	}
	if strings.Contains(sources[0].Text, "<p>") {
		t.Fatalf("tags leaked into text: %q", sources[0].Text)
	}
}
