package pipeline

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jhillyerd/enmime"

	"tcpagent/internal"
	"tcpagent/internal/pdftext"
	"tcpagent/internal/util"
)

// ExtractSourcesFromEmailRaw decodes a raw MIME message into contract
// text sources. PDF attachments are the primary channel; when a message
// carries none, the body itself (plain or HTML) is treated as the
// contract text.
func ExtractSourcesFromEmailRaw(raw []byte) ([]internal.ContractSource, string, string, []string, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, "", "", nil, err
	}

	sources := make([]internal.ContractSource, 0)
	attachmentNames := make([]string, 0, len(env.Attachments))

	for _, att := range env.Attachments {
		filename := strings.TrimSpace(att.FileName)
		if filename == "" {
			filename = "attachment"
		}
		attachmentNames = append(attachmentNames, filename)

		if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
			continue
		}
		text, err := pdftext.Extract(att.Content)
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		sources = append(sources, internal.ContractSource{
			Kind: internal.SourcePDFAttachment,
			Name: filename,
			Text: text,
		})
	}

	// enmime down-converts HTML-only bodies into Text, so the HTML part,
	// when present, is the authoritative one.
	bodyText := env.Text
	kind := internal.SourceEmailText
	if env.HTML != "" {
		if flattened := htmlToText(env.HTML); strings.TrimSpace(flattened) != "" {
			bodyText = flattened
			kind = internal.SourceEmailHTML
		}
	}

	if len(sources) == 0 && strings.TrimSpace(bodyText) != "" {
		sources = append(sources, internal.ContractSource{
			Kind: kind,
			Name: "body",
			Text: bodyText,
		})
	}

	return sources, env.GetHeader("Subject"), bodyText, attachmentNames, nil
}

// htmlToText flattens an HTML body to plain text, one line per block.
func htmlToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	lines := []string{}
	doc.Find("p, div, li, td, th, h1, h2, h3, br").Each(func(_ int, sel *goquery.Selection) {
		line := util.CollapseSpaces(sel.Text())
		if line != "" {
			lines = append(lines, line)
		}
	})
	if len(lines) == 0 {
		return util.CollapseSpaces(doc.Text())
	}
	return strings.Join(lines, "\n")
}
