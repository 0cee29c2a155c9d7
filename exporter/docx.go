// Package exporter renders draft briefs as Word documents following
// standard legal brief conventions.
package exporter

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
	"time"

	"briefbank-backend/models"
)

// ErrNoSections is returned when a draft has no generated sections to
// export.
var ErrNoSections = errors.New("draft has no generated sections")

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// paragraph is one rendered paragraph with its formatting
type paragraph struct {
	text     string
	bold     bool
	centered bool
}

// ExportDraft renders the draft's generated sections into DOCX bytes.
// The layout mirrors a filed brief: caption, centered section
// headings, body paragraphs, review notes for flagged warnings, and a
// signature block.
func ExportDraft(draft *models.DraftBrief) ([]byte, error) {
	if len(draft.Sections) == 0 {
		return nil, ErrNoSections
	}

	paragraphs := captionParagraphs(draft.Matter)

	for _, section := range draft.Sections {
		paragraphs = append(paragraphs, sectionParagraphs(section)...)
	}

	paragraphs = append(paragraphs, signatureParagraphs()...)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	files := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{"word/document.xml", documentXML(paragraphs)},
	}

	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", f.name, err)
		}
		if _, err := w.Write([]byte(f.content)); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", f.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize document: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportFilename builds a download filename from the case name and the
// current time
func ExportFilename(draft *models.DraftBrief) string {
	caseName := strings.ReplaceAll(draft.Matter.CaseName, " ", "_")
	caseName = strings.ReplaceAll(caseName, ".", "")
	if len(caseName) > 30 {
		caseName = caseName[:30]
	}
	return fmt.Sprintf("%s_%s.docx", caseName, time.Now().Format("20060102_150405"))
}

func captionParagraphs(matter models.NewMatterRequest) []paragraph {
	posture := strings.ToUpper(strings.ReplaceAll(string(matter.ProceduralPosture), "_", " "))

	return []paragraph{
		{text: strings.ToUpper(matter.Court), bold: true, centered: true},
		{},
		{text: matter.CaseName, bold: true},
		{},
		{text: "Case No. [CASE NUMBER]"},
		{},
		{text: posture},
		{text: strings.Repeat("_", 60)},
		{},
	}
}

func sectionParagraphs(section models.GeneratedSection) []paragraph {
	paragraphs := []paragraph{
		{text: strings.ToUpper(section.Heading), bold: true, centered: true},
	}

	for _, body := range strings.Split(section.Content, "\n\n") {
		body = strings.TrimSpace(body)
		if body == "" {
			continue
		}
		paragraphs = append(paragraphs, paragraph{text: body})
	}

	if len(section.Warnings) > 0 {
		var note strings.Builder
		note.WriteString("[REVIEW NOTES: ")
		for _, warning := range section.Warnings {
			note.WriteString("• " + warning + " ")
		}
		note.WriteString("]")
		paragraphs = append(paragraphs, paragraph{text: note.String(), bold: true})
	}

	paragraphs = append(paragraphs, paragraph{})
	return paragraphs
}

func signatureParagraphs() []paragraph {
	return []paragraph{
		{},
		{},
		{text: "Respectfully submitted,"},
		{},
		{},
		{text: strings.Repeat("_", 40)},
		{text: "[ATTORNEY NAME]"},
		{text: "[FIRM NAME]"},
		{text: "[ADDRESS]"},
		{text: "Dated: " + time.Now().Format("January 2, 2006")},
	}
}

func documentXML(paragraphs []paragraph) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	for _, p := range paragraphs {
		b.WriteString("<w:p>")
		if p.centered {
			b.WriteString(`<w:pPr><w:jc w:val="center"/></w:pPr>`)
		}
		if p.text != "" {
			b.WriteString("<w:r>")
			if p.bold {
				b.WriteString("<w:rPr><w:b/></w:rPr>")
			}
			b.WriteString(`<w:t xml:space="preserve">`)
			b.WriteString(escapeXML(p.text))
			b.WriteString("</w:t></w:r>")
		}
		b.WriteString("</w:p>")
	}

	b.WriteString(`<w:sectPr><w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440"/></w:sectPr>`)
	b.WriteString("</w:body></w:document>")
	return b.String()
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
