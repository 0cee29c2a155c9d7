package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInvalidDocx is returned when uploaded content is not a readable
// DOCX container.
var ErrInvalidDocx = errors.New("invalid docx file")

// documentXML mirrors the parts of word/document.xml the parser needs:
// paragraphs with their style names and bold-run formatting.
type documentXML struct {
	Body struct {
		Paragraphs []paragraphXML `xml:"p"`
	} `xml:"body"`
}

type paragraphXML struct {
	Properties *struct {
		Style *struct {
			Val string `xml:"val,attr"`
		} `xml:"pStyle"`
	} `xml:"pPr"`
	Runs []runXML `xml:"r"`
}

type runXML struct {
	Properties *struct {
		Bold *struct {
			Val string `xml:"val,attr"`
		} `xml:"b"`
	} `xml:"rPr"`
	Text []struct {
		Content string `xml:",chardata"`
	} `xml:"t"`
}

func (r runXML) text() string {
	var b strings.Builder
	for _, t := range r.Text {
		b.WriteString(t.Content)
	}
	return b.String()
}

func (r runXML) bold() bool {
	if r.Properties == nil || r.Properties.Bold == nil {
		return false
	}
	// <w:b/> with no val means bold; val "0" or "false" turns it off
	v := r.Properties.Bold.Val
	return v == "" || v == "1" || v == "true"
}

// ReadDocx decodes DOCX content into a unit sequence carrying the
// style and bold-run hints heading detection relies on.
func ReadDocx(content []byte) (Document, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocx, err)
	}

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocx, err)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocx, err)
		}

		return parseDocumentXML(raw)
	}

	return Document{}, fmt.Errorf("%w: missing word/document.xml", ErrInvalidDocx)
}

func parseDocumentXML(raw []byte) (Document, error) {
	var doc documentXML
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocx, err)
	}

	units := make([]Unit, 0, len(doc.Body.Paragraphs))
	for _, para := range doc.Body.Paragraphs {
		var style string
		if para.Properties != nil && para.Properties.Style != nil {
			style = para.Properties.Style.Val
		}

		runs := make([]Run, 0, len(para.Runs))
		var text strings.Builder
		for _, r := range para.Runs {
			t := r.text()
			runs = append(runs, Run{Text: t, Bold: r.bold()})
			text.WriteString(t)
		}

		units = append(units, Unit{
			Text:  strings.TrimSpace(text.String()),
			Style: style,
			Runs:  runs,
		})
	}

	return Document{Units: units}, nil
}
