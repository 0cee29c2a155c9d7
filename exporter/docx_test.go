package exporter

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"briefbank-backend/models"
)

func draftFixture() *models.DraftBrief {
	return &models.DraftBrief{
		ID: uuid.New(),
		Matter: models.NewMatterRequest{
			CaseName:          "Smith v. Jones",
			Court:             "Northern District of California",
			Jurisdiction:      "federal",
			ProceduralPosture: models.PostureMotionToDismiss,
		},
		Sections: models.GeneratedSections{
			{
				SectionID: uuid.New(),
				Heading:   "Introduction",
				Content:   "This motion should be granted.\n\nThe complaint fails as a matter of law.",
			},
			{
				SectionID: uuid.New(),
				Heading:   "Argument",
				Content:   "The claim is time-barred.",
				Warnings:  []string{"Citation may be outdated (>5 years): Smith v. Jones, 123 F.3d 456 (9th Cir. 2010)"},
			},
		},
	}
}

func readDocumentXML(t *testing.T, data []byte) string {
	t.Helper()

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := make([]string, 0, len(reader.File))
	for _, f := range reader.File {
		names = append(names, f.Name)
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		raw, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(raw)
	}

	t.Fatalf("word/document.xml not found in archive, got %v", names)
	return ""
}

func TestExportDraftProducesValidArchive(t *testing.T) {
	data, err := ExportDraft(draftFixture())
	require.NoError(t, err)

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range reader.File {
		names[f.Name] = true
	}
	assert.True(t, names["[Content_Types].xml"])
	assert.True(t, names["_rels/.rels"])
	assert.True(t, names["word/document.xml"])
}

func TestExportDraftContent(t *testing.T) {
	data, err := ExportDraft(draftFixture())
	require.NoError(t, err)

	doc := readDocumentXML(t, data)

	// Caption
	assert.Contains(t, doc, "NORTHERN DISTRICT OF CALIFORNIA")
	assert.Contains(t, doc, "Smith v. Jones")
	assert.Contains(t, doc, "Case No. [CASE NUMBER]")
	assert.Contains(t, doc, "MOTION TO DISMISS")

	// Section headings are upper-cased; bodies come through as-is
	assert.Contains(t, doc, "INTRODUCTION")
	assert.Contains(t, doc, "ARGUMENT")
	assert.Contains(t, doc, "This motion should be granted.")
	assert.Contains(t, doc, "The complaint fails as a matter of law.")

	// Flagged warnings surface as review notes
	assert.Contains(t, doc, "[REVIEW NOTES:")
	assert.Contains(t, doc, "Citation may be outdated")

	// Signature block
	assert.Contains(t, doc, "Respectfully submitted,")
	assert.Contains(t, doc, "[ATTORNEY NAME]")
}

func TestExportDraftEscapesXML(t *testing.T) {
	draft := draftFixture()
	draft.Sections[0].Content = `The contract used the term "widgets & gadgets" <verbatim>.`

	data, err := ExportDraft(draft)
	require.NoError(t, err)

	doc := readDocumentXML(t, data)
	assert.Contains(t, doc, "&amp;")
	assert.Contains(t, doc, "&lt;verbatim&gt;")
	assert.NotContains(t, doc, "<verbatim>")
}

func TestExportDraftNoSections(t *testing.T) {
	draft := draftFixture()
	draft.Sections = nil

	_, err := ExportDraft(draft)
	assert.ErrorIs(t, err, ErrNoSections)
}

func TestExportFilename(t *testing.T) {
	name := ExportFilename(draftFixture())

	assert.True(t, strings.HasPrefix(name, "Smith_v_Jones_"))
	assert.True(t, strings.HasSuffix(name, ".docx"))
	assert.NotContains(t, name, " ")
}
