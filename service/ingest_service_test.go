package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"briefbank-backend/models"
	"briefbank-backend/parser"
	"briefbank-backend/repository"
)

const uploadFixture = `UNITED STATES DISTRICT COURT
Northern District of California

ACME CORP., Plaintiff, v. JOHN DOE, Defendant.
Case No. 3:21-cv-01234

INTRODUCTION
This motion to dismiss should be granted.

ARGUMENT
A. Plaintiff Fails To State A Claim
Smith v. Jones, 123 F.3d 456 (9th Cir. 2020) requires dismissal.

CONCLUSION
The motion should be granted.`

func newTestIngestService(t *testing.T) (*IngestService, *repository.BriefStore) {
	t.Helper()
	store, err := repository.OpenBriefStore(filepath.Join(t.TempDir(), "brief_bank.json"))
	require.NoError(t, err)
	return NewIngestService(WithBriefStore(store)), store
}

func TestUploadBriefIngestsAndIndexes(t *testing.T) {
	svc, store := newTestIngestService(t)

	outcome := "granted"
	result, err := svc.UploadBrief(context.Background(), UploadBriefRequest{
		Filename:    "motion.txt",
		Content:     []byte(uploadFixture),
		LegalIssues: []string{"standing"},
		Outcome:     &outcome,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Brief)
	assert.Greater(t, result.ChunkCount, 0)

	brief, err := store.GetBrief(result.Brief.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostureMotionToDismiss, brief.ProceduralPosture)
	assert.Equal(t, []string{"standing"}, brief.LegalIssues)
	require.NotNil(t, brief.Outcome)
	assert.Equal(t, "granted", *brief.Outcome)

	chunks := store.ChunksForBrief(brief.ID)
	assert.Len(t, chunks, result.ChunkCount)

	// The argument chunk's citation is registered in the bank
	var citationCount int
	for _, chunk := range chunks {
		citationCount += len(chunk.Citations)
		for _, citID := range chunk.Citations {
			_, ok := store.GetCitation(citID)
			assert.True(t, ok)
		}
	}
	assert.Equal(t, 1, citationCount)
}

func TestUploadBriefRejectsUnsupportedExtension(t *testing.T) {
	svc, _ := newTestIngestService(t)

	_, err := svc.UploadBrief(context.Background(), UploadBriefRequest{
		Filename: "motion.pdf",
		Content:  []byte("content"),
	})
	assert.ErrorIs(t, err, parser.ErrUnsupportedFileType)
}

func TestDeleteBriefRemovesFromBank(t *testing.T) {
	svc, store := newTestIngestService(t)

	result, err := svc.UploadBrief(context.Background(), UploadBriefRequest{
		Filename: "motion.txt",
		Content:  []byte(uploadFixture),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBrief(context.Background(), DeleteBriefRequest{BriefID: result.Brief.ID}))

	_, err = store.GetBrief(result.Brief.ID)
	assert.ErrorIs(t, err, repository.ErrBriefNotFound)
	assert.Empty(t, store.ListChunks())
}

func TestDeleteUnknownBriefIsNoOp(t *testing.T) {
	svc, _ := newTestIngestService(t)

	assert.NoError(t, svc.DeleteBrief(context.Background(), DeleteBriefRequest{BriefID: uuid.New()}))
}
