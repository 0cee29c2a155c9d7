package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"briefbank-backend/models"
)

func briefFixture(title string) *models.Brief {
	jurisdiction := "federal"
	court := "Northern District of California"
	return &models.Brief{
		ID:                uuid.New(),
		Filename:          "brief.txt",
		Title:             &title,
		Court:             &court,
		Jurisdiction:      &jurisdiction,
		ProceduralPosture: models.PostureMotionToDismiss,
		LegalIssues:       []string{"standing"},
		FileType:          "text",
		IngestedAt:        time.Now().UTC(),
	}
}

func chunkFixture(brief *models.Brief, heading, content string) *models.ArgumentChunk {
	posture := brief.ProceduralPosture
	return &models.ArgumentChunk{
		ID:                uuid.New(),
		BriefID:           brief.ID,
		SectionType:       models.SectionArgument,
		Heading:           &heading,
		Content:           content,
		LegalIssues:       brief.LegalIssues,
		Jurisdiction:      brief.Jurisdiction,
		Court:             brief.Court,
		ProceduralPosture: &posture,
	}
}

func citationFixture(chunk *models.ArgumentChunk) *models.Citation {
	c := &models.Citation{
		ID:            uuid.New(),
		FullText:      "Smith v. Jones, 123 F.3d 456 (9th Cir. 2020)",
		ParentChunkID: chunk.ID,
	}
	chunk.Citations = append(chunk.Citations, c.ID)
	return c
}

func openTestStore(t *testing.T) (*BriefStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "brief_bank.json")
	store, err := OpenBriefStore(path)
	require.NoError(t, err)
	return store, path
}

func TestAddAndGetBrief(t *testing.T) {
	store, path := openTestStore(t)

	brief := briefFixture("Smith v. Jones")
	chunk := chunkFixture(brief, "I. ARGUMENT", "The claim fails.")
	citation := citationFixture(chunk)

	require.NoError(t, store.AddBrief(brief, []*models.ArgumentChunk{chunk}, []*models.Citation{citation}))

	got, err := store.GetBrief(brief.ID)
	require.NoError(t, err)
	assert.Equal(t, brief.ID, got.ID)

	gotChunk, err := store.GetChunk(chunk.ID)
	require.NoError(t, err)
	assert.Equal(t, chunk.ID, gotChunk.ID)

	gotCitation, ok := store.GetCitation(citation.ID)
	require.True(t, ok)
	assert.Equal(t, citation.ID, gotCitation.ID)

	// The mutating call returned, so the file is already durable
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestGetBriefNotFound(t *testing.T) {
	store, _ := openTestStore(t)

	_, err := store.GetBrief(uuid.New())
	assert.ErrorIs(t, err, ErrBriefNotFound)

	_, err = store.GetChunk(uuid.New())
	assert.ErrorIs(t, err, ErrChunkNotFound)
}

func TestDeleteBriefRestoresIndexKeySets(t *testing.T) {
	store, _ := openTestStore(t)

	keep := briefFixture("Keep")
	keepChunk := chunkFixture(keep, "I. ARGUMENT", "Kept argument.")
	require.NoError(t, store.AddBrief(keep, []*models.ArgumentChunk{keepChunk}, nil))

	drop := briefFixture("Drop")
	dropIssue := "preemption"
	drop.LegalIssues = []string{dropIssue}
	other := "california"
	drop.Jurisdiction = &other
	dropChunk := chunkFixture(drop, "II. ARGUMENT", "Dropped argument.")
	dropCitation := citationFixture(dropChunk)
	require.NoError(t, store.AddBrief(drop, []*models.ArgumentChunk{dropChunk}, []*models.Citation{dropCitation}))

	require.NoError(t, store.DeleteBrief(drop.ID))

	_, err := store.GetBrief(drop.ID)
	assert.ErrorIs(t, err, ErrBriefNotFound)
	_, err = store.GetChunk(dropChunk.ID)
	assert.ErrorIs(t, err, ErrChunkNotFound)
	_, ok := store.GetCitation(dropCitation.ID)
	assert.False(t, ok)

	// Index keys emptied by the delete are removed entirely
	assert.NotContains(t, store.snapshot.ChunksByIssue, dropIssue)
	assert.NotContains(t, store.snapshot.ChunksByJurisdiction, other)
	assert.Contains(t, store.snapshot.ChunksByIssue, "standing")
	assert.Contains(t, store.snapshot.ChunksByJurisdiction, "federal")

	// The surviving brief is untouched
	_, err = store.GetBrief(keep.ID)
	assert.NoError(t, err)
}

func TestAddBriefRollsBackOnPersistFailure(t *testing.T) {
	dir := t.TempDir()
	blocked := filepath.Join(dir, "bank")
	store, err := OpenBriefStore(filepath.Join(blocked, "brief_bank.json"))
	require.NoError(t, err)

	// A regular file where the store directory should go makes the
	// persist write fail after the in-memory mutation
	require.NoError(t, os.WriteFile(blocked, []byte("in the way"), 0o644))

	brief := briefFixture("Rollback")
	chunk := chunkFixture(brief, "I. BREACH", "The breach of contract caused damages.")
	citation := citationFixture(chunk)

	err = store.AddBrief(brief, []*models.ArgumentChunk{chunk}, []*models.Citation{citation})
	require.Error(t, err)

	// The failed add left no trace in memory
	_, getErr := store.GetBrief(brief.ID)
	assert.ErrorIs(t, getErr, ErrBriefNotFound)
	_, chunkErr := store.GetChunk(chunk.ID)
	assert.ErrorIs(t, chunkErr, ErrChunkNotFound)
	_, ok := store.GetCitation(citation.ID)
	assert.False(t, ok)
	assert.Empty(t, store.ListBriefs())
	assert.NotContains(t, store.snapshot.ChunksByIssue, "standing")
	assert.NotContains(t, store.snapshot.ChunksByJurisdiction, "federal")
	assert.Empty(t, store.Search("breach of contract damages", nil, nil, 10))
}

func TestDeleteUnknownBriefIsNoOp(t *testing.T) {
	store, path := openTestStore(t)

	require.NoError(t, store.DeleteBrief(uuid.New()))

	// Nothing was written for the no-op
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "brief_bank.json")

	store, err := OpenBriefStore(path)
	require.NoError(t, err)

	brief := briefFixture("Round Trip")
	chunk := chunkFixture(brief, "I. ARGUMENT", "Persisted argument.")
	citation := citationFixture(chunk)
	require.NoError(t, store.AddBrief(brief, []*models.ArgumentChunk{chunk}, []*models.Citation{citation}))
	require.NoError(t, store.Close())

	reopened, err := OpenBriefStore(path)
	require.NoError(t, err)

	got, err := reopened.GetBrief(brief.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Title)
	assert.Equal(t, "Round Trip", *got.Title)

	chunks := reopened.ChunksForBrief(brief.ID)
	require.Len(t, chunks, 1)
	assert.Equal(t, chunk.ID, chunks[0].ID)

	_, ok := reopened.GetCitation(citation.ID)
	assert.True(t, ok)
}

func TestOpenBriefStoreMissingFileStartsEmpty(t *testing.T) {
	store, err := OpenBriefStore(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Empty(t, store.ListBriefs())
	assert.Empty(t, store.ListChunks())
}

func TestOpenBriefStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := OpenBriefStore(path)
	assert.Error(t, err)
}

func TestChunksForBriefPreservesInsertionOrder(t *testing.T) {
	store, _ := openTestStore(t)

	brief := briefFixture("Ordered")
	first := chunkFixture(brief, "I. FIRST", "First.")
	second := chunkFixture(brief, "II. SECOND", "Second.")
	third := chunkFixture(brief, "III. THIRD", "Third.")
	require.NoError(t, store.AddBrief(brief, []*models.ArgumentChunk{first, second, third}, nil))

	chunks := store.ChunksForBrief(brief.ID)
	require.Len(t, chunks, 3)
	assert.Equal(t, first.ID, chunks[0].ID)
	assert.Equal(t, second.ID, chunks[1].ID)
	assert.Equal(t, third.ID, chunks[2].ID)
}
