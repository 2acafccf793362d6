package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dataset-agent/internal/domain"
)

func TestMatch_PopulationKeywordReturnsPopulationRecordsFirst(t *testing.T) {
	e := testEngine(t)

	got := e.Match("populasi kota medan")
	require.NotEmpty(t, got)
	require.Equal(t, "kependudukan-a", got[0].ID)
	for _, rec := range got {
		require.Equal(t, domain.CategoryKependudukan, rec.Category)
	}
}

func TestMatch_CapsAtFiveRecords(t *testing.T) {
	e := testEngine(t)

	// Six population records exist; only five may come back.
	got := e.Match("penduduk")
	require.Len(t, got, 5)
	requireUniqueIDs(t, got)
}

func TestMatch_OverlappingRulesDoNotDuplicate(t *testing.T) {
	e := testEngine(t)

	// "ekonomi" selects the whole category and "inflasi" selects the same
	// inflation record by ID prefix.
	got := e.Match("ekonomi dan inflasi")
	require.Len(t, got, 2)
	requireUniqueIDs(t, got)
}

func TestMatch_PreservesCatalogOrderAcrossRules(t *testing.T) {
	e := testEngine(t)

	got := e.Match("data pendidikan dan inflasi")
	require.Equal(t, []string{"ekonomi-inflasi", "pendidikan-statistik"}, recordIDs(got))
}

func TestMatch_NoKeywordYieldsEmpty(t *testing.T) {
	e := testEngine(t)

	require.Empty(t, e.Match("xyzxyz not a real keyword"))
	require.Empty(t, e.Match(""))
}

func TestMatch_PerWordFallbackDiscardsShortTokens(t *testing.T) {
	e := testEngine(t)

	// Every token is two characters or fewer, so the per-word phase has
	// nothing left to scan.
	require.Empty(t, e.Match("ab cd ef"))
}

func TestMatch_IsCaseInsensitive(t *testing.T) {
	e := testEngine(t)

	require.Equal(t, recordIDs(e.Match("PENDIDIKAN")), recordIDs(e.Match("pendidikan")))
}

func requireUniqueIDs(t *testing.T, records []domain.DatasetRecord) {
	t.Helper()

	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		_, dup := seen[rec.ID]
		require.False(t, dup, "duplicate record id %q", rec.ID)
		seen[rec.ID] = struct{}{}
	}
}

func recordIDs(records []domain.DatasetRecord) []string {
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	return ids
}
