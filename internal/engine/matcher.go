package engine

import (
	"strings"
	"unicode/utf8"

	"dataset-agent/internal/domain"
)

const (
	maxMatches         = 5
	maxFallbackMatches = 3
	perTokenLimit      = 2
	// Tokens of one or two characters are too noisy to match on.
	minTokenRunes = 3
)

// keywordRule maps trigger phrases to the catalog subset they select, either
// a whole category or records sharing an ID prefix.
type keywordRule struct {
	phrases  []string
	category domain.Category
	idPrefix string
}

var keywordRules = []keywordRule{
	{phrases: []string{"penduduk", "populasi", "demografi", "kependudukan"}, category: domain.CategoryKependudukan},
	{phrases: []string{"ekonomi", "pdrb"}, category: domain.CategoryEkonomi},
	{phrases: []string{"inflasi", "harga"}, idPrefix: "ekonomi-inflasi"},
	{phrases: []string{"pendidikan", "sekolah", "murid", "siswa", "guru"}, category: domain.CategoryPendidikan},
	{phrases: []string{"kesehatan", "rumah sakit", "puskesmas"}, category: domain.CategoryKesehatan},
	{phrases: []string{"pengangguran", "tenaga kerja", "ketenagakerjaan", "pekerja"}, category: domain.CategoryKetenagakerjaan},
	{phrases: []string{"kemiskinan", "miskin", "sosial"}, category: domain.CategorySosial},
}

func (r keywordRule) selects(rec domain.DatasetRecord) bool {
	if r.idPrefix != "" {
		return strings.HasPrefix(rec.ID, r.idPrefix)
	}
	return rec.Category == r.category
}

// Match returns up to five catalog records relevant to the input, without
// duplicate IDs, in first-discovered order. An empty result is a normal
// outcome, not an error. Matching runs in three phases, each one tried only
// when the previous phase found nothing.
func (e *Engine) Match(text string) []domain.DatasetRecord {
	t := strings.ToLower(text)

	if hits := e.keywordScan(t); len(hits) > 0 {
		return capRecords(hits, maxMatches)
	}
	if hits := e.fullTextScan(t); len(hits) > 0 {
		return capRecords(hits, maxMatches)
	}
	return e.perWordScan(t)
}

// keywordScan selects records for every rule whose trigger phrase appears in
// the text. Records come out in catalog order regardless of which rules fired.
func (e *Engine) keywordScan(text string) []domain.DatasetRecord {
	var fired []keywordRule
	for _, rule := range keywordRules {
		if containsAny(text, rule.phrases) {
			fired = append(fired, rule)
		}
	}
	if len(fired) == 0 {
		return nil
	}

	var hits []domain.DatasetRecord
	for _, rec := range e.records {
		for _, rule := range fired {
			if rule.selects(rec) {
				hits = append(hits, rec)
				break
			}
		}
	}
	return hits
}

// fullTextScan is the second attempt after an empty keyword scan. It is
// intentionally the same scan, not a broader search; see Match.
func (e *Engine) fullTextScan(text string) []domain.DatasetRecord {
	return e.keywordScan(text)
}

// perWordScan retries matching token by token, skipping short tokens, keeping
// at most two full-text hits per token, and capping the merged result at
// three records.
func (e *Engine) perWordScan(text string) []domain.DatasetRecord {
	var hits []domain.DatasetRecord
	seen := make(map[string]struct{})
	for _, token := range strings.Fields(text) {
		if utf8.RuneCountInString(token) < minTokenRunes {
			continue
		}
		tokenHits := e.keywordScan(token)
		if len(tokenHits) == 0 {
			tokenHits = capRecords(e.fullTextScan(token), perTokenLimit)
		}
		for _, rec := range tokenHits {
			if _, dup := seen[rec.ID]; dup {
				continue
			}
			seen[rec.ID] = struct{}{}
			hits = append(hits, rec)
		}
	}
	return capRecords(hits, maxFallbackMatches)
}

func capRecords(records []domain.DatasetRecord, n int) []domain.DatasetRecord {
	if len(records) > n {
		return records[:n]
	}
	return records
}
