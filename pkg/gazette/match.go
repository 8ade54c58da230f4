package gazette

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/KeithOmondi/principle-registry/pkg/models"
)

// MatchResult pairs one extracted case with the record it reconciled
// against, if any.
type MatchResult struct {
	Case   ExtractedCase
	Record *models.Record
}

// matchRecords reconciles extracted cases against the record directory.
// The key is exact, case-insensitive equality on the normalized deceased
// name. A record is matched at most once per scan: first match wins.
// Returns the results and the number of matches.
func (r *Reconciler) matchRecords(ctx context.Context, cases []ExtractedCase) ([]MatchResult, int) {
	results := make([]MatchResult, 0, len(cases))
	matched := 0
	seen := map[uint]bool{}

	for _, c := range cases {
		res := MatchResult{Case: c}
		if c.NameOfDeceased != strings.ToLower(SentinelDeceased) {
			records, err := r.records.FindByDeceasedName(ctx, NormalizeName(c.NameOfDeceased))
			if err != nil {
				log.Warnf("record lookup %q: %v", c.NameOfDeceased, err)
			}
			for i := range records {
				if seen[records[i].ID] {
					log.Debugf("record %d already matched in this scan, skipping duplicate", records[i].ID)
					continue
				}
				seen[records[i].ID] = true
				res.Record = &records[i]
				matched++
				break
			}
		}
		results = append(results, res)
	}
	return results, matched
}

// applyMutations marks every matched record Published with the gazette-wide
// volume and date. Writes are issued concurrently, one per record; matched
// records are disjoint so they share no mutable state. A failed mutation is
// logged and skipped, it never aborts the remaining ones.
func (r *Reconciler) applyMutations(ctx context.Context, results []MatchResult, meta Metadata) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.mutationWorkers)
	for _, res := range results {
		if res.Record == nil {
			continue
		}
		rec := res.Record
		g.Go(func() error {
			err := r.records.MarkPublished(ctx, rec.ID, PublicationUpdate{
				VolumeNo:      meta.VolumeNo,
				DatePublished: meta.DatePublished,
			})
			if err != nil {
				log.Errorf("marking record %d published: %v", rec.ID, err)
			}
			return nil
		})
	}
	_ = g.Wait()
}
