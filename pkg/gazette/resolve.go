package gazette

import "context"

// resolveCourts maps each case's raw court name to a canonical station id.
// Lookups are deduplicated per raw name; an unresolved court keeps the case
// in the output with a nil station.
func (r *Reconciler) resolveCourts(ctx context.Context, cases []ExtractedCase) {
	cache := map[string]*uint{}
	for i := range cases {
		raw := cases[i].CourtNameRaw
		if raw == "" || raw == SentinelStation {
			continue
		}
		if id, ok := cache[raw]; ok {
			cases[i].CourtStationID = id
			continue
		}
		court, err := r.courts.FindByName(ctx, raw)
		if err != nil {
			log.Warnf("court lookup %q: %v", raw, err)
			cache[raw] = nil
			continue
		}
		if court == nil {
			log.Debugf("no court station matches %q", raw)
			cache[raw] = nil
			continue
		}
		id := court.ID
		cache[raw] = &id
		cases[i].CourtStationID = &id
	}
}
