package reservation

import "canchas/models"

// BusySlotIDs marks a catalog slot busy when its start falls in [inicio, fin) of any interval.
// Intervals that do not parse are ignored.
func BusySlotIDs(intervals []models.BusyInterval) []string {
	type span struct{ start, end models.TimeOfDay }
	spans := make([]span, 0, len(intervals))
	for _, iv := range intervals {
		start, err := models.ParseTimeOfDay(iv.HoraInicio)
		if err != nil {
			continue
		}
		end, err := models.ParseTimeOfDay(iv.HoraFin)
		if err != nil {
			continue
		}
		if end == models.Midnight && start > models.Midnight {
			end = models.EndOfDay
		}
		spans = append(spans, span{start, end})
	}

	var busy []string
	for _, s := range models.Catalog() {
		for _, sp := range spans {
			if s.Start >= sp.start && s.Start < sp.end {
				busy = append(busy, s.ID)
				break
			}
		}
	}
	return busy
}
