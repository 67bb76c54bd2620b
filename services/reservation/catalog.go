package reservation

import "canchas/models"

// AllowedSlots narrows the catalog to the court's opening hours, keeping catalog order.
// Missing or unparseable bounds leave the catalog unrestricted on that side.
func AllowedSlots(apertura, cierre string) []models.Slot {
	open, okOpen := parseBound(apertura)
	closing, okClose := parseBound(cierre)
	if okClose && closing == models.Midnight && (!okOpen || open > models.Midnight) {
		closing = models.EndOfDay
	}

	all := models.Catalog()
	allowed := make([]models.Slot, 0, len(all))
	for _, s := range all {
		if okOpen && s.Start < open {
			continue
		}
		if okClose && s.End > closing {
			continue
		}
		allowed = append(allowed, s)
	}
	return allowed
}

func parseBound(s string) (models.TimeOfDay, bool) {
	if s == "" {
		return 0, false
	}
	t, err := models.ParseTimeOfDay(s)
	if err != nil {
		return 0, false
	}
	return t, true
}

func isAllowed(allowed []models.Slot, id string) bool {
	for _, s := range allowed {
		if s.ID == id {
			return true
		}
	}
	return false
}
