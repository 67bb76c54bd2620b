package reservation

import (
	"sort"

	"canchas/models"
)

// Selection is the set of chosen slot ids, kept in catalog order.
type Selection []string

func (s Selection) Contains(id string) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

func (s Selection) Len() int { return len(s) }

// Toggle adds id when absent and removes it when present.
func (s Selection) Toggle(id string) Selection {
	out := make(Selection, 0, len(s)+1)
	found := false
	for _, v := range s {
		if v == id {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		out = append(out, id)
		sort.SliceStable(out, func(i, j int) bool {
			return models.CatalogIndex(out[i]) < models.CatalogIndex(out[j])
		})
	}
	return out
}

// Prune drops every id present in busy.
func (s Selection) Prune(busy []string) Selection {
	out := make(Selection, 0, len(s))
	for _, v := range s {
		if !contains(busy, v) {
			out = append(out, v)
		}
	}
	return out
}

// Slots resolves the ids against the catalog.
func (s Selection) Slots() []models.Slot {
	slots := make([]models.Slot, 0, len(s))
	for _, id := range s {
		if slot, ok := models.SlotByID(id); ok {
			slots = append(slots, slot)
		}
	}
	return slots
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
