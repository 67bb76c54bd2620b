package reservation

import (
	"fmt"
	"time"

	"canchas/models"
)

// State is the submission lifecycle of a draft.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

var transitions = map[State][]State{
	StateIdle:       {StateValidating},
	StateValidating: {StateIdle, StateSubmitting},
	StateSubmitting: {StateSucceeded, StateFailed},
	StateFailed:     {StateIdle, StateValidating},
	StateSucceeded:  nil,
}

// Draft is the server side copy of a reservation being assembled by one client.
type Draft struct {
	ID           string          `json:"id"`
	OwnerUserID  int             `json:"owner_user_id"`
	IDCancha     int             `json:"id_cancha"`
	Cancha       *models.Cancha  `json:"cancha,omitempty"`
	Fecha        string          `json:"fecha,omitempty"`
	Cupo         int             `json:"cupo"`
	Selected     Selection       `json:"selected"`
	Busy         []string        `json:"busy"`
	Generation   uint64          `json:"generation"`
	LoadError    string          `json:"load_error,omitempty"`
	State        State           `json:"state"`
	Receipt      *models.Receipt `json:"receipt,omitempty"`
	LastError    string          `json:"last_error,omitempty"`
	SubmissionID string          `json:"submission_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (d *Draft) transition(to State) error {
	for _, allowed := range transitions[d.State] {
		if allowed == to {
			d.State = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrDraftLocked, d.State, to)
}

// editable reports whether the draft accepts changes; a failed draft goes back to idle.
func (d *Draft) editable() error {
	switch d.State {
	case StateSubmitting, StateSucceeded, StateValidating:
		return ErrDraftLocked
	case StateFailed:
		return d.transition(StateIdle)
	}
	return nil
}

// recoverStale fails a submission that reported no outcome within maxAge of entering Submitting.
func (d *Draft) recoverStale(now time.Time, maxAge time.Duration) bool {
	if d.State != StateSubmitting || now.Sub(d.UpdatedAt) <= maxAge {
		return false
	}
	d.State = StateFailed
	d.LastError = msgEnvioInterrumpido
	return true
}

// Allowed returns the slots inside the court's opening hours.
func (d *Draft) Allowed() []models.Slot {
	if d.Cancha == nil {
		return models.Catalog()
	}
	return AllowedSlots(d.Cancha.HorarioApertura, d.Cancha.HorarioCierre)
}

// BeginBusyFetch switches the draft to fecha and returns the token the fetch result must present.
func (d *Draft) BeginBusyFetch(fecha string) uint64 {
	d.Fecha = fecha
	d.Generation++
	d.Busy = nil
	return d.Generation
}

// ApplyBusy installs the busy set for generation gen and prunes the selection.
// It returns false and leaves the draft untouched when gen is stale.
func (d *Draft) ApplyBusy(gen uint64, intervals []models.BusyInterval) bool {
	if gen != d.Generation {
		return false
	}
	d.Busy = BusySlotIDs(intervals)
	d.Selected = d.Selected.Prune(d.Busy)
	d.LoadError = ""
	return true
}

// FailBusy records a failed fetch for generation gen. The busy set falls back to empty.
func (d *Draft) FailBusy(gen uint64, msg string) bool {
	if gen != d.Generation {
		return false
	}
	d.Busy = nil
	d.LoadError = msg
	return true
}

// Toggle flips id in the selection. Only allowed, free catalog slots can be added.
func (d *Draft) Toggle(id string) error {
	if d.Selected.Contains(id) {
		d.Selected = d.Selected.Toggle(id)
		return nil
	}
	if _, ok := models.SlotByID(id); !ok {
		return fmt.Errorf("%w: %q is not in the catalog", ErrSlotNotSelectable, id)
	}
	if !isAllowed(d.Allowed(), id) {
		return fmt.Errorf("%w: %q is outside opening hours", ErrSlotNotSelectable, id)
	}
	if contains(d.Busy, id) {
		return fmt.Errorf("%w: %q is already booked", ErrSlotNotSelectable, id)
	}
	d.Selected = d.Selected.Toggle(id)
	return nil
}

// Total is the current price of the selection.
func (d *Draft) Total() float64 {
	if d.Cancha == nil {
		return 0
	}
	return Total(d.Selected.Len(), d.Cancha.MontoPorHora.Float())
}

// SlotView is one catalog slot as shown to the client.
type SlotView struct {
	models.Slot
	Busy     bool `json:"busy"`
	Selected bool `json:"selected"`
}

// DraftView is the client facing projection of a draft.
type DraftView struct {
	*Draft
	Slots []SlotView `json:"slots"`
	Total float64    `json:"total"`
}

func (d *Draft) View() DraftView {
	allowed := d.Allowed()
	slots := make([]SlotView, 0, len(allowed))
	for _, s := range allowed {
		slots = append(slots, SlotView{
			Slot:     s,
			Busy:     contains(d.Busy, s.ID),
			Selected: d.Selected.Contains(s.ID),
		})
	}
	return DraftView{Draft: d, Slots: slots, Total: d.Total()}
}
