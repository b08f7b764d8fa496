package recall

import (
	"sort"
	"time"

	domain "github.com/BruksfildServices01/clinic-recall/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-recall/internal/models"
)

// Ledger answers whether a recall dismissal is active for a patient.
// A dismissal is void once a completed visit happens after it.
type Ledger struct {
	dismissals  map[string][]time.Time
	latestVisit map[string]time.Time
}

func NewLedger(
	dismissals []models.DismissalRecord,
	appointments []models.Appointment,
	loc *time.Location,
) *Ledger {

	l := &Ledger{
		dismissals:  make(map[string][]time.Time),
		latestVisit: latestCompletedVisits(appointments, loc),
	}

	for _, d := range dismissals {
		if d.PatientID == "" {
			continue
		}
		l.dismissals[d.PatientID] = append(l.dismissals[d.PatientID], d.CreatedAt)
	}
	for id := range l.dismissals {
		ts := l.dismissals[id]
		sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
	}

	return l
}

// IsDismissed reports whether a dismissal created at or before asOf is
// still in force for patientID.
func (l *Ledger) IsDismissed(patientID string, asOf time.Time) bool {
	created, ok := l.latestDismissal(patientID, asOf)
	if !ok {
		return false
	}

	visit, visited := l.latestVisit[patientID]
	if visited && visit.After(created) {
		return false
	}
	return true
}

func (l *Ledger) latestDismissal(patientID string, asOf time.Time) (time.Time, bool) {
	ts := l.dismissals[patientID]
	for i := len(ts) - 1; i >= 0; i-- {
		if !ts[i].After(asOf) {
			return ts[i], true
		}
	}
	return time.Time{}, false
}

// latestCompletedVisits maps patient -> instant of the latest completed visit,
// using the scheduled day and time in the clinic timezone.
func latestCompletedVisits(appointments []models.Appointment, loc *time.Location) map[string]time.Time {
	out := make(map[string]time.Time)
	for _, ap := range appointments {
		if ap.PatientID == nil || domain.Status(ap.Status) != domain.StatusCompleted {
			continue
		}
		at := visitInstant(ap, loc)
		if cur, ok := out[*ap.PatientID]; !ok || at.After(cur) {
			out[*ap.PatientID] = at
		}
	}
	return out
}

func visitInstant(ap models.Appointment, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	day := ap.Day()

	hour, minute := 0, 0
	if hm, err := time.Parse("15:04", ap.Time); err == nil {
		hour, minute = hm.Hour(), hm.Minute()
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)
}
