// Package recall finds patients overdue for a follow-up visit.
package recall

import (
	"sort"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/clinic-recall/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-recall/internal/models"
)

type Candidate struct {
	PatientID string    `json:"patient_id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	LastVisit time.Time `json:"last_visit"`
}

type Input struct {
	Patients     []models.Patient
	Appointments []models.Appointment
	Dismissals   []models.DismissalRecord

	// Now is the evaluation instant; today is derived from it in Location.
	Now      time.Time
	Location *time.Location
	Months   int
}

// Candidates is a pure function of its input. Patients keep their input
// order; use SortByName or SortByLastVisit for presentation.
func Candidates(in Input) []Candidate {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}

	today := day(in.Now, loc)
	cutoff := Cutoff(today, in.Months)

	// latest completed visit day per patient
	lastVisit := make(map[string]time.Time)
	// patients that already have something on the agenda
	booked := make(map[string]struct{})

	for _, ap := range in.Appointments {
		if ap.PatientID == nil {
			continue
		}
		pid := *ap.PatientID
		d := ap.Day()

		switch status := domain.Status(ap.Status); {
		case status == domain.StatusCompleted:
			if cur, ok := lastVisit[pid]; !ok || !d.Before(cur) {
				lastVisit[pid] = d
			}
		case status.Booked() && !d.Before(today):
			booked[pid] = struct{}{}
		}
	}

	ledger := NewLedger(in.Dismissals, in.Appointments, loc)

	out := make([]Candidate, 0)
	for _, p := range in.Patients {
		last, ok := lastVisit[p.ID]
		if !ok || last.After(cutoff) {
			continue
		}
		if _, ok := booked[p.ID]; ok {
			continue
		}
		if ledger.IsDismissed(p.ID, in.Now) {
			continue
		}

		out = append(out, Candidate{
			PatientID: p.ID,
			Name:      p.Name,
			Phone:     p.Phone,
			LastVisit: last,
		})
	}

	return out
}

func SortByName(cs []Candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		return strings.ToLower(cs[i].Name) < strings.ToLower(cs[j].Name)
	})
}

// SortByLastVisit puts the longest-overdue patients first.
func SortByLastVisit(cs []Candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		return cs[i].LastVisit.Before(cs[j].LastVisit)
	})
}

func day(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
