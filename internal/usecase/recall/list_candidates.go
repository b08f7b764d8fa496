package recall

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	domain "github.com/BruksfildServices01/clinic-recall/internal/domain/recall"
	"github.com/BruksfildServices01/clinic-recall/internal/httperr"
	"github.com/BruksfildServices01/clinic-recall/internal/models"
	"github.com/BruksfildServices01/clinic-recall/internal/timezone"
)

const (
	SortByName      = "name"
	SortByLastVisit = "last_visit"
)

// fetchFailed marks errors that must reach the caller as "no data", never as
// an empty list.
func fetchFailed(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", httperr.ErrBusiness("recall_fetch_failed"), what, err)
}

type ListCandidates struct {
	repo     domain.Repository
	timezone string
	months   int
	clock    func() time.Time
}

func NewListCandidates(
	repo domain.Repository,
	tz string,
	months int,
) *ListCandidates {
	return &ListCandidates{
		repo:     repo,
		timezone: tz,
		months:   months,
		clock:    time.Now,
	}
}

// Execute recomputes the candidate list from the store on every call.
func (uc *ListCandidates) Execute(
	ctx context.Context,
	sortBy string,
) ([]domain.Candidate, error) {

	var (
		patients     []models.Patient
		appointments []models.Appointment
		dismissals   []models.DismissalRecord
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if patients, err = uc.repo.ListPatients(gctx); err != nil {
			return fetchFailed("patients", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if appointments, err = uc.repo.ListAppointments(gctx); err != nil {
			return fetchFailed("appointments", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if dismissals, err = uc.repo.ListDismissals(gctx); err != nil {
			return fetchFailed("dismissals", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := domain.Candidates(domain.Input{
		Patients:     patients,
		Appointments: appointments,
		Dismissals:   dismissals,
		Now:          uc.clock(),
		Location:     timezone.Location(uc.timezone),
		Months:       uc.months,
	})

	switch sortBy {
	case SortByLastVisit:
		domain.SortByLastVisit(out)
	case SortByName, "":
		domain.SortByName(out)
	default:
		return nil, httperr.ErrBusiness("invalid_sort")
	}

	return out, nil
}
