package recall

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/BruksfildServices01/clinic-recall/internal/httperr"
	"github.com/BruksfildServices01/clinic-recall/internal/models"
)

type fakeStore struct {
	listPatients     func(ctx context.Context) ([]models.Patient, error)
	listAppointments func(ctx context.Context) ([]models.Appointment, error)
	listDismissals   func(ctx context.Context) ([]models.DismissalRecord, error)
	getPatient       func(ctx context.Context, id string) (*models.Patient, error)
	createDismissal  func(ctx context.Context, d *models.DismissalRecord) error
}

func (f *fakeStore) ListPatients(ctx context.Context) ([]models.Patient, error) {
	return f.listPatients(ctx)
}

func (f *fakeStore) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	return f.listAppointments(ctx)
}

func (f *fakeStore) ListDismissals(ctx context.Context) ([]models.DismissalRecord, error) {
	if f.listDismissals == nil {
		return nil, nil
	}
	return f.listDismissals(ctx)
}

func (f *fakeStore) GetPatient(ctx context.Context, id string) (*models.Patient, error) {
	return f.getPatient(ctx, id)
}

func (f *fakeStore) CreateDismissal(ctx context.Context, d *models.DismissalRecord) error {
	return f.createDismissal(ctx, d)
}

func day(s string) datatypes.Date {
	t, _ := time.Parse("2006-01-02", s)
	return datatypes.Date(t)
}

func strPtr(s string) *string { return &s }

func seededStore() *fakeStore {
	return &fakeStore{
		listPatients: func(context.Context) ([]models.Patient, error) {
			return []models.Patient{
				{ID: "p-zeca", Name: "Zeca"},
				{ID: "p-ana", Name: "Ana", Phone: strPtr("11999990000")},
				{ID: "p-recent", Name: "Bruno"},
			}, nil
		},
		listAppointments: func(context.Context) ([]models.Appointment, error) {
			return []models.Appointment{
				{PatientID: strPtr("p-zeca"), Date: day("2023-12-01"), Status: "completed"},
				{PatientID: strPtr("p-ana"), Date: day("2024-01-10"), Status: "completed"},
				{PatientID: strPtr("p-recent"), Date: day("2024-06-01"), Status: "completed"},
			}, nil
		},
	}
}

// noon in São Paulo on 2024-07-11
var fixedNow = time.Date(2024, 7, 11, 15, 0, 0, 0, time.UTC)

func newList(store *fakeStore) *ListCandidates {
	uc := NewListCandidates(store, "America/Sao_Paulo", 6)
	uc.clock = func() time.Time { return fixedNow }
	return uc
}

func TestListCandidatesSorting(t *testing.T) {
	uc := newList(seededStore())

	byName, err := uc.Execute(context.Background(), SortByName)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byName) != 2 || byName[0].Name != "Ana" || byName[1].Name != "Zeca" {
		t.Fatalf("unexpected order by name: %+v", byName)
	}

	byVisit, _ := uc.Execute(context.Background(), SortByLastVisit)
	if byVisit[0].PatientID != "p-zeca" {
		t.Fatalf("longest overdue should come first: %+v", byVisit)
	}

	if _, err := uc.Execute(context.Background(), "age"); !httperr.IsBusiness(err, "invalid_sort") {
		t.Fatalf("expected invalid_sort, got %v", err)
	}
}

func TestListCandidatesFetchFailure(t *testing.T) {
	tests := []struct {
		name       string
		breakStore func(*fakeStore)
	}{
		{"patients", func(s *fakeStore) {
			s.listPatients = func(context.Context) ([]models.Patient, error) {
				return nil, errors.New("connection refused")
			}
		}},
		{"appointments", func(s *fakeStore) {
			s.listAppointments = func(context.Context) ([]models.Appointment, error) {
				return nil, errors.New("timeout")
			}
		}},
		{"dismissals", func(s *fakeStore) {
			s.listDismissals = func(context.Context) ([]models.DismissalRecord, error) {
				return nil, errors.New("timeout")
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seededStore()
			tt.breakStore(store)

			got, err := newList(store).Execute(context.Background(), SortByName)
			if !httperr.IsBusiness(err, "recall_fetch_failed") {
				t.Fatalf("expected recall_fetch_failed, got %v", err)
			}
			if got != nil {
				t.Fatalf("a failed fetch must not produce a list, got %+v", got)
			}
		})
	}
}

func TestListCandidatesHonoursDismissal(t *testing.T) {
	store := seededStore()
	store.listDismissals = func(context.Context) ([]models.DismissalRecord, error) {
		return []models.DismissalRecord{
			{PatientID: "p-ana", CreatedAt: time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)},
		}, nil
	}

	got, err := newList(store).Execute(context.Background(), SortByName)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].PatientID != "p-zeca" {
		t.Fatalf("dismissed patient should be hidden: %+v", got)
	}
}

func TestDismissCandidate(t *testing.T) {
	var created []models.DismissalRecord

	store := &fakeStore{
		getPatient: func(_ context.Context, id string) (*models.Patient, error) {
			if id != "p-ana" {
				return nil, httperr.ErrBusiness("patient_not_found")
			}
			return &models.Patient{ID: id}, nil
		},
		createDismissal: func(_ context.Context, d *models.DismissalRecord) error {
			created = append(created, *d)
			return nil
		},
	}

	uc := NewDismissCandidate(store, nil)

	d, err := uc.Execute(context.Background(), 3, " p-ana ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.PatientID != "p-ana" || d.CreatedBy == nil || *d.CreatedBy != 3 {
		t.Fatalf("unexpected record: %+v", d)
	}
	if len(created) != 1 {
		t.Fatalf("expected 1 dismissal, got %d", len(created))
	}

	if _, err := uc.Execute(context.Background(), 3, "ghost"); !httperr.IsBusiness(err, "patient_not_found") {
		t.Fatalf("expected patient_not_found, got %v", err)
	}
	if _, err := uc.Execute(context.Background(), 3, ""); !httperr.IsBusiness(err, "missing_patient_id") {
		t.Fatalf("expected missing_patient_id, got %v", err)
	}
}

func TestDismissCandidateWriteFailureKeepsCandidate(t *testing.T) {
	store := seededStore()
	store.getPatient = func(_ context.Context, id string) (*models.Patient, error) {
		return &models.Patient{ID: id}, nil
	}
	store.createDismissal = func(context.Context, *models.DismissalRecord) error {
		return errors.New("write failed")
	}

	if _, err := NewDismissCandidate(store, nil).Execute(context.Background(), 1, "p-ana"); err == nil {
		t.Fatalf("expected write error")
	}

	got, err := newList(store).Execute(context.Background(), SortByName)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("candidate must stay visible after a failed dismissal: %+v", got)
	}
}

type memUploader struct {
	key         string
	body        []byte
	contentType string
	err         error
}

func (m *memUploader) Upload(_ context.Context, key string, body []byte, contentType string) error {
	if m.err != nil {
		return m.err
	}
	m.key, m.body, m.contentType = key, body, contentType
	return nil
}

func TestExportCandidates(t *testing.T) {
	up := &memUploader{}
	uc := NewExportCandidates(newList(seededStore()), up, nil)

	key, err := uc.Execute(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "recalls/2024-07-11.csv" {
		t.Fatalf("unexpected key %q", key)
	}
	if up.contentType != "text/csv" {
		t.Fatalf("unexpected content type %q", up.contentType)
	}

	lines := strings.Split(strings.TrimSpace(string(up.body)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %q", up.body)
	}
	if lines[0] != "patient_id,name,phone,last_visit" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[1] != "p-zeca,Zeca,,2023-12-01" {
		t.Fatalf("unexpected first row %q", lines[1])
	}
	if lines[2] != "p-ana,Ana,11999990000,2024-01-10" {
		t.Fatalf("unexpected second row %q", lines[2])
	}
}

func TestExportCandidatesDisabled(t *testing.T) {
	uc := NewExportCandidates(newList(seededStore()), nil, nil)

	if _, err := uc.Execute(context.Background(), 1); !httperr.IsBusiness(err, "export_disabled") {
		t.Fatalf("expected export_disabled, got %v", err)
	}
}
