package recall

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/BruksfildServices01/clinic-recall/internal/audit"
	domain "github.com/BruksfildServices01/clinic-recall/internal/domain/recall"
	"github.com/BruksfildServices01/clinic-recall/internal/httperr"
	"github.com/BruksfildServices01/clinic-recall/internal/timezone"
)

// Uploader stores an object under key.
type Uploader interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) error
}

type ExportCandidates struct {
	list     *ListCandidates
	uploader Uploader
	audit    *audit.Dispatcher
}

// NewExportCandidates accepts a nil uploader; Execute then fails with
// export_disabled.
func NewExportCandidates(
	list *ListCandidates,
	uploader Uploader,
	audit *audit.Dispatcher,
) *ExportCandidates {
	return &ExportCandidates{
		list:     list,
		uploader: uploader,
		audit:    audit,
	}
}

// Execute uploads today's recall list as CSV and returns the object key.
func (uc *ExportCandidates) Execute(
	ctx context.Context,
	userID uint,
) (string, error) {

	if uc.uploader == nil {
		return "", httperr.ErrBusiness("export_disabled")
	}

	candidates, err := uc.list.Execute(ctx, SortByLastVisit)
	if err != nil {
		return "", err
	}

	body, err := EncodeCSV(candidates)
	if err != nil {
		return "", err
	}

	today := timezone.Day(uc.list.clock(), timezone.Location(uc.list.timezone))
	key := fmt.Sprintf("recalls/%s.csv", today.Format("2006-01-02"))

	if err := uc.uploader.Upload(ctx, key, body, "text/csv"); err != nil {
		return "", fmt.Errorf("upload recall export: %w", err)
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "recall_exported",
		Entity:   "recall_export",
		EntityID: key,
		Metadata: map[string]any{
			"candidates": len(candidates),
		},
	})

	return key, nil
}

func EncodeCSV(cs []domain.Candidate) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"patient_id", "name", "phone", "last_visit"}); err != nil {
		return nil, err
	}

	for _, c := range cs {
		phone := ""
		if c.Phone != nil {
			phone = *c.Phone
		}
		if err := w.Write([]string{
			c.PatientID,
			c.Name,
			phone,
			c.LastVisit.Format("2006-01-02"),
		}); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}
