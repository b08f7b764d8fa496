package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/clinic-recall/internal/httperr"
	"github.com/BruksfildServices01/clinic-recall/internal/middleware"
	"github.com/BruksfildServices01/clinic-recall/internal/models"
	"github.com/BruksfildServices01/clinic-recall/internal/realtime"
	"github.com/BruksfildServices01/clinic-recall/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/clinic-recall/internal/usecase/appointment"
	ucNotification "github.com/BruksfildServices01/clinic-recall/internal/usecase/notification"
	ucRecall "github.com/BruksfildServices01/clinic-recall/internal/usecase/recall"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ======================================================
// FAKES
// ======================================================

type fakeStore struct {
	patients      []models.Patient
	appointments  []models.Appointment
	dismissals    []models.DismissalRecord
	notifications []models.Notification

	failReads bool
}

var errDown = errors.New("database unavailable")

func (s *fakeStore) ListPatients(context.Context) ([]models.Patient, error) {
	if s.failReads {
		return nil, errDown
	}
	return s.patients, nil
}

func (s *fakeStore) ListAppointments(context.Context) ([]models.Appointment, error) {
	if s.failReads {
		return nil, errDown
	}
	return s.appointments, nil
}

func (s *fakeStore) ListDismissals(context.Context) ([]models.DismissalRecord, error) {
	return s.dismissals, nil
}

func (s *fakeStore) GetPatient(_ context.Context, id string) (*models.Patient, error) {
	for i := range s.patients {
		if s.patients[i].ID == id {
			return &s.patients[i], nil
		}
	}
	return nil, httperr.ErrBusiness("patient_not_found")
}

func (s *fakeStore) CreateDismissal(_ context.Context, d *models.DismissalRecord) error {
	d.CreatedAt = time.Now()
	s.dismissals = append(s.dismissals, *d)
	return nil
}

func (s *fakeStore) UpdatePatientLastVisit(context.Context, string, time.Time) error {
	return nil
}

func (s *fakeStore) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	ap.ID = uint(len(s.appointments) + 1)
	s.appointments = append(s.appointments, *ap)
	return nil
}

func (s *fakeStore) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	for i := range s.appointments {
		if s.appointments[i].ID == id {
			cp := s.appointments[i]
			return &cp, nil
		}
	}
	return nil, httperr.ErrBusiness("appointment_not_found")
}

func (s *fakeStore) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	for i := range s.appointments {
		if s.appointments[i].ID == ap.ID {
			s.appointments[i] = *ap
		}
	}
	return nil
}

func (s *fakeStore) ListAppointmentsForPeriod(context.Context, *uint, time.Time, time.Time) ([]models.Appointment, error) {
	return s.appointments, nil
}

func (s *fakeStore) CreateNotification(_ context.Context, n *models.Notification) error {
	n.ID = uuid.New()
	s.notifications = append(s.notifications, *n)
	return nil
}

func (s *fakeStore) ListUnread(_ context.Context, dentistID uint) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range s.notifications {
		if n.DentistID == dentistID && !n.Read {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *fakeStore) MarkRead(_ context.Context, dentistID uint, ids []uuid.UUID) (int64, error) {
	var changed int64
	for i := range s.notifications {
		for _, id := range ids {
			n := &s.notifications[i]
			if n.ID == id && n.DentistID == dentistID && !n.Read {
				n.Read = true
				changed++
			}
		}
	}
	return changed, nil
}

type memGuard map[string]bool

func (g memGuard) Acquire(_ context.Context, key string, _ time.Duration) (bool, error) {
	if g[key] {
		return false, nil
	}
	g[key] = true
	return true, nil
}

func (g memGuard) Release(_ context.Context, key string) error {
	delete(g, key)
	return nil
}

// ======================================================
// ROUTER
// ======================================================

const tz = "America/Sao_Paulo"

func asUser(id uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, id)
		c.Set(middleware.ContextUserRole, role)
		c.Next()
	}
}

func newRouter(store *fakeStore, id uint, role string) *gin.Engine {
	r := gin.New()
	r.Use(asUser(id, role))

	list := ucRecall.NewListCandidates(store, tz, 6)
	recall := NewRecallHandler(
		list,
		ucRecall.NewDismissCandidate(store, nil),
		ucRecall.NewExportCandidates(list, nil, nil),
	)
	r.GET("/recalls", recall.List)
	r.POST("/recalls/:patientId/dismiss", recall.Dismiss)
	r.POST("/recalls/export", recall.Export)

	notes := NewNotificationHandler(
		ucNotification.NewListUnread(store),
		ucNotification.NewMarkRead(store, nil),
		realtime.NewHub(zerolog.Nop()),
	)
	r.GET("/notifications/unread", notes.Unread)
	r.POST("/notifications/read", notes.MarkRead)

	apps := NewAppointmentHandler(
		ucAppointment.NewCreateAppointment(store, nil, tz),
		ucAppointment.NewConfirmAppointment(store, nil, tz),
		ucAppointment.NewCompleteAppointment(store, nil, tz),
		ucAppointment.NewCancelAppointment(store, nil, tz),
		ucAppointment.NewListAppointmentsByDate(store),
		ucNotification.NewCheckIn(store, store, memGuard{}, nil, tz, time.Hour),
		tz,
	)
	r.POST("/appointments", apps.Create)
	r.GET("/appointments", apps.ListByDate)
	r.PATCH("/appointments/:id/confirm", apps.Confirm)
	r.PATCH("/appointments/:id/complete", apps.Complete)
	r.POST("/appointments/:id/check-in", apps.CheckIn)

	return r
}

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var e httperr.HTTPError
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("bad error body %q: %v", w.Body.String(), err)
	}
	return e.Code
}

func strPtr(s string) *string { return &s }

func day(t time.Time) datatypes.Date {
	return datatypes.Date(t)
}

// ======================================================
// RECALL
// ======================================================

func overdueStore() *fakeStore {
	longAgo := timezone.TodayIn(tz).AddDate(-1, 0, 0)
	return &fakeStore{
		patients: []models.Patient{{ID: "52998224725", Name: "Ana"}},
		appointments: []models.Appointment{
			{ID: 1, PatientID: strPtr("52998224725"), Date: day(longAgo), Status: "completed"},
		},
	}
}

func TestRecallList(t *testing.T) {
	w := do(newRouter(overdueStore(), 1, models.RoleAdmin), http.MethodGet, "/recalls", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Data  []map[string]any `json:"data"`
		Total int              `json:"total"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Total != 1 || body.Data[0]["patient_id"] != "52998224725" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestRecallListFetchFailureIs503(t *testing.T) {
	store := overdueStore()
	store.failReads = true

	w := do(newRouter(store, 1, models.RoleAdmin), http.MethodGet, "/recalls", nil)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	if code := errorCode(t, w); code != "recall_fetch_failed" {
		t.Fatalf("unexpected code %s", code)
	}
}

func TestRecallDismissHidesCandidate(t *testing.T) {
	store := overdueStore()
	r := newRouter(store, 1, models.RoleAdmin)

	if w := do(r, http.MethodPost, "/recalls/52998224725/dismiss", nil); w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w := do(r, http.MethodGet, "/recalls", nil)
	if !bytes.Contains(w.Body.Bytes(), []byte(`"total":0`)) {
		t.Fatalf("dismissed patient still listed: %s", w.Body.String())
	}

	if w := do(r, http.MethodPost, "/recalls/00000000000/dismiss", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown patient, got %d", w.Code)
	}
}

func TestRecallExportDisabled(t *testing.T) {
	w := do(newRouter(overdueStore(), 1, models.RoleAdmin), http.MethodPost, "/recalls/export", nil)

	if w.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501, got %d", w.Code)
	}
}

// ======================================================
// NOTIFICATIONS
// ======================================================

func TestNotificationsUnreadAndMarkRead(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	store := &fakeStore{notifications: []models.Notification{
		{ID: a, DentistID: 7, Message: "Paciente Ana chegou"},
		{ID: b, DentistID: 8, Message: "Paciente Bia chegou"},
	}}
	r := newRouter(store, 7, models.RoleDentist)

	w := do(r, http.MethodGet, "/notifications/unread", nil)
	if !bytes.Contains(w.Body.Bytes(), []byte(a.String())) || bytes.Contains(w.Body.Bytes(), []byte(b.String())) {
		t.Fatalf("backlog must contain only the dentist's notifications: %s", w.Body.String())
	}

	w = do(r, http.MethodPost, "/notifications/read", gin.H{"ids": []uuid.UUID{a, b}})
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte(`"updated":1`)) {
		t.Fatalf("unexpected mark read response %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/notifications/unread", nil)
	if !bytes.Contains(w.Body.Bytes(), []byte(`"data":[]`)) {
		t.Fatalf("read notification must not come back: %s", w.Body.String())
	}

	if store.notifications[1].Read {
		t.Fatalf("another dentist's notification changed")
	}
}

func TestNotificationsMarkReadValidation(t *testing.T) {
	r := newRouter(&fakeStore{}, 7, models.RoleDentist)

	if w := do(r, http.MethodPost, "/notifications/read", gin.H{"ids": []string{"nope"}}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed ids, got %d", w.Code)
	}
	w := do(r, http.MethodPost, "/notifications/read", gin.H{"ids": []uuid.UUID{}})
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "missing_ids" {
		t.Fatalf("expected missing_ids, got %d %s", w.Code, w.Body.String())
	}
}

// ======================================================
// APPOINTMENTS
// ======================================================

func TestAppointmentLifecycleAndCheckIn(t *testing.T) {
	store := &fakeStore{patients: []models.Patient{{ID: "52998224725", Name: "Ana"}}}
	admin := newRouter(store, 1, models.RoleAdmin)

	today := timezone.TodayIn(tz).Format("2006-01-02")

	w := do(admin, http.MethodPost, "/appointments", gin.H{
		"patient_id": "52998224725",
		"dentist_id": 7,
		"date":       today,
		"time":       "09:00",
		"procedure":  "Limpeza",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	store.appointments[0].Patient = &store.patients[0]

	if w := do(admin, http.MethodPatch, "/appointments/1/confirm", nil); w.Code != http.StatusOK {
		t.Fatalf("confirm: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w := do(admin, http.MethodPatch, "/appointments/1/confirm", nil); w.Code != http.StatusConflict {
		t.Fatalf("second confirm: expected 409, got %d", w.Code)
	}

	if w := do(admin, http.MethodPost, "/appointments/1/check-in", nil); w.Code != http.StatusCreated {
		t.Fatalf("check-in: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	w = do(admin, http.MethodPost, "/appointments/1/check-in", nil)
	if w.Code != http.StatusConflict || errorCode(t, w) != "already_checked_in" {
		t.Fatalf("repeated check-in: expected already_checked_in, got %d %s", w.Code, w.Body.String())
	}
	if len(store.notifications) != 1 || store.notifications[0].DentistID != 7 {
		t.Fatalf("expected one notification for dentist 7, got %+v", store.notifications)
	}

	if w := do(admin, http.MethodPatch, "/appointments/abc/complete", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", w.Code)
	}
	if w := do(admin, http.MethodPatch, "/appointments/1/complete", nil); w.Code != http.StatusOK {
		t.Fatalf("complete: expected 200, got %d", w.Code)
	}
}

func TestAppointmentCreateValidation(t *testing.T) {
	r := newRouter(&fakeStore{}, 1, models.RoleAdmin)

	w := do(r, http.MethodPost, "/appointments", gin.H{"date": "2024-13-40", "time": "09:00", "procedure": "x"})
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "invalid_date_or_time" {
		t.Fatalf("expected invalid_date_or_time, got %d %s", w.Code, w.Body.String())
	}

	if w := do(r, http.MethodGet, "/appointments?date=yesterday", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

// ======================================================
// HEALTH
// ======================================================

func TestHealthCountsStreams(t *testing.T) {
	hub := realtime.NewHub(zerolog.Nop())
	hub.Register(&realtime.Client{ID: "a", Topic: "dentist:7", Send: make(chan []byte, 1)})
	hub.Register(&realtime.Client{ID: "b", Topic: "dentist:7", Send: make(chan []byte, 1)})
	hub.Register(&realtime.Client{ID: "c", Topic: "dentist:8", Send: make(chan []byte, 1)})

	r := gin.New()
	r.GET("/health", Health(hub))

	w := do(r, http.MethodGet, "/health", nil)

	var body struct {
		Status  string `json:"status"`
		Clients int    `json:"realtime_clients"`
		Topics  int    `json:"realtime_topics"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if w.Code != http.StatusOK || body.Status != "ok" || body.Clients != 3 || body.Topics != 2 {
		t.Fatalf("unexpected health %d %s", w.Code, w.Body.String())
	}
}
