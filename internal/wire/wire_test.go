package wire

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tour-booking/internal/data/entity"
	"tour-booking/internal/data/repository"
	"tour-booking/internal/usecase"
	"tour-booking/internal/usecase/mocks"
	"tour-booking/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const cronSecret = "cron-s3cret"

// envelope mirrors utils.Response with a raw data payload.
type envelope struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

type bookingJSON struct {
	ID                 string  `json:"id"`
	ClientSelectedDate string  `json:"clientSelectedDate"`
	TourID             string  `json:"tourId"`
	Price              float64 `json:"price"`
	Status             string  `json:"status"`
	PaymentStatus      string  `json:"paymentStatus"`
	PaymentMethod      *string `json:"paymentMethod"`
	DeletedAt          *string `json:"deletedAt"`
}

type testServer struct {
	t        *testing.T
	app      *App
	repo     *repository.Repository
	notifier *mocks.MockNotifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	now := time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC)
	repo := repository.NewMemoryRepository(nil)
	require.NoError(t, repo.Tour.Upsert(context.Background(), &entity.Tour{ID: "T1", Title: "Krka Waterfalls", Price: 120}))
	require.NoError(t, repo.Tour.Upsert(context.Background(), &entity.Tour{ID: "T2", Title: "Plitvice Lakes", Price: 150}))

	notifier := mocks.NewMockNotifier(t)
	notifier.EXPECT().SendConfirmation(mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	notifier.EXPECT().NotifyOperator(mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	config := &utils.Config{
		App:      utils.AppConfig{Name: "tour-booking", CORSOrigins: []string{"*"}},
		Reminder: utils.ReminderConfig{Secret: cronSecret, Concurrency: 2},
	}
	clock := usecase.Clock{Now: func() time.Time { return now }, Location: time.UTC}

	app := Wiring(repo, notifier, clock, config, zap.NewNop())
	t.Cleanup(app.Service.Booking.Wait)

	return &testServer{t: t, app: app, repo: repo, notifier: notifier}
}

func (s *testServer) do(method, path string, body any, header ...string) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if len(header) == 2 {
		req.Header.Set(header[0], header[1])
	}
	rec := httptest.NewRecorder()
	s.app.Router.ServeHTTP(rec, req)
	s.app.Service.Booking.Wait()

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func (s *testServer) create(tourID, date string) (*httptest.ResponseRecorder, bookingJSON) {
	s.t.Helper()
	rec, env := s.do(http.MethodPost, "/api/bookings", bookingForm(tourID, date))
	var b bookingJSON
	if rec.Code == http.StatusCreated {
		require.NoError(s.t, json.Unmarshal(env.Data, &b))
	}
	return rec, b
}

func (s *testServer) available(date string) bool {
	s.t.Helper()
	rec, env := s.do(http.MethodGet, "/api/bookings/availability?date="+date, nil)
	require.Equal(s.t, http.StatusOK, rec.Code)
	var out struct {
		Date      string `json:"date"`
		Available bool   `json:"available"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &out))
	require.Equal(s.t, date, out.Date)
	return out.Available
}

func bookingForm(tourID, date string) map[string]string {
	return map[string]string{
		"name":                  "Ana Horvat",
		"email":                 "ana@example.com",
		"phonePhoneCountryCode": "+385",
		"phoneNumber":           "91 234 5678",
		"country":               "Croatia",
		"language":              "en",
		"tourId":                tourID,
		"date":                  date,
		"message":               "Pick us up at the marina",
	}
}

func TestScenarioA_SubmitBooking(t *testing.T) {
	s := newTestServer(t)

	rec, b := s.create("T1", "2025-06-10")

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "pending", b.Status)
	assert.Equal(t, "pending", b.PaymentStatus)
	assert.Equal(t, 120.0, b.Price)
	assert.Equal(t, "2025-06-10", b.ClientSelectedDate)
	assert.Nil(t, b.PaymentMethod)
	assert.Nil(t, b.DeletedAt)
	s.notifier.AssertCalled(t, "SendConfirmation", mock.Anything, mock.Anything, mock.Anything)
	s.notifier.AssertCalled(t, "NotifyOperator", mock.Anything, mock.Anything, mock.Anything)
}

func TestScenarioB_SameDateConflictOnUpdate(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.create("T1", "2025-06-10")
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.False(t, s.available("2025-06-10"))

	// the create path accepts the second booking
	rec, second := s.create("T2", "2025-06-10")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, third := s.create("T2", "2025-06-12")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = s.do(http.MethodPatch, "/api/bookings/"+third.ID, map[string]any{"clientSelectedDate": "2025-06-10"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env := s.do(http.MethodGet, "/api/bookings/"+third.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got bookingJSON
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "2025-06-12", got.ClientSelectedDate)
	assert.NotEmpty(t, second.ID)
}

func TestScenarioC_CancelFreesDate(t *testing.T) {
	s := newTestServer(t)

	rec, b := s.create("T1", "2025-06-10")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.False(t, s.available("2025-06-10"))

	rec, env := s.do(http.MethodPatch, "/api/bookings/"+b.ID, map[string]any{"status": "cancelled"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got bookingJSON
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "cancelled", got.Status)

	assert.True(t, s.available("2025-06-10"))
}

type brokenTours struct {
	repository.TourRepository
}

func (brokenTours) FindByID(context.Context, string) (*entity.Tour, error) {
	return nil, errors.New("catalogue unavailable")
}

func TestScenarioD_ReminderSkipsWhenTourLookupFails(t *testing.T) {
	s := newTestServer(t)
	_, err := s.repo.Booking.Create(context.Background(), &entity.Booking{
		ClientName: "Ana Horvat", ClientEmail: "ana@example.com", TourID: "T1", Price: 120,
		ClientSelectedDate: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	s.repo.Tour = brokenTours{TourRepository: s.repo.Tour}
	// the reminder service captured the old store; rebuild with the broken one
	s.app = Wiring(s.repo, s.notifier, usecase.Clock{
		Now:      func() time.Time { return time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC) },
		Location: time.UTC,
	}, &utils.Config{Reminder: utils.ReminderConfig{Secret: cronSecret}}, zap.NewNop())

	rec, env := s.do(http.MethodGet, "/api/bookings/reminders", nil, "Authorization", "Bearer "+cronSecret)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"total":1,"sent":0,"failed":0,"skipped":1}`, string(env.Data))
}

func TestReminders_RequireSecret(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(http.MethodGet, "/api/bookings/reminders", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/bookings/reminders", nil, "Authorization", "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env := s.do(http.MethodGet, "/api/bookings/reminders", nil, "Authorization", "Bearer "+cronSecret)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total":0,"sent":0,"failed":0,"skipped":0}`, string(env.Data))
}

func TestCreateBooking_Errors(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(http.MethodPost, "/api/bookings", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", env.Message)

	form := bookingForm("T1", "2025-06-10")
	form["email"] = "nope"
	rec, env = s.do(http.MethodPost, "/api/bookings", form)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Errors, "email")

	rec, env = s.do(http.MethodPost, "/api/bookings", bookingForm("T1", "2025-06-01"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Errors, "date")

	rec, env = s.do(http.MethodPost, "/api/bookings", bookingForm("T404", "2025-06-10"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Tour not found", env.Message)
}

func TestUpdateBooking_Errors(t *testing.T) {
	s := newTestServer(t)
	_, b := s.create("T1", "2025-06-10")

	rec, _ := s.do(http.MethodPatch, "/api/bookings/"+b.ID, map[string]any{"clientName": "Someone Else"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown fields are rejected")

	rec, env := s.do(http.MethodPatch, "/api/bookings/"+b.ID, map[string]any{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Errors, "status")

	rec, _ = s.do(http.MethodPatch, "/api/bookings/"+b.ID, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(http.MethodPatch, "/api/bookings/00000000-0000-0000-0000-000000000000", map[string]any{"status": "confirmed"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// the body is judged before the id
	rec, env = s.do(http.MethodPatch, "/api/bookings/00000000-0000-0000-0000-000000000000", map[string]any{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Errors, "status")

	rec, env = s.do(http.MethodPatch, "/api/bookings/"+b.ID, map[string]any{"paymentMethod": "card", "paymentStatus": "paid"})
	require.Equal(t, http.StatusOK, rec.Code)
	var got bookingJSON
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.NotNil(t, got.PaymentMethod)
	assert.Equal(t, "card", *got.PaymentMethod)
	assert.Equal(t, "paid", got.PaymentStatus)

	rec, env = s.do(http.MethodPatch, "/api/bookings/"+b.ID, map[string]any{"paymentMethod": nil})
	require.Equal(t, http.StatusOK, rec.Code)
	got = bookingJSON{}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Nil(t, got.PaymentMethod)
}

func TestDeleteBooking(t *testing.T) {
	s := newTestServer(t)
	_, b := s.create("T1", "2025-06-10")

	rec, env := s.do(http.MethodDelete, "/api/bookings/"+b.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Booking deleted successfully", env.Message)

	rec, _ = s.do(http.MethodDelete, "/api/bookings/"+b.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/bookings/"+b.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/bookings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(env.Data))

	assert.True(t, s.available("2025-06-10"))
}

func TestListBookings_QueryFilters(t *testing.T) {
	s := newTestServer(t)
	_, first := s.create("T1", "2025-06-10")
	_, second := s.create("T2", "2025-06-11")
	rec, _ := s.do(http.MethodPatch, "/api/bookings/"+second.ID, map[string]any{"status": "confirmed"})
	require.Equal(t, http.StatusOK, rec.Code)

	var list []bookingJSON

	rec, env := s.do(http.MethodGet, "/api/bookings?status=confirmed", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)

	rec, env = s.do(http.MethodGet, "/api/bookings?start=2025-06-10&end=2025-06-11", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list = nil
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)

	rec, env = s.do(http.MethodGet, "/api/bookings?start=2025-06-10", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Errors, "dateRange")
}

func TestUnavailableDates(t *testing.T) {
	s := newTestServer(t)
	s.create("T1", "2025-06-12")
	s.create("T2", "2025-06-10")

	rec, env := s.do(http.MethodGet, "/api/bookings/unavailable-dates", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["2025-06-10","2025-06-12"]`, string(env.Data))

	rec, env = s.do(http.MethodGet, "/api/bookings/availability", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Errors, "date")
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Status)
}
