package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"tour-booking/internal/data/entity"
	"tour-booking/internal/data/repository"
	"tour-booking/internal/dto/response"
	"tour-booking/internal/usecase/mocks"
	"tour-booking/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// failingTours fails lookups for the ids in broken and delegates the rest.
type failingTours struct {
	repository.TourRepository
	broken map[string]bool
}

func (f failingTours) FindByID(ctx context.Context, id string) (*entity.Tour, error) {
	if f.broken[id] {
		return nil, errors.New("cms unreachable")
	}
	return f.TourRepository.FindByID(ctx, id)
}

func seedBooking(t *testing.T, repo *repository.Repository, tourID string, date time.Time) *entity.Booking {
	t.Helper()
	b, err := repo.Booking.Create(context.Background(), &entity.Booking{
		ClientName:         "Ivo Ivić",
		ClientEmail:        "ivo@example.com",
		TourID:             tourID,
		ClientSelectedDate: date,
		Price:              100,
	})
	require.NoError(t, err)
	return b
}

func newReminderFixture(t *testing.T, config utils.ReminderConfig) (*repository.Repository, *mocks.MockNotifier, ReminderService) {
	t.Helper()
	repo := repository.NewMemoryRepository(tickingClock())
	require.NoError(t, repo.Tour.Upsert(context.Background(), &entity.Tour{ID: "T1", Title: "Krka Waterfalls", Price: 120}))

	notifier := mocks.NewMockNotifier(t)
	svc := NewReminderService(repo, notifier, testClock(), config, newTestLogger(t))
	return repo, notifier, svc
}

var tomorrow = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

func TestReminderService_NoBookings(t *testing.T) {
	repo, _, svc := newReminderFixture(t, utils.ReminderConfig{Concurrency: 2})
	seedBooking(t, repo, "T1", tomorrow.AddDate(0, 0, 1))

	res, err := svc.SendTomorrowReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)
	assert.Equal(t, 0, res.Sent)
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, 0, res.Skipped)
}

func TestReminderService_TourLookupFails(t *testing.T) {
	repo, _, svc := newReminderFixture(t, utils.ReminderConfig{Concurrency: 2})
	repo.Tour = failingTours{TourRepository: repo.Tour, broken: map[string]bool{"T9": true}}
	// rebuild so the service sees the failing tour store
	svc = NewReminderService(repo, mocks.NewMockNotifier(t), testClock(), utils.ReminderConfig{Concurrency: 2}, newTestLogger(t))

	seedBooking(t, repo, "T9", tomorrow)

	res, err := svc.SendTomorrowReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, response.ReminderResult{Total: 1, Sent: 0, Failed: 0, Skipped: 1}, withoutItems(res))
}

func TestReminderService_MixedOutcomes(t *testing.T) {
	repo, notifier, svc := newReminderFixture(t, utils.ReminderConfig{Concurrency: 3})

	ok := seedBooking(t, repo, "T1", tomorrow)
	bad := seedBooking(t, repo, "T1", tomorrow)
	seedBooking(t, repo, "gone", tomorrow)
	seedBooking(t, repo, "T1", tomorrow.AddDate(0, 0, -1))
	deleted := seedBooking(t, repo, "T1", tomorrow)
	_, err := repo.Booking.SoftDelete(context.Background(), deleted.ID)
	require.NoError(t, err)

	notifier.EXPECT().
		SendReminder(mock.Anything, mock.MatchedBy(func(b *entity.Booking) bool { return b.ID == ok.ID }), mock.Anything).
		Return(nil).Once()
	notifier.EXPECT().
		SendReminder(mock.Anything, mock.MatchedBy(func(b *entity.Booking) bool { return b.ID == bad.ID }), mock.Anything).
		Return(errors.New("resend: 429")).Once()

	res, err := svc.SendTomorrowReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, response.ReminderResult{Total: 3, Sent: 1, Failed: 1, Skipped: 1}, withoutItems(res))

	require.Len(t, res.Items, 3)
	for _, item := range res.Items {
		if item.BookingID != bad.ID.String() {
			continue
		}
		assert.Equal(t, response.ReminderFailed, item.Outcome)
		var nerr *NotificationError
		require.ErrorAs(t, item.Err, &nerr)
		assert.Equal(t, "reminder", nerr.Kind)
	}
}

func TestReminderService_SkipsCancelledBookings(t *testing.T) {
	repo, notifier, svc := newReminderFixture(t, utils.ReminderConfig{Concurrency: 2})

	active := seedBooking(t, repo, "T1", tomorrow)
	cancelled := seedBooking(t, repo, "T1", tomorrow)
	status := entity.BookingStatusCancelled
	_, err := repo.Booking.Patch(context.Background(), cancelled.ID, entity.BookingPatch{Status: &status})
	require.NoError(t, err)

	notifier.EXPECT().
		SendReminder(mock.Anything, mock.MatchedBy(func(b *entity.Booking) bool { return b.ID == active.ID }), mock.Anything).
		Return(nil).Once()

	res, err := svc.SendTomorrowReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, response.ReminderResult{Total: 2, Sent: 1, Failed: 0, Skipped: 1}, withoutItems(res))

	for _, item := range res.Items {
		if item.BookingID == cancelled.ID.String() {
			assert.Equal(t, response.ReminderSkippedCancelled, item.Outcome)
		}
	}
}

func TestReminderService_CancelledContextFailsSends(t *testing.T) {
	repo, _, svc := newReminderFixture(t, utils.ReminderConfig{Concurrency: 1, RatePerSec: 0.001})
	seedBooking(t, repo, "T1", tomorrow)
	seedBooking(t, repo, "T1", tomorrow)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := svc.SendTomorrowReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 2, res.Failed)
}

func withoutItems(res *response.ReminderResult) response.ReminderResult {
	out := *res
	out.Items = nil
	return out
}
