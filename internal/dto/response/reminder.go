package response

type ReminderOutcome string

const (
	ReminderSent             ReminderOutcome = "sent"
	ReminderFailed           ReminderOutcome = "failed"
	ReminderSkippedNoTour    ReminderOutcome = "skipped_no_tour"
	ReminderSkippedCancelled ReminderOutcome = "skipped_cancelled"
)

// ReminderResult summarises one reminder batch. Items are kept for logging only.
type ReminderResult struct {
	Total   int            `json:"total"`
	Sent    int            `json:"sent"`
	Failed  int            `json:"failed"`
	Skipped int            `json:"skipped"`
	Items   []ReminderItem `json:"-"`
}

type ReminderItem struct {
	BookingID string
	Outcome   ReminderOutcome
	Err       error
}
