package notifier

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"

	"tour-booking/internal/data/entity"
	"tour-booking/pkg/utils"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// ErrEmailDisabled is returned when no Resend key or sender is configured.
var ErrEmailDisabled = errors.New("email delivery is not configured")

// Mailer is the part of the Resend client we use. *resend.Client's Emails satisfies it.
type Mailer interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type EmailNotifier struct {
	mailer   Mailer
	from     string
	operator string
	brand    string
	log      *zap.Logger
}

// NewEmailNotifier builds a Resend backed notifier. Without an API key every
// send returns ErrEmailDisabled.
func NewEmailNotifier(config utils.EmailConfig, brand string, log *zap.Logger) *EmailNotifier {
	var mailer Mailer
	if config.ResendAPIKey != "" {
		mailer = resend.NewClient(config.ResendAPIKey).Emails
	} else {
		log.Warn("RESEND_API_KEY is empty, emails disabled")
	}
	return NewEmailNotifierWithMailer(mailer, config, brand, log)
}

func NewEmailNotifierWithMailer(mailer Mailer, config utils.EmailConfig, brand string, log *zap.Logger) *EmailNotifier {
	return &EmailNotifier{
		mailer:   mailer,
		from:     config.From,
		operator: config.OperatorEmail,
		brand:    brand,
		log:      log.With(zap.String("notifier", "email")),
	}
}

type emailData struct {
	Booking *entity.Booking
	Tour    *entity.Tour
	Date    string
	Price   string
	Brand   string
}

func (n *EmailNotifier) SendConfirmation(ctx context.Context, booking *entity.Booking, tour *entity.Tour) error {
	return n.send(ctx, "confirmation.html", booking.ClientEmail,
		fmt.Sprintf("Booking Confirmation - %s", tour.Title), booking, tour)
}

func (n *EmailNotifier) SendOperatorAlert(ctx context.Context, booking *entity.Booking, tour *entity.Tour) error {
	if n.operator == "" {
		return fmt.Errorf("operator email: %w", ErrEmailDisabled)
	}
	return n.send(ctx, "operator.html", n.operator,
		fmt.Sprintf("New Booking - %s on %s", tour.Title, displayDate(booking)), booking, tour)
}

func (n *EmailNotifier) SendReminder(ctx context.Context, booking *entity.Booking, tour *entity.Tour) error {
	return n.send(ctx, "reminder.html", booking.ClientEmail,
		fmt.Sprintf("Reminder - Your tour is tomorrow: %s", tour.Title), booking, tour)
}

func (n *EmailNotifier) send(ctx context.Context, name, to, subject string, booking *entity.Booking, tour *entity.Tour) error {
	if n.mailer == nil || n.from == "" {
		return ErrEmailDisabled
	}

	html, err := renderEmail(name, emailData{
		Booking: booking,
		Tour:    tour,
		Date:    displayDate(booking),
		Price:   displayPrice(booking.Price),
		Brand:   n.brand,
	})
	if err != nil {
		return err
	}

	sent, err := n.mailer.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("send %s to %s: %w", name, to, err)
	}

	n.log.Info("Email sent",
		zap.String("template", name),
		zap.String("booking_id", booking.ID.String()),
		zap.String("email_id", sent.Id),
	)
	return nil
}

func renderEmail(name string, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// displayDate renders e.g. "Tuesday, June 10, 2025".
func displayDate(booking *entity.Booking) string {
	return booking.ClientSelectedDate.Format("Monday, January 2, 2006")
}

var pricePrinter = message.NewPrinter(language.English)

func displayPrice(price float64) string {
	return pricePrinter.Sprintf("€%.2f", price)
}
