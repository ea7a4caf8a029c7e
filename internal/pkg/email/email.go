package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/Cachi0001/Simplified-HRM-sub007/internal/config"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

// Service defines the outbound email delivery channel used by attendance
// jobs. All sends are best-effort from the caller's point of view.
type Service interface {
	SendCheckoutReminder(ctx context.Context, to, employeeName, checkInTime string) error
	SendAbsenceNotice(ctx context.Context, to, employeeName, date string) error
}

type serviceImpl struct {
	cfg       config.SMTPConfig
	dialer    *gomail.Dialer
	templates *template.Template
}

// NewService creates a new email service instance
func NewService(cfg config.SMTPConfig) (Service, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &serviceImpl{
		cfg:       cfg,
		dialer:    gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		templates: tmpl,
	}, nil
}

type checkoutReminderData struct {
	EmployeeName string
	CheckInTime  string
}

// SendCheckoutReminder sends the end-of-day reminder to an employee who is
// still checked in.
func (s *serviceImpl) SendCheckoutReminder(ctx context.Context, to, employeeName, checkInTime string) error {
	data := checkoutReminderData{
		EmployeeName: employeeName,
		CheckInTime:  checkInTime,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "checkout_reminder.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(ctx, to, "Reminder: you have not checked out", body.String())
}

type absenceNoticeData struct {
	EmployeeName string
	Date         string
}

// SendAbsenceNotice informs an employee they were marked absent for a date.
func (s *serviceImpl) SendAbsenceNotice(ctx context.Context, to, employeeName, date string) error {
	data := absenceNoticeData{
		EmployeeName: employeeName,
		Date:         date,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "absence_notice.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(ctx, to, fmt.Sprintf("Marked absent for %s", date), body.String())
}

func (s *serviceImpl) sendHTML(ctx context.Context, to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.From, s.cfg.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	// gomail has no context support; run the send in a goroutine so one
	// slow recipient cannot stall a batch past its deadline.
	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email to %s: %w", to, err)
		}
		slog.Info("Email sent", "to", to, "subject", subject)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("email send to %s aborted: %w", to, ctx.Err())
	}
}
