package services

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"intake-connector/internal/domain/dto"
	"intake-connector/internal/infra/logger"

	gomail "gopkg.in/gomail.v2"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// mailSender is the slice of *gomail.Dialer the mailer needs.
type mailSender interface {
	DialAndSend(messages ...*gomail.Message) error
}

// MailerService delivers rendered intake reports over SMTP. One attempt per
// call; the orchestrator decides whether a failed send is retried later.
type MailerService struct {
	Logger *logger.Logger
	Sender mailSender
	From   string
}

func NewMailerService(logger *logger.Logger, host string, port int, username string, password string, from string) *MailerService {
	return &MailerService{
		Logger: logger,
		Sender: gomail.NewDialer(host, port, username, password),
		From:   from,
	}
}

func (s *MailerService) SendIntakeReport(email dto.IntakeReportEmail) dto.MailResult {
	recipient := strings.TrimSpace(email.RecipientEmail)
	if recipient == "" || !emailPattern.MatchString(recipient) {
		s.Logger.Error(fmt.Sprintf("Refusing to send report: invalid recipient address %q", email.RecipientEmail))
		return dto.MailResult{Success: false, Error: "invalid recipient address"}
	}

	projectName := email.ProjectName
	if projectName == "" {
		projectName = "AI Intake"
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", fmt.Sprintf("Intake Report: %s - %s", email.PatientName, email.ReportDate))
	m.SetBody("text/plain", fmt.Sprintf(
		"A new pre-visit intake report is attached.\n\nPatient: %s\nDate: %s\nProject: %s\n\nSummary:\n%s\n\nThe attached PDF requires clinician review before any medical decision.\n",
		email.PatientName, email.ReportDate, projectName, email.Summary,
	))

	filename := fmt.Sprintf("intake-report-%s.pdf", email.ReportDate)
	m.Attach(filename, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(email.PDF)
		return err
	}))

	if err := s.Sender.DialAndSend(m); err != nil {
		s.Logger.Error(fmt.Sprintf("Failed to send intake report to %s: %v", recipient, err))
		return dto.MailResult{Success: false, Error: err.Error()}
	}

	s.Logger.Info(fmt.Sprintf("Intake report sent to %s (%d bytes attached)", recipient, len(email.PDF)))
	return dto.MailResult{Success: true}
}
