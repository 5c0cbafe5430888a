package services

import (
	"errors"
	"testing"

	"intake-connector/internal/domain/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "gopkg.in/gomail.v2"
)

type fakeMailSender struct {
	err      error
	messages []*gomail.Message
}

func (f *fakeMailSender) DialAndSend(messages ...*gomail.Message) error {
	f.messages = append(f.messages, messages...)
	return f.err
}

func TestSendIntakeReport(t *testing.T) {
	sender := &fakeMailSender{}
	svc := &MailerService{Logger: testLogger(), Sender: sender, From: "reports@clinic.example"}

	result := svc.SendIntakeReport(dto.IntakeReportEmail{
		RecipientEmail: "doc@example.com",
		PatientName:    "Jane",
		ReportDate:     "August 29, 2026",
		Summary:        "Patient reports a headache.",
		PDF:            []byte("%PDF-1.4 fake"),
	})

	assert.True(t, result.Success)
	require.Len(t, sender.messages, 1)
	assert.Equal(t, []string{"doc@example.com"}, sender.messages[0].GetHeader("To"))
	assert.Equal(t, []string{"Intake Report: Jane - August 29, 2026"}, sender.messages[0].GetHeader("Subject"))
}

func TestSendIntakeReportInvalidRecipient(t *testing.T) {
	tests := []string{"", "   ", "not-an-email", "missing@tld", "two words@example.com"}

	for _, recipient := range tests {
		sender := &fakeMailSender{}
		svc := &MailerService{Logger: testLogger(), Sender: sender, From: "reports@clinic.example"}

		result := svc.SendIntakeReport(dto.IntakeReportEmail{RecipientEmail: recipient})

		assert.False(t, result.Success, "recipient %q", recipient)
		assert.Equal(t, "invalid recipient address", result.Error)
		assert.Empty(t, sender.messages, "no dial for recipient %q", recipient)
	}
}

func TestSendIntakeReportDialFailure(t *testing.T) {
	sender := &fakeMailSender{err: errors.New("smtp timeout")}
	svc := &MailerService{Logger: testLogger(), Sender: sender, From: "reports@clinic.example"}

	result := svc.SendIntakeReport(dto.IntakeReportEmail{
		RecipientEmail: "doc@example.com",
		PatientName:    "Jane",
		ReportDate:     "August 29, 2026",
	})

	assert.False(t, result.Success)
	assert.Equal(t, "smtp timeout", result.Error)
	assert.Len(t, sender.messages, 1, "exactly one attempt per call")
}
