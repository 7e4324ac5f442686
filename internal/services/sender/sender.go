// Package services contains the mail notification logic of the portal.
// One email is sent per successful registration, carrying the generated
// credentials; the send is a single best-effort attempt with no retry.
package services

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aceresearch/registration-portal/internal/lib/sl"
	"github.com/aceresearch/registration-portal/internal/lib/smtp"
	"github.com/aceresearch/registration-portal/internal/models"
)

// SenderService sends portal emails through an SMTP transport.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService creates a new SenderService.
func NewSenderService(log *slog.Logger, transport smtp.TransportInterface) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendRegistrationCredentials emails the generated username and one-time
// password to a freshly registered participant.
func (s *SenderService) SendRegistrationCredentials(notice models.CredentialsNotice) error {
	to := []string{notice.Email}
	subject := "Registration Successful"
	bodyText := fmt.Sprintf(`Dear %s,

Congratulations! You have successfully registered for %s at %s.

Your login credentials:

    Email:    %s
    Username: %s
    Password: %s

We look forward to your participation. If you have any questions or
concerns, feel free to contact us at %s.

Best Regards,
%s`,
		notice.Name, notice.EventName, notice.OrganizationName,
		notice.Email, notice.Username, notice.Password,
		notice.SupportEmail, notice.OrganizationName)

	return s.sendEmail(to, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", s.transport.GetSMTPUser()), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent", slog.Any("to", to))
	return nil
}
