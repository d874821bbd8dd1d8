package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

// SendBookingConfirmationEmail sends a plain-text booking confirmation. When
// SMTP env is not configured it logs a mock line instead of failing, so local
// and test runs never need a mail server.
func SendBookingConfirmationEmail(recipientEmail, name, roomType string, arrivalYear, arrivalMonth, arrivalDate, nights int, bookingID uint) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USERNAME")
	smtpPass := os.Getenv("SMTP_PASSWORD")
	fromName := os.Getenv("SMTP_FROM_NAME")

	if smtpUser == "" || smtpPass == "" || smtpHost == "" || smtpPort == "" {
		log.Printf("[MOCK EMAIL] booking confirmation to:%s booking:%d room:%s", recipientEmail, bookingID, roomType)
		return nil
	}

	safe := func(s string) string {
		return strings.ReplaceAll(strings.TrimSpace(s), "\r\n", " ")
	}
	name = safe(name)
	roomType = safe(roomType)
	if name == "" {
		name = "Guest"
	}

	from := fmt.Sprintf("%s <%s>", fromName, smtpUser)
	to := []string{recipientEmail}
	auth := smtp.PlainAuth("", smtpUser, smtpPass, smtpHost)
	addr := fmt.Sprintf("%s:%s", smtpHost, smtpPort)

	subject := fmt.Sprintf("Booking #%d confirmed", bookingID)
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\n"+
			"Your booking #%d is confirmed.\r\n"+
			"Room: %s\r\n"+
			"Arrival: %04d-%02d-%02d\r\n"+
			"Nights: %d\r\n\r\n"+
			"We look forward to welcoming you.\r\n",
		name, bookingID, roomType, arrivalYear, arrivalMonth, arrivalDate, nights,
	)

	msg := []byte(
		"From: " + from + "\r\n" +
			"To: " + recipientEmail + "\r\n" +
			"Subject: " + subject + "\r\n" +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/plain; charset=\"UTF-8\"\r\n" +
			"\r\n" + body,
	)

	if err := smtp.SendMail(addr, auth, smtpUser, to, msg); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}
