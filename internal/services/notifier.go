package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/well-broomed/cleaning-api/internal/models"
)

// Notifier dispatches cleaner-facing notifications. Implementations must not
// block the caller on delivery and must never surface delivery failures as
// errors; a failed notification is logged and dropped.
type Notifier interface {
	GuestAssigned(cleaner models.User, guestName, propertyName string, checkin time.Time)
	GuestUnassigned(cleaner models.User, guestName, propertyName string)
	InviteCreated(email, code string)
}

// MailgunNotifier delivers notifications through Mailgun.
type MailgunNotifier struct {
	mg         *mailgun.MailgunImpl
	sender     string
	appBaseURL string
}

// NewMailgunNotifier creates a Notifier backed by Mailgun.
func NewMailgunNotifier(domain, apiKey, sender, appBaseURL string) *MailgunNotifier {
	return &MailgunNotifier{
		mg:         mailgun.NewMailgun(domain, apiKey),
		sender:     sender,
		appBaseURL: appBaseURL,
	}
}

// GuestAssigned notifies a cleaner of a new guest assignment.
func (n *MailgunNotifier) GuestAssigned(cleaner models.User, guestName, propertyName string, checkin time.Time) {
	html := fmt.Sprintf(
		"Hello %s, you have just been assigned as the cleaner for the stay of %s at %s. They will be arriving at %s.",
		cleaner.UserName, guestName, propertyName, checkin.Format(time.RFC1123),
	)
	n.send(cleaner.Email, "New Guest Assignment", html)
}

// GuestUnassigned notifies a cleaner they were removed from a stay.
func (n *MailgunNotifier) GuestUnassigned(cleaner models.User, guestName, propertyName string) {
	html := fmt.Sprintf(
		"Hello %s, you have been removed as the cleaner for the stay of %s at %s.",
		cleaner.UserName, guestName, propertyName,
	)
	n.send(cleaner.Email, "Guest Unassigned", html)
}

// InviteCreated mails an invite link to a prospective cleaner.
func (n *MailgunNotifier) InviteCreated(email, code string) {
	html := fmt.Sprintf(
		"You have been invited to join Well-Broomed as a cleaner. Follow %s/invite/%s to accept.",
		n.appBaseURL, code,
	)
	n.send(email, "Well-Broomed Invitation", html)
}

// send dispatches on a goroutine; the primary write never waits on Mailgun.
func (n *MailgunNotifier) send(to, subject, html string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		message := n.mg.NewMessage(n.sender, subject, "", to)
		message.SetHtml(html)

		if _, _, err := n.mg.Send(ctx, message); err != nil {
			log.Printf("mailgun: failed to send %q to %s: %v", subject, to, err)
		}
	}()
}

// LogNotifier writes notifications to the process log. Used when Mailgun is
// not configured (local development).
type LogNotifier struct{}

func (LogNotifier) GuestAssigned(cleaner models.User, guestName, propertyName string, checkin time.Time) {
	log.Printf("notify %s: assigned to %s at %s (checkin %s)", cleaner.Email, guestName, propertyName, checkin.Format(time.RFC3339))
}

func (LogNotifier) GuestUnassigned(cleaner models.User, guestName, propertyName string) {
	log.Printf("notify %s: unassigned from %s at %s", cleaner.Email, guestName, propertyName)
}

func (LogNotifier) InviteCreated(email, code string) {
	log.Printf("notify %s: invited with code %s", email, code)
}
