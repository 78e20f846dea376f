package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/omriShneor/tailortalk/internal/assistant"
)

// ResendNotifier emails booking confirmations to attendees via the Resend API.
// The calendar write never carries structured invitees, so this is how
// attendees hear about a booking.
type ResendNotifier struct {
	client      *resend.Client
	fromAddress string
}

// NewResendNotifier creates a new Resend email notifier
func NewResendNotifier(apiKey, from string) *ResendNotifier {
	if apiKey == "" {
		return nil
	}
	return &ResendNotifier{
		client:      resend.NewClient(apiKey),
		fromAddress: from,
	}
}

// IsConfigured returns true if the notifier has server-side config
func (r *ResendNotifier) IsConfigured() bool {
	return r.client != nil && r.fromAddress != ""
}

// Name returns the notifier name
func (r *ResendNotifier) Name() string {
	return "resend"
}

// SendBookingConfirmation emails every attendee on the booking.
func (r *ResendNotifier) SendBookingConfirmation(_ context.Context, booking assistant.Booking) error {
	if len(booking.Attendees) == 0 {
		return fmt.Errorf("no attendees to notify")
	}

	subject := fmt.Sprintf("Meeting Confirmed: %s", booking.Summary)
	html := formatConfirmationHTML(booking)

	params := &resend.SendEmailRequest{
		From:    r.fromAddress,
		To:      booking.Attendees,
		Subject: subject,
		Html:    html,
	}

	_, err := r.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}

	fmt.Printf("Confirmation email sent to %s for meeting: %s\n",
		strings.Join(booking.Attendees, ", "), booking.Summary)
	return nil
}

// formatConfirmationHTML creates the HTML email body
func formatConfirmationHTML(booking assistant.Booking) string {
	startStr := booking.Start.Format("Monday, January 2, 2006 at 3:04 PM")
	endStr := booking.End.Format("3:04 PM")
	if booking.Start.Format("2006-01-02") != booking.End.Format("2006-01-02") {
		endStr = booking.End.Format("Monday, January 2, 2006 at 3:04 PM")
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, Helvetica, Arial, sans-serif; color: #222;">
	<div style="max-width: 560px; margin: 0 auto; padding: 24px;">
		<h2 style="margin-bottom: 4px;">%s</h2>
		<p style="margin: 8px 0;"><strong>When:</strong> %s - %s</p>
		<p style="margin: 16px 0; color: #666;">This meeting was booked via the TailorTalk assistant. Add it to your own calendar if you plan to attend.</p>
	</div>
</body>
</html>`, booking.Summary, startStr, endStr)
}
