package notification

import (
	"fmt"
	"time"
)

const dateLayout = "January 02, 2006"

// BookingDetails carries everything the notification templates need about a
// booking and its parties.
type BookingDetails struct {
	BookingCode       string
	UserFirstName     string
	UserEmail         string
	OwnerFirstName    string
	FacilityName      string
	FacilityEmail     string
	CheckIn           time.Time
	CheckOut          time.Time
	NumberOfDogs      int
	TotalDays         int
}

func stayDetailsHTML(d BookingDetails) string {
	return fmt.Sprintf(
		"<p><b>Check-in:</b> %s</p><p><b>Check-out:</b> %s</p><p><b>Number of dogs:</b> %d</p><p><b>Facility:</b> %s</p>",
		d.CheckIn.Format(dateLayout), d.CheckOut.Format(dateLayout), d.NumberOfDogs, d.FacilityName)
}

const signature = "<p>Best regards,</p><p>The PawsitivelyBooked Team</p>"

// BookingCreated builds the notification pair for a newly created booking.
func BookingCreated(d BookingDetails) []Message {
	return []Message{
		{
			To:      d.UserEmail,
			Subject: "Booking Created Successfully!",
			HTMLBody: fmt.Sprintf(
				"<p>Hi %s,</p><p>You have successfully created a booking at %s.</p>%s<p>Please log in and check your dashboard in case any information is incorrect.</p>%s",
				d.UserFirstName, d.FacilityName, stayDetailsHTML(d), signature),
		},
		{
			To:      d.FacilityEmail,
			Subject: fmt.Sprintf("New Booking Request - Booking %s", d.BookingCode),
			HTMLBody: fmt.Sprintf(
				"<p>Hi %s,</p><p>You have received a new booking for %s with code %s.</p>%s<p>Please check your dashboard for more details.</p>%s",
				d.OwnerFirstName, d.FacilityName, d.BookingCode, stayDetailsHTML(d), signature),
		},
	}
}

// BookingAccepted builds the notification pair for an accepted booking.
func BookingAccepted(d BookingDetails) []Message {
	return []Message{
		{
			To:      d.UserEmail,
			Subject: "Your Booking is Now Confirmed - Thank you!",
			HTMLBody: fmt.Sprintf(
				"<p>Hi %s,</p><p>We are pleased to inform you that your booking at %s has been accepted.</p>%s<p>Thank you for using our services. We look forward to seeing you soon!</p>%s",
				d.UserFirstName, d.FacilityName, stayDetailsHTML(d), signature),
		},
		{
			To:      d.FacilityEmail,
			Subject: fmt.Sprintf("New Booking Confirmed - Booking %s", d.BookingCode),
			HTMLBody: fmt.Sprintf(
				"<p>Hi %s,</p><p>You have accepted a booking for %s with code %s.</p>%s<p>Please check your dashboard for more details.</p>%s",
				d.OwnerFirstName, d.FacilityName, d.BookingCode, stayDetailsHTML(d), signature),
		},
	}
}

// BookingDeclined builds the notification pair for a declined booking.
func BookingDeclined(d BookingDetails) []Message {
	return []Message{
		{
			To:      d.UserEmail,
			Subject: "Your Booking Has Been Declined",
			HTMLBody: fmt.Sprintf(
				"<p>Hi %s,</p><p>We regret to inform you that your booking at %s has been declined.</p>%s<p>We apologize for any inconvenience this may have caused. Please feel free to contact us for further assistance.</p>%s",
				d.UserFirstName, d.FacilityName, stayDetailsHTML(d), signature),
		},
		{
			To:      d.FacilityEmail,
			Subject: fmt.Sprintf("Booking Declined - Booking %s", d.BookingCode),
			HTMLBody: fmt.Sprintf(
				"<p>Hi %s,</p><p>You have declined the booking %s for %s.</p>%s%s",
				d.OwnerFirstName, d.BookingCode, d.FacilityName, stayDetailsHTML(d), signature),
		},
	}
}

// BookingCancelled builds the notification pair for a cancelled booking.
func BookingCancelled(d BookingDetails) []Message {
	return []Message{
		{
			To:      d.UserEmail,
			Subject: "Booking Cancelled",
			HTMLBody: fmt.Sprintf(
				"<p>Hi %s,</p><p>You have cancelled your booking at %s.</p>%s%s",
				d.UserFirstName, d.FacilityName, stayDetailsHTML(d), signature),
		},
		{
			To:      d.FacilityEmail,
			Subject: fmt.Sprintf("Booking Cancelled - Booking %s", d.BookingCode),
			HTMLBody: fmt.Sprintf(
				"<p>Hi %s,</p><p>The booking %s has been cancelled.</p>%s<p>Please check your dashboard for more details.</p>%s",
				d.OwnerFirstName, d.BookingCode, stayDetailsHTML(d), signature),
		},
	}
}

// BookingCompleted builds the notification pair sent when the lifecycle
// sweep completes a stay.
func BookingCompleted(d BookingDetails) []Message {
	return []Message{
		{
			To:      d.UserEmail,
			Subject: "Your Booking is Now Complete - Thank you!",
			HTMLBody: fmt.Sprintf(
				"<p>Hi %s,</p><p>We hope your furry friend enjoyed their stay with us! Your booking at %s has been successfully completed.</p>%s<p><b>Total Stay Duration:</b> %d days</p><p>We would love to hear about your experience. Your feedback helps us continue providing the best care for your beloved pet.</p>%s",
				d.UserFirstName, d.FacilityName, stayDetailsHTML(d), d.TotalDays, signature),
		},
		{
			To:      d.FacilityEmail,
			Subject: fmt.Sprintf("Booking Completion Notification - Booking %s", d.BookingCode),
			HTMLBody: fmt.Sprintf(
				"<p>Hi %s,</p><p>The booking %s for %s at your facility, %s, has been successfully completed as of %s.</p>%s<p><b>Total Stay Duration:</b> %d days</p><p>Thank you for your attention to this booking.</p>%s",
				d.OwnerFirstName, d.BookingCode, d.UserFirstName, d.FacilityName,
				d.CheckOut.Format(dateLayout), stayDetailsHTML(d), d.TotalDays, signature),
		},
	}
}
