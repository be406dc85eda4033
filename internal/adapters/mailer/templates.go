package mailer

import "fmt"

// Email is a rendered plain-text message.
type Email struct {
	Template string
	Subject  string
	Body     string
}

func reasonOrDefault(r string) string {
	if r == "" {
		return "Not specified"
	}
	return r
}

// PlaceEmail renders the contributor message for a reviewed submission.
func PlaceEmail(placeName string, approved bool, reason string) Email {
	if approved {
		return Email{
			Template: "place_approved",
			Subject:  fmt.Sprintf("✅ Your place \"%s\" has been approved", placeName),
			Body: fmt.Sprintf("Dear Contributor,\n\n"+
				"Your submitted place \"%s\" has been successfully verified and approved by the LokVista team.\n\n"+
				"It is now live on our platform, helping travelers discover the beauty of your region!\n\n"+
				"Thank you for contributing to LokVista.\n\n"+
				"Warm regards,\nTeam LokVista", placeName),
		}
	}
	return Email{
		Template: "place_rejected",
		Subject:  fmt.Sprintf("❌ Your place \"%s\" has been rejected", placeName),
		Body: fmt.Sprintf("Dear Contributor,\n\n"+
			"Unfortunately, your submitted place \"%s\" could not be approved at this time.\n"+
			"Reason: %s\n\n"+
			"You may review and resubmit after making the necessary improvements.\n\n"+
			"Thank you for your effort in promoting local culture and tourism.\n\n"+
			"Warm regards,\nTeam LokVista", placeName, reasonOrDefault(reason)),
	}
}

// HotelEmail renders the owner message for a hotel decision.
func HotelEmail(hotelName string, approved bool, reason string) Email {
	if approved {
		return Email{
			Template: "hotel_approved",
			Subject:  fmt.Sprintf("✅ Hotel %s Approved", hotelName),
			Body: fmt.Sprintf("Dear Owner,\n\n"+
				"Your hotel \"%s\" has been approved successfully. You can now access the platform and manage your listings.\n\n"+
				"Thank you for partnering with LokVista!", hotelName),
		}
	}
	return Email{
		Template: "hotel_rejected",
		Subject:  fmt.Sprintf("❌ Hotel %s Rejected", hotelName),
		Body: fmt.Sprintf("Dear Owner,\n\n"+
			"Unfortunately, your hotel \"%s\" has been rejected.\n"+
			"Reason: %s\n\n"+
			"Please review your details and try again.\n\n"+
			"Thank you,\nLokVista Team", hotelName, reasonOrDefault(reason)),
	}
}
