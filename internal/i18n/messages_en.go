package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	message.SetString(lang, MaxGuestsReached, "You can add up to %d additional guests.")
	message.SetString(lang, MetaFail, "We couldn't load your invitation. Check your invite code.")
	message.SetString(lang, NameRequired, "Please enter your first and last name.")
	message.SetString(lang, Submitted, "Thank you! Your RSVP has been submitted.")
	message.SetString(lang, Failed, "Submission failed: %s")
	message.SetString(lang, SettingsFail, "Couldn't load RSVP settings, using defaults.")
	message.SetString(lang, Closed, "RSVPs are closed.")
	message.SetString(lang, InviteRequired, "An invite code is required to RSVP.")
	message.SetString(lang, InviteCodeMissing, "Please enter your invite code.")
	message.SetString(lang, AlreadySubmitted, "An RSVP has already been submitted from this device.")
	message.SetString(lang, NotReady, "Your invitation hasn't been loaded yet.")
	message.SetString(lang, GuestsLimit, "%d of %d additional guests used (%d remaining)")
}
