// Package i18n holds the guest-facing message catalog. Admin screens are
// English only.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys
const (
	MaxGuestsReached  = "rsvp.maxGuestsReached"
	MetaFail          = "rsvp.toastMetaFail"
	NameRequired      = "rsvp.toastNameRequired"
	Submitted         = "rsvp.toastSubmitted"
	Failed            = "rsvp.toastFailed"
	SettingsFail      = "rsvp.toastSettingsFail"
	Closed            = "rsvp.closed"
	InviteRequired    = "rsvp.inviteRequired"
	InviteCodeMissing = "rsvp.inviteCodeMissing"
	AlreadySubmitted  = "rsvp.alreadySubmitted"
	NotReady          = "rsvp.notReady"
	GuestsLimit       = "rsvp.additionalGuestsLimit"
)

var supportedTags = []language.Tag{
	language.English,
	language.Spanish,
}

var tagMatcher = language.NewMatcher(supportedTags)

// Default returns the default language tag.
func Default() language.Tag {
	return language.English
}

// Supported returns the list of supported language tags.
func Supported() []language.Tag {
	tags := make([]language.Tag, len(supportedTags))
	copy(tags, supportedTags)
	return tags
}

// Resolve picks the closest supported tag for a language string such as
// "es" or "es-MX". Unknown input falls back to English.
func Resolve(lang string) language.Tag {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return Default()
	}
	parsed, err := language.Parse(lang)
	if err != nil {
		return Default()
	}
	_, idx, conf := tagMatcher.Match(parsed)
	if conf == language.No {
		return Default()
	}
	return supportedTags[idx]
}

// Printer returns a message printer for the supplied language string.
func Printer(lang string) *message.Printer {
	return message.NewPrinter(Resolve(lang))
}
