// Package locale translates the few user-facing strings the sweep renders
// into inline messages.
package locale

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. The English text doubles as the key.
const (
	MsgSessionEmpty = "This game session is empty."
	MsgCreate       = "Create"
)

var (
	builder  = newCatalog()
	tags     = builder.Languages()
	matcher  = language.NewMatcher(tags)
	fallback = language.English
)

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))

	translations := map[language.Tag]map[string]string{
		language.English: {
			MsgSessionEmpty: MsgSessionEmpty,
			MsgCreate:       MsgCreate,
		},
		language.Russian: {
			MsgSessionEmpty: "Эта игровая сессия пуста.",
			MsgCreate:       "Создать",
		},
		language.Polish: {
			MsgSessionEmpty: "Ta sesja gry jest pusta.",
			MsgCreate:       "Utwórz",
		},
	}
	for tag, msgs := range translations {
		for key, text := range msgs {
			// keys and tags are static, SetString cannot fail here
			_ = b.SetString(tag, key, text)
		}
	}
	return b
}

// Printer returns a printer for a BCP 47 language name, falling back to
// English for unknown or unsupported languages.
func Printer(lang string) *message.Printer {
	return message.NewPrinter(Match(lang), message.Catalog(builder))
}

// Match picks the best supported tag for lang.
func Match(lang string) language.Tag {
	requested, err := language.Parse(lang)
	if err != nil {
		return fallback
	}
	_, idx, confidence := matcher.Match(requested)
	if confidence == language.No {
		return fallback
	}
	return tags[idx]
}
