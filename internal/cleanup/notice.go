package cleanup

import (
	"html"

	"golang.org/x/text/message"

	"github.com/aatumaykin/inlinegames/internal/games"
	"github.com/aatumaykin/inlinegames/internal/locale"
)

// BuildNotice renders the "empty session" message for a game with a single
// button that starts a new session of the same game.
func BuildNotice(p *message.Printer, game games.Descriptor) Notice {
	return Notice{
		Text: "<b>" + html.EscapeString(game.Title()) + "</b>\n\n<i>" +
			html.EscapeString(p.Sprintf(locale.MsgSessionEmpty)) + "</i>",
		Controls: []Control{
			{Label: p.Sprintf(locale.MsgCreate), Data: game.Code + ";new"},
		},
	}
}
