package notify

import (
	"fmt"
	"log"

	"github.com/slack-go/slack"

	"github.com/shubh-37/ideaforge/internal/models"
)

// SlackNotifier posts a short message when a stress-test lands a score.
// Failures are logged and swallowed; notifications never block a transition.
type SlackNotifier struct {
	api       *slack.Client
	channelID string
}

func NewSlackNotifier(token, channelID string) *SlackNotifier {
	return &SlackNotifier{
		api:       slack.New(token),
		channelID: channelID,
	}
}

func (n *SlackNotifier) ScoreChanged(idea *models.Idea, score float64) {
	msg := fmt.Sprintf("Stress-test complete: %q scored %.0f/100", idea.Title, score)
	if _, _, err := n.api.PostMessage(n.channelID, slack.MsgOptionText(msg, false)); err != nil {
		log.Printf("Failed to send Slack notification: %v", err)
	}
}
