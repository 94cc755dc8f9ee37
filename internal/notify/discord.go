package notify

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/danielholmes839/loginpage/internal/runner"
)

var ErrInvalidWebhook = errors.New("invalid discord webhook url")

// Discord posts run reports to a channel webhook.
type Discord struct {
	Session   *discordgo.Session
	WebhookID string
	Token     string
}

func NewDiscord(webhookURL string) (*Discord, error) {
	id, token, err := ParseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}

	// webhooks authenticate with their token, the session needs none
	dg, err := discordgo.New("")
	if err != nil {
		return nil, err
	}

	return &Discord{
		Session:   dg,
		WebhookID: id,
		Token:     token,
	}, nil
}

// ParseWebhookURL splits https://discord.com/api/webhooks/{id}/{token}.
func ParseWebhookURL(raw string) (id, token string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidWebhook, err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if u.Host == "" || len(parts) != 4 || parts[0] != "api" || parts[1] != "webhooks" || parts[2] == "" || parts[3] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidWebhook, raw)
	}

	return parts[2], parts[3], nil
}

func (d *Discord) Notify(report runner.Report) error {
	_, err := d.Session.WebhookExecute(d.WebhookID, d.Token, false, &discordgo.WebhookParams{
		Content: FormatReport(report),
	})
	return err
}

func FormatReport(report runner.Report) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Login page check: %d passed, %d failed\n", len(report.Passed), len(report.Failed)))

	failed := make([]runner.Result, len(report.Failed))
	copy(failed, report.Failed)

	sort.Slice(failed, func(i, j int) bool {
		return failed[i].Scenario.Name < failed[j].Scenario.Name
	})

	for _, result := range failed {
		switch {
		case result.Err != nil:
			sb.WriteString(fmt.Sprintf("\n- %s: error: %v", result.Scenario.Name, result.Err))
		case result.ErrorText != "":
			sb.WriteString(fmt.Sprintf("\n- %s: expected %s, toaster said %q", result.Scenario.Name, result.Scenario.Expect, result.ErrorText))
		default:
			sb.WriteString(fmt.Sprintf("\n- %s: expected %s, no toaster", result.Scenario.Name, result.Scenario.Expect))
		}
	}

	return sb.String()
}
