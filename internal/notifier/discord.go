package notifier

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// DiscordNotifier mirrors every notification into an operations channel so
// the marketplace team sees booking activity live.
type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

func (n *DiscordNotifier) Notify(userID uint, message string) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	_, err := n.session.ChannelMessageSend(n.channelID, fmt.Sprintf("📣 user %d: %s", userID, message))
	return err
}
