// Package tg implements ports.Messenger on top of TDLib, running the chat
// front-end as a Telegram bot.
package tg

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/zelenin/go-tdlib/client"

	"github.com/Zerui18/BBot/internal/domain"
)

type Bot struct {
	client *client.Client
	logger *slog.Logger
	selfID int64
}

// NewBot starts an authorized TDLib bot session. The session database lives
// under sessionDir so restarts reuse the existing authorization.
func NewBot(
	apiID int32,
	apiHash string,
	botToken string,
	sessionDir string,
	log *slog.Logger,
) (*Bot, error) {
	dbDir := filepath.Join(sessionDir, "database")
	filesDir := filepath.Join(sessionDir, "files")

	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := os.MkdirAll(filesDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir files dir: %w", err)
	}

	if _, err := client.SetLogVerbosityLevel(&client.SetLogVerbosityLevelRequest{
		NewVerbosityLevel: 1,
	}); err != nil {
		log.Error("TDLib SetLogVerbosityLevel", "error", err)
	}

	tdParams := &client.SetTdlibParametersRequest{
		UseTestDc:          false,
		DatabaseDirectory:  dbDir,
		FilesDirectory:     filesDir,
		UseFileDatabase:    true,
		UseMessageDatabase: true,
		UseSecretChats:     false,
		ApiId:              apiID,
		ApiHash:            apiHash,
		SystemLanguageCode: "en",
		DeviceModel:        "Server",
		SystemVersion:      "1.0",
		ApplicationVersion: "1.0",
	}

	checkIPv4(log)
	checkIPv6(log)

	authorizer := client.BotAuthorizer(tdParams, botToken)

	tdCli, err := client.NewClient(authorizer)
	if err != nil {
		return nil, fmt.Errorf("TDLib NewClient: %w", err)
	}

	me, err := tdCli.GetMe()
	if err != nil {
		return nil, fmt.Errorf("GetMe: %w", err)
	}

	log.Info("TDLib bot initialized and authorized", "self_id", me.Id)

	return &Bot{
		client: tdCli,
		logger: log,
		selfID: me.Id,
	}, nil
}

// Listen returns the stream of chat commands and starts update processing.
func (b *Bot) Listen() (<-chan domain.Command, error) {
	out := make(chan domain.Command)

	listener := b.client.GetListener()
	go func() {
		defer close(out)
		for update := range listener.Updates {
			upd, ok := update.(*client.UpdateNewMessage)
			if !ok {
				continue
			}
			if cmd, ok := b.parseCommand(upd.Message); ok {
				out <- cmd
			}
		}
	}()

	return out, nil
}

// parseCommand extracts a bot command from an incoming message. Non-command
// text and the bot's own messages are dropped.
func (b *Bot) parseCommand(msg *client.Message) (domain.Command, bool) {
	if msg == nil || msg.IsOutgoing {
		return domain.Command{}, false
	}
	content, ok := msg.Content.(*client.MessageText)
	if !ok || content.Text == nil {
		return domain.Command{}, false
	}

	fields := strings.Fields(content.Text.Text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return domain.Command{}, false
	}

	// "/book@SomeBot 2" addresses this bot from a group chat
	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.Index(name, "@"); at >= 0 {
		name = name[:at]
	}
	if name == "" {
		return domain.Command{}, false
	}

	b.logger.Debug("command received", "chat_id", msg.ChatId, "command", name)
	return domain.Command{
		ChatID: msg.ChatId,
		Name:   name,
		Args:   fields[1:],
	}, true
}

// Send delivers a plain text message to a chat.
func (b *Bot) Send(chatID int64, text string) error {
	_, err := b.client.SendMessage(&client.SendMessageRequest{
		ChatId: chatID,
		InputMessageContent: &client.InputMessageText{
			Text:       &client.FormattedText{Text: text},
			ClearDraft: true,
		},
	})
	if err != nil {
		b.logger.Error("SendMessage failed", "chat_id", chatID, "error", err)
		return err
	}
	return nil
}

func (b *Bot) Close() {
	b.client.Close()
}
