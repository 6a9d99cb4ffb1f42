package ports

import "github.com/Zerui18/BBot/internal/domain"

// Messenger is the chat front-end: a stream of incoming commands and a way
// to answer them.
type Messenger interface {
	// Listen returns the stream of incoming commands.
	Listen() (<-chan domain.Command, error)
	// Send delivers a plain text message to a chat.
	Send(chatID int64, text string) error
	Close()
}
