package domain

// Command is one chat command addressed to the bot, already split into its
// name (without the leading slash) and arguments.
type Command struct {
	ChatID int64
	Name   string
	Args   []string
}
