package telegram

import (
	"sort"
	"strings"

	tele "gopkg.in/telebot.v4"

	"daylog/internal/logger"
	"log/slog"
)

// Command represents a bot command with its handler and menu description.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	Hidden      bool
}

// Registry holds the bot's slash commands.
type Registry struct {
	commands map[string]Command
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// RegisterCommand adds a new command. Invalid or duplicate registrations
// are logged and skipped.
func (r *Registry) RegisterCommand(name string, cmd Command) {
	if name == "" || !strings.HasPrefix(name, "/") || cmd.Handler == nil {
		logger.TG.Warn("register.command.skip",
			slog.String("name", name),
			slog.String("reason", "invalid"),
		)
		return
	}
	if _, exists := r.commands[name]; exists {
		logger.TG.Warn("register.command.duplicate", slog.String("name", name))
		return
	}
	r.commands[name] = cmd
}

// Commands returns all registered commands.
func (r *Registry) Commands() map[string]Command {
	return r.commands
}

// ListCommands returns the visible commands sorted for the Telegram menu.
func (r *Registry) ListCommands() []tele.Command {
	var list []tele.Command
	for name, cmd := range r.commands {
		if cmd.Hidden {
			continue
		}
		list = append(list, tele.Command{Text: name, Description: cmd.Description})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Text < list[j].Text })
	return list
}

// initBotCommands publishes the command menu to Telegram.
func initBotCommands(bot *tele.Bot, reg *Registry) {
	if err := bot.SetCommands(reg.ListCommands()); err != nil {
		logger.TG.Error("register.commands.set_failed",
			slog.String("err", err.Error()),
		)
	}
}
