package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"CardForge/internal/config"
)

// ErrUsage возвращается командой при неверных аргументах; диспетчер печатает Usage.
var ErrUsage = errors.New("usage")

// Command represents a CLI subcommand.
type Command interface {
	// Name returns the command name as typed by the user, e.g. "login".
	Name() string
	// Description is a short human-readable description shown in help.
	Description() string
	// Usage returns the exact usage string, e.g. "login <email> <password>".
	Usage() string
	// Run executes the command with provided args (without the command name).
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

// registry holds available commands by name.
var registry = map[string]Command{}

// Out: общий writer для вывода CLI. В тестах подменяется.
var Out io.Writer = os.Stdout

// In: источник ввода для интерактивных команд (quiz).
var In io.Reader = os.Stdin

// section: раздел справки; команды попадают в раздел по имени или по префиксу.
type section struct {
	title    string
	prefixes []string
}

// sections задаёт порядок разделов в общей справке.
var sections = []section{
	{title: "Account", prefixes: []string{"login", "logout", "status"}},
	{title: "Decks", prefixes: []string{"deck"}},
	{title: "Cards", prefixes: []string{"card"}},
	{title: "Masks", prefixes: []string{"mask"}},
	{title: "AI", prefixes: []string{"translate", "extract"}},
	{title: "Study", prefixes: []string{"quiz"}},
	{title: "Files", prefixes: []string{"export", "import"}},
}

// sectionOf возвращает заголовок раздела команды; неизвестные уходят в "Other".
func sectionOf(name string) string {
	for _, s := range sections {
		for _, p := range s.prefixes {
			if strings.HasPrefix(name, p) {
				return s.title
			}
		}
	}
	return "Other"
}

// RegisterCmd adds a command to the registry. Should be called from init() of each command.
func RegisterCmd(cmd Command) {
	registry[cmd.Name()] = cmd
}

// Get returns a command by name.
func Get(name string) (Command, bool) {
	c, ok := registry[name]
	return c, ok
}

// List returns all registered commands sorted by name.
func List() []Command {
	list := make([]Command, 0, len(registry))
	for _, c := range registry {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// Suggest возвращает команды, имя которых начинается с prefix.
func Suggest(prefix string) []string {
	if prefix == "" {
		return nil
	}
	var out []string
	for _, c := range List() {
		if strings.HasPrefix(c.Name(), prefix) {
			out = append(out, c.Name())
		}
	}
	return out
}

// FormatGlobalUsage builds a help text for all commands grouped by section.
func FormatGlobalUsage() string {
	lines := []string{
		"CardForge CLI",
		"",
		"Usage:",
		"  cardforge [global flags] <command> [args]",
		"  cardforge help <command>",
	}

	grouped := make(map[string][]Command)
	for _, c := range List() {
		title := sectionOf(c.Name())
		grouped[title] = append(grouped[title], c)
	}
	titles := make([]string, 0, len(sections)+1)
	for _, s := range sections {
		titles = append(titles, s.title)
	}
	titles = append(titles, "Other")

	for _, title := range titles {
		cmds := grouped[title]
		if len(cmds) == 0 {
			continue
		}
		lines = append(lines, "", title+":")
		for _, c := range cmds {
			lines = append(lines, fmt.Sprintf("  %-52s %s", c.Usage(), c.Description()))
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
