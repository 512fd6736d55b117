package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"cassandra/internal/server/app"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

var (
	blue   = color.New(color.FgBlue).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

var (
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("13")).
			Padding(0, 1)
	taglineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func banner() string {
	return bannerStyle.Render("Cassandra") + taglineStyle.Render("topic in, deck out")
}

func disableColor() {
	color.NoColor = true
}

func errorText(msg string) string {
	return red("✗ ") + msg
}

func successText(msg string) string {
	return green("✓ ") + msg
}

// isTTY checks if stdin and stdout are terminals.
func isTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func termWidth() int {
	width := 100
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	if width > 120 {
		width = 120
	}
	return width
}

// renderMarkdown renders md for the terminal. Plain output is used when
// stdout is not a terminal or the renderer fails.
func renderMarkdown(md string, tty bool) string {
	if !tty {
		return md
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(termWidth()-4),
		glamour.WithEmoji(),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

// titlesMarkdown lists planned titles as a numbered outline.
func titlesMarkdown(topic string, titles []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", topic)
	for i, title := range titles {
		fmt.Fprintf(&b, "%d. %s\n", i+1, title)
	}
	return b.String()
}

// previewMarkdown renders preview slides as one section each.
func previewMarkdown(result app.PreviewResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", result.Topic)
	if !result.AIGenerated {
		b.WriteString("_Built-in content; the model was unavailable._\n\n")
	}
	for i, s := range result.Slides {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, s.Title)
		fmt.Fprintf(&b, "*%s*\n\n", s.Type)
		if s.Type == "bullet" {
			for _, line := range strings.Split(s.Content, "\n") {
				if line = strings.TrimSpace(line); line != "" {
					fmt.Fprintf(&b, "- %s\n", line)
				}
			}
			b.WriteString("\n")
			continue
		}
		b.WriteString(s.Content)
		b.WriteString("\n\n")
	}
	return b.String()
}

// promptTopic asks for a topic when none was given on the command line.
func promptTopic() (string, error) {
	prompt := promptui.Prompt{
		Label: "Presentation topic",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("topic cannot be empty")
			}
			return nil
		},
	}
	topic, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(topic), nil
}

var modeChoices = []string{"auto", "paragraph", "bullet"}

// promptMode asks which content mode to synthesize with.
func promptMode() (string, error) {
	sel := promptui.Select{
		Label: "Content mode",
		Items: modeChoices,
	}
	_, choice, err := sel.Run()
	return choice, err
}

// resolveTopic returns the positional topic, prompting on a terminal.
func (c *CLI) resolveTopic(args []string) (string, error) {
	if len(args) > 0 {
		if topic := strings.TrimSpace(strings.Join(args, " ")); topic != "" {
			return topic, nil
		}
	}
	if !c.interactive {
		return "", errors.New("a topic is required")
	}
	return promptTopic()
}
