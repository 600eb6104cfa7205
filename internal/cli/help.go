package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// HelpStyles contains lipgloss styles for command help formatting.
type HelpStyles struct {
	Command     lipgloss.Style
	Heading     lipgloss.Style
	Subcommand  lipgloss.Style
	Flag        lipgloss.Style
	Description lipgloss.Style
	Example     lipgloss.Style
}

// NewHelpStyles creates help styles based on color mode.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &HelpStyles{
			Command:     plain,
			Heading:     plain,
			Subcommand:  plain,
			Flag:        plain,
			Description: plain,
			Example:     plain,
		}
	}
	return &HelpStyles{
		Command:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Heading:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Subcommand:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Flag:        lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Description: lipgloss.NewStyle(),
		Example:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// HelpFormatter renders styled help output for Cobra commands.
type HelpFormatter struct {
	styles *HelpStyles
	out    io.Writer
	width  int
}

// NewHelpFormatter builds a formatter for the given color mode
// ("auto", "always", "never") writing to out.
func NewHelpFormatter(colorMode string, out *os.File) *HelpFormatter {
	enabled := false
	switch colorMode {
	case "always":
		enabled = true
	case "never":
		enabled = false
	default:
		enabled = isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())
	}

	width := 80
	if isatty.IsTerminal(out.Fd()) {
		if w, _, err := term.GetSize(int(out.Fd())); err == nil && w > 40 {
			width = w
		}
	}

	return &HelpFormatter{
		styles: NewHelpStyles(enabled),
		out:    out,
		width:  width,
	}
}

// ApplyToCommand installs the styled help on cmd and its children.
func (f *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		f.render(c)
	})
}

func (f *HelpFormatter) render(c *cobra.Command) {
	s := f.styles

	if c.Long != "" {
		fmt.Fprintln(f.out, s.Description.Width(f.width).Render(c.Long))
	} else if c.Short != "" {
		fmt.Fprintln(f.out, s.Description.Render(c.Short))
	}

	fmt.Fprintf(f.out, "\n%s\n  %s\n", s.Heading.Render("Usage:"), s.Command.Render(c.UseLine()))

	if c.HasAvailableSubCommands() {
		fmt.Fprintf(f.out, "\n%s\n", s.Heading.Render("Available Commands:"))
		for _, sub := range c.Commands() {
			if !sub.IsAvailableCommand() {
				continue
			}
			fmt.Fprintf(f.out, "  %s %s\n",
				s.Subcommand.Render(padRight(sub.Name(), 12)),
				s.Description.Render(sub.Short))
		}
	}

	if c.HasAvailableLocalFlags() {
		fmt.Fprintf(f.out, "\n%s\n%s", s.Heading.Render("Flags:"),
			s.Flag.Render(strings.TrimRight(c.LocalFlags().FlagUsages(), "\n"))+"\n")
	}
	if c.HasAvailableInheritedFlags() {
		fmt.Fprintf(f.out, "\n%s\n%s", s.Heading.Render("Global Flags:"),
			s.Flag.Render(strings.TrimRight(c.InheritedFlags().FlagUsages(), "\n"))+"\n")
	}

	if c.Example != "" {
		fmt.Fprintf(f.out, "\n%s\n%s\n", s.Heading.Render("Examples:"), s.Example.Render(c.Example))
	}
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
