package banner

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"octowatch/internal/ui/theme"
)

var art = []string{
	`     ,'""` + "`" + `.     `,
	`    / _  _ \    `,
	`    |(@)(@)|    `,
	`    )  __  (    `,
	`   /,')))((` + "`" + `.\  `,
	`  (( ((  )) ))  `,
	`   ` + "`" + `\ ` + "`" + `)(' /'   `,
}

// Render draws the startup banner. Plain logs-friendly output, no cursor
// control, so it stays readable in captured container logs.
func Render() string {
	b := strings.Builder{}
	b.WriteString(theme.Title.Render("OCTOWATCH"))
	b.WriteString("\n")
	for _, line := range art {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Mauve).Render(line))
		b.WriteString("\n")
	}
	b.WriteString(theme.Soon.Render("Free Electricity Sessions"))
	b.WriteString(theme.Muted.Render("  watching octopus.energy"))
	b.WriteString("\n")
	return b.String()
}
