package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// Confirmer decides whether an irreversible action proceeds. Commands
// receive one as a capability instead of reading stdin themselves, so
// interactive and automated runs share the same code path.
type Confirmer func(prompt string) bool

// AutoApprove answers yes without prompting. Selected by --yes and used
// by automated test runs.
func AutoApprove(string) bool { return true }

// Interactive returns a Confirmer appropriate for the current terminal:
// a Bubble Tea y/n prompt on a TTY, a plain line-read otherwise.
func Interactive() Confirmer {
	if isatty.IsTerminal(os.Stdin.Fd()) {
		return teaConfirm
	}
	return lineConfirm
}

func lineConfirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", StyleWarning.Render(prompt))
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(strings.ToLower(line))
	return line == "y" || line == "yes"
}

func teaConfirm(prompt string) bool {
	m := confirmModel{prompt: prompt}
	out, err := tea.NewProgram(m).Run()
	if err != nil {
		// Fall back to the plain prompt if the TUI cannot start.
		return lineConfirm(prompt)
	}
	final, ok := out.(confirmModel)
	return ok && final.approved
}

// confirmModel is the Bubble Tea model for the y/n prompt.
type confirmModel struct {
	prompt   string
	approved bool
	answered bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "y", "Y", "enter":
			m.approved = key.String() != "enter" // enter defaults to no
			m.answered = true
			return m, tea.Quit
		case "n", "N", "q", "esc", "ctrl+c":
			m.answered = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.answered {
		answer := "no"
		if m.approved {
			answer = "yes"
		}
		return fmt.Sprintf("%s %s\n", StyleWarning.Render(m.prompt), Meta(answer))
	}
	return fmt.Sprintf("%s %s", StyleWarning.Render(m.prompt), Meta("[y/N]"))
}
