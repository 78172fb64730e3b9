package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"giwa/sdk-probe/internal/domain"
	"giwa/sdk-probe/internal/i18n"
)

// Summary is the header shown above the results.
type Summary struct {
	Network   string
	HasWallet bool
	Ready     bool
}

type Terminal struct {
	w       io.Writer
	strings i18n.Strings

	title  lipgloss.Style
	label  lipgloss.Style
	muted  lipgloss.Style
	failed lipgloss.Style
}

func NewTerminal(w io.Writer, strs i18n.Strings) *Terminal {
	return &Terminal{
		w:       w,
		strings: strs,
		title:   lipgloss.NewStyle().Bold(true),
		label:   lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#999999")),
		failed:  lipgloss.NewStyle().Foreground(lipgloss.Color(StatusColor(domain.StatusFail))),
	}
}

func statusStyle(s domain.Status) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(StatusColor(s)))
}

// Header prints the title and the network/wallet/ready summary.
func (t *Terminal) Header(s Summary) {
	wallet := t.strings.None
	if s.HasWallet {
		wallet = t.strings.Connected
	}
	ready := t.strings.No
	if s.Ready {
		ready = t.strings.Yes
	}

	fmt.Fprintln(t.w, t.title.Render(t.strings.SDKTest))
	fmt.Fprintf(t.w, "%s %s   %s %s   %s %s\n\n",
		t.label.Render(t.strings.Network+":"), s.Network,
		t.label.Render(t.strings.Wallet+":"), wallet,
		t.label.Render(t.strings.Ready+":"), ready,
	)
}

// Progress prints the "Running: <probe>" line.
func (t *Terminal) Progress(current string) {
	if current == "" {
		current = "..."
	}
	fmt.Fprintf(t.w, "%s %s: %s\n", statusStyle(domain.StatusRunning).Render(StatusGlyph(domain.StatusRunning)), t.strings.Running, current)
}

// Row formats one outcome.
func (t *Terminal) Row(o domain.Outcome) string {
	var sb strings.Builder
	sb.WriteString(statusStyle(o.Status).Render(StatusGlyph(o.Status)))
	sb.WriteString(" ")
	sb.WriteString(o.Name)
	if o.Duration != nil {
		sb.WriteString(" ")
		sb.WriteString(t.muted.Render(fmt.Sprintf("%dms", *o.Duration)))
	}
	if o.Message != "" {
		sb.WriteString("\n    ")
		if o.Status == domain.StatusFail {
			sb.WriteString(t.failed.Render(o.Message))
		} else {
			sb.WriteString(o.Message)
		}
	}
	return sb.String()
}

// Badges formats the pass/fail/skip counts.
func (t *Terminal) Badges(c domain.Counts) string {
	return strings.Join([]string{
		statusStyle(domain.StatusPass).Render(fmt.Sprintf("%d %s", c.Pass, t.strings.Pass)),
		statusStyle(domain.StatusFail).Render(fmt.Sprintf("%d %s", c.Fail, t.strings.Fail)),
		statusStyle(domain.StatusSkip).Render(fmt.Sprintf("%d %s", c.Skip, t.strings.Skip)),
	}, "  ")
}

// Results prints the badges followed by every row.
func (t *Terminal) Results(outcomes []domain.Outcome) {
	if len(outcomes) == 0 {
		return
	}
	fmt.Fprintf(t.w, "\n%s  %s\n", t.title.Render(t.strings.Results), t.Badges(domain.CountOutcomes(outcomes)))
	for _, o := range outcomes {
		fmt.Fprintln(t.w, t.Row(o))
	}
}
