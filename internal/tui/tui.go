package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dao_voting/contract/dao"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	closedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func padToWidth(s string, width int) string {
	current := runewidth.StringWidth(s)
	if current >= width {
		return s
	}
	return s + strings.Repeat(" ", width-current)
}

// fit truncates to width cells (wide runes count double) and pads the rest.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return padToWidth(runewidth.Truncate(s, width, "…"), width)
}

func separatorLine(width int) string {
	if width < 2 {
		return strings.Repeat("─", width)
	}
	return "├" + strings.Repeat("─", width-2) + "┤"
}

func formatInfoLine(text string, width int) string {
	if width < 2 {
		return padToWidth(text, width)
	}
	return "│" + fit(text, width-2) + "│"
}

// FormatAmount renders raw token units with the mint's decimals.
// Example payload: FormatAmount(10_000_000, 6) == "10.000000"
func FormatAmount(raw uint64, decimals uint8) string {
	if decimals == 0 {
		return fmt.Sprintf("%d", raw)
	}
	s := fmt.Sprintf("%0*d", int(decimals)+1, raw)
	cut := len(s) - int(decimals)
	return s[:cut] + "." + s[cut:]
}

// tallyBar draws the for share of votes as a fixed width bar.
func tallyBar(votesFor, votesAgainst uint64, width int) string {
	total := votesFor + votesAgainst
	if total == 0 || width <= 0 {
		return strings.Repeat("·", width)
	}
	filled := int(float64(votesFor) / float64(total) * float64(width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// -----------------------------------------------------------------------------
// Static renders, shared by the list/show commands and the live view
// -----------------------------------------------------------------------------

// RenderRegistry prints the registry summary block.
func RenderRegistry(info *dao.RegistryInfo, decimals uint8) string {
	if info == nil {
		return ""
	}
	lines := []string{
		titleStyle.Render("registry ") + info.Address.String(),
		fmt.Sprintf("authority: %s", info.Registry.Authority),
		fmt.Sprintf("mint:      %s", info.Registry.Mint),
		fmt.Sprintf("vault:     %s (%s)", info.Registry.Vault, FormatAmount(info.VaultBalance, decimals)),
		fmt.Sprintf("proposals: %d", info.Registry.ProposalCount),
	}
	return strings.Join(lines, "\n")
}

// RenderProposal prints one proposal in detail.
func RenderProposal(info *dao.ProposalInfo) string {
	p := info.Proposal
	state := activeStyle.Render(p.State().String())
	if !p.Active {
		state = closedStyle.Render(p.State().String())
	}
	lines := []string{
		titleStyle.Render(fmt.Sprintf("proposal #%d ", p.ID)) + state,
		fmt.Sprintf("address:     %s", info.Address),
		fmt.Sprintf("creator:     %s", p.Creator),
		fmt.Sprintf("description: %s", p.Description),
		fmt.Sprintf("for:         %d", p.VotesFor),
		fmt.Sprintf("against:     %d", p.VotesAgainst),
		tallyBar(p.VotesFor, p.VotesAgainst, 30),
	}
	return strings.Join(lines, "\n")
}

// RenderProposals lays out the table used by list and watch.
func RenderProposals(list dao.ProposalList, width int) string {
	if width < 60 {
		width = 60
	}
	const (
		idW    = 6
		stateW = 8
		numW   = 8
		barW   = 12
	)
	descW := width - idW - stateW - 2*numW - barW - 7
	header := fmt.Sprintf("│%s│%s│%s│%s│%s│%s│",
		fit("id", idW), fit("state", stateW), fit("for", numW), fit("against", numW), fit("tally", barW), fit("description", descW))

	lines := []string{
		"┌" + strings.Repeat("─", width-2) + "┐",
		header,
		separatorLine(width),
	}
	if len(list) == 0 {
		lines = append(lines, formatInfoLine("no proposals yet", width))
	}
	for _, info := range list {
		p := info.Proposal
		state := fit(p.State().String(), stateW)
		if p.Active {
			state = activeStyle.Render(state)
		} else {
			state = closedStyle.Render(state)
		}
		desc := strings.ReplaceAll(p.Description, "\n", " ")
		lines = append(lines, fmt.Sprintf("│%s│%s│%s│%s│%s│%s│",
			fit(fmt.Sprintf("%d", p.ID), idW),
			state,
			fit(fmt.Sprintf("%d", p.VotesFor), numW),
			fit(fmt.Sprintf("%d", p.VotesAgainst), numW),
			tallyBar(p.VotesFor, p.VotesAgainst, barW),
			fit(desc, descW),
		))
	}
	lines = append(lines, "└"+strings.Repeat("─", width-2)+"┘")
	return strings.Join(lines, "\n")
}

// -----------------------------------------------------------------------------
// Live view
// -----------------------------------------------------------------------------

// Snapshot is one poll of program state.
type Snapshot struct {
	Registry  *dao.RegistryInfo
	Proposals dao.ProposalList
	Err       error
	At        time.Time
}

// Source produces a fresh snapshot, e.g. by querying the program.
type Source func(ctx context.Context) Snapshot

// SnapshotMsg carries a finished poll into the model.
type SnapshotMsg Snapshot

type tickMsg time.Time

// Model holds the TUI state
type Model struct {
	ctx      context.Context
	source   Source
	interval time.Duration
	decimals uint8

	snap   Snapshot
	loaded bool
	width  int
	height int
}

// NewModel creates a new TUI model
func NewModel(ctx context.Context, source Source, interval time.Duration, decimals uint8) Model {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return Model{ctx: ctx, source: source, interval: interval, decimals: decimals}
}

func (m Model) fetch() tea.Cmd {
	return func() tea.Msg {
		return SnapshotMsg(m.source(m.ctx))
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init kicks off the first poll
func (m Model) Init() tea.Cmd {
	return m.fetch()
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case SnapshotMsg:
		m.snap = Snapshot(msg)
		m.loaded = true
		return m, m.tick()

	case tickMsg:
		return m, m.fetch()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			return m, m.fetch()
		}
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if !m.loaded {
		return "Loading..."
	}
	width := m.width
	if width == 0 {
		width = 100
	}
	var parts []string
	if m.snap.Err != nil {
		parts = append(parts, errStyle.Render("error: "+m.snap.Err.Error()))
	}
	if m.snap.Registry != nil {
		parts = append(parts, RenderRegistry(m.snap.Registry, m.decimals))
	}
	parts = append(parts, RenderProposals(m.snap.Proposals, width))
	parts = append(parts, closedStyle.Render(fmt.Sprintf("updated %s · r refresh · q quit", m.snap.At.Format(time.Kitchen))))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Run starts the TUI program and blocks until the user quits or ctx ends.
func Run(ctx context.Context, source Source, interval time.Duration, decimals uint8) error {
	p := tea.NewProgram(NewModel(ctx, source, interval, decimals), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if ctx.Err() != nil {
		return nil
	}
	return err
}
