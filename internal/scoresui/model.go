// Package scoresui provides the Bubble Tea score browser.
package scoresui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typeoke/internal/model"
	"github.com/verte-zerg/typeoke/internal/stats"
	"github.com/verte-zerg/typeoke/internal/store"
)

const (
	tabOverview = iota
	tabScores
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea score browser.
type Model struct {
	store  *store.Store
	filter model.ScoreFilter

	scores []model.ScoreRecord
	errMsg string

	tabs       []string
	activeTab  int
	overview   viewport.Model
	scoreTable table.Model
	layout     tableLayout

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
}

// NewModel constructs a score browser model.
func NewModel(st *store.Store, filter model.ScoreFilter) *Model {
	m := &Model{
		store:  st,
		filter: filter,
		tabs:   []string{"Overview", "Scores"},
	}
	m.initInputs()
	m.overview = viewport.New(0, 0)
	m.scoreTable = buildScoreTable(nil, 0, 1)
	m.refreshScores()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (!m.filterMode && msg.String() == "q") {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		if m.activeTab == tabScores {
			m.scoreTable.Focus()
		} else {
			m.scoreTable.Blur()
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "/":
			return m.startFilter()
		case "g", "home":
			if m.activeTab == tabScores {
				m.scoreTable.GotoTop()
			} else {
				m.overview.GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabScores {
				m.scoreTable.GotoBottom()
			} else {
				m.overview.GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabScores {
				var cmd tea.Cmd
				m.scoreTable, cmd = m.scoreTable.Update(msg)
				return m, cmd
			}
			var cmd tea.Cmd
			m.overview, cmd = m.overview.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Title: "),
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
	}
	m.setInputsFromFilter()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromFilter() {
	m.filterInputs[0].SetValue(strings.TrimSpace(m.filter.Title))
	if m.filter.Since != nil {
		m.filterInputs[1].SetValue(m.filter.Since.Format("2006-01-02"))
	} else {
		m.filterInputs[1].SetValue("")
	}
	if m.filter.Last > 0 {
		m.filterInputs[2].SetValue(strconv.Itoa(m.filter.Last))
	} else {
		m.filterInputs[2].SetValue("")
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.setTableSize(m.width, bodyHeight)
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabScores {
		m.scoreTable.Focus()
	} else {
		m.scoreTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	title := m.filter.Title
	if title == "" {
		title = "any"
	}
	since := "any"
	if m.filter.Since != nil {
		since = m.filter.Since.Format("2006-01-02")
	}
	last := "all"
	if m.filter.Last > 0 {
		last = strconv.Itoa(m.filter.Last)
	}
	summary := fmt.Sprintf("Filters: title=%s  since=%s  last=%s", title, since, last)
	summary = truncateLine(summary, m.width)
	return headerStyle.Render(summary)
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Filter: /  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Filters (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabScores {
		if len(m.scores) == 0 {
			return fitLines("No scores found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.scoreTable.View()), m.width, height)
	}
	return fitLines(m.overview.View(), m.width, height)
}

func (m *Model) refreshScores() {
	scores, err := m.store.ListScores(context.Background(), m.filter)
	if err != nil {
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load scores.")
		return
	}
	m.errMsg = ""
	m.scores = scores
	m.applyScoreTable()
	m.renderOverview()
}

func (m *Model) renderOverview() {
	if m.errMsg != "" {
		m.overview.SetContent("Failed to load scores.")
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.scores, width))
}

func renderOverview(scores []model.ScoreRecord, width int) string {
	if len(scores) == 0 {
		return "No scores found."
	}
	sum := stats.Summarize(scores)
	cards := []string{
		metricCard("Plays", fmt.Sprintf("%d", sum.Count)),
		metricCard("Avg WPM", fmt.Sprintf("%.1f", sum.AvgWPM)),
		metricCard("Best WPM", fmt.Sprintf("%d", sum.BestWPM)),
		metricCard("Avg Acc", fmt.Sprintf("%.1f%%", sum.AvgAccuracy)),
		metricCard("Errors", fmt.Sprintf("%d", sum.TotalErrors)),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
		summary = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}
	trend := ""
	if len(scores) > 1 {
		trend = headerStyle.Render("WPM trend") + "\n" + stats.Sparkline(stats.MovingAverage(stats.WPMSeries(scores), 3))
	}
	return strings.TrimRight(summary+"\n\n"+trend, "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func buildScoreTable(scores []model.ScoreRecord, width, height int) table.Model {
	cols, rows := buildScoreTableData(scores)
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(scoreTableStyles())
	return t
}

func buildScoreTableData(scores []model.ScoreRecord) ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: "Played", Width: 16},
		{Title: "Title", Width: 28},
		{Title: "Artist", Width: 18},
		{Title: "WPM", Width: 5},
		{Title: "Acc", Width: 5},
		{Title: "Errors", Width: 6},
		{Title: "Duration", Width: 8},
	}
	rows := make([]table.Row, 0, len(scores))
	// Newest first for browsing.
	for i := len(scores) - 1; i >= 0; i-- {
		s := scores[i]
		rows = append(rows, table.Row{
			s.PlayedAt.Format("2006-01-02 15:04"),
			s.Title,
			s.Artist,
			fmt.Sprintf("%d", s.WPM),
			fmt.Sprintf("%d%%", s.Accuracy),
			fmt.Sprintf("%d", s.Errors),
			formatDuration(s.DurationMs),
		})
	}
	return columns, rows
}

func formatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func (m *Model) applyScoreTable() {
	cols, rows := buildScoreTableData(m.scores)
	m.scoreTable.SetColumns(cols)
	m.scoreTable.SetRows(rows)
	m.layout.rowCount = len(rows)
	m.setTableSize(m.width, m.overview.Height)
}

func (m *Model) setTableSize(width, height int) {
	viewportHeight := maxInt(1, height-1)
	if m.layout.width == width && m.layout.height == viewportHeight {
		return
	}
	m.layout.width = width
	m.layout.height = viewportHeight
	m.scoreTable.SetWidth(width)
	m.scoreTable.SetHeight(viewportHeight)
}

func scoreTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromFilter()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.refreshScores()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	title := strings.TrimSpace(m.filterInputs[0].Value())

	sinceInput := strings.TrimSpace(m.filterInputs[1].Value())
	var since *time.Time
	if sinceInput != "" {
		parsed, err := time.ParseInLocation("2006-01-02", sinceInput, time.Local)
		if err != nil {
			return fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		since = &parsed
	}

	lastInput := strings.TrimSpace(m.filterInputs[2].Value())
	last := 0
	if lastInput != "" {
		parsed, err := strconv.Atoi(lastInput)
		if err != nil || parsed < 0 {
			return fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		last = parsed
	}

	m.filter = model.ScoreFilter{
		Title: title,
		Since: since,
		Last:  last,
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
