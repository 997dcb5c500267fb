// Package tui provides the Bubble Tea play interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/verte-zerg/typeoke/internal/game"
	"github.com/verte-zerg/typeoke/internal/model"
	"github.com/verte-zerg/typeoke/internal/playback"
	"github.com/verte-zerg/typeoke/internal/source"
)

type tickMsg time.Time

type lyricsLoadedMsg struct {
	token  uuid.UUID
	lyrics source.Lyrics
	err    error
}

var (
	correctStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	activeLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	mutedLineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5A5A5A"))
	titleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	footerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	noticeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
)

// Model implements the Bubble Tea play UI. It owns the render loop and the
// tick cadence; all game state lives in the engine.
type Model struct {
	engine       *game.Engine
	clock        playback.Clock
	provider     source.Provider
	track        model.TrackInfo
	tickInterval time.Duration

	width  int
	height int

	loadToken   uuid.UUID
	stalled     bool
	notice      string
	errMsg      string
	durationSet bool
}

// NewModel constructs a play TUI model.
func NewModel(engine *game.Engine, clock playback.Clock, provider source.Provider, track model.TrackInfo, tickInterval time.Duration) *Model {
	if tickInterval <= 0 {
		tickInterval = 50 * time.Millisecond
	}
	m := &Model{
		engine:       engine,
		clock:        clock,
		provider:     provider,
		track:        track,
		tickInterval: tickInterval,
	}
	engine.OnStall(func() {
		m.stalled = true
	})
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.clock.Play()
	return tea.Batch(m.loadLyrics(), m.tick())
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) loadLyrics() tea.Cmd {
	m.loadToken = m.engine.BeginLoad(m.track)
	token := m.loadToken
	provider := m.provider
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		lyrics, err := provider.Load(ctx)
		return lyricsLoadedMsg{token: token, lyrics: lyrics, err: err}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		return m.handleTick(time.Time(msg))
	case lyricsLoadedMsg:
		return m.handleLoaded(msg)
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.clock.Pause()
			return m, tea.Quit
		case tea.KeyCtrlR:
			m.engine.Restart(time.Now())
			m.clock.Seek(0)
			m.notice = ""
			return m, nil
		case tea.KeyTab:
			if m.clock.Playing() {
				m.clock.Pause()
			} else {
				m.clock.Play()
			}
			return m, nil
		case tea.KeyBackspace, tea.KeyDelete:
			m.engine.HandleBackspace(time.Now())
			return m, nil
		case tea.KeySpace:
			m.engine.HandleRunes([]rune{' '}, time.Now())
			return m, nil
		case tea.KeyRunes:
			m.engine.HandleRunes(msg.Runes, time.Now())
			return m, nil
		default:
			return m, nil
		}
	default:
		return m, nil
	}
}

func (m *Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if !m.durationSet {
		if d := m.clock.Duration(); d > 0 {
			m.engine.SetDuration(d)
			m.durationSet = true
		}
	}
	m.engine.HandleTick(m.clock.Position(), m.clock.Playing(), now)
	if m.stalled {
		m.stalled = false
		m.notice = "Lyrics drifted out of sync; reloading..."
		return m, tea.Batch(m.loadLyrics(), m.tick())
	}
	return m, m.tick()
}

func (m *Model) handleLoaded(msg lyricsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.token != m.loadToken {
		// A newer load superseded this one.
		return m, nil
	}
	if msg.err != nil {
		m.errMsg = fmt.Sprintf("failed to load lyrics from %s: %v", m.provider.Name(), msg.err)
		m.engine.DeliverLyrics(msg.token, "", 0)
		return m, nil
	}
	m.errMsg = ""
	m.notice = ""
	if m.track.Title == "" && msg.lyrics.Title != "" {
		m.track.Title = msg.lyrics.Title
	}
	if m.track.Artist == "" && msg.lyrics.Artist != "" {
		m.track.Artist = msg.lyrics.Artist
	}
	m.engine.DeliverLyrics(msg.token, msg.lyrics.Raw, msg.lyrics.Duration)
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	snap := m.engine.Snapshot()
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := m.renderHeader(snap)
	body := m.renderBody(snap)
	footer := m.renderFooter(snap)

	bodyHeight := m.height - 2
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	headerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, header)
	bodyBlock := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return headerLine + "\n" + bodyBlock + "\n" + footerLine
}

func (m *Model) renderHeader(snap game.Snapshot) string {
	title := snap.Track.Title
	if title == "" {
		title = m.provider.Name()
	}
	header := titleStyle.Render(title)
	if snap.Track.Artist != "" {
		header += footerStyle.Render(" — " + snap.Track.Artist)
	}
	return header
}

func (m *Model) renderBody(snap game.Snapshot) string {
	if snap.Loading {
		return pendingStyle.Render("Loading lyrics...")
	}
	if m.errMsg != "" && len(snap.Lines) == 0 {
		return incorrectStyle.Render(m.errMsg)
	}
	if len(snap.Lines) == 0 {
		return pendingStyle.Render("No lyrics available.")
	}

	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}

	lines := make([]string, 0, 5)
	active := snap.ActiveIndex
	if active < 0 {
		// Before the first line: show the upcoming lyrics dimmed.
		for i := 0; i < len(snap.Lines) && i < 3; i++ {
			lines = append(lines, mutedLineStyle.Render(snap.Lines[i].Text))
		}
		lines = append(lines, "", pendingStyle.Render("Get ready..."))
		return strings.Join(lines, "\n")
	}

	if active > 0 {
		lines = append(lines, mutedLineStyle.Render(snap.Lines[active-1].Text))
	}
	lines = append(lines, m.renderActiveLine(snap, contentWidth))
	if active+1 < len(snap.Lines) {
		lines = append(lines, mutedLineStyle.Render(snap.Lines[active+1].Text))
	}
	return strings.Join(lines, "\n")
}

// renderActiveLine paints the current lyric line with per-rune typing state.
// Typing position is tracked over the whole joined target, so the line's
// window is sliced out of the global buffers.
func (m *Model) renderActiveLine(snap game.Snapshot, width int) string {
	lineRunes := []rune(snap.Lines[snap.ActiveIndex].Text)
	start := snap.LineStart
	end := start + len(lineRunes)
	if start > len(snap.Target) {
		start = len(snap.Target)
	}
	if end > len(snap.Target) {
		end = len(snap.Target)
	}
	target := snap.Target[start:end]

	typed := []rune{}
	if len(snap.Typed) > start {
		typedEnd := len(snap.Typed)
		if typedEnd > end {
			typedEnd = end
		}
		typed = snap.Typed[start:typedEnd]
	}

	cursorIndex := -1
	if len(typed) < len(target) {
		cursorIndex = len(typed)
	}
	styled := buildStyledRunes(target, typed, cursorIndex)
	return wrapStyledRunes(styled, width)
}

func (m *Model) renderFooter(snap game.Snapshot) string {
	res := snap.Result
	progress := 0
	if len(snap.Target) > 0 {
		progress = int(float64(len(snap.Typed)) / float64(len(snap.Target)) * 100)
	}
	segments := []string{
		fmt.Sprintf("%s / %s", formatClock(m.clock.Position()), formatClock(m.clock.Duration())),
		fmt.Sprintf("WPM %d", res.WPM),
		fmt.Sprintf("Acc %d%%", res.Accuracy),
		fmt.Sprintf("Errors %d", res.Errors),
		fmt.Sprintf("Progress %d%%", progress),
	}
	if res.Completed {
		segments = append(segments, noticeStyle.Render("Done! ctrl+r to replay"))
	} else if !m.clock.Playing() {
		segments = append(segments, "Paused (tab to resume)")
	} else if snap.State == playback.StateFailed {
		segments = append(segments, "Sync lost")
	}
	if m.notice != "" {
		segments = append(segments, noticeStyle.Render(m.notice))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func formatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
