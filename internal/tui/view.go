package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/robalobadob/susunkata/internal/game"
	"github.com/robalobadob/susunkata/internal/stats"
)

var (
	styleHeader    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleSubtle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleCursor    = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	styleHighlight = lipgloss.NewStyle().Background(lipgloss.Color("22")).Foreground(lipgloss.Color("0"))
	styleCorrect   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleIncorrect = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleDaily     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleError     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1)
	styleSlot      = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
	styleTile      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Foreground(lipgloss.Color("14"))

	rarityColor = map[stats.Rarity]lipgloss.Color{
		stats.Common:    "7",
		stats.Rare:      "12",
		stats.Epic:      "13",
		stats.Legendary: "11",
	}
)

// View implements tea.Model.
func (m Model) View() string {
	switch m.screen {
	case screenPlay:
		return m.viewPlay()
	case screenSummary:
		return m.viewSummary()
	default:
		return m.viewPick()
	}
}

func (m Model) viewPick() string {
	var b strings.Builder
	b.WriteString(styleHeader.Render("Susun Kata: pick a category"))
	if m.daily {
		b.WriteString(styleDaily.Render("  [daily challenge]"))
	}
	b.WriteString("\n\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	if len(m.filtered) == 0 {
		b.WriteString("No categories match your filter.\n")
	}
	for i, c := range m.filtered {
		cursor := " "
		line := fmt.Sprintf("%-12s %-20s %2d questions", c.ID, c.Name, c.Count)
		if i == m.cursor {
			cursor = styleCursor.Render(">")
			line = styleHighlight.Render(line)
		}
		b.WriteString(cursor + " " + line + "\n")
	}
	if m.err != nil {
		b.WriteString(styleError.Render("Error: " + m.err.Error()))
		b.WriteRune('\n')
	}
	b.WriteString(styleSubtle.Render("\n ↑/↓: navigate | enter: start | ctrl+d: toggle daily | esc: quit"))
	return b.String()
}

func (m Model) viewPlay() string {
	if m.err != nil {
		return styleError.Render("Error: " + m.err.Error())
	}
	snap := m.sess.Snapshot()
	var b strings.Builder

	header := fmt.Sprintf("%s  %d/%d  score %d", snap.Category, snap.Index+1, snap.Total, snap.Score)
	b.WriteString(styleHeader.Render(header))
	if snap.Mode == game.ModeDaily {
		b.WriteString(styleDaily.Render("  [daily]"))
	}
	b.WriteString("\n\n")
	if q := snap.Question; q != nil {
		b.WriteString("  " + q.Translation)
		b.WriteString(styleSubtle.Render(fmt.Sprintf("  (%s)", strings.Repeat("★", q.Difficulty))))
		b.WriteString("\n\n")
		b.WriteString(renderSlots(snap.Slots, q.Breaks))
		b.WriteString("\n")
	}
	tiles := make([]string, 0, len(snap.Tiles))
	for _, t := range snap.Tiles {
		tiles = append(tiles, styleTile.Render(t.Letter))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
	b.WriteString("\n\n")

	if c := snap.LastCheck; c != nil {
		if c.Correct {
			b.WriteString(styleCorrect.Render(m.status))
		} else {
			b.WriteString(styleIncorrect.Render(m.status))
		}
	} else if m.status != "" {
		b.WriteString(styleSubtle.Render(m.status))
	}
	b.WriteRune('\n')
	if m.fx.flash != "" {
		b.WriteString(styleSubtle.Render("! " + m.fx.flash))
		b.WriteRune('\n')
	}
	if m.fx.cue != "" {
		b.WriteString(styleSubtle.Render("♪ " + string(m.fx.cue)))
		b.WriteRune('\n')
	}
	b.WriteString(styleSubtle.Render("\n letters: place | backspace: undo | ctrl+r: reset | tab: shuffle | enter: check/next | esc: back"))
	return b.String()
}

// renderSlots draws one box per slot with a gap where a word ends.
func renderSlots(slots []string, breaks []int) string {
	isBreak := make(map[int]bool, len(breaks))
	for _, i := range breaks {
		isBreak[i] = true
	}
	cells := make([]string, 0, len(slots)+len(breaks))
	for i, s := range slots {
		if isBreak[i] {
			cells = append(cells, "   ")
		}
		if s == "" {
			s = " "
		}
		cells = append(cells, styleSlot.Render(s))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, cells...)
}

func (m Model) viewSummary() string {
	sum := m.sess.Summary()
	if sum == nil {
		return styleError.Render("no summary")
	}
	res := sum.Result
	var b strings.Builder
	b.WriteString(styleHeader.Render("Round complete: " + res.Category))
	b.WriteString("\n\n")
	b.WriteString("  " + styleCorrect.Render(sum.Message) + "\n\n")
	b.WriteString(fmt.Sprintf("  Score:   %d/%d (%.1f%%)\n", res.Score, res.TotalQuestions, res.Percentage))
	b.WriteString(fmt.Sprintf("  Time:    %s (avg %s)\n", res.TotalTime.Round(time.Second), res.AverageTime.Round(100*time.Millisecond)))

	if len(sum.Achievements) > 0 {
		b.WriteString("\n  Achievements\n")
		for _, a := range sum.Achievements {
			title := lipgloss.NewStyle().Foreground(rarityColor[a.Rarity]).Bold(true).Render(a.Title)
			b.WriteString(fmt.Sprintf("   %s  %s\n", title, styleSubtle.Render(a.Description)))
		}
	}

	b.WriteString("\n  Best rounds\n")
	top := sum.Leaderboard
	if len(top) > 5 {
		top = top[:5]
	}
	for i, e := range top {
		b.WriteString(fmt.Sprintf("   %d. %2d pts  %5.1f%%  %8s  %s\n",
			i+1, e.Score, e.Percentage, e.TotalTime.Round(time.Second), e.Date.Local().Format("2006-01-02")))
	}
	b.WriteString(styleSubtle.Render("\n enter: back to categories"))
	return b.String()
}
