// internal/tui/model.go
//
// Terminal front-end built on bubbletea.
// Screens:
//   - pick:    category list with a text filter; ctrl+d toggles daily mode.
//   - play:    the answer board. Letters place the first matching tile, backspace
//              clears the last filled slot, ctrl+r resets, tab shuffles,
//              enter submits and then advances.
//   - summary: tier message, achievements and the top of the leaderboard.
// esc goes back one screen; ctrl+c quits from anywhere.

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/susunkata/internal/catalog"
	"github.com/robalobadob/susunkata/internal/clock"
	"github.com/robalobadob/susunkata/internal/daily"
	"github.com/robalobadob/susunkata/internal/event"
	"github.com/robalobadob/susunkata/internal/game"
	"github.com/robalobadob/susunkata/internal/leaderboard"
	"github.com/robalobadob/susunkata/internal/random"
	"github.com/robalobadob/susunkata/internal/sound"
	"github.com/robalobadob/susunkata/internal/store"
)

// Options configure the front-end.
type Options struct {
	Catalog          catalog.Catalog
	Store            store.Store
	Preloader        game.Preloader
	Clock            clock.Clock
	QuestionsPerGame int
	MinQuestions     int
	DailySalt        string
	Sounds           sound.Player // optional speaker; cues are always shown in the status line
}

type screen int

const (
	screenPick screen = iota
	screenPlay
	screenSummary
)

// Model is the bubbletea model.
type Model struct {
	opts   Options
	board  *leaderboard.Board
	bus    *event.Bus
	unsub  func()
	screen screen

	filter   textinput.Model
	all      []catalog.Category
	filtered []catalog.Category
	cursor   int
	daily    bool

	sess   *game.Session
	fx     *feedback
	status string
	err    error
}

// feedback collects what the engine reports through the bus and the speaker.
// It sits behind a pointer so every copy of Model sees the same values.
type feedback struct {
	speaker sound.Player
	cue     sound.Cue
	flash   string
}

func (f *feedback) onEvent(e event.Event) {
	switch e.Kind {
	case event.AssetUnavailable:
		f.flash = "images unavailable, showing text only"
	case event.SessionFailed:
		f.flash = e.Err
	}
}

func (f *feedback) onCue(c sound.Cue) {
	f.cue = c
	if f.speaker != nil {
		f.speaker.Play(c)
	}
}

// New builds the model on the category picker.
func New(opts Options) Model {
	if opts.Store == nil {
		opts.Store = store.NewMemoryStore()
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	filter := textinput.New()
	filter.Placeholder = "Filter categories..."
	filter.Focus()
	filter.CharLimit = 40
	filter.Width = 40
	filter.Prompt = "> "

	m := Model{
		opts:   opts,
		board:  leaderboard.New(opts.Store),
		bus:    event.NewBus(),
		filter: filter,
		fx:     &feedback{speaker: opts.Sounds},
	}
	if opts.Catalog != nil {
		m.all = opts.Catalog.Categories()
	}
	m.filtered = m.all
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	switch m.screen {
	case screenPlay:
		return m.updatePlay(msg)
	case screenSummary:
		return m.updateSummary(msg)
	default:
		return m.updatePick(msg)
	}
}

func (m *Model) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.filtered = m.filtered[:0:0]
	for _, c := range m.all {
		if q == "" || strings.Contains(strings.ToLower(c.ID), q) || strings.Contains(strings.ToLower(c.Name), q) {
			m.filtered = append(m.filtered, c)
		}
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = 0
	}
}

func (m Model) updatePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.Type {
		case tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case tea.KeyDown:
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			return m, nil
		case tea.KeyCtrlD:
			m.daily = !m.daily
			return m, nil
		case tea.KeyEnter:
			if len(m.filtered) == 0 {
				return m, nil
			}
			m.start(m.filtered[m.cursor].ID)
			return m, nil
		}
	}

	var cmd tea.Cmd
	old := m.filter.Value()
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != old {
		m.applyFilter()
	}
	return m, cmd
}

// start builds and starts a session for category.
func (m *Model) start(category string) {
	m.stop()
	m.err, m.status = nil, ""
	m.fx.cue, m.fx.flash = "", ""

	mode := game.ModeNormal
	selector := random.New()
	if m.daily {
		mode = game.ModeDaily
		selector = random.NewSeeded(daily.Seed(m.opts.Clock.Now(), m.opts.DailySalt, category))
	}
	m.unsub = m.bus.Subscribe(m.fx.onEvent)
	sess := game.New(game.Deps{
		Catalog:     m.opts.Catalog,
		Selector:    selector,
		Store:       m.opts.Store,
		Leaderboard: m.board,
		Events:      m.bus,
		Sounds:      sound.PlayerFunc(m.fx.onCue),
		Clock:       m.opts.Clock,
		Preloader:   m.opts.Preloader,
	}, game.Options{
		QuestionsPerGame: m.opts.QuestionsPerGame,
		MinQuestions:     m.opts.MinQuestions,
		Mode:             mode,
	})
	m.sess = sess
	if err := sess.Start(context.Background(), category); err != nil {
		m.err = err
		log.Warn().Err(err).Str("category", category).Msg("start session")
		return
	}
	m.screen = screenPlay
	m.filter.Blur()
}

// stop detaches the current session from the bus.
func (m *Model) stop() {
	if m.unsub != nil {
		m.unsub()
		m.unsub = nil
	}
	m.sess = nil
}

func (m Model) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok || m.sess == nil {
		return m, nil
	}
	ctx := context.Background()
	m.status = ""
	var err error

	switch k.Type {
	case tea.KeyEsc:
		m.stop()
		m.screen = screenPick
		m.filter.Focus()
		return m, textinput.Blink
	case tea.KeyBackspace:
		if last := m.sess.Board().LastFilled(); last >= 0 {
			err = m.sess.ClearSlot(last)
		}
	case tea.KeyCtrlR:
		err = m.sess.ClearAll()
	case tea.KeyTab:
		err = m.sess.ShuffleTiles()
	case tea.KeyEnter:
		switch m.sess.State() {
		case game.StatePlaying:
			var c game.Check
			c, err = m.sess.Submit(ctx)
			if err == nil {
				m.status = checkMessage(c)
			}
		case game.StateChecking:
			err = m.sess.Advance(ctx)
			if err == nil && m.sess.State() == game.StateCompleted {
				m.screen = screenSummary
			}
		}
	case tea.KeyRunes:
		for _, r := range k.Runes {
			if !unicode.IsLetter(r) {
				continue
			}
			letter := strings.ToUpper(string(r))
			idx := m.sess.Board().TileIndex(letter)
			if idx < 0 {
				m.status = fmt.Sprintf("no %s tile left", letter)
				continue
			}
			if err = m.sess.PlaceTile(idx); err != nil {
				break
			}
		}
	}

	if err != nil {
		m.status = errMessage(err)
	}
	if m.sess.State() == game.StateError {
		m.err = m.sess.Err()
	}
	return m, nil
}

func (m Model) updateSummary(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && (k.Type == tea.KeyEnter || k.Type == tea.KeyEsc) {
		m.stop()
		m.screen = screenPick
		m.filter.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func checkMessage(c game.Check) string {
	if c.Correct {
		return "Correct!  (enter: next)"
	}
	return fmt.Sprintf("Not quite, the answer is %s  (enter: next)", c.Answer)
}

func errMessage(err error) string {
	switch {
	case errors.Is(err, game.ErrIncompleteAnswer):
		return "fill every slot first"
	case errors.Is(err, game.ErrNoEmptySlot):
		return "every slot is filled"
	case errors.Is(err, game.ErrInvalidTransition):
		return "not now"
	default:
		return err.Error()
	}
}
