// Package teaui hosts the root Bubble Tea model: the movie picker, the
// "show recommendation" action and the recommendation carousel.
package teaui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	appsvc "tableflip.dev/cinerec/pkg/app"
	"tableflip.dev/cinerec/pkg/catalog"
	"tableflip.dev/cinerec/pkg/logging"
	"tableflip.dev/cinerec/pkg/pointer"
	"tableflip.dev/cinerec/pkg/recommend"
	"tableflip.dev/cinerec/pkg/selection"
	"tableflip.dev/cinerec/pkg/tui/components/carousel"
	"tableflip.dev/cinerec/pkg/tui/components/eventviewer"
	"tableflip.dev/cinerec/pkg/tui/components/help"
	"tableflip.dev/cinerec/pkg/tui/components/panel"
	"tableflip.dev/cinerec/pkg/tui/components/picker"
	"tableflip.dev/cinerec/pkg/tui/events"
	"tableflip.dev/cinerec/pkg/tui/theme"
	"tableflip.dev/cinerec/pkg/tui/ui/overlay"
)

const (
	// Title heads the screen.
	Title = "Movie Recommendations"
	// ButtonLabel is the recommendation action.
	ButtonLabel = "Show Recommendation"
	// PanelTitle heads the recommendation panel.
	PanelTitle = "Recommended Movies"
	// PromptText is shown before any recommendation was requested.
	PromptText = `Select a movie and click "Show Recommendation" to see similar movies`
	// LoadingText is shown while recommendations load.
	LoadingText = "Loading recommendations..."
	// EmptyText is shown for an empty or failed result.
	EmptyText = "No recommendations found"

	headerRows = 2
	footerHint = "enter pick • r recommend • ←/→ scroll • ? help • q quit"
)

// Model composes the picker, the action button, the carousel and the
// optional debug and help panes.
type Model struct {
	service *appsvc.Service

	ctx    context.Context
	cancel context.CancelFunc

	bus      *pointer.Bus
	sel      *selection.Controller
	picker   *picker.Model
	carousel *carousel.Model
	panel    *panel.Model
	theme    theme.Theme

	width      int
	height     int
	movieCount int

	// queued is a movie id whose request waits for a cancelled one to return.
	queued int

	status    string
	statusErr bool

	debugEnabled bool
	eventViewer  *eventviewer.Model
	logs         *eventviewer.LogSink

	helpVisible bool
	help        *help.Model
	helpStyle   help.StyleFunc

	closed bool
}

// Option configures the root model.
type Option func(*Model)

// WithLogSink shows log lines collected by sink in the debug pane.
func WithLogSink(sink *eventviewer.LogSink) Option {
	return func(m *Model) { m.logs = sink }
}

// WithHelpStyle fixes the glamour style instead of probing the terminal.
func WithHelpStyle(style help.StyleFunc) Option {
	return func(m *Model) { m.helpStyle = style }
}

// New constructs a root model around service. The picker's outside-press
// subscription is taken here and released when the program quits.
func New(service *appsvc.Service, opts ...Option) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	th := theme.Default()
	sel := selection.New()
	m := &Model{
		service:  service,
		ctx:      ctx,
		cancel:   cancel,
		bus:      pointer.NewBus(),
		sel:      sel,
		picker:   picker.New(sel, picker.Options{ID: "picker", Theme: &th.Picker}),
		carousel: carousel.New("carousel", 1),
		panel:    panel.New(th.Panel),
		theme:    th,
		width:    80,
		height:   24,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.sel.Mount(m.bus, m.pickerRect)
	m.layout()
	return m
}

// Run launches the Bubble Tea program.
func Run(service *appsvc.Service, opts ...Option) error {
	m := New(service, opts...)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	m.teardown()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.picker.Init(), m.loadCatalog(false))
}

// Update routes Bubble Tea messages to composed components.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.closed {
		return m, nil
	}
	m.drainLogs()
	m.noteEvent(msg)

	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		m.layout()
		return m, nil

	case events.CatalogLoadedMsg:
		m.picker.SetCatalog(v.Snapshot)
		m.movieCount = len(v.Snapshot.Movies)
		if v.Err != nil {
			m.setError("Could not load movies")
			m.appendEvent(eventviewer.Entry{Source: "catalog", Summary: "error fetching movies", Detail: v.Err.Error(), Level: eventviewer.LevelError})
		} else if v.Reload {
			m.setStatus(fmt.Sprintf("Reloaded %d movies", len(v.Snapshot.Movies)))
		}
		return m, nil

	case events.MovieSelectMsg:
		if m.service != nil {
			m.service.Recommender.Invalidate(v.Movie.ID)
		}
		m.setStatus(fmt.Sprintf("Selected %s", v.Movie.Title))
		return m, nil

	case events.RecommendationsMsg:
		return m, tea.Batch(m.applyRecommendations(v.Result), m.startQueued())

	case events.PickerStateMsg, events.CarouselScrollMsg:
		return m, nil

	case tea.MouseClickMsg:
		return m, m.handleClick(v)

	case tea.MouseWheelMsg:
		if m.helpVisible {
			_, cmd := m.help.Update(v)
			return m, cmd
		}
		_, cmd := m.carousel.Update(v)
		return m, cmd

	case tea.KeyPressMsg:
		return m, m.handleKey(v)
	}

	if m.sel.IsOpen() {
		_, cmd := m.picker.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(key tea.KeyPressMsg) tea.Cmd {
	k := key.String()
	if k == "ctrl+c" {
		return m.quit()
	}

	if m.helpVisible {
		switch k {
		case "?", "esc", "q":
			m.helpVisible = false
			return nil
		}
		_, cmd := m.help.Update(key)
		return cmd
	}

	if m.sel.IsOpen() {
		_, cmd := m.picker.Update(key)
		return cmd
	}

	switch k {
	case "q":
		return m.quit()
	case "?":
		m.toggleHelp()
		return nil
	case "ctrl+d":
		m.toggleDebug()
		return nil
	case "ctrl+e":
		if m.eventViewer != nil {
			m.setStatus(fmt.Sprintf("Debug log: %s and above", m.eventViewer.CycleLevel()))
		}
		return nil
	case "ctrl+r":
		return m.loadCatalog(true)
	case "r":
		return m.requestRecommendations()
	case "left", "right", "h", "l":
		_, cmd := m.carousel.Update(key)
		return cmd
	case "pgup", "pgdown", "home", "end":
		if m.eventViewer != nil {
			_, cmd := m.eventViewer.Update(key)
			return cmd
		}
		return nil
	}
	_, cmd := m.picker.Update(key)
	return cmd
}

func (m *Model) handleClick(msg tea.MouseClickMsg) tea.Cmd {
	mouse := msg.Mouse()
	ev := pointer.Event{X: mouse.X, Y: mouse.Y, Button: pointerButton(mouse.Button)}
	pickerRect, buttonRect, carouselTop := m.pickerRect(), m.buttonRect(), m.carouselTop()
	wasOpen := m.sel.IsOpen()

	m.bus.Dispatch(ev)
	cmds := []tea.Cmd{m.picker.Sync()}
	if m.helpVisible || ev.Button != pointer.ButtonLeft {
		return tea.Batch(cmds...)
	}

	switch {
	case pickerRect.Contains(ev.X, ev.Y):
		cmds = append(cmds, m.picker.Click(ev.Y-pickerRect.Y))
	case wasOpen:
		// the press only dismisses the open list
	case buttonRect.Contains(ev.X, ev.Y):
		cmds = append(cmds, m.requestRecommendations())
	case ev.Y >= carouselTop:
		cmds = append(cmds, m.carousel.ClickArrow(ev.X-m.panel.BodyLeft()))
	}
	return tea.Batch(cmds...)
}

func pointerButton(b tea.MouseButton) pointer.Button {
	switch b {
	case tea.MouseLeft:
		return pointer.ButtonLeft
	case tea.MouseMiddle:
		return pointer.ButtonMiddle
	case tea.MouseRight:
		return pointer.ButtonRight
	default:
		return pointer.ButtonNone
	}
}

// CanRecommend reports whether the action is enabled: a movie is selected and
// the fetcher would accept a request.
func (m *Model) CanRecommend() bool {
	if m.service == nil {
		return false
	}
	_, ok := m.sel.Selected()
	return ok && !m.service.Recommender.Busy()
}

func (m *Model) requestRecommendations() tea.Cmd {
	if m.service == nil {
		return nil
	}
	chosen, ok := m.sel.Selected()
	if !ok {
		m.setStatus("Select a movie first")
		return nil
	}
	pending, ok := m.service.Recommender.Request(m.ctx, chosen.ID)
	if !ok {
		if !m.service.Recommender.Loading() {
			m.queued = chosen.ID
			m.setStatus(fmt.Sprintf("Waiting to look up %s", chosen.Title))
		}
		return nil
	}
	m.queued = 0
	m.setStatus(fmt.Sprintf("Finding movies like %s", chosen.Title))
	return func() tea.Msg {
		return events.RecommendationsMsg{Result: pending.Do()}
	}
}

// startQueued issues a request held back by a cancelled call, provided the
// movie is still the selection.
func (m *Model) startQueued() tea.Cmd {
	if m.queued == 0 || m.service == nil || m.service.Recommender.Busy() {
		return nil
	}
	id := m.queued
	m.queued = 0
	if chosen, ok := m.sel.Selected(); !ok || chosen.ID != id {
		return nil
	}
	return m.requestRecommendations()
}

func (m *Model) applyRecommendations(res recommend.Result) tea.Cmd {
	if m.service == nil || !m.service.Recommender.Resolve(res) {
		return nil
	}
	snap := m.service.Recommender.Snapshot()
	m.carousel.SetItems(carousel.FromRecommendations(snap.Items, m.service.ImageURL))
	switch snap.Outcome {
	case recommend.OutcomeFailed:
		m.setError("Recommendation service unavailable")
		m.appendEvent(eventviewer.Entry{Source: "recommend", Summary: "error fetching recommendations", Detail: errString(snap.Err), Level: eventviewer.LevelError})
	case recommend.OutcomeEmpty:
		m.setStatus("No recommendations found")
	default:
		m.setStatus(fmt.Sprintf("%d recommendations", len(snap.Items)))
	}
	return nil
}

func (m *Model) loadCatalog(reload bool) tea.Cmd {
	if m.service == nil {
		return nil
	}
	store := m.service.Catalog
	ctx := m.ctx
	if reload {
		m.picker.SetCatalog(catalog.Snapshot{Loading: true})
		m.setStatus("Reloading movies")
	}
	return func() tea.Msg {
		var snap catalog.Snapshot
		if reload {
			snap = store.Reload(ctx)
		} else {
			snap = store.Load(ctx)
		}
		return events.CatalogLoadedMsg{Snapshot: snap, Err: store.LastError(), Reload: reload}
	}
}

func (m *Model) subtitle() string {
	if m.movieCount == 0 {
		return ""
	}
	return m.theme.Header.Subtitle.Render(fmt.Sprintf("%d movies", m.movieCount))
}

func (m *Model) quit() tea.Cmd {
	m.teardown()
	return tea.Quit
}

// teardown cancels outstanding work and releases the pointer subscription.
// Safe to call more than once.
func (m *Model) teardown() {
	if m.closed {
		return
	}
	m.closed = true
	m.cancel()
	m.sel.Unmount()
	if m.service != nil {
		m.service.Recommender.Stop()
	}
	logging.Debug().Msg("ui torn down")
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

func (m *Model) toggleHelp() {
	m.helpVisible = !m.helpVisible
	if m.helpVisible {
		w, h := m.helpSize()
		if m.help == nil {
			m.help = help.New(w, h, m.helpStyle)
			m.help.SetFrame(m.theme.Modal.Frame)
		} else {
			m.help.SetSize(w, h)
		}
	}
}

func (m *Model) helpSize() (int, int) {
	return maxInt(m.width*9/10, 1), maxInt(m.height*9/10, 1)
}

func (m *Model) toggleDebug() {
	if m.debugEnabled {
		m.debugEnabled = false
		m.eventViewer = nil
		m.setStatus("Debug log hidden")
		m.layout()
		return
	}
	m.debugEnabled = true
	m.eventViewer = eventviewer.NewModel(400)
	m.eventViewer.WithStyles(m.theme.Debug)
	m.eventViewer.Append(eventviewer.Entry{Summary: "debug", Detail: "Debug window enabled", Source: "ui"})
	m.setStatus("Debug log visible")
	m.layout()
}

func (m *Model) noteEvent(msg tea.Msg) {
	if m.eventViewer == nil {
		return
	}
	switch msg.(type) {
	case tea.MouseMotionMsg, tea.MouseReleaseMsg:
		return
	}
	source := "tea"
	if s, ok := eventSource(msg); ok && s != "" {
		source = s
	}
	entry := eventviewer.Entry{
		Timestamp: time.Now(),
		Source:    source,
		Summary:   fmt.Sprintf("%T", msg),
		Detail:    describeMsg(msg),
		Level:     eventviewer.LevelInfo,
	}
	if entry.Detail == "" {
		entry.Detail = fmt.Sprintf("%v", msg)
	}
	m.eventViewer.Append(entry)
}

// appendEvent records a failure directly when no log sink is wired; with a
// sink the same failure arrives through the log.
func (m *Model) appendEvent(entry eventviewer.Entry) {
	if m.eventViewer == nil || m.logs != nil {
		return
	}
	m.eventViewer.Append(entry)
}

func (m *Model) drainLogs() {
	if m.logs == nil {
		return
	}
	entries := m.logs.Drain()
	if m.eventViewer != nil && len(entries) > 0 {
		m.eventViewer.AppendAll(entries)
	}
}

func describeMsg(msg tea.Msg) string {
	if d, ok := msg.(interface{ Describe() string }); ok {
		return d.Describe()
	}
	switch v := msg.(type) {
	case tea.KeyPressMsg:
		return fmt.Sprintf("key=%q", v.String())
	case tea.WindowSizeMsg:
		return fmt.Sprintf("size=%dx%d", v.Width, v.Height)
	case tea.MouseClickMsg:
		mouse := v.Mouse()
		return fmt.Sprintf("click=%d,%d", mouse.X, mouse.Y)
	default:
		return ""
	}
}

func eventSource(msg tea.Msg) (string, bool) {
	switch v := msg.(type) {
	case events.MovieSelectMsg:
		return string(v.Component), true
	case events.PickerStateMsg:
		return string(v.Component), true
	case events.CarouselScrollMsg:
		return string(v.Component), true
	case events.CatalogLoadedMsg:
		return "catalog", true
	case events.RecommendationsMsg:
		return "recommend", true
	default:
		return "", false
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// layout pushes the current size into the components.
func (m *Model) layout() {
	if m.width <= 0 {
		m.width = 1
	}
	if m.height <= 0 {
		m.height = 1
	}
	m.picker.SetSize(minInt(m.width, 60), 0)
	m.panel.SetWidth(m.width)
	m.carousel.SetSize(m.panel.InnerWidth(), 0)
	if m.eventViewer != nil {
		m.eventViewer.SetSize(m.width, m.debugHeight())
	}
	if m.help != nil {
		m.help.SetSize(m.helpSize())
	}
}

func (m *Model) debugHeight() int {
	return clamp(m.height/3, 5, 12)
}

func (m *Model) pickerRect() pointer.Rect {
	return pointer.Rect{X: 0, Y: headerRows, Width: m.picker.Width(), Height: m.picker.Height()}
}

func (m *Model) buttonRow() int {
	return headerRows + m.picker.Height()
}

func (m *Model) buttonRect() pointer.Rect {
	return pointer.Rect{X: 0, Y: m.buttonRow(), Width: lipgloss.Width(m.renderButton()), Height: 1}
}

// carouselTop is the first row of the panel body.
func (m *Model) carouselTop() int {
	return m.panelTop() + m.panel.BodyTop()
}

// panelTop leaves one blank row under the button.
func (m *Model) panelTop() int {
	return m.buttonRow() + 2
}

func (m *Model) renderButton() string {
	if m.CanRecommend() {
		return m.theme.Picker.Button.Render(ButtonLabel)
	}
	return m.theme.Picker.ButtonOff.Render(ButtonLabel)
}

// View implements tea.Model.
func (m *Model) View() string {
	sections := []string{
		m.theme.Header.Title.Render(Title),
		m.subtitle(),
		m.picker.View(),
		m.renderButton(),
		"",
		m.renderPanel(),
	}
	body := strings.Join(sections, "\n")

	footer := m.renderFooter()
	debug := ""
	if m.eventViewer != nil {
		debug = m.eventViewer.View()
	}

	used := lipgloss.Height(body) + lipgloss.Height(footer)
	if debug != "" {
		used += lipgloss.Height(debug)
	}
	if pad := m.height - used; pad > 0 {
		body += strings.Repeat("\n", pad)
	}
	parts := []string{body}
	if debug != "" {
		parts = append(parts, debug)
	}
	parts = append(parts, footer)
	screen := strings.Join(parts, "\n")

	if m.helpVisible && m.help != nil {
		center := overlay.Placement{Horizontal: lipgloss.Center, Vertical: lipgloss.Center}
		return overlay.Compose(screen, m.width, m.height, m.help.View(), center)
	}
	return screen
}

func (m *Model) renderPanel() string {
	snap := recommend.Snapshot{}
	if m.service != nil {
		snap = m.service.Recommender.Snapshot()
	}
	switch {
	case !snap.Visible, snap.Phase == recommend.Idle:
		// nothing requested yet, or the request was cancelled by a new selection
		m.panel.SetTitle("")
		m.panel.SetMessage(PromptText)
	case snap.Phase == recommend.Loading:
		m.panel.SetTitle(PanelTitle)
		m.panel.SetMessage(LoadingText)
	case len(snap.Items) == 0:
		m.panel.SetTitle(PanelTitle)
		m.panel.SetMessage(EmptyText)
	default:
		m.panel.SetTitle(PanelTitle)
		m.panel.SetBody(m.carousel.View())
	}
	return m.panel.View()
}

func (m *Model) renderFooter() string {
	status := m.theme.Footer.Status.Render(m.status)
	if m.statusErr {
		status = m.theme.Footer.Error.Render(m.status)
	}
	hint := m.theme.Footer.Help.Render(footerHint)
	gap := m.width - lipgloss.Width(status) - lipgloss.Width(hint)
	if gap < 1 {
		return status
	}
	return status + strings.Repeat(" ", gap) + hint
}

func clamp(value, lower, upper int) int {
	if value < lower {
		return lower
	}
	if value > upper {
		return upper
	}
	return value
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
