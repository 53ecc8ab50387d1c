package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/assetwatch/internal/adapters/transport"
	"github.com/kamal-hamza/assetwatch/internal/core/domain"
	"github.com/kamal-hamza/assetwatch/internal/core/services"
	"github.com/kamal-hamza/assetwatch/pkg/eventloop"
	"github.com/kamal-hamza/assetwatch/pkg/ui"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w"},
	Short:   "Live asset table (alias: w)",
	Long: `Launch a full-screen table that follows the asset server in real time.

Assets that changed in the last update are highlighted for a few seconds.
The connection badge shows the transport and its state, and the time until
the next retry while the server is unreachable.

Keyboard Shortcuts:
  Navigation:
    ↑/k         Move up
    ↓/j         Move down
    g           Jump to top
    G           Jump to bottom

  Live:
    t           Toggle WebSocket / SSE
    p           Send a ping (WebSocket only)

  View:
    /           Search
    f           Cycle type filter
    s           Cycle sort key
    r           Reverse order
    Enter       Asset details
    y           Copy asset id
    ?           Show help

  General:
    q           Quit
    Ctrl+C      Force quit`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(getContext())
	defer cancel()

	loop := eventloop.New(appLogger)
	loop.Start()
	defer loop.Stop()

	facade, err := newFacade(loop, appLogger)
	if err != nil {
		return err
	}
	defer facade.Close()

	box := newViewMailbox()
	unsubscribe := facade.Subscribe(box.Put)
	defer unsubscribe()

	if err := facade.Select(appConfig.TransportKind()); err != nil {
		return err
	}
	followConfig(ctx, facade, appLogger)

	m := newWatchModel(ctx, facade, box, watchOptions{
		Lookup:     listService.Get,
		DateFormat: appConfig.DateFormat,
		SortBy:     appConfig.DefaultSort,
		Reverse:    appConfig.ReverseSort,
	})

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Enable mouse support
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running watch: %w", err)
	}
	return nil
}

// viewMailbox hands facade views to the TUI. Put runs on the event loop
// and never blocks; a reader only ever sees the latest view.
type viewMailbox struct {
	mu     sync.Mutex
	latest services.View
	notify chan struct{}
}

func newViewMailbox() *viewMailbox {
	return &viewMailbox{notify: make(chan struct{}, 1)}
}

// Put replaces the pending view
func (b *viewMailbox) Put(v services.View) {
	b.mu.Lock()
	b.latest = v
	b.mu.Unlock()

	select {
	case b.notify <- struct{}{}:
	default:
	}
}

// Wait blocks until a view is pending or ctx is done
func (b *viewMailbox) Wait(ctx context.Context) (services.View, bool) {
	select {
	case <-b.notify:
	case <-ctx.Done():
		return services.View{}, false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.latest, true
}

// liveSource is the part of the facade the TUI drives
type liveSource interface {
	Toggle() (domain.TransportKind, error)
	Seed(ctx context.Context) error
	Send(text string) error
}

type watchOptions struct {
	Lookup     func(ctx context.Context, id string) (*domain.Asset, error)
	DateFormat string
	SortBy     string
	Reverse    bool
}

// Watch view modes
type viewMode int

const (
	modeList viewMode = iota
	modeSearch
	modeDetail
	modeHelp
)

// Watch model
type watchModel struct {
	ctx    context.Context
	source liveSource
	box    *viewMailbox
	lookup func(ctx context.Context, id string) (*domain.Asset, error)

	view   services.View
	rows   domain.Snapshot // view.Snapshot after query
	query  services.AssetQuery
	cursor int
	offset int

	mode        viewMode
	searchInput textinput.Model
	detail      viewport.Model
	detailID    string
	help        help.Model
	keys        keyMap
	dateFormat  string

	width         int
	height        int
	ready         bool
	message       string
	messageStyle  lipgloss.Style
	messageExpiry time.Time
}

// Key bindings
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Top     key.Binding
	Bottom  key.Binding
	Toggle  key.Binding
	Ping    key.Binding
	Search  key.Binding
	Filter  key.Binding
	Sort    key.Binding
	Reverse key.Binding
	Detail  key.Binding
	Copy    key.Binding
	Help    key.Binding
	Quit    key.Binding
	Escape  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Search, k.Detail, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Toggle, k.Ping, k.Detail, k.Copy},
		{k.Search, k.Filter, k.Sort, k.Reverse},
		{k.Help, k.Escape, k.Quit},
	}
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "move down"),
	),
	Top: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "top"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("G"),
		key.WithHelp("G", "bottom"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "toggle transport"),
	),
	Ping: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "ping"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Filter: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "type filter"),
	),
	Sort: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "sort"),
	),
	Reverse: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reverse"),
	),
	Detail: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "details"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy id"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
}

func newWatchModel(ctx context.Context, source liveSource, box *viewMailbox, opts watchOptions) watchModel {
	ti := textinput.New()
	ti.Placeholder = "Search assets..."
	ti.CharLimit = 100
	ti.Width = 50

	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle().Foreground(ui.ColorDefault)

	dateFormat := opts.DateFormat
	if dateFormat == "" {
		dateFormat = "2006-01-02 15:04:05"
	}

	return watchModel{
		ctx:         ctx,
		source:      source,
		box:         box,
		lookup:      opts.Lookup,
		query:       services.AssetQuery{SortBy: opts.SortBy, Reverse: opts.Reverse},
		mode:        modeList,
		searchInput: ti,
		detail:      vp,
		help:        help.New(),
		keys:        keys,
		dateFormat:  dateFormat,
	}
}

// Messages
type viewMsg struct {
	view services.View
}

type statusMsg struct {
	message string
	style   lipgloss.Style
}

type clearMessageMsg struct{}

type detailLoadedMsg struct {
	id      string
	content string
}

type transportMsg struct {
	kind domain.TransportKind
	err  error
}

// waitForView delivers the next view from the mailbox
func waitForView(ctx context.Context, box *viewMailbox) tea.Cmd {
	return func() tea.Msg {
		v, ok := box.Wait(ctx)
		if !ok {
			return nil
		}
		return viewMsg{view: v}
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(waitForView(m.ctx, m.box), m.seed())
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true

		m.detail.Width = msg.Width - 4
		m.detail.Height = msg.Height - 12
		if m.detail.Height < 5 {
			m.detail.Height = 5
		}
		m.adjustViewport()
		return m, nil

	case viewMsg:
		m.setView(msg.view)
		return m, waitForView(m.ctx, m.box)

	case tea.KeyMsg:
		// Handle mode-specific key bindings
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeDetail:
			return m.updateDetail(msg)
		case modeHelp:
			return m.updateHelp(msg)
		default:
			return m.updateList(msg)
		}

	case statusMsg:
		return m.setMessage(msg.message, msg.style)

	case clearMessageMsg:
		if !time.Now().Before(m.messageExpiry) {
			m.message = ""
		}
		return m, nil

	case transportMsg:
		if msg.err != nil {
			return m.setMessage(fmt.Sprintf("Switch failed: %v", msg.err), ui.StyleError)
		}
		return m.setMessage("Switched to "+msg.kind.Label(), ui.StyleSuccess)

	case detailLoadedMsg:
		if msg.id == m.detailID {
			m.detail.SetContent(msg.content)
			m.detail.GotoTop()
		}
		return m, nil
	}

	if m.mode == modeDetail {
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m watchModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.adjustViewport()
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.adjustViewport()
		}

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		m.offset = 0

	case key.Matches(msg, m.keys.Bottom):
		if len(m.rows) > 0 {
			m.cursor = len(m.rows) - 1
			m.adjustViewport()
		}

	case key.Matches(msg, m.keys.Toggle):
		return m, m.toggleTransport()

	case key.Matches(msg, m.keys.Ping):
		return m, m.ping()

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Filter):
		m.query.Type = nextType(m.query.Type)
		m.refresh(m.selectedID())

	case key.Matches(msg, m.keys.Sort):
		m.query.SortBy = nextSort(m.query.SortBy)
		m.refresh(m.selectedID())

	case key.Matches(msg, m.keys.Reverse):
		m.query.Reverse = !m.query.Reverse
		m.refresh(m.selectedID())

	case key.Matches(msg, m.keys.Detail):
		if asset, ok := m.selected(); ok {
			m.mode = modeDetail
			m.detailID = asset.ID
			m.detail.SetContent(highlightJSON(assetJSON(asset)))
			m.detail.GotoTop()
			return m, m.loadDetail(asset)
		}

	case key.Matches(msg, m.keys.Copy):
		if asset, ok := m.selected(); ok {
			return m, copyID(asset.ID)
		}

	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
	}

	return m, nil
}

func (m watchModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = modeList
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.refresh(m.selectedID())
		return m, nil

	// Enter keeps the filter and returns to the table
	case msg.Type == tea.KeyEnter:
		m.mode = modeList
		m.searchInput.Blur()
		return m, nil

	// Only use arrow keys for navigation in search mode, not j/k
	case msg.Type == tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
			m.adjustViewport()
		}

	case msg.Type == tea.KeyDown:
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.adjustViewport()
		}

	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit

	default:
		m.searchInput, cmd = m.searchInput.Update(msg)
		m.refresh(m.selectedID())
		return m, cmd
	}

	return m, nil
}

func (m watchModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Detail), msg.String() == "q":
		m.mode = modeList
		m.detailID = ""
		return m, nil

	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit

	case key.Matches(msg, m.keys.Copy):
		return m, copyID(m.detailID)
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m watchModel) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Quit):
		m.mode = modeList
	}
	return m, nil
}

func (m watchModel) setMessage(message string, style lipgloss.Style) (tea.Model, tea.Cmd) {
	m.message = message
	m.messageStyle = style
	m.messageExpiry = time.Now().Add(3 * time.Second)
	return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearMessageMsg{} })
}

// setView installs a new facade view, keeping the cursor on the same asset
func (m *watchModel) setView(v services.View) {
	selected := m.selectedID()
	m.view = v
	m.refresh(selected)
}

// refresh recomputes the visible rows and moves the cursor to selectedID
// when it is still visible
func (m *watchModel) refresh(selectedID string) {
	q := m.query
	q.Search = m.searchInput.Value()
	m.rows = services.ApplyQuery(m.view.Snapshot, q)

	if selectedID != "" {
		for i, a := range m.rows {
			if a.ID == selectedID {
				m.cursor = i
				break
			}
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.adjustViewport()
}

func (m watchModel) selected() (domain.Asset, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return domain.Asset{}, false
	}
	return m.rows[m.cursor], true
}

func (m watchModel) selectedID() string {
	if a, ok := m.selected(); ok {
		return a.ID
	}
	return ""
}

func (m watchModel) listHeight() int {
	h := m.height - 10 // Reserve space for header, search, footer
	if h < 3 {
		h = 3
	}
	return h
}

func (m *watchModel) adjustViewport() {
	listHeight := m.listHeight()

	// Scroll down
	if m.cursor >= m.offset+listHeight {
		m.offset = m.cursor - listHeight + 1
	}
	// Scroll up
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// Commands

func (m watchModel) seed() tea.Cmd {
	source, ctx := m.source, m.ctx
	return func() tea.Msg {
		if err := source.Seed(ctx); err != nil {
			return statusMsg{
				message: fmt.Sprintf("Initial load failed: %v", err),
				style:   ui.StyleWarning,
			}
		}
		return nil
	}
}

func (m watchModel) toggleTransport() tea.Cmd {
	source := m.source
	return func() tea.Msg {
		kind, err := source.Toggle()
		return transportMsg{kind: kind, err: err}
	}
}

func (m watchModel) ping() tea.Cmd {
	source := m.source
	return func() tea.Msg {
		err := source.Send("ping")
		switch {
		case errors.Is(err, transport.ErrSendUnsupported):
			return statusMsg{message: "SSE is receive-only, press t for WebSocket", style: ui.StyleWarning}
		case errors.Is(err, services.ErrNotConnected):
			return statusMsg{message: "Not connected", style: ui.StyleWarning}
		case err != nil:
			return statusMsg{message: fmt.Sprintf("Ping failed: %v", err), style: ui.StyleError}
		}
		return statusMsg{message: "Ping sent", style: ui.StyleSuccess}
	}
}

// loadDetail fetches the asset from the REST API, falling back to the
// copy in the live snapshot
func (m watchModel) loadDetail(local domain.Asset) tea.Cmd {
	lookup, ctx := m.lookup, m.ctx
	return func() tea.Msg {
		content := highlightJSON(assetJSON(local))
		if lookup == nil {
			return detailLoadedMsg{id: local.ID, content: content}
		}
		asset, err := lookup(ctx, local.ID)
		if err != nil {
			return detailLoadedMsg{
				id:      local.ID,
				content: content + "\n\n" + ui.FormatWarning(fmt.Sprintf("Showing live copy: %v", err)),
			}
		}
		return detailLoadedMsg{id: local.ID, content: highlightJSON(assetJSON(*asset))}
	}
}

func copyID(id string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(id); err != nil {
			return statusMsg{message: "Clipboard access failed", style: ui.StyleError}
		}
		return statusMsg{message: "Copied " + id, style: ui.StyleSuccess}
	}
}

// Rendering

func (m watchModel) View() string {
	if !m.ready {
		return "\n  Connecting..."
	}

	if m.mode == modeHelp {
		return m.viewHelp()
	}

	var s strings.Builder
	s.WriteString(m.renderHeader())
	s.WriteString("\n")
	s.WriteString(m.renderSearchBar())
	s.WriteString("\n\n")
	if m.mode == modeDetail {
		s.WriteString(m.renderDetail())
	} else {
		s.WriteString(m.renderTable())
	}
	s.WriteString("\n")
	s.WriteString(m.renderFooter())
	return s.String()
}

func (m watchModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(ui.ColorPrimary).
		Bold(true).
		Padding(0, 1)

	title := titleStyle.Render(ui.IconAsset + " assetwatch")
	stats := connectionStatus(m.view) + "  " +
		ui.StyleMuted.Render(fmt.Sprintf("%d/%d assets", len(m.rows), len(m.view.Snapshot)))

	// Create a two-column layout
	spacer := m.width - lipgloss.Width(title) - lipgloss.Width(stats)
	if spacer < 1 {
		spacer = 1
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		title,
		strings.Repeat(" ", spacer),
		stats,
	)
}

func (m watchModel) renderSearchBar() string {
	borderColor := ui.ColorMuted
	if m.mode == modeSearch {
		borderColor = ui.ColorPrimary
	}

	width := m.width - 4
	if width < 20 {
		width = 20
	}
	searchStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(width)

	prompt := ui.StyleMuted.Render("🔍 ")
	if m.mode == modeSearch {
		prompt = ui.StylePrimary.Render("🔍 ")
	}

	content := prompt + m.searchInput.View()
	if m.mode != modeSearch && m.searchInput.Value() == "" {
		content = prompt + ui.StyleMuted.Render("Press / to search...")
	}

	if chips := m.queryChips(); chips != "" {
		content += "  " + chips
	}
	return searchStyle.Render(content)
}

// queryChips summarizes the active filter and order
func (m watchModel) queryChips() string {
	var chips []string
	if m.query.Type != "" {
		chips = append(chips, "type:"+string(m.query.Type))
	}
	if m.query.SortBy != "" {
		order := "↑"
		if m.query.Reverse {
			order = "↓"
		}
		chips = append(chips, "sort:"+m.query.SortBy+" "+order)
	} else if m.query.Reverse {
		chips = append(chips, "reversed")
	}
	if len(chips) == 0 {
		return ""
	}
	return ui.StyleAccent.Render(strings.Join(chips, "  "))
}

// column widths of the live table; name takes what is left
const (
	colID       = 8
	colType     = 5
	colSpacing  = 2
	colMinName  = 12
	cursorWidth = 2
)

func (m watchModel) columnWidths() (name, modified int) {
	modified = len(m.dateFormat)
	name = m.width - cursorWidth - colID - colType - modified - 3*colSpacing - 2
	if name < colMinName {
		name = colMinName
	}
	return name, modified
}

func (m watchModel) renderTable() string {
	var s strings.Builder

	if len(m.rows) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Padding(2, 4)

		switch {
		case len(m.view.Snapshot) > 0:
			s.WriteString(emptyStyle.Render("No assets match the current filter."))
		case m.view.State == domain.StateConnected:
			s.WriteString(emptyStyle.Render("The server has no assets."))
		default:
			s.WriteString(emptyStyle.Render("Waiting for data..."))
		}
		return s.String()
	}

	nameWidth, modWidth := m.columnWidths()
	header := strings.Repeat(" ", cursorWidth) + joinCells(
		[]string{"ID", "NAME", "TYPE", "MODIFIED"},
		[]int{colID, nameWidth, colType, modWidth},
	)
	s.WriteString(ui.StyleTableHeader.Render(header))
	s.WriteString("\n")

	// Render visible rows
	start := m.offset
	end := m.offset + m.listHeight()
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := start; i < end; i++ {
		s.WriteString(m.renderRow(m.rows[i], i == m.cursor, nameWidth, modWidth))
		s.WriteString("\n")
	}

	if hidden := len(m.rows) - end; hidden > 0 {
		s.WriteString(ui.StyleMuted.Render(fmt.Sprintf("  … %d more", hidden)))
		s.WriteString("\n")
	}
	return s.String()
}

func (m watchModel) renderRow(asset domain.Asset, selected bool, nameWidth, modWidth int) string {
	cursor := "  "
	style := lipgloss.NewStyle().Foreground(ui.ColorDefault)
	if selected {
		cursor = ui.StylePrimary.Render("▶ ")
		style = ui.StylePrimary.Copy().Bold(true)
	}
	if m.view.Highlights.Has(asset.ID) {
		style = ui.StyleHighlight
		if selected {
			style = ui.StyleHighlight.Copy().Underline(true)
		}
	}

	line := joinCells(
		[]string{
			asset.ShortID(),
			ui.Truncate(asset.Name, nameWidth),
			string(asset.Type),
			asset.FormatModified(m.dateFormat),
		},
		[]int{colID, nameWidth, colType, modWidth},
	)
	return cursor + style.Render(line)
}

func joinCells(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = padRight(c, widths[i])
	}
	return strings.Join(parts, strings.Repeat(" ", colSpacing))
}

func (m watchModel) renderDetail() string {
	title := lipgloss.NewStyle().
		Foreground(ui.ColorPrimary).
		Bold(true).
		Render(m.detailID)

	scroll := ui.StyleMuted.Render(fmt.Sprintf("↑/↓ to scroll • %d%%", int(m.detail.ScrollPercent()*100)))

	return ui.StyleDetailPanel.
		Width(m.width - 2).
		Render(title + "\n" + scroll + "\n" + m.detail.View())
}

func (m watchModel) renderFooter() string {
	// Status message
	var statusLine string
	switch {
	case m.message != "" && time.Now().Before(m.messageExpiry):
		statusLine = m.messageStyle.Render(m.message)
	case m.view.Live:
		statusLine = ui.StyleMuted.Render("Live · updated " + m.view.UpdatedAt.Format("15:04:05"))
	case len(m.view.Snapshot) > 0:
		statusLine = ui.StyleMuted.Render("Initial list · waiting for live data")
	default:
		statusLine = ui.StyleMuted.Render("Ready")
	}

	footerStyle := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ui.ColorMuted).
		Padding(0, 1)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		statusLine,
		m.help.View(m.keys),
	)
	return footerStyle.Render(content)
}

func (m watchModel) viewHelp() string {
	var s strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorPrimary).
		Padding(1, 2)

	s.WriteString(titleStyle.Render("assetwatch - Keyboard Shortcuts"))
	s.WriteString("\n\n")

	full := m.help
	full.ShowAll = true
	s.WriteString(lipgloss.NewStyle().Padding(0, 2).Render(full.View(m.keys)))
	s.WriteString("\n\n")
	s.WriteString(ui.StyleMuted.Render("  Highlighted rows changed in the last update."))
	s.WriteString("\n")
	s.WriteString(ui.StyleMuted.Render("  Press ESC or ? to return"))
	s.WriteString("\n")

	return s.String()
}

func padRight(s string, width int) string {
	// Strip ANSI codes to get real length
	realLen := lipgloss.Width(s)
	if realLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-realLen)
}
