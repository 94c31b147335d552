package ui

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/claimdeck/internal/claims"
	"github.com/five82/claimdeck/internal/config"
	"github.com/five82/claimdeck/internal/format"
	"github.com/five82/claimdeck/internal/prefs"
	"github.com/five82/claimdeck/internal/query"
	"github.com/five82/claimdeck/internal/state"
	"github.com/five82/claimdeck/internal/view"
)

// overlay is the modal currently drawn over the list.
type overlay int

const (
	overlayNone overlay = iota
	overlayHelp
	overlayStatus
	overlayColumns
	overlayDetail
)

const (
	noticeTTL       = 3 * time.Second
	relativeRefresh = time.Minute
	wheelStep       = 3
)

// Refresher forces a refetch that bypasses any cache.
type Refresher interface {
	Refresh(ctx context.Context) ([]claims.Claim, error)
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Source    claims.Source
	Refresher Refresher
	Store     *state.Store
	Config    *config.Config
	Prefs     prefs.Prefs
	PrefsPath string
	Where     *query.Expr
	PollTick  time.Duration
	Logger    *slog.Logger
	Formatter *format.Formatter
}

// detailState is the claim shown in the detail overlay.
type detailState struct {
	claim   format.FormattedClaim
	loading bool
	err     error
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	source    claims.Source
	refresher Refresher
	store     *state.Store
	config    *config.Config
	prefsPath string
	pollTick  time.Duration
	logger    *slog.Logger
	keys      keyMap

	// UI state
	theme   Theme
	width   int
	height  int
	ready   bool
	overlay overlay

	// Derivation
	snapshot    state.Snapshot
	formatter   *format.Formatter
	formattedAt time.Time
	pipeline    *query.Pipeline[format.FormattedClaim]
	composer    *view.Composer
	debouncer   *query.Debouncer
	settled     chan struct{}
	done        chan struct{}
	closeOnce   *sync.Once

	// Query parameters
	statuses query.StatusSet
	sortOpt  query.SortOption
	where    *query.Expr
	hidden   map[query.Column]bool

	// Search input
	searchInput textinput.Model
	searching   bool

	// Derived collections
	all       []format.FormattedClaim
	visible   []format.FormattedClaim
	available []string
	selected  int

	// Overlay cursors
	statusCursor int
	columnCursor int
	detail       *detailState

	notice   string
	noticeAt time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = time.Second
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	formatter := opts.Formatter
	if formatter == nil {
		formatter = format.New()
	}

	p := opts.Prefs
	mode, err := view.ParseMode(p.ViewMode)
	if err != nil {
		mode = view.ModeLinear
	}
	sortOpt, err := query.ParseSortOption(p.Sort)
	if err != nil {
		sortOpt = query.DefaultSort
	}
	hidden := make(map[query.Column]bool)
	for _, c := range p.HiddenColumns {
		hidden[query.Column(c)] = true
	}

	delay := query.DefaultSearchDelay
	if opts.Config != nil {
		delay = opts.Config.SearchDelay()
	}
	settled := make(chan struct{}, 1)
	debouncer := query.NewDebouncer(delay, func(string) {
		select {
		case settled <- struct{}{}:
		default:
		}
	})

	input := textinput.New()
	input.Placeholder = "claim #, holder or policy #"
	input.Prompt = "/ "
	input.CharLimit = 128

	themeName := p.Theme
	if themeName == "" {
		themeName = themeOrder[0]
	}

	return Model{
		ctx:         ctx,
		source:      opts.Source,
		refresher:   opts.Refresher,
		store:       opts.Store,
		config:      opts.Config,
		prefsPath:   opts.PrefsPath,
		pollTick:    pollTick,
		logger:      logger,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(themeName),
		formatter:   formatter,
		pipeline:    query.NewPipeline[format.FormattedClaim](),
		composer:    view.NewComposer(mode, layoutFor(80, 24)),
		debouncer:   debouncer,
		settled:     settled,
		done:        make(chan struct{}),
		closeOnce:   new(sync.Once),
		statuses:    query.NewStatusSet(p.Statuses...),
		sortOpt:     sortOpt,
		where:       opts.Where,
		hidden:      hidden,
		searchInput: input,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.pollTick),
		waitForSettle(m.settled, m.done),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.applyLayout()
		m.searchInput.Width = max(10, m.width/3)
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.derive()
		return m, nil

	case searchSettledMsg:
		m.derive()
		return m, waitForSettle(m.settled, m.done)

	case detailMsg:
		m.handleDetail(msg)
		return m, nil

	case refreshMsg:
		return m.handleRefresh(msg)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	switch m.overlay {
	case overlayHelp:
		return m.renderHelp()
	case overlayStatus:
		return m.renderStatusFilter()
	case overlayColumns:
		return m.renderColumnPicker()
	case overlayDetail:
		return m.renderDetail()
	}
	return m.renderMain()
}

// query assembles the pipeline parameters from the current UI state.
func (m Model) query() query.Query {
	return query.Query{
		Statuses: m.statuses,
		Sort:     m.sortOpt,
		Where:    m.where,
		Term:     m.debouncer.Settled(),
	}
}

// dense selects compact item heights while anything narrows the list.
func (m Model) dense() bool {
	return m.query().Active()
}

// derive reruns format and the query pipeline. Both are memoized, so an
// unchanged snapshot and query cost nothing.
func (m *Model) derive() {
	now := time.Now()
	if now.Sub(m.formattedAt) >= relativeRefresh {
		m.formatter.Reset()
		m.formattedAt = now
	}
	m.all = m.formatter.Format(m.snapshot.Claims)
	m.available = query.AvailableStatuses(m.all)
	m.visible = m.pipeline.Run(m.all, m.query())
	m.clampSelection()
	// Pull both scroll offsets back inside the new content height.
	m.composer.Compose(len(m.visible), m.dense())
}

func (m *Model) clampSelection() {
	switch {
	case len(m.visible) == 0:
		m.selected = 0
	case m.selected >= len(m.visible):
		m.selected = len(m.visible) - 1
	case m.selected < 0:
		m.selected = 0
	}
}

func (m *Model) applyLayout() {
	m.composer.SetLayout(layoutFor(m.width, m.height))
}

// frame composes the window for the current collection.
func (m Model) frame() view.Frame {
	return m.composer.Compose(len(m.visible), m.dense())
}

func (m Model) selectedClaim() (format.FormattedClaim, bool) {
	if m.selected < 0 || m.selected >= len(m.visible) {
		return format.FormattedClaim{}, false
	}
	return m.visible[m.selected], true
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch m.overlay {
	case overlayHelp:
		m.overlay = overlayNone
		return m, nil
	case overlayStatus:
		return m.handleStatusKey(msg)
	case overlayColumns:
		return m.handleColumnsKey(msg)
	case overlayDetail:
		if key.Matches(msg, m.keys.Escape, m.keys.Confirm, m.keys.Quit) {
			m.overlay = overlayNone
			m.detail = nil
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.debouncer.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.overlay = overlayHelp

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.searchInput.SetValue(m.debouncer.Term())
		m.searchInput.CursorEnd()
		cmd := m.searchInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Escape):
		if m.debouncer.Term() != "" {
			m.clearSearch()
		}

	case key.Matches(msg, m.keys.StatusFilter):
		m.overlay = overlayStatus
		m.statusCursor = 0

	case key.Matches(msg, m.keys.Columns):
		m.overlay = overlayColumns
		m.columnCursor = 0

	case key.Matches(msg, m.keys.CycleSort):
		m.setSort(m.sortOpt.Next())

	case key.Matches(msg, m.keys.SortColumn):
		m.sortByColumnKey(msg.String())

	case key.Matches(msg, m.keys.ClearFilters):
		m.statuses = query.NewStatusSet()
		m.clearSearch()
		m.savePrefs()

	case key.Matches(msg, m.keys.ToggleView):
		m.composer.Toggle()
		m.composer.Reveal(m.selected, len(m.visible), m.dense())
		m.savePrefs()

	case key.Matches(msg, m.keys.Refresh):
		if m.refresher != nil {
			return m, refreshCmd(m.ctx, m.refresher, m.store)
		}

	case key.Matches(msg, m.keys.Detail):
		return m.openDetail()

	default:
		m.handleNavKey(msg)
	}
	return m, nil
}

// handleNavKey moves the selection. Grid mode steps a whole row for
// up/down and one card for left/right.
func (m *Model) handleNavKey(msg tea.KeyMsg) {
	total := len(m.visible)
	if total == 0 {
		return
	}
	f := m.frame()
	step := 1
	if f.Mode == view.ModeGrid {
		step = max(1, f.PerRow)
	}
	page := max(1, m.composer.Layout().ContainerHeight/max(1, f.ItemHeight)) * step

	switch {
	case key.Matches(msg, m.keys.Down):
		m.selectIndex(m.selected + step)
	case key.Matches(msg, m.keys.Up):
		m.selectIndex(m.selected - step)
	case key.Matches(msg, m.keys.Right):
		m.selectIndex(m.selected + 1)
	case key.Matches(msg, m.keys.Left):
		m.selectIndex(m.selected - 1)
	case key.Matches(msg, m.keys.PageDown):
		m.selectIndex(m.selected + page)
	case key.Matches(msg, m.keys.PageUp):
		m.selectIndex(m.selected - page)
	case key.Matches(msg, m.keys.Top):
		m.selectIndex(0)
	case key.Matches(msg, m.keys.Bottom):
		m.selectIndex(total - 1)
	}
}

func (m *Model) selectIndex(i int) {
	total := len(m.visible)
	if total == 0 {
		m.selected = 0
		return
	}
	m.selected = min(max(0, i), total-1)
	m.composer.Reveal(m.selected, total, m.dense())
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.overlay != overlayNone || msg.Action != tea.MouseActionPress {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.composer.ScrollBy(-wheelStep)
	case tea.MouseButtonWheelDown:
		m.composer.ScrollBy(wheelStep)
	default:
		return m, nil
	}
	f := m.frame()
	if len(m.visible) > 0 && !m.selectionOnScreen(f) {
		m.selected = f.FirstVisible()
	}
	return m, nil
}

// selectionOnScreen reports whether the selected item's top line sits
// inside the viewport.
func (m Model) selectionOnScreen(f view.Frame) bool {
	top := (m.selected / max(1, f.PerRow)) * f.ItemHeight
	return top >= f.Offset && top < f.Offset+m.composer.Layout().ContainerHeight
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.debouncer.Stop()
		return m, tea.Quit
	case tea.KeyEnter:
		m.searching = false
		m.searchInput.Blur()
		m.debouncer.Flush()
		m.derive()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.searchInput.Blur()
		m.clearSearch()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.debouncer.Set(m.searchInput.Value())
	return m, cmd
}

// clearSearch drops the term without waiting for the debounce delay.
func (m *Model) clearSearch() {
	m.searchInput.SetValue("")
	m.debouncer.Set("")
	m.debouncer.Flush()
	m.derive()
}

func (m *Model) setSort(opt query.SortOption) {
	if opt == m.sortOpt || !opt.Valid() {
		return
	}
	m.sortOpt = opt
	m.derive()
	m.savePrefs()
}

// sortByColumnKey maps a digit to the n-th shown column, like clicking its
// header.
func (m *Model) sortByColumnKey(digit string) {
	if len(digit) != 1 {
		return
	}
	idx := int(digit[0] - '1')
	cols := m.shownColumns()
	if idx < 0 || idx >= len(cols) || !cols[idx].Sortable() {
		return
	}
	m.setSort(query.NextSortForColumn(cols[idx], m.sortOpt))
}

func (m Model) shownColumns() []query.Column {
	all := query.Columns()
	out := make([]query.Column, 0, len(all))
	for _, c := range all {
		if !m.hidden[c] {
			out = append(out, c)
		}
	}
	return out
}

// statusChoices lists the available statuses plus any selected label that
// has disappeared from the data, so it can still be unchecked.
func (m Model) statusChoices() []string {
	out := slices.Clone(m.available)
	for _, label := range m.statuses.Labels() {
		if !slices.Contains(out, label) {
			out = append(out, label)
		}
	}
	return out
}

func (m Model) handleStatusKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	choices := m.statusChoices()
	switch {
	case key.Matches(msg, m.keys.Escape, m.keys.Confirm, m.keys.StatusFilter):
		m.overlay = overlayNone
	case key.Matches(msg, m.keys.Down):
		if m.statusCursor < len(choices)-1 {
			m.statusCursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.statusCursor > 0 {
			m.statusCursor--
		}
	case key.Matches(msg, m.keys.Toggle):
		if m.statusCursor < len(choices) {
			next := m.statuses.Clone()
			next.Toggle(choices[m.statusCursor])
			m.statuses = next
			m.derive()
			m.savePrefs()
		}
	case key.Matches(msg, m.keys.Clear):
		m.statuses = query.NewStatusSet()
		m.derive()
		m.savePrefs()
	case key.Matches(msg, m.keys.Quit):
		m.overlay = overlayNone
	}
	return m, nil
}

func (m Model) handleColumnsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := query.Columns()
	switch {
	case key.Matches(msg, m.keys.Escape, m.keys.Confirm, m.keys.Columns):
		m.overlay = overlayNone
	case key.Matches(msg, m.keys.Down):
		if m.columnCursor < len(cols)-1 {
			m.columnCursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.columnCursor > 0 {
			m.columnCursor--
		}
	case key.Matches(msg, m.keys.Toggle):
		c := cols[m.columnCursor]
		next := maps.Clone(m.hidden)
		if next[c] {
			delete(next, c)
		} else if len(cols)-len(next) > 1 {
			next[c] = true
		}
		m.hidden = next
		m.savePrefs()
	case key.Matches(msg, m.keys.Quit):
		m.overlay = overlayNone
	}
	return m, nil
}

func (m Model) openDetail() (tea.Model, tea.Cmd) {
	c, ok := m.selectedClaim()
	if !ok {
		return m, nil
	}
	m.overlay = overlayDetail
	m.detail = &detailState{claim: c, loading: m.source != nil && c.ID != ""}
	if !m.detail.loading {
		return m, nil
	}
	return m, fetchDetailCmd(m.ctx, m.source, c.ID)
}

func (m *Model) handleDetail(msg detailMsg) {
	if m.detail == nil || m.detail.claim.ID != msg.id {
		return
	}
	m.detail.loading = false
	if msg.err != nil {
		m.detail.err = msg.err
		return
	}
	m.detail.claim = m.formatter.FormatClaim(msg.claim)
}

func (m Model) handleRefresh(msg refreshMsg) (tea.Model, tea.Cmd) {
	switch {
	case errors.Is(msg.err, claims.ErrThrottled):
		m.setNotice("Refresh throttled, try again shortly")
	case msg.err != nil:
		m.setNotice("Refresh failed")
	default:
		m.setNotice("Refreshed")
	}
	if m.store == nil {
		return m, nil
	}
	return m, fetchSnapshotCmd(m.store)
}

func (m *Model) setNotice(text string) {
	m.notice = text
	m.noticeAt = time.Now()
}

// handleTick processes the polling tick.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.notice != "" && now.Sub(m.noticeAt) > noticeTTL {
		m.notice = ""
	}
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) currentPrefs() prefs.Prefs {
	hidden := make([]string, 0, len(m.hidden))
	for _, c := range query.Columns() {
		if m.hidden[c] {
			hidden = append(hidden, string(c))
		}
	}
	return prefs.Prefs{
		Theme:         m.theme.Name,
		ViewMode:      string(m.composer.Mode()),
		Sort:          string(m.sortOpt),
		Statuses:      m.statuses.Labels(),
		HiddenColumns: hidden,
	}
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.currentPrefs()); err != nil {
		m.logger.Warn("save preferences failed", "path", m.prefsPath, "error", err)
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type searchSettledMsg struct{}

type detailMsg struct {
	id    string
	claim claims.Claim
	err   error
}

type refreshMsg struct {
	err error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// waitForSettle blocks until the debouncer settles a term or the model is
// closed.
func waitForSettle(settled <-chan struct{}, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-settled:
			return searchSettledMsg{}
		case <-done:
			return nil
		}
	}
}

// claimRefetcher reads a single claim past any cache in front of the API.
type claimRefetcher interface {
	RefetchClaim(ctx context.Context, id string) (claims.Claim, error)
}

// fetchDetailCmd reloads the claim shown in the detail overlay from the
// API, skipping the list cache when the source has one.
func fetchDetailCmd(ctx context.Context, src claims.Source, id string) tea.Cmd {
	return func() tea.Msg {
		var (
			c   claims.Claim
			err error
		)
		if r, ok := src.(claimRefetcher); ok {
			c, err = r.RefetchClaim(ctx, id)
		} else {
			c, err = src.FetchClaim(ctx, id)
		}
		return detailMsg{id: id, claim: c, err: err}
	}
}

func refreshCmd(ctx context.Context, r Refresher, store *state.Store) tea.Cmd {
	return func() tea.Msg {
		items, err := r.Refresh(ctx)
		if errors.Is(err, claims.ErrThrottled) {
			return refreshMsg{err: err}
		}
		if store != nil {
			store.Update(items, err)
		}
		return refreshMsg{err: err}
	}
}

// Close cancels any pending search and releases the command waiting for it
// to settle. It is safe to call more than once.
func (m Model) Close() {
	m.closeOnce.Do(func() {
		m.debouncer.Stop()
		close(m.done)
	})
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is
// cancelled.
func Run(opts Options) error {
	m := New(opts)
	defer m.Close()
	programOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, programOpts...)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}
