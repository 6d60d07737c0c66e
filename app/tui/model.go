package tui

import (
	"context"
	"time"

	"blogfront/app/models"
	"blogfront/app/services"
	"blogfront/app/theme"
	"blogfront/app/upstream"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Focus identifies which element receives keystrokes.
type Focus int

const (
	// FocusList means keys page and scroll the post list.
	FocusList Focus = iota
	// FocusSearch means keystrokes go to the header search box.
	FocusSearch
	// FocusTitle, FocusBody and FocusAuthor are the creator form fields.
	FocusTitle
	FocusBody
	FocusAuthor

	focusCount
)

// postsFetchedMsg carries the outcome of one page request together with
// the ticket it was issued under.
type postsFetchedMsg struct {
	ticket services.FetchTicket
	page   *upstream.PostPage
	err    error
}

// loadingDoneMsg fires when the minimum loading window may have passed.
type loadingDoneMsg struct{}

// postCreatedMsg carries the outcome of a submit.
type postCreatedMsg struct {
	post *models.Post
	err  error
}

// noticeExpiredMsg clears the creation toast.
type noticeExpiredMsg struct{}

// Options configures a Model.
type Options struct {
	Service    *services.PostService
	List       services.ListOptions
	BrandTitle string
	Theme      theme.Theme
}

// Model is the top-level bubbletea model for the terminal front end.
type Model struct {
	ctx     context.Context
	service *services.PostService
	list    *services.PostList
	creator *services.PostCreator
	brand   string
	styles  theme.Styles
	keys    KeyMap

	focus  Focus
	search textinput.Model
	title  textinput.Model
	body   textarea.Model
	author textinput.Model

	spinner  spinner.Model
	spinning bool

	// offset is the index of the first visible post.
	offset int
	width  int
	height int
}

// New builds the model. The context bounds every request it issues.
func New(ctx context.Context, opts Options) Model {
	styles := opts.Theme.Terminal()

	search := textinput.New()
	search.Placeholder = "Search posts..."
	search.Prompt = "🔍 "

	title := textinput.New()
	title.Placeholder = "Enter Title"
	title.Prompt = ""

	body := textarea.New()
	body.Placeholder = "Enter Body"
	body.ShowLineNumbers = false
	body.SetHeight(3)

	author := textinput.New()
	author.Placeholder = "Enter author id"
	author.Prompt = ""

	return Model{
		ctx:     ctx,
		service: opts.Service,
		list:    services.NewPostList(opts.List),
		creator: &services.PostCreator{},
		brand:   opts.BrandTitle,
		styles:  styles,
		keys:    DefaultKeyMap,
		search:  search,
		title:   title,
		body:    body,
		author:  author,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Title)),
		// Init starts the spinner along with the first fetch.
		spinning: true,
	}
}

// Init issues the initial page request.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(m.list.BeginFetch()), m.spinner.Tick)
}

// startFetch begins a request for the list's current page.
func (m *Model) startFetch() tea.Cmd {
	ticket := m.list.BeginFetch()
	cmds := []tea.Cmd{m.fetch(ticket)}
	if !m.spinning {
		m.spinning = true
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (m Model) fetch(ticket services.FetchTicket) tea.Cmd {
	service, ctx := m.service, m.ctx
	return func() tea.Msg {
		page, err := service.FetchPage(ctx, ticket)
		return postsFetchedMsg{ticket: ticket, page: page, err: err}
	}
}

func (m Model) create(draft models.Draft) tea.Cmd {
	service, ctx := m.service, m.ctx
	return func() tea.Msg {
		post, err := service.CreatePost(ctx, draft)
		return postCreatedMsg{post: post, err: err}
	}
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.body.SetWidth(max(msg.Width-4, 20))
		return m, nil

	case postsFetchedMsg:
		if !m.service.Settle(m.list, msg.ticket, msg.page, msg.err) {
			return m, nil
		}
		wait := m.list.LoadingUntil.Sub(m.service.Now())
		if wait <= 0 {
			return m, nil
		}
		return m, tea.Tick(wait, func(time.Time) tea.Msg { return loadingDoneMsg{} })

	case loadingDoneMsg:
		return m, nil

	case spinner.TickMsg:
		if !m.list.Loading(m.service.Now()) {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case postCreatedMsg:
		if msg.err != nil {
			// already logged; the draft stays as entered
			return m, nil
		}
		m.creator.Accept(*msg.post, m.service.Now(), m.list.Prepend)
		m.title.Reset()
		m.body.Reset()
		m.author.Reset()
		return m, tea.Tick(services.NoticeDuration, func(time.Time) tea.Msg { return noticeExpiredMsg{} })

	case noticeExpiredMsg:
		m.creator.ActiveNotice(m.service.Now())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	if m.focus != FocusList {
		return m.updateInput(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Abort):
		return m, tea.Quit
	case key.Matches(msg, m.keys.FocusNext):
		return m.setFocus((m.focus + 1) % focusCount)
	case key.Matches(msg, m.keys.FocusPrev):
		return m.setFocus((m.focus + focusCount - 1) % focusCount)
	case key.Matches(msg, m.keys.Blur):
		return m.setFocus(FocusList)
	case key.Matches(msg, m.keys.Submit):
		return m, m.create(m.creator.Draft)
	}

	if m.focus == FocusList {
		return m.handleListKey(msg)
	}
	return m.updateInput(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Search):
		return m.setFocus(FocusSearch)
	case key.Matches(msg, m.keys.NextPage):
		if m.list.NextPage() {
			m.offset = 0
			return m, m.startFetch()
		}
	case key.Matches(msg, m.keys.PreviousPage):
		if m.list.PreviousPage() {
			m.offset = 0
			return m, m.startFetch()
		}
	case key.Matches(msg, m.keys.ScrollDown):
		if m.offset < len(m.list.Visible())-1 {
			m.offset++
		}
	case key.Matches(msg, m.keys.ScrollUp):
		if m.offset > 0 {
			m.offset--
		}
	}
	return m, nil
}

// updateInput forwards a message to the focused input and mirrors its
// value into the owning component.
func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case FocusSearch:
		m.search, cmd = m.search.Update(msg)
		if q := m.search.Value(); q != m.list.Query {
			m.list.SetQuery(q)
			m.offset = 0
		}
	case FocusTitle:
		m.title, cmd = m.title.Update(msg)
		m.change(models.FieldTitle, m.title.Value())
	case FocusBody:
		m.body, cmd = m.body.Update(msg)
		m.change(models.FieldBody, m.body.Value())
	case FocusAuthor:
		m.author, cmd = m.author.Update(msg)
		m.change(models.FieldAuthorID, m.author.Value())
	}
	return m, cmd
}

func (m Model) change(field, value string) {
	// field names are constants, so this cannot fail
	_ = m.creator.Change(field, value)
}

func (m Model) setFocus(f Focus) (tea.Model, tea.Cmd) {
	m.search.Blur()
	m.title.Blur()
	m.body.Blur()
	m.author.Blur()
	m.focus = f

	var cmd tea.Cmd
	switch f {
	case FocusSearch:
		cmd = m.search.Focus()
	case FocusTitle:
		cmd = m.title.Focus()
	case FocusBody:
		cmd = m.body.Focus()
	case FocusAuthor:
		cmd = m.author.Focus()
	}
	return m, cmd
}
