package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"blogfront/app/models"
	"blogfront/app/services"
	"blogfront/app/theme"
	"blogfront/app/upstream/mock"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// testModel builds a model over count fake posts with a clock the test
// controls through *now.
func testModel(t *testing.T, count int, minLoading time.Duration) (Model, *mock.PostsAPI, *time.Time) {
	t.Helper()
	api := mock.NewPostsAPI(count)
	logger, _ := test.NewNullLogger()
	now := t0
	svc := services.NewPostService(api, logger, func() time.Time { return now })
	m := New(context.Background(), Options{
		Service:    svc,
		List:       services.ListOptions{PageSize: 5, MinLoading: minLoading},
		BrandTitle: "My Blog",
		Theme:      theme.Default(),
	})
	return m, api, &now
}

// settle runs the fetch for the list's current ticket and feeds the
// result back through Update.
func settle(t *testing.T, m Model) (Model, tea.Cmd) {
	t.Helper()
	ticket := services.FetchTicket{
		Generation: m.list.Generation,
		Page:       m.list.Pagination.CurrentPage,
		Limit:      m.list.PageSize,
	}
	msg := m.fetch(ticket)()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func sendKey(m Model, keys ...tea.KeyMsg) Model {
	for _, k := range keys {
		updated, _ := m.Update(k)
		m = updated.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m = sendKey(m, runes(string(r)))
	}
	return m
}

var (
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keySave  = tea.KeyMsg{Type: tea.KeyCtrlS}
)

func TestInitialFetch(t *testing.T) {
	m, api, _ := testModel(t, 12, 0)
	require.NotNil(t, m.Init())
	assert.True(t, m.list.Fetching)
	assert.Contains(t, m.View(), "Loading posts")

	m, cmd := settle(t, m)
	assert.Nil(t, cmd)
	assert.Equal(t, []int{1}, api.ListCalls)

	view := m.View()
	assert.Contains(t, view, "My Blog")
	assert.Contains(t, view, "Post 1")
	assert.Contains(t, view, "Page 1 of 3")
	assert.NotContains(t, view, "Loading posts")
}

func TestMinimumLoadingWindow(t *testing.T) {
	m, _, now := testModel(t, 12, time.Second)
	m.Init()

	m, cmd := settle(t, m)
	assert.NotNil(t, cmd, "expected a tick until the loading window ends")
	assert.Contains(t, m.View(), "Loading posts")

	*now = t0.Add(time.Second)
	updated, _ := m.Update(loadingDoneMsg{})
	assert.Contains(t, updated.(Model).View(), "Post 1")
}

func TestPaging(t *testing.T) {
	m, api, _ := testModel(t, 12, 0)
	m.Init()
	m, _ = settle(t, m)

	m = sendKey(m, keyLeft)
	assert.Equal(t, 1, m.list.Pagination.CurrentPage, "previous on page one is a no-op")

	m = sendKey(m, keyRight)
	m, _ = settle(t, m)
	m = sendKey(m, runes("n"))
	m, _ = settle(t, m)
	assert.Equal(t, 3, m.list.Pagination.CurrentPage)
	assert.Contains(t, m.View(), "Post 11")

	m = sendKey(m, keyRight)
	assert.Equal(t, 3, m.list.Pagination.CurrentPage, "next on the last page is a no-op")
	assert.False(t, m.list.Fetching)

	m = sendKey(m, runes("p"))
	m, _ = settle(t, m)
	assert.Equal(t, 2, m.list.Pagination.CurrentPage)
	assert.Equal(t, []int{1, 2, 3, 2}, api.ListCalls)
}

func TestPagingResetsScroll(t *testing.T) {
	m, _, _ := testModel(t, 12, 0)
	m.Init()
	m, _ = settle(t, m)

	m = sendKey(m, runes("j"), runes("j"))
	assert.Equal(t, 2, m.offset)
	m = sendKey(m, keyRight)
	assert.Equal(t, 0, m.offset)
}

func TestStaleFetchIsDropped(t *testing.T) {
	m, _, _ := testModel(t, 12, 0)
	m.Init()
	m, _ = settle(t, m)

	// Page 2 is requested, then page 3 before page 2 answers.
	m = sendKey(m, keyRight)
	stale := m.fetch(services.FetchTicket{Generation: m.list.Generation, Page: 2, Limit: 5})()
	m = sendKey(m, keyRight)
	m, _ = settle(t, m)

	updated, _ := m.Update(stale)
	m = updated.(Model)
	assert.Equal(t, 3, m.list.Pagination.CurrentPage)
	assert.Equal(t, "Post 11", m.list.Posts[0].Title)
}

func TestSearch(t *testing.T) {
	m, api, _ := testModel(t, 12, 0)
	m.Init()
	m, _ = settle(t, m)

	m = sendKey(m, runes("/"))
	require.Equal(t, FocusSearch, m.focus)
	m = typeText(m, "post 2")

	assert.Equal(t, "post 2", m.list.Query)
	assert.Equal(t, []models.Post{m.list.Posts[1]}, m.list.Visible())
	assert.Equal(t, []int{1}, api.ListCalls)

	m = sendKey(m, keyEsc)
	assert.Equal(t, FocusList, m.focus)
	m = sendKey(m, runes("q"))
	assert.Equal(t, "post 2", m.list.Query, "q quits from the list instead of typing")
}

func TestCreatePost(t *testing.T) {
	m, api, now := testModel(t, 5, 0)
	m.Init()
	m, _ = settle(t, m)

	m = sendKey(m, keyTab, keyTab)
	require.Equal(t, FocusTitle, m.focus)
	m = typeText(m, "Hello")
	m = sendKey(m, keyTab)
	m = typeText(m, "World")
	m = sendKey(m, keyTab)
	m = typeText(m, "7")
	assert.Equal(t, models.Draft{Title: "Hello", Body: "World", AuthorID: "7"}, m.creator.Draft)

	updated, cmd := m.Update(keySave)
	m = updated.(Model)
	require.NotNil(t, cmd)
	updated, fade := m.Update(cmd())
	m = updated.(Model)
	require.NotNil(t, fade)

	require.Len(t, api.Created, 1)
	assert.Equal(t, models.Post{ID: 6, Title: "Hello", Body: "World", AuthorID: 7}, m.list.Posts[0])
	assert.Equal(t, models.Draft{}, m.creator.Draft)
	assert.Empty(t, m.title.Value())
	assert.Contains(t, m.View(), "Post created.")

	*now = t0.Add(services.NoticeDuration)
	updated, _ = m.Update(noticeExpiredMsg{})
	m = updated.(Model)
	assert.Nil(t, m.creator.Notice)
	assert.NotContains(t, m.View(), "Post created.")
}

func TestCreatePostFailureKeepsDraft(t *testing.T) {
	m, api, _ := testModel(t, 5, 0)
	api.SetFailCreate(true)
	m.Init()
	m, _ = settle(t, m)

	m = sendKey(m, keyTab, keyTab)
	m = typeText(m, "Kept")
	updated, cmd := m.Update(keySave)
	m = updated.(Model)
	updated, _ = m.Update(cmd())
	m = updated.(Model)

	assert.Equal(t, "Kept", m.creator.Draft.Title)
	assert.Equal(t, "Kept", m.title.Value())
	assert.Nil(t, m.creator.Notice)
	assert.Len(t, m.list.Posts, 5)
}

func TestFetchFailureKeepsPage(t *testing.T) {
	m, api, _ := testModel(t, 12, 0)
	m.Init()
	m, _ = settle(t, m)

	api.SetFailList(true)
	m = sendKey(m, keyRight)
	m, _ = settle(t, m)

	assert.False(t, m.list.Fetching)
	assert.Equal(t, 2, m.list.Pagination.CurrentPage)
	assert.Equal(t, "Post 1", m.list.Posts[0].Title)
}

func TestQuit(t *testing.T) {
	m, _, _ := testModel(t, 1, 0)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestViewShowsPaginationState(t *testing.T) {
	m, _, _ := testModel(t, 3, 0)
	m.Init()
	m, _ = settle(t, m)
	view := m.View()
	assert.Contains(t, view, "Page 1 of 1")
	assert.True(t, strings.Contains(view, "Previous") && strings.Contains(view, "Next"))
}
