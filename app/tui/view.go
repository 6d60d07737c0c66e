package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"blogfront/app/services"

	"github.com/charmbracelet/lipgloss"
)

// View renders the header, the creator form, the post list and the toast.
func (m Model) View() string {
	now := m.service.Now()
	sections := []string{
		m.viewHeader(),
		m.viewCreator(),
		m.viewPosts(now),
		m.viewPagination(),
	}
	if n := m.creator.Notice; n.Active(now) {
		sections = append(sections, m.styles.Toast.Render(n.Title+" "+n.Description))
	}
	sections = append(sections, m.styles.Faint.Render("tab: next field · /: search · ←/→: page · C-s: submit · q: quit"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewHeader() string {
	h := services.NewHeader(m.brand, m.list)
	bar := m.styles.Navbar.Render(h.Title)
	if !h.ShowSearch {
		return bar
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, bar, " ", m.box(FocusSearch).Render(m.search.View()))
}

func (m Model) box(f Focus) lipgloss.Style {
	if m.focus == f {
		return m.styles.Focused
	}
	return m.styles.Box
}

func (m Model) viewCreator() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Heading.Render("Create Post"),
		m.box(FocusTitle).Render(m.title.View()),
		m.box(FocusBody).Render(m.body.View()),
		m.box(FocusAuthor).Render(m.author.View()),
		m.styles.Button.Render("Submit (C-s)"),
	)
}

func (m Model) viewPosts(now time.Time) string {
	var b strings.Builder
	b.WriteString(m.styles.Heading.Render("Recent Posts"))
	b.WriteString("\n")

	if m.list.Loading(now) {
		b.WriteString(m.spinner.View() + " Loading posts...")
		return b.String()
	}

	posts := m.list.Visible()
	if len(posts) == 0 {
		b.WriteString(m.styles.Faint.Render("No posts found."))
		return b.String()
	}
	offset := min(m.offset, len(posts)-1)
	for _, p := range posts[offset:] {
		b.WriteString(m.styles.Title.Render(p.Title))
		b.WriteString("\n")
		b.WriteString(m.styles.Body.Render(p.Body))
		b.WriteString("\n")
		b.WriteString(m.styles.Author.Render(strconv.Itoa(p.AuthorID)))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewPagination() string {
	p := m.list.Pagination
	prev := m.styles.Disabled.Render("← Previous")
	if p.HasPrevious() {
		prev = m.styles.Button.Render("← Previous")
	}
	next := m.styles.Disabled.Render("Next →")
	if p.HasNext() {
		next = m.styles.Button.Render("Next →")
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, prev, fmt.Sprintf("  Page %d of %d  ", p.CurrentPage, p.TotalPages), next)
}
