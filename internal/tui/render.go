package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Sternrassler/pokedex-client/pkg/client"
	"github.com/Sternrassler/pokedex-client/pkg/pagination"
	"github.com/Sternrassler/pokedex-client/pkg/view"
)

// paginationDelta is the number of pages shown on each side of the current one.
const paginationDelta = 2

// statBarWidth is the width of a full (100%) stat bar.
const statBarWidth = 30

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Pokédex"))
	b.WriteRune('\n')

	if m.screen == screenDetail {
		b.WriteString(m.viewDetail())
	} else {
		b.WriteString(m.viewTabs())
		b.WriteString("\n\n")
		b.WriteString(m.viewList())
		b.WriteRune('\n')
		b.WriteString(m.viewFooter())
	}

	b.WriteString("\n\n")
	if m.showHelp {
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return b.String()
}

// viewTabs renders the mode selector.
func (m Model) viewTabs() string {
	labels := []struct {
		mode  view.Mode
		label string
	}{
		{view.ModePageControls, " Page Controls "},
		{view.ModeInfiniteScroll, " Load More "},
	}

	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		if m.ctrl.Mode() == l.mode {
			parts = append(parts, activeTabStyle.Render(l.label))
		} else {
			parts = append(parts, inactiveTabStyle.Render(l.label))
		}
	}
	return strings.Join(parts, " ")
}

// viewList renders the item list or a status message.
func (m Model) viewList() string {
	status := m.ctrl.Status()
	items := m.ctrl.Items()

	switch {
	case status.Err != nil && len(items) == 0:
		return errorStyle.Render(view.MsgListError) + "\n" + dimStyle.Render("Press r to retry.")
	case status.Loading:
		return m.spinner.View() + " " + dimStyle.Render(view.MsgLoadingList)
	case len(items) == 0:
		return dimStyle.Render("No Pokémon found.")
	}

	var b strings.Builder
	if status.Err != nil {
		b.WriteString(errorStyle.Render(view.MsgListError + " Press r to retry."))
		b.WriteRune('\n')
	}

	start, end := window(m.cursor, len(items), m.listHeight())
	for i := start; i < end; i++ {
		item := items[i]
		id := view.FormatID(item.ID, view.DefaultIDDigits)
		// "> " prefix plus id and separator
		name := fit(view.DisplayName(item.Name), m.width-3-runewidth.StringWidth(id))
		line := idStyle.Render(id) + " " + name
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(normalStyle.Render("  " + line))
		}
		if i < end-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

// viewFooter renders page controls or the load-more state.
func (m Model) viewFooter() string {
	status := m.ctrl.Status()
	shown := len(m.ctrl.Items())

	if m.ctrl.Mode() == view.ModeInfiniteScroll {
		if status.Loading {
			return ""
		}
		line := dimStyle.Render(view.LoadedInfo(shown, status.HasMore))
		label := view.LoadMoreLabel(status.FetchingMore, status.HasMore)
		if status.FetchingMore {
			label = m.spinner.View() + " " + label
		}
		return line + "\n" + label
	}

	if !m.ctrl.ShowPagination() {
		return ""
	}

	page, total := m.ctrl.Page(), m.ctrl.TotalPages()
	return renderPages(page, pagination.VisiblePages(page, total, paginationDelta)) + "\n" +
		dimStyle.Render(view.PageInfo(page, total, shown))
}

// renderPages renders a page window such as "‹ 1 … 4 [5] 6 … 58 ›".
func renderPages(current int, pages []int) string {
	parts := make([]string, 0, len(pages)+2)
	parts = append(parts, "‹")
	for _, p := range pages {
		switch {
		case p == pagination.Ellipsis:
			parts = append(parts, "…")
		case p == current:
			parts = append(parts, currentPageStyle.Render("["+strconv.Itoa(p)+"]"))
		default:
			parts = append(parts, strconv.Itoa(p))
		}
	}
	parts = append(parts, "›")
	return strings.Join(parts, " ")
}

// viewDetail renders the detail screen.
func (m Model) viewDetail() string {
	state := m.ctrl.Detail()

	switch {
	case state.IsError() && client.IsNotFound(state.Err):
		return errorStyle.Render(view.MsgNotFound) + "\n" + dimStyle.Render("Press esc to go back.")
	case state.IsError():
		return errorStyle.Render(view.MsgDetailError) + "\n" + dimStyle.Render("Press r to retry, esc to go back.")
	case !state.HasData:
		return m.spinner.View() + " " + dimStyle.Render(view.MsgLoadingDetail)
	}

	return renderDetail(state.Data, m.width)
}

// renderDetail renders a detail record. Free-text lines are cut to width
// when width is positive.
func renderDetail(d *client.ItemDetail, width int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", view.DisplayName(d.Name), idStyle.Render(view.FormatID(d.ID, view.DefaultIDDigits)))

	badges := make([]string, 0, len(d.Types))
	for _, t := range d.TypeNames() {
		badges = append(badges, typeBadge(t))
	}
	b.WriteString(strings.Join(badges, " "))
	b.WriteRune('\n')

	b.WriteString(sectionStyle.Render("Info"))
	b.WriteRune('\n')
	fmt.Fprintf(&b, "Height:          %s\n", view.FormatHeight(d.Height))
	fmt.Fprintf(&b, "Weight:          %s\n", view.FormatWeight(d.Weight))
	fmt.Fprintf(&b, "Base experience: %d\n", d.BaseExperience)

	if len(d.Abilities) > 0 {
		abilities := make([]string, 0, len(d.Abilities))
		for _, a := range d.Abilities {
			name := view.DisplayName(a.Ability.Name)
			if a.IsHidden {
				name += " (hidden)"
			}
			abilities = append(abilities, name)
		}
		fmt.Fprintf(&b, "Abilities:       %s\n", fit(strings.Join(abilities, ", "), width-17))
	}

	b.WriteString(sectionStyle.Render("Base Stats"))
	b.WriteRune('\n')
	for _, row := range view.StatRows(d) {
		filled := int(row.Percent / 100 * statBarWidth)
		bar := barStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", statBarWidth-filled))
		fmt.Fprintf(&b, "%-12s %3d %s\n", row.Label, row.Value, bar)
	}

	if d.Sprites.FrontDefault != nil {
		b.WriteRune('\n')
		b.WriteString(dimStyle.Render(fit(*d.Sprites.FrontDefault, width)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// fit truncates s to width terminal cells, marking the cut with an ellipsis.
// A non-positive width leaves s untouched, which is the case before the
// first window size message arrives.
func fit(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// window returns the [start, end) range of rows to render so that cursor
// stays visible.
func window(cursor, n, height int) (int, int) {
	if n <= height {
		return 0, n
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > n {
		start = n - height
	}
	return start, start + height
}
