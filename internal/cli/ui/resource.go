package ui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/lvyanru/coractl/internal/cli/types"
)

const maxCellWidth = 40

var (
	titleNodeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	docNodeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	cellStyle      = lipgloss.NewStyle().Padding(0, 1)
	summaryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).MarginTop(1)
)

func truncate(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return runewidth.Truncate(s, maxCellWidth, "…")
}

// renderTable draws rows under headers with the CLI's table style
func renderTable(headers []string, rows [][]string) string {
	for _, row := range rows {
		for i := range row {
			row[i] = truncate(row[i])
		}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(Styles.Muted).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return Styles.Header
			}
			return cellStyle
		}).
		String()
}

func empty(noun string) string {
	return Styles.Muted.Render(fmt.Sprintf("No %s found", noun))
}

// ColoredStatus colors a document status
func ColoredStatus(status string) string {
	switch strings.ToLower(status) {
	case "approved", "active":
		return color.GreenString(status)
	case "pending", "processing":
		return color.YellowString(status)
	case "declined", "rejected", "deleted":
		return color.RedString(status)
	case "":
		return Styles.Muted.Render("unknown")
	default:
		return status
	}
}

// RenderUsers renders user accounts as a table
func RenderUsers(users []types.User) string {
	if len(users) == 0 {
		return empty("users")
	}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.ID.String(), u.Name, u.Email, u.Role, u.Department, u.Status})
	}
	return renderTable([]string{"ID", "NAME", "EMAIL", "ROLE", "DEPARTMENT", "STATUS"}, rows)
}

// RenderDepartments renders departments as a table
func RenderDepartments(depts []types.Department) string {
	if len(depts) == 0 {
		return empty("departments")
	}
	rows := make([][]string, 0, len(depts))
	for _, d := range depts {
		rows = append(rows, []string{d.ID.String(), d.DepartmentName})
	}
	return renderTable([]string{"ID", "DEPARTMENT"}, rows)
}

// RenderDocumentInfo renders document types as a table
func RenderDocumentInfo(infos []types.DocumentInfo) string {
	if len(infos) == 0 {
		return empty("document types")
	}
	rows := make([][]string, 0, len(infos))
	for _, i := range infos {
		rows = append(rows, []string{i.ID.String(), i.Title, i.Description, i.Department})
	}
	return renderTable([]string{"ID", "TITLE", "DESCRIPTION", "DEPARTMENT"}, rows)
}

// RenderConversations renders conversation headers as a table
func RenderConversations(convs []types.Conversation) string {
	if len(convs) == 0 {
		return empty("conversations")
	}
	rows := make([][]string, 0, len(convs))
	for _, c := range convs {
		updated := c.UpdatedAt
		if updated == "" {
			updated = c.CreatedAt
		}
		rows = append(rows, []string{c.ID.String(), c.Title, updated})
	}
	return renderTable([]string{"ID", "TITLE", "UPDATED"}, rows)
}

// RenderDocumentTree renders documents grouped under their title
func RenderDocumentTree(docs []types.Document) string {
	if len(docs) == 0 {
		return empty("documents")
	}

	groups := make(map[string][]types.Document)
	for _, d := range docs {
		title := d.Title
		if title == "" {
			title = "(untitled)"
		}
		groups[title] = append(groups[title], d)
	}
	titles := make([]string, 0, len(groups))
	for t := range groups {
		titles = append(titles, t)
	}
	sort.Strings(titles)

	var out strings.Builder
	for i, title := range titles {
		root := tree.Root(titleNodeStyle.Render(title))
		for _, d := range groups[title] {
			root.Child(buildDocumentNode(d))
		}
		out.WriteString(root.String())
		if i < len(titles)-1 {
			out.WriteString("\n")
		}
	}
	return out.String()
}

func buildDocumentNode(d types.Document) *tree.Tree {
	name := d.FileName
	if name == "" {
		name = "manual entry"
	}
	node := tree.New().Root(fmt.Sprintf("%s %s", docNodeStyle.Render(name), Styles.Muted.Render("#"+d.ID.String())))
	node.Child(formatKeyValue("Status:", ColoredStatus(d.Status)))
	if d.Department != "" {
		node.Child(formatKeyValue("Department:", d.Department))
	}
	if len(d.Keywords) > 0 {
		node.Child(formatKeyValue("Keywords:", strings.Join(d.Keywords, ", ")))
	}
	if d.UploadedBy != "" {
		node.Child(formatKeyValue("Uploaded by:", d.UploadedBy))
	}
	if d.Remarks != "" {
		node.Child(formatKeyValue("Remarks:", truncate(d.Remarks)))
	}
	return node
}

// formatKeyValue formats a key-value pair
func formatKeyValue(key, value string) string {
	return fmt.Sprintf("%s %s", Styles.Muted.Render(key), value)
}

// RenderTopTitles renders the most searched titles as a bar chart
func RenderTopTitles(rows []types.TitleCount) string {
	if len(rows) == 0 {
		return empty("searches")
	}

	maxCount, labelWidth := 0, 0
	for _, r := range rows {
		maxCount = max(maxCount, r.Count)
		labelWidth = max(labelWidth, runewidth.StringWidth(truncate(r.Title)))
	}

	const barWidth = 30
	var out strings.Builder
	for _, r := range rows {
		n := 0
		if maxCount > 0 {
			n = r.Count * barWidth / maxCount
		}
		fmt.Fprintf(&out, "%s  %s %s\n",
			runewidth.FillRight(truncate(r.Title), labelWidth),
			Styles.Highlight.Render(strings.Repeat("█", n)),
			Styles.Value.Render(strconv.Itoa(r.Count)))
	}
	return strings.TrimRight(out.String(), "\n")
}

// RenderSatisfaction renders rating metrics with a per-star distribution
func RenderSatisfaction(m *types.SatisfactionMetrics) string {
	if m == nil || m.TotalReviews == 0 {
		return empty("reviews")
	}

	var out strings.Builder
	fmt.Fprintf(&out, "%s %s\n", formatKeyValue("Average:", Styles.Highlight.Render(fmt.Sprintf("%.2f", m.Average))),
		Styles.Muted.Render(fmt.Sprintf("(%d reviews)", m.TotalReviews)))

	keys := make([]string, 0, len(m.Distribution))
	for k := range m.Distribution {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	for _, k := range keys {
		fmt.Fprintf(&out, "  %s★ %d\n", k, m.Distribution[k])
	}
	return strings.TrimRight(out.String(), "\n")
}

// RenderSettings renders the branding with color swatches
func RenderSettings(s types.AppSettings) string {
	swatch := func(hex string) string {
		return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("    ") + " " + hex
	}
	logo := s.LogoPath
	if logo == "" {
		logo = Styles.Muted.Render("(none)")
	}
	lines := []string{
		formatKeyValue("Name:", s.Name),
		formatKeyValue("Logo:", logo),
		formatKeyValue("Primary:", swatch(s.PrimaryColor)),
		formatKeyValue("Secondary:", swatch(s.SecondaryColor)),
	}
	return strings.Join(lines, "\n")
}

// RenderSummary renders a "Total: N nouns" line
func RenderSummary(count int, singular, plural string) string {
	label := plural
	if count == 1 {
		label = singular
	}
	return summaryStyle.Render(fmt.Sprintf("Total: %s %s",
		Styles.Highlight.Render(strconv.Itoa(count)),
		Styles.Muted.Render(label)))
}
