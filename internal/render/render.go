// Package render formats catalog entities as aligned plain-text tables for
// terminals. Widths are measured in display cells so CJK names and
// accented text line up.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"paperpulse/internal/entity"
	"paperpulse/internal/form"
)

const (
	// MaxCellWidth caps every column; longer values are cut with an ellipsis.
	MaxCellWidth = 48
	ellipsis     = "..."
	none         = "-"
)

// Table writes headers and rows as space-separated aligned columns.
// The last column is never padded.
func Table(w io.Writer, headers []string, rows [][]string) error {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	cells := make([][]string, len(rows))
	for r, row := range rows {
		cells[r] = make([]string, len(headers))
		for i := range headers {
			if i >= len(row) {
				continue
			}
			cell := clip(row[i])
			cells[r][i] = cell
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	var sb strings.Builder
	writeRow(&sb, headers, widths)
	sep := make([]string, len(headers))
	for i, wd := range widths {
		sep[i] = strings.Repeat("-", wd)
	}
	writeRow(&sb, sep, widths)
	for _, row := range cells {
		writeRow(&sb, row, widths)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeRow(sb *strings.Builder, row []string, widths []int) {
	for i, cell := range row {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(cell)
		if i < len(row)-1 {
			if pad := widths[i] - runewidth.StringWidth(cell); pad > 0 {
				sb.WriteString(strings.Repeat(" ", pad))
			}
		}
	}
	sb.WriteString("\n")
}

func clip(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.Truncate(s, MaxCellWidth, ellipsis)
}

func optional(s *string) string {
	if s == nil || *s == "" {
		return none
	}
	return *s
}

func Authors(w io.Writer, authors []entity.Author) error {
	if len(authors) == 0 {
		_, err := fmt.Fprintln(w, "No authors yet.")
		return err
	}
	rows := make([][]string, len(authors))
	for i, a := range authors {
		rows[i] = []string{strconv.Itoa(a.ID), a.Name, a.Email, optional(a.Bio)}
	}
	return Table(w, []string{"ID", "NAME", "EMAIL", "BIO"}, rows)
}

// Papers lists papers with their author's name when names has it, falling
// back to the raw author id.
func Papers(w io.Writer, papers []entity.Paper, names map[int]string) error {
	if len(papers) == 0 {
		_, err := fmt.Fprintln(w, "No papers yet.")
		return err
	}
	rows := make([][]string, len(papers))
	for i, p := range papers {
		rows[i] = []string{strconv.Itoa(p.ID), p.Title, p.DOI, authorLabel(p.AuthorID, names)}
	}
	return Table(w, []string{"ID", "TITLE", "DOI", "AUTHOR"}, rows)
}

func authorLabel(id int, names map[int]string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return "#" + strconv.Itoa(id)
}

// AuthorNames indexes authors by id.
func AuthorNames(authors []entity.Author) map[int]string {
	names := make(map[int]string, len(authors))
	for _, a := range authors {
		names[a.ID] = a.Name
	}
	return names
}

func Author(w io.Writer, a entity.Author) error {
	return details(w, [][2]string{
		{"ID", strconv.Itoa(a.ID)},
		{"Name", a.Name},
		{"Email", a.Email},
		{"Bio", optional(a.Bio)},
	})
}

// Paper writes one paper. authorName may be empty when the author could
// not be loaded.
func Paper(w io.Writer, p entity.Paper, authorName string) error {
	by := authorName
	if by == "" {
		by = "#" + strconv.Itoa(p.AuthorID)
	}
	return details(w, [][2]string{
		{"ID", strconv.Itoa(p.ID)},
		{"Title", p.Title},
		{"DOI", p.DOI},
		{"Author", by},
		{"Abstract", optional(p.Abstract)},
	})
}

func details(w io.Writer, pairs [][2]string) error {
	width := 0
	for _, p := range pairs {
		width = max(width, runewidth.StringWidth(p[0]))
	}
	var sb strings.Builder
	for _, p := range pairs {
		sb.WriteString(runewidth.FillRight(p[0]+":", width+1))
		sb.WriteString(" ")
		sb.WriteString(p[1])
		sb.WriteString("\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// FormErrors writes one line per invalid field.
func FormErrors(w io.Writer, err *form.FormValidationError) error {
	var sb strings.Builder
	for _, f := range err.Fields {
		fmt.Fprintf(&sb, "  %s: %s\n", f.Field, f.Message)
	}
	_, werr := io.WriteString(w, sb.String())
	return werr
}
