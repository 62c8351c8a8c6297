package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paperpulse/internal/entity"
	"paperpulse/internal/form"
)

func strPtr(s string) *string { return &s }

func TestTable_AlignsWideRunes(t *testing.T) {
	var buf bytes.Buffer
	err := Table(&buf, []string{"ID", "NAME", "EMAIL"}, [][]string{
		{"1", "Ada", "ada@example.com"},
		{"2", "山田太郎", "yamada@example.jp"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "--  --------  -----------------", lines[1])

	// the EMAIL column starts at the same display offset on every row
	col := runewidth.StringWidth("1   Ada       ")
	for _, line := range []string{lines[2], lines[3]} {
		idx := strings.Index(line, "@")
		prefix := line[:strings.LastIndex(line[:idx], " ")+1]
		assert.Equal(t, col, runewidth.StringWidth(prefix), line)
	}
}

func TestTable_ClipsLongCells(t *testing.T) {
	var buf bytes.Buffer
	long := strings.Repeat("x", 80)
	require.NoError(t, Table(&buf, []string{"TITLE"}, [][]string{{long}}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, MaxCellWidth, runewidth.StringWidth(lines[2]))
	assert.True(t, strings.HasSuffix(lines[2], ellipsis))
}

func TestAuthors(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Authors(&buf, nil))
	assert.Equal(t, "No authors yet.\n", buf.String())

	buf.Reset()
	require.NoError(t, Authors(&buf, []entity.Author{
		{ID: 1, Name: "Ada", Email: "ada@example.com"},
		{ID: 2, Name: "Grace", Email: "grace@example.com", Bio: strPtr("Admiral\nand programmer")},
	}))
	out := buf.String()
	assert.Contains(t, out, "ada@example.com    -\n")
	assert.Contains(t, out, "Admiral and programmer")
}

func TestPapers_UsesAuthorNames(t *testing.T) {
	var buf bytes.Buffer
	papers := []entity.Paper{
		{ID: 1, Title: "Graphs", DOI: "10.1/g", AuthorID: 1},
		{ID: 2, Title: "Types", DOI: "10.1/t", AuthorID: 9},
	}
	names := AuthorNames([]entity.Author{{ID: 1, Name: "Ada"}})
	require.NoError(t, Papers(&buf, papers, names))

	assert.Contains(t, buf.String(), "Ada\n")
	assert.Contains(t, buf.String(), "#9\n")
}

func TestDetails(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Paper(&buf, entity.Paper{ID: 3, Title: "Graphs", DOI: "10.1/g", AuthorID: 4}, ""))
	assert.Equal(t, "ID:       3\nTitle:    Graphs\nDOI:      10.1/g\nAuthor:   #4\nAbstract: -\n", buf.String())

	buf.Reset()
	require.NoError(t, Author(&buf, entity.Author{ID: 1, Name: "Ada", Email: "a@b.co", Bio: strPtr("Poet")}))
	assert.Equal(t, "ID:    1\nName:  Ada\nEmail: a@b.co\nBio:   Poet\n", buf.String())
}

func TestFormErrors(t *testing.T) {
	var buf bytes.Buffer
	err := &form.FormValidationError{Fields: []form.FieldError{
		{Field: "name", Message: "is required"},
		{Field: "email", Message: "must be a valid email address"},
	}}
	require.NoError(t, FormErrors(&buf, err))
	assert.Equal(t, "  name: is required\n  email: must be a valid email address\n", buf.String())
}
