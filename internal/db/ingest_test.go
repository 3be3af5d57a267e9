//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package db

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testcsv = `id,title,authors,published_date,summary
p1,Graph Neural Networks,"['Alice Smith', 'Bob Jones']",3/14/24,We study graphs.
p2,Old Paper,"[""Carol King""]",1/2/99,Classic methods.
,Untitled Authors,,1/1/20,no authors here
p4,,"['Dan']",1/1/20,no title
p5,Year Less,"Erin, Frank",,no date
`

func TestReadCSV(t *testing.T) {
	docs, rep, err := ReadCSV(strings.NewReader(testcsv))
	require.NoError(t, err)

	assert.Equal(t, 5, rep.Rows)
	assert.Equal(t, 2, rep.Accepted)
	assert.Equal(t, 3, rep.Skipped)
	assert.Equal(t, 1, rep.Reasons["no authors"])
	assert.Equal(t, 1, rep.Reasons["no title"])
	assert.Equal(t, 1, rep.Reasons["no year"])

	require.Len(t, docs, 2)
	assert.Equal(t, "p1", docs[0].ID)
	assert.Equal(t, []string{"Alice Smith", "Bob Jones"}, docs[0].Authors)
	assert.Equal(t, 2024, docs[0].Year)
	assert.Equal(t, "We study graphs.", docs[0].RawText)
	assert.Equal(t, []string{"Carol King"}, docs[1].Authors)
	assert.Equal(t, 1999, docs[1].Year)
}

func TestParseYear(t *testing.T) {
	cases := map[string]int{
		"3/14/24":    2024,
		"12/31/49":   2049,
		"1/1/50":     1950,
		"6/1/1987":   1987,
		"2021":       2021,
		"2019-05-07": 2019,
	}
	for in, want := range cases {
		got, ok := ParseYear(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseYear("sometime")
	assert.False(t, ok)
}

func TestParseAuthorsField(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, ParseAuthorsField(`['A', 'B']`))
	assert.Equal(t, []string{"O'Brien", "C"}, ParseAuthorsField(`["O'Brien", "C"]`))
	assert.Equal(t, []string{"A B", "C"}, ParseAuthorsField(" A   B , C ,"))
	assert.Equal(t, []string{"A"}, ParseAuthorsField([]any{"A", "A", 3}))
	assert.Nil(t, ParseAuthorsField(""))
}

func TestReadYAMLAndJSON(t *testing.T) {
	dir := t.TempDir()
	y := filepath.Join(dir, "c.yaml")
	require.NoError(t, os.WriteFile(y, []byte(`
- title: First
  authors: [A, B]
  year: 2024
  summary: text one
- title: Second
  authors: "C, D"
  published_date: 5/5/23
`), 0644))
	docs, rep, err := LoadCorpusFile(y)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Accepted)
	assert.Equal(t, 2024, docs[0].Year)
	assert.Equal(t, 2023, docs[1].Year)
	assert.NotEmpty(t, docs[1].ID)

	j := filepath.Join(dir, "c.json")
	require.NoError(t, os.WriteFile(j, []byte(`[{"title":"T","authors":["X"],"year":2020,"abstract":"abs"}]`), 0644))
	docs, _, err = LoadCorpusFile(j)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "abs", docs[0].RawText)

	_, _, err = LoadCorpusFile(filepath.Join(dir, "c.xml"))
	assert.Error(t, err)
}

func TestDocumentIDStable(t *testing.T) {
	a := DocumentID("Title", 2024, []string{"A", "B"})
	assert.Equal(t, a, DocumentID("title", 2024, []string{"A", "B"}))
	assert.NotEqual(t, a, DocumentID("Title", 2025, []string{"A", "B"}))
}
