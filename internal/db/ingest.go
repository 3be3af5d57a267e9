//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package db

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/e-gun/PaperScopeServer/internal/errs"
	"github.com/e-gun/PaperScopeServer/internal/gen"
	"github.com/e-gun/PaperScopeServer/internal/str"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

var (
	// DocNamespace - the uuid namespace for document ids
	DocNamespace = uuid.MustParse("6f1c7a52-3b0e-5d8e-9a51-0c2f4b7d1e90")
	pylistitem   = regexp.MustCompile(`'((?:[^'\\]|\\.)*)'|"((?:[^"\\]|\\.)*)"`)
	fourdigits   = regexp.MustCompile(`^\d{4}$`)
)

// IngestReport - what happened to the rows of an input file
type IngestReport struct {
	Rows     int
	Accepted int
	Skipped  int
	Reasons  map[string]int
}

func (r *IngestReport) skip(why string) {
	r.Skipped++
	if r.Reasons == nil {
		r.Reasons = make(map[string]int)
	}
	r.Reasons[why]++
}

// rawrecord - the loosely typed shape shared by every input format
type rawrecord struct {
	ID      string `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Authors any    `json:"authors" yaml:"authors"`
	Year    any    `json:"year" yaml:"year"`
	Date    string `json:"published_date" yaml:"published_date"`
	Text    string `json:"summary" yaml:"summary"`
	Abstr   string `json:"abstract" yaml:"abstract"`
	Body    string `json:"text" yaml:"text"`
}

// LoadCorpusFile - read a .csv, .json, .yaml or .yml file of papers
func LoadCorpusFile(path string) ([]*str.Document, IngestReport, error) {
	const (
		OP    = "LoadCorpusFile"
		FAIL1 = "unsupported corpus file type '%s'"
	)
	f, err := os.Open(path)
	if err != nil {
		return nil, IngestReport{}, errs.E(errs.Validation, OP, path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(f)
	case ".json":
		return ReadJSON(f)
	case ".yaml", ".yml":
		return ReadYAML(f)
	default:
		return nil, IngestReport{}, errs.NewValidation(OP, FAIL1, filepath.Ext(path))
	}
}

// ReadCSV - one paper per row; the header names the columns
func ReadCSV(r io.Reader) ([]*str.Document, IngestReport, error) {
	const (
		OP    = "ReadCSV"
		FAIL1 = "the csv header has no 'title' column"
	)
	var rep IngestReport

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, rep, errs.E(errs.Validation, OP, "could not read csv header", err)
	}

	col := make(map[string]int)
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := col["title"]; !ok {
		return nil, rep, errs.NewValidation(OP, FAIL1)
	}

	get := func(row []string, names ...string) string {
		for _, n := range names {
			if i, ok := col[n]; ok && i < len(row) {
				return row[i]
			}
		}
		return ""
	}

	var docs []*str.Document
	for {
		row, e := cr.Read()
		if e == io.EOF {
			break
		}
		if e != nil {
			rep.Rows++
			rep.skip("malformed row")
			continue
		}
		rep.Rows++
		rr := rawrecord{
			ID:      get(row, "id"),
			Title:   get(row, "title"),
			Authors: get(row, "authors", "author"),
			Year:    get(row, "year", "publication_year", "publicationyear"),
			Date:    get(row, "published_date", "date"),
			Text:    get(row, "summary", "abstract", "text", "raw_text"),
		}
		if d, why := rr.todocument(); d != nil {
			docs = append(docs, d)
			rep.Accepted++
		} else {
			rep.skip(why)
		}
	}
	return docs, rep, nil
}

// ReadJSON - a JSON array of paper objects
func ReadJSON(r io.Reader) ([]*str.Document, IngestReport, error) {
	var rr []rawrecord
	if err := json.NewDecoder(r).Decode(&rr); err != nil {
		return nil, IngestReport{}, errs.E(errs.Validation, "ReadJSON", "could not decode json", err)
	}
	return fromrecords(rr)
}

// ReadYAML - a YAML list of paper mappings
func ReadYAML(r io.Reader) ([]*str.Document, IngestReport, error) {
	var rr []rawrecord
	if err := yaml.NewDecoder(r).Decode(&rr); err != nil && err != io.EOF {
		return nil, IngestReport{}, errs.E(errs.Validation, "ReadYAML", "could not decode yaml", err)
	}
	return fromrecords(rr)
}

func fromrecords(rr []rawrecord) ([]*str.Document, IngestReport, error) {
	var rep IngestReport
	var docs []*str.Document
	for _, r := range rr {
		rep.Rows++
		if d, why := r.todocument(); d != nil {
			docs = append(docs, d)
			rep.Accepted++
		} else {
			rep.skip(why)
		}
	}
	return docs, rep, nil
}

func (r rawrecord) todocument() (*str.Document, string) {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return nil, "no title"
	}

	aa := ParseAuthorsField(r.Authors)
	if len(aa) == 0 {
		return nil, "no authors"
	}

	yr, ok := yearof(r.Year)
	if !ok {
		yr, ok = ParseYear(r.Date)
	}
	if !ok {
		return nil, "no year"
	}

	txt := r.Text
	if txt == "" {
		txt = r.Abstr
	}
	if txt == "" {
		txt = r.Body
	}

	id := strings.TrimSpace(r.ID)
	if id == "" {
		id = DocumentID(title, yr, aa)
	}

	return &str.Document{
		ID:      id,
		Title:   title,
		Authors: aa,
		Year:    yr,
		RawText: txt,
	}, ""
}

// DocumentID - stable across re-ingestion of the same paper
func DocumentID(title string, year int, authors []string) string {
	key := fmt.Sprintf("%s|%d|%s", strings.ToLower(title), year, strings.Join(authors, ";"))
	return uuid.NewSHA1(DocNamespace, []byte(key)).String()
}

func yearof(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, t != 0
	case float64:
		return int(t), t != 0
	case string:
		s := strings.TrimSpace(t)
		if fourdigits.MatchString(s) {
			y, _ := strconv.Atoi(s)
			return y, true
		}
		return ParseYear(s)
	default:
		return 0, false
	}
}

// ParseYear - "2024", "2024-03-01", or "m/d/yy" where yy >= 50 is 19yy and yy < 50 is 20yy
func ParseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if fourdigits.MatchString(s) {
		y, _ := strconv.Atoi(s)
		return y, true
	}
	if len(s) >= 5 && fourdigits.MatchString(s[:4]) && (s[4] == '-' || s[4] == '/') {
		y, _ := strconv.Atoi(s[:4])
		return y, true
	}

	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return 0, false
	}
	ys := strings.TrimSpace(parts[2])
	if sp := strings.IndexAny(ys, " T"); sp > 0 {
		ys = ys[:sp]
	}
	y, err := strconv.Atoi(ys)
	if err != nil || y < 0 {
		return 0, false
	}
	switch {
	case len(ys) == 4:
		return y, true
	case y >= 50:
		return 1900 + y, true
	default:
		return 2000 + y, true
	}
}

// ParseAuthorsField - a python list literal, a JSON array, a []any, or a comma separated string
func ParseAuthorsField(v any) []string {
	var out []string
	add := func(s string) {
		s = strings.Join(strings.Fields(s), " ")
		if s != "" {
			out = append(out, s)
		}
	}

	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		for _, s := range t {
			add(s)
		}
	case []any:
		for _, x := range t {
			if s, ok := x.(string); ok {
				add(s)
			}
		}
	case string:
		s := strings.TrimSpace(t)
		switch {
		case s == "":
			return nil
		case strings.HasPrefix(s, "["):
			var arr []string
			if json.Unmarshal([]byte(s), &arr) == nil {
				for _, a := range arr {
					add(a)
				}
				break
			}
			for _, m := range pylistitem.FindAllStringSubmatch(s, -1) {
				if m[1] != "" {
					add(strings.ReplaceAll(m[1], `\'`, `'`))
				} else {
					add(m[2])
				}
			}
		default:
			for _, a := range strings.Split(s, ",") {
				add(a)
			}
		}
	}
	return gen.UniqueInOrder(out)
}
