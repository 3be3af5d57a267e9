//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

// Document - one ingested paper; immutable after ingestion apart from Tokens
type Document struct {
	ID       string   `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Authors  []string `json:"authors" yaml:"authors"`
	Year     int      `json:"publicationYear" yaml:"year"`
	RawText  string   `json:"rawText,omitempty" yaml:"text"`
	Tokens   []string `json:"tokens,omitempty" yaml:"-"`
	GroupKey string   `json:"groupKey" yaml:"-"`
}

// HasTokens - has the preprocessing stage run on this document?
func (d *Document) HasTokens() bool {
	return d.Tokens != nil
}

// Preprocessed - the output of the text preprocessing pipeline
type Preprocessed struct {
	Tokens          []string
	WordCount       int
	UniqueWordCount int
	SampleWords     []string
}
