//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

import (
	"strconv"
	"strings"
	"time"
)

type Keyword struct {
	Word   string  `json:"word"`
	Weight float64 `json:"weight"`
}

type Topic struct {
	ID        int
	Keywords  []Keyword
	Coherence float64
}

// Words - the first n keywords of the topic
func (t Topic) Words(n int) []string {
	if n > len(t.Keywords) {
		n = len(t.Keywords)
	}
	ww := make([]string, n)
	for i := 0; i < n; i++ {
		ww[i] = t.Keywords[i].Word
	}
	return ww
}

// Label - "Topic 3: word, word, word"
func (t Topic) Label(n int) string {
	return "Topic " + strconv.Itoa(t.ID+1) + ": " + strings.Join(t.Words(n), ", ")
}

type Assignment struct {
	TopicID    int
	Confidence float64
}

// TopicModel - a fitted model for one group; never mutated after it has been published
type TopicModel struct {
	GroupKey   string
	Generation uint64
	FittedAt   time.Time
	Seed       int64
	Topics     []Topic
	Vocabulary map[string]int
	Phi        [][]float64          // topics x vocabulary; rows sum to 1
	Theta      map[string][]float64 // docid --> topic distribution
	Assigned   map[string]Assignment
	DocIDs     []string // the fitted documents, sorted
	Alpha      float64
}

// NumTopics - how many topics does the model hold
func (tm *TopicModel) NumTopics() int {
	return len(tm.Topics)
}

// DominantCount - the number of documents whose best topic is topic t
func (tm *TopicModel) DominantCount(t int) int {
	n := 0
	for _, a := range tm.Assigned {
		if a.TopicID == t {
			n++
		}
	}
	return n
}
