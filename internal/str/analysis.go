//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

import "sort"

type TopicSimilarity struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
	TopicID     int     `json:"topic_id"`
	YearGroup   string  `json:"year_group"`
}

type SimilarDocument struct {
	Title      string   `json:"title"`
	Authors    []string `json:"authors"`
	Year       int      `json:"year"`
	Similarity float64  `json:"similarity"`
}

type SimilarityResult struct {
	TopicSimilarity  []TopicSimilarity
	SimilarDocuments []SimilarDocument
}

//
// MULTISORTERS
//

type SDLessFunc func(p1, p2 *SimilarDocument) bool

type SDMultiSorter struct {
	changes []SimilarDocument
	less    []SDLessFunc
}

// SDOrderedBy - build a sorter that applies the comparisons in order; later ones break ties in earlier ones
func SDOrderedBy(less ...SDLessFunc) *SDMultiSorter {
	return &SDMultiSorter{
		less: less,
	}
}

func (ms *SDMultiSorter) Sort(changes []SimilarDocument) {
	ms.changes = changes
	sort.Stable(ms)
}

func (ms *SDMultiSorter) Len() int {
	return len(ms.changes)
}

func (ms *SDMultiSorter) Swap(i, j int) {
	ms.changes[i], ms.changes[j] = ms.changes[j], ms.changes[i]
}

func (ms *SDMultiSorter) Less(i, j int) bool {
	p, q := &ms.changes[i], &ms.changes[j]
	var k int
	for k = 0; k < len(ms.less)-1; k++ {
		less := ms.less[k]
		switch {
		case less(p, q):
			return true
		case less(q, p):
			return false
		}
	}
	return ms.less[k](p, q)
}

var (
	SDBySimilarity = func(a, b *SimilarDocument) bool { return a.Similarity > b.Similarity }
	SDByYear       = func(a, b *SimilarDocument) bool { return a.Year > b.Year }
	SDByTitle      = func(a, b *SimilarDocument) bool { return a.Title < b.Title }
)
