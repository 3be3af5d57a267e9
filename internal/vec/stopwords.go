//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vec

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/e-gun/PaperScopeServer/internal/gen"
)

//
// STOPWORDS
//

var (
	// English179 - the nltk english stopword list
	English179 = []string{"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you", "you're", "you've",
		"you'll", "you'd", "your", "yours", "yourself", "yourselves", "he", "him", "his", "himself", "she", "she's",
		"her", "hers", "herself", "it", "it's", "its", "itself", "they", "them", "their", "theirs", "themselves",
		"what", "which", "who", "whom", "this", "that", "that'll", "these", "those", "am", "is", "are", "was", "were",
		"be", "been", "being", "have", "has", "had", "having", "do", "does", "did", "doing", "a", "an", "the", "and",
		"but", "if", "or", "because", "as", "until", "while", "of", "at", "by", "for", "with", "about", "against",
		"between", "into", "through", "during", "before", "after", "above", "below", "to", "from", "up", "down", "in",
		"out", "on", "off", "over", "under", "again", "further", "then", "once", "here", "there", "when", "where",
		"why", "how", "all", "any", "both", "each", "few", "more", "most", "other", "some", "such", "no", "nor", "not",
		"only", "own", "same", "so", "than", "too", "very", "s", "t", "can", "will", "just", "don", "don't", "should",
		"should've", "now", "d", "ll", "m", "o", "re", "ve", "y", "ain", "aren", "aren't", "couldn", "couldn't",
		"didn", "didn't", "doesn", "doesn't", "hadn", "hadn't", "hasn", "hasn't", "haven", "haven't", "isn", "isn't",
		"ma", "mightn", "mightn't", "mustn", "mustn't", "needn", "needn't", "shan", "shan't", "shouldn", "shouldn't",
		"wasn", "wasn't", "weren", "weren't", "won", "won't", "wouldn", "wouldn't"}
	// PaperExtra - boilerplate that every abstract carries
	PaperExtra = []string{"paper", "propose", "proposed", "result", "results", "show", "also", "using", "based",
		"approach", "method", "methods", "however", "within", "across", "thus", "therefore", "furthermore", "may",
		"well", "use", "used", "new", "work", "study", "present", "presents", "provide", "two", "one", "first"}
	// EnglishKeep - members of the lists above that we will not toss
	EnglishKeep = []string{"method", "methods", "approach"}
)

// englishstops - contractions also appear split at the apostrophe, the way Clean() leaves them
func englishstops() []string {
	var ss []string
	for _, w := range append(slices.Clone(English179), PaperExtra...) {
		if slices.Contains(EnglishKeep, w) {
			continue
		}
		ss = append(ss, w, strings.ReplaceAll(w, "'", ""))
		ss = append(ss, Clean(w)...)
	}
	return gen.UniqueInOrder(ss)
}

// readstopconfig - read a JSON array (or one word per line) of extra stopwords; the built-in list is always used
func readstopconfig(fn string) ([]string, error) {
	const (
		ERR1 = "readstopconfig() failed to read '%s': %w"
	)

	stops := englishstops()
	if fn == "" {
		return stops, nil
	}

	b, err := os.ReadFile(fn)
	if err != nil {
		return stops, fmt.Errorf(ERR1, fn, err)
	}

	var extra []string
	if json.Unmarshal(b, &extra) != nil {
		extra = strings.Fields(string(b))
	}
	for _, w := range extra {
		stops = append(stops, strings.ToLower(strings.TrimSpace(w)))
	}
	return gen.UniqueInOrder(stops), nil
}
