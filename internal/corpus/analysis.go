//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package corpus

import (
	"context"

	"github.com/e-gun/PaperScopeServer/internal/errs"
	"github.com/e-gun/PaperScopeServer/internal/sim"
	"github.com/e-gun/PaperScopeServer/internal/str"
	"github.com/e-gun/PaperScopeServer/internal/vec"
)

type PreprocessingOutputs struct {
	Filename    string   `json:"filename"`
	WordCount   int      `json:"word_count"`
	UniqueWords int      `json:"unique_words"`
	SampleWords []string `json:"sample_words"`
}

type Analysis struct {
	PreprocessingOutputs PreprocessingOutputs  `json:"preprocessing_outputs"`
	TopicSimilarity      []str.TopicSimilarity `json:"topic_similarity"`
	SimilarDocuments     []str.SimilarDocument `json:"similar_documents"`
}

// AnalyseUpload - extract the text of an uploaded blob and analyse it
func (e *Engine) AnalyseUpload(ctx context.Context, filename string, blob []byte, group string) (Analysis, error) {
	txt, err := vec.ExtractText(blob)
	if err != nil {
		return Analysis{}, errs.E(errs.Validation, "AnalyseUpload", "could not read the text of '"+filename+"'", err)
	}
	return e.Analyse(ctx, filename, txt, group)
}

// Analyse - preprocess the text and score it against every model, or only the named group's model
func (e *Engine) Analyse(ctx context.Context, filename string, raw string, group string) (Analysis, error) {
	const (
		OP    = "Analyse"
		FAIL1 = "no topic model for group '%s'"
		FAIL2 = "no topic model has been fitted yet"
	)

	pp := e.Prep.Preprocess(raw)
	an := Analysis{
		PreprocessingOutputs: PreprocessingOutputs{
			Filename:    filename,
			WordCount:   pp.WordCount,
			UniqueWords: pp.UniqueWordCount,
			SampleWords: pp.SampleWords,
		},
		TopicSimilarity:  []str.TopicSimilarity{},
		SimilarDocuments: []str.SimilarDocument{},
	}
	if an.PreprocessingOutputs.SampleWords == nil {
		an.PreprocessingOutputs.SampleWords = []string{}
	}

	var models []*str.TopicModel
	if group != "" {
		tm, ok := e.Models.Get(group)
		if !ok {
			return Analysis{}, errs.NewNotFound(OP, FAIL1, group)
		}
		models = []*str.TopicModel{tm}
	} else {
		models = e.Models.All()
	}

	if len(pp.Tokens) == 0 {
		return an, nil
	}
	if len(models) == 0 {
		return Analysis{}, errs.NewNotFound(OP, FAIL2)
	}

	targets := make([]sim.Target, 0, len(models))
	for _, tm := range models {
		docs, err := e.Store.ByGroup(ctx, tm.GroupKey)
		if err != nil {
			return Analysis{}, err
		}
		dm := make(map[string]*str.Document, len(docs))
		for _, d := range docs {
			dm[d.ID] = d
		}
		targets = append(targets, sim.Target{Model: tm, Docs: dm})
	}

	res, err := sim.ScoreAgainstModels(ctx, pp.Tokens, targets, sim.DefaultOptions())
	if err != nil {
		return Analysis{}, err
	}
	an.TopicSimilarity = res.TopicSimilarity
	an.SimilarDocuments = res.SimilarDocuments
	return an, nil
}
