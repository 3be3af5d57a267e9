//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package corpus

import (
	"context"
	"fmt"

	"github.com/e-gun/PaperScopeServer/internal/errs"
	"github.com/e-gun/PaperScopeServer/internal/str"
	"github.com/e-gun/PaperScopeServer/internal/vlt"
	"github.com/e-gun/PaperScopeServer/internal/wc"
)

const (
	CloudFromModel  = "model"
	CloudFromTokens = "tokens"
	CloudPNG        = "png"
	CloudHTML       = "html"
)

func (e *Engine) cloudopts() wc.Options {
	o := wc.DefaultOptions()
	if e.Cfg.CloudWidth > 0 {
		o.Width = e.Cfg.CloudWidth
	}
	if e.Cfg.CloudHeight > 0 {
		o.Height = e.Cfg.CloudHeight
	}
	if e.Cfg.CloudMaxWords > 0 {
		o.MaxWords = e.Cfg.CloudMaxWords
	}
	return o
}

// WordCloud - the group's cloud as PNG (or html); a newer request from the same client cancels this one.
// With no group the cloud covers the token frequencies of the whole corpus.
// Results are cached per model generation (per graph generation for the whole corpus).
func (e *Engine) WordCloud(ctx context.Context, client string, group string, source string, format string) ([]byte, error) {
	const (
		OP          = "WordCloud"
		FAIL1       = "no topic model for group '%s'"
		FAIL2       = "unknown word cloud source '%s'"
		FAIL3       = "unknown word cloud format '%s'"
		FAIL4       = "the word cloud of the whole corpus is built from tokens, not from a model"
		FAIL5       = "no documents have been ingested"
		MSG1        = "word cloud for '%s' abandoned by '%s'"
		CORPUSTTL   = "the whole corpus"
		WHOLECORPUS = "*"
	)

	if source == "" {
		source = CloudFromModel
		if group == "" {
			source = CloudFromTokens
		}
	}
	if format == "" {
		format = CloudPNG
	}
	if source != CloudFromModel && source != CloudFromTokens {
		return nil, errs.NewValidation(OP, FAIL2, source)
	}
	if format != CloudPNG && format != CloudHTML {
		return nil, errs.NewValidation(OP, FAIL3, format)
	}

	var tm *str.TopicModel
	var key string
	if group == "" {
		if source != CloudFromTokens {
			return nil, errs.NewValidation(OP, FAIL4)
		}
		key = vlt.ImageKey(WHOLECORPUS, e.Graphs.Load().Generation, source, format)
	} else {
		var ok bool
		tm, ok = e.Models.Get(group)
		if !ok {
			return nil, errs.NewNotFound(OP, FAIL1, group)
		}
		key = vlt.ImageKey(group, tm.Generation, source, format)
	}

	// begin before consulting the cache: even a cache hit supersedes the client's older request
	rctx, done := e.Renders.Begin(ctx, client, group)
	defer done()

	if err := rctx.Err(); err != nil {
		e.Msg.TMI(fmt.Sprintf(MSG1, group, client))
		return nil, fmt.Errorf("%s: %w", OP, err)
	}

	if b, hit := e.Images.Get(key); hit {
		return b, nil
	}

	o := e.cloudopts()
	var words []str.Keyword
	switch {
	case group == "":
		docs, err := e.Store.All(rctx)
		if err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			return nil, errs.NewNotFound(OP, FAIL5)
		}
		words = wc.FromTokens(docs, o.MaxWords)
	case source == CloudFromTokens:
		docs, err := e.Store.ByGroup(rctx, group)
		if err != nil {
			return nil, err
		}
		words = wc.FromTokens(docs, o.MaxWords)
	default:
		words = wc.FromModel(tm, o.MaxWords)
	}

	var out []byte
	switch format {
	case CloudHTML:
		title := group
		if group == "" {
			title = CORPUSTTL
		}
		html, err := wc.RenderHTML(title, words, o)
		if err != nil {
			return nil, errs.NewInternal(OP, err)
		}
		out = []byte(html)
	default:
		b, err := wc.Render(rctx, words, o)
		if err != nil {
			if errs.IsKind(err, errs.Cancelled) {
				e.Msg.TMI(fmt.Sprintf(MSG1, group, client))
				return nil, err
			}
			return nil, errs.NewInternal(OP, err)
		}
		out = b
	}

	e.Images.Add(key, out)
	return out, nil
}
