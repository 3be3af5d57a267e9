//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package corpus

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/e-gun/PaperScopeServer/internal/coauth"
	"github.com/e-gun/PaperScopeServer/internal/db"
	"github.com/e-gun/PaperScopeServer/internal/errs"
	"github.com/e-gun/PaperScopeServer/internal/gen"
	"github.com/e-gun/PaperScopeServer/internal/lda"
	"github.com/e-gun/PaperScopeServer/internal/lnch"
	"github.com/e-gun/PaperScopeServer/internal/mm"
	"github.com/e-gun/PaperScopeServer/internal/str"
	"github.com/e-gun/PaperScopeServer/internal/vec"
	"github.com/e-gun/PaperScopeServer/internal/vlt"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

//
// THE ENGINE: store --> preprocessing --> per-group models + the co-authorship graph
//

type Engine struct {
	Cfg     str.CurrentConfiguration
	Store   db.Store
	Grouper db.Grouper
	Prep    *vec.Preprocessor
	Models  *vlt.ModelVault
	Graphs  *vlt.GraphVault
	Renders *vlt.RenderVault
	Images  *vlt.ImageCache
	Pool    *vlt.WSPool
	Msg     *mm.MessageMaker

	fits     singleflight.Group
	slots    chan struct{}
	fitlimit time.Duration
	started  time.Time
}

// NewEngine - wire the vaults around a store; the preprocessor may be nil, in which case one is built from cfg
func NewEngine(cfg str.CurrentConfiguration, store db.Store, prep *vec.Preprocessor) (*Engine, error) {
	grp, err := db.NewGrouper(cfg.Grouping)
	if err != nil {
		return nil, err
	}

	if prep == nil {
		prep, err = vec.NewPreprocessor(vec.DefaultPrepOptions(cfg))
		if err != nil {
			return nil, errs.NewInternal("NewEngine", err)
		}
	}

	ic, err := vlt.MakeImageCache(cfg.CloudCacheSize)
	if err != nil {
		return nil, errs.NewInternal("NewEngine", err)
	}

	wk := cfg.WorkerCount
	if wk < 1 {
		wk = runtime.NumCPU()
	}

	return &Engine{
		Cfg:      cfg,
		Store:    store,
		Grouper:  grp,
		Prep:     prep,
		Models:   vlt.MakeModelVault(),
		Graphs:   vlt.MakeGraphVault(),
		Renders:  vlt.MakeRenderVault(),
		Images:   ic,
		Pool:     vlt.WSFillNewPool(),
		Msg:      lnch.Msg,
		slots:    make(chan struct{}, wk),
		fitlimit: time.Duration(max(cfg.FitTimeout, 0)) * time.Second,
		started:  time.Now(),
	}, nil
}

// Uptime - since NewEngine
func (e *Engine) Uptime() time.Duration {
	return time.Since(e.started)
}

// Ingest - group, tokenize and store the documents; then rebuild the graph
func (e *Engine) Ingest(ctx context.Context, docs []*str.Document) error {
	const (
		MSG1 = "ingested %d documents"
	)
	db.AssignGroups(docs, e.Grouper)
	if err := e.tokenize(ctx, docs); err != nil {
		return err
	}
	if err := e.Store.Put(ctx, docs...); err != nil {
		return err
	}
	e.Msg.NOTE(fmt.Sprintf(MSG1, len(docs)))
	_, err := e.RebuildGraph(ctx)
	return err
}

// IngestFile - LoadCorpusFile + Ingest
func (e *Engine) IngestFile(ctx context.Context, path string) (db.IngestReport, error) {
	const (
		MSG1 = "'%s': %d rows; %d accepted; %d skipped %v"
	)
	docs, rep, err := db.LoadCorpusFile(path)
	if err != nil {
		return rep, err
	}
	e.Msg.FYI(fmt.Sprintf(MSG1, path, rep.Rows, rep.Accepted, rep.Skipped, rep.Reasons))
	return rep, e.Ingest(ctx, docs)
}

// Prepare - bring a store filled by an earlier run up to date with the current grouping and tokenizer settings
func (e *Engine) Prepare(ctx context.Context) error {
	const (
		MSG1 = "%d stored documents regrouped or tokenized"
	)
	all, err := e.Store.All(ctx)
	if err != nil {
		return err
	}

	var stale []*str.Document
	for _, d := range all {
		gk := e.Grouper(d)
		if gk != d.GroupKey || !d.HasTokens() {
			d.GroupKey = gk
			d.Tokens = nil
			stale = append(stale, d)
		}
	}

	if len(stale) > 0 {
		if err = e.tokenize(ctx, stale); err != nil {
			return err
		}
		if err = e.Store.Put(ctx, stale...); err != nil {
			return err
		}
		e.Msg.FYI(fmt.Sprintf(MSG1, len(stale)))
	}
	_, err = e.RebuildGraph(ctx)
	return err
}

// tokenize - fill in Tokens on every document that lacks them; chunks are spread over the workers
func (e *Engine) tokenize(ctx context.Context, docs []*str.Document) error {
	const (
		CHUNK = 64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cap(e.slots))
	for _, chunk := range gen.ChunkSlice(docs, CHUNK) {
		chunk := chunk
		g.Go(func() error {
			for _, d := range chunk {
				if err := gctx.Err(); err != nil {
					return err
				}
				if !d.HasTokens() {
					d.Tokens = e.Prep.Preprocess(d.Title + ". " + d.RawText).Tokens
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// RebuildGraph - build and publish a new co-authorship graph from everything in the store
func (e *Engine) RebuildGraph(ctx context.Context) (*vlt.GraphSnapshot, error) {
	const (
		MSG1 = "co-authorship graph: %d authors; %d links; %d communities"
	)
	all, err := e.Store.All(ctx)
	if err != nil {
		return nil, err
	}
	g := coauth.Build(all, "")
	st := coauth.Statistics(g, e.statopts())
	gs := e.Graphs.Store(g, st)
	e.Msg.FYI(fmt.Sprintf(MSG1, st.Nodes, st.Edges, st.Communities))
	return gs, nil
}

func (e *Engine) statopts() coauth.StatOptions {
	o := coauth.DefaultStatOptions()
	o.Seed = e.Cfg.CommunitySeed
	if e.Cfg.BetweennessCap > 0 {
		o.BetweennessCap = e.Cfg.BetweennessCap
	}
	return o
}

func (e *Engine) fitopts() lda.Options {
	return lda.OptionsFromConfig(e.Cfg)
}

// FitGroup - fit and publish the group's model; concurrent calls for one group share a single fit,
// and the fit outlives a caller that gives up waiting
func (e *Engine) FitGroup(ctx context.Context, group string) (*str.TopicModel, error) {
	ch := e.fits.DoChan(group, func() (any, error) {
		fctx := context.WithoutCancel(ctx)
		if e.fitlimit > 0 {
			var cancel context.CancelFunc
			fctx, cancel = context.WithTimeout(fctx, e.fitlimit)
			defer cancel()
		}
		return e.fitgroup(fctx, group)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*str.TopicModel), nil
	}
}

// fitgroup - ctx carries nothing but the fit's own time limit, so any context error here means the fit ran out of time
func (e *Engine) fitgroup(ctx context.Context, group string) (*str.TopicModel, error) {
	const (
		OP    = "FitGroup"
		MSG1  = "fitted '%s': %d documents; %d topics; generation %d"
		MSG2  = "could not fit '%s': %s"
		FAIL1 = "no documents in group '%s'"
		FAIL2 = "fitting '%s' took longer than %s"
	)

	start := time.Now()

	// [a] a worker slot
	var err error
	select {
	case e.slots <- struct{}{}:
		defer func() { <-e.slots }()
	case <-ctx.Done():
		err = ctx.Err()
	}

	if err == nil {
		e.announce(e.Models.SetStatus(group, vlt.StatusFitting, nil))
	}

	// [b] the documents
	var docs []*str.Document
	if err == nil {
		docs, err = e.Store.ByGroup(ctx, group)
		if err == nil && len(docs) == 0 {
			err = errs.NewNotFound(OP, FAIL1, group)
		}
	}

	// [c] the model
	var tm *str.TopicModel
	if err == nil {
		tm, err = lda.Fit(ctx, group, docs, e.fitopts())
	}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = errs.NewModelFit(OP, fmt.Errorf(FAIL2, group, e.fitlimit))
		}
		status := vlt.StatusFailed
		if errs.IsKind(err, errs.InsufficientData) {
			status = vlt.StatusInsufficient
		}
		e.announce(e.Models.SetStatus(group, status, err))
		e.Msg.WARN(fmt.Sprintf(MSG2, group, err.Error()))
		return nil, err
	}

	// [d] publish
	gn := e.Models.Publish(tm)
	e.announce(vlt.ModelStatus{Group: group, Status: vlt.StatusReady, Generation: gn})
	e.Msg.Timer("F", fmt.Sprintf(MSG1, group, len(tm.DocIDs), tm.NumTopics(), gn), start, start)
	return tm, nil
}

func (e *Engine) announce(ms vlt.ModelStatus) {
	e.Pool.Broadcast(vlt.ModelEvent{Group: ms.Group, Status: ms.Status, Generation: ms.Generation, Error: ms.Error})
}

// FitAll - fit every group; groups without enough documents are recorded and skipped, other failures are returned
func (e *Engine) FitAll(ctx context.Context) error {
	const (
		MSG1 = "fitted %d of %d groups"
	)
	groups, err := e.Store.Groups(ctx)
	if err != nil {
		return err
	}

	fitted := make([]bool, len(groups))
	failures := make([]error, len(groups))

	g, gctx := errgroup.WithContext(ctx)
	for i, grp := range groups {
		i, grp := i, grp
		g.Go(func() error {
			_, ferr := e.FitGroup(gctx, grp)
			switch {
			case ferr == nil:
				fitted[i] = true
			case errs.IsKind(ferr, errs.Cancelled) && ctx.Err() != nil:
				return ferr
			case !errs.IsKind(ferr, errs.InsufficientData):
				failures[i] = ferr
			}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return err
	}

	n := 0
	for _, f := range fitted {
		if f {
			n++
		}
	}
	e.Msg.NOTE(fmt.Sprintf(MSG1, n, len(groups)))
	return errors.Join(failures...)
}

// RefitAsync - start a background refit; the returned status says what the group looks like right now
func (e *Engine) RefitAsync(ctx context.Context, group string) (vlt.ModelStatus, error) {
	const (
		OP   = "RefitAsync"
		FAIL = "no documents in group '%s'"
	)
	groups, err := e.Store.Groups(ctx)
	if err != nil {
		return vlt.ModelStatus{}, err
	}
	known := false
	for _, g := range groups {
		if g == group {
			known = true
			break
		}
	}
	if !known {
		return vlt.ModelStatus{}, errs.NewNotFound(OP, FAIL, group)
	}

	go func() {
		_, _ = e.FitGroup(context.WithoutCancel(ctx), group)
	}()

	ms, ok := e.Models.Status(group)
	if !ok || ms.Status != vlt.StatusFitting {
		ms = vlt.ModelStatus{Group: group, Status: vlt.StatusFitting, Generation: ms.Generation}
	}
	return ms, nil
}

// Run - start the websocket pool; returns when ctx is done
func (e *Engine) Run(ctx context.Context) {
	e.Pool.WSPoolStartListening(ctx)
}

func (e *Engine) Close() error {
	return e.Store.Close()
}
