//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"sort"
	"sync"
	"time"

	"github.com/e-gun/PaperScopeServer/internal/str"
)

//
// THREAD SAFE INFRASTRUCTURE: MUTEX
//

const (
	StatusFitting      = "fitting"
	StatusReady        = "ready"
	StatusFailed       = "failed"
	StatusInsufficient = "insufficient"
)

// ModelStatus - what is known about a group's model
type ModelStatus struct {
	Group      string    `json:"group"`
	Status     string    `json:"status"`
	Generation uint64    `json:"generation"`
	FittedAt   time.Time `json:"fitted_at"`
	Topics     int       `json:"topics"`
	Documents  int       `json:"documents"`
	Error      string    `json:"error,omitempty"`
}

// ModelVault - groupkey --> immutable model snapshot; a refit builds a new model off to the side and Publish swaps it in
type ModelVault struct {
	models map[string]*str.TopicModel
	status map[string]ModelStatus
	gen    uint64
	mutex  sync.RWMutex
}

func MakeModelVault() *ModelVault {
	return &ModelVault{
		models: make(map[string]*str.TopicModel),
		status: make(map[string]ModelStatus),
	}
}

// Publish - stamp the model with the next generation and make it the current one for its group;
// the caller must not touch the model afterwards
func (mv *ModelVault) Publish(tm *str.TopicModel) uint64 {
	mv.mutex.Lock()
	defer mv.mutex.Unlock()
	mv.gen++
	tm.Generation = mv.gen
	mv.models[tm.GroupKey] = tm
	mv.status[tm.GroupKey] = ModelStatus{
		Group:      tm.GroupKey,
		Status:     StatusReady,
		Generation: tm.Generation,
		FittedAt:   tm.FittedAt,
		Topics:     tm.NumTopics(),
		Documents:  len(tm.DocIDs),
	}
	return mv.gen
}

func (mv *ModelVault) Get(group string) (*str.TopicModel, bool) {
	mv.mutex.RLock()
	defer mv.mutex.RUnlock()
	tm, ok := mv.models[group]
	return tm, ok
}

// Drop - forget a group's model, e.g. after the group lost its documents
func (mv *ModelVault) Drop(group string) {
	mv.mutex.Lock()
	defer mv.mutex.Unlock()
	delete(mv.models, group)
	delete(mv.status, group)
}

// Groups - groups with a published model, sorted
func (mv *ModelVault) Groups() []string {
	mv.mutex.RLock()
	defer mv.mutex.RUnlock()
	gg := make([]string, 0, len(mv.models))
	for g := range mv.models {
		gg = append(gg, g)
	}
	sort.Strings(gg)
	return gg
}

// All - every published model ordered by group
func (mv *ModelVault) All() []*str.TopicModel {
	mv.mutex.RLock()
	defer mv.mutex.RUnlock()
	tt := make([]*str.TopicModel, 0, len(mv.models))
	for _, tm := range mv.models {
		tt = append(tt, tm)
	}
	sort.Slice(tt, func(i, j int) bool { return tt[i].GroupKey < tt[j].GroupKey })
	return tt
}

// SetStatus - record a non-ready state; a ready model already published for the group stays servable
func (mv *ModelVault) SetStatus(group string, status string, err error) ModelStatus {
	mv.mutex.Lock()
	defer mv.mutex.Unlock()
	ms := mv.status[group]
	ms.Group = group
	ms.Status = status
	ms.Error = ""
	if err != nil {
		ms.Error = err.Error()
	}
	mv.status[group] = ms
	return ms
}

func (mv *ModelVault) Status(group string) (ModelStatus, bool) {
	mv.mutex.RLock()
	defer mv.mutex.RUnlock()
	ms, ok := mv.status[group]
	return ms, ok
}

// Statuses - ordered by group
func (mv *ModelVault) Statuses() []ModelStatus {
	mv.mutex.RLock()
	defer mv.mutex.RUnlock()
	ss := make([]ModelStatus, 0, len(mv.status))
	for _, s := range mv.status {
		ss = append(ss, s)
	}
	sort.Slice(ss, func(i, j int) bool { return ss[i].Group < ss[j].Group })
	return ss
}

func (mv *ModelVault) Generation() uint64 {
	mv.mutex.RLock()
	defer mv.mutex.RUnlock()
	return mv.gen
}
