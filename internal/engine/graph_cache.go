package engine

import (
	"sync"

	"github.com/kasunvimarshana/AutoERP-sub011/internal/domain"
)

// definitionGraph is an immutable read model of one definition's states
// and transitions, resolved once and shared by concurrent advances.
type definitionGraph struct {
	definitionID    int64
	statesByID      map[int64]domain.WorkflowState
	transitionsByID map[int64]domain.WorkflowTransition
	initialStateID  int64
}

func (g *definitionGraph) state(id int64) (domain.WorkflowState, bool) {
	s, ok := g.statesByID[id]
	return s, ok
}

func (g *definitionGraph) transition(id int64) (domain.WorkflowTransition, bool) {
	t, ok := g.transitionsByID[id]
	return t, ok
}

// graphCache caches definition graphs per definition id. The graph is
// immutable after creation, so entries only need invalidation when the
// definition itself is updated or deleted.
type graphCache struct {
	mu     sync.RWMutex
	graphs map[int64]*definitionGraph
}

func newGraphCache() *graphCache {
	return &graphCache{graphs: make(map[int64]*definitionGraph)}
}

func (c *graphCache) get(definitionID int64) (*definitionGraph, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g, ok := c.graphs[definitionID]
	return g, ok
}

func (c *graphCache) put(g *definitionGraph) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.graphs[g.definitionID] = g
}

func (c *graphCache) invalidate(definitionID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.graphs, definitionID)
}

func buildGraph(definitionID int64, states []domain.WorkflowState, transitions []domain.WorkflowTransition) *definitionGraph {
	g := &definitionGraph{
		definitionID:    definitionID,
		statesByID:      make(map[int64]domain.WorkflowState, len(states)),
		transitionsByID: make(map[int64]domain.WorkflowTransition, len(transitions)),
	}
	for _, s := range states {
		g.statesByID[s.ID] = s
		if s.IsInitial {
			g.initialStateID = s.ID
		}
	}
	for _, t := range transitions {
		g.transitionsByID[t.ID] = t
	}
	return g
}
