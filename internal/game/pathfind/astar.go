// Package pathfind implements the best-first search shared by the raster,
// hex grid and admin entity graphs.
package pathfind

import "container/heap"

// Edge is a candidate move to a neighbor with its base cost.
type Edge[N comparable] struct {
	To   N
	Cost float64
}

// Graph supplies neighbors and distance estimates for a search.
type Graph[N comparable] interface {
	// Neighbors appends the passable edges leaving n to buf and returns it.
	Neighbors(n N, buf []Edge[N]) []Edge[N]
	// Heuristic estimates the remaining cost from n to goal. It must never
	// overestimate for the returned path to be optimal.
	Heuristic(n, goal N) float64
}

// EdgeHook returns extra cost for moving from one node to another. The
// result is added to the edge cost and must be non-negative.
type EdgeHook[N comparable] func(from, to N) float64

// Options bounds a single search.
type Options[N comparable] struct {
	// MaxSearchCost aborts once no candidate can reach the goal at or below
	// this cost. Edges that would exceed it are never opened. <=0 disables.
	MaxSearchCost float64
	// MaxSteps caps the number of expanded nodes. <=0 disables.
	MaxSteps int
	// Hook adds per-edge cost on top of the graph's cost. Optional.
	Hook EdgeHook[N]
}

// Outcome is the terminal state of a search.
type Outcome uint8

const (
	// OutcomeInvalid means the query was rejected (start equals goal).
	OutcomeInvalid Outcome = iota
	// OutcomeFound means the goal was popped from the open set.
	OutcomeFound
	// OutcomeExhausted means the open set emptied without reaching the goal.
	OutcomeExhausted
	// OutcomeLimitExceeded means MaxSearchCost or MaxSteps stopped the search.
	OutcomeLimitExceeded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInvalid:
		return "invalid"
	case OutcomeFound:
		return "found"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeLimitExceeded:
		return "limit_exceeded"
	default:
		return "unknown"
	}
}

// Result of a search. Path is nil unless Outcome is OutcomeFound.
type Result[N comparable] struct {
	Path     []N // start..goal inclusive
	Cost     float64
	Expanded int
	Outcome  Outcome
}

// Found reports whether a path was produced.
func (r Result[N]) Found() bool {
	return r.Outcome == OutcomeFound
}

// node is a search node. Lives only for one Search call.
type node[N comparable] struct {
	point  N
	parent *node[N]
	gCost  float64 // actual cost from start
	hCost  float64 // heuristic cost to goal
	seq    uint64  // insertion order, final tie-break
	index  int     // heap index, -1 once popped
	closed bool
}

// fCost is recomputed on every comparison so a relaxed gCost is never stale.
func (n *node[N]) fCost() float64 {
	return n.gCost + n.hCost
}

// Search runs A* from start to goal over g.
//
// start == goal is rejected with OutcomeInvalid instead of returning a
// zero-length path; callers that want a trivial route must check first.
func Search[N comparable](g Graph[N], start, goal N, opts Options[N]) Result[N] {
	if start == goal {
		return Result[N]{Outcome: OutcomeInvalid}
	}

	var seq uint64
	nodes := make(map[N]*node[N], 256)
	open := &nodeHeap[N]{}

	first := &node[N]{point: start, hCost: g.Heuristic(start, goal)}
	nodes[start] = first
	heap.Push(open, first)

	var (
		expanded int
		limited  bool
		edges    = make([]Edge[N], 0, 8)
	)

	for open.Len() > 0 {
		current := heap.Pop(open).(*node[N])
		current.closed = true

		// Goal reached: popped, not merely enqueued.
		if current.point == goal {
			return Result[N]{
				Path:     reconstruct(current),
				Cost:     current.gCost,
				Expanded: expanded,
				Outcome:  OutcomeFound,
			}
		}

		// Every remaining candidate is at least this expensive.
		if opts.MaxSearchCost > 0 && current.fCost() > opts.MaxSearchCost {
			return Result[N]{Expanded: expanded, Outcome: OutcomeLimitExceeded}
		}
		if opts.MaxSteps > 0 && expanded >= opts.MaxSteps {
			return Result[N]{Expanded: expanded, Outcome: OutcomeLimitExceeded}
		}
		expanded++

		edges = g.Neighbors(current.point, edges[:0])
		for _, e := range edges {
			cost := e.Cost
			if opts.Hook != nil {
				cost += opts.Hook(current.point, e.To)
			}
			gCost := current.gCost + cost
			if opts.MaxSearchCost > 0 && gCost > opts.MaxSearchCost {
				limited = true
				continue
			}

			if n, ok := nodes[e.To]; ok {
				if n.closed || gCost >= n.gCost {
					continue
				}
				n.gCost = gCost
				n.parent = current
				heap.Fix(open, n.index)
				continue
			}

			seq++
			n := &node[N]{
				point:  e.To,
				parent: current,
				gCost:  gCost,
				hCost:  g.Heuristic(e.To, goal),
				seq:    seq,
			}
			nodes[e.To] = n
			heap.Push(open, n)
		}
	}

	if limited {
		return Result[N]{Expanded: expanded, Outcome: OutcomeLimitExceeded}
	}
	return Result[N]{Expanded: expanded, Outcome: OutcomeExhausted}
}

// reconstruct walks parent links from goal to start and reverses them.
func reconstruct[N comparable](goal *node[N]) []N {
	path := make([]N, 0, 32)
	for n := goal; n != nil; n = n.parent {
		path = append(path, n.point)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// nodeHeap implements container/heap for the open list: min-heap by fCost,
// ties broken by lower hCost, then by insertion order.
type nodeHeap[N comparable] []*node[N]

func (h nodeHeap[N]) Len() int { return len(h) }

func (h nodeHeap[N]) Less(i, j int) bool {
	fi, fj := h[i].fCost(), h[j].fCost()
	if fi != fj {
		return fi < fj
	}
	if h[i].hCost != h[j].hCost {
		return h[i].hCost < h[j].hCost
	}
	return h[i].seq < h[j].seq
}

func (h nodeHeap[N]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *nodeHeap[N]) Push(x any) {
	n := x.(*node[N])
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *nodeHeap[N]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil // GC
	item.index = -1
	*h = old[:n-1]
	return item
}
