// Package timeline indexes a match event log for the temporal lookups used by
// the pass classifier and the duel scorer. An Index is read-only once built and
// may be shared between goroutines.
package timeline

import (
	"iter"
	"sort"

	"github.com/pable/go-sb-networks/internal/model"
)

// Index answers predecessor, time-window and linkage queries over one match.
type Index struct {
	events []model.Event // sorted by Index, stable

	byIndex    map[int]int    // event index -> position in events
	duplicated map[int]bool   // event indices seen more than once
	byID       map[string]int // event id -> position in events

	// (type, team, possession) -> positions, in event order.
	buckets map[bucketKey][]int

	// event id -> linked event ids, union of both directions of related_events.
	links map[string][]string
}

type bucketKey struct {
	typ        model.EventType
	team       string
	possession int
}

// New builds an Index over events. The input slice is copied and not retained.
func New(events []model.Event) *Index {
	sorted := make([]model.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	idx := &Index{
		events:     sorted,
		byIndex:    make(map[int]int, len(sorted)),
		duplicated: make(map[int]bool),
		byID:       make(map[string]int, len(sorted)),
		buckets:    make(map[bucketKey][]int),
		links:      make(map[string][]string),
	}

	for i := range sorted {
		e := &sorted[i]
		if _, seen := idx.byIndex[e.Index]; seen {
			idx.duplicated[e.Index] = true
		} else {
			idx.byIndex[e.Index] = i
		}
		if e.ID != "" {
			idx.byID[e.ID] = i
		}
		k := bucketKey{typ: e.Type, team: e.Team, possession: e.Possession}
		idx.buckets[k] = append(idx.buckets[k], i)
	}

	// Linkage is recorded inconsistently by providers, so index both directions.
	seen := make(map[[2]string]bool)
	addLink := func(a, b string) {
		if a == "" || b == "" || a == b || seen[[2]string{a, b}] {
			return
		}
		seen[[2]string{a, b}] = true
		idx.links[a] = append(idx.links[a], b)
	}
	for i := range sorted {
		e := &sorted[i]
		for _, rel := range e.RelatedEvents {
			addLink(e.ID, rel)
			addLink(rel, e.ID)
		}
	}
	return idx
}

// Len returns the number of indexed events.
func (idx *Index) Len() int { return len(idx.events) }

// Events returns the indexed events in index order. Callers must not modify them.
func (idx *Index) Events() []model.Event { return idx.events }

// At returns the event with the given sequence index. Missing or duplicated
// indices yield false.
func (idx *Index) At(index int) (*model.Event, bool) {
	if idx.duplicated[index] {
		return nil, false
	}
	pos, ok := idx.byIndex[index]
	if !ok {
		return nil, false
	}
	return &idx.events[pos], true
}

// Predecessor returns the event whose index is e.Index-1, or false when that
// index is absent or ambiguous.
func (idx *Index) Predecessor(e *model.Event) (*model.Event, bool) {
	if e == nil {
		return nil, false
	}
	return idx.At(e.Index - 1)
}

// Successor returns the event whose index is e.Index+1, or false when that
// index is absent or ambiguous.
func (idx *Index) Successor(e *model.Event) (*model.Event, bool) {
	if e == nil {
		return nil, false
	}
	return idx.At(e.Index + 1)
}

// Within yields events of the given type and team in the same possession as
// ref whose timestamp is strictly after ref's and at most maxDeltaSeconds
// later. The sequence is in event order and can be ranged over repeatedly.
func (idx *Index) Within(ref *model.Event, typ model.EventType, team string, maxDeltaSeconds int) iter.Seq[*model.Event] {
	return func(yield func(*model.Event) bool) {
		if ref == nil {
			return
		}
		start := ref.Timestamp()
		for _, pos := range idx.buckets[bucketKey{typ: typ, team: team, possession: ref.Possession}] {
			e := &idx.events[pos]
			delta := e.Timestamp() - start
			if delta <= 0 || delta > maxDeltaSeconds {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// AnyWithin reports whether Within yields at least one event.
func (idx *Index) AnyWithin(ref *model.Event, typ model.EventType, team string, maxDeltaSeconds int) bool {
	for range idx.Within(ref, typ, team, maxDeltaSeconds) {
		return true
	}
	return false
}

// Linked returns the events linked to e through related_events in either
// direction, in index order. Unknown ids are ignored.
func (idx *Index) Linked(e *model.Event) []*model.Event {
	if e == nil || e.ID == "" {
		return nil
	}
	ids := idx.links[e.ID]
	if len(ids) == 0 {
		return nil
	}
	out := make([]*model.Event, 0, len(ids))
	for _, id := range ids {
		if pos, ok := idx.byID[id]; ok {
			out = append(out, &idx.events[pos])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Teams returns the distinct non-empty team names in order of first appearance.
func (idx *Index) Teams() []string {
	var teams []string
	seen := make(map[string]bool)
	for i := range idx.events {
		t := idx.events[i].Team
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		teams = append(teams, t)
	}
	return teams
}

// Filter yields events matching type and team, in index order.
func (idx *Index) Filter(typ model.EventType, team string) iter.Seq[*model.Event] {
	return func(yield func(*model.Event) bool) {
		for i := range idx.events {
			e := &idx.events[i]
			if e.Type != typ || e.Team != team {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}
