package query

import (
	"strings"
	"sync"

	"github.com/five82/claimdeck/internal/claims"
)

// Query holds the parameters of every pipeline stage. Term is the settled
// search term, never the live one.
type Query struct {
	Statuses StatusSet
	Sort     SortOption
	Where    *Expr
	Term     string
}

// Active reports whether any stage narrows the collection.
func (q Query) Active() bool {
	return len(q.Statuses) > 0 || q.Where != nil || strings.TrimSpace(q.Term) != ""
}

type stage[T any] struct {
	in     []T
	key    string
	out    []T
	primed bool
	runs   int
}

func (s *stage[T]) run(in []T, key string, fn func([]T) []T) []T {
	if s.primed && s.key == key && sameSlice(s.in, in) {
		return s.out
	}
	s.in, s.key, s.out, s.primed = in, key, fn(in), true
	s.runs++
	return s.out
}

// Pipeline runs filter, then sort, then search. Each stage remembers its
// last input and parameters and returns its previous output when both are
// unchanged, so unchanged results keep their identity downstream.
type Pipeline[T claims.Record] struct {
	mu     sync.Mutex
	filter stage[T]
	sort   stage[T]
	search stage[T]
}

// NewPipeline returns an empty Pipeline.
func NewPipeline[T claims.Record]() *Pipeline[T] {
	return &Pipeline[T]{}
}

// Run derives the visible collection from items.
func (p *Pipeline[T]) Run(items []T, q Query) []T {
	p.mu.Lock()
	defer p.mu.Unlock()

	filterKey := q.Statuses.Key() + "\x01" + q.Where.String()
	filtered := p.filter.run(items, filterKey, func(in []T) []T {
		return Filter(in, q.Statuses, q.Where)
	})
	sorted := p.sort.run(filtered, string(q.Sort), func(in []T) []T {
		return SortClaims(in, q.Sort)
	})
	term := strings.ToLower(strings.TrimSpace(q.Term))
	return p.search.run(sorted, term, func(in []T) []T {
		return Search(in, term)
	})
}

func sameSlice[T any](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return (a == nil) == (b == nil)
	}
	return &a[0] == &b[0]
}
