package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-bexpr"
	lru "github.com/hashicorp/golang-lru/v2"
)

var ErrInvalidExpression = errors.New("invalid filter expression")

const evaluatorCacheSize = 256

var evaluators *lru.Cache[string, *bexpr.Evaluator]

func init() {
	cache, err := lru.New[string, *bexpr.Evaluator](evaluatorCacheSize)
	if err != nil {
		panic(fmt.Sprintf("filter: create evaluator cache: %v", err))
	}
	evaluators = cache
}

// Expression is a compiled go-bexpr predicate such as
// `status == "APPROVED" and type != "major"`.
type Expression struct {
	source    string
	evaluator *bexpr.Evaluator
}

// Compile parses expr, reusing a cached evaluator when the same text was seen
// before. A blank expression compiles to nil, which matches everything.
func Compile(expr string) (*Expression, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}

	if evaluator, ok := evaluators.Get(expr); ok {
		return &Expression{source: expr, evaluator: evaluator}, nil
	}

	evaluator, err := bexpr.CreateEvaluator(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}
	evaluators.Add(expr, evaluator)

	return &Expression{source: expr, evaluator: evaluator}, nil
}

func (e *Expression) String() string {
	if e == nil {
		return ""
	}
	return e.source
}

// Match evaluates the expression against fields. Selectors naming a missing
// field make the record not match.
func (e *Expression) Match(fields map[string]any) bool {
	if e == nil {
		return true
	}
	ok, err := e.evaluator.Evaluate(fields)
	if err != nil {
		return false
	}
	return ok
}
