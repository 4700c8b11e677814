// Package strategy provides concrete combination strategies for the
// orchestrator: plain text concatenation and policy-driven map merging.
package strategy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// ErrNoContexts is returned when a strategy is asked to combine an empty
// list. The orchestrator normally short-circuits before this can happen;
// it guards direct callers.
var ErrNoContexts = errors.New("strategy: no contexts to combine")

// DefaultSeparator separates contexts in concatenated output.
const DefaultSeparator = "\n\n"

// Concat combines contexts by joining their textual representations in
// list order. Any value is accepted; non-strings are rendered with their
// fmt representation. Concatenation is order-sensitive: backend order
// determines output order.
type Concat struct {
	separator string
}

// NewConcat creates a Concat strategy using DefaultSeparator.
func NewConcat() *Concat {
	return &Concat{separator: DefaultSeparator}
}

// NewConcatWithSeparator creates a Concat strategy with a custom separator.
// An empty separator is valid and joins contexts back to back.
func NewConcatWithSeparator(separator string) *Concat {
	return &Concat{separator: separator}
}

// Combine joins the contexts' string forms with the configured separator.
// It fails only on empty input.
func (s *Concat) Combine(contexts []any) (any, error) {
	if len(contexts) == 0 {
		return nil, ErrNoContexts
	}

	parts := lo.Map(contexts, func(c any, _ int) string {
		if str, ok := c.(string); ok {
			return str
		}
		return fmt.Sprint(c)
	})
	return strings.Join(parts, s.separator), nil
}
