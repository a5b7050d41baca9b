package postgres

import (
	"fmt"
	"strings"
)

// condBuilder accumulates WHERE conditions with positional placeholders.
// Conditions combine with AND; argument numbering continues from whatever
// was added first.
type condBuilder struct {
	conds []string
	args  []interface{}
}

// add appends "expr" with its placeholder bound to arg. The expression must
// contain exactly one %d verb for the placeholder index.
func (b *condBuilder) add(expr string, arg interface{}) {
	b.args = append(b.args, arg)
	b.conds = append(b.conds, fmt.Sprintf(expr, len(b.args)))
}

// where renders the accumulated conditions as a WHERE clause.
func (b *condBuilder) where() string {
	if len(b.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(b.conds, " AND ")
}

// next returns the placeholder index one past the last bound argument.
func (b *condBuilder) next() int {
	return len(b.args) + 1
}
