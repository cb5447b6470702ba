package repository

import (
	"fmt"
	"strings"
)

// whereBuilder accumulates SQL conditions with positional arguments.
type whereBuilder struct {
	conds []string
	args  []interface{}
}

// add appends a condition; each "?" in cond is replaced by the next $n.
func (w *whereBuilder) add(cond string, args ...interface{}) {
	for _, a := range args {
		w.args = append(w.args, a)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.conds = append(w.conds, cond)
}

// arg registers a bare argument and returns its placeholder.
func (w *whereBuilder) arg(a interface{}) string {
	w.args = append(w.args, a)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.conds, " AND ")
}
