package sqlite

import "strings"

// Where builds a WHERE clause from the keys those are added.
type Where struct {
	keys []string
	vals []interface{}
}

func NewWhere() *Where {
	return &Where{
		keys: make([]string, 0),
		vals: make([]interface{}, 0),
	}
}

// Add adds a key that should be equal to v.
func (w *Where) Add(k string, v interface{}) {
	w.keys = append(w.keys, k)
	w.vals = append(w.vals, v)
}

// AddIfNotEmpty adds a string key only when v is not empty.
func (w *Where) AddIfNotEmpty(k string, v string) {
	if v == "" {
		return
	}
	w.Add(k, v)
}

// Stmt returns the WHERE clause with a leading space.
// It returns an empty string when no key is added.
func (w *Where) Stmt() string {
	if len(w.keys) == 0 {
		return ""
	}
	conds := make([]string, len(w.keys))
	for i, k := range w.keys {
		conds[i] = k + " = ?"
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

func (w *Where) Vals() []interface{} {
	return w.vals
}
