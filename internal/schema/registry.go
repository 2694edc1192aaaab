package schema

import (
	"sort"
	"sync"
)

// Registry holds the table definitions the service manages, keyed by table
// name. Reads vastly outnumber writes; in practice Load is called once at
// startup with Builtin().
type Registry struct {
	mu     sync.RWMutex
	tables map[string]*Table
}

func NewRegistry() *Registry {
	return &Registry{tables: make(map[string]*Table)}
}

// Load replaces the registered tables.
func (r *Registry) Load(tables []*Table) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables = make(map[string]*Table, len(tables))
	for _, t := range tables {
		r.tables[t.Name] = t
	}
}

// Get returns the table with the given name, or nil.
func (r *Registry) Get(name string) *Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tables[name]
}

// All returns the registered tables sorted by name.
func (r *Registry) All() []*Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tables := make([]*Table, 0, len(r.tables))
	for _, t := range r.tables {
		tables = append(tables, t)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Name < tables[j].Name })
	return tables
}
