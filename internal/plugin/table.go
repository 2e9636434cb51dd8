package plugin

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Table maps plugin identifiers to statically linked init functions. It is
// populated once at startup by the compiled-in module list and read-only
// afterwards, so it needs no locking.
type Table struct {
	entries map[string]Descriptor
}

// NewTable returns an empty registration table.
func NewTable() *Table {
	return &Table{entries: make(map[string]Descriptor)}
}

// Register adds a descriptor to the table. Registering the same name twice
// overwrites the earlier entry; the table does not deduplicate.
func (t *Table) Register(d Descriptor) {
	if _, exists := t.entries[d.Name]; exists {
		slog.Debug("Overwriting plugin registration.", "name", d.Name)
	}
	t.entries[d.Name] = d
}

// Lookup returns the descriptor registered under name, if any.
func (t *Table) Lookup(name string) (Descriptor, bool) {
	d, ok := t.entries[name]
	return d, ok
}

// Names returns all registered plugin names, sorted.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve maps each requested name to its descriptor, preserving request
// order. Unresolved names are accumulated into a single textual error listing
// every failure, so the operator sees all typos at once rather than one per
// restart.
func (t *Table) Resolve(names []string) ([]Descriptor, error) {
	var descs []Descriptor
	var missing []string
	for _, name := range names {
		d, ok := t.entries[name]
		if !ok {
			missing = append(missing, fmt.Sprintf("plugin %q is not compiled into this binary", name))
			continue
		}
		descs = append(descs, d)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s (available: %s)", strings.Join(missing, "; "), strings.Join(t.Names(), ", "))
	}
	return descs, nil
}
