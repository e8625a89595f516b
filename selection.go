package datatable

import (
	"log/slog"
	"sort"

	"github.com/domonda/go-datatable/kvstore"
)

// Selection maps row identifiers to their selected flag.
// An absent identifier is equivalent to false. The map may hold
// stale entries for identifiers no longer present in the current
// dataset, those are inert and ignored by all id-scoped queries.
type Selection map[string]bool

// IsSelected reports whether id is selected.
func (s Selection) IsSelected(id string) bool {
	return s[id]
}

// Clone returns a copy of the selection.
func (s Selection) Clone() Selection {
	clone := make(Selection, len(s))
	for id, selected := range s {
		clone[id] = selected
	}
	return clone
}

// selectionKey derives the storage key for persisted selection state.
func selectionKey(persistenceKey string) string {
	return persistenceKey + "-selection"
}

// SelectionController owns the row-selection state machine of a
// table, with the same owned/delegated duality as SortController.
type SelectionController struct {
	state     *State[Selection]
	delegated bool
	value     Selection
	onChange  func(Selection)
	sink      *State[Selection]
}

// NewSelectionController creates a controller that owns its
// selection. If store and persistenceKey are given, the selection
// is loaded from and persisted under "<persistenceKey>-selection".
func NewSelectionController(store kvstore.Store, persistenceKey string, logger *slog.Logger) *SelectionController {
	opts := []StateOption{WithStateLogger(logger)}
	if store != nil && persistenceKey != "" {
		opts = append(opts, WithStore(store, selectionKey(persistenceKey)))
	}
	return &SelectionController{
		state: NewState(Selection{}, opts...),
	}
}

// NewDelegatedSelectionController creates a controller whose
// selection is owned by the host application.
func NewDelegatedSelectionController(value Selection, onChange func(Selection), store kvstore.Store, persistenceKey string, logger *slog.Logger) *SelectionController {
	if value == nil {
		value = Selection{}
	}
	c := &SelectionController{
		delegated: true,
		value:     value,
		onChange:  onChange,
	}
	if store != nil && persistenceKey != "" {
		c.sink = NewState(value, WithStore(store, selectionKey(persistenceKey)), WithStateLogger(logger))
	}
	return c
}

// Delegated reports whether the host application owns the selection.
func (c *SelectionController) Delegated() bool {
	return c.delegated
}

// Selection returns the current selection map.
// The returned map must not be mutated by the caller.
func (c *SelectionController) Selection() Selection {
	if c.delegated {
		return c.value
	}
	return c.state.Get()
}

// SetValue hands the controller the host-owned current selection.
// Only meaningful in delegated mode, where the received value is
// also persisted when a persistence key was configured.
func (c *SelectionController) SetValue(value Selection) {
	if !c.delegated {
		return
	}
	if value == nil {
		value = Selection{}
	}
	c.value = value
	if c.sink != nil {
		c.sink.Set(value)
	}
}

func (c *SelectionController) apply(fn func(prev Selection) Selection) {
	if c.delegated {
		c.onChange(fn(c.value))
		return
	}
	c.state.Update(fn)
}

// ToggleRow flips the selected flag of a single row,
// leaving all other entries untouched.
func (c *SelectionController) ToggleRow(id string) {
	c.apply(func(prev Selection) Selection {
		next := prev.Clone()
		next[id] = !prev[id]
		return next
	})
}

// ToggleAllRows sets the selected flag of all given ids.
//
// Without an explicit value the target is the negation of
// "all given ids are currently selected": toggling a fully
// selected set deselects it, any other set becomes fully selected.
// With an explicit value every id is force-set to that value.
// Entries outside ids are preserved unchanged.
func (c *SelectionController) ToggleAllRows(ids []string, explicit ...bool) {
	c.apply(func(prev Selection) Selection {
		target := !allSelected(prev, ids)
		if len(explicit) > 0 {
			target = explicit[0]
		}
		next := prev.Clone()
		for _, id := range ids {
			next[id] = target
		}
		return next
	})
}

// IsAllSelected reports whether ids is non-empty and every id
// in it is selected. An empty ids set yields false so that an
// empty row set never presents as "all selected".
func (c *SelectionController) IsAllSelected(ids []string) bool {
	return allSelected(c.Selection(), ids)
}

// IsSomeSelected reports whether the number of selected ids among
// ids is strictly between zero and len(ids). Hosts typically use
// this to drive an indeterminate checkbox state.
func (c *SelectionController) IsSomeSelected(ids []string) bool {
	selection := c.Selection()
	count := 0
	for _, id := range ids {
		if selection[id] {
			count++
		}
	}
	return count > 0 && count < len(ids)
}

// SelectedIDs returns all currently selected identifiers in
// lexical order, including ids not present in the current dataset.
func (c *SelectionController) SelectedIDs() []string {
	selection := c.Selection()
	ids := make([]string, 0, len(selection))
	for id, selected := range selection {
		if selected {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func allSelected(selection Selection, ids []string) bool {
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if !selection[id] {
			return false
		}
	}
	return true
}
