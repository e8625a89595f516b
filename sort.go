package datatable

import (
	"log/slog"

	"github.com/domonda/go-datatable/kvstore"
)

// SortDirection is the polarity of a sort.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortState describes which column a table is sorted by.
// An empty Key means unsorted: the pipeline performs no
// reordering and preserves input order.
type SortState struct {
	Key       string        `json:"key"`
	Direction SortDirection `json:"direction"`
}

// IsSorted reports whether the state requests an active sort.
func (s SortState) IsSorted() bool {
	return s.Key != ""
}

// sortStateKey derives the storage key for persisted sort state.
func sortStateKey(persistenceKey string) string {
	return persistenceKey + "-sort"
}

// SortController owns the sort state machine of a table.
//
// In owned mode the controller holds the state itself,
// optionally persisted. In delegated mode the host application
// owns the state: reads return the last value handed to SetValue
// and every change request is routed to the host's callback
// instead of being applied internally.
type SortController struct {
	state     *State[SortState]
	delegated bool
	value     SortState
	onChange  func(SortState)
	sink      *State[SortState] // persistence sink for delegated values
}

// NewSortController creates a controller that owns its sort state.
// If store and persistenceKey are given, the state is loaded from
// and persisted under "<persistenceKey>-sort".
func NewSortController(store kvstore.Store, persistenceKey string, logger *slog.Logger) *SortController {
	opts := []StateOption{WithStateLogger(logger)}
	if store != nil && persistenceKey != "" {
		opts = append(opts, WithStore(store, sortStateKey(persistenceKey)))
	}
	return &SortController{
		state: NewState(SortState{Direction: SortAsc}, opts...),
	}
}

// NewDelegatedSortController creates a controller whose state is
// owned by the host application. Change requests invoke onChange,
// nothing is applied internally. If store and persistenceKey are
// given, values received via SetValue are still persisted.
func NewDelegatedSortController(value SortState, onChange func(SortState), store kvstore.Store, persistenceKey string, logger *slog.Logger) *SortController {
	c := &SortController{
		delegated: true,
		value:     value,
		onChange:  onChange,
	}
	if store != nil && persistenceKey != "" {
		c.sink = NewState(value, WithStore(store, sortStateKey(persistenceKey)), WithStateLogger(logger))
	}
	return c
}

// Delegated reports whether the host application owns the sort state.
func (c *SortController) Delegated() bool {
	return c.delegated
}

// State returns the current sort state.
func (c *SortController) State() SortState {
	if c.delegated {
		return c.value
	}
	return c.state.Get()
}

// SetValue hands the controller the host-owned current value.
// Only meaningful in delegated mode, where the received value is
// also persisted when a persistence key was configured.
func (c *SortController) SetValue(value SortState) {
	if !c.delegated {
		return
	}
	c.value = value
	if c.sink != nil {
		c.sink.Set(value)
	}
}

// HandleSort requests sorting by the given column key.
//
// Requests for reserved pseudo-keys are silently ignored.
// Requesting the already active key flips ascending to descending,
// any other current direction becomes ascending. Requesting a new
// key resets the direction to ascending.
//
// Exactly one of updating the internal state or invoking the
// host's change callback happens per call, depending on the mode.
func (c *SortController) HandleSort(key string) {
	if IsReservedKey(key) {
		return
	}
	if c.delegated {
		c.onChange(nextSortState(c.value, key))
		return
	}
	c.state.Update(func(prev SortState) SortState {
		return nextSortState(prev, key)
	})
}

func nextSortState(current SortState, key string) SortState {
	next := SortState{Key: key, Direction: SortAsc}
	if current.Key == key && current.Direction == SortAsc {
		next.Direction = SortDesc
	}
	return next
}
