package datatable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domonda/go-datatable/kvstore"
)

func TestSelectionControllerToggleRow(t *testing.T) {
	c := NewSelectionController(nil, "", nil)
	assert.Empty(t, c.SelectedIDs())

	c.ToggleRow("a")
	assert.True(t, c.Selection().IsSelected("a"))

	c.ToggleRow("b")
	assert.Equal(t, []string{"a", "b"}, c.SelectedIDs())

	c.ToggleRow("a")
	assert.False(t, c.Selection().IsSelected("a"))
	assert.Equal(t, []string{"b"}, c.SelectedIDs())
}

func TestSelectionControllerToggleAllRows(t *testing.T) {
	ids := []string{"a", "b", "c"}
	c := NewSelectionController(nil, "", nil)

	// Nothing selected: toggle selects everything.
	c.ToggleAllRows(ids)
	assert.True(t, c.IsAllSelected(ids))

	// Everything selected: toggle deselects everything.
	c.ToggleAllRows(ids)
	assert.Empty(t, c.SelectedIDs())

	// Partial selection counts as not-all, so toggle selects all.
	c.ToggleRow("b")
	c.ToggleAllRows(ids)
	assert.True(t, c.IsAllSelected(ids))
}

func TestSelectionControllerToggleAllRowsExplicit(t *testing.T) {
	ids := []string{"a", "b"}
	c := NewSelectionController(nil, "", nil)

	c.ToggleAllRows(ids, true)
	assert.True(t, c.IsAllSelected(ids))

	// Explicit true is idempotent, unlike the toggling default.
	c.ToggleAllRows(ids, true)
	assert.True(t, c.IsAllSelected(ids))

	c.ToggleAllRows(ids, false)
	assert.Empty(t, c.SelectedIDs())
}

func TestSelectionControllerPreservesOtherEntries(t *testing.T) {
	c := NewSelectionController(nil, "", nil)
	c.ToggleRow("stale")

	c.ToggleAllRows([]string{"a", "b"}, true)
	assert.Equal(t, []string{"a", "b", "stale"}, c.SelectedIDs())

	c.ToggleAllRows([]string{"a", "b"}, false)
	assert.Equal(t, []string{"stale"}, c.SelectedIDs(),
		"ids outside the toggled set must keep their state")
}

func TestSelectionControllerAggregates(t *testing.T) {
	ids := []string{"a", "b", "c"}
	c := NewSelectionController(nil, "", nil)

	assert.False(t, c.IsAllSelected(ids))
	assert.False(t, c.IsSomeSelected(ids))

	c.ToggleRow("a")
	assert.False(t, c.IsAllSelected(ids))
	assert.True(t, c.IsSomeSelected(ids))

	c.ToggleAllRows(ids, true)
	assert.True(t, c.IsAllSelected(ids))
	assert.False(t, c.IsSomeSelected(ids), "full selection is not a partial selection")
}

func TestSelectionControllerEmptyIDs(t *testing.T) {
	c := NewSelectionController(nil, "", nil)
	c.ToggleRow("a")

	assert.False(t, c.IsAllSelected(nil), "empty id set never counts as all selected")
	assert.False(t, c.IsSomeSelected(nil))

	// Toggling an empty id set selects nothing new.
	c.ToggleAllRows(nil)
	assert.Equal(t, []string{"a"}, c.SelectedIDs())
}

func TestSelectionControllerPersistence(t *testing.T) {
	store := kvstore.NewMemoryStore()

	c := NewSelectionController(store, "users", nil)
	c.ToggleRow("a")
	c.ToggleRow("b")
	c.ToggleRow("b")

	data, err := store.Get("users-selection")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":true,"b":false}`, string(data))

	restored := NewSelectionController(store, "users", nil)
	assert.Equal(t, []string{"a"}, restored.SelectedIDs())
}

func TestDelegatedSelectionController(t *testing.T) {
	var received []Selection
	c := NewDelegatedSelectionController(
		Selection{"a": true},
		func(s Selection) { received = append(received, s) },
		nil, "", nil)

	require.True(t, c.Delegated())

	c.ToggleRow("b")
	require.Len(t, received, 1)
	assert.Equal(t, Selection{"a": true, "b": true}, received[0])
	// Internal value unchanged until the host hands it back.
	assert.Equal(t, []string{"a"}, c.SelectedIDs())

	c.SetValue(received[0])
	assert.Equal(t, []string{"a", "b"}, c.SelectedIDs())
}

func TestDelegatedSelectionControllerNilValue(t *testing.T) {
	c := NewDelegatedSelectionController(nil, func(Selection) {}, nil, "", nil)
	assert.NotNil(t, c.Selection())
	assert.Empty(t, c.SelectedIDs())
}

func TestSelectionClone(t *testing.T) {
	original := Selection{"a": true}
	clone := original.Clone()
	clone["b"] = true
	assert.False(t, original.IsSelected("b"))
}
