package datatable

import (
	"log/slog"

	"golang.org/x/text/collate"

	"github.com/domonda/go-datatable/kvstore"
)

// DefaultPageSize is the page size of a Table
// that was not configured with WithPageSize.
const DefaultPageSize = 10

// Table is the headless data-table facade. It wires the data
// pipeline, the sort and selection controllers, and the page
// counter together and exposes the processed output for a host
// to render.
//
// Configure a Table with the With methods directly after New,
// before calling any other method: the controllers are created
// on first use and fix their owned/delegated mode at that point.
//
// A Table is not safe for concurrent use. All state transitions
// are expected to happen within a single logical turn, driven by
// discrete host events.
type Table struct {
	columns        Columns
	rows           []Row
	search         string
	idFunc         IDFunc
	logger         *slog.Logger
	collator       *collate.Collator
	store          kvstore.Store
	persistenceKey string

	pageSize           int
	paginationMode     PaginationMode
	externalPagination bool
	externalPage       int
	externalTotal      int

	disableProcessing bool

	sortValue         *SortState
	onSortChange      func(SortState)
	selectionValue    Selection
	onSelectionChange func(Selection)

	sort      *SortController
	selection *SelectionController
	page      *State[int]

	processed      []Row
	processedValid bool
}

// New creates a Table with the given columns,
// the default row identifier extractor, and auto pagination.
func New(columns ...Column) *Table {
	return &Table{
		columns:  columns,
		idFunc:   DefaultIDFunc,
		pageSize: DefaultPageSize,
	}
}

// WithRows sets the raw row data.
func (t *Table) WithRows(rows []Row) *Table {
	t.rows = rows
	t.invalidate()
	return t
}

// WithIDFunc sets the row identifier extractor.
func (t *Table) WithIDFunc(idFunc IDFunc) *Table {
	t.idFunc = idFunc
	return t
}

// WithPersistence makes the table persist sort and selection
// state in store under keys derived from persistenceKey.
func (t *Table) WithPersistence(store kvstore.Store, persistenceKey string) *Table {
	t.store = store
	t.persistenceKey = persistenceKey
	return t
}

// WithLogger sets the logger for storage failures and
// row identifier fallbacks. Defaults to slog.Default().
func (t *Table) WithLogger(logger *slog.Logger) *Table {
	t.logger = logger
	return t
}

// WithCollator sets the collator used for locale-aware
// string comparison in the sort stage.
func (t *Table) WithCollator(collator *collate.Collator) *Table {
	t.collator = collator
	t.invalidate()
	return t
}

// WithPageSize sets the number of rows per page.
func (t *Table) WithPageSize(pageSize int) *Table {
	if pageSize > 0 {
		t.pageSize = pageSize
	}
	return t
}

// WithPaginationMode sets how the table paginates.
func (t *Table) WithPaginationMode(mode PaginationMode) *Table {
	t.paginationMode = mode
	return t
}

// WithExternalPagination delegates pagination state to the host:
// the host supplies the current page and total page count and the
// table only slices its processed rows accordingly.
func (t *Table) WithExternalPagination(page, totalPages int) *Table {
	t.externalPagination = true
	t.externalPage = page
	t.externalTotal = totalPages
	return t
}

// WithSortState puts the sort state under host control.
// The host supplies the current value and a change callback,
// HandleSort then routes change requests to the callback instead
// of updating internal state. Received values are still persisted
// when WithPersistence was configured.
func (t *Table) WithSortState(value SortState, onChange func(SortState)) *Table {
	t.sortValue = &value
	t.onSortChange = onChange
	return t
}

// WithSelection puts the selection under host control,
// analogous to WithSortState.
func (t *Table) WithSelection(value Selection, onChange func(Selection)) *Table {
	t.selectionValue = value
	t.onSelectionChange = onChange
	return t
}

// WithDisableProcessing bypasses the search and sort stages
// entirely, for callers that process rows elsewhere.
func (t *Table) WithDisableProcessing(disable bool) *Table {
	t.disableProcessing = disable
	t.invalidate()
	return t
}

func (t *Table) invalidate() {
	t.processedValid = false
}

func (t *Table) log() *slog.Logger {
	if t.logger != nil {
		return t.logger
	}
	return slog.Default()
}

func (t *Table) sortController() *SortController {
	if t.sort == nil {
		if t.onSortChange != nil && t.sortValue != nil {
			t.sort = NewDelegatedSortController(*t.sortValue, t.onSortChange, t.store, t.persistenceKey, t.logger)
		} else {
			t.sort = NewSortController(t.store, t.persistenceKey, t.logger)
		}
	}
	return t.sort
}

func (t *Table) selectionController() *SelectionController {
	if t.selection == nil {
		if t.onSelectionChange != nil {
			t.selection = NewDelegatedSelectionController(t.selectionValue, t.onSelectionChange, t.store, t.persistenceKey, t.logger)
		} else {
			t.selection = NewSelectionController(t.store, t.persistenceKey, t.logger)
		}
	}
	return t.selection
}

// The self-managed page counter is an unpersisted state cell.
func (t *Table) pageState() *State[int] {
	if t.page == nil {
		t.page = NewState(1, WithStateLogger(t.logger))
	}
	return t.page
}

// Columns returns the table's column descriptors.
func (t *Table) Columns() Columns {
	return t.columns
}

// Rows returns the raw row data.
func (t *Table) Rows() []Row {
	return t.rows
}

// SetRows replaces the raw row data.
func (t *Table) SetRows(rows []Row) {
	t.rows = rows
	t.invalidate()
}

// Search returns the current search string.
func (t *Table) Search() string {
	return t.search
}

// SetSearch sets the search string filtering the rows.
func (t *Table) SetSearch(search string) {
	t.search = search
	t.invalidate()
}

// RowID returns the identifier of a row.
// If the configured IDFunc cannot derive one, a random fallback
// identifier is substituted and a warning is logged: such an
// identifier is not stable across processing cycles, so selection
// state will not stick to the row.
func (t *Table) RowID(row Row) string {
	if id, ok := t.idFunc(row); ok {
		return id
	}
	id := fallbackID()
	t.log().Warn("datatable: row has no stable identifier, using random fallback",
		"fallbackID", id)
	return id
}

// ProcessedRows returns the rows after search filtering and
// sorting, before pagination slicing.
func (t *Table) ProcessedRows() []Row {
	if !t.processedValid {
		t.processed = processCollated(t.rows, t.search, t.SortState(), t.columns, t.disableProcessing, t.collator)
		t.processedValid = true
	}
	return t.processed
}

// SortState returns the current sort state.
func (t *Table) SortState() SortState {
	return t.sortController().State()
}

// HandleSort requests sorting by the given column key,
// see SortController.HandleSort for the state transitions.
func (t *Table) HandleSort(key string) {
	t.sortController().HandleSort(key)
	t.invalidate()
}

// SetSortState hands a host-owned sort state to the table.
// Only meaningful with WithSortState.
func (t *Table) SetSortState(value SortState) {
	t.sortController().SetValue(value)
	t.invalidate()
}

// Selection returns the current selection map.
func (t *Table) Selection() Selection {
	return t.selectionController().Selection()
}

// SetSelection hands a host-owned selection to the table.
// Only meaningful with WithSelection.
func (t *Table) SetSelection(value Selection) {
	t.selectionController().SetValue(value)
}

// ToggleRow flips the selected flag of a single row.
func (t *Table) ToggleRow(id string) {
	t.selectionController().ToggleRow(id)
}

// ToggleAllRows sets the selected flag of all given ids,
// see SelectionController.ToggleAllRows.
func (t *Table) ToggleAllRows(ids []string, explicit ...bool) {
	t.selectionController().ToggleAllRows(ids, explicit...)
}

// IsAllSelected reports whether ids is non-empty and fully selected.
func (t *Table) IsAllSelected(ids []string) bool {
	return t.selectionController().IsAllSelected(ids)
}

// IsSomeSelected reports whether ids is partially selected.
func (t *Table) IsSomeSelected(ids []string) bool {
	return t.selectionController().IsSomeSelected(ids)
}

// SelectedIDs returns all selected identifiers in lexical order.
func (t *Table) SelectedIDs() []string {
	return t.selectionController().SelectedIDs()
}

// PageRowIDs returns the identifiers of the rows on the current
// page, the id set a select-all control typically operates on.
func (t *Table) PageRowIDs() []string {
	rows := t.PaginatedRows()
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = t.RowID(row)
	}
	return ids
}

// paginationActive reports whether the processed rows are
// currently sliced into pages.
func (t *Table) paginationActive() bool {
	switch {
	case t.paginationMode == PaginationOff:
		return false
	case t.externalPagination:
		return true
	case t.paginationMode == PaginationAuto:
		return len(t.ProcessedRows()) > t.pageSize
	}
	return true
}

// TotalPages returns the page count, at least 1.
func (t *Table) TotalPages() int {
	if t.externalPagination {
		if t.externalTotal < 1 {
			return 1
		}
		return t.externalTotal
	}
	if !t.paginationActive() {
		return 1
	}
	pages := (len(t.ProcessedRows()) + t.pageSize - 1) / t.pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// Page returns the current page clamped into [1, TotalPages].
// The underlying counter is only clamped when read, not on write.
func (t *Table) Page() int {
	page := t.externalPage
	if !t.externalPagination {
		page = t.pageState().Get()
	}
	if page < 1 {
		return 1
	}
	if total := t.TotalPages(); page > total {
		return total
	}
	return page
}

// SetPage sets the self-managed page counter.
func (t *Table) SetPage(page int) {
	t.pageState().Set(page)
}

// NextPage advances the self-managed page counter.
func (t *Table) NextPage() {
	t.pageState().Update(func(prev int) int { return prev + 1 })
}

// PrevPage moves the self-managed page counter back.
func (t *Table) PrevPage() {
	t.pageState().Update(func(prev int) int { return prev - 1 })
}

// SetExternalPagination updates host supplied pagination state,
// only meaningful after WithExternalPagination.
func (t *Table) SetExternalPagination(page, totalPages int) {
	t.externalPage = page
	t.externalTotal = totalPages
}

// PaginatedRows returns the slice of ProcessedRows for the
// current page, or all processed rows when pagination is
// inactive.
func (t *Table) PaginatedRows() []Row {
	processed := t.ProcessedRows()
	if !t.paginationActive() {
		return processed
	}
	start := (t.Page() - 1) * t.pageSize
	if start >= len(processed) {
		return nil
	}
	end := start + t.pageSize
	if end > len(processed) {
		end = len(processed)
	}
	return processed[start:end]
}

// ShowPagination reports whether the host should render
// pagination controls at all.
func (t *Table) ShowPagination() bool {
	return t.paginationActive() && t.TotalPages() > 1
}

// VisiblePageNumbers returns the page numbers to expose in a
// page-number control, with Ellipsis markers eliding the middle
// range. Nil when pagination controls should not be rendered.
func (t *Table) VisiblePageNumbers() []int {
	if !t.ShowPagination() {
		return nil
	}
	return VisiblePages(t.Page(), t.TotalPages())
}
