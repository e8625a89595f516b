package datatable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisiblePages(t *testing.T) {
	tests := []struct {
		name        string
		currentPage int
		totalPages  int
		want        []int
	}{
		{name: "no pages", currentPage: 1, totalPages: 0, want: nil},
		{name: "single page", currentPage: 1, totalPages: 1, want: []int{1}},
		{name: "all pages below window", currentPage: 2, totalPages: 3, want: []int{1, 2, 3}},
		{name: "exactly five pages", currentPage: 5, totalPages: 5, want: []int{1, 2, 3, 4, 5}},
		{name: "first page of many", currentPage: 1, totalPages: 10, want: []int{1, 2, 3, Ellipsis, 10}},
		{name: "second page of many", currentPage: 2, totalPages: 10, want: []int{1, 2, 3, Ellipsis, 10}},
		{name: "third page extends window", currentPage: 3, totalPages: 10, want: []int{1, 2, 3, 4, Ellipsis, 10}},
		{name: "third page of six", currentPage: 3, totalPages: 6, want: []int{1, 2, 3, 4, Ellipsis, 6}},
		{name: "middle page", currentPage: 5, totalPages: 10, want: []int{1, Ellipsis, 4, 5, 6, Ellipsis, 10}},
		{name: "near end", currentPage: 8, totalPages: 10, want: []int{1, Ellipsis, 8, 9, 10}},
		{name: "last page", currentPage: 10, totalPages: 10, want: []int{1, Ellipsis, 8, 9, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VisiblePages(tt.currentPage, tt.totalPages))
		})
	}
}

func TestPaginationModeString(t *testing.T) {
	assert.Equal(t, "Auto", PaginationAuto.String())
	assert.Equal(t, "Manual", PaginationManual.String())
	assert.Equal(t, "Off", PaginationOff.String())
	assert.Equal(t, "Unknown(99)", PaginationMode(99).String())
}
