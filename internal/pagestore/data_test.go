package pagestore_test

import (
	"testing"

	"github.com/rohmanhakim/consents/internal/pagestore"
	"github.com/stretchr/testify/assert"
)

func TestPageCount(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		pageSize int
		want     int
	}{
		{name: "empty collection has no pages", total: 0, pageSize: 2, want: 0},
		{name: "partial last page", total: 5, pageSize: 2, want: 3},
		{name: "exact multiple", total: 6, pageSize: 2, want: 3},
		{name: "single record", total: 1, pageSize: 2, want: 1},
		{name: "invalid page size", total: 5, pageSize: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pagestore.PageCount(tt.total, tt.pageSize))
			assert.Equal(t, tt.want, pagestore.State{Total: tt.total, PageSize: tt.pageSize}.PageCount())
		})
	}
}

func TestLandingPage(t *testing.T) {
	assert.Equal(t, 1, pagestore.LandingPage(0, 2))
	assert.Equal(t, 1, pagestore.LandingPage(2, 2))
	assert.Equal(t, 3, pagestore.LandingPage(6, 2))
	assert.Equal(t, 4, pagestore.LandingPage(7, 2))
}
