package server_test

import (
	"math"
	"testing"

	"github.com/rohmanhakim/consents/internal/consent"
	"github.com/rohmanhakim/consents/internal/server"
	"github.com/stretchr/testify/assert"
)

func TestCollection_Slice(t *testing.T) {
	c := server.NewCollection(server.SeedRecords())

	tests := []struct {
		name      string
		page      int
		pageSize  int
		wantNames []string
	}{
		{name: "first page", page: 1, pageSize: 2, wantNames: []string{"Bojack Horseman", "Princess Carolyn"}},
		{name: "last page", page: 3, pageSize: 2, wantNames: []string{"Todd Chavez", "Sarah Lynn"}},
		{name: "partial page", page: 2, pageSize: 4, wantNames: []string{"Todd Chavez", "Sarah Lynn"}},
		{name: "out of range", page: 9, pageSize: 2, wantNames: []string{}},
		{name: "page offset beyond int range", page: math.MaxInt64/4 + 2, pageSize: 4, wantNames: []string{}},
		{name: "page size beyond int range", page: 1, pageSize: math.MaxInt, wantNames: []string{
			"Bojack Horseman", "Princess Carolyn", "Diane Nguyen", "Mr. Peanutbutter", "Todd Chavez", "Sarah Lynn",
		}},
		{name: "second page of huge page size", page: 2, pageSize: math.MaxInt, wantNames: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, total := c.Slice(tt.page, tt.pageSize)

			assert.Equal(t, 6, total)
			names := make([]string, 0, len(data))
			for _, r := range data {
				names = append(names, r.Name)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestCollection_AppendKeepsInsertionOrder(t *testing.T) {
	c := server.NewCollection(nil)

	c.Append(consent.Record{Name: "First"})
	c.Append(consent.Record{Name: "Second"})

	data, total := c.Slice(1, 10)
	assert.Equal(t, 2, total)
	assert.Equal(t, "First", data[0].Name)
	assert.Equal(t, "Second", data[1].Name)
}

func TestCollection_IsolatedFromSeed(t *testing.T) {
	seed := server.SeedRecords()
	c := server.NewCollection(seed)

	seed[0].Name = "changed"

	data, _ := c.Slice(1, 1)
	assert.Equal(t, "Bojack Horseman", data[0].Name)
}
