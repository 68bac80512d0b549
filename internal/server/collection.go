package server

import (
	"sync"

	"github.com/rohmanhakim/consents/internal/consent"
)

// Collection is the in-memory consent list. Order is insertion order.
type Collection struct {
	mu      sync.RWMutex
	records []consent.Record
}

func NewCollection(seed []consent.Record) *Collection {
	return &Collection{
		records: consent.CloneAll(seed),
	}
}

// Slice returns records [(page-1)*pageSize, page*pageSize) and the total.
// Out-of-range pages yield an empty slice.
func (c *Collection) Slice(page int, pageSize int) ([]consent.Record, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := len(c.records)
	if total == 0 || page < 1 || pageSize < 1 {
		return []consent.Record{}, total
	}
	// compare page indexes before multiplying so huge values cannot wrap
	if page-1 > (total-1)/pageSize {
		return []consent.Record{}, total
	}
	start := (page - 1) * pageSize
	end := total
	if pageSize < total-start {
		end = start + pageSize
	}
	return consent.CloneAll(c.records[start:end]), total
}

func (c *Collection) Append(r consent.Record) consent.Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := r.Clone()
	c.records = append(c.records, stored)
	return stored.Clone()
}

func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// SeedRecords is the fixed set the collection starts with on every run.
func SeedRecords() []consent.Record {
	return []consent.Record{
		{
			Name:            "Bojack Horseman",
			Email:           "bojack@horseman.com",
			ConsentGivenFor: []string{"Receive newsletter", "Be shown targeted ads"},
		},
		{
			Name:            "Princess Carolyn",
			Email:           "princess@manager.com",
			ConsentGivenFor: []string{"Receive newsletter"},
		},
		{
			Name:            "Diane Nguyen",
			Email:           "diane@writer.com",
			ConsentGivenFor: []string{"Receive newsletter", "Contribute to anonymous visit statistics"},
		},
		{
			Name:            "Mr. Peanutbutter",
			Email:           "mrpb@dog.com",
			ConsentGivenFor: []string{"Be shown targeted ads"},
		},
		{
			Name:            "Todd Chavez",
			Email:           "todd@chavez.com",
			ConsentGivenFor: []string{"Receive newsletter", "Be shown targeted ads"},
		},
		{
			Name:            "Sarah Lynn",
			Email:           "sarah@lynn.com",
			ConsentGivenFor: []string{"Contribute to anonymous visit statistics"},
		},
	}
}
