package recordsvc

import "github.com/rohmanhakim/consents/internal/consent"

type ListResult struct {
	records  []consent.Record
	total    int
	page     int
	pageSize int
}

func NewListResult(records []consent.Record, total int, page int, pageSize int) ListResult {
	return ListResult{
		records:  records,
		total:    total,
		page:     page,
		pageSize: pageSize,
	}
}

func (l ListResult) Records() []consent.Record {
	return consent.CloneAll(l.records)
}

func (l ListResult) Total() int {
	return l.total
}

func (l ListResult) Page() int {
	return l.page
}

func (l ListResult) PageSize() int {
	return l.pageSize
}
