package airtable

import "context"

// PagedQuery adapts the cursor-only listing API to page-indexed access.
//
// Airtable never hands out direct offsets into a result set, only an opaque
// forward cursor per response, so reaching page k costs k listing calls:
// the walk starts with no cursor and follows the chain until the counter
// reaches the requested page. That linear cost is a property of the
// upstream API, not something this decorator tries to optimize away.
//
// PagedQuery implements CacheableQuery with the page number folded into the
// fingerprint, so each page of the same select is cached independently.
type PagedQuery struct {
	query *SelectQuery
	page  int
}

// Descriptor implements CacheableQuery. The params include the page on top
// of the wrapped select's parameters.
func (q *PagedQuery) Descriptor() Descriptor {
	d := q.query.Descriptor()
	d.Method = "paginate"
	d.Params["page"] = q.page
	return d
}

// Do walks the cursor chain until the requested page and returns exactly
// that page's records. HasNext reports whether the target page's response
// carried a further cursor; HasPrev is true for any page after the first.
//
// If the chain ends before the target page is reached, the result is an
// empty record set. A transport error on any step aborts the whole walk;
// no partial page is ever returned.
func (q *PagedQuery) Do(ctx context.Context) (*Result, error) {
	var (
		records []Record
		offset  string
		hasNext bool
	)
	currentPage := 1
	for {
		resp, err := q.query.client.ListRecords(ctx, q.query.table, q.query.params, offset)
		if err != nil {
			return nil, err
		}
		offset = resp.Offset

		if currentPage == q.page {
			records = resp.Records
			hasNext = offset != ""
			break
		}
		if offset == "" {
			// Chain exhausted before the target page.
			break
		}
		currentPage++
	}

	return &Result{
		Records: records,
		HasNext: hasNext,
		HasPrev: q.page > 1,
	}, nil
}
