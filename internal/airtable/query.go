package airtable

import "context"

// Descriptor identifies a query for fingerprinting: the table it targets,
// the execution method ("all" or "paginate"), and every parameter that
// influences the result set.
type Descriptor struct {
	Table  string
	Method string
	Params map[string]any
}

// Result is the outcome of executing a query: the records plus pagination
// metadata. Non-paginated queries leave HasNext/HasPrev false.
type Result struct {
	Records []Record
	HasNext bool
	HasPrev bool
}

// CacheableQuery is the unit the QueryCache memoizes. A plain select and a
// page-indexed select both implement it, so the cache treats them alike.
type CacheableQuery interface {
	// Descriptor returns the identity of this query. Two queries with equal
	// descriptors must produce the same result set within the cache TTL.
	Descriptor() Descriptor
	// Do executes the query against the remote store.
	Do(ctx context.Context) (*Result, error)
}

// SelectQuery fetches every record matching its parameters, transparently
// following the cursor chain to the end (the "all" method).
type SelectQuery struct {
	client *Client
	table  string
	params SelectParams
}

// Select builds a query over table with the given parameters. Execution is
// deferred until Do, or until the cache decides the query must run.
func (c *Client) Select(table string, params SelectParams) *SelectQuery {
	return &SelectQuery{client: c, table: table, params: params}
}

// Descriptor implements CacheableQuery.
func (q *SelectQuery) Descriptor() Descriptor {
	return Descriptor{
		Table:  q.table,
		Method: "all",
		Params: map[string]any{
			"filterByFormula": q.params.FilterByFormula,
			"fields":          q.params.Fields,
			"pageSize":        q.params.PageSize,
		},
	}
}

// Do implements CacheableQuery. It accumulates records across the whole
// cursor chain; an error on any step discards all partial progress.
func (q *SelectQuery) Do(ctx context.Context) (*Result, error) {
	var (
		records []Record
		offset  string
	)
	for {
		resp, err := q.client.ListRecords(ctx, q.table, q.params, offset)
		if err != nil {
			return nil, err
		}
		records = append(records, resp.Records...)
		if resp.Offset == "" {
			break
		}
		offset = resp.Offset
	}
	return &Result{Records: records}, nil
}

// Page decorates the select with 1-based page-indexed access.
func (q *SelectQuery) Page(page int) *PagedQuery {
	return &PagedQuery{query: q, page: page}
}
