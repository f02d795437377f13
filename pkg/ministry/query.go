package ministry

// FilterOp is the comparison applied by a Filter.
type FilterOp string

const (
	// OpContainsFold matches string fields containing Value, ignoring case.
	OpContainsFold FilterOp = "contains_fold"
	// OpGreaterOrEqual matches time fields at or after Value (a time.Time).
	OpGreaterOrEqual FilterOp = "gte"
)

// Filter restricts a read to documents whose Field satisfies Op against Value.
type Filter struct {
	Field string
	Op    FilterOp
	Value interface{}
}

// Sort orders a read by a document field. An empty Field keeps insertion order.
type Sort struct {
	Field string
	Desc  bool
}

// Query describes a filtered, sorted and optionally paged collection read.
// Page is 1-based; a zero Limit disables paging.
type Query struct {
	Filters []Filter
	Sort    Sort
	Page    int
	Limit   int
}

// Skip returns the number of documents to skip for the requested page.
func (q Query) Skip() int {
	if q.Limit <= 0 || q.Page <= 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

// Fields is a set of document fields to overwrite on update, keyed by
// document field name. Fields not present keep their stored value.
type Fields map[string]interface{}

// TotalPages returns how many pages of size limit are needed for count items.
func TotalPages(count int64, limit int) int {
	if limit <= 0 || count <= 0 {
		return 0
	}
	return int((count + int64(limit) - 1) / int64(limit))
}
