package oncrawl

import "encoding/json"

// OQL comparison operators used by the linking queries.
const (
	OpEquals = "equals"
	OpGt     = "gt"
	OpGte    = "gte"
	OpLte    = "lte"
)

// Page field names.
const (
	FieldURL        = "url"
	FieldInlinks    = "nb_inlinks"
	FieldDepth      = "depth"
	FieldStatusCode = "status_code"
	FieldTitle      = "title"
	FieldWordCount  = "word_count"
	FieldFetched    = "fetched"
	FieldInSitemap  = "in_sitemap"
)

// DefaultPageFields are requested when a query names no fields.
var DefaultPageFields = []string{FieldURL, FieldInlinks, FieldDepth, FieldStatusCode, FieldTitle}

// Condition is one field predicate, encoded as {"field": [name, op, value]}.
type Condition struct {
	Field string
	Op    string
	Value any
}

// MarshalJSON implements json.Marshaler.
func (c Condition) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][3]any{"field": {c.Field, c.Op, c.Value}})
}

// OQL is a conjunction of conditions.
type OQL struct {
	And []Condition `json:"and"`
}

// Where builds a conjunction.
func Where(conds ...Condition) *OQL {
	return &OQL{And: conds}
}

func Equals(field string, value any) Condition {
	return Condition{Field: field, Op: OpEquals, Value: value}
}
func Gt(field string, value any) Condition  { return Condition{Field: field, Op: OpGt, Value: value} }
func Gte(field string, value any) Condition { return Condition{Field: field, Op: OpGte, Value: value} }
func Lte(field string, value any) Condition { return Condition{Field: field, Op: OpLte, Value: value} }

// FetchedOK restricts a query to pages fetched with HTTP 200.
func FetchedOK(extra ...Condition) *OQL {
	conds := make([]Condition, 0, 2+len(extra))
	conds = append(conds, Equals(FieldFetched, true), Equals(FieldStatusCode, 200))
	return Where(append(conds, extra...)...)
}

// Sort orders.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// SortSpec orders query results by one field.
type SortSpec struct {
	Field string `json:"field"`
	Order string `json:"order"`
}

// PageQuery is the body of a pages query.
type PageQuery struct {
	Offset int        `json:"offset"`
	Limit  int        `json:"limit"`
	Fields []string   `json:"fields"`
	OQL    *OQL       `json:"oql,omitempty"`
	Sort   []SortSpec `json:"sort,omitempty"`
}

// Range is one bucket of a range aggregation. From is inclusive, To exclusive.
type Range struct {
	Name string `json:"name"`
	From *int   `json:"from,omitempty"`
	To   *int   `json:"to,omitempty"`
}

// AggField groups an aggregation by a field, optionally into ranges.
type AggField struct {
	Name   string  `json:"name"`
	Ranges []Range `json:"ranges,omitempty"`
}

// Aggregation is one aggregate query.
type Aggregation struct {
	Fields []AggField `json:"fields"`
	Value  string     `json:"value,omitempty"`
	OQL    *OQL       `json:"oql,omitempty"`
}

// Bound returns a pointer to n, for Range limits.
func Bound(n int) *int {
	return &n
}
