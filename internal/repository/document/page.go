package document

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PageRequest is the ephemeral page-request value derived from one HTTP
// request. Limit zero means unlimited.
type PageRequest struct {
	Limit  int64
	LastID string
	SortBy string
	Ascend int
	Except []string
}

// Direction normalizes Ascend to 1 or -1, defaulting to ascending.
func (p PageRequest) Direction() int {
	if p.Ascend < 0 {
		return -1
	}
	return 1
}

// Pagination is returned once per list/query call. LastID is nil when the
// page is empty; Count is the page-size counter, not the result-set
// cardinality.
type Pagination struct {
	LastID *string `json:"lastId"`
	Count  int     `json:"count"`
}

// Page is the payload of a list or query operation.
type Page struct {
	Data       []bson.M
	Pagination Pagination
}

// ParseExcept splits a delimited field-name list; both "|" and "," are
// accepted as delimiters. Blank entries are dropped.
func ParseExcept(raw string) []string {
	if raw == "" {
		return nil
	}
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '|' || r == ','
	})
	out := fields[:0]
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// BuildPageFilter composes the effective filter for one page fetch.
//
// Without a cursor the filter is the conjunction of the supplied conditions
// (empty conjunction = match-all). With a cursor it additionally requires the
// document to sit strictly after the last page's position in sort order,
// expressed as a disjunction of two branches: the secondary sort field
// advanced past the last item's value, or the secondary field tied and the
// identifier advanced. The second branch is what keeps pagination exact when
// many documents share the same sort value. When no sort field is in play
// (or the cursor document lacked it, signalled by a nil lastSortValue), the
// disjunction degrades to an identifier-only comparison.
func BuildPageFilter(req PageRequest, conditions []Condition, lastID primitive.ObjectID, lastSortValue interface{}) bson.M {
	result := bson.M{}

	if req.LastID != "" {
		op := "$gt"
		if req.Direction() == -1 {
			op = "$lt"
		}

		tieBranch := bson.M{"_id": bson.M{op: lastID}}
		branches := []bson.M{tieBranch}
		if req.SortBy != "" && lastSortValue != nil {
			tieBranch[req.SortBy] = lastSortValue
			branches = append([]bson.M{{req.SortBy: bson.M{op: lastSortValue}}}, branches...)
		}

		and := []bson.M{{"$or": branches}}
		and = append(and, conditions...)
		result["$and"] = and
		return result
	}

	if len(conditions) > 0 {
		result["$and"] = append([]bson.M{}, conditions...)
	}
	return result
}

// BuildPageSort orders by the requested sort field (if any) then by
// identifier, both in the request direction. The order must match the
// cursor predicate's direction or pages will not compose.
func BuildPageSort(req PageRequest) bson.D {
	dir := req.Direction()
	sort := bson.D{}
	if req.SortBy != "" {
		sort = append(sort, bson.E{Key: req.SortBy, Value: dir})
	}
	return append(sort, bson.E{Key: "_id", Value: dir})
}

// BuildProjection merges the request's except list with the resource's static
// exclusion list into a field-exclusion projection. The identifier is never
// excludable.
func BuildProjection(requestExcept, staticExcept []string) bson.M {
	projection := bson.M{}
	for _, field := range requestExcept {
		if field == "_id" || field == "id" {
			continue
		}
		projection[field] = 0
	}
	for _, field := range staticExcept {
		if field == "_id" || field == "id" {
			continue
		}
		projection[field] = 0
	}
	return projection
}
