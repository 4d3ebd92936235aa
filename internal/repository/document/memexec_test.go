package document

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// memExecutor is an in-memory Executor that evaluates the filter, sort, and
// projection values the engine produces. It supports the operator subset the
// engine and the condition builders emit: $and, $or, $gt, $gte, $lt, $lte,
// regex, and plain equality.
type memExecutor struct {
	collections map[string][]bson.M
	nextID      uint32

	findErr        error
	unacknowledged bool
}

func newMemExecutor() *memExecutor {
	return &memExecutor{collections: map[string][]bson.M{}}
}

// seed inserts a document with a deterministic, ascending identifier and
// returns that identifier.
func (m *memExecutor) seed(collection string, doc bson.M) primitive.ObjectID {
	m.nextID++
	id := makeObjectID(m.nextID)
	stored := bson.M{"_id": id}
	for k, v := range doc {
		stored[k] = v
	}
	m.collections[collection] = append(m.collections[collection], stored)
	return id
}

func makeObjectID(n uint32) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(fmt.Sprintf("%024x", n))
	if err != nil {
		panic(err)
	}
	return id
}

func (m *memExecutor) Find(_ context.Context, collection string, filter bson.M, opts FindOptions) ([]bson.M, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}

	var matched []bson.M
	for _, doc := range m.collections[collection] {
		if matchFilter(doc, filter) {
			matched = append(matched, doc)
		}
	}

	if len(opts.Sort) > 0 {
		sortDocs(matched, opts.Sort)
	}
	if opts.Limit > 0 && int64(len(matched)) > opts.Limit {
		matched = matched[:opts.Limit]
	}

	out := make([]bson.M, len(matched))
	for i, doc := range matched {
		out[i] = applyProjection(doc, opts.Projection)
	}
	return out, nil
}

func (m *memExecutor) FindOne(_ context.Context, collection string, filter bson.M, projection bson.M) (bson.M, error) {
	for _, doc := range m.collections[collection] {
		if matchFilter(doc, filter) {
			return applyProjection(doc, projection), nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memExecutor) InsertOne(_ context.Context, collection string, doc bson.M) (primitive.ObjectID, error) {
	if m.unacknowledged {
		return primitive.NilObjectID, mongo.ErrUnacknowledgedWrite
	}
	m.nextID++
	id := makeObjectID(m.nextID)
	stored := bson.M{"_id": id}
	for k, v := range doc {
		stored[k] = v
	}
	m.collections[collection] = append(m.collections[collection], stored)
	return id, nil
}

func (m *memExecutor) UpdateOne(_ context.Context, collection string, filter bson.M, update bson.M) (int64, error) {
	for _, doc := range m.collections[collection] {
		if !matchFilter(doc, filter) {
			continue
		}
		if set, ok := update["$set"].(bson.M); ok {
			for k, v := range set {
				doc[k] = v
			}
		}
		if unset, ok := update["$unset"].(bson.M); ok {
			for k := range unset {
				delete(doc, k)
			}
		}
		return 1, nil
	}
	return 0, nil
}

func (m *memExecutor) DeleteOne(_ context.Context, collection string, filter bson.M) (int64, error) {
	docs := m.collections[collection]
	for i, doc := range docs {
		if matchFilter(doc, filter) {
			m.collections[collection] = append(docs[:i:i], docs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func matchFilter(doc bson.M, filter bson.M) bool {
	for key, value := range filter {
		switch key {
		case "$and":
			for _, sub := range toFilterList(value) {
				if !matchFilter(doc, sub) {
					return false
				}
			}
		case "$or":
			any := false
			for _, sub := range toFilterList(value) {
				if matchFilter(doc, sub) {
					any = true
					break
				}
			}
			if !any {
				return false
			}
		default:
			if !matchField(doc[key], value) {
				return false
			}
		}
	}
	return true
}

func toFilterList(value interface{}) []bson.M {
	switch list := value.(type) {
	case []bson.M:
		return list
	case []interface{}:
		out := make([]bson.M, 0, len(list))
		for _, item := range list {
			if sub, ok := item.(bson.M); ok {
				out = append(out, sub)
			}
		}
		return out
	default:
		return nil
	}
}

func matchField(fieldValue, cond interface{}) bool {
	switch c := cond.(type) {
	case bson.M:
		for op, operand := range c {
			cmp, ok := compareValues(fieldValue, operand)
			if !ok {
				return false
			}
			switch op {
			case "$gt":
				if cmp <= 0 {
					return false
				}
			case "$gte":
				if cmp < 0 {
					return false
				}
			case "$lt":
				if cmp >= 0 {
					return false
				}
			case "$lte":
				if cmp > 0 {
					return false
				}
			default:
				return false
			}
		}
		return true
	case primitive.Regex:
		s, ok := fieldValue.(string)
		if !ok {
			return false
		}
		re, err := regexp.Compile(c.Pattern)
		if err != nil {
			return false
		}
		return re.MatchString(s)
	default:
		cmp, ok := compareValues(fieldValue, cond)
		return ok && cmp == 0
	}
}

func compareValues(a, b interface{}) (int, bool) {
	switch av := a.(type) {
	case primitive.ObjectID:
		bv, ok := b.(primitive.ObjectID)
		if !ok {
			return 0, false
		}
		for i := range av {
			if av[i] != bv[i] {
				if av[i] < bv[i] {
					return -1, true
				}
				return 1, true
			}
		}
		return 0, true
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		default:
			return 0, true
		}
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		if av == bv {
			return 0, true
		}
		if !av {
			return -1, true
		}
		return 1, true
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		switch {
		case av.Before(bv):
			return -1, true
		case av.After(bv):
			return 1, true
		default:
			return 0, true
		}
	default:
		af, aok := toFloat(a)
		bf, bok := toFloat(b)
		if !aok || !bok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

func sortDocs(docs []bson.M, spec bson.D) {
	sort.SliceStable(docs, func(i, j int) bool {
		for _, entry := range spec {
			cmp, ok := compareValues(docs[i][entry.Key], docs[j][entry.Key])
			if !ok {
				// Missing field sorts first, mirroring how the store
				// orders absent values before present ones.
				_, iHas := docs[i][entry.Key]
				_, jHas := docs[j][entry.Key]
				if iHas == jHas {
					continue
				}
				cmp = 1
				if !iHas {
					cmp = -1
				}
			}
			if cmp == 0 {
				continue
			}
			dir, _ := entry.Value.(int)
			if dir < 0 {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func applyProjection(doc bson.M, projection bson.M) bson.M {
	out := bson.M{}
	for k, v := range doc {
		if excluded, ok := projection[k]; ok {
			if n, isInt := excluded.(int); isInt && n == 0 {
				continue
			}
		}
		out[k] = v
	}
	return out
}
