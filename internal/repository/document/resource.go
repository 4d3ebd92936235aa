package document

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/edunote/edunote/internal/httperr"
	"github.com/edunote/edunote/internal/observability/logger"
)

// Resource implements the generic CRUD and pagination operations for one
// collection. It is configured per resource at construction and holds no
// per-request state.
type Resource struct {
	executor     Executor
	collection   string
	name         string
	exceptFields []string
	uniqueField  string
	logger       logger.Logger
}

// NewResource creates a Resource bound to a collection. name is the URL
// segment used for Content-Location hints; exceptFields are always excluded
// from read projections; uniqueField, when non-empty, is enforced on create
// and update.
func NewResource(executor Executor, collection, name string, exceptFields []string, uniqueField string, log logger.Logger) *Resource {
	return &Resource{
		executor:     executor,
		collection:   collection,
		name:         name,
		exceptFields: exceptFields,
		uniqueField:  uniqueField,
		logger:       log,
	}
}

// Name returns the resource's URL segment.
func (r *Resource) Name() string {
	return r.name
}

// UniqueField returns the configured uniqueness field, or "".
func (r *Resource) UniqueField() string {
	return r.uniqueField
}

// List fetches one page over the full collection.
func (r *Resource) List(ctx context.Context, req PageRequest) (*Page, error) {
	return r.page(ctx, req, nil, false)
}

// Query fetches one page constrained by the contributed conditions. When no
// condition was contributed and no cursor is present it short-circuits to an
// empty page, so a structural query endpoint never degrades to an unfiltered
// list.
func (r *Resource) Query(ctx context.Context, req PageRequest, conditions []Condition) (*Page, error) {
	return r.page(ctx, req, conditions, true)
}

func (r *Resource) page(ctx context.Context, req PageRequest, conditions []Condition, shortCircuit bool) (*Page, error) {
	if shortCircuit && len(conditions) == 0 && req.LastID == "" {
		return &Page{Data: []bson.M{}, Pagination: Pagination{LastID: nil, Count: 0}}, nil
	}

	var lastID primitive.ObjectID
	var lastSortValue interface{}
	if req.LastID != "" {
		var err error
		lastID, err = primitive.ObjectIDFromHex(req.LastID)
		if err != nil {
			return nil, httperr.InvalidCursor(req.LastID)
		}

		lastItem, err := r.executor.FindOne(ctx, r.collection, bson.M{"_id": lastID}, nil)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, httperr.InvalidCursor(req.LastID)
			}
			return nil, httperr.Upstream(err)
		}
		if req.SortBy != "" {
			// Absent or null sort value degrades this page to
			// identifier-only comparison.
			lastSortValue = lastItem[req.SortBy]
		}
	}

	filter := BuildPageFilter(req, conditions, lastID, lastSortValue)
	opts := FindOptions{
		Projection: BuildProjection(req.Except, r.exceptFields),
		Sort:       BuildPageSort(req),
		Limit:      req.Limit,
	}

	items, err := r.executor.Find(ctx, r.collection, filter, opts)
	if err != nil {
		return nil, httperr.Upstream(err)
	}

	data := make([]bson.M, 0, len(items))
	for _, item := range items {
		data = append(data, FormatDocument(item))
	}

	pagination := Pagination{Count: len(items)}
	if len(items) > 0 {
		if id, ok := items[len(items)-1]["_id"].(primitive.ObjectID); ok {
			hex := id.Hex()
			pagination.LastID = &hex
		}
	}

	return &Page{Data: data, Pagination: pagination}, nil
}

// Create inserts the payload verbatim and returns the new identifier. With a
// uniqueField configured, the field must be present in the payload and not
// collide with an existing document. The guard read and the insert are two
// separate store calls; concurrent creates can both pass the guard.
func (r *Resource) Create(ctx context.Context, payload bson.M) (string, error) {
	if r.uniqueField != "" {
		value, ok := payload[r.uniqueField]
		if !ok || value == nil || value == "" {
			return "", httperr.BadRequest(fmt.Sprintf("%s must be in request body.", r.uniqueField))
		}

		existing, err := r.executor.FindOne(ctx, r.collection, bson.M{r.uniqueField: value}, nil)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return "", httperr.Upstream(err)
		}
		if existing != nil {
			return "", r.conflict(value, existing)
		}
	}

	id, err := r.executor.InsertOne(ctx, r.collection, payload)
	if err != nil {
		if errors.Is(err, mongo.ErrUnacknowledgedWrite) {
			return "", httperr.Persistence(fmt.Errorf("insertOne into %s was not acknowledged", r.collection))
		}
		return "", httperr.Upstream(err)
	}
	return id.Hex(), nil
}

// GetByID performs a point lookup with the resource projection applied.
func (r *Resource) GetByID(ctx context.Context, id string, except []string) (bson.M, error) {
	oid, err := r.objectID(id)
	if err != nil {
		return nil, err
	}

	projection := BuildProjection(except, r.exceptFields)
	item, err := r.executor.FindOne(ctx, r.collection, bson.M{"_id": oid}, projection)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, httperr.NotFound(fmt.Sprintf("there's no item include %s.", id))
		}
		return nil, httperr.Upstream(err)
	}
	return FormatDocument(item), nil
}

// CheckItemExists verifies the identifier resolves to an existing document
// and returns it for downstream use.
func (r *Resource) CheckItemExists(ctx context.Context, id string) (bson.M, error) {
	oid, err := r.objectID(id)
	if err != nil {
		return nil, err
	}

	item, err := r.executor.FindOne(ctx, r.collection, bson.M{"_id": oid}, nil)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, httperr.NotFound(fmt.Sprintf("there's no item, %s", id))
		}
		return nil, httperr.Upstream(err)
	}
	return item, nil
}

// CheckUniqueField verifies that no other document holds the payload's value
// of the unique field, then verifies the identified document exists. The
// resolved document is returned for downstream use. Like Create, this is a
// guard read separate from the mutation that follows it.
func (r *Resource) CheckUniqueField(ctx context.Context, id string, payload bson.M) (bson.M, error) {
	oid, err := r.objectID(id)
	if err != nil {
		return nil, err
	}

	if r.uniqueField != "" {
		if value, ok := payload[r.uniqueField]; ok && value != nil && value != "" {
			existing, err := r.executor.FindOne(ctx, r.collection, bson.M{r.uniqueField: value}, nil)
			if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
				return nil, httperr.Upstream(err)
			}
			if existing != nil {
				if existingID, ok := existing["_id"].(primitive.ObjectID); ok && existingID != oid {
					return nil, r.conflict(value, existing)
				}
			}
		}
	}

	item, err := r.executor.FindOne(ctx, r.collection, bson.M{"_id": oid}, nil)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, httperr.NotFound(fmt.Sprintf("there's no item, %s", id))
		}
		return nil, httperr.Upstream(err)
	}
	return item, nil
}

// UpdateByID merges the supplied keys into the identified document. A zero
// matched count after the existence guard passed is an internal
// inconsistency, not a client-facing not-found.
func (r *Resource) UpdateByID(ctx context.Context, id string, payload bson.M) error {
	oid, err := r.objectID(id)
	if err != nil {
		return err
	}

	matched, err := r.executor.UpdateOne(ctx, r.collection, bson.M{"_id": oid}, bson.M{"$set": payload})
	if err != nil {
		return httperr.Upstream(err)
	}
	if matched == 0 {
		return httperr.Persistence(fmt.Errorf("updateOne(%s) matched no document in %s", id, r.collection))
	}
	return nil
}

// DeleteByID deletes the identified document. A zero deleted count after the
// existence guard passed is an internal inconsistency.
func (r *Resource) DeleteByID(ctx context.Context, id string) error {
	oid, err := r.objectID(id)
	if err != nil {
		return err
	}

	deleted, err := r.executor.DeleteOne(ctx, r.collection, bson.M{"_id": oid})
	if err != nil {
		return httperr.Upstream(err)
	}
	if deleted == 0 {
		return httperr.Persistence(fmt.Errorf("deleteOne(%s) matched no document in %s", id, r.collection))
	}
	return nil
}

// UnsetPropertyByID removes a named property from the identified document.
func (r *Resource) UnsetPropertyByID(ctx context.Context, id, property string) error {
	oid, err := r.objectID(id)
	if err != nil {
		return err
	}

	matched, err := r.executor.UpdateOne(ctx, r.collection, bson.M{"_id": oid}, bson.M{"$unset": bson.M{property: ""}})
	if err != nil {
		return httperr.Upstream(err)
	}
	if matched == 0 {
		return httperr.Persistence(fmt.Errorf("updateOne(%s) matched no document in %s", id, r.collection))
	}
	return nil
}

func (r *Resource) objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, httperr.BadRequest(fmt.Sprintf("%s is not valid id", id))
	}
	return oid, nil
}

func (r *Resource) conflict(value interface{}, existing bson.M) error {
	location := ""
	if existingID, ok := existing["_id"].(primitive.ObjectID); ok {
		location = fmt.Sprintf("/%s/%s", r.name, existingID.Hex())
	}
	return httperr.Conflict(fmt.Sprintf("%v already exists.", value), location)
}

// FormatDocument exposes the identifier as a plain string under key "id" and
// passes every other field through unchanged. De-aliasing happens at the
// boundary only; storage keeps "_id".
func FormatDocument(doc bson.M) bson.M {
	out := bson.M{}
	for key, value := range doc {
		if key == "_id" {
			if id, ok := value.(primitive.ObjectID); ok {
				out["id"] = id.Hex()
				continue
			}
			out["id"] = fmt.Sprintf("%v", value)
			continue
		}
		out[key] = value
	}
	return out
}
