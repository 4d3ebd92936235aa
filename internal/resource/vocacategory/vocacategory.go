// Package vocacategory wires the vocabulary category resource. Category name
// is unique; vocabulary entries live nested inside the category document.
package vocacategory

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/edunote/edunote/internal/controller"
	"github.com/edunote/edunote/internal/observability/logger"
	"github.com/edunote/edunote/internal/repository/document"
	"github.com/edunote/edunote/internal/server/router"
)

// Collection is the backing collection name.
const Collection = "vocaCategories"

var requiredFields = []string{"name"}

// Conditions builds the structural query filter for vocabulary categories:
// a submitted name matches as a regular expression.
func Conditions(body bson.M) []document.Condition {
	var conditions []document.Condition

	if name, ok := body["name"]; ok {
		conditions = append(conditions, bson.M{"name": primitive.Regex{Pattern: patternString(name)}})
	}

	return conditions
}

// NewResource creates the vocabulary category repository resource.
func NewResource(executor document.Executor, log logger.Logger) *document.Resource {
	return document.NewResource(executor, Collection, "vocaCategory", nil, "name", log)
}

// Register mounts the vocabulary category routes on the given router group.
func Register(r router.Router, executor document.Executor, log logger.Logger) *document.Resource {
	resource := NewResource(executor, log)
	crud := controller.NewCRUD(controller.CRUDConfig{
		Resource:       resource,
		RequiredFields: requiredFields,
		Conditions:     Conditions,
		Logger:         log,
	})
	crud.Register(r)
	return resource
}

func patternString(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
