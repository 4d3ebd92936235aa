// Package school wires the school resource: name is its unique field and its
// only required property.
package school

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
const Collection = "schools"

var requiredFields = []string{"name"}

// Conditions builds the structural query filter for schools: a submitted
// name matches as a regular expression.
func Conditions(body bson.M) []document.Condition {
	var conditions []document.Condition

	if name, ok := body["name"]; ok {
		conditions = append(conditions, bson.M{"name": primitive.Regex{Pattern: patternString(name)}})
	}

	return conditions
}

// NewResource creates the school repository resource.
func NewResource(executor document.Executor, log logger.Logger) *document.Resource {
	return document.NewResource(executor, Collection, "school", nil, "name", log)
}

// Register mounts the school routes on the given router group.
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
