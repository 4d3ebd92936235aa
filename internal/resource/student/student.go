// Package student wires the student resource. Students have no unique field;
// queries can match by name, school, grade, either phone number, or retire
// status.
package student

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
const Collection = "students"

var requiredFields = []string{"name", "schoolName", "grade"}

// Conditions builds the structural query filter for students. Name and school
// match as regular expressions; grade and retire match exactly; a submitted
// phone matches either stored phone number.
func Conditions(body bson.M) []document.Condition {
	var conditions []document.Condition

	if name, ok := body["name"]; ok {
		conditions = append(conditions, bson.M{"name": primitive.Regex{Pattern: patternString(name)}})
	}
	if schoolName, ok := body["schoolName"]; ok {
		conditions = append(conditions, bson.M{"schoolName": primitive.Regex{Pattern: patternString(schoolName)}})
	}
	if grade, ok := body["grade"]; ok {
		conditions = append(conditions, bson.M{"grade": grade})
	}
	if phone, ok := body["phone"]; ok {
		conditions = append(conditions, bson.M{"$or": []bson.M{
			{"phone1": phone},
			{"phone2": phone},
		}})
	}
	if retire, ok := body["retire"]; ok {
		conditions = append(conditions, bson.M{"retire": retire})
	}

	return conditions
}

// NewResource creates the student repository resource.
func NewResource(executor document.Executor, log logger.Logger) *document.Resource {
	return document.NewResource(executor, Collection, "student", nil, "", log)
}

// Register mounts the student routes on the given router group.
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
