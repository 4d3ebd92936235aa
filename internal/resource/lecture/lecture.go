// Package lecture wires the lecture resource. Lectures carry a UTC time
// range; both bounds are required on writes and queriable as a date range.
package lecture

import (
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/edunote/edunote/internal/controller"
	"github.com/edunote/edunote/internal/httperr"
	"github.com/edunote/edunote/internal/observability/logger"
	"github.com/edunote/edunote/internal/repository/document"
	"github.com/edunote/edunote/internal/server/router"
)

// Collection is the backing collection name.
const Collection = "lectures"

const dateLayout = "2006-01-02T15:04:05Z"

var (
	requiredFields = []string{"name", "startDate", "endDate"}
	utcISOPattern  = regexp.MustCompile(`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z`)
)

// ValidateDates checks that startDate and endDate are UTC ISO strings with
// startDate <= endDate, and normalizes both fields to time values so the
// store persists them as dates.
func ValidateDates(body bson.M) error {
	start, end, err := convertDates(body)
	if err != nil {
		return err
	}

	body["startDate"] = start
	body["endDate"] = end
	return nil
}

// Conditions builds the structural query filter for lectures: name matches as
// a regular expression, and a valid startDate/endDate pair bounds the lecture
// start to [startDate, endDate).
func Conditions(body bson.M) []document.Condition {
	var conditions []document.Condition

	if name, ok := body["name"]; ok {
		conditions = append(conditions, bson.M{"name": primitive.Regex{Pattern: patternString(name)}})
	}

	_, hasStart := body["startDate"]
	_, hasEnd := body["endDate"]
	if hasStart && hasEnd {
		if start, end, err := convertDates(body); err == nil {
			conditions = append(conditions, bson.M{"startDate": bson.M{"$gte": start, "$lt": end}})
		}
	}

	return conditions
}

// NewResource creates the lecture repository resource.
func NewResource(executor document.Executor, log logger.Logger) *document.Resource {
	return document.NewResource(executor, Collection, "lecture", nil, "", log)
}

// Register mounts the lecture routes on the given router group.
func Register(r router.Router, executor document.Executor, log logger.Logger) *document.Resource {
	resource := NewResource(executor, log)
	crud := controller.NewCRUD(controller.CRUDConfig{
		Resource:       resource,
		RequiredFields: requiredFields,
		Rules:          []controller.BodyRule{ValidateDates},
		Conditions:     Conditions,
		Logger:         log,
	})
	crud.Register(r)
	return resource
}

func convertDates(body bson.M) (time.Time, time.Time, error) {
	startRaw := patternString(body["startDate"])
	endRaw := patternString(body["endDate"])

	formatErr := httperr.BadRequest(fmt.Sprintf(
		"%s~%s is not valid. Please use YYYY-MM-DDThh:mm:ssZ format", startRaw, endRaw))

	if !utcISOPattern.MatchString(startRaw) || !utcISOPattern.MatchString(endRaw) {
		return time.Time{}, time.Time{}, formatErr
	}

	start, err := time.Parse(dateLayout, startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, formatErr
	}
	end, err := time.Parse(dateLayout, endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, formatErr
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, httperr.BadRequest(fmt.Sprintf(
			"%s must be less than %s", endRaw, startRaw))
	}

	return start, end, nil
}

func patternString(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
