package controller

import (
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/edunote/edunote/internal/httperr"
	"github.com/edunote/edunote/internal/repository/document"
	"github.com/edunote/edunote/internal/server/router"
)

// PageRequestFromQuery derives the page request from the query string.
// Unparsable limit or ascend values are ignored rather than rejected.
func PageRequestFromQuery(c router.Context) document.PageRequest {
	req := document.PageRequest{Ascend: 1}

	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.ParseInt(raw, 10, 64); err == nil && limit > 0 {
			req.Limit = limit
		}
	}
	req.LastID = c.Query("lastId")
	req.SortBy = c.Query("sortBy")
	if raw := c.Query("ascend"); raw != "" {
		if ascend, err := strconv.Atoi(raw); err == nil && ascend != 0 {
			req.Ascend = normalizeAscend(ascend)
		}
	}
	req.Except = document.ParseExcept(c.Query("except"))

	return req
}

// PageRequestFromBody derives the page request from a JSON body. Condition
// fields in the same body are left for the resource's condition builder.
func PageRequestFromBody(body bson.M) document.PageRequest {
	req := document.PageRequest{Ascend: 1}

	if limit, ok := numberField(body, "limit"); ok && limit > 0 {
		req.Limit = limit
	}
	if lastID, ok := body["lastId"].(string); ok {
		req.LastID = lastID
	}
	if sortBy, ok := body["sortBy"].(string); ok {
		req.SortBy = sortBy
	}
	if ascend, ok := numberField(body, "ascend"); ok && ascend != 0 {
		req.Ascend = normalizeAscend(int(ascend))
	}
	if except, ok := body["except"].(string); ok {
		req.Except = document.ParseExcept(except)
	}

	return req
}

func normalizeAscend(ascend int) int {
	if ascend > 0 {
		return 1
	}
	return -1
}

func numberField(body bson.M, key string) (int64, bool) {
	switch n := body[key].(type) {
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}

// ValidateObjectID rejects malformed identifiers before any store call.
func ValidateObjectID(id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return httperr.BadRequest(fmt.Sprintf("%s is not valid id", id))
	}
	return nil
}

// ValidateRequiredFields checks that every required field is present and
// non-empty in the body, reporting all omissions at once.
func ValidateRequiredFields(body bson.M, required []string) error {
	var omitted []string
	for _, field := range required {
		value, ok := body[field]
		if !ok || value == nil || value == "" {
			omitted = append(omitted, field)
		}
	}
	if len(omitted) > 0 {
		return httperr.BadRequest(fmt.Sprintf("%s omitted from request body.", strings.Join(omitted, ",")))
	}
	return nil
}
