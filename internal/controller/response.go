// Package controller provides the HTTP handler layer: response envelopes,
// error mapping, request validation, and the generic CRUD handler factory.
package controller

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/edunote/edunote/internal/httperr"
	"github.com/edunote/edunote/internal/observability/logger"
	"github.com/edunote/edunote/internal/repository/document"
	"github.com/edunote/edunote/internal/server/router"
)

// ListResponse is the envelope for list-shaped endpoints.
type ListResponse struct {
	Data       []bson.M            `json:"data"`
	Pagination document.Pagination `json:"pagination"`
}

// ItemResponse is the envelope for single-item endpoints.
type ItemResponse struct {
	Data bson.M `json:"data"`
}

// MessageResponse is the envelope for client-visible errors and conflicts.
type MessageResponse struct {
	Message string `json:"message"`
}

// Page sends a 200 list response.
func Page(c router.Context, page *document.Page) error {
	return c.JSON(http.StatusOK, ListResponse{Data: page.Data, Pagination: page.Pagination})
}

// Item sends a 200 single-item response.
func Item(c router.Context, doc bson.M) error {
	return c.JSON(http.StatusOK, ItemResponse{Data: doc})
}

// CreatedAt sends an empty 201 with a Content-Location header pointing at the
// new resource.
func CreatedAt(c router.Context, location string) error {
	c.Response().Header().Set("Content-Location", location)
	return c.JSON(http.StatusCreated, nil)
}

// NoContentAt sends an empty 204 with a Content-Location header.
func NoContentAt(c router.Context, location string) error {
	c.Response().Header().Set("Content-Location", location)
	return c.JSON(http.StatusNoContent, nil)
}

// NoContent sends an empty 204.
func NoContent(c router.Context) error {
	return c.JSON(http.StatusNoContent, nil)
}

// Error translates an error into its HTTP response. Client errors answer with
// their message; everything else is logged server-side and answered with an
// empty 500 body.
func Error(c router.Context, log logger.Logger, err error) error {
	var httpErr *httperr.Error
	if !errors.As(err, &httpErr) {
		log.WithContext(c.Request().Context()).Error("unhandled error", "error", err)
		return c.JSON(http.StatusInternalServerError, struct{}{})
	}

	if !httpErr.Expose() {
		log.WithContext(c.Request().Context()).Error("request failed",
			"status", httpErr.Status,
			"error", httpErr.Error(),
		)
		return c.JSON(httpErr.Status, struct{}{})
	}

	if httpErr.Location != "" {
		c.Response().Header().Set("Content-Location", httpErr.Location)
	}
	return c.JSON(httpErr.Status, MessageResponse{Message: httpErr.Message})
}
