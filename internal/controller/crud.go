package controller

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/edunote/edunote/internal/httperr"
	"github.com/edunote/edunote/internal/observability/logger"
	"github.com/edunote/edunote/internal/repository/document"
	"github.com/edunote/edunote/internal/server/router"
)

// ConditionBuilder turns a query body into the structural filter conditions
// for the resource. An empty result makes the query operation short-circuit
// to an empty page.
type ConditionBuilder func(body bson.M) []document.Condition

// BodyRule is an additional validation rule applied to create/update bodies
// after the required-field check. Rules may normalize field values in place.
type BodyRule func(body bson.M) error

// CRUDConfig parameterizes the generic handler set for one resource.
type CRUDConfig struct {
	Resource       *document.Resource
	RequiredFields []string
	Rules          []BodyRule
	Conditions     ConditionBuilder
	Logger         logger.Logger
}

// CRUD is the generic resource controller: one uniform set of handlers
// configured per resource, not subclassed.
type CRUD struct {
	resource   *document.Resource
	required   []string
	rules      []BodyRule
	conditions ConditionBuilder
	logger     logger.Logger
}

// NewCRUD creates the handler set for one resource.
func NewCRUD(cfg CRUDConfig) *CRUD {
	return &CRUD{
		resource:   cfg.Resource,
		required:   cfg.RequiredFields,
		rules:      cfg.Rules,
		conditions: cfg.Conditions,
		logger:     cfg.Logger,
	}
}

// Register mounts the uniform route set on the given router group.
func (h *CRUD) Register(r router.Router) {
	r.GET("/", h.List)
	r.POST("/", h.Create)
	r.POST("/query", h.Query)
	r.GET("/:id", h.GetByID)
	r.PUT("/:id", h.UpdateByID)
	r.DELETE("/:id", h.DeleteByID)
}

// List handles GET / with a page request parsed from the query string.
func (h *CRUD) List(c router.Context) error {
	req := PageRequestFromQuery(c)

	page, err := h.resource.List(c.Request().Context(), req)
	if err != nil {
		return Error(c, h.logger, err)
	}
	return Page(c, page)
}

// Query handles POST /query with a page request and condition fields in the
// body.
func (h *CRUD) Query(c router.Context) error {
	body, err := h.bindBody(c)
	if err != nil {
		return Error(c, h.logger, err)
	}

	req := PageRequestFromBody(body)
	var conditions []document.Condition
	if h.conditions != nil {
		conditions = h.conditions(body)
	}

	page, err := h.resource.Query(c.Request().Context(), req, conditions)
	if err != nil {
		return Error(c, h.logger, err)
	}
	return Page(c, page)
}

// Create handles POST /.
func (h *CRUD) Create(c router.Context) error {
	body, err := h.bindBody(c)
	if err != nil {
		return Error(c, h.logger, err)
	}
	if err := h.validateBody(body); err != nil {
		return Error(c, h.logger, err)
	}

	id, err := h.resource.Create(c.Request().Context(), body)
	if err != nil {
		return Error(c, h.logger, err)
	}
	return CreatedAt(c, h.location(id))
}

// GetByID handles GET /:id. Field exclusion via the except parameter is a
// list-operation feature; point lookups apply only the resource's static
// exclusions.
func (h *CRUD) GetByID(c router.Context) error {
	id := c.Param("id")
	if err := ValidateObjectID(id); err != nil {
		return Error(c, h.logger, err)
	}

	doc, err := h.resource.GetByID(c.Request().Context(), id, nil)
	if err != nil {
		return Error(c, h.logger, err)
	}
	return Item(c, doc)
}

// UpdateByID handles PUT /:id. The uniqueness/existence guard runs first;
// the guard read and the update are separate store calls.
func (h *CRUD) UpdateByID(c router.Context) error {
	id := c.Param("id")
	if err := ValidateObjectID(id); err != nil {
		return Error(c, h.logger, err)
	}

	body, err := h.bindBody(c)
	if err != nil {
		return Error(c, h.logger, err)
	}
	if err := h.validateBody(body); err != nil {
		return Error(c, h.logger, err)
	}

	ctx := c.Request().Context()
	if _, err := h.resource.CheckUniqueField(ctx, id, body); err != nil {
		return Error(c, h.logger, err)
	}
	if err := h.resource.UpdateByID(ctx, id, body); err != nil {
		return Error(c, h.logger, err)
	}
	return NoContentAt(c, h.location(id))
}

// DeleteByID handles DELETE /:id behind the existence guard.
func (h *CRUD) DeleteByID(c router.Context) error {
	id := c.Param("id")
	if err := ValidateObjectID(id); err != nil {
		return Error(c, h.logger, err)
	}

	ctx := c.Request().Context()
	if _, err := h.resource.CheckItemExists(ctx, id); err != nil {
		return Error(c, h.logger, err)
	}
	if err := h.resource.DeleteByID(ctx, id); err != nil {
		return Error(c, h.logger, err)
	}
	return NoContent(c)
}

func (h *CRUD) bindBody(c router.Context) (bson.M, error) {
	body := bson.M{}
	if err := c.Bind(&body); err != nil {
		return nil, httperr.BadRequest("request body must be a JSON object.")
	}
	return body, nil
}

func (h *CRUD) validateBody(body bson.M) error {
	if err := ValidateRequiredFields(body, h.required); err != nil {
		return err
	}
	for _, rule := range h.rules {
		if err := rule(body); err != nil {
			return err
		}
	}
	return nil
}

func (h *CRUD) location(id string) string {
	return fmt.Sprintf("/%s/%s", h.resource.Name(), id)
}
