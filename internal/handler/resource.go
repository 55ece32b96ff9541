package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stemsi/academic-backend/internal/response"
	"github.com/stemsi/academic-backend/internal/validator"
	"github.com/stemsi/academic-backend/pkg/failure"
	"github.com/stemsi/academic-backend/pkg/model"
)

// EntityManager is the service contract a Resource exposes over HTTP.
type EntityManager[E model.Entity[E]] interface {
	Kind() model.Kind[E]
	Create(ctx context.Context, name string, fill ...func(E)) (E, error)
	CreateForTesting(ctx context.Context, name string, run *model.TestRun, fill ...func(E)) (E, error)
	Update(ctx context.Context, existing E, name string, fill ...func(E)) (E, error)
	Delete(ctx context.Context, id string, version int) error
	FindAll(ctx context.Context) ([]E, error)
	FindByUUID(ctx context.Context, id string) (E, error)
}

// TestRunFinder resolves the test run named by a create request.
type TestRunFinder interface {
	FindByUUID(ctx context.Context, id string) (*model.TestRun, error)
}

// Resource serves the REST endpoints of one entity kind.
type Resource[E model.Entity[E]] struct {
	manager  EntityManager[E]
	testRuns TestRunFinder
}

// NewResource creates a Resource on top of manager.
func NewResource[E model.Entity[E]](manager EntityManager[E], testRuns TestRunFinder) *Resource[E] {
	return &Resource[E]{manager: manager, testRuns: testRuns}
}

// Path returns the collection path segment, e.g. "term".
func (h *Resource[E]) Path() string {
	return h.manager.Kind().Name
}

// Register mounts the resource routes on rg. Mutating routes pass through
// the extra middleware first.
func (h *Resource[E]) Register(rg *gin.RouterGroup, mutating ...gin.HandlerFunc) {
	g := rg.Group("/" + h.Path())
	g.GET("", h.List)
	g.GET("/:uuid", h.Get)
	g.POST("", chain(mutating, h.Create)...)
	g.PUT("/:uuid", chain(mutating, h.Update)...)
	g.DELETE("/:uuid", chain(mutating, h.Delete)...)
}

// List godoc
// GET /api/v1/{kind}
func (h *Resource[E]) List(c *gin.Context) {
	items, err := h.manager.FindAll(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	out := make([]E, 0, len(items))
	for _, e := range items {
		out = append(out, e.Scrub())
	}
	c.JSON(http.StatusOK, out)
}

// Get godoc
// GET /api/v1/{kind}/:uuid
func (h *Resource[E]) Get(c *gin.Context) {
	id, ok := validator.UUIDParam(c, "uuid")
	if !ok {
		// Malformed identifiers can never match a stored entity.
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	e, err := h.manager.FindByUUID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e.Scrub())
}

// Create godoc
// POST /api/v1/{kind}
func (h *Resource[E]) Create(c *gin.Context) {
	var req model.ResourceRequest
	if !bind(c, &req) {
		return
	}

	ctx := c.Request.Context()
	var (
		e   E
		err error
	)
	if req.TestUUID != "" {
		run, lookupErr := h.testRuns.FindByUUID(ctx, req.TestUUID)
		if lookupErr != nil {
			if failure.IsObjectNotFound(lookupErr) {
				response.Fail(c, http.StatusNotFound, response.ErrTestRunNotFound)
				return
			}
			fail(c, lookupErr)
			return
		}
		e, err = h.manager.CreateForTesting(ctx, req.Name, run, applyRequest[E](req))
	} else {
		e, err = h.manager.Create(ctx, req.Name, applyRequest[E](req))
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, e.Scrub())
}

// Update godoc
// PUT /api/v1/{kind}/:uuid
func (h *Resource[E]) Update(c *gin.Context) {
	id, ok := validator.UUIDParam(c, "uuid")
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	var req model.ResourceRequest
	if !bind(c, &req) {
		return
	}

	existing := h.manager.Kind().New()
	existing.Base().UUID = id
	existing.Base().Version = req.Version

	e, err := h.manager.Update(c.Request.Context(), existing, req.Name, applyRequest[E](req))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e.Scrub())
}

// Delete godoc
// DELETE /api/v1/{kind}/:uuid?version=n
func (h *Resource[E]) Delete(c *gin.Context) {
	id, ok := validator.UUIDParam(c, "uuid")
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	version := 0
	if raw := c.Query("version"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidVersion)
			return
		}
		version = v
	}

	if err := h.manager.Delete(c.Request.Context(), id, version); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func applyRequest[E model.Entity[E]](req model.ResourceRequest) func(E) {
	return func(e E) {
		if a, ok := any(e).(model.RequestApplier); ok {
			a.ApplyRequest(req)
		}
	}
}

func chain(mutating []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mutating)+1)
	return append(append(out, mutating...), h)
}
