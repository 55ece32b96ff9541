package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stemsi/academic-backend/internal/response"
	"github.com/stemsi/academic-backend/internal/validator"
	"github.com/stemsi/academic-backend/pkg/failure"
	"github.com/stemsi/academic-backend/pkg/model"
)

// TestRunManager is the test run service contract used by TestRunHandler.
type TestRunManager interface {
	TestRunFinder
	Create(ctx context.Context, name string) (*model.TestRun, error)
	FindAll(ctx context.Context) ([]model.TestRun, error)
	Purge(ctx context.Context, id string) (int64, error)
}

// TestRunHandler serves the test run markers that tag and purge test data.
type TestRunHandler struct {
	testRuns TestRunManager
}

// NewTestRunHandler creates a TestRunHandler backed by testRuns.
func NewTestRunHandler(testRuns TestRunManager) *TestRunHandler {
	return &TestRunHandler{testRuns: testRuns}
}

// Register mounts the test run routes on rg.
func (h *TestRunHandler) Register(rg *gin.RouterGroup, mutating ...gin.HandlerFunc) {
	g := rg.Group("/testrun")
	g.GET("", h.List)
	g.GET("/:uuid", h.Get)
	g.POST("", chain(mutating, h.Create)...)
	g.DELETE("/:uuid", chain(mutating, h.Purge)...)
}

// List godoc
// GET /api/v1/testrun
func (h *TestRunHandler) List(c *gin.Context) {
	runs, err := h.testRuns.FindAll(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	out := make([]*model.TestRun, 0, len(runs))
	for i := range runs {
		out = append(out, runs[i].Scrub())
	}
	c.JSON(http.StatusOK, out)
}

// Get godoc
// GET /api/v1/testrun/:uuid
func (h *TestRunHandler) Get(c *gin.Context) {
	id, ok := validator.UUIDParam(c, "uuid")
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrTestRunNotFound)
		return
	}

	run, err := h.testRuns.FindByUUID(c.Request.Context(), id)
	if err != nil {
		failTestRun(c, err)
		return
	}
	c.JSON(http.StatusOK, run.Scrub())
}

// Create godoc
// POST /api/v1/testrun
func (h *TestRunHandler) Create(c *gin.Context) {
	var req model.CreateTestRunRequest
	if !bind(c, &req) {
		return
	}

	run, err := h.testRuns.Create(c.Request.Context(), req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, run.Scrub())
}

// Purge godoc
// DELETE /api/v1/testrun/:uuid
func (h *TestRunHandler) Purge(c *gin.Context) {
	id, ok := validator.UUIDParam(c, "uuid")
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrTestRunNotFound)
		return
	}

	if _, err := h.testRuns.Purge(c.Request.Context(), id); err != nil {
		failTestRun(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// failTestRun is fail with an unknown run reported as TEST_RUN_NOT_FOUND.
func failTestRun(c *gin.Context, err error) {
	if failure.IsObjectNotFound(err) {
		response.Fail(c, http.StatusNotFound, response.ErrTestRunNotFound)
		return
	}
	fail(c, err)
}
