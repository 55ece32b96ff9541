package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/stemsi/academic-backend/internal/service"
	"github.com/stemsi/academic-backend/pkg/model"
)

// Registrar mounts a group of routes under an API group.
type Registrar interface {
	Register(rg *gin.RouterGroup, mutating ...gin.HandlerFunc)
}

// Handlers holds every route group served under /api/v1.
type Handlers struct {
	Resources []Registrar
	TestRuns  *TestRunHandler
}

// NewHandlers builds a resource per entity kind plus the test run handler.
func NewHandlers(m *service.Managers) *Handlers {
	return &Handlers{
		Resources: []Registrar{
			NewResource[*model.Term](m.Terms, m.TestRuns),
			NewResource[*model.Section](m.Sections, m.TestRuns),
			NewResource[*model.Instructor](m.Instructors, m.TestRuns),
			NewResource[*model.Course](m.Courses, m.TestRuns),
			NewResource[*model.Classroom](m.Classrooms, m.TestRuns),
			NewResource[*model.Student](m.Students, m.TestRuns),
		},
		TestRuns: NewTestRunHandler(m.TestRuns),
	}
}

// Register mounts all route groups on rg.
func (h *Handlers) Register(rg *gin.RouterGroup, mutating ...gin.HandlerFunc) {
	for _, r := range h.Resources {
		r.Register(rg, mutating...)
	}
	h.TestRuns.Register(rg, mutating...)
}
