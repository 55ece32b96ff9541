package service

import (
	"github.com/rs/zerolog"

	"github.com/stemsi/academic-backend/internal/repository"
	"github.com/stemsi/academic-backend/pkg/model"
)

// Managers groups the manager of every entity kind and the test run service.
type Managers struct {
	Terms       *Manager[*model.Term]
	Sections    *Manager[*model.Section]
	Instructors *Manager[*model.Instructor]
	Courses     *Manager[*model.Course]
	Classrooms  *Manager[*model.Classroom]
	Students    *Manager[*model.Student]
	TestRuns    *TestRunService
}

// NewManagers wires a manager per kind on top of the repository set.
func NewManagers(repos *repository.Set, log zerolog.Logger) *Managers {
	m := &Managers{
		Terms:       NewManager(model.TermKind, repos.Terms, log),
		Sections:    NewManager(model.SectionKind, repos.Sections, log),
		Instructors: NewManager(model.InstructorKind, repos.Instructors, log),
		Courses:     NewManager(model.CourseKind, repos.Courses, log),
		Classrooms:  NewManager(model.ClassroomKind, repos.Classrooms, log),
		Students:    NewManager(model.StudentKind, repos.Students, log),
	}
	// Sections reference terms, so they go first.
	m.TestRuns = NewTestRunService(repos.TestRuns, log,
		m.Students, m.Classrooms, m.Courses, m.Instructors, m.Sections, m.Terms)
	return m
}
