package repository

import (
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/academic-backend/pkg/model"
)

// Set groups the repositories of every entity kind on one database.
type Set struct {
	Terms       Repository[*model.Term]
	Sections    Repository[*model.Section]
	Instructors Repository[*model.Instructor]
	Courses     Repository[*model.Course]
	Classrooms  Repository[*model.Classroom]
	Students    Repository[*model.Student]
	TestRuns    *TestRunRepository
}

// NewPostgresSet creates all repositories on a pgx pool.
func NewPostgresSet(pool *pgxpool.Pool) *Set {
	return &Set{
		Terms:       NewPostgresRepository(pool, model.TermKind),
		Sections:    NewPostgresRepository(pool, model.SectionKind),
		Instructors: NewPostgresRepository(pool, model.InstructorKind),
		Courses:     NewPostgresRepository(pool, model.CourseKind),
		Classrooms:  NewPostgresRepository(pool, model.ClassroomKind),
		Students:    NewPostgresRepository(pool, model.StudentKind),
		TestRuns:    NewPostgresTestRunRepository(pool),
	}
}

// NewSQLiteSet creates all repositories on a sqlite handle.
func NewSQLiteSet(db *sql.DB) *Set {
	return &Set{
		Terms:       NewSQLiteRepository(db, model.TermKind),
		Sections:    NewSQLiteRepository(db, model.SectionKind),
		Instructors: NewSQLiteRepository(db, model.InstructorKind),
		Courses:     NewSQLiteRepository(db, model.CourseKind),
		Classrooms:  NewSQLiteRepository(db, model.ClassroomKind),
		Students:    NewSQLiteRepository(db, model.StudentKind),
		TestRuns:    NewSQLiteTestRunRepository(db),
	}
}
