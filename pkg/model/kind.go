package model

// Kind describes one entity type: its REST resource name, its table and
// how to allocate an empty value.
type Kind[E Entity[E]] struct {
	Name  string
	Table string
	New   func() E
}

var (
	TermKind       = Kind[*Term]{Name: "term", Table: "terms", New: func() *Term { return &Term{} }}
	SectionKind    = Kind[*Section]{Name: "section", Table: "sections", New: func() *Section { return &Section{} }}
	InstructorKind = Kind[*Instructor]{Name: "instructor", Table: "instructors", New: func() *Instructor { return &Instructor{} }}
	CourseKind     = Kind[*Course]{Name: "course", Table: "courses", New: func() *Course { return &Course{} }}
	ClassroomKind  = Kind[*Classroom]{Name: "classroom", Table: "classrooms", New: func() *Classroom { return &Classroom{} }}
	StudentKind    = Kind[*Student]{Name: "student", Table: "students", New: func() *Student { return &Student{} }}
)
