package model

// Term is an academic term, e.g. "Fall 2013".
type Term struct {
	Record
}

func (t *Term) Scrub() *Term {
	return &Term{Record: t.scrub()}
}

// Section is a section of a course, optionally bound to a Term.
type Section struct {
	Record
	TermID *int `json:"termId,omitzero"`
}

func (s *Section) Scrub() *Section {
	return &Section{Record: s.scrub()}
}

func (s *Section) Columns() []string { return []string{"term_id"} }

func (s *Section) Values() []any {
	if s.TermID == nil {
		return []any{nil}
	}
	return []any{*s.TermID}
}

func (s *Section) Targets() []any { return []any{&s.TermID} }

// Instructor teaches sections.
type Instructor struct {
	Record
}

func (i *Instructor) Scrub() *Instructor {
	return &Instructor{Record: i.scrub()}
}

// Course is a catalog course.
type Course struct {
	Record
}

func (c *Course) Scrub() *Course {
	return &Course{Record: c.scrub()}
}

// Classroom is a physical room.
type Classroom struct {
	Record
}

func (c *Classroom) Scrub() *Classroom {
	return &Classroom{Record: c.scrub()}
}

// Student is an enrolled student. Unlike the other entities the email
// address survives scrubbing.
type Student struct {
	Record
	EmailAddress string `json:"emailAddress"`
}

func (s *Student) Scrub() *Student {
	return &Student{Record: s.scrub(), EmailAddress: s.EmailAddress}
}

func (s *Student) Columns() []string { return []string{"email_address"} }

func (s *Student) Values() []any { return []any{s.EmailAddress} }

func (s *Student) Targets() []any { return []any{&s.EmailAddress} }

func (s *Student) ApplyRequest(req ResourceRequest) {
	s.EmailAddress = req.EmailAddress
}

func (s *Student) FillRequest(req *ResourceRequest) {
	req.EmailAddress = s.EmailAddress
}
