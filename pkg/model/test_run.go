package model

import "time"

// TestRun marks records created by automated tests so they can be purged
// in bulk. It is not business data.
type TestRun struct {
	ID        int       `json:"id,omitzero"`
	UUID      string    `json:"uuid"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

func (t *TestRun) Scrub() *TestRun {
	return &TestRun{UUID: t.UUID, Name: t.Name}
}

// CreateTestRunRequest is the payload for registering a test run.
type CreateTestRunRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
}
