// Package model holds the academic entities shared by the server and the
// REST client.
package model

import "time"

// Record holds the fields common to every academic entity.
type Record struct {
	ID        int       `json:"id,omitzero"`
	UUID      string    `json:"uuid"`
	Name      string    `json:"name"`
	Version   int       `json:"version,omitzero"`
	TestRunID *int      `json:"testRunId,omitzero"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// Base returns the embedded record so generic code can reach common fields.
func (r *Record) Base() *Record {
	return r
}

// scrub copies only the externally visible fields.
func (r *Record) scrub() Record {
	return Record{UUID: r.UUID, Name: r.Name}
}

// Entity is implemented by pointers to every academic entity type.
// Scrub returns a fresh value holding only the externally visible fields.
type Entity[E any] interface {
	Base() *Record
	Scrub() E
}

// Extension is implemented by entities persisting columns beyond Record.
// Columns and Values must be index aligned; Targets returns scan
// destinations in the same order.
type Extension interface {
	Columns() []string
	Values() []any
	Targets() []any
}

// RequestApplier is implemented by entities that take fields other than the
// name from a ResourceRequest.
type RequestApplier interface {
	ApplyRequest(req ResourceRequest)
}

// RequestFiller is the inverse of RequestApplier, used by the REST client.
type RequestFiller interface {
	FillRequest(req *ResourceRequest)
}

// NewRequest builds the create/update payload describing e.
func NewRequest[E Entity[E]](e E) ResourceRequest {
	rec := e.Base()
	req := ResourceRequest{Name: rec.Name, Version: rec.Version}
	if f, ok := any(e).(RequestFiller); ok {
		f.FillRequest(&req)
	}
	return req
}

// ResourceRequest is the payload for creating or updating any entity.
type ResourceRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=255"`
	EmailAddress string `json:"emailAddress,omitempty" binding:"omitempty,email,max=255"`
	TestUUID     string `json:"testUuid,omitempty" binding:"omitempty,uuid"`
	Version      int    `json:"version,omitempty" binding:"min=0"`
}
