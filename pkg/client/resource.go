package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/stemsi/academic-backend/pkg/model"
)

// Resource accesses the REST endpoints of one entity kind.
type Resource[E model.Entity[E]] struct {
	c    *Client
	kind model.Kind[E]
}

func newResource[E model.Entity[E]](c *Client, kind model.Kind[E]) *Resource[E] {
	return &Resource[E]{c: c, kind: kind}
}

func (r *Resource[E]) path(uuid string) string {
	if uuid == "" {
		return "/" + r.kind.Name
	}
	return "/" + r.kind.Name + "/" + url.PathEscape(uuid)
}

// List returns every entity of the kind. Any non-2xx status is a
// RestClientFailure.
func (r *Resource[E]) List(ctx context.Context) ([]E, error) {
	var out []E
	status, err := r.c.send(ctx, http.MethodGet, r.path(""), nil, &out)
	if err != nil {
		return nil, err
	}
	if !success(status) {
		return nil, statusError(status, "", false)
	}
	if out == nil {
		out = []E{}
	}
	return out, nil
}

// Get returns the entity with the given UUID.
func (r *Resource[E]) Get(ctx context.Context, uuid string) (E, error) {
	e := r.kind.New()
	status, err := r.c.send(ctx, http.MethodGet, r.path(uuid), nil, e)
	if err != nil {
		var zero E
		return zero, err
	}
	if !success(status) {
		var zero E
		return zero, statusError(status, uuid, true)
	}
	return e, nil
}

// Create stores e and returns the server's view of it.
func (r *Resource[E]) Create(ctx context.Context, e E) (E, error) {
	return r.create(ctx, model.NewRequest(e), "")
}

// CreateForTesting is Create with the entity tagged by run. A 404 means the
// run does not exist.
func (r *Resource[E]) CreateForTesting(ctx context.Context, e E, run *model.TestRun) (E, error) {
	req := model.NewRequest(e)
	req.TestUUID = run.UUID
	return r.create(ctx, req, run.UUID)
}

func (r *Resource[E]) create(ctx context.Context, req model.ResourceRequest, runUUID string) (E, error) {
	req.Version = 0
	out := r.kind.New()
	status, err := r.c.send(ctx, http.MethodPost, r.path(""), req, out)
	if err != nil {
		var zero E
		return zero, err
	}
	if !success(status) {
		var zero E
		return zero, statusError(status, runUUID, runUUID != "")
	}
	return out, nil
}

// Update replaces the stored entity identified by e's UUID. A non-zero
// version on e makes the update conditional.
func (r *Resource[E]) Update(ctx context.Context, e E) (E, error) {
	id := e.Base().UUID
	out := r.kind.New()
	status, err := r.c.send(ctx, http.MethodPut, r.path(id), model.NewRequest(e), out)
	if err != nil {
		var zero E
		return zero, err
	}
	if !success(status) {
		var zero E
		return zero, statusError(status, id, true)
	}
	return out, nil
}

// Delete removes the entity identified by e's UUID. A non-zero version on e
// makes the delete conditional.
func (r *Resource[E]) Delete(ctx context.Context, e E) error {
	rec := e.Base()
	path := r.path(rec.UUID)
	if rec.Version > 0 {
		path += "?version=" + strconv.Itoa(rec.Version)
	}
	status, err := r.c.send(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return err
	}
	if !success(status) {
		return statusError(status, rec.UUID, true)
	}
	return nil
}
