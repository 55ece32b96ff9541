package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/stemsi/academic-backend/pkg/model"
)

// TestRuns accesses the test run endpoints.
type TestRuns struct {
	c *Client
}

func (t *TestRuns) List(ctx context.Context) ([]*model.TestRun, error) {
	var out []*model.TestRun
	status, err := t.c.send(ctx, http.MethodGet, "/testrun", nil, &out)
	if err != nil {
		return nil, err
	}
	if !success(status) {
		return nil, statusError(status, "", false)
	}
	if out == nil {
		out = []*model.TestRun{}
	}
	return out, nil
}

func (t *TestRuns) Get(ctx context.Context, uuid string) (*model.TestRun, error) {
	out := &model.TestRun{}
	status, err := t.c.send(ctx, http.MethodGet, "/testrun/"+url.PathEscape(uuid), nil, out)
	if err != nil {
		return nil, err
	}
	if !success(status) {
		return nil, statusError(status, uuid, true)
	}
	return out, nil
}

// Create registers a new test run.
func (t *TestRuns) Create(ctx context.Context, name string) (*model.TestRun, error) {
	out := &model.TestRun{}
	status, err := t.c.send(ctx, http.MethodPost, "/testrun", model.CreateTestRunRequest{Name: name}, out)
	if err != nil {
		return nil, err
	}
	if !success(status) {
		return nil, statusError(status, "", false)
	}
	return out, nil
}

// Purge deletes everything tagged with the run, then the run itself.
func (t *TestRuns) Purge(ctx context.Context, uuid string) error {
	status, err := t.c.send(ctx, http.MethodDelete, "/testrun/"+url.PathEscape(uuid), nil, nil)
	if err != nil {
		return err
	}
	if !success(status) {
		return statusError(status, uuid, true)
	}
	return nil
}
