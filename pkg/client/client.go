// Package client is a Go client for the academic REST API. It maps HTTP
// statuses back onto the failure taxonomy so callers see the same errors
// they would get in-process.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/stemsi/academic-backend/pkg/failure"
	"github.com/stemsi/academic-backend/pkg/model"
)

const DefaultTimeout = 30 * time.Second

// Doer sends an HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport the client would otherwise create.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) { c.doer = d }
}

// WithTimeout sets the timeout of the default transport.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// Client talks to one server. Each entity kind is reached through its
// Resource field.
type Client struct {
	baseURL string
	timeout time.Duration

	once sync.Once
	doer Doer

	Terms       *Resource[*model.Term]
	Sections    *Resource[*model.Section]
	Instructors *Resource[*model.Instructor]
	Courses     *Resource[*model.Course]
	Classrooms  *Resource[*model.Classroom]
	Students    *Resource[*model.Student]
	TestRuns    *TestRuns
}

// New creates a Client for the API rooted at baseURL,
// e.g. "http://localhost:8080/api/v1".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Terms = newResource(c, model.TermKind)
	c.Sections = newResource(c, model.SectionKind)
	c.Instructors = newResource(c, model.InstructorKind)
	c.Courses = newResource(c, model.CourseKind)
	c.Classrooms = newResource(c, model.ClassroomKind)
	c.Students = newResource(c, model.StudentKind)
	c.TestRuns = &TestRuns{c: c}
	return c
}

// GetAllInstructors lists every instructor.
func (c *Client) GetAllInstructors(ctx context.Context) ([]*model.Instructor, error) {
	return c.Instructors.List(ctx)
}

// GetInstructor fetches one instructor by UUID.
func (c *Client) GetInstructor(ctx context.Context, uuid string) (*model.Instructor, error) {
	return c.Instructors.Get(ctx, uuid)
}

// transport returns the injected Doer or lazily creates an *http.Client.
func (c *Client) transport() Doer {
	c.once.Do(func() {
		if c.doer == nil {
			c.doer = &http.Client{Timeout: c.timeout}
		}
	})
	return c.doer
}

// send issues the request and decodes a successful body into out. Non-2xx
// statuses are returned without error so callers can map them.
func (c *Client) send(ctx context.Context, method, path string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.transport().Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return resp.StatusCode, nil
}

func success(status int) bool {
	return status >= 200 && status < 300
}

// statusError maps a non-2xx status. A 404 becomes ObjectNotFound for uuid
// when the endpoint addresses a single object.
func statusError(status int, uuid string, addressed bool) error {
	if status == http.StatusNotFound && addressed {
		return failure.NewObjectNotFound(uuid)
	}
	return failure.NewRestClientFailure(status)
}
