// Package envelope builds the uniform reply wrapper returned by every API endpoint.
//
// Every reply carries a message and a folio, a random identifier generated per
// reply so clients can quote it when reporting a problem. Error replies add a
// namespaced code and a list of details. Builder construction is pure; Write
// is the only function that touches the network.
package envelope

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Envelope is the JSON body of every API reply.
type Envelope struct {
	Code    string    `json:"code,omitempty"`
	Message string    `json:"message"`
	Folio   uuid.UUID `json:"folio"`
	Result  any       `json:"result,omitempty"`
	Details []string  `json:"details,omitempty"`
}

// Records wraps a non-empty collection result.
type Records[T any] struct {
	Records []T `json:"records"`
}

// Reply pairs an envelope with the HTTP status it is sent with.
type Reply struct {
	Status int
	Body   Envelope
}

// Builder constructs replies for a fixed error namespace and message catalog.
type Builder struct {
	namespace string
	catalog   Catalog
	newFolio  func() uuid.UUID
}

// Option configures a Builder.
type Option func(*Builder)

// WithFolioSource overrides the folio generator.
func WithFolioSource(fn func() uuid.UUID) Option {
	return func(b *Builder) {
		b.newFolio = fn
	}
}

// NewBuilder creates a Builder.
func NewBuilder(namespace string, catalog Catalog, opts ...Option) *Builder {
	b := &Builder{
		namespace: namespace,
		catalog:   catalog,
		newFolio:  uuid.New,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Catalog returns the message catalog in use.
func (b *Builder) Catalog() Catalog {
	return b.catalog
}

// Object returns a success reply carrying a single object.
func (b *Builder) Object(status int, result any) Reply {
	return Reply{
		Status: status,
		Body: Envelope{
			Message: b.catalog.OK,
			Folio:   b.newFolio(),
			Result:  result,
		},
	}
}

// Empty returns a success reply without a result key.
func (b *Builder) Empty(status int) Reply {
	return b.Object(status, nil)
}

// Collection returns a success reply wrapping records under result.records.
// An empty collection yields the not-found reply instead of a 200 with an
// empty list.
func Collection[T any](b *Builder, records []T) Reply {
	if len(records) == 0 {
		return b.NotFound()
	}
	return b.Object(http.StatusOK, Records[T]{Records: records})
}

// NotFound returns the 404 reply with the fixed not-found detail.
func (b *Builder) NotFound() Reply {
	return b.failure(http.StatusNotFound, 4040, b.catalog.NotFound, []string{b.catalog.NotFoundDetail})
}

// BadRequest returns the 400 reply with caller-supplied details.
// With no details, the generic rejected-request detail is used.
func (b *Builder) BadRequest(details ...string) Reply {
	if len(details) == 0 {
		details = []string{b.catalog.RejectedDetail}
	}
	return b.failure(http.StatusBadRequest, 4000, b.catalog.BadRequest, details)
}

// MethodNotAllowed returns the 405 reply for a route that exists under
// another method.
func (b *Builder) MethodNotAllowed() Reply {
	return b.failure(http.StatusMethodNotAllowed, 4050, b.catalog.MethodNotAllowed, []string{b.catalog.RejectedDetail})
}

// InternalError returns the 500 reply with the fixed backing-service detail.
func (b *Builder) InternalError() Reply {
	return b.failure(http.StatusInternalServerError, 5000, b.catalog.InternalError, []string{b.catalog.InternalErrorDetail})
}

func (b *Builder) failure(status, subcode int, message string, details []string) Reply {
	return Reply{
		Status: status,
		Body: Envelope{
			Code:    fmt.Sprintf("%d.%s.%d", status, b.namespace, subcode),
			Message: message,
			Folio:   b.newFolio(),
			Details: details,
		},
	}
}
