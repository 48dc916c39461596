package api

import (
	"github.com/starford/ansuz/internal/envelope"
	"github.com/starford/ansuz/internal/parser"
)

// QueryRequest is the request body for running a structured query.
type QueryRequest struct {
	Query string `json:"query" example:"[:find ?p :where [?p :block/name]]" validate:"required"`
	Graph string `json:"graph" example:"my-notes" validate:"required"`
}

// AppendRequest is the request body for both append endpoints. Tags,
// priority, and template are folded into the content before it is written.
type AppendRequest struct {
	Content  string   `json:"content" example:"buy milk" validate:"required"`
	Tags     []string `json:"tags,omitempty" example:"todo,work"`
	Priority string   `json:"priority,omitempty" example:"A"`
	Template string   `json:"template,omitempty" example:"- {content}"`
	Token    string   `json:"token,omitempty"`
}

// Page is a single search hit (aliased from the domain layer).
type Page = parser.Page

// Envelope is the uniform response body (aliased from the domain layer).
type Envelope = envelope.Envelope
