package errors

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// ErrorMapper maps domain/application errors to ProblemDetail.
type ErrorMapper func(err error) (ProblemDetail, bool)

// Responder writes Problem Details, trying each mapper before falling back to a 500.
type Responder struct {
	mappers []ErrorMapper
	logger  *slog.Logger
}

// NewResponder creates a responder with the given mappers.
func NewResponder(logger *slog.Logger, mappers ...ErrorMapper) *Responder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{mappers: mappers, logger: logger}
}

// Respond sends a ProblemDetail response with proper content type.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.AbortWithStatusJSON(problem.Status, problem)
}

// RespondError converts err into a ProblemDetail and responds.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			r.Respond(c, problem)
			return
		}
	}
	r.logger.ErrorContext(c.Request.Context(), "unhandled request error",
		slog.String("path", c.Request.URL.Path),
		slog.String("error", err.Error()),
	)
	r.Respond(c, ErrInternal)
}

// BadRequest sends a 400 problem response.
func (r *Responder) BadRequest(c *gin.Context, detail string) {
	r.Respond(c, ErrBadRequest.WithDetail(detail))
}
