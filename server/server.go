package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"property_brochure_writer/generator"
	"property_brochure_writer/logger"
)

// Options tunes the HTTP surface.
type Options struct {
	MaxRequestBytes int64
	// RequestTimeout bounds the model call when positive; zero leaves it to the caller.
	RequestTimeout time.Duration
	CORSOrigins    []string
}

type Server struct {
	genAgent *generator.Agent
	opts     Options
	log      *logger.Logger
}

func New(genAgent *generator.Agent, opts Options, log *logger.Logger) (*Server, error) {
	if genAgent == nil {
		return nil, errors.New("generator agent required")
	}
	if log == nil {
		log = logger.Nop()
	}
	if opts.MaxRequestBytes <= 0 {
		opts.MaxRequestBytes = 1 << 20
	}
	return &Server{
		genAgent: genAgent,
		opts:     opts,
		log:      log.With("component", "server"),
	}, nil
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(requestLogger(s.log))
	if len(s.opts.CORSOrigins) > 0 {
		r.Use(corsMiddleware(s.opts.CORSOrigins))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/api/generate-brochure", s.handleGenerate)
	return r
}

// --- Handlers ---

func (s *Server) handleGenerate(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxRequestBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, "body_too_large", "Request body is too large.")
			return
		}
		respondError(c, http.StatusBadRequest, "invalid_body", "Request body could not be read.")
		return
	}
	fields, err := generator.ParseFieldSet(body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body", "Request body must be a JSON object.")
		return
	}

	ctx := c.Request.Context()
	if s.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.RequestTimeout)
		defer cancel()
	}

	out, err := s.genAgent.Generate(ctx, fields)
	switch {
	case errors.Is(err, generator.ErrNoValidInput):
		respondError(c, http.StatusBadRequest, "no_valid_input", "No property details were provided.")
		return
	case err != nil:
		s.log.Error("brochure generation failed", "request_id", c.GetString(requestIDKey), "error", err)
		respondError(c, http.StatusInternalServerError, "upstream_failure", "Server error while generating brochure.")
		return
	}
	c.JSON(http.StatusOK, out)
}

// --- Helpers ---

// errorBody keeps "error" a plain string so browser callers can show it directly.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, errorBody{Error: msg, Code: code})
}
