// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/addrbook/addrbook/internal/envelope"
	"github.com/addrbook/addrbook/internal/metrics"
	"github.com/addrbook/addrbook/internal/middleware"
)

var errTrailingData = errors.New("unexpected data after JSON body")

// Handler holds what every API handler needs to answer with an envelope.
type Handler struct {
	replies *envelope.Builder
	metrics metrics.Recorder
	logger  *slog.Logger
}

// New creates a new Handler instance.
func New(replies *envelope.Builder, recorder metrics.Recorder, logger *slog.Logger) *Handler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Handler{
		replies: replies,
		metrics: recorder,
		logger:  logger,
	}
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.reply(w, h.replies.NotFound())
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.reply(w, h.replies.MethodNotAllowed())
}

// reply writes an envelope and counts it.
func (h *Handler) reply(w http.ResponseWriter, reply envelope.Reply) {
	h.metrics.IncReply(reply.Status)
	if err := envelope.Write(w, reply); err != nil {
		h.logger.Debug("write_reply_failed", "error", err)
	}
}

// internalError logs err with the request and folio, then answers 500.
// err never reaches the client.
func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	reply := h.replies.InternalError()
	h.logger.Error("internal_error",
		"request_id", middleware.GetRequestID(r.Context()),
		"folio", reply.Body.Folio.String(),
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	h.reply(w, reply)
}

// decode reads a single JSON value into dst, answering 400 on failure or
// when anything but whitespace follows it.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if err == nil {
		if extra := dec.Decode(&json.RawMessage{}); !errors.Is(extra, io.EOF) {
			err = errTrailingData
			if extra != nil {
				err = extra
			}
		}
	}
	if err != nil {
		catalog := h.replies.Catalog()
		detail := catalog.InvalidBodyDetail
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			detail = catalog.BodyTooLargeDetail
		}
		h.reply(w, h.replies.BadRequest(detail))
		return false
	}
	return true
}

// pathID parses a positive integer URL parameter, answering 400 on failure.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		detail := fmt.Sprintf(h.replies.Catalog().InvalidParamDetail, name)
		h.reply(w, h.replies.BadRequest(detail))
		return 0, false
	}
	return id, true
}

// writeJSON writes a JSON response with the given status code.
// Used by operational endpoints that sit outside the envelope.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
