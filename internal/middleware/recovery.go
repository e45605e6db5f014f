package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/addrbook/addrbook/internal/envelope"
	"github.com/addrbook/addrbook/internal/metrics"
)

// Recoverer is a middleware that recovers from panics.
// It logs the panic with its folio and answers with the internal-error envelope.
func Recoverer(logger *slog.Logger, replies *envelope.Builder, recorder metrics.Recorder) func(http.Handler) http.Handler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				reply := replies.InternalError()
				logger.Error("panic_recovered",
					slog.String("request_id", GetRequestID(r.Context())),
					slog.String("folio", reply.Body.Folio.String()),
					slog.Any("panic", rvr),
					slog.String("stack", string(debug.Stack())),
				)

				recorder.IncReply(reply.Status)
				_ = envelope.Write(w, reply)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
