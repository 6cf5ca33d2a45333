package middleware

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/vfg2006/cirod-kpi-engine/pkg/apiErrors"
	"github.com/vfg2006/cirod-kpi-engine/pkg/log"
)

const defaultSlowRequest = 500 * time.Millisecond

// RequestLogging registra início e fim de cada requisição com o id de correlação.
// O id vem do cabeçalho X-Request-ID quando válido e é devolvido na resposta.
func RequestLogging(slowThreshold time.Duration) func(http.Handler) http.Handler {
	if slowThreshold <= 0 {
		slowThreshold = defaultSlowRequest
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, correlationID := log.WithCorrelationID(r.Context(), r.Header.Get(log.CorrelationIDHeader))
			r = r.WithContext(ctx)
			w.Header().Set(log.CorrelationIDHeader, correlationID)

			lrw := newLoggingResponseWriter(w)
			startTime := time.Now()

			logger := log.ForContext(ctx).WithFields(log.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
			})
			logger.WithFields(log.Fields{
				"query":          r.URL.RawQuery,
				"remote_addr":    r.RemoteAddr,
				"user_agent":     r.UserAgent(),
				"content_length": r.ContentLength,
			}).Debug("→ Requisição iniciada")

			next.ServeHTTP(lrw, r)

			elapsed := time.Since(startTime)
			done := logger.WithFields(log.Fields{
				"status_code":   lrw.statusCode,
				"duration_ms":   elapsed.Milliseconds(),
				"bytes_written": lrw.written,
			})

			msg := fmt.Sprintf("Requisição finalizada em %s", formatDuration(elapsed))
			switch {
			case lrw.statusCode >= 500:
				done.Error(msg)
			case lrw.statusCode >= 400:
				done.Warn(msg)
			default:
				done.Info(msg)
			}

			if elapsed > slowThreshold {
				done.Warnf("⚠ Requisição lenta: %s %s", r.Method, r.URL.Path)
			}
		})
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%d µs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%d ms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2f s", d.Seconds())
}

// loggingResponseWriter captura status e tamanho da resposta
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode  int
	written     int
	wroteHeader bool
}

func newLoggingResponseWriter(w http.ResponseWriter) *loggingResponseWriter {
	return &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	if lrw.wroteHeader {
		return
	}
	lrw.wroteHeader = true
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	lrw.wroteHeader = true
	n, err := lrw.ResponseWriter.Write(b)
	lrw.written += n
	return n, err
}

// Recover converte panics em SRV_001 e registra a pilha
func Recover() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				stack := make([]byte, 4096)
				stack = stack[:runtime.Stack(stack, false)]

				log.ForContext(r.Context()).WithFields(log.Fields{
					"error":       fmt.Sprint(rec),
					"method":      r.Method,
					"path":        r.URL.Path,
					"stack_trace": string(stack),
				}).Error("❌ Erro não tratado na aplicação")

				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno no servidor", nil)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
