package middleware

import (
	"net/http"
	"strconv"

	"github.com/bssahu/langfuse-rag-bedrock/internal/handlers"
	"github.com/bssahu/langfuse-rag-bedrock/internal/metrics"
	"github.com/bssahu/langfuse-rag-bedrock/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

var HealthHandler = Wrap(handlers.HealthHandler)
var ChatHandler = Wrap(handlers.ChatHandler)
var IndexHandler = Wrap(handlers.IndexHandler)
var UploadHandler = Wrap(handlers.UploadHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200}
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(re.badRequest.httpCode)).Inc()
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc()
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")

	re = injectTrace(re)
	re = authenticate(re)
	if re.badRequest.isBadRequest {
		handleBadRequest(re)
		return re //stop if auth fails
	}
	re = rateLimiter(re)
	if re.badRequest.isBadRequest {
		handleBadRequest(re)
		return re
	}

	return re
}
