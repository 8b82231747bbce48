package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bodycomp-io/bodycomp-api/common"
)

// HandlerLoggerFunc expose our httpResponseWriter API
type HandlerLoggerFunc func(context.Context, *common.HttpResponseWriter) error

// TraceSessionHeader carries the caller-provided trace id; a generated uuid
// is used when it is absent or invalid.
const TraceSessionHeader = "x-bodycomp-trace-session"

// middleware logs every request, carries the trace id and buffers the
// response so a late error still produces a valid json body.
func (a *API) middleware(fn HandlerLoggerFunc) http.HandlerFunc {
	// The mux handler func:
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		start := time.Now().UTC()

		// It is recommended by go to get the request information before writing
		// So get theses now

		logErrors := make([]string, 0, 5)
		logRequest := fmt.Sprintf("%s - %s %s HTTP/%d.%d", r.RemoteAddr, r.Method, r.URL.String(), r.ProtoMajor, r.ProtoMinor)

		traceID := r.Header.Get(TraceSessionHeader)
		if !common.IsValidUUID(traceID) {
			// We want a trace id, but for now we do not enforce it
			logErrors = append(logErrors, fmt.Sprintf("no-trace:\"%s\"", traceID))
			traceID = uuid.New().String()
		}

		// Make our context
		ctx := common.TimeItContext(r.Context())

		res := common.HttpResponseWriter{
			Header:     r.Header.Clone(), // Clone the header, to be sure
			URL:        r.URL,
			VARS:       nil,
			TraceID:    traceID,
			StatusCode: http.StatusOK, // Default status
			Err:        nil,
		}

		// Mainteners: No read from the request below this point!

		// Make the call to the API function:
		err = fn(ctx, &res)
		if err != nil {
			logErrors = append(logErrors, fmt.Sprintf("efn:\"%s\"", err))
		}

		// We will send a JSON, so advertise it for all of our requests
		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(res.StatusCode)
		_, err = w.Write([]byte(res.WriteBuffer.String()))
		if err != nil {
			logErrors = append(logErrors, fmt.Sprintf("eww:\"%s\"", err))
		}

		// Log errors management
		if res.Err != nil {
			if res.Err.Code != "" {
				logErrors = append(logErrors, fmt.Sprintf("code:\"%s\"", res.Err.Code))
			}
			if res.Err.InternalMessage != "" {
				logErrors = append(logErrors, fmt.Sprintf("err:\"%s\"", res.Err.InternalMessage))
			}
		}

		// Get the time spent on it
		end := time.Now().UTC()
		dur := end.Sub(start).Milliseconds()
		// Log the message
		var logError string
		if len(logErrors) > 0 {
			logError = fmt.Sprintf("{%s} - ", strings.Join(logErrors, ","))
		}

		timerResults := common.TimeResults(ctx)
		if len(timerResults) > 0 {
			timerResults = fmt.Sprintf("{%s} %d ms", timerResults, dur)
		} else {
			timerResults = fmt.Sprintf("%d ms", dur)
		}
		a.logger.Infof("{%s} %s %d - %s%s - %d bytes", traceID, logRequest, res.StatusCode, logError, timerResults, res.Size)
	}
}
