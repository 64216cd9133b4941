package router

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bselic/newsbrief/internal/pipeline"
	"github.com/labstack/echo/v4"
)

// streamSSE relays a summary stream to the client as Server-Sent Events,
// flushing after every chunk. Once the first byte is written the status is
// committed, so mid-stream failures can only be reported as an error event.
func streamSSE(c echo.Context, stream *pipeline.SummaryStream) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	ctx := c.Request().Context()
	err := stream.Run(ctx, func(chunk string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeSSEData(res, chunk); err != nil {
			return err
		}
		res.Flush()
		return nil
	})
	if err != nil {
		if errors.Is(err, ctx.Err()) && ctx.Err() != nil {
			slog.Info("Summary stream aborted by client", "uri", c.Request().RequestURI)
			return nil
		}
		slog.Error("Summary stream failed", "uri", c.Request().RequestURI, "error", err)
		_ = writeSSEEvent(res, "error", "stream failed")
		res.Flush()
		return nil
	}

	return nil
}

// writeSSEData writes one data event. Multi-line payloads become multiple
// data: lines of the same event, per the SSE framing rules.
func writeSSEData(w *echo.Response, payload string) error {
	for _, line := range strings.Split(payload, "\n") {
		if _, err := fmt.Fprintf(w, "data: %s\n", line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(w, "\n")
	return err
}

func writeSSEEvent(w *echo.Response, event, payload string) error {
	if _, err := fmt.Fprintf(w, "event: %s\n", event); err != nil {
		return err
	}
	return writeSSEData(w, payload)
}
