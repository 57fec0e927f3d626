package chathttp

import (
	"encoding/json"
	"fmt"

	"github.com/labstack/echo/v4"
)

// doneFrame terminates every successful stream. Clients treat it as
// end-of-stream and never parse it as JSON.
const doneFrame = "data: [DONE]\n\n"

// eventWriter frames JSON payloads as Server-Sent Events and flushes each
// frame immediately so deltas reach the client as they are generated.
type eventWriter struct {
	res *echo.Response
}

func newEventWriter(res *echo.Response) *eventWriter {
	return &eventWriter{res: res}
}

func (w *eventWriter) WriteJSON(v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w.res, "data: %s\n\n", payload); err != nil {
		return err
	}
	w.res.Flush()
	return nil
}

func (w *eventWriter) WriteDone() error {
	if _, err := fmt.Fprint(w.res, doneFrame); err != nil {
		return err
	}
	w.res.Flush()
	return nil
}
