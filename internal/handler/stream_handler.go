package handler

import (
	"bufio"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"github.com/hireloop/devscout/internal/progress"
)

// streamSSE relays a progress stream to the client as Server-Sent Events.
// The stream is closed when the writer returns, so abandoning the connection
// triggers the producer's cleanup.
func streamSSE(c fiber.Ctx, stream *progress.Stream) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	return c.SendStreamWriter(func(w *bufio.Writer) {
		defer stream.Close()

		for ev := range stream.Events() {
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			eventType := "progress"
			if ev.Terminal() {
				eventType = string(ev.Status)
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, data); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
			if ev.Terminal() {
				return
			}
		}
	})
}
