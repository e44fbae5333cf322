package apps

import (
	"bufio"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/mybenefit/fitness-backend/internal/subscription"
)

// StreamJSON serves a subscription as a server-sent event stream: the full
// fresh list is written as one `data:` frame per delivery. The subscription
// is cancelled when the client goes away (detected on write failure).
func StreamJSON[T any](c *fiber.Ctx, sub *subscription.Subscription[T]) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer sub.Cancel()
		for list := range sub.Updates() {
			payload, err := json.Marshal(list)
			if err != nil {
				return
			}
			if _, err := w.WriteString("data: "); err != nil {
				return
			}
			if _, err := w.Write(payload); err != nil {
				return
			}
			if _, err := w.WriteString("\n\n"); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	})
	return nil
}
