package handlers

import (
	"net/http"
	"order_queue/internal/events"
	"time"

	"github.com/gin-gonic/gin"
)

const keepAliveInterval = 25 * time.Second

// streamEvents writes server-sent events until the client goes away or the
// subscription ends. open runs once the subscription is live and may be nil;
// emit returns false to stop the stream.
func streamEvents(c *gin.Context, subscriber events.Subscriber, open func(), emit func(events.OrderEvent) bool) {
	ctx := c.Request.Context()
	ch, err := subscriber.Subscribe(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	if open != nil {
		open()
	}
	c.Writer.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			c.Writer.Flush()
		case event, ok := <-ch:
			if !ok {
				return
			}
			if !emit(event) {
				return
			}
			c.Writer.Flush()
		}
	}
}
