package http

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/jhoicas/Bodega-api/internal/application/access"
	"github.com/jhoicas/Bodega-api/internal/application/events"
)

// Subscriber fuente de eventos en vivo. Lo implementa *events.Broker.
type Subscriber interface {
	Subscribe(ctx context.Context, pred events.Predicate) (<-chan events.Event, func())
}

// EventsHandler stream SSE de cambios confirmados.
type EventsHandler struct {
	sub       Subscriber
	heartbeat time.Duration
}

// NewEventsHandler construye el handler; heartbeat <= 0 usa 15s.
func NewEventsHandler(sub Subscriber, heartbeat time.Duration) *EventsHandler {
	if heartbeat <= 0 {
		heartbeat = 15 * time.Second
	}
	return &EventsHandler{sub: sub, heartbeat: heartbeat}
}

// Stream godoc
// @Summary      Suscripción a cambios (Server-Sent Events)
// @Description  Emite cell.*, invoice.created, role_request.*, user.* a medida que se confirman.
// @Tags         events
// @Security     Bearer
// @Produce      text/event-stream
// @Param        types  query  string  false  "Tipos separados por coma (todos si vacío)"
// @Success      200
// @Router       /api/events [get]
func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	if err := access.RequireRead(actorFrom(c)); err != nil {
		return respondError(c, err)
	}

	var types []events.Type
	for _, t := range strings.Split(c.Query("types"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, events.Type(t))
		}
	}

	ctx, cancelCtx := context.WithCancel(context.Background())
	ch, unsubscribe := h.sub.Subscribe(ctx, events.OfTypes(types...))

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancelCtx()
		defer unsubscribe()

		ticker := time.NewTicker(h.heartbeat)
		defer ticker.Stop()

		// comentario inicial para que el cliente reciba cabeceras de inmediato
		if _, err := fmt.Fprint(w, ": conectado\n\n"); err != nil || w.Flush() != nil {
			return
		}
		for {
			select {
			case e, ok := <-ch:
				if !ok {
					return
				}
				if err := writeEvent(w, e); err != nil {
					return
				}
			case <-ticker.C:
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}

func writeEvent(w *bufio.Writer, e events.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Type, data); err != nil {
		return err
	}
	return w.Flush()
}
