package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Bodega-api/internal/application/events"
)

// EventsChannel canal Pub/Sub compartido por todas las instancias.
const EventsChannel = "bodega:events"

var _ events.Publisher = (*Publisher)(nil)

// Publisher publica eventos de cambio en Redis.
type Publisher struct {
	client  *redis.Client
	channel string
}

// NewPublisher construye el publicador sobre EventsChannel.
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client, channel: EventsChannel}
}

func (p *Publisher) Publish(ctx context.Context, e events.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// Relay reenvía los eventos del canal Redis al broker local, de modo que los
// suscriptores de cada instancia reciben también los cambios hechos en otras.
type Relay struct {
	client  *redis.Client
	channel string
	local   events.Publisher
	log     zerolog.Logger
}

// NewRelay construye el relé hacia local.
func NewRelay(client *redis.Client, local events.Publisher, log zerolog.Logger) *Relay {
	return &Relay{
		client:  client,
		channel: EventsChannel,
		local:   local,
		log:     log.With().Str("component", "event-relay").Logger(),
	}
}

// Start se suscribe, espera la confirmación y reenvía en segundo plano hasta que ctx termine.
func (r *Relay) Start(ctx context.Context) error {
	ps := r.client.Subscribe(ctx, r.channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return fmt.Errorf("redis subscribe %s: %w", r.channel, err)
	}

	go func() {
		defer ps.Close()
		ch := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var e events.Event
				if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
					r.log.Warn().Err(err).Msg("evento inválido descartado")
					continue
				}
				if err := r.local.Publish(ctx, e); err != nil {
					r.log.Warn().Err(err).Str("event", string(e.Type)).Msg("no se pudo reenviar el evento")
				}
			}
		}
	}()
	r.log.Info().Str("channel", r.channel).Msg("relé de eventos iniciado")
	return nil
}
