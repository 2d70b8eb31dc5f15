package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
)

// Catalog event subjects.
const (
	CategoryCreated          = "catalog.category.created"
	CategoryUpdated          = "catalog.category.updated"
	CategoryDeleted          = "catalog.category.deleted"
	CategoryStatusChanged    = "catalog.category.status_changed"
	SubcategoryCreated       = "catalog.subcategory.created"
	SubcategoryUpdated       = "catalog.subcategory.updated"
	SubcategoryDeleted       = "catalog.subcategory.deleted"
	SubcategoryStatusChanged = "catalog.subcategory.status_changed"
	ProductCreated           = "catalog.product.created"
	ProductUpdated           = "catalog.product.updated"
	ProductDeleted           = "catalog.product.deleted"
	ProductStatusChanged     = "catalog.product.status_changed"
	CascadeDeactivated       = "catalog.cascade.deactivated"
)

// Event is the envelope published on every catalog change.
type Event struct {
	ID         string       `json:"id"`
	Type       string       `json:"type"`
	EntityID   string       `json:"entityId"`
	EntityName string       `json:"entityName,omitempty"`
	Slug       string       `json:"slug,omitempty"`
	ParentID   string       `json:"parentId,omitempty"`
	Affected   int64        `json:"affected,omitempty"`
	Actor      models.Actor `json:"actor"`
	Timestamp  time.Time    `json:"timestamp"`
}

// Publisher emits catalog events over NATS. Publishing is fire-and-forget:
// a broker outage must never fail the originating request, so errors are
// logged and swallowed.
type Publisher struct {
	conn   *nats.Conn
	logger *logrus.Entry
}

// NewPublisher connects to NATS. A nil publisher is safe to call; events are
// silently dropped when the broker is not configured.
func NewPublisher(natsURL string, logger *logrus.Logger) (*Publisher, error) {
	conn, err := nats.Connect(natsURL,
		nats.Name("catalog-service"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &Publisher{
		conn:   conn,
		logger: logger.WithField("component", "events.publisher"),
	}, nil
}

// Publish emits one event on its subject.
func (p *Publisher) Publish(eventType, entityID, entityName, slug, parentID string, affected int64, actor models.Actor) {
	if p == nil || p.conn == nil {
		return
	}
	event := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		EntityID:   entityID,
		EntityName: entityName,
		Slug:       slug,
		ParentID:   parentID,
		Affected:   affected,
		Actor:      actor,
		Timestamp:  time.Now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.WithError(err).Warn("failed to marshal event")
		return
	}
	if err := p.conn.Publish(eventType, data); err != nil {
		p.logger.WithError(err).WithField("type", eventType).Warn("failed to publish event")
	}
}

// IsConnected returns true if connected to NATS.
func (p *Publisher) IsConnected() bool {
	return p != nil && p.conn != nil && p.conn.IsConnected()
}

// Close drains the connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}
