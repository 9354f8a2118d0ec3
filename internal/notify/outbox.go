// internal/notify/outbox.go
package notify

import (
	"context"
	"fmt"
	"time"

	"dkt-api-server/internal/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// Outbox stores messages in the notifications collection for the mailer to pick up.
type Outbox struct {
	Collection *mongo.Collection
}

func NewOutbox(db *mongo.Database) *Outbox {
	return &Outbox{Collection: db.Collection("notifications")}
}

func (o *Outbox) Notify(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return nil
	}
	doc := models.Notification{
		To:        msg.To,
		UserID:    msg.UserID,
		Kind:      string(msg.Kind),
		Payload:   msg.Payload,
		CreatedAt: time.Now(),
	}
	if _, err := o.Collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to queue %s notification: %w", msg.Kind, err)
	}
	return nil
}
