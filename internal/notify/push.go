// internal/notify/push.go
package notify

import (
	"context"
	"encoding/json"
	"fmt"
)

// Sender is the subset of the websocket hub used for live pushes.
type Sender interface {
	Send(userID string, message []byte) error
}

// Push forwards messages to the recipient's open websocket, if any.
type Push struct {
	Hub Sender
}

func (p *Push) Notify(_ context.Context, msg Message) error {
	if msg.UserID == "" {
		return nil
	}
	payload, err := json.Marshal(map[string]any{
		"event": msg.Kind,
		"data":  msg.Payload,
	})
	if err != nil {
		return fmt.Errorf("failed to encode push: %w", err)
	}
	return p.Hub.Send(msg.UserID, payload)
}
