// internal/shiprocket/tracking.go
package shiprocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"dkt-api-server/internal/apperr"
)

// Track returns the courier's tracking document for an order as-is.
func (c *Client) Track(ctx context.Context, orderID, channelID string) (json.RawMessage, error) {
	if orderID == "" || channelID == "" {
		return nil, apperr.Validation("Missing order_id or channel_id")
	}

	q := url.Values{}
	q.Set("order_id", orderID)
	q.Set("channel_id", channelID)

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "courier/track?"+q.Encode(), nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
