// internal/workflow/helpers.go
package workflow

import (
	"context"
	"log"
	"strings"
	"time"

	"dkt-api-server/internal/apperr"
	"dkt-api-server/internal/identity"
	"dkt-api-server/internal/models"
	"dkt-api-server/internal/notify"
	"dkt-api-server/internal/tracking"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// notify and record are best-effort: a failure is logged and the workflow continues.
func (s *Service) notify(ctx context.Context, msg notify.Message) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Notify(ctx, msg); err != nil {
		log.Printf("WARN: notification %s to %s failed: %v", msg.Kind, msg.To, err)
	}
}

func (s *Service) record(ctx context.Context, assetIDs []primitive.ObjectID, status, remarks, actorID string) {
	if s.Trail == nil || len(assetIDs) == 0 {
		return
	}
	if err := s.Trail.Record(ctx, tracking.Events(assetIDs, status, remarks, actorID)); err != nil {
		log.Printf("WARN: tracking trail write for %d assets failed: %v", len(assetIDs), err)
	}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// ParseID converts a hex id from the wire.
func ParseID(field, hex string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(hex))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("invalid %s", field)
	}
	return oid, nil
}

// ParseIDs converts and de-duplicates a list of hex ids, keeping the first-seen order.
func ParseIDs(field string, hexes []string) ([]primitive.ObjectID, error) {
	if len(hexes) == 0 {
		return nil, apperr.Validation("%s must not be empty", field)
	}
	seen := make(map[primitive.ObjectID]bool, len(hexes))
	out := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		oid, err := ParseID(field, h)
		if err != nil {
			return nil, err
		}
		if seen[oid] {
			continue
		}
		seen[oid] = true
		out = append(out, oid)
	}
	return out, nil
}

func hexList(ids []primitive.ObjectID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.Hex()
	}
	return strings.Join(parts, ", ")
}

// addressable fetches an account that keeps an address book.
func (s *Service) addressable(ctx context.Context, role models.Role, id primitive.ObjectID) (identity.Account, identity.Addressable, error) {
	acct, err := s.Accounts.FindByID(ctx, role, id)
	if err != nil {
		return nil, nil, err
	}
	book, ok := acct.(identity.Addressable)
	if !ok {
		return nil, nil, apperr.Validation("%s accounts have no address book", role)
	}
	return acct, book, nil
}
