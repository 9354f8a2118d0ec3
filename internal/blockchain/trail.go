// internal/blockchain/trail.go
package blockchain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dkt-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contract is the part of gateway.Contract the trail uses.
type Contract interface {
	SubmitTransaction(name string, args ...string) ([]byte, error)
	EvaluateTransaction(name string, args ...string) ([]byte, error)
}

// Trail anchors asset lifecycle events on the ledger.
type Trail struct {
	Contract Contract
	closeFn  func()
}

// Close releases the ledger connection opened by Dial.
func (t *Trail) Close() {
	if t.closeFn != nil {
		t.closeFn()
	}
}

type ledgerEvent struct {
	AssetID    string    `json:"assetID"`
	Status     string    `json:"status"`
	SubStatus  string    `json:"subStatus,omitempty"`
	Checkpoint string    `json:"checkpoint,omitempty"`
	Remarks    string    `json:"remarks,omitempty"`
	ActorID    string    `json:"actorID,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func (t *Trail) Record(_ context.Context, events []models.TrackingEvent) error {
	for _, e := range events {
		payload, err := json.Marshal(ledgerEvent{
			AssetID:    e.AssetID.Hex(),
			Status:     e.Status,
			SubStatus:  e.SubStatus,
			Checkpoint: e.Checkpoint,
			Remarks:    e.Remarks,
			ActorID:    e.ActorID,
			Timestamp:  e.At,
		})
		if err != nil {
			return fmt.Errorf("failed to encode ledger event: %w", err)
		}
		if _, err := t.Contract.SubmitTransaction("RecordAssetEvent", e.AssetID.Hex(), string(payload)); err != nil {
			return fmt.Errorf("failed to record event for asset %s on ledger: %w", e.AssetID.Hex(), err)
		}
	}
	return nil
}

func (t *Trail) History(_ context.Context, assetID primitive.ObjectID) ([]models.TrackingEvent, error) {
	raw, err := t.Contract.EvaluateTransaction("GetAssetHistory", assetID.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to read asset history from ledger: %w", err)
	}

	var entries []ledgerEvent
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse asset history: %w", err)
		}
	}

	events := make([]models.TrackingEvent, 0, len(entries))
	for _, e := range entries {
		events = append(events, models.TrackingEvent{
			AssetID:    assetID,
			Status:     e.Status,
			SubStatus:  e.SubStatus,
			Checkpoint: e.Checkpoint,
			Remarks:    e.Remarks,
			ActorID:    e.ActorID,
			At:         e.Timestamp,
		})
	}
	return events, nil
}
