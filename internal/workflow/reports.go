// internal/workflow/reports.go
package workflow

import (
	"context"
	"fmt"
	"log"
	"strings"

	"dkt-api-server/internal/apperr"
	"dkt-api-server/internal/models"
	"dkt-api-server/internal/notify"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FileReport records a beneficiary complaint and alerts every admin.
func (s *Service) FileReport(ctx context.Context, beneficiaryID primitive.ObjectID, requestID, message string) (*models.Report, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperr.Validation("message is required")
	}
	reqID, err := ParseID("requestId", requestID)
	if err != nil {
		return nil, err
	}
	req, err := s.Store.FindBeneficiaryRequest(ctx, reqID)
	if err != nil {
		return nil, err
	}
	if req.BeneficiaryID != beneficiaryID {
		return nil, apperr.NotFound("request not found")
	}

	r := &models.Report{
		ID:            primitive.NewObjectID(),
		ReportNumber:  fmt.Sprintf("RPT-%s", strings.ToUpper(uuid.New().String()[:8])),
		BeneficiaryID: beneficiaryID,
		RequestID:     reqID,
		Message:       message,
		CreatedAt:     s.now(),
	}
	if err := s.Store.InsertReport(ctx, r); err != nil {
		return nil, err
	}

	admins, err := s.Accounts.ListByRole(ctx, models.RoleAdmin)
	if err != nil {
		log.Printf("WARN: could not list admins for report %s: %v", r.ReportNumber, err)
		return r, nil
	}
	for _, a := range admins {
		s.notify(ctx, notify.Message{
			To:      a.ContactEmail(),
			UserID:  a.AccountID().Hex(),
			Kind:    notify.ReportFiled,
			Payload: map[string]any{"reportNumber": r.ReportNumber, "requestId": reqID.Hex(), "beneficiary": req.FullName, "message": message},
		})
	}
	return r, nil
}

func (s *Service) ListReports(ctx context.Context) ([]models.Report, error) {
	return s.Store.ListReports(ctx)
}
