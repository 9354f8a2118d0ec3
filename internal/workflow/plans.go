// internal/workflow/plans.go
package workflow

import (
	"context"

	"dkt-api-server/internal/apperr"
	"dkt-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *Service) ListPlans(ctx context.Context) ([]models.PricingPlan, error) {
	return s.Store.ListPlans(ctx)
}

func (s *Service) CreatePlan(ctx context.Context, plan models.PricingPlan) (*models.PricingPlan, error) {
	if !plan.Category.Valid() {
		return nil, apperr.Validation("unknown plan category %q", plan.Category)
	}
	now := s.now()
	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	if err := s.Store.InsertPlan(ctx, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *Service) UpdatePlan(ctx context.Context, id string, plan models.PricingPlan) (*models.PricingPlan, error) {
	oid, err := ParseID("planId", id)
	if err != nil {
		return nil, err
	}
	if !plan.Category.Valid() {
		return nil, apperr.Validation("unknown plan category %q", plan.Category)
	}
	existing, err := s.Store.FindPlan(ctx, oid)
	if err != nil {
		return nil, err
	}
	plan.ID = oid
	plan.CreatedAt = existing.CreatedAt
	plan.UpdatedAt = s.now()
	if err := s.Store.UpdatePlan(ctx, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *Service) DeletePlan(ctx context.Context, id string) error {
	oid, err := ParseID("planId", id)
	if err != nil {
		return err
	}
	return s.Store.DeletePlan(ctx, oid)
}
