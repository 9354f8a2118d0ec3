// internal/workflow/assets.go
package workflow

import (
	"context"
	"io"
	"strings"

	"dkt-api-server/internal/apperr"
	"dkt-api-server/internal/billing"
	"dkt-api-server/internal/models"
	"dkt-api-server/internal/notify"
	"dkt-api-server/internal/s3"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssetInput describes one uploaded asset.
type AssetInput struct {
	Name                  string
	Model                 string
	Quantity              int
	OriginalPurchaseValue float64
}

// Image is an optional file attached to an asset upload.
type Image struct {
	Body        io.Reader
	Filename    string
	ContentType string
}

// UploadAsset stores a new asset, with its image when given, as a pending upload batch.
func (s *Service) UploadAsset(ctx context.Context, donorID primitive.ObjectID, in AssetInput, img *Image) (*models.Asset, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Model) == "" {
		return nil, apperr.Validation("name and model are required")
	}
	if in.Quantity < 1 {
		in.Quantity = 1
	}
	if in.OriginalPurchaseValue < 0 {
		return nil, apperr.Validation("original purchase value must not be negative")
	}

	now := s.now()
	asset := models.Asset{
		ID:                    primitive.NewObjectID(),
		DonorID:               donorID,
		Name:                  in.Name,
		Model:                 in.Model,
		Quantity:              in.Quantity,
		OriginalPurchaseValue: in.OriginalPurchaseValue,
		Condition:             models.ConditionUnclassified,
		Status:                models.AssetAvailable,
		Repair:                models.Repair{Service: []models.RepairService{}},
		AssignedToBeneficiary: models.BeneficiaryBinding{Status: models.BindingPending},
		AdminApproval:         models.ApprovalPending,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if img != nil && s.Images != nil {
		key := s3.AssetImageKey(donorID.Hex(), asset.ID.Hex(), img.Filename)
		url, err := s.Images.UploadFile(ctx, img.Body, key, img.ContentType)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindServer, "failed to upload asset image", err)
		}
		asset.ImageURL = url
	}

	upload := &models.ProductUpload{
		ID:            primitive.NewObjectID(),
		DonorID:       donorID,
		Products:      []primitive.ObjectID{asset.ID},
		AdminApproval: models.ApprovalPending,
		CreatedAt:     now,
	}
	asset.UploadID = upload.ID
	if err := s.Store.InsertUpload(ctx, upload, []models.Asset{asset}); err != nil {
		return nil, err
	}

	s.record(ctx, []primitive.ObjectID{asset.ID}, string(models.AssetAvailable), "uploaded by donor", donorID.Hex())
	s.notifyDonor(ctx, donorID, notify.AssetUploadConfirmed, map[string]any{"assetId": asset.ID.Hex(), "assetName": asset.Name})
	return &asset, nil
}

func (s *Service) ListAssets(ctx context.Context, donorID primitive.ObjectID) ([]models.Asset, error) {
	return s.Store.ListAssets(ctx, donorID)
}

func (s *Service) ListUploads(ctx context.Context, donorID primitive.ObjectID) ([]models.ProductUpload, error) {
	return s.Store.ListUploads(ctx, donorID)
}

// ReviewUpload sets the admin approval on an upload batch and every asset in it.
func (s *Service) ReviewUpload(ctx context.Context, uploadID string, approval models.Approval) error {
	if approval != models.ApprovalApproved && approval != models.ApprovalRejected {
		return apperr.Validation("status must be Approved or Reject")
	}
	id, err := ParseID("uploadId", uploadID)
	if err != nil {
		return err
	}
	return s.Store.ReviewUpload(ctx, id, approval)
}

// ConditionInput is the partner's classification of an asset.
type ConditionInput struct {
	ProductID string
	Condition models.AssetCondition
	IsRepair  bool
	Services  []models.RepairService
}

// UpdateAssetCondition records the partner's classification. It touches nothing but the asset.
func (s *Service) UpdateAssetCondition(ctx context.Context, partnerID primitive.ObjectID, in ConditionInput) (*models.Asset, error) {
	if strings.TrimSpace(in.ProductID) == "" || in.Condition == "" {
		return nil, apperr.Validation("productId and condition are required")
	}
	if !in.Condition.Valid() {
		return nil, apperr.Validation("condition must be one of Unclassified, Recycle, Repair, Allocation-Ready")
	}
	id, err := ParseID("productId", in.ProductID)
	if err != nil {
		return nil, err
	}
	for _, svc := range in.Services {
		if svc.Cost < 0 {
			return nil, apperr.Validation("repair cost must not be negative")
		}
	}

	repair := models.Repair{IsRepair: false, Service: []models.RepairService{}}
	if in.IsRepair || (in.Condition == models.ConditionRepair && len(in.Services) > 0) {
		repair = models.Repair{IsRepair: true, Service: in.Services}
		if repair.Service == nil {
			repair.Service = []models.RepairService{}
		}
	}

	if err := s.Store.UpdateAssetCondition(ctx, id, in.Condition, repair); err != nil {
		return nil, err
	}
	assets, err := s.Store.FindAssets(ctx, []primitive.ObjectID{id})
	if err != nil {
		return nil, err
	}
	if len(assets) == 0 {
		return nil, apperr.NotFound("product not found")
	}

	s.record(ctx, []primitive.ObjectID{id}, string(assets[0].Status), "condition set to "+string(in.Condition), partnerID.Hex())
	return &assets[0], nil
}

// AssetDetail is the admin view of one asset.
type AssetDetail struct {
	Asset          models.Asset           `json:"asset"`
	RepairEstimate float64                `json:"repairEstimate"`
	Trail          []models.TrackingEvent `json:"trail"`
}

// GetAssetDetail returns an asset with its repair cost estimate and lifecycle trail.
func (s *Service) GetAssetDetail(ctx context.Context, assetID string) (*AssetDetail, error) {
	id, err := ParseID("productId", assetID)
	if err != nil {
		return nil, err
	}
	assets, err := s.Store.FindAssets(ctx, []primitive.ObjectID{id})
	if err != nil {
		return nil, err
	}
	if len(assets) == 0 {
		return nil, apperr.NotFound("product not found")
	}

	detail := &AssetDetail{
		Asset:          assets[0],
		RepairEstimate: billing.RepairEstimate(assets[0].Repair.Service),
		Trail:          []models.TrackingEvent{},
	}
	if s.History != nil {
		trail, err := s.History.History(ctx, id)
		if err != nil {
			return nil, err
		}
		detail.Trail = trail
	}
	return detail, nil
}
