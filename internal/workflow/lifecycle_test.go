package workflow

import (
	"context"
	"strings"
	"testing"

	"dkt-api-server/internal/apperr"
	"dkt-api-server/internal/models"
	"dkt-api-server/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// An asset travels from upload to delivery and each step's status is observable.
func TestAssetLifecycle_EndToEnd(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	asset, err := h.svc.UploadAsset(ctx, h.donor.ID, AssetInput{Name: "ThinkPad", Model: "T480", Quantity: 1, OriginalPurchaseValue: 52000},
		&Image{Body: strings.NewReader("jpeg"), Filename: "front.JPG", ContentType: "image/jpeg"})
	require.NoError(t, err)
	assert.Equal(t, models.AssetAvailable, asset.Status)
	assert.Equal(t, "https://cdn.test/assets/"+h.donor.ID.Hex()+"/"+asset.ID.Hex()+".jpg", asset.ImageURL)
	require.NoError(t, h.svc.ReviewUpload(ctx, asset.UploadID.Hex(), models.ApprovalApproved))
	assert.Equal(t, models.ApprovalApproved, h.store.asset(asset.ID).AdminApproval)

	req, err := h.svc.CreateDonorRequest(ctx, h.donor.ID, donorInput(asset.ID.Hex()))
	require.NoError(t, err)
	assert.Equal(t, models.AssetRequested, h.store.asset(asset.ID).Status)

	_, err = h.svc.AssignToPartner(ctx, h.admin.ID, AssignInput{RequestID: req.ID.Hex(), PartnerID: h.partner.ID.Hex(), PartnerAddress: partnerHub.Address})
	require.NoError(t, err)
	assert.Equal(t, models.AssetAssigned, h.store.asset(asset.ID).Status)

	_, err = h.svc.AcceptDonorRequest(ctx, h.partner.ID, req.ID.Hex(), models.AssetPickedup)
	require.NoError(t, err)
	assert.Equal(t, models.AssetPickedup, h.store.asset(asset.ID).Status)

	_, err = h.svc.UpdateAssetCondition(ctx, h.partner.ID, ConditionInput{ProductID: asset.ID.Hex(), Condition: models.ConditionAllocationReady})
	require.NoError(t, err)

	benReq := h.pendingBeneficiaryRequest()
	_, err = h.svc.ModerateBeneficiaryRequest(ctx, benReq.ID.Hex(), models.BeneficiaryApproved, "")
	require.NoError(t, err)

	d, err := h.svc.CreateDelivery(ctx, h.admin.ID, DeliveryInput{BeneficiaryRequestID: benReq.ID.Hex(), AssetIDs: ids(*asset), PartnerID: h.partner.ID.Hex(), PartnerAddress: partnerHub})
	require.NoError(t, err)
	assert.True(t, h.store.asset(asset.ID).Bound())

	_, err = h.svc.UpdateDeliveryStatus(ctx, h.partner.ID, d.ID.Hex(), models.DeliveryInProgress)
	require.NoError(t, err)
	_, err = h.svc.UpdateDeliveryStatus(ctx, h.partner.ID, d.ID.Hex(), models.DeliveryDelivered)
	require.NoError(t, err)

	final := h.store.asset(asset.ID)
	assert.Equal(t, models.AssetDelivered, final.Status)
	assert.Equal(t, models.BindingDelivered, final.AssignedToBeneficiary.Status)
	assert.Equal(t, models.ConditionAllocationReady, final.Condition)

	// nothing moves a delivered asset backwards
	_, err = h.svc.AcceptDonorRequest(ctx, h.partner.ID, req.ID.Hex(), models.AssetDelivered)
	require.NoError(t, err)
	_, err = h.svc.AcceptDonorRequest(ctx, h.partner.ID, req.ID.Hex(), models.AssetPickedup)
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	var statuses []string
	for _, ev := range h.trail.events {
		if ev.AssetID == asset.ID {
			statuses = append(statuses, ev.Status)
		}
	}
	assert.Equal(t, []string{"Available", "Requested", "Assigned", "Pickedup", "Pickedup", "Assigned", "Assigned", "In-progress", "Delivered", "Delivered"}, statuses)

	assert.Subset(t, h.notifier.kinds(), []notify.Kind{
		notify.AssetUploadConfirmed, notify.RequestCreated, notify.PickupScheduled, notify.RequestAccepted,
		notify.AssetRequestStatusChanged, notify.AssetAllocated, notify.DeliveryPartnerAssigned,
	})
}
