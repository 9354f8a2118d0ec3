// internal/models/status.go
package models

// AssetStatus is shared by assets and donor requests.
type AssetStatus string

const (
	AssetAvailable AssetStatus = "Available"
	AssetRequested AssetStatus = "Requested"
	AssetAssigned  AssetStatus = "Assigned"
	AssetPickedup  AssetStatus = "Pickedup"
	AssetDelivered AssetStatus = "Delivered"
)

var assetStatusRank = map[AssetStatus]int{
	AssetAvailable: 0,
	AssetRequested: 1,
	AssetAssigned:  2,
	AssetPickedup:  3,
	AssetDelivered: 4,
}

func (s AssetStatus) Valid() bool {
	_, ok := assetStatusRank[s]
	return ok
}

// CanAdvanceTo reports whether next lies strictly ahead of s.
func (s AssetStatus) CanAdvanceTo(next AssetStatus) bool {
	cur, ok := assetStatusRank[s]
	if !ok {
		return false
	}
	n, ok := assetStatusRank[next]
	return ok && n > cur
}

// Predecessors lists every status that may advance to s.
func (s AssetStatus) Predecessors() []AssetStatus {
	rank, ok := assetStatusRank[s]
	if !ok {
		return nil
	}
	var out []AssetStatus
	for st, r := range assetStatusRank {
		if r < rank {
			out = append(out, st)
		}
	}
	return out
}

type AssetCondition string

const (
	ConditionUnclassified    AssetCondition = "Unclassified"
	ConditionRecycle         AssetCondition = "Recycle"
	ConditionRepair          AssetCondition = "Repair"
	ConditionAllocationReady AssetCondition = "Allocation-Ready"
)

func (c AssetCondition) Valid() bool {
	switch c {
	case ConditionUnclassified, ConditionRecycle, ConditionRepair, ConditionAllocationReady:
		return true
	}
	return false
}

// BindingStatus is the sub-state of an asset bound to a beneficiary, and of a
// beneficiary request's assignedDetails.
type BindingStatus string

const (
	BindingPending    BindingStatus = "Pending"
	BindingAssigned   BindingStatus = "Assigned"
	BindingInProgress BindingStatus = "In-progress"
	BindingDelivered  BindingStatus = "Delivered"
)

type DeliveryStatus string

const (
	DeliveryRequested  DeliveryStatus = "Requested"
	DeliveryAssigned   DeliveryStatus = "Assigned"
	DeliveryInProgress DeliveryStatus = "In-progress"
	DeliveryDelivered  DeliveryStatus = "Delivered"
)

func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryRequested, DeliveryAssigned, DeliveryInProgress, DeliveryDelivered:
		return true
	}
	return false
}

// NeedsShipment reports whether the move requires a booked courier shipment,
// which is what binds the assets to the beneficiary.
func (s DeliveryStatus) NeedsShipment() bool {
	return s == DeliveryInProgress || s == DeliveryDelivered
}

type BeneficiaryRequestStatus string

const (
	BeneficiaryPending  BeneficiaryRequestStatus = "Pending"
	BeneficiaryApproved BeneficiaryRequestStatus = "Approved"
	BeneficiaryRejected BeneficiaryRequestStatus = "Rejected"
)

// Approval is the admin moderation gate on accounts and uploads.
type Approval string

const (
	ApprovalPending  Approval = "Pending"
	ApprovalApproved Approval = "Approved"
	ApprovalRejected Approval = "Reject"
)

func (a Approval) Valid() bool {
	return a == ApprovalPending || a == ApprovalApproved || a == ApprovalRejected
}
