// internal/models/account.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the account kind, also used as the JWT role claim.
type Role string

const (
	RoleDonor       Role = "donor"
	RoleBeneficiary Role = "beneficiary"
	RolePartner     Role = "partner"
	RoleAdmin       Role = "admin"
)

// Roles lists every account kind.
var Roles = []Role{RoleDonor, RoleBeneficiary, RolePartner, RoleAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleDonor, RoleBeneficiary, RolePartner, RoleAdmin:
		return true
	}
	return false
}

// PickupDetails is what the courier platform returns when a pickup location is registered.
type PickupDetails struct {
	PickupCode   string `bson:"pickup_code" json:"pickup_code"`
	CompanyID    string `bson:"company_id" json:"company_id"`
	RTOAddressID string `bson:"rto_address_id" json:"rto_address_id"`
	PickupID     string `bson:"pickup_id" json:"pickup_id"`
}

type AccountAddress struct {
	ID                      primitive.ObjectID `bson:"_id" json:"id"`
	Address                 string             `bson:"address" json:"address"`
	Verified                bool               `bson:"verified" json:"verified"`
	ShiprocketPickupDetails *PickupDetails     `bson:"shiprocketPickupDetails,omitempty" json:"shiprocketPickupDetails,omitempty"`
}

// AddressBook is the GST and pickup address list shared by donors, partners and beneficiaries.
type AddressBook struct {
	Addresses []AccountAddress `bson:"address" json:"address"`
	GSTIn     []string         `bson:"gstIn" json:"gstIn"`
}

// AccountBase holds the fields every account kind has.
type AccountBase struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Password  string             `bson:"password,omitempty" json:"-"`
	Verify    Approval           `bson:"verify" json:"verify"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

func (b AccountBase) AccountID() primitive.ObjectID { return b.ID }
func (b AccountBase) ContactEmail() string          { return b.Email }
func (b AccountBase) Approval() Approval            { return b.Verify }
func (b AccountBase) PasswordHash() string          { return b.Password }
func (b AccountBase) ContactPhone() string          { return b.Phone }

type Subscription struct {
	Plan          primitive.ObjectID `bson:"plan" json:"plan"`
	Status        string             `bson:"status" json:"status"`
	Paid          bool               `bson:"paid" json:"paid"`
	TransactionID string             `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	StartedAt     *time.Time         `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	ExpiresAt     time.Time          `bson:"expiresAt" json:"expiresAt"`
}

type Donor struct {
	AccountBase  `bson:",inline"`
	AddressBook  `bson:",inline"`
	Name         string        `bson:"name" json:"name"`
	CompanyName  string        `bson:"companyName,omitempty" json:"companyName,omitempty"`
	Subscription *Subscription `bson:"subscription,omitempty" json:"subscription,omitempty"`
}

func (Donor) Role() Role { return RoleDonor }

func (d Donor) DisplayName() string {
	if d.CompanyName != "" {
		return d.CompanyName
	}
	return d.Name
}

type Beneficiary struct {
	AccountBase      `bson:",inline"`
	AddressBook      `bson:",inline"`
	Name             string `bson:"name" json:"name"`
	OrganizationName string `bson:"organizationName,omitempty" json:"organizationName,omitempty"`
}

func (Beneficiary) Role() Role { return RoleBeneficiary }

func (b Beneficiary) DisplayName() string { return b.Name }

type Partner struct {
	AccountBase `bson:",inline"`
	AddressBook `bson:",inline"`
	PartnerName string `bson:"partnerName" json:"partnerName"`
}

func (Partner) Role() Role { return RolePartner }

func (p Partner) DisplayName() string { return p.PartnerName }

type Admin struct {
	AccountBase `bson:",inline"`
	Name        string `bson:"name" json:"name"`
}

func (Admin) Role() Role { return RoleAdmin }

func (a Admin) DisplayName() string { return a.Name }

// Lookup finds an address entry by id.
func (b AddressBook) Lookup(id primitive.ObjectID) (AccountAddress, bool) {
	for _, a := range b.Addresses {
		if a.ID == id {
			return a, true
		}
	}
	return AccountAddress{}, false
}

func (b AddressBook) HasGST(number string) bool {
	for _, g := range b.GSTIn {
		if g == number {
			return true
		}
	}
	return false
}
