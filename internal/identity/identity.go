// internal/identity/identity.go
package identity

import (
	"context"
	"time"

	"dkt-api-server/internal/apperr"
	"dkt-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account is the capability set shared by donors, beneficiaries, partners and admins.
type Account interface {
	AccountID() primitive.ObjectID
	ContactEmail() string
	ContactPhone() string
	Approval() models.Approval
	PasswordHash() string
	Role() models.Role
	DisplayName() string
}

// Addressable is implemented by account kinds that keep GST numbers and pickup addresses.
type Addressable interface {
	Lookup(id primitive.ObjectID) (models.AccountAddress, bool)
	HasGST(number string) bool
}

var (
	_ Addressable = models.Donor{}
	_ Addressable = models.Beneficiary{}
	_ Addressable = models.Partner{}
)

// Directory persists accounts of every kind.
type Directory interface {
	FindByEmail(ctx context.Context, role models.Role, email string) (Account, error)
	FindByID(ctx context.Context, role models.Role, id primitive.ObjectID) (Account, error)
	Insert(ctx context.Context, acct Account) error
	SetApproval(ctx context.Context, role models.Role, id primitive.ObjectID, approval models.Approval) error
	ListByRole(ctx context.Context, role models.Role) ([]Account, error)

	AddGSTAddress(ctx context.Context, role models.Role, id primitive.ObjectID, gstNumber string, addr models.AccountAddress) error
	AddAddress(ctx context.Context, role models.Role, id primitive.ObjectID, addr models.AccountAddress) error
	VerifyAddress(ctx context.Context, role models.Role, id, addressID primitive.ObjectID, pickup models.PickupDetails) error
}

// CheckApproval is the login gate: only approved accounts pass.
func CheckApproval(acct Account) error {
	switch acct.Approval() {
	case models.ApprovalApproved:
		return nil
	case models.ApprovalRejected:
		return apperr.Forbidden("Your account request has been rejected.")
	default:
		return apperr.Forbidden("Your account is under review.")
	}
}

// Profile is the registration input common to all kinds.
type Profile struct {
	Email            string
	Phone            string
	Password         string
	Name             string
	CompanyName      string
	OrganizationName string
}

// NewAccount builds a pending account of the given kind with a fresh id.
func NewAccount(role models.Role, p Profile, passwordHash string) (Account, error) {
	base := models.AccountBase{
		ID:        primitive.NewObjectID(),
		Email:     p.Email,
		Phone:     p.Phone,
		Password:  passwordHash,
		Verify:    models.ApprovalPending,
		CreatedAt: time.Now(),
	}
	book := models.AddressBook{Addresses: []models.AccountAddress{}, GSTIn: []string{}}

	switch role {
	case models.RoleDonor:
		return models.Donor{AccountBase: base, AddressBook: book, Name: p.Name, CompanyName: p.CompanyName}, nil
	case models.RoleBeneficiary:
		return models.Beneficiary{AccountBase: base, AddressBook: book, Name: p.Name, OrganizationName: p.OrganizationName}, nil
	case models.RolePartner:
		name := p.CompanyName
		if name == "" {
			name = p.Name
		}
		return models.Partner{AccountBase: base, AddressBook: book, PartnerName: name}, nil
	case models.RoleAdmin:
		return models.Admin{AccountBase: base, Name: p.Name}, nil
	}
	return nil, apperr.Validation("unknown account section %q", role)
}
