// internal/store/accounts.go
package store

import (
	"context"
	"errors"
	"fmt"

	"dkt-api-server/internal/apperr"
	"dkt-api-server/internal/identity"
	"dkt-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Directory keeps each account kind in its own collection.
type Directory struct {
	DB *mongo.Database
}

func NewDirectory(db *mongo.Database) *Directory {
	return &Directory{DB: db}
}

// AccountCollection maps an account kind to its collection.
func AccountCollection(role models.Role) (string, error) {
	switch role {
	case models.RoleDonor:
		return Donors, nil
	case models.RoleBeneficiary:
		return Beneficiaries, nil
	case models.RolePartner:
		return Partners, nil
	case models.RoleAdmin:
		return Admins, nil
	}
	return "", apperr.Validation("invalid section %q", role)
}

func (d *Directory) col(role models.Role) (*mongo.Collection, error) {
	name, err := AccountCollection(role)
	if err != nil {
		return nil, err
	}
	return d.DB.Collection(name), nil
}

type decoder interface {
	Decode(v interface{}) error
}

func decodeAccount(role models.Role, src decoder) (identity.Account, error) {
	switch role {
	case models.RoleDonor:
		var a models.Donor
		return a, src.Decode(&a)
	case models.RoleBeneficiary:
		var a models.Beneficiary
		return a, src.Decode(&a)
	case models.RolePartner:
		var a models.Partner
		return a, src.Decode(&a)
	case models.RoleAdmin:
		var a models.Admin
		return a, src.Decode(&a)
	}
	return nil, apperr.Validation("invalid section %q", role)
}

func (d *Directory) findOne(ctx context.Context, role models.Role, filter bson.M) (identity.Account, error) {
	c, err := d.col(role)
	if err != nil {
		return nil, err
	}
	res := c.FindOne(ctx, filter)
	if errors.Is(res.Err(), mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("%s not found", role)
	}
	if res.Err() != nil {
		return nil, fmt.Errorf("failed to load %s: %w", role, res.Err())
	}
	return decodeAccount(role, res)
}

func (d *Directory) FindByEmail(ctx context.Context, role models.Role, email string) (identity.Account, error) {
	return d.findOne(ctx, role, bson.M{"email": email})
}

func (d *Directory) FindByID(ctx context.Context, role models.Role, id primitive.ObjectID) (identity.Account, error) {
	return d.findOne(ctx, role, bson.M{"_id": id})
}

func (d *Directory) Insert(ctx context.Context, acct identity.Account) error {
	c, err := d.col(acct.Role())
	if err != nil {
		return err
	}
	if _, err := c.InsertOne(ctx, acct); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("an account with this email already exists")
		}
		return fmt.Errorf("failed to insert %s: %w", acct.Role(), err)
	}
	return nil
}

func (d *Directory) SetApproval(ctx context.Context, role models.Role, id primitive.ObjectID, approval models.Approval) error {
	return d.update(ctx, role, bson.M{"_id": id}, bson.M{"$set": bson.M{"verify": approval}})
}

func (d *Directory) ListByRole(ctx context.Context, role models.Role) ([]identity.Account, error) {
	c, err := d.col(role)
	if err != nil {
		return nil, err
	}
	cursor, err := c.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s accounts: %w", role, err)
	}
	defer cursor.Close(ctx)

	var out []identity.Account
	for cursor.Next(ctx) {
		acct, err := decodeAccount(role, cursor)
		if err != nil {
			return nil, err
		}
		out = append(out, acct)
	}
	return out, cursor.Err()
}

func (d *Directory) AddGSTAddress(ctx context.Context, role models.Role, id primitive.ObjectID, gstNumber string, addr models.AccountAddress) error {
	c, err := d.col(role)
	if err != nil {
		return err
	}
	res, err := c.UpdateOne(ctx,
		bson.M{"_id": id, "gstIn": bson.M{"$ne": gstNumber}},
		bson.M{"$push": bson.M{"gstIn": gstNumber, "address": addr}},
	)
	if err != nil {
		return fmt.Errorf("failed to add GST info: %w", err)
	}
	if res.MatchedCount == 0 {
		if _, err := d.FindByID(ctx, role, id); err != nil {
			return err
		}
		return apperr.Conflict("GST number %s is already registered", gstNumber)
	}
	return nil
}

func (d *Directory) AddAddress(ctx context.Context, role models.Role, id primitive.ObjectID, addr models.AccountAddress) error {
	return d.update(ctx, role, bson.M{"_id": id}, bson.M{"$push": bson.M{"address": addr}})
}

func (d *Directory) VerifyAddress(ctx context.Context, role models.Role, id, addressID primitive.ObjectID, pickup models.PickupDetails) error {
	return d.update(ctx, role,
		bson.M{"_id": id, "address._id": addressID},
		bson.M{"$set": bson.M{"address.$.verified": true, "address.$.shiprocketPickupDetails": pickup}},
	)
}

func (d *Directory) update(ctx context.Context, role models.Role, filter, update bson.M) error {
	c, err := d.col(role)
	if err != nil {
		return err
	}
	res, err := c.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", role, err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("%s not found", role)
	}
	return nil
}
