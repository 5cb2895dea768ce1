package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shashiranjanraj/inkwell/app/models"
	"github.com/shashiranjanraj/inkwell/app/repositories"
	"github.com/shashiranjanraj/inkwell/pkg/apperror"
	"github.com/shashiranjanraj/inkwell/pkg/auth"
	"github.com/shashiranjanraj/inkwell/pkg/validate"
)

// MaxAddresses is how many addresses one account may hold.
const MaxAddresses = 2

// AddressInput is the body of POST /api/address. Every field is required.
type AddressInput struct {
	Name    string `json:"name" validate:"required,max=255"`
	Phone   string `json:"phone" validate:"required,phone"`
	Street  string `json:"street" validate:"required,max=255"`
	City    string `json:"city" validate:"required,max=100"`
	State   string `json:"state" validate:"required,max=100"`
	Pincode string `json:"pincode" validate:"required,pincode"`
}

// AddressPatch is the body of PUT /api/address/{id}. Absent fields keep
// their stored value.
type AddressPatch struct {
	Name    *string `json:"name" validate:"omitempty,max=255"`
	Phone   *string `json:"phone" validate:"omitempty,phone"`
	Street  *string `json:"street" validate:"omitempty,max=255"`
	City    *string `json:"city" validate:"omitempty,max=100"`
	State   *string `json:"state" validate:"omitempty,max=100"`
	Pincode *string `json:"pincode" validate:"omitempty,pincode"`
}

// apply merges the present fields over a and reports blank ones.
func (p AddressPatch) apply(a *models.Address) map[string]string {
	errs := map[string]string{}
	set := func(field string, v *string, dst *string) {
		if v == nil {
			return
		}
		s := strings.TrimSpace(*v)
		if s == "" {
			errs[field] = "The " + field + " field is required."
			return
		}
		*dst = s
	}
	set("name", p.Name, &a.Name)
	set("phone", p.Phone, &a.Phone)
	set("street", p.Street, &a.Street)
	set("city", p.City, &a.City)
	set("state", p.State, &a.State)
	set("pincode", p.Pincode, &a.Pincode)
	return errs
}

type AddressService struct {
	accounts  repositories.AccountRepository
	addresses repositories.AddressRepository
}

func NewAddressService(accounts repositories.AccountRepository, addresses repositories.AddressRepository) *AddressService {
	return &AddressService{accounts: accounts, addresses: addresses}
}

// Authorize rejects administrators, who own no addresses. Controllers call
// it before reading the body.
func (s *AddressService) Authorize(id auth.Identity, action string) error {
	if !id.IsAdmin() {
		return nil
	}
	switch action {
	case "add":
		return apperror.Forbidden("Admin cannot add address")
	case "edit":
		return apperror.Forbidden("Admin cannot edit address")
	case "delete":
		return apperror.Forbidden("Admin cannot delete address")
	default:
		return apperror.Forbidden("Admin cannot have addresses")
	}
}

// Add stores a new address for the caller, copying the account email.
func (s *AddressService) Add(ctx context.Context, id auth.Identity, in AddressInput) (*models.Address, error) {
	if err := s.Authorize(id, "add"); err != nil {
		return nil, err
	}
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return nil, apperror.Invalid(errs)
	}

	n, err := s.addresses.CountByAccount(ctx, id.AccountID)
	if err != nil {
		return nil, err
	}
	if n >= MaxAddresses {
		return nil, apperror.BadRequest("Maximum 2 addresses allowed")
	}

	account, err := s.accounts.FindByID(ctx, id.AccountID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}

	address := &models.Address{
		AccountID: id.AccountID,
		Email:     account.Email,
		Name:      strings.TrimSpace(in.Name),
		Phone:     strings.TrimSpace(in.Phone),
		Street:    strings.TrimSpace(in.Street),
		City:      strings.TrimSpace(in.City),
		State:     strings.TrimSpace(in.State),
		Pincode:   strings.TrimSpace(in.Pincode),
	}
	if err := s.addresses.Create(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

// Update merges patch over the caller's address.
func (s *AddressService) Update(ctx context.Context, id auth.Identity, addressID string, patch AddressPatch) (*models.Address, error) {
	if err := s.Authorize(id, "edit"); err != nil {
		return nil, err
	}
	if errs := validate.Struct(patch); validate.HasErrors(errs) {
		return nil, apperror.Invalid(errs)
	}

	address, err := s.addresses.FindOwned(ctx, addressID, id.AccountID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.NotFound("Address not found")
	}
	if err != nil {
		return nil, err
	}

	if errs := patch.apply(address); validate.HasErrors(errs) {
		return nil, apperror.Invalid(errs)
	}

	err = s.addresses.Update(ctx, address)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.NotFound("Address not found")
	}
	if err != nil {
		return nil, err
	}
	return address, nil
}

// List returns the caller's addresses, oldest first.
func (s *AddressService) List(ctx context.Context, id auth.Identity) ([]models.Address, error) {
	if err := s.Authorize(id, "list"); err != nil {
		return nil, err
	}
	return s.addresses.ListByAccount(ctx, id.AccountID)
}

// Delete removes one of the caller's addresses.
func (s *AddressService) Delete(ctx context.Context, id auth.Identity, addressID string) error {
	if err := s.Authorize(id, "delete"); err != nil {
		return err
	}
	err := s.addresses.DeleteOwned(ctx, addressID, id.AccountID)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperror.NotFound("Address not found")
	}
	return err
}
