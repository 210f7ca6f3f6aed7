package pharmacy

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carefull/carefull/internal/domain/catalog"
	"github.com/carefull/carefull/internal/platform/auth"
	"github.com/carefull/carefull/internal/platform/db"
)

var (
	// ErrNotFound is returned when a pharmacy does not exist.
	ErrNotFound = errors.New("pharmacy not found")
	// ErrEmailTaken is returned when registering with an email already in use.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Onboarding entries start with a small default stock and threshold until the
// pharmacist adjusts them.
const (
	defaultOnboardingQuantity  = 10
	defaultOnboardingThreshold = 5
)

// DrugCatalog is the catalog surface onboarding needs.
type DrugCatalog interface {
	GetMedicineByNameAndManufacturer(ctx context.Context, name, manufacturer string) (*catalog.Medicine, error)
}

// InventoryWriter upserts a pharmacy's inventory entry for a medicine.
type InventoryWriter interface {
	UpsertOnboarding(ctx context.Context, pharmacyID, medicineID uuid.UUID, supplierEmail string, quantity, threshold int) error
}

type Service struct {
	repo      Repository
	issuer    *auth.TokenIssuer
	drugs     DrugCatalog
	inventory InventoryWriter
}

func NewService(repo Repository, issuer *auth.TokenIssuer, drugs DrugCatalog, inventory InventoryWriter) *Service {
	return &Service{repo: repo, issuer: issuer, drugs: drugs, inventory: inventory}
}

// SetInventory wires the inventory writer after construction. The inventory
// service needs the pharmacy directory to exist first, so the two are linked
// in a second step during startup.
func (s *Service) SetInventory(inventory InventoryWriter) {
	s.inventory = inventory
}

// Register creates a pharmacy account and issues a pharmacist token.
func (s *Service) Register(ctx context.Context, name, email, password, location string) (*Pharmacy, string, error) {
	if name == "" || email == "" || password == "" || location == "" {
		return nil, "", fmt.Errorf("name, email, password and location are required")
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	p := &Pharmacy{Name: name, Email: email, PasswordHash: hash, Location: location}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(ctx, p)
	if err != nil {
		return nil, "", err
	}
	return p, token, nil
}

// Login verifies credentials and issues a pharmacist token.
func (s *Service) Login(ctx context.Context, email, password string) (*Pharmacy, string, error) {
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("email and password are required")
	}

	p, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !auth.CheckPassword(p.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, p)
	if err != nil {
		return nil, "", err
	}
	return p, token, nil
}

func (s *Service) issueToken(ctx context.Context, p *Pharmacy) (string, error) {
	return s.issuer.Issue(p.ID.String(), "pharmacist", db.TenantFromContext(ctx))
}

// Get returns a pharmacy by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Pharmacy, error) {
	return s.repo.GetByID(ctx, id)
}

// Suppliers returns the pharmacy's supplier directory.
func (s *Service) Suppliers(ctx context.Context, pharmacyID uuid.UUID) ([]*Supplier, error) {
	if _, err := s.repo.GetByID(ctx, pharmacyID); err != nil {
		return nil, err
	}
	return s.repo.ListSuppliers(ctx, pharmacyID)
}

// SaveOnboardingSelection records a supplier + drug choice made during
// pharmacy onboarding. The supplier is appended only if its email is new to
// this pharmacy; the inventory entry is upserted by medicine so repeated
// selections never create duplicate rows.
func (s *Service) SaveOnboardingSelection(ctx context.Context, pharmacyID uuid.UUID, supplierName, supplierEmail, drugName, manufacturer string) error {
	if supplierName == "" || supplierEmail == "" || drugName == "" {
		return fmt.Errorf("supplier name, supplier email and drug name are required")
	}

	if _, err := s.repo.GetByID(ctx, pharmacyID); err != nil {
		return err
	}

	med, err := s.drugs.GetMedicineByNameAndManufacturer(ctx, drugName, manufacturer)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return fmt.Errorf("drug %q by %q: %w", drugName, manufacturer, catalog.ErrNotFound)
		}
		return err
	}

	exists, err := s.repo.SupplierExists(ctx, pharmacyID, supplierEmail)
	if err != nil {
		return err
	}
	if !exists {
		if err := s.repo.AddSupplier(ctx, &Supplier{
			PharmacyID: pharmacyID,
			Name:       supplierName,
			Email:      supplierEmail,
		}); err != nil {
			return err
		}
	}

	return s.inventory.UpsertOnboarding(ctx, pharmacyID, med.ID, supplierEmail,
		defaultOnboardingQuantity, defaultOnboardingThreshold)
}
