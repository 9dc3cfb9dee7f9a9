package cart

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"phoenixmart/internal/domain"
	cartrepo "phoenixmart/internal/repository/cart"
)

type Service struct {
	repo    cartRepo
	catalog catalogRepo
	logger  *zap.Logger
}

type cartRepo interface {
	Create(ctx context.Context, identity domain.Identity) (*domain.Cart, error)
	GetByIdentity(ctx context.Context, identity domain.Identity) (*domain.Cart, error)
	AddLine(ctx context.Context, cartID, variantID string, quantity int) error
	SetLineQuantity(ctx context.Context, cartID, lineID string, quantity int) error
	RemoveLine(ctx context.Context, cartID, lineID string) error
	Merge(ctx context.Context, sourceCartID, targetCartID string) error
}

type catalogRepo interface {
	GetVariant(ctx context.Context, id string) (*domain.Variant, error)
}

func New(repo cartrepo.Repository, catalog catalogRepo, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, catalog: catalog, logger: logger}
}

// Resolve returns the identity's cart, creating one when none exists yet.
// At most one cart ever exists per identity.
func (s *Service) Resolve(ctx context.Context, identity domain.Identity) (*domain.Cart, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	cart, err := s.repo.GetByIdentity(ctx, identity)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return s.repo.Create(ctx, identity)
}

// AddLine puts quantity units of the variant in the identity's cart. When the
// cart already holds a line for that variant the quantities accumulate.
func (s *Service) AddLine(ctx context.Context, identity domain.Identity, variantID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, &domain.ValidationError{Field: "quantity", Reason: "must be a positive integer"}
	}
	if variantID == "" {
		return nil, &domain.ValidationError{Field: "variant_id", Reason: "required"}
	}
	if _, err := s.catalog.GetVariant(ctx, variantID); err != nil {
		return nil, err
	}
	cart, err := s.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddLine(ctx, cart.ID, variantID, quantity); err != nil {
		return nil, err
	}
	return s.repo.GetByIdentity(ctx, identity)
}

// SetLineQuantity overwrites a line's quantity. A quantity at or below zero
// deletes the line; that is policy, not an error.
func (s *Service) SetLineQuantity(ctx context.Context, identity domain.Identity, lineID string, quantity int) (*domain.Cart, error) {
	cart, err := s.repo.GetByIdentity(ctx, identity)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetLineQuantity(ctx, cart.ID, lineID, quantity); err != nil {
		return nil, err
	}
	return s.repo.GetByIdentity(ctx, identity)
}

// RemoveLine deletes a line. A missing line reports ErrNotFound, which the
// caller maps to an "item not found" response rather than a failure.
func (s *Service) RemoveLine(ctx context.Context, identity domain.Identity, lineID string) (*domain.Cart, error) {
	cart, err := s.repo.GetByIdentity(ctx, identity)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RemoveLine(ctx, cart.ID, lineID); err != nil {
		return nil, err
	}
	return s.repo.GetByIdentity(ctx, identity)
}

// Merge folds the guest cart behind sessionToken into userID's cart. The auth
// collaborator calls this once right after login. When the guest cart is
// already gone (a previous login merged it) this is a no-op, so duplicate
// concurrent logins are benign.
func (s *Service) Merge(ctx context.Context, sessionToken, userID string) error {
	if sessionToken == "" || userID == "" {
		return &domain.ValidationError{Field: "identity", Reason: "merge requires a session token and a user id"}
	}
	source, err := s.repo.GetByIdentity(ctx, domain.Identity{SessionToken: &sessionToken})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	target, err := s.Resolve(ctx, domain.Identity{UserID: &userID})
	if err != nil {
		return err
	}
	if err := s.repo.Merge(ctx, source.ID, target.ID); err != nil {
		return err
	}
	s.logger.Info("guest cart merged", zap.String("user_id", userID))
	return nil
}
