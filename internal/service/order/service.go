package order

import (
	"context"

	"go.uber.org/zap"

	"phoenixmart/internal/domain"
)

type Service struct {
	repo   lifecycleRepo
	logger *zap.Logger
}

type lifecycleRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	SetStatus(ctx context.Context, id string, status domain.OrderStatus) error
	Cancel(ctx context.Context, id string) error
}

func New(repo lifecycleRepo, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// TransitionStatus moves an order to newStatus. Transitions to cancelled
// restore every line's stock atomically with the status write; every other
// transition is a plain write with no side effects.
func (s *Service) TransitionStatus(ctx context.Context, orderID string, newStatus domain.OrderStatus) error {
	if !domain.ValidStatus(newStatus) {
		return &domain.ValidationError{Field: "status", Reason: "unknown status " + string(newStatus)}
	}
	if newStatus == domain.StatusCancelled {
		if err := s.repo.Cancel(ctx, orderID); err != nil {
			return err
		}
		s.logger.Info("order cancelled", zap.String("order_id", orderID))
		return nil
	}
	return s.repo.SetStatus(ctx, orderID, newStatus)
}
