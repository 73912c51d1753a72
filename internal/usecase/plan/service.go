package plan

import (
	"context"

	"github.com/google/uuid"

	"github.com/MedVetSolutions/vet-scheduler/internal/httperr"
	"github.com/MedVetSolutions/vet-scheduler/internal/models"
)

// At most this many plans may be active at once. Enforced at write time,
// not as a storage constraint, so two concurrent activations can still
// race past it.
const MaxActivePlans = 3

type Repository interface {
	ListPlans(ctx context.Context, onlyActive bool) ([]models.SubscriptionPlan, error)
	GetPlan(ctx context.Context, id uint) (*models.SubscriptionPlan, error)
	CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) error
	UpdatePlan(ctx context.Context, plan *models.SubscriptionPlan) error
	DeletePlan(ctx context.Context, id uint) (bool, error)
	CountActivePlans(ctx context.Context, excludeID *uint) (int64, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, onlyActive bool) ([]models.SubscriptionPlan, error) {
	return s.repo.ListPlans(ctx, onlyActive)
}

func (s *Service) Get(ctx context.Context, id uint) (*models.SubscriptionPlan, error) {
	return s.repo.GetPlan(ctx, id)
}

func (s *Service) Create(ctx context.Context, p *models.SubscriptionPlan) error {
	if err := s.validate(ctx, p, nil); err != nil {
		return err
	}

	p.UUID = uuid.New()
	return s.repo.CreatePlan(ctx, p)
}

func (s *Service) Update(ctx context.Context, p *models.SubscriptionPlan) error {
	if err := s.validate(ctx, p, &p.ID); err != nil {
		return err
	}
	return s.repo.UpdatePlan(ctx, p)
}

// SetActive toggles a plan, re-checking the active cap excluding the plan
// itself so deactivate-then-reactivate sequences behave.
func (s *Service) SetActive(ctx context.Context, id uint, active bool) (*models.SubscriptionPlan, error) {
	p, err := s.repo.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}

	if active {
		count, err := s.repo.CountActivePlans(ctx, &id)
		if err != nil {
			return nil, err
		}
		if count >= MaxActivePlans {
			return nil, httperr.ErrBusiness("active_plan_limit")
		}
	}

	p.IsActive = active
	if err := s.repo.UpdatePlan(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id uint) (bool, error) {
	return s.repo.DeletePlan(ctx, id)
}

func (s *Service) validate(ctx context.Context, p *models.SubscriptionPlan, excludeID *uint) error {
	if p.Name == "" {
		return httperr.ErrBusiness("missing_name")
	}
	if p.Price < 0 {
		return httperr.ErrBusiness("invalid_price")
	}
	if p.YearlyPrice != nil && *p.YearlyPrice <= p.Price {
		return httperr.ErrBusiness("yearly_price_too_low")
	}

	for _, limit := range []*int{p.UserLimit, p.PetLimit, p.AppointmentLimit} {
		if limit != nil && *limit < 0 {
			return httperr.ErrBusiness("invalid_limit")
		}
	}

	if p.IsActive {
		count, err := s.repo.CountActivePlans(ctx, excludeID)
		if err != nil {
			return err
		}
		if count >= MaxActivePlans {
			return httperr.ErrBusiness("active_plan_limit")
		}
	}
	return nil
}
