package coach

import (
	"context"
	"strings"
)

type CreateRequest struct {
	Name           string
	Email          string
	Phone          string
	Specialization string
	ExperienceYrs  int
	HourlyRate     float64
	Bio            string
	ImageID        *string
	Availability   *WeekAvailability
}

type UpdateRequest struct {
	Name           *string
	Email          *string
	Phone          *string
	Specialization *string
	ExperienceYrs  *int
	HourlyRate     *float64
	Bio            *string
	ImageID        *string
	IsActive       *bool
	Availability   *WeekAvailability
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Coach, error)
	GetByID(ctx context.Context, id string) (*Coach, error)
	List(ctx context.Context, filter Filter) ([]*Coach, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Coach, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Coach, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, ErrEmptyEmail
	}
	if req.HourlyRate < 0 {
		return nil, ErrNegativeRate
	}

	availability := DefaultAvailability()
	if req.Availability != nil {
		if err := req.Availability.Validate(); err != nil {
			return nil, err
		}
		availability = *req.Availability
	}

	co := &Coach{
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:          req.Phone,
		Specialization: req.Specialization,
		ExperienceYrs:  req.ExperienceYrs,
		HourlyRate:     req.HourlyRate,
		Bio:            req.Bio,
		ImageID:        req.ImageID,
		IsActive:       true,
		Availability:   availability,
	}

	if err := s.repo.Create(ctx, co); err != nil {
		return nil, err
	}
	return co, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Coach, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Coach, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Coach, error) {
	co, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		co.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		if strings.TrimSpace(*req.Email) == "" {
			return nil, ErrEmptyEmail
		}
		co.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		co.Phone = *req.Phone
	}
	if req.Specialization != nil {
		co.Specialization = *req.Specialization
	}
	if req.ExperienceYrs != nil {
		co.ExperienceYrs = *req.ExperienceYrs
	}
	if req.HourlyRate != nil {
		if *req.HourlyRate < 0 {
			return nil, ErrNegativeRate
		}
		co.HourlyRate = *req.HourlyRate
	}
	if req.Bio != nil {
		co.Bio = *req.Bio
	}
	if req.ImageID != nil {
		co.ImageID = req.ImageID
	}
	if req.IsActive != nil {
		co.IsActive = *req.IsActive
	}
	if req.Availability != nil {
		if err := req.Availability.Validate(); err != nil {
			return nil, err
		}
		co.Availability = *req.Availability
	}

	if err := s.repo.Update(ctx, co); err != nil {
		return nil, err
	}
	return co, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
