package court

import (
	"context"
	"strings"
)

type CreateRequest struct {
	Name        string
	Type        string
	Description string
	BasePrice   float64
	Amenities   []string
	ImageID     *string
}

type UpdateRequest struct {
	Name        *string
	Type        *string
	Description *string
	BasePrice   *float64
	Amenities   []string
	ImageID     *string
	IsActive    *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Court, error)
	GetByID(ctx context.Context, id string) (*Court, error)
	List(ctx context.Context, filter Filter) ([]*Court, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Court, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Court, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if !Type(req.Type).Valid() {
		return nil, ErrInvalidType
	}
	if req.BasePrice < 0 {
		return nil, ErrNegativePrice
	}

	c := &Court{
		Name:        strings.TrimSpace(req.Name),
		Type:        Type(req.Type),
		Description: req.Description,
		BasePrice:   req.BasePrice,
		Amenities:   req.Amenities,
		ImageID:     req.ImageID,
		IsActive:    true,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Court, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Court, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Court, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		if !Type(*req.Type).Valid() {
			return nil, ErrInvalidType
		}
		c.Type = Type(*req.Type)
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.BasePrice != nil {
		if *req.BasePrice < 0 {
			return nil, ErrNegativePrice
		}
		c.BasePrice = *req.BasePrice
	}
	if req.Amenities != nil {
		c.Amenities = req.Amenities
	}
	if req.ImageID != nil {
		c.ImageID = req.ImageID
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
