package equipment

import (
	"context"
	"strings"
)

type CreateRequest struct {
	Name          string
	Type          string
	Description   string
	TotalQuantity int
	PricePerHour  float64
	ImageID       *string
}

type UpdateRequest struct {
	Name          *string
	Type          *string
	Description   *string
	TotalQuantity *int
	PricePerHour  *float64
	ImageID       *string
	IsActive      *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Equipment, error)
	GetByID(ctx context.Context, id string) (*Equipment, error)
	List(ctx context.Context, filter Filter) ([]*Equipment, int, error)
	ListActive(ctx context.Context) ([]*Equipment, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Equipment, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Equipment, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if !Type(req.Type).Valid() {
		return nil, ErrInvalidType
	}
	if req.TotalQuantity < 0 {
		return nil, ErrNegativeQuantity
	}
	if req.PricePerHour < 0 {
		return nil, ErrNegativePrice
	}

	e := &Equipment{
		Name:          strings.TrimSpace(req.Name),
		Type:          Type(req.Type),
		Description:   req.Description,
		TotalQuantity: req.TotalQuantity,
		PricePerHour:  req.PricePerHour,
		ImageID:       req.ImageID,
		IsActive:      true,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Equipment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Equipment, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) ListActive(ctx context.Context) ([]*Equipment, error) {
	return s.repo.ListActive(ctx)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Equipment, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		e.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		if !Type(*req.Type).Valid() {
			return nil, ErrInvalidType
		}
		e.Type = Type(*req.Type)
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.TotalQuantity != nil {
		if *req.TotalQuantity < 0 {
			return nil, ErrNegativeQuantity
		}
		e.TotalQuantity = *req.TotalQuantity
	}
	if req.PricePerHour != nil {
		if *req.PricePerHour < 0 {
			return nil, ErrNegativePrice
		}
		e.PricePerHour = *req.PricePerHour
	}
	if req.ImageID != nil {
		e.ImageID = req.ImageID
	}
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
