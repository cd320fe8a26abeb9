package service

import (
	"context"
	"errors"
	"go-finance-api/model"
	"go-finance-api/repository"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInUse    = errors.New("category has transactions")
)

// CategoryService manages the categories of the calling account.
type CategoryService struct {
	repo repository.ICategoryRepository
}

func NewCategoryService(repo repository.ICategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) List(ctx context.Context, accountID int64, txType *model.TransactionType) ([]*model.Category, error) {
	return s.repo.List(ctx, accountID, txType)
}

func (s *CategoryService) Get(ctx context.Context, accountID, id int64) (*model.Category, error) {
	c, err := s.repo.GetByID(ctx, accountID, id)
	if errors.Is(err, repository.ErrCategoryNotFound) {
		return nil, ErrCategoryNotFound
	}
	return c, err
}

// Create fills in the default color and icon when they are omitted.
func (s *CategoryService) Create(ctx context.Context, accountID int64, req model.CreateCategoryRequest) (*model.Category, error) {
	c := &model.Category{
		AccountID: accountID,
		Name:      req.Name,
		Type:      req.Type,
		Color:     req.Color,
		Icon:      req.Icon,
		Active:    true,
	}
	if c.Color == "" {
		c.Color = model.DefaultCategoryColor
	}
	if c.Icon == "" {
		c.Icon = model.DefaultCategoryIcon
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces name, color and icon. The type of a category never changes.
func (s *CategoryService) Update(ctx context.Context, accountID, id int64, req model.UpdateCategoryRequest) (*model.Category, error) {
	c, err := s.Get(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	c.Name = req.Name
	if req.Color != "" {
		c.Color = req.Color
	}
	if req.Icon != "" {
		c.Icon = req.Icon
	}
	if req.Active != nil {
		c.Active = *req.Active
	}

	if err := s.repo.Update(ctx, c); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return c, nil
}

// Delete refuses to remove a category that transactions still point at.
func (s *CategoryService) Delete(ctx context.Context, accountID, id int64) error {
	if _, err := s.Get(ctx, accountID, id); err != nil {
		return err
	}
	inUse, err := s.repo.HasTransactions(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return ErrCategoryInUse
	}
	err = s.repo.Delete(ctx, accountID, id)
	if errors.Is(err, repository.ErrCategoryNotFound) {
		return ErrCategoryNotFound
	}
	return err
}
