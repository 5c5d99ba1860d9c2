package service

import (
	"context"

	"shohorbari/internal/microservices/http-api/models"
	"shohorbari/internal/microservices/http-api/policy"
	"shohorbari/internal/microservices/http-api/repository"
)

type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
	Get(ctx context.Context, id int64) (*models.Category, error)
	Create(ctx context.Context, p policy.Principal, category *models.Category) error
	Update(ctx context.Context, p policy.Principal, id int64, name string) (*models.Category, error)
	Delete(ctx context.Context, p policy.Principal, id int64) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.repo.List(ctx)
}

func (s *categoryService) Get(ctx context.Context, id int64) (*models.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "category")
	}
	return category, nil
}

func (s *categoryService) Create(ctx context.Context, p policy.Principal, category *models.Category) error {
	if err := policy.Authorize(p, policy.CreateCategory, nil); err != nil {
		return err
	}
	if category.Name == "" {
		return NewValidationError("name", "this field may not be blank")
	}
	return s.repo.Create(ctx, category)
}

func (s *categoryService) Update(ctx context.Context, p policy.Principal, id int64, name string) (*models.Category, error) {
	if err := policy.Authorize(p, policy.UpdateCategory, nil); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, NewValidationError("name", "this field may not be blank")
	}
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "category")
	}
	category.Name = name
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, p policy.Principal, id int64) error {
	if err := policy.Authorize(p, policy.DeleteCategory, nil); err != nil {
		return err
	}
	return translate(s.repo.Delete(ctx, id), "category")
}
