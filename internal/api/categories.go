package api

import (
	"context"

	"wallet-ledger-go/internal/apperrors"
	"wallet-ledger-go/internal/models"

	"go.uber.org/zap"
)

func (s *LedgerService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (models.CategoryView, error) {
	const op = "LedgerService.CreateCategory"

	if err := validateRequest(op, req); err != nil {
		return models.CategoryView{}, err
	}

	repos := s.store.Repositories()
	if _, err := repos.Users.FindById(ctx, req.UserId); err != nil {
		return models.CategoryView{}, fail(op, missing(err, func(err error) *apperrors.Error {
			return apperrors.NewInternal(op, MsgUserNotFound, err)
		}), zap.String("user_id", req.UserId))
	}

	category := models.NewCategory(req.UserId, req.Name, req.ColorCode, s.now())
	if err := repos.Categories.Save(ctx, category); err != nil {
		return models.CategoryView{}, fail(op, err, zap.String("user_id", req.UserId))
	}

	return models.NewCategoryView(*category), nil
}

func (s *LedgerService) UpdateCategory(ctx context.Context, req UpdateCategoryRequest) (models.CategoryView, error) {
	const op = "LedgerService.UpdateCategory"

	if err := validateRequest(op, req); err != nil {
		return models.CategoryView{}, err
	}

	repos := s.store.Repositories()
	if _, err := repos.Users.FindById(ctx, req.UserId); err != nil {
		return models.CategoryView{}, fail(op, missing(err, func(err error) *apperrors.Error {
			return apperrors.NewInternal(op, MsgUserNotFound, err)
		}), zap.String("user_id", req.UserId))
	}

	category, err := repos.Categories.FindById(ctx, req.CategoryId)
	if err != nil {
		return models.CategoryView{}, fail(op, missing(err, func(err error) *apperrors.Error {
			return apperrors.Wrap(apperrors.NotFound, op, MsgCategoryNotFound, err)
		}), zap.String("category_id", req.CategoryId))
	}
	if category.UserId != req.UserId {
		return models.CategoryView{}, apperrors.NewUnauthorized(op, MsgCategoryPermission)
	}

	category.Rename(req.Name, s.now())
	if err := repos.Categories.Save(ctx, category); err != nil {
		return models.CategoryView{}, fail(op, err, zap.String("category_id", req.CategoryId))
	}

	return models.NewCategoryView(*category), nil
}

func (s *LedgerService) ListCategories(ctx context.Context, userId string) ([]models.CategoryView, error) {
	const op = "LedgerService.ListCategories"

	categories, err := s.store.Repositories().Categories.FindManyByUserId(ctx, userId)
	if err != nil {
		return nil, fail(op, err, zap.String("user_id", userId))
	}

	views := make([]models.CategoryView, len(categories))
	for i, category := range categories {
		views[i] = models.NewCategoryView(*category)
	}
	return views, nil
}
