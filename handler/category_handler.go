package handler

import (
	"context"
	"errors"
	"go-finance-api/common"
	"go-finance-api/model"
	"go-finance-api/service"
	"net/http"
	"strconv"
)

// ICategoryService is implemented by service.CategoryService.
type ICategoryService interface {
	List(ctx context.Context, accountID int64, txType *model.TransactionType) ([]*model.Category, error)
	Get(ctx context.Context, accountID, id int64) (*model.Category, error)
	Create(ctx context.Context, accountID int64, req model.CreateCategoryRequest) (*model.Category, error)
	Update(ctx context.Context, accountID, id int64, req model.UpdateCategoryRequest) (*model.Category, error)
	Delete(ctx context.Context, accountID, id int64) error
}

type CategoryHandler struct {
	service ICategoryService
}

func NewCategoryHandler(s ICategoryService) *CategoryHandler {
	return &CategoryHandler{service: s}
}

// List godoc
// @Summary      List active categories
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        type query string false "income or expense"
// @Success      200  {array}   model.Category
// @Failure      400  {object}  common.AppError
// @Router       /api/categories [get]
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) *common.AppError {
	accountID, appErr := requireAccountID(r)
	if appErr != nil {
		return appErr
	}
	txType, appErr := typeParam(r)
	if appErr != nil {
		return appErr
	}

	categories, err := h.service.List(r.Context(), accountID, txType)
	if err != nil {
		return common.Internal(err)
	}
	common.WriteJSON(w, http.StatusOK, categories)
	return nil
}

// Get godoc
// @Summary      Get a category
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Category ID"
// @Success      200  {object}  model.Category
// @Failure      404  {object}  common.AppError
// @Router       /api/categories/{id} [get]
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) *common.AppError {
	accountID, id, appErr := ownedResource(r)
	if appErr != nil {
		return appErr
	}

	c, err := h.service.Get(r.Context(), accountID, id)
	if err != nil {
		return categoryError(err)
	}
	common.WriteJSON(w, http.StatusOK, c)
	return nil
}

// Create godoc
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        category body model.CreateCategoryRequest true "Category"
// @Success      201  {object}  model.Category
// @Failure      400  {object}  common.AppError
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) *common.AppError {
	accountID, appErr := requireAccountID(r)
	if appErr != nil {
		return appErr
	}
	var req model.CreateCategoryRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	c, err := h.service.Create(r.Context(), accountID, req)
	if err != nil {
		return common.Internal(err)
	}
	common.WriteJSON(w, http.StatusCreated, c)
	return nil
}

// Update godoc
// @Summary      Update a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Category ID"
// @Param        category body model.UpdateCategoryRequest true "Category"
// @Success      200  {object}  model.Category
// @Failure      400  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /api/categories/{id} [put]
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) *common.AppError {
	accountID, id, appErr := ownedResource(r)
	if appErr != nil {
		return appErr
	}
	var req model.UpdateCategoryRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	c, err := h.service.Update(r.Context(), accountID, id, req)
	if err != nil {
		return categoryError(err)
	}
	common.WriteJSON(w, http.StatusOK, c)
	return nil
}

// Delete godoc
// @Summary      Delete a category
// @Description  Fails while transactions still reference the category.
// @Tags         categories
// @Security     BearerAuth
// @Param        id path int true "Category ID"
// @Success      204
// @Failure      400  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) *common.AppError {
	accountID, id, appErr := ownedResource(r)
	if appErr != nil {
		return appErr
	}

	if err := h.service.Delete(r.Context(), accountID, id); err != nil {
		return categoryError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func categoryError(err error) *common.AppError {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		return common.NewAppError(http.StatusNotFound, "category not found", nil)
	case errors.Is(err, service.ErrCategoryInUse):
		return common.NewAppError(http.StatusBadRequest, "category has transactions", nil)
	default:
		return common.Internal(err)
	}
}

// ownedResource returns the caller and the {id} path value.
func ownedResource(r *http.Request) (int64, int64, *common.AppError) {
	accountID, appErr := requireAccountID(r)
	if appErr != nil {
		return 0, 0, appErr
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, 0, common.NewAppError(http.StatusBadRequest, "invalid id", nil)
	}
	return accountID, id, nil
}

func typeParam(r *http.Request) (*model.TransactionType, *common.AppError) {
	raw := r.URL.Query().Get("type")
	if raw == "" {
		return nil, nil
	}
	t, err := model.ParseTransactionType(raw)
	if err != nil {
		return nil, common.NewAppError(http.StatusBadRequest, "type must be income or expense", nil)
	}
	return &t, nil
}
