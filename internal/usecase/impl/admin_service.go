package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// recentRegistrationWindow is how far back UserStats counts new accounts.
const recentRegistrationWindow = 30 * 24 * time.Hour

// adminService implements the AdminUsecase interface.
type adminService struct {
	txManager    repository.TransactionManager
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	userRepo     repository.UserRepository
	config       *config.Config
	logger       *slog.Logger
	now          func() time.Time
}

// AdminServiceParams holds dependencies for AdminService, injected by Fx.
type AdminServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	CategoryRepo repository.CategoryRepository
	ProductRepo  repository.ProductRepository
	UserRepo     repository.UserRepository
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAdminService is the constructor for adminService.
func NewAdminService(params AdminServiceParams) usecase.AdminUsecase {
	return &adminService{
		txManager:    params.TxManager,
		categoryRepo: params.CategoryRepo,
		productRepo:  params.ProductRepo,
		userRepo:     params.UserRepo,
		config:       params.Config,
		logger:       params.Logger,
		now:          time.Now,
	}
}

func (srv *adminService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// --- Categories ---

func (srv *adminService) ListCategories(ctx context.Context, filter entity.CategoryFilter) (*entity.PageResult[*entity.Category], error) {
	filter.Search = strings.TrimSpace(filter.Search)
	filter.IncludeInactive = true
	filter.Page = normalizePage(srv.config, filter.Page)

	categories, total, err := srv.categoryRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	return entity.NewPageResult(categories, total, filter.Page), nil
}

func (srv *adminService) CreateCategory(ctx context.Context, input *usecase.CreateCategoryInput) (*entity.Category, error) {
	if input == nil || strings.TrimSpace(input.Name) == "" {
		return nil, domainerrors.NewValidationError("category name is required")
	}

	category := &entity.Category{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		IsActive:    true,
	}
	if err := srv.categoryRepo.Create(ctx, category); err != nil {
		return nil, mapCategoryError(err, "failed to create category")
	}
	srv.log(ctx).Info("Category created", slog.Any("categoryID", category.ID), slog.String("name", category.Name))

	return category, nil
}

func (srv *adminService) UpdateCategory(ctx context.Context, categoryID uuid.UUID, input *usecase.UpdateCategoryInput) (*entity.Category, error) {
	if input == nil {
		return nil, domainerrors.NewValidationError("category payload is required")
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, domainerrors.NewValidationError("category name cannot be empty")
	}

	var category *entity.Category
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		categoryRepo := repoFactory.NewCategoryRepository()

		found, err := categoryRepo.FindByID(ctx, categoryID)
		if err != nil {
			return mapCategoryError(err, "failed to find category")
		}
		if input.Name != nil {
			found.Name = strings.TrimSpace(*input.Name)
		}
		if input.Description != nil {
			found.Description = strings.TrimSpace(*input.Description)
		}
		if input.IsActive != nil {
			found.IsActive = *input.IsActive
		}

		if err := categoryRepo.Update(ctx, found); err != nil {
			return mapCategoryError(err, "failed to update category")
		}
		category = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute category update transaction")
	}

	return category, nil
}

// DeleteCategory removes a category that no product references.
func (srv *adminService) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	if err := srv.categoryRepo.Delete(ctx, categoryID); err != nil {
		return mapCategoryError(err, "failed to delete category")
	}
	srv.log(ctx).Info("Category deleted", slog.Any("categoryID", categoryID))

	return nil
}

func mapCategoryError(err error, message string) error {
	switch {
	case errors.Is(err, repository.ErrCategoryNotFound):
		return errors.Wrap(domainerrors.ErrCategoryNotFound, message)
	case errors.Is(err, repository.ErrDuplicateCategory):
		return errors.Wrap(domainerrors.ErrCategoryAlreadyExists, message)
	case errors.Is(err, repository.ErrCategoryInUse):
		return errors.Wrap(domainerrors.ErrCategoryInUse, message)
	default:
		return errors.Wrap(err, message)
	}
}

// --- Products ---

// ListProducts lists the whole catalog, inactive products included.
func (srv *adminService) ListProducts(ctx context.Context, filter entity.ProductFilter) (*entity.PageResult[*entity.Product], error) {
	filter, err := validateProductFilter(srv.config, filter)
	if err != nil {
		return nil, err
	}
	filter.IncludeInactive = true

	products, total, err := srv.productRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return entity.NewPageResult(products, total, filter.Page), nil
}

func (srv *adminService) CreateProduct(ctx context.Context, input *usecase.CreateProductInput) (*entity.Product, error) {
	if input == nil || strings.TrimSpace(input.Name) == "" {
		return nil, domainerrors.NewValidationError("product name is required")
	}
	if input.Price.IsNegative() {
		return nil, domainerrors.NewValidationError("price must not be negative")
	}
	if input.Stock < 0 {
		return nil, domainerrors.NewValidationError("stock must not be negative")
	}
	if input.CategoryID == uuid.Nil {
		return nil, domainerrors.NewValidationError("category_id is required")
	}

	product := &entity.Product{
		Name:           strings.TrimSpace(input.Name),
		Description:    strings.TrimSpace(input.Description),
		Price:          input.Price,
		Stock:          input.Stock,
		CategoryID:     input.CategoryID,
		Brand:          strings.TrimSpace(input.Brand),
		Images:         input.Images,
		Specifications: input.Specifications,
		IsActive:       true,
	}
	if err := srv.productRepo.Create(ctx, product); err != nil {
		return nil, mapProductError(err, "failed to create product")
	}
	srv.log(ctx).Info("Product created", slog.Any("productID", product.ID), slog.Int("stock", product.Stock))

	return srv.reloadProduct(ctx, product), nil
}

// UpdateProduct applies a partial update. The product row is locked so a stock
// edit cannot interleave with a placement.
func (srv *adminService) UpdateProduct(ctx context.Context, productID uuid.UUID, input *usecase.UpdateProductInput) (*entity.Product, error) {
	if input == nil {
		return nil, domainerrors.NewValidationError("product payload is required")
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, domainerrors.NewValidationError("product name cannot be empty")
	}
	if input.Price != nil && input.Price.IsNegative() {
		return nil, domainerrors.NewValidationError("price must not be negative")
	}
	if input.Stock != nil && *input.Stock < 0 {
		return nil, domainerrors.NewValidationError("stock must not be negative")
	}

	var product *entity.Product
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.NewProductRepository()

		locked, err := productRepo.LockByIDs(ctx, []uuid.UUID{productID})
		if err != nil {
			return errors.Wrap(err, "failed to lock product")
		}
		found, ok := locked[productID]
		if !ok {
			return errors.Wrap(domainerrors.ErrProductNotFound, "product not found")
		}

		applyProductUpdate(found, input)
		if err := productRepo.Update(ctx, found); err != nil {
			return mapProductError(err, "failed to update product")
		}
		product = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute product update transaction")
	}

	return srv.reloadProduct(ctx, product), nil
}

func applyProductUpdate(p *entity.Product, input *usecase.UpdateProductInput) {
	if input.Name != nil {
		p.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		p.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		p.Price = *input.Price
	}
	if input.Stock != nil {
		p.Stock = *input.Stock
	}
	if input.CategoryID != nil {
		p.CategoryID = *input.CategoryID
	}
	if input.Brand != nil {
		p.Brand = strings.TrimSpace(*input.Brand)
	}
	if input.Images != nil {
		p.Images = input.Images
	}
	if input.Specifications != nil {
		p.Specifications = input.Specifications
	}
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}
}

// DeleteProduct deactivates the product. Order items keep referencing it.
func (srv *adminService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if err := srv.productRepo.Deactivate(ctx, productID); err != nil {
		return mapProductError(err, "failed to deactivate product")
	}
	srv.log(ctx).Info("Product deactivated", slog.Any("productID", productID))

	return nil
}

func (srv *adminService) reloadProduct(ctx context.Context, product *entity.Product) *entity.Product {
	fresh, err := srv.productRepo.FindByID(ctx, product.ID)
	if err != nil {
		return product
	}

	return fresh
}

func mapProductError(err error, message string) error {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		return errors.Wrap(domainerrors.ErrProductNotFound, message)
	case errors.Is(err, repository.ErrCategoryNotFound):
		return errors.Wrap(domainerrors.ErrCategoryNotFound, message)
	default:
		return errors.Wrap(err, message)
	}
}

// --- Users ---

func (srv *adminService) ListUsers(ctx context.Context, filter entity.UserFilter) (*entity.PageResult[*entity.User], error) {
	if filter.Role != "" && !filter.Role.IsValid() {
		return nil, domainerrors.NewValidationError("unknown role")
	}
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Page = normalizePage(srv.config, filter.Page)

	users, total, err := srv.userRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	return entity.NewPageResult(users, total, filter.Page), nil
}

func (srv *adminService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "user not found")
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return user, nil
}

// UpdateUser edits an account. Admins cannot demote or deactivate themselves.
func (srv *adminService) UpdateUser(ctx context.Context, caller entity.Caller, userID uuid.UUID, input *usecase.UpdateUserInput) (*entity.User, error) {
	if input == nil {
		return nil, domainerrors.NewValidationError("user payload is required")
	}
	if input.Role != nil && !input.Role.IsValid() {
		return nil, domainerrors.NewValidationError("unknown role")
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, domainerrors.NewValidationError("name cannot be empty")
	}
	if caller.UserID == userID {
		if input.Role != nil && *input.Role != entity.RoleAdmin {
			return nil, errors.Wrap(domainerrors.ErrForbidden, "admins cannot change their own role")
		}
		if input.IsActive != nil && !*input.IsActive {
			return nil, errors.Wrap(domainerrors.ErrForbidden, "admins cannot deactivate themselves")
		}
	}

	var user *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		found, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserNotFound, "user not found")
			}

			return errors.Wrap(err, "failed to find user")
		}
		if input.Name != nil {
			found.Name = strings.TrimSpace(*input.Name)
		}
		if input.Phone != nil {
			found.Phone = strings.TrimSpace(*input.Phone)
		}
		if input.Address != nil {
			found.Address = strings.TrimSpace(*input.Address)
		}
		if input.Role != nil {
			found.Role = *input.Role
		}
		if input.IsActive != nil {
			found.IsActive = *input.IsActive
		}

		if err := userRepo.Update(ctx, found); err != nil {
			return errors.Wrap(domainerrors.ErrUserUpdateFailed, err.Error())
		}
		user = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute user update transaction")
	}
	srv.log(ctx).Info("User updated by admin", slog.Any("userID", userID), slog.Any("by", caller.UserID))

	return user, nil
}

// DeactivateUser soft-deletes an account and revokes its sessions.
func (srv *adminService) DeactivateUser(ctx context.Context, caller entity.Caller, userID uuid.UUID) error {
	if caller.UserID == userID {
		return errors.Wrap(domainerrors.ErrForbidden, "admins cannot deactivate themselves")
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		found, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserNotFound, "user not found")
			}

			return errors.Wrap(err, "failed to find user")
		}
		found.IsActive = false
		if err := userRepo.Update(ctx, found); err != nil {
			return errors.Wrap(domainerrors.ErrUserUpdateFailed, err.Error())
		}

		if err := repoFactory.NewRefreshTokenRepository().DeleteRefreshTokensByUserID(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to revoke sessions")
		}

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to execute user deactivation transaction")
	}
	srv.log(ctx).Info("User deactivated", slog.Any("userID", userID), slog.Any("by", caller.UserID))

	return nil
}

func (srv *adminService) UserStats(ctx context.Context) (*entity.UserStats, error) {
	stats, err := srv.userRepo.Stats(ctx, srv.now().Add(-recentRegistrationWindow))
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute user stats")
	}

	return stats, nil
}
