package handler

import (
	"context"
	"net/http"

	"shohorbari/internal/microservices/http-api/dto"
	"shohorbari/internal/microservices/http-api/middleware"
	"shohorbari/internal/microservices/http-api/models"
	"shohorbari/internal/microservices/http-api/policy"
	"shohorbari/internal/microservices/http-api/repository"
	"shohorbari/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

var (
	ownerP = policy.Principal{UserID: 1, Role: policy.RoleUser}
	userP  = policy.Principal{UserID: 2, Role: policy.RoleUser}
	adminP = policy.Principal{UserID: 99, Role: policy.RoleAdmin}
	anonP  = policy.Anonymous()
)

type stubTokens struct{}

func (stubTokens) ValidateToken(token string) (*service.Claims, error) {
	switch token {
	case "owner":
		return &service.Claims{UserID: ownerP.UserID, Role: string(ownerP.Role), Type: "access"}, nil
	case "user":
		return &service.Claims{UserID: userP.UserID, Role: string(userP.Role), Type: "access"}, nil
	case "admin":
		return &service.Claims{UserID: adminP.UserID, Role: string(adminP.Role), Type: "access"}, nil
	}
	return nil, service.ErrInvalidToken
}

type routeRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

func setupRouter(handlers ...routeRegistrar) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	api.Use(middleware.Authenticate(stubTokens{}))
	for _, h := range handlers {
		h.RegisterRoutes(api)
	}
	return r
}

func withToken(req *http.Request, token string) *http.Request {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, user *models.User, password string) (*models.User, error) {
	args := m.Called(ctx, user, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.TokenPair, *models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*service.TokenPair), args.Get(1).(*models.User), args.Error(2)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*service.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TokenPair), args.Error(1)
}

func (m *MockAuthService) Revoke(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, p policy.Principal) (*models.User, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) EnsureAdmin(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockAdvertisementService struct {
	mock.Mock
}

func (m *MockAdvertisementService) List(ctx context.Context, f repository.AdFilter) ([]models.Advertisement, int64, repository.AdFilter, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, f, args.Error(3)
	}
	return args.Get(0).([]models.Advertisement), args.Get(1).(int64), args.Get(2).(repository.AdFilter), args.Error(3)
}

func (m *MockAdvertisementService) Get(ctx context.Context, id int64) (*models.Advertisement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Advertisement), args.Error(1)
}

func (m *MockAdvertisementService) Create(ctx context.Context, p policy.Principal, ad *models.Advertisement) error {
	return m.Called(ctx, p, ad).Error(0)
}

func (m *MockAdvertisementService) Update(ctx context.Context, p policy.Principal, id int64, req *dto.UpdateAdvertisementRequest) (*models.Advertisement, error) {
	args := m.Called(ctx, p, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Advertisement), args.Error(1)
}

func (m *MockAdvertisementService) Delete(ctx context.Context, p policy.Principal, id int64) error {
	return m.Called(ctx, p, id).Error(0)
}

func (m *MockAdvertisementService) Approve(ctx context.Context, p policy.Principal, id int64) (*models.Advertisement, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Advertisement), args.Error(1)
}

func (m *MockAdvertisementService) ListPending(ctx context.Context, p policy.Principal) ([]models.Advertisement, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Advertisement), args.Error(1)
}

type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) List(ctx context.Context, adID int64) ([]models.AdvertisementImage, error) {
	args := m.Called(ctx, adID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AdvertisementImage), args.Error(1)
}

func (m *MockImageService) Get(ctx context.Context, adID, id int64) (*models.AdvertisementImage, error) {
	args := m.Called(ctx, adID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdvertisementImage), args.Error(1)
}

func (m *MockImageService) Create(ctx context.Context, p policy.Principal, adID int64, up service.Upload) (*models.AdvertisementImage, error) {
	args := m.Called(ctx, p, adID, up)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdvertisementImage), args.Error(1)
}

func (m *MockImageService) Replace(ctx context.Context, p policy.Principal, adID, id int64, up service.Upload) (*models.AdvertisementImage, error) {
	args := m.Called(ctx, p, adID, id, up)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdvertisementImage), args.Error(1)
}

func (m *MockImageService) Delete(ctx context.Context, p policy.Principal, adID, id int64) error {
	return m.Called(ctx, p, adID, id).Error(0)
}

type MockRentRequestService struct {
	mock.Mock
}

func (m *MockRentRequestService) Create(ctx context.Context, p policy.Principal, adID int64, message string) (*models.RentRequest, error) {
	args := m.Called(ctx, p, adID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RentRequest), args.Error(1)
}

func (m *MockRentRequestService) List(ctx context.Context, p policy.Principal, adID int64) ([]models.RentRequest, error) {
	args := m.Called(ctx, p, adID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RentRequest), args.Error(1)
}

func (m *MockRentRequestService) Get(ctx context.Context, p policy.Principal, adID, id int64) (*models.RentRequest, error) {
	args := m.Called(ctx, p, adID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RentRequest), args.Error(1)
}

func (m *MockRentRequestService) Accept(ctx context.Context, p policy.Principal, adID, id int64) (*models.RentRequest, error) {
	args := m.Called(ctx, p, adID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RentRequest), args.Error(1)
}

func (m *MockRentRequestService) ListMine(ctx context.Context, p policy.Principal) ([]models.RentRequest, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RentRequest), args.Error(1)
}

type MockFavoriteService struct {
	mock.Mock
}

func (m *MockFavoriteService) Create(ctx context.Context, p policy.Principal, adID int64) (*models.Favorite, error) {
	args := m.Called(ctx, p, adID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Favorite), args.Error(1)
}

func (m *MockFavoriteService) List(ctx context.Context, p policy.Principal) ([]models.Favorite, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Favorite), args.Error(1)
}

func (m *MockFavoriteService) Delete(ctx context.Context, p policy.Principal, id int64) error {
	return m.Called(ctx, p, id).Error(0)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) List(ctx context.Context, adID int64) ([]models.Review, error) {
	args := m.Called(ctx, adID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewService) Create(ctx context.Context, p policy.Principal, review *models.Review) error {
	return m.Called(ctx, p, review).Error(0)
}

func (m *MockReviewService) Delete(ctx context.Context, p policy.Principal, adID, id int64) error {
	return m.Called(ctx, p, adID, id).Error(0)
}

type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) List(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryService) Get(ctx context.Context, id int64) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryService) Create(ctx context.Context, p policy.Principal, category *models.Category) error {
	return m.Called(ctx, p, category).Error(0)
}

func (m *MockCategoryService) Update(ctx context.Context, p policy.Principal, id int64, name string) (*models.Category, error) {
	args := m.Called(ctx, p, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryService) Delete(ctx context.Context, p policy.Principal, id int64) error {
	return m.Called(ctx, p, id).Error(0)
}

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) Dashboard(ctx context.Context, p policy.Principal) (*models.DashboardStats, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardStats), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) GetUnread(ctx context.Context, p policy.Principal) ([]models.Notification, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkAsRead(ctx context.Context, p policy.Principal, id int64) error {
	return m.Called(ctx, p, id).Error(0)
}

func (m *MockNotificationService) MarkAllAsRead(ctx context.Context, p policy.Principal) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}
