package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stock-tracker.backend/internal/domain/entities"
	"stock-tracker.backend/internal/interfaces/http/middleware"
	"stock-tracker.backend/internal/interfaces/http/response"
	"stock-tracker.backend/internal/usecases"
	"stock-tracker.backend/pkg/jwt"
	"stock-tracker.backend/pkg/redis"
	"stock-tracker.backend/pkg/utils"
)

var testUserID = uuid.MustParse("0190a000-0000-7000-8000-0000000000aa")

func init() {
	gin.SetMode(gin.TestMode)
	response.UseJSONFieldNames()
}

// withUser stands in for the auth middleware.
func withUser(c *gin.Context) {
	c.Set(middleware.UserIDKey, testUserID)
	c.Next()
}

func jsonRequest(method, path string, body interface{}) *http.Request {
	var r io.Reader = http.NoBody
	if body != nil {
		switch b := body.(type) {
		case string:
			r = bytes.NewBufferString(b)
		default:
			raw, _ := json.Marshal(b)
			r = bytes.NewBuffer(raw)
		}
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type authServiceStub struct {
	sendOTPFn      func(ctx context.Context, email string) (*entities.MessageResponse, error)
	verifyOTPFn    func(ctx context.Context, email, code string) (*entities.MessageResponse, error)
	signupFn       func(ctx context.Context, input *entities.SignupInput) (*entities.User, error)
	loginFn        func(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error)
	refreshTokenFn func(ctx context.Context, refreshToken string) (*jwt.TokenPair, error)
	getUserByIDFn  func(ctx context.Context, id uuid.UUID) (*entities.User, error)
}

func (s authServiceStub) SendOTP(ctx context.Context, email string) (*entities.MessageResponse, error) {
	return s.sendOTPFn(ctx, email)
}
func (s authServiceStub) VerifyOTP(ctx context.Context, email, code string) (*entities.MessageResponse, error) {
	return s.verifyOTPFn(ctx, email, code)
}
func (s authServiceStub) Signup(ctx context.Context, input *entities.SignupInput) (*entities.User, error) {
	return s.signupFn(ctx, input)
}
func (s authServiceStub) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	return s.loginFn(ctx, input)
}
func (s authServiceStub) RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	return s.refreshTokenFn(ctx, refreshToken)
}
func (s authServiceStub) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return s.getUserByIDFn(ctx, id)
}

type resetServiceStub struct {
	requestFn func(ctx context.Context, email string) (*entities.MessageResponse, error)
	resetFn   func(ctx context.Context, input *entities.ResetPasswordInput) (*entities.MessageResponse, error)
}

func (s resetServiceStub) RequestReset(ctx context.Context, email string) (*entities.MessageResponse, error) {
	return s.requestFn(ctx, email)
}
func (s resetServiceStub) ResetPassword(ctx context.Context, input *entities.ResetPasswordInput) (*entities.MessageResponse, error) {
	return s.resetFn(ctx, input)
}

type sessionStoreStub struct {
	createFn func(ctx context.Context, sessionID string, data *redis.SessionData, expiration time.Duration) error
	deleteFn func(ctx context.Context, sessionID string) error
}

func (s sessionStoreStub) CreateSession(ctx context.Context, sessionID string, data *redis.SessionData, expiration time.Duration) error {
	return s.createFn(ctx, sessionID, data, expiration)
}
func (s sessionStoreStub) DeleteSession(ctx context.Context, sessionID string) error {
	return s.deleteFn(ctx, sessionID)
}

type productServiceStub struct {
	listFn       func(ctx context.Context, filter entities.ProductFilter, p utils.PaginationParams) ([]*entities.Product, utils.PaginationMeta, error)
	getFn        func(ctx context.Context, id uuid.UUID) (*entities.Product, error)
	createFn     func(ctx context.Context, input *entities.CreateProductInput) (*entities.Product, error)
	updateFn     func(ctx context.Context, id uuid.UUID, input *entities.UpdateProductInput) (*entities.Product, error)
	deleteFn     func(ctx context.Context, id uuid.UUID) error
	categoriesFn func(ctx context.Context) ([]*entities.Category, error)
	bulkFn       func(ctx context.Context, rows []entities.ImportRow) (*entities.ImportResult, error)
	exportFn     func(ctx context.Context, filter entities.ProductFilter) (*usecases.ExportCSV, error)
	templateFn   func() (*usecases.ExportCSV, error)
}

func (s productServiceStub) ListProducts(ctx context.Context, filter entities.ProductFilter, p utils.PaginationParams) ([]*entities.Product, utils.PaginationMeta, error) {
	return s.listFn(ctx, filter, p)
}
func (s productServiceStub) GetProduct(ctx context.Context, id uuid.UUID) (*entities.Product, error) {
	return s.getFn(ctx, id)
}
func (s productServiceStub) CreateProduct(ctx context.Context, input *entities.CreateProductInput) (*entities.Product, error) {
	return s.createFn(ctx, input)
}
func (s productServiceStub) UpdateProduct(ctx context.Context, id uuid.UUID, input *entities.UpdateProductInput) (*entities.Product, error) {
	return s.updateFn(ctx, id, input)
}
func (s productServiceStub) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}
func (s productServiceStub) ListCategories(ctx context.Context) ([]*entities.Category, error) {
	return s.categoriesFn(ctx)
}
func (s productServiceStub) BulkImport(ctx context.Context, rows []entities.ImportRow) (*entities.ImportResult, error) {
	return s.bulkFn(ctx, rows)
}
func (s productServiceStub) ExportProducts(ctx context.Context, filter entities.ProductFilter) (*usecases.ExportCSV, error) {
	return s.exportFn(ctx, filter)
}
func (s productServiceStub) ImportTemplate() (*usecases.ExportCSV, error) {
	return s.templateFn()
}

type orderServiceStub struct {
	listFn func(ctx context.Context, filter entities.OrderFilter, p utils.PaginationParams) ([]*entities.Order, utils.PaginationMeta, error)
}

func (s orderServiceStub) ListOrders(ctx context.Context, filter entities.OrderFilter, p utils.PaginationParams) ([]*entities.Order, utils.PaginationMeta, error) {
	return s.listFn(ctx, filter, p)
}

type dashboardServiceStub struct {
	dashboardFn     func(ctx context.Context, userID uuid.UUID) (*entities.Dashboard, error)
	notificationsFn func(ctx context.Context, userID uuid.UUID) ([]entities.Notification, error)
}

func (s dashboardServiceStub) GetDashboard(ctx context.Context, userID uuid.UUID) (*entities.Dashboard, error) {
	return s.dashboardFn(ctx, userID)
}
func (s dashboardServiceStub) GetNotifications(ctx context.Context, userID uuid.UUID) ([]entities.Notification, error) {
	return s.notificationsFn(ctx, userID)
}

type reportServiceStub struct {
	summaryFn func(ctx context.Context) (*entities.ReportSummary, error)
}

func (s reportServiceStub) GetSummary(ctx context.Context) (*entities.ReportSummary, error) {
	return s.summaryFn(ctx)
}

type settingsServiceStub struct {
	getFn    func(ctx context.Context, userID uuid.UUID) (*entities.Settings, error)
	updateFn func(ctx context.Context, userID uuid.UUID, input *entities.UpdateSettingsInput) (*entities.Settings, error)
}

func (s settingsServiceStub) GetSettings(ctx context.Context, userID uuid.UUID) (*entities.Settings, error) {
	return s.getFn(ctx, userID)
}
func (s settingsServiceStub) UpdateSettings(ctx context.Context, userID uuid.UUID, input *entities.UpdateSettingsInput) (*entities.Settings, error) {
	return s.updateFn(ctx, userID, input)
}

type aiServiceStub struct {
	descriptionFn func(ctx context.Context, input *entities.GenerateDescriptionInput) (string, error)
	emailFn       func(ctx context.Context, input *entities.GenerateEmailInput) (string, error)
	summaryFn     func(ctx context.Context, input *entities.SummarizeReportInput) (string, error)
}

func (s aiServiceStub) GenerateDescription(ctx context.Context, input *entities.GenerateDescriptionInput) (string, error) {
	return s.descriptionFn(ctx, input)
}
func (s aiServiceStub) GenerateSupplierEmail(ctx context.Context, input *entities.GenerateEmailInput) (string, error) {
	return s.emailFn(ctx, input)
}
func (s aiServiceStub) SummarizeReport(ctx context.Context, input *entities.SummarizeReportInput) (string, error) {
	return s.summaryFn(ctx, input)
}
