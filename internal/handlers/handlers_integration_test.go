package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"shopadmin/internal/config"
	"shopadmin/internal/handlers"
	"shopadmin/internal/middleware"
	"shopadmin/internal/models"
	"shopadmin/internal/repositories"
	"shopadmin/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbSeq int64

type testEnv struct {
	app         *fiber.App
	authService *services.AuthService
	userRepo    repositories.UserRepository
	productRepo repositories.ProductRepository
}

// setupApp wires the full API over a fresh in-memory SQLite database,
// mirroring the production route table, and seeds a superAdmin account.
func setupApp(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Env:              "development",
		JWTSecret:        "test-jwt-secret",
		RefreshSecret:    "test-refresh-secret",
		AccessTokenTTL:   time.Hour,
		RefreshTokenTTL:  24 * time.Hour,
		OTPExpiryMinutes: 15,
		UploadDir:        t.TempDir(),
	}

	dsn := fmt.Sprintf("file:handlers_%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}, &models.OrderItem{}))

	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	authService := services.NewAuthService(userRepo, cfg, nil)
	userService := services.NewUserService(userRepo)
	productService := services.NewProductService(productRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, nil)
	statsService := services.NewStatsService(userRepo, productRepo, orderRepo)

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler(cfg)})
	app.Use(cors.New())
	api := app.Group("/api")

	authRequired := middleware.AuthRequired(authService, userRepo)
	authOptional := middleware.AuthOptional(authService, userRepo)
	adminOnly := middleware.PermitRoles(models.RoleAdmin, models.RoleSuperAdmin)
	superAdminOnly := middleware.PermitRoles(models.RoleSuperAdmin)

	handlers.NewAuthHandler(authService, cfg).RegisterRoutes(api)
	handlers.NewProductHandler(productService, cfg.UploadDir).RegisterRoutes(api, authRequired, authOptional)
	handlers.NewOrderHandler(orderService).RegisterRoutes(api, authRequired)
	handlers.NewUserHandler(userService).RegisterRoutes(api, authRequired, adminOnly)
	handlers.NewStatsHandler(statsService).RegisterRoutes(api, authRequired, adminOnly)
	handlers.NewUploadHandler(cfg.UploadDir).RegisterRoutes(api, authRequired, adminOnly)
	handlers.NewSuperAdminHandler(userService).RegisterRoutes(api, authRequired, superAdminOnly)

	app.Use(handlers.NotFoundHandler)

	seedSuperAdmin(t, userRepo)

	return &testEnv{app: app, authService: authService, userRepo: userRepo, productRepo: productRepo}
}

func seedSuperAdmin(t *testing.T, repo repositories.UserRepository) {
	t.Helper()
	hashed, err := services.HashPassword("root-password")
	assert.NoError(t, err)
	assert.NoError(t, repo.Create(&models.User{
		Name:     "Root",
		Email:    "root@example.com",
		Password: hashed,
		Role:     models.RoleSuperAdmin,
		Status:   models.StatusActive,
	}))
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()

	var payload map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	if len(raw) > 0 {
		assert.NoError(t, json.Unmarshal(raw, &payload))
	}
	return resp.StatusCode, payload
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	status, body := e.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	assert.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]interface{})
	return data["accessToken"].(string)
}

// createAdmin provisions an admin with the given quota via the
// super-admin API and returns its access token and id.
func (e *testEnv) createAdmin(t *testing.T, email string, quota int) (string, string) {
	t.Helper()
	rootToken := e.login(t, "root@example.com", "root-password")
	status, body := e.request(t, http.MethodPost, "/api/super-admin/", rootToken, map[string]interface{}{
		"name": "Admin", "email": email,
		"password": "admin-password", "confirmPassword": "admin-password",
		"numberOfUsers": quota,
	})
	assert.Equal(t, http.StatusCreated, status)
	admin := body["data"].(map[string]interface{})["admin"].(map[string]interface{})
	return e.login(t, email, "admin-password"), admin["id"].(string)
}

// createManagedUser makes the admin create a managed account and returns
// its access token and id.
func (e *testEnv) createManagedUser(t *testing.T, adminToken, email string) (string, string) {
	t.Helper()
	status, body := e.request(t, http.MethodPost, "/api/users/", adminToken, map[string]string{
		"name": "Managed", "email": email,
		"password": "user-password", "confirmPassword": "user-password",
	})
	assert.Equal(t, http.StatusCreated, status)
	user := body["data"].(map[string]interface{})["user"].(map[string]interface{})
	return e.login(t, email, "user-password"), user["id"].(string)
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestSignupAndLogin(t *testing.T) {
	env := setupApp(t)

	status, body := env.request(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Customer", "email": "Customer@Example.com",
		"password": "password123", "confirmPassword": "password123",
	})
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "customer@example.com", user["email"])
	assert.Equal(t, models.RoleCustomer, user["role"])
	assert.NotContains(t, user, "password")
	assert.NotEmpty(t, data["accessToken"])
	assert.NotEmpty(t, data["refreshToken"])

	status, body = env.request(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Dup", "email": "customer@example.com",
		"password": "password123", "confirmPassword": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Email already exists", body["message"])

	status, body = env.request(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Mismatch", "email": "other@example.com",
		"password": "password123", "confirmPassword": "different",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Passwords do not match", body["message"])

	status, body = env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "customer@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid email or password", body["message"])

	status, body = env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "whatever",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid email or password", body["message"])
}

func TestRefreshToken(t *testing.T) {
	env := setupApp(t)

	status, body := env.request(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Customer", "email": "customer@example.com",
		"password": "password123", "confirmPassword": "password123",
	})
	assert.Equal(t, http.StatusCreated, status)
	refresh := body["data"].(map[string]interface{})["refreshToken"].(string)

	status, body = env.request(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{
		"refreshToken": refresh,
	})
	assert.Equal(t, http.StatusOK, status)
	access := body["data"].(map[string]interface{})["accessToken"].(string)

	status, _ = env.request(t, http.MethodGet, "/api/orders/", access, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = env.request(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{
		"refreshToken": "not-a-token",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestPasswordResetFlow(t *testing.T) {
	env := setupApp(t)

	status, _ := env.request(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Customer", "email": "customer@example.com",
		"password": "password123", "confirmPassword": "password123",
	})
	assert.Equal(t, http.StatusCreated, status)

	status, body := env.request(t, http.MethodPatch, "/api/auth/forgetPassword", "", map[string]string{
		"email": "customer@example.com",
	})
	assert.Equal(t, http.StatusOK, status)
	otp := body["data"].(map[string]interface{})["otp"].(string)
	assert.Len(t, otp, 6)

	status, body = env.request(t, http.MethodPatch, "/api/auth/resetPassword", "", map[string]string{
		"email": "customer@example.com", "otp": "000000", "newPassword": "new-password",
	})
	if otp != "000000" {
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Invalid OTP", body["message"])
	}

	status, _ = env.request(t, http.MethodPatch, "/api/auth/resetPassword", "", map[string]string{
		"email": "customer@example.com", "otp": otp, "newPassword": "new-password",
	})
	assert.Equal(t, http.StatusOK, status)

	env.login(t, "customer@example.com", "new-password")
}

func TestAuthGates(t *testing.T) {
	env := setupApp(t)

	t.Run("missing token", func(t *testing.T) {
		status, body := env.request(t, http.MethodGet, "/api/users/", "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "No token provided. Authentication required", body["message"])
	})

	t.Run("garbage token", func(t *testing.T) {
		status, body := env.request(t, http.MethodGet, "/api/users/", "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Invalid token", body["message"])
	})

	t.Run("customer role is rejected from admin routes", func(t *testing.T) {
		status, _ := env.request(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
			"name": "Customer", "email": "customer@example.com",
			"password": "password123", "confirmPassword": "password123",
		})
		assert.Equal(t, http.StatusCreated, status)
		token := env.login(t, "customer@example.com", "password123")

		status, body := env.request(t, http.MethodGet, "/api/users/", token, nil)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "You do not have permission to perform this action", body["message"])

		status, _ = env.request(t, http.MethodGet, "/api/stats/", token, nil)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("blocked account cannot use a previously issued token", func(t *testing.T) {
		adminToken, _ := env.createAdmin(t, "gate-admin@example.com", 3)
		userToken, userID := env.createManagedUser(t, adminToken, "gated@example.com")

		status, _ := env.request(t, http.MethodPatch, "/api/users/"+userID+"/status", adminToken,
			map[string]string{"status": "blocked"})
		assert.Equal(t, http.StatusOK, status)

		status, body := env.request(t, http.MethodGet, "/api/orders/", userToken, nil)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "Your account is blocked. Please contact support", body["message"])
	})
}

func TestUserManagementQuota(t *testing.T) {
	env := setupApp(t)
	adminToken, _ := env.createAdmin(t, "quota-admin@example.com", 2)

	env.createManagedUser(t, adminToken, "one@example.com")
	env.createManagedUser(t, adminToken, "two@example.com")

	status, body := env.request(t, http.MethodPost, "/api/users/", adminToken, map[string]string{
		"name": "Three", "email": "three@example.com",
		"password": "user-password", "confirmPassword": "user-password",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "You have reached the maximum number of users you can manage", body["message"])
}

func TestUserManagementListingAndDelete(t *testing.T) {
	env := setupApp(t)
	adminToken, _ := env.createAdmin(t, "list-admin@example.com", 5)
	otherAdminToken, _ := env.createAdmin(t, "other-admin@example.com", 5)

	_, userID := env.createManagedUser(t, adminToken, "mine@example.com")
	env.createManagedUser(t, otherAdminToken, "theirs@example.com")

	t.Run("admin sees only their own users", func(t *testing.T) {
		status, body := env.request(t, http.MethodGet, "/api/users/", adminToken, nil)
		assert.Equal(t, http.StatusOK, status)
		users := body["data"].(map[string]interface{})["users"].([]interface{})
		assert.Len(t, users, 1)
		assert.Equal(t, "mine@example.com", users[0].(map[string]interface{})["email"])

		meta := body["meta"].(map[string]interface{})
		assert.Equal(t, float64(1), meta["total"])
		assert.Equal(t, float64(1), meta["page"])
	})

	t.Run("superAdmin sees all non-superAdmins", func(t *testing.T) {
		rootToken := env.login(t, "root@example.com", "root-password")
		status, body := env.request(t, http.MethodGet, "/api/users/", rootToken, nil)
		assert.Equal(t, http.StatusOK, status)
		users := body["data"].(map[string]interface{})["users"].([]interface{})
		assert.Len(t, users, 4)
	})

	t.Run("delete is a status change", func(t *testing.T) {
		status, _ := env.request(t, http.MethodDelete, "/api/users/"+userID, adminToken, nil)
		assert.Equal(t, http.StatusOK, status)

		status, body := env.request(t, http.MethodGet, "/api/users/"+userID, adminToken, nil)
		assert.Equal(t, http.StatusOK, status)
		user := body["data"].(map[string]interface{})["user"].(map[string]interface{})
		assert.Equal(t, models.StatusDeleted, user["status"])
	})

	t.Run("malformed id is rejected", func(t *testing.T) {
		status, body := env.request(t, http.MethodGet, "/api/users/not-a-uuid", adminToken, nil)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Invalid ID format", body["message"])
	})
}

func TestProductScoping(t *testing.T) {
	env := setupApp(t)
	adminToken, adminID := env.createAdmin(t, "shop-admin@example.com", 5)
	otherAdminToken, _ := env.createAdmin(t, "rival-admin@example.com", 5)

	status, body := env.request(t, http.MethodPost, "/api/products/", adminToken, map[string]interface{}{
		"name": "Visible Shirt", "category": "apparel", "price": 25.0,
		"colors": []string{"red", "blue"}, "sizes": []string{"M"},
	})
	assert.Equal(t, http.StatusCreated, status)
	product := body["data"].(map[string]interface{})["product"].(map[string]interface{})
	productID := product["id"].(string)
	assert.Equal(t, adminID, product["admin"])

	status, _ = env.request(t, http.MethodPost, "/api/products/", otherAdminToken, map[string]interface{}{
		"name": "Rival Shirt", "category": "apparel", "price": 30.0,
	})
	assert.Equal(t, http.StatusCreated, status)

	status, _ = env.request(t, http.MethodPatch, "/api/products/"+productID+"/status", adminToken,
		map[string]string{"status": "inactive"})
	assert.Equal(t, http.StatusOK, status)

	t.Run("anonymous listing shows active products only", func(t *testing.T) {
		status, body := env.request(t, http.MethodGet, "/api/products/", "", nil)
		assert.Equal(t, http.StatusOK, status)
		products := body["data"].(map[string]interface{})["products"].([]interface{})
		assert.Len(t, products, 1)
		assert.Equal(t, "Rival Shirt", products[0].(map[string]interface{})["name"])
	})

	t.Run("admin listing is scoped to their own products in any status", func(t *testing.T) {
		status, body := env.request(t, http.MethodGet, "/api/products/", adminToken, nil)
		assert.Equal(t, http.StatusOK, status)
		products := body["data"].(map[string]interface{})["products"].([]interface{})
		assert.Len(t, products, 1)
		assert.Equal(t, "Visible Shirt", products[0].(map[string]interface{})["name"])
	})

	t.Run("non-owning admin cannot update", func(t *testing.T) {
		status, body := env.request(t, http.MethodPatch, "/api/products/"+productID, otherAdminToken,
			map[string]interface{}{"price": 1.0})
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "You are not authorized to update this product", body["message"])
	})

	t.Run("owning admin merges fields", func(t *testing.T) {
		status, body := env.request(t, http.MethodPatch, "/api/products/"+productID, adminToken,
			map[string]interface{}{"price": 19.5})
		assert.Equal(t, http.StatusOK, status)
		updated := body["data"].(map[string]interface{})["product"].(map[string]interface{})
		assert.Equal(t, 19.5, updated["price"])
		assert.Equal(t, "Visible Shirt", updated["name"])
	})

	t.Run("get by id is public", func(t *testing.T) {
		status, body := env.request(t, http.MethodGet, "/api/products/"+productID, "", nil)
		assert.Equal(t, http.StatusOK, status)
		fetched := body["data"].(map[string]interface{})["product"].(map[string]interface{})
		assert.Equal(t, productID, fetched["id"])
	})

	t.Run("string-encoded colors and price are coerced", func(t *testing.T) {
		status, body := env.request(t, http.MethodPost, "/api/products/", adminToken, map[string]interface{}{
			"name": "Coerced", "category": "apparel",
			"price": "12.50", "colors": `["green","black"]`, "sizes": "XL",
		})
		assert.Equal(t, http.StatusCreated, status)
		created := body["data"].(map[string]interface{})["product"].(map[string]interface{})
		assert.Equal(t, 12.5, created["price"])
		assert.Equal(t, []interface{}{"green", "black"}, created["colors"])
		assert.Equal(t, []interface{}{"XL"}, created["sizes"])
	})

	t.Run("missing required fields are reported per field", func(t *testing.T) {
		status, body := env.request(t, http.MethodPost, "/api/products/", adminToken, map[string]interface{}{
			"description": "no name, category or price",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, false, body["success"])
		errs := body["errors"].([]interface{})
		assert.Len(t, errs, 3)
	})
}

func TestOrderFlow(t *testing.T) {
	env := setupApp(t)
	adminToken, _ := env.createAdmin(t, "order-admin@example.com", 5)
	userToken, _ := env.createManagedUser(t, adminToken, "buyer@example.com")

	status, body := env.request(t, http.MethodPost, "/api/products/", adminToken, map[string]interface{}{
		"name": "Orderable", "category": "apparel", "price": 10.0,
	})
	assert.Equal(t, http.StatusCreated, status)
	productID := body["data"].(map[string]interface{})["product"].(map[string]interface{})["id"].(string)

	orderPayload := map[string]interface{}{
		"items": []map[string]interface{}{
			{"prod_id": productID, "count": 2, "size": "M", "color": "red", "price": 10.0},
		},
		"address": "1 Test Street", "phoneNumber": "555-0100",
		"customerName": "Buyer", "total": 20.0,
	}

	t.Run("admins cannot place orders", func(t *testing.T) {
		status, _ := env.request(t, http.MethodPost, "/api/orders/cart", adminToken, orderPayload)
		assert.Equal(t, http.StatusForbidden, status)
	})

	var orderID string
	t.Run("managed user places an order", func(t *testing.T) {
		status, body := env.request(t, http.MethodPost, "/api/orders/cart", userToken, orderPayload)
		assert.Equal(t, http.StatusCreated, status)
		order := body["data"].(map[string]interface{})["order"].(map[string]interface{})
		orderID = order["id"].(string)
		assert.Equal(t, models.OrderPending, order["status"])
		items := order["items"].([]interface{})
		assert.Len(t, items, 1)
		assert.Equal(t, 10.0, items[0].(map[string]interface{})["price"])
	})

	t.Run("an inactive product rejects the order", func(t *testing.T) {
		status, _ := env.request(t, http.MethodPatch, "/api/products/"+productID+"/status", adminToken,
			map[string]string{"status": "inactive"})
		assert.Equal(t, http.StatusOK, status)

		status, body := env.request(t, http.MethodPost, "/api/orders/cart", userToken, orderPayload)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "One or more products are not available", body["message"])
	})

	t.Run("purchaser and admin can read the order, strangers cannot", func(t *testing.T) {
		status, _ := env.request(t, http.MethodGet, "/api/orders/"+orderID, userToken, nil)
		assert.Equal(t, http.StatusOK, status)

		status, _ = env.request(t, http.MethodGet, "/api/orders/"+orderID, adminToken, nil)
		assert.Equal(t, http.StatusOK, status)

		status, _ = env.request(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
			"name": "Stranger", "email": "stranger@example.com",
			"password": "password123", "confirmPassword": "password123",
		})
		assert.Equal(t, http.StatusCreated, status)
		strangerToken := env.login(t, "stranger@example.com", "password123")

		status, body := env.request(t, http.MethodGet, "/api/orders/"+orderID, strangerToken, nil)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "You do not have permission to view this order", body["message"])
	})

	t.Run("listing is scoped to the purchaser", func(t *testing.T) {
		status, body := env.request(t, http.MethodGet, "/api/orders/", userToken, nil)
		assert.Equal(t, http.StatusOK, status)
		orders := body["data"].(map[string]interface{})["orders"].([]interface{})
		assert.Len(t, orders, 1)
	})

	t.Run("admin updates the status in any order", func(t *testing.T) {
		status, body := env.request(t, http.MethodPatch, "/api/orders/"+orderID+"/status", adminToken,
			map[string]string{"status": "completed"})
		assert.Equal(t, http.StatusOK, status)
		order := body["data"].(map[string]interface{})["order"].(map[string]interface{})
		assert.Equal(t, models.OrderCompleted, order["status"])

		status, _ = env.request(t, http.MethodPatch, "/api/orders/"+orderID+"/status", adminToken,
			map[string]string{"status": "pending"})
		assert.Equal(t, http.StatusOK, status)

		status, _ = env.request(t, http.MethodPatch, "/api/orders/"+orderID+"/status", userToken,
			map[string]string{"status": "paid"})
		assert.Equal(t, http.StatusForbidden, status)
	})
}

func TestSuperAdminEndpoints(t *testing.T) {
	env := setupApp(t)
	rootToken := env.login(t, "root@example.com", "root-password")
	adminToken, adminID := env.createAdmin(t, "listed-admin@example.com", 4)

	t.Run("admins cannot reach the super-admin group", func(t *testing.T) {
		status, _ := env.request(t, http.MethodGet, "/api/super-admin/", adminToken, nil)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("listing carries customer counts on every row", func(t *testing.T) {
		status, _ := env.request(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
			"name": "Customer", "email": "counted@example.com",
			"password": "password123", "confirmPassword": "password123",
		})
		assert.Equal(t, http.StatusCreated, status)

		status, body := env.request(t, http.MethodGet, "/api/super-admin/", rootToken, nil)
		assert.Equal(t, http.StatusOK, status)
		admins := body["data"].(map[string]interface{})["admins"].([]interface{})
		assert.Len(t, admins, 1)
		row := admins[0].(map[string]interface{})
		assert.Equal(t, float64(1), row["numberOfUsers"])
		assert.Equal(t, float64(1), row["numberOfCurrentActiveUsers"])
	})

	t.Run("status update only matches admins", func(t *testing.T) {
		status, _ := env.request(t, http.MethodPatch, "/api/super-admin/"+adminID+"/status", rootToken,
			map[string]string{"status": "blocked"})
		assert.Equal(t, http.StatusOK, status)

		status, body := env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "listed-admin@example.com", "password": "admin-password",
		})
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "Your account has been blocked", body["message"])

		customerID := func() string {
			st, b := env.request(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
				"name": "NotAdmin", "email": "notadmin@example.com",
				"password": "password123", "confirmPassword": "password123",
			})
			assert.Equal(t, http.StatusCreated, st)
			return b["data"].(map[string]interface{})["user"].(map[string]interface{})["id"].(string)
		}()

		status, body = env.request(t, http.MethodPatch, "/api/super-admin/"+customerID+"/status", rootToken,
			map[string]string{"status": "blocked"})
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Admin not found", body["message"])
	})
}

func TestStatsEndpoint(t *testing.T) {
	env := setupApp(t)
	adminToken, _ := env.createAdmin(t, "stats-admin@example.com", 3)
	env.createManagedUser(t, adminToken, "stat-user@example.com")

	status, _ := env.request(t, http.MethodPost, "/api/products/", adminToken, map[string]interface{}{
		"name": "Counted", "category": "apparel", "price": 5.0,
	})
	assert.Equal(t, http.StatusCreated, status)

	t.Run("admin stats are manager scoped", func(t *testing.T) {
		status, body := env.request(t, http.MethodGet, "/api/stats/", adminToken, nil)
		assert.Equal(t, http.StatusOK, status)
		stats := body["data"].(map[string]interface{})["stats"].(map[string]interface{})
		assert.Equal(t, float64(1), stats["totalUsers"])
		assert.Equal(t, float64(1), stats["activeUsers"])
		assert.Equal(t, float64(2), stats["remainingUsers"])
		assert.Equal(t, float64(3), stats["maxManagedUsers"])
		assert.Equal(t, float64(1), stats["totalProducts"])
	})

	t.Run("superAdmin stats are global with null quota fields", func(t *testing.T) {
		rootToken := env.login(t, "root@example.com", "root-password")
		status, body := env.request(t, http.MethodGet, "/api/stats/", rootToken, nil)
		assert.Equal(t, http.StatusOK, status)
		stats := body["data"].(map[string]interface{})["stats"].(map[string]interface{})
		assert.Equal(t, float64(2), stats["totalUsers"])
		assert.Nil(t, stats["remainingUsers"])
		assert.Nil(t, stats["maxManagedUsers"])
	})
}

func TestEnvelopeShape(t *testing.T) {
	env := setupApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/products/", nil)
	resp, err := env.app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Products retrieved successfully", body["message"])
	assert.Contains(t, body, "data")
	assert.Contains(t, body, "meta")

	// Error envelopes never emit null keys for absent blocks.
	req = httptest.NewRequest(http.MethodGet, "/api/users/", nil)
	resp, err = env.app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()

	raw, err = io.ReadAll(resp.Body)
	assert.NoError(t, err)
	body = nil
	assert.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, false, body["success"])
	assert.NotContains(t, body, "data")
	assert.NotContains(t, body, "errors")
}

func TestPaginationEcho(t *testing.T) {
	env := setupApp(t)
	adminToken, _ := env.createAdmin(t, "page-admin@example.com", 5)

	for i := 0; i < 3; i++ {
		status, _ := env.request(t, http.MethodPost, "/api/products/", adminToken, map[string]interface{}{
			"name": fmt.Sprintf("Item %d", i), "category": "apparel", "price": 1.0,
		})
		assert.Equal(t, http.StatusCreated, status)
	}

	status, body := env.request(t, http.MethodGet, "/api/products/?page=2&rowsPerPage=2", adminToken, nil)
	assert.Equal(t, http.StatusOK, status)

	products := body["data"].(map[string]interface{})["products"].([]interface{})
	assert.Len(t, products, 1)

	meta := body["meta"].(map[string]interface{})
	assert.Equal(t, float64(2), meta["page"])
	assert.Equal(t, float64(2), meta["rowsPerPage"])
	assert.Equal(t, float64(3), meta["total"])
	assert.Equal(t, float64(2), meta["totalPages"])

	status, body = env.request(t, http.MethodGet, "/api/products/?rowsPerPage=500", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
}

func TestUploadEndpoint(t *testing.T) {
	env := setupApp(t)
	adminToken, _ := env.createAdmin(t, "upload-admin@example.com", 1)

	status, body := env.request(t, http.MethodPost, "/api/upload/image", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "No file uploaded", body["message"])
}

func TestUnknownRouteEnvelope(t *testing.T) {
	env := setupApp(t)

	status, body := env.request(t, http.MethodGet, "/api/definitely-not-a-route", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Route not found", body["message"])
}

func TestStoreLevelDuplicateEmail(t *testing.T) {
	env := setupApp(t)

	// Bypass the handler's pre-check and hit the unique index directly,
	// the way the loser of two concurrent signups would.
	first := &models.User{Name: "A", Email: "same@example.com", Role: models.RoleCustomer, Status: models.StatusActive}
	assert.NoError(t, env.userRepo.Create(first))

	second := &models.User{Name: "B", Email: "same@example.com", Role: models.RoleCustomer, Status: models.StatusActive}
	assert.ErrorIs(t, env.userRepo.Create(second), repositories.ErrDuplicate)
}

func TestCORSHeaders(t *testing.T) {
	env := setupApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/products/", nil)
	req.Header.Set("Origin", "http://example.com")
	resp, err := env.app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
