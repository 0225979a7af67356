package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/sangkips/gst-invoice-api/internal/application/service"
	"github.com/sangkips/gst-invoice-api/internal/config"
	"github.com/sangkips/gst-invoice-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/gst-invoice-api/internal/infrastructure/repository"
	"github.com/sangkips/gst-invoice-api/internal/presentation/http/handler"
	"github.com/sangkips/gst-invoice-api/internal/presentation/http/middleware"
	"github.com/sangkips/gst-invoice-api/pkg/email"
	"github.com/sangkips/gst-invoice-api/pkg/metrics"
	"github.com/sangkips/gst-invoice-api/pkg/oauth"
	"github.com/sangkips/gst-invoice-api/pkg/printer"
	"github.com/sangkips/gst-invoice-api/pkg/session"
	"github.com/sangkips/gst-invoice-api/pkg/utils"
	"github.com/sangkips/gst-invoice-api/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

type testServer struct {
	router *gin.Engine
	t      *testing.T
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validator.RegisterGin())

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	log := zap.NewNop()
	require.NoError(t, database.AutoMigrate(db, log))
	require.NoError(t, database.SeedDefaultData(db, config.AdminConfig{}, utils.HashPassword, log))

	cfg := &config.Config{
		App:    config.AppConfig{Name: "gst-invoice-api"},
		JWT:    config.JWTConfig{Secret: "test-secret"},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Upload: config.UploadConfig{MaxSize: 1 << 20},
	}

	sessions := session.NewMemoryStore()
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, time.Hour, 24*time.Hour)
	m := metrics.New()

	userRepo := infraRepo.NewUserRepository(db)
	roleRepo := infraRepo.NewRoleRepository(db)
	profileRepo := infraRepo.NewProfileRepository(db)
	clientRepo := infraRepo.NewClientRepository(db)
	documentRepo := infraRepo.NewDocumentRepository(db)
	hsnRepo := infraRepo.NewHSNRepository(db)

	nullPrinter, err := printer.New(printer.Config{Type: "none"})
	require.NoError(t, err)

	authService := service.NewAuthService(userRepo, roleRepo, jwtManager, sessions,
		oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{StateSecret: cfg.JWT.Secret}), log)
	hsnService := service.NewHSNService(hsnRepo, log)
	printerService := service.NewPrinterService(nullPrinter, printer.Width80mm, m, log)
	documentService := service.NewDocumentService(documentRepo, profileRepo, clientRepo, hsnService,
		printerService, email.NewEmailService(email.EmailConfig{}), m, log)

	limiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	t.Cleanup(limiter.Stop)

	router := Setup(&Handlers{
		Auth:     handler.NewAuthHandler(authService, log),
		Profile:  handler.NewProfileHandler(service.NewProfileService(profileRepo)),
		Client:   handler.NewClientHandler(service.NewClientService(clientRepo)),
		Document: handler.NewDocumentHandler(documentService),
		HSN:      handler.NewHSNHandler(hsnService, cfg.Upload.MaxSize),
		Printer:  handler.NewPrinterHandler(printerService),
	}, &Deps{
		JWTManager:      jwtManager,
		Sessions:        sessions,
		Cfg:             cfg,
		IdempotencyRepo: infraRepo.NewIdempotencyRepository(db),
		RateLimiter:     limiter,
		Metrics:         m,
		Log:             log,
	})
	return &testServer{router: router, t: t}
}

func (s *testServer) do(method, path, token string, body interface{}, headers ...string) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (s *testServer) signup(email string) string {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"name":             "Ravi Kumar",
		"email":            email,
		"password":         "secret123",
		"password_confirm": "secret123",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &data))
	return data.AccessToken
}

func (s *testServer) onboard(token string) {
	s.t.Helper()
	w, _ := s.do(http.MethodPost, "/api/v1/onboarding", token, gin.H{
		"company_name":        "Sri Lakshmi Steels",
		"gst_number":          "29ABCDE1234F1Z5",
		"address":             "12 Industrial Estate, Peenya",
		"city":                "Bengaluru",
		"pincode":             "560058",
		"bank_name":           "State Bank of India",
		"bank_ifsc":           "SBIN0001234",
		"bank_account_number": "1234567890",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gst-invoice-api")

	w, _ = s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(http.MethodGet, "/api/v1/clients", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)

	w, _ = s.do(http.MethodGet, "/api/v1/clients", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignupValidation(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"name":             "R",
		"email":            "not-an-email",
		"password":         "secret123",
		"password_confirm": "different",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, string(env.Errors), "email")
	assert.Contains(t, string(env.Errors), "password_confirm")
}

func TestSessionAndLogout(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("ravi@example.com")

	_, env := s.do(http.MethodGet, "/api/v1/auth/session", token, nil)
	assert.JSONEq(t, `{"logged_in":true}`, string(env.Data))

	w, env := s.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"onboarded":false`)

	w, _ = s.do(http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	_, env = s.do(http.MethodGet, "/api/v1/auth/session", token, nil)
	assert.JSONEq(t, `{"logged_in":false}`, string(env.Data))
}

func TestOnboarding(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("ravi@example.com")

	_, env := s.do(http.MethodGet, "/api/v1/onboarding/status", token, nil)
	assert.JSONEq(t, `{"onboarded":false}`, string(env.Data))

	w, env := s.do(http.MethodPost, "/api/v1/onboarding", token, gin.H{"company_name": "Sri Lakshmi Steels", "pincode": "012345"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, string(env.Errors), "pincode")

	s.onboard(token)

	_, env = s.do(http.MethodGet, "/api/v1/onboarding/status", token, nil)
	assert.JSONEq(t, `{"onboarded":true}`, string(env.Data))

	w, env = s.do(http.MethodGet, "/api/v1/profile/business", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"state_code":"29"`)

	w, env = s.do(http.MethodPut, "/api/v1/profile/business", token, gin.H{"invoice_prefix": "SLS"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), `"invoice_prefix":"SLS"`)

	w, env = s.do(http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"onboarded":true`)

	w, _ = s.do(http.MethodPost, "/api/v1/onboarding", token, gin.H{"company_name": "Again"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDocumentRequiresOnboarding(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("ravi@example.com")

	w, _ := s.do(http.MethodPost, "/api/v1/documents", token, gin.H{
		"recipient": gin.H{"name": "Walk-in"},
		"igst_rate": 18,
		"items":     []gin.H{{"description": "MS Angle", "quantity": 1, "rate": 100}},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestInvoiceLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("ravi@example.com")
	s.onboard(token)

	w, env := s.do(http.MethodPost, "/api/v1/clients", token, gin.H{
		"company_name": "Acme Fabricators",
		"gst_number":   "27FGHIJ5678K1Z2",
		"address":      "Plot 4, MIDC",
		"city":         "Pune",
		"email":        "accounts@acme.example",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var client struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &client))

	w, env = s.do(http.MethodPost, "/api/v1/documents/preview", token, gin.H{
		"tax_type":  "interstate",
		"igst_rate": 18,
		"items": []gin.H{
			{"description": "MS Angle", "hsn_code": "7216", "quantity": 470, "unit": "KGS", "rate": 85},
			{"description": "Cutting", "hsn_code": "9988", "quantity": 470, "unit": "KGS", "rate": 25},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), "Sixty One Thousand Six Only")

	body := gin.H{
		"client_id": client.ID,
		"igst_rate": 18,
		"items": []gin.H{
			{"description": "MS Angle", "hsn_code": "7216", "quantity": 470, "unit": "KGS", "rate": 85},
			{"description": "Cutting", "hsn_code": "9988", "quantity": 470, "unit": "KGS", "rate": 25},
		},
	}
	w, env = s.do(http.MethodPost, "/api/v1/documents", token, body, "Idempotency-Key", "create-1")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var doc struct {
		ID      string `json:"id"`
		Number  string `json:"number"`
		TaxType string `json:"tax_type"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &doc))
	assert.Equal(t, "INV-0001", doc.Number)
	assert.Equal(t, "interstate", doc.TaxType)

	// retried with the same key: replayed, no second number allocated
	w, env = s.do(http.MethodPost, "/api/v1/documents", token, body, "Idempotency-Key", "create-1")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "true", w.Header().Get("X-Idempotency-Replayed"))
	assert.Contains(t, string(env.Data), doc.ID)

	w, _ = s.do(http.MethodPost, "/api/v1/documents", token, gin.H{"client_id": client.ID, "items": []gin.H{{"description": "x"}}},
		"Idempotency-Key", "create-1")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, env = s.do(http.MethodGet, "/api/v1/documents?type=invoice", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.EqualValues(t, 1, page.Pagination.Total)

	w, _ = s.do(http.MethodGet, "/api/v1/documents?type=quote", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = s.do(http.MethodGet, "/api/v1/documents/search?invoice_number=INV-0001", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), doc.ID)

	w, _ = s.do(http.MethodGet, "/api/v1/documents/search", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodGet, "/api/v1/documents/"+doc.ID+"/pdf?download=true", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `attachment; filename="INV-0001.pdf"`)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w, env = s.do(http.MethodPost, "/api/v1/documents/"+doc.ID+"/print", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"printed":false`)

	w, _ = s.do(http.MethodPost, "/api/v1/documents/"+doc.ID+"/email", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w, _ = s.do(http.MethodGet, "/api/v1/documents/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreviewRejectsOversizedFigures(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("bulk@example.com")
	s.onboard(token)

	w, env := s.do(http.MethodPost, "/api/v1/documents/preview", token, gin.H{
		"igst_rate": 18,
		"items":     []gin.H{{"description": "Bulk", "quantity": 1e308, "rate": 10}},
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	assert.Contains(t, string(env.Errors), "quantity")
	assert.Contains(t, string(env.Errors), "is too large")

	w, env = s.do(http.MethodPost, "/api/v1/documents/preview", token, gin.H{
		"items":              []gin.H{{"description": "Bolt", "quantity": 1, "rate": 10}},
		"additional_charges": []gin.H{{"description": "Discount", "amount": -1e300}},
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	assert.Contains(t, string(env.Errors), "is too small")
}

func TestDocumentsAreScopedToOwner(t *testing.T) {
	s := newTestServer(t)
	owner := s.signup("owner@example.com")
	s.onboard(owner)

	w, env := s.do(http.MethodPost, "/api/v1/documents", owner, gin.H{
		"recipient": gin.H{"name": "Walk-in", "state_code": "29"},
		"cgst_rate": 9,
		"sgst_rate": 9,
		"items":     []gin.H{{"description": "Bolts", "quantity": 10, "rate": 12.5}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var doc struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &doc))

	other := s.signup("other@example.com")
	w, _ = s.do(http.MethodGet, "/api/v1/documents/"+doc.ID, other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHSNImportRequiresPermission(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("ravi@example.com")

	w, _ := s.do(http.MethodPost, "/api/v1/hsn/import", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodGet, "/api/v1/hsn/12", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPrinterStatus(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("ravi@example.com")

	w, env := s.do(http.MethodGet, "/api/v1/printer/status", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"configured":false`)

	w, env = s.do(http.MethodPost, "/api/v1/printer/test", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "warning")
}
