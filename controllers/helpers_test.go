package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/Kariqs/digistore-api/initializers"
	"github.com/Kariqs/digistore-api/models"
	"github.com/Kariqs/digistore-api/payments/paymentstest"
	"github.com/Kariqs/digistore-api/routes"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

type fakeStorage struct {
	mu      sync.Mutex
	uploads []string
}

func (s *fakeStorage) Upload(_ context.Context, folder, filename, _ string, body io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads = append(s.uploads, folder+"/"+filename)
	return fmt.Sprintf("https://cdn.example.com/%s/%d-%s", folder, len(s.uploads), filename), nil
}

type testServer struct {
	router  *gin.Engine
	db      *gorm.DB
	gateway *paymentstest.Gateway
	storage *fakeStorage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := initializers.OpenDatabase("sqlite", dsn, zap.NewNop())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, initializers.Migrate(db))

	gw := paymentstest.NewGateway()
	store := &fakeStorage{}

	prevDB, prevCfg, prevPayments, prevStorage, prevIdentity, prevMailer :=
		initializers.DB, initializers.Cfg, initializers.Payments, initializers.Storage, initializers.Identity, initializers.Mailer
	initializers.DB = db
	initializers.Cfg = initializers.Config{
		BaseURL:               "http://localhost:3000",
		JWTSecret:             testJWTSecret,
		StripeCurrency:        "usd",
		VerifyRedirectPayment: true,
	}
	initializers.Payments = gw
	initializers.Storage = store
	initializers.Identity = nil
	initializers.Mailer = nil
	t.Cleanup(func() {
		initializers.DB, initializers.Cfg, initializers.Payments, initializers.Storage, initializers.Identity, initializers.Mailer =
			prevDB, prevCfg, prevPayments, prevStorage, prevIdentity, prevMailer
		sqlDB.Close()
	})

	router := gin.New()
	routes.Register(router)
	return &testServer{router: router, db: db, gateway: gw, storage: store}
}

func token(t *testing.T, email string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "user_" + email,
		"email": email,
		"name":  "Test User",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func (s *testServer) do(t *testing.T, method, path, email string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if email != "" {
		req.Header.Set("Authorization", "Bearer "+token(t, email))
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) seedProduct(t *testing.T, title, price, seller string) models.Product {
	t.Helper()
	p := models.Product{Title: title, Price: price, Description: title, Category: "templates", CreatedBy: seller}
	require.NoError(t, s.db.Create(&p).Error)
	return p
}

func (s *testServer) seedAdmin(t *testing.T, email string) {
	t.Helper()
	require.NoError(t, s.db.Create(&models.User{Name: "Admin", Email: email, IsAdmin: true}).Error)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
