package controllers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Kariqs/digistore-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *testServer) multipart(t *testing.T, method, email string, fields map[string]string, files map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for field, name := range files {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("content of " + name))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, "/api/products", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token(t, email))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestCreateProductUploadsFiles(t *testing.T) {
	s := newTestServer(t)

	w := s.multipart(t, http.MethodPost, "seller@example.com",
		map[string]string{"data": `{"title":"UI Kit","price":"19.999","description":"Figma kit","category":"design"}`},
		map[string]string{"image": "cover.png", "file": "kit.zip"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	product := decode[models.Product](t, w)
	assert.Equal(t, "20.00", product.Price)
	assert.Equal(t, "seller@example.com", product.CreatedBy)
	assert.Contains(t, product.ImageUrl, "images/")
	require.NotNil(t, product.FileUrl)
	assert.Contains(t, *product.FileUrl, "files/")
	assert.Len(t, s.storage.uploads, 2)
}

func TestCreateProductValidation(t *testing.T) {
	s := newTestServer(t)

	w := s.multipart(t, http.MethodPost, "seller@example.com",
		map[string]string{"data": `{"title":"UI Kit","price":"free","description":"x"}`},
		map[string]string{"image": "cover.png"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.multipart(t, http.MethodPost, "seller@example.com",
		map[string]string{"data": `{"title":"UI Kit","price":"5","description":"x"}`}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, s.storage.uploads)
}

func TestGetProductsFilters(t *testing.T) {
	s := newTestServer(t)
	s.seedProduct(t, "Landing Page Template", "9.00", "a@example.com")
	s.seedProduct(t, "Icon Set", "4.00", "b@example.com")
	featured := s.seedProduct(t, "Dashboard Template", "29.00", "a@example.com")
	require.NoError(t, s.db.Model(&featured).Update("is_featured", true).Error)

	w := s.do(t, http.MethodGet, "/api/products?search=template", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[struct {
		Products []models.Product `json:"products"`
	}](t, w)
	assert.Len(t, page.Products, 2)

	w = s.do(t, http.MethodGet, "/api/products?email=b@example.com", "", nil)
	page = decode[struct {
		Products []models.Product `json:"products"`
	}](t, w)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Icon Set", page.Products[0].Title)

	w = s.do(t, http.MethodGet, "/api/products/featured", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]models.Product](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, featured.ID, list[0].ID)

	w = s.do(t, http.MethodGet, "/api/products?id="+itoa(featured.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Dashboard Template", decode[models.Product](t, w).Title)

	w = s.do(t, http.MethodGet, "/api/products?id=999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteProductPermissions(t *testing.T) {
	s := newTestServer(t)
	p := s.seedProduct(t, "Preset", "3.00", "seller@example.com")
	q := s.seedProduct(t, "Brush", "2.00", "seller@example.com")
	s.seedAdmin(t, "admin@example.com")

	w := s.do(t, http.MethodDelete, "/api/products?id="+itoa(p.ID), "buyer@example.com", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodDelete, "/api/products?id="+itoa(p.ID), "seller@example.com", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodDelete, "/api/products?id="+itoa(q.ID), "admin@example.com", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var remaining int64
	require.NoError(t, s.db.Model(&models.Product{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestSetProductFeaturedRequiresAdmin(t *testing.T) {
	s := newTestServer(t)
	p := s.seedProduct(t, "Preset", "3.00", "seller@example.com")

	w := s.do(t, http.MethodPatch, "/api/products", "seller@example.com", map[string]any{"id": p.ID, "isFeatured": true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	s.seedAdmin(t, "admin@example.com")
	w = s.do(t, http.MethodPatch, "/api/products", "admin@example.com", map[string]any{"id": p.ID, "isFeatured": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[models.Product](t, w).IsFeatured)
}
