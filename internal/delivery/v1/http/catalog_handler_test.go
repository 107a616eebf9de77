package http

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DRSN-tech/shop-backend/internal/cfg"
	"github.com/DRSN-tech/shop-backend/pkg/e"
)

func newProductFormRequest(t *testing.T, fields map[string]string, categoryField string, categories []string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, mw.WriteField(key, value))
	}
	for _, category := range categories {
		require.NoError(t, mw.WriteField(categoryField, category))
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/addproducts", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, r.ParseMultipartForm(4<<20))

	return r
}

func newTestCatalogHandler() *CatalogHandler {
	return &CatalogHandler{
		minioCfg: &cfg.MinIOCfg{MaxImageSize: 2 << 20},
		logger:   nopLogger{},
	}
}

func TestParseProductForm_RepeatedCategoriesField(t *testing.T) {
	h := newTestCatalogHandler()

	r := newProductFormRequest(t, map[string]string{
		"name":  "Phone",
		"stock": "3",
		"price": "599.99",
	}, "categories[]", []string{"1", "2"})

	meta, err := h.parseProductForm(r)

	require.NoError(t, err)
	assert.Equal(t, "Phone", meta.Name)
	assert.Equal(t, 3, meta.Stock)
	assert.Equal(t, int64(59999), meta.Price)
	assert.Equal(t, []int64{1, 2}, meta.CategoryIDs)
}

func TestParseProductForm_BareCategoriesField(t *testing.T) {
	h := newTestCatalogHandler()

	r := newProductFormRequest(t, map[string]string{
		"name":  "Phone",
		"stock": "3",
		"price": "599.99",
	}, "categories", []string{"7"})

	meta, err := h.parseProductForm(r)

	require.NoError(t, err)
	assert.Equal(t, []int64{7}, meta.CategoryIDs)
}

func TestParseProductForm_MissingCategories(t *testing.T) {
	h := newTestCatalogHandler()

	r := newProductFormRequest(t, map[string]string{
		"name":  "Phone",
		"stock": "3",
		"price": "599.99",
	}, "categories[]", nil)

	_, err := h.parseProductForm(r)

	assert.ErrorIs(t, err, e.ErrMissingFields)
}

func TestParseUpdateProductForm_RepeatedCategoriesField(t *testing.T) {
	h := newTestCatalogHandler()

	r := newProductFormRequest(t, map[string]string{
		"price": "49.99",
	}, "categories[]", []string{"4", "5"})

	req, err := h.parseUpdateProductForm(r, 7)

	require.NoError(t, err)
	assert.Equal(t, int64(7), req.ID)
	assert.Equal(t, []int64{4, 5}, req.CategoryIDs)
	require.NotNil(t, req.Price)
	assert.Equal(t, int64(4999), *req.Price)
	assert.Nil(t, req.Name)
	assert.Nil(t, req.Stock)
}
