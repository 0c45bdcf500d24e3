package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/karma-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/karma-storefront/internal/storefront/infra/adapters/productsource"
)

func serve(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	router := NewRouter(NewHandler(productsource.NewMockCatalog()))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestListProducts(t *testing.T) {
	rec := serve(t, "/api/products")
	require.Equal(t, http.StatusOK, rec.Code)

	var products []entity.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	assert.Len(t, products, 8)
	assert.Equal(t, "Organic Pineapple Juice", products[0].Name)
}

func TestListByCategory(t *testing.T) {
	rec := serve(t, "/api/products/category/Home%20&%20Kitchen")
	require.Equal(t, http.StatusOK, rec.Code)

	var products []entity.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 2)
	for _, p := range products {
		assert.Equal(t, "Home & Kitchen", p.Category)
	}
}

func TestListByCategory_NoMatchesIsEmptyArray(t *testing.T) {
	rec := serve(t, "/api/products/category/Toys")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetProduct(t *testing.T) {
	id := productsource.MockProductID("Fair Trade Coffee Beans")
	rec := serve(t, "/api/products/"+id)
	require.Equal(t, http.StatusOK, rec.Code)

	var p entity.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, id, p.ID)
	assert.Equal(t, 85, p.KarmaPoints)
}

func TestGetProduct_NotFound(t *testing.T) {
	rec := serve(t, "/api/products/does-not-exist")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Product not found"}`, rec.Body.String())
}

func TestRoot(t *testing.T) {
	rec := serve(t, "/api/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ethical Shopping Karma API")
}
