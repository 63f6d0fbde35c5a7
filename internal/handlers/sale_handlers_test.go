package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"warehouse/internal/common"
	"warehouse/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockSaleService struct {
	mock.Mock
}

func (m *MockSaleService) CreateSale(ctx context.Context, req *models.CreateSaleRequest) (*models.Sale, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Sale), args.Error(1)
}

func (m *MockSaleService) GetSaleByID(ctx context.Context, saleID uuid.UUID) (*models.Sale, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Sale), args.Error(1)
}

func (m *MockSaleService) ListSales(ctx context.Context, reference string, limit, offset int) ([]*models.Sale, error) {
	args := m.Called(ctx, reference, limit, offset)
	return args.Get(0).([]*models.Sale), args.Error(1)
}

func newSaleRequest(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCreateSaleHandler_Created(t *testing.T) {
	service := new(MockSaleService)
	handler := NewSaleHandlers(service)

	variantID := uuid.New()
	sale := &models.Sale{ID: uuid.New(), Reference: "SALE-1", TotalAmount: 15.0}

	service.On("CreateSale", mock.Anything, mock.MatchedBy(func(req *models.CreateSaleRequest) bool {
		return len(req.Lines) == 1 && req.Lines[0].VariantID == variantID && req.Lines[0].Quantity == 3
	})).Return(sale, nil)

	body := `{"lines":[{"variant_id":"` + variantID.String() + `","quantity":3}]}`
	c, rec := newSaleRequest(t, http.MethodPost, "/v1/sales", body)

	err := handler.CreateSale(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var got models.Sale
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "SALE-1", got.Reference)
}

func TestCreateSaleHandler_InsufficientStock(t *testing.T) {
	service := new(MockSaleService)
	handler := NewSaleHandlers(service)

	variantID := uuid.New()
	service.On("CreateSale", mock.Anything, mock.Anything).Return(nil,
		common.NewBusinessRuleError("insufficient stock for variant %s", variantID).
			WithDetails(common.FormatQuantityMismatch(2, 5)))

	body := `{"lines":[{"variant_id":"` + variantID.String() + `","quantity":5}]}`
	c, rec := newSaleRequest(t, http.MethodPost, "/v1/sales", body)

	err := handler.CreateSale(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp common.ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "BUSINESS_RULE_VIOLATION", resp.Error.Code)
	assert.Equal(t, "2", resp.Error.Details["available"])
	assert.Equal(t, "5", resp.Error.Details["requested"])
}

func TestGetSaleHandler_InvalidID(t *testing.T) {
	service := new(MockSaleService)
	handler := NewSaleHandlers(service)

	c, rec := newSaleRequest(t, http.MethodGet, "/v1/sales/not-a-uuid", "")
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := handler.GetSale(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	service.AssertNotCalled(t, "GetSaleByID")
}

func TestGetSaleHandler_NotFound(t *testing.T) {
	service := new(MockSaleService)
	handler := NewSaleHandlers(service)

	saleID := uuid.New()
	service.On("GetSaleByID", mock.Anything, saleID).Return(nil,
		common.NewNotFoundError("sale with id %s was not found", saleID))

	c, rec := newSaleRequest(t, http.MethodGet, "/v1/sales/"+saleID.String(), "")
	c.SetParamNames("id")
	c.SetParamValues(saleID.String())

	err := handler.GetSale(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListSalesHandler_EmptyResult(t *testing.T) {
	service := new(MockSaleService)
	handler := NewSaleHandlers(service)

	service.On("ListSales", mock.Anything, "", 0, 0).Return([]*models.Sale(nil), nil)

	c, rec := newSaleRequest(t, http.MethodGet, "/v1/sales", "")

	err := handler.ListSales(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}
