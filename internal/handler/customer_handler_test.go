package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/OumaCavin/DataLinkCRM/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCustomer(t *testing.T) {
	db := setupTestDB(t)

	body := `{"first_name":"Grace","last_name":"Wanjiku","email":"grace@example.com","phone":"+254712345678"}`
	c, rec := newTestContext(t, http.MethodPost, "/api/customers", body, 1)

	require.NoError(t, CreateCustomer(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created model.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Grace", created.FirstName)
	assert.Regexp(t, `^CUS[0-9]{6}$`, created.CustomerID)
	assert.Equal(t, model.CustomerTypeIndividual, created.CustomerType)
	assert.Equal(t, model.CustomerStatusProspect, created.Status)
	assert.Equal(t, "Kenya", created.Country)
	assert.Equal(t, uint(1), created.UserID)

	var count int64
	require.NoError(t, db.Model(&model.Customer{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateCustomerValidation(t *testing.T) {
	setupTestDB(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing names", `{"email":"x@example.com"}`},
		{"missing email", `{"first_name":"A","last_name":"B"}`},
		{"bad phone", `{"first_name":"A","last_name":"B","email":"x@example.com","phone":"0712345678"}`},
		{"bad type", `{"first_name":"A","last_name":"B","email":"x@example.com","customer_type":"alien"}`},
		{"bad status", `{"first_name":"A","last_name":"B","email":"x@example.com","status":"frozen"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestContext(t, http.MethodPost, "/api/customers", tc.body, 1)
			require.NoError(t, CreateCustomer(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateCustomerDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Create(&model.Customer{
		UserID: 2, FirstName: "First", LastName: "Taker", Email: "taken@example.com",
	}).Error)

	body := `{"first_name":"Second","last_name":"Taker","email":"taken@example.com"}`
	c, rec := newTestContext(t, http.MethodPost, "/api/customers", body, 1)

	require.NoError(t, CreateCustomer(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestListCustomersFiltering(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Create(&model.Customer{
		UserID: 1, FirstName: "Active", LastName: "One", Email: "a1@example.com",
		Status: model.CustomerStatusActive, CustomerType: model.CustomerTypeBusiness,
	}).Error)
	require.NoError(t, db.Create(&model.Customer{
		UserID: 1, FirstName: "Prospect", LastName: "One", Email: "p1@example.com",
		Status: model.CustomerStatusProspect, CustomerType: model.CustomerTypeIndividual,
	}).Error)
	require.NoError(t, db.Create(&model.Customer{
		UserID: 2, FirstName: "Foreign", LastName: "One", Email: "f1@example.com",
		Status: model.CustomerStatusActive, CustomerType: model.CustomerTypeBusiness,
	}).Error)

	c, rec := newTestContext(t, http.MethodGet, "/api/customers?status=active", "", 1)
	require.NoError(t, ListCustomers(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var got []model.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Active", got[0].FirstName)
}

func TestUpdateCustomerKeepsCustomerID(t *testing.T) {
	db := setupTestDB(t)

	customer := model.Customer{
		UserID: 1, FirstName: "Before", LastName: "Change", Email: "before@example.com",
	}
	require.NoError(t, db.Create(&customer).Error)
	originalCustomerID := customer.CustomerID

	body := `{"first_name":"After","last_name":"Change","email":"after@example.com"}`
	c, rec := newTestContext(t, http.MethodPut, "/", body, 1)
	c.SetPath("/api/customers/:id")
	c.SetParamNames("id")
	c.SetParamValues(customer.ID.String())

	require.NoError(t, UpdateCustomer(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var updated model.Customer
	require.NoError(t, db.First(&updated, "id = ?", customer.ID).Error)
	assert.Equal(t, "After", updated.FirstName)
	assert.Equal(t, "after@example.com", updated.Email)
	assert.Equal(t, originalCustomerID, updated.CustomerID)
}

func TestUpdateCustomerCrossAccount(t *testing.T) {
	db := setupTestDB(t)

	customer := model.Customer{
		UserID: 1, FirstName: "Locked", LastName: "Down", Email: "locked@example.com",
	}
	require.NoError(t, db.Create(&customer).Error)

	body := `{"first_name":"Hijack","last_name":"Attempt","email":"locked@example.com"}`
	c, rec := newTestContext(t, http.MethodPut, "/", body, 2)
	c.SetPath("/api/customers/:id")
	c.SetParamNames("id")
	c.SetParamValues(customer.ID.String())

	require.NoError(t, UpdateCustomer(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteCustomer(t *testing.T) {
	db := setupTestDB(t)

	customer := model.Customer{
		UserID: 1, FirstName: "Gone", LastName: "Soon", Email: "gone@example.com",
	}
	require.NoError(t, db.Create(&customer).Error)

	c, rec := newTestContext(t, http.MethodDelete, "/", "", 1)
	c.SetPath("/api/customers/:id")
	c.SetParamNames("id")
	c.SetParamValues(customer.ID.String())

	require.NoError(t, DeleteCustomer(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Soft deleted: invisible to normal queries, still present unscoped
	var visible int64
	require.NoError(t, db.Model(&model.Customer{}).Count(&visible).Error)
	assert.Equal(t, int64(0), visible)

	var total int64
	require.NoError(t, db.Unscoped().Model(&model.Customer{}).Count(&total).Error)
	assert.Equal(t, int64(1), total)
}

func TestDeleteCustomerNotFound(t *testing.T) {
	setupTestDB(t)

	c, rec := newTestContext(t, http.MethodDelete, "/", "", 1)
	c.SetPath("/api/customers/:id")
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())

	require.NoError(t, DeleteCustomer(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetCustomer(t *testing.T) {
	db := setupTestDB(t)

	customer := model.Customer{
		UserID: 1, FirstName: "Fetch", LastName: "Me", Email: "fetch@example.com",
	}
	require.NoError(t, db.Create(&customer).Error)

	c, rec := newTestContext(t, http.MethodGet, "/", "", 1)
	c.SetPath("/api/customers/:id")
	c.SetParamNames("id")
	c.SetParamValues(customer.ID.String())

	require.NoError(t, GetCustomer(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var got model.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, customer.ID, got.ID)

	// Same lookup from another account is a 404
	c, rec = newTestContext(t, http.MethodGet, "/", "", 2)
	c.SetPath("/api/customers/:id")
	c.SetParamNames("id")
	c.SetParamValues(customer.ID.String())

	require.NoError(t, GetCustomer(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
