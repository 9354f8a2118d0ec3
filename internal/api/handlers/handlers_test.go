package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"dkt-api-server/config"
	"dkt-api-server/internal/api/middleware"
	"dkt-api-server/internal/apperr"
	"dkt-api-server/internal/auth"
	"dkt-api-server/internal/identity"
	"dkt-api-server/internal/models"
	"dkt-api-server/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Fakes embed the port so only the methods a test drives need bodies.

type fakeIdentity struct {
	IdentityService
	registered identity.Profile
	loginErr   error
}

func (f *fakeIdentity) Register(_ context.Context, role models.Role, p identity.Profile) (identity.Account, error) {
	f.registered = p
	acct, err := identity.NewAccount(role, p, "hash")
	return acct, err
}

func (f *fakeIdentity) Login(_ context.Context, role models.Role, email, _ string) (*identity.Session, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &identity.Session{Token: "tok", Role: string(role)}, nil
}

type fakeDonations struct {
	DonorService
	gotInput  workflow.DonorRequestInput
	gotDonor  primitive.ObjectID
	gotImage  []byte
	createErr error
}

func (f *fakeDonations) CreateDonorRequest(_ context.Context, donorID primitive.ObjectID, in workflow.DonorRequestInput) (*models.DonorRequest, error) {
	f.gotDonor, f.gotInput = donorID, in
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.DonorRequest{ID: primitive.NewObjectID(), Donor: donorID, Status: models.AssetRequested}, nil
}

func (f *fakeDonations) UploadAsset(_ context.Context, donorID primitive.ObjectID, in workflow.AssetInput, img *workflow.Image) (*models.Asset, error) {
	if img != nil {
		f.gotImage, _ = io.ReadAll(img.Body)
	}
	return &models.Asset{ID: primitive.NewObjectID(), DonorID: donorID, Name: in.Name, Model: in.Model, Quantity: in.Quantity}, nil
}

type fakePartner struct {
	PartnerService
	gotCondition workflow.ConditionInput
}

func (f *fakePartner) UpdateAssetCondition(_ context.Context, _ primitive.ObjectID, in workflow.ConditionInput) (*models.Asset, error) {
	f.gotCondition = in
	return &models.Asset{Condition: in.Condition, Repair: models.Repair{IsRepair: in.IsRepair, Service: in.Services}}, nil
}

type fakeInvoices struct {
	PaymentService
	got workflow.InvoiceInput
}

func (f *fakeInvoices) CreateInvoice(_ context.Context, in workflow.InvoiceInput) (*models.Invoice, error) {
	f.got = in
	return &models.Invoice{InvoiceType: in.Type, InvoiceNumber: "INV-TEST0001"}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

type testAPI struct {
	router *gin.Engine
	tokens *auth.TokenManager
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	tm, err := auth.NewTokenManager(config.JWTConfig{Secret: "handler-secret"})
	require.NoError(t, err)
	return &testAPI{router: gin.New(), tokens: tm}
}

func (a *testAPI) group(path string, role models.Role) *gin.RouterGroup {
	return a.router.Group(path, middleware.Authenticate(a.tokens), middleware.Authorize(role))
}

func (a *testAPI) token(t *testing.T, id primitive.ObjectID, role models.Role) string {
	t.Helper()
	tok, err := a.tokens.GenerateJWT(id.Hex(), string(role)+"@dkt.test", string(role))
	require.NoError(t, err)
	return tok
}

func (a *testAPI) do(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) postJSON(path, token string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	return a.do(http.MethodPost, path, token, bytes.NewReader(raw), "application/json")
}

func TestAuthHandler(t *testing.T) {
	api := newTestAPI(t)
	fake := &fakeIdentity{}
	h := &AuthHandler{Identity: fake}
	api.router.POST("/auth/register", h.Register)
	api.router.POST("/auth/login", h.Login)

	w := api.postJSON("/auth/register", "", gin.H{"role": "donor", "email": "d@acme.test", "password": "secret123", "companyName": "Acme"})
	require.Equal(t, http.StatusCreated, w.Code)
	env := decode(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, "Acme", fake.registered.CompanyName)
	assert.NotContains(t, string(env.Data), "hash", "password hash is never serialized")

	w = api.postJSON("/auth/register", "", gin.H{"email": "d@acme.test"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	fake.loginErr = apperr.Forbidden("Your account is under review.")
	w = api.postJSON("/auth/login", "", gin.H{"role": "donor", "email": "d@acme.test", "password": "secret123"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, envelope{Success: false, Message: "Your account is under review."}, decode(t, w))

	fake.loginErr = nil
	w = api.postJSON("/auth/login", "", gin.H{"role": "donor", "email": "d@acme.test", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"token":"tok","role":"donor","account":null}`, string(decode(t, w).Data))
}

func TestDonorCreateRequest(t *testing.T) {
	api := newTestAPI(t)
	fake := &fakeDonations{}
	h := &DonorHandler{Donations: fake}
	api.group("/donor", models.RoleDonor).POST("/create-requests", h.CreateRequest)

	donorID := primitive.NewObjectID()
	body := gin.H{
		"requestIds": []string{"a1", "a2"},
		"address":    gin.H{"pickupCode": "WH-1", "fullAddress": "12 Elm St, Pune, MH, 411001"},
		"pincode":    "411001",
		"phone":      "9876543210",
		"dimensions": gin.H{"length": 20},
	}

	t.Run("no token", func(t *testing.T) {
		w := api.postJSON("/donor/create-requests", "", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong role", func(t *testing.T) {
		w := api.postJSON("/donor/create-requests", api.token(t, donorID, models.RolePartner), body)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("created", func(t *testing.T) {
		w := api.postJSON("/donor/create-requests", api.token(t, donorID, models.RoleDonor), body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, donorID, fake.gotDonor)
		assert.Equal(t, []string{"a1", "a2"}, fake.gotInput.ProductIDs)
		assert.Equal(t, "WH-1", fake.gotInput.Address.PickupCode)
		assert.Equal(t, float64(20), fake.gotInput.Dimensions.Length)
	})

	t.Run("assets unavailable", func(t *testing.T) {
		fake.createErr = apperr.Validation("Some products are not available or do not exist")
		defer func() { fake.createErr = nil }()

		w := api.postJSON("/donor/create-requests", api.token(t, donorID, models.RoleDonor), body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Some products are not available or do not exist", decode(t, w).Message)
	})
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		message  string
		upstream int
	}{
		{"not found", apperr.NotFound("request not found"), http.StatusNotFound, "request not found", 0},
		{"conflict", apperr.Conflict("Assigned assets: a1"), http.StatusConflict, "Assigned assets: a1", 0},
		{"upstream 4xx becomes bad gateway", apperr.Integration(422, `{"message":"bad pincode"}`), http.StatusBadGateway, "courier platform returned status 422", 422},
		{"upstream 401 is not a session error", apperr.Integration(http.StatusUnauthorized, "token expired"), http.StatusBadGateway, "courier platform returned status 401", 401},
		{"upstream 5xx", apperr.Integration(503, "down"), http.StatusBadGateway, "courier platform returned status 503", 503},
		{"upstream unreachable", apperr.Wrap(apperr.KindIntegration, "courier platform unreachable", errors.New("dial tcp")), http.StatusBadGateway, "courier platform unreachable", 0},
		{"server error hides cause", errors.New("mongo: connection reset"), http.StatusInternalServerError, "Internal server error", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", func(c *gin.Context) { respondError(c, tt.err) })
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/x", nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			env := decode(t, w)
			assert.False(t, env.Success)
			assert.Equal(t, tt.message, env.Message)
			assert.Empty(t, env.Error)
			assert.NotContains(t, w.Body.String(), "bad pincode")

			if tt.upstream == 0 {
				assert.Empty(t, env.Data)
				return
			}
			var data struct {
				UpstreamStatus int `json:"upstreamStatus"`
			}
			require.NoError(t, json.Unmarshal(env.Data, &data))
			assert.Equal(t, tt.upstream, data.UpstreamStatus)
		})
	}
}

func TestDonorTrackOrder_RequiresParams(t *testing.T) {
	api := newTestAPI(t)
	h := &DonorHandler{Donations: &fakeDonations{}}
	api.group("/donor", models.RoleDonor).GET("/track-order", h.TrackOrder)

	w := api.do(http.MethodGet, "/donor/track-order?order_id=1", api.token(t, primitive.NewObjectID(), models.RoleDonor), nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDonorUploadProduct_Multipart(t *testing.T) {
	api := newTestAPI(t)
	fake := &fakeDonations{}
	h := &DonorHandler{Donations: fake}
	api.group("/donor", models.RoleDonor).POST("/products", h.UploadProduct)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "ThinkPad"))
	require.NoError(t, mw.WriteField("model", "T480"))
	require.NoError(t, mw.WriteField("quantity", "2"))
	part, err := mw.CreateFormFile("image", "front.PNG")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := api.do(http.MethodPost, "/donor/products", api.token(t, primitive.NewObjectID(), models.RoleDonor), &buf, mw.FormDataContentType())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, []byte("png-bytes"), fake.gotImage)

	var asset models.Asset
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &asset))
	assert.Equal(t, 2, asset.Quantity)
}

func TestPartnerUpdateAssetCondition(t *testing.T) {
	api := newTestAPI(t)
	fake := &fakePartner{}
	h := &PartnerHandler{Partners: fake}
	api.group("/partner", models.RolePartner).POST("/updateAssetCondition", h.UpdateAssetCondition)

	w := api.postJSON("/partner/updateAssetCondition", api.token(t, primitive.NewObjectID(), models.RolePartner), gin.H{
		"productId":     primitive.NewObjectID().Hex(),
		"condition":     "Repair",
		"isRepair":      true,
		"repairDetails": []gin.H{{"part": "Battery", "description": "swollen", "cost": 2400}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.ConditionRepair, fake.gotCondition.Condition)
	assert.Equal(t, []models.RepairService{{Part: "Battery", Description: "swollen", Cost: 2400}}, fake.gotCondition.Services)
}

func TestAdminCreateInvoice_RoutesByType(t *testing.T) {
	api := newTestAPI(t)
	fake := &fakeInvoices{}
	h := &AdminHandler{Invoices: fake}
	admin := api.group("/admin", models.RoleAdmin)
	admin.POST("/invoices/repair", h.CreateInvoice(models.InvoiceRepair))
	admin.POST("/invoices/disposal", h.CreateInvoice(models.InvoiceDisposal))
	token := api.token(t, primitive.NewObjectID(), models.RoleAdmin)

	w := api.postJSON("/admin/invoices/repair", token, gin.H{
		"requestId":     "r1",
		"donorId":       "d1",
		"invoiceAmount": 1234.5,
		"gstNumber":     "29ABCDE1234F1Z5",
		"subscription":  "p1",
		"platformFee":   100,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, models.InvoiceRepair, fake.got.Type)
	require.NotNil(t, fake.got.InvoiceAmount)
	assert.Equal(t, 1234.5, *fake.got.InvoiceAmount)
	assert.Equal(t, "p1", fake.got.PlanID)
	assert.Equal(t, float64(100), fake.got.Fees.Platform)

	w = api.postJSON("/admin/invoices/disposal", token, gin.H{"requestId": "r1", "donorId": "d1"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, models.InvoiceDisposal, fake.got.Type)
	assert.Nil(t, fake.got.InvoiceAmount)

	w = api.postJSON("/admin/invoices/repair", api.token(t, primitive.NewObjectID(), models.RoleDonor), gin.H{"requestId": "r1", "donorId": "d1"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
