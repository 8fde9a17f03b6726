package pharmacy_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/diewo77/go-pharmacy/internal/metrics"
	"github.com/diewo77/go-pharmacy/internal/models"
	"github.com/diewo77/go-pharmacy/internal/pharmacy"
	"github.com/diewo77/go-pharmacy/internal/pharmacy/fakebackend"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*fakebackend.Server, *pharmacy.Client, models.User) {
	t.Helper()
	fb := fakebackend.New()
	t.Cleanup(fb.Close)
	admin := fb.AddUser(models.User{Name: "Admin", Email: "admin@rx.test", UserType: models.UserTypeAdmin}, "secret1")
	c := pharmacy.New(fb.URL).WithToken(fb.TokenFor(admin.ID))
	return fb, c, admin
}

func TestLoginAndProfile(t *testing.T) {
	fb := fakebackend.New()
	defer fb.Close()
	fb.AddUser(models.User{Name: "Kamal", Email: "kamal@rx.test", UserType: models.UserTypeClient}, "secret1")

	c := pharmacy.New(fb.URL)
	res, err := c.Login(context.Background(), models.Credentials{Email: "kamal@rx.test", Password: "secret1"})
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)

	me, err := c.WithToken(res.AccessToken).Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Kamal", me.Name)
	assert.True(t, me.IsClient())
}

func TestLogin_InvalidCredentials(t *testing.T) {
	fb := fakebackend.New()
	defer fb.Close()

	_, err := pharmacy.New(fb.URL).Login(context.Background(), models.Credentials{Email: "x@y.z", Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", pharmacy.Message(err))
	assert.True(t, pharmacy.IsUnauthorized(err))
}

func TestWithTokenDoesNotMutateParent(t *testing.T) {
	fb := fakebackend.New()
	defer fb.Close()
	base := pharmacy.New(fb.URL)
	_ = base.WithToken("abc")

	_, err := base.ListDrugs(context.Background())
	require.Error(t, err)
	assert.True(t, pharmacy.IsUnauthorized(err))
}

func TestDrugCRUD(t *testing.T) {
	_, c, _ := setup(t)
	ctx := context.Background()

	exp, _ := models.ParseDate("2027-06-30")
	created, err := c.CreateDrug(ctx, models.DrugInput{Name: "Paracetamol", Amount: 12.5, Unit: "tablet", IsAvailable: true, ExpirationDate: exp})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	updated, err := c.UpdateDrug(ctx, created.ID, models.DrugInput{Name: "Paracetamol 500mg", Amount: 14, Unit: "tablet", IsAvailable: false})
	require.NoError(t, err)
	assert.Equal(t, "Paracetamol 500mg", updated.Name)

	got, err := c.GetDrug(ctx, created.ID)
	require.NoError(t, err)
	assert.InDelta(t, 14.0, got.Amount, 0.001)

	require.NoError(t, c.DeleteDrug(ctx, created.ID))
	_, err = c.GetDrug(ctx, created.ID)
	assert.True(t, pharmacy.IsNotFound(err))
}

func TestQuotationsArePopulated(t *testing.T) {
	fb, c, _ := setup(t)
	ph := fb.AddUser(models.User{Name: "Nimal", Email: "nimal@rx.test", UserType: models.UserTypePharmacist}, "secret1")
	d := fb.AddDrug(models.Drug{Name: "Amoxicillin", Amount: 4})

	created, err := c.CreateQuotation(context.Background(), models.QuotationInput{
		Pharmacist: ph.ID,
		Drugs:      []models.LineItem{{Drug: models.RefTo[models.Drug](d.ID), Quantity: 3}},
		TotalCost:  12,
	})
	require.NoError(t, err)
	assert.Equal(t, models.QuotationPending, created.State)
	assert.Equal(t, "Nimal", created.PharmacistName())
	require.Len(t, created.Drugs, 1)
	require.NotNil(t, created.Drugs[0].Drug.Value)
	assert.Equal(t, "Amoxicillin", created.Drugs[0].Drug.Value.Name)

	q, err := c.UpdateQuotationState(context.Background(), created.ID, models.QuotationApproved)
	require.NoError(t, err)
	assert.Equal(t, models.QuotationApproved, q.State)
	assert.Equal(t, 1, fb.Count("PATCH /quotations/"+created.ID+"/state"))
}

func TestErrorReduction(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   pharmacy.ErrorKind
		want   string
	}{
		{"message string", 400, `{"message":"Drug is required"}`, pharmacy.KindValidation, "Drug is required"},
		{"message list", 400, `{"message":["name should not be empty","amount must be positive"]}`, pharmacy.KindValidation, "name should not be empty, amount must be positive"},
		{"error field", 409, `{"error":"Conflict"}`, pharmacy.KindValidation, "Conflict"},
		{"status text", 502, ``, pharmacy.KindServer, "Bad Gateway"},
		{"non json", 500, `<html>boom</html>`, pharmacy.KindServer, "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := pharmacy.New(srv.URL).ListDrugs(context.Background())
			require.Error(t, err)
			var pe *pharmacy.Error
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.kind, pe.Kind)
			assert.Equal(t, tt.status, pe.StatusCode)
			assert.Equal(t, tt.want, pharmacy.Message(err))
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := pharmacy.New(url).ListUsers(context.Background())
	var pe *pharmacy.Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, pharmacy.KindTransport, pe.Kind)
	assert.NotEmpty(t, pharmacy.Message(err))
}

func TestMetricsRecorded(t *testing.T) {
	fb := fakebackend.New()
	defer fb.Close()
	m := metrics.New()
	u := fb.AddUser(models.User{Name: "A", Email: "a@rx.test", UserType: models.UserTypeAdmin}, "secret1")
	c := pharmacy.New(fb.URL, pharmacy.WithMetrics(m)).WithToken(fb.TokenFor(u.ID))

	_, err := c.ListDrugs(context.Background())
	require.NoError(t, err)
	fb.Fail("GET /users", http.StatusInternalServerError, `{"message":"db down"}`)
	_, err = c.ListUsers(context.Background())
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.BackendRequests.WithLabelValues("drugs", "GET", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BackendRequests.WithLabelValues("users", "GET", "server")))
}

func TestRegister_Conflict(t *testing.T) {
	fb := fakebackend.New()
	defer fb.Close()
	c := pharmacy.New(fb.URL)
	reg := models.Registration{Name: "Sam", Email: "sam@rx.test", Password: "Passw0rd!", UserType: models.UserTypeClient}
	u, err := c.Register(context.Background(), reg)
	require.NoError(t, err)
	assert.Equal(t, models.UserTypeClient, u.UserType)

	_, err = c.Register(context.Background(), reg)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, pharmacy.StatusCode(err))
	assert.Equal(t, "Email already exists", pharmacy.Message(err))
}
