package main

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/go-pharmacy/auth"
	"github.com/diewo77/go-pharmacy/internal/blob"
	"github.com/diewo77/go-pharmacy/internal/db"
	"github.com/diewo77/go-pharmacy/internal/export"
	"github.com/diewo77/go-pharmacy/internal/metrics"
	"github.com/diewo77/go-pharmacy/internal/models"
	"github.com/diewo77/go-pharmacy/internal/pharmacy"
	"github.com/diewo77/go-pharmacy/internal/pharmacy/fakebackend"
	"github.com/diewo77/go-pharmacy/internal/policy"
	"github.com/diewo77/go-pharmacy/internal/session"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fixture struct {
	fb         *fakebackend.Server
	app        *App
	store      *session.GormStore
	client     models.User
	pharmacist models.User
	drug       models.Drug
}

func setup(t *testing.T) *fixture {
	t.Helper()
	fb := fakebackend.New()
	t.Cleanup(fb.Close)

	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	store := session.NewGormStore(conn)

	uploads := t.TempDir()
	blobs, err := blob.NewFileStore(uploads, "/uploads")
	require.NoError(t, err)

	rc := policy.NewRouterConfig(policy.Deps{
		API:            pharmacy.New(fb.URL),
		Sessions:       auth.NewManager(store, "test-secret", time.Hour, false),
		Blobs:          blobs,
		MaxUploadBytes: 1 << 20,
	})
	app := NewApp(rc, Options{Log: zerolog.Nop(), Metrics: metrics.New(), UploadsDir: uploads})

	return &fixture{
		fb:         fb,
		app:        app,
		store:      store,
		client:     fb.AddUser(models.User{Name: "Nimal Perera", Email: "nimal@rx.test", UserType: models.UserTypeClient}, "Secret1!"),
		pharmacist: fb.AddUser(models.User{Name: "Dr Silva", Email: "silva@rx.test", UserType: models.UserTypePharmacist}, "Secret1!"),
		drug:       fb.AddDrug(models.Drug{Name: "Paracetamol", Amount: 12.5, Unit: "tablet", IsAvailable: true}),
	}
}

// do sends one request through the full middleware stack.
func (f *fixture) do(t *testing.T, method, target string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.app.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) []*http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" && c.Value != "" {
			return []*http.Cookie{c}
		}
	}
	t.Fatalf("no session cookie in response (status %d)", rec.Code)
	return nil
}

func (f *fixture) login(t *testing.T, email string) []*http.Cookie {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/login", url.Values{"email": {email}, "password": {"Secret1!"}}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	return sessionCookie(t, rec)
}

func TestLogin_RoutesByUserType(t *testing.T) {
	f := setup(t)

	rec := f.do(t, http.MethodPost, "/login", url.Values{"email": {"nimal@rx.test"}, "password": {"Secret1!"}}, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = f.do(t, http.MethodPost, "/login", url.Values{"email": {"silva@rx.test"}, "password": {"Secret1!"}}, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))
}

func TestLogin_InvalidFormNeverReachesBackend(t *testing.T) {
	f := setup(t)
	rec := f.do(t, http.MethodPost, "/login", url.Values{"email": {"not-an-email"}, "password": {"123"}}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Enter a valid email address")
	assert.Zero(t, f.fb.Count("POST /auth/login"))
}

func TestLogin_BackendRejection(t *testing.T) {
	f := setup(t)
	rec := f.do(t, http.MethodPost, "/login", url.Values{"email": {"nimal@rx.test"}, "password": {"Wrong1!x"}}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
}

func TestProtectedPagesRedirectBeforeFetching(t *testing.T) {
	f := setup(t)
	for _, path := range []string{"/", "/quotations", "/profile", "/admin/drugs"} {
		rec := f.do(t, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/login", rec.Header().Get("Location"), path)
	}
	assert.Empty(t, f.fb.Requests())
}

func TestTamperedCookieIsIgnored(t *testing.T) {
	f := setup(t)
	cookies := f.login(t, "nimal@rx.test")
	cookies[0].Value += "x"
	rec := f.do(t, http.MethodGet, "/quotations", nil, cookies)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestClientKeptOutOfAdmin(t *testing.T) {
	f := setup(t)
	cookies := f.login(t, "nimal@rx.test")
	rec := f.do(t, http.MethodGet, "/admin/drugs", nil, cookies)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Zero(t, f.fb.Count("GET /drugs"))
}

func TestStaffHomeRedirectsToAdmin(t *testing.T) {
	f := setup(t)
	cookies := f.login(t, "silva@rx.test")
	rec := f.do(t, http.MethodGet, "/", nil, cookies)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))

	rec = f.do(t, http.MethodGet, "/admin", nil, cookies)
	assert.Equal(t, "/admin/users", rec.Header().Get("Location"))
}

func TestClientHomeListsDrugs(t *testing.T) {
	f := setup(t)
	cookies := f.login(t, "nimal@rx.test")
	rec := f.do(t, http.MethodGet, "/", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Paracetamol")
	assert.Contains(t, rec.Body.String(), "LKR 12.50")
}

func TestRegister_ForcesClientType(t *testing.T) {
	f := setup(t)
	form := url.Values{
		"name":        {"Kamala"},
		"email":       {"kamala@rx.test"},
		"password":    {"Str0ng!pw"},
		"confirm":     {"Str0ng!pw"},
		"address":     {"12 Galle Road, Colombo"},
		"contactNo":   {"0771234567"},
		"dateOfBirth": {"1990-04-01"},
		"userType":    {"admin"},
	}
	rec := f.do(t, http.MethodPost, "/register", form, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = f.do(t, http.MethodPost, "/login", url.Values{"email": {"kamala@rx.test"}, "password": {"Str0ng!pw"}}, nil)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestRegister_Validation(t *testing.T) {
	f := setup(t)
	form := url.Values{
		"name":        {"K"},
		"email":       {"kamala@rx.test"},
		"password":    {"weakpass"},
		"confirm":     {"other"},
		"address":     {""},
		"contactNo":   {"12345"},
		"dateOfBirth": {"2999-01-01"},
	}
	rec := f.do(t, http.MethodPost, "/register", form, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	for _, msg := range []string{"Too short", "Password must contain", "Passwords do not match", "Required", "exactly 10 digits", "cannot be in the future"} {
		assert.Contains(t, body, msg)
	}
	assert.Zero(t, f.fb.Count("POST /auth/register"))
}

func upload(t *testing.T, f *fixture, cookies []*http.Cookie, name string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", name)
	require.NoError(t, err)
	_, _ = fw.Write(content)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/prescriptions/images", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.app.ServeHTTP(rec, req)
	return rec
}

func TestPrescriptionSubmission(t *testing.T) {
	f := setup(t)
	cookies := f.login(t, "nimal@rx.test")

	for i := 0; i < 5; i++ {
		rec := upload(t, f, cookies, "scan.png", []byte("png-bytes"))
		require.Equal(t, http.StatusSeeOther, rec.Code)
	}
	// sixth image is refused and nothing changes
	rec := upload(t, f, cookies, "scan.png", []byte("png-bytes"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, flashValue(rec), "Maximum+5+images")

	id, ok := authManagerFor(f).ParseCookie(requestWith(cookies))
	require.True(t, ok)
	s, err := f.store.Get(t.Context(), id)
	require.NoError(t, err)
	require.Len(t, s.DraftImages, 5)
	assert.True(t, strings.HasPrefix(s.DraftImages[0], "/uploads/prescriptions/"))

	rec = f.do(t, http.MethodPost, "/prescriptions/images/4/delete", url.Values{}, cookies)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	form := url.Values{
		"drug":     {f.drug.ID, "", ""},
		"quantity": {"2", "1", ""},
		"notes":    {"after meals"},
	}
	rec = f.do(t, http.MethodPost, "/prescriptions", form, cookies)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	require.Equal(t, 1, f.fb.Count("POST /prescriptions"))
	s, err = f.store.Get(t.Context(), id)
	require.NoError(t, err)
	assert.Empty(t, s.DraftImages)

	rec = f.do(t, http.MethodGet, "/admin/prescriptions", nil, f.login(t, "silva@rx.test"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "after meals")
	assert.Contains(t, rec.Body.String(), "Paracetamol x2")
}

func TestQuotationCreate_PricesFromCatalog(t *testing.T) {
	f := setup(t)
	p := f.fb.AddPrescription(models.Prescription{
		Client: models.RefTo[models.User](f.client.ID),
		Drugs:  []models.LineItem{{Drug: models.RefTo[models.Drug](f.drug.ID), Quantity: 2}},
	})
	cookies := f.login(t, "silva@rx.test")

	rec := f.do(t, http.MethodGet, "/admin/quotations/new?prescription="+p.ID, nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="`+f.client.ID+`"`)

	form := url.Values{
		"prescription": {p.ID},
		"pharmacist":   {f.pharmacist.ID},
		"drug":         {f.drug.ID},
		"quantity":     {"3"},
	}
	rec = f.do(t, http.MethodPost, "/admin/quotations", form, cookies)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	loc := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(loc, "/admin/quotations/"))

	q, ok := f.fb.Quotation(strings.TrimPrefix(loc, "/admin/quotations/"))
	require.True(t, ok)
	assert.InDelta(t, 37.5, q.TotalCost, 1e-9)
	assert.Equal(t, f.client.ID, q.Client.ID)
	assert.Equal(t, models.QuotationPending, q.State)
}

func TestQuotationCreate_NeedsItems(t *testing.T) {
	f := setup(t)
	cookies := f.login(t, "silva@rx.test")
	rec := f.do(t, http.MethodPost, "/admin/quotations", url.Values{"pharmacist": {f.pharmacist.ID}}, cookies)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Select a prescription")
	assert.Contains(t, rec.Body.String(), "Add at least one drug")
	assert.Zero(t, f.fb.Count("POST /quotations"))
}

func TestQuotationUpdate_WithoutPrescription(t *testing.T) {
	f := setup(t)
	q := f.fb.AddQuotation(models.Quotation{
		Pharmacist: models.RefTo[models.User](f.pharmacist.ID),
		Drugs:      []models.LineItem{{Drug: models.RefTo[models.Drug](f.drug.ID), Quantity: 1}},
		TotalCost:  12.5,
	})
	cookies := f.login(t, "silva@rx.test")

	rec := f.do(t, http.MethodGet, "/admin/quotations/"+q.ID+"/edit", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	form := url.Values{
		"prescription": {""},
		"client":       {""},
		"pharmacist":   {f.pharmacist.ID},
		"drug":         {f.drug.ID},
		"quantity":     {"4"},
	}
	rec = f.do(t, http.MethodPost, "/admin/quotations/"+q.ID, form, cookies)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/quotations/"+q.ID, rec.Header().Get("Location"))
	assert.Equal(t, 1, f.fb.Count("PATCH /quotations/"+q.ID))

	got, ok := f.fb.Quotation(q.ID)
	require.True(t, ok)
	assert.InDelta(t, 50.0, got.TotalCost, 1e-9)
	assert.Nil(t, got.Prescription)
	for _, req := range f.fb.Requests() {
		assert.False(t, strings.HasPrefix(req, "GET /prescriptions/"), req)
	}
}

func TestAcceptQuotation(t *testing.T) {
	f := setup(t)
	q := f.fb.AddQuotation(models.Quotation{
		Pharmacist: models.RefTo[models.User](f.pharmacist.ID),
		Drugs:      []models.LineItem{{Drug: models.RefTo[models.Drug](f.drug.ID), Quantity: 1}},
		TotalCost:  12.5,
	})
	cookies := f.login(t, "silva@rx.test")

	rec := f.do(t, http.MethodGet, "/quotations", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/quotations/"+q.ID+"/accept")

	rec = f.do(t, http.MethodPost, "/quotations/"+q.ID+"/accept", url.Values{}, cookies)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	got, _ := f.fb.Quotation(q.ID)
	assert.Equal(t, models.QuotationApproved, got.State)
	assert.Equal(t, 1, f.fb.Count("GET /quotations/"+q.ID), "quotation loaded once per accept")

	rec = f.do(t, http.MethodGet, "/quotations/"+q.ID, nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "disabled")

	rec = f.do(t, http.MethodPost, "/quotations/"+q.ID+"/accept", url.Values{}, cookies)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, flashValue(rec), "Only+pending")
	assert.Equal(t, 1, f.fb.Count("PATCH /quotations/"+q.ID+"/state"))
}

func TestAcceptQuotation_JSONConflict(t *testing.T) {
	f := setup(t)
	q := f.fb.AddQuotation(models.Quotation{Pharmacist: models.RefTo[models.User](f.pharmacist.ID), State: models.QuotationApproved, TotalCost: 5})
	cookies := f.login(t, "silva@rx.test")

	req := httptest.NewRequest(http.MethodPost, "/quotations/"+q.ID+"/accept", nil)
	req.Header.Set("Accept", "application/json")
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	f.app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"quotation_not_pending","details":"Only pending quotations can be accepted"}`, rec.Body.String())
	assert.Zero(t, f.fb.Count("PATCH /quotations/"+q.ID+"/state"))
}

func TestAcceptQuotation_OtherPharmacistForbidden(t *testing.T) {
	f := setup(t)
	other := f.fb.AddUser(models.User{Name: "Dr Fernando", Email: "fernando@rx.test", UserType: models.UserTypePharmacist}, "Secret1!")
	q := f.fb.AddQuotation(models.Quotation{Pharmacist: models.RefTo[models.User](other.ID), TotalCost: 5})
	cookies := f.login(t, "silva@rx.test")

	rec := f.do(t, http.MethodPost, "/quotations/"+q.ID+"/accept", url.Values{}, cookies)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, flashValue(rec), "not+allowed")
	assert.Zero(t, f.fb.Count("PATCH /quotations/"+q.ID+"/state"))
}

func TestDrugCreate_JSON(t *testing.T) {
	f := setup(t)
	cookies := f.login(t, "silva@rx.test")
	req := httptest.NewRequest(http.MethodPost, "/admin/drugs", strings.NewReader(`{"name":"Amoxicillin","amount":40,"unit":"capsule","isAvailable":true,"expirationDate":"2030-01-31"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	f.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Amoxicillin"`)
	assert.Contains(t, rec.Body.String(), `"expirationDate":"2030-01-31"`)
}

func TestDrugCreate_FormValidation(t *testing.T) {
	f := setup(t)
	cookies := f.login(t, "silva@rx.test")
	rec := f.do(t, http.MethodPost, "/admin/drugs", url.Values{"name": {""}, "amount": {"0"}, "expirationDate": {"31/01/2030"}}, cookies)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Must be greater than zero")
	assert.Contains(t, rec.Body.String(), "Enter a valid date")
	assert.Contains(t, rec.Body.String(), `<option value="capsule">`)
	assert.Zero(t, f.fb.Count("POST /drugs"))
}

func TestDrugCreate_UnitMustBeListed(t *testing.T) {
	f := setup(t)
	cookies := f.login(t, "silva@rx.test")
	req := httptest.NewRequest(http.MethodPost, "/admin/drugs", strings.NewReader(`{"name":"Syrup","amount":5,"unit":"bottle"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	f.app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"unit":"invalid_choice"`)

	rec = f.do(t, http.MethodPost, "/admin/drugs", url.Values{"name": {"Syrup"}, "amount": {"5"}}, cookies)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Zero(t, f.fb.Count("POST /drugs"))
}

func TestExportDrugs(t *testing.T) {
	f := setup(t)
	cookies := f.login(t, "silva@rx.test")
	rec := f.do(t, http.MethodGet, "/admin/drugs/export", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "drugs-")
	assert.NotZero(t, rec.Body.Len())
}

func TestLogoutDestroysSession(t *testing.T) {
	f := setup(t)
	cookies := f.login(t, "nimal@rx.test")
	rec := f.do(t, http.MethodPost, "/logout", url.Values{}, cookies)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = f.do(t, http.MethodGet, "/quotations", nil, cookies)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestExpiredBackendTokenEndsSession(t *testing.T) {
	f := setup(t)
	cookies := f.login(t, "nimal@rx.test")
	f.fb.Fail("GET /drugs", http.StatusUnauthorized, `{"statusCode":401,"message":"Unauthorized"}`)
	rec := f.do(t, http.MethodGet, "/", nil, cookies)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestHealthAndMetrics(t *testing.T) {
	f := setup(t)
	rec := f.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pharmacy_console_requests_total")
}

func flashValue(rec *httptest.ResponseRecorder) string {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "flash" && c.Value != "" {
			return c.Value
		}
	}
	return ""
}

func authManagerFor(f *fixture) *auth.Manager {
	return auth.NewManager(f.store, "test-secret", time.Hour, false)
}

func requestWith(cookies []*http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}
