package main

import (
	"net/http"

	"github.com/diewo77/go-pharmacy/auth"
	"github.com/diewo77/go-pharmacy/gate"
	"github.com/diewo77/go-pharmacy/httpx"
	"github.com/diewo77/go-pharmacy/internal/metrics"
	"github.com/diewo77/go-pharmacy/internal/middleware"
	"github.com/diewo77/go-pharmacy/internal/policy"
	"github.com/diewo77/go-pharmacy/view"
	"github.com/rs/zerolog"
)

// Options are the App settings that do not come from RouterConfig.
type Options struct {
	Log        zerolog.Logger
	Metrics    *metrics.Metrics
	UploadsDir string
	UploadsURL string
	StaticDir  string
}

// App is the main application handler that sets up all routes.
type App struct {
	mux       *http.ServeMux
	routerCfg *policy.RouterConfig
	opts      Options
	handler   http.Handler
}

// NewApp creates a new application with all routes configured.
func NewApp(routerCfg *policy.RouterConfig, opts Options) *App {
	if opts.UploadsURL == "" {
		opts.UploadsURL = "/uploads"
	}
	if opts.StaticDir == "" {
		opts.StaticDir = "static"
	}
	app := &App{mux: http.NewServeMux(), routerCfg: routerCfg, opts: opts}

	// Templates ask the gate through callbacks so view stays free of policy types.
	ag := routerCfg.AuthGate
	view.SetCanProfileResolver(func(r *http.Request, resource, action string) bool {
		return ag.CanProfile(r.Context(), gate.Action(action), resource)
	})
	view.SetIsAdminResolver(func(r *http.Request) bool {
		return ag.IsAdmin(r.Context(), policy.SubjectFromContext(r.Context()))
	})
	view.SetIsStaffResolver(func(r *http.Request) bool { return ag.IsStaff(r.Context()) })
	view.SetFlashResolver(func(r *http.Request) any { return middleware.FlashFrom(r) })

	app.setupRoutes()

	var h http.Handler = app.mux
	h = routerCfg.Sessions.Middleware(h)
	h = middleware.Flashes(h)
	h = middleware.Prefs(h)
	h = middleware.RequestLog(opts.Log, opts.Metrics, app.mux)(h)
	app.handler = h
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

func (a *App) setupRoutes() {
	// Public
	ah := a.routerCfg.AuthHandler
	a.mux.HandleFunc("GET /login", ah.Login)
	a.mux.HandleFunc("POST /login", ah.Login)
	a.mux.HandleFunc("GET /register", ah.Register)
	a.mux.HandleFunc("POST /register", ah.Register)
	a.mux.HandleFunc("GET /logout", ah.Logout)
	a.mux.HandleFunc("POST /logout", ah.Logout)
	a.mux.HandleFunc("GET /health", a.health)
	if a.opts.Metrics != nil {
		a.mux.Handle("GET /metrics", a.opts.Metrics.Handler())
	}

	// Client pages
	ph := a.routerCfg.PrescriptionHandler
	a.mux.Handle("GET /{$}", a.requireAuth(http.HandlerFunc(a.home)))
	a.mux.Handle("POST /prescriptions",
		a.requireAuth(a.requirePermission("prescription", gate.ActionCreate)(http.HandlerFunc(ph.Create))))
	a.mux.Handle("POST /prescriptions/images",
		a.requireAuth(a.requirePermission("prescription", gate.ActionCreate)(http.HandlerFunc(ph.UploadImage))))
	a.mux.Handle("POST /prescriptions/images/{index}/delete",
		a.requireAuth(a.requirePermission("prescription", gate.ActionCreate)(http.HandlerFunc(ph.RemoveImage))))

	pr := a.routerCfg.ProfileHandler
	a.mux.Handle("GET /profile",
		a.requireAuth(a.requirePermission("profile", gate.ActionView)(http.HandlerFunc(pr.Edit))))
	a.mux.Handle("POST /profile",
		a.requireAuth(a.requirePermission("profile", gate.ActionUpdate)(http.HandlerFunc(pr.Update))))

	mq := a.routerCfg.MyQuotationHandler
	a.mux.Handle("GET /quotations",
		a.requireAuth(a.requirePermission("quotation", gate.ActionList)(http.HandlerFunc(mq.List))))
	a.mux.Handle("GET /quotations/{id}",
		a.requireAuth(a.requirePermission("quotation", gate.ActionView)(http.HandlerFunc(mq.View))))
	a.mux.Handle("POST /quotations/{id}/accept",
		a.requireAuth(a.requirePermission("quotation", gate.ActionApprove)(http.HandlerFunc(mq.Accept))))

	// Admin area: staff only, then per-resource permissions
	a.mux.Handle("GET /admin", a.requireStaff(http.RedirectHandler("/admin/users", http.StatusSeeOther)))

	uh := a.routerCfg.UserHandler
	a.mux.Handle("GET /admin/users", a.admin("user", gate.ActionList, uh.List))

	dh := a.routerCfg.DrugHandler
	xh := a.routerCfg.ExportHandler
	a.mux.Handle("GET /admin/drugs", a.admin("drug", gate.ActionList, dh.List))
	a.mux.Handle("GET /admin/drugs/new", a.admin("drug", gate.ActionCreate, dh.New))
	a.mux.Handle("POST /admin/drugs", a.admin("drug", gate.ActionCreate, dh.Create))
	a.mux.Handle("GET /admin/drugs/export", a.admin("drug", gate.ActionExport, xh.Drugs))
	a.mux.Handle("GET /admin/drugs/{id}/edit", a.admin("drug", gate.ActionUpdate, dh.Edit))
	a.mux.Handle("POST /admin/drugs/{id}", a.admin("drug", gate.ActionUpdate, dh.Update))
	a.mux.Handle("POST /admin/drugs/{id}/delete", a.admin("drug", gate.ActionDelete, dh.Delete))

	aph := a.routerCfg.AdminPrescriptionHandler
	a.mux.Handle("GET /admin/prescriptions", a.admin("prescription", gate.ActionList, aph.List))
	a.mux.Handle("GET /admin/prescriptions/{id}/images", a.admin("prescription", gate.ActionView, aph.Images))
	a.mux.Handle("POST /admin/prescriptions/{id}/status", a.admin("prescription", gate.ActionUpdate, aph.UpdateStatus))
	a.mux.Handle("POST /admin/prescriptions/{id}/delete", a.admin("prescription", gate.ActionDelete, aph.Delete))

	aqh := a.routerCfg.AdminQuotationHandler
	a.mux.Handle("GET /admin/quotations", a.admin("quotation", gate.ActionList, aqh.List))
	a.mux.Handle("GET /admin/quotations/new", a.admin("quotation", gate.ActionCreate, aqh.New))
	a.mux.Handle("POST /admin/quotations", a.admin("quotation", gate.ActionCreate, aqh.Create))
	a.mux.Handle("GET /admin/quotations/export", a.admin("quotation", gate.ActionExport, xh.Quotations))
	a.mux.Handle("GET /admin/quotations/{id}", a.admin("quotation", gate.ActionView, aqh.View))
	a.mux.Handle("GET /admin/quotations/{id}/edit", a.admin("quotation", gate.ActionUpdate, aqh.Edit))
	a.mux.Handle("POST /admin/quotations/{id}", a.admin("quotation", gate.ActionUpdate, aqh.Update))
	a.mux.Handle("POST /admin/quotations/{id}/delete", a.admin("quotation", gate.ActionDelete, aqh.Delete))

	// Files
	a.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(a.opts.StaticDir))))
	if a.opts.UploadsDir != "" {
		prefix := a.opts.UploadsURL + "/"
		a.mux.Handle("GET "+prefix, http.StripPrefix(prefix, http.FileServer(http.Dir(a.opts.UploadsDir))))
	}
}

func (a *App) requireAuth(next http.Handler) http.Handler {
	return auth.RequireAuth(next)
}

func (a *App) requireStaff(next http.Handler) http.Handler {
	return a.requireAuth(a.routerCfg.AuthGate.RequireStaff()(next))
}

func (a *App) requirePermission(resourceType string, action gate.Action) func(http.Handler) http.Handler {
	return a.routerCfg.AuthGate.RequirePermission(resourceType, action)
}

// admin guards an admin page: session, staff profile, then the permission.
func (a *App) admin(resourceType string, action gate.Action, h http.HandlerFunc) http.Handler {
	return a.requireStaff(a.requirePermission(resourceType, action)(h))
}

// home sends staff to the admin area and shows clients the prescription page.
func (a *App) home(w http.ResponseWriter, r *http.Request) {
	if a.routerCfg.AuthGate.IsStaff(r.Context()) {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	a.routerCfg.PrescriptionHandler.Home(w, r)
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
