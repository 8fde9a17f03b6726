package policy

import (
	"github.com/diewo77/go-pharmacy/auth"
	"github.com/diewo77/go-pharmacy/internal/blob"
	"github.com/diewo77/go-pharmacy/internal/handlers"
	"github.com/diewo77/go-pharmacy/internal/pharmacy"
)

// Deps are the shared collaborators every handler is built from.
type Deps struct {
	API            *pharmacy.Client
	Sessions       *auth.Manager
	Blobs          blob.Store
	MaxUploadBytes int64
}

// RouterConfig holds the configured gate and handlers for the router.
type RouterConfig struct {
	AuthGate *AuthGate
	Sessions *auth.Manager

	// Public and client pages
	AuthHandler         *handlers.AuthHandler
	PrescriptionHandler *handlers.PrescriptionHandler
	ProfileHandler      *handlers.ProfileHandler
	MyQuotationHandler  *handlers.MyQuotationHandler

	// Admin pages
	UserHandler              *handlers.UserHandler
	DrugHandler              *handlers.DrugHandler
	AdminPrescriptionHandler *handlers.AdminPrescriptionHandler
	AdminQuotationHandler    *handlers.AdminQuotationHandler
	ExportHandler            *handlers.ExportHandler
}

// NewRouterConfig wires the authorization gate and every handler.
func NewRouterConfig(d Deps) *RouterConfig {
	ag := NewAuthGate()
	return &RouterConfig{
		AuthGate: ag,
		Sessions: d.Sessions,

		AuthHandler:         handlers.NewAuthHandler(d.API, d.Sessions),
		PrescriptionHandler: handlers.NewPrescriptionHandler(d.API, d.Sessions, d.Blobs, d.MaxUploadBytes),
		ProfileHandler:      handlers.NewProfileHandler(d.API, d.Sessions),
		MyQuotationHandler:  handlers.NewMyQuotationHandler(d.API, ag),

		UserHandler:              handlers.NewUserHandler(d.API),
		DrugHandler:              handlers.NewDrugHandler(d.API),
		AdminPrescriptionHandler: handlers.NewAdminPrescriptionHandler(d.API),
		AdminQuotationHandler:    handlers.NewAdminQuotationHandler(d.API),
		ExportHandler:            handlers.NewExportHandler(d.API),
	}
}
