package services

import (
	"context"
	"fmt"

	"github.com/diewo77/go-pharmacy/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// QuotationBackend is the part of the pharmacy client quotations need.
type QuotationBackend interface {
	ListQuotations(ctx context.Context) ([]models.Quotation, error)
	GetQuotation(ctx context.Context, id string) (*models.Quotation, error)
	CreateQuotation(ctx context.Context, in models.QuotationInput) (*models.Quotation, error)
	UpdateQuotation(ctx context.Context, id string, in models.QuotationInput) (*models.Quotation, error)
	UpdateQuotationState(ctx context.Context, id string, state models.QuotationState) (*models.Quotation, error)
	ListDrugs(ctx context.Context) ([]models.Drug, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	ListPrescriptions(ctx context.Context) ([]models.Prescription, error)
}

type QuotationService struct {
	api QuotationBackend
}

func NewQuotationService(api QuotationBackend) *QuotationService {
	return &QuotationService{api: api}
}

// Workspace is everything the quotation management page renders.
type Workspace struct {
	Quotations    []models.Quotation
	Drugs         []models.Drug
	Pharmacists   []models.User
	Prescriptions []models.Prescription
}

// LoadWorkspace fetches the four lists concurrently. If any fetch fails the
// first error is returned with an empty workspace.
func (s *QuotationService) LoadWorkspace(ctx context.Context) (*Workspace, error) {
	var ws Workspace
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		ws.Quotations, err = s.api.ListQuotations(gctx)
		return err
	})
	g.Go(func() (err error) {
		ws.Drugs, err = s.api.ListDrugs(gctx)
		return err
	})
	g.Go(func() error {
		users, err := s.api.ListUsers(gctx)
		ws.Pharmacists = models.Pharmacists(users)
		return err
	})
	g.Go(func() (err error) {
		ws.Prescriptions, err = s.api.ListPrescriptions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("quotation workspace load failed")
		return &Workspace{}, err
	}
	return &ws, nil
}

// QuotationDraft is the editable state of the quotation form.
type QuotationDraft struct {
	ID           string
	Pharmacist   string
	Client       string
	Prescription string
	Items        []models.LineItem
}

// DraftFromPrescription pre-fills a draft from a selected prescription.
func DraftFromPrescription(p models.Prescription) QuotationDraft {
	d := QuotationDraft{
		Client:       p.Client.ID,
		Prescription: p.ID,
		Items:        append([]models.LineItem(nil), p.Drugs...),
	}
	if p.AssignedPharmacist != nil {
		d.Pharmacist = p.AssignedPharmacist.ID
	}
	return d
}

// DraftFromQuotation loads an existing quotation into the form.
func DraftFromQuotation(q models.Quotation) QuotationDraft {
	d := QuotationDraft{
		ID:           q.ID,
		Pharmacist:   q.Pharmacist.ID,
		Prescription: q.PrescriptionID(),
		Items:        append([]models.LineItem(nil), q.Drugs...),
	}
	if q.Client != nil {
		d.Client = q.Client.ID
	}
	return d
}

// SaveResult carries the saved quotation and the refreshed list.
type SaveResult struct {
	Quotation  *models.Quotation
	Quotations []models.Quotation
}

// Save prices the draft against the live catalog, creates or updates the
// quotation and refetches the full list. The refetch error, if any, is
// returned alongside a non-nil result.
func (s *QuotationService) Save(ctx context.Context, d QuotationDraft) (*SaveResult, error) {
	if err := CheckItems(d.Items, MinQuotationItems, MaxQuotationItems); err != nil {
		return nil, err
	}
	drugs, err := s.api.ListDrugs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	total, err := ComputeTotal(d.Items, NewCatalog(drugs))
	if err != nil {
		return nil, err
	}
	in := models.QuotationInput{
		Pharmacist:   d.Pharmacist,
		Client:       d.Client,
		Drugs:        d.Items,
		TotalCost:    total,
		Prescription: d.Prescription,
	}

	var q *models.Quotation
	if d.ID == "" {
		q, err = s.api.CreateQuotation(ctx, in)
	} else {
		q, err = s.api.UpdateQuotation(ctx, d.ID, in)
	}
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Str("quotation", q.ID).Float64("total", total).Msg("quotation saved")

	res := &SaveResult{Quotation: q}
	res.Quotations, err = s.api.ListQuotations(ctx)
	return res, err
}

// MyQuotations lists quotations authored by pharmacistID.
func (s *QuotationService) MyQuotations(ctx context.Context, pharmacistID string) ([]models.Quotation, error) {
	all, err := s.api.ListQuotations(ctx)
	if err != nil {
		return nil, err
	}
	return models.ForPharmacist(all, pharmacistID), nil
}

// Accept moves a pending quotation, as already loaded by the caller, to
// approved and returns the refreshed list for userID. Nothing is sent unless
// the quotation is pending.
func (s *QuotationService) Accept(ctx context.Context, q *models.Quotation, userID string) ([]models.Quotation, error) {
	id := q.ID
	if !CanAccept(*q) {
		return nil, fmt.Errorf("quotation %s is %s: %w", id, q.State, ErrNotPending)
	}
	next, err := NextState(q.State, EventAccept)
	if err != nil {
		return nil, err
	}
	if _, err := s.api.UpdateQuotationState(ctx, id, next); err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Str("quotation", id).Str("state", string(next)).Msg("quotation accepted")
	return s.MyQuotations(ctx, userID)
}
