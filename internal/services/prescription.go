package services

import (
	"context"
	"fmt"
	"io"

	"github.com/diewo77/go-pharmacy/internal/blob"
	"github.com/diewo77/go-pharmacy/internal/models"
	"github.com/rs/zerolog"
)

// MaxImages caps the draft image list of a prescription.
const MaxImages = 5

// ImageSet is the list of uploaded image URLs awaiting submission.
type ImageSet struct {
	urls []string
}

// NewImageSet starts from urls, truncated to MaxImages.
func NewImageSet(urls []string) *ImageSet {
	if len(urls) > MaxImages {
		urls = urls[:MaxImages]
	}
	return &ImageSet{urls: append([]string(nil), urls...)}
}

func (s *ImageSet) Len() int       { return len(s.urls) }
func (s *ImageSet) Full() bool     { return len(s.urls) >= MaxImages }
func (s *ImageSet) URLs() []string { return append([]string(nil), s.urls...) }
func (s *ImageSet) Remaining() int { return MaxImages - len(s.urls) }

// Add appends url unless the set is full, in which case it is unchanged.
func (s *ImageSet) Add(url string) error {
	if s.Full() {
		return ErrImageLimit
	}
	s.urls = append(s.urls, url)
	return nil
}

// Remove drops the url at index i. It reports whether i was in range.
func (s *ImageSet) Remove(i int) bool {
	if i < 0 || i >= len(s.urls) {
		return false
	}
	s.urls = append(s.urls[:i], s.urls[i+1:]...)
	return true
}

// PrescriptionBackend is the part of the pharmacy client prescriptions need.
type PrescriptionBackend interface {
	CreatePrescription(ctx context.Context, in models.PrescriptionInput) (*models.Prescription, error)
}

type PrescriptionService struct {
	api   PrescriptionBackend
	blobs blob.Store
}

func NewPrescriptionService(api PrescriptionBackend, blobs blob.Store) *PrescriptionService {
	return &PrescriptionService{api: api, blobs: blobs}
}

// UploadImage stores one image and records its URL in set. A full set is
// rejected before anything is stored.
func (s *PrescriptionService) UploadImage(ctx context.Context, set *ImageSet, name string, r io.Reader) (string, error) {
	if set.Full() {
		return "", ErrImageLimit
	}
	url, err := s.blobs.Put(ctx, name, r)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	if err := set.Add(url); err != nil {
		return "", err
	}
	zerolog.Ctx(ctx).Debug().Str("url", url).Int("count", set.Len()).Msg("prescription image stored")
	return url, nil
}

// Create submits a prescription with the draft images.
func (s *PrescriptionService) Create(ctx context.Context, items []models.LineItem, set *ImageSet, notes string) (*models.Prescription, error) {
	if err := CheckItems(items, 0, MaxPrescriptionItems); err != nil {
		return nil, err
	}
	if set.Len() > MaxImages {
		return nil, ErrImageLimit
	}
	p, err := s.api.CreatePrescription(ctx, models.PrescriptionInput{
		Drugs:  items,
		Images: set.URLs(),
		Notes:  notes,
	})
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Str("prescription", p.ID).Int("items", len(items)).Int("images", set.Len()).Msg("prescription submitted")
	return p, nil
}
