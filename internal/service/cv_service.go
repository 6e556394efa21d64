package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Emna-bentorkia/Pfe-Projet-final/internal/domain"
)

type cvService struct {
	cvRepo   domain.CVRepository
	userRepo domain.UserRepository
	renderer domain.Renderer
}

func NewCVService(cvRepo domain.CVRepository, userRepo domain.UserRepository, renderer domain.Renderer) domain.CVService {
	return &cvService{
		cvRepo:   cvRepo,
		userRepo: userRepo,
		renderer: renderer,
	}
}

func (s *cvService) CreateOrUpdate(ctx context.Context, userID uuid.UUID, req *domain.CVUpsertRequest) (*domain.CV, error) {
	req.Summary = domain.SanitizeString(req.Summary)
	req.ContactInfo = domain.SanitizeString(req.ContactInfo)
	if err := domain.ValidateStruct(req); err != nil {
		return nil, err
	}

	now := time.Now()
	cv := &domain.CV{
		ID:          uuid.New(),
		UserID:      userID,
		Summary:     req.Summary,
		ContactInfo: req.ContactInfo,
		IsPublic:    req.IsPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.cvRepo.Upsert(ctx, cv)
}

func (s *cvService) Get(ctx context.Context, userID uuid.UUID) (*domain.CV, error) {
	return s.cvRepo.GetByUserID(ctx, userID)
}

// AddItem appends a typed item to one of the six section sequences. The
// section name is resolved first so an unknown name fails before anything is
// read or written.
func (s *cvService) AddItem(ctx context.Context, userID uuid.UUID, section string, item json.RawMessage) (*domain.CV, error) {
	kind, err := domain.ParseSection(section)
	if err != nil {
		return nil, err
	}

	data, err := domain.DecodeItem(kind, item)
	if err != nil {
		return nil, err
	}

	cv, err := s.cvRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	stored := &domain.CVItem{
		ID:        uuid.New(),
		Section:   kind,
		Data:      data,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.cvRepo.AddItem(ctx, cv.ID, stored); err != nil {
		return nil, err
	}
	return s.cvRepo.GetByUserID(ctx, userID)
}

// UpdateItem merges the patch over the stored item and revalidates the result
// against the section's typed shape before persisting.
func (s *cvService) UpdateItem(ctx context.Context, userID uuid.UUID, section string, itemID uuid.UUID, patch json.RawMessage) (*domain.CV, error) {
	kind, err := domain.ParseSection(section)
	if err != nil {
		return nil, err
	}

	cv, err := s.cvRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var existing *domain.CVItem
	for _, item := range cv.Items(kind) {
		if item.ID == itemID {
			existing = item
			break
		}
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}

	merged, err := mergeItem(existing.Data, patch)
	if err != nil {
		return nil, err
	}
	data, err := domain.DecodeItem(kind, merged)
	if err != nil {
		return nil, err
	}

	if err := s.cvRepo.UpdateItem(ctx, cv.ID, itemID, kind, data); err != nil {
		return nil, err
	}
	return s.cvRepo.GetByUserID(ctx, userID)
}

func (s *cvService) RemoveItem(ctx context.Context, userID uuid.UUID, section string, itemID uuid.UUID) (*domain.CV, error) {
	kind, err := domain.ParseSection(section)
	if err != nil {
		return nil, err
	}

	cv, err := s.cvRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.cvRepo.RemoveItem(ctx, cv.ID, itemID, kind); err != nil {
		return nil, err
	}
	return s.cvRepo.GetByUserID(ctx, userID)
}

// UpdateInfo mutates the shell fields of an existing CV; unlike
// CreateOrUpdate it fails when the account has no CV yet.
func (s *cvService) UpdateInfo(ctx context.Context, userID uuid.UUID, req *domain.CVUpsertRequest) (*domain.CV, error) {
	req.Summary = domain.SanitizeString(req.Summary)
	req.ContactInfo = domain.SanitizeString(req.ContactInfo)
	if err := domain.ValidateStruct(req); err != nil {
		return nil, err
	}

	cv, err := s.cvRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	cv.Summary = req.Summary
	cv.ContactInfo = req.ContactInfo
	cv.IsPublic = req.IsPublic
	cv.UpdatedAt = time.Now()
	return s.cvRepo.Upsert(ctx, cv)
}

func (s *cvService) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.cvRepo.Delete(ctx, userID)
}

func (s *cvService) Export(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	cv, err := s.cvRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.renderer.Render(user, cv)
}

// mergeItem overlays the patch keys onto the stored payload.
func mergeItem(existing, patch json.RawMessage) (json.RawMessage, error) {
	base := map[string]any{}
	if err := json.Unmarshal(existing, &base); err != nil {
		return nil, fmt.Errorf("decode stored item: %w", err)
	}
	overlay := map[string]any{}
	if err := json.Unmarshal(patch, &overlay); err != nil {
		return nil, domain.NewValidationError("updatedItem", "malformed item payload")
	}
	for k, v := range overlay {
		base[k] = v
	}
	return json.Marshal(base)
}
