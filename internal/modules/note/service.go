package note

import (
	"context"
	"errors"
	"strings"

	"github.com/notewise/core/internal/models"
	"github.com/notewise/core/internal/modules/ai"
	"gorm.io/gorm"
)

// Enricher is the AI dependency of note creation, injected so tests can
// substitute a fake gateway. It never returns an error: enrichment is
// best-effort by contract.
type Enricher interface {
	Analyze(ctx context.Context, content, title string) ai.Analysis
}

type Service struct {
	db *gorm.DB
	ai Enricher
}

func NewService(db *gorm.DB, enricher Enricher) *Service {
	return &Service{db: db, ai: enricher}
}

// List returns the user's notes, most recently updated first.
func (s *Service) List(ctx context.Context, userID string) ([]models.NoteModel, error) {
	var notes []models.NoteModel
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&notes).Error
	return notes, err
}

// ListRefs projects the user's notes into related-note candidates.
func (s *Service) ListRefs(ctx context.Context, userID string) ([]ai.NoteRef, error) {
	notes, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	refs := make([]ai.NoteRef, len(notes))
	for i, n := range notes {
		refs[i] = ai.NoteRef{ID: n.ID, Title: n.Title, Content: n.Content}
	}
	return refs, nil
}

// GetByID returns the note if it exists and belongs to the user, nil otherwise.
func (s *Service) GetByID(ctx context.Context, id, userID string) (*models.NoteModel, error) {
	var n models.NoteModel
	err := s.db.WithContext(ctx).First(&n, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

// Create validates, enriches best-effort and persists a new note. An
// enrichment problem never blocks creation: the gateway falls back
// internally, and without a gateway the note is stored with empty tags.
func (s *Service) Create(ctx context.Context, userID string, dto CreateNoteDTO) (*NoteWithAnalysis, error) {
	if strings.TrimSpace(dto.Title) == "" || strings.TrimSpace(dto.Content) == "" {
		return nil, ErrMissingFields
	}

	n := models.NoteModel{
		UserID:  userID,
		Title:   dto.Title,
		Content: dto.Content,
		Tags:    models.StringArray{},
		Topics:  models.StringArray{},
	}

	var analysis *ai.Analysis
	if s.ai != nil {
		a := s.ai.Analyze(ctx, dto.Content, dto.Title)
		n.Tags = toStringArray(a.Tags)
		n.Topics = toStringArray(a.Topics)
		analysis = &a
	}

	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		return nil, err
	}
	return &NoteWithAnalysis{NoteModel: n, Analysis: analysis}, nil
}

// Update replaces title and content (and tags when supplied). It does not
// re-run enrichment.
func (s *Service) Update(ctx context.Context, id, userID string, dto UpdateNoteDTO) (*models.NoteModel, error) {
	n, err := s.GetByID(ctx, id, userID)
	if err != nil || n == nil {
		return n, err
	}

	n.Title = dto.Title
	n.Content = dto.Content
	if dto.Tags != nil {
		n.Tags = toStringArray(*dto.Tags)
	}
	if err := s.db.WithContext(ctx).Save(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// PatchTags overwrites only the supplied fields; omitted fields keep their
// persisted value.
func (s *Service) PatchTags(ctx context.Context, id, userID string, dto PatchTagsDTO) (*models.NoteModel, error) {
	n, err := s.GetByID(ctx, id, userID)
	if err != nil || n == nil {
		return n, err
	}

	updates := map[string]interface{}{}
	if dto.Tags != nil {
		n.Tags = toStringArray(*dto.Tags)
		updates["tags"] = n.Tags
	}
	if dto.Topics != nil {
		n.Topics = toStringArray(*dto.Topics)
		updates["topics"] = n.Topics
	}
	if len(updates) == 0 {
		return n, nil
	}

	if err := s.db.WithContext(ctx).Model(n).Updates(updates).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// Delete removes the note iff it belongs to the user. Returns false when
// nothing matched.
func (s *Service) Delete(ctx context.Context, id, userID string) (bool, error) {
	result := s.db.WithContext(ctx).Delete(&models.NoteModel{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func toStringArray(items []string) models.StringArray {
	if items == nil {
		return models.StringArray{}
	}
	return models.StringArray(items)
}
