package inspection

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/shopfloor/internal/apperr"
	"github.com/kiranshivaraju/shopfloor/internal/store"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
)

// SessionStore is the persistence the service needs.
type SessionStore interface {
	UpsertInspection(ctx context.Context, s *models.InspectionSession) error
	GetInspection(ctx context.Context, id, tenantID uuid.UUID) (*models.InspectionSession, error)
}

// Generator produces checklist categories from a prompt. Failures are
// reported as an empty result.
type Generator interface {
	GenerateInspectionList(ctx context.Context, prompt string) []models.InspectionCategory
}

// CreateParams holds the inputs for a new inspection session.
type CreateParams struct {
	TenantID    uuid.UUID
	VehicleType models.VehicleType
	VehicleID   *uuid.UUID
	WorkOrderID *uuid.UUID
	// Prompt, when set, asks the generator for the checklist instead of the
	// built-in template.
	Prompt string
}

// Service manages inspection sessions: creation from templates, item
// updates, and load-through caching.
type Service struct {
	store     SessionStore
	sessions  *SessionCache
	generator Generator
}

// NewService creates a Service. generator may be nil.
func NewService(st SessionStore, sessions *SessionCache, generator Generator) *Service {
	return &Service{store: st, sessions: sessions, generator: generator}
}

// Create builds a session from the vehicle template (or the generator when a
// prompt is given) and persists it.
func (s *Service) Create(ctx context.Context, p CreateParams) (*models.InspectionSession, error) {
	if p.TenantID == uuid.Nil {
		return nil, apperr.Validation("create inspection", "tenant_id", "is required")
	}

	sections := Sections(p.VehicleType)
	template := TemplateName(p.VehicleType)
	if strings.TrimSpace(p.Prompt) != "" && s.generator != nil {
		if generated := FromCategories(s.generator.GenerateInspectionList(ctx, p.Prompt)); len(generated) > 0 {
			sections = append(generated, AxleSections(p.VehicleType)...)
			template = "generated"
		}
	}

	now := time.Now().UTC()
	session := &models.InspectionSession{
		ID:           uuid.New(),
		TenantID:     p.TenantID,
		VehicleID:    p.VehicleID,
		WorkOrderID:  p.WorkOrderID,
		VehicleType:  p.VehicleType,
		TemplateName: template,
		Status:       models.SessionInProgress,
		Sections:     sections,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get loads a session, preferring the cache.
func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*models.InspectionSession, error) {
	if cached, ok, err := s.sessions.Get(ctx, tenantID, id); err != nil {
		slog.Warn("inspection cache read failed", "error", err, "session_id", id)
	} else if ok {
		return cached, nil
	}

	session, err := s.store.GetInspection(ctx, id, tenantID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("get inspection", err)
	}
	if err != nil {
		return nil, apperr.Dependency("get inspection", err)
	}

	if err := s.sessions.Put(ctx, session); err != nil {
		slog.Warn("inspection cache write failed", "error", err, "session_id", id)
	}
	return session, nil
}

// Replace overwrites the sections of an existing session. Photos on items
// that are not fail or recommend are dropped.
func (s *Service) Replace(ctx context.Context, tenantID, id uuid.UUID, sections []models.InspectionSection, status string) (*models.InspectionSession, error) {
	session, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionCompleted && status != models.SessionInProgress {
		return nil, apperr.Conflict("replace inspection", "inspection is completed")
	}

	for si := range sections {
		for ii := range sections[si].Items {
			item := &sections[si].Items[ii]
			st, err := ParseStatus(string(item.Status))
			if err != nil {
				return nil, err
			}
			SetStatus(item, st)
			if item.PhotoURLs == nil {
				item.PhotoURLs = []string{}
			}
		}
	}

	switch status {
	case "":
	case models.SessionInProgress, models.SessionCompleted:
		session.Status = status
	default:
		return nil, apperr.Validation("replace inspection", "status", "must be in_progress or completed")
	}

	session.Sections = sections
	session.UpdatedAt = time.Now().UTC()
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// UpdateItems applies a batch of item updates. Every update is validated
// against a copy first, so a bad update leaves the session unchanged.
func (s *Service) UpdateItems(ctx context.Context, tenantID, id uuid.UUID, updates []ItemUpdate) (*models.InspectionSession, error) {
	session, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionCompleted {
		return nil, apperr.Conflict("update inspection", "inspection is completed")
	}

	sections := cloneSections(session.Sections)
	for _, u := range updates {
		if err := Apply(sections, u); err != nil {
			return nil, err
		}
	}

	session.Sections = sections
	session.UpdatedAt = time.Now().UTC()
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Service) save(ctx context.Context, session *models.InspectionSession) error {
	if err := s.store.UpsertInspection(ctx, session); err != nil {
		return apperr.Dependency("save inspection", err)
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		slog.Warn("inspection cache write failed", "error", err, "session_id", session.ID)
	}
	return nil
}

func cloneSections(in []models.InspectionSection) []models.InspectionSection {
	out := make([]models.InspectionSection, len(in))
	for i, s := range in {
		out[i] = cloneSection(s)
	}
	return out
}
