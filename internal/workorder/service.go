package workorder

import (
	"context"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/shopfloor/internal/labor"
	"github.com/kiranshivaraju/shopfloor/internal/quote"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
)

// SessionLoader fetches an inspection session, cache first.
type SessionLoader interface {
	Get(ctx context.Context, tenantID, id uuid.UUID) (*models.InspectionSession, error)
}

// Quote is the priced output of one inspection session.
type Quote struct {
	SessionID   uuid.UUID              `json:"session_id"`
	VehicleType models.VehicleType     `json:"vehicle_type"`
	LaborHours  float64                `json:"labor_hours_per_line"`
	Lines       []models.QuoteLineItem `json:"lines"`
	Totals      quote.Totals           `json:"totals"`
}

// Service runs the inspection-to-quote-to-lines pipeline.
type Service struct {
	sessions SessionLoader
	writer   *Writer
}

func NewService(sessions SessionLoader, writer *Writer) *Service {
	return &Service{sessions: sessions, writer: writer}
}

// QuoteInspection prices the actionable findings of a session. Every line
// carries the session's structural labor estimate.
func (s *Service) QuoteInspection(ctx context.Context, tenantID, sessionID uuid.UUID) (*Quote, error) {
	session, err := s.sessions.Get(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	return BuildQuote(session), nil
}

// BuildQuote prices a session that is already in hand.
func BuildQuote(session *models.InspectionSession) *Quote {
	hours := labor.ComputeDefaultHours(labor.Input{VehicleType: session.VehicleType, Sections: session.Sections})
	lines := quote.MapSections(session.Sections, &hours)
	return &Quote{
		SessionID:   session.ID,
		VehicleType: session.VehicleType,
		LaborHours:  hours,
		Lines:       lines,
		Totals:      quote.Summarize(lines),
	}
}

// JobsFromQuote turns quote lines into jobs: failed findings become
// inspection-fail jobs and recommendations maintenance jobs.
func JobsFromQuote(lines []models.QuoteLineItem) []models.JobInput {
	return quote.Jobs(lines)
}

// LinesFromInspectionRequest identifies the work order that receives an
// inspection's findings.
type LinesFromInspectionRequest struct {
	TenantID       uuid.UUID
	SessionID      uuid.UUID
	WorkOrderID    uuid.UUID
	VehicleID      uuid.UUID
	IdempotencyKey string
}

// WriteFromInspection quotes the session and writes one line per finding.
// Work order and vehicle ids fall back to the session's when omitted.
func (s *Service) WriteFromInspection(ctx context.Context, req LinesFromInspectionRequest) (*WriteResult, error) {
	session, err := s.sessions.Get(ctx, req.TenantID, req.SessionID)
	if err != nil {
		return nil, err
	}

	workOrderID, vehicleID := req.WorkOrderID, req.VehicleID
	if workOrderID == uuid.Nil && session.WorkOrderID != nil {
		workOrderID = *session.WorkOrderID
	}
	if vehicleID == uuid.Nil && session.VehicleID != nil {
		vehicleID = *session.VehicleID
	}

	q := BuildQuote(session)
	return s.writer.Write(ctx, WriteRequest{
		TenantID:       req.TenantID,
		WorkOrderID:    workOrderID,
		VehicleID:      vehicleID,
		Jobs:           JobsFromQuote(q.Lines),
		IdempotencyKey: req.IdempotencyKey,
		VehicleType:    session.VehicleType,
		Sections:       session.Sections,
	})
}
