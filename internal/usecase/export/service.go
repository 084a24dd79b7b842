package export

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/simaogato/advisory-backend/internal/domain"
	"github.com/simaogato/advisory-backend/internal/usecase/dashboard"
)

// SnapshotLoader reads the full record set the dashboard is computed from
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context) (*dashboard.Snapshot, error)
}

// ExportService produces CSV extracts and the dashboard workbook
type ExportService struct {
	ClientRepo     domain.ClientRepository
	AllocationRepo domain.AllocationRepository
	MovementRepo   domain.MovementRepository
	Snapshots      SnapshotLoader
	logger         zerolog.Logger
}

// NewExportService creates a new ExportService instance
func NewExportService(
	clientRepo domain.ClientRepository,
	allocationRepo domain.AllocationRepository,
	movementRepo domain.MovementRepository,
	snapshots SnapshotLoader,
	logger zerolog.Logger,
) *ExportService {
	return &ExportService{
		ClientRepo:     clientRepo,
		AllocationRepo: allocationRepo,
		MovementRepo:   movementRepo,
		Snapshots:      snapshots,
		logger:         logger.With().Str("component", "export").Logger(),
	}
}

// ClientsCSV writes every client as CSV
func (s *ExportService) ClientsCSV(ctx context.Context, w io.Writer) error {
	clients, err := s.ClientRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list clients: %w", err)
	}
	return writeClientsCSV(w, clients)
}

// AllocationsCSV writes every allocation as CSV
func (s *ExportService) AllocationsCSV(ctx context.Context, w io.Writer) error {
	allocations, err := s.AllocationRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list allocations: %w", err)
	}
	return writeAllocationsCSV(w, allocations)
}

// MovementsCSV writes every movement as CSV
func (s *ExportService) MovementsCSV(ctx context.Context, w io.Writer) error {
	movements, err := s.MovementRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list movements: %w", err)
	}
	return writeMovementsCSV(w, movements)
}

// DashboardWorkbook writes the dashboard workbook (xlsx)
// Logic:
//  1. Load a fresh snapshot; the cached report is not used so that the
//     row listings and the summary sheets describe the same data
//  2. Compute the report with the aggregation engine
//  3. Render the eight sheets
func (s *ExportService) DashboardWorkbook(ctx context.Context, w io.Writer) error {
	// 1. Snapshot
	snap, err := s.Snapshots.LoadSnapshot(ctx)
	if err != nil {
		return err
	}

	// 2. Report
	report := dashboard.Compute(snap.Clients, snap.Assets, snap.Allocations, snap.Movements)

	// 3. Render
	book, err := buildWorkbook(report, snap)
	if err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}
	defer func() {
		if err := book.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to close workbook")
		}
	}()

	if _, err := book.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Debug().
		Int("clients", len(snap.Clients)).
		Int("allocations", len(snap.Allocations)).
		Int("movements", len(snap.Movements)).
		Msg("dashboard workbook exported")
	return nil
}
