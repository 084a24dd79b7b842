package seeder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/simaogato/advisory-backend/internal/domain"
)

// SampleAsset describes an asset to be seeded, keyed by ticker
type SampleAsset struct {
	Ticker   string
	Name     string
	Exchange string
	Currency string
}

// SampleClient describes a client to be seeded, keyed by email
type SampleClient struct {
	Name     string
	Email    string
	IsActive bool
}

// SampleAllocation is keyed by (client email, ticker)
type SampleAllocation struct {
	ClientEmail string
	Ticker      string
	Quantity    string
	BuyPrice    string
	BuyDate     time.Time
}

// SampleMovement is keyed by (client email, type, amount, date)
type SampleMovement struct {
	ClientEmail string
	Type        domain.MovementType
	Amount      string
	Date        time.Time
	Note        string
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var (
	SampleAssets = []SampleAsset{
		{Ticker: "PETR4", Name: "Petrobras PN", Exchange: "B3", Currency: "BRL"},
		{Ticker: "ITUB4", Name: "Itaú Unibanco PN", Exchange: "B3", Currency: "BRL"},
		{Ticker: "BOVA11", Name: "iShares Ibovespa", Exchange: "B3", Currency: "BRL"},
		{Ticker: "AAPL", Name: "Apple Inc.", Exchange: "NASDAQ", Currency: "USD"},
		{Ticker: "GLD", Name: "SPDR Gold Shares", Exchange: "NYSEARCA", Currency: "USD"},
	}

	SampleClients = []SampleClient{
		{Name: "Aurora Capital", Email: "aurora@clients.com", IsActive: true},
		{Name: "Boreal Family Office", Email: "boreal@clients.com", IsActive: true},
		{Name: "Constelação Invest", Email: "constelacao@clients.com", IsActive: false},
	}

	SampleAllocations = []SampleAllocation{
		{ClientEmail: "aurora@clients.com", Ticker: "PETR4", Quantity: "1200", BuyPrice: "32.50", BuyDate: day(2024, 5, 20)},
		{ClientEmail: "aurora@clients.com", Ticker: "BOVA11", Quantity: "800", BuyPrice: "110.40", BuyDate: day(2024, 3, 15)},
		{ClientEmail: "boreal@clients.com", Ticker: "ITUB4", Quantity: "1500", BuyPrice: "28.70", BuyDate: day(2024, 1, 10)},
		{ClientEmail: "boreal@clients.com", Ticker: "AAPL", Quantity: "50", BuyPrice: "165.00", BuyDate: day(2024, 6, 5)},
		{ClientEmail: "constelacao@clients.com", Ticker: "GLD", Quantity: "75", BuyPrice: "181.20", BuyDate: day(2023, 11, 22)},
	}

	SampleMovements = []SampleMovement{
		{ClientEmail: "aurora@clients.com", Type: domain.MovementTypeDeposit, Amount: "250000", Date: day(2024, 5, 18), Note: "Aporte trimestral"},
		{ClientEmail: "aurora@clients.com", Type: domain.MovementTypeWithdrawal, Amount: "85000", Date: day(2024, 7, 2), Note: "Liquidação de lucro"},
		{ClientEmail: "boreal@clients.com", Type: domain.MovementTypeDeposit, Amount: "180000", Date: day(2024, 2, 1), Note: "Novo mandato"},
		{ClientEmail: "boreal@clients.com", Type: domain.MovementTypeDeposit, Amount: "95000", Date: day(2024, 6, 8), Note: "Reforço de carteira"},
		{ClientEmail: "constelacao@clients.com", Type: domain.MovementTypeWithdrawal, Amount: "45000", Date: day(2024, 3, 29), Note: "Rebalanceamento"},
	}
)

// SampleSeeder loads the demo data set
type SampleSeeder struct {
	ClientRepo     domain.ClientRepository
	AssetRepo      domain.AssetRepository
	AllocationRepo domain.AllocationRepository
	MovementRepo   domain.MovementRepository
	Invalidator    domain.MetricsInvalidator
	logger         zerolog.Logger
}

// NewSampleSeeder creates a new SampleSeeder instance
func NewSampleSeeder(
	clientRepo domain.ClientRepository,
	assetRepo domain.AssetRepository,
	allocationRepo domain.AllocationRepository,
	movementRepo domain.MovementRepository,
	invalidator domain.MetricsInvalidator,
	logger zerolog.Logger,
) *SampleSeeder {
	return &SampleSeeder{
		ClientRepo:     clientRepo,
		AssetRepo:      assetRepo,
		AllocationRepo: allocationRepo,
		MovementRepo:   movementRepo,
		Invalidator:    invalidator,
		logger:         logger.With().Str("component", "seeder").Logger(),
	}
}

// Seed ensures the sample records exist. Records are matched on their natural
// keys, so running it again creates nothing.
// The metrics cache is invalidated once if anything was created.
func (s *SampleSeeder) Seed(ctx context.Context) error {
	created := 0

	assets := make(map[string]uuid.UUID, len(SampleAssets))
	for _, sample := range SampleAssets {
		id, isNew, err := s.ensureAsset(ctx, sample)
		if err != nil {
			return fmt.Errorf("failed to seed asset %s: %w", sample.Ticker, err)
		}
		assets[sample.Ticker] = id
		created += boolToInt(isNew)
	}

	clients := make(map[string]uuid.UUID, len(SampleClients))
	for _, sample := range SampleClients {
		id, isNew, err := s.ensureClient(ctx, sample)
		if err != nil {
			return fmt.Errorf("failed to seed client %s: %w", sample.Email, err)
		}
		clients[sample.Email] = id
		created += boolToInt(isNew)
	}

	for _, sample := range SampleAllocations {
		isNew, err := s.ensureAllocation(ctx, clients[sample.ClientEmail], assets[sample.Ticker], sample)
		if err != nil {
			return fmt.Errorf("failed to seed allocation %s/%s: %w", sample.ClientEmail, sample.Ticker, err)
		}
		created += boolToInt(isNew)
	}

	for _, sample := range SampleMovements {
		isNew, err := s.ensureMovement(ctx, clients[sample.ClientEmail], sample)
		if err != nil {
			return fmt.Errorf("failed to seed movement %s/%s: %w", sample.ClientEmail, sample.Date.Format("2006-01-02"), err)
		}
		created += boolToInt(isNew)
	}

	if created > 0 {
		s.Invalidator.InvalidateMetrics(ctx)
	}
	s.logger.Info().Int("created", created).Msg("sample data seeded")
	return nil
}

func (s *SampleSeeder) ensureAsset(ctx context.Context, sample SampleAsset) (uuid.UUID, bool, error) {
	existing, err := s.AssetRepo.GetByTicker(ctx, sample.Ticker)
	if err == nil {
		return existing.ID, false, nil
	}
	if !isNotFound(err) {
		return uuid.Nil, false, err
	}

	asset := &domain.Asset{
		ID:       uuid.New(),
		Ticker:   sample.Ticker,
		Name:     sample.Name,
		Exchange: sample.Exchange,
		Currency: sample.Currency,
	}
	asset.Normalize()
	if err := asset.Validate(); err != nil {
		return uuid.Nil, false, err
	}
	if err := s.AssetRepo.Create(ctx, asset, nil); err != nil {
		return uuid.Nil, false, err
	}
	return asset.ID, true, nil
}

func (s *SampleSeeder) ensureClient(ctx context.Context, sample SampleClient) (uuid.UUID, bool, error) {
	existing, err := s.ClientRepo.GetByEmail(ctx, sample.Email)
	if err == nil {
		return existing.ID, false, nil
	}
	if !isNotFound(err) {
		return uuid.Nil, false, err
	}

	client := &domain.Client{
		ID:        uuid.New(),
		Name:      sample.Name,
		Email:     sample.Email,
		IsActive:  sample.IsActive,
		CreatedAt: time.Now().UTC(),
	}
	if err := client.Validate(); err != nil {
		return uuid.Nil, false, err
	}
	if err := s.ClientRepo.Create(ctx, client, nil); err != nil {
		return uuid.Nil, false, err
	}
	return client.ID, true, nil
}

func (s *SampleSeeder) ensureAllocation(ctx context.Context, clientID, assetID uuid.UUID, sample SampleAllocation) (bool, error) {
	count, err := s.AllocationRepo.Count(ctx, domain.AllocationFilter{ClientID: &clientID, AssetID: &assetID})
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	allocation := &domain.Allocation{
		ID:       uuid.New(),
		ClientID: clientID,
		AssetID:  assetID,
		Quantity: decimal.RequireFromString(sample.Quantity),
		BuyPrice: decimal.RequireFromString(sample.BuyPrice),
		BuyDate:  sample.BuyDate,
	}
	if err := allocation.Validate(); err != nil {
		return false, err
	}
	if err := s.AllocationRepo.Create(ctx, allocation, nil); err != nil {
		return false, err
	}
	return true, nil
}

func (s *SampleSeeder) ensureMovement(ctx context.Context, clientID uuid.UUID, sample SampleMovement) (bool, error) {
	amount := decimal.RequireFromString(sample.Amount)
	filter := domain.MovementFilter{ClientID: &clientID, StartDate: &sample.Date, EndDate: &sample.Date}

	sameDay, err := s.MovementRepo.List(ctx, filter, domain.MaxPageSize, 0)
	if err != nil {
		return false, err
	}
	for _, m := range sameDay {
		if m.Type == sample.Type && m.Amount.Equal(amount) {
			return false, nil
		}
	}

	note := sample.Note
	movement := &domain.Movement{
		ID:       uuid.New(),
		ClientID: clientID,
		Type:     sample.Type,
		Amount:   amount,
		Date:     sample.Date,
		Note:     &note,
	}
	if err := movement.Validate(); err != nil {
		return false, err
	}
	if err := s.MovementRepo.Create(ctx, movement, nil); err != nil {
		return false, err
	}
	return true, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
