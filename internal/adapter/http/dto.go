package http

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/advisory-backend/internal/domain"
)

const dateLayout = "2006-01-02"

type createClientRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	IsActive *bool  `json:"is_active"`
}

type updateClientRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=255"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	IsActive *bool   `json:"is_active"`
}

type createAssetRequest struct {
	Ticker   string `json:"ticker" validate:"required,max=32"`
	Name     string `json:"name" validate:"required,max=255"`
	Exchange string `json:"exchange" validate:"required,max=128"`
	Currency string `json:"currency" validate:"required,len=3"`
}

type updateAssetRequest struct {
	Ticker   *string `json:"ticker" validate:"omitempty,max=32"`
	Name     *string `json:"name" validate:"omitempty,max=255"`
	Exchange *string `json:"exchange" validate:"omitempty,max=128"`
	Currency *string `json:"currency" validate:"omitempty,len=3"`
}

type createAllocationRequest struct {
	ClientID string           `json:"client_id" validate:"required,uuid"`
	AssetID  string           `json:"asset_id" validate:"required,uuid"`
	Quantity *decimal.Decimal `json:"quantity" validate:"required"`
	BuyPrice *decimal.Decimal `json:"buy_price" validate:"required"`
	BuyDate  string           `json:"buy_date" validate:"required,datetime=2006-01-02"`
}

type updateAllocationRequest struct {
	ClientID *string          `json:"client_id" validate:"omitempty,uuid"`
	AssetID  *string          `json:"asset_id" validate:"omitempty,uuid"`
	Quantity *decimal.Decimal `json:"quantity"`
	BuyPrice *decimal.Decimal `json:"buy_price"`
	BuyDate  *string          `json:"buy_date" validate:"omitempty,datetime=2006-01-02"`
}

type createMovementRequest struct {
	ClientID string           `json:"client_id" validate:"required,uuid"`
	Type     string           `json:"type" validate:"required"`
	Amount   *decimal.Decimal `json:"amount" validate:"required"`
	Date     string           `json:"date" validate:"required,datetime=2006-01-02"`
	Note     *string          `json:"note" validate:"omitempty,max=512"`
}

type updateMovementRequest struct {
	ClientID *string          `json:"client_id" validate:"omitempty,uuid"`
	Type     *string          `json:"type"`
	Amount   *decimal.Decimal `json:"amount"`
	Date     *string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Note     *string          `json:"note" validate:"omitempty,max=512"`
}

type clientResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type assetResponse struct {
	ID       uuid.UUID `json:"id"`
	Ticker   string    `json:"ticker"`
	Name     string    `json:"name"`
	Exchange string    `json:"exchange"`
	Currency string    `json:"currency"`
}

type allocationResponse struct {
	ID       uuid.UUID       `json:"id"`
	ClientID uuid.UUID       `json:"client_id"`
	AssetID  uuid.UUID       `json:"asset_id"`
	Quantity decimal.Decimal `json:"quantity"`
	BuyPrice decimal.Decimal `json:"buy_price"`
	BuyDate  string          `json:"buy_date"`
}

type movementResponse struct {
	ID       uuid.UUID       `json:"id"`
	ClientID uuid.UUID       `json:"client_id"`
	Type     string          `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date"`
	Note     *string         `json:"note"`
}

type auditResponse struct {
	ID        uuid.UUID      `json:"id"`
	Action    string         `json:"action"`
	Entity    string         `json:"entity"`
	EntityID  string         `json:"entity_id"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
}

type pageMeta struct {
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Pages    int `json:"pages"`
}

type pageResponse[T any] struct {
	Items []T      `json:"items"`
	Meta  pageMeta `json:"meta"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// toPage converts a domain page with conv applied to every item
func toPage[E, T any](page *domain.Page[E], conv func(E) T) pageResponse[T] {
	items := make([]T, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, conv(item))
	}
	return pageResponse[T]{
		Items: items,
		Meta: pageMeta{
			Total:    page.Meta.Total,
			Page:     page.Meta.Page,
			PageSize: page.Meta.PageSize,
			Pages:    page.Meta.Pages,
		},
	}
}

func toClientResponse(c *domain.Client) clientResponse {
	return clientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt.UTC(),
	}
}

func toAssetResponse(a *domain.Asset) assetResponse {
	return assetResponse{
		ID:       a.ID,
		Ticker:   a.Ticker,
		Name:     a.Name,
		Exchange: a.Exchange,
		Currency: a.Currency,
	}
}

func toAllocationResponse(a *domain.Allocation) allocationResponse {
	return allocationResponse{
		ID:       a.ID,
		ClientID: a.ClientID,
		AssetID:  a.AssetID,
		Quantity: a.Quantity,
		BuyPrice: a.BuyPrice,
		BuyDate:  a.BuyDate.Format(dateLayout),
	}
}

func toMovementResponse(m *domain.Movement) movementResponse {
	return movementResponse{
		ID:       m.ID,
		ClientID: m.ClientID,
		Type:     string(m.Type),
		Amount:   m.Amount,
		Date:     m.Date.Format(dateLayout),
		Note:     m.Note,
	}
}

func toAuditResponse(e *domain.AuditEntry) auditResponse {
	metadata := e.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return auditResponse{
		ID:        e.ID,
		Action:    e.Action,
		Entity:    e.Entity,
		EntityID:  e.EntityID,
		Metadata:  metadata,
		CreatedAt: e.CreatedAt.UTC(),
	}
}
