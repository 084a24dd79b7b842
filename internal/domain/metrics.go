package domain

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MetricsCacheKey is the single cache key holding the serialized MetricsReport
const MetricsCacheKey = "dashboard:metrics"

// MetricsReport is the dashboard summary computed from a full snapshot of
// clients, assets, allocations and movements.
// Monetary values and percentages are rounded to 2 decimal places.
type MetricsReport struct {
	GeneratedAt              time.Time      `json:"generated_at"`
	Totals                   Totals         `json:"totals"`
	MovementTotals           MovementTotals `json:"movement_totals"`
	Differences              PeriodFigures  `json:"differences"`
	LastPeriod               PeriodFigures  `json:"last_period"`
	CustodySeries            []CustodyPoint `json:"custody_series"`
	FlowSeries               []FlowPoint    `json:"flow_series"`
	AllocationMix            []MixEntry     `json:"allocation_mix"`
	AllocationTotalsByClient []ClientTotal  `json:"allocation_totals_by_client"`
	KPIs                     []KPI          `json:"kpis"`
}

// Totals holds client counts and the overall invested value
type Totals struct {
	Clients       int     `json:"clients"`
	ActiveClients int     `json:"active_clients"`
	ActiveRatio   float64 `json:"active_ratio"`
	TotalInvested float64 `json:"total_invested"`
}

// MovementTotals holds global deposit and withdrawal sums
type MovementTotals struct {
	Deposits    float64 `json:"deposits"`
	Withdrawals float64 `json:"withdrawals"`
	Net         float64 `json:"net"`
}

// PeriodFigures holds one figure per series: custody, inflow and net.
// Used both for last-period values and for period-over-period variations.
type PeriodFigures struct {
	Custody float64 `json:"custody"`
	Inflow  float64 `json:"inflow"`
	Net     float64 `json:"net"`
}

// CustodyPoint is one month of the cumulative invested value curve
type CustodyPoint struct {
	Month string  `json:"month"` // YYYY-MM
	Label string  `json:"label"` // e.g. Mai/24
	Value float64 `json:"value"`
}

// FlowPoint is one month of cash flow; not cumulative
type FlowPoint struct {
	Month   string  `json:"month"`
	Label   string  `json:"label"`
	Inflow  float64 `json:"inflow"`
	Outflow float64 `json:"outflow"`
	Net     float64 `json:"net"`
}

// MixEntry is the invested value and share of one asset
type MixEntry struct {
	AssetID uuid.UUID `json:"asset_id"`
	Label   string    `json:"label"`
	Value   float64   `json:"value"`
	Share   float64   `json:"share"`
}

// ClientTotal is the invested value of one client
type ClientTotal struct {
	ClientID uuid.UUID `json:"client_id"`
	Total    float64   `json:"total"`
}

// KPI is a headline indicator with its variation in percent
type KPI struct {
	Indicator string   `json:"indicator"`
	Value     KPIValue `json:"value"`
	Variation float64  `json:"variation"`
}

// KPIValue is either a text label (such as "3/4") or an amount.
// It serializes as a JSON string or a JSON number respectively.
type KPIValue struct {
	Label  string
	Amount float64
}

// TextValue builds a KPIValue holding a label
func TextValue(label string) KPIValue {
	return KPIValue{Label: label}
}

// AmountValue builds a KPIValue holding an amount
func AmountValue(amount float64) KPIValue {
	return KPIValue{Amount: amount}
}

// MarshalJSON implements json.Marshaler
func (v KPIValue) MarshalJSON() ([]byte, error) {
	if v.Label != "" {
		return json.Marshal(v.Label)
	}
	return json.Marshal(v.Amount)
}

// UnmarshalJSON implements json.Unmarshaler
func (v *KPIValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		*v = KPIValue{}
		return json.Unmarshal(data, &v.Label)
	}
	*v = KPIValue{}
	return json.Unmarshal(data, &v.Amount)
}

// String renders the value for exports
func (v KPIValue) String() string {
	if v.Label != "" {
		return v.Label
	}
	b, _ := json.Marshal(v.Amount)
	return string(b)
}
