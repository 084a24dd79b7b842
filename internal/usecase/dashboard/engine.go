package dashboard

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/advisory-backend/internal/domain"
)

// KPI indicator names, in report order
const (
	IndicatorActiveClients = "Clientes ativos"
	IndicatorTotalInvested = "Total investido"
	IndicatorMonthInflow   = "Entradas do mes"
	IndicatorNetBalance    = "Saldo liquido"
)

var monthLabels = [12]string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

var hundred = decimal.NewFromInt(100)

type flowBucket struct {
	inflow  decimal.Decimal
	outflow decimal.Decimal
}

// Compute reduces a snapshot of the four record collections into a MetricsReport
// stamped with the current UTC time. It has no side effects and no error states.
func Compute(
	clients []*domain.Client,
	assets []*domain.Asset,
	allocations []*domain.Allocation,
	movements []*domain.Movement,
) *domain.MetricsReport {
	return ComputeAt(clients, assets, allocations, movements, time.Now())
}

// ComputeAt is Compute with an explicit generation timestamp
// Logic:
//  1. Invested value per allocation = round(quantity x buy price, 2)
//  2. Accumulate per client, per asset and per buy month
//  3. Accumulate movement inflow/outflow per month and globally
//  4. Custody series is the running sum over sorted months; flow series is per month
//  5. Mix shares against the total invested, sorted by value descending
//  6. Period-over-period variations compare the last two months of each series
//  7. Assemble the four KPIs in fixed order
func ComputeAt(
	clients []*domain.Client,
	assets []*domain.Asset,
	allocations []*domain.Allocation,
	movements []*domain.Movement,
	generatedAt time.Time,
) *domain.MetricsReport {
	assetByID := make(map[uuid.UUID]*domain.Asset, len(assets))
	for _, asset := range assets {
		assetByID[asset.ID] = asset
	}

	// 1-2. Allocations
	totalsByClient := make(map[uuid.UUID]decimal.Decimal)
	mixByAsset := make(map[uuid.UUID]decimal.Decimal)
	custodyByMonth := make(map[string]decimal.Decimal)
	totalInvested := decimal.Zero

	for _, allocation := range allocations {
		invested := allocation.InvestedValue()

		totalsByClient[allocation.ClientID] = totalsByClient[allocation.ClientID].Add(invested)
		mixByAsset[allocation.AssetID] = mixByAsset[allocation.AssetID].Add(invested)

		month := monthKey(allocation.BuyDate)
		custodyByMonth[month] = custodyByMonth[month].Add(invested)

		totalInvested = totalInvested.Add(invested)
	}

	// 3. Movements
	flowByMonth := make(map[string]*flowBucket)
	deposits := decimal.Zero
	withdrawals := decimal.Zero

	for _, movement := range movements {
		amount := movement.Amount.Round(2)
		month := monthKey(movement.Date)

		bucket, ok := flowByMonth[month]
		if !ok {
			bucket = &flowBucket{}
			flowByMonth[month] = bucket
		}

		if movement.Type == domain.MovementTypeDeposit {
			bucket.inflow = bucket.inflow.Add(amount)
			deposits = deposits.Add(amount)
		} else {
			bucket.outflow = bucket.outflow.Add(amount)
			withdrawals = withdrawals.Add(amount)
		}
	}
	net := deposits.Sub(withdrawals)

	// 4. Series
	custodySeries := make([]domain.CustodyPoint, 0, len(custodyByMonth))
	custodyTotals := make([]decimal.Decimal, 0, len(custodyByMonth))
	running := decimal.Zero
	for _, month := range sortedKeys(custodyByMonth) {
		running = running.Add(custodyByMonth[month]).Round(2)
		custodyTotals = append(custodyTotals, running)
		custodySeries = append(custodySeries, domain.CustodyPoint{
			Month: month,
			Label: MonthLabel(month),
			Value: running.InexactFloat64(),
		})
	}

	flowSeries := make([]domain.FlowPoint, 0, len(flowByMonth))
	inflows := make([]decimal.Decimal, 0, len(flowByMonth))
	nets := make([]decimal.Decimal, 0, len(flowByMonth))
	for _, month := range sortedKeys(flowByMonth) {
		bucket := flowByMonth[month]
		inflow := bucket.inflow.Round(2)
		outflow := bucket.outflow.Round(2)
		monthNet := inflow.Sub(outflow).Round(2)

		inflows = append(inflows, inflow)
		nets = append(nets, monthNet)
		flowSeries = append(flowSeries, domain.FlowPoint{
			Month:   month,
			Label:   MonthLabel(month),
			Inflow:  inflow.InexactFloat64(),
			Outflow: outflow.InexactFloat64(),
			Net:     monthNet.InexactFloat64(),
		})
	}

	// 5. Mix and per-client totals
	mix := make([]domain.MixEntry, 0, len(mixByAsset))
	mixValues := make(map[uuid.UUID]decimal.Decimal, len(mixByAsset))
	for assetID, value := range mixByAsset {
		label := fmt.Sprintf("Ativo %s", assetID)
		if asset, ok := assetByID[assetID]; ok {
			label = asset.Label()
		}
		mixValues[assetID] = value
		mix = append(mix, domain.MixEntry{
			AssetID: assetID,
			Label:   label,
			Value:   round2(value),
			Share:   round2(percentOf(value, totalInvested)),
		})
	}
	sort.SliceStable(mix, func(i, j int) bool {
		return descending(mixValues[mix[i].AssetID], mixValues[mix[j].AssetID], mix[i].AssetID, mix[j].AssetID)
	})

	byClient := make([]domain.ClientTotal, 0, len(totalsByClient))
	for clientID, total := range totalsByClient {
		byClient = append(byClient, domain.ClientTotal{ClientID: clientID, Total: round2(total)})
	}
	sort.SliceStable(byClient, func(i, j int) bool {
		return descending(totalsByClient[byClient[i].ClientID], totalsByClient[byClient[j].ClientID], byClient[i].ClientID, byClient[j].ClientID)
	})

	// Active ratio
	active := 0
	for _, client := range clients {
		if client.IsActive {
			active++
		}
	}
	activeRatio := decimal.Zero
	if len(clients) > 0 {
		activeRatio = percentOf(decimal.NewFromInt(int64(active)), decimal.NewFromInt(int64(len(clients))))
	}

	// 6. Variations
	lastCustody, prevCustody := lastTwo(custodyTotals)
	lastInflow, prevInflow := lastTwo(inflows)
	lastNet, prevNet := lastTwo(nets)

	custodyDelta := variation(lastCustody, prevCustody)
	inflowDelta := variation(lastInflow, prevInflow)
	netDelta := variationOver(lastNet, prevNet, prevNet.Abs())

	// 7. KPIs
	kpis := []domain.KPI{
		{
			Indicator: IndicatorActiveClients,
			Value:     domain.TextValue(strconv.Itoa(active) + "/" + strconv.Itoa(len(clients))),
			Variation: round2(activeRatio),
		},
		{
			Indicator: IndicatorTotalInvested,
			Value:     domain.AmountValue(round2(totalInvested)),
			Variation: round2(custodyDelta),
		},
		{
			Indicator: IndicatorMonthInflow,
			Value:     domain.AmountValue(round2(lastInflow)),
			Variation: round2(inflowDelta),
		},
		{
			Indicator: IndicatorNetBalance,
			Value:     domain.AmountValue(round2(net)),
			Variation: round2(netDelta),
		},
	}

	return &domain.MetricsReport{
		GeneratedAt: generatedAt.UTC(),
		Totals: domain.Totals{
			Clients:       len(clients),
			ActiveClients: active,
			ActiveRatio:   round2(activeRatio),
			TotalInvested: round2(totalInvested),
		},
		MovementTotals: domain.MovementTotals{
			Deposits:    round2(deposits),
			Withdrawals: round2(withdrawals),
			Net:         round2(net),
		},
		Differences: domain.PeriodFigures{
			Custody: round2(custodyDelta),
			Inflow:  round2(inflowDelta),
			Net:     round2(netDelta),
		},
		LastPeriod: domain.PeriodFigures{
			Custody: round2(lastCustody),
			Inflow:  round2(lastInflow),
			Net:     round2(lastNet),
		},
		CustodySeries:            custodySeries,
		FlowSeries:               flowSeries,
		AllocationMix:            mix,
		AllocationTotalsByClient: byClient,
		KPIs:                     kpis,
	}
}

// MonthLabel formats a YYYY-MM key as a Portuguese month abbreviation and
// two-digit year, e.g. "2024-05" -> "Mai/24". Out-of-range months keep their
// numeric form; keys that do not parse are returned unchanged.
func MonthLabel(key string) string {
	year, month, ok := strings.Cut(key, "-")
	if !ok || strings.Contains(month, "-") {
		return key
	}
	index, err := strconv.Atoi(month)
	if err != nil {
		return key
	}

	label := month
	if index >= 1 && index <= len(monthLabels) {
		label = monthLabels[index-1]
	}

	if len(year) > 2 {
		year = year[len(year)-2:]
	}
	return label + "/" + year
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// lastTwo returns the last value and the one before it.
// With a single value both are equal; with none both are zero.
func lastTwo(values []decimal.Decimal) (last, prev decimal.Decimal) {
	switch len(values) {
	case 0:
		return decimal.Zero, decimal.Zero
	case 1:
		return values[0], values[0]
	default:
		return values[len(values)-1], values[len(values)-2]
	}
}

// variation is (last - prev) / base * 100, or 0 when base is zero
func variation(last, prev decimal.Decimal) decimal.Decimal {
	return variationOver(last, prev, prev)
}

func variationOver(last, prev, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return last.Sub(prev).Div(base).Mul(hundred)
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

// descending orders by value, highest first, breaking ties on id for a stable output
func descending(a, b decimal.Decimal, idA, idB uuid.UUID) bool {
	if c := a.Cmp(b); c != 0 {
		return c > 0
	}
	return idA.String() < idB.String()
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
