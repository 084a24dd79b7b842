package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/simaogato/advisory-backend/internal/domain"
	"github.com/simaogato/advisory-backend/internal/usecase/dashboard"
)

// Sheet names, in workbook order
const (
	SheetKPIs        = "KPIs"
	SheetSummary     = "Resumo Mov."
	SheetCustody     = "Custodia"
	SheetFlow        = "Fluxo"
	SheetMix         = "Mix de Ativos"
	SheetClients     = "Clientes"
	SheetAllocations = "Alocacoes"
	SheetMovements   = "Movimentacoes"
)

const (
	amountFormat   = "#,##0.00"
	quantityFormat = "#,##0.0000"
)

// sheet is a header row followed by data rows
// formats maps a column index to a number format applied to all data rows
type sheet struct {
	name    string
	header  []string
	rows    [][]any
	formats map[int]string
}

type workbook struct {
	file   *excelize.File
	header int
	styles map[string]int
}

func buildWorkbook(report *domain.MetricsReport, snap *dashboard.Snapshot) (*excelize.File, error) {
	clients := make(map[uuid.UUID]*domain.Client, len(snap.Clients))
	for _, c := range snap.Clients {
		clients[c.ID] = c
	}
	assets := make(map[uuid.UUID]*domain.Asset, len(snap.Assets))
	for _, a := range snap.Assets {
		assets[a.ID] = a
	}

	sheets := []sheet{
		kpiSheet(report),
		summarySheet(report),
		custodySheet(report),
		flowSheet(report),
		mixSheet(report),
		clientsSheet(report, snap.Clients),
		allocationsSheet(snap.Allocations, clients, assets),
		movementsSheet(snap.Movements, clients),
	}

	f := excelize.NewFile()
	wb := &workbook{file: f, styles: make(map[string]int)}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}
	wb.header = header

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sh.name); err != nil {
				f.Close()
				return nil, err
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			f.Close()
			return nil, err
		}
		if err := wb.write(sh); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %q: %w", sh.name, err)
		}
	}

	// Invested values follow the fraction digits of each asset's currency
	if err := wb.applyCurrencyFormats(snap.Allocations, assets); err != nil {
		f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

func (wb *workbook) write(sh sheet) error {
	header := make([]any, len(sh.header))
	for i, h := range sh.header {
		header[i] = h
	}
	if err := wb.file.SetSheetRow(sh.name, "A1", &header); err != nil {
		return err
	}

	last, err := excelize.CoordinatesToCellName(len(sh.header), 1)
	if err != nil {
		return err
	}
	if err := wb.file.SetCellStyle(sh.name, "A1", last, wb.header); err != nil {
		return err
	}

	for i, row := range sh.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := wb.file.SetSheetRow(sh.name, cell, &row); err != nil {
			return err
		}
	}

	if len(sh.rows) > 0 {
		for col, format := range sh.formats {
			style, err := wb.style(format)
			if err != nil {
				return err
			}
			top, _ := excelize.CoordinatesToCellName(col+1, 2)
			bottom, _ := excelize.CoordinatesToCellName(col+1, len(sh.rows)+1)
			if err := wb.file.SetCellStyle(sh.name, top, bottom, style); err != nil {
				return err
			}
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(sh.header))
	if err != nil {
		return err
	}
	return wb.file.SetColWidth(sh.name, "A", lastCol, 20)
}

func (wb *workbook) style(format string) (int, error) {
	if id, ok := wb.styles[format]; ok {
		return id, nil
	}
	custom := format
	id, err := wb.file.NewStyle(&excelize.Style{CustomNumFmt: &custom})
	if err != nil {
		return 0, err
	}
	wb.styles[format] = id
	return id, nil
}

// applyCurrencyFormats restyles the "Valor investido" column of the
// allocations sheet row by row
func (wb *workbook) applyCurrencyFormats(allocations []*domain.Allocation, assets map[uuid.UUID]*domain.Asset) error {
	const investedColumn = 7
	for i, a := range allocations {
		asset, ok := assets[a.AssetID]
		if !ok {
			continue
		}
		style, err := wb.style(currencyFormat(asset.Currency))
		if err != nil {
			return err
		}
		cell, _ := excelize.CoordinatesToCellName(investedColumn, i+2)
		if err := wb.file.SetCellStyle(SheetAllocations, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

// currencyFormat returns a number format with the currency's minor unit digits
func currencyFormat(code string) string {
	c := money.GetCurrency(code)
	if c == nil {
		return amountFormat
	}
	if c.Fraction <= 0 {
		return "#,##0"
	}
	return "#,##0." + strings.Repeat("0", c.Fraction)
}

func kpiSheet(report *domain.MetricsReport) sheet {
	rows := make([][]any, 0, len(report.KPIs))
	for _, k := range report.KPIs {
		var value any = k.Value.Amount
		if k.Value.Label != "" {
			value = k.Value.Label
		}
		rows = append(rows, []any{k.Indicator, value, k.Variation})
	}
	return sheet{
		name:    SheetKPIs,
		header:  []string{"Indicador", "Valor", "Variacao (%)"},
		rows:    rows,
		formats: map[int]string{2: amountFormat},
	}
}

func summarySheet(report *domain.MetricsReport) sheet {
	t := report.MovementTotals
	return sheet{
		name:    SheetSummary,
		header:  []string{"Entradas", "Saidas", "Saldo liquido"},
		rows:    [][]any{{t.Deposits, t.Withdrawals, t.Net}},
		formats: map[int]string{0: amountFormat, 1: amountFormat, 2: amountFormat},
	}
}

func custodySheet(report *domain.MetricsReport) sheet {
	rows := make([][]any, 0, len(report.CustodySeries))
	for _, p := range report.CustodySeries {
		rows = append(rows, []any{p.Label, p.Value})
	}
	return sheet{
		name:    SheetCustody,
		header:  []string{"Mes", "Valor acumulado"},
		rows:    rows,
		formats: map[int]string{1: amountFormat},
	}
}

func flowSheet(report *domain.MetricsReport) sheet {
	rows := make([][]any, 0, len(report.FlowSeries))
	for _, p := range report.FlowSeries {
		rows = append(rows, []any{p.Label, p.Inflow, p.Outflow, p.Net})
	}
	return sheet{
		name:    SheetFlow,
		header:  []string{"Mes", "Entradas", "Saidas", "Saldo liquido"},
		rows:    rows,
		formats: map[int]string{1: amountFormat, 2: amountFormat, 3: amountFormat},
	}
}

func mixSheet(report *domain.MetricsReport) sheet {
	rows := make([][]any, 0, len(report.AllocationMix))
	for _, m := range report.AllocationMix {
		rows = append(rows, []any{m.Label, m.Value, m.Share})
	}
	return sheet{
		name:    SheetMix,
		header:  []string{"Ativo", "Valor investido", "Participacao (%)"},
		rows:    rows,
		formats: map[int]string{1: amountFormat, 2: amountFormat},
	}
}

func clientsSheet(report *domain.MetricsReport, clients []*domain.Client) sheet {
	totals := make(map[uuid.UUID]float64, len(report.AllocationTotalsByClient))
	for _, t := range report.AllocationTotalsByClient {
		totals[t.ClientID] = t.Total
	}

	rows := make([][]any, 0, len(clients))
	for _, c := range clients {
		rows = append(rows, []any{
			c.ID.String(),
			c.Name,
			c.Email,
			yesNo(c.IsActive),
			totals[c.ID],
			c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return sheet{
		name:    SheetClients,
		header:  []string{"ID", "Nome", "Email", "Ativo", "Total investido", "Criado em"},
		rows:    rows,
		formats: map[int]string{4: amountFormat},
	}
}

func allocationsSheet(allocations []*domain.Allocation, clients map[uuid.UUID]*domain.Client, assets map[uuid.UUID]*domain.Asset) sheet {
	rows := make([][]any, 0, len(allocations))
	for _, a := range allocations {
		clientName := a.ClientID.String()
		if c, ok := clients[a.ClientID]; ok {
			clientName = c.Name
		}
		ticker, name, currency := a.AssetID.String(), "", ""
		if asset, ok := assets[a.AssetID]; ok {
			ticker, name, currency = asset.Ticker, asset.Name, asset.Currency
		}
		rows = append(rows, []any{
			a.ID.String(),
			clientName,
			ticker,
			name,
			a.Quantity.Round(4).InexactFloat64(),
			a.BuyPrice.Round(4).InexactFloat64(),
			a.InvestedValue().InexactFloat64(),
			a.BuyDate.Format(dateLayout),
			currency,
		})
	}
	return sheet{
		name: SheetAllocations,
		header: []string{
			"ID", "Cliente", "Ticker", "Ativo", "Quantidade", "Preco de compra",
			"Valor investido", "Data da compra", "Moeda",
		},
		rows:    rows,
		formats: map[int]string{4: quantityFormat, 5: quantityFormat, 6: amountFormat},
	}
}

func movementsSheet(movements []*domain.Movement, clients map[uuid.UUID]*domain.Client) sheet {
	rows := make([][]any, 0, len(movements))
	for _, m := range movements {
		clientName := m.ClientID.String()
		if c, ok := clients[m.ClientID]; ok {
			clientName = c.Name
		}
		kind := "Retirada"
		if m.Type == domain.MovementTypeDeposit {
			kind = "Deposito"
		}
		note := ""
		if m.Note != nil {
			note = *m.Note
		}
		rows = append(rows, []any{
			m.ID.String(),
			clientName,
			kind,
			m.Amount.Round(2).InexactFloat64(),
			m.Date.Format(dateLayout),
			note,
		})
	}
	return sheet{
		name:    SheetMovements,
		header:  []string{"ID", "Cliente", "Tipo", "Valor", "Data", "Observacao"},
		rows:    rows,
		formats: map[int]string{3: amountFormat},
	}
}

func yesNo(v bool) string {
	if v {
		return "Sim"
	}
	return "Nao"
}
