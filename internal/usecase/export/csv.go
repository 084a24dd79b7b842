package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/simaogato/advisory-backend/internal/domain"
)

const dateLayout = "2006-01-02"

var (
	clientsHeader     = []string{"id", "name", "email", "is_active", "created_at"}
	allocationsHeader = []string{"id", "client_id", "asset_id", "quantity", "buy_price", "buy_date"}
	movementsHeader   = []string{"id", "client_id", "type", "amount", "date", "note"}
)

func writeClientsCSV(w io.Writer, clients []*domain.Client) error {
	rows := make([][]string, 0, len(clients))
	for _, c := range clients {
		rows = append(rows, []string{
			c.ID.String(),
			c.Name,
			c.Email,
			strconv.FormatBool(c.IsActive),
			c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return writeCSV(w, clientsHeader, rows)
}

func writeAllocationsCSV(w io.Writer, allocations []*domain.Allocation) error {
	rows := make([][]string, 0, len(allocations))
	for _, a := range allocations {
		rows = append(rows, []string{
			a.ID.String(),
			a.ClientID.String(),
			a.AssetID.String(),
			a.Quantity.StringFixed(4),
			a.BuyPrice.StringFixed(4),
			a.BuyDate.Format(dateLayout),
		})
	}
	return writeCSV(w, allocationsHeader, rows)
}

func writeMovementsCSV(w io.Writer, movements []*domain.Movement) error {
	rows := make([][]string, 0, len(movements))
	for _, m := range movements {
		note := ""
		if m.Note != nil {
			note = *m.Note
		}
		rows = append(rows, []string{
			m.ID.String(),
			m.ClientID.String(),
			string(m.Type),
			m.Amount.StringFixed(2),
			m.Date.Format(dateLayout),
			note,
		})
	}
	return writeCSV(w, movementsHeader, rows)
}

// writeCSV always emits the header, also for empty listings
func writeCSV(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}
