package database

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"recontrack/model"
)

const factColumns = `vin, stock_no, store, entry_date, lot_location, year, make, model,
	mileage, sold_date, last_recon_ro_number, last_recon_close_date,
	recon_days, recon_status, total_labor_cost, total_parts_cost,
	total_recon_cost, computed_at`

// ReplaceFacts swaps the entire fact table for the given rows. The caller's
// transaction makes the truncate-and-repopulate atomic, so readers never see
// an empty or mixed-generation table.
func ReplaceFacts(tx *sqlx.Tx, facts []model.FactReconVehicle) error {
	if _, err := tx.Exec(`DELETE FROM fact_recon_vehicles`); err != nil {
		return fmt.Errorf("failed to clear fact table: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO fact_recon_vehicles (` + factColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare fact insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range facts {
		if _, err := stmt.Exec(
			f.VIN, f.StockNo, f.Store, f.EntryDate, f.LotLocation,
			f.Year, f.Make, f.Model, f.Mileage, f.SoldDate,
			f.LastReconRONumber, f.LastReconCloseDate,
			f.ReconDays, f.ReconStatus,
			f.TotalLaborCost, f.TotalPartsCost, f.TotalReconCost,
			f.ComputedAt,
		); err != nil {
			return fmt.Errorf("failed to insert fact row for %s: %w", f.VIN, err)
		}
	}
	return nil
}

// ListFacts applies the dashboard's filter/sort/pagination contract and
// returns the page plus the post-filter pre-pagination total.
func ListFacts(db *sqlx.DB, f model.VehicleFilters) ([]model.FactReconVehicle, int, error) {
	var conds []string
	var args []interface{}

	if f.Search != "" {
		pattern := "%" + strings.ToUpper(f.Search) + "%"
		conds = append(conds, `(UPPER(stock_no) LIKE ? OR UPPER(vin) LIKE ?)`)
		args = append(args, pattern, pattern)
	}
	if f.Store != "" && f.Store != "All" {
		conds = append(conds, `store = ?`)
		args = append(args, f.Store)
	}
	if f.Status != "" && f.Status != "All" {
		conds = append(conds, `recon_status = ?`)
		args = append(args, f.Status)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := db.Get(&total, `SELECT COUNT(*) FROM fact_recon_vehicles`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count fact rows: %w", err)
	}

	orderBy := "recon_days DESC"
	switch f.SortBy {
	case "days_asc":
		orderBy = "recon_days ASC"
	case "date_desc":
		orderBy = "entry_date DESC"
	case "date_asc":
		orderBy = "entry_date ASC"
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	query := `SELECT ` + factColumns + ` FROM fact_recon_vehicles` + where +
		` ORDER BY ` + orderBy + `, vin LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var items []model.FactReconVehicle
	if err := db.Select(&items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list fact rows: %w", err)
	}
	return items, total, nil
}

// GetFactByVIN returns nil when the VIN has no fact row.
func GetFactByVIN(db *sqlx.DB, vin string) (*model.FactReconVehicle, error) {
	var f model.FactReconVehicle
	err := db.Get(&f, `
		SELECT `+factColumns+` FROM fact_recon_vehicles
		WHERE UPPER(TRIM(vin)) = ?`,
		strings.ToUpper(strings.TrimSpace(vin)))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get fact row for %s: %w", vin, err)
	}
	return &f, nil
}

// GetDashboardStats aggregates the fact table in one pass. The median is
// computed here rather than in SQL since SQLite has no percentile function.
func GetDashboardStats(db *sqlx.DB, thresholdDays int) (model.DashboardStats, error) {
	type factAgg struct {
		ReconDays      int             `db:"recon_days"`
		ReconStatus    string          `db:"recon_status"`
		TotalReconCost decimal.Decimal `db:"total_recon_cost"`
	}

	var rows []factAgg
	err := db.Select(&rows, `SELECT recon_days, recon_status, total_recon_cost FROM fact_recon_vehicles`)
	if err != nil {
		return model.DashboardStats{}, fmt.Errorf("failed to read fact table for stats: %w", err)
	}

	stats := model.DashboardStats{TotalReconCost: decimal.Zero}
	if len(rows) == 0 {
		return stats, nil
	}

	sumDays := 0
	days := make([]int, 0, len(rows))
	for _, r := range rows {
		sumDays += r.ReconDays
		days = append(days, r.ReconDays)
		switch model.ReconStatus(r.ReconStatus) {
		case model.ReconStatusInProgress:
			stats.CountInProgress++
		case model.ReconStatusComplete:
			stats.CountCompleted++
		case model.ReconStatusNoReconFound:
			stats.CountNoRecon++
		}
		if r.ReconDays > thresholdDays {
			stats.CountOverThreshold++
		}
		stats.TotalReconCost = stats.TotalReconCost.Add(r.TotalReconCost)
	}

	stats.AvgReconDays = int(math.Round(float64(sumDays) / float64(len(rows))))

	sort.Ints(days)
	mid := len(days) / 2
	if len(days)%2 == 1 {
		stats.MedianReconDays = days[mid]
	} else {
		stats.MedianReconDays = int(math.Round(float64(days[mid-1]+days[mid]) / 2))
	}

	return stats, nil
}
