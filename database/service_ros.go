package database

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"recontrack/model"
)

// batchSize bounds IN-clause parameter counts for SQLite.
const batchSize = 500

const upsertServiceROSQL = `
	INSERT INTO service_ros
		(ro_number, vin, open_date, close_date, ro_status_code, is_open, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(ro_number) DO UPDATE SET
		close_date     = excluded.close_date,
		ro_status_code = excluded.ro_status_code,
		updated_at     = excluded.updated_at`

// UpsertServiceROs inserts or updates RO headers keyed by RO number. A later
// export for the same RO refreshes its close date and status.
func UpsertServiceROs(tx *sqlx.Tx, items []model.ServiceRO) error {
	if len(items) == 0 {
		return nil
	}

	stmt, err := tx.Prepare(upsertServiceROSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare service RO upsert: %w", err)
	}
	defer stmt.Close()

	for _, ro := range items {
		if _, err := stmt.Exec(
			ro.RONumber, ro.VIN, ro.OpenDate, ro.CloseDate,
			ro.ROStatusCode, ro.IsOpen, ro.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to upsert service RO %s: %w", ro.RONumber, err)
		}
	}
	return nil
}

// DeleteRODetailsByRONumbers removes every detail line belonging to the given
// RO numbers. Detail files are full replacements per RO: callers delete the
// incoming file's RO set before inserting its lines, inside one transaction.
func DeleteRODetailsByRONumbers(tx *sqlx.Tx, roNumbers []string) error {
	for i := 0; i < len(roNumbers); i += batchSize {
		end := i + batchSize
		if end > len(roNumbers) {
			end = len(roNumbers)
		}
		query, args, err := sqlx.In(`DELETE FROM service_ro_details WHERE ro_number IN (?)`, roNumbers[i:end])
		if err != nil {
			return fmt.Errorf("failed to build detail delete query: %w", err)
		}
		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("failed to delete RO details: %w", err)
		}
	}
	return nil
}

const insertRODetailSQL = `
	INSERT INTO service_ro_details
		(ro_number, op_code, op_description, labor_type, labor_sale, labor_cost, parts_sale, parts_cost)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

// InsertRODetails plain-inserts detail lines. There is no per-line conflict
// key; replacement is handled at the RO level by DeleteRODetailsByRONumbers.
func InsertRODetails(tx *sqlx.Tx, items []model.ServiceRODetail) error {
	if len(items) == 0 {
		return nil
	}

	stmt, err := tx.Prepare(insertRODetailSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare RO detail insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range items {
		if _, err := stmt.Exec(
			d.RONumber, d.OpCode, d.OpDescription, d.LaborType,
			d.LaborSale, d.LaborCost, d.PartsSale, d.PartsCost,
		); err != nil {
			return fmt.Errorf("failed to insert RO detail for %s: %w", d.RONumber, err)
		}
	}
	return nil
}

func ListAllServiceROs(db *sqlx.DB) ([]model.ServiceRO, error) {
	var items []model.ServiceRO
	err := db.Select(&items, `
		SELECT ro_number, vin, open_date, close_date, ro_status_code, is_open, updated_at
		FROM service_ros ORDER BY ro_number`)
	if err != nil {
		return nil, fmt.Errorf("failed to list service ROs: %w", err)
	}
	return items, nil
}

func ListAllRODetails(db *sqlx.DB) ([]model.ServiceRODetail, error) {
	var items []model.ServiceRODetail
	err := db.Select(&items, `
		SELECT id, ro_number, op_code, op_description, labor_type,
		       labor_sale, labor_cost, parts_sale, parts_cost
		FROM service_ro_details ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list RO details: %w", err)
	}
	return items, nil
}

// ListServiceROsByVIN returns a vehicle's RO headers newest-closed first.
// Source VINs vary in casing and padding across exports, so the match is
// normalized on both sides. Open ROs (empty close date) sort last.
func ListServiceROsByVIN(db *sqlx.DB, vin string) ([]model.ServiceRO, error) {
	var items []model.ServiceRO
	err := db.Select(&items, `
		SELECT ro_number, vin, open_date, close_date, ro_status_code, is_open, updated_at
		FROM service_ros
		WHERE UPPER(TRIM(vin)) = ?
		ORDER BY close_date DESC, ro_number`,
		strings.ToUpper(strings.TrimSpace(vin)))
	if err != nil {
		return nil, fmt.Errorf("failed to list service ROs for VIN %s: %w", vin, err)
	}
	return items, nil
}

// ListRODetailsByRONumbers fetches detail lines for a set of ROs, batched.
func ListRODetailsByRONumbers(db *sqlx.DB, roNumbers []string) ([]model.ServiceRODetail, error) {
	var items []model.ServiceRODetail
	for i := 0; i < len(roNumbers); i += batchSize {
		end := i + batchSize
		if end > len(roNumbers) {
			end = len(roNumbers)
		}
		query, args, err := sqlx.In(`
			SELECT id, ro_number, op_code, op_description, labor_type,
			       labor_sale, labor_cost, parts_sale, parts_cost
			FROM service_ro_details WHERE ro_number IN (?) ORDER BY id`, roNumbers[i:end])
		if err != nil {
			return nil, fmt.Errorf("failed to build detail query: %w", err)
		}
		var batch []model.ServiceRODetail
		if err := db.Select(&batch, query, args...); err != nil {
			return nil, fmt.Errorf("failed to list RO details: %w", err)
		}
		items = append(items, batch...)
	}
	return items, nil
}
