package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"recontrack/model"
)

const upsertInventorySQL = `
	INSERT INTO inventory_vehicles
		(vin, stock_no, stock_type, store, entry_date, year, make, model, mileage, lot_location, sold_date, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(vin) DO UPDATE SET
		stock_no     = excluded.stock_no,
		entry_date   = excluded.entry_date,
		lot_location = excluded.lot_location,
		mileage      = excluded.mileage,
		sold_date    = excluded.sold_date,
		updated_at   = excluded.updated_at`

// overwriteStoreSQL additionally refreshes the store and stock type columns
// on conflict; see config.OverwriteStoreOnConflict.
const upsertInventoryOverwriteStoreSQL = upsertInventorySQL + `,
		stock_type   = excluded.stock_type,
		store        = excluded.store`

// UpsertInventoryVehicles inserts or updates vehicles keyed by VIN. Rows are
// written in slice order, so a later occurrence of the same VIN wins.
func UpsertInventoryVehicles(tx *sqlx.Tx, items []model.InventoryVehicle, overwriteStore bool) error {
	if len(items) == 0 {
		return nil
	}

	query := upsertInventorySQL
	if overwriteStore {
		query = upsertInventoryOverwriteStoreSQL
	}
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare inventory upsert: %w", err)
	}
	defer stmt.Close()

	for _, v := range items {
		if _, err := stmt.Exec(
			v.VIN, v.StockNo, v.StockType, v.Store, v.EntryDate,
			v.Year, v.Make, v.Model, v.Mileage, v.LotLocation,
			v.SoldDate, v.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to upsert inventory vehicle %s: %w", v.VIN, err)
		}
	}
	return nil
}

// ListEligibleInventory returns the used, unsold vehicles that the recon
// computation runs over.
func ListEligibleInventory(db *sqlx.DB) ([]model.InventoryVehicle, error) {
	var items []model.InventoryVehicle
	err := db.Select(&items, `
		SELECT vin, stock_no, stock_type, store, entry_date, year, make, model,
		       mileage, lot_location, sold_date, updated_at
		FROM inventory_vehicles
		WHERE UPPER(stock_type) = 'USED' AND sold_date = ''
		ORDER BY vin`)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible inventory: %w", err)
	}
	return items, nil
}

func GetInventoryVehicle(db *sqlx.DB, vin string) (*model.InventoryVehicle, error) {
	var v model.InventoryVehicle
	err := db.Get(&v, `
		SELECT vin, stock_no, stock_type, store, entry_date, year, make, model,
		       mileage, lot_location, sold_date, updated_at
		FROM inventory_vehicles WHERE vin = ?`, vin)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get inventory vehicle %s: %w", vin, err)
	}
	return &v, nil
}
