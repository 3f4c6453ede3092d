package recon

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"recontrack/config"
	"recontrack/database"
	"recontrack/model"
)

// Recompute rebuilds the entire fact table from the raw entities: a pure
// function of inventory, RO headers and RO details at the time of the call.
// The rebuild runs as one transaction, so a failure leaves the previous
// fact generation intact and readers never observe a partial table.
//
// Per eligible vehicle (USED, unsold):
//  1. collect its ROs, matched on case/whitespace-normalized VIN
//  2. find the latest *closed* RO carrying a recon op code -> COMPLETE,
//     recon days = close date - entry date
//  3. otherwise, any recon-coded RO at all -> IN_PROGRESS, recon days =
//     today - entry date
//  4. no recon-coded RO -> excluded (or NO_RECON_FOUND under the legacy
//     policy)
//  5. cost totals sum every detail line of every RO for the VIN, not just
//     the triggering one
func Recompute(db *sqlx.DB, cfg config.Config, now time.Time) (err error) {
	start := time.Now()

	inventory, err := database.ListEligibleInventory(db)
	if err != nil {
		return err
	}
	ros, err := database.ListAllServiceROs(db)
	if err != nil {
		return err
	}
	details, err := database.ListAllRODetails(db)
	if err != nil {
		return err
	}

	rosByVIN := make(map[string][]model.ServiceRO)
	for _, ro := range ros {
		key := normalizeVIN(ro.VIN)
		rosByVIN[key] = append(rosByVIN[key], ro)
	}
	detailsByRO := make(map[string][]model.ServiceRODetail)
	for _, d := range details {
		detailsByRO[d.RONumber] = append(detailsByRO[d.RONumber], d)
	}

	triggers := make(map[string]bool, len(cfg.ReconOpCodes))
	for _, code := range cfg.ReconOpCodes {
		triggers[strings.ToUpper(strings.TrimSpace(code))] = true
	}

	today := now.Format("2006-01-02")
	computedAt := now.Format(time.RFC3339)

	facts := make([]model.FactReconVehicle, 0, len(inventory))
	for _, v := range inventory {
		vros := rosByVIN[normalizeVIN(v.VIN)]

		var lastRecon *model.ServiceRO
		hasRecon := false
		for i := range vros {
			if !hasTriggerCode(detailsByRO[vros[i].RONumber], triggers) {
				continue
			}
			hasRecon = true
			if vros[i].CloseDate == "" {
				continue
			}
			// Dates are ISO strings, so lexical order is date order.
			if lastRecon == nil || vros[i].CloseDate > lastRecon.CloseDate {
				lastRecon = &vros[i]
			}
		}

		if !hasRecon && !cfg.IncludeNoReconFound {
			continue
		}

		fact := model.FactReconVehicle{
			VIN:         v.VIN,
			StockNo:     v.StockNo,
			Store:       v.Store,
			EntryDate:   v.EntryDate,
			LotLocation: v.LotLocation,
			Year:        v.Year,
			Make:        v.Make,
			Model:       v.Model,
			Mileage:     v.Mileage,
			SoldDate:    v.SoldDate,
			ComputedAt:  computedAt,
		}

		switch {
		case lastRecon != nil:
			fact.ReconStatus = model.ReconStatusComplete
			fact.LastReconRONumber = lastRecon.RONumber
			fact.LastReconCloseDate = lastRecon.CloseDate
			// Negative values from dirty data are preserved: clamping would
			// hide the data-quality signal.
			fact.ReconDays = daysBetween(v.EntryDate, lastRecon.CloseDate)
		case hasRecon:
			fact.ReconStatus = model.ReconStatusInProgress
			fact.ReconDays = daysBetween(v.EntryDate, today)
		default:
			fact.ReconStatus = model.ReconStatusNoReconFound
			fact.ReconDays = daysBetween(v.EntryDate, today)
		}

		labor, parts := decimal.Zero, decimal.Zero
		for _, ro := range vros {
			for _, d := range detailsByRO[ro.RONumber] {
				labor = labor.Add(d.LaborCost)
				parts = parts.Add(d.PartsCost)
			}
		}
		fact.TotalLaborCost = labor
		fact.TotalPartsCost = parts
		fact.TotalReconCost = labor.Add(parts)

		facts = append(facts, fact)
	}

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin recompute transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if err = database.ReplaceFacts(tx, facts); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"vehicles": len(facts),
		"elapsed":  time.Since(start).Round(time.Millisecond).String(),
	}).Info("recon fact table rebuilt")
	return nil
}

func normalizeVIN(vin string) string {
	return strings.ToUpper(strings.TrimSpace(vin))
}

func hasTriggerCode(details []model.ServiceRODetail, triggers map[string]bool) bool {
	for _, d := range details {
		if triggers[strings.ToUpper(strings.TrimSpace(d.OpCode))] {
			return true
		}
	}
	return false
}

// daysBetween returns whole days from one ISO date to another. Either side
// failing to parse yields zero rather than an error: raw dates were already
// coerced at ingestion, so this only guards hand-edited data.
func daysBetween(from, to string) int {
	f, err := time.Parse("2006-01-02", from)
	if err != nil {
		return 0
	}
	t, err := time.Parse("2006-01-02", to)
	if err != nil {
		return 0
	}
	return int(t.Sub(f).Hours() / 24)
}
