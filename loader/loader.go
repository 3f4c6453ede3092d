package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"recontrack/config"
	"recontrack/database"
	"recontrack/model"
	"recontrack/parsers"
	"recontrack/recon"
)

// ingestMu serializes whole ingestion runs: concurrent triggers must not
// interleave file processing or the fact-table rebuild.
var ingestMu sync.Mutex

// EnsureDirs creates the intake and archive directories.
func EnsureDirs(cfg config.Config) error {
	for _, dir := range []string{cfg.IncomingDir, cfg.ProcessedDir, cfg.RejectedDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ProcessFiles ingests every pending CSV in the intake directory, strictly
// sequentially. A failing file is archived to the rejected dir and logged,
// and never aborts the run. If at least one file succeeded, the fact table
// is recomputed exactly once at the end; a recompute failure is returned to
// the caller since it affects every vehicle, not one file.
func ProcessFiles(db *sqlx.DB, cfg config.Config) ([]string, error) {
	ingestMu.Lock()
	defer ingestMu.Unlock()

	entries, err := os.ReadDir(cfg.IncomingDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read intake directory %s: %w", cfg.IncomingDir, err)
	}

	processed := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}

		name := entry.Name()
		path := filepath.Join(cfg.IncomingDir, name)

		kind := DetectFileKind(name)
		if kind == model.FileKindUnknown {
			logrus.WithField("file", name).Warn("unrecognized file name pattern, rejecting")
			rejectFile(db, cfg, path, name, model.FileKindUnknown, fmt.Errorf("unknown file type"))
			continue
		}

		logrus.WithFields(logrus.Fields{"file": name, "kind": kind}).Info("processing file")
		rowCount, err := processFile(db, cfg, path, kind)
		if err != nil {
			logrus.WithField("file", name).WithError(err).Error("file ingestion failed")
			rejectFile(db, cfg, path, name, kind, err)
			continue
		}

		archiveFile(path, cfg.ProcessedDir, name)
		appendLog(db, model.IngestionLog{
			FileName: name,
			FileType: kind,
			RowCount: &rowCount,
			Status:   "SUCCESS",
		})
		logrus.WithFields(logrus.Fields{"file": name, "rows": rowCount}).Info("file ingested")
		processed = append(processed, name)
	}

	if len(processed) > 0 {
		if err := recon.Recompute(db, cfg, time.Now()); err != nil {
			return processed, fmt.Errorf("reconciliation failed: %w", err)
		}
	}

	return processed, nil
}

// processFile parses, normalizes and upserts one classified file inside a
// single transaction, so the delete-then-insert step for detail files never
// leaves an RO without lines. Returns the raw row count read from the file.
func processFile(db *sqlx.DB, cfg config.Config, path string, kind model.FileKind) (rowCount int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := parsers.ReadRows(f)
	if err != nil {
		return 0, err
	}
	rowCount = len(rows)

	tx, err := db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
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

	processingDate := time.Now().Format("2006-01-02")
	now := time.Now().Format(time.RFC3339)

	switch kind {
	case model.FileKindInventory:
		var items []model.InventoryVehicle
		for _, row := range rows {
			v, ok := parsers.NormalizeInventory(row, processingDate)
			if !ok {
				continue
			}
			v.UpdatedAt = now
			items = append(items, v)
		}
		err = database.UpsertInventoryVehicles(tx, dedupeInventory(items), cfg.OverwriteStoreOnConflict)

	case model.FileKindROClosed, model.FileKindROOpen:
		isOpen := kind == model.FileKindROOpen
		var items []model.ServiceRO
		for _, row := range rows {
			ro, ok := parsers.NormalizeServiceRO(row, isOpen)
			if !ok {
				continue
			}
			ro.UpdatedAt = now
			items = append(items, ro)
		}
		err = database.UpsertServiceROs(tx, dedupeServiceROs(items))

	case model.FileKindROClosedDetails, model.FileKindROOpenDetails:
		var items []model.ServiceRODetail
		for _, row := range rows {
			d, ok := parsers.NormalizeRODetail(row)
			if !ok {
				continue
			}
			items = append(items, d)
		}
		// Full replacement per RO: every incoming RO's existing lines go
		// first, then the new lines are inserted. The RO set comes from the
		// raw rows, not the normalized ones: an RO present only as dropped
		// rows still gets its stale lines cleared.
		if err = database.DeleteRODetailsByRONumbers(tx, distinctRONumbers(rows)); err == nil {
			err = database.InsertRODetails(tx, items)
		}

	default:
		err = fmt.Errorf("unknown file type %s", kind)
	}

	if err != nil {
		return 0, err
	}
	return rowCount, nil
}

// dedupeInventory keeps the last occurrence per VIN, preserving file order,
// so one statement never touches the same key twice.
func dedupeInventory(items []model.InventoryVehicle) []model.InventoryVehicle {
	idx := make(map[string]int, len(items))
	out := items[:0]
	for _, v := range items {
		if i, ok := idx[v.VIN]; ok {
			out[i] = v
			continue
		}
		idx[v.VIN] = len(out)
		out = append(out, v)
	}
	return out
}

func dedupeServiceROs(items []model.ServiceRO) []model.ServiceRO {
	idx := make(map[string]int, len(items))
	out := items[:0]
	for _, ro := range items {
		if i, ok := idx[ro.RONumber]; ok {
			out[i] = ro
			continue
		}
		idx[ro.RONumber] = len(out)
		out = append(out, ro)
	}
	return out
}

// distinctRONumbers collects the RO set of a raw detail file, case-sensitive
// as the raw records are.
func distinctRONumbers(rows []parsers.Row) []string {
	seen := make(map[string]bool, len(rows))
	var out []string
	for _, row := range rows {
		ro := parsers.DetailRONumber(row)
		if ro == "" || seen[ro] {
			continue
		}
		seen[ro] = true
		out = append(out, ro)
	}
	return out
}

// rejectFile moves a failed file to the rejected archive and logs the
// failure. Archive errors are warned and swallowed: the ingestion log entry
// is the record of what happened.
func rejectFile(db *sqlx.DB, cfg config.Config, path, name string, kind model.FileKind, cause error) {
	archiveFile(path, cfg.RejectedDir, name)
	appendLog(db, model.IngestionLog{
		FileName:     name,
		FileType:     kind,
		Status:       "FAILED",
		ErrorMessage: cause.Error(),
	})
}

// archiveFile renames the source into an archive dir with a millisecond
// timestamp prefix so repeated exports of the same file name never collide.
func archiveFile(path, dir, name string) {
	dest := filepath.Join(dir, fmt.Sprintf("%d_%s", time.Now().UnixMilli(), name))
	if err := os.Rename(path, dest); err != nil {
		logrus.WithField("file", name).WithError(err).Warn("failed to archive file")
	}
}

func appendLog(db *sqlx.DB, entry model.IngestionLog) {
	entry.IngestedAt = time.Now().Format(time.RFC3339)
	if err := database.InsertIngestionLog(db, entry); err != nil {
		logrus.WithField("file", entry.FileName).WithError(err).Error("failed to write ingestion log")
	}
}
