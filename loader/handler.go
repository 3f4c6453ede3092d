package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"recontrack/config"
	"recontrack/database"
	"recontrack/model"
)

func respondJSONError(w http.ResponseWriter, message string, statusCode int) {
	logrus.Error("error response: ", message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// TriggerIngestHandler runs one ingestion pass over the intake directory.
func TriggerIngestHandler(db *sqlx.DB, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		processed, err := ProcessFiles(db, cfg)
		if err != nil {
			respondJSONError(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message":        "Ingestion complete",
			"processedFiles": processed,
		})
	}
}

// UploadHandler accepts one or more CSV files, places them into the intake
// directory under their original names (classification is filename-based,
// so a generated name would defeat it), then runs an ingestion pass.
func UploadHandler(db *sqlx.DB, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			respondJSONError(w, "File upload error: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer r.MultipartForm.RemoveAll()

		fileHeaders := r.MultipartForm.File["files"]
		if len(fileHeaders) == 0 {
			respondJSONError(w, "No files uploaded", http.StatusBadRequest)
			return
		}

		for _, fh := range fileHeaders {
			if err := saveToIncoming(cfg.IncomingDir, fh); err != nil {
				respondJSONError(w, err.Error(), http.StatusInternalServerError)
				return
			}
		}

		processed, err := ProcessFiles(db, cfg)
		if err != nil {
			respondJSONError(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message":        fmt.Sprintf("Uploaded %d file(s), ingestion triggered", len(fileHeaders)),
			"processedFiles": processed,
		})
	}
}

func saveToIncoming(dir string, fh *multipart.FileHeader) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file %s: %w", fh.Filename, err)
	}
	defer src.Close()

	// Base keeps path components out of the intake dir.
	dest := filepath.Join(dir, filepath.Base(fh.Filename))
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("failed to save %s: %w", dest, err)
	}
	return nil
}

// IngestionLogsHandler returns the bounded recent ingestion audit trail,
// newest first.
func IngestionLogsHandler(db *sqlx.DB, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs, err := database.RecentIngestionLogs(db, cfg.IngestionLogLimit)
		if err != nil {
			respondJSONError(w, "Failed to retrieve ingestion logs", http.StatusInternalServerError)
			return
		}
		if logs == nil {
			logs = []model.IngestionLog{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(logs)
	}
}
