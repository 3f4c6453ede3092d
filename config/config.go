package config

import (
	"encoding/json"
	"os"
	"sync"
)

type Config struct {
	DBPath       string `json:"dbPath"`
	IncomingDir  string `json:"incomingDir"`
	ProcessedDir string `json:"processedDir"`
	RejectedDir  string `json:"rejectedDir"`
	ListenAddr   string `json:"listenAddr"`

	// ReconOpCodes are the RO line operation codes that mark recon work.
	// Deployments still receiving the legacy export can add "100".
	ReconOpCodes []string `json:"reconOpCodes"`

	// IncludeNoReconFound restores the older fact-table policy: vehicles
	// with no recon-coded RO are kept with status NO_RECON_FOUND instead of
	// being excluded.
	IncludeNoReconFound bool `json:"includeNoReconFound"`

	// OverwriteStoreOnConflict controls whether re-ingesting a VIN also
	// overwrites the store and stock type columns, or leaves the values
	// from the first insert.
	OverwriteStoreOnConflict bool `json:"overwriteStoreOnConflict"`

	AgingThresholdDays int `json:"agingThresholdDays"`
	IngestionLogLimit  int `json:"ingestionLogLimit"`
}

var (
	cfg Config
	mu  sync.RWMutex
)

const configFilePath = "./recontrack_config.json"

func applyDefaults(c *Config) {
	if c.DBPath == "" {
		c.DBPath = "./recontrack.db"
	}
	if c.IncomingDir == "" {
		c.IncomingDir = "data/incoming"
	}
	if c.ProcessedDir == "" {
		c.ProcessedDir = "data/processed"
	}
	if c.RejectedDir == "" {
		c.RejectedDir = "data/rejected"
	}
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if len(c.ReconOpCodes) == 0 {
		c.ReconOpCodes = []string{"UCI"}
	}
	if c.AgingThresholdDays == 0 {
		c.AgingThresholdDays = 10
	}
	if c.IngestionLogLimit == 0 {
		c.IngestionLogLimit = 20
	}
}

func LoadConfig() (Config, error) {
	mu.Lock()
	defer mu.Unlock()

	file, err := os.ReadFile(configFilePath)
	if err != nil {
		applyDefaults(&cfg)
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var tempCfg Config
	if err := json.Unmarshal(file, &tempCfg); err != nil {
		applyDefaults(&cfg)
		return cfg, err
	}
	applyDefaults(&tempCfg)
	cfg = tempCfg

	return cfg, nil
}

func SaveConfig(newCfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	applyDefaults(&newCfg)

	file, err := json.MarshalIndent(newCfg, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(configFilePath, file, 0644); err != nil {
		return err
	}
	cfg = newCfg
	return nil
}

func GetConfig() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}
