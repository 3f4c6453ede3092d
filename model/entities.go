package model

import "github.com/shopspring/decimal"

// Dates are stored as "2006-01-02" strings; empty string means not set.
// Timestamps are RFC3339 strings.

type InventoryVehicle struct {
	VIN         string `db:"vin" json:"vin"`
	StockNo     string `db:"stock_no" json:"stockNo"`
	StockType   string `db:"stock_type" json:"stockType"`
	Store       Store  `db:"store" json:"store"`
	EntryDate   string `db:"entry_date" json:"entryDate"`
	Year        int    `db:"year" json:"year"`
	Make        string `db:"make" json:"make"`
	Model       string `db:"model" json:"model"`
	Mileage     int    `db:"mileage" json:"mileage"`
	LotLocation string `db:"lot_location" json:"lotLocation"`
	SoldDate    string `db:"sold_date" json:"soldDate"`
	UpdatedAt   string `db:"updated_at" json:"updatedAt"`
}

type ServiceRO struct {
	RONumber     string `db:"ro_number" json:"roNumber"`
	VIN          string `db:"vin" json:"vin"`
	OpenDate     string `db:"open_date" json:"openDate"`
	CloseDate    string `db:"close_date" json:"closeDate"`
	ROStatusCode string `db:"ro_status_code" json:"roStatusCode"`
	IsOpen       bool   `db:"is_open" json:"isOpen"`
	UpdatedAt    string `db:"updated_at" json:"updatedAt"`
}

type ServiceRODetail struct {
	ID            int64           `db:"id" json:"id"`
	RONumber      string          `db:"ro_number" json:"roNumber"`
	OpCode        string          `db:"op_code" json:"opCode"`
	OpDescription string          `db:"op_description" json:"opDescription"`
	LaborType     string          `db:"labor_type" json:"laborType"`
	LaborSale     decimal.Decimal `db:"labor_sale" json:"laborSale"`
	LaborCost     decimal.Decimal `db:"labor_cost" json:"laborCost"`
	PartsSale     decimal.Decimal `db:"parts_sale" json:"partsSale"`
	PartsCost     decimal.Decimal `db:"parts_cost" json:"partsCost"`
}

type IngestionLog struct {
	ID           int64    `db:"id" json:"id"`
	FileName     string   `db:"file_name" json:"fileName"`
	FileType     FileKind `db:"file_type" json:"fileType"`
	RowCount     *int     `db:"row_count" json:"rowCount"`
	Status       string   `db:"status" json:"status"`
	ErrorMessage string   `db:"error_message" json:"errorMessage"`
	IngestedAt   string   `db:"ingested_at" json:"ingestedAt"`
}

// FactReconVehicle is the derived per-vehicle recon row. It is produced
// wholesale by the recon package and never written during ingestion.
type FactReconVehicle struct {
	VIN         string `db:"vin" json:"vin"`
	StockNo     string `db:"stock_no" json:"stockNo"`
	Store       Store  `db:"store" json:"store"`
	EntryDate   string `db:"entry_date" json:"entryDate"`
	LotLocation string `db:"lot_location" json:"lotLocation"`
	Year        int    `db:"year" json:"year"`
	Make        string `db:"make" json:"make"`
	Model       string `db:"model" json:"model"`
	Mileage     int    `db:"mileage" json:"mileage"`
	SoldDate    string `db:"sold_date" json:"soldDate"`

	LastReconRONumber  string      `db:"last_recon_ro_number" json:"lastReconRoNumber"`
	LastReconCloseDate string      `db:"last_recon_close_date" json:"lastReconCloseDate"`
	ReconDays          int         `db:"recon_days" json:"reconDays"`
	ReconStatus        ReconStatus `db:"recon_status" json:"reconStatus"`

	TotalLaborCost decimal.Decimal `db:"total_labor_cost" json:"totalLaborCost"`
	TotalPartsCost decimal.Decimal `db:"total_parts_cost" json:"totalPartsCost"`
	TotalReconCost decimal.Decimal `db:"total_recon_cost" json:"totalReconCost"`

	ComputedAt string `db:"computed_at" json:"computedAt"`
}
