package model

import "github.com/shopspring/decimal"

// VehicleFilters are the accepted filter/sort/pagination keys for the
// vehicle list endpoint.
type VehicleFilters struct {
	Search string
	Store  string
	Status string
	SortBy string // days_desc (default), days_asc, date_desc, date_asc
	Page   int    // 1-based
	Limit  int
}

type VehicleList struct {
	Items []FactReconVehicle `json:"items"`
	Total int                `json:"total"`
}

type DashboardStats struct {
	AvgReconDays       int             `json:"avgReconDays"`
	MedianReconDays    int             `json:"medianReconDays"`
	CountInProgress    int             `json:"countInProgress"`
	CountNoRecon       int             `json:"countNoRecon"`
	CountCompleted     int             `json:"countCompleted"`
	CountOverThreshold int             `json:"countOverThreshold"`
	TotalReconCost     decimal.Decimal `json:"totalReconCost"`
}

type ROWithDetails struct {
	ServiceRO
	Details []ServiceRODetail `json:"details"`
}

type VehicleDetail struct {
	Vehicle   FactReconVehicle `json:"vehicle"`
	ROHistory []ROWithDetails  `json:"roHistory"`
}
