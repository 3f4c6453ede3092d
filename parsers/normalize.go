package parsers

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"recontrack/model"
)

// Column-name variants observed across DMS exports, in priority order.
// Row keys are already lower-cased, so one spelling covers all case variants.
var (
	vinAliases       = []string{"vin"}
	stockNoAliases   = []string{"stockno", "stocknumber"}
	stockTypeAliases = []string{"stocktype"}
	storeAliases     = []string{"inventorycompany", "company"}
	entryDateAliases = []string{"entrydate", "datein"}
	yearAliases      = []string{"year"}
	makeAliases      = []string{"make", "makenameupper"}
	modelAliases     = []string{"model"}
	mileageAliases   = []string{"mileage", "miles"}
	locationAliases  = []string{"lotlocation", "location"}
	soldDateAliases  = []string{"solddate", "vehiclesolddate"}

	roNumberAliases  = []string{"ronumber", "repairorder"}
	openDateAliases  = []string{"opendate"}
	closeDateAliases = []string{"closedate"}
	roStatusAliases  = []string{"rostatuscode", "status"}

	opCodeAliases    = []string{"opcode", "operationcode"}
	opDescAliases    = []string{"opcodedescription", "opcodedesc", "description"}
	laborTypeAliases = []string{"labortype"}
	laborSaleAliases = []string{"laborsale"}
	laborCostAliases = []string{"laborcost"}
	partsSaleAliases = []string{"partssale"}
	partsCostAliases = []string{"partscost"}
)

// first returns the first present, non-empty value among the aliases.
func first(row Row, aliases []string) string {
	for _, key := range aliases {
		if v, ok := row[key]; ok && v != "" {
			return v
		}
	}
	return ""
}

var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"20060102",
}

// coerceDate normalizes any accepted date spelling to "2006-01-02".
// Unparseable input is absent, never an error: one bad date must not drop
// a file.
func coerceDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range dateFormats {
		if d, err := time.Parse(layout, s); err == nil {
			return d.Format("2006-01-02")
		}
	}
	return ""
}

func coerceInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func coerceDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// NormalizeInventory maps a raw row to a canonical vehicle. Only USED stock
// with both VIN and stock number survives; everything else reports ok=false
// and is silently dropped. A vehicle without a usable entry date gets the
// processing date: reconciliation needs a date even if it is questionable.
func NormalizeInventory(row Row, processingDate string) (model.InventoryVehicle, bool) {
	vin := strings.TrimSpace(first(row, vinAliases))
	stockNo := strings.TrimSpace(first(row, stockNoAliases))
	stockType := strings.ToUpper(strings.TrimSpace(first(row, stockTypeAliases)))

	if vin == "" || stockNo == "" || stockType != "USED" {
		return model.InventoryVehicle{}, false
	}

	entryDate := coerceDate(first(row, entryDateAliases))
	if entryDate == "" {
		entryDate = processingDate
	}

	store, _ := model.ParseStore(first(row, storeAliases))

	return model.InventoryVehicle{
		VIN:         vin,
		StockNo:     stockNo,
		StockType:   stockType,
		Store:       store,
		EntryDate:   entryDate,
		Year:        coerceInt(first(row, yearAliases)),
		Make:        first(row, makeAliases),
		Model:       first(row, modelAliases),
		Mileage:     coerceInt(first(row, mileageAliases)),
		LotLocation: first(row, locationAliases),
		SoldDate:    coerceDate(first(row, soldDateAliases)),
	}, true
}

// NormalizeServiceRO maps a raw row to an RO header. Rows missing either the
// RO number or the VIN are dropped.
func NormalizeServiceRO(row Row, isOpen bool) (model.ServiceRO, bool) {
	roNumber := strings.TrimSpace(first(row, roNumberAliases))
	vin := strings.TrimSpace(first(row, vinAliases))
	if roNumber == "" || vin == "" {
		return model.ServiceRO{}, false
	}

	return model.ServiceRO{
		RONumber:     roNumber,
		VIN:          vin,
		OpenDate:     coerceDate(first(row, openDateAliases)),
		CloseDate:    coerceDate(first(row, closeDateAliases)),
		ROStatusCode: first(row, roStatusAliases),
		IsOpen:       isOpen,
	}, true
}

// DetailRONumber resolves the RO number of a raw detail row before any
// normalization filtering. Replacement works on the file's full RO set: an
// RO whose rows are all dropped by NormalizeRODetail still had its lines
// superseded by the export.
func DetailRONumber(row Row) string {
	return strings.TrimSpace(first(row, roNumberAliases))
}

// NormalizeRODetail maps a raw row to a detail line. The op code is kept as
// its string form since some DMS exports emit it numerically. Rows missing
// the RO number or op code are dropped; missing cost values count as zero.
func NormalizeRODetail(row Row) (model.ServiceRODetail, bool) {
	roNumber := strings.TrimSpace(first(row, roNumberAliases))
	opCode := strings.TrimSpace(first(row, opCodeAliases))
	if roNumber == "" || opCode == "" {
		return model.ServiceRODetail{}, false
	}

	return model.ServiceRODetail{
		RONumber:      roNumber,
		OpCode:        opCode,
		OpDescription: first(row, opDescAliases),
		LaborType:     first(row, laborTypeAliases),
		LaborSale:     coerceDecimal(first(row, laborSaleAliases)),
		LaborCost:     coerceDecimal(first(row, laborCostAliases)),
		PartsSale:     coerceDecimal(first(row, partsSaleAliases)),
		PartsCost:     coerceDecimal(first(row, partsCostAliases)),
	}, true
}
