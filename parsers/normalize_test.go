package parsers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"recontrack/model"
)

const today = "2024-06-01"

func TestNormalizeInventory(t *testing.T) {
	v, ok := NormalizeInventory(Row{
		"vin":              "1HGCM82633A004352",
		"stockno":          "S100",
		"stocktype":        "used",
		"inventorycompany": "2",
		"entrydate":        "2023-10-01",
		"year":             "2020",
		"make":             "Honda",
		"model":            "Accord",
		"mileage":          "42000",
		"lotlocation":      "Front Row",
		"solddate":         "",
	}, today)
	require.True(t, ok)
	require.Equal(t, "1HGCM82633A004352", v.VIN)
	require.Equal(t, "S100", v.StockNo)
	require.Equal(t, "USED", v.StockType)
	require.Equal(t, model.StoreLCF, v.Store)
	require.Equal(t, "2023-10-01", v.EntryDate)
	require.Equal(t, 2020, v.Year)
	require.Equal(t, 42000, v.Mileage)
	require.Equal(t, "", v.SoldDate)
}

func TestNormalizeInventoryAliases(t *testing.T) {
	v, ok := NormalizeInventory(Row{
		"vin":             "V1",
		"stocknumber":     "S1",
		"stocktype":       "USED",
		"datein":          "10/05/2023",
		"makenameupper":   "FORD",
		"miles":           "9000",
		"location":        "Back Lot",
		"vehiclesolddate": "2023-11-02",
	}, today)
	require.True(t, ok)
	require.Equal(t, "S1", v.StockNo)
	require.Equal(t, "2023-10-05", v.EntryDate)
	require.Equal(t, "FORD", v.Make)
	require.Equal(t, 9000, v.Mileage)
	require.Equal(t, "Back Lot", v.LotLocation)
	require.Equal(t, "2023-11-02", v.SoldDate)
}

func TestNormalizeInventoryFilters(t *testing.T) {
	_, ok := NormalizeInventory(Row{"vin": "V1", "stockno": "S1", "stocktype": "NEW"}, today)
	require.False(t, ok, "non-USED stock must be dropped")

	_, ok = NormalizeInventory(Row{"stockno": "S1", "stocktype": "USED"}, today)
	require.False(t, ok, "missing VIN must be dropped")

	_, ok = NormalizeInventory(Row{"vin": "V1", "stocktype": "USED"}, today)
	require.False(t, ok, "missing stock number must be dropped")
}

func TestNormalizeInventoryEntryDateDefaults(t *testing.T) {
	v, ok := NormalizeInventory(Row{"vin": "V1", "stockno": "S1", "stocktype": "USED"}, today)
	require.True(t, ok)
	require.Equal(t, today, v.EntryDate)

	v, ok = NormalizeInventory(Row{"vin": "V1", "stockno": "S1", "stocktype": "USED", "entrydate": "not-a-date"}, today)
	require.True(t, ok)
	require.Equal(t, today, v.EntryDate, "unparseable entry date falls back to the processing date")
}

func TestNormalizeInventoryRejectsUnknownStore(t *testing.T) {
	v, ok := NormalizeInventory(Row{"vin": "V1", "stockno": "S1", "stocktype": "USED", "inventorycompany": "9"}, today)
	require.True(t, ok)
	require.Equal(t, model.Store(""), v.Store)
}

func TestNormalizeServiceRO(t *testing.T) {
	ro, ok := NormalizeServiceRO(Row{
		"ronumber":     "R100",
		"vin":          "V1",
		"opendate":     "2023-10-02",
		"closedate":    "2023-10-05",
		"rostatuscode": "C",
	}, false)
	require.True(t, ok)
	require.Equal(t, "R100", ro.RONumber)
	require.Equal(t, "2023-10-05", ro.CloseDate)
	require.False(t, ro.IsOpen)

	ro, ok = NormalizeServiceRO(Row{"repairorder": "R101", "vin": "V1"}, true)
	require.True(t, ok)
	require.Equal(t, "R101", ro.RONumber)
	require.Equal(t, "", ro.CloseDate)
	require.True(t, ro.IsOpen)
}

func TestNormalizeServiceRORequiredFields(t *testing.T) {
	_, ok := NormalizeServiceRO(Row{"ronumber": "R100"}, false)
	require.False(t, ok)

	_, ok = NormalizeServiceRO(Row{"vin": "V1"}, false)
	require.False(t, ok)
}

func TestNormalizeRODetail(t *testing.T) {
	d, ok := NormalizeRODetail(Row{
		"ronumber":          "R100",
		"opcode":            "100",
		"opcodedescription": "Used car inspection",
		"labortype":         "ISP",
		"laborsale":         "150.50",
		"laborcost":         "75.25",
		"partssale":         "20",
		"partscost":         "10",
	})
	require.True(t, ok)
	require.Equal(t, "100", d.OpCode, "numeric op codes stay strings")
	require.Equal(t, "75.25", d.LaborCost.String())
	require.Equal(t, "10", d.PartsCost.String())
}

func TestNormalizeRODetailMissingCostsAreZero(t *testing.T) {
	d, ok := NormalizeRODetail(Row{"ronumber": "R100", "opcode": "UCI", "laborcost": "n/a"})
	require.True(t, ok)
	require.True(t, d.LaborCost.IsZero())
	require.True(t, d.PartsCost.IsZero())
}

func TestNormalizeRODetailRequiredFields(t *testing.T) {
	_, ok := NormalizeRODetail(Row{"ronumber": "R100"})
	require.False(t, ok)

	_, ok = NormalizeRODetail(Row{"opcode": "UCI"})
	require.False(t, ok)
}

func TestCoerceDateFormats(t *testing.T) {
	for input, want := range map[string]string{
		"2023-10-05":           "2023-10-05",
		"2023-10-05 14:30:00":  "2023-10-05",
		"2023-10-05T14:30:00Z": "2023-10-05",
		"10/05/2023":           "2023-10-05",
		"1/7/2023":             "2023-01-07",
		"20231005":             "2023-10-05",
		"garbage":              "",
		"":                     "",
	} {
		require.Equal(t, want, coerceDate(input), "input %q", input)
	}
}
