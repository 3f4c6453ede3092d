package loader

import (
	"testing"

	"github.com/stretchr/testify/require"

	"recontrack/model"
)

func TestDetectFileKind(t *testing.T) {
	cases := []struct {
		filename string
		want     model.FileKind
	}{
		{"UsedInventory_20240101.csv", model.FileKindInventory},
		{"INVENTORY.CSV", model.FileKindInventory},
		{"ServiceSalesClosed_20240101.csv", model.FileKindROClosed},
		{"service_closed_export.csv", model.FileKindROClosed},
		{"ServiceDetailsClosed_20240101.csv", model.FileKindROClosedDetails},
		{"ServiceSalesOpen_20240101.csv", model.FileKindROOpen},
		{"service_open_export.csv", model.FileKindROOpen},
		{"ServiceDetailsOpen_20240101.csv", model.FileKindROOpenDetails},
		{"random_export.csv", model.FileKindUnknown},
		{"sales_report.csv", model.FileKindUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.filename, func(t *testing.T) {
			require.Equal(t, tc.want, DetectFileKind(tc.filename))
		})
	}
}

func TestDetectFileKindInventoryWins(t *testing.T) {
	// "inventory" takes priority over any service pattern in the same name.
	require.Equal(t, model.FileKindInventory, DetectFileKind("inventory_service_closed.csv"))
}

func TestDetectFileKindDetailRequiredForDetailKinds(t *testing.T) {
	// A service file without "detail" must never classify as a details kind.
	require.Equal(t, model.FileKindROClosed, DetectFileKind("ServiceClosed.csv"))
	require.Equal(t, model.FileKindROClosedDetails, DetectFileKind("ServiceDetailClosed.csv"))
}
