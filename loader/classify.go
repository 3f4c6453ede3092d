package loader

import (
	"strings"

	"recontrack/model"
)

// DetectFileKind assigns one of the five recognized file kinds from the file
// name alone. The naming convention is the ingestion wire contract: DMS
// export jobs emit names like "UsedInventory_20240101.csv",
// "ServiceSalesClosed.csv" or "ServiceDetailsOpen.csv". Matching is
// case-insensitive; "detail" distinguishes line files from their header
// counterparts, and "inventory" wins outright.
func DetectFileKind(filename string) model.FileKind {
	name := strings.ToLower(filename)

	has := func(s string) bool { return strings.Contains(name, s) }

	switch {
	case has("inventory"):
		return model.FileKindInventory
	case has("salesclosed"), has("service") && has("closed") && !has("detail"):
		return model.FileKindROClosed
	case has("detailsclosed"), has("service") && has("detail") && has("closed"):
		return model.FileKindROClosedDetails
	case has("salesopen"), has("service") && has("open") && !has("detail"):
		return model.FileKindROOpen
	case has("detailsopen"), has("service") && has("detail") && has("open"):
		return model.FileKindROOpenDetails
	default:
		return model.FileKindUnknown
	}
}
