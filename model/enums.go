package model

import "strings"

type ReconStatus string

const (
	ReconStatusInProgress   ReconStatus = "IN_PROGRESS"
	ReconStatusComplete     ReconStatus = "COMPLETE"
	// ReconStatusNoReconFound is only emitted when the legacy
	// includeNoReconFound policy is enabled in config.
	ReconStatusNoReconFound ReconStatus = "NO_RECON_FOUND"
)

type FileKind string

const (
	FileKindInventory       FileKind = "INVENTORY"
	FileKindROClosed        FileKind = "RO_CLOSED"
	FileKindROClosedDetails FileKind = "RO_CLOSED_DETAILS"
	FileKindROOpen          FileKind = "RO_OPEN"
	FileKindROOpenDetails   FileKind = "RO_OPEN_DETAILS"
	FileKindUnknown         FileKind = "UNKNOWN"
)

// Store is the dealership group entity owning a vehicle. The DMS encodes it
// as a small integer string.
type Store string

const (
	StoreACF  Store = "1"
	StoreLCF  Store = "2"
	StoreCFMG Store = "3"
)

var storeNames = map[Store]string{
	StoreACF:  "ACF",
	StoreLCF:  "LCF",
	StoreCFMG: "CFMG",
}

// ParseStore validates a raw DMS store code. Unknown codes are rejected at
// ingestion rather than surfacing at display time.
func ParseStore(s string) (Store, bool) {
	st := Store(strings.TrimSpace(s))
	_, ok := storeNames[st]
	return st, ok
}

func (s Store) Name() string {
	if n, ok := storeNames[s]; ok {
		return n
	}
	return string(s)
}
