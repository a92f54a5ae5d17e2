package domain

import "time"

// Movement is a single aircraft movement extracted from a tower log line.
// Wire keys match the documents already stored in the movimento_aeronaves
// collection, so the frontend and the existing data keep working unchanged.
type Movement struct {
	Timestamp    *time.Time `json:"timestamp" firestore:"timestamp"`
	Registration string     `json:"matricula" firestore:"matricula"`
	AircraftType string     `json:"tipo_aeronave" firestore:"tipo_aeronave"`
	Destination  string     `json:"destino" firestore:"destino"`
	FlightRule   string     `json:"regra_voo" firestore:"regra_voo"`
	Runway       string     `json:"pista" firestore:"pista"`
	Operator     string     `json:"responsavel" firestore:"responsavel"`
}

// Flight rule values as exposed over the API.
const (
	RuleIFR     = "IFR"
	RuleVFR     = "VFR"
	FieldAbsent = "N/A"
)

// UploadRecord is the audit row written for every processed upload.
type UploadRecord struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	RecordCount int       `json:"record_count"`
	ArchiveKey  string    `json:"archive_key,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DailyStat aggregates movements for one calendar day.
type DailyStat struct {
	Day       time.Time `json:"day"`
	Total     int       `json:"total"`
	IFRCount  int       `json:"ifr_count"`
	VFRCount  int       `json:"vfr_count"`
	UpdatedAt time.Time `json:"updated_at"`
}
