package transport

// SearchRequest carries the query parameters of a search call.
// Page and PageSize are 1-indexed and must be positive; requests that fail
// these bounds are rejected before the engine is contacted.
type SearchRequest struct {
	Q                string `form:"q"`
	Page             int    `form:"page" validate:"required,min=1"`
	PageSize         int    `form:"pageSize" validate:"required,min=1"`
	SortBy           string `form:"sortBy" validate:"omitempty,oneof=assignee manufactured serial model"`
	SortDir          string `form:"sortDir" validate:"omitempty,oneof=asc desc"`
	Category         string `form:"category"`
	Manufacturer     string `form:"manufacturer"`
	ManufacturedFrom string `form:"manufacturedFrom"`
	ManufacturedTo   string `form:"manufacturedTo"`
}

// Assignee is the person an equipment record is assigned to.
type Assignee struct {
	FirefighterID *string `json:"firefighterId,omitempty"`
	FirstName     *string `json:"firstName,omitempty"`
	LastName      *string `json:"lastName,omitempty"`
}

// Location is the station an equipment record is stored at.
type Location struct {
	StationID   *string `json:"stationId,omitempty"`
	StationName *string `json:"stationName,omitempty"`
}

// EquipmentRecord is one searchable equipment unit as indexed by the engine.
// Every field except ID may be absent; pointer fields with omitempty keep
// absent fields absent instead of defaulting them, which is the
// presentation layer's job.
type EquipmentRecord struct {
	ID              string    `json:"id"`
	Serial          *string   `json:"serial,omitempty"`
	Model           *string   `json:"model,omitempty"`
	ModelID         *string   `json:"modelId,omitempty"`
	Manufacturer    *string   `json:"manufacturer,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
	Size            *string   `json:"size,omitempty"`
	Category        *string   `json:"category,omitempty"`
	Manufactured    *string   `json:"manufactured,omitempty"`
	ManufacturedAt  *int64    `json:"manufacturedAt,omitempty"`
	LastMaintenance *string   `json:"lastMaintenance,omitempty"`
	InMaintenance   *bool     `json:"inMaintenance,omitempty"`
	Decommissioned  *bool     `json:"decommissioned,omitempty"`
	Verified        *bool     `json:"verified,omitempty"`
	Assignee        *Assignee `json:"assignee,omitempty"`
	Location        *Location `json:"location,omitempty"`
}

// SearchResponse is the gateway's answer to a search call. Documents keep the
// engine's ranking order; TotalResults counts every match across all pages,
// independent of the page returned.
type SearchResponse struct {
	Documents    []EquipmentRecord `json:"documents"`
	TotalResults int               `json:"totalResults"`
}
