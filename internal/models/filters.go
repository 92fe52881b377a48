package models

// Default pagination settings for list endpoints.
const (
	DefaultPage  = 1
	DefaultLimit = 20
)

// Pagination describes a result page.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPagination computes the page count from the total.
func NewPagination(page, limit int, total int64) Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// ShipmentFilters are the query parameters accepted by the shipment listing.
// Empty fields are not applied. Defaults: page 1, limit 20, sorted by
// createdAt descending.
type ShipmentFilters struct {
	Status    string `query:"status" validate:"omitempty,oneof=pending in-transit delivered delayed cancelled"`
	Priority  string `query:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Search    string `query:"search"`
	Page      int    `query:"page" validate:"omitempty,min=1"`
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=100"`
	SortBy    string `query:"sortBy" validate:"omitempty,oneof=createdAt estimatedDelivery trackingNumber priority status weight"`
	SortOrder string `query:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// Normalize applies the documented defaults.
func (f *ShipmentFilters) Normalize() {
	if f.Page == 0 {
		f.Page = DefaultPage
	}
	if f.Limit == 0 {
		f.Limit = DefaultLimit
	}
	if f.SortBy == "" {
		f.SortBy = "createdAt"
	}
	if f.SortOrder == "" {
		f.SortOrder = "desc"
	}
}

// VehicleFilters are the query parameters accepted by the vehicle listing.
// Defaults: page 1, limit 20, newest first.
type VehicleFilters struct {
	Status string `query:"status" validate:"omitempty,oneof=available in-use maintenance offline"`
	Type   string `query:"type" validate:"omitempty,oneof=truck van trailer pickup"`
	Page   int    `query:"page" validate:"omitempty,min=1"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

// Normalize applies the documented defaults.
func (f *VehicleFilters) Normalize() {
	if f.Page == 0 {
		f.Page = DefaultPage
	}
	if f.Limit == 0 {
		f.Limit = DefaultLimit
	}
}

// DriverFilters are the query parameters accepted by the driver listing.
// Defaults: page 1, limit 20, sorted by rating descending.
type DriverFilters struct {
	Status    string `query:"status" validate:"omitempty,oneof=available on-delivery off-duty suspended"`
	Page      int    `query:"page" validate:"omitempty,min=1"`
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=100"`
	SortBy    string `query:"sortBy" validate:"omitempty,oneof=rating totalDeliveries name createdAt"`
	SortOrder string `query:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// Normalize applies the documented defaults.
func (f *DriverFilters) Normalize() {
	if f.Page == 0 {
		f.Page = DefaultPage
	}
	if f.Limit == 0 {
		f.Limit = DefaultLimit
	}
	if f.SortBy == "" {
		f.SortBy = "rating"
	}
	if f.SortOrder == "" {
		f.SortOrder = "desc"
	}
}
