package model

import (
	"errors"
	"time"

	"github.com/lib/pq"
)

// Listing status values
const (
	StatusActive  = "ACTIVE"
	StatusSold    = "SOLD"
	StatusPending = "PENDING"
	StatusDraft   = "DRAFT"
)

// Sort tokens accepted by the listing query
const (
	SortNewest     = "newest"
	SortOldest     = "oldest"
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
	SortYearDesc   = "year_desc"
	SortMileageAsc = "mileage_asc"
)

// Pagination defaults for GET /cars
const (
	DefaultCarPage  = 1
	DefaultCarLimit = 12
	MaxCarLimit     = 100
)

// PriceCeiling is the first value a NUMERIC(12,2) price column cannot hold.
const PriceCeiling = 1e10

var (
	fuelTypes     = newEnum("PETROL", "DIESEL", "ELECTRIC", "HYBRID", "CNG", "LPG")
	transmissions = newEnum("AUTOMATIC", "MANUAL", "CVT", "DCT")
	bodyTypes     = newEnum("SEDAN", "SUV", "HATCHBACK", "COUPE", "CONVERTIBLE", "WAGON", "VAN", "TRUCK", "PICKUP")
	conditions    = newEnum("NEW", "LIKE_NEW", "EXCELLENT", "GOOD", "FAIR")
	statuses      = newEnum(StatusActive, StatusSold, StatusPending, StatusDraft)
)

type enum map[string]struct{}

func newEnum(values ...string) enum {
	e := make(enum, len(values))
	for _, v := range values {
		e[v] = struct{}{}
	}
	return e
}

func (e enum) has(v string) bool {
	_, ok := e[v]
	return ok
}

func IsValidFuelType(v string) bool     { return fuelTypes.has(v) }
func IsValidTransmission(v string) bool { return transmissions.has(v) }
func IsValidBodyType(v string) bool     { return bodyTypes.has(v) }
func IsValidCondition(v string) bool    { return conditions.has(v) }
func IsValidStatus(v string) bool       { return statuses.has(v) }

// Car is one vehicle listing.
type Car struct {
	ID           string         `db:"id" json:"id"`
	Title        string         `db:"title" json:"title"`
	Make         string         `db:"make" json:"make"`
	Model        string         `db:"model" json:"model"`
	Year         int            `db:"year" json:"year"`
	Price        float64        `db:"price" json:"price"`
	Mileage      int            `db:"mileage" json:"mileage"`
	FuelType     string         `db:"fuel_type" json:"fuelType"`
	Transmission string         `db:"transmission" json:"transmission"`
	BodyType     string         `db:"body_type" json:"bodyType"`
	Color        string         `db:"color" json:"color"`
	Condition    string         `db:"condition" json:"condition"`
	Description  string         `db:"description" json:"description"`
	Images       pq.StringArray `db:"images" json:"images"` // first entry is the cover photo
	Location     string         `db:"location" json:"location"`
	Features     pq.StringArray `db:"features" json:"features"`
	Status       string         `db:"status" json:"status"`
	SellerID     string         `db:"seller_id" json:"sellerId"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updatedAt"`

	// Joined field (users table)
	Seller *SellerSummary `db:"seller" json:"seller,omitempty"`
}

// CarDetail is a single listing with its extended seller profile and favorites.
type CarDetail struct {
	Car
	Seller        *SellerProfile `json:"seller"`
	Favorites     []FavoriteRef  `json:"favorites"`
	FavoriteCount int            `json:"favoriteCount"`
}

// CarSummary is the listing projection shown next to a conversation.
type CarSummary struct {
	ID     string         `json:"id"`
	Title  string         `json:"title"`
	Images pq.StringArray `json:"images"`
	Price  float64        `json:"price"`
}

// CarFilter holds the optional predicates of the listing query. Zero values mean
// "not filtered"; Page and Limit are 1-based and already defaulted by the caller.
type CarFilter struct {
	Search       string
	Make         string
	Model        string
	MinYear      *int
	MaxYear      *int
	MinPrice     *float64
	MaxPrice     *float64
	FuelType     string
	Transmission string
	BodyType     string
	Condition    string
	Location     string
	SellerID     string
	SortBy       string
	Page         int
	Limit        int
}

// Offset returns the number of rows skipped before the requested page.
func (f CarFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// CarListResponse is the paginated listing response.
type CarListResponse struct {
	Cars       []Car `json:"cars"`
	Total      int   `json:"total"`
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
}

// TotalPages returns ceil(total/limit), and 0 when there is nothing to page through.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// CreateCarRequest is the request body for POST /cars.
type CreateCarRequest struct {
	Title        string        `json:"title"`
	Make         string        `json:"make"`
	Model        string        `json:"model"`
	Year         *NumericInput `json:"year"`
	Price        *NumericInput `json:"price"`
	Mileage      *NumericInput `json:"mileage"`
	FuelType     string        `json:"fuelType"`
	Transmission string        `json:"transmission"`
	BodyType     string        `json:"bodyType"`
	Color        string        `json:"color"`
	Condition    string        `json:"condition"`
	Description  string        `json:"description"`
	Images       []string      `json:"images"`
	Location     string        `json:"location"`
	Features     []string      `json:"features"`
	Status       string        `json:"status"`
}

// UpdateCarRequest is the request body for PUT /cars/:id. Only non-nil fields change.
type UpdateCarRequest struct {
	Title        *string       `json:"title"`
	Make         *string       `json:"make"`
	Model        *string       `json:"model"`
	Year         *NumericInput `json:"year"`
	Price        *NumericInput `json:"price"`
	Mileage      *NumericInput `json:"mileage"`
	FuelType     *string       `json:"fuelType"`
	Transmission *string       `json:"transmission"`
	BodyType     *string       `json:"bodyType"`
	Color        *string       `json:"color"`
	Condition    *string       `json:"condition"`
	Description  *string       `json:"description"`
	Images       *[]string     `json:"images"`
	Location     *string       `json:"location"`
	Features     *[]string     `json:"features"`
	Status       *string       `json:"status"`
}

// CarUpdate is a validated, typed partial update handed to the repository.
type CarUpdate struct {
	Title        *string
	Make         *string
	Model        *string
	Year         *int
	Price        *float64
	Mileage      *int
	FuelType     *string
	Transmission *string
	BodyType     *string
	Color        *string
	Condition    *string
	Description  *string
	Images       *[]string
	Location     *string
	Features     *[]string
	Status       *string
}

// Car errors
var (
	ErrCarNotFound = errors.New("car not found")
	ErrNotCarOwner = errors.New("not the owner of this listing")
)
