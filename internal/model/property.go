package model

// PropertyType enumerates properties.property_type.
type PropertyType string

const (
	PropertyHouse     PropertyType = "house"
	PropertyApartment PropertyType = "apartment"
	PropertyVilla     PropertyType = "villa"
)

func (t PropertyType) Valid() bool {
	switch t {
	case PropertyHouse, PropertyApartment, PropertyVilla:
		return true
	}
	return false
}

// PropertyStatus enumerates properties.status.
type PropertyStatus string

const (
	PropertyAvailable PropertyStatus = "available"
	PropertySold      PropertyStatus = "sold"
	PropertyReserved  PropertyStatus = "reserved"
)

func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyAvailable, PropertySold, PropertyReserved:
		return true
	}
	return false
}

// Property is a listing in the catalog.  Location is populated only by
// queries that join the locations table.
type Property struct {
	ID               uint64         `db:"id" json:"id"`
	Name             string         `db:"name" json:"name"`
	PropertyImage    *string        `db:"property_image" json:"property_image"`
	Property360Image *string        `db:"property_360_image" json:"property_360_image"`
	Description      *string        `db:"description" json:"description"`
	Price            float64        `db:"price" json:"price"`
	Size             int            `db:"size" json:"size"`
	PropertyType     PropertyType   `db:"property_type" json:"property_type"`
	Bedrooms         int            `db:"bedrooms" json:"bedrooms"`
	Bathrooms        int            `db:"bathrooms" json:"bathrooms"`
	YearBuilt        *int           `db:"year_built" json:"year_built"`
	AvailableFrom    *Date          `db:"available_from" json:"available_from"`
	Status           PropertyStatus `db:"status" json:"status"`
	LocationID       uint64         `db:"location_id" json:"location_id"`
	Location         *Location      `db:"-" json:"location,omitempty"`
}

// PropertyRef is the trimmed view of a property embedded in bookings and
// statistics.
type PropertyRef struct {
	ID   uint64 `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// SortField names a column a buyer may sort the catalog by.
type SortField string

const (
	SortByName      SortField = "name"
	SortByPrice     SortField = "price"
	SortBySize      SortField = "size"
	SortByBedrooms  SortField = "bedrooms"
	SortByBathrooms SortField = "bathrooms"
)

func (f SortField) Valid() bool {
	switch f {
	case SortByName, SortByPrice, SortBySize, SortByBedrooms, SortByBathrooms:
		return true
	}
	return false
}

// SortOrder is asc or desc.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func (o SortOrder) Valid() bool {
	return o == SortAsc || o == SortDesc
}
