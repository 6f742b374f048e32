package model

// FacilityType is one classification of a facility (terminal / warehouse /
// depot / customer location).
type FacilityType struct {
	TypeCode string `json:"type_code,omitempty"`
	TypeName string `json:"type_name,omitempty"`
}

// DefinedArea is a sub-area within a facility such as a gate or yard.
type DefinedArea struct {
	AreaName     string `json:"area_name,omitempty"`
	AreaTypeCode string `json:"area_type_code,omitempty"`
	LocationType string `json:"location_type,omitempty"`
}

// Facility is a physical logistics site: a terminal, depot, warehouse, or
// customer location.
type Facility struct {
	FacilityID   string         `json:"facility_id" jsonschema:"required,description=Unique identifier of the facility."`
	FacilityName string         `json:"facility_name,omitempty" jsonschema:"description=Human-readable name of the facility."`
	IsActive     bool           `json:"is_active,omitempty" jsonschema:"description=Whether the facility is operational."`
	City         string         `json:"city,omitempty" jsonschema:"description=City where the facility is located."`
	PostalCode   string         `json:"postal_code,omitempty" jsonschema:"description=Postal or ZIP code of the facility."`
	GeoPosition  *GeoPosition   `json:"geo_position,omitempty" jsonschema:"description=Geographic coordinates of the facility."`
	Types        []FacilityType `json:"facility_types,omitempty" jsonschema:"description=Facility type classifications."`
	DefinedAreas []DefinedArea  `json:"defined_areas,omitempty" jsonschema:"description=Sub-areas within the facility such as gates and yards."`
	SMDG         string         `json:"smdg,omitempty" jsonschema:"description=SMDG terminal code if applicable."`
	GeoID        string         `json:"geoid,omitempty" jsonschema:"description=Geographical ID for location matching."`
}
