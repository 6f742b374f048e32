// Package model defines the typed domain records the tool catalog returns:
// cities, facilities, containers, shipments, and container events. The
// structs double as the source of the JSON type schemas handed to the
// planning oracles.
package model

// GeoPosition is a latitude/longitude pair.
type GeoPosition struct {
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// EntityModel binds an entity name to the Go type carrying its records.
type EntityModel struct {
	Name  string
	Value any
}

// Entities lists the canonical entity names with a zero value of their
// record type, in ontology declaration order.
func Entities() []EntityModel {
	return []EntityModel{
		{Name: "City", Value: City{}},
		{Name: "Facility", Value: Facility{}},
		{Name: "Container", Value: Container{}},
		{Name: "Shipment", Value: Shipment{}},
		{Name: "ContainerEvent", Value: ContainerEvent{}},
	}
}
