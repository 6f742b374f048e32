package model

import "time"

// ContainerEvent is one operational movement of a container: a gate move,
// load, or discharge at a facility.
type ContainerEvent struct {
	EventType      string       `json:"event_type,omitempty" jsonschema:"description=Type of container movement such as gate_in / gate_out / load / discharge."`
	EventTime      *time.Time   `json:"event_time,omitempty" jsonschema:"description=Timestamp when the event occurred."`
	ContainerID    string       `json:"container_id,omitempty" jsonschema:"description=Container number the event belongs to."`
	LocationCode   string       `json:"location_code,omitempty" jsonschema:"description=Code of the location where the event occurred."`
	IsEmpty        bool         `json:"is_empty,omitempty" jsonschema:"description=Whether the container was empty during the event."`
	TransportMode  string       `json:"transport_mode,omitempty" jsonschema:"description=Transport mode associated with the event."`
	EventReason    string       `json:"event_reason,omitempty" jsonschema:"description=Additional classification of the event reason."`
	GeoPosition    *GeoPosition `json:"geo_position,omitempty" jsonschema:"description=Latitude and longitude of the event location."`
	VoyageNumber   string       `json:"voyage_number,omitempty" jsonschema:"description=Voyage number associated with this movement."`
	VesselCode     string       `json:"vessel_code,omitempty" jsonschema:"description=Vessel code associated with the event."`
	ShipmentNumber string       `json:"shipment_number,omitempty" jsonschema:"description=Shipment number associated with this event."`
	BLNumber       string       `json:"bl_number,omitempty" jsonschema:"description=Bill of lading number related to this event."`
}
