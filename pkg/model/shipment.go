package model

import "time"

// Party is a commercial party on a shipment: booking office, consignee,
// or shipper.
type Party struct {
	Code   string `json:"code,omitempty"`
	Name   string `json:"name,omitempty"`
	Office string `json:"office,omitempty"`
}

// ContainerRef is the per-container summary embedded in a shipment.
type ContainerRef struct {
	ContainerNumber string  `json:"container_number,omitempty"`
	ContainerSize   int     `json:"container_size,omitempty"`
	ContainerType   string  `json:"container_type,omitempty"`
	WeightKg        float64 `json:"weight_kg,omitempty"`
	TEU             float64 `json:"teu,omitempty"`
}

// TransportLeg is one operational leg of a shipment's transport plan.
type TransportLeg struct {
	StartCity     string     `json:"start_city,omitempty"`
	EndCity       string     `json:"end_city,omitempty"`
	VesselCode    string     `json:"vessel_code,omitempty"`
	ServiceCode   string     `json:"service_code,omitempty"`
	TransportMode string     `json:"transport_mode,omitempty"`
	ArrivalTime   *time.Time `json:"arrival_time,omitempty"`
	DepartureTime *time.Time `json:"departure_time,omitempty"`
}

// TransportPlan is the simplified current transport plan of a shipment.
type TransportPlan struct {
	PlannedLoadTerminalCode string     `json:"planned_load_terminal_code,omitempty"`
	PlannedVesselCode       string     `json:"planned_vessel_code,omitempty"`
	PlannedVoyageNumber     string     `json:"planned_voyage_number,omitempty"`
	EstimatedFinalArrival   *time.Time `json:"estimated_final_arrival,omitempty"`
}

// Shipment is a booking covering the transport of one or more containers.
type Shipment struct {
	ShipmentNumber       string         `json:"shipment_number" jsonschema:"required,description=Unique shipment or booking identifier."`
	NumberOfContainers   int            `json:"number_of_containers,omitempty" jsonschema:"description=Total number of containers in the shipment."`
	TotalTEU             float64        `json:"total_teu,omitempty" jsonschema:"description=Total TEU for the shipment."`
	TotalWeightKg        float64        `json:"total_weight_kg,omitempty" jsonschema:"description=Total weight in kilograms."`
	IsDelivered          bool           `json:"is_delivered,omitempty" jsonschema:"description=Whether the shipment has been delivered."`
	IsLoaded             bool           `json:"is_loaded,omitempty" jsonschema:"description=Whether shipment containers have been loaded on a vessel."`
	IsPending            bool           `json:"is_pending,omitempty" jsonschema:"description=Whether the shipment is still pending operational actions."`
	PlaceOfReceiptCity   string         `json:"place_of_receipt_city,omitempty" jsonschema:"description=City where the shipment is first received."`
	PlaceOfDeliveryCity  string         `json:"place_of_delivery_city,omitempty" jsonschema:"description=Final delivery city of the shipment."`
	LastETA              *time.Time     `json:"last_eta,omitempty" jsonschema:"description=Latest known estimated time of arrival."`
	LatestScheduleUpdate *time.Time     `json:"latest_schedule_update_time,omitempty" jsonschema:"description=When the schedule was last updated."`
	BookedBy             *Party         `json:"booked_by,omitempty" jsonschema:"description=Commercial booking party."`
	Consignee            *Party         `json:"consignee,omitempty" jsonschema:"description=Consignee customer details."`
	Shipper              *Party         `json:"shipper,omitempty" jsonschema:"description=Shipper customer details."`
	Containers           []ContainerRef `json:"containers,omitempty" jsonschema:"description=Containers associated with this shipment."`
	TransportPlan        *TransportPlan `json:"transport_plan,omitempty" jsonschema:"description=Simplified current transport plan."`
	Legs                 []TransportLeg `json:"legs,omitempty" jsonschema:"description=Operational transport legs of the shipment."`
}
