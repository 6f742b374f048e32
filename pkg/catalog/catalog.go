// Package catalog declares the built-in retrieval tools for the logistics
// ontology. Tools are plain metadata declarations; execution lives with
// whatever runtime consumes the generated plan code.
package catalog

import (
	"github.com/ontoplan/ontoplan/pkg/ontology"
	"github.com/ontoplan/ontoplan/pkg/semantic"
)

func relation(from, name, to string) *ontology.RelationKey {
	return &ontology.RelationKey{From: from, Name: name, To: to}
}

// Tools returns the built-in tool declarations in their catalog order.
// Each call returns a fresh slice; callers may reorder freely.
func Tools() []*semantic.ToolInfo {
	return []*semantic.ToolInfo{
		{
			Name:        "get_terminals_by_city",
			Description: "Retrieve all facilities of type 'terminal' that belong to a given city.",
			InputSchema: []semantic.Param{
				{Name: "city_name", Type: "string"},
			},
			OutputType:         "[]model.Facility",
			AssociatedRelation: relation("City", "has_facility", "Facility"),
		},
		{
			Name:        "get_events_by_facility",
			Description: "Query container events that occurred at a specific facility.",
			InputSchema: []semantic.Param{
				{Name: "facility_id", Type: "string"},
				{Name: "start_date", Type: "string"},
				{Name: "end_date", Type: "string"},
				{Name: "event_type", Type: "string"},
			},
			OutputType:         "[]model.ContainerEvent",
			AssociatedRelation: relation("Facility", "hosts_event", "ContainerEvent"),
		},
		{
			Name:        "get_events_by_container",
			Description: "Query container movement events for a specific container.",
			InputSchema: []semantic.Param{
				{Name: "container_id", Type: "string"},
				{Name: "start_date", Type: "string"},
				{Name: "end_date", Type: "string"},
				{Name: "event_type", Type: "string"},
			},
			OutputType:         "[]model.ContainerEvent",
			AssociatedRelation: relation("Container", "has_event", "ContainerEvent"),
		},
		{
			Name:        "get_shipment_by_container",
			Description: "Retrieve the shipment that a given container belongs to.",
			InputSchema: []semantic.Param{
				{Name: "container_id", Type: "string"},
			},
			OutputType:         "model.Shipment",
			AssociatedRelation: relation("Container", "belongs_to", "Shipment"),
		},
		{
			Name:        "get_containers_by_shipment",
			Description: "Retrieve all containers belonging to a specific shipment.",
			InputSchema: []semantic.Param{
				{Name: "shipment_id", Type: "string"},
			},
			OutputType:         "[]model.Container",
			AssociatedRelation: relation("Shipment", "has_container", "Container"),
		},
		{
			Name:        "get_container_details",
			Description: "Retrieve metadata and physical details of a container.",
			InputSchema: []semantic.Param{
				{Name: "container_id", Type: "string"},
			},
			OutputType:       "model.Container",
			AssociatedEntity: "Container",
		},
		{
			Name:        "get_shipment_details",
			Description: "Retrieve metadata details of a shipment.",
			InputSchema: []semantic.Param{
				{Name: "shipment_id", Type: "string"},
			},
			OutputType:       "model.Shipment",
			AssociatedEntity: "Shipment",
		},
		{
			Name:        "get_facility_details",
			Description: "Retrieve facility metadata and related information.",
			InputSchema: []semantic.Param{
				{Name: "facility_id", Type: "string"},
			},
			OutputType:       "model.Facility",
			AssociatedEntity: "Facility",
		},
	}
}

// Register loads the built-in catalog into a tool registry.
func Register(reg *semantic.ToolRegistry) error {
	return reg.RegisterAll(Tools())
}
