package model

import "time"

// EquipmentType is the container type classification hierarchy.
type EquipmentType struct {
	Code        string `json:"code,omitempty" jsonschema:"description=Primary equipment type code."`
	ParentCode1 string `json:"parent_code_1,omitempty"`
	ParentCode2 string `json:"parent_code_2,omitempty"`
}

// Ownership carries ownership and leasing details for a container.
type Ownership struct {
	OwnershipTypeCode       string `json:"ownership_type_code,omitempty"`
	OwnershipTypeName       string `json:"ownership_type_name,omitempty"`
	LeasingContractNumber   string `json:"leasing_contract_number,omitempty"`
	LeasingCompanyCode      string `json:"leasing_company_code,omitempty"`
	OwnershipContractNumber string `json:"ownership_contract_number,omitempty"`
}

// Weight holds the container weight specifications.
type Weight struct {
	TareWeight           float64 `json:"tare_weight,omitempty"`
	TareWeightUnit       string  `json:"tare_weight_unit,omitempty"`
	MaximumPayloadWeight float64 `json:"maximum_payload_weight,omitempty"`
	MaximumGrossWeight   float64 `json:"maximum_gross_weight,omitempty"`
}

// Container is a physical shipping container with structural, ownership,
// and operational attributes.
type Container struct {
	ContainerID        string         `json:"container_id" jsonschema:"required,description=Container identifier derived from the equipment number."`
	SequenceNumber     int            `json:"sequence_number,omitempty" jsonschema:"description=Internal sequence number of the equipment record."`
	IsActive           bool           `json:"is_active,omitempty" jsonschema:"description=Whether the container is currently active in operations."`
	EquipmentSize      string         `json:"equipment_size,omitempty" jsonschema:"description=Container size designation such as 20GP or 40HC."`
	EquipmentType      *EquipmentType `json:"equipment_type,omitempty" jsonschema:"description=Container type classification hierarchy."`
	Ownership          *Ownership     `json:"ownership,omitempty" jsonschema:"description=Ownership and leasing details."`
	Weight             *Weight        `json:"weight,omitempty" jsonschema:"description=Container weight specifications."`
	LastEventTimestamp *time.Time     `json:"last_event_timestamp,omitempty" jsonschema:"description=Last known operational event timestamp for the container."`
}
