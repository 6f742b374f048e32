package model

// City is a geographic location hosting one or more facilities.
type City struct {
	City        string `json:"city,omitempty" jsonschema:"description=City name."`
	CountryCode string `json:"country_code,omitempty" jsonschema:"description=ISO country code."`
	CountryName string `json:"country_name,omitempty" jsonschema:"description=Country name."`
}
