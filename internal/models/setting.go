package models

// Setting is a single key/value pair from the settings table
type Setting struct {
	Key   string `json:"key" yaml:"key" db:"key"`
	Value string `json:"value" yaml:"value" db:"value"`
}
