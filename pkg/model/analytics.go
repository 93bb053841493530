package model

// VolumePoint is one day of inbound and resolved email volume.
type VolumePoint struct {
	Date     string `json:"date" yaml:"date"`
	Emails   int    `json:"emails" yaml:"emails"`
	Resolved int    `json:"resolved" yaml:"resolved"`
}
