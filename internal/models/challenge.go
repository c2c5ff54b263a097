package models

// Challenge is the writing prompt for a single round. It is immutable once
// selected.
type Challenge struct {
	Prompt           string `json:"prompt"`
	Category         string `json:"category"`
	TimeLimitSeconds int    `json:"time_limit"`
}
