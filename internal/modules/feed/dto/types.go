package dto

// Observation is one successful extraction pass over the announcement page.
type Observation struct {
	Kind     string
	Sessions []string
}
