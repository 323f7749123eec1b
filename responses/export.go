package responses

// Export - information about an export
type Export struct {
	// which tree
	Document string `json:"document"`
	// where it came from
	Source string `json:"source"`
	// did it work or not
	Success bool `json:"success"`
	// the source did not change since the last export, nothing was written
	Unchanged bool `json:"unchanged,omitempty"`
	// this is for humans
	ErrorMessage string `json:"errorMessage,omitempty"`
	// key of the stored backup
	Key   string `json:"key,omitempty"`
	Stats Stats  `json:"stats"`
}
