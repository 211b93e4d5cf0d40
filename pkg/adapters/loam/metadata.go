package loam

// EventMetadata is the front matter of a catalog document.
// It uses "mapstructure" tags to match the snake_case YAML keys.
// Identifiers, timestamps and tags are left untyped because YAML and JSON
// documents may carry numbers, timestamps or lists there.
type EventMetadata struct {
	ID           any    `json:"id" mapstructure:"id"`
	Name         string `json:"name" mapstructure:"name"`
	LinkedSpace  string `json:"linked_space" mapstructure:"linked_space"`
	StartTime    any    `json:"start_time" mapstructure:"start_time"`
	EndTime      any    `json:"end_time" mapstructure:"end_time"`
	Owner        string `json:"owner" mapstructure:"owner"`
	Programme    string `json:"programme" mapstructure:"programme"`
	Workstream   string `json:"workstream" mapstructure:"workstream"`
	Source       string `json:"source" mapstructure:"source"`
	Type         string `json:"type" mapstructure:"type"`
	Tags         any    `json:"tags" mapstructure:"tags"`
	Dependencies any    `json:"dependencies" mapstructure:"dependencies"`
}
