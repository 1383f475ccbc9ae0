package domain

import "time"

// Artifact is an exported model kept in an ArtifactStore.
type Artifact struct {
	Key       string    `json:"key"`
	Filename  string    `json:"filename"`
	Data      []byte    `json:"data"`
	Triangles int       `json:"triangles"`
	Warnings  []string  `json:"warnings,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
