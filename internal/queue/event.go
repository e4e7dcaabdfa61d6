// Package queue carries photo release notifications over RabbitMQ.
package queue

import "time"

// Photo kinds. Each kind has its own directory under the upload root.
const (
	KindStalker = "stalker"
	KindWanted  = "wanted"
)

// PhotoReleasedEvent is published once no record references a photo any more.
type PhotoReleasedEvent struct {
	Kind       string    `json:"kind"`
	Ref        string    `json:"ref"`
	ReleasedAt time.Time `json:"released_at"`
}
