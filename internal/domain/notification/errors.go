package notification

import (
	"errors"
	"fmt"
)

// Notification domain errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrUnauthorized         = errors.New("unauthorized to access this notification")
	ErrEmptyBatch           = errors.New("notification batch is empty")
)

// BatchChunkError reports which chunk of a batch insert failed. Chunks
// inserted before the failing one are not rolled back.
type BatchChunkError struct {
	ChunkIndex int
	Err        error
}

func (e *BatchChunkError) Error() string {
	return fmt.Sprintf("batch insert failed at chunk %d: %v", e.ChunkIndex, e.Err)
}

func (e *BatchChunkError) Unwrap() error { return e.Err }
