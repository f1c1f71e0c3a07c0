package entities

import "time"

// BackfillCheckpoint remembers the last scan of one collection.
type BackfillCheckpoint struct {
	CollectionAddress string    `json:"collectionAddress"`
	LastBlock         uint64    `json:"lastBlock"`
	TokensSeen        int       `json:"tokensSeen"`
	LastError         string    `json:"lastError,omitempty"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
