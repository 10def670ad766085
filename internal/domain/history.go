package domain

import "time"

// HistoryEntry is one past caption-generation result. Entries are immutable
// once created; the store only ever appends, deletes, or replaces them whole.
type HistoryEntry struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	ImageName   string    `json:"image_name"`
	Description string    `json:"description"`
	Caption     string    `json:"caption"`
	Think       string    `json:"think"`
	ImageHash   string    `json:"image_hash,omitempty"`
}
