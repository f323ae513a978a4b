// Package entity defines data structures shared by the web layer.
package entity

// Msg represents a standard API response message with success status,
// message text, and optional data object.
type Msg struct {
	Success bool   `json:"success"` // Indicates if the operation was successful
	Msg     string `json:"msg"`     // Response message text
	Obj     any    `json:"obj"`     // Optional data object
}

// Page is a paginated record listing.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
}

// BatchItemResult reports the outcome of one item of a batch update.
type BatchItemResult struct {
	Id      int    `json:"id"`
	Success bool   `json:"success"`
	Msg     string `json:"msg,omitempty"`
}
