package models

// PendingCapture is a photo taken at the booth that has not been confirmed by
// the backend yet. It lives in the local capture queue until the background
// uploader either confirms it or gives up on it.
type PendingCapture struct {
	// ID is generated at capture time (millisecond timestamp plus a random
	// suffix) and stays stable for the item's lifetime. It doubles as the
	// server-side upload key.
	ID string `json:"id"`

	// ImageData is the captured frame as a base64-encoded JPEG, already
	// composited with the selected filter.
	ImageData string `json:"image_data"`

	EventID  string `json:"event_id"`
	DeviceID string `json:"device_id"`

	// CapturedAt is epoch milliseconds.
	CapturedAt int64 `json:"captured_at"`

	// FailureCount counts recoverable upload failures for this item.
	FailureCount int `json:"failure_count"`
}
