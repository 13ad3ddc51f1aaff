package store

import "time"

// Child is a monitored device owner linked to a parent account.
type Child struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parent_id"`
}

// LocationSample is a single reported position of a child's device.
type LocationSample struct {
	ChildID    string    `json:"child_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	CapturedAt time.Time `json:"captured_at"`
}

// Valid reports whether the coordinates are within WGS84 bounds.
func (l LocationSample) Valid() bool {
	return l.Latitude >= -90 && l.Latitude <= 90 && l.Longitude >= -180 && l.Longitude <= 180
}

// SafeZone is a named circular geofence.
type SafeZone struct {
	ID           string  `json:"id"`
	ChildID      string  `json:"child_id"`
	Name         string  `json:"name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
}

type CallLogEntry struct {
	ChildID         string    `json:"child_id"`
	Timestamp       time.Time `json:"timestamp"`
	PhoneNumber     *string   `json:"phone_number,omitempty"`
	CallType        *string   `json:"call_type,omitempty"`
	DurationSeconds *int      `json:"duration_seconds,omitempty"`
}

// ChatMessage is a message captured from a child's device. FileType holds
// the coarse MIME category (image, video, audio, document).
type ChatMessage struct {
	ChildID   string    `json:"child_id"`
	Timestamp time.Time `json:"timestamp"`
	Body      *string   `json:"body,omitempty"`
	FileURL   *string   `json:"file_url,omitempty"`
	FileType  *string   `json:"file_type,omitempty"`
	FileName  *string   `json:"file_name,omitempty"`
}

// AuditRecord is one question/answer exchange with the assistant.
type AuditRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}
