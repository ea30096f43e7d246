package job

import "time"

// Status describes where a synthesis job sits in its lifecycle.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusWaiting    Status = "waiting"
	StatusProcessing Status = "processing"
	StatusPending    Status = "pending"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// IsValid reports whether the value is a known lifecycle status.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusWaiting, StatusProcessing, StatusPending, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// Terminal reports whether the scheduler will never touch the job again.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// InFlight reports whether the job occupies the single rendering slot.
func (s Status) InFlight() bool {
	return s == StatusProcessing || s == StatusPending
}

// Job is one video-synthesis request tracked through the state machine.
type Job struct {
	ID           string  `gorm:"primaryKey;size:36" json:"id"`
	ModelID      string  `gorm:"size:36;index" json:"modelId"`
	VoiceID      string  `gorm:"size:36;index" json:"voiceId"`
	ScriptText   string  `gorm:"type:text" json:"scriptText"`
	Status       Status  `gorm:"size:16;index" json:"status"`
	AudioPath    string  `gorm:"size:1024" json:"audioPath,omitempty"`
	AudioFixed   bool    `json:"audioFixed"`
	RemoteHandle string  `gorm:"size:128" json:"remoteHandle,omitempty"`
	Progress     int     `json:"progress"`
	Message      string  `gorm:"type:text" json:"message,omitempty"`
	ResultPath   string  `gorm:"size:1024" json:"resultPath,omitempty"`
	Duration     float64 `json:"duration,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Patch names the job fields a single atomic update may merge into the
// stored record. Nil fields are left unchanged.
type Patch struct {
	Status       *Status
	AudioPath    *string
	RemoteHandle *string
	Progress     *int
	Message      *string
	ResultPath   *string
	Duration     *float64
}

// StatusReport is the read model returned to status queries.
type StatusReport struct {
	ID            string  `json:"id"`
	Status        Status  `json:"status"`
	Progress      int     `json:"progress"`
	Message       string  `json:"message,omitempty"`
	QueuePosition int     `json:"queuePosition,omitempty"`
	ResultPath    string  `json:"resultPath,omitempty"`
	Duration      float64 `json:"duration,omitempty"`
}
