package avatar

import "time"

// Model is a face model backed by a reference video.
type Model struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:255" json:"name"`
	VideoPath string    `gorm:"size:1024" json:"videoPath"`
	CreatedAt time.Time `json:"createdAt"`
}

// Voice is a voice profile backed by reference audio and its transcript.
type Voice struct {
	ID                 string    `gorm:"primaryKey;size:36" json:"id"`
	Name               string    `gorm:"size:255" json:"name"`
	ReferenceAudioPath string    `gorm:"size:1024" json:"referenceAudioPath"`
	ReferenceText      string    `gorm:"type:text" json:"referenceText"`
	CreatedAt          time.Time `json:"createdAt"`
}
