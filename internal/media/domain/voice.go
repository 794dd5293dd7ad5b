package domain

import "io"

// VoiceStatus definition voice note status
type VoiceStatus string

const (
	// VoiceUploaded object written, not yet verified
	VoiceUploaded VoiceStatus = "uploaded"
	// VoiceReady object verified and playable
	VoiceReady VoiceStatus = "ready"
)

// MinVoiceSeconds recordings shorter than this are discarded
const MinVoiceSeconds = 1.0

// UploadVoiceReq usecase upload voice note request
type UploadVoiceReq struct {
	OwnerID         string
	FileName        string
	DurationSeconds float64
	Size            int64
	File            io.Reader
}

// UploadVoiceRes usecase upload voice note response
type UploadVoiceRes struct {
	Message string
	VoiceID uint
}

// GetVoiceRes usecase get voice note response
type GetVoiceRes struct {
	VoiceID         uint
	DurationSeconds float64
	URL             string
}

// Voice definition one stored voice note
type Voice struct {
	ID              uint `gorm:"primaryKey"`
	OwnerID         string
	ObjectKey       string
	DurationSeconds float64
	Size            int64
	Status          string
}
