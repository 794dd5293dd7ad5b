package domain

const (
	// QueueName definition queue name
	QueueName = "voice_verify"
)

// VerifyJob queued after upload, the worker checks the object landed intact
type VerifyJob struct {
	VoiceID   uint   `json:"voice_id"`
	ObjectKey string `json:"object_key"`
	Size      int64  `json:"size"`
}
