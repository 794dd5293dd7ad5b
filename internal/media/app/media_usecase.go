package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"realtime_chat_service/internal/media/domain"
	"realtime_chat_service/internal/media/repository"
	"realtime_chat_service/pkg/database"
	errprocess "realtime_chat_service/pkg/err"

	"github.com/streadway/amqp"
)

// MediaUseCase application services of voice note storage
type MediaUseCase interface {
	UploadVoice(up domain.UploadVoiceReq) (*domain.UploadVoiceRes, error)
	GetVoice(ctx context.Context, voiceID string) (*domain.GetVoiceRes, error)
	ListByOwner(ownerID string) ([]domain.Voice, error)
}

type mediaUseCase struct {
	MinioClient   database.MinIOClientRepo
	VoiceRepo     repository.VoiceRepo
	RabbitChannel database.RabbitRepo

	presignExpiry time.Duration
}

// NewMediaUseCase create a new MediaUseCase
func NewMediaUseCase(minIO database.MinIOClientRepo,
	repo repository.VoiceRepo,
	rabbitChannel database.RabbitRepo,
) MediaUseCase {
	return &mediaUseCase{
		MinioClient:   minIO,
		VoiceRepo:     repo,
		RabbitChannel: rabbitChannel,
		presignExpiry: 15 * time.Minute,
	}
}

// Wrapped so usecase tests can stub the filesystem
var (
	createDir = func(path string) error {
		return os.MkdirAll(path, 0755)
	}

	createFile = func(name string) (*os.File, error) {
		return os.Create(name)
	}

	copyFile = func(dst *os.File, src io.Reader) (written int64, err error) {
		return io.Copy(dst, src)
	}
)

// UploadVoice stage the recording locally, store it in MinIO and queue a verify job
func (s *mediaUseCase) UploadVoice(up domain.UploadVoiceReq) (*domain.UploadVoiceRes, error) {
	if up.DurationSeconds < domain.MinVoiceSeconds {
		errMsg := fmt.Sprintf("fileName[%s] recording too short : %.2fs", up.FileName, up.DurationSeconds)
		return nil, errprocess.Set(errMsg)
	}

	tmpDir := "./tmp"
	if err := createDir(tmpDir); err != nil {
		errMsg := fmt.Sprintf("fileName[%s] create temp dir failed : %v", up.FileName, err)
		return nil, errprocess.Set(errMsg)
	}

	tempPath := filepath.Join(tmpDir, up.FileName)
	tempFile, err := createFile(tempPath)
	if err != nil {
		errMsg := fmt.Sprintf("fileName[%s] create temp file failed : %v", up.FileName, err)
		return nil, errprocess.Set(errMsg)
	}
	defer tempFile.Close()

	written, err := copyFile(tempFile, up.File)
	if err != nil {
		tempFile.Close()
		errMsg := fmt.Sprintf("fileName[%s] save file failed : %v", up.FileName, err)
		return nil, errprocess.Set(errMsg)
	}

	voice := domain.Voice{
		OwnerID:         up.OwnerID,
		ObjectKey:       up.FileName,
		DurationSeconds: up.DurationSeconds,
		Size:            written,
		Status:          string(domain.VoiceUploaded),
	}
	if err := s.VoiceRepo.Create(&voice); err != nil {
		errMsg := fmt.Sprintf("fileName[%s] create voice record failed : %v", up.FileName, err)
		return nil, errprocess.Set(errMsg)
	}

	objectName := fmt.Sprintf("voice/%d/%s", voice.ID, up.FileName)
	ctx := context.Background()
	if err := s.MinioClient.UploadFile(ctx, objectName, tempPath, "audio/ogg"); err != nil {
		errMsg := fmt.Sprintf("fileName[%s] upload MinIO failed : %v", up.FileName, err)
		return nil, errprocess.Set(errMsg)
	}

	voice.ObjectKey = objectName
	if err := s.VoiceRepo.Update(&voice); err != nil {
		errMsg := fmt.Sprintf("fileName[%s] update voice record failed : %v", up.FileName, err)
		return nil, errprocess.Set(errMsg)
	}

	job := domain.VerifyJob{
		VoiceID:   voice.ID,
		ObjectKey: voice.ObjectKey,
		Size:      voice.Size,
	}
	data, err := json.Marshal(job)
	if err != nil {
		errMsg := fmt.Sprintf("fileName[%s] marshal verify job failed : %v", up.FileName, err)
		return nil, errprocess.Set(errMsg)
	}
	err = s.RabbitChannel.Publish(
		"",
		domain.QueueName,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        data,
		},
	)
	if err != nil {
		errMsg := fmt.Sprintf("fileName[%s] publish RabbitMQ message failed : %v", up.FileName, err)
		return nil, errprocess.Set(errMsg)
	}

	if err := os.Remove(tempPath); err != nil {
		errMsg := fmt.Sprintf("fileName[%s] clean temp file failed : %v", up.FileName, err)
		return nil, errprocess.Set(errMsg)
	}

	return &domain.UploadVoiceRes{
		Message: "uploaded, waiting for verification",
		VoiceID: voice.ID,
	}, nil
}

// GetVoice hand out a short lived playback URL once the note is ready
func (s *mediaUseCase) GetVoice(ctx context.Context, voiceID string) (*domain.GetVoiceRes, error) {
	id, _ := strconv.Atoi(voiceID)

	voice, err := s.VoiceRepo.GetByID(uint(id))
	if err != nil {
		errMsg := fmt.Sprintf("voiceID[%s] voice note not found : %v", voiceID, err)
		return nil, errprocess.Set(errMsg)
	}
	if voice.Status != string(domain.VoiceReady) {
		errMsg := fmt.Sprintf("voiceID[%s] voice note not ready", voiceID)
		return nil, errprocess.Set(errMsg)
	}

	u, err := s.MinioClient.PresignGetURL(ctx, voice.ObjectKey, s.presignExpiry)
	if err != nil {
		errMsg := fmt.Sprintf("voiceID[%s] presign URL failed : %v", voiceID, err)
		return nil, errprocess.Set(errMsg)
	}

	return &domain.GetVoiceRes{
		VoiceID:         voice.ID,
		DurationSeconds: voice.DurationSeconds,
		URL:             u,
	}, nil
}

// ListByOwner list voice notes uploaded by one member
func (s *mediaUseCase) ListByOwner(ownerID string) ([]domain.Voice, error) {
	voices, err := s.VoiceRepo.FindByOwner(ownerID)
	if err != nil {
		errMsg := fmt.Sprintf("ownerID[%s] list voice notes err : %v", ownerID, err)
		return nil, errprocess.Set(errMsg)
	}
	return voices, nil
}
