package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"realtime_chat_service/internal/media/domain"
	"realtime_chat_service/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockMinIOClient Mock MinIOClientRepo
type MockMinIOClient struct {
	mock.Mock
}

func (m *MockMinIOClient) UploadFile(ctx context.Context, objectName, filePath, contentType string) error {
	args := m.Called(ctx, objectName, filePath, contentType)
	return args.Error(0)
}

func (m *MockMinIOClient) UploadStream(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, objectName, r, size, contentType)
	return args.Error(0)
}

func (m *MockMinIOClient) DownloadFile(ctx context.Context, objectName, destPath string) error {
	args := m.Called(ctx, objectName, destPath)
	return args.Error(0)
}

func (m *MockMinIOClient) StatObject(ctx context.Context, objectName string) (minio.ObjectInfo, error) {
	args := m.Called(ctx, objectName)
	return args.Get(0).(minio.ObjectInfo), args.Error(1)
}

func (m *MockMinIOClient) PresignGetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectName, expiry)
	return args.Get(0).(string), args.Error(1)
}

// MockVoiceRepo Mock VoiceRepo
type MockVoiceRepo struct {
	mock.Mock
}

func (m *MockVoiceRepo) AutoMigrate() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockVoiceRepo) Create(voice *domain.Voice) error {
	args := m.Called(voice)
	return args.Error(0)
}

func (m *MockVoiceRepo) GetByID(id uint) (*domain.Voice, error) {
	args := m.Called(id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Voice), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVoiceRepo) Update(voice *domain.Voice) error {
	args := m.Called(voice)
	return args.Error(0)
}

func (m *MockVoiceRepo) FindByStatus(status string) ([]domain.Voice, error) {
	args := m.Called(status)
	return args.Get(0).([]domain.Voice), args.Error(1)
}

func (m *MockVoiceRepo) FindByOwner(ownerID string) ([]domain.Voice, error) {
	args := m.Called(ownerID)
	return args.Get(0).([]domain.Voice), args.Error(1)
}

// MockRabbitChannel Mock RabbitRepo
type MockRabbitChannel struct {
	mock.Mock
}

func (m *MockRabbitChannel) GetRabbit() *amqp.Channel {
	args := m.Called()
	return args.Get(0).(*amqp.Channel)
}

func (m *MockRabbitChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

func TestUploadVoice(t *testing.T) {
	logger.SetNewNop()

	req := domain.UploadVoiceReq{
		OwnerID:         "alice",
		FileName:        "note.ogg",
		DurationSeconds: 2.5,
		File:            bytes.NewReader([]byte("dummy audio content")),
	}

	t.Run("upload ok", func(t *testing.T) {
		mockMinIO := new(MockMinIOClient)
		mockRepo := new(MockVoiceRepo)
		mockRabbit := new(MockRabbitChannel)
		usecase := NewMediaUseCase(mockMinIO, mockRepo, mockRabbit)

		mockRepo.On("Create", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
			voice := args.Get(0).(*domain.Voice)
			voice.ID = 1
		}).Once()

		mockMinIO.On("UploadFile", mock.Anything, "voice/1/note.ogg", mock.Anything, "audio/ogg").
			Return(nil).Once()

		mockRepo.On("Update", mock.Anything).Return(nil).Once()

		mockRabbit.On("Publish",
			"",
			domain.QueueName,
			false,
			false,
			mock.MatchedBy(func(p amqp.Publishing) bool {
				return p.ContentType == "application/json" && len(p.Body) > 0
			}),
		).Return(nil).Once()

		resp, err := usecase.UploadVoice(req)

		assert.NoError(t, err)
		assert.NotNil(t, resp)
		assert.Equal(t, uint(1), resp.VoiceID)

		mockMinIO.AssertExpectations(t)
		mockRepo.AssertExpectations(t)
		mockRabbit.AssertExpectations(t)
	})

	t.Run("recording too short", func(t *testing.T) {
		mockRepo := new(MockVoiceRepo)
		usecase := NewMediaUseCase(new(MockMinIOClient), mockRepo, new(MockRabbitChannel))

		short := req
		short.DurationSeconds = 0.5
		short.File = bytes.NewReader([]byte("x"))

		_, err := usecase.UploadVoice(short)

		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("minio upload fails", func(t *testing.T) {
		mockMinIO := new(MockMinIOClient)
		mockRepo := new(MockVoiceRepo)
		usecase := NewMediaUseCase(mockMinIO, mockRepo, new(MockRabbitChannel))

		failing := req
		failing.File = bytes.NewReader([]byte("dummy audio content"))

		mockRepo.On("Create", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
			args.Get(0).(*domain.Voice).ID = 2
		}).Once()
		mockMinIO.On("UploadFile", mock.Anything, "voice/2/note.ogg", mock.Anything, "audio/ogg").
			Return(errors.New("connection refused")).Once()

		_, err := usecase.UploadVoice(failing)

		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "Update")
	})
}

func TestGetVoice(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()

	t.Run("ready note gets a url", func(t *testing.T) {
		mockMinIO := new(MockMinIOClient)
		mockRepo := new(MockVoiceRepo)
		usecase := NewMediaUseCase(mockMinIO, mockRepo, new(MockRabbitChannel))

		mockRepo.On("GetByID", uint(7)).Return(&domain.Voice{
			ID:              7,
			OwnerID:         "alice",
			ObjectKey:       "voice/7/note.ogg",
			DurationSeconds: 2.5,
			Status:          string(domain.VoiceReady),
		}, nil).Once()
		mockMinIO.On("PresignGetURL", ctx, "voice/7/note.ogg", mock.Anything).
			Return("http://minio/presigned/voice/7/note.ogg", nil).Once()

		res, err := usecase.GetVoice(ctx, "7")

		assert.NoError(t, err)
		assert.Equal(t, uint(7), res.VoiceID)
		assert.Equal(t, 2.5, res.DurationSeconds)
		assert.Contains(t, res.URL, "voice/7/note.ogg")
	})

	t.Run("not yet verified", func(t *testing.T) {
		mockRepo := new(MockVoiceRepo)
		usecase := NewMediaUseCase(new(MockMinIOClient), mockRepo, new(MockRabbitChannel))

		mockRepo.On("GetByID", uint(8)).Return(&domain.Voice{
			ID:     8,
			Status: string(domain.VoiceUploaded),
		}, nil).Once()

		_, err := usecase.GetVoice(ctx, "8")
		assert.Error(t, err)
	})

	t.Run("missing note", func(t *testing.T) {
		mockRepo := new(MockVoiceRepo)
		usecase := NewMediaUseCase(new(MockMinIOClient), mockRepo, new(MockRabbitChannel))

		mockRepo.On("GetByID", uint(9)).Return(nil, errors.New("record not found")).Once()

		_, err := usecase.GetVoice(ctx, "9")
		assert.Error(t, err)
	})
}

func TestProcessVerifyJob(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()

	t.Run("object verified", func(t *testing.T) {
		mockMinIO := new(MockMinIOClient)
		mockRepo := new(MockVoiceRepo)

		job := domain.VerifyJob{VoiceID: 3, ObjectKey: "voice/3/note.ogg", Size: 19}
		mockMinIO.On("StatObject", ctx, job.ObjectKey).Return(minio.ObjectInfo{Size: 19}, nil).Once()
		mockRepo.On("GetByID", uint(3)).Return(&domain.Voice{ID: 3, Status: string(domain.VoiceUploaded)}, nil).Once()
		mockRepo.On("Update", mock.MatchedBy(func(v *domain.Voice) bool {
			return v.Status == string(domain.VoiceReady)
		})).Return(nil).Once()

		err := processVerifyJob(ctx, job, mockMinIO, mockRepo)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("size mismatch", func(t *testing.T) {
		mockMinIO := new(MockMinIOClient)
		mockRepo := new(MockVoiceRepo)

		job := domain.VerifyJob{VoiceID: 4, ObjectKey: "voice/4/note.ogg", Size: 100}
		mockMinIO.On("StatObject", ctx, job.ObjectKey).Return(minio.ObjectInfo{Size: 50}, nil).Once()

		err := processVerifyJob(ctx, job, mockMinIO, mockRepo)

		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "Update")
	})

	t.Run("object missing", func(t *testing.T) {
		mockMinIO := new(MockMinIOClient)
		mockRepo := new(MockVoiceRepo)

		job := domain.VerifyJob{VoiceID: 5, ObjectKey: "voice/5/note.ogg"}
		mockMinIO.On("StatObject", ctx, job.ObjectKey).Return(minio.ObjectInfo{}, errors.New("NoSuchKey")).Once()

		err := processVerifyJob(ctx, job, mockMinIO, mockRepo)

		assert.Error(t, err)
	})
}
