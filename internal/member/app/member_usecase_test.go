package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"realtime_chat_service/internal/member/domain"
	"realtime_chat_service/pkg/encrypt"
	"realtime_chat_service/pkg/logger"
	token "realtime_chat_service/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockMemberRepo Mock MemberRepository
type MockMemberRepo struct {
	mock.Mock
}

func (m *MockMemberRepo) CreateUser(ctx context.Context, user *domain.Member) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockMemberRepo) UpdateMemberStatus(ctx context.Context, user *domain.Member) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockMemberRepo) UpdateProfilePic(ctx context.Context, memberID, profilePic string) error {
	args := m.Called(ctx, memberID, profilePic)
	return args.Error(0)
}

func (m *MockMemberRepo) FindByMember(ctx context.Context, memberQuery *domain.MemberQuery) (*domain.Member, error) {
	args := m.Called(ctx, memberQuery)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Member), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMemberRepo) SearchMembers(ctx context.Context, query string) ([]domain.Member, error) {
	args := m.Called(ctx, query)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Member), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockRedisRepo Mock RedisRepository for MemberSession
type MockRedisRepo struct {
	mock.Mock
}

func (m *MockRedisRepo) Set(ctx context.Context, key string, value domain.MemberSession, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockRedisRepo) Get(ctx context.Context, key string) (domain.MemberSession, error) {
	args := m.Called(ctx, key)
	if args.Get(0) != nil {
		return args.Get(0).(domain.MemberSession), args.Error(1)
	}
	return domain.MemberSession{}, args.Error(1)
}

func (m *MockRedisRepo) Del(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockRedisRepo) ExtendTTL(ctx context.Context, key string, ttl time.Duration) error {
	args := m.Called(ctx, key, ttl)
	return args.Error(0)
}

func (m *MockRedisRepo) GetTTL(ctx context.Context, key string) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}

func TestMemberUseCase_Register(t *testing.T) {
	ctx := context.Background()
	email := "test@example.com"
	password := "!!Securepassword111"

	mockRepo := new(MockMemberRepo)
	mockRedis := new(MockRedisRepo)

	logger.SetNewNop()

	t.Run("register ok", func(t *testing.T) {
		mockRepo.On("FindByMember", ctx, &domain.MemberQuery{Email: &email}).Return(nil, errors.New("not found")).Once()
		mockRepo.On("CreateUser", ctx, mock.Anything).Return(nil).Once()

		uc := NewMemberUseCase(mockRepo, time.Hour, mockRedis)
		err := uc.Register(ctx, "Tester", email, "0912345678", password)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("email already exists", func(t *testing.T) {
		existing := &domain.Member{
			ID:       1,
			MemberID: "AAA",
			Email:    email,
			Status:   domain.MemberStatusOffLine,
		}
		mockRepo.On("FindByMember", ctx, &domain.MemberQuery{Email: &email}).Return(existing, nil).Once()

		uc := NewMemberUseCase(mockRepo, time.Hour, mockRedis)
		err := uc.Register(ctx, "Tester", email, "0912345678", password)

		assert.Error(t, err)
		assert.Equal(t, "email already exists", err.Error())
		mockRepo.AssertNotCalled(t, "CreateUser")
	})
}

func TestMemberUseCase_Login(t *testing.T) {
	ctx := context.Background()
	email := "test@example.com"
	password := "!!Securepassword111"
	memberID := "AAA"

	logger.SetNewNop()

	hashed, err := encrypt.HashPassword(password)
	assert.NoError(t, err)

	t.Run("login ok", func(t *testing.T) {
		mockRepo := new(MockMemberRepo)
		mockRedis := new(MockRedisRepo)

		member := &domain.Member{
			ID:       1,
			MemberID: memberID,
			Email:    email,
			Password: hashed,
			Status:   domain.MemberStatusOffLine,
		}
		mockRepo.On("FindByMember", ctx, &domain.MemberQuery{Email: &email}).Return(member, nil).Once()
		mockRedis.On("Set", mock.Anything, memberID, mock.Anything, time.Hour).Return(nil).Once()
		mockRepo.On("UpdateMemberStatus", ctx, mock.Anything).Return(nil).Once()

		originalGenerate := token.GenerateJWTFunc
		defer func() { token.GenerateJWTFunc = originalGenerate }()
		token.GenerateJWTFunc = func(memberID, role, issuer string) (string, error) {
			return "mockToken", nil
		}

		uc := NewMemberUseCase(mockRepo, time.Hour, mockRedis)
		got, err := uc.Login(ctx, email, password)

		assert.NoError(t, err)
		assert.Equal(t, "mockToken", got)
		mockRepo.AssertExpectations(t)
		mockRedis.AssertExpectations(t)
	})

	t.Run("unknown email", func(t *testing.T) {
		mockRepo := new(MockMemberRepo)
		mockRedis := new(MockRedisRepo)

		mockRepo.On("FindByMember", ctx, &domain.MemberQuery{Email: &email}).Return(nil, errors.New("no member found with given criteria")).Once()

		uc := NewMemberUseCase(mockRepo, time.Hour, mockRedis)
		got, err := uc.Login(ctx, email, password)

		assert.Error(t, err)
		assert.Equal(t, "user not found", err.Error())
		assert.Empty(t, got)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockRepo := new(MockMemberRepo)
		mockRedis := new(MockRedisRepo)

		member := &domain.Member{
			ID:       1,
			MemberID: memberID,
			Email:    email,
			Password: hashed,
		}
		mockRepo.On("FindByMember", ctx, &domain.MemberQuery{Email: &email}).Return(member, nil).Once()

		uc := NewMemberUseCase(mockRepo, time.Hour, mockRedis)
		got, err := uc.Login(ctx, email, "wrong password")

		assert.Error(t, err)
		assert.Empty(t, got)
	})
}

func TestMemberUseCase_Logout(t *testing.T) {
	ctx := context.Background()
	tokenStr := "mockToken"
	memberID := "AAA"

	logger.SetNewNop()

	t.Run("parse token fails", func(t *testing.T) {
		originalParse := token.ParseJWTFunc
		defer func() { token.ParseJWTFunc = originalParse }()
		token.ParseJWTFunc = func(t string) (*token.Claims, error) {
			return nil, errors.New("invalid token")
		}

		uc := NewMemberUseCase(new(MockMemberRepo), time.Hour, new(MockRedisRepo))
		err := uc.Logout(ctx, tokenStr)

		assert.Error(t, err)
		assert.Equal(t, "invalid token", err.Error())
	})

	t.Run("logout ok", func(t *testing.T) {
		originalParse := token.ParseJWTFunc
		defer func() { token.ParseJWTFunc = originalParse }()
		token.ParseJWTFunc = func(t string) (*token.Claims, error) {
			return &token.Claims{MemberID: memberID}, nil
		}

		mockRepo := new(MockMemberRepo)
		mockRedis := new(MockRedisRepo)
		mockRedis.On("Del", mock.Anything, memberID).Return(nil).Once()
		mockRepo.On("UpdateMemberStatus", ctx, &domain.Member{
			MemberID: memberID,
			Status:   domain.MemberStatusOffLine,
		}).Return(nil).Once()

		uc := NewMemberUseCase(mockRepo, time.Hour, mockRedis)
		err := uc.Logout(ctx, tokenStr)

		assert.NoError(t, err)
		mockRedis.AssertExpectations(t)
		mockRepo.AssertExpectations(t)
	})

	t.Run("redis del fails", func(t *testing.T) {
		originalParse := token.ParseJWTFunc
		defer func() { token.ParseJWTFunc = originalParse }()
		token.ParseJWTFunc = func(t string) (*token.Claims, error) {
			return &token.Claims{MemberID: memberID}, nil
		}

		mockRepo := new(MockMemberRepo)
		mockRedis := new(MockRedisRepo)
		mockRedis.On("Del", mock.Anything, memberID).Return(errors.New("redis error")).Once()

		uc := NewMemberUseCase(mockRepo, time.Hour, mockRedis)
		err := uc.Logout(ctx, tokenStr)

		assert.Error(t, err)
		assert.Equal(t, "redis error", err.Error())
		mockRepo.AssertNotCalled(t, "UpdateMemberStatus")
	})
}

func TestMemberUseCase_CheckSessionTimeout(t *testing.T) {
	ctx := context.Background()
	tokenStr := "mockToken"
	memberID := "AAA"

	logger.SetNewNop()

	originalParse := token.ParseJWTFunc
	defer func() { token.ParseJWTFunc = originalParse }()
	token.ParseJWTFunc = func(t string) (*token.Claims, error) {
		return &token.Claims{MemberID: memberID}, nil
	}

	t.Run("session alive", func(t *testing.T) {
		mockRedis := new(MockRedisRepo)
		mockRedis.On("GetTTL", mock.Anything, memberID).Return(120, nil).Once()

		uc := NewMemberUseCase(new(MockMemberRepo), time.Hour, mockRedis)
		expired, err := uc.CheckSessionTimeout(ctx, tokenStr)

		assert.NoError(t, err)
		assert.False(t, expired)
	})

	t.Run("session gone", func(t *testing.T) {
		mockRedis := new(MockRedisRepo)
		mockRedis.On("GetTTL", mock.Anything, memberID).Return(0, nil).Once()

		uc := NewMemberUseCase(new(MockMemberRepo), time.Hour, mockRedis)
		expired, err := uc.CheckSessionTimeout(ctx, tokenStr)

		assert.NoError(t, err)
		assert.True(t, expired)
	})
}

func TestMemberUseCase_ReconnectSession(t *testing.T) {
	ctx := context.Background()
	memberID := "AAA"

	logger.SetNewNop()

	originalParse := token.ParseJWTFunc
	defer func() { token.ParseJWTFunc = originalParse }()
	token.ParseJWTFunc = func(t string) (*token.Claims, error) {
		return &token.Claims{MemberID: memberID}, nil
	}

	mockRedis := new(MockRedisRepo)
	mockRedis.On("ExtendTTL", mock.Anything, memberID, time.Hour).Return(nil).Once()

	uc := NewMemberUseCase(new(MockMemberRepo), time.Hour, mockRedis)
	err := uc.ReconnectSession(ctx, "mockToken")

	assert.NoError(t, err)
	mockRedis.AssertExpectations(t)
}

func TestMemberUseCase_SearchMembers(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	mockRepo := new(MockMemberRepo)
	mockRepo.On("SearchMembers", ctx, "ali").Return([]domain.Member{
		{MemberID: "u1", Name: "Alice"},
	}, nil).Once()

	uc := NewMemberUseCase(mockRepo, time.Hour, new(MockRedisRepo))
	members, err := uc.SearchMembers(ctx, "ali")

	assert.NoError(t, err)
	assert.Len(t, members, 1)
	assert.Equal(t, "Alice", members[0].Name)
}

func TestMemberUseCase_UpdateProfilePic(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	mockRepo := new(MockMemberRepo)
	mockRepo.On("UpdateProfilePic", ctx, "AAA", "avatar.png").Return(nil).Once()

	uc := NewMemberUseCase(mockRepo, time.Hour, new(MockRedisRepo))
	err := uc.UpdateProfilePic(ctx, "AAA", "avatar.png")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
