package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"auth-service/internal/domain"
	"auth-service/internal/repository"
)

// fakeIdentity - in-memory identity провайдер для тестов
type fakeIdentity struct {
	byEmail   map[string]string
	nextID    int
	createErr error
	tokenErr  error
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{byEmail: map[string]string{}}
}

func (f *fakeIdentity) CreateUser(_ context.Context, email, _, _ string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	if _, ok := f.byEmail[email]; ok {
		return "", domain.ErrEmailExists
	}
	f.nextID++
	uid := fmt.Sprintf("user-%d", f.nextID)
	f.byEmail[email] = uid
	return uid, nil
}

func (f *fakeIdentity) GetUserIDByEmail(_ context.Context, email string) (string, error) {
	uid, ok := f.byEmail[email]
	if !ok {
		return "", domain.ErrUserNotFound
	}
	return uid, nil
}

func (f *fakeIdentity) IssueToken(_ context.Context, userID string) (string, error) {
	if f.tokenErr != nil {
		return "", f.tokenErr
	}
	return "session-" + userID, nil
}

// fakeUserRepo - in-memory хранилище профилей
type fakeUserRepo struct {
	users        map[string]*domain.User
	createErr    error
	findPhoneErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	cp := *u
	f.users[u.UID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, uid string) (*domain.User, error) {
	u, ok := f.users[uid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) FindByPhone(_ context.Context, phone string) (*domain.User, error) {
	if f.findPhoneErr != nil {
		return nil, f.findPhoneErr
	}
	for _, u := range f.users {
		if u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) MarkPhoneVerified(_ context.Context, phone string) error {
	for _, u := range f.users {
		if u.Phone == phone {
			u.IsPhoneVerified = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeUserRepo) AddFCMToken(_ context.Context, uid, token string) error {
	u, ok := f.users[uid]
	if !ok {
		return repository.ErrNotFound
	}
	for _, t := range u.FCMTokens {
		if t == token {
			return nil
		}
	}
	u.FCMTokens = append(u.FCMTokens, token)
	now := time.Now().UTC()
	u.LastTokenUpdate = &now
	return nil
}

// fakeOTPRepo - in-memory хранилище OTP записей
type fakeOTPRepo struct {
	records map[string]*domain.OTPRecord
	upserts int
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{records: map[string]*domain.OTPRecord{}}
}

func (f *fakeOTPRepo) Upsert(_ context.Context, rec *domain.OTPRecord) error {
	f.upserts++
	cp := *rec
	f.records[rec.Phone] = &cp
	return nil
}

func (f *fakeOTPRepo) FindByPhone(_ context.Context, phone string) (*domain.OTPRecord, error) {
	rec, ok := f.records[phone]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeOTPRepo) MarkVerified(_ context.Context, phone string, at time.Time) error {
	rec, ok := f.records[phone]
	if !ok {
		return repository.ErrNotFound
	}
	rec.Verified = true
	rec.VerifiedAt = &at
	return nil
}

// fakeNotifier фиксирует отправки и возвращает заданный результат
type fakeNotifier struct {
	result domain.FCMResult
	sent   []string
	valid  bool
}

func (f *fakeNotifier) SendOTPNotification(_ context.Context, token, _, _ string) domain.FCMResult {
	f.sent = append(f.sent, token)
	return f.result
}

func (f *fakeNotifier) SendGeneralNotification(_ context.Context, token, _, _ string, _ map[string]string) domain.FCMResult {
	f.sent = append(f.sent, token)
	return f.result
}

func (f *fakeNotifier) ValidateToken(token string) bool {
	if f.valid {
		return true
	}
	return len(token) >= 100 && len(token) <= 200 && !strings.ContainsAny(token, " \t")
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func testPlatform(users *fakeUserRepo, otps *fakeOTPRepo) *Platform {
	return &Platform{
		Identity: newFakeIdentity(),
		Users:    users,
		OTPs:     otps,
	}
}
