package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"auth-service/internal/domain"
)

// OTPRepository - хранилище OTP записей, ключ документа - номер телефона
type OTPRepository interface {
	Upsert(ctx context.Context, rec *domain.OTPRecord) error
	FindByPhone(ctx context.Context, phone string) (*domain.OTPRecord, error)
	MarkVerified(ctx context.Context, phone string, at time.Time) error
}

type mongoOTPRepo struct {
	col *mongo.Collection
}

// NewMongoOTPRepo создает репозиторий OTP записей.
// TTL индекса нет намеренно: истекшие записи лежат до перезаписи,
// срок действия проверяется только при верификации.
func NewMongoOTPRepo(db *mongo.Database) OTPRepository {
	return &mongoOTPRepo{col: db.Collection("otps")}
}

// Upsert перезаписывает запись для номера целиком
func (r *mongoOTPRepo) Upsert(ctx context.Context, rec *domain.OTPRecord) error {
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": rec.Phone}, rec, options.Replace().SetUpsert(true))
	return err
}

func (r *mongoOTPRepo) FindByPhone(ctx context.Context, phone string) (*domain.OTPRecord, error) {
	var rec domain.OTPRecord
	err := r.col.FindOne(ctx, bson.M{"_id": phone}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *mongoOTPRepo) MarkVerified(ctx context.Context, phone string, at time.Time) error {
	_, err := r.col.UpdateByID(ctx, phone, bson.M{
		"$set": bson.M{"verified": true, "verifiedAt": at},
	})
	return err
}
