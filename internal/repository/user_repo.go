package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"auth-service/internal/domain"
)

var ErrNotFound = errors.New("document not found")

// UserRepository - операции над профилями пользователей
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, uid string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByPhone(ctx context.Context, phone string) (*domain.User, error)
	MarkPhoneVerified(ctx context.Context, phone string) error
	AddFCMToken(ctx context.Context, uid, token string) error
}

type mongoUserRepo struct {
	col *mongo.Collection
}

// NewMongoUserRepo создает репозиторий профилей.
// Email уникален на уровне индекса; телефон сознательно НЕ уникален -
// поиск по телефону всегда берет первое совпадение.
func NewMongoUserRepo(db *mongo.Database, log *zap.SugaredLogger) UserRepository {
	col := db.Collection("users")
	// Без уникального индекса email дубликаты не отлавливаются хранилищем
	if _, err := col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "phone", Value: 1}}},
	}); err != nil {
		log.Errorf("Failed to create user indexes: %v", err)
	}
	return &mongoUserRepo{col: col}
}

func (r *mongoUserRepo) Create(ctx context.Context, u *domain.User) error {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	_, err := r.col.InsertOne(ctx, u)
	return err
}

func (r *mongoUserRepo) FindByID(ctx context.Context, uid string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": uid})
}

func (r *mongoUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepo) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"phone": phone})
}

// MarkPhoneVerified проставляет флаг верификации первому профилю с этим телефоном
func (r *mongoUserRepo) MarkPhoneVerified(ctx context.Context, phone string) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"phone": phone}, bson.M{
		"$set": bson.M{"isPhoneVerified": true, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddFCMToken добавляет device token в набор токенов пользователя.
// $addToSet подавляет дубликаты.
func (r *mongoUserRepo) AddFCMToken(ctx context.Context, uid, token string) error {
	now := time.Now().UTC()
	_, err := r.col.UpdateByID(ctx, uid, bson.M{
		"$addToSet": bson.M{"fcmTokens": token},
		"$set":      bson.M{"lastTokenUpdate": now, "updatedAt": now},
	})
	return err
}

func (r *mongoUserRepo) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var u domain.User
	err := r.col.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
