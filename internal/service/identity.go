package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/zitadel/zitadel-go/v3/pkg/client"
	session "github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/session/v2"
	v2 "github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/user/v2"
	"github.com/zitadel/zitadel-go/v3/pkg/zitadel"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"auth-service/internal/config"
	"auth-service/internal/domain"
)

// Identity - адаптер identity-платформы: создание аккаунта, поиск по email,
// выпуск bearer токена. Все остальное (пароли, профили) живет в document store.
type Identity interface {
	CreateUser(ctx context.Context, email, phone, fullName string) (string, error)
	GetUserIDByEmail(ctx context.Context, email string) (string, error)
	IssueToken(ctx context.Context, userID string) (string, error)
}

// ZitadelIdentity реализует Identity поверх Zitadel API
type ZitadelIdentity struct {
	client *client.Client
	orgID  string
	log    *zap.SugaredLogger
}

// NewZitadelIdentity создает клиент Zitadel.
// Для localhost используется insecure соединение.
func NewZitadelIdentity(ctx context.Context, cfg config.ZitadelConfig, log *zap.SugaredLogger) (*ZitadelIdentity, error) {
	var instance *zitadel.Zitadel
	if cfg.Domain == "localhost" || strings.HasSuffix(cfg.Domain, ".localhost") {
		instance = zitadel.New(cfg.Domain, zitadel.WithInsecure(cfg.InsecurePort))
		log.Infof("Using insecure connection for %s", cfg.Domain)
	} else {
		instance = zitadel.New(cfg.Domain)
	}

	// PAT имеет приоритет над JWT key file
	var authOption client.Option
	if cfg.PAT != "" {
		authOption = client.WithAuth(client.PAT(cfg.PAT))
	} else {
		authOption = client.WithAuth(client.DefaultServiceUserAuthentication(
			cfg.KeyPath,
			client.ScopeZitadelAPI(),
		))
	}

	zc, err := client.New(ctx, instance, authOption)
	if err != nil {
		return nil, fmt.Errorf("failed to create zitadel client: %w", err)
	}

	log.Infof("Zitadel client initialized for domain: %s", cfg.Domain)

	return &ZitadelIdentity{client: zc, orgID: cfg.OrgID, log: log}, nil
}

// CreateUser создает human-аккаунт: email не верифицирован, телефон не верифицирован.
// Username = email. Возвращает идентификатор, выданный платформой.
func (s *ZitadelIdentity) CreateUser(ctx context.Context, email, phone, fullName string) (string, error) {
	given, family := splitFullName(fullName)
	username := email

	resp, err := s.client.UserServiceV2().CreateUser(ctx, &v2.CreateUserRequest{
		OrganizationId: s.orgID,
		Username:       &username,
		UserType: &v2.CreateUserRequest_Human_{
			Human: &v2.CreateUserRequest_Human{
				Profile: &v2.SetHumanProfile{
					GivenName:  given,
					FamilyName: family,
				},
				Email: &v2.SetHumanEmail{
					Email: email,
					Verification: &v2.SetHumanEmail_IsVerified{
						IsVerified: false,
					},
				},
				Phone: &v2.SetHumanPhone{
					Phone: phone,
					Verification: &v2.SetHumanPhone_IsVerified{
						IsVerified: false,
					},
				},
			},
		},
	})
	if err != nil {
		return "", translateIdentityError(err)
	}

	s.log.Infof("User created in Zitadel: UserID=%s, Email=%s", resp.Id, email)
	return resp.Id, nil
}

// GetUserIDByEmail ищет аккаунт по email адресу
func (s *ZitadelIdentity) GetUserIDByEmail(ctx context.Context, email string) (string, error) {
	resp, err := s.client.UserServiceV2().ListUsers(ctx, &v2.ListUsersRequest{
		Queries: []*v2.SearchQuery{
			{
				Query: &v2.SearchQuery_EmailQuery{
					EmailQuery: &v2.EmailQuery{
						EmailAddress: email,
					},
				},
			},
		},
	})
	if err != nil {
		return "", translateIdentityError(err)
	}

	if len(resp.Result) == 0 {
		return "", domain.ErrUserNotFound
	}
	return resp.Result[0].UserId, nil
}

// IssueToken создает сессию для пользователя и возвращает session token.
// Session token играет роль opaque bearer credential для клиентов.
func (s *ZitadelIdentity) IssueToken(ctx context.Context, userID string) (string, error) {
	resp, err := s.client.SessionServiceV2().CreateSession(ctx, &session.CreateSessionRequest{
		Checks: &session.Checks{
			User: &session.CheckUser{
				Search: &session.CheckUser_UserId{
					UserId: userID,
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", translateIdentityError(err))
	}

	return resp.SessionToken, nil
}

// translateIdentityError переводит gRPC статусы платформы в доменные ошибки.
// Единственное место, где провайдерские коды превращаются в наши.
func translateIdentityError(err error) error {
	switch status.Code(err) {
	case codes.AlreadyExists:
		return domain.ErrEmailExists
	case codes.InvalidArgument:
		return domain.ErrInvalidEmail
	case codes.NotFound:
		return domain.ErrUserNotFound
	default:
		return err
	}
}

// splitFullName разбивает полное имя на given/family по первому пробелу
func splitFullName(fullName string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(fullName), " ", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	// Zitadel требует оба поля, дублируем имя как фамилию
	return parts[0], parts[0]
}
