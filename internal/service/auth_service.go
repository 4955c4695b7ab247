package service

import (
	"strings"
	"time"

	"github.com/Laolu02/Linq/internal/apperr"
	"github.com/Laolu02/Linq/internal/entity"
	"github.com/Laolu02/Linq/internal/nlog"
	"github.com/Laolu02/Linq/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(name, email, password string) (*entity.User, error)
	Login(email, password string) (*entity.User, error)
}

type localAuthService struct {
	userRepository repository.UserRepository
	logger         nlog.Logger
}

func NewAuthService(userRepo repository.UserRepository, logger nlog.Logger) AuthService {
	return &localAuthService{
		userRepository: userRepo,
		logger:         logger,
	}
}

func (a *localAuthService) Logf(format string, v ...any) {
	a.logger.Logf(format, v...)
}

func (a *localAuthService) Register(name, email, password string) (*entity.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" || email == "" || password == "" {
		return nil, apperr.Validation("name, email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		a.Logf("Could not calculate hash {%v}", err)
		return nil, apperr.Persistence(err, "could not register the user")
	}

	id := uuid.New().String()
	user := &entity.User{
		UUID:      id,
		Name:      name,
		Email:     email,
		CreatedAt: time.Now(),

		Secret: entity.UserSecret{
			UserUUID: id,
			Hash:     string(hash),
		},
	}
	if err := a.userRepository.Create(user); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, apperr.Conflict("a user with this email already exists")
		}
		return nil, apperr.Persistence(err, "could not register the user")
	}
	a.Logf("User %s registered correctly", user.UUID)
	return user, nil
}

func (a *localAuthService) Login(email, password string) (*entity.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := a.userRepository.GetForLogin(email)
	if err != nil {
		return nil, apperr.Authorization("wrong credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Secret.Hash), []byte(password)); err != nil {
		return nil, apperr.Authorization("wrong credentials")
	}
	a.Logf("User %s logged in correctly", user.UUID)
	return user, nil
}
