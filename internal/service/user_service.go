package service

import (
	"strings"
	"time"

	"github.com/Laolu02/Linq/internal/apperr"
	"github.com/Laolu02/Linq/internal/entity"
	"github.com/Laolu02/Linq/internal/nlog"
	"github.com/Laolu02/Linq/internal/repository"
)

type UserService interface {
	GetByUUID(uuid string) (*entity.User, error)
	GetAll() ([]*entity.User, error)
	UpdateProfile(uuid string, patch repository.UserPatch) (*entity.User, error)

	// Ping marks the user online and refreshes the last-seen time.
	Ping(uuid string) error
	SetOffline(uuid string) error
}

type localUserService struct {
	userRepository repository.UserRepository
	logger         nlog.Logger
}

func NewUserService(userRepo repository.UserRepository, logger nlog.Logger) UserService {
	return &localUserService{
		userRepository: userRepo,
		logger:         logger,
	}
}

func (u *localUserService) Logf(format string, v ...any) {
	u.logger.Logf(format, v...)
}

func (u *localUserService) GetByUUID(uuid string) (*entity.User, error) {
	user, err := u.userRepository.GetByUUID(uuid)
	if err != nil {
		return nil, apperr.NotFound("user was not found")
	}
	return user, nil
}

func (u *localUserService) GetAll() ([]*entity.User, error) {
	users, err := u.userRepository.GetAll()
	if err != nil {
		return nil, apperr.Persistence(err, "could not load the users")
	}
	return users, nil
}

func (u *localUserService) UpdateProfile(uuid string, patch repository.UserPatch) (*entity.User, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, apperr.Validation("name must not be empty")
	}

	if _, err := u.userRepository.GetByUUID(uuid); err != nil {
		return nil, apperr.NotFound("user was not found")
	}
	if err := u.userRepository.UpdateProfile(uuid, patch); err != nil {
		return nil, apperr.Persistence(err, "could not update the profile")
	}

	user, err := u.userRepository.GetByUUID(uuid)
	if err != nil {
		return nil, apperr.Persistence(err, "could not reload the profile")
	}
	u.Logf("Profile of user %s updated", uuid)
	return user, nil
}

func (u *localUserService) Ping(uuid string) error {
	if err := u.userRepository.SetPresence(uuid, true, time.Now()); err != nil {
		return apperr.Persistence(err, "could not update presence")
	}
	return nil
}

func (u *localUserService) SetOffline(uuid string) error {
	if err := u.userRepository.SetPresence(uuid, false, time.Now()); err != nil {
		return apperr.Persistence(err, "could not update presence")
	}
	return nil
}
