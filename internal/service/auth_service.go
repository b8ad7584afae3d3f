package service

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"golang.org/x/crypto/bcrypt"

	errorvalues "github.com/ddlog/ddlog/internal/error_values"
	"github.com/ddlog/ddlog/internal/repository"
	"github.com/ddlog/ddlog/pkg/entity"
)

const (
	maxFailedAttempts = 5
	lockoutWindow     = 30 * time.Second
)

type AuthService struct {
	repo repository.CredentialsRepositoryI
	now  func() time.Time
}

func NewAuthService(credsRepo repository.CredentialsRepositoryI) *AuthService {
	return NewAuthServiceWithClock(credsRepo, time.Now)
}

func NewAuthServiceWithClock(credsRepo repository.CredentialsRepositoryI, clock func() time.Time) *AuthService {
	if credsRepo == nil {
		log.Fatal("provided nil credsRepo")
	}
	return &AuthService{
		repo: credsRepo,
		now:  clock,
	}
}

func validatePin(pin string) error {
	if err := validate.Var(pin, "required,pin"); err != nil {
		return errorvalues.ErrInvalidPin
	}
	return nil
}

func (as *AuthService) Setup(ctx context.Context, pin string) (*entity.User, error) {
	if err := validatePin(pin); err != nil {
		return nil, err
	}
	_, err := as.repo.Get(ctx)
	if err == nil {
		return nil, errorvalues.ErrUserExists
	}
	if !errors.Is(err, errorvalues.ErrUserNotFound) {
		return nil, errors.New("repository searching error: " + err.Error())
	}
	pinHash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("hashing pin error: " + err.Error())
	}
	user, err := as.repo.Create(ctx, string(pinHash))
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserExists) {
			return nil, err
		}
		return nil, errors.New("repository creating error: " + err.Error())
	}
	return user, nil
}

// Login walks the lockout state machine: an active lock rejects the attempt
// before the hash comparison, an expired lock resets the counter first.
func (as *AuthService) Login(ctx context.Context, pin string) (*entity.User, error) {
	if err := validatePin(pin); err != nil {
		return nil, err
	}
	user, err := as.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	now := as.now()
	if user.LockedUntil != nil {
		if now.Before(*user.LockedUntil) {
			remaining := int(math.Ceil(user.LockedUntil.Sub(now).Seconds()))
			return nil, &errorvalues.LockedError{RetryAfter: remaining}
		}
		if err := as.repo.UpdateAttempts(ctx, user.ID, 0, nil); err != nil {
			return nil, errors.New("repository updating error: " + err.Error())
		}
		user.FailedAttempts = 0
		user.LockedUntil = nil
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PinHash), []byte(pin)) != nil {
		attempts := user.FailedAttempts + 1
		if attempts >= maxFailedAttempts {
			until := now.Add(lockoutWindow)
			if err := as.repo.UpdateAttempts(ctx, user.ID, attempts, &until); err != nil {
				return nil, errors.New("repository updating error: " + err.Error())
			}
			return nil, &errorvalues.LockedError{RetryAfter: int(lockoutWindow.Seconds())}
		}
		if err := as.repo.UpdateAttempts(ctx, user.ID, attempts, nil); err != nil {
			return nil, errors.New("repository updating error: " + err.Error())
		}
		return nil, &errorvalues.PinMismatchError{AttemptsLeft: maxFailedAttempts - attempts}
	}
	if err := as.repo.UpdateAttempts(ctx, user.ID, 0, nil); err != nil {
		return nil, errors.New("repository updating error: " + err.Error())
	}
	user.FailedAttempts = 0
	user.LockedUntil = nil
	return user, nil
}

func (as *AuthService) HasUser(ctx context.Context) (bool, error) {
	_, err := as.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return false, nil
		}
		return false, errors.New("repository searching error: " + err.Error())
	}
	return true, nil
}

func (as *AuthService) CurrentUser(ctx context.Context) (*entity.User, error) {
	user, err := as.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	return user, nil
}
