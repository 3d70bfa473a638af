package services

import (
	"github.com/atinomeri/freela-sub000/internal/auth"
	"github.com/atinomeri/freela-sub000/internal/models"
	"github.com/atinomeri/freela-sub000/internal/repositories"
	"github.com/atinomeri/freela-sub000/internal/services/dto"
	"github.com/atinomeri/freela-sub000/pkg/apperrors"

	"net/http"
)

type AuthService struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		Status:       models.UserStatusActive,
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.New(apperrors.CodeAlreadyExists, "auth",
				"Email is already registered", http.StatusConflict)
		}
		return nil, apperrors.InternalError(err)
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{AccessToken: token, User: user}, nil
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, invalidCredentials()
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, invalidCredentials()
	}

	if user.Status != models.UserStatusActive {
		return nil, apperrors.NewForbiddenError("Account is not active")
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{AccessToken: token, User: user}, nil
}

// Same answer for unknown email and wrong password.
func invalidCredentials() *apperrors.AppError {
	return apperrors.New(apperrors.CodeInvalidCredentials, "auth",
		"Invalid email or password", http.StatusUnauthorized)
}
