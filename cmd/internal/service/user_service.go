package service

import (
	"context"
	"errors"
	"strings"
	"studynotes/cmd/internal/contract"
	"studynotes/cmd/internal/domain/database/repository"
	"studynotes/cmd/internal/domain/entity"
	"studynotes/cmd/internal/utils"
	"studynotes/cmd/internal/utils/apierror"
	"studynotes/cmd/internal/utils/uid"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *entity.User) error
	UpdateProfile(ctx context.Context, user *entity.User) error
}

type UserService struct {
	UserRepo UserRepository
	Ledger   LedgerRepository
	Tokens   *utils.TokenSigner
	Validate *validator.Validate

	// HashCost is the bcrypt cost used for new passwords.
	HashCost int
}

func NewUserService(userRepo UserRepository, ledger LedgerRepository, tokens *utils.TokenSigner, validate *validator.Validate) *UserService {
	return &UserService{
		UserRepo: userRepo,
		Ledger:   ledger,
		Tokens:   tokens,
		Validate: validate,
		HashCost: bcrypt.DefaultCost,
	}
}

// Register creates a user with an empty balance and signs them in.
func (u *UserService) Register(ctx context.Context, req *contract.RegisterRequest) (*contract.RegisterResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	req.Email = strings.ToLower(req.Email)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	found, err := u.UserRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		log.Errorf("failed to check if user already exists: %v", err)
		return nil, apierror.InternalServerError
	}

	if found {
		return nil, apierror.EmailTakenError
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), u.HashCost)
	if err != nil {
		log.Errorf("failed to hash password: %v", err)
		return nil, apierror.InternalServerError
	}

	now := utils.NowUTC()
	user := &entity.User{
		ID:           uid.Generate(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Department:   req.Department,
		Year:         req.Year,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = u.UserRepo.Create(ctx, user)
	if errors.Is(err, repository.ErrEmailTaken) {
		// Lost a race against a concurrent registration
		return nil, apierror.EmailTakenError
	}

	if err != nil {
		log.Errorf("failed to create user: %v", err)
		return nil, apierror.InternalServerError
	}

	token, apierr := u.signToken(user)
	if apierr != nil {
		return nil, apierr
	}
	return &contract.RegisterResponse{Token: token, Name: user.Name}, nil
}

func (u *UserService) Login(ctx context.Context, req *contract.LoginRequest) (*contract.LoginResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	req.Email = strings.ToLower(req.Email)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, err := u.UserRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		log.Errorf("failed to fetch user from database: %v", err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		return nil, apierror.InvalidCredentialsError
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password))
	if err != nil {
		return nil, apierror.InvalidCredentialsError
	}

	token, apierr := u.signToken(user)
	if apierr != nil {
		return nil, apierr
	}
	return &contract.LoginResponse{Token: token, Name: user.Name, Credits: user.Credits}, nil
}

// GetMe re-reads the actor so the returned balance is current.
func (u *UserService) GetMe(ctx context.Context, actor *entity.User) (*contract.UserResponse, apierror.ErrorResponse) {
	user, err := u.UserRepo.FindByID(ctx, actor.ID)
	if err != nil {
		log.Errorf("failed to fetch user %d: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		return nil, apierror.UserNotFoundError
	}
	return toUserResponse(user), nil
}

func (u *UserService) UpdateMe(ctx context.Context, actor *entity.User, req *contract.UpdateProfileRequest) (*contract.UserResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	target, err := u.UserRepo.FindByID(ctx, actor.ID)
	if err != nil {
		log.Errorf("failed to fetch user %d: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}

	if target == nil {
		return nil, apierror.UserNotFoundError
	}

	updater := &userUpdater{target: target}
	updater.setProfileString(req.Name, &target.Name)
	updater.setProfileString(req.Department, &target.Department)
	updater.setProfileInt(req.Year, &target.Year)

	if updater.dirty {
		target.UpdatedAt = utils.NowUTC()
		if err := u.UserRepo.UpdateProfile(ctx, target); err != nil {
			log.Errorf("failed to update user %d: %v", target.ID, err)
			return nil, apierror.InternalServerError
		}
	}
	return toUserResponse(target), nil
}

func (u *UserService) GetLeaderboard(ctx context.Context) ([]*contract.LeaderboardEntry, apierror.ErrorResponse) {
	users, err := u.Ledger.TopByCredits(ctx, contract.LeaderboardSize)
	if err != nil {
		log.Errorf("failed to fetch leaderboard: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.LeaderboardEntry, len(users))
	for i, user := range users {
		resp[i] = &contract.LeaderboardEntry{
			ID:      user.ID,
			Name:    user.Name,
			Email:   user.Email,
			Credits: user.Credits,
		}
	}
	return resp, nil
}

func (u *UserService) signToken(user *entity.User) (string, apierror.ErrorResponse) {
	token, err := u.Tokens.Sign(user.ID)
	if err != nil {
		log.Errorf("failed to sign token for user %d: %v", user.ID, err)
		return "", apierror.InternalServerError
	}
	return token, nil
}

func toUserResponse(user *entity.User) *contract.UserResponse {
	return &contract.UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Department: user.Department,
		Year:       user.Year,
		Credits:    user.Credits,
		CreatedAt:  utils.FormatEpoch(user.CreatedAt),
		UpdatedAt:  utils.FormatEpoch(user.UpdatedAt),
	}
}
