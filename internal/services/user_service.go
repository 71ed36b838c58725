package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Dias221467/Social_Circle/internal/models"
	"github.com/Dias221467/Social_Circle/internal/repository"
	"github.com/Dias221467/Social_Circle/pkg/email"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Registration failures the HTTP layer maps to client errors instead of 500.
var (
	ErrInvalidUserData = errors.New("invalid user data")
	ErrEmailInUse      = errors.New("email already in use")
)

// UserService encapsulates the business logic for user operations.
type UserService struct {
	repo *repository.UserRepository
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

// NormalizeInterests trims entries and collapses duplicates while keeping
// first-seen order, so a user's interest list behaves as a set.
func NormalizeInterests(interests []string) []string {
	normalized := make([]string, 0, len(interests))
	seen := make(map[string]struct{}, len(interests))
	for _, interest := range interests {
		interest = strings.TrimSpace(interest)
		if interest == "" {
			continue
		}
		if _, dup := seen[interest]; dup {
			continue
		}
		seen[interest] = struct{}{}
		normalized = append(normalized, interest)
	}
	return normalized
}

// RegisterUser registers a new user after hashing their password.
func (s *UserService) RegisterUser(ctx context.Context, user *models.User) (*models.User, error) {
	logrus.Info("Registering new user")

	if user.Email == "" || user.Username == "" || user.HashedPassword == "" {
		logrus.Warn("Missing required fields during registration")
		return nil, fmt.Errorf("%w: missing required user fields", ErrInvalidUserData)
	}

	if !emailRegex.MatchString(user.Email) {
		logrus.WithField("email", user.Email).Warn("Invalid email format during registration")
		return nil, fmt.Errorf("%w: invalid email format", ErrInvalidUserData)
	}

	// Check if the email is already registered
	existingUser, _ := s.repo.GetUserByEmail(ctx, user.Email)
	if existingUser != nil {
		logrus.WithField("email", user.Email).Warn("Email already in use")
		return nil, ErrEmailInUse
	}

	// Hash the user's password.
	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(user.HashedPassword), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user.HashedPassword = string(hashedPwd)
	user.Interests = NormalizeInterests(user.Interests)

	// Relationship arrays always start empty; clients cannot seed them.
	user.Friends = nil
	user.SentFriendRequests = nil
	user.PendingFriendRequests = nil

	if user.Role == "" {
		user.Role = "user"
	}

	user.VerifyToken = uuid.NewString()
	user.IsVerified = false

	createdUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		logrus.WithError(err).Error("User registration failed")
		return nil, fmt.Errorf("failed to register user: %v", err)
	}

	verificationLink := fmt.Sprintf("http://localhost:8080/users/verify?token=%s", createdUser.VerifyToken)
	emailBody := fmt.Sprintf("Welcome to Social Circle!\n\nPlease verify your email by clicking the link below:\n%s", verificationLink)

	if err := email.SendEmail(user.Email, "Email Verification", emailBody); err != nil {
		logrus.WithError(err).Error("Failed to send verification email")
		return nil, fmt.Errorf("failed to send verification email")
	}

	logrus.WithFields(logrus.Fields{
		"userID": createdUser.ID.Hex(),
		"role":   createdUser.Role,
	}).Info("User registered successfully")

	return createdUser, nil
}

func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.repo.GetUserByVerificationToken(ctx, token)
	if err != nil {
		return fmt.Errorf("invalid or expired verification token")
	}

	update := map[string]interface{}{
		"is_verified":  true,
		"verify_token": "",
		"updated_at":   time.Now(),
	}

	if _, err := s.repo.UpdateUser(ctx, user.ID, update); err != nil {
		return fmt.Errorf("failed to update user verification status: %v", err)
	}

	return nil
}

func (s *UserService) RequestPasswordReset(ctx context.Context, userEmail string) error {
	user, err := s.repo.GetUserByEmail(ctx, userEmail)
	if err != nil {
		return fmt.Errorf("no account found with this email")
	}

	resetToken := uuid.NewString()
	expiration := time.Now().Add(1 * time.Hour)

	update := map[string]interface{}{
		"reset_token":     resetToken,
		"reset_token_exp": expiration,
		"updated_at":      time.Now(),
	}

	if _, err := s.repo.UpdateUser(ctx, user.ID, update); err != nil {
		return fmt.Errorf("failed to save reset token")
	}

	resetLink := fmt.Sprintf("http://localhost:8080/users/reset-password?token=%s", resetToken)
	body := fmt.Sprintf("Click the link below to reset your password:\n\n%s", resetLink)

	if err := email.SendEmail(user.Email, "Reset Your Password", body); err != nil {
		return fmt.Errorf("failed to send password reset email: %v", err)
	}

	logrus.Infof("Password reset email sent to %s", userEmail)
	return nil
}

func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.repo.GetUserByResetToken(ctx, token)
	if err != nil {
		return fmt.Errorf("invalid or expired reset token")
	}

	if time.Now().After(user.ResetTokenExp) {
		return fmt.Errorf("reset token has expired")
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	update := map[string]interface{}{
		"hashed_password": string(hashedPwd),
		"reset_token":     "",
		"reset_token_exp": time.Time{},
		"updated_at":      time.Now(),
	}

	if _, err := s.repo.UpdateUser(ctx, user.ID, update); err != nil {
		return fmt.Errorf("failed to update password: %v", err)
	}

	return nil
}

// AuthenticateUser verifies the email and password and returns the user if credentials are valid.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	logrus.WithField("email", email).Info("Authenticating user")

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		logrus.WithField("email", email).Warn("User not found")
		return nil, fmt.Errorf("user not found")
	}

	if !user.IsVerified {
		logrus.WithField("email", email).Warn("Attempt to login with unverified email")
		return nil, fmt.Errorf("email not verified. Please check your inbox")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logrus.WithField("email", email).Warn("Invalid credentials")
		return nil, fmt.Errorf("invalid credentials")
	}

	logrus.WithField("userID", user.ID.Hex()).Info("User authenticated successfully")
	return user, nil
}

// GetUser retrieves a user by their ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		logrus.WithError(err).Warn("Invalid user ID")
		return nil, fmt.Errorf("invalid user ID: %v", err)
	}

	user, err := s.repo.GetUserByID(ctx, objID)
	if err != nil {
		logrus.WithError(err).Warn("Failed to retrieve user")
		return nil, fmt.Errorf("failed to get user: %v", err)
	}

	return user, nil
}

// UpdateProfile updates the fields a user may change about themselves.
// Relationship arrays are owned by the friend service and cannot be set here.
func (s *UserService) UpdateProfile(ctx context.Context, id string, username *string, interests *[]string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		logrus.WithError(err).Warn("Invalid user ID")
		return nil, fmt.Errorf("invalid user ID: %v", err)
	}

	update := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if username != nil {
		if strings.TrimSpace(*username) == "" {
			return nil, fmt.Errorf("username cannot be empty")
		}
		update["username"] = strings.TrimSpace(*username)
	}
	if interests != nil {
		update["interests"] = NormalizeInterests(*interests)
	}

	user, err := s.repo.UpdateUser(ctx, objID, update)
	if err != nil {
		logrus.WithError(err).Error("Failed to update user in service")
		return nil, fmt.Errorf("failed to update user: %v", err)
	}

	logrus.WithField("userID", user.ID.Hex()).Info("User profile updated")
	return user, nil
}

// SearchUsers performs a naive substring search over usernames and emails,
// excluding the searching user from the results.
func (s *UserService) SearchUsers(ctx context.Context, query string, selfID primitive.ObjectID) ([]models.PublicUser, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.PublicUser{}, nil
	}

	users, err := s.repo.SearchUsers(ctx, regexp.QuoteMeta(query), selfID)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %v", err)
	}

	results := make([]models.PublicUser, 0, len(users))
	for _, user := range users {
		results = append(results, user.Public())
	}
	return results, nil
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.GetAllUsers(ctx)
}
