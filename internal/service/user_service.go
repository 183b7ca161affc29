package service

import (
	"github.com/warbler-server/internal/models"
	"github.com/warbler-server/internal/repository"
)

// UserService handles user directory and follow graph operations
type UserService struct {
	userRepo    *repository.UserRepository
	messageRepo *repository.MessageRepository
	followRepo  *repository.FollowRepository
	likeRepo    *repository.LikeRepository
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo *repository.UserRepository,
	messageRepo *repository.MessageRepository,
	followRepo *repository.FollowRepository,
	likeRepo *repository.LikeRepository,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		messageRepo: messageRepo,
		followRepo:  followRepo,
		likeRepo:    likeRepo,
	}
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(id uint) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// Search lists users, filtered by username substring when q is non-empty
func (s *UserService) Search(q string) ([]models.User, error) {
	return s.userRepo.Search(q)
}

// Stats returns the four profile counters for a user
func (s *UserService) Stats(userID uint) (*models.UserStats, error) {
	messages, err := s.messageRepo.CountByUserID(userID)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.CountFollowing(userID)
	if err != nil {
		return nil, err
	}
	followers, err := s.followRepo.CountFollowers(userID)
	if err != nil {
		return nil, err
	}
	likes, err := s.likeRepo.CountByUserID(userID)
	if err != nil {
		return nil, err
	}
	return &models.UserStats{
		Messages:  messages,
		Following: following,
		Followers: followers,
		Likes:     likes,
	}, nil
}

// Follow inserts a follow edge from follower to followee. The followee must
// exist; duplicate edges are rejected by the composite key. Self-follows
// are not restricted here.
func (s *UserService) Follow(followerID, followeeID uint) error {
	if _, err := s.userRepo.GetByID(followeeID); err != nil {
		return err
	}
	return s.followRepo.Create(followerID, followeeID)
}

// Unfollow removes the follow edge if present
func (s *UserService) Unfollow(followerID, followeeID uint) error {
	return s.followRepo.Delete(followerID, followeeID)
}

// IsFollowing reports whether userID follows otherID
func (s *UserService) IsFollowing(userID, otherID uint) (bool, error) {
	return s.followRepo.Exists(userID, otherID)
}

// IsFollowedBy reports whether userID is followed by otherID
func (s *UserService) IsFollowedBy(userID, otherID uint) (bool, error) {
	return s.followRepo.Exists(otherID, userID)
}

// Followers lists the users following userID
func (s *UserService) Followers(userID uint) ([]models.User, error) {
	return s.followRepo.GetFollowers(userID)
}

// Following lists the users userID follows
func (s *UserService) Following(userID uint) ([]models.User, error) {
	return s.followRepo.GetFollowing(userID)
}
