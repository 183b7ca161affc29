package service

import (
	"errors"
	"unicode/utf8"

	"github.com/warbler-server/internal/models"
	"github.com/warbler-server/internal/repository"
)

var (
	ErrTextRequired = errors.New("message text is required")
	ErrTextTooLong  = errors.New("message text too long")
	ErrNotOwner     = errors.New("message belongs to another user")
)

// Publisher receives newly posted messages for live delivery
type Publisher interface {
	Publish(message *models.Message)
}

// MessageService handles the message store and the like set
type MessageService struct {
	messageRepo *repository.MessageRepository
	likeRepo    *repository.LikeRepository
	followRepo  *repository.FollowRepository
	publisher   Publisher
}

// NewMessageService creates a new MessageService. publisher may be nil when
// no live feed is attached.
func NewMessageService(
	messageRepo *repository.MessageRepository,
	likeRepo *repository.LikeRepository,
	followRepo *repository.FollowRepository,
	publisher Publisher,
) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		likeRepo:    likeRepo,
		followRepo:  followRepo,
		publisher:   publisher,
	}
}

// PostRequest represents the new-message request
type PostRequest struct {
	Text string `json:"text" form:"text"`
}

// Post creates a message owned by userID
func (s *MessageService) Post(userID uint, req *PostRequest) (*models.Message, error) {
	if req.Text == "" {
		return nil, ErrTextRequired
	}
	// The bound is characters, not bytes
	if utf8.RuneCountInString(req.Text) > models.MaxMessageLength {
		return nil, ErrTextTooLong
	}

	message := &models.Message{
		Text:   req.Text,
		UserID: userID,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Publish(message)
	}

	return message, nil
}

// Get retrieves a message by ID
func (s *MessageService) Get(id uint) (*models.Message, error) {
	return s.messageRepo.GetByID(id)
}

// MessagesOf lists the messages posted by a user, newest first
func (s *MessageService) MessagesOf(userID uint) ([]models.Message, error) {
	return s.messageRepo.GetByUserID(userID)
}

// Delete removes a message and its likes. Only the owner may delete;
// anyone else gets ErrNotOwner and the message stays untouched.
func (s *MessageService) Delete(messageID, actorID uint) error {
	message, err := s.messageRepo.GetByID(messageID)
	if err != nil {
		return err
	}
	if message.UserID != actorID {
		return ErrNotOwner
	}
	return s.messageRepo.DeleteWithLikes(messageID)
}

// TimelineFor lists the newest messages from the users userID follows,
// plus their own, limited to the most recent 100
func (s *MessageService) TimelineFor(userID uint) ([]models.Message, error) {
	ids, err := s.followRepo.GetFollowingIDs(userID)
	if err != nil {
		return nil, err
	}
	ids = append(ids, userID)
	return s.messageRepo.GetTimeline(ids, 100)
}

// PublicTimeline lists the newest messages across all users
func (s *MessageService) PublicTimeline(limit int) ([]models.Message, error) {
	return s.messageRepo.GetLatest(limit)
}

// ToggleLike adds a like for (userID, messageID), or removes it when the
// pair already exists. Returns true when the message ends up liked.
func (s *MessageService) ToggleLike(userID, messageID uint) (bool, error) {
	if _, err := s.messageRepo.GetByID(messageID); err != nil {
		return false, err
	}

	liked, err := s.likeRepo.Exists(userID, messageID)
	if err != nil {
		return false, err
	}

	if liked {
		if err := s.likeRepo.Delete(userID, messageID); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := s.likeRepo.Create(userID, messageID); err != nil {
		return false, err
	}
	return true, nil
}

// LikedMessages lists the messages a user has liked
func (s *MessageService) LikedMessages(userID uint) ([]models.Message, error) {
	return s.likeRepo.GetMessagesLikedBy(userID)
}
