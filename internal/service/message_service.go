package service

import (
	"errors"
	"strings"
	"time"

	"github.com/Laolu02/Linq/internal/apperr"
	"github.com/Laolu02/Linq/internal/entity"
	"github.com/Laolu02/Linq/internal/metrics"
	"github.com/Laolu02/Linq/internal/nlog"
	"github.com/Laolu02/Linq/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Broadcaster pushes an envelope to the live connections of a set of users.
type Broadcaster interface {
	ToUsers(env *entity.Envelope, userUUIDs ...string)
}

// ConversationSummary is one entry of a user's chat list: the conversation,
// the other participant, and the newest visible message as a preview.
type ConversationSummary struct {
	Conversation *entity.Conversation `json:"conversation"`
	Peer         *entity.User         `json:"peer"`
	LastMessage  *entity.Message      `json:"last-message,omitempty"`
}

// MessageService is the delivery core. A send runs validate, authorize,
// persist, fan-out in that order: the durable write is the authority, so a
// failed write fails the whole send, while a failed fan-out after the write
// is swallowed (the recipient catches up on the next history fetch).
type MessageService interface {
	SendDirect(senderUUID, receiverUUID, body string) (*entity.Message, error)
	SendGroup(senderUUID, groupUUID, body string) (*entity.Message, error)

	GetDirect(userUUID, otherUUID string) ([]*entity.Message, error)
	GetGroup(userUUID, groupUUID string) ([]*entity.Message, error)
	ListConversations(userUUID string) ([]*ConversationSummary, error)
	LastGroupMessage(groupUUID string) (*entity.Message, error)

	Edit(userUUID, messageUUID, body string) (*entity.Message, error)
	Delete(userUUID, messageUUID string) error
}

type chatMessageService struct {
	messageRepo      repository.MessageRepository
	conversationRepo repository.ConversationRepository
	groupRepo        repository.GroupRepository
	userRepo         repository.UserRepository
	broadcaster      Broadcaster
	logger           nlog.Logger
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	conversationRepo repository.ConversationRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	broadcaster Broadcaster,
	logger nlog.Logger,
) MessageService {
	return &chatMessageService{
		messageRepo:      messageRepo,
		conversationRepo: conversationRepo,
		groupRepo:        groupRepo,
		userRepo:         userRepo,
		broadcaster:      broadcaster,
		logger:           logger,
	}
}

func (m *chatMessageService) Logf(format string, v ...any) {
	m.logger.Logf(format, v...)
}

func (m *chatMessageService) SendDirect(senderUUID, receiverUUID, body string) (*entity.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperr.Validation("message body must not be empty")
	}

	sender, err := m.userRepo.GetByUUID(senderUUID)
	if err != nil {
		return nil, apperr.NotFound("sender was not found")
	}
	if _, err := m.userRepo.GetByUUID(receiverUUID); err != nil {
		return nil, apperr.NotFound("the requested user does not exist")
	}

	// The pair is unordered: (A,B) and (B,A) resolve to the same row.
	conversation, err := m.conversationRepo.GetOrCreate(senderUUID, receiverUUID)
	if err != nil {
		return nil, apperr.Persistence(err, "could not resolve the conversation")
	}

	message := &entity.Message{
		UUID:             uuid.New().String(),
		Body:             body,
		SenderUUID:       senderUUID,
		ConversationUUID: conversation.UUID,
		CreatedAt:        time.Now(),
	}
	if err := m.messageRepo.Create(message); err != nil {
		return nil, apperr.Persistence(err, "could not store the message")
	}
	metrics.MessagesSent.WithLabelValues(entity.DestinationPrivate).Inc()
	m.Logf("Message %s stored for conversation %s", message.UUID, conversation.UUID)

	m.broadcaster.ToUsers(m.envelope(message, sender, entity.DestinationPrivate, conversation.UUID),
		senderUUID, receiverUUID)
	return message, nil
}

func (m *chatMessageService) SendGroup(senderUUID, groupUUID, body string) (*entity.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperr.Validation("message body must not be empty")
	}

	sender, err := m.userRepo.GetByUUID(senderUUID)
	if err != nil {
		return nil, apperr.NotFound("sender was not found")
	}
	// The membership row survives the group's soft delete, so the group row
	// itself decides whether sends are still accepted.
	if _, err := m.groupRepo.GetByUUID(groupUUID); err != nil {
		return nil, apperr.NotFound("group was not found")
	}
	if _, err := m.groupRepo.GetMember(groupUUID, senderUUID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Authorization("user is not a member of this group")
		}
		return nil, apperr.Persistence(err, "could not verify group membership")
	}

	message := &entity.Message{
		UUID:       uuid.New().String(),
		Body:       body,
		SenderUUID: senderUUID,
		GroupUUID:  groupUUID,
		CreatedAt:  time.Now(),
	}
	if err := m.messageRepo.Create(message); err != nil {
		return nil, apperr.Persistence(err, "could not store the message")
	}
	metrics.MessagesSent.WithLabelValues(entity.DestinationGroup).Inc()
	m.Logf("Message %s stored for group %s", message.UUID, groupUUID)

	// Fan out to the persisted member list, sender included, so the
	// sender's other connections converge too.
	members, err := m.groupRepo.GetMembers(groupUUID)
	if err != nil {
		m.Logf("Could not load members of group %s for fan-out {%v}", groupUUID, err)
		return message, nil
	}
	targets := make([]string, 0, len(members))
	for _, member := range members {
		targets = append(targets, member.UserUUID)
	}
	m.broadcaster.ToUsers(m.envelope(message, sender, entity.DestinationGroup, groupUUID), targets...)
	return message, nil
}

func (m *chatMessageService) GetDirect(userUUID, otherUUID string) ([]*entity.Message, error) {
	conversation, err := m.conversationRepo.GetByMemberPair(userUUID, otherUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []*entity.Message{}, nil
		}
		return nil, apperr.Persistence(err, "could not resolve the conversation")
	}

	messages, err := m.messageRepo.GetByConversation(conversation.UUID, true)
	if err != nil {
		return nil, apperr.Persistence(err, "could not load the chat history")
	}
	return messages, nil
}

func (m *chatMessageService) GetGroup(userUUID, groupUUID string) ([]*entity.Message, error) {
	if _, err := m.groupRepo.GetMember(groupUUID, userUUID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Authorization("user is not a member of this group")
		}
		return nil, apperr.Persistence(err, "could not verify group membership")
	}

	messages, err := m.messageRepo.GetByGroup(groupUUID, true)
	if err != nil {
		return nil, apperr.Persistence(err, "could not load the chat history")
	}
	return messages, nil
}

// ListConversations builds the user's chat list: every private conversation
// they belong to, annotated with the other participant and a last-message
// preview. A missing preview never fails the listing.
func (m *chatMessageService) ListConversations(userUUID string) ([]*ConversationSummary, error) {
	conversations, err := m.conversationRepo.GetForUser(userUUID)
	if err != nil {
		return nil, apperr.Persistence(err, "could not load the conversations")
	}

	summaries := make([]*ConversationSummary, 0, len(conversations))
	for _, conversation := range conversations {
		peerUUID := conversation.UserAUUID
		if peerUUID == userUUID {
			peerUUID = conversation.UserBUUID
		}
		peer, err := m.userRepo.GetByUUID(peerUUID)
		if err != nil {
			// The peer account is gone; nothing to list the chat under.
			continue
		}

		summary := &ConversationSummary{Conversation: conversation, Peer: peer}
		if last, err := m.messageRepo.LastForConversation(conversation.UUID); err == nil {
			summary.LastMessage = last
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// LastGroupMessage returns the newest visible message of a group, or nil
// when the group has none. Used to annotate group listings with a preview.
func (m *chatMessageService) LastGroupMessage(groupUUID string) (*entity.Message, error) {
	message, err := m.messageRepo.LastForGroup(groupUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Persistence(err, "could not load the last message")
	}
	return message, nil
}

func (m *chatMessageService) Edit(userUUID, messageUUID, body string) (*entity.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperr.Validation("message body must not be empty")
	}

	message, err := m.messageRepo.GetByUUID(messageUUID)
	if err != nil {
		return nil, apperr.NotFound("message was not found")
	}
	if message.SenderUUID != userUUID {
		return nil, apperr.Authorization("you can only edit your own messages")
	}
	if message.IsDeleted {
		return nil, apperr.Conflict("message was deleted")
	}

	if err := m.messageRepo.UpdateBody(messageUUID, body); err != nil {
		return nil, apperr.Persistence(err, "could not update the message")
	}
	message.Body = body
	message.IsEdited = true
	return message, nil
}

func (m *chatMessageService) Delete(userUUID, messageUUID string) error {
	message, err := m.messageRepo.GetByUUID(messageUUID)
	if err != nil {
		return apperr.NotFound("message was not found")
	}
	if message.SenderUUID != userUUID {
		return apperr.Authorization("you can only delete your own messages")
	}
	if message.IsDeleted {
		// Deleting twice is a benign conflict, not a crash.
		return apperr.Conflict("message was already deleted")
	}

	if err := m.messageRepo.SoftDelete(messageUUID); err != nil {
		return apperr.Persistence(err, "could not delete the message")
	}
	return nil
}

func (m *chatMessageService) envelope(message *entity.Message, sender *entity.User, destType, destUUID string) *entity.Envelope {
	return &entity.Envelope{
		Message:         message,
		SenderUUID:      sender.UUID,
		SenderName:      sender.Name,
		SenderAvatar:    sender.Avatar,
		DestinationType: destType,
		DestinationUUID: destUUID,
		DeliveredAt:     time.Now(),
	}
}
