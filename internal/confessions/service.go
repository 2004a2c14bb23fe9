// Package confessions implements the anonymous confession feed: posting,
// replies, voting and report intake. It is a plain CRUD layer over the
// storage service and never touches the realtime relay.
package confessions

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"whisperwall/backend/internal/models"
	"whisperwall/backend/internal/storage"
)

const defaultTrendingLimit = 20

// ErrInappropriate rejects content matching the profanity filter.
var ErrInappropriate = errors.New("content contains inappropriate words")

// ErrUnknownTarget rejects votes and reports against unsupported target types.
var ErrUnknownTarget = errors.New("unknown target type")

var profanityPattern = regexp.MustCompile(`(?i)\b(spam|test123)\b`)

// Service holds the feed's business rules.
type Service struct {
	Store storage.Storage
}

func NewService(store storage.Storage) *Service {
	return &Service{Store: store}
}

// Create validates and posts a new confession.
func (s *Service) Create(content string, tags []string) (*models.Confession, error) {
	if err := validate(content); err != nil {
		return nil, err
	}

	confession := &models.Confession{
		ID:        uuid.New().String(),
		Content:   content,
		Tags:      pq.StringArray(tags),
		Replies:   []models.Reply{},
		CreatedAt: time.Now(),
	}
	if err := s.Store.SaveConfession(confession); err != nil {
		return nil, fmt.Errorf("saving confession: %w", err)
	}
	return confession, nil
}

// Get returns one confession with its replies.
func (s *Service) Get(id string) (*models.Confession, error) {
	return s.Store.GetConfession(id)
}

// List returns the visible feed, newest first.
func (s *Service) List() ([]models.Confession, error) {
	return s.Store.ListConfessions()
}

// Trending returns the top confessions by vote score.
func (s *Service) Trending(limit int) ([]models.Confession, error) {
	if limit <= 0 {
		limit = defaultTrendingLimit
	}
	return s.Store.ListTrending(limit)
}

// Reply validates and attaches a reply to an existing confession.
func (s *Service) Reply(confessionID, content string) (*models.Reply, error) {
	if err := validate(content); err != nil {
		return nil, err
	}
	if _, err := s.Store.GetConfession(confessionID); err != nil {
		return nil, err
	}

	reply := &models.Reply{
		ID:           uuid.New().String(),
		ConfessionID: confessionID,
		Content:      content,
		CreatedAt:    time.Now(),
	}
	if err := s.Store.AddReply(reply); err != nil {
		return nil, fmt.Errorf("saving reply: %w", err)
	}
	return reply, nil
}

// Vote applies an up or down vote to a confession or a reply.
func (s *Service) Vote(targetID, targetType string, upvote bool) error {
	switch targetType {
	case "confession":
		return s.Store.VoteConfession(targetID, upvote)
	case "reply":
		return s.Store.VoteReply(targetID, upvote)
	default:
		return ErrUnknownTarget
	}
}

// Report files a report. A reported confession is hidden from the feed until
// moderation rules on it; a reported chat message only produces the report
// row, since the relay buffer is out of moderation's reach.
func (s *Service) Report(targetID, targetType, reason, reporterID string) error {
	if targetType != models.ReportTargetConfession && targetType != models.ReportTargetMessage {
		return ErrUnknownTarget
	}
	if err := models.ValidateContent(reason); err != nil {
		return err
	}

	report := &models.Report{
		TargetID:   targetID,
		TargetType: targetType,
		Reason:     reason,
		ReporterID: reporterID,
		Status:     models.ReportStatusNew,
	}
	if err := s.Store.SaveReport(report); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}

	if targetType == models.ReportTargetConfession {
		if err := s.Store.MarkConfessionReported(targetID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("hiding reported confession: %w", err)
		}
	}
	return nil
}

func validate(content string) error {
	if err := models.ValidateContent(content); err != nil {
		return err
	}
	if profanityPattern.MatchString(content) {
		return ErrInappropriate
	}
	return nil
}
