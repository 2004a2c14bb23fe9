// Package storage persists the confession feed, reports and closed chat
// session records in PostgreSQL, with a redis read-through cache in front of
// single-confession lookups. The realtime relay itself keeps no state here.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"whisperwall/backend/internal/models"
)

const confessionCacheTTL = 5 * time.Minute

// ErrNotFound is returned for lookups of records that do not exist.
var ErrNotFound = errors.New("record not found")

// Storage is the persistence contract consumed by the confession service and
// the moderation CLI.
type Storage interface {
	SaveConfession(confession *models.Confession) error
	GetConfession(id string) (*models.Confession, error)
	ListConfessions() ([]models.Confession, error)
	ListTrending(limit int) ([]models.Confession, error)
	DeleteConfession(id string) error
	MarkConfessionReported(id string) error

	AddReply(reply *models.Reply) error
	VoteConfession(id string, upvote bool) error
	VoteReply(id string, upvote bool) error

	SaveReport(report *models.Report) error
	ListOpenReports() ([]models.Report, error)
	ResolveReport(id uint) error

	SaveChatSession(session *models.ChatSession) error
}

// Service implements Storage over gorm and an optional redis client. A nil
// redis client disables caching (the admin CLI runs without one).
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

func (s *Service) SaveConfession(confession *models.Confession) error {
	if err := s.DB.Create(confession).Error; err != nil {
		log.Printf("ERROR: failed to save confession: %v", err)
		return err
	}
	return nil
}

// GetConfession looks the confession up in redis first and falls back to the
// database, caching the hit for five minutes.
func (s *Service) GetConfession(id string) (*models.Confession, error) {
	cacheKey := "confession:" + id
	if s.Redis != nil {
		cached, err := s.Redis.Get(s.Ctx, cacheKey).Result()
		if err == nil {
			var confession models.Confession
			if err := json.Unmarshal([]byte(cached), &confession); err == nil {
				return &confession, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Printf("WARNING: confession cache read failed: %v", err)
		}
	}

	var confession models.Confession
	err := s.DB.Preload("Replies").First(&confession, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(&confession); err == nil {
			s.Redis.Set(s.Ctx, cacheKey, data, confessionCacheTTL)
		}
	}
	return &confession, nil
}

// ListConfessions returns the visible feed, newest first. Reported
// confessions are hidden until moderation rules on them.
func (s *Service) ListConfessions() ([]models.Confession, error) {
	var confessions []models.Confession
	err := s.DB.Preload("Replies").
		Where("is_reported = ?", false).
		Order("created_at DESC").
		Find(&confessions).Error
	return confessions, err
}

// ListTrending returns visible confessions ordered by vote score.
func (s *Service) ListTrending(limit int) ([]models.Confession, error) {
	var confessions []models.Confession
	err := s.DB.Preload("Replies").
		Where("is_reported = ?", false).
		Order("(upvotes - downvotes) DESC").
		Limit(limit).
		Find(&confessions).Error
	return confessions, err
}

func (s *Service) DeleteConfession(id string) error {
	if err := s.DB.Where("confession_id = ?", id).Delete(&models.Reply{}).Error; err != nil {
		return err
	}
	if err := s.DB.Delete(&models.Confession{}, "id = ?", id).Error; err != nil {
		return err
	}
	s.invalidate(id)
	return nil
}

func (s *Service) MarkConfessionReported(id string) error {
	result := s.DB.Model(&models.Confession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_reported":  true,
			"report_count": gorm.Expr("report_count + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	s.invalidate(id)
	return nil
}

func (s *Service) AddReply(reply *models.Reply) error {
	if err := s.DB.Create(reply).Error; err != nil {
		return err
	}
	s.invalidate(reply.ConfessionID)
	return nil
}

func (s *Service) VoteConfession(id string, upvote bool) error {
	column := "downvotes"
	if upvote {
		column = "upvotes"
	}
	result := s.DB.Model(&models.Confession{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	s.invalidate(id)
	return nil
}

func (s *Service) VoteReply(id string, upvote bool) error {
	column := "downvotes"
	if upvote {
		column = "upvotes"
	}
	var reply models.Reply
	if err := s.DB.First(&reply, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.DB.Model(&reply).UpdateColumn(column, gorm.Expr(column+" + 1")).Error; err != nil {
		return err
	}
	s.invalidate(reply.ConfessionID)
	return nil
}

func (s *Service) SaveReport(report *models.Report) error {
	if report.Status == "" {
		report.Status = models.ReportStatusNew
	}
	if err := s.DB.Create(report).Error; err != nil {
		log.Printf("ERROR: failed to save report for %s %s: %v", report.TargetType, report.TargetID, err)
		return err
	}
	return nil
}

func (s *Service) ListOpenReports() ([]models.Report, error) {
	var reports []models.Report
	err := s.DB.Where("status = ?", models.ReportStatusNew).
		Order("created_at ASC").
		Find(&reports).Error
	return reports, err
}

func (s *Service) ResolveReport(id uint) error {
	result := s.DB.Model(&models.Report{}).
		Where("id = ?", id).
		Update("status", models.ReportStatusResolved)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) SaveChatSession(session *models.ChatSession) error {
	return s.DB.Create(session).Error
}

// invalidate drops a confession's cache entry after any mutation.
func (s *Service) invalidate(confessionID string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(s.Ctx, "confession:"+confessionID).Err(); err != nil {
		log.Printf("WARNING: cache invalidation failed for %s: %v", confessionID, err)
	}
}
