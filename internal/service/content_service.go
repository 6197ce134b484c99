package service

import (
	"skillbridge_backend/internal/model"
	"skillbridge_backend/internal/repository"
	"skillbridge_backend/internal/util"
	"skillbridge_backend/pkg/logger"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const programCacheTTL = 5 * time.Minute

// ContentService manages the training catalog: programs, their ordered
// modules, and module videos. Video files themselves live elsewhere; the
// catalog stores URLs only.
type ContentService struct {
	Repo  *repository.ProgramRepository
	Redis *redis.Client
}

func NewContentService(repo *repository.ProgramRepository, rdb *redis.Client) *ContentService {
	return &ContentService{Repo: repo, Redis: rdb}
}

type ProgramReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	IsPublished *bool   `json:"isPublished"`
}

func (s *ContentService) CreateProgram(trainerID uint, req ProgramReq) (*model.TrainingProgram, error) {
	if req.Title == nil || *req.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	program := &model.TrainingProgram{
		Title:     *req.Title,
		TrainerID: trainerID,
	}
	if req.Description != nil {
		program.Description = *req.Description
	}
	if req.Category != nil {
		program.Category = *req.Category
	}
	if req.IsPublished != nil {
		program.IsPublished = *req.IsPublished
	}

	if err := s.Repo.Create(program); err != nil {
		return nil, err
	}
	return program, nil
}

func (s *ContentService) UpdateProgram(programID uint, req ProgramReq) (*model.TrainingProgram, error) {
	program, err := s.Repo.FindByID(programID)
	if err != nil {
		return nil, util.ErrProgramNotFound
	}

	if req.Title != nil {
		program.Title = *req.Title
	}
	if req.Description != nil {
		program.Description = *req.Description
	}
	if req.Category != nil {
		program.Category = *req.Category
	}
	if req.IsPublished != nil {
		program.IsPublished = *req.IsPublished
	}

	if err := s.Repo.Update(program); err != nil {
		return nil, err
	}

	s.invalidate(programID)
	return program, nil
}

func (s *ContentService) DeleteProgram(programID uint) error {
	if err := s.Repo.Delete(programID); err != nil {
		return err
	}
	s.invalidate(programID)
	return nil
}

func (s *ContentService) ListPrograms(page, limit int, category string, publishedOnly bool) ([]model.TrainingProgram, int64, error) {
	return s.Repo.List(page, limit, category, publishedOnly)
}

func programCacheKey(programID uint) string {
	return fmt.Sprintf("program:%d", programID)
}

// GetProgram reads through the Redis cache; a miss loads from the database
// and fills the cache with a TTL.
func (s *ContentService) GetProgram(programID uint) (*model.TrainingProgram, error) {
	ctx := context.Background()

	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, programCacheKey(programID)).Result()
		if err == nil {
			var program model.TrainingProgram
			if err := json.Unmarshal([]byte(cached), &program); err == nil {
				return &program, nil
			}
		}
	}

	program, err := s.Repo.FindByID(programID)
	if err != nil {
		return nil, util.ErrProgramNotFound
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(program); err == nil {
			if err := s.Redis.Set(ctx, programCacheKey(programID), payload, programCacheTTL).Err(); err != nil {
				logger.Log.Warn("program cache write failed", zap.Uint("programId", programID), zap.Error(err))
			}
		}
	}

	return program, nil
}

func (s *ContentService) invalidate(programID uint) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(context.Background(), programCacheKey(programID)).Err(); err != nil {
		logger.Log.Warn("program cache invalidation failed", zap.Uint("programId", programID), zap.Error(err))
	}
}

type ModuleReq struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

func (s *ContentService) AddModule(programID uint, req ModuleReq) (*model.ProgramModule, error) {
	if _, err := s.Repo.FindByID(programID); err != nil {
		return nil, util.ErrProgramNotFound
	}

	order := req.Order
	if order <= 0 {
		count, err := s.Repo.CountModules(programID)
		if err != nil {
			return nil, err
		}
		order = int(count) + 1
	}

	module := &model.ProgramModule{
		ProgramID:   programID,
		Order:       order,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := s.Repo.CreateModule(module); err != nil {
		return nil, err
	}

	s.invalidate(programID)
	return module, nil
}

func (s *ContentService) DeleteModule(programID, moduleID uint) error {
	if err := s.Repo.DeleteModule(programID, moduleID); err != nil {
		return err
	}
	s.invalidate(programID)
	return nil
}

type VideoReq struct {
	Title    string `json:"title" binding:"required"`
	URL      string `json:"url" binding:"required"`
	Duration int    `json:"duration"`
	Order    int    `json:"order"`
}

func (s *ContentService) AddVideo(programID, moduleID uint, req VideoReq) (*model.ModuleVideo, error) {
	if _, err := s.Repo.FindModule(programID, moduleID); err != nil {
		return nil, util.ErrUnknownModule
	}

	video := &model.ModuleVideo{
		ModuleID: moduleID,
		Title:    req.Title,
		URL:      req.URL,
		Duration: req.Duration,
		Order:    req.Order,
	}
	if err := s.Repo.CreateVideo(video); err != nil {
		return nil, err
	}

	s.invalidate(programID)
	return video, nil
}

func (s *ContentService) DeleteVideo(programID, moduleID, videoID uint) error {
	if _, err := s.Repo.FindModule(programID, moduleID); err != nil {
		return util.ErrUnknownModule
	}
	if err := s.Repo.DeleteVideo(moduleID, videoID); err != nil {
		return err
	}
	s.invalidate(programID)
	return nil
}
