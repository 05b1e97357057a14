package enroll

import (
	"context"

	"go.uber.org/zap"

	"github.com/Spok95/school-console/internal/logging"
	"github.com/Spok95/school-console/internal/models"
)

// SetFormationRank ставит ранг на связь студента с формацией; nil снимает ранг.
func (s *Service) SetFormationRank(ctx context.Context, linkID int64, rank *models.Rank) error {
	if err := s.store.UpdateFormationLink(ctx, linkID, rankPatch(rank)); err != nil {
		return err
	}
	logging.With(ctx, s.log).Info("formation rank set", zap.Int64("link_id", linkID), zap.String("rank", models.RankString(rank)))
	return nil
}

func (s *Service) SetClassRank(ctx context.Context, linkID int64, rank *models.Rank) error {
	if err := s.store.UpdateClassLink(ctx, linkID, rankPatch(rank)); err != nil {
		return err
	}
	logging.With(ctx, s.log).Info("class rank set", zap.Int64("link_id", linkID), zap.String("rank", models.RankString(rank)))
	return nil
}

// SetScore ограничен max_score активности; nil снимает оценку.
func (s *Service) SetScore(ctx context.Context, linkID int64, score *int) error {
	p := models.ScorePatch{Score: score, Clear: score == nil}
	if err := s.store.UpdateActivityLink(ctx, linkID, p); err != nil {
		return err
	}
	logging.With(ctx, s.log).Info("score set", zap.Int64("link_id", linkID), zap.Bool("cleared", score == nil))
	return nil
}

func rankPatch(r *models.Rank) models.RankPatch {
	return models.RankPatch{Rank: r, Clear: r == nil}
}
