package mysql

import (
	"context"

	"github.com/wyfcoding/deliveryhub/internal/delivery/domain"
	"gorm.io/gorm"
)

type candidateRepository struct{ db *gorm.DB }

// NewCandidateRepository 创建候选刊登 MySQL 仓储
func NewCandidateRepository(db *gorm.DB) domain.CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) ListActive(ctx context.Context) ([]domain.Candidate, error) {
	var candidates []domain.Candidate
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("id").Find(&candidates).Error
	return candidates, err
}

func (r *candidateRepository) Save(ctx context.Context, candidate *domain.Candidate) error {
	return r.db.WithContext(ctx).Save(candidate).Error
}
