package report

import (
	"math"

	"github.com/Spok95/school-console/internal/models"
)

// AverageRank усредняет ординалы заданных рангов (A=0 … E=4) и округляет
// half away from zero: 0.5 → B, 1.5 → C. Пустые ранги пропускаются.
// Возвращает nil, если ни один ранг не задан, и число учтённых рангов.
func AverageRank(ranks []*models.Rank) (*models.Rank, int) {
	sum, n := 0, 0
	for _, r := range ranks {
		if r == nil || !r.Valid() {
			continue
		}
		sum += r.Ordinal()
		n++
	}
	if n == 0 {
		return nil, 0
	}
	avg, ok := models.RankFromOrdinal(int(math.Round(float64(sum) / float64(n))))
	if !ok {
		return nil, n
	}
	return &avg, n
}

// AverageScore: обычное среднее без округления; ok=false для пустого набора.
func AverageScore(scores []int) (avg float64, ok bool) {
	if len(scores) == 0 {
		return 0, false
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return float64(sum) / float64(len(scores)), true
}
