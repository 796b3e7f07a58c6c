package labor

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/kiranshivaraju/shopfloor/internal/cache"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
)

const (
	SourceDefault = "default"
	SourceAI      = "ai"
	SourceCache   = "cache"
)

// maxHours caps AI suggestions; anything above is treated as a bad answer.
const maxHours = 200.0

// Suggester is the AI collaborator. It returns nil on any failure and must
// not block past ctx.
type Suggester interface {
	EstimateLaborHours(ctx context.Context, complaint string, jobType models.JobType) *float64
}

// Estimate is the hours chosen for a job and where they came from.
type Estimate struct {
	Hours  float64 `json:"hours"`
	Source string  `json:"source"`
}

// Estimator picks labor hours for jobs: an AI suggestion when one is
// available, otherwise ComputeDefaultHours.
type Estimator struct {
	suggester Suggester
	cache     cache.Cache
	cacheTTL  time.Duration
}

// NewEstimator creates an Estimator. suggester and c may be nil; without a
// suggester every estimate is the structural default.
func NewEstimator(suggester Suggester, c cache.Cache, cacheTTL time.Duration) *Estimator {
	return &Estimator{suggester: suggester, cache: c, cacheTTL: cacheTTL}
}

// Estimate returns hours for a job. It never fails.
func (e *Estimator) Estimate(ctx context.Context, complaint string, jobType models.JobType, in Input) Estimate {
	if e.suggester != nil && strings.TrimSpace(complaint) != "" {
		key := cache.LaborEstimateKey(inputHash(complaint, jobType))
		if h, ok := e.cached(ctx, key); ok {
			return Estimate{Hours: h, Source: SourceCache}
		}
		if h := e.suggester.EstimateLaborHours(ctx, complaint, jobType); h != nil && valid(*h) {
			e.store(ctx, key, *h)
			return Estimate{Hours: *h, Source: SourceAI}
		}
	}
	return Estimate{Hours: ComputeDefaultHours(in), Source: SourceDefault}
}

func (e *Estimator) cached(ctx context.Context, key string) (float64, bool) {
	if e.cache == nil {
		return 0, false
	}
	raw, found, err := e.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("labor estimate cache read failed", "error", err)
		return 0, false
	}
	if !found {
		return 0, false
	}
	var h float64
	if err := json.Unmarshal(raw, &h); err != nil || !valid(h) {
		return 0, false
	}
	return h, true
}

func (e *Estimator) store(ctx context.Context, key string, h float64) {
	if e.cache == nil || e.cacheTTL <= 0 {
		return
	}
	if err := e.cache.Set(ctx, key, []byte(strconv.FormatFloat(h, 'f', -1, 64)), e.cacheTTL); err != nil {
		slog.Warn("labor estimate cache write failed", "error", err)
	}
}

func valid(h float64) bool {
	return !math.IsNaN(h) && h >= 0 && h <= maxHours
}

func inputHash(complaint string, jobType models.JobType) string {
	norm := strings.ToLower(strings.Join(strings.Fields(complaint), " "))
	sum := sha256.Sum256([]byte(string(jobType) + "\x00" + norm))
	return fmt.Sprintf("%x", sum)
}
