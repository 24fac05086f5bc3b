package ml

import (
	"context"
	"log/slog"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/bibbank/loan-decision/internal/domain/model"
	"github.com/bibbank/loan-decision/internal/domain/port"
)

// CachingClassifier memoises Score results of another classifier. Labels
// are not cached.
type CachingClassifier struct {
	inner  port.Classifier
	cache  port.ScoreCache
	logger *slog.Logger
}

// NewCachingClassifier decorates inner with cache.
func NewCachingClassifier(inner port.Classifier, cache port.ScoreCache, logger *slog.Logger) *CachingClassifier {
	return &CachingClassifier{inner: inner, cache: cache, logger: logger}
}

// Name implements port.Classifier.
func (c *CachingClassifier) Name() string { return c.inner.Name() }

// Score returns the cached probability for identical features, otherwise
// asks the inner classifier and stores the answer. Cache write failures
// are logged and ignored.
func (c *CachingClassifier) Score(ctx context.Context, record model.DerivedRecord) (float64, error) {
	key := FeatureKey(c.inner.Name(), record.Features())
	if p, ok := c.cache.Get(ctx, key); ok {
		c.logger.DebugContext(ctx, "score cache hit", "key", key)
		return p, nil
	}

	p, err := c.inner.Score(ctx, record)
	if err != nil {
		return 0, err
	}
	if err := c.cache.Set(ctx, key, p); err != nil {
		c.logger.WarnContext(ctx, "failed to store score", "key", key, "error", err)
	}
	return p, nil
}

// Predict implements port.LabelPredictor.
func (c *CachingClassifier) Predict(ctx context.Context, record model.ApplicantRecord) (int, error) {
	return c.inner.Predict(ctx, record)
}

// FeatureKey fingerprints a feature vector for a given model. Map order
// does not affect the key.
func FeatureKey(modelName string, f model.Features) string {
	d := xxhash.New()
	_, _ = d.WriteString(modelName)

	numeric := make([]string, 0, len(f.Numeric))
	for k := range f.Numeric {
		numeric = append(numeric, k)
	}
	sort.Strings(numeric)
	for _, k := range numeric {
		_, _ = d.WriteString("\x00" + k + "=" + strconv.FormatFloat(f.Numeric[k], 'g', -1, 64))
	}

	categorical := make([]string, 0, len(f.Categorical))
	for k := range f.Categorical {
		categorical = append(categorical, k)
	}
	sort.Strings(categorical)
	for _, k := range categorical {
		_, _ = d.WriteString("\x00" + k + "=" + f.Categorical[k])
	}

	return "score:" + modelName + ":" + strconv.FormatUint(d.Sum64(), 16)
}
