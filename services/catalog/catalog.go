package catalog

import (
	"context"
	"fmt"
	"time"

	catalogRepo "homely/database/repository/catalog"
	"homely/models"
	"homely/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const nameCacheTTL = 10 * time.Minute

// DefaultCatalogService is the production CatalogService. Name lookups go
// through a Redis cache so repeated list enrichment does not hammer the
// users/services collections.
type DefaultCatalogService struct {
	Repo  catalogRepo.CatalogRepository
	Cache *redis.Client // optional
}

// ListServices returns the full service catalog.
func (s *DefaultCatalogService) ListServices() ([]models.Service, error) {
	return s.Repo.ListServices()
}

// GetService returns one catalog entry.
func (s *DefaultCatalogService) GetService(id string) (*models.Service, error) {
	return s.Repo.GetService(id)
}

// ProvidersForService returns providers offering the service, each with
// their review aggregate. Review lookup degrades per provider: a failed
// aggregate leaves the "New" badge rather than failing the listing.
func (s *DefaultCatalogService) ProvidersForService(serviceID string) ([]ProviderSummary, error) {
	providers, err := s.Repo.ListProvidersForService(serviceID)
	if err != nil {
		return nil, err
	}

	summaries := make([]ProviderSummary, 0, len(providers))
	for _, p := range providers {
		summary := ProviderSummary{Profile: p, RatingText: "New"}
		reviews, err := s.Repo.ListReviewsForProvider(p.ID)
		if err != nil {
			utils.GetLogger().Warn("review aggregate unavailable",
				zap.String("providerId", p.ID), zap.Error(err))
		} else if len(reviews) > 0 {
			total := 0
			for _, r := range reviews {
				total += r.Rating
			}
			summary.AverageRating = float64(total) / float64(len(reviews))
			summary.RatingText = fmt.Sprintf("%.1f (%d)", summary.AverageRating, len(reviews))
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// ProfileNames resolves display names for user ids.
func (s *DefaultCatalogService) ProfileNames(ids []string) map[string]string {
	return s.cachedNames("name:user:", ids, s.Repo.GetProfileNames)
}

// ServiceNames resolves catalog names for service ids.
func (s *DefaultCatalogService) ServiceNames(ids []string) map[string]string {
	return s.cachedNames("name:service:", ids, s.Repo.GetServiceNames)
}

// cachedNames serves as many names as possible from Redis, batch-fetches the
// misses from Mongo in one query, and backfills the cache. Every failure
// path degrades to a smaller map; enrichment callers fill placeholders.
func (s *DefaultCatalogService) cachedNames(prefix string, ids []string, fetch func([]string) (map[string]string, error)) map[string]string {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names
	}

	missing := ids
	if s.Cache != nil {
		missing = missing[:0:0]
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		keys := make([]string, len(ids))
		for i, id := range ids {
			keys[i] = prefix + id
		}
		cached, err := s.Cache.MGet(ctx, keys...).Result()
		if err != nil {
			utils.GetLogger().Debug("name cache read failed", zap.Error(err))
			missing = ids
		} else {
			for i, v := range cached {
				if str, ok := v.(string); ok && str != "" {
					names[ids[i]] = str
				} else {
					missing = append(missing, ids[i])
				}
			}
		}
	}

	if len(missing) == 0 {
		return names
	}
	fetched, err := fetch(missing)
	if err != nil {
		utils.GetLogger().Warn("name lookup degraded", zap.Int("ids", len(missing)), zap.Error(err))
		return names
	}
	for id, name := range fetched {
		names[id] = name
		if s.Cache != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			s.Cache.Set(ctx, prefix+id, name, nameCacheTTL)
			cancel()
		}
	}
	return names
}
