package recommend

import (
	"context"
	"errors"
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-retail-bi/internal/product/entity"
)

const (
	// Candidates is how many similar products are ranked.
	Candidates = 10

	countWeight  = 0.6
	marginWeight = 0.4
)

// ErrUnavailable is returned when no similarity matrix is loaded.
var ErrUnavailable = errors.New("recommendations unavailable")

// CatalogSource lists products with prices and purchase counts.
type CatalogSource interface {
	Catalog(ctx context.Context) ([]entity.CatalogItem, error)
}

type Recommendation struct {
	ProductNo     string          `json:"productno"`
	Description   string          `json:"description"`
	Similarity    float64         `json:"similarity"`
	PurchaseCount int64           `json:"purchase_count"`
	SalesMargin   decimal.Decimal `json:"sales_margin"`
	Score         float64         `json:"score"`
}

type Recommender struct {
	neighbors Neighbors
	catalog   CatalogSource
	logger    *zap.SugaredLogger
}

// NewRecommender wires a similarity index to the catalog. A nil index leaves
// the recommender unavailable.
func NewRecommender(n Neighbors, catalog CatalogSource, logger *zap.SugaredLogger) *Recommender {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Recommender{neighbors: n, catalog: catalog, logger: logger}
}

// Recommend ranks the products most similar to productNo by
// 0.6 * normalised purchase count + 0.4 * normalised margin. An unknown
// product yields an empty result.
func (r *Recommender) Recommend(ctx context.Context, productNo string) ([]Recommendation, error) {
	if r.neighbors == nil {
		return nil, ErrUnavailable
	}
	near, ok := r.neighbors.Nearest(productNo)
	if !ok {
		r.logger.Debugw("product not in similarity index", "productno", productNo)
		return []Recommendation{}, nil
	}
	near = lo.Slice(near, 0, Candidates)

	items, err := r.catalog.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	byNo := lo.KeyBy(items, func(c entity.CatalogItem) string { return c.ProductNo })

	out := lo.FilterMap(near, func(n Neighbor, _ int) (Recommendation, bool) {
		item, ok := byNo[n.ProductNo]
		if !ok {
			return Recommendation{}, false
		}
		return Recommendation{
			ProductNo:     item.ProductNo,
			Description:   item.Description,
			Similarity:    n.Similarity,
			PurchaseCount: item.PurchaseCount,
			SalesMargin:   item.Margin(),
		}, true
	})
	Score(out)
	return out, nil
}

// Score fills in the blended score of each candidate and sorts them highest
// first. Equal scores keep their input order.
func Score(recs []Recommendation) {
	if len(recs) == 0 {
		return
	}
	counts := lo.Map(recs, func(r Recommendation, _ int) float64 { return float64(r.PurchaseCount) })
	margins := lo.Map(recs, func(r Recommendation, _ int) float64 { return r.SalesMargin.InexactFloat64() })
	normCounts, normMargins := normalize(counts), normalize(margins)
	for i := range recs {
		recs[i].Score = countWeight*normCounts[i] + marginWeight*normMargins[i]
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })
}

// normalize min-max scales values to [0, 1]; a zero range maps to 0.
func normalize(values []float64) []float64 {
	lowest, highest := lo.Min(values), lo.Max(values)
	span := highest - lowest
	return lo.Map(values, func(v float64, _ int) float64 {
		if span == 0 {
			return 0
		}
		return (v - lowest) / span
	})
}
