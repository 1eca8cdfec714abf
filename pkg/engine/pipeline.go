package engine

import (
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"reappt/pkg/identity"
	"reappt/pkg/schema"
	"reappt/pkg/trend"
)

// Config carries the knobs the pipeline stages need.
type Config struct {
	Years             schema.YearRange
	MinAppointments   int
	SignificanceLevel float64
	OutlierThreshold  float64
}

// Result bundles every dataset a run produces. Each field is built once
// by its stage and never touched again.
type Result struct {
	Records      []schema.AppointmentRecord `json:"-"`
	Totals       []OrgYearCount             `json:"totals"`
	Reapps       []OrgYearCount             `json:"reappointments"`
	Rates        []OrgYearRate              `json:"rates"`
	Extrema      []YearlyExtremum           `json:"extrema"`
	Proportions  []AnnualProportion         `json:"proportions"`
	Trend        *trend.Result              `json:"trend"`
	ResolveStats identity.ResolveStats      `json:"resolveStats"`
	RateStats    RateStats                  `json:"rateStats"`
}

// Pipeline runs the analysis stages over normalized records: identity
// resolution, then counting and annual proportions (independent consumers
// of the resolved records, run concurrently), then rates, yearly extrema,
// and the trend fit.
type Pipeline struct {
	cfg    Config
	logger *zap.Logger
}

// NewPipeline returns a Pipeline for the given configuration.
func NewPipeline(cfg Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{cfg: cfg, logger: logger}
}

// Run executes the full analysis. The only error it can return is the
// trend stage refusing a series shorter than three years; everything
// upstream degrades to diagnostics instead of failing.
func (p *Pipeline) Run(records []schema.AppointmentRecord) (*Result, error) {
	res := &Result{}

	resolver := identity.NewResolver(p.logger.Named("identity"))
	res.Records, res.ResolveStats = resolver.Resolve(records)

	// Counting and annual proportions both read only the resolved records
	// and write disjoint outputs.
	var g errgroup.Group
	g.Go(func() error {
		res.Totals = CountTotals(res.Records, p.cfg.Years)
		res.Reapps = CountReappointments(res.Records, p.cfg.Years)
		return nil
	})
	g.Go(func() error {
		res.Proportions = AnnualProportions(res.Records, p.cfg.Years)
		return nil
	})
	_ = g.Wait() // both stages are infallible

	res.Rates, res.RateStats = MergeRates(res.Totals, res.Reapps, p.logger.Named("rates"))
	res.Extrema = SelectYearlyMax(res.Rates, p.cfg.MinAppointments)

	points := make([]trend.Point, len(res.Proportions))
	for i, ap := range res.Proportions {
		points[i] = trend.Point{Year: ap.Year, Value: ap.Proportion}
	}
	fit, err := trend.Fit(points, trend.Options{
		SignificanceLevel: p.cfg.SignificanceLevel,
		OutlierThreshold:  p.cfg.OutlierThreshold,
	})
	if err != nil {
		p.logger.Error("trend estimation failed", zap.Error(err))
		return res, err
	}
	res.Trend = fit

	p.logger.Info("pipeline complete",
		zap.Int("records", len(res.Records)),
		zap.Int("rateRows", res.RateStats.Rows),
		zap.Int("extremaYears", len(res.Extrema)),
		zap.Int("trendYears", res.Trend.N))
	return res, nil
}
