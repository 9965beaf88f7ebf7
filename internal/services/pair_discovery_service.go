package services

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/irfndi/celebrum-pairs/internal/config"
	"github.com/irfndi/celebrum-pairs/internal/models"
	"github.com/irfndi/celebrum-pairs/internal/telemetry"
)

// PairDiscoveryService runs the correlation, cointegration and stationarity
// pipeline over a loaded price table.
type PairDiscoveryService struct {
	config config.PairsConfig
	logger *logrus.Logger
	now    func() time.Time
}

// NewPairDiscoveryService creates a discovery service. A nil logger falls
// back to a default logrus logger.
func NewPairDiscoveryService(cfg config.PairsConfig, logger *logrus.Logger) *PairDiscoveryService {
	if logger == nil {
		logger = logrus.New()
	}
	return &PairDiscoveryService{
		config: cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Config returns the configuration the service runs with.
func (s *PairDiscoveryService) Config() config.PairsConfig {
	return s.config
}

// Run analyses every symbol present in observations.
func (s *PairDiscoveryService) Run(ctx context.Context, observations []models.PriceObservation) (*models.DiscoveryReport, error) {
	return s.RunForSymbols(ctx, observations, nil)
}

// RunForSymbols analyses observations restricted to symbols. An empty
// symbols list keeps every symbol.
func (s *PairDiscoveryService) RunForSymbols(ctx context.Context, observations []models.PriceObservation, symbols []string) (report *models.DiscoveryReport, err error) {
	runID := uuid.New().String()
	startedAt := s.now()

	ctx, span := telemetry.StartSpan(ctx, "PairDiscovery.Run", attribute.String("run.id", runID))
	defer func() { telemetry.FinishSpan(span, err) }()

	if err := s.config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	spreadMethod, err := models.ParseSpreadMethod(s.config.SpreadMethod)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	corrMethod, err := models.ParseCorrelationMethod(s.config.CorrelationMethod)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if len(observations) == 0 {
		return nil, ErrEmptyPriceTable
	}
	observations = filterSymbols(observations, symbols)
	if len(observations) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoSymbols, symbols)
	}

	log := s.logger.WithField("run_id", runID)
	log.WithFields(logrus.Fields{
		"observations":       len(observations),
		"correlation_method": corrMethod,
		"spread_method":      spreadMethod,
	}).Info("Starting pair discovery")

	logPanel, err := PivotPrices(observations)
	if err != nil {
		return nil, err
	}
	rawPanel, err := PivotRawPrices(observations)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("symbols", len(logPanel.Symbols)))
	for _, symbol := range logPanel.Symbols {
		log.WithFields(logrus.Fields{
			"symbol":   symbol,
			"coverage": logPanel.Coverage(symbol),
		}).Debug("Symbol coverage")
	}

	matrix, err := s.correlate(ctx, logPanel, corrMethod)
	if err != nil {
		return nil, err
	}

	candidates := s.selectCandidates(ctx, matrix)
	log.WithField("candidates", len(candidates)).Info("Pair candidates selected")

	evaluations, err := s.evaluateCandidates(ctx, log, rawPanel, candidates, spreadMethod)
	if err != nil {
		return nil, err
	}

	cointResults := make([]models.CointegrationResult, len(evaluations))
	spreads := make(map[string]models.SpreadSeries, len(evaluations))
	for i, e := range evaluations {
		cointResults[i] = e.Cointegration
		spreads[e.Cointegration.Key()] = e.Spread
	}

	_, shortlistSpan := telemetry.StartSpan(ctx, "PairDiscovery.Shortlist")
	shortlist := ShortlistPairs(evaluations, s.config)
	shortlistSpan.SetAttributes(attribute.Int("shortlisted", len(shortlist)))
	telemetry.FinishSpan(shortlistSpan, nil)

	frames := s.buildFeatures(ctx, log, shortlist, spreads)

	span.SetAttributes(
		attribute.Int("candidates", len(candidates)),
		attribute.Int("shortlisted", len(shortlist)),
		attribute.Int("feature_frames", len(frames)),
	)

	duration := s.now().Sub(startedAt)
	log.WithFields(logrus.Fields{
		"candidates":     len(candidates),
		"shortlisted":    len(shortlist),
		"feature_frames": len(frames),
		"duration":       duration.String(),
	}).Info("Pair discovery completed")

	return &models.DiscoveryReport{
		RunID:              runID,
		StartedAt:          startedAt,
		Duration:           duration,
		Symbols:            logPanel.Symbols,
		Candidates:         candidates,
		CointegrationTests: cointResults,
		Shortlist:          shortlist,
		FeatureFrames:      frames,
		CorrelationMatrix:  matrix,
	}, nil
}

func (s *PairDiscoveryService) correlate(ctx context.Context, panel *models.PricePanel, method models.CorrelationMethod) (*models.CorrelationMatrix, error) {
	_, span := telemetry.StartSpan(ctx, "PairDiscovery.CorrelationMatrix", attribute.String("method", string(method)))
	matrix, err := BuildCorrelationMatrix(panel, method)
	telemetry.FinishSpan(span, err)
	return matrix, err
}

func (s *PairDiscoveryService) selectCandidates(ctx context.Context, matrix *models.CorrelationMatrix) []models.PairCandidate {
	_, span := telemetry.StartSpan(ctx, "PairDiscovery.SelectCandidates",
		attribute.Float64("threshold", s.config.CorrelationThreshold))
	candidates := SelectPairCandidates(matrix, s.config.CorrelationThreshold)
	span.SetAttributes(attribute.Int("candidates", len(candidates)))
	telemetry.FinishSpan(span, nil)
	return candidates
}

// evaluateCandidates tests every candidate on a bounded worker pool. Each
// worker writes only its own slot, so output order matches candidate order.
func (s *PairDiscoveryService) evaluateCandidates(ctx context.Context, log *logrus.Entry, panel *models.PricePanel, candidates []models.PairCandidate, method models.SpreadMethod) (_ []PairEvaluation, err error) {
	ctx, span := telemetry.StartSpan(ctx, "PairDiscovery.Cointegration", attribute.Int("candidates", len(candidates)))
	defer func() { telemetry.FinishSpan(span, err) }()

	evaluations := make([]PairEvaluation, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())
	for i, candidate := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			evaluations[i] = s.evaluate(panel, candidate, method)
			s.logProgress(log, evaluations[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return evaluations, nil
}

// evaluate runs the per-candidate stages. The spread and stationarity stages
// only run for cointegrated candidates.
func (s *PairDiscoveryService) evaluate(panel *models.PricePanel, candidate models.PairCandidate, method models.SpreadMethod) PairEvaluation {
	if s.config.UseCorrelationPrefilter && math.Abs(candidate.Correlation) < s.config.MinCorrelationForCointegration {
		return PairEvaluation{Cointegration: failedCointegration(candidate, models.ErrMsgBelowPrefilter, 0)}
	}

	s1 := panel.Series(candidate.Symbol1)
	s2 := panel.Series(candidate.Symbol2)

	eval := PairEvaluation{
		Cointegration: TestCointegration(candidate, s1, s2, s.config.MinDataPoints, s.config.CointegrationPValueThreshold),
	}
	if !eval.Cointegration.IsCointegrated {
		return eval
	}

	timestamps, p1, p2 := AlignSeries(s1, s2)
	eval.Spread = CalculateSpread(candidate.Symbol1, candidate.Symbol2, timestamps, p1, p2, method)
	if eval.Spread.IsEmpty() {
		return eval
	}
	stationarity := ValidateStationarity(eval.Spread, s.config.StationarityPValueThreshold)
	eval.Stationarity = &stationarity
	eval.SpreadStats = CalculateSpreadStats(p1, p2, eval.Spread)
	return eval
}

func (s *PairDiscoveryService) buildFeatures(ctx context.Context, log *logrus.Entry, shortlist []models.ShortlistedPair, spreads map[string]models.SpreadSeries) []models.TrainingFeatureFrame {
	_, span := telemetry.StartSpan(ctx, "PairDiscovery.TrainingFeatures")
	defer telemetry.FinishSpan(span, nil)

	frames := make([]models.TrainingFeatureFrame, 0, len(shortlist))
	for _, pair := range shortlist {
		frame, ok := BuildTrainingFeatures(pair, spreads[pair.Key()], s.config.MinDataPoints)
		if !ok {
			log.WithField("pair", pair.Key()).Debug("Discarded feature frame below minimum rows")
			continue
		}
		frames = append(frames, *frame)
	}
	span.SetAttributes(attribute.Int("feature_frames", len(frames)))
	return frames
}

func (s *PairDiscoveryService) logProgress(log *logrus.Entry, e PairEvaluation) {
	level := logrus.DebugLevel
	if s.config.Verbose {
		level = logrus.InfoLevel
	}
	c := e.Cointegration
	fields := logrus.Fields{
		"pair":            c.Key(),
		"correlation":     c.Correlation,
		"data_points":     c.DataPoints,
		"is_cointegrated": c.IsCointegrated,
	}
	if c.PValue != nil {
		fields["p_value"] = *c.PValue
	}
	if c.Error != nil {
		fields["error"] = *c.Error
	}
	if e.Stationarity != nil {
		fields["is_stationary"] = e.Stationarity.IsStationary
	}
	log.WithFields(fields).Log(level, "Tested pair")
}

func (s *PairDiscoveryService) workers() int {
	if s.config.Workers > 0 {
		return s.config.Workers
	}
	return runtime.NumCPU()
}

func filterSymbols(observations []models.PriceObservation, symbols []string) []models.PriceObservation {
	if len(symbols) == 0 {
		return observations
	}
	keep := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		keep[s] = struct{}{}
	}
	out := make([]models.PriceObservation, 0, len(observations))
	for _, o := range observations {
		if _, ok := keep[o.Symbol]; ok {
			out = append(out, o)
		}
	}
	return out
}
