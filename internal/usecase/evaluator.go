package usecase

import (
	"context"
	"errors"
	"fmt"
	"html"
	"sync"
	"time"

	"github.com/NasaVasa/coinwatch/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrCycleInProgress = errors.New("alert cycle already in progress")

type Notifier interface {
	Notify(ctx context.Context, telegramUserID int64, text string) error
}

type EvaluatorConfig struct {
	Interval     time.Duration
	VsCurrency   string
	FetchTimeout time.Duration
	WriteTimeout time.Duration
	Concurrency  int
}

func (c EvaluatorConfig) withDefaults() EvaluatorConfig {
	if c.Interval <= 0 {
		c.Interval = time.Minute
	}
	if c.VsCurrency == "" {
		c.VsCurrency = "usd"
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 15 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 5 * time.Second
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 1
	}
	return c
}

// CycleReport summarises the side effects of one evaluation pass.
type CycleReport struct {
	Alerts       int
	Tokens       int
	Skipped      int
	Crossings    int
	NotifyFailed int
	Updated      int
	UpdateFailed int
}

// AlertEvaluator periodically compares stored alerts against fresh prices and
// notifies owners whose threshold was crossed since the previous observation.
// At most one cycle runs at a time.
type AlertEvaluator struct {
	alerts   domain.AlertRepository
	prices   domain.PriceSource
	notifier Notifier
	cfg      EvaluatorConfig
	logger   *zap.Logger

	cycleMu sync.Mutex

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewAlertEvaluator(alerts domain.AlertRepository, prices domain.PriceSource, notifier Notifier, cfg EvaluatorConfig, logger *zap.Logger) *AlertEvaluator {
	return &AlertEvaluator{
		alerts:   alerts,
		prices:   prices,
		notifier: notifier,
		cfg:      cfg.withDefaults(),
		logger:   logger,
	}
}

func (e *AlertEvaluator) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.logger.Debug("alert evaluator already running")
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.done = make(chan struct{})

	e.logger.Info("alert evaluator started", zap.Duration("interval", e.cfg.Interval), zap.String("vs_currency", e.cfg.VsCurrency))
	go func(done chan struct{}) {
		defer close(done)
		e.loop(loopCtx)
	}(e.done)
}

func (e *AlertEvaluator) Stop() {
	e.mu.Lock()
	cancel, done := e.cancel, e.done
	e.cancel, e.done = nil, nil
	e.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	select {
	case <-done:
		e.logger.Info("alert evaluator stopped")
	case <-time.After(5 * time.Second):
		e.logger.Warn("timeout stopping alert evaluator")
	}
}

func (e *AlertEvaluator) loop(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := e.RunCycle(ctx); err != nil {
				if errors.Is(err, ErrCycleInProgress) {
					e.logger.Debug("alert cycle skipped", zap.Error(err))
					continue
				}
				e.logger.Error("alert cycle aborted", zap.Error(err))
			}
		}
	}
}

// RunCycle performs a single evaluation pass. A failed batch read of alerts or
// prices aborts the pass before any notification or write; per-alert notify
// and persist failures are logged and do not stop the remaining alerts.
func (e *AlertEvaluator) RunCycle(ctx context.Context) (CycleReport, error) {
	if !e.cycleMu.TryLock() {
		return CycleReport{}, ErrCycleInProgress
	}
	defer e.cycleMu.Unlock()

	start := time.Now()

	alerts, err := e.loadAlerts(ctx)
	if err != nil {
		return CycleReport{}, fmt.Errorf("load alerts: %w", err)
	}

	report := CycleReport{Alerts: len(alerts)}
	if len(alerts) == 0 {
		e.logger.Debug("alert cycle complete, no alerts")
		return report, nil
	}

	tokenIDs := lo.Uniq(lo.Map(alerts, func(alert domain.Alert, _ int) string { return alert.TokenID }))
	report.Tokens = len(tokenIDs)

	prices, err := e.fetchPrices(ctx, tokenIDs)
	if err != nil {
		return CycleReport{}, fmt.Errorf("fetch prices: %w", err)
	}

	outcomes := make([]alertOutcome, len(alerts))
	var group errgroup.Group
	group.SetLimit(e.cfg.Concurrency)
	for i := range alerts {
		price, ok := prices[alerts[i].TokenID]
		if !ok {
			outcomes[i] = alertOutcome{skipped: true}
			continue
		}
		group.Go(func() error {
			outcomes[i] = e.evaluate(ctx, alerts[i], price)
			return nil
		})
	}
	_ = group.Wait()

	for _, outcome := range outcomes {
		switch {
		case outcome.skipped:
			report.Skipped++
			continue
		case outcome.crossed:
			report.Crossings++
			if outcome.notifyErr != nil {
				report.NotifyFailed++
			}
		}
		if outcome.updateErr != nil {
			report.UpdateFailed++
		} else {
			report.Updated++
		}
	}

	e.logger.Info(
		"alert cycle complete",
		zap.Int("alerts", report.Alerts),
		zap.Int("tokens", report.Tokens),
		zap.Int("skipped", report.Skipped),
		zap.Int("crossings", report.Crossings),
		zap.Int("notify_failed", report.NotifyFailed),
		zap.Int("update_failed", report.UpdateFailed),
		zap.Duration("duration", time.Since(start)),
	)
	return report, nil
}

func (e *AlertEvaluator) loadAlerts(ctx context.Context) ([]domain.Alert, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	defer cancel()
	return e.alerts.ListAll(fetchCtx)
}

func (e *AlertEvaluator) fetchPrices(ctx context.Context, tokenIDs []string) (map[string]decimal.Decimal, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	defer cancel()
	return e.prices.Prices(fetchCtx, tokenIDs, e.cfg.VsCurrency)
}

type alertOutcome struct {
	skipped   bool
	crossed   bool
	notifyErr error
	updateErr error
}

func (e *AlertEvaluator) evaluate(ctx context.Context, alert domain.Alert, current decimal.Decimal) alertOutcome {
	var outcome alertOutcome

	previous := current
	if alert.LastPrice != nil {
		previous = *alert.LastPrice
	}

	if Crossed(previous, current, alert.Threshold) {
		outcome.crossed = true
		notifyCtx, cancel := context.WithTimeout(ctx, e.cfg.WriteTimeout)
		outcome.notifyErr = e.notifier.Notify(notifyCtx, alert.OwnerID, FormatCrossingMessage(alert.TokenID, alert.Threshold, current))
		cancel()
		if outcome.notifyErr != nil {
			e.logger.Warn("failed to send alert", zap.String("alert_id", alert.ID), zap.Int64("telegram_user_id", alert.OwnerID), zap.Error(outcome.notifyErr))
		} else {
			e.logger.Info(
				"alert triggered",
				zap.String("alert_id", alert.ID),
				zap.Int64("telegram_user_id", alert.OwnerID),
				zap.String("token_id", alert.TokenID),
				zap.String("threshold", alert.Threshold.String()),
				zap.String("price", current.String()),
			)
		}
	}

	observed := current
	alert.LastPrice = &observed

	updateCtx, cancel := context.WithTimeout(ctx, e.cfg.WriteTimeout)
	err := e.alerts.Update(updateCtx, alert)
	cancel()
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		// Deleted while the cycle was running.
		e.logger.Debug("alert vanished before update", zap.String("alert_id", alert.ID))
	default:
		outcome.updateErr = err
		e.logger.Warn("failed to persist last price", zap.String("alert_id", alert.ID), zap.Error(err))
	}

	return outcome
}

// Crossed reports whether threshold lies strictly between previous and current.
func Crossed(previous, current, threshold decimal.Decimal) bool {
	return (previous.LessThan(threshold) && current.GreaterThan(threshold)) ||
		(previous.GreaterThan(threshold) && current.LessThan(threshold))
}

func FormatCrossingMessage(tokenID string, threshold, current decimal.Decimal) string {
	return fmt.Sprintf(
		"<b>%s</b> price crossed your threshold!\nThreshold: <b>$%s</b>\nCurrent: <b>$%s</b>",
		html.EscapeString(tokenID),
		threshold.String(),
		current.String(),
	)
}
