package refresh

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/YoanAncelly/gtfs-viewer/internal/api"
	"github.com/YoanAncelly/gtfs-viewer/internal/common"
	"github.com/YoanAncelly/gtfs-viewer/internal/logger"
	"github.com/YoanAncelly/gtfs-viewer/internal/model"
	"github.com/YoanAncelly/gtfs-viewer/internal/store"
	"github.com/YoanAncelly/gtfs-viewer/internal/views"
)

const DefaultInterval = 30 * time.Second

var (
	ErrRefreshInProgress = errors.New("a manual refresh is already in progress")
	ErrSourceNotFound    = errors.New("source not found")
)

// Backend is the subset of the REST API the dashboard drives.
type Backend interface {
	GetConfig(ctx context.Context) (model.SourceConfig, error)
	GetAllData(ctx context.Context) (model.AllData, error)
	RefreshData(ctx context.Context) (model.TestResults, error)
	TestSourceURLs(ctx context.Context, urls model.SourceURLs) (model.TestResults, error)
	AddSource(ctx context.Context, source model.Source) error
	UpdateSource(ctx context.Context, index int, source model.Source) error
	RemoveSource(ctx context.Context, index int) error
	SetCurrentSource(ctx context.Context, index int) error
}

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseRefreshing Phase = "refreshing"
)

type Trigger string

const (
	TriggerStart  Trigger = "start"
	TriggerTimer  Trigger = "timer"
	TriggerManual Trigger = "manual"
)

type Options struct {
	Interval   time.Duration
	Translator *views.Translator
	Metrics    *common.Metrics
	Logger     logger.Logger
}

// Orchestrator owns every change to the store: timed and manual data loads,
// filter changes and source actions.
//
// Timer cycles never overlap each other and manual refreshes never overlap
// each other, so at most two loads are in flight. Responses are applied in
// request order by the store's sequence numbers.
type Orchestrator struct {
	backend    Backend
	store      *store.Store
	notifier   *Notifier
	translator *views.Translator
	metrics    *common.Metrics
	log        logger.Logger
	interval   time.Duration

	scheduler *cron.Cron
	manual    atomic.Bool
	inFlight  atomic.Int32
	wg        sync.WaitGroup
}

func NewOrchestrator(backend Backend, state *store.Store, notifier *Notifier, options Options) *Orchestrator {
	if options.Interval <= 0 {
		options.Interval = DefaultInterval
	}
	if options.Translator == nil {
		options.Translator = views.NewTranslator()
	}
	if options.Logger == nil {
		options.Logger = logger.Default
	}

	return &Orchestrator{
		backend:    backend,
		store:      state,
		notifier:   notifier,
		translator: options.Translator,
		metrics:    options.Metrics,
		log:        options.Logger,
		interval:   options.Interval,
	}
}

func (orchestrator *Orchestrator) Phase() Phase {
	if orchestrator.inFlight.Load() > 0 {
		return PhaseRefreshing
	}
	return PhaseIdle
}

func (orchestrator *Orchestrator) ManualRefreshRunning() bool {
	return orchestrator.manual.Load()
}

func (orchestrator *Orchestrator) Store() *store.Store {
	return orchestrator.store
}

func (orchestrator *Orchestrator) Notifier() *Notifier {
	return orchestrator.notifier
}

func (orchestrator *Orchestrator) Translator() *views.Translator {
	return orchestrator.translator
}

// Start performs the initial configuration and data load, then schedules a
// timed load every interval until ctx is done or Stop is called.
func (orchestrator *Orchestrator) Start(ctx context.Context) error {
	if err := orchestrator.ReloadConfig(ctx); err != nil {
		orchestrator.log.Warnf("Cannot load configuration: %v", err)
	}
	orchestrator.load(ctx, TriggerStart)

	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{orchestrator.log})))
	_, err := scheduler.AddFunc(fmt.Sprintf("@every %s", orchestrator.interval), func() {
		orchestrator.load(ctx, TriggerTimer)
	})
	if err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}

	orchestrator.scheduler = scheduler
	scheduler.Start()
	orchestrator.log.Logf("Refreshing data every %s", orchestrator.interval)
	return nil
}

// Stop halts the timer and waits for running loads to finish.
func (orchestrator *Orchestrator) Stop() {
	if orchestrator.scheduler != nil {
		<-orchestrator.scheduler.Stop().Done()
	}
	orchestrator.wg.Wait()
}

// ManualRefresh asks the backend to re-download the feeds, then loads the new
// data. A second call while one is running fails with ErrRefreshInProgress.
func (orchestrator *Orchestrator) ManualRefresh(ctx context.Context) error {
	if !orchestrator.manual.CompareAndSwap(false, true) {
		orchestrator.notifier.Notify(LevelInfo, orchestrator.translator.Text(views.MsgRefreshInProgress))
		return ErrRefreshInProgress
	}
	defer orchestrator.manual.Store(false)

	if _, err := orchestrator.backend.RefreshData(ctx); err != nil {
		orchestrator.notifyFailure(views.MsgRefreshFailed, err)
		orchestrator.countCycle(TriggerManual, "failure")
		return err
	}

	if err := orchestrator.load(ctx, TriggerManual); err != nil {
		return err
	}

	orchestrator.notifier.Notify(LevelSuccess, orchestrator.translator.Text(views.MsgRefreshed))
	return nil
}

// load fetches all data and replaces the snapshot. On failure the previous
// snapshot stays in place.
func (orchestrator *Orchestrator) load(ctx context.Context, trigger Trigger) error {
	orchestrator.wg.Add(1)
	orchestrator.inFlight.Add(1)
	defer func() {
		orchestrator.inFlight.Add(-1)
		orchestrator.wg.Done()
	}()

	benchmarker := common.NewBenchmarker(orchestrator.log, "refresh-"+string(trigger))
	defer benchmarker.Close()

	sequence := orchestrator.store.NextSequence()
	data, err := orchestrator.backend.GetAllData(ctx)
	orchestrator.observeDuration(trigger, benchmarker.Elapsed())

	if err != nil {
		orchestrator.log.Errorf("Refresh #%d (%s) failed: %v", sequence, trigger, err)
		orchestrator.notifyFailure(views.MsgLoadFailed, err)
		orchestrator.countCycle(trigger, "failure")
		return err
	}

	if !orchestrator.store.ApplyData(sequence, data, time.Now()) {
		orchestrator.log.Debugf("Refresh #%d (%s) superseded by a newer response", sequence, trigger)
		if orchestrator.metrics != nil {
			orchestrator.metrics.StaleSnapshotsTotal.Inc()
		}
		orchestrator.countCycle(trigger, "stale")
		return nil
	}

	orchestrator.log.Logf(
		"Refresh #%d (%s): %d trip updates, %d vehicles, %d alerts",
		sequence, trigger,
		len(data.TripUpdates.Data), len(data.VehiclePositions.Data), len(data.Alerts.Data),
	)
	orchestrator.recordSnapshot(data)
	orchestrator.countCycle(trigger, "success")
	return nil
}

func (orchestrator *Orchestrator) ReloadConfig(ctx context.Context) error {
	sequence := orchestrator.store.NextSequence()
	config, err := orchestrator.backend.GetConfig(ctx)
	if err != nil {
		orchestrator.notifyFailure(views.MsgConfigLoadFailed, err)
		return err
	}
	orchestrator.store.ApplyConfig(sequence, config)
	return nil
}

func (orchestrator *Orchestrator) SetFilters(selection model.FilterSelection) store.State {
	return orchestrator.store.SetFilters(selection)
}

func (orchestrator *Orchestrator) TestSource(ctx context.Context, urls model.SourceURLs) (model.TestResults, error) {
	results, err := orchestrator.backend.TestSourceURLs(ctx, urls)
	if err != nil {
		orchestrator.notifyFailure(views.MsgTestFailedAll, err)
		return model.TestResults{}, err
	}
	return results, nil
}

func (orchestrator *Orchestrator) AddSource(ctx context.Context, source model.Source) error {
	err := orchestrator.backend.AddSource(ctx, source)
	return orchestrator.finishAction(ctx, err, views.MsgSourceAdded, views.MsgSourceAddFailed)
}

func (orchestrator *Orchestrator) UpdateSource(ctx context.Context, id string, source model.Source) error {
	entry, err := orchestrator.resolve(ctx, id)
	if err != nil {
		return err
	}
	err = orchestrator.backend.UpdateSource(ctx, entry.Index, source)
	return orchestrator.finishAction(ctx, err, views.MsgSourceUpdated, views.MsgSourceUpdateFail)
}

func (orchestrator *Orchestrator) RemoveSource(ctx context.Context, id string) error {
	entry, err := orchestrator.resolve(ctx, id)
	if err != nil {
		return err
	}
	err = orchestrator.backend.RemoveSource(ctx, entry.Index)
	return orchestrator.finishAction(ctx, err, views.MsgSourceRemoved, views.MsgSourceRemoveFail)
}

func (orchestrator *Orchestrator) ActivateSource(ctx context.Context, id string) error {
	entry, err := orchestrator.resolve(ctx, id)
	if err != nil {
		return err
	}
	err = orchestrator.backend.SetCurrentSource(ctx, entry.Index)
	return orchestrator.finishAction(ctx, err, views.MsgSourceActivated, views.MsgSourceActivateErr)
}

// resolve maps a source ID to its position in a freshly fetched config, so
// an action never lands on a source that moved since the page was rendered.
func (orchestrator *Orchestrator) resolve(ctx context.Context, id string) (model.SourceEntry, error) {
	sequence := orchestrator.store.NextSequence()
	config, err := orchestrator.backend.GetConfig(ctx)
	if err != nil {
		orchestrator.notifyFailure(views.MsgConfigLoadFailed, err)
		return model.SourceEntry{}, err
	}
	orchestrator.store.ApplyConfig(sequence, config)

	entry, ok := config.Resolve(id)
	if !ok {
		orchestrator.notifier.Notify(LevelWarning, orchestrator.translator.Text(views.MsgSourceNotFound))
		return model.SourceEntry{}, fmt.Errorf("%w: %s", ErrSourceNotFound, id)
	}
	return entry, nil
}

func (orchestrator *Orchestrator) finishAction(ctx context.Context, err error, successKey, failureKey string) error {
	if err != nil {
		orchestrator.notifyFailure(failureKey, err)
		return err
	}
	orchestrator.notifier.Notify(LevelSuccess, orchestrator.translator.Text(successKey))
	if err := orchestrator.ReloadConfig(ctx); err != nil {
		orchestrator.log.Warnf("Cannot reload configuration: %v", err)
	}
	return nil
}

func (orchestrator *Orchestrator) notifyFailure(key string, err error) {
	level, message := LevelDanger, err.Error()
	if failure, ok := api.AsFailure(err); ok {
		level, message = Level(failure.Severity()), failure.Message
	}
	orchestrator.notifier.Notify(level, orchestrator.translator.Text(key, message))
}

func (orchestrator *Orchestrator) countCycle(trigger Trigger, outcome string) {
	if orchestrator.metrics != nil {
		orchestrator.metrics.RefreshCyclesTotal.WithLabelValues(string(trigger), outcome).Inc()
	}
}

func (orchestrator *Orchestrator) observeDuration(trigger Trigger, elapsed time.Duration) {
	if orchestrator.metrics != nil {
		orchestrator.metrics.RefreshDurationSeconds.WithLabelValues(string(trigger)).Observe(elapsed.Seconds())
	}
}

func (orchestrator *Orchestrator) recordSnapshot(data model.AllData) {
	if orchestrator.metrics == nil {
		return
	}
	orchestrator.metrics.SnapshotRecords.WithLabelValues(string(model.FeedTripUpdate)).Set(float64(len(data.TripUpdates.Data)))
	orchestrator.metrics.SnapshotRecords.WithLabelValues(string(model.FeedVehiclePosition)).Set(float64(len(data.VehiclePositions.Data)))
	orchestrator.metrics.SnapshotRecords.WithLabelValues(string(model.FeedAlert)).Set(float64(len(data.Alerts.Data)))
}

// cronLogger routes the scheduler's own messages through our logger.
type cronLogger struct {
	log logger.Logger
}

func (adapter cronLogger) Info(msg string, keysAndValues ...any) {
	adapter.log.Debugf("cron: %s %s", msg, formatKeysAndValues(keysAndValues))
}

func (adapter cronLogger) Error(err error, msg string, keysAndValues ...any) {
	adapter.log.Errorf("cron: %s: %v %s", msg, err, formatKeysAndValues(keysAndValues))
}

func formatKeysAndValues(keysAndValues []any) string {
	pairs := make([]string, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		pairs = append(pairs, fmt.Sprintf("%v=%v", keysAndValues[i], keysAndValues[i+1]))
	}
	return strings.Join(pairs, " ")
}
