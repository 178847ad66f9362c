package devapi

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"

	"github.com/YoanAncelly/gtfs-viewer/internal/common"
	"github.com/YoanAncelly/gtfs-viewer/internal/feed"
	"github.com/YoanAncelly/gtfs-viewer/internal/logger"
	"github.com/YoanAncelly/gtfs-viewer/internal/model"
)

var feedFiles = map[model.FeedType]string{
	model.FeedTripUpdate:      "TripUpdate.pb",
	model.FeedVehiclePosition: "VehiclePosition.pb",
	model.FeedAlert:           "Alert.pb",
}

// FeedStore keeps the last downloaded copy of each feed in the data
// directory and decodes it on demand.
type FeedStore struct {
	dir        string
	fetcher    *feed.Fetcher
	normalizer *feed.Normalizer
	log        logger.Logger

	mu     sync.RWMutex
	delays []float64
}

func NewFeedStore(dir string, fetcher *feed.Fetcher, normalizer *feed.Normalizer, log logger.Logger) *FeedStore {
	return &FeedStore{
		dir:        dir,
		fetcher:    fetcher,
		normalizer: normalizer,
		log:        log,
	}
}

func (store *FeedStore) Path(feedType model.FeedType) string {
	return filepath.Join(store.dir, feedFiles[feedType])
}

// Check requests url without keeping the body.
func (store *FeedStore) Check(ctx context.Context, url string) model.FeedTestResult {
	_, status, err := store.fetcher.Download(ctx, url)
	return testResult(status, err)
}

// Download replaces the stored copy of a feed with the body of url. The
// previous copy survives a failed download.
func (store *FeedStore) Download(ctx context.Context, feedType model.FeedType, url string) model.FeedTestResult {
	body, status, err := store.fetcher.Download(ctx, url)
	if err == nil {
		err = store.write(feedType, body)
	}
	if err != nil {
		store.log.Warnf("Error downloading GTFS-RT from %s: %v", url, err)
	}
	return testResult(status, err)
}

func testResult(status int, err error) model.FeedTestResult {
	var statusErr *feed.StatusError
	switch {
	case err == nil:
		return model.FeedTestResult{Success: true, StatusCode: status}
	case errors.As(err, &statusErr):
		return model.FeedTestResult{Success: false, StatusCode: statusErr.StatusCode}
	default:
		return model.FeedTestResult{Success: false, StatusCode: status, Error: err.Error()}
	}
}

func (store *FeedStore) write(feedType model.FeedType, body []byte) error {
	if err := os.MkdirAll(store.dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(store.dir, feedFiles[feedType]+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), store.Path(feedType))
}

// Refresh downloads every URL of a remote source. Local sources and empty
// URLs are skipped, so the result only names the feeds that were attempted.
func (store *FeedStore) Refresh(ctx context.Context, source model.Source) map[model.FeedType]model.FeedTestResult {
	results := map[model.FeedType]model.FeedTestResult{}
	if source.UseLocalFiles {
		return results
	}

	urls := source.URLs().Trimmed()
	for _, feedType := range model.FeedTypes {
		if url := urls.Get(feedType); url != "" {
			results[feedType] = store.Download(ctx, feedType, url)
		}
	}
	return results
}

// Load returns the feed for source, downloading it first when the source is
// remote. A feed that was never stored is nil without an error.
func (store *FeedStore) Load(ctx context.Context, source model.Source, feedType model.FeedType) (*gtfs.FeedMessage, error) {
	if !source.UseLocalFiles {
		if url := source.URLs().Trimmed().Get(feedType); url != "" {
			store.Download(ctx, feedType, url)
		}
	}

	message, err := feed.ReadFile(store.Path(feedType))
	if errors.Is(err, fs.ErrNotExist) {
		store.log.Warnf("GTFS-RT file not found: %s", store.Path(feedType))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", feedType.DisplayName(), err)
	}
	return message, nil
}

func (store *FeedStore) AllData(ctx context.Context, source model.Source) (model.AllData, error) {
	benchmarker := common.NewBenchmarker(store.log, "all-data")
	defer benchmarker.Close()

	messages := map[model.FeedType]*gtfs.FeedMessage{}
	for _, feedType := range model.FeedTypes {
		message, err := common.RuntimeBenchmark(store.log, "load "+feedType.DisplayName(), func() (*gtfs.FeedMessage, error) {
			return store.Load(ctx, source, feedType)
		})
		if err != nil {
			return model.AllData{}, err
		}
		messages[feedType] = message
	}

	data := model.AllData{
		TripUpdates:      store.normalizer.TripUpdateSnapshot(messages[model.FeedTripUpdate]),
		VehiclePositions: store.normalizer.VehiclePositionSnapshot(messages[model.FeedVehiclePosition]),
		Alerts:           store.normalizer.AlertSnapshot(messages[model.FeedAlert]),
	}

	delays := make([]float64, 0, len(data.TripUpdates.Data))
	for _, record := range data.TripUpdates.Data {
		delays = append(delays, record.DelayMinutes)
	}
	store.mu.Lock()
	store.delays = delays
	store.mu.Unlock()

	return data, nil
}

// Delays returns the delays in minutes of the last AllData call.
func (store *FeedStore) Delays() []float64 {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.delays
}
