package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

const DefaultFetchTimeout = 30 * time.Second

// StatusError reports a feed URL that answered with something other than 200.
type StatusError struct {
	URL        string
	StatusCode int
}

func (err *StatusError) Error() string {
	return fmt.Sprintf("%s answered %d %s", err.URL, err.StatusCode, http.StatusText(err.StatusCode))
}

func Decode(payload []byte) (*gtfs.FeedMessage, error) {
	feedMessage := &gtfs.FeedMessage{}
	if err := proto.Unmarshal(payload, feedMessage); err != nil {
		return nil, fmt.Errorf("decode feed message: %w", err)
	}
	return feedMessage, nil
}

// ReadFile decodes a .pb file. A missing file is reported with an error
// wrapping fs.ErrNotExist.
func ReadFile(path string) (*gtfs.FeedMessage, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(payload)
}

// Marshal renders a feed message as indented protobuf JSON.
func Marshal(message proto.Message) ([]byte, error) {
	options := protojson.MarshalOptions{Multiline: true, Indent: "  "}
	return options.Marshal(message)
}

type Fetcher struct {
	Client *http.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Fetcher{Client: &http.Client{Timeout: timeout}}
}

// Download returns the raw body of url. The status code is returned whenever
// the server answered, including along with a *StatusError.
func (fetcher *Fetcher) Download(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}

	resp, err := fetcher.Client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read %s: %w", url, err)
	}
	return body, resp.StatusCode, nil
}

// Sample downloads and decodes a single feed message.
func (fetcher *Fetcher) Sample(ctx context.Context, url string) (*gtfs.FeedMessage, error) {
	body, _, err := fetcher.Download(ctx, url)
	if err != nil {
		return nil, err
	}
	return Decode(body)
}
