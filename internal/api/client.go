package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/YoanAncelly/gtfs-viewer/internal/common"
	"github.com/YoanAncelly/gtfs-viewer/internal/logger"
	"github.com/YoanAncelly/gtfs-viewer/internal/model"
)

const (
	EndpointConfig           = "/api/config"
	EndpointAddSource        = "/api/config/add-source"
	EndpointUpdateSource     = "/api/config/update-source"
	EndpointRemoveSource     = "/api/config/remove-source"
	EndpointSetCurrentSource = "/api/config/set-current-source"
	EndpointTestSource       = "/api/config/test-source"
	EndpointAllData          = "/api/all-data"
	EndpointRefreshData      = "/api/refresh-data"
)

const DefaultTimeout = 15 * time.Second

// Client talks to the backend REST API. Every method returns either a value
// or a *Failure.
type Client struct {
	baseURL string
	http    *http.Client
	metrics *common.Metrics
	log     logger.Logger
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) {
		client.http = httpClient
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(client *Client) {
		client.http.Timeout = timeout
	}
}

func WithMetrics(metrics *common.Metrics) Option {
	return func(client *Client) {
		client.metrics = metrics
	}
}

func WithLogger(log logger.Logger) Option {
	return func(client *Client) {
		client.log = log
	}
}

func NewClient(baseURL string, options ...Option) *Client {
	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		log:     logger.Default,
	}
	for _, option := range options {
		option(client)
	}
	return client
}

func (client *Client) BaseURL() string {
	return client.baseURL
}

// ChartURL builds the cache-busted URL of a chart image served by the backend.
func (client *Client) ChartURL(chart string, now time.Time) string {
	return fmt.Sprintf("%s/static/charts/%s?t=%d", client.baseURL, chart, now.UnixMilli())
}

type indexRequest struct {
	Index int `json:"index"`
}

type updateRequest struct {
	Index  int          `json:"index"`
	Source model.Source `json:"source"`
}

func (client *Client) GetConfig(ctx context.Context) (model.SourceConfig, error) {
	var config model.SourceConfig
	if err := client.do(ctx, http.MethodGet, EndpointConfig, nil, &config); err != nil {
		return model.SourceConfig{}, err
	}
	return config, nil
}

func (client *Client) GetAllData(ctx context.Context) (model.AllData, error) {
	var data model.AllData
	if err := client.do(ctx, http.MethodGet, EndpointAllData, nil, &data); err != nil {
		return model.AllData{}, err
	}
	return data, nil
}

// RefreshData asks the backend to re-download the current source's feeds.
func (client *Client) RefreshData(ctx context.Context) (model.TestResults, error) {
	var results model.TestResults
	if err := client.do(ctx, http.MethodPost, EndpointRefreshData, nil, &results); err != nil {
		return model.TestResults{}, err
	}
	if !results.Success {
		return results, client.serverFailure(EndpointRefreshData, results.Error)
	}
	return results, nil
}

func (client *Client) TestSourceURLs(ctx context.Context, urls model.SourceURLs) (model.TestResults, error) {
	if err := ValidateURLs(urls); err != nil {
		return model.TestResults{}, client.rejected(EndpointTestSource, err)
	}

	var results model.TestResults
	if err := client.do(ctx, http.MethodPost, EndpointTestSource, urls.Trimmed(), &results); err != nil {
		return model.TestResults{}, err
	}
	if !results.Success {
		return results, client.serverFailure(EndpointTestSource, results.Error)
	}
	return results, nil
}

func (client *Client) AddSource(ctx context.Context, source model.Source) error {
	if err := ValidateSource(source); err != nil {
		return client.rejected(EndpointAddSource, err)
	}
	return client.command(ctx, EndpointAddSource, source.Normalized())
}

func (client *Client) UpdateSource(ctx context.Context, index int, source model.Source) error {
	if index < 0 {
		return client.rejected(EndpointUpdateSource, validationFailure("invalid source index"))
	}
	if err := ValidateSource(source); err != nil {
		return client.rejected(EndpointUpdateSource, err)
	}
	return client.command(ctx, EndpointUpdateSource, updateRequest{Index: index, Source: source.Normalized()})
}

func (client *Client) RemoveSource(ctx context.Context, index int) error {
	if index < 0 {
		return client.rejected(EndpointRemoveSource, validationFailure("invalid source index"))
	}
	return client.command(ctx, EndpointRemoveSource, indexRequest{Index: index})
}

func (client *Client) SetCurrentSource(ctx context.Context, index int) error {
	if index < 0 {
		return client.rejected(EndpointSetCurrentSource, validationFailure("invalid source index"))
	}
	return client.command(ctx, EndpointSetCurrentSource, indexRequest{Index: index})
}

// command posts body and expects a {success, error} answer.
func (client *Client) command(ctx context.Context, endpoint string, body any) error {
	var result model.Result
	if err := client.do(ctx, http.MethodPost, endpoint, body, &result); err != nil {
		return err
	}
	if !result.Success {
		return client.serverFailure(endpoint, result.Error)
	}
	return nil
}

func (client *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	start := time.Now()
	err := client.roundTrip(ctx, method, endpoint, body, out)
	client.observe(endpoint, start, err)
	return err
}

func (client *Client) roundTrip(ctx context.Context, method, endpoint string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Failure{Kind: KindValidation, Message: "cannot encode request", Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+endpoint, reader)
	if err != nil {
		return &Failure{Kind: KindTransport, Message: err.Error(), Err: err}
	}
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	client.log.Debugf("%s %s", method, request.URL)

	response, err := client.http.Do(request)
	if err != nil {
		return &Failure{Kind: KindTransport, Message: err.Error(), Err: err}
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return &Failure{Kind: KindTransport, Message: err.Error(), Err: err, StatusCode: response.StatusCode}
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return &Failure{
			Kind:       KindStatus,
			Message:    statusMessage(response, payload),
			StatusCode: response.StatusCode,
		}
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return &Failure{
			Kind:       KindDecode,
			Message:    fmt.Sprintf("malformed response from %s: %v", endpoint, err),
			StatusCode: response.StatusCode,
			Err:        err,
		}
	}
	return nil
}

// statusMessage prefers the backend's own error text over the status line.
func statusMessage(response *http.Response, payload []byte) string {
	var result model.Result
	if err := json.Unmarshal(payload, &result); err == nil && result.Error != "" {
		return result.Error
	}
	return response.Status
}

func (client *Client) serverFailure(endpoint, message string) error {
	if message == "" {
		message = "the server reported a failure"
	}
	failure := &Failure{Kind: KindServer, Message: message}
	client.countFailure(endpoint, failure)
	return failure
}

func (client *Client) rejected(endpoint string, err error) error {
	if failure, ok := AsFailure(err); ok {
		client.countFailure(endpoint, failure)
	}
	return err
}

func (client *Client) observe(endpoint string, start time.Time, err error) {
	if client.metrics != nil {
		client.metrics.HttpRequestSeconds.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}
	if err == nil {
		return
	}
	if failure, ok := AsFailure(err); ok {
		client.countFailure(endpoint, failure)
	}
	client.log.Warnf("%s failed: %v", endpoint, err)
}

func (client *Client) countFailure(endpoint string, failure *Failure) {
	if client.metrics != nil {
		client.metrics.HttpErrorsTotal.WithLabelValues(endpoint, string(failure.Kind)).Inc()
	}
}
