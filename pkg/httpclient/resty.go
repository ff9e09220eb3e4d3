package httpclient

import (
	"context"
	"time"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/logger"
	"github.com/go-resty/resty/v2"
)

type RestyClient struct {
	client *resty.Client
	log    *logger.Logger
}

// Option customises the underlying resty client.
type Option func(*resty.Client)

// WithHeader sets a header sent on every request, e.g. an API key.
func WithHeader(key, value string) Option {
	return func(c *resty.Client) {
		if value != "" {
			c.SetHeader(key, value)
		}
	}
}

// WithRetry retries transport errors and 429/5xx responses.
func WithRetry(count int, wait time.Duration) Option {
	return func(c *resty.Client) {
		c.SetRetryCount(count).
			SetRetryWaitTime(wait).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				if err != nil {
					return true
				}
				return r.StatusCode() == 429 || r.StatusCode() >= 500
			})
	}
}

func New(baseURL string, timeout time.Duration, log *logger.Logger, opts ...Option) HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	for _, opt := range opts {
		opt(client)
	}

	return &RestyClient{client: client, log: log}
}

func (rc *RestyClient) Get(ctx context.Context, endpoint string, queryParams map[string]string, headers map[string]string, result interface{}) (*BaseResponse, error) {
	req := rc.request(ctx, headers, result)
	if queryParams != nil {
		req.SetQueryParams(queryParams)
	}
	resp, err := req.Get(endpoint)
	return rc.wrap(ctx, "GET", endpoint, resp, err)
}

func (rc *RestyClient) Post(ctx context.Context, endpoint string, body interface{}, headers map[string]string, result interface{}) (*BaseResponse, error) {
	resp, err := rc.request(ctx, headers, result).SetBody(body).Post(endpoint)
	return rc.wrap(ctx, "POST", endpoint, resp, err)
}

func (rc *RestyClient) request(ctx context.Context, headers map[string]string, result interface{}) *resty.Request {
	req := rc.client.R().SetContext(ctx)
	if result != nil {
		req.SetResult(result)
	}
	if headers != nil {
		req.SetHeaders(headers)
	}
	return req
}

func (rc *RestyClient) wrap(ctx context.Context, method, endpoint string, resp *resty.Response, err error) (*BaseResponse, error) {
	if err != nil {
		rc.log.WarnContext(ctx, "HTTP request failed",
			logger.StringField("method", method),
			logger.StringField("endpoint", endpoint),
			logger.ErrorField(err),
		)
	}
	if resp == nil {
		return &BaseResponse{}, err
	}
	rc.log.DebugContext(ctx, "HTTP request done",
		logger.StringField("method", method),
		logger.StringField("endpoint", endpoint),
		logger.IntField("status", resp.StatusCode()),
		logger.DurationField("elapsed", resp.Time()),
	)
	return &BaseResponse{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
		Headers:    resp.Header(),
	}, err
}
