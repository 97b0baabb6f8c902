package tourapi

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"tour-admin/core/metrics"
	"tour-admin/feature/tour/models"

	"github.com/go-resty/resty/v2"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// TourAPI services.
const (
	ServiceKor = "KorService1"
	ServiceEng = "EngService1"
)

// TourAPI detail operations.
const (
	OpDetailCommon = "detailCommon1"
	OpDetailIntro  = "detailIntro1"
	OpDetailInfo   = "detailInfo1"
)

// ErrNotFound is returned by detail calls that come back without an item.
var ErrNotFound = errors.New("tourapi: no item")

// Client talks to KorService1 and EngService1.
type Client struct {
	cfg     Config
	http    *resty.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]byte]
	logger  *zap.Logger
}

// NewClient creates a paced, circuit-broken TourAPI client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	const breakerName = "tourapi"
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// Upstream answered; the request itself was bad.
			var apiErr *APIError
			return err == nil || errors.As(err, &apiErr)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("TourAPI circuit breaker state change",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &Client{
		cfg:     cfg,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, 1),
		cb:      cb,
		logger:  logger,
	}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// call performs one GET against service/operation and decodes the envelope.
func (c *Client) call(ctx context.Context, service, operation string, params map[string]string) (*decoded, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	query := map[string]string{
		"serviceKey": c.cfg.ServiceKey,
		"MobileOS":   c.cfg.MobileOS,
		"MobileApp":  c.cfg.MobileApp,
		"_type":      "json",
	}
	for k, v := range params {
		query[k] = v
	}

	var out *decoded
	_, err := c.cb.Execute(func() ([]byte, error) {
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(query).
			Get("/" + service + "/" + operation)
		if err != nil {
			return nil, err
		}

		body := resp.Body()
		d, decodeErr := decode(body)
		if decodeErr != nil {
			if resp.IsError() {
				var apiErr *APIError
				if errors.As(decodeErr, &apiErr) {
					return nil, apiErr
				}
				return nil, fmt.Errorf("http %d", resp.StatusCode())
			}
			return nil, decodeErr
		}
		out = d
		return body, nil
	})

	status := "ok"
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		status = "rejected"
	case err != nil:
		status = "error"
	}
	metrics.UpstreamRequests.WithLabelValues(service, operation, status).Inc()

	if err != nil {
		c.logger.Debug("TourAPI request failed",
			zap.String("service", service),
			zap.String("operation", operation),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%s/%s: %w", service, operation, err)
	}
	return out, nil
}

func (c *Client) list(ctx context.Context, service, operation string, contentTypeID, pageNo, pageSize int) (*ListPage, error) {
	params := map[string]string{
		"numOfRows":     strconv.Itoa(pageSize),
		"pageNo":        strconv.Itoa(pageNo),
		"contentTypeId": strconv.Itoa(contentTypeID),
		"arrange":       "A",
		"listYN":        "Y",
	}
	if operation == models.OpSearchFestival {
		params["eventStartDate"] = c.cfg.EventStartDate
		delete(params, "contentTypeId")
	}
	if c.cfg.AreaCode != "" {
		params["areaCode"] = c.cfg.AreaCode
		if c.cfg.SigunguCode != "" {
			params["sigunguCode"] = c.cfg.SigunguCode
		}
	}

	d, err := c.call(ctx, service, operation, params)
	if err != nil {
		return nil, err
	}

	page := &ListPage{Items: make([]Item, 0, len(d.Items)), TotalCount: d.TotalCount}
	for _, m := range d.Items {
		page.Items = append(page.Items, itemFromMap(m))
	}
	return page, nil
}

// List fetches one page of the Korean catalog for category cat.
func (c *Client) List(ctx context.Context, cat models.Category, pageNo, pageSize int) (*ListPage, error) {
	return c.list(ctx, ServiceKor, cat.ListOperation, cat.ContentTypeID, pageNo, pageSize)
}

// ListEnglish fetches one page of the English catalog mapped from cat.
func (c *Client) ListEnglish(ctx context.Context, cat models.Category, pageNo, pageSize int) (*ListPage, error) {
	return c.list(ctx, ServiceEng, cat.ListOperation, cat.EnglishTypeID, pageNo, pageSize)
}

func (c *Client) detail(ctx context.Context, service, operation, contentID string, contentTypeID int, extra map[string]string) ([]map[string]any, error) {
	params := map[string]string{
		"contentId":     contentID,
		"contentTypeId": strconv.Itoa(contentTypeID),
	}
	for k, v := range extra {
		params[k] = v
	}

	d, err := c.call(ctx, service, operation, params)
	if err != nil {
		return nil, err
	}
	if len(d.Items) == 0 {
		return nil, fmt.Errorf("%s/%s %s: %w", service, operation, contentID, ErrNotFound)
	}
	return d.Items, nil
}

var commonParams = map[string]string{
	"defaultYN":  "Y",
	"overviewYN": "Y",
	"addrinfoYN": "Y",
}

// DetailCommon fetches the overview and homepage of a Korean record.
func (c *Client) DetailCommon(ctx context.Context, contentID string, contentTypeID int) (*Common, error) {
	items, err := c.detail(ctx, ServiceKor, OpDetailCommon, contentID, contentTypeID, commonParams)
	if err != nil {
		return nil, err
	}
	common := commonFromMap(items[0])
	return &common, nil
}

// DetailCommonEnglish fetches the title, address and overview of an English record.
func (c *Client) DetailCommonEnglish(ctx context.Context, contentID string, contentTypeID int) (*Common, error) {
	items, err := c.detail(ctx, ServiceEng, OpDetailCommon, contentID, contentTypeID, commonParams)
	if err != nil {
		return nil, err
	}
	common := commonFromMap(items[0])
	return &common, nil
}

// DetailIntro fetches the type-specific intro fields (opening hours, parking, ...).
func (c *Client) DetailIntro(ctx context.Context, contentID string, contentTypeID int) (map[string]any, error) {
	items, err := c.detail(ctx, ServiceKor, OpDetailIntro, contentID, contentTypeID, nil)
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

// DetailRooms fetches the room list of a lodging record.
func (c *Client) DetailRooms(ctx context.Context, contentID string, contentTypeID int) ([]map[string]any, error) {
	return c.detail(ctx, ServiceKor, OpDetailInfo, contentID, contentTypeID, nil)
}
