package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"randproxy/internal/shared/logger"
	"randproxy/proxypool/model"
)

const (
	geonodeLimit    = 500
	geonodePage     = 1
	geonodeSortBy   = "lastChecked"
	geonodeSortType = "desc"

	// 响应体读取上限，防止异常上游占满内存
	maxBodySize = 16 << 20
)

// geonodeResponse 对应 proxylist.geonode.com 的 JSON 响应，只保留用到的字段。
type geonodeResponse struct {
	Data *[]geonodeItem `json:"data"`
}

type geonodeItem struct {
	IP             string      `json:"ip"`
	Port           flexibleStr `json:"port"`
	AnonymityLevel string      `json:"anonymityLevel"`
}

// flexibleStr 同时接受 JSON 字符串和数字，统一保存为文本。
type flexibleStr string

func (f *flexibleStr) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexibleStr(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("port is neither string nor number: %s", b)
	}
	if i, err := n.Int64(); err == nil {
		*f = flexibleStr(strconv.FormatInt(i, 10))
		return nil
	}
	*f = flexibleStr(n.String())
	return nil
}

// GeonodeScraper 实现了 Scraper 接口，用于抓取 proxylist.geonode.com 的公开代理列表。
type GeonodeScraper struct {
	client    *http.Client
	endpoint  string
	userAgent string
}

// NewGeonodeScraper 创建一个新的 GeonodeScraper 实例。
// timeout <= 0 时使用 20 秒。
func NewGeonodeScraper(endpoint, userAgent string, timeout time.Duration) *GeonodeScraper {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &GeonodeScraper{
		client: &http.Client{
			Timeout: timeout,
		},
		endpoint:  endpoint,
		userAgent: userAgent,
	}
}

// Name 返回抓取器的名称。
func (s *GeonodeScraper) Name() string {
	return "proxylist.geonode.com"
}

// requestURL 拼接固定的查询参数：limit=500&page=1&sort_by=lastChecked&sort_type=desc。
func (s *GeonodeScraper) requestURL() (string, error) {
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", s.endpoint, err)
	}
	q := u.Query()
	q.Set("limit", strconv.Itoa(geonodeLimit))
	q.Set("page", strconv.Itoa(geonodePage))
	q.Set("sort_by", geonodeSortBy)
	q.Set("sort_type", geonodeSortType)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Scrape 执行抓取操作。
func (s *GeonodeScraper) Scrape(ctx context.Context) ([]model.Listing, error) {
	l := logger.WithComponent("ProxyPool/Scraper").With().
		Str("source", s.Name()).
		Str("refresh_id", uuid.NewString()).
		Logger()
	l.Debug().Msg("Starting scrape...")

	reqURL, err := s.requestURL()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", s.Name(), err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		l.Warn().Err(err).Msg("Failed to fetch proxy list.")
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrNetwork, s.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		l.Warn().Int("status_code", resp.StatusCode).Msg("Received non-2xx status code.")
		return nil, fmt.Errorf("%w: received status code %d from %s", ErrUpstream, resp.StatusCode, s.Name())
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body from %s: %v", ErrNetwork, s.Name(), err)
	}

	listings, err := parseGeonode(body)
	if err != nil {
		l.Warn().Err(err).Msg("Failed to parse proxy list.")
		return nil, fmt.Errorf("%w: %s: %v", ErrUpstream, s.Name(), err)
	}

	l.Debug().Int("count", len(listings)).Msg("Scrape finished.")
	return listings, nil
}

func parseGeonode(body []byte) ([]model.Listing, error) {
	var apiResp geonodeResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Data == nil {
		return nil, fmt.Errorf("response has no data array")
	}

	listings := make([]model.Listing, 0, len(*apiResp.Data))
	for _, item := range *apiResp.Data {
		listings = append(listings, model.Listing{
			IP:             item.IP,
			Port:           string(item.Port),
			AnonymityLevel: item.AnonymityLevel,
		})
	}
	return listings, nil
}
