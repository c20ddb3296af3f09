package scraper

import (
	"context"
	"errors"

	"randproxy/proxypool/model"
)

var (
	// ErrNetwork 表示传输层失败：连接被拒绝、超时、DNS 解析失败等。
	ErrNetwork = errors.New("network error")
	// ErrUpstream 表示上游返回了非 2xx 状态码或无法解析的响应体。
	ErrUpstream = errors.New("upstream error")
)

// Scraper 接口定义了从代理源抓取代理列表的行为。
type Scraper interface {
	// Scrape 执行一次抓取，返回上游的原始条目，不做过滤。
	// 失败时返回包装了 ErrNetwork 或 ErrUpstream 的错误。
	Scrape(ctx context.Context) ([]model.Listing, error)

	// Name 返回抓取器的名称，用于日志记录。
	Name() string
}
