package commands

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/fairvalue/internal/analysis"
	"github.com/wonny/fairvalue/internal/external/fmp"
	"github.com/wonny/fairvalue/internal/external/investing"
	"github.com/wonny/fairvalue/internal/external/telegram"
	"github.com/wonny/fairvalue/internal/external/yahoo"
	"github.com/wonny/fairvalue/internal/policy"
	"github.com/wonny/fairvalue/internal/ratios"
	"github.com/wonny/fairvalue/internal/valuation"
	"github.com/wonny/fairvalue/pkg/config"
	"github.com/wonny/fairvalue/pkg/httputil"
	"github.com/wonny/fairvalue/pkg/logger"
	"github.com/wonny/fairvalue/pkg/redis"
)

const userAgent = "Mozilla/5.0 (compatible; fairvalue/1.0)"

// app holds the wired components shared by the commands
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	redis    *redis.Client
	memCache *ratios.MemoryCache // nil when Redis caches the ratios
	engine   *valuation.Engine
	analyzer *analysis.Analyzer
}

// loadConfig reads the environment and applies the global flags
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if policyFile != "" {
		cfg.PolicyFile = policyFile
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// newLogger writes to w so one-shot commands keep stdout clean
func newLogger(cfg *config.Config, w io.Writer) *logger.Logger {
	if w == nil {
		return logger.New(cfg)
	}
	return logger.NewWithWriter(w, cfg.LogLevel, cfg.Env)
}

// newRuntime wires policy -> sources -> provider -> engine -> analyzer
func newRuntime(cfg *config.Config, log *logger.Logger) (*app, error) {
	p, err := policy.Load(cfg.PolicyFile)
	if err != nil {
		return nil, err
	}
	engine := valuation.NewEngine(p)

	rc, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	rt := &app{cfg: cfg, log: log, redis: rc, engine: engine}

	var cache ratios.Cache
	if rc.Enabled() {
		cache = redis.NewCache(rc, "fairvalue")
	} else {
		rt.memCache = ratios.NewMemoryCache()
		cache = rt.memCache
	}

	sources := make([]ratios.Source, 0, len(cfg.Ratios.Sources))
	for _, name := range cfg.Ratios.Sources {
		src, err := rt.newSource(name)
		if err != nil {
			rc.Close()
			return nil, err
		}
		sources = append(sources, ratios.WithCache(src, cache, cfg.Ratios.CacheTTL, log))
	}

	mergePolicy, err := ratios.ParseMergePolicy(cfg.Ratios.MergePolicy)
	if err != nil {
		rc.Close()
		return nil, err
	}

	provider, err := ratios.NewProvider(sources, ratios.Options{
		Workers:     cfg.Ratios.Workers,
		RequireAll:  cfg.Ratios.RequireAll,
		MergePolicy: mergePolicy,
	}, log)
	if err != nil {
		rc.Close()
		return nil, err
	}

	rt.analyzer = analysis.New(provider, engine, cfg.Ratios.MaxTickers, log)

	log.WithFields(map[string]interface{}{
		"sources":     provider.Sources(),
		"policy_hash": engine.PolicyHash(),
		"redis":       rc.Enabled(),
	}).Info("Valuation runtime ready")

	return rt, nil
}

func (rt *app) Close() {
	if err := rt.redis.Close(); err != nil {
		rt.log.WithError(err).Warn("Failed to close redis")
	}
}

func (rt *app) newSource(name string) (ratios.Source, error) {
	cfg := rt.cfg
	switch name {
	case fmp.SourceName:
		hc := httputil.New(rt.log).WithLimiter(rt.limiter(redis.FMPRateLimit(cfg.FMP.RateLimit)))
		return fmp.NewClient(hc, cfg.FMP.BaseURL, cfg.FMP.APIKey, rt.log), nil
	case yahoo.SourceName:
		hc := httputil.New(rt.log).
			WithLimiter(rt.limiter(redis.YahooRateLimit)).
			WithHeader("User-Agent", userAgent)
		return yahoo.NewClient(hc, cfg.Yahoo.BaseURL, rt.log), nil
	case investing.SourceName:
		hc := httputil.New(rt.log).
			WithLimiter(rt.limiter(redis.InvestingRateLimit)).
			WithHeader("User-Agent", userAgent)
		return investing.NewClient(hc, cfg.Investing.BaseURL, cfg.Investing.Slugs, rt.log), nil
	default:
		return nil, fmt.Errorf("unknown ratio source %q", name)
	}
}

// limiter shares the quota across replicas through Redis when it is enabled,
// and falls back to a process-local token bucket otherwise
func (rt *app) limiter(lc redis.RateLimitConfig) httputil.Limiter {
	if rt.redis.Enabled() {
		return redis.NewRateLimiter(rt.redis, "fairvalue").Bind(lc)
	}
	every := lc.Window / time.Duration(max(lc.Limit, 1))
	return rate.NewLimiter(rate.Every(every), 1)
}

// newTelegram builds the Bot API client; the HTTP timeout outlasts the long poll
func (rt *app) newTelegram() *telegram.Client {
	hc := httputil.New(rt.log).
		WithTimeout(rt.cfg.Telegram.PollTimeout+10*time.Second).
		WithRetry(2, time.Second)
	return telegram.NewClient(hc, rt.cfg.Telegram.BaseURL, rt.cfg.Telegram.BotToken, rt.log)
}
