package cmd

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/brogergvhs/mangascout/internal/config"
	"github.com/brogergvhs/mangascout/internal/ui"
	"github.com/brogergvhs/mangascout/internal/util"
)

var (
	flagIgnoreConfig bool
	flagDebug        bool

	// headers/auth/network, shared by every command that fetches
	flagCookie     string
	flagCookieFile string
	flagUserAgent  string
	flagCloudflare bool
	flagRateLimit  float64
	flagTimeout    time.Duration
	flagSearchURL  string
)

var rootCmd = &cobra.Command{
	Use:           "mangascout",
	Short:         "Find manga chapters and their page images on arbitrary sites",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&flagDebug, "debug", false, "enable debug logging")
	pf.BoolVar(&flagIgnoreConfig, "ignore-config", false, "ignore config and use only CLI flags")

	pf.StringVar(&flagCookie, "cookie", "", "cookie string, e.g. \"key=value; other=123\"")
	pf.StringVar(&flagCookieFile, "cookie-file", "", "path to a text file with cookies (one header line)")
	pf.StringVar(&flagUserAgent, "user-agent", "", "override User-Agent")
	pf.BoolVar(&flagCloudflare, "cloudflare", false, "use a browser-like TLS fingerprint against Cloudflare checks")
	pf.Float64Var(&flagRateLimit, "rate-limit", 0, "max requests per second per host (0 = unlimited)")
	pf.DurationVar(&flagTimeout, "timeout", 0, "HTTP timeout per request")
	pf.StringVar(&flagSearchURL, "search-url", "", "search engine URL template with %s for the query")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// baseOptions collects the persistent flags; commands add their own.
func baseOptions() config.Options {
	return config.Options{
		IgnoreConfig:     flagIgnoreConfig,
		Debug:            flagDebug,
		Cookie:           flagCookie,
		CookieFile:       flagCookieFile,
		UserAgent:        flagUserAgent,
		CloudflareBypass: flagCloudflare,
		RateLimit:        flagRateLimit,
		Timeout:          flagTimeout,
		SearchURL:        flagSearchURL,
	}
}

type session struct {
	cfg    *config.Config
	source string
	log    *ui.Logger
	client *http.Client
}

func newSession(opts config.Options) (*session, error) {
	cfg, source, err := config.LoadMerged(opts)
	if err != nil {
		return nil, err
	}

	log := ui.NewLogger(cfg.Debug)
	log.Debugf("config: %s\n", source)

	client, err := util.NewHTTPClient(util.HTTPClientOptions{
		Timeout:          cfg.Timeout,
		UserAgent:        util.PickUserAgent(cfg.UserAgent),
		Cookie:           cfg.Cookie,
		CookieFile:       cfg.CookieFile,
		CloudflareBypass: cfg.CloudflareBypass,
		RateLimit:        cfg.RateLimit,
		DebugLogger:      log,
	})
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, source: source, log: log, client: client}, nil
}
