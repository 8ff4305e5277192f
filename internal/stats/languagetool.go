package stats

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/oauth2/clientcredentials"
)

// LanguageTool counts grammar issues with a LanguageTool-compatible
// /v2/check endpoint.
type LanguageTool struct {
	http     *http.Client
	endpoint string
	language string
}

type LanguageToolConfig struct {
	Endpoint string // base URL, e.g. http://localhost:8010
	Language string // defaults to en-US
	Timeout  time.Duration

	// Optional client-credentials auth for hosted checkers.
	TokenURL     string
	ClientID     string
	ClientSecret string
}

func NewLanguageTool(cfg LanguageToolConfig) *LanguageTool {
	h := &http.Client{}
	if cfg.TokenURL != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		h = cc.Client(context.Background())
	}
	if cfg.Timeout > 0 {
		h.Timeout = cfg.Timeout
	}
	lang := cfg.Language
	if lang == "" {
		lang = "en-US"
	}
	return &LanguageTool{
		http:     h,
		endpoint: strings.TrimRight(cfg.Endpoint, "/") + "/v2/check",
		language: lang,
	}
}

func (l *LanguageTool) Check(ctx context.Context, text string) (int, error) {
	form := url.Values{"text": {text}, "language": {l.language}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, errors.Wrap(err, "grammar check: build request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	res, err := l.http.Do(req)
	if err != nil {
		return 0, errors.Wrapf(err, "grammar check: post %s", l.endpoint)
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		return 0, errors.Errorf("grammar check: %s", res.Status)
	}
	var out struct {
		Matches []json.RawMessage `json:"matches"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, errors.Wrap(err, "grammar check: decode")
	}
	return len(out.Matches), nil
}
