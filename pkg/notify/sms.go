package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

type SMSSender interface {
	Send(ctx context.Context, phone, body string) error
}

// HTTPSMSSender posts a form-encoded message to an SMS gateway.
type HTTPSMSSender struct {
	providerURL string
	apiKey      string
	sender      string
	client      *http.Client
}

func NewHTTPSMSSender(providerURL, apiKey, sender string) *HTTPSMSSender {
	return &HTTPSMSSender{
		providerURL: providerURL,
		apiKey:      apiKey,
		sender:      sender,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *HTTPSMSSender) Send(ctx context.Context, phone, body string) error {
	form := url.Values{}
	form.Set("from", s.sender)
	form.Set("to", phone)
	form.Set("msg", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.providerURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if s.apiKey != "" {
		req.Header.Set("apikey", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sms api error: status %d: %s", resp.StatusCode, string(msg))
	}

	return nil
}

// LogSMSSender only logs; used when no SMS provider is configured.
type LogSMSSender struct {
	log *zap.Logger
}

func NewLogSMSSender(log *zap.Logger) *LogSMSSender {
	return &LogSMSSender{log: log.With(zap.String("component", "sms"))}
}

func (s *LogSMSSender) Send(_ context.Context, phone, body string) error {
	s.log.Info("SMS (not sent, provider disabled)", zap.String("to", phone), zap.String("body", body))
	return nil
}
