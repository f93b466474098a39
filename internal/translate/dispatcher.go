package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/local/pdftranslator/internal/config"
	"github.com/local/pdftranslator/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Dispatcher routes page translation requests across providers with
// model and provider failover. Every attempt, failed or not, is
// recorded in the provider request metrics.
type Dispatcher struct {
	cfg       config.TranslateConfig
	openai    Client
	anthropic Client
	observe   func(provider, model, result string, dur time.Duration)
}

func NewDispatcher(cfg config.TranslateConfig) *Dispatcher {
	return &Dispatcher{cfg: cfg, openai: NewOpenAIClient(), anthropic: NewAnthropicClient(), observe: metrics.ObserveProvider}
}

// NewDispatcherWithClients wires explicit clients, used by tests.
func NewDispatcherWithClients(cfg config.TranslateConfig, openai, anthropic Client) *Dispatcher {
	return &Dispatcher{cfg: cfg, openai: openai, anthropic: anthropic, observe: metrics.ObserveProvider}
}

// TranslatePage translates one page of text. Failover order: primary
// provider with its primary model, on rate limit the same provider's
// secondary model, then the secondary provider's primary model. The
// whole attempt is bounded by the configured page timeout.
func (d *Dispatcher) TranslatePage(ctx context.Context, jobID string, page int, text string) (Response, string, string, error) {
	primaryProv := strings.ToLower(d.cfg.PrimaryEngine)
	secondaryProv := strings.ToLower(d.cfg.SecondaryEngine)

	overallCtx, cancel := context.WithTimeout(ctx, d.cfg.PageTimeout)
	defer cancel()

	call := func(provider, model string) (Response, error) {
		req := Request{
			JobID:      jobID,
			Page:       page,
			Text:       text,
			SourceLang: d.cfg.SourceLang,
			TargetLang: d.cfg.TargetLang,
			Model:      model,
		}
		cctx, ccancel := context.WithTimeout(overallCtx, d.cfg.RequestTimeout)
		defer ccancel()
		start := time.Now()
		resp, err := d.client(provider).Do(cctx, req)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			err = context.DeadlineExceeded
		}
		result := "success"
		if err != nil {
			result = "failure"
		}
		d.observe(provider, model, result, time.Since(start))
		if err != nil {
			return Response{}, err
		}
		return resp, nil
	}

	pModel := d.primaryModel(primaryProv)
	resp, err := call(primaryProv, pModel)
	if err == nil {
		return resp, primaryProv, pModel, nil
	}
	log.Warn().Err(err).Str("job_id", jobID).Int("page", page).
		Str("provider", primaryProv).Str("model", pModel).
		Bool("transient", isTransientError(err)).Msg("translation attempt failed")

	// A 4xx the provider rejected outright will fail everywhere; don't
	// burn the failover budget on it.
	if isFatalError(err) {
		return Response{}, "", "", fmt.Errorf("translate page %d: %w", page, err)
	}

	// Transient failures (rate limit, 5xx, timeout) get one retry on the
	// same provider's secondary model before switching providers.
	if isTransientError(err) {
		if sModel := d.secondaryModel(primaryProv); sModel != "" {
			if resp2, err2 := call(primaryProv, sModel); err2 == nil {
				return resp2, primaryProv, sModel, nil
			}
		}
	}

	spModel := d.primaryModel(secondaryProv)
	resp3, err3 := call(secondaryProv, spModel)
	if err3 == nil {
		return resp3, secondaryProv, spModel, nil
	}
	log.Error().Err(err3).Str("job_id", jobID).Int("page", page).
		Str("provider", secondaryProv).Str("model", spModel).Msg("all translation attempts failed")
	return Response{}, "", "", fmt.Errorf("translate page %d: %w", page, err3)
}

func (d *Dispatcher) client(provider string) Client {
	switch provider {
	case "anthropic":
		return d.anthropic
	default:
		return d.openai
	}
}

func (d *Dispatcher) primaryModel(provider string) string {
	switch provider {
	case "anthropic":
		return d.cfg.Anthropic.Primary
	default:
		return d.cfg.OpenAI.Primary
	}
}

func (d *Dispatcher) secondaryModel(provider string) string {
	switch provider {
	case "anthropic":
		return d.cfg.Anthropic.Secondary
	case "openai":
		return d.cfg.OpenAI.Secondary
	default:
		return ""
	}
}
