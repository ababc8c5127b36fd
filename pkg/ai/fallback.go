package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"calotrack-backend/pkg/logger"
	"calotrack-backend/pkg/metrics"

	"github.com/sirupsen/logrus"
)

// NamedClassifier pairs a classifier with the provider name used in logs and metrics
type NamedClassifier struct {
	Name       string
	Classifier ImageClassifier
}

// FallbackClassifier tries providers in order until one answers.
// Typical chain: Hugging Face (hosted, free tier) -> Gemini -> Ollama (local).
type FallbackClassifier struct {
	chain []NamedClassifier
	log   *logrus.Entry
}

func NewFallbackClassifier(chain ...NamedClassifier) *FallbackClassifier {
	return &FallbackClassifier{chain: chain, log: logger.For("AI")}
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"eof",
	} {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource_exhausted",
		"resource exhausted",
	} {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

func reason(err error) string {
	switch {
	case isQuotaError(err):
		return "quota"
	case isConnectionError(err):
		return "connection"
	case errors.Is(err, ErrNoPrediction):
		return "no_prediction"
	default:
		return "error"
	}
}

func (f *FallbackClassifier) ClassifyImage(ctx context.Context, image []byte) (*Classification, error) {
	var errs []error
	for _, p := range f.chain {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		result, err := p.Classifier.ClassifyImage(ctx, image)
		if err == nil {
			f.log.WithFields(logrus.Fields{"provider": p.Name, "label": result.FoodLabel}).Info("classification successful")
			return result, nil
		}

		f.log.WithError(err).WithFields(logrus.Fields{"provider": p.Name, "reason": reason(err)}).Warn("provider failed, trying next")
		errs = append(errs, fmt.Errorf("%s: %w", p.Name, err))
	}

	if len(errs) == 0 {
		return nil, fmt.Errorf("no AI provider available for classification")
	}
	return nil, errors.Join(errs...)
}

// instrumented records outcome and latency for a single provider
type instrumented struct {
	name  string
	inner ImageClassifier
}

// Instrument wraps c so every call is counted under provider name
func Instrument(name string, c ImageClassifier) ImageClassifier {
	return &instrumented{name: name, inner: c}
}

func (i *instrumented) ClassifyImage(ctx context.Context, image []byte) (*Classification, error) {
	start := time.Now()
	result, err := i.inner.ClassifyImage(ctx, image)
	outcome := "success"
	if err != nil {
		outcome = reason(err)
	}
	metrics.RecordClassification(i.name, outcome, time.Since(start))
	return result, err
}
