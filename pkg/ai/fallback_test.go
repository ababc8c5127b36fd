package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClassifier struct {
	result *Classification
	err    error
	calls  int
}

func (s *stubClassifier) ClassifyImage(context.Context, []byte) (*Classification, error) {
	s.calls++
	return s.result, s.err
}

func TestFallbackClassifier_FirstSuccessWins(t *testing.T) {
	hf := &stubClassifier{err: errors.New("huggingface API error (429): rate limit")}
	gem := &stubClassifier{result: &Classification{FoodLabel: "sushi", ConfidencePercent: 70}}
	oll := &stubClassifier{result: &Classification{FoodLabel: "rice"}}

	f := NewFallbackClassifier(
		NamedClassifier{"huggingface", hf},
		NamedClassifier{"gemini", gem},
		NamedClassifier{"ollama", oll},
	)

	result, err := f.ClassifyImage(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, "sushi", result.FoodLabel)
	assert.Equal(t, 1, hf.calls)
	assert.Equal(t, 0, oll.calls)
}

func TestFallbackClassifier_AllFail(t *testing.T) {
	f := NewFallbackClassifier(
		NamedClassifier{"gemini", &stubClassifier{err: errors.New("RESOURCE_EXHAUSTED")}},
		NamedClassifier{"ollama", &stubClassifier{err: errors.New("dial tcp 127.0.0.1:11434: connection refused")}},
	)

	_, err := f.ClassifyImage(context.Background(), []byte("img"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini: RESOURCE_EXHAUSTED")
	assert.Contains(t, err.Error(), "ollama: dial tcp")

	_, err = NewFallbackClassifier().ClassifyImage(context.Background(), nil)
	assert.Error(t, err)
}

func TestErrorReasons(t *testing.T) {
	assert.Equal(t, "quota", reason(errors.New("Gemini API error (429)")))
	assert.Equal(t, "connection", reason(errors.New("dial tcp: no such host")))
	assert.Equal(t, "no_prediction", reason(ErrNoPrediction))
	assert.Equal(t, "error", reason(errors.New("bad request")))
	assert.False(t, isConnectionError(nil))
	assert.False(t, isQuotaError(nil))
}

func TestNewClassifier(t *testing.T) {
	ctx := context.Background()

	c, err := NewClassifier(ctx, Config{})
	require.NoError(t, err)
	assert.IsType(t, &instrumented{}, c)

	_, err = NewClassifier(ctx, Config{Provider: ProviderGemini})
	assert.Error(t, err)

	_, err = NewClassifier(ctx, Config{Provider: "clarifai"})
	assert.Error(t, err)

	c, err = NewClassifier(ctx, Config{Provider: ProviderAuto, HuggingFaceAPIKey: "k"})
	require.NoError(t, err)
	fb, ok := c.(*FallbackClassifier)
	require.True(t, ok)
	require.Len(t, fb.chain, 2)
	assert.Equal(t, "huggingface", fb.chain[0].Name)
	assert.Equal(t, "ollama", fb.chain[1].Name)
}
