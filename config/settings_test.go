package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "HTTP_ADDR", "OPENAI_API_KEY", "OPENAI_MODEL", "GENERATIVE_TIMEOUT",
		"CONCERNS_SOURCE", "GENERATIVE_TIPS", "MAX_TIPS", "WORKING_WORD_CAP", "VALKEY_INIT_ADDRESS",
	} {
		t.Setenv(key, "")
	}

	s, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "dev", s.Env)
	assert.Equal(t, ":5000", s.HTTPAddr)
	assert.Empty(t, s.OpenAIAPIKey)
	assert.Equal(t, "gpt-4o-mini", s.OpenAIModel)
	assert.Equal(t, 30*time.Second, s.GenerativeTimeout)
	assert.Equal(t, ConcernsKeywords, s.ConcernsSource)
	assert.False(t, s.GenerativeTips)
	assert.Equal(t, 7, s.MaxTips)
	assert.Equal(t, 500, s.WorkingWordCap)
	assert.Empty(t, s.ValkeyAddress)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GENERATIVE_TIMEOUT", "5s")
	t.Setenv("CONCERNS_SOURCE", "Hybrid")
	t.Setenv("GENERATIVE_TIPS", "true")
	t.Setenv("MAX_TIPS", "4")

	s, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "production", s.Env)
	assert.Equal(t, "sk-test", s.OpenAIAPIKey)
	assert.Equal(t, 5*time.Second, s.GenerativeTimeout)
	assert.Equal(t, ConcernsHybrid, s.ConcernsSource)
	assert.True(t, s.GenerativeTips)
	assert.Equal(t, 4, s.MaxTips)
}

func TestFromEnvMalformedValuesFallBack(t *testing.T) {
	t.Setenv("CONCERNS_SOURCE", "")
	t.Setenv("GENERATIVE_TIMEOUT", "soon")
	t.Setenv("MAX_TIPS", "-2")
	t.Setenv("WORKING_WORD_CAP", "lots")
	t.Setenv("GENERATIVE_TIPS", "maybe")

	s, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, s.GenerativeTimeout)
	assert.Equal(t, 7, s.MaxTips)
	assert.Equal(t, 500, s.WorkingWordCap)
	assert.False(t, s.GenerativeTips)
}

func TestFromEnvCacheTTLAtLeastOneSecond(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"500ms", time.Second},
		{"0s", time.Second},
		{"-5m", time.Second},
		{"1500ms", 1500 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("GENERATIVE_CACHE_TTL", tt.value)

			s, err := FromEnv()
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.GenerativeCacheTTL)
		})
	}
}

func TestFromEnvRejectsUnknownConcernsSource(t *testing.T) {
	t.Setenv("CONCERNS_SOURCE", "astrology")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "astrology")
}
