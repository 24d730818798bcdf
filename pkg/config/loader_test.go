package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuekit/venuekit/pkg/config"
)

func TestLoad(t *testing.T) {
	type serverCfg struct {
		Addr    string `env:"TEST_HTTP_ADDR" envDefault:":8080"`
		Workers int    `env:"TEST_WORKERS" envDefault:"4"`
	}

	t.Run("applies defaults", func(t *testing.T) {
		var cfg serverCfg
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, 4, cfg.Workers)
	})

	t.Run("same type is loaded once and cached", func(t *testing.T) {
		var first serverCfg
		require.NoError(t, config.Load(&first))

		// Environment changes after the first load are not observed.
		t.Setenv("TEST_HTTP_ADDR", ":9999")

		var second serverCfg
		require.NoError(t, config.Load(&second))
		assert.Equal(t, first, second)
	})

	t.Run("reads environment values", func(t *testing.T) {
		type workerCfg struct {
			Queue string `env:"TEST_QUEUE_NAME" envDefault:"default"`
		}
		t.Setenv("TEST_QUEUE_NAME", "uploads")

		var cfg workerCfg
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "uploads", cfg.Queue)
	})

	t.Run("nil pointer is rejected", func(t *testing.T) {
		err := config.Load[serverCfg](nil)
		assert.ErrorIs(t, err, config.ErrNilPointer)
	})

	t.Run("required variable missing", func(t *testing.T) {
		type strictCfg struct {
			Secret string `env:"TEST_REQUIRED_SECRET,required"`
		}
		var cfg strictCfg
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})
}

func TestMustLoad(t *testing.T) {
	type strictCfg struct {
		Token string `env:"TEST_MUST_TOKEN,required"`
	}

	assert.Panics(t, func() {
		var cfg strictCfg
		config.MustLoad(&cfg)
	})
}
