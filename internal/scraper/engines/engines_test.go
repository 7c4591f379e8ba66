package engines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobex-scraper/internal/config"
	"jobex-scraper/internal/logging"
	"jobex-scraper/internal/scraper/engines/static"
)

// TestStart_Static verifies the static engine needs no browser
func TestStart_Static(t *testing.T) {
	cfg := config.Default()
	cfg.Scraper.Engine = "static"

	s, err := Start(cfg, nil, logging.GetGlobalLogger())
	require.NoError(t, err)
	assert.IsType(t, &static.Session{}, s)
	assert.NoError(t, s.Stop())
}

// TestStart_Unknown verifies unknown engines are rejected
func TestStart_Unknown(t *testing.T) {
	cfg := config.Default()
	cfg.Scraper.Engine = "selenium"

	_, err := Start(cfg, nil, logging.GetGlobalLogger())
	assert.ErrorContains(t, err, "selenium")
}
