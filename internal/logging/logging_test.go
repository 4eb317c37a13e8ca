package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"artisanconnect/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, err := logging.New("info", path)
	require.NoError(t, err)
	logger.Info("order created")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"order created"`)
	assert.Contains(t, string(data), `"service":"artisanconnect"`)
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := logging.New("loud", "")
	assert.Error(t, err)
}
