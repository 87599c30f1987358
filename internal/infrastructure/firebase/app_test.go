package firebase

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialsOption(t *testing.T) {
	opt, err := CredentialsOption(`{"type":"service_account"}`, "")
	require.NoError(t, err)
	assert.NotNil(t, opt)

	_, err = CredentialsOption("", "")
	assert.Error(t, err)

	_, err = CredentialsOption("", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o600))
	opt, err = CredentialsOption("", path)
	require.NoError(t, err)
	assert.NotNil(t, opt)
}
