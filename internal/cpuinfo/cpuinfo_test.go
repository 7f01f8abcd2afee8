package cpuinfo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrandFromFile(t *testing.T) {
	content := `processor	: 0
vendor_id	: GenuineIntel
cpu family	: 6
model		: 158
model name	: Intel(R) Core(TM) i7-9700K CPU @ 3.60GHz
stepping	: 13

processor	: 1
model name	: Intel(R) Core(TM) i7-9700K CPU @ 3.60GHz
`
	path := filepath.Join(t.TempDir(), "cpuinfo")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	brand, err := brandFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Intel(R) Core(TM) i7-9700K CPU @ 3.60GHz", brand)
}

func TestBrandFromFileMissingEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpuinfo")
	require.NoError(t, os.WriteFile(path, []byte("processor\t: 0\n"), 0o600))

	_, err := brandFromFile(path)
	require.Error(t, err)
}

func TestBrandFromFileMissingFile(t *testing.T) {
	_, err := brandFromFile(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
