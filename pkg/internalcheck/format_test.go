package internalcheck

import (
	"bytes"
	"go/format"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSourcesAreFormatted(t *testing.T) {
	for _, pkg := range load(t, ctPackage, loggingPackage) {
		for _, path := range pkg.GoFiles {
			src, err := os.ReadFile(path)
			require.NoError(t, err)
			formatted, err := format.Source(src)
			require.NoError(t, err, path)
			if !bytes.Equal(src, formatted) {
				t.Errorf("%s is not gofmt-formatted", path)
			}
		}
	}
}
