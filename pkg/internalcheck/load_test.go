package internalcheck

import (
	"go/token"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"
)

const (
	ctPackage      = "github.com/coinbase/cb-bignat-go/pkg/ct"
	bignatPackage  = "github.com/coinbase/cb-bignat-go/pkg/bignat"
	loggingPackage = "github.com/coinbase/cb-bignat-go/pkg/logging"
)

var loadMode = packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedFiles | packages.NeedName

func load(t *testing.T, patterns ...string) []*packages.Package {
	t.Helper()
	pkgs, err := packages.Load(&packages.Config{Mode: loadMode}, patterns...)
	require.NoError(t, err, "load packages")
	require.NotEmpty(t, pkgs)
	return pkgs
}

func fileName(fset *token.FileSet, pos token.Pos) string {
	return filepath.Base(fset.Position(pos).Filename)
}
