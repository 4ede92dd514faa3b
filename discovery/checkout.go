// Package discovery validates a checkout and collects the options its
// sources register, producing a registry.Source.
package discovery

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/mod/modfile"
)

const (
	TextCodeInvalidCheckout   = "INVALID_CHECKOUT"
	TextCodeModuleFileInvalid = "MODULE_FILE_INVALID"
	TextCodeNoPackagesFound   = "NO_PACKAGES_FOUND"
)

var majorVersion = regexp.MustCompile(`^v[0-9]+$`)

// Checkout describes a validated repository.
type Checkout struct {
	Root       string
	ModulePath string
	// Package is the last meaningful element of ModulePath. It names the
	// flagmapping store and generated tables.
	Package string
}

// CheckCheckout ensures root is a git checkout of a Go module.
func CheckCheckout(root string) (Checkout, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return Checkout{}, invalidCheckout(root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return Checkout{}, invalidCheckout(abs, err)
	}
	if !info.IsDir() {
		return Checkout{}, invalidCheckout(abs, fmt.Errorf("%s is not a directory", abs))
	}

	// .git is a directory in a plain clone and a file in a worktree.
	if _, err := os.Stat(filepath.Join(abs, ".git")); err != nil {
		return Checkout{}, invalidCheckout(abs, fmt.Errorf("%s is not a git checkout", abs))
	}

	gomod := filepath.Join(abs, "go.mod")
	data, err := os.ReadFile(gomod)
	if err != nil {
		return Checkout{}, invalidCheckout(abs, err)
	}

	modulePath := modfile.ModulePath(data)
	if modulePath == "" {
		return Checkout{}, goerrors.New("go.mod does not declare a module path", goerrors.CategoryBadInput).
			WithTextCode(TextCodeModuleFileInvalid).
			WithMetadata(map[string]any{"path": gomod})
	}

	return Checkout{
		Root:       abs,
		ModulePath: modulePath,
		Package:    PackageName(modulePath),
	}, nil
}

// PackageName returns the last element of modulePath, skipping a major
// version suffix such as /v2.
func PackageName(modulePath string) string {
	base := path.Base(modulePath)
	if majorVersion.MatchString(base) {
		if parent := path.Dir(modulePath); parent != "." && parent != "/" {
			return path.Base(parent)
		}
	}
	return base
}

func invalidCheckout(root string, err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, "not a valid checkout").
		WithTextCode(TextCodeInvalidCheckout).
		WithMetadata(map[string]any{"path": root})
}
