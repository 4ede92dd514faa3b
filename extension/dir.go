package extension

import (
	"fmt"
	"os"

	goerrors "github.com/goliatone/go-errors"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/goliatone/go-confdoc/cfgx"
	"github.com/goliatone/go-confdoc/config"
	"github.com/goliatone/go-confdoc/registry"
)

// Document is the declarative form of an extension:
//
//	groups:
//	  - name: cache
//	    options:
//	      - name: servers
//	        default: ["a:1", "b:2"]
//	        help: Memcached servers
//	        type: stringSlice
//
// An empty group name means the default group.
type Document struct {
	Groups []registry.Contribution `koanf:"groups"`
}

// Dir finds extensions declared as <Path>/<id>.{yaml,yml,json,toml}.
type Dir struct {
	Path string
}

// Find returns a single entry point that loads the document for id. A
// missing document yields no entry points. A missing directory is an error.
func (d Dir) Find(id string) ([]registry.ExtensionFunc, error) {
	info, err := os.Stat(d.Path)
	if err != nil || !info.IsDir() {
		if err == nil {
			err = fmt.Errorf("%s is not a directory", d.Path)
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryNotFound, "extension directory not found").
			WithTextCode(TextCodeNotFound).
			WithMetadata(map[string]any{"path": d.Path, "extension": id})
	}

	path, ok := config.FindFile(d.Path, id)
	if !ok {
		return nil, nil
	}
	return []registry.ExtensionFunc{func() ([]registry.Contribution, error) {
		doc, err := LoadDocument(path)
		if err != nil {
			return nil, err
		}
		return doc.Groups, nil
	}}, nil
}

// LoadDocument parses the extension document at path. The parser follows
// the file extension.
func LoadDocument(path string) (Document, error) {
	fileType := config.InferFileType(path)
	if err := fileType.Valid(); err != nil {
		return Document{}, err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), fileType.Parser()); err != nil {
		return Document{}, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse extension document").
			WithTextCode(TextCodeLoadFailed).
			WithMetadata(map[string]any{"path": path})
	}

	doc, err := cfgx.Build(k.Raw(),
		cfgx.WithLowerKeys[Document](),
		cfgx.WithTagName[Document]("koanf"),
		cfgx.WithValidatorFunc(validateDocument),
	)
	if err != nil {
		return Document{}, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid extension document").
			WithTextCode(TextCodeLoadFailed).
			WithMetadata(map[string]any{"path": path})
	}
	return doc, nil
}

func validateDocument(doc Document) error {
	for gi, group := range doc.Groups {
		for oi, opt := range group.Options {
			if opt.Name == "" {
				return fmt.Errorf("groups[%d].options[%d]: option name is required", gi, oi)
			}
		}
	}
	return nil
}
