package web

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/evanw/esbuild/pkg/api"
)

//go:embed frontend/editor.js
var editorSource string

// EditorScript returns the page script, minified once on first use.
var EditorScript = sync.OnceValues(func() ([]byte, error) {
	result := api.Transform(editorSource, api.TransformOptions{
		Loader:            api.LoaderJS,
		Format:            api.FormatIIFE,
		Target:            api.ES2020,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
	})
	if len(result.Errors) != 0 {
		return nil, fmt.Errorf("esbuild failed (%v)", result.Errors)
	}
	return result.Code, nil
})
