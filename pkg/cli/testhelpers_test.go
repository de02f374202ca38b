package cli_test

import (
	"net/http"
	"path"

	"github.com/jlrickert/pickup/pkg/simple"
)

// newUpstreamMux serves pages as a simple index: pages maps package name to
// filename to file body. Package pages live under /simple/<pkg>/ and files
// under /files/<name>.
func newUpstreamMux(pages map[string]map[string][]byte) *http.ServeMux {
	files := map[string][]byte{}
	for _, pkgFiles := range pages {
		for name, body := range pkgFiles {
			files[name] = body
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/simple/", func(w http.ResponseWriter, r *http.Request) {
		pkg := path.Base(r.URL.Path)
		pkgFiles, ok := pages[pkg]
		if !ok {
			http.NotFound(w, r)
			return
		}
		doc := simple.NewDocument("Links for " + pkg)
		for name := range pkgFiles {
			doc.Insert(name, "/files/"+name)
		}
		_, _ = w.Write(doc.Encode())
	})
	mux.HandleFunc("/files/", func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[path.Base(r.URL.Path)]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(body)
	})
	return mux
}
