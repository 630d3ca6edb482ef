package obsportal

import (
	"io/fs"

	"github.com/macro-obs/obsportal/pkg/renderers/html"
)

// RuntimeAssetsFS exposes the embedded browser assets (the stylesheet and
// the mode-switcher script) so applications embedding the portal can serve
// them from their own asset pipeline.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(obsportal.RuntimeAssetsFS()),
//	  ),
//	)
func RuntimeAssetsFS() fs.FS {
	return html.AssetsFS()
}
