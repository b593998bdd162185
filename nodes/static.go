package nodes

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go-vertx/vertx"
)

// StaticRule maps a URL prefix to a directory relative to the project root.
type StaticRule struct {
	Prefix string `yaml:"prefix"`
	Dir    string `yaml:"dir"`
}

// Static serves files matching rules in streaming mode and bounces. Requests
// that match no file pass through unchanged.
func Static(projectRoot string, rules []StaticRule) vertx.Handler {
	return vertx.HandlerFunc(func(req *vertx.Request, resp *vertx.Response) (*vertx.Response, error) {
		if req.Method() != http.MethodGet && req.Method() != http.MethodHead {
			return resp, nil
		}

		path := req.Path()

		for _, rule := range rules {
			if rule.Dir == "" || !strings.HasPrefix(path, rule.Prefix) {
				continue
			}

			relPath := filepath.Clean(strings.TrimPrefix(path, rule.Prefix))

			baseDir := filepath.Join(projectRoot, rule.Dir)
			fullPath := filepath.Join(baseDir, relPath)

			// Prevent ../../ escapes
			if fullPath != baseDir && !strings.HasPrefix(fullPath, baseDir+string(filepath.Separator)) {
				resp.Status = http.StatusForbidden
				resp.SetBody(http.StatusText(http.StatusForbidden))
				return nil, vertx.Bounce(resp)
			}

			info, err := os.Stat(fullPath)
			if err != nil || info.IsDir() {
				continue
			}

			if err := resp.File(fullPath); err != nil {
				return nil, err
			}
			resp.Status = http.StatusOK
			return nil, vertx.Bounce(resp)
		}

		return resp, nil
	})
}
