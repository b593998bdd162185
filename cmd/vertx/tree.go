package main

import (
	"log/slog"
	"net/http"

	"go-vertx/internal/config"
	"go-vertx/nodes"
	"go-vertx/vertx"
)

// APIPrefix is where the application nodes are mounted.
const APIPrefix = "/api/"

// buildTree links the dispatch tree for cfg. Each gate is the parent of
// everything after it, so a bounce (a preflight, a static hit, a missing
// token) skips the rest of the chain:
//
//	root (JSON errors)
//	└── cors
//	    └── static
//	        └── api prefix
//	            └── auth (only with a JWT secret)
//	                └── whoami
func buildTree(cfg *config.Config, projectRoot string, logger *slog.Logger) (*vertx.Node, error) {
	root := vertx.New(nil,
		vertx.WithName("root"),
		vertx.WithRecoverer(nodes.JSONErrors(logger)),
		vertx.WithLogger(logger),
	)

	chain := []*vertx.Node{
		vertx.New(nodes.CORS(cfg.CORSOrigin), vertx.WithName("cors"), vertx.WithLogger(logger)),
		vertx.New(nodes.Static(projectRoot, cfg.Static), vertx.WithName("static"), vertx.WithLogger(logger)),
		vertx.New(nodes.Prefix(APIPrefix), vertx.WithName("api"), vertx.WithLogger(logger)),
	}
	secret := []byte(cfg.JWTSecret)
	if len(secret) > 0 {
		chain = append(chain, vertx.New(nodes.BearerAuth(secret), vertx.WithName("auth"), vertx.WithLogger(logger)))
	}
	chain = append(chain, vertx.New(whoami(secret), vertx.WithName("whoami"), vertx.WithLogger(logger)))

	parent := root
	for _, n := range chain {
		if err := parent.Link(n); err != nil {
			return nil, err
		}
		parent = n
	}
	return root, nil
}

type whoamiBody struct {
	User   string `json:"user"`
	Method string `json:"method"`
	Path   string `json:"path"`
	IP     string `json:"ip"`
}

// whoami answers GET /api/whoami with the caller as the tree sees it.
func whoami(secret []byte) vertx.Handler {
	return vertx.HandlerFunc(func(req *vertx.Request, resp *vertx.Response) (*vertx.Response, error) {
		if req.Path() != APIPrefix+"whoami" || req.Method() != http.MethodGet {
			return resp, nil
		}

		user := "anonymous"
		if len(secret) > 0 {
			id, err := nodes.Authenticate(req, secret)
			if err != nil {
				return nil, err
			}
			user = id
		}

		err := nodes.WriteJSON(resp, http.StatusOK, whoamiBody{
			User:   user,
			Method: req.Method(),
			Path:   req.Path(),
			IP:     req.IP(),
		})
		if err != nil {
			return nil, err
		}
		return resp, nil
	})
}
