package webserver

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Robo-91/grocery-inventory/config"
	"github.com/Robo-91/grocery-inventory/internal/catalog"
)

//go:embed templates/*.html
var tmplFS embed.FS

// WebServer serves the inventory HTML surface.
type WebServer struct {
	cfg     *config.AppConfig
	store   catalog.Store
	uploads *UploadStore
	root    *echo.Echo
}

func NewWebServer(cfg *config.AppConfig, store catalog.Store) (*WebServer, error) {
	uploads, err := NewUploadStore(cfg.PublicImageDir(), cfg.Web.MaxUploadBytes)
	if err != nil {
		return nil, errors.Wrap(err, "init upload store")
	}

	ws := &WebServer{
		cfg:     cfg,
		store:   store,
		uploads: uploads,
		root:    echo.New(),
	}
	ws.root.HideBanner = true
	ws.root.HidePort = true
	ws.root.Renderer = newRenderer()
	ws.root.HTTPErrorHandler = ws.errorHandler
	ws.root.Use(middleware.Recover())
	ws.root.Use(requestLogger())
	// multipart bodies carry the image; allow headroom over the upload cap
	ws.root.Use(middleware.BodyLimit(fmt.Sprintf("%dM", cfg.Web.MaxUploadBytes>>20+1)))

	ws.root.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/inventory/")
	})
	ws.root.Static("/images", cfg.PublicImageDir())
	ws.registerCatalogRoutes()
	return ws, nil
}

// registerCatalogRoutes mounts the shared CRUD handler set once per
// category schema.
func (ws *WebServer) registerCatalogRoutes() {
	g := ws.root.Group("/inventory")
	g.GET("/", ws.home)
	for _, s := range catalog.Categories {
		s := s
		g.GET("/"+s.Code, ws.list(s))
		g.GET("/"+s.Code+"/create", ws.createForm(s))
		g.POST("/"+s.Code+"/create", ws.createItem(s))
		g.GET("/"+s.Code+"/:id", ws.detail(s))
		g.GET("/"+s.Code+"/:id/update", ws.updateForm(s))
		g.POST("/"+s.Code+"/:id/update", ws.updateItem(s))
		g.GET("/"+s.Code+"/:id/delete", ws.deleteForm(s))
		g.POST("/"+s.Code+"/:id/delete", ws.deleteItem(s))
	}
}

func (ws *WebServer) Start() error {
	addr := fmt.Sprintf("%s:%d", ws.cfg.Web.Host, ws.cfg.Web.Port)
	zap.S().Infof("web server listening on %s", addr)
	err := ws.root.Start(addr)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (ws *WebServer) Shutdown(ctx context.Context) error {
	return ws.root.Shutdown(ctx)
}

// Handler exposes the routed server for tests and embedding.
func (ws *WebServer) Handler() http.Handler {
	return ws.root
}

// errorHandler renders every unhandled error as an HTML error page.
// Catalog not-found errors map to 404, everything untyped to 500.
func (ws *WebServer) errorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := "Something went wrong."

	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
	case errors.Is(err, catalog.ErrNotFound):
		code = http.StatusNotFound
		message = "Item not found"
	}

	if code >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}
	if c.Response().Committed {
		return
	}
	rerr := c.Render(code, "error.html", echo.Map{
		"Title":   "Error",
		"Code":    code,
		"Message": message,
	})
	if rerr != nil {
		_ = c.String(code, message)
	}
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			zap.L().Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	})
}

type renderer struct {
	templates *template.Template
}

func newRenderer() *renderer {
	return &renderer{
		templates: template.Must(template.ParseFS(tmplFS, "templates/*.html")),
	}
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
