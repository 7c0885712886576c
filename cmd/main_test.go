package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/dxpredict/internal/adapters/registry"
	app "github.com/okian/dxpredict/internal/app"
	"github.com/okian/dxpredict/internal/config"
	"github.com/okian/dxpredict/pkg/logger"
)

var shippedModels = filepath.Join("..", "models")

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			t.Setenv("DXP_ADDR", ":9090")
			t.Setenv("DXP_MODEL_DIR", shippedModels)

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.ModelDir, convey.ShouldEqual, shippedModels)
			})
		})

		convey.Convey("When testing system metrics", func() {
			convey.Convey("Then updating them should not panic", func() {
				convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			})
		})
	})
}

func TestHandler(t *testing.T) {
	convey.Convey("Given a started service behind the full mux", t, func() {
		ctx := context.Background()
		svc := app.New(app.WithModelDir(shippedModels))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		cfg := config.New(ctx)
		handler := newHandler(ctx, cfg, svc)

		get := func(path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
			return w
		}

		convey.Convey("Then every surface answers", func() {
			for _, path := range []string{"/", "/?disease=parkinsons", "/diseases", "/diseases/lung_cancer", "/healthz", "/stats", "/metrics", "/api-docs", "/openapi.yaml", "/static/style.css"} {
				convey.So(get(path).Code, convey.ShouldEqual, http.StatusOK)
			}
		})

		convey.Convey("Then the diabetes scenario is served end to end", func() {
			body := `{"values":[2,120,70,30,80,28.5,0.5,35]}`
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/predict/diabetes", strings.NewReader(body)))

			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "The person does not have Diabetes Prediction")
		})

		convey.Convey("Then the blank Glucose scenario is rejected", func() {
			body := `{"values":[2,"",70,30,80,28.5,0.5,35]}`
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/predict/diabetes", strings.NewReader(body)))

			convey.So(w.Code, convey.ShouldEqual, http.StatusBadRequest)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "Glucose")
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a model directory without artifacts", t, func() {
		t.Setenv("DXP_MODEL_DIR", t.TempDir())
		t.Setenv("DXP_ADDR", "127.0.0.1:0")

		convey.Convey("Then startup fails with a load error", func() {
			err := run(context.Background())
			convey.So(errors.Is(err, registry.ErrLoad), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given the shipped models", t, func() {
		t.Setenv("DXP_MODEL_DIR", shippedModels)
		t.Setenv("DXP_ADDR", "127.0.0.1:0")

		convey.Convey("Then the server runs until the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			time.AfterFunc(200*time.Millisecond, cancel)
			convey.So(run(ctx), convey.ShouldBeNil)
		})
	})
}
