package main

import (
	"context"
	"net/http"
	"os"
	"testing"

	"github.com/okian/kibitz/internal/adapters/http/api"
	app "github.com/okian/kibitz/internal/app"
	"github.com/okian/kibitz/internal/config"
	"github.com/okian/kibitz/pkg/logger"
	"github.com/okian/kibitz/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("KIBITZ_ADDR", ":8080")
			_ = os.Setenv("KIBITZ_ENGINE_URL", "http://localhost:5000")
			defer func() {
				_ = os.Unsetenv("KIBITZ_ADDR")
				_ = os.Unsetenv("KIBITZ_ENGINE_URL")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.EngineConfigured(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := app.New()
				convey.So(svc, convey.ShouldNotBeNil)
				convey.So(svc.EngineConfigured(), convey.ShouldBeFalse)
				convey.So(svc.NarratorConfigured(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When testing HTTP route registration", func() {
			svc := app.New()
			mux := http.NewServeMux()

			convey.Convey("Then the API server should register without panicking", func() {
				server := api.NewServer(svc)
				convey.So(server, convey.ShouldNotBeNil)
				convey.So(func() { server.Register(context.Background(), mux) }, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.Convey("Then metrics manager should be creatable", func() {
				manager := metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})
	})
}
