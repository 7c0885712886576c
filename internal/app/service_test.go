package service_test

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/okian/dxpredict/internal/app"
	"github.com/okian/dxpredict/internal/adapters/registry"
	"github.com/okian/dxpredict/internal/domain/disease"
	"github.com/okian/dxpredict/internal/domain/inference"
	"github.com/okian/dxpredict/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init(logger.WithOutput(io.Discard))
	if err != nil {
		panic(err)
	}
}

var shippedModels = filepath.Join("..", "..", "models")

func startedService(t *testing.T) *service.Service {
	t.Helper()
	svc := service.New(service.WithModelDir(shippedModels))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("start service: %v", err)
	}
	return svc
}

func TestService_Start(t *testing.T) {
	Convey("Given a service pointed at the shipped models", t, func() {
		svc := service.New(service.WithModelDir(shippedModels))
		defer svc.Stop()

		Convey("When starting the service", func() {
			err := svc.Start(context.Background())

			Convey("Then it should start and report every model", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["modelsLoaded"], ShouldEqual, 5)
			})

			Convey("And starting again should be a no-op", func() {
				So(svc.Start(context.Background()), ShouldBeNil)
			})
		})
	})

	Convey("Given a model directory with no artifacts", t, func() {
		svc := service.New(service.WithModelFS(fstest.MapFS{}))

		err := svc.Start(context.Background())

		Convey("Then start fails with a load error and the service stays stopped", func() {
			So(errors.Is(err, registry.ErrLoad), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService(t)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then predictions are refused", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
				_, err := svc.Predict(context.Background(), "diabetes", make([]string, 8))
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})
	})
}

func TestService_Predict(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService(t)
		defer svc.Stop()
		ctx := logger.WithRequestID(context.Background(), "req-42")

		Convey("When predicting diabetes with a complete form", func() {
			p, err := svc.Predict(ctx, "diabetes", []string{"2", "120", "70", "30", "80", "28.5", "0.5", "35"})

			Convey("Then a verdict is returned with the request id", func() {
				So(err, ShouldBeNil)
				So(p.Disease, ShouldEqual, "diabetes")
				So(p.Verdict, ShouldEqual, "The person does not have Diabetes Prediction")
				So(p.RequestID, ShouldEqual, "req-42")
			})
		})

		Convey("When predicting with named fields", func() {
			p, err := svc.PredictFields(ctx, "thyroid", map[string]string{
				"age": "55", "sex": "1", "on_thyroxine": "0", "tsh": "12.5",
				"t3_measured": "1", "t3": "1.1", "tt4": "50",
			})

			Convey("Then the tree model reports hypothyroidism", func() {
				So(err, ShouldBeNil)
				So(p.Positive, ShouldBeTrue)
				So(p.Verdict, ShouldEqual, "The person has Hypo-Thyroid Prediction")
			})
		})

		Convey("When a field is blank", func() {
			_, err := svc.Predict(ctx, "diabetes", []string{"2", "", "70", "30", "80", "28.5", "0.5", "35"})

			Convey("Then a validation error is counted", func() {
				So(errors.Is(err, inference.ErrValidation), ShouldBeTrue)
				So(svc.GetStats()["validationFailures"], ShouldEqual, int64(1))
				So(svc.GetStats()["predictions"], ShouldEqual, int64(0))
			})
		})

		Convey("When the disease is unknown", func() {
			_, err := svc.Predict(ctx, "measles", nil)
			So(errors.Is(err, disease.ErrUnknownDisease), ShouldBeTrue)
		})
	})
}

func TestService_Diseases(t *testing.T) {
	Convey("Given a stopped service", t, func() {
		svc := service.New()

		Convey("Then the catalog is listed without model metadata", func() {
			list := svc.Diseases()
			So(list, ShouldHaveLength, 5)
			So(list[0].Key, ShouldEqual, "diabetes")
			So(list[0].Model, ShouldBeNil)
		})
	})

	Convey("Given a started service", t, func() {
		svc := startedService(t)
		defer svc.Stop()

		Convey("Then each disease carries its model metadata", func() {
			d, err := svc.Disease("heart_disease")
			So(err, ShouldBeNil)
			So(d.Fields, ShouldHaveLength, 13)
			So(d.Model, ShouldNotBeNil)
			So(d.Model.Kind, ShouldEqual, "decision_tree")
			So(d.Model.Features, ShouldEqual, 13)
			So(d.Model.SHA256, ShouldHaveLength, 64)
		})

		Convey("Then an unknown disease is rejected", func() {
			_, err := svc.Disease("gout")
			So(errors.Is(err, disease.ErrUnknownDisease), ShouldBeTrue)
		})
	})
}

func TestService_GetStats(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()

		Convey("When getting stats before starting", func() {
			stats := svc.GetStats()

			Convey("Then it should return basic stats", func() {
				So(stats, ShouldNotBeNil)
				So(stats["started"], ShouldEqual, false)
				So(stats["modelDir"], ShouldEqual, "models")
			})
		})
	})
}
