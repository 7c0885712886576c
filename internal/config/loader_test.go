package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/dxpredict/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.ModelDir, convey.ShouldEqual, "models")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "console")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("DXP_ADDR", ":9090")
			_ = os.Setenv("DXP_MODEL_DIR", "/srv/models")
			_ = os.Setenv("DXP_LOG_LEVEL", "debug")
			_ = os.Setenv("DXP_LOG_FORMAT", "json")
			_ = os.Setenv("DXP_MAX_BODY_BYTES", "1024")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.ModelDir, convey.ShouldEqual, "/srv/models")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.MaxBodyBytes, convey.ShouldEqual, 1024)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempFile(t, "dxp-config-*.yaml", `
addr: ":7070"
model_dir: "./artifacts"
log_file: "/tmp/dxpredict.log"
model_files:
  diabetes: "diabetes_v2.json"
  thyroid: "thyroid_tree.json"
`)
			_ = os.Setenv("DXP_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.ModelDir, convey.ShouldEqual, "./artifacts")
				convey.So(cfg.LogFile, convey.ShouldEqual, "/tmp/dxpredict.log")
				convey.So(cfg.ModelFiles, convey.ShouldResemble, map[string]string{
					"diabetes": "diabetes_v2.json",
					"thyroid":  "thyroid_tree.json",
				})
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info") // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempFile(t, "dxp-config-*.yaml", `
addr: ":7070"
model_dir: "./artifacts"
`)
			_ = os.Setenv("DXP_CONFIG", tmpFile)
			_ = os.Setenv("DXP_ADDR", ":6060")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")           // Overridden by env
				convey.So(cfg.ModelDir, convey.ShouldEqual, "./artifacts") // From file
			})
		})

		convey.Convey("When loading config with a dotenv file", func() {
			envFile := createTempFile(t, "dxp-*.env", "DXP_MODEL_DIR=/opt/dx/models\nDXP_ADDR=:5050\n")
			_ = os.Setenv("DXP_ENV_FILE", envFile)
			_ = os.Setenv("DXP_ADDR", ":4040")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then dotenv values apply but process env wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.ModelDir, convey.ShouldEqual, "/opt/dx/models")
				convey.So(cfg.Addr, convey.ShouldEqual, ":4040")
			})
		})

		convey.Convey("When the dotenv file does not exist", func() {
			_ = os.Setenv("DXP_ENV_FILE", "/non/existent/.env")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempFile(t, "dxp-config-*.yaml", `invalid: yaml: content: [`)
			_ = os.Setenv("DXP_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("DXP_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("DXP_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("DXP_MAX_BODY_BYTES", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"DXP_CONFIG",
		"DXP_ENV_FILE",
		"DXP_ADDR",
		"DXP_MODEL_DIR",
		"DXP_LOG_LEVEL",
		"DXP_LOG_FORMAT",
		"DXP_LOG_FILE",
		"DXP_MAX_BODY_BYTES",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempFile(t *testing.T, pattern, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), pattern)
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatalf("close temp file: %v", err)
	}
	return tmpFile.Name()
}
