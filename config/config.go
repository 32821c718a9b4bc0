package config

import (
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

// SysConfig holds application-wide settings.
type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid" validate:"required"`
	Location string `yaml:"location" json:"location" validate:"required"`
	Workdir  string `yaml:"workdir" json:"workdir" validate:"required"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// WebConfig holds the HTTP server settings.
type WebConfig struct {
	Host           string `yaml:"host" json:"host"`
	Port           int    `yaml:"port" json:"port" validate:"gt=0,lte=65535"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes" json:"max_upload_bytes" validate:"gt=0"`
	ImageDir       string `yaml:"image_dir" json:"image_dir" validate:"required"`
}

// DBConfig holds the MongoDB connection settings.
type DBConfig struct {
	URI            string `yaml:"uri" json:"uri" validate:"required"`
	Name           string `yaml:"name" json:"name" validate:"required"`
	ConnectTimeout int    `yaml:"connect_timeout" json:"connect_timeout" validate:"gt=0"`
}

// LogConfig holds the logger settings.
type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode" validate:"oneof=development production"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig `yaml:"system" json:"system"`
	Web      WebConfig `yaml:"web" json:"web"`
	Database DBConfig  `yaml:"database" json:"database"`
	Logger   LogConfig `yaml:"logger" json:"logger"`
}

// PublicImageDir resolves the image directory against the workdir when it
// is not absolute.
func (c *AppConfig) PublicImageDir() string {
	if filepath.IsAbs(c.Web.ImageDir) {
		return c.Web.ImageDir
	}
	return filepath.Join(c.System.Workdir, c.Web.ImageDir)
}

func DefaultConfig() *AppConfig {
	return &AppConfig{
		System: SysConfig{
			Appid:    "GroceryInventory",
			Location: "America/New_York",
			Workdir:  "/var/groceryinventory",
			Debug:    false,
		},
		Web: WebConfig{
			Host:           "0.0.0.0",
			Port:           1816,
			MaxUploadBytes: 8 << 20,
			ImageDir:       "public/images",
		},
		Database: DBConfig{
			URI:            "mongodb://127.0.0.1:27017",
			Name:           "grocery_inventory",
			ConnectTimeout: 10,
		},
		Logger: LogConfig{
			Mode:       "development",
			FileEnable: true,
			Filename:   "/var/groceryinventory/groceryd.log",
		},
	}
}

// LoadConfig reads the YAML config file when present, then applies
// environment overrides and validates the result. An empty path loads
// defaults plus environment only.
func LoadConfig(cfile string) (*AppConfig, error) {
	cfg := DefaultConfig()
	if cfile != "" {
		data, err := os.ReadFile(cfile)
		if err != nil {
			return nil, errors.Wrap(err, "read config file")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "parse config file")
		}
	}
	cfg.applyEnvOverrides()
	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "validate config")
	}
	return cfg, nil
}

func (c *AppConfig) applyEnvOverrides() {
	setEnvString(&c.System.Workdir, "GROCERY_WORKDIR")
	setEnvString(&c.System.Location, "GROCERY_LOCATION")
	if v := os.Getenv("GROCERY_DEBUG"); v != "" {
		c.System.Debug = cast.ToBool(v)
	}
	setEnvString(&c.Web.Host, "GROCERY_WEB_HOST")
	if v := os.Getenv("GROCERY_WEB_PORT"); v != "" {
		c.Web.Port = cast.ToInt(v)
	}
	if v := os.Getenv("GROCERY_WEB_MAX_UPLOAD"); v != "" {
		c.Web.MaxUploadBytes = cast.ToInt64(v)
	}
	setEnvString(&c.Web.ImageDir, "GROCERY_WEB_IMAGE_DIR")
	setEnvString(&c.Database.URI, "GROCERY_MONGO_URI")
	setEnvString(&c.Database.Name, "GROCERY_MONGO_NAME")
	if v := os.Getenv("GROCERY_MONGO_CONNECT_TIMEOUT"); v != "" {
		c.Database.ConnectTimeout = cast.ToInt(v)
	}
	setEnvString(&c.Logger.Mode, "GROCERY_LOGGER_MODE")
	if v := os.Getenv("GROCERY_LOGGER_FILE_ENABLE"); v != "" {
		c.Logger.FileEnable = cast.ToBool(v)
	}
	setEnvString(&c.Logger.Filename, "GROCERY_LOGGER_FILENAME")
}

func setEnvString(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}
