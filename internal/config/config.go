package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"alcyxob/team-schedule/internal/domain"
	"alcyxob/team-schedule/internal/export"
	"alcyxob/team-schedule/internal/layout"
	"alcyxob/team-schedule/internal/render"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig           `mapstructure:"server"`
	Database DatabaseConfig         `mapstructure:"database"`
	S3       S3Config               `mapstructure:"s3"`
	JWT      JWTConfig              `mapstructure:"jwt"`
	Export   ExportConfig           `mapstructure:"export"`
	Styles   map[string]StyleConfig `mapstructure:"styles"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"` // duration string in YAML, e.g. "60m"
}

// ExportConfig controls the printable schedule export.
type ExportConfig struct {
	Title             string        `mapstructure:"title"`
	FilePrefix        string        `mapstructure:"file_prefix"`
	WeeksPerPage      int           `mapstructure:"weeks_per_page"`
	PageWidth         float64       `mapstructure:"page_width"`  // points
	PageHeight        float64       `mapstructure:"page_height"` // points
	Margin            float64       `mapstructure:"margin"`
	SlotCutoff        int           `mapstructure:"slot_cutoff"`      // hour at which PM starts
	UnsupportedText   string        `mapstructure:"unsupported_text"` // drop | placeholder
	Compress          bool          `mapstructure:"compress"`
	DownloadURLExpiry time.Duration `mapstructure:"download_url_expiry"`
}

// StyleConfig is one entry of the styles section, e.g.
//
//	styles:
//	  game: {color: [220, 38, 38], alpha: 0.18}
type StyleConfig struct {
	Color []int   `mapstructure:"color"`
	Alpha float64 `mapstructure:"alpha"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Nested keys map to env vars with the replacer, e.g.
	// export.weeks_per_page -> EXPORT_WEEKS_PER_PAGE
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "team_schedule")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("jwt.expiration", "1h")
	v.SetDefault("export.title", "Team Schedule")
	v.SetDefault("export.file_prefix", "team-schedule")
	v.SetDefault("export.weeks_per_page", 2)
	v.SetDefault("export.page_width", 792)
	v.SetDefault("export.page_height", 612)
	v.SetDefault("export.margin", 24)
	v.SetDefault("export.slot_cutoff", 12)
	v.SetDefault("export.unsupported_text", "drop")
	v.SetDefault("export.compress", true)
	v.SetDefault("export.download_url_expiry", "15m")

	err = v.ReadInConfig()
	// A missing file is fine, defaults and env vars still apply.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return
	}
	if config.Export.WeeksPerPage < 1 {
		return config, fmt.Errorf("config: export.weeks_per_page must be at least 1, got %d", config.Export.WeeksPerPage)
	}
	return config, nil
}

// StyleTable merges the configured styles over layout.DefaultStyles and
// validates the result.
func (c Config) StyleTable() (layout.StyleTable, error) {
	overrides := make(layout.StyleTable, len(c.Styles))
	for name, sc := range c.Styles {
		if len(sc.Color) != 3 {
			return nil, fmt.Errorf("config: styles.%s.color must be [r, g, b]", name)
		}
		var rgb [3]uint8
		for i, v := range sc.Color {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("config: styles.%s.color component %d out of range", name, v)
			}
			rgb[i] = uint8(v)
		}
		overrides[domain.SessionType(strings.ToLower(name))] = layout.Style{
			Color: render.Color{R: rgb[0], G: rgb[1], B: rgb[2]},
			Alpha: sc.Alpha,
		}
	}
	styles := layout.DefaultStyles().Merge(overrides)
	if err := styles.Validate(); err != nil {
		return nil, err
	}
	return styles, nil
}

// DriverConfig builds the export pipeline settings. The emitter is left
// unset so callers can bind one per destination.
func (c Config) DriverConfig() (export.Config, error) {
	styles, err := c.StyleTable()
	if err != nil {
		return export.Config{}, err
	}
	policy, err := layout.ParseScriptPolicy(c.Export.UnsupportedText)
	if err != nil {
		return export.Config{}, fmt.Errorf("config: export.unsupported_text: %w", err)
	}

	geometry := export.DefaultGeometry()
	if c.Export.PageWidth > 0 {
		geometry.PageWidth = c.Export.PageWidth
	}
	if c.Export.PageHeight > 0 {
		geometry.PageHeight = c.Export.PageHeight
	}
	if c.Export.Margin > 0 {
		geometry.Margin = c.Export.Margin
	}

	return export.Config{
		Options: export.Options{
			Title:        c.Export.Title,
			FilePrefix:   c.Export.FilePrefix,
			WeeksPerPage: c.Export.WeeksPerPage,
			Geometry:     geometry,
		},
		Engine: &layout.Engine{
			Styles:  styles,
			Metrics: layout.DefaultMetrics(),
			Times:   export.ClockFormatter{},
			Labels:  export.TypeLabels{},
			Scripts: layout.HebrewDetector(),
			Policy:  policy,
		},
		Slots:   export.NoonClassifier{Cutoff: c.Export.SlotCutoff},
		Backend: render.PDF{Compress: c.Export.Compress},
	}, nil
}
