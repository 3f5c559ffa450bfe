// pkg/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// SourceConfig 单个数据来源配置
type SourceConfig struct {
	Name     string        `yaml:"name"`
	URL      string        `yaml:"url"`
	Timeout  time.Duration `yaml:"timeout"`
	Enabled  bool          `yaml:"enabled"`
	Priority int           `yaml:"priority"`
}

// Config 应用配置
type Config struct {
	App struct {
		Name string `yaml:"name"`
		Env  string `yaml:"env"`
	} `yaml:"app"`

	Monitoring struct {
		PollInterval time.Duration  `yaml:"poll_interval"`
		Sources      []SourceConfig `yaml:"sources"`
	} `yaml:"monitoring"`

	Redis struct {
		URL      string        `yaml:"url"`
		DedupTTL time.Duration `yaml:"dedup_ttl"`
	} `yaml:"redis"`

	Database struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		DBName   string `yaml:"dbname"`
		SSLMode  string `yaml:"sslmode"`
	} `yaml:"database"`

	NATS struct {
		URL       string `yaml:"url"`
		ClusterID string `yaml:"cluster_id"`
		ClientID  string `yaml:"client_id"`
	} `yaml:"nats"`

	Extraction struct {
		PDFTimeout time.Duration `yaml:"pdf_timeout"`
		MinText    int           `yaml:"min_text"` // 提取结果低于该长度视为失败
	} `yaml:"extraction"`

	// 情绪阈值和指标权重，核心分析函数以显式参数接收，不读全局配置
	Analysis struct {
		StrongBeat    float64 `yaml:"strong_beat"`
		Beat          float64 `yaml:"beat"`
		InlineLower   float64 `yaml:"inline_lower"`
		Miss          float64 `yaml:"miss"`
		ProfitWeight  float64 `yaml:"profit_weight"`
		RevenueWeight float64 `yaml:"revenue_weight"`
		EPSWeight     float64 `yaml:"eps_weight"`
	} `yaml:"analysis"`

	StockFilter struct {
		Enabled         bool     `yaml:"enabled"`
		BSE500Only      bool     `yaml:"bse_500_only"`
		NSE500Only      bool     `yaml:"nse_500_only"`
		CustomWatchlist []string `yaml:"custom_watchlist"`
	} `yaml:"stock_filter"`

	Telegram struct {
		BotToken  string `yaml:"bot_token"`
		ChannelID string `yaml:"channel_id"`
	} `yaml:"telegram"`

	API struct {
		Port string `yaml:"port"`
	} `yaml:"api"`
}

// LoadConfig 从文件加载配置
func LoadConfig(path string) (*Config, error) {
	// .env文件不存在时忽略
	_ = godotenv.Load()

	// 读取配置文件
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// 解析YAML
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 环境变量覆盖
	overrideFromEnv(&config)

	// 填默认值并校验
	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// overrideFromEnv 使用环境变量覆盖配置
func overrideFromEnv(config *Config) {
	if env := os.Getenv("APP_ENV"); env != "" {
		config.App.Env = env
	}

	if env := os.Getenv("REDIS_URL"); env != "" {
		config.Redis.URL = env
	}

	// 数据库配置
	if env := os.Getenv("DB_HOST"); env != "" {
		config.Database.Host = env
	}
	if env := os.Getenv("DB_PORT"); env != "" {
		if port, err := strconv.Atoi(env); err == nil && port > 0 {
			config.Database.Port = port
		}
	}
	if env := os.Getenv("DB_USER"); env != "" {
		config.Database.User = env
	}
	if env := os.Getenv("DB_PASSWORD"); env != "" {
		config.Database.Password = env
	}
	if env := os.Getenv("DB_NAME"); env != "" {
		config.Database.DBName = env
	}

	// NATS配置
	if env := os.Getenv("NATS_URL"); env != "" {
		config.NATS.URL = env
	}
	if env := os.Getenv("NATS_CLUSTER_ID"); env != "" {
		config.NATS.ClusterID = env
	}
	if env := os.Getenv("NATS_CLIENT_ID"); env != "" {
		config.NATS.ClientID = env
	}

	// Telegram配置只从环境变量读取，避免把凭证写进yaml
	if env := os.Getenv("TELEGRAM_BOT_TOKEN"); env != "" {
		config.Telegram.BotToken = env
	}
	if env := os.Getenv("TELEGRAM_CHANNEL_ID"); env != "" {
		config.Telegram.ChannelID = env
	}

	if env := os.Getenv("POLL_INTERVAL"); env != "" {
		if sec, err := strconv.Atoi(env); err == nil && sec > 0 {
			config.Monitoring.PollInterval = time.Duration(sec) * time.Second
		}
	}

	if env := os.Getenv("API_PORT"); env != "" {
		config.API.Port = env
	}
}

// applyDefaults 填充缺省值
func (c *Config) applyDefaults() {
	if c.Monitoring.PollInterval <= 0 {
		c.Monitoring.PollInterval = 60 * time.Second
	}
	if c.Redis.URL == "" {
		c.Redis.URL = "redis://localhost:6379/0"
	}
	if c.Redis.DedupTTL <= 0 {
		c.Redis.DedupTTL = time.Hour
	}
	if c.Extraction.PDFTimeout <= 0 {
		c.Extraction.PDFTimeout = 10 * time.Second
	}
	if c.Extraction.MinText <= 0 {
		c.Extraction.MinText = 100
	}
	if c.API.Port == "" {
		c.API.Port = "8080"
	}

	// 情绪阈值默认值，见analysis包
	if c.Analysis.StrongBeat == 0 {
		c.Analysis.StrongBeat = 10.0
	}
	if c.Analysis.Beat == 0 {
		c.Analysis.Beat = 5.0
	}
	if c.Analysis.InlineLower == 0 {
		c.Analysis.InlineLower = -5.0
	}
	if c.Analysis.Miss == 0 {
		c.Analysis.Miss = -10.0
	}
	if c.Analysis.ProfitWeight == 0 && c.Analysis.RevenueWeight == 0 && c.Analysis.EPSWeight == 0 {
		c.Analysis.ProfitWeight = 0.5
		c.Analysis.RevenueWeight = 0.3
		c.Analysis.EPSWeight = 0.2
	}

	for i := range c.Monitoring.Sources {
		if c.Monitoring.Sources[i].Timeout <= 0 {
			c.Monitoring.Sources[i].Timeout = 10 * time.Second
		}
		if c.Monitoring.Sources[i].Priority == 0 {
			c.Monitoring.Sources[i].Priority = 99
		}
	}
}

// Validate 校验配置合法性
func (c *Config) Validate() error {
	if len(c.Monitoring.Sources) == 0 {
		return fmt.Errorf("配置校验失败: 未配置任何数据来源")
	}

	enabled := 0
	for _, s := range c.Monitoring.Sources {
		if s.Name == "" {
			return fmt.Errorf("配置校验失败: 数据来源缺少name")
		}
		if s.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return fmt.Errorf("配置校验失败: 所有数据来源均被禁用")
	}

	if c.Analysis.StrongBeat <= c.Analysis.Beat {
		return fmt.Errorf("配置校验失败: strong_beat阈值必须大于beat阈值")
	}
	if c.Analysis.InlineLower <= c.Analysis.Miss {
		return fmt.Errorf("配置校验失败: inline_lower阈值必须大于miss阈值")
	}

	return nil
}

// GetDefaultConfigPath 获取默认配置文件路径
func GetDefaultConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev" // 默认开发环境
	}

	return fmt.Sprintf("configs/%s/app.yaml", env)
}
