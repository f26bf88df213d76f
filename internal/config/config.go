package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Source      SourceConfig      `yaml:"source"`
	Search      SearchConfig      `yaml:"search"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
	Slack       SlackConfig       `yaml:"slack"`
	Display     DisplayConfig     `yaml:"display"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	Provider    string   `yaml:"provider"` // openai 或 gemini
	BaseURL     string   `yaml:"base_url"`
	APIKey      string   `yaml:"api_key"`
	Model       string   `yaml:"model"`
	Timeout     int      `yaml:"timeout"`     // 秒
	MaxRetries  *int     `yaml:"max_retries"` // 未配置时默认 3，0 表示不重试
	Temperature *float32 `yaml:"temperature"` // 未配置时使用服务端默认值
}

// CallTimeout 单次调用超时
func (c LLMConfig) CallTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// Retries 限流重试次数，未设置时不重试
func (c LLMConfig) Retries() int {
	if c.MaxRetries == nil {
		return 0
	}
	return max(0, *c.MaxRetries)
}

// SourceConfig 热搜数据源配置
type SourceConfig struct {
	TianAPIKey string `yaml:"tianapi_key"`
	Endpoint   string `yaml:"endpoint"`
	MaxTopics  int    `yaml:"max_topics"`
}

// SearchConfig 搜索相关配置
type SearchConfig struct {
	Provider string        `yaml:"provider"` // tavily、searxng 或 none
	Tavily   TavilyConfig  `yaml:"tavily"`
	SearXNG  SearXNGConfig `yaml:"searxng"`
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey string `yaml:"api_key"`
}

// SearXNGConfig SearXNG 配置
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
	QPS     int `yaml:"qps"`
	RPM     int `yaml:"rpm"`
}

// OutputConfig 输出目录配置
type OutputConfig struct {
	Dir         string `yaml:"dir"`
	SnapshotDir string `yaml:"snapshot_dir"`
	XLSX        bool   `yaml:"xlsx"`
}

// SlackConfig 运行结果通知
type SlackConfig struct {
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"`
}

// DisplayConfig 报告浏览服务配置
type DisplayConfig struct {
	Addr    string `yaml:"addr"`
	Timeout string `yaml:"timeout"`
}

const (
	DefaultEndpoint   = "https://apis.tianapi.com/weibohot/index"
	DefaultMaxTopics  = 15
	DefaultMaxRetries = 3
)

// LoadConfig 从指定路径加载配置，随后叠加 .env 与环境变量并填充默认值
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// .env 不存在时忽略
	_ = godotenv.Load()
	cfg.ApplyEnv()
	cfg.ApplyDefaults()

	return &cfg, nil
}

// ApplyEnv 用环境变量覆盖密钥类配置
func (c *Config) ApplyEnv() {
	setString(&c.LLM.APIKey, "LLM_API_KEY")
	setString(&c.LLM.BaseURL, "LLM_BASE_URL")
	setString(&c.LLM.Model, "LLM_MODEL")
	setString(&c.Source.TianAPIKey, "TIANAPI_KEY")
	setString(&c.Search.Tavily.APIKey, "TAVILY_API_KEY")
	setString(&c.Slack.Token, "SLACK_BOT_TOKEN")
	if v, ok := os.LookupEnv("MAX_TOPICS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Source.MaxTopics = n
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// ApplyDefaults 填充未设置的字段
func (c *Config) ApplyDefaults() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = 60
	}
	if c.LLM.MaxRetries == nil {
		n := DefaultMaxRetries
		c.LLM.MaxRetries = &n
	}
	if c.Source.Endpoint == "" {
		c.Source.Endpoint = DefaultEndpoint
	}
	if c.Source.MaxTopics <= 0 {
		c.Source.MaxTopics = DefaultMaxTopics
	}
	if c.Concurrency.Workers <= 0 {
		c.Concurrency.Workers = 1
	}
	if c.Concurrency.QPS <= 0 {
		c.Concurrency.QPS = 1
	}
	if c.Concurrency.RPM <= 0 {
		c.Concurrency.RPM = 60
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "output"
	}
	if c.Output.SnapshotDir == "" {
		c.Output.SnapshotDir = "data"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Display.Addr == "" {
		c.Display.Addr = ":8000"
	}
}

// Validate 校验 LLM 阶段所需的配置
func (c *Config) Validate() error {
	var errs []error
	if c.LLM.APIKey == "" {
		errs = append(errs, errors.New("未设置 llm.api_key (或 LLM_API_KEY)"))
	}
	if c.LLM.Model == "" {
		errs = append(errs, errors.New("未设置 llm.model (或 LLM_MODEL)"))
	}
	switch c.LLM.Provider {
	case "openai", "gemini":
	default:
		errs = append(errs, fmt.Errorf("未知的 llm.provider: %s", c.LLM.Provider))
	}
	return errors.Join(errs...)
}

// ValidateSource 校验抓取阶段所需的配置
func (c *Config) ValidateSource() error {
	if c.Source.TianAPIKey == "" {
		return errors.New("未设置 source.tianapi_key (或 TIANAPI_KEY)")
	}
	return nil
}
