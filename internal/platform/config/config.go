// internal/platform/config/config.go
package config

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"dossier/internal/core/ports"
	"dossier/internal/platform/errors"
	"dossier/internal/platform/logx"
	"dossier/internal/platform/ui"
	"dossier/internal/platform/validator"
)

// EnvPrefix es el prefijo de todas las variables de entorno.
const EnvPrefix = "DOSSIER_"

// EnvConfigFile apunta a un fichero YAML cuando no se pasa --config.
const EnvConfigFile = EnvPrefix + "CONFIG"

type Config struct {
	Core    CoreConfig    `yaml:"core"`
	Output  OutputConfig  `yaml:"output"`
	Lookups LookupsConfig `yaml:"lookups"`
	Log     LogConfig     `yaml:"log"`

	// Fichero YAML del que se cargó la configuración (vacío = ninguno)
	File string `yaml:"-"`
}

type CoreConfig struct {
	TimeoutS int `yaml:"timeout"` // segundos por lookup (0 = sin timeout)
}

type OutputConfig struct {
	Path    string `yaml:"path"` // ruta exacta del PDF (vacío = <dir>/<dominio>_<unix>.pdf)
	Dir     string `yaml:"dir"`
	JSON    bool   `yaml:"json"`
	NoTable bool   `yaml:"no_table"`
	Quiet   bool   `yaml:"quiet"`
	UI      string `yaml:"ui"`
}

type LookupsConfig struct {
	UserAgent    string   `yaml:"user_agent"`
	HTTPTimeoutS int      `yaml:"http_timeout"`
	Schemes      []string `yaml:"schemes"`
	DNSServer    string   `yaml:"dns_server"`
	TLSPort      int      `yaml:"tls_port"`
	WhoisServer  string   `yaml:"whois_server"`
	RDAPURL      string   `yaml:"rdap_url"`
	GeoURL       string   `yaml:"geo_url"`
	Wordlist     string   `yaml:"wordlist"`
	ProbeRate    float64  `yaml:"probe_rate"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // formato de la UI raw: text | json
}

// Default retorna una configuración por defecto.
func Default() Config {
	settings := ports.DefaultLookupSettings()
	return Config{
		Core: CoreConfig{
			TimeoutS: 30,
		},
		Output: OutputConfig{
			Dir: "reports",
			UI:  string(ui.UIModePretty),
		},
		Lookups: LookupsConfig{
			UserAgent:    settings.UserAgent,
			HTTPTimeoutS: int(settings.HTTPTimeout / time.Second),
			Schemes:      append([]string{}, settings.Schemes...),
			DNSServer:    settings.DNSServer,
			TLSPort:      settings.TLSPort,
			WhoisServer:  settings.WhoisServer,
			RDAPURL:      settings.RDAPBaseURL,
			GeoURL:       settings.GeoBaseURL,
			Wordlist:     settings.AdminWordlist,
			ProbeRate:    settings.ProbeRate,
		},
		Log: LogConfig{
			Level:  "info",
			Format: string(ui.LogFormatText),
		},
	}
}

// RegisterFlags declara en fs todos los flags de configuración con sus
// valores por defecto.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()

	// Core
	fs.StringP("config", "c", "", "YAML configuration file (env "+EnvConfigFile+")")
	fs.IntP("timeout", "T", d.Core.TimeoutS, "Per-lookup timeout in seconds, 0 = no timeout")

	// Output
	fs.StringP("out", "o", d.Output.Path, "PDF report path (default <dir>/<domain>_<unix>.pdf)")
	fs.String("dir", d.Output.Dir, "Directory for generated reports")
	fs.Bool("json", d.Output.JSON, "Also write the JSON export next to the PDF")
	fs.Bool("no-table", d.Output.NoTable, "Do not print the summary table")
	fs.BoolP("quiet", "q", d.Output.Quiet, "No interactive output (same as --ui quiet)")
	fs.String("ui", d.Output.UI, "Presentation mode: pretty, raw or quiet")

	// HTTP
	fs.Int("http-timeout", d.Lookups.HTTPTimeoutS, "Timeout in seconds for each HTTP request")
	fs.String("user-agent", d.Lookups.UserAgent, "User-Agent header for HTTP requests")
	fs.StringSlice("schemes", d.Lookups.Schemes, "URL schemes to try in order")

	// Endpoints
	fs.String("dns-server", d.Lookups.DNSServer, "DNS server host:port (default from /etc/resolv.conf)")
	fs.Int("tls-port", d.Lookups.TLSPort, "Port used for the TLS handshake")
	fs.String("whois-server", d.Lookups.WhoisServer, "Fixed WHOIS server (default: automatic referral)")
	fs.String("rdap-url", d.Lookups.RDAPURL, "RDAP service base URL used as WHOIS fallback")
	fs.String("geo-url", d.Lookups.GeoURL, "IP geolocation API base URL")

	// Probing
	fs.String("wordlist", d.Lookups.Wordlist, "Admin paths wordlist file (default: built-in list)")
	fs.Float64("probe-rate", d.Lookups.ProbeRate, "Admin path requests per second, 0 = unlimited")

	// Logging
	fs.String("log-level", d.Log.Level, "Log level: debug, info, warn, error (env "+logx.EnvLevel+")")
	fs.String("log-format", d.Log.Format, "Line format for --ui raw: text or json")
}

// FromFlags construye la configuración con precedencia
// defaults < fichero YAML < ENV < flags establecidos explícitamente.
func FromFlags(fs *pflag.FlagSet) (Config, error) {
	cfg := Default()

	path := os.Getenv(EnvConfigFile)
	if f := fs.Lookup("config"); f != nil && f.Changed {
		path = f.Value.String()
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
		cfg.File = path
	}

	if err := loadFromEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := loadFromFlags(fs, &cfg); err != nil {
		return Config{}, err
	}

	normalize(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadFile carga un fichero YAML sobre cfg. Las claves desconocidas son error.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		// Un fichero vacío no es un error
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errors.Wrapf(errors.ErrInvalidInput, "invalid config file %s: %v", path, err)
	}
	return nil
}

// loadFromEnv carga configuración desde variables de entorno DOSSIER_*.
func loadFromEnv(cfg *Config) error {
	var errs []error

	// Core
	if v := getenv("TIMEOUT"); v != "" {
		cfg.Core.TimeoutS = parseInt("TIMEOUT", v, cfg.Core.TimeoutS, &errs)
	}

	// Output
	if v := getenv("OUT"); v != "" {
		cfg.Output.Path = v
	}
	if v := getenv("DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := getenv("JSON"); v != "" {
		cfg.Output.JSON = parseBool(v)
	}
	if v := getenv("NO_TABLE"); v != "" {
		cfg.Output.NoTable = parseBool(v)
	}
	if v := getenv("QUIET"); v != "" {
		cfg.Output.Quiet = parseBool(v)
	}
	if v := getenv("UI"); v != "" {
		cfg.Output.UI = v
	}

	// Lookups
	if v := getenv("USER_AGENT"); v != "" {
		cfg.Lookups.UserAgent = v
	}
	if v := getenv("HTTP_TIMEOUT"); v != "" {
		cfg.Lookups.HTTPTimeoutS = parseInt("HTTP_TIMEOUT", v, cfg.Lookups.HTTPTimeoutS, &errs)
	}
	if v := getenv("SCHEMES"); v != "" {
		cfg.Lookups.Schemes = strings.Split(v, ",")
	}
	if v := getenv("DNS_SERVER"); v != "" {
		cfg.Lookups.DNSServer = v
	}
	if v := getenv("TLS_PORT"); v != "" {
		cfg.Lookups.TLSPort = parseInt("TLS_PORT", v, cfg.Lookups.TLSPort, &errs)
	}
	if v := getenv("WHOIS_SERVER"); v != "" {
		cfg.Lookups.WhoisServer = v
	}
	if v := getenv("RDAP_URL"); v != "" {
		cfg.Lookups.RDAPURL = v
	}
	if v := getenv("GEO_URL"); v != "" {
		cfg.Lookups.GeoURL = v
	}
	if v := getenv("WORDLIST"); v != "" {
		cfg.Lookups.Wordlist = v
	}
	if v := getenv("PROBE_RATE"); v != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sPROBE_RATE: %w", EnvPrefix, err))
		} else {
			cfg.Lookups.ProbeRate = f
		}
	}

	// Log
	if v := os.Getenv(logx.EnvLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}

	if len(errs) > 0 {
		return errors.Wrap(errors.Join(errs...), "invalid environment")
	}
	return nil
}

// loadFromFlags aplica solo los flags que el usuario estableció.
func loadFromFlags(fs *pflag.FlagSet, cfg *Config) error {
	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	fs.Visit(func(f *pflag.Flag) {
		var err error
		switch f.Name {
		case "timeout":
			cfg.Core.TimeoutS, err = fs.GetInt(f.Name)
		case "out":
			cfg.Output.Path, err = fs.GetString(f.Name)
		case "dir":
			cfg.Output.Dir, err = fs.GetString(f.Name)
		case "json":
			cfg.Output.JSON, err = fs.GetBool(f.Name)
		case "no-table":
			cfg.Output.NoTable, err = fs.GetBool(f.Name)
		case "quiet":
			cfg.Output.Quiet, err = fs.GetBool(f.Name)
		case "ui":
			cfg.Output.UI, err = fs.GetString(f.Name)
		case "http-timeout":
			cfg.Lookups.HTTPTimeoutS, err = fs.GetInt(f.Name)
		case "user-agent":
			cfg.Lookups.UserAgent, err = fs.GetString(f.Name)
		case "schemes":
			cfg.Lookups.Schemes, err = fs.GetStringSlice(f.Name)
		case "dns-server":
			cfg.Lookups.DNSServer, err = fs.GetString(f.Name)
		case "tls-port":
			cfg.Lookups.TLSPort, err = fs.GetInt(f.Name)
		case "whois-server":
			cfg.Lookups.WhoisServer, err = fs.GetString(f.Name)
		case "rdap-url":
			cfg.Lookups.RDAPURL, err = fs.GetString(f.Name)
		case "geo-url":
			cfg.Lookups.GeoURL, err = fs.GetString(f.Name)
		case "wordlist":
			cfg.Lookups.Wordlist, err = fs.GetString(f.Name)
		case "probe-rate":
			cfg.Lookups.ProbeRate, err = fs.GetFloat64(f.Name)
		case "log-level":
			cfg.Log.Level, err = fs.GetString(f.Name)
		case "log-format":
			cfg.Log.Format, err = fs.GetString(f.Name)
		}
		record(err)
	})

	return firstErr
}

func normalize(c *Config) {
	d := Default()

	if c.Core.TimeoutS < 0 {
		c.Core.TimeoutS = 0
	}

	c.Output.Path = strings.TrimSpace(c.Output.Path)
	if strings.TrimSpace(c.Output.Dir) == "" {
		c.Output.Dir = d.Output.Dir
	}
	c.Output.UI = strings.ToLower(strings.TrimSpace(c.Output.UI))
	if c.Output.UI == "" {
		c.Output.UI = d.Output.UI
	}
	if c.Output.Quiet {
		c.Output.UI = string(ui.UIModeQuiet)
	}

	if strings.TrimSpace(c.Lookups.UserAgent) == "" {
		c.Lookups.UserAgent = d.Lookups.UserAgent
	}
	if c.Lookups.HTTPTimeoutS <= 0 {
		c.Lookups.HTTPTimeoutS = d.Lookups.HTTPTimeoutS
	}
	schemes := make([]string, 0, len(c.Lookups.Schemes))
	for _, s := range c.Lookups.Schemes {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			schemes = append(schemes, s)
		}
	}
	if len(schemes) == 0 {
		schemes = d.Lookups.Schemes
	}
	c.Lookups.Schemes = schemes
	if c.Lookups.TLSPort == 0 {
		c.Lookups.TLSPort = d.Lookups.TLSPort
	}
	c.Lookups.DNSServer = strings.TrimSpace(c.Lookups.DNSServer)
	c.Lookups.RDAPURL = strings.TrimRight(strings.TrimSpace(c.Lookups.RDAPURL), "/")
	if c.Lookups.RDAPURL == "" {
		c.Lookups.RDAPURL = d.Lookups.RDAPURL
	}
	c.Lookups.GeoURL = strings.TrimRight(strings.TrimSpace(c.Lookups.GeoURL), "/")
	if c.Lookups.GeoURL == "" {
		c.Lookups.GeoURL = d.Lookups.GeoURL
	}
	if c.Lookups.ProbeRate < 0 {
		c.Lookups.ProbeRate = 0
	}

	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}

// Validate verifica los valores que normalize no puede corregir.
func (c Config) Validate() error {
	if _, err := ui.ParseUIMode(c.Output.UI); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	switch ui.LogFormat(c.Log.Format) {
	case ui.LogFormatText, ui.LogFormatJSON:
	default:
		return errors.Wrapf(errors.ErrInvalidInput, "unknown log format %q (valid: text, json)", c.Log.Format)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errors.Wrapf(errors.ErrInvalidInput, "unknown log level %q", c.Log.Level)
	}
	for _, s := range c.Lookups.Schemes {
		if s != "http" && s != "https" {
			return errors.Wrapf(errors.ErrInvalidInput, "unsupported scheme %q", s)
		}
	}
	if !validator.IsPort(strconv.Itoa(c.Lookups.TLSPort)) {
		return errors.Wrapf(errors.ErrInvalidInput, "tls port %d out of range [1-65535]", c.Lookups.TLSPort)
	}
	if err := validateServer(c.Lookups.DNSServer); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "dns server: %v", err)
	}
	urls := []struct{ name, value string }{
		{"rdap url", c.Lookups.RDAPURL},
		{"geo url", c.Lookups.GeoURL},
	}
	for _, u := range urls {
		if !validator.IsURL(u.value) {
			return errors.Wrapf(errors.ErrInvalidInput, "%s %q is not an absolute URL", u.name, u.value)
		}
	}
	return nil
}

// validateServer acepta "" (resolver del sistema), "host" o "host:port".
func validateServer(server string) error {
	if server == "" {
		return nil
	}
	host, port := server, ""
	if h, p, err := net.SplitHostPort(server); err == nil {
		host, port = h, p
		if !validator.IsPort(port) {
			return fmt.Errorf("invalid port %q", port)
		}
	}
	if !validator.IsIP(host) && !validator.IsDomain(host) && host != "localhost" {
		return fmt.Errorf("invalid host %q", host)
	}
	return nil
}

// Settings convierte la configuración en los ajustes compartidos por los lookups.
func (c Config) Settings() ports.LookupSettings {
	return ports.LookupSettings{
		UserAgent:     c.Lookups.UserAgent,
		HTTPTimeout:   time.Duration(c.Lookups.HTTPTimeoutS) * time.Second,
		Schemes:       append([]string{}, c.Lookups.Schemes...),
		DNSServer:     c.Lookups.DNSServer,
		TLSPort:       c.Lookups.TLSPort,
		WhoisServer:   c.Lookups.WhoisServer,
		RDAPBaseURL:   c.Lookups.RDAPURL,
		GeoBaseURL:    c.Lookups.GeoURL,
		AdminWordlist: c.Lookups.Wordlist,
		ProbeRate:     c.Lookups.ProbeRate,
	}
}

// Timeout devuelve el timeout por lookup como time.Duration.
func (c Config) Timeout() time.Duration {
	if c.Core.TimeoutS <= 0 {
		return 0
	}
	return time.Duration(c.Core.TimeoutS) * time.Second
}

// UIMode retorna el modo de presentación ya validado.
func (c Config) UIMode() ui.UIMode {
	mode, err := ui.ParseUIMode(c.Output.UI)
	if err != nil {
		return ui.UIModePretty
	}
	return mode
}

// LogLevel retorna el nivel de log configurado.
func (c Config) LogLevel() logx.Level {
	return logx.ParseLevel(c.Log.Level)
}

// ToYAML serializa la configuración efectiva (útil para debugging).
func (c Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Helpers

func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(EnvPrefix + key))
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}

func parseInt(key, v string, def int, errs *[]error) int {
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
		return def
	}
	return i
}
