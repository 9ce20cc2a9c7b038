// Package config loads and validates veldt.json, the per-project
// configuration file.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/veldt-dev/veldt/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "veldt.json"

	// DefaultPort is the default development server port.
	DefaultPort = 3000

	// DefaultHost is the default development server host.
	DefaultHost = "localhost"

	// DefaultOutput is the default build output directory.
	DefaultOutput = "dist"

	// DefaultPkgPrefix is the default URL prefix the client bundle is
	// served under.
	DefaultPkgPrefix = "/pkg"
)

// Config represents the complete veldt.json configuration.
type Config struct {
	// Name is the project name. It doubles as the default output name
	// for the client bundle.
	Name string `json:"name,omitempty"`

	// Version is the project version.
	Version string `json:"version,omitempty"`

	// Site contains site-wide settings shared by the worker and the
	// build.
	Site SiteConfig `json:"site,omitempty"`

	// Static contains static file serving configuration.
	Static StaticConfig `json:"static,omitempty"`

	// Dev contains development server configuration.
	Dev DevConfig `json:"dev,omitempty"`

	// Build contains production build configuration.
	Build BuildConfig `json:"build,omitempty"`

	// Deploy contains bucket deployment configuration.
	Deploy DeployConfig `json:"deploy,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// SiteConfig contains site-wide settings.
type SiteConfig struct {
	// OutputName is the base name of the client bundle. Defaults to
	// the project name.
	OutputName string `json:"outputName,omitempty"`

	// PkgDir is the directory within the build output that holds the
	// client bundle and its assets.
	PkgDir string `json:"pkgDir,omitempty"`

	// PkgPrefix is the URL prefix the bundle is served under.
	PkgPrefix string `json:"pkgPrefix,omitempty"`

	// ExcludedRoutes are page paths the worker should not mount.
	ExcludedRoutes []string `json:"excludedRoutes,omitempty"`
}

// StaticConfig contains static file serving configuration.
type StaticConfig struct {
	// Dir is the directory containing static files.
	Dir string `json:"dir,omitempty"`

	// Prefix is the URL prefix for static files (default: "/").
	Prefix string `json:"prefix,omitempty"`
}

// DevConfig contains development server settings.
type DevConfig struct {
	// Port is the port to run the dev server on.
	Port int `json:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Watch contains paths to watch for changes.
	Watch []string `json:"watch,omitempty"`

	// Ignore contains patterns to ignore during watch.
	Ignore []string `json:"ignore,omitempty"`

	// HotReload enables hot reload in development.
	HotReload bool `json:"hotReload,omitempty"`
}

// Build targets for the worker pass.
const (
	// TargetNative compiles the worker for the host platform.
	TargetNative = "native"

	// TargetWorkerWasm compiles the worker itself to js/wasm for
	// runtimes that execute the server as a WebAssembly module.
	TargetWorkerWasm = "worker-wasm"
)

// BuildConfig contains production build settings.
type BuildConfig struct {
	// Output is the output directory for builds.
	Output string `json:"output,omitempty"`

	// Target selects what the worker pass produces: "native" or
	// "worker-wasm". The client pass is always js/wasm.
	Target string `json:"target,omitempty"`

	// Minify strips debug symbols from binaries (-ldflags="-s -w").
	Minify bool `json:"minify,omitempty"`

	// LDFlags are additional linker flags for go build.
	LDFlags string `json:"ldflags,omitempty"`

	// Tags are build tags to pass to go build.
	Tags []string `json:"tags,omitempty"`
}

// DeployConfig contains bucket deployment settings.
type DeployConfig struct {
	// Bucket is the S3-compatible bucket the site deploys to.
	Bucket string `json:"bucket,omitempty"`

	// Prefix namespaces the site's objects within the bucket.
	Prefix string `json:"prefix,omitempty"`

	// Region is the bucket's region.
	Region string `json:"region,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Version: "0.1.0",
		Site: SiteConfig{
			PkgDir:    "pkg",
			PkgPrefix: DefaultPkgPrefix,
		},
		Static: StaticConfig{
			Dir:    "public",
			Prefix: "/",
		},
		Dev: DevConfig{
			Port:      DefaultPort,
			Host:      DefaultHost,
			HotReload: true,
			Watch:     []string{"app", "client", "public"},
		},
		Build: BuildConfig{
			Output: DefaultOutput,
			Target: TargetNative,
			Minify: true,
		},
	}
}

// Load reads configuration from the specified directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").
				WithDetail("No veldt.json found in " + filepath.Dir(path)).
				WithSuggestion("Run 'veldt create' to create a new project or create veldt.json manually")
		}
		return nil, errors.FromError(err, "E101")
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E101").
			WithDetail("Failed to parse veldt.json: " + err.Error()).
			WithSuggestion("Check that veldt.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.FromError(err, "E101")
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.FromError(err, "E101")
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Site.OutputName == "" {
		c.Site.OutputName = c.Name
	}
	if c.Site.PkgDir == "" {
		c.Site.PkgDir = "pkg"
	}
	if c.Site.PkgPrefix == "" {
		c.Site.PkgPrefix = DefaultPkgPrefix
	}

	if c.Dev.Port == 0 {
		c.Dev.Port = DefaultPort
	}
	if c.Dev.Host == "" {
		c.Dev.Host = DefaultHost
	}
	if c.Dev.Watch == nil {
		c.Dev.Watch = []string{"app", "client", "public"}
	}

	if c.Build.Output == "" {
		c.Build.Output = DefaultOutput
	}
	if c.Build.Target == "" {
		c.Build.Target = TargetNative
	}

	if c.Static.Dir == "" {
		c.Static.Dir = "public"
	}
	if c.Static.Prefix == "" {
		c.Static.Prefix = "/"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Dev.Port < 0 || c.Dev.Port > 65535 {
		return errors.New("E102").
			WithDetail("dev.port must be between 0 and 65535")
	}
	if c.Site.OutputName == "" {
		return errors.New("E103").
			WithDetail("Either name or site.outputName must be set; it names the client bundle").
			WithSuggestion(`Add "name": "myapp" to veldt.json`)
	}
	if c.Build.Target != TargetNative && c.Build.Target != TargetWorkerWasm {
		return errors.New("E102").
			WithDetail("build.target must be " + TargetNative + " or " + TargetWorkerWasm + ", got " + strconv.Quote(c.Build.Target))
	}
	return nil
}

// DevAddress returns the address string for the dev server.
func (c *Config) DevAddress() string {
	return c.Dev.Host + ":" + strconv.Itoa(c.Dev.Port)
}

// DevURL returns the full URL for the dev server.
func (c *Config) DevURL() string {
	return "http://" + c.DevAddress()
}

// OutputPath returns the absolute path to the build output directory.
func (c *Config) OutputPath() string {
	if filepath.IsAbs(c.Build.Output) {
		return c.Build.Output
	}
	return filepath.Join(c.Dir(), c.Build.Output)
}

// PkgPath returns the absolute path to the bundle directory inside
// the build output.
func (c *Config) PkgPath() string {
	return filepath.Join(c.OutputPath(), c.Site.PkgDir)
}

// PublicPath returns the absolute path to the public directory.
func (c *Config) PublicPath() string {
	if filepath.IsAbs(c.Static.Dir) {
		return c.Static.Dir
	}
	return filepath.Join(c.Dir(), c.Static.Dir)
}

// ManifestPath returns the absolute path to the asset manifest the
// build writes.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.OutputPath(), "manifest.json")
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing veldt.json, or an error.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E100").
				WithDetail("No veldt.json found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'veldt create' to create a new project")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working
// directory, walking up to the project root.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
