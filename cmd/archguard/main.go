package main

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/roblaszczak/go-cleanarch/cleanarch"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// config mirrors .gocleanarch.yml at the repository root.
type config struct {
	Root              string   `yaml:"root"`
	IgnoreTests       bool     `yaml:"ignore_tests"`
	IgnorePackages    []string `yaml:"ignore_packages"`
	SharedModules     []string `yaml:"shared_modules"`
	AllowedViolations []string `yaml:"allow_violations"`
	Aliases           aliases  `yaml:"aliases"`
}

type aliases struct {
	Domain         []string `yaml:"domain"`
	Application    []string `yaml:"application"`
	Interfaces     []string `yaml:"interfaces"`
	Infrastructure []string `yaml:"infrastructure"`
}

var (
	defaultDomainAliases         = []string{"domain"}
	defaultApplicationAliases    = []string{"services", "application"}
	defaultInterfacesAliases     = []string{"interfaces", "adapters"}
	defaultInfrastructureAliases = []string{"infrastructure"}
)

func main() {
	var (
		configPath = flag.String("config", ".gocleanarch.yml", "path to the layer rules file")
		debug      = flag.Bool("debug", false, "print go-cleanarch debug output")
	)
	flag.Parse()

	log := logrus.New()
	log.SetOutput(os.Stderr)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.WithError(err).Fatal("read config")
	}
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		log.WithError(err).Fatal("resolve root")
	}
	if *debug {
		cleanarch.Log.SetOutput(os.Stderr)
	}

	validator := cleanarch.NewValidator(cfg.layers())
	ok, errs, err := validator.Validate(root, cfg.IgnoreTests, cfg.IgnorePackages)
	if err != nil {
		log.WithError(err).Fatal("go-cleanarch failed")
	}

	failed := 0
	for _, verr := range errs {
		if cfg.allowed(verr.Error()) {
			continue
		}
		failed++
		log.Error(verr.Error())
	}
	if !ok && failed > 0 {
		log.WithField("violations", failed).Error("layer check failed")
		os.Exit(1)
	}
	log.Info("layer check passed")
}

func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Root) == "" {
		cfg.Root = "."
	}
	return cfg, nil
}

// layers maps directory names to clean-architecture layers. Configured aliases replace the
// defaults per layer.
func (c *config) layers() map[string]cleanarch.Layer {
	out := map[string]cleanarch.Layer{}
	add := func(custom, defaults []string, layer cleanarch.Layer) {
		candidates := defaults
		if len(custom) > 0 {
			candidates = custom
		}
		for _, alias := range candidates {
			if alias != "" {
				out[alias] = layer
			}
		}
	}
	add(c.Aliases.Domain, defaultDomainAliases, cleanarch.LayerDomain)
	add(c.Aliases.Application, defaultApplicationAliases, cleanarch.LayerApplication)
	add(c.Aliases.Interfaces, defaultInterfacesAliases, cleanarch.LayerInterfaces)
	add(c.Aliases.Infrastructure, defaultInfrastructureAliases, cleanarch.LayerInfrastructure)
	return out
}

var crossModulePattern = regexp.MustCompile(`between ([\w-]+) and ([\w-]+) modules`)

// allowed reports whether a violation message is tolerated: either it crosses into a shared
// module or it matches an allow_violations entry.
func (c *config) allowed(msg string) bool {
	if m := crossModulePattern.FindStringSubmatch(msg); len(m) == 3 {
		for _, shared := range c.SharedModules {
			shared = strings.TrimSpace(shared)
			if shared != "" && (shared == m[1] || shared == m[2]) {
				return true
			}
		}
	}
	for _, pattern := range c.AllowedViolations {
		if pattern != "" && strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
