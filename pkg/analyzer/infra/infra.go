// Package infra detects container, orchestration, infrastructure-as-code,
// CI and hosting configuration from the files present in a project.
package infra

import (
	"bytes"
	"log/slog"
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/panbanda/handover/pkg/models"
	"github.com/panbanda/handover/pkg/source"
	"gopkg.in/yaml.v3"
)

var (
	fromLine       = regexp.MustCompile(`FROM\s+([^\s]+)`)
	composeService = regexp.MustCompile(`(?m)^\s{2}(\w+):`)
)

// Detector inspects a project inventory.
type Detector struct {
	src    source.ContentSource
	inv    *source.Inventory
	logger *slog.Logger
}

// Option is a functional option for configuring Detector.
type Option func(*Detector)

// WithLogger sets the logger for unreadable or malformed files.
func WithLogger(l *slog.Logger) Option {
	return func(d *Detector) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a detector over inv, reading file content from src.
func New(src source.ContentSource, inv *source.Inventory, opts ...Option) *Detector {
	d := &Detector{src: src, inv: inv, logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Glob returns the inventory files matching any of the gitignore-style
// patterns, shallowest first and then by path. Paths through a dot
// directory only match patterns that themselves start with a dot.
func (d *Detector) Glob(patterns ...string) []string {
	parsed := make([]gitignore.Pattern, len(patterns))
	for i, p := range patterns {
		parsed[i] = gitignore.ParsePattern(p, nil)
	}
	dotted := slices.ContainsFunc(patterns, func(p string) bool { return strings.HasPrefix(p, ".") })

	var out []string
	for _, f := range d.inv.Files {
		segs := strings.Split(f, "/")
		if !dotted && slices.ContainsFunc(segs, func(s string) bool { return strings.HasPrefix(s, ".") }) {
			continue
		}
		for _, p := range parsed {
			if p.Match(segs, false) == gitignore.Exclude {
				out = append(out, f)
				break
			}
		}
	}
	slices.SortStableFunc(out, func(a, b string) int {
		return strings.Count(a, "/") - strings.Count(b, "/")
	})
	return out
}

// Detect collects every infrastructure fact.
func (d *Detector) Detect() models.InfrastructureInfo {
	info := models.InfrastructureInfo{
		Docker:         d.docker(),
		CI:             d.ci(),
		CloudPlatforms: d.cloud(),
	}
	info.Kubernetes = models.KubernetesInfo{
		HasManifests: len(d.Glob(
			"**/deployment/*.yml", "**/deployment/*.yaml",
			"**/service/*.yml", "**/service/*.yaml",
			"**/ingress/*.yml", "**/ingress/*.yaml",
			"**/k8s/*.yml", "**/k8s/*.yaml",
		)) > 0,
		HasHelm: len(d.Glob("**/Chart.yaml")) > 0,
	}
	info.IaC = models.IaCInfo{
		Terraform: len(d.Glob("**/*.tf")) > 0,
		Pulumi:    len(d.Glob("**/Pulumi.yaml")) > 0,
		CDK:       len(d.Glob("**/cdk.json")) > 0,
	}
	return info
}

func (d *Detector) docker() models.DockerInfo {
	info := models.DockerInfo{Services: []string{}}

	if dockerfiles := d.Glob("**/Dockerfile"); len(dockerfiles) > 0 {
		info.HasDockerfile = true
		if content, ok := d.read(dockerfiles[0]); ok {
			info.BaseImage = BaseImage(content)
		}
	}

	if compose := d.Glob("**/docker-compose.yml", "**/docker-compose.yaml"); len(compose) > 0 {
		info.HasCompose = true
		if content, ok := d.read(compose[0]); ok {
			services, err := ComposeServices(content)
			if err != nil {
				d.logger.Debug("compose file is not valid YAML", slog.String("path", compose[0]), slog.Any("error", err))
			}
			info.Services = append(info.Services, services...)
		}
	}
	return info
}

func (d *Detector) read(p string) ([]byte, bool) {
	content, err := d.src.Read(p)
	if err != nil {
		d.logger.Warn("cannot read infrastructure file", slog.String("path", p), slog.Any("error", err))
		return nil, false
	}
	return content, true
}

// BaseImage returns the image named by the first FROM instruction.
func BaseImage(dockerfile []byte) string {
	if m := fromLine.FindSubmatch(dockerfile); m != nil {
		return string(m[1])
	}
	return ""
}

// ComposeServices returns the keys of the top-level services mapping in
// document order. Content that is not valid YAML falls back to every key
// indented by two spaces, and the parse error is returned alongside.
func ComposeServices(content []byte) ([]string, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(content)).Decode(&doc); err != nil {
		var names []string
		for _, m := range composeService.FindAllSubmatch(content, -1) {
			names = append(names, string(m[1]))
		}
		return names, err
	}

	var names []string
	services := mappingValue(&doc, "services")
	if services == nil || services.Kind != yaml.MappingNode {
		return names, nil
	}
	for i := 0; i+1 < len(services.Content); i += 2 {
		names = append(names, services.Content[i].Value)
	}
	return names, nil
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil
		}
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

type ciRule struct {
	file     string
	provider string
}

var ciRules = []ciRule{
	{".gitlab-ci.yml", "GitLab CI"},
	{"azure-pipelines.yml", "Azure Pipelines"},
	{"bitbucket-pipelines.yml", "Bitbucket Pipelines"},
	{"Jenkinsfile", "Jenkins"},
}

func (d *Detector) ci() models.CIInfo {
	info := models.CIInfo{Providers: []string{}, Workflows: []string{}}

	if workflows := d.Glob(".github/workflows/*.yml", ".github/workflows/*.yaml"); len(workflows) > 0 {
		info.Providers = append(info.Providers, "GitHub Actions")
		for _, w := range workflows {
			info.Workflows = append(info.Workflows, path.Base(w))
		}
		slices.Sort(info.Workflows)
	}
	for _, r := range ciRules {
		if d.inv.HasFile(r.file) {
			info.Providers = append(info.Providers, r.provider)
		}
	}
	return info
}

// cloudRule names a platform and the files or directories marking it.
type cloudRule struct {
	platform string
	markers  []string
}

var cloudRules = []cloudRule{
	{"Vercel", []string{"vercel.json", ".vercel"}},
	{"Netlify", []string{"netlify.toml", ".netlify"}},
	{"Serverless Framework", []string{"serverless.yml"}},
	{"Firebase", []string{"firebase.json"}},
}

func (d *Detector) cloud() []string {
	platforms := []string{}
	for _, r := range cloudRules {
		if slices.ContainsFunc(r.markers, d.inv.Exists) {
			platforms = append(platforms, r.platform)
		}
	}
	return platforms
}
