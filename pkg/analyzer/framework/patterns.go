package framework

import (
	"slices"
	"strings"

	"github.com/panbanda/handover/pkg/analyzer/deps"
	"github.com/panbanda/handover/pkg/models"
)

// Signals is the project view pattern rules match against.
type Signals struct {
	Files    []models.FileAnalysis
	Manifest deps.Manifest

	lowerPaths []string
}

// NewSignals prepares files and manifest for rule matching.
func NewSignals(files []models.FileAnalysis, m deps.Manifest) *Signals {
	s := &Signals{Files: files, Manifest: m, lowerPaths: make([]string, len(files))}
	for i, f := range files {
		s.lowerPaths[i] = strings.ToLower(f.RelativePath)
	}
	return s
}

// PathContains reports whether any lower-cased relative path contains sub.
func (s *Signals) PathContains(sub string) bool {
	for _, p := range s.lowerPaths {
		if strings.Contains(p, sub) {
			return true
		}
	}
	return false
}

// ContentContains reports whether any file's content contains sub.
func (s *Signals) ContentContains(sub string) bool {
	for i := range s.Files {
		if strings.Contains(s.Files[i].Content, sub) {
			return true
		}
	}
	return false
}

// PatternRule names a pattern and the condition that reveals it.
type PatternRule struct {
	Pattern string
	Match   func(*Signals) bool
}

// PatternRules are evaluated independently; several rules may name the
// same pattern.
var PatternRules = []PatternRule{
	{"MVC/Controller Pattern", pathAny("controller")},
	{"Service Layer Pattern", pathAny("service")},
	{"Repository Pattern", pathAny("repository")},
	{"Middleware Pattern", pathAny("middleware")},
	{"Adapter/Provider Pattern", pathAny("provider", "adapter")},
	{"Facade Pattern", pathAny("facade")},
	{"Decorator Pattern", pathAny("decorator")},
	{"Strategy Pattern", pathAny("strategy")},
	{"Domain-Driven Design (DDD)", pathAny("/domain/", "/aggregates/", "/value-objects/")},
	{"Clean/Hexagonal Architecture", pathAny("/use-cases/", "/entities/", "/gateways/")},
	{"CQRS Pattern", func(s *Signals) bool {
		return s.PathContains("/commands/") && s.PathContains("/queries/")
	}},
	{"Event-Driven Microservices", func(s *Signals) bool {
		if !s.PathContains("/microservices/") && !s.PathContains("/services/") {
			return false
		}
		return s.Manifest.HasProduction("amqplib") ||
			s.Manifest.HasProduction("kafkajs") ||
			s.Manifest.HasProduction("@nestjs/microservices")
	}},

	{"GraphQL API", func(s *Signals) bool {
		return s.ContentContains("ApolloServer") || s.ContentContains("graphql-yoga") || s.PathContains(".graphql")
	}},
	{"Serverless/Functions", func(s *Signals) bool {
		return s.ContentContains("Handler") && (s.ContentContains("Lambda") || s.ContentContains("Context"))
	}},
	{"Dependency Injection", contentAny("@Injectable", "Container.get", "Inversify")},

	{"Singleton Pattern", anyClass(func(_ *models.FileAnalysis, c *models.ClassInfo) bool {
		return slices.ContainsFunc(c.Properties, func(p models.PropertyInfo) bool {
			return p.Name == "instance" && p.Visibility == models.VisibilityPrivate
		})
	})},
	{"Factory Pattern", anyClass(func(f *models.FileAnalysis, c *models.ClassInfo) bool {
		if !strings.Contains(c.Name, "Factory") && !strings.Contains(f.RelativePath, "factory") {
			return false
		}
		return slices.ContainsFunc(c.Methods, func(m models.MethodInfo) bool {
			return strings.HasPrefix(m.Name, "create") && m.ReturnType != "" && m.ReturnType != "void"
		})
	})},
	{"Observer/PubSub Pattern", anyClass(func(f *models.FileAnalysis, _ *models.ClassInfo) bool {
		return strings.Contains(f.Content, "EventEmitter") ||
			strings.Contains(f.Content, "subscribe") ||
			strings.Contains(f.Content, "Observable")
	})},
	{"Decorator Pattern", anyClass(func(f *models.FileAnalysis, _ *models.ClassInfo) bool {
		return strings.Contains(f.Content, "@")
	})},
	{"Modular Architecture", func(s *Signals) bool {
		return slices.ContainsFunc(s.Files, func(f models.FileAnalysis) bool {
			return len(f.Imports) > 0 && len(f.Exports) > 0
		})
	}},
}

func pathAny(subs ...string) func(*Signals) bool {
	return func(s *Signals) bool {
		return slices.ContainsFunc(subs, s.PathContains)
	}
}

func contentAny(subs ...string) func(*Signals) bool {
	return func(s *Signals) bool {
		return slices.ContainsFunc(subs, s.ContentContains)
	}
}

// anyClass matches when fn holds for some class in some file.
func anyClass(fn func(*models.FileAnalysis, *models.ClassInfo) bool) func(*Signals) bool {
	return func(s *Signals) bool {
		for i := range s.Files {
			f := &s.Files[i]
			for j := range f.Classes {
				if fn(f, &f.Classes[j]) {
					return true
				}
			}
		}
		return false
	}
}

// DetectPatterns returns the de-duplicated names of every pattern whose
// rule matches, sorted alphabetically ignoring case.
func DetectPatterns(files []models.FileAnalysis, m deps.Manifest) []string {
	s := NewSignals(files, m)
	patterns := []string{}
	for _, r := range PatternRules {
		if !slices.Contains(patterns, r.Pattern) && r.Match(s) {
			patterns = append(patterns, r.Pattern)
		}
	}
	slices.SortFunc(patterns, compareFold)
	return patterns
}

// compareFold orders names case-insensitively, falling back to byte order
// for names that differ only in case.
func compareFold(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
