package layers

import (
	"regexp"
	"slices"
	"strings"

	"github.com/panbanda/handover/pkg/analyzer/framework"
	"github.com/panbanda/handover/pkg/models"
)

var (
	nuxtConfig  = regexp.MustCompile(`nuxt\.config\.(ts|js)$`)
	astroConfig = regexp.MustCompile(`astro\.config\.(mjs|js|ts)$`)
	entryFile   = regexp.MustCompile(`(index|main|app|server|cli)\.(ts|js)$`)
)

// MaxEntryDepth is the deepest path, in segments, the fallback accepts.
const MaxEntryDepth = 2

// EntryPoints finds the files that bootstrap the application. Framework
// signatures are tried first; when they find nothing, shallow files named
// like index, main, app, server or cli are used.
func EntryPoints(files []models.FileAnalysis, fw string) []string {
	var found []string
	first := func(match func(*models.FileAnalysis) bool) {
		for i := range files {
			if match(&files[i]) {
				found = append(found, files[i].RelativePath)
				return
			}
		}
	}

	switch {
	case fw == framework.NestJS:
		first(contentHas("NestFactory.create"))
	case fw == framework.NextJS:
		for _, f := range files {
			if strings.HasPrefix(f.RelativePath, "pages/_app") || strings.HasPrefix(f.RelativePath, "app/layout") {
				found = append(found, f.RelativePath)
			}
		}
	case fw == framework.NuxtJS:
		first(pathMatches(nuxtConfig))
	case fw == framework.React, fw == framework.VueJS, fw == framework.Svelte:
		first(func(f *models.FileAnalysis) bool {
			return strings.Contains(f.RelativePath, "src/index") ||
				strings.Contains(f.RelativePath, "src/main") ||
				contentHas("createApp(", "new Vue(", "new App(")(f)
		})
	case fw == framework.Angular:
		first(contentHas("bootstrapModule("))
	case fw == framework.Astro:
		first(pathMatches(astroConfig))
	case framework.IsServer(fw):
		first(contentHas(".listen(", "Hapi.server(", "new Koa("))
	}

	if len(found) == 0 {
		for _, f := range files {
			if strings.Count(f.RelativePath, "/") < MaxEntryDepth && entryFile.MatchString(f.RelativePath) {
				found = append(found, f.RelativePath)
			}
		}
	}

	out := []string{}
	for _, p := range found {
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

func contentHas(subs ...string) func(*models.FileAnalysis) bool {
	return func(f *models.FileAnalysis) bool {
		for _, s := range subs {
			if strings.Contains(f.Content, s) {
				return true
			}
		}
		return false
	}
}

func pathMatches(re *regexp.Regexp) func(*models.FileAnalysis) bool {
	return func(f *models.FileAnalysis) bool {
		return re.MatchString(f.RelativePath)
	}
}
