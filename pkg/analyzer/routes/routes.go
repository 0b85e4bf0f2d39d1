// Package routes detects HTTP route declarations.
package routes

import (
	"regexp"
	"strings"

	"github.com/panbanda/handover/pkg/models"
)

// Framework labels attached to detected routes.
const (
	FrameworkExpress    = "Express/Fastify/Koa"
	FrameworkNest       = "NestJS"
	FrameworkHapi       = "Hapi"
	FrameworkNextPages  = "Next.js (Pages)"
	FrameworkNextApp    = "Next.js (App)"
	MethodAll           = "ALL"
	pagesAPIPrefix      = "pages/api/"
	appRouterFileSuffix = "/route"
)

type contentRule struct {
	pattern   *regexp.Regexp
	framework string
}

// Each pattern captures the method, then the path.
var contentRules = []contentRule{
	{regexp.MustCompile(`(?i)\.(get|post|put|delete|patch|options|head)\s*\(\s*['"]([^'"]+)['"]`), FrameworkExpress},
	{regexp.MustCompile(`@(Get|Post|Put|Delete|Patch|Options|Head)\s*\(\s*['"]([^'"]+)['"]\)`), FrameworkNest},
	{regexp.MustCompile(`(?i)method\s*:\s*['"](GET|POST|PUT|DELETE|PATCH|OPTIONS|HEAD)['"]\s*,\s*path\s*:\s*['"]([^'"]+)['"]`), FrameworkHapi},
}

var (
	scriptExt    = regexp.MustCompile(`\.(ts|js|tsx|jsx)$`)
	trailingIdx  = regexp.MustCompile(`/index$`)
	routeFile    = regexp.MustCompile(`(^|/)route\.(ts|js)$`)
	handlerVerbs = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"}
)

// Detect returns every route found in files, grouped by file in input
// order. Within a file, call-style routes come first, then decorators,
// then object literals, then file-system routes.
func Detect(files []models.FileAnalysis) []models.APIRoute {
	routes := []models.APIRoute{}
	for i := range files {
		routes = append(routes, DetectFile(&files[i])...)
	}
	return routes
}

// DetectFile returns the routes declared by one file.
func DetectFile(f *models.FileAnalysis) []models.APIRoute {
	var routes []models.APIRoute
	for _, r := range contentRules {
		for _, m := range r.pattern.FindAllStringSubmatchIndex(f.Content, -1) {
			routes = append(routes, models.APIRoute{
				Method:    strings.ToUpper(f.Content[m[2]:m[3]]),
				Path:      f.Content[m[4]:m[5]],
				File:      f.RelativePath,
				Line:      1 + strings.Count(f.Content[:m[0]], "\n"),
				Framework: r.framework,
			})
		}
	}

	lower := strings.ToLower(f.RelativePath)
	if strings.HasPrefix(lower, pagesAPIPrefix) {
		routes = append(routes, models.APIRoute{
			Method:    MethodAll,
			Path:      PagesRoutePath(f.RelativePath),
			File:      f.RelativePath,
			Line:      1,
			Framework: FrameworkNextPages,
		})
	}

	if isAppRouterFile(lower) {
		p := AppRoutePath(f.RelativePath)
		for _, verb := range handlerVerbs {
			if strings.Contains(f.Content, "export async function "+verb) || strings.Contains(f.Content, "export function "+verb) {
				routes = append(routes, models.APIRoute{
					Method:    verb,
					Path:      p,
					File:      f.RelativePath,
					Line:      1,
					Framework: FrameworkNextApp,
				})
			}
		}
	}
	return routes
}

// isAppRouterFile reports whether a lowercased path is a route.ts or
// route.js somewhere below an app/ directory.
func isAppRouterFile(lower string) bool {
	if !strings.HasSuffix(lower, appRouterFileSuffix+".ts") && !strings.HasSuffix(lower, appRouterFileSuffix+".js") {
		return false
	}
	return strings.HasPrefix(lower, "app/") || strings.Contains(lower, "/app/")
}

// PagesRoutePath maps a pages router file to its URL path:
// pages/api/users/index.ts serves /api/users.
func PagesRoutePath(rel string) string {
	p := strings.Replace(rel, "pages/", "", 1)
	p = scriptExt.ReplaceAllString(p, "")
	p = trailingIdx.ReplaceAllString(p, "")
	return "/" + p
}

// AppRoutePath maps an app router handler file to its URL path:
// app/api/users/route.ts serves /api/users.
func AppRoutePath(rel string) string {
	p := strings.Replace(rel, "app/", "", 1)
	p = routeFile.ReplaceAllString(p, "")
	return "/" + p
}
