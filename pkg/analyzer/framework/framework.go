// Package framework detects the project's web framework from its manifest
// and the architectural patterns visible in its files.
package framework

import (
	"github.com/panbanda/handover/pkg/analyzer/deps"
	"github.com/panbanda/handover/pkg/models"
)

// Framework names reported by Detect.
const (
	NestJS  = "NestJS"
	NextJS  = "Next.js"
	NuxtJS  = "Nuxt.js"
	React   = "React"
	VueJS   = "Vue.js"
	Angular = "Angular"
	Svelte  = "Svelte"
	Astro   = "Astro"
	Express = "Express"
	Fastify = "Fastify"
	Hapi    = "Hapi"
	Koa     = "Koa"
	Unknown = models.UnknownFramework
)

type rule struct {
	dependency string
	framework  string
}

// Meta-frameworks come before the libraries they build on.
var rules = []rule{
	{"@nestjs/core", NestJS},
	{"next", NextJS},
	{"nuxt", NuxtJS},
	{"react", React},
	{"vue", VueJS},
	{"@angular/core", Angular},
	{"svelte", Svelte},
	{"astro", Astro},
	{"express", Express},
	{"fastify", Fastify},
	{"hapi", Hapi},
	{"koa", Koa},
}

// Detect returns the first framework whose package is a production or
// development dependency, or Unknown.
func Detect(m deps.Manifest) string {
	for _, r := range rules {
		if m.Has(r.dependency) {
			return r.framework
		}
	}
	return Unknown
}

// IsFrontend reports whether name is a component-based UI framework.
func IsFrontend(name string) bool {
	switch name {
	case React, NextJS, VueJS, NuxtJS, Svelte:
		return true
	}
	return false
}

// IsServer reports whether name is a Node.js HTTP server framework.
func IsServer(name string) bool {
	switch name {
	case Express, Fastify, Hapi, Koa:
		return true
	}
	return false
}
