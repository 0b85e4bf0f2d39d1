package mcpserver

// Tool descriptions with interpretation guidance for LLMs.
// Each description explains what the tool does, when to use it,
// how to interpret results, and what it returns.

func describeProject() string {
	return `Builds a structural model of a TypeScript or JavaScript project: framework, architecture layers, entry points, dependencies, HTTP routes, environment variables, data layer, infrastructure and complexity.

USE WHEN:
- Getting oriented in an unfamiliar codebase before making changes
- Writing onboarding or handover documentation
- Finding where requests enter the system and which layers they pass through
- Comparing the project at a git ref (ref argument) with the working tree

INTERPRETING RESULTS:
- framework is "Unknown" when no known package is listed in package.json
- layers group files by role, such as Controllers/Routes, Services/Business Logic, Data Access, Components, Pages and Hooks
- Core and Shared files are imported by many other files; changes there ripple widely
- dependencies.internal lists relative imports; cycles (depth comprehensive) are files that import each other
- api_routes come from Express-style, NestJS and Hapi declarations and Next.js file routes; method ALL means any method
- env_vars are names read through process.env, never their values
- complexity.hotspots are the functions with the highest cyclomatic complexity; above 10 is hard to test

METRICS RETURNED:
- Summary: project name, framework, file and line counts, language breakdown
- Architecture: entry points, layers, detected patterns
- Dependencies: production and development packages, internal import edges
- Routes, TODO comments, environment variables
- Data: database or ORM with model names; Docker, Kubernetes, IaC, CI and hosting platforms
- Complexity: mean, median, P90, max and hotspot functions (depth detailed or comprehensive)

Use section to fetch one part when the full result is too large.`
}

func describeFile() string {
	return `Extracts the structure of a single TypeScript or JavaScript file.

USE WHEN:
- Reading a file's API without reading all of its source
- Checking what a module imports and exports
- Finding the most complex functions in a file

INTERPRETING RESULTS:
- functions include exported and nested functions; class methods are listed under their class
- complexity is cyclomatic complexity, 1 for straight-line code
- parse_failed means the file could not be parsed; structure lists are empty
- files in other languages return only language and line count

METRICS RETURNED:
- Functions with parameters, return type, async flag, complexity and doc comment
- Classes with methods, properties, visibility, decorators, extends and implements
- Imports, exports, enums, interfaces and type aliases with line numbers`
}

func describeListFiles() string {
	return `Lists the source files handover would analyze, after include and exclude rules and .gitignore.

USE WHEN:
- Checking why a file is or is not part of an analysis
- Sizing a project before running analyze_project

INTERPRETING RESULTS:
- Paths are relative to the project root
- Generated output, dependencies and minified bundles are excluded by default

METRICS RETURNED:
- Root directory, file paths and a per-language file count`
}
