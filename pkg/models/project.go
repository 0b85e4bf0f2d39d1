package models

// UnknownFramework is reported when no framework signature matches.
const UnknownFramework = "Unknown"

// EdgeType represents the type of internal dependency.
type EdgeType string

const (
	EdgeImport EdgeType = "import"
)

// TodoType is the marker keyword of a TODO comment.
type TodoType string

const (
	TodoTODO  TodoType = "TODO"
	TodoFIXME TodoType = "FIXME"
	TodoHACK  TodoType = "HACK"
	TodoNOTE  TodoType = "NOTE"
)

// ProjectAnalysis aggregates the per-file models and every project-level
// fact derived from them. It is built once per run.
type ProjectAnalysis struct {
	ProjectName    string             `json:"project_name" toon:"project_name"`
	Framework      string             `json:"framework" toon:"framework"`
	TotalFiles     int                `json:"total_files" toon:"total_files"`
	TotalLines     int                `json:"total_lines" toon:"total_lines"`
	Languages      map[string]int     `json:"languages" toon:"languages"`
	Files          []FileAnalysis     `json:"files" toon:"files"`
	Dependencies   DependencyInfo     `json:"dependencies" toon:"dependencies"`
	Architecture   ArchitectureInfo   `json:"architecture" toon:"architecture"`
	Todos          []TodoItem         `json:"todos" toon:"todos"`
	EnvVars        []string           `json:"env_vars" toon:"env_vars"`
	APIRoutes      []APIRoute         `json:"api_routes" toon:"api_routes"`
	Database       DatabaseInfo       `json:"database" toon:"database"`
	Infrastructure InfrastructureInfo `json:"infrastructure" toon:"infrastructure"`
	Complexity     *ComplexitySummary `json:"complexity,omitempty" toon:"complexity,omitempty"`
	// Revision is the commit the files were read from when the analysis
	// ran against a git ref.
	Revision string `json:"revision,omitempty" toon:"revision,omitempty"`
}

// DependencyInfo holds manifest dependencies and internal import edges.
type DependencyInfo struct {
	Production  map[string]string `json:"production" toon:"production"`
	Development map[string]string `json:"development" toon:"development"`
	Internal    []DependencyEdge  `json:"internal" toon:"internal"`
	// Cycles lists strongly connected groups of resolved files.
	Cycles [][]string `json:"cycles,omitempty" toon:"cycles,omitempty"`
	// Hubs lists the files imported by the most other files.
	Hubs []ModuleHub `json:"hubs,omitempty" toon:"hubs,omitempty"`
}

// ModuleHub is a file with its fan-in and the files it imports in turn.
type ModuleHub struct {
	File    string   `json:"file" toon:"file"`
	FanIn   int      `json:"fan_in" toon:"fan_in"`
	Imports []string `json:"imports" toon:"imports"`
}

// DependencyEdge is one relative import. To is the raw specifier text.
type DependencyEdge struct {
	From string   `json:"from" toon:"from"`
	To   string   `json:"to" toon:"to"`
	Type EdgeType `json:"type" toon:"type"`
}

// ArchitectureInfo describes entry points, layers and detected patterns.
type ArchitectureInfo struct {
	EntryPoints []string `json:"entry_points" toon:"entry_points"`
	Layers      []Layer  `json:"layers" toon:"layers"`
	Patterns    []string `json:"patterns" toon:"patterns"`
}

// Layer is a named bucket of files.
type Layer struct {
	Name  string   `json:"name" toon:"name"`
	Files []string `json:"files" toon:"files"`
}

// TodoItem is a TODO-style marker comment.
type TodoItem struct {
	File string   `json:"file" toon:"file"`
	Line int      `json:"line" toon:"line"`
	Type TodoType `json:"type" toon:"type"`
	Text string   `json:"text" toon:"text"`
}

// APIRoute is a detected HTTP route declaration.
type APIRoute struct {
	Method    string `json:"method" toon:"method"`
	Path      string `json:"path" toon:"path"`
	File      string `json:"file" toon:"file"`
	Line      int    `json:"line" toon:"line"`
	Framework string `json:"framework" toon:"framework"`
}

// DatabaseInfo names the detected ORM or data backend.
type DatabaseInfo struct {
	Type       string   `json:"type" toon:"type"`
	Models     []string `json:"models" toon:"models"`
	SchemaFile string   `json:"schema_file,omitempty" toon:"schema_file,omitempty"`
}

// InfrastructureInfo summarizes containers, orchestration, IaC, CI and
// hosting platforms found in the project tree.
type InfrastructureInfo struct {
	Docker         DockerInfo     `json:"docker" toon:"docker"`
	Kubernetes     KubernetesInfo `json:"kubernetes" toon:"kubernetes"`
	IaC            IaCInfo        `json:"iac" toon:"iac"`
	CI             CIInfo         `json:"ci" toon:"ci"`
	CloudPlatforms []string       `json:"cloud_platforms" toon:"cloud_platforms"`
}

// DockerInfo describes container build and compose files.
type DockerInfo struct {
	HasDockerfile bool     `json:"has_dockerfile" toon:"has_dockerfile"`
	BaseImage     string   `json:"base_image,omitempty" toon:"base_image,omitempty"`
	HasCompose    bool     `json:"has_compose" toon:"has_compose"`
	Services      []string `json:"services" toon:"services"`
}

// KubernetesInfo describes orchestration manifests.
type KubernetesInfo struct {
	HasManifests bool `json:"has_manifests" toon:"has_manifests"`
	HasHelm      bool `json:"has_helm" toon:"has_helm"`
}

// IaCInfo flags infrastructure-as-code tooling.
type IaCInfo struct {
	Terraform bool `json:"terraform" toon:"terraform"`
	Pulumi    bool `json:"pulumi" toon:"pulumi"`
	CDK       bool `json:"cdk" toon:"cdk"`
}

// CIInfo lists CI providers and GitHub workflow files.
type CIInfo struct {
	Providers []string `json:"providers" toon:"providers"`
	Workflows []string `json:"workflows" toon:"workflows"`
}

// ComplexitySummary aggregates cyclomatic complexity over every function
// and method in the project.
type ComplexitySummary struct {
	Functions int                `json:"functions" toon:"functions"`
	Total     int                `json:"total" toon:"total"`
	Mean      float64            `json:"mean" toon:"mean"`
	Median    float64            `json:"median" toon:"median"`
	P90       float64            `json:"p90" toon:"p90"`
	Max       int                `json:"max" toon:"max"`
	Hotspots  []ComplexityRecord `json:"hotspots" toon:"hotspots"`
}

// ComplexityRecord locates one function's complexity.
type ComplexityRecord struct {
	File       string `json:"file" toon:"file"`
	Name       string `json:"name" toon:"name"`
	Line       int    `json:"line" toon:"line"`
	Complexity int    `json:"complexity" toon:"complexity"`
}
