// Package database identifies the ORM or data backend a project uses and
// the models it declares.
package database

import (
	"log/slog"
	"path"
	"regexp"
	"strings"

	"github.com/panbanda/handover/pkg/models"
	"github.com/panbanda/handover/pkg/source"
)

// PrismaSchema is the schema file looked up at the project root.
const PrismaSchema = "prisma/schema.prisma"

// Backend names reported by Detect.
const (
	Prisma    = "Prisma"
	Drizzle   = "Drizzle ORM"
	TypeORM   = "TypeORM"
	Sequelize = "Sequelize"
	Mongoose  = "Mongoose"
	Knex      = "Knex.js (Query Builder)"
	Firestore = "Firebase Firestore"
	Supabase  = "Supabase (PostgreSQL)"
	Unknown   = "Unknown"
)

var (
	prismaModel    = regexp.MustCompile(`model\s+(\w+)\s+{`)
	drizzleTable   = regexp.MustCompile(`export const (\w+) = (pg|mysql|sqlite)Table\(`)
	sequelizeModel = regexp.MustCompile(`\.define\(['"](\w+)['"]`)
)

// Detector matches the project against an ordered list of signatures.
type Detector struct {
	src    source.ContentSource
	inv    *source.Inventory
	logger *slog.Logger
}

// Option is a functional option for configuring Detector.
type Option func(*Detector)

// WithLogger sets the logger for unreadable schema files.
func WithLogger(l *slog.Logger) Option {
	return func(d *Detector) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a detector reading schema files from src. inv lists the
// project's files; a nil inventory disables file-presence signatures.
func New(src source.ContentSource, inv *source.Inventory, opts ...Option) *Detector {
	d := &Detector{src: src, inv: inv, logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// signature reports whether a backend is in use and, if so, its models.
type signature struct {
	name   string
	detect func(d *Detector, files []models.FileAnalysis) (info models.DatabaseInfo, ok bool)
}

var signatures = []signature{
	{Prisma, (*Detector).prisma},
	{Drizzle, filesMatching(
		func(c string) bool {
			return strings.Contains(c, "pgTable(") || strings.Contains(c, "mysqlTable(") || strings.Contains(c, "sqliteTable(")
		},
		func(f *models.FileAnalysis) []string { return captures(drizzleTable, f.Content) },
	)},
	{TypeORM, filesMatching(
		func(c string) bool { return strings.Contains(c, "@Entity") },
		func(f *models.FileAnalysis) []string { return classNames(f, nil) },
	)},
	{Sequelize, filesMatching(
		func(c string) bool {
			return strings.Contains(c, "Sequelize") && (strings.Contains(c, ".define(") || strings.Contains(c, "extends Model"))
		},
		func(f *models.FileAnalysis) []string {
			names := captures(sequelizeModel, f.Content)
			return append(names, classNames(f, func(c models.ClassInfo) bool {
				return strings.Contains(f.Content, "class "+c.Name+" extends Model")
			})...)
		},
	)},
	{Mongoose, filesMatching(
		func(c string) bool { return strings.Contains(c, "new Schema") || strings.Contains(c, "mongoose.model") },
		func(f *models.FileAnalysis) []string { return []string{mongooseModelName(f.RelativePath)} },
	)},
	{Knex, contentAny(func(has func(string) bool) bool {
		return has("knex(") || has("knex.schema")
	})},
	{Firestore, contentAny(func(has func(string) bool) bool {
		return has("getFirestore(") || (has("initializeApp(") && has("firebase"))
	})},
	{Supabase, contentAny(func(has func(string) bool) bool {
		return has("createClient(") && has("@supabase/supabase-js")
	})},
}

// Detect returns the first matching backend, or Unknown with no models.
func (d *Detector) Detect(files []models.FileAnalysis) models.DatabaseInfo {
	for _, sig := range signatures {
		if info, ok := sig.detect(d, files); ok {
			info.Type = sig.name
			if info.Models == nil {
				info.Models = []string{}
			}
			return info
		}
	}
	return models.DatabaseInfo{Type: Unknown, Models: []string{}}
}

func (d *Detector) prisma(_ []models.FileAnalysis) (models.DatabaseInfo, bool) {
	if d.inv == nil || !d.inv.HasFile(PrismaSchema) {
		return models.DatabaseInfo{}, false
	}
	info := models.DatabaseInfo{SchemaFile: PrismaSchema}
	content, err := d.src.Read(PrismaSchema)
	if err != nil {
		d.logger.Warn("cannot read prisma schema", slog.String("path", PrismaSchema), slog.Any("error", err))
		return info, true
	}
	info.Models = captures(prismaModel, string(content))
	return info, true
}

// filesMatching builds a signature that holds when some file's content
// satisfies match, collecting models from every such file.
func filesMatching(match func(string) bool, extract func(*models.FileAnalysis) []string) func(*Detector, []models.FileAnalysis) (models.DatabaseInfo, bool) {
	return func(_ *Detector, files []models.FileAnalysis) (models.DatabaseInfo, bool) {
		var info models.DatabaseInfo
		found := false
		for i := range files {
			if !match(files[i].Content) {
				continue
			}
			found = true
			info.Models = append(info.Models, extract(&files[i])...)
		}
		return info, found
	}
}

// contentAny builds a signature over substring presence across all files.
func contentAny(cond func(has func(string) bool) bool) func(*Detector, []models.FileAnalysis) (models.DatabaseInfo, bool) {
	return func(_ *Detector, files []models.FileAnalysis) (models.DatabaseInfo, bool) {
		has := func(sub string) bool {
			for i := range files {
				if strings.Contains(files[i].Content, sub) {
					return true
				}
			}
			return false
		}
		return models.DatabaseInfo{}, cond(has)
	}
}

func captures(re *regexp.Regexp, content string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(content, -1) {
		out = append(out, m[1])
	}
	return out
}

func classNames(f *models.FileAnalysis, keep func(models.ClassInfo) bool) []string {
	var out []string
	for _, c := range f.Classes {
		if keep == nil || keep(c) {
			out = append(out, c.Name)
		}
	}
	return out
}

// mongooseModelName names a schema file's model after the file, dropping
// the first .ts and .js it contains.
func mongooseModelName(rel string) string {
	name := path.Base(rel)
	name = strings.Replace(name, ".ts", "", 1)
	name = strings.Replace(name, ".js", "", 1)
	if name == "" {
		return Unknown
	}
	return name
}
