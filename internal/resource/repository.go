package resource

import (
	"fmt"
	"strings"

	"github.com/pipewright/pipewright/internal/attr"
)

// TypeRepository is the resource type name for source repositories.
const TypeRepository = "git"

var repositorySchema = attr.NewSchema(
	attr.Spec{Name: "name", Doc: "logical name the variant refers to this repository by", Policy: attr.Optional, Type: "string"},
	attr.Spec{Name: "path", Doc: "hosting path in <org>/<repo> form", Policy: attr.Required, Type: "string"},
	attr.Spec{Name: "branch", Doc: "branch to check out", Policy: attr.Required, Type: "string"},
	attr.Spec{Name: "trigger", Doc: "whether head updates trigger the job", Policy: attr.Optional, Type: "bool"},
	attr.Spec{Name: "cfg_name", Doc: "deprecated alias for a credential selector", Policy: attr.Deprecated, Type: "string"},
)

// Repository is a declared source repository. The main repository of a
// variant triggers by default; additional repositories do not, unless their
// declaration says otherwise.
type Repository struct {
	cfg       *attr.Object
	logical   string
	qualifier string
	main      bool
	trigger   bool
}

// NewRepository builds a repository from its raw attribute map. main marks
// the variant's main repository, which changes the logical-name and trigger
// defaults.
func NewRepository(raw map[string]any, main bool) (*Repository, error) {
	logical := "main"
	if n, ok := raw["name"].(string); ok && n != "" {
		logical = n
	}
	cfg := attr.NewObject(fmt.Sprintf("repository %s", logical), repositorySchema, raw)

	r := &Repository{cfg: cfg, logical: logical, main: main, trigger: main}
	if v, ok := cfg.Get("trigger"); ok {
		b, isBool := v.(bool)
		if !isBool {
			return nil, fmt.Errorf("repository %s: attribute \"trigger\": expected bool, got %T", logical, v)
		}
		r.trigger = b
	}
	return r, nil
}

// Validate checks the raw declaration against the repository schema and the
// <org>/<repo> shape of path.
func (r *Repository) Validate() error {
	if err := r.cfg.Validate(); err != nil {
		return err
	}
	if parts := strings.Split(r.cfg.String("path"), "/"); len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("repository %s: attribute \"path\": expected <org>/<repo>, got %q", r.logical, r.cfg.String("path"))
	}
	return nil
}

// LogicalName returns the name the owning variant refers to this repository by.
func (r *Repository) LogicalName() string { return r.logical }

// Path returns the hosting path in <org>/<repo> form.
func (r *Repository) Path() string { return r.cfg.String("path") }

// Branch returns the branch to check out.
func (r *Repository) Branch() string { return r.cfg.String("branch") }

// IsMain reports whether this is the variant's main repository.
func (r *Repository) IsMain() bool { return r.main }

// ShouldTrigger reports whether head updates of this repository trigger the job.
func (r *Repository) ShouldTrigger() bool { return r.trigger }

// EnableTrigger turns triggering on. Used by the registry's duplicate merge;
// a trigger request from any variant must survive de-duplication.
func (r *Repository) EnableTrigger() { r.trigger = true }

// DisableTrigger turns triggering off for this variant's view of the
// repository (release and pull-request traits do this).
func (r *Repository) DisableTrigger() { r.trigger = false }

// Identifier implements Resource. BaseName is the path with the org/repo
// separator flattened so Name() stays a single dash-joined token.
func (r *Repository) Identifier() Identifier {
	return Identifier{
		Type:        TypeRepository,
		BaseName:    strings.ReplaceAll(r.cfg.String("path"), "/", "."),
		Qualifier:   r.qualifier,
		LogicalName: r.logical,
	}
}

// Clone returns a copy sharing no mutable state with the receiver. The
// compiler registers clones in the shared registry so cross-variant trigger
// merging never mutates a variant's own view of its repositories.
func (r *Repository) Clone() *Repository {
	clone := *r
	return &clone
}

// PublishShadow returns a copy of the repository qualified as a publish
// target. Shadows never trigger.
func (r *Repository) PublishShadow() *Repository {
	shadow := *r
	shadow.qualifier = "publish"
	shadow.trigger = false
	return &shadow
}
