package projects

import (
	"context"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"dailies/internal/fileutil"
	"dailies/internal/media"
	"dailies/internal/services"
)

// FallbackCodeword is used when no explicit codeword, card label, or active
// project yields one.
const FallbackCodeword = "import"

// SessionState is the slice of the session store the resolver needs.
type SessionState interface {
	ActiveProject(ctx context.Context) (string, error)
	SetActiveProject(ctx context.Context, name string) error
}

// Resolver decides which project footage belongs to and creates it on disk.
type Resolver struct {
	root    string
	session SessionState

	now       func() time.Time
	readLabel func(ctx context.Context, path string) (string, bool)
}

// NewResolver builds a resolver rooted at projectsRoot.
func NewResolver(projectsRoot string, session SessionState) *Resolver {
	return &Resolver{
		root:      projectsRoot,
		session:   session,
		now:       time.Now,
		readLabel: media.ReadVolumeLabel,
	}
}

// WithClock overrides time resolution (for testing).
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// WithLabelReader overrides the volume label reader (for testing).
func (r *Resolver) WithLabelReader(read func(ctx context.Context, path string) (string, bool)) *Resolver {
	r.readLabel = read
	return r
}

// Resolve picks the project codeword by priority: explicit codeword, source
// volume label, active project's codeword prefix, then the literal fallback.
// The project name is "{codeword}-{YYYYMMDD}_Import" for the resolution
// date; an existing directory of that name is reused. The resolved project
// becomes the session's active project.
func (r *Resolver) Resolve(ctx context.Context, sourcePath, explicitCodeword string) (*Project, error) {
	codeword := sanitizeCodeword(explicitCodeword)

	if codeword == "" && r.readLabel != nil {
		// Label reads are best-effort; failures fall through silently.
		if label, ok := r.readLabel(ctx, sourcePath); ok {
			codeword = sanitizeCodeword(label)
		}
	}

	if codeword == "" && r.session != nil {
		if active, err := r.session.ActiveProject(ctx); err == nil && active != "" {
			if idx := strings.Index(active, "-"); idx > 0 {
				codeword = sanitizeCodeword(active[:idx])
			}
		}
	}

	if codeword == "" {
		codeword = FallbackCodeword
	}

	name := codeword + "-" + r.now().Format("20060102") + "_Import"
	project := &Project{Name: name, Root: filepath.Join(r.root, name)}

	if !fileutil.Exists(project.Root) {
		if err := fileutil.EnsureDir(project.Root); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "resolve-project", "create", project.Root, err)
		}
	}
	if err := project.EnsureLayout(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "resolve-project", "layout", project.Root, err)
	}

	if r.session != nil {
		if err := r.session.SetActiveProject(ctx, name); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "resolve-project", "set active project", "", err)
		}
	}
	return project, nil
}

// sanitizeCodeword lowercases and strips everything but letters and digits
// so codewords are safe in directory and file names.
func sanitizeCodeword(value string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(value) {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsDigit(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}
