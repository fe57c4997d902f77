package skillset

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/agentskills/skillcheck/pkg/logger"
)

// Discovery reads skill directories off disk and hands the loader in-memory
// file maps. The loader itself never touches the filesystem.
type Discovery struct {
	roots []string
}

// DiscoveryOption is a function that configures a Discovery
type DiscoveryOption func(*Discovery) error

// WithRoots sets the skills root directories to scan. Earlier roots take
// precedence when the same skill directory name appears in more than one.
func WithRoots(roots ...string) DiscoveryOption {
	return func(d *Discovery) error {
		if len(roots) == 0 {
			return errors.New("at least one skills root must be specified")
		}
		d.roots = roots
		return nil
	}
}

// NewDiscovery creates a new skill discovery instance
func NewDiscovery(opts ...DiscoveryOption) (*Discovery, error) {
	d := &Discovery{}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	if len(d.roots) == 0 {
		d.roots = []string{"skills"}
	}
	return d, nil
}

// Collect reads every skill directory under the configured roots into memory.
// Per-file read failures are accumulated and returned alongside the results;
// a partial collection is still usable.
func (d *Discovery) Collect(ctx context.Context) (map[string]DirContents, error) {
	dirs := make(map[string]DirContents)
	var errs *multierror.Error

	for _, root := range d.roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "failed to read skills root '%s'", root))
			continue
		}

		for _, entry := range entries {
			entryPath := filepath.Join(root, entry.Name())

			// Stat follows symlinks so a linked skill directory still counts.
			info, err := os.Stat(entryPath)
			if err != nil || !info.IsDir() {
				continue
			}

			if _, exists := dirs[entry.Name()]; exists {
				continue
			}

			contents, err := collectSkillDir(entryPath)
			if err != nil {
				errs = multierror.Append(errs, errors.Wrapf(err, "failed to read skill directory '%s'", entryPath))
				continue
			}

			logger.G(ctx).WithField("dir", entryPath).WithField("files", len(contents)).Debug("collected skill directory")
			dirs[entry.Name()] = contents
		}
	}

	return dirs, errs.ErrorOrNil()
}

// collectSkillDir reads the documents of one skill directory: SKILL.md,
// AGENTS.md when present, and any rules/*.md.
func collectSkillDir(dir string) (DirContents, error) {
	contents := DirContents{}
	var errs *multierror.Error

	for _, name := range []string{SkillFileName, GuideFileName} {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if !os.IsNotExist(err) {
				errs = multierror.Append(errs, errors.Wrapf(err, "failed to read %s", name))
			}
			continue
		}
		contents[name] = string(raw)
	}

	ruleFiles, err := doublestar.Glob(os.DirFS(dir), ruleFilePattern)
	if err != nil {
		errs = multierror.Append(errs, errors.Wrap(err, "failed to glob rule files"))
	}
	for _, name := range ruleFiles {
		raw, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "failed to read %s", name))
			continue
		}
		contents[name] = string(raw)
	}

	return contents, errs.ErrorOrNil()
}
