package harvester

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/otwartedane/mcod/pkg/logging"
	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/server/store"
)

// SourcesFile is the YAML document listing data sources
type SourcesFile struct {
	Sources []SourceSpec `yaml:"sources"`
}

// SourceSpec describes one data source
type SourceSpec struct {
	Name                            string `yaml:"name"`
	Description                     string `yaml:"description"`
	Type                            string `yaml:"type"`
	APIURL                          string `yaml:"api_url"`
	XMLURL                          string `yaml:"xml_url"`
	DCATURL                         string `yaml:"dcat_url"`
	Organization                    string `yaml:"organization"`
	FrequencyInDays                 int    `yaml:"frequency_in_days"`
	Active                          *bool  `yaml:"active"`
	LicenseConditionDBOrCopyrighted string `yaml:"license_condition_db_or_copyrighted"`
	Emails                          string `yaml:"emails"`
}

// OrganizationResolver maps organization slugs to ids
type OrganizationResolver interface {
	OrganizationIDs(ctx context.Context, slugs []string) (map[string]uint, error)
}

// ParseSources decodes and checks a sources document
func ParseSources(r io.Reader) (*SourcesFile, error) {
	var f SourcesFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing sources: %w", err)
	}

	names := map[string]bool{}
	for i, s := range f.Sources {
		if strings.TrimSpace(s.Name) == "" {
			return nil, fmt.Errorf("source %d: name is required", i+1)
		}
		if names[s.Name] {
			return nil, fmt.Errorf("source %q: duplicate name", s.Name)
		}
		names[s.Name] = true
		if _, err := model.SourceTypeString(s.Type); err != nil {
			return nil, fmt.Errorf("source %q: unknown type %q", s.Name, s.Type)
		}
		if s.FrequencyInDays < 0 {
			return nil, fmt.Errorf("source %q: frequency_in_days must not be negative", s.Name)
		}
	}
	return &f, nil
}

// LoadSources reads a sources document from a file
func LoadSources(path string) (*SourcesFile, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return ParseSources(fh)
}

// Apply upserts the sources by name and returns the stored sources
func (f *SourcesFile) Apply(ctx context.Context, sources store.DataSourcesStore, orgs OrganizationResolver) ([]model.DataSource, error) {
	var slugs []string
	for _, s := range f.Sources {
		if s.Organization != "" {
			slugs = append(slugs, s.Organization)
		}
	}
	ids, err := orgs.OrganizationIDs(ctx, slugs)
	if err != nil {
		return nil, fmt.Errorf("resolving organizations: %w", err)
	}

	saved := make([]model.DataSource, 0, len(f.Sources))
	for _, s := range f.Sources {
		typ, _ := model.SourceTypeString(s.Type)
		ds := model.DataSource{
			Name:                            s.Name,
			Description:                     s.Description,
			SourceType:                      typ,
			APIURL:                          s.APIURL,
			XMLURL:                          s.XMLURL,
			DCATURL:                         s.DCATURL,
			FrequencyInDays:                 s.FrequencyInDays,
			Active:                          s.Active == nil || *s.Active,
			LicenseConditionDBOrCopyrighted: s.LicenseConditionDBOrCopyrighted,
			Emails:                          s.Emails,
		}
		if ds.FrequencyInDays == 0 {
			ds.FrequencyInDays = 1
		}
		if s.Organization != "" {
			id, ok := ids[s.Organization]
			if !ok {
				return saved, fmt.Errorf("source %q: unknown organization %q", s.Name, s.Organization)
			}
			ds.OrganizationID = &id
		}
		if ds.SourceURL() == "" {
			return saved, fmt.Errorf("source %q: missing url for type %s", s.Name, typ)
		}
		if err := sources.SaveDataSource(ctx, &ds); err != nil {
			return saved, fmt.Errorf("saving source %q: %w", s.Name, err)
		}
		saved = append(saved, ds)
	}
	return saved, nil
}

// WatchSources calls apply with the parsed file every time it is written,
// until ctx is done. The directory is watched so editors that replace
// the file are noticed too.
func WatchSources(ctx context.Context, path string, logger *zap.Logger, apply func(context.Context, *SourcesFile) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	name := filepath.Clean(path)
	logger = logging.OrNop(logger)

	reload := func() {
		f, err := LoadSources(path)
		if err != nil {
			logger.Error("reading sources failed", zap.String("path", path), zap.Error(err))
			return
		}
		if err := apply(ctx, f); err != nil {
			logger.Error("applying sources failed", zap.String("path", path), zap.Error(err))
			return
		}
		logger.Info("sources applied", zap.String("path", path), zap.Int("sources", len(f.Sources)))
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				reload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		case <-ctx.Done():
			return nil
		}
	}
}
