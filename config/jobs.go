package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/devyboy/scraper-plus-plus/models"
)

// JobSeed is the YAML shape of a job definition file. Seeds exist so
// deployments can provision jobs without the account-management surface;
// the store keeps ownership of the record once inserted.
type JobSeed struct {
	ID         string `yaml:"id"`
	SourceURL  string `yaml:"source_url"`
	SheetRef   string `yaml:"sheet_ref"`
	OwnerEmail string `yaml:"owner_email"`
	SyncMode   string `yaml:"sync_mode"`
	Active     *bool  `yaml:"active"`
}

// LoadJobSeeds reads every .yaml file under dir and returns job records
// ready for insertion. A missing directory is not an error.
func LoadJobSeeds(dir string) ([]models.Job, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var jobs []models.Job
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		var seed JobSeed
		if err := yaml.Unmarshal(data, &seed); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}

		job, err := seed.toJob()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

func (s *JobSeed) toJob() (models.Job, error) {
	if s.SourceURL == "" {
		return models.Job{}, fmt.Errorf("source_url is required")
	}

	mode := models.SyncMode(s.SyncMode)
	switch mode {
	case "":
		mode = models.SyncModeAppendOnly
	case models.SyncModeAppendOnly, models.SyncModeFullReplace:
	default:
		return models.Job{}, fmt.Errorf("unknown sync_mode: %s", s.SyncMode)
	}

	id := s.ID
	if id == "" {
		id = uuid.New().String()
	}

	active := true
	if s.Active != nil {
		active = *s.Active
	}

	return models.Job{
		ID:         id,
		SourceURL:  s.SourceURL,
		SheetRef:   s.SheetRef,
		Active:     active,
		Status:     models.JobStatusIdle,
		SyncMode:   mode,
		OwnerEmail: s.OwnerEmail,
	}, nil
}
