package service

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/pesio-ai/be-contracts/internal/lifecycle"
	"github.com/pesio-ai/be-contracts/internal/logger"
	"github.com/pesio-ai/be-contracts/internal/repository"
	"github.com/pesio-ai/be-contracts/internal/validation"
)

//go:embed sample_data.yaml
var sampleCatalog []byte

type sampleData struct {
	Blueprints []sampleBlueprint `yaml:"blueprints"`
	Contracts  []sampleContract  `yaml:"contracts"`
}

type sampleBlueprint struct {
	Name   string             `yaml:"name"`
	Fields []repository.Field `yaml:"fields"`
}

type sampleContract struct {
	Name           string         `yaml:"name"`
	Blueprint      string         `yaml:"blueprint"`
	Status         string         `yaml:"status"`
	CreatedDaysAgo int            `yaml:"created_days_ago"`
	UpdatedDaysAgo int            `yaml:"updated_days_ago"`
	Values         map[string]any `yaml:"values"`
}

// SampleDataSeeder fills an empty store with demonstration records.
type SampleDataSeeder struct {
	blueprintRepo *repository.BlueprintRepository
	contractRepo  *repository.ContractRepository
	log           *logger.Logger
	now           func() time.Time
}

// NewSampleDataSeeder creates a seeder over the two repositories.
func NewSampleDataSeeder(
	blueprintRepo *repository.BlueprintRepository,
	contractRepo *repository.ContractRepository,
	log *logger.Logger,
) *SampleDataSeeder {
	return &SampleDataSeeder{
		blueprintRepo: blueprintRepo,
		contractRepo:  contractRepo,
		log:           log,
		now:           time.Now,
	}
}

// Seed writes the embedded catalog when both blueprints and contracts are
// empty. It reports whether anything was written.
func (s *SampleDataSeeder) Seed(ctx context.Context) (bool, error) {
	blueprints, err := s.blueprintRepo.List(ctx)
	if err != nil {
		return false, err
	}
	contracts, err := s.contractRepo.List(ctx)
	if err != nil {
		return false, err
	}
	if len(blueprints) > 0 || len(contracts) > 0 {
		return false, nil
	}

	newBlueprints, newContracts, err := buildSampleData(sampleCatalog, s.now().UTC())
	if err != nil {
		return false, err
	}

	if err := s.blueprintRepo.ReplaceAll(ctx, newBlueprints); err != nil {
		return false, err
	}
	if err := s.contractRepo.ReplaceAll(ctx, newContracts); err != nil {
		return false, err
	}

	s.log.Info().
		Int("blueprints", len(newBlueprints)).
		Int("contracts", len(newContracts)).
		Msg("Sample data loaded")

	return true, nil
}

func buildSampleData(raw []byte, now time.Time) ([]*repository.Blueprint, []*repository.Contract, error) {
	var data sampleData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, nil, fmt.Errorf("failed to parse sample catalog: %w", err)
	}

	byName := make(map[string]*repository.Blueprint, len(data.Blueprints))
	blueprints := make([]*repository.Blueprint, 0, len(data.Blueprints))
	for _, sb := range data.Blueprints {
		if msgs := validation.ValidateBlueprint(sb.Name, sb.Fields); len(msgs) > 0 {
			return nil, nil, fmt.Errorf("sample blueprint %q: %s", sb.Name, strings.Join(msgs, "; "))
		}
		fields := make([]repository.Field, len(sb.Fields))
		for i, f := range sb.Fields {
			f.ID = uuid.NewString()
			fields[i] = f
		}
		bp := &repository.Blueprint{
			ID:        uuid.NewString(),
			Name:      sb.Name,
			Fields:    fields,
			CreatedAt: now,
			UpdatedAt: now,
		}
		byName[bp.Name] = bp
		blueprints = append(blueprints, bp)
	}

	contracts := make([]*repository.Contract, 0, len(data.Contracts))
	for _, sc := range data.Contracts {
		bp, ok := byName[sc.Blueprint]
		if !ok {
			return nil, nil, fmt.Errorf("sample contract %q: unknown blueprint %q", sc.Name, sc.Blueprint)
		}
		status, err := lifecycle.ParseStatus(sc.Status)
		if err != nil {
			return nil, nil, fmt.Errorf("sample contract %q: %w", sc.Name, err)
		}

		labels := make(map[string]string, len(bp.Fields))
		for _, f := range bp.Fields {
			labels[f.Label] = f.ID
		}
		values := make(map[string]any, len(sc.Values))
		for label, v := range sc.Values {
			id, ok := labels[label]
			if !ok {
				return nil, nil, fmt.Errorf("sample contract %q: unknown field %q", sc.Name, label)
			}
			values[id] = v
		}

		contracts = append(contracts, &repository.Contract{
			ID:            uuid.NewString(),
			Name:          sc.Name,
			BlueprintID:   bp.ID,
			BlueprintName: bp.Name,
			FieldValues:   values,
			Status:        status,
			CreatedAt:     now.AddDate(0, 0, -sc.CreatedDaysAgo),
			UpdatedAt:     now.AddDate(0, 0, -sc.UpdatedDaysAgo),
		})
	}

	return blueprints, contracts, nil
}
