package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bnema/jobgate/internal/domain"
	"github.com/bnema/jobgate/internal/ports"
)

const (
	plansFileMode   = 0o600
	plansDirMode    = 0o700
	tempFilePattern = ".plans-*.toml.tmp"
)

// PlanRepository reads and writes the plan catalog as a TOML table. A missing file yields the
// built-in catalog.
type PlanRepository struct {
	plansPath string
	mu        *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.PlanCatalogRepository = (*PlanRepository)(nil)

func NewPlanRepository(path string) (*PlanRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("plans path is empty")
	}

	plansPath, err := normalizePlansPath(path)
	if err != nil {
		return nil, err
	}

	return &PlanRepository{plansPath: plansPath, mu: lockForPath(plansPath)}, nil
}

func (r *PlanRepository) Path() string {
	return r.plansPath
}

func (r *PlanRepository) Exists() bool {
	_, err := os.Stat(r.plansPath)
	return err == nil
}

func (r *PlanRepository) Load(ctx context.Context) (*domain.PlanCatalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, found, err := r.readSchema()
	if err != nil {
		return nil, err
	}
	if !found {
		return domain.DefaultPlanCatalog(), nil
	}

	tiers := make([]domain.PlanTier, 0, len(file.Plans))
	for _, entry := range file.Plans {
		tiers = append(tiers, fromSchema(entry))
	}

	catalog, err := domain.NewPlanCatalog(time.Duration(file.GracePeriodSeconds)*time.Second, tiers...)
	if err != nil {
		return nil, fmt.Errorf("build plan catalog from %s: %w", r.plansPath, err)
	}

	return catalog, nil
}

func (r *PlanRepository) Save(ctx context.Context, catalog *domain.PlanCatalog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if catalog == nil {
		return errors.New("plan catalog is nil")
	}

	file := fileSchema{GracePeriodSeconds: int(catalog.GracePeriod() / time.Second)}
	for _, tier := range catalog.Tiers() {
		file.Plans = append(file.Plans, toSchema(tier))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.writeSchema(file)
}

func (r *PlanRepository) readSchema() (fileSchema, bool, error) {
	data, err := os.ReadFile(r.plansPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, false, nil
		}
		return fileSchema{}, false, fmt.Errorf("read plans file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, false, fmt.Errorf("decode plans file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, false, err
	}
	file.applyDefaults()

	return file, true, nil
}

func (r *PlanRepository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.plansPath), plansDirMode); err != nil {
		return fmt.Errorf("create plans directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode plans file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.plansPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp plans file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp plans file: %w", err)
	}

	if err := tempFile.Chmod(plansFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp plans file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp plans file: %w", err)
	}

	if err := os.Rename(tempName, r.plansPath); err != nil {
		return fmt.Errorf("replace plans file: %w", err)
	}

	cleanup = false

	return nil
}

func toSchema(tier domain.PlanTier) planSchema {
	methods := tier.Methods.List()
	if tier.Methods.All() {
		methods = []string{allMethodsKeyword}
	}

	return planSchema{
		ID:                 string(tier.ID),
		MaxConcurrent:      tier.MaxConcurrent,
		MaxDurationSeconds: tier.MaxDurationSeconds,
		Methods:            methods,
	}
}

func fromSchema(entry planSchema) domain.PlanTier {
	methods := domain.NewMethodSet(entry.Methods...)
	for _, method := range entry.Methods {
		if domain.NormalizeMethod(method) == allMethodsKeyword {
			methods = domain.AllMethods()
			break
		}
	}

	return domain.PlanTier{
		ID:                 domain.PlanID(entry.ID),
		MaxConcurrent:      entry.MaxConcurrent,
		MaxDurationSeconds: entry.MaxDurationSeconds,
		Methods:            methods,
	}
}

func normalizePlansPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve plans path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}
