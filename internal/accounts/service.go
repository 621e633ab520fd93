package accounts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cleared-dev/finsynth/internal/model"
)

// ChartPath is where a project keeps its chart of accounts.
const ChartPath = "accounts/chart-of-accounts.csv"

// Service provides in-memory lookup over a chart of accounts.
type Service struct {
	accounts []model.Account
	byCode   map[string]model.Account
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []model.Account) *Service {
	byCode := make(map[string]model.Account, len(accounts))
	for _, a := range accounts {
		byCode[a.Code] = a
	}
	return &Service{accounts: accounts, byCode: byCode}
}

// Load reads a chart-of-accounts CSV and returns a Service.
func Load(path string) (*Service, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewService(accts), nil
}

// All returns all accounts.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Get returns an account by code.
func (s *Service) Get(code string) (model.Account, bool) {
	a, ok := s.byCode[code]
	return a, ok
}

// Exists reports whether an account code exists.
func (s *Service) Exists(code string) bool {
	_, ok := s.byCode[code]
	return ok
}

// Classifier returns a Classifier that prefers this chart over the
// standard one.
func (s *Service) Classifier() *Classifier {
	return NewClassifier(s.accounts)
}

// Save writes the chart to ChartPath under root.
func (s *Service) Save(root string) error {
	dir := filepath.Join(root, filepath.Dir(ChartPath))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(filepath.Join(root, ChartPath))
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}
