package common

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"wallet-ledger-go/internal/models"

	"gopkg.in/yaml.v2"
)

var colorCodeRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

type CategoriesConfig struct {
	Categories []models.CategorySeed `yaml:"categories"`
}

// DefaultCategorySeeds is used when no categories file is present.
func DefaultCategorySeeds() []models.CategorySeed {
	return []models.CategorySeed{
		{Name: "Alimentação", ColorCode: "#FF6B6B"},
		{Name: "Transporte", ColorCode: "#4ECDC4"},
		{Name: "Moradia", ColorCode: "#45B7D1"},
		{Name: "Saúde", ColorCode: "#96CEB4"},
		{Name: "Lazer", ColorCode: "#FFEAA7"},
		{Name: "Salário", ColorCode: "#2ECC71"},
		{Name: "Outros", ColorCode: "#B2BEC3"},
	}
}

// LoadCategorySeeds reads the categories every new user starts with.
// Relative paths are resolved against the working directory.
func LoadCategorySeeds(categoriesFile string) ([]models.CategorySeed, error) {
	path := categoriesFile
	if !filepath.IsAbs(path) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		path = filepath.Join(wd, categoriesFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", categoriesFile, err)
	}

	var config CategoriesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", categoriesFile, err)
	}

	seen := make(map[string]bool, len(config.Categories))
	for i, category := range config.Categories {
		if category.Name == "" {
			return nil, fmt.Errorf("category at index %d missing name", i)
		}
		if !colorCodeRegex.MatchString(category.ColorCode) {
			return nil, fmt.Errorf("category %q has invalid color code %q", category.Name, category.ColorCode)
		}
		if seen[category.Name] {
			return nil, fmt.Errorf("category %q listed twice", category.Name)
		}
		seen[category.Name] = true
	}

	return config.Categories, nil
}
