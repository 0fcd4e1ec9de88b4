package seed

import (
	_ "embed"
	"fmt"

	"bourse/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed builtin_communities.yaml
var builtinCommunitiesYAML []byte

// BuiltInCommunity is a permanent system community defined in
// builtin_communities.yaml.
type BuiltInCommunity struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	IsPrivate   bool   `yaml:"is_private"`
}

type builtinFile struct {
	Communities []BuiltInCommunity `yaml:"communities"`
}

// BuiltInCommunities parses the embedded community definitions.
func BuiltInCommunities() ([]BuiltInCommunity, error) {
	var file builtinFile
	if err := yaml.Unmarshal(builtinCommunitiesYAML, &file); err != nil {
		return nil, fmt.Errorf("parse built-in communities: %w", err)
	}
	if len(file.Communities) == 0 {
		return nil, fmt.Errorf("no built-in communities defined")
	}
	return file.Communities, nil
}

// Communities seeds the permanent built-in communities. Re-running is safe:
// existing rows are updated in place by name.
func Communities(db *gorm.DB) error {
	items, err := BuiltInCommunities()
	if err != nil {
		return err
	}

	for _, item := range items {
		community := models.Community{
			Name:        item.Name,
			Description: item.Description,
			IsPrivate:   item.IsPrivate,
		}

		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"description", "is_private", "updated_at"}),
		}).Create(&community).Error
		if err != nil {
			return fmt.Errorf("seed built-in community %s: %w", item.Name, err)
		}
	}

	return nil
}
