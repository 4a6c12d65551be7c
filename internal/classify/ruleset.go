package classify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/medassort/taxon/internal/model"
)

// ruleFile is the on-disk shape of a rule set. Rule order in the file is
// evaluation order.
type ruleFile struct {
	Rules []model.Rule `yaml:"rules"`
}

// LoadRules reads an ordered rule list from a YAML file. Rule sets are
// versioned alongside code; this loader exists so deployments can pin a
// reviewed file instead of the embedded defaults.
func LoadRules(path string) ([]model.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}

	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse rule file %s: %w", path, err)
	}

	if len(rf.Rules) == 0 {
		return nil, fmt.Errorf("rule file %s contains no rules", path)
	}

	return rf.Rules, nil
}
