// Package ruleset loads the declarative rule configuration: layer
// assignments, the allowed layer adjacency table, and the numeric thresholds
// the rule engine and cycle detector interpret. The engine is an interpreter
// over these tables, not a chain of hard-coded conditionals.
package ruleset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"archscope/internal/metrics"
)

// Rule identifiers recognized in rule_order
const (
	RuleLayerAccess        = "layer-access"
	RuleGodObject          = "god-object"
	RuleUnstableDependency = "unstable-dependency"
)

// LayerEdge is one allowed (from, to) pair of the layer adjacency table
type LayerEdge struct {
	From string `yaml:"from" toml:"from" json:"from"`
	To   string `yaml:"to" toml:"to" json:"to"`
}

// RuleSet is the complete rule configuration
type RuleSet struct {
	// Layers maps a logical layer name to type-name patterns ('*' glob)
	Layers map[string][]string `yaml:"layers" toml:"layers" json:"layers,omitempty"`

	// AllowedLayerEdges is the allowed layer adjacency table
	AllowedLayerEdges []LayerEdge `yaml:"allowed_layer_edges" toml:"allowed_layer_edges" json:"allowedLayerEdges,omitempty"`

	GodObjectMethodThreshold int `yaml:"god_object_method_threshold" toml:"god_object_method_threshold" json:"godObjectMethodThreshold"`
	GodObjectFieldThreshold  int `yaml:"god_object_field_threshold" toml:"god_object_field_threshold" json:"godObjectFieldThreshold"`
	GodObjectSizeThreshold   int `yaml:"god_object_size_threshold" toml:"god_object_size_threshold" json:"godObjectSizeThreshold"`
	GodPackageTypeThreshold  int `yaml:"god_package_type_threshold" toml:"god_package_type_threshold" json:"godPackageTypeThreshold"`

	StrongEdgeOccurrenceThreshold   int `yaml:"strong_edge_occurrence_threshold" toml:"strong_edge_occurrence_threshold" json:"strongEdgeOccurrenceThreshold"`
	ModerateEdgeOccurrenceThreshold int `yaml:"moderate_edge_occurrence_threshold" toml:"moderate_edge_occurrence_threshold" json:"moderateEdgeOccurrenceThreshold"`

	// ContainerTypes override the recognized multi-element containers
	ContainerTypes []string `yaml:"container_types" toml:"container_types" json:"containerTypes,omitempty"`

	// RuleOrder fixes the evaluation order of the rule engine
	RuleOrder []string `yaml:"rule_order" toml:"rule_order" json:"ruleOrder,omitempty"`
}

// Default returns the rule set used when no configuration file is supplied.
func Default() *RuleSet {
	return &RuleSet{
		GodObjectMethodThreshold:        50,
		GodObjectFieldThreshold:         30,
		GodObjectSizeThreshold:          2000,
		GodPackageTypeThreshold:         30,
		StrongEdgeOccurrenceThreshold:   50,
		ModerateEdgeOccurrenceThreshold: 20,
		RuleOrder: []string{
			RuleLayerAccess,
			RuleGodObject,
			RuleUnstableDependency,
		},
	}
}

// Load reads a rule set from a YAML or TOML file, selected by extension.
// Unset thresholds fall back to defaults.
func Load(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule set %s: %w", path, err)
	}

	rs := &RuleSet{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, rs); err != nil {
			return nil, fmt.Errorf("failed to parse rule set %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, rs); err != nil {
			return nil, fmt.Errorf("failed to parse rule set %s: %w", path, err)
		}
	}

	rs.applyDefaults()
	return rs, nil
}

func (rs *RuleSet) applyDefaults() {
	def := Default()
	if rs.GodObjectMethodThreshold <= 0 {
		rs.GodObjectMethodThreshold = def.GodObjectMethodThreshold
	}
	if rs.GodObjectFieldThreshold <= 0 {
		rs.GodObjectFieldThreshold = def.GodObjectFieldThreshold
	}
	if rs.GodObjectSizeThreshold <= 0 {
		rs.GodObjectSizeThreshold = def.GodObjectSizeThreshold
	}
	if rs.GodPackageTypeThreshold <= 0 {
		rs.GodPackageTypeThreshold = def.GodPackageTypeThreshold
	}
	if rs.StrongEdgeOccurrenceThreshold <= 0 {
		rs.StrongEdgeOccurrenceThreshold = def.StrongEdgeOccurrenceThreshold
	}
	if rs.ModerateEdgeOccurrenceThreshold <= 0 {
		rs.ModerateEdgeOccurrenceThreshold = def.ModerateEdgeOccurrenceThreshold
	}
	if len(rs.RuleOrder) == 0 {
		rs.RuleOrder = def.RuleOrder
	}
}

// Thresholds converts the occurrence cutoffs into strength thresholds for
// the metrics and cycle packages.
func (rs *RuleSet) Thresholds() metrics.Thresholds {
	return metrics.Thresholds{
		ModerateEdgeScore: float64(rs.ModerateEdgeOccurrenceThreshold),
		StrongEdgeScore:   float64(rs.StrongEdgeOccurrenceThreshold),
	}
}
