package mapping

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Overrides is the YAML shape of a mapping-overrides file. Entries merge
// on top of the built-in table; built-ins are never removed, only
// shadowed or extended.
type Overrides struct {
	TableRenames      map[string]map[string]string `yaml:"table_renames"`
	GlobalRenames     map[string]string            `yaml:"global_renames"`
	CoverageOverrides []Override                   `yaml:"coverage_overrides"`
	Ignore            []string                     `yaml:"ignore"`
}

// Load builds the mapping table from the built-in data plus an optional
// overrides file. An empty path returns the defaults.
func Load(path string) (*Table, error) {
	t := Default()
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "mapping: read overrides file")
	}
	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, eris.Wrap(err, "mapping: decode overrides file")
	}

	t.merge(o)
	return t, nil
}

func (t *Table) merge(o Overrides) {
	for tbl, m := range o.TableRenames {
		tbl = normalizeTable(tbl)
		dst, ok := t.tableRename[tbl]
		if !ok {
			dst = make(map[string]string, len(m))
			t.tableRename[tbl] = dst
		}
		for k, v := range m {
			dst[k] = v
		}
	}
	for k, v := range o.GlobalRenames {
		t.global[k] = v
	}
	for _, ov := range o.CoverageOverrides {
		ov.Table = normalizeTable(ov.Table)
		t.overrides = append(t.overrides, ov)
	}
	for _, f := range o.Ignore {
		t.ignore[f] = true
	}
}
