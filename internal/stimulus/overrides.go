package stimulus

import (
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/mthomasen/stimuli-cli/internal/model"
)

// Overrides maps item_id to a replacement display name. Keys refer to the
// post-shuffle identifier, so the map only makes sense for one specific
// seed + snapshot combination.
type Overrides map[int]string

// DefaultOverrides fixes the garbled catalog names observed in the released
// stimulus set. Applies only to the canonical seed-637 build.
var DefaultOverrides = Overrides{
	20:  "Tun på dåse",
	22:  "Hvidløg",
	47:  "Rustikki Bread Sticks Blå Birkes",
	54:  "Skyr med frugt",
	61:  "ØGO Hvedemel",
	68:  "Økologisk kakao soya drik",
	76:  "Yalla! Drikkeyoghurt, Jordbær & granatæble laktosefri",
	78:  "Cocio classic chokolademælk",
	105: "Hvidløgsdressing",
	120: "Burger boller",
	150: "Frisk rødkål",
}

// LoadOverrides reads an item_id → name map from a YAML file.
func LoadOverrides(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "stimulus: read overrides %s", path)
	}

	var wrapper struct {
		Overrides map[int]string `yaml:"overrides"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "stimulus: parse overrides")
	}
	if wrapper.Overrides == nil {
		return nil, eris.New("stimulus: overrides file has no overrides key")
	}
	return Overrides(wrapper.Overrides), nil
}

// Apply substitutes display names wherever an item_id matches. Pure with
// respect to every other attribute and idempotent: reapplying the same map
// is a no-op. Unmatched keys are returned sorted so the caller can flag
// configuration drift without failing the build.
func (o Overrides) Apply(items []model.StimulusItem) (applied int, unmatched []int) {
	byID := make(map[int]int, len(items))
	for i, it := range items {
		byID[it.ItemID] = i
	}

	for id, name := range o {
		idx, ok := byID[id]
		if !ok {
			unmatched = append(unmatched, id)
			continue
		}
		if items[idx].Name != name {
			items[idx].Name = name
		}
		applied++
	}

	sort.Ints(unmatched)
	return applied, unmatched
}
