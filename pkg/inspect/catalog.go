package inspect

import (
	"github.com/vango-dev/frametree/pkg/construct"
)

// ComponentInfo describes one registered component.
type ComponentInfo struct {
	Name       string      `json:"name"`
	GoType     string      `json:"goType"`
	Parameters []ParamInfo `json:"parameters"`
}

// ParamInfo describes one declared parameter.
type ParamInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Capture  bool   `json:"capture,omitempty"`
}

// Catalog lists the components registered in reg, sorted by name.
func Catalog(reg *construct.Registry) []ComponentInfo {
	names := reg.Names()
	out := make([]ComponentInfo, 0, len(names))
	for _, name := range names {
		t, ok := reg.Lookup(name)
		if !ok {
			continue
		}
		info := ComponentInfo{
			Name:       name,
			GoType:     t.Params.Name,
			Parameters: []ParamInfo{},
		}
		capture := t.Params.Capture()
		for _, p := range t.Params.Parameters() {
			info.Parameters = append(info.Parameters, ParamInfo{
				Name:     p.Name,
				Type:     p.Type.String(),
				Category: p.Category.String(),
				Capture:  p == capture,
			})
		}
		out = append(out, info)
	}
	return out
}
