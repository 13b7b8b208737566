package scenario

// mainScenarios は例外処理デモ本体の順番
var mainScenarios = []string{
	"unguarded-division",
	"guarded-division",
	"multiple-handlers",
	"handler-ordering",
	"nested-regions",
	"nested-call",
	"throw-rethrow",
	"declared-fault",
	"cleanup",
}

var extraScenarios = []string{
	"custom-fault",
	"propagation",
	"declared-propagation",
}

// MainPreset は例外処理デモ本体の9シナリオを返す
func MainPreset() Config {
	return Config{
		Name:        "main",
		Description: "Guarded regions, handlers, rethrow, declared faults and cleanup",
		Scenarios:   append([]string(nil), mainScenarios...),
	}
}

// ExtrasPreset は独自障害と伝播のシナリオを返す
func ExtrasPreset() Config {
	return Config{
		Name:        "extras",
		Description: "Custom fault, propagation through calls, declared fault propagation",
		Scenarios:   append([]string(nil), extraScenarios...),
	}
}

// AllPreset は main と extras を順に実行する
func AllPreset() Config {
	scenarios := append([]string(nil), mainScenarios...)
	scenarios = append(scenarios, extraScenarios...)
	return Config{
		Name:        "all",
		Description: "Every scenario in catalogue order",
		Scenarios:   scenarios,
	}
}

// PresetInfo はプリセットの名前と説明
type PresetInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GetPreset は名前からプリセットを取得する
func GetPreset(name string) (Config, bool) {
	presets := map[string]func() Config{
		"main":   MainPreset,
		"extras": ExtrasPreset,
		"all":    AllPreset,
	}

	if fn, ok := presets[name]; ok {
		return fn(), true
	}
	return Config{}, false
}

// ListPresets は利用可能なプリセット名を返す
func ListPresets() []string {
	return []string{"main", "extras", "all"}
}

// Presets は全プリセットの説明を返す
func Presets() []PresetInfo {
	var out []PresetInfo
	for _, name := range ListPresets() {
		cfg, _ := GetPreset(name)
		out = append(out, PresetInfo{Name: cfg.Name, Description: cfg.Description})
	}
	return out
}
