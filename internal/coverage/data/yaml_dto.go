package data

// zonesFileDTO mirrors zones.yaml.
type zonesFileDTO struct {
	Current []zoneGroupDTO `yaml:"current"`
	Planned []zoneGroupDTO `yaml:"planned"`
}

type zoneGroupDTO struct {
	Zone    string         `yaml:"zone"`
	Entries []zoneEntryDTO `yaml:"entries"`
}

// zoneEntryDTO keeps the bounds untyped so a malformed row can be skipped
// instead of failing the whole file.
type zoneEntryDTO struct {
	Street string `yaml:"street"`
	From   any    `yaml:"from"`
	To     any    `yaml:"to"`
}

// overlaysFileDTO mirrors overlays.yaml.
type overlaysFileDTO struct {
	DefaultView viewDTO      `yaml:"default_view"`
	Overlays    []overlayDTO `yaml:"overlays"`
}

type viewDTO struct {
	Center []float64 `yaml:"center"`
	Zoom   int       `yaml:"zoom"`
}

type overlayDTO struct {
	ID       string      `yaml:"id"`
	Label    string      `yaml:"label"`
	Kind     string      `yaml:"kind"`
	Vertices [][]float64 `yaml:"vertices"`
}
