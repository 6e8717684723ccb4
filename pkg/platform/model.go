package platform

// Model identifies a supported ZX Spectrum-family configuration. Resolved at
// configuration load time — spec.md's Open Question about ROM-page-count
// constants is settled here rather than in any hot path.
type Model struct {
	Name string

	// ROMPages is the number of 16KB ROM pages this model ships (1 for 48K,
	// 2 for 128K, 4 for Pentagon and +3).
	ROMPages int

	// RAMPages is the number of 16KB RAM pages addressable via port_7FFD
	// (and port_1FFD on +3).
	RAMPages int

	// Has1FFD reports whether the +3-style secondary paging port exists.
	Has1FFD bool

	// PaperTopLine and PaperColumns bound the visible "paper" area used by
	// RunUntilNextScreenPixel.
	PaperTopLine  int
	PaperColumns  int
	ScanlineTotal int
}

// Models is indexed by the same platform name PlatformTimings uses.
var Models = map[string]Model{
	"spectrum": {Name: "Spectrum 48K", ROMPages: 1, RAMPages: 4, PaperTopLine: 64, PaperColumns: 256, ScanlineTotal: 312},
	"zxspectrum": {Name: "Spectrum 48K", ROMPages: 1, RAMPages: 4, PaperTopLine: 64, PaperColumns: 256, ScanlineTotal: 312},
	"spectrum128": {Name: "Spectrum 128K", ROMPages: 2, RAMPages: 8, PaperTopLine: 63, PaperColumns: 256, ScanlineTotal: 311},
	"spectrum3": {Name: "Spectrum +3", ROMPages: 4, RAMPages: 8, Has1FFD: true, PaperTopLine: 63, PaperColumns: 256, ScanlineTotal: 311},
	"pentagon": {Name: "Pentagon 128", ROMPages: 4, RAMPages: 8, PaperTopLine: 80, PaperColumns: 256, ScanlineTotal: 320},
	"scorpion": {Name: "Scorpion ZS-256", ROMPages: 4, RAMPages: 16, PaperTopLine: 64, PaperColumns: 256, ScanlineTotal: 312},
}

// ResolveModel looks up a model by name, falling back to 48K Spectrum.
func ResolveModel(name string) Model {
	if m, ok := Models[name]; ok {
		return m
	}
	return Models["spectrum"]
}

// ContentionSchedule returns the additional T-states the ULA imposes on a
// contended memory access at (line, pixelInLine), per spec.md §4.2.
// Bank 1 (0x4000-0x7FFF) is contended on models with HasContention on
// PlatformTimings during the active display portion of a scanline.
func ContentionSchedule(platformName string, line, pixelInLine int) int {
	timing, ok := PlatformTimings[platformName]
	if !ok || !timing.HasContention {
		return 0
	}
	model := ResolveModel(platformName)
	if line < model.PaperTopLine || line >= model.PaperTopLine+192 {
		return 0
	}
	if pixelInLine < 0 || pixelInLine >= 128 {
		return 0
	}
	// Classic contention pattern repeats every 8 T-states: 6,5,4,3,2,1,0,0.
	pattern := [8]int{6, 5, 4, 3, 2, 1, 0, 0}
	return pattern[pixelInLine%8]
}
