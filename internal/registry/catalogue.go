package registry

// Module ids of the built-in visual modules.
const (
	ModuleGradient = "gradient"
	ModuleRibbon   = "auroraRibbon"
	ModuleBloom    = "bloom"
	ModuleBlend    = "blend"
	ModuleMotion   = "motion"
	ModuleLFO      = "lfo1"
)

const (
	GradientHueTop     TargetID = "gradient.hueTop"
	GradientHueBottom  TargetID = "gradient.hueBottom"
	GradientSaturation TargetID = "gradient.saturation"
	GradientLightness  TargetID = "gradient.lightness"
	GradientHighlight  TargetID = "gradient.highlight"
	GradientHighlightX TargetID = "gradient.highlightX"
	GradientHighlightY TargetID = "gradient.highlightY"

	RibbonIntensity  TargetID = "auroraRibbon.intensity"
	RibbonDriftSpeed TargetID = "auroraRibbon.driftSpeed"
	RibbonCount      TargetID = "auroraRibbon.count"
	RibbonWidth      TargetID = "auroraRibbon.width"
	RibbonNoiseScale TargetID = "auroraRibbon.noiseScale"
	RibbonHue        TargetID = "auroraRibbon.hue"
	RibbonWarp       TargetID = "auroraRibbon.warp"

	BloomThreshold TargetID = "bloom.threshold"
	BloomIntensity TargetID = "bloom.intensity"
	BloomRadius    TargetID = "bloom.radius"

	BlendBrightness TargetID = "blend.brightness"
	BlendContrast   TargetID = "blend.contrast"
	BlendSaturation TargetID = "blend.saturation"
	BlendTrail      TargetID = "blend.trail"

	MotionSpeed    TargetID = "motion.speed"
	MotionTimeWarp TargetID = "motion.timeWarp"

	LFORate   TargetID = "lfo1.rate"
	LFODepth  TargetID = "lfo1.depth"
	LFOOffset TargetID = "lfo1.offset"
)

// DefaultTargets returns the built-in catalogue.
func DefaultTargets() []Target {
	return []Target{
		{ID: GradientHueTop, Label: "Top hue", Min: 0, Max: 360, Default: 222},
		{ID: GradientHueBottom, Label: "Bottom hue", Min: 0, Max: 360, Default: 284},
		{ID: GradientSaturation, Label: "Saturation", Min: 0, Max: 1, Default: 0.62},
		{ID: GradientLightness, Label: "Lightness", Min: 0.04, Max: 0.9, Default: 0.28},
		{ID: GradientHighlight, Label: "Highlight", Min: 0, Max: 1, Default: 0.45},
		{ID: GradientHighlightX, Label: "Highlight X", Min: 0, Max: 1, Default: 0.5},
		{ID: GradientHighlightY, Label: "Highlight Y", Min: 0, Max: 1, Default: 0.3},

		{ID: RibbonIntensity, Label: "Intensity", Min: 0, Max: 1, Default: 0.7},
		{ID: RibbonDriftSpeed, Label: "Drift speed", Min: 0.05, Max: 1.5, Default: 0.26, Curve: Exponential},
		{ID: RibbonCount, Label: "Bands", Min: 1, Max: 6, Default: 3},
		{ID: RibbonWidth, Label: "Width", Min: 0.02, Max: 0.4, Default: 0.12},
		{ID: RibbonNoiseScale, Label: "Noise scale", Min: 0.5, Max: 6, Default: 1.8, Curve: Exponential},
		{ID: RibbonHue, Label: "Hue", Min: 0, Max: 360, Default: 152},
		{ID: RibbonWarp, Label: "Warp", Min: 0, Max: 1, Default: 0.35},

		{ID: BloomThreshold, Label: "Threshold", Min: 0, Max: 1, Default: 0.6},
		{ID: BloomIntensity, Label: "Intensity", Min: 0, Max: 2, Default: 0.55},
		{ID: BloomRadius, Label: "Radius", Min: 1, Max: 32, Default: 8, Curve: Exponential},

		{ID: BlendBrightness, Label: "Brightness", Min: 0.25, Max: 4, Default: 1, Curve: Exponential},
		{ID: BlendContrast, Label: "Contrast", Min: 0.5, Max: 2, Default: 1},
		{ID: BlendSaturation, Label: "Saturation", Min: 0, Max: 2, Default: 1},
		{ID: BlendTrail, Label: "Trail", Min: 0, Max: 0.95, Default: 0.2},

		{ID: MotionSpeed, Label: "Global speed", Min: 0.05, Max: 4, Default: 1, Curve: Exponential},
		{ID: MotionTimeWarp, Label: "Time warp", Min: -30, Max: 30, Default: 0},

		{ID: LFORate, Label: "Rate", Min: 0.02, Max: 8, Default: 0.25, Curve: Exponential},
		{ID: LFODepth, Label: "Depth", Min: 0, Max: 1, Default: 1},
		{ID: LFOOffset, Label: "Offset", Min: -1, Max: 1, Default: 0},
	}
}
