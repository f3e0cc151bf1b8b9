package render

// EffectKind discriminates the visual effect variants.
type EffectKind string

const (
	EffectNone        EffectKind = "none"
	EffectPanZoom     EffectKind = "pan-zoom"
	EffectTransition  EffectKind = "transition"
	EffectSplitScreen EffectKind = "split-screen"
)

// PanZoomParams describes a Ken Burns style pan and zoom over a still
// image. Scale and crop-window center are interpolated linearly over the
// clip's duration; coordinates are normalized to [0,1].
type PanZoomParams struct {
	StartScale float64
	EndScale   float64
	StartCX    float64
	StartCY    float64
	EndCX      float64
	EndCY      float64
}

// DefaultPanZoom is the pan/zoom applied to Ken Burns image segments:
// a slow push from full frame to 1.2x, drifting toward the upper left.
func DefaultPanZoom() PanZoomParams {
	return PanZoomParams{
		StartScale: 1.0,
		EndScale:   1.2,
		StartCX:    0.5,
		StartCY:    0.5,
		EndCX:      0.4,
		EndCY:      0.4,
	}
}

// TransitionParams describes how a clip blends with its neighbors.
type TransitionParams struct {
	Type     string // "fade" or "crossfade"
	Duration float64
}

// SplitParams describes a side-by-side or stacked two-clip layout.
type SplitParams struct {
	Orientation string // "horizontal" or "vertical"
}

// VisualEffect is a tagged variant; exactly the field matching Kind is
// set. Keeping effect parameters as plain data lets plans be inspected
// and tested without touching any media backend.
type VisualEffect struct {
	Kind       EffectKind
	PanZoom    *PanZoomParams
	Transition *TransitionParams
	Split      *SplitParams
}

// NoEffect returns the none variant.
func NoEffect() VisualEffect {
	return VisualEffect{Kind: EffectNone}
}
