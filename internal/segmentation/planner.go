package segmentation

import "math"

const (
	shortClipSeconds  = 30
	mediumClipSeconds = 180
	longClipSeconds   = 600

	maxSamples     = 30
	longClipBudget = 5
)

// SampleInterval returns the adaptive spacing in seconds between sampled
// frames for a clip of the given duration.
func SampleInterval(duration float64) float64 {
	switch {
	case duration <= shortClipSeconds:
		return 2
	case duration <= mediumClipSeconds:
		return math.Max(5, math.Floor(duration/20))
	default:
		return math.Max(15, math.Floor(duration/30))
	}
}

// PlanSamples computes the ordered timestamps to sample from a clip. The
// count is capped at 30 frames overall and at 5 for clips over ten minutes,
// and every timestamp is pulled half a second inside the end of the clip so
// extraction never lands past the last frame.
func PlanSamples(duration float64) []float64 {
	if duration <= 0 {
		return nil
	}

	interval := SampleInterval(duration)
	count := int(math.Min(maxSamples, math.Ceil(duration/interval)))
	if duration > longClipSeconds && count > longClipBudget {
		count = longClipBudget
	}

	timestamps := make([]float64, 0, count)
	for i := 0; i < count; i++ {
		timestamps = append(timestamps, math.Min(float64(i)*interval, duration-0.5))
	}
	return timestamps
}
