package story

// Pose is a character's interpolated placement at one instant.
type Pose struct {
	X, Y  float64
	Scale float64
}

// poseAt linearly interpolates between the two keyframes surrounding atMS.
// Before the first keyframe the pose clamps to it; after the last, likewise.
// Keyframes arrive sorted by the manifest loader.
func poseAt(kfs []Keyframe, atMS int) Pose {
	if len(kfs) == 0 {
		return Pose{Scale: 1}
	}
	if atMS <= kfs[0].AtMS {
		return pose(kfs[0])
	}
	last := kfs[len(kfs)-1]
	if atMS >= last.AtMS {
		return pose(last)
	}
	i := 1
	for kfs[i].AtMS < atMS {
		i++
	}
	a, b := kfs[i-1], kfs[i]
	span := b.AtMS - a.AtMS
	u := 0.0
	if span > 0 {
		u = float64(atMS-a.AtMS) / float64(span)
	}
	return Pose{
		X:     lerp(a.X, b.X, u),
		Y:     lerp(a.Y, b.Y, u),
		Scale: lerp(a.Scale, b.Scale, u),
	}
}

func pose(k Keyframe) Pose {
	return Pose{X: k.X, Y: k.Y, Scale: k.Scale}
}

func lerp(a, b, u float64) float64 {
	return a + (b-a)*u
}
